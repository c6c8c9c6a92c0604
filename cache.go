// cache.go: per-writer write-combining cache
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xantos

import (
	"strings"
	"sync"
	"sync/atomic"
)

// cacheSlot holds one buffered write until it is flushed into a bucket.
// The key is cloned on record so the slot never aliases caller-owned
// backing memory; a cleared slot has an empty key.
type cacheSlot struct {
	key   string
	value uint32
}

// threadCache is the bounded write-combining buffer behind one Writer
// lease. It has its own lock because a cache can be drained by a thread
// other than its owner: any reader running under VisibilityFlushAll walks
// the registry and flushes every cache it finds.
type threadCache struct {
	mu    sync.Mutex
	slots []cacheSlot
	count int
	dirty bool

	// registered is guarded by the registry lock, not mu.
	registered bool

	// retired is set once the lease is released or the table torn down.
	retired int32
}

func newThreadCache(slots int) *threadCache {
	return &threadCache{
		slots: make([]cacheSlot, slots),
	}
}

// record buffers one write. If the cache is full it is drained first.
// The cache lock is released before that drain: flush takes the same lock
// itself, and holding it across the flush would also pin the lock while
// bucket locks are acquired, which the lock ordering forbids.
func (c *threadCache) record(t *shardedTable, key string, value uint32) {
	c.mu.Lock()
	if c.count == len(c.slots) {
		c.mu.Unlock()
		c.flush(t)
		c.mu.Lock()
	}

	// Clone detaches the stored key from the caller's backing array, the
	// same reason a copy is taken before any key outlives its caller.
	c.slots[c.count] = cacheSlot{key: strings.Clone(key), value: value}
	c.count++
	c.dirty = true
	c.mu.Unlock()
}

// flush drains the cache into t's buckets, slot by slot. Exactly one
// bucket lock is held at any moment, and never together with another
// cache's lock, so concurrent flushes of different caches cannot deadlock.
// Cleared slots are skipped. Safe to call on an empty or retired cache.
func (c *threadCache) flush(t *shardedTable) {
	c.mu.Lock()
	if !c.dirty {
		c.mu.Unlock()
		return
	}

	start := t.time.Now()
	flushed := 0
	for i := 0; i < c.count; i++ {
		slot := &c.slots[i]
		if slot.key == "" {
			continue
		}

		b := t.bucketFor(slot.key)
		b.mu.Lock()
		t.upsertLocked(b, slot.key, slot.value)
		b.mu.Unlock()

		*slot = cacheSlot{}
		flushed++
	}

	c.count = 0
	c.dirty = false
	c.mu.Unlock()

	atomic.AddInt64(&t.flushes, 1)
	atomic.AddInt64(&t.flushedEntries, int64(flushed))
	t.metrics.RecordFlush(t.time.Now()-start, flushed)
}

// pending returns the number of buffered, unflushed writes.
func (c *threadCache) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// retire marks the cache unusable for further records.
func (c *threadCache) retire() {
	atomic.StoreInt32(&c.retired, 1)
}

func (c *threadCache) isRetired() bool {
	return atomic.LoadInt32(&c.retired) == 1
}
