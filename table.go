// table.go: sharded bucket array with per-bucket locking
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xantos

import (
	"sync"
	"sync/atomic"
)

// entry is one key-value pair chained into a bucket.
// Created on the first flush of its key, updated in place on later
// flushes, and only dropped when the whole table is closed.
type entry struct {
	key   string
	value uint32
	next  *entry
}

// bucket is one hash slot: a chain head plus its dedicated lock.
// The lock is the unit of write parallelism; flushes to different
// buckets never contend.
type bucket struct {
	mu   sync.Mutex
	head *entry
}

// Lifecycle states of a table.
const (
	stateLive     = 0
	stateDraining = 1
	stateClosed   = 2
)

// shardedTable implements Table with one lock per bucket and a registry of
// write-combining writer caches.
type shardedTable struct {
	// Configuration (immutable after creation)
	capacity int
	hasher   Hasher
	logger   Logger
	time     TimeProvider
	metrics  MetricsCollector

	// Runtime-tunable parameters (see HotConfig)
	writerSlots int32
	visibility  int32

	buckets  []bucket
	registry registry

	// Lifecycle: live -> draining (inside Close) -> closed
	state int32

	// Atomic statistics counters
	size           int64
	sets           int64
	flushes        int64
	flushedEntries int64
	inserts        int64
	updates        int64
	hits           int64
	misses         int64
	writers        int64
}

// New creates a table with a fixed bucket count. The zero Config is valid:
// Validate fills in every default.
func New(config Config) Table {
	_ = config.Validate()

	t := &shardedTable{
		capacity: config.Capacity,
		hasher:   config.Hasher,
		logger:   config.Logger,
		time:     config.TimeProvider,
		metrics:  config.MetricsCollector,
		buckets:  make([]bucket, config.Capacity),
	}
	atomic.StoreInt32(&t.writerSlots, int32(config.WriterSlots)) // #nosec G115 - slot counts are small positive ints
	atomic.StoreInt32(&t.visibility, int32(config.Visibility))

	return t
}

// bucketFor routes a key to its bucket. It does not lock.
func (t *shardedTable) bucketFor(key string) *bucket {
	return &t.buckets[t.hasher(key)%uint32(t.capacity)] // #nosec G115 - capacity is validated > 0
}

// upsertLocked applies one key-value pair to b's chain. The caller must
// hold b.mu. The chain is scanned for an exact, case-sensitive match;
// a hit is updated in place, a miss is inserted at the chain head.
// Returns true when a new entry was created.
func (t *shardedTable) upsertLocked(b *bucket, key string, value uint32) bool {
	for e := b.head; e != nil; e = e.next {
		if e.key == key {
			e.value = value
			atomic.AddInt64(&t.updates, 1)
			return false
		}
	}

	b.head = &entry{key: key, value: value, next: b.head}
	atomic.AddInt64(&t.size, 1)
	atomic.AddInt64(&t.inserts, 1)
	return true
}

// flushForRead drains writer caches ahead of a bucket scan, according to
// the visibility policy. own is the reading writer's cache, or nil for a
// table-level read.
func (t *shardedTable) flushForRead(own *threadCache) {
	switch VisibilityPolicy(atomic.LoadInt32(&t.visibility)) {
	case VisibilityFlushOwn:
		if own != nil {
			own.flush(t)
		}
	default:
		t.registry.flushAll(t)
	}
}

// lookup scans key's bucket under its lock. It performs no cache drain;
// callers go through flushForRead first.
func (t *shardedTable) lookup(key string) (uint32, bool) {
	b := t.bucketFor(key)

	b.mu.Lock()
	for e := b.head; e != nil; e = e.next {
		if e.key == key {
			value := e.value
			b.mu.Unlock()
			return value, true
		}
	}
	b.mu.Unlock()

	return 0, false
}

// contains is the shared implementation behind Table.Contains and
// Writer.Contains.
func (t *shardedTable) contains(key string, own *threadCache) bool {
	if atomic.LoadInt32(&t.state) != stateLive {
		return false
	}
	if key == "" {
		return false
	}

	start := t.time.Now()
	t.flushForRead(own)
	_, found := t.lookup(key)

	if found {
		atomic.AddInt64(&t.hits, 1)
	} else {
		atomic.AddInt64(&t.misses, 1)
	}
	t.metrics.RecordLookup(t.time.Now()-start, found)

	return found
}

// get is the shared implementation behind Table.Get and Writer.Get.
func (t *shardedTable) get(key string, own *threadCache) (uint32, error) {
	if atomic.LoadInt32(&t.state) != stateLive {
		return 0, NewErrTableClosed("Get")
	}
	if key == "" {
		return 0, NewErrEmptyKey("Get")
	}

	start := t.time.Now()
	t.flushForRead(own)
	value, found := t.lookup(key)

	if found {
		atomic.AddInt64(&t.hits, 1)
	} else {
		atomic.AddInt64(&t.misses, 1)
	}
	t.metrics.RecordLookup(t.time.Now()-start, found)

	if !found {
		return 0, NewErrKeyNotFound(key)
	}
	return value, nil
}

// Contains reports whether key is present, draining caches per the
// visibility policy first.
func (t *shardedTable) Contains(key string) bool {
	return t.contains(key, nil)
}

// Get retrieves key's value. A miss is reported as a KeyNotFound error.
func (t *shardedTable) Get(key string) (uint32, error) {
	return t.get(key, nil)
}

// Len returns the current number of entries in the buckets.
func (t *shardedTable) Len() int {
	return int(atomic.LoadInt64(&t.size))
}

// Capacity returns the fixed number of buckets.
func (t *shardedTable) Capacity() int {
	return t.capacity
}

// Stats returns table statistics.
func (t *shardedTable) Stats() TableStats {
	return TableStats{
		Sets:           uint64(atomic.LoadInt64(&t.sets)),           // #nosec G115 - stats counters are always positive
		Flushes:        uint64(atomic.LoadInt64(&t.flushes)),        // #nosec G115 - stats counters are always positive
		FlushedEntries: uint64(atomic.LoadInt64(&t.flushedEntries)), // #nosec G115 - stats counters are always positive
		Inserts:        uint64(atomic.LoadInt64(&t.inserts)),        // #nosec G115 - stats counters are always positive
		Updates:        uint64(atomic.LoadInt64(&t.updates)),        // #nosec G115 - stats counters are always positive
		Hits:           uint64(atomic.LoadInt64(&t.hits)),           // #nosec G115 - stats counters are always positive
		Misses:         uint64(atomic.LoadInt64(&t.misses)),         // #nosec G115 - stats counters are always positive
		Writers:        int(atomic.LoadInt64(&t.writers)),
		Size:           int(atomic.LoadInt64(&t.size)),
		Capacity:       t.capacity,
	}
}

// Close drains every registered cache, retires all leases, and releases
// the bucket chains. The caller must guarantee no concurrent table or
// writer calls; see Table.Close.
func (t *shardedTable) Close() error {
	if !atomic.CompareAndSwapInt32(&t.state, stateLive, stateDraining) {
		return NewErrTableClosed("Close")
	}

	t.registry.teardown(t)

	for i := range t.buckets {
		b := &t.buckets[i]
		b.mu.Lock()
		b.head = nil
		b.mu.Unlock()
	}

	final := atomic.LoadInt64(&t.size)
	atomic.StoreInt64(&t.size, 0)
	atomic.StoreInt64(&t.writers, 0)
	atomic.StoreInt32(&t.state, stateClosed)

	t.logger.Debug("table closed",
		"entries", final,
		"capacity", t.capacity,
	)
	return nil
}

// runtimeConfigurable is the seam HotConfig uses to apply dynamic
// parameter changes to a live table.
type runtimeConfigurable interface {
	setWriterSlots(slots int)
	setVisibility(policy VisibilityPolicy)
}

// setWriterSlots changes the slot count handed to future Writer leases.
// Existing leases keep their buffer size.
func (t *shardedTable) setWriterSlots(slots int) {
	if slots <= 0 {
		return
	}
	atomic.StoreInt32(&t.writerSlots, int32(slots)) // #nosec G115 - slot counts are small positive ints
}

// setVisibility changes the read visibility policy for subsequent reads.
func (t *shardedTable) setVisibility(policy VisibilityPolicy) {
	if policy != VisibilityFlushAll && policy != VisibilityFlushOwn {
		return
	}
	atomic.StoreInt32(&t.visibility, int32(policy))
}
