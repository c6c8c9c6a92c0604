// registry.go: table-owned registry of live writer caches
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xantos

import "sync"

// registry lists every live writer cache so a read can drain all of them.
// It is owned by its table; there is no package-level state. The registry
// lock is only ever held to mutate or snapshot the list, never while a
// cache or bucket lock is taken - that asymmetry is what makes flushAll
// deadlock-free against concurrent writers.
type registry struct {
	mu     sync.Mutex
	caches []*threadCache
}

// register adds c to the registry. Idempotent: a cache that is already
// registered is left alone.
func (r *registry) register(c *threadCache) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.registered {
		return
	}
	r.caches = append(r.caches, c)
	c.registered = true
}

// deregister removes c from the registry. Idempotent; reports whether c
// was actually removed by this call.
func (r *registry) deregister(c *threadCache) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !c.registered {
		return false
	}
	for i, rc := range r.caches {
		if rc == c {
			last := len(r.caches) - 1
			r.caches[i] = r.caches[last]
			r.caches[last] = nil
			r.caches = r.caches[:last]
			break
		}
	}
	c.registered = false
	return true
}

// snapshot copies the current cache list under the registry lock.
// Callers flush from the copy after the lock is released.
func (r *registry) snapshot() []*threadCache {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*threadCache, len(r.caches))
	copy(out, r.caches)
	return out
}

// flushAll drains every registered cache into t. The registry lock is
// dropped before the first flush; a cache that registers concurrently is
// simply not part of this snapshot, which is the documented visibility
// contract.
func (r *registry) flushAll(t *shardedTable) {
	for _, c := range r.snapshot() {
		c.flush(t)
	}
}

// teardown drains and retires every cache, then clears the registry.
// Runs inside Close, under its no-concurrent-callers precondition.
func (r *registry) teardown(t *shardedTable) {
	for _, c := range r.snapshot() {
		c.flush(t)
		c.retire()
	}

	r.mu.Lock()
	for _, c := range r.caches {
		c.registered = false
	}
	r.caches = nil
	r.mu.Unlock()
}

// size returns the number of registered caches.
func (r *registry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.caches)
}
