// registry_test.go: tests for the writer-cache registry
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package xantos

import (
	"sync"
	"testing"
)

func TestRegistry_RegisterIdempotent(t *testing.T) {
	var r registry
	c := newThreadCache(4)

	r.register(c)
	r.register(c)
	r.register(c)

	if r.size() != 1 {
		t.Errorf("expected 1 registered cache, got %d", r.size())
	}
}

func TestRegistry_Deregister(t *testing.T) {
	var r registry
	a := newThreadCache(4)
	b := newThreadCache(4)

	r.register(a)
	r.register(b)

	if !r.deregister(a) {
		t.Error("expected deregister to remove a")
	}
	if r.deregister(a) {
		t.Error("second deregister must be a no-op")
	}
	if r.size() != 1 {
		t.Errorf("expected 1 cache left, got %d", r.size())
	}

	// A deregistered cache can register again.
	r.register(a)
	if r.size() != 2 {
		t.Errorf("expected 2 caches after re-register, got %d", r.size())
	}
}

func TestRegistry_SnapshotIsCopy(t *testing.T) {
	var r registry
	a := newThreadCache(4)
	b := newThreadCache(4)
	r.register(a)
	r.register(b)

	snap := r.snapshot()
	r.deregister(a)
	r.deregister(b)

	// The snapshot is unaffected by later registry mutation.
	if len(snap) != 2 {
		t.Errorf("expected snapshot of 2 caches, got %d", len(snap))
	}
	if r.size() != 0 {
		t.Errorf("expected empty registry, got %d", r.size())
	}
}

func TestRegistry_FlushAll(t *testing.T) {
	table := New(Config{Capacity: 32, WriterSlots: 8})
	defer func() { _ = table.Close() }()
	st := asTable(t, table)

	caches := make([]*threadCache, 3)
	for i := range caches {
		caches[i] = newThreadCache(8)
		st.registry.register(caches[i])
	}

	caches[0].record(st, "a", 1)
	caches[1].record(st, "b", 2)
	caches[2].record(st, "c", 3)

	st.registry.flushAll(st)

	if st.Len() != 3 {
		t.Errorf("expected 3 entries after flushAll, got %d", st.Len())
	}
	for _, c := range caches {
		if c.pending() != 0 {
			t.Error("expected every cache drained by flushAll")
		}
	}
}

func TestRegistry_FlushAllConcurrentWithWriters(t *testing.T) {
	// flushAll must never block a writer indefinitely: the registry lock
	// is dropped before any cache lock is taken.
	table := New(Config{Capacity: 256, WriterSlots: 4})
	defer func() { _ = table.Close() }()
	st := asTable(t, table)

	w, _ := table.Writer()
	defer func() { _ = w.Release() }()

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			st.registry.flushAll(st)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			_ = w.Set("key", uint32(i))
		}
	}()

	wg.Wait()
	_ = w.Flush()

	if !table.Contains("key") {
		t.Error("expected key present after concurrent flushAll and writes")
	}
}

func TestRegistry_Teardown(t *testing.T) {
	table := New(Config{Capacity: 32, WriterSlots: 8})
	st := asTable(t, table)

	a := newThreadCache(8)
	b := newThreadCache(8)
	st.registry.register(a)
	st.registry.register(b)

	a.record(st, "a", 1)
	b.record(st, "b", 2)

	st.registry.teardown(st)

	if st.registry.size() != 0 {
		t.Errorf("expected cleared registry, got %d caches", st.registry.size())
	}
	if !a.isRetired() || !b.isRetired() {
		t.Error("expected every cache retired by teardown")
	}
	if st.Len() != 2 {
		t.Errorf("expected buffered writes drained during teardown, got %d entries", st.Len())
	}

	_ = table.Close()
}
