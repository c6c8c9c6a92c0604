// cache_test.go: tests for the write-combining cache internals
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package xantos

import (
	"strconv"
	"testing"
	"unsafe"
)

// asTable exposes the concrete implementation to internal tests.
func asTable(t *testing.T, table Table) *shardedTable {
	t.Helper()
	st, ok := table.(*shardedTable)
	if !ok {
		t.Fatalf("unexpected Table implementation %T", table)
	}
	return st
}

func TestThreadCache_RecordFillsSlots(t *testing.T) {
	table := New(Config{Capacity: 16, WriterSlots: 4})
	defer func() { _ = table.Close() }()
	st := asTable(t, table)

	c := newThreadCache(4)
	st.registry.register(c)

	c.record(st, "a", 1)
	c.record(st, "b", 2)
	c.record(st, "c", 3)

	if c.pending() != 3 {
		t.Errorf("expected 3 pending writes, got %d", c.pending())
	}
	if !c.dirty {
		t.Error("cache must be dirty with buffered writes")
	}

	// Nothing reached the buckets yet.
	if st.Len() != 0 {
		t.Errorf("expected empty buckets before flush, got %d entries", st.Len())
	}
}

func TestThreadCache_OverflowDrains(t *testing.T) {
	table := New(Config{Capacity: 16, WriterSlots: 2})
	defer func() { _ = table.Close() }()
	st := asTable(t, table)

	c := newThreadCache(2)
	st.registry.register(c)

	c.record(st, "a", 1)
	c.record(st, "b", 2)
	// Third record finds the cache full: the first two are drained into
	// the buckets before the new write is buffered.
	c.record(st, "c", 3)

	if c.pending() != 1 {
		t.Errorf("expected 1 pending write after overflow drain, got %d", c.pending())
	}
	if st.Len() != 2 {
		t.Errorf("expected 2 flushed entries, got %d", st.Len())
	}
}

func TestThreadCache_FlushResets(t *testing.T) {
	table := New(Config{Capacity: 16, WriterSlots: 4})
	defer func() { _ = table.Close() }()
	st := asTable(t, table)

	c := newThreadCache(4)
	st.registry.register(c)

	c.record(st, "a", 1)
	c.record(st, "b", 2)
	c.flush(st)

	if c.pending() != 0 {
		t.Errorf("expected 0 pending after flush, got %d", c.pending())
	}
	if c.dirty {
		t.Error("cache must be clean after flush")
	}
	for i := range c.slots {
		if c.slots[i].key != "" {
			t.Errorf("slot %d not cleared after flush", i)
		}
	}

	// Flushing a clean cache is a no-op, not a second drain.
	before := st.Stats().Flushes
	c.flush(st)
	if st.Stats().Flushes != before {
		t.Error("flush of a clean cache must not count as a drain")
	}
}

func TestThreadCache_FlushSkipsClearedSlots(t *testing.T) {
	table := New(Config{Capacity: 16, WriterSlots: 4})
	defer func() { _ = table.Close() }()
	st := asTable(t, table)

	c := newThreadCache(4)
	st.registry.register(c)

	c.record(st, "a", 1)
	c.record(st, "b", 2)
	c.record(st, "c", 3)

	// Simulate a slot whose ownership already moved out.
	c.mu.Lock()
	c.slots[1] = cacheSlot{}
	c.mu.Unlock()

	c.flush(st)

	if st.Len() != 2 {
		t.Errorf("expected 2 entries, cleared slot must be skipped, got %d", st.Len())
	}
	if st.Contains("b") {
		t.Error("cleared slot must not reach the buckets")
	}
}

// TestThreadCache_KeyDetachedFromCaller verifies that a recorded key does
// not alias the caller's backing memory. The key below is built over a
// mutable byte buffer; mutating the buffer after Set must not corrupt what
// the table stored.
func TestThreadCache_KeyDetachedFromCaller(t *testing.T) {
	table := New(Config{Capacity: 16})
	defer func() { _ = table.Close() }()

	w, _ := table.Writer()
	defer func() { _ = w.Release() }()

	buf := []byte("volatile-key")
	// #nosec G103 - test deliberately builds a string over mutable bytes
	key := unsafe.String(&buf[0], len(buf))

	_ = w.Set(key, 99)
	copy(buf, "XXXXXXXXXXXX")
	_ = w.Flush()

	value, err := table.Get("volatile-key")
	if err != nil {
		t.Fatalf("expected original key to survive caller mutation: %v", err)
	}
	if value != 99 {
		t.Errorf("expected 99, got %d", value)
	}
	if table.Contains("XXXXXXXXXXXX") {
		t.Error("mutated buffer contents must not appear as a key")
	}
}

func TestThreadCache_DrainByOtherGoroutineOwner(t *testing.T) {
	// A cache can be drained by a reader while its owner keeps writing;
	// the owner's next overflow must still work on the emptied buffer.
	table := New(Config{Capacity: 64, WriterSlots: 4})
	defer func() { _ = table.Close() }()
	st := asTable(t, table)

	w, _ := table.Writer()
	defer func() { _ = w.Release() }()

	_ = w.Set("early", 1)

	// Reader-triggered flush-all drains the writer's cache.
	st.registry.flushAll(st)
	if w.Pending() != 0 {
		t.Fatalf("expected drained cache, got %d pending", w.Pending())
	}

	for i := 0; i < 10; i++ {
		_ = w.Set("late"+strconv.Itoa(i), uint32(i))
	}
	_ = w.Flush()

	if table.Len() != 11 {
		t.Errorf("expected 11 entries, got %d", table.Len())
	}
}
