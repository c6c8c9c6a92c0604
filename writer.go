// writer.go: per-goroutine write lease
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xantos

import "sync/atomic"

// Writer is a write lease on a table. It owns the write-combining cache
// that buffers this caller's updates; the table only learns about a write
// when the cache is flushed - on overflow, on a read that requires
// visibility, or on Release.
//
// A Writer is not safe for concurrent use by multiple goroutines; acquire
// one Writer per goroutine instead. Release returns the lease
// deterministically, so a goroutine can exit long before the table is
// closed without leaving an orphaned cache behind.
type Writer struct {
	table    *shardedTable
	cache    *threadCache
	released int32
}

// Writer acquires a new write lease. The lease's cache is registered with
// the table so flush-all reads and Close can drain it.
func (t *shardedTable) Writer() (*Writer, error) {
	if atomic.LoadInt32(&t.state) != stateLive {
		return nil, NewErrTableClosed("Writer")
	}

	c := newThreadCache(int(atomic.LoadInt32(&t.writerSlots)))
	t.registry.register(c)
	atomic.AddInt64(&t.writers, 1)

	return &Writer{table: t, cache: c}, nil
}

// Set buffers one key-value write. When the cache is full it is drained
// into the buckets first. The write is not visible to readers until the
// next flush of this cache.
func (w *Writer) Set(key string, value uint32) error {
	if err := w.usable("Set"); err != nil {
		return err
	}
	if key == "" {
		return NewErrEmptyKey("Set")
	}

	t := w.table
	start := t.time.Now()
	w.cache.record(t, key, value)
	atomic.AddInt64(&t.sets, 1)
	t.metrics.RecordSet(t.time.Now() - start)

	return nil
}

// Flush drains this writer's buffered writes into the buckets immediately.
func (w *Writer) Flush() error {
	if err := w.usable("Flush"); err != nil {
		return err
	}
	w.cache.flush(w.table)
	return nil
}

// Contains is Table.Contains read through this lease. Under
// VisibilityFlushOwn only this writer's cache is drained first, which is
// the cheap policy: a writer always observes its own prior writes, and
// nothing else is promised.
func (w *Writer) Contains(key string) bool {
	if w.usable("Contains") != nil {
		return false
	}
	return w.table.contains(key, w.cache)
}

// Get is Table.Get read through this lease, with the same per-policy
// drain as Contains.
func (w *Writer) Get(key string) (uint32, error) {
	if err := w.usable("Get"); err != nil {
		return 0, err
	}
	return w.table.get(key, w.cache)
}

// Pending returns the number of writes buffered and not yet flushed.
func (w *Writer) Pending() int {
	return w.cache.pending()
}

// Release flushes the remaining buffered writes, deregisters the cache,
// and retires the lease. Idempotent: releasing twice is a no-op. After
// Release every other method fails with a WriterReleased error.
func (w *Writer) Release() error {
	if !atomic.CompareAndSwapInt32(&w.released, 0, 1) {
		return nil
	}

	t := w.table
	if atomic.LoadInt32(&t.state) == stateLive {
		w.cache.flush(t)
	}
	w.cache.retire()
	if t.registry.deregister(w.cache) {
		atomic.AddInt64(&t.writers, -1)
	}

	return nil
}

// usable reports why the lease cannot serve an operation, if it cannot.
func (w *Writer) usable(operation string) error {
	if atomic.LoadInt32(&w.released) == 1 || w.cache.isRetired() {
		return NewErrWriterReleased(operation)
	}
	if atomic.LoadInt32(&w.table.state) != stateLive {
		return NewErrTableClosed(operation)
	}
	return nil
}
