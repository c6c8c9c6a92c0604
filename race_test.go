// race_test.go: concurrency and data race tests
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xantos

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
)

// TestConcurrent_DisjointWriters runs the canonical workload: four writers
// insert 50,000 distinct keys each into a 4096-bucket table through 4-slot
// caches, then every key must be present and unrelated keys absent.
func TestConcurrent_DisjointWriters(t *testing.T) {
	const (
		numWriters    = 4
		keysPerWriter = 50_000
	)
	if testing.Short() {
		t.Skip("skipping 200k-key workload in short mode")
	}

	table := New(Config{Capacity: 4096, WriterSlots: 4})

	var wg sync.WaitGroup
	wg.Add(numWriters)
	for g := 0; g < numWriters; g++ {
		go func(g int) {
			defer wg.Done()
			w, err := table.Writer()
			if err != nil {
				t.Errorf("writer %d: %v", g, err)
				return
			}
			defer func() { _ = w.Release() }()

			for i := 0; i < keysPerWriter; i++ {
				key := "w" + strconv.Itoa(g) + ":" + strconv.Itoa(i)
				if err := w.Set(key, uint32(i)); err != nil {
					t.Errorf("writer %d set %d: %v", g, i, err)
					return
				}
			}
		}(g)
	}
	wg.Wait()

	// All leases released, so everything is flushed.
	for g := 0; g < numWriters; g++ {
		for i := 0; i < keysPerWriter; i++ {
			key := "w" + strconv.Itoa(g) + ":" + strconv.Itoa(i)
			value, err := table.Get(key)
			if err != nil {
				t.Fatalf("missing key %s: %v", key, err)
			}
			if value != uint32(i) {
				t.Fatalf("key %s: expected %d, got %d", key, i, value)
			}
		}
	}

	if table.Contains("unrelated") {
		t.Error("unrelated key must be absent")
	}
	if table.Len() != numWriters*keysPerWriter {
		t.Errorf("expected %d entries, got %d", numWriters*keysPerWriter, table.Len())
	}

	if err := table.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}

// TestConcurrent_SameKeyUniqueness verifies that racing inserts of one new
// key from many writers collapse into exactly one entry.
func TestConcurrent_SameKeyUniqueness(t *testing.T) {
	table := New(Config{Capacity: 64, WriterSlots: 2})
	defer func() { _ = table.Close() }()

	const numWriters = 32
	var wg sync.WaitGroup
	wg.Add(numWriters)
	for g := 0; g < numWriters; g++ {
		go func(g int) {
			defer wg.Done()
			w, err := table.Writer()
			if err != nil {
				t.Errorf("writer %d: %v", g, err)
				return
			}
			defer func() { _ = w.Release() }()

			for i := 0; i < 100; i++ {
				_ = w.Set("contested", uint32(g))
			}
		}(g)
	}
	wg.Wait()

	if !table.Contains("contested") {
		t.Fatal("expected contested key present")
	}
	if table.Len() != 1 {
		t.Errorf("expected exactly one entry for the contested key, got %d", table.Len())
	}
}

// TestConcurrent_ReadersAndWriters mixes flush-all reads with buffered
// writes across goroutines; the run must terminate and stay consistent.
func TestConcurrent_ReadersAndWriters(t *testing.T) {
	table := New(Config{Capacity: 512, WriterSlots: 4})
	defer func() { _ = table.Close() }()

	const numGoroutines = 16
	const numOperations = 2000

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for g := 0; g < numGoroutines; g++ {
		go func(g int) {
			defer wg.Done()
			w, err := table.Writer()
			if err != nil {
				t.Errorf("writer %d: %v", g, err)
				return
			}
			defer func() { _ = w.Release() }()

			for i := 0; i < numOperations; i++ {
				key := strconv.Itoa((g*numOperations + i) % 200) // Key collision intentional
				if i%3 == 0 {
					table.Contains(key)
				} else {
					_ = w.Set(key, uint32(i))
				}
			}
		}(g)
	}
	wg.Wait()

	// Table integrity after the storm: at most 200 distinct keys exist.
	if size := table.Len(); size < 0 || size > 200 {
		t.Errorf("table size corrupted: %d", size)
	}
}

// TestConcurrent_DeadlockFreedom bounds the whole workload with a context
// deadline: under the lock ordering discipline (registry lock never held
// during a flush, one bucket lock at a time, cache lock released before
// its own overflow drain) every goroutine must finish.
func TestConcurrent_DeadlockFreedom(t *testing.T) {
	table := New(Config{Capacity: 1024, WriterSlots: 4})
	defer func() { _ = table.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	const numWriters = 8
	const keysEach = 5000

	for id := 0; id < numWriters; id++ {
		id := id
		g.Go(func() error {
			w, err := table.Writer()
			if err != nil {
				return err
			}
			defer func() { _ = w.Release() }()

			for i := 0; i < keysEach; i++ {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				key := fmt.Sprintf("g%d-%d", id, i)
				if err := w.Set(key, uint32(i)); err != nil {
					return err
				}
				if i%500 == 0 {
					// Interleave flush-all reads to exercise the
					// registry path under contention.
					table.Contains(key)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		t.Fatalf("workload did not complete cleanly: %v", err)
	}

	if table.Len() != numWriters*keysEach {
		t.Errorf("expected %d entries, got %d", numWriters*keysEach, table.Len())
	}
}

// TestConcurrent_WriterChurn acquires and releases leases while other
// goroutines read, exercising registry register/deregister under load.
func TestConcurrent_WriterChurn(t *testing.T) {
	table := New(Config{Capacity: 256, WriterSlots: 4})
	defer func() { _ = table.Close() }()

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				table.Contains("churn-0")
			}
		}
	}()

	for round := 0; round < 50; round++ {
		var inner sync.WaitGroup
		inner.Add(4)
		for g := 0; g < 4; g++ {
			go func(g int) {
				defer inner.Done()
				w, err := table.Writer()
				if err != nil {
					t.Errorf("writer: %v", err)
					return
				}
				for i := 0; i < 20; i++ {
					_ = w.Set("churn-"+strconv.Itoa(i%5), uint32(i))
				}
				_ = w.Release()
			}(g)
		}
		inner.Wait()
	}
	close(stop)
	wg.Wait()

	if table.Stats().Writers != 0 {
		t.Errorf("expected all leases returned, got %d", table.Stats().Writers)
	}
	if !table.Contains("churn-0") {
		t.Error("expected churn-0 present after all rounds")
	}
}
