// Package xantos implements a thread-safe, fixed-capacity hash table
// built from two cooperating mechanisms: per-bucket locking and
// per-writer write-combining caches.
//
// # Overview
//
// The table is designed for write-heavy multi-goroutine workloads:
//   - Sharded Locking: one mutex per bucket, so writes to unrelated keys
//     never contend with each other
//   - Write Combining: each Writer lease batches its updates in a small
//     private buffer and drains it into the shared buckets in bulk,
//     amortizing lock acquisition cost
//   - Explicit Leases: per-goroutine state is an object the table hands
//     out and takes back, not hidden thread-local storage
//   - Structured Errors: rich error context with error codes
//   - Hot Reload: runtime parameters reloadable from a watched config file
//
// # Design
//
// Capacity (the bucket count) is fixed when the table is created; there is
// no resizing, rehashing, or key deletion. Entries live until Close.
//
// Every write goes through a Writer, the table's write lease. A Writer
// owns a bounded write-combining cache: Set clones the key into a free
// slot and returns, and the cache is drained into the buckets when it
// fills, when a read needs visibility, or when the lease is released.
// Each drain takes exactly one bucket lock at a time, so two caches
// flushing concurrently can never deadlock.
//
// Every live cache is listed in a registry owned by the table. A flush-all
// read snapshots the registry under its lock, releases the lock, and only
// then drains the snapshotted caches - the registry lock is never held
// together with a cache or bucket lock.
//
// # Quick Start
//
//	table := xantos.New(xantos.Config{
//		Capacity:    4096,
//		WriterSlots: 4,
//	})
//	defer table.Close()
//
//	w, err := table.Writer()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer w.Release()
//
//	w.Set("alpha", 1)
//	w.Set("beta", 2)
//
//	if table.Contains("alpha") {
//		value, _ := table.Get("alpha")
//		fmt.Println(value)
//	}
//
// # Visibility
//
// A buffered write is invisible to readers until its cache is flushed.
// Which caches a read drains first is the visibility policy:
//
//   - VisibilityFlushAll (default): every registered cache is drained
//     before the bucket scan. Any write recorded before the read is
//     observed, at O(live writers) cost per read.
//   - VisibilityFlushOwn: only the reading Writer's own cache is drained.
//     A writer always sees its own prior writes; other writers' buffered
//     writes stay invisible until they flush. Table-level reads drain
//     nothing under this policy.
//
// # Errors
//
// All errors carry structured codes from the go-errors library:
//
//	value, err := table.Get("missing")
//	if xantos.IsNotFound(err) {
//		// Get on an absent key is a contract violation, reported
//		// explicitly rather than returned as a zero value.
//	}
//
// # Lease Lifecycle
//
// A Writer must be released exactly when its goroutine is done writing:
//
//	w, _ := table.Writer()
//	defer w.Release()
//
// Release flushes the remaining buffered writes and removes the cache
// from the registry, so goroutines may come and go freely during the
// table's lifetime. Close retires any leases still outstanding; it
// requires that no goroutine is still calling into the table.
//
// # Hot Reload
//
// Runtime parameters can follow a watched configuration file:
//
//	hc, err := xantos.NewHotConfig(table, xantos.HotConfigOptions{
//		ConfigPath: "/etc/myapp/table.yaml",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	hc.Start()
//	defer hc.Stop()
//
// # Related Packages
//
//   - github.com/agilira/xantos/otel: OpenTelemetry integration (separate module)
package xantos
