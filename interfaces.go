// interfaces.go: public interfaces for the xantos package
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xantos

// Table represents a fixed-capacity concurrent hash table with
// write-combining writer caches. All methods must be safe for concurrent
// use, except Close, which requires that no other goroutine is still
// calling into the table (see Close).
type Table interface {
	// Writer acquires a write lease on the table. The returned Writer owns
	// a private write-combining cache and must be used by one goroutine at
	// a time. Call Release when done so the last buffered writes reach the
	// table and the lease is retired.
	Writer() (*Writer, error)

	// Contains reports whether key is present in the table.
	// Under VisibilityFlushAll it first drains every registered writer
	// cache, so any write recorded before the call is observed.
	// Under VisibilityFlushOwn only Writer.Contains drains a cache;
	// table-level Contains sees whatever has already been flushed.
	Contains(key string) bool

	// Get retrieves the value stored for key, after the same cache drain
	// as Contains. A missing key is a reportable error (IsNotFound), not
	// a silent zero: callers are expected to ask only for keys they know
	// are present.
	Get(key string) (uint32, error)

	// Len returns the current number of entries reachable through the
	// buckets. Writes still sitting in writer caches are not counted.
	Len() int

	// Capacity returns the fixed number of buckets.
	Capacity() int

	// Stats returns table statistics.
	Stats() TableStats

	// Close drains every registered writer cache into the buckets, retires
	// all leases, and releases the bucket chains. The caller must guarantee
	// that no other goroutine concurrently calls any table or writer
	// method; Close cannot be made safe against that race. After Close
	// every operation fails with a TableClosed error (or reports false
	// where the signature is boolean).
	Close() error
}

// TableStats provides statistics about table activity.
type TableStats struct {
	// Sets is the number of accepted write operations
	Sets uint64

	// Flushes is the number of cache drains performed
	Flushes uint64

	// FlushedEntries is the total number of slots drained into buckets
	FlushedEntries uint64

	// Inserts is the number of flushed slots that created a new entry
	Inserts uint64

	// Updates is the number of flushed slots that overwrote an existing entry
	Updates uint64

	// Hits is the number of lookups that found their key
	Hits uint64

	// Misses is the number of lookups that did not find their key
	Misses uint64

	// Writers is the number of currently live writer leases
	Writers int

	// Size is the current number of entries in the buckets
	Size int

	// Capacity is the fixed number of buckets
	Capacity int
}

// HitRatio returns the lookup hit ratio as a percentage (0-100).
// Returns 0.0 if no lookups have been performed yet.
// Formula: (Hits / (Hits + Misses)) * 100
func (s TableStats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// Hasher maps a key to a 32-bit hash used only for bucket routing.
// It must be deterministic; it carries no security property.
type Hasher func(key string) uint32

// VisibilityPolicy selects which writer caches a read drains before
// scanning its bucket.
type VisibilityPolicy int32

const (
	// VisibilityFlushAll drains every registered writer cache before a
	// read, giving globally consistent lookups at O(live writers) cost
	// per read. This is the default.
	VisibilityFlushAll VisibilityPolicy = iota

	// VisibilityFlushOwn drains only the reading Writer's own cache.
	// Writes buffered by other writers stay invisible until those writers
	// flush. Table-level reads drain nothing under this policy.
	VisibilityFlushOwn
)

// Logger defines a minimal logging interface with zero overhead.
// Implementations should use structured logging and be allocation-free.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs.
	Debug(msg string, keyvals ...interface{})

	// Info logs an info message with optional key-value pairs.
	Info(msg string, keyvals ...interface{})

	// Warn logs a warning message with optional key-value pairs.
	Warn(msg string, keyvals ...interface{})

	// Error logs an error message with optional key-value pairs.
	Error(msg string, keyvals ...interface{})
}

// NoOpLogger is a logger that does nothing. Used as default to avoid nil checks.
type NoOpLogger struct{}

// Debug does nothing (no-op implementation).
func (NoOpLogger) Debug(msg string, keyvals ...interface{}) {}

// Info does nothing (no-op implementation).
func (NoOpLogger) Info(msg string, keyvals ...interface{}) {}

// Warn does nothing (no-op implementation).
func (NoOpLogger) Warn(msg string, keyvals ...interface{}) {}

// Error does nothing (no-op implementation).
func (NoOpLogger) Error(msg string, keyvals ...interface{}) {}

// TimeProvider provides current time with caching for performance.
// This interface allows injecting optimized time implementations.
type TimeProvider interface {
	// Now returns the current time in nanoseconds since epoch.
	// This method must be very fast and allocation-free.
	Now() int64
}

// MetricsCollector defines an interface for collecting operation metrics.
// Implementations can send metrics to Prometheus, DataDog, StatsD, or other
// monitoring systems. This interface is designed for zero overhead when no
// collector is configured - the no-op default collects nothing.
//
// Performance requirements:
//   - All methods must be lock-free or use minimal locking
//   - All methods must be allocation-free
//
// Thread-safety:
//   - All methods must be safe for concurrent use
//   - Multiple goroutines will call these methods simultaneously
type MetricsCollector interface {
	// RecordSet records a write operation with its latency.
	// latencyNs is the duration of the Set operation in nanoseconds.
	RecordSet(latencyNs int64)

	// RecordLookup records a Contains/Get operation with its latency and
	// hit/miss result. The latency includes the cache drain the read
	// triggered.
	RecordLookup(latencyNs int64, hit bool)

	// RecordFlush records one cache drain with its latency and the number
	// of slots written into buckets.
	RecordFlush(latencyNs int64, entries int)
}

// NoOpMetricsCollector is a metrics collector that does nothing.
// Used as default to avoid nil checks and ensure zero overhead.
// All methods are inlined by the compiler for maximum performance.
type NoOpMetricsCollector struct{}

// RecordSet does nothing. Inlined by compiler.
func (NoOpMetricsCollector) RecordSet(latencyNs int64) {}

// RecordLookup does nothing. Inlined by compiler.
func (NoOpMetricsCollector) RecordLookup(latencyNs int64, hit bool) {}

// RecordFlush does nothing. Inlined by compiler.
func (NoOpMetricsCollector) RecordFlush(latencyNs int64, entries int) {}
