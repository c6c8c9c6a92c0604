// config.go: configuration for the xantos package
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xantos

import (
	"github.com/agilira/go-timecache"
)

// Config holds configuration parameters for the table.
type Config struct {
	// Capacity is the number of buckets. The bucket array never resizes,
	// so Capacity bounds the table's parallelism, not its entry count.
	// Must be > 0. Default: DefaultCapacity.
	Capacity int

	// WriterSlots is the number of write-combining slots per Writer.
	// A Writer drains its slots into the buckets when they fill up,
	// so larger values trade read-visibility latency for fewer lock
	// acquisitions. Must be > 0. Default: DefaultWriterSlots.
	WriterSlots int

	// Visibility selects which writer caches a read drains before
	// scanning its bucket. Default: VisibilityFlushAll.
	Visibility VisibilityPolicy

	// Hasher routes keys to buckets. It only needs determinism and
	// reasonable distribution; it is not a security boundary.
	// If nil, an FNV-1a hash is used. Default: FNV-1a.
	Hasher Hasher

	// Logger is used for debugging and monitoring.
	// If nil, NoOpLogger is used. Default: NoOpLogger.
	Logger Logger

	// TimeProvider provides current time for metrics latencies.
	// If nil, a default implementation is used. Default: system time.
	TimeProvider TimeProvider

	// MetricsCollector is used for collecting operation metrics (latencies,
	// flush batch sizes, hit/miss rates).
	// If nil, NoOpMetricsCollector is used (zero overhead). Default: NoOpMetricsCollector.
	// Use this to integrate with Prometheus, DataDog, StatsD, or other monitoring systems.
	MetricsCollector MetricsCollector
}

// Validate checks configuration parameters and applies sensible defaults.
// Returns nil (no actual validation errors, only normalization).
//
// This method is automatically called by New, so you typically don't need
// to call it manually. However, it's provided as a public API if you want
// to inspect the normalized configuration before creating a table.
//
// Default values applied:
//   - Capacity: DefaultCapacity (4096) if <= 0
//   - WriterSlots: DefaultWriterSlots (4) if <= 0
//   - Visibility: VisibilityFlushAll if out of range
//   - Hasher: FNV-1a if nil
//   - Logger: NoOpLogger{} if nil
//   - TimeProvider: systemTimeProvider{} if nil
//   - MetricsCollector: NoOpMetricsCollector{} if nil
func (c *Config) Validate() error {
	if c.Capacity <= 0 {
		c.Capacity = DefaultCapacity
	}

	if c.WriterSlots <= 0 {
		c.WriterSlots = DefaultWriterSlots
	}

	if c.Visibility != VisibilityFlushAll && c.Visibility != VisibilityFlushOwn {
		c.Visibility = VisibilityFlushAll
	}

	if c.Hasher == nil {
		c.Hasher = stringHash
	}

	if c.Logger == nil {
		c.Logger = NoOpLogger{}
	}

	if c.TimeProvider == nil {
		c.TimeProvider = &systemTimeProvider{}
	}

	if c.MetricsCollector == nil {
		c.MetricsCollector = NoOpMetricsCollector{}
	}

	return nil
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Capacity:         DefaultCapacity,
		WriterSlots:      DefaultWriterSlots,
		Visibility:       VisibilityFlushAll,
		Hasher:           stringHash,
		Logger:           NoOpLogger{},
		TimeProvider:     &systemTimeProvider{},
		MetricsCollector: NoOpMetricsCollector{},
	}
}

// systemTimeProvider is the default time provider using go-timecache.
// This provides much faster time access compared to time.Now() with zero allocations.
type systemTimeProvider struct{}

func (t *systemTimeProvider) Now() int64 {
	return timecache.CachedTimeNano()
}
