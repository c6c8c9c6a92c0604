// collector.go: OpenTelemetry implementation of xantos.MetricsCollector
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package otel

import (
	"context"
	"errors"

	"github.com/agilira/xantos"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetricsCollector implements xantos.MetricsCollector using OpenTelemetry.
//
// This collector records table operations to OpenTelemetry metrics, enabling
// enterprise-grade observability with automatic percentile calculation and
// multi-backend support.
//
// Thread-safety: Safe for concurrent use by multiple goroutines.
// The underlying OTEL instruments are thread-safe and lock-free.
type OTelMetricsCollector struct {
	// OTEL instruments for recording metrics
	setLatency     metric.Int64Histogram // Set operation latency histogram
	lookupLatency  metric.Int64Histogram // Contains/Get latency histogram
	flushLatency   metric.Int64Histogram // Cache drain latency histogram
	flushBatchSize metric.Int64Histogram // Entries written per drain
	hits           metric.Int64Counter   // Lookup hits counter
	misses         metric.Int64Counter   // Lookup misses counter
	flushes        metric.Int64Counter   // Cache drains counter
}

// Options for configuring OTelMetricsCollector.
type Options struct {
	// MeterName is the name of the OpenTelemetry meter.
	// Default: "github.com/agilira/xantos"
	MeterName string
}

// Option is a functional option for configuring OTelMetricsCollector.
type Option func(*Options)

// WithMeterName sets a custom meter name.
// This is useful for distinguishing metrics from multiple table instances
// or integrating with existing OTEL instrumentation.
func WithMeterName(name string) Option {
	return func(o *Options) {
		o.MeterName = name
	}
}

// NewOTelMetricsCollector creates a new OpenTelemetry metrics collector.
//
// Parameters:
//   - provider: OpenTelemetry MeterProvider. Must not be nil.
//   - opts: Optional configuration options (meter name, etc.)
//
// The collector creates Int64Histogram instruments for latencies and batch
// sizes, and Int64Counter instruments for hits, misses, and flushes. All
// instruments are thread-safe and lock-free.
//
// Example:
//
//	exporter, _ := prometheus.New()
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//	collector, err := NewOTelMetricsCollector(provider)
//	if err != nil {
//	    log.Fatal(err)
//	}
func NewOTelMetricsCollector(provider metric.MeterProvider, opts ...Option) (*OTelMetricsCollector, error) {
	if provider == nil {
		return nil, errors.New("meter provider cannot be nil")
	}

	// Apply options
	options := Options{
		MeterName: "github.com/agilira/xantos",
	}
	for _, opt := range opts {
		opt(&options)
	}

	meter := provider.Meter(options.MeterName)

	collector := &OTelMetricsCollector{}

	var err error
	collector.setLatency, err = meter.Int64Histogram(
		"xantos_set_latency_ns",
		metric.WithDescription("Latency of Set operations in nanoseconds"),
		metric.WithUnit("ns"),
	)
	if err != nil {
		return nil, err
	}

	collector.lookupLatency, err = meter.Int64Histogram(
		"xantos_lookup_latency_ns",
		metric.WithDescription("Latency of Contains/Get operations in nanoseconds"),
		metric.WithUnit("ns"),
	)
	if err != nil {
		return nil, err
	}

	collector.flushLatency, err = meter.Int64Histogram(
		"xantos_flush_latency_ns",
		metric.WithDescription("Latency of cache drains in nanoseconds"),
		metric.WithUnit("ns"),
	)
	if err != nil {
		return nil, err
	}

	collector.flushBatchSize, err = meter.Int64Histogram(
		"xantos_flush_batch_size",
		metric.WithDescription("Number of entries written per cache drain"),
	)
	if err != nil {
		return nil, err
	}

	collector.hits, err = meter.Int64Counter(
		"xantos_lookup_hits_total",
		metric.WithDescription("Total number of lookup hits"),
	)
	if err != nil {
		return nil, err
	}

	collector.misses, err = meter.Int64Counter(
		"xantos_lookup_misses_total",
		metric.WithDescription("Total number of lookup misses"),
	)
	if err != nil {
		return nil, err
	}

	collector.flushes, err = meter.Int64Counter(
		"xantos_flushes_total",
		metric.WithDescription("Total number of cache drains"),
	)
	if err != nil {
		return nil, err
	}

	return collector, nil
}

// RecordSet records a Set operation.
//
// This method records latency to the Set latency histogram.
//
// Thread-safety: Safe for concurrent use.
func (c *OTelMetricsCollector) RecordSet(latencyNs int64) {
	c.setLatency.Record(context.Background(), latencyNs)
}

// RecordLookup records a Contains/Get operation.
//
// This method records latency to the lookup latency histogram and
// increments either the hits or misses counter.
//
// Thread-safety: Safe for concurrent use.
func (c *OTelMetricsCollector) RecordLookup(latencyNs int64, hit bool) {
	ctx := context.Background()

	c.lookupLatency.Record(ctx, latencyNs)

	if hit {
		c.hits.Add(ctx, 1)
	} else {
		c.misses.Add(ctx, 1)
	}
}

// RecordFlush records one cache drain.
//
// This method records the drain latency and batch size histograms and
// increments the flushes counter.
//
// Thread-safety: Safe for concurrent use.
func (c *OTelMetricsCollector) RecordFlush(latencyNs int64, entries int) {
	ctx := context.Background()

	c.flushLatency.Record(ctx, latencyNs)
	c.flushBatchSize.Record(ctx, int64(entries))
	c.flushes.Add(ctx, 1)
}

// Compile-time interface check
var _ xantos.MetricsCollector = (*OTelMetricsCollector)(nil)
