// Package otel provides OpenTelemetry integration for xantos metrics.
//
// This package implements the xantos.MetricsCollector interface using
// OpenTelemetry, enabling enterprise-grade observability with automatic
// percentile calculation (p50, p95, p99) and multi-backend support
// (Prometheus, Jaeger, DataDog, Grafana).
//
// # Features
//
//   - Automatic percentile calculation via OTEL Histograms (p50, p95, p99, p99.9)
//   - Hit/miss ratio tracking with counters
//   - Flush monitoring: drain latency and batch size distributions
//   - Thread-safe, lock-free implementation
//   - Compatible with any OTEL backend (Prometheus, Jaeger, DataDog, etc.)
//   - Optional: separate module, no impact on core table performance
//
// # Usage
//
//	import (
//	    "github.com/agilira/xantos"
//	    tableotel "github.com/agilira/xantos/otel"
//	    "go.opentelemetry.io/otel/exporters/prometheus"
//	    "go.opentelemetry.io/otel/sdk/metric"
//	)
//
//	// Setup OTEL with Prometheus exporter
//	exporter, _ := prometheus.New()
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//
//	// Create collector
//	collector, _ := tableotel.NewOTelMetricsCollector(provider)
//
//	// Configure the table
//	table := xantos.New(xantos.Config{
//	    Capacity:         4096,
//	    MetricsCollector: collector,
//	})
//
// # Metrics Exposed
//
//   - xantos_set_latency_ns: Histogram of Set() operation latencies in nanoseconds
//   - xantos_lookup_latency_ns: Histogram of Contains()/Get() latencies in nanoseconds
//   - xantos_flush_latency_ns: Histogram of cache drain latencies in nanoseconds
//   - xantos_flush_batch_size: Histogram of entries written per drain
//   - xantos_lookup_hits_total: Counter of lookup hits
//   - xantos_lookup_misses_total: Counter of lookup misses
//   - xantos_flushes_total: Counter of cache drains
//
// All metrics are automatically aggregated by the OTEL SDK and can be exported
// to any OTEL-compatible backend. Histograms automatically calculate percentiles.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package otel
