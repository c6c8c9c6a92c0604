// Package xantos provides a fixed-capacity concurrent hash table with
// per-writer write-combining caches.
//
// The table shards its lock per bucket, so writes to unrelated keys never
// contend, and batches each writer's updates in a small private buffer that
// is flushed into the shared buckets on demand.
//
// Example usage:
//
//	table := xantos.New(xantos.Config{
//		Capacity: 4096,
//	})
//
//	w, _ := table.Writer()
//	w.Set("key", 42)
//	w.Release()
//
//	value, err := table.Get("key")
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package xantos

const (
	// Version of the xantos library
	Version = "v0.1.0-dev"

	// DefaultCapacity is the default number of buckets.
	// Capacity is fixed for the table's lifetime; there is no resizing.
	DefaultCapacity = 4096

	// DefaultWriterSlots is the default number of write-combining slots
	// each Writer buffers before draining into the shared buckets.
	DefaultWriterSlots = 4
)
