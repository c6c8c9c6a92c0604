// hash.go: default bucket-routing hash
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xantos

import "unsafe"

// stringHash computes a 32-bit hash of a string using the FNV-1a algorithm.
// This is the default Hasher: deterministic, well distributed across
// buckets, and zero-allocation. It is routing-only and must never be
// treated as collision-resistant.
func stringHash(s string) uint32 {
	const (
		fnv32Offset = 2166136261
		fnv32Prime  = 16777619
	)

	hash := uint32(fnv32Offset)

	// Use unsafe to avoid allocations when converting string to []byte
	// #nosec G103 - Safe usage: we only read the string data, no writes or pointer arithmetic
	data := unsafe.Slice(unsafe.StringData(s), len(s))

	for _, b := range data {
		hash ^= uint32(b)
		hash *= fnv32Prime
	}

	return hash
}
