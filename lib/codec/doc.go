// Copyright 2026 The Gbx Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the standard CBOR encoding configuration for
// Gbx tools.
//
// The tools use two serialization formats with a clear boundary:
//
//   - JSON for human-facing output: --json dumps and anything meant
//     to be piped into jq.
//   - CBOR for machine-facing output: structured dumps consumed by
//     other programs, where determinism and exact binary payloads
//     (thumbnails, embedded archives) matter.
//
// This package provides the shared CBOR encoding and decoding modes so
// that every tool encodes identically without duplicating
// configuration. The encoder uses Core Deterministic Encoding (RFC 8949
// §4.2): sorted map keys, smallest integer encoding, no
// indefinite-length items. Same logical data always produces identical
// bytes, so dumping an unchanged file twice is diff-clean.
//
// For buffer-oriented operations:
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// For stream-oriented operations:
//
//	encoder := codec.NewEncoder(w)
//	decoder := codec.NewDecoder(r)
//
// Types serialized by this package carry `json` struct tags only.
// fxamacker/cbor v2 reads `json` tags as fallback when `cbor` tags are
// absent, so a single tag controls field naming and omitempty for both
// formats.
package codec
