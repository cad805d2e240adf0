// Copyright 2026 The Gbx Authors
// SPDX-License-Identifier: Apache-2.0

// Package binhash provides the content hashing used across the Gbx
// tools.
//
// Two hash families with distinct jobs:
//
//   - SHA256 for external file references. The container format
//     stores a SHA256 digest next to each referenced file path, so
//     [HashFile] streams a file through SHA256 and [FormatDigest] /
//     [ParseDigest] convert digests to and from the canonical hex
//     string used in tool output.
//   - BLAKE3 keyed hashes for content identity. [HashBody] and
//     [HashHeader] fingerprint the uncompressed body and the user
//     data block under separate domain keys. The verify tool compares
//     body hashes instead of file bytes, so recompressing a file does
//     not register as a content change.
//
// This package has no dependencies on the codec packages.
package binhash
