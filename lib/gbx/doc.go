// Copyright 2026 The Gbx Authors
// SPDX-License-Identifier: Apache-2.0

// Package gbx decodes and encodes GameBox (.Gbx) containers.
//
// A container is a header, an optional external reference table and a
// body. The body is a graph of nodes: engine objects serialized as
// chunk lists, referencing each other through a per-file index table.
// Decode materializes the graph as linked Node values; Encode walks it
// back out, assigning table indexes in discovery order so that an
// unmodified graph reproduces its encoded bytes.
//
// Chunks whose layout is registered for their class decode into typed
// bodies. Unregistered skippable chunks survive decode and encode
// verbatim, so editing a file does not require understanding all of
// it. An unregistered chunk without a size prefix stops the decoder,
// since nothing after it can be located.
//
// Header chunks (the user data block) are available without reading
// the body, which is how tools list medal times or extract thumbnails
// cheaply. Compressed bodies use LZO1X.
package gbx
