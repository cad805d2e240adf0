// Copyright 2026 The Gbx Authors
// SPDX-License-Identifier: Apache-2.0

package gbx

import "sort"

// Node is an engine object: a class identifier and an ordered list of
// chunks. Nodes reference each other through an index table scoped to
// one file body; in memory those references are plain pointers, and
// shared pointers re-encode as shared table indexes.
type Node struct {
	ClassID uint32
	Chunks  []Chunk

	// ExternalRef, when nonzero, is the wire word of a reference that
	// resolves through the file's reference table instead of the
	// body's node table. Such a node has no class id or chunks of its
	// own; the word's low bits select the table entry.
	ExternalRef uint32
}

// IsExternal reports whether the node is a reference into the file's
// reference table.
func (n *Node) IsExternal() bool {
	return n.ExternalRef != 0
}

// Chunk is one serialized fragment of a node. A chunk either has a
// structured Body (its layout is registered for the node's class) or
// carries its payload verbatim in Raw. Raw chunks are almost always
// skippable: a non-skippable chunk has no size prefix and can only be
// carried raw if it was constructed in memory.
type Chunk struct {
	ID        uint32
	Skippable bool
	Body      ChunkBody
	Raw       []byte
}

// ChunkBody is a structured chunk payload. The method set is
// unexported: the set of body types is closed over this package's
// chunk registry.
type ChunkBody interface {
	read(d *decoder)
	write(e *encoder)
}

// chunkFactory builds an empty body for a chunk id.
type chunkFactory func() ChunkBody

// classRegistry maps class id to the body chunks this codec can
// decode structurally. Class files populate it from init functions.
var classRegistry = map[uint32]map[uint32]chunkFactory{}

// headerRegistry is the same for header (user data) chunks.
var headerRegistry = map[uint32]map[uint32]chunkFactory{}

func registerBodyChunk(classID, chunkID uint32, factory chunkFactory) {
	chunks := classRegistry[classID]
	if chunks == nil {
		chunks = make(map[uint32]chunkFactory)
		classRegistry[classID] = chunks
	}
	chunks[chunkID] = factory
}

func registerHeaderChunk(classID, chunkID uint32, factory chunkFactory) {
	chunks := headerRegistry[classID]
	if chunks == nil {
		chunks = make(map[uint32]chunkFactory)
		headerRegistry[classID] = chunks
	}
	chunks[chunkID] = factory
}

// RegisteredClasses returns the class ids with at least one
// structured body chunk, sorted.
func RegisteredClasses() []uint32 {
	ids := make([]uint32, 0, len(classRegistry))
	for id := range classRegistry {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Chunk looks up the first chunk with the given id, or nil.
func (n *Node) Chunk(id uint32) *Chunk {
	for i := range n.Chunks {
		if n.Chunks[i].ID == id {
			return &n.Chunks[i]
		}
	}
	return nil
}
