// Copyright 2026 The Gbx Authors
// SPDX-License-Identifier: Apache-2.0

package gbx

import "fmt"

const (
	// endOfNode terminates a node's chunk list.
	endOfNode = 0xFACADE01

	// skippableMarker follows the id of a skippable chunk: the bytes
	// "PIKS" as a little-endian u32, then the payload size.
	skippableMarker = 0x534B4950

	// nullRef is a node reference to nothing.
	nullRef = 0xFFFFFFFF

	// externalRefBit marks a node reference that resolves through the
	// file's reference table. Read as a signed index these words are
	// negative; the null word is carved out first.
	externalRefBit = 0x80000000
)

// decoder is the per-call decode session: the cursor, the lookback
// string table of the current scope and the node table declared in
// the header. A decoder is never shared between calls.
type decoder struct {
	r       *reader
	strings *lookbackDecoder

	// node is the node whose chunk list is currently being decoded.
	// Some chunks carry data for earlier chunks of the same node and
	// reach back through it.
	node *Node

	// arena holds the body's node table. Slot i serves wire index
	// i+1; a slot is filled the first time its index appears. Nil
	// outside the body (header chunks, nested buffers), where node
	// references are not allowed.
	arena []*Node
}

func newDecoder(data []byte, numNodes int) *decoder {
	return &decoder{
		r:       newReader(data),
		strings: &lookbackDecoder{},
		arena:   make([]*Node, numNodes),
	}
}

// nested returns a decoder over an embedded buffer. Embedded buffers
// carry their own lookback table and cannot reference body nodes.
func (d *decoder) nested(data []byte) *decoder {
	return &decoder{r: newReader(data), strings: &lookbackDecoder{}}
}

func (d *decoder) identifier() string {
	return d.strings.identifier(d.r)
}

// readChunks decodes the chunk list of n until the end-of-node word.
// Chunks with a registered body for n's class decode structurally;
// unregistered skippable chunks are preserved verbatim; an
// unregistered chunk without a size prefix is fatal because nothing
// after it can be located.
func (d *decoder) readChunks(n *Node) {
	prev := d.node
	d.node = n
	defer func() { d.node = prev }()

	factories := classRegistry[n.ClassID]

	for d.r.ok() {
		id := d.r.uint32()
		if !d.r.ok() || id == endOfNode {
			return
		}

		if d.r.peekUint32() == skippableMarker && d.r.ok() {
			d.r.uint32()
			size := d.r.uint32()
			if !d.r.need(int(size)) {
				return
			}
			start := d.r.offset()
			if factory := factories[id]; factory != nil {
				body := factory()
				body.read(d)
				if !d.r.ok() {
					return
				}
				if consumed := d.r.offset() - start; consumed != int(size) {
					d.r.failf(ErrMalformedValue, "chunk %08X decoded %d of %d bytes", id, consumed, size)
					return
				}
				n.Chunks = append(n.Chunks, Chunk{ID: id, Skippable: true, Body: body})
			} else {
				raw := make([]byte, size)
				copy(raw, d.r.bytes(int(size)))
				n.Chunks = append(n.Chunks, Chunk{ID: id, Skippable: true, Raw: raw})
			}
			continue
		}
		if !d.r.ok() {
			return
		}

		factory := factories[id]
		if factory == nil {
			d.r.failf(ErrUnknownNonSkippableChunk, "chunk %08X of class %08X", id, n.ClassID)
			return
		}
		body := factory()
		body.read(d)
		if d.r.ok() {
			n.Chunks = append(n.Chunks, Chunk{ID: id, Body: body})
		}
	}
}

// readNodeRef decodes a node reference. The first occurrence of an
// index carries the node's class id and chunks inline; later
// occurrences resolve to the same *Node. Index 0xFFFFFFFF is nil, and
// other words with the sign bit set name reference table entries.
func (d *decoder) readNodeRef() *Node {
	index := d.r.uint32()
	if !d.r.ok() || index == nullRef {
		return nil
	}
	if index&externalRefBit != 0 {
		return &Node{ExternalRef: index}
	}
	if d.arena == nil {
		d.r.fail(ErrUnresolvedNodeReference, "node reference outside the body")
		return nil
	}
	slot := int(index) - 1
	if index == 0 || slot >= len(d.arena) {
		d.r.failf(ErrUnresolvedNodeReference, "index %d, table holds %d nodes", index, len(d.arena))
		return nil
	}
	if d.arena[slot] != nil {
		return d.arena[slot]
	}
	node := &Node{ClassID: d.r.uint32()}
	d.arena[slot] = node
	d.readChunks(node)
	return node
}

// readFlatNode decodes a node stored inline without a table index:
// just the class id followed by its chunks.
func (d *decoder) readFlatNode() *Node {
	node := &Node{ClassID: d.r.uint32()}
	if !d.r.ok() {
		return nil
	}
	d.readChunks(node)
	return node
}

// readOptionalFlatNode decodes a flat node, or nil when the class id
// slot holds the null word.
func (d *decoder) readOptionalFlatNode() *Node {
	if d.r.peekUint32() == nullRef {
		d.r.uint32()
		return nil
	}
	if !d.r.ok() {
		return nil
	}
	return d.readFlatNode()
}

// encoder is the per-call encode session. Node table indexes are
// assigned in first-discovery order during the walk of the root's
// chunks, matching the decoder's first-occurrence-defines rule.
type encoder struct {
	w       *writer
	strings *lookbackEncoder

	// node mirrors decoder.node for chunks that serialize data held
	// by sibling chunks.
	node *Node

	index map[*Node]uint32
	count uint32

	err *EncodeError
}

func newEncoder() *encoder {
	return &encoder{
		w:       newWriter(),
		strings: newLookbackEncoder(),
		index:   make(map[*Node]uint32),
	}
}

// nested returns an encoder for an embedded buffer with a fresh
// lookback table. The embedded bytes are appended to the parent by
// the caller, behind a size prefix.
func (e *encoder) nested() *encoder {
	return &encoder{w: newWriter(), strings: newLookbackEncoder()}
}

func (e *encoder) fail(err error, detail string) {
	if e.err == nil {
		e.err = &EncodeError{Err: err, Detail: detail}
	}
}

func (e *encoder) identifier(s string) {
	e.strings.identifier(e.w, s)
}

// writeChunks encodes n's chunk list and the end-of-node word.
func (e *encoder) writeChunks(n *Node) {
	prev := e.node
	e.node = n
	defer func() { e.node = prev }()

	for i := range n.Chunks {
		if e.err != nil {
			return
		}
		c := &n.Chunks[i]
		if c.Body == nil && c.Raw == nil {
			e.fail(ErrUnsupportedNodeVariant, chunkName(n.ClassID, c.ID))
			return
		}
		e.w.uint32(c.ID)
		if c.Skippable {
			e.w.uint32(skippableMarker)
			size := e.w.reserveUint32()
			e.writeChunkPayload(c)
			e.w.patchUint32(size, e.w.sizeSince(size))
		} else {
			e.writeChunkPayload(c)
		}
	}
	e.w.uint32(endOfNode)
}

func (e *encoder) writeChunkPayload(c *Chunk) {
	if c.Body != nil {
		c.Body.write(e)
		return
	}
	e.w.bytes(c.Raw)
}

func (e *encoder) writeNodeRef(n *Node) {
	if n == nil {
		e.w.uint32(nullRef)
		return
	}
	if n.IsExternal() {
		e.w.uint32(n.ExternalRef)
		return
	}
	if index, ok := e.index[n]; ok {
		e.w.uint32(index)
		return
	}
	e.count++
	e.index[n] = e.count
	e.w.uint32(e.count)
	e.w.uint32(n.ClassID)
	e.writeChunks(n)
}

func (e *encoder) writeFlatNode(n *Node) {
	if n == nil {
		e.fail(ErrUnsupportedNodeVariant, "nil inline node")
		return
	}
	e.w.uint32(n.ClassID)
	e.writeChunks(n)
}

func (e *encoder) writeOptionalFlatNode(n *Node) {
	if n == nil {
		e.w.uint32(nullRef)
		return
	}
	e.writeFlatNode(n)
}

func chunkName(classID, chunkID uint32) string {
	return fmt.Sprintf("class %08X chunk %08X", classID, chunkID)
}
