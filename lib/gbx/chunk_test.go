// Copyright 2026 The Gbx Authors
// SPDX-License-Identifier: Apache-2.0

package gbx

import (
	"bytes"
	"errors"
	"testing"
)

func TestNodeRefNull(t *testing.T) {
	w := newWriter()
	w.uint32(nullRef)

	d := newDecoder(w.buf, 4)
	if n := d.readNodeRef(); n != nil {
		t.Errorf("null reference decoded to %+v", n)
	}
	if d.r.err != nil {
		t.Errorf("err = %v", d.r.err)
	}
}

func TestNodeRefExternal(t *testing.T) {
	w := newWriter()
	w.uint32(externalRefBit | 2)

	d := newDecoder(w.buf, 0)
	n := d.readNodeRef()
	if d.r.err != nil {
		t.Fatalf("err = %v", d.r.err)
	}
	if n == nil || !n.IsExternal() || n.ExternalRef != externalRefBit|2 {
		t.Fatalf("node = %+v", n)
	}

	e := newEncoder()
	e.writeNodeRef(n)
	if !bytes.Equal(e.w.buf, w.buf) {
		t.Errorf("re-encode = %x, want %x", e.w.buf, w.buf)
	}
	if e.count != 0 {
		t.Errorf("external reference consumed a node table slot")
	}
}

func TestNodeRefIndexOutOfRange(t *testing.T) {
	w := newWriter()
	w.uint32(5)

	d := newDecoder(w.buf, 2)
	d.readNodeRef()
	if !errors.Is(d.r.err, ErrUnresolvedNodeReference) {
		t.Errorf("err = %v, want ErrUnresolvedNodeReference", d.r.err)
	}
}

func TestNodeRefZeroIndex(t *testing.T) {
	w := newWriter()
	w.uint32(0)

	d := newDecoder(w.buf, 2)
	d.readNodeRef()
	if !errors.Is(d.r.err, ErrUnresolvedNodeReference) {
		t.Errorf("err = %v, want ErrUnresolvedNodeReference", d.r.err)
	}
}

func TestNodeRefOutsideBody(t *testing.T) {
	w := newWriter()
	w.uint32(1)

	// Nested buffers have no node table.
	d := newDecoder(nil, 0).nested(w.buf)
	d.readNodeRef()
	if !errors.Is(d.r.err, ErrUnresolvedNodeReference) {
		t.Errorf("err = %v, want ErrUnresolvedNodeReference", d.r.err)
	}
}

func TestNodeRefSecondOccurrenceIsIndexOnly(t *testing.T) {
	n := &Node{ClassID: ClassMediaTrack, Chunks: []Chunk{
		{ID: 0x03078005, Body: &MediaTrackSettingsChunk{}},
	}}

	e := newEncoder()
	e.writeNodeRef(n)
	first := len(e.w.buf)
	e.writeNodeRef(n)
	if e.err != nil {
		t.Fatalf("encode: %v", e.err)
	}
	if got := len(e.w.buf) - first; got != 4 {
		t.Errorf("second reference wrote %d bytes, want 4", got)
	}

	d := newDecoder(e.w.buf, int(e.count))
	a := d.readNodeRef()
	b := d.readNodeRef()
	if d.r.err != nil {
		t.Fatalf("decode: %v", d.r.err)
	}
	if a == nil || a != b {
		t.Error("both references should resolve to one node")
	}
}

func TestSkippableChunkSizeMismatchFails(t *testing.T) {
	// A laps chunk payload is 8 bytes. Declare 12 and pad so the
	// skip region is intact but the structured decode falls short.
	w := newWriter()
	w.uint32(0x03043018)
	w.uint32(skippableMarker)
	w.uint32(12)
	w.boolean(false)
	w.uint32(3)
	w.uint32(0xDEADBEEF)
	w.uint32(endOfNode)

	d := newDecoder(w.buf, 0)
	d.readChunks(&Node{ClassID: ClassMap})
	if !errors.Is(d.r.err, ErrMalformedValue) {
		t.Errorf("err = %v, want ErrMalformedValue", d.r.err)
	}
}

func TestFlatNodeRoundTrip(t *testing.T) {
	n := &Node{ClassID: ClassWaypointProperty, Chunks: []Chunk{
		{ID: 0x2E009000, Body: &WaypointChunk{Version: 2, Tag: WaypointStart}},
	}}

	e := newEncoder()
	e.writeOptionalFlatNode(n)
	e.writeOptionalFlatNode(nil)
	if e.err != nil {
		t.Fatalf("encode: %v", e.err)
	}

	d := newDecoder(e.w.buf, 0)
	got := d.readOptionalFlatNode()
	if d.r.err != nil {
		t.Fatalf("decode: %v", d.r.err)
	}
	if got == nil || got.ClassID != ClassWaypointProperty {
		t.Fatalf("node = %+v", got)
	}
	if d.readOptionalFlatNode() != nil {
		t.Error("null word decoded to a node")
	}
	if d.r.remaining() != 0 {
		t.Errorf("remaining = %d", d.r.remaining())
	}
}
