// Copyright 2026 The Gbx Authors
// SPDX-License-Identifier: Apache-2.0

package gbx

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Ghost class ids.
const (
	ClassGhost        = 0x03092000
	ClassEntityRecord = 0x0911F000
)

func init() {
	registerBodyChunk(ClassGhost, 0x0303F006, func() ChunkBody { return &GhostChunk3F006{} })
	registerBodyChunk(ClassGhost, 0x03092000, func() ChunkBody { return &GhostInfoChunk{} })
	registerBodyChunk(ClassGhost, 0x0309200C, func() ChunkBody { return &GhostChunk00C{} })
	registerBodyChunk(ClassGhost, 0x0309200E, func() ChunkBody { return &GhostChunk00E{} })
	registerBodyChunk(ClassGhost, 0x0309200F, func() ChunkBody { return &GhostChunk00F{} })
	registerBodyChunk(ClassGhost, 0x03092010, func() ChunkBody { return &GhostChunk010{} })
	registerBodyChunk(ClassGhost, 0x0309201C, func() ChunkBody { return &GhostChunk01C{} })

	registerBodyChunk(ClassEntityRecord, 0x0911F000, func() ChunkBody { return &EntityRecordChunk{} })
}

// GhostChunk3F006 (0x0303F006).
type GhostChunk3F006 struct {
	Unknown1 uint32
	Unknown2 uint32
	Unknown3 uint16
	Unknown4 uint32
	Unknown5 uint32
	Unknown6 uint32
	Unknown7 uint16
}

func (c *GhostChunk3F006) read(d *decoder) {
	c.Unknown1 = d.r.uint32()
	c.Unknown2 = d.r.uint32()
	c.Unknown3 = d.r.uint16()
	c.Unknown4 = d.r.uint32()
	c.Unknown5 = d.r.uint32()
	c.Unknown6 = d.r.uint32()
	c.Unknown7 = d.r.uint16()
}

func (c *GhostChunk3F006) write(e *encoder) {
	e.w.uint32(c.Unknown1)
	e.w.uint32(c.Unknown2)
	e.w.uint16(c.Unknown3)
	e.w.uint32(c.Unknown4)
	e.w.uint32(c.Unknown5)
	e.w.uint32(c.Unknown6)
	e.w.uint16(c.Unknown7)
}

// GhostInfoChunk (0x03092000, skippable) identifies the vehicle, the
// skin files and the recorded run.
type GhostInfoChunk struct {
	Version   uint32
	ModelID   string
	Unknown1  uint32
	Unknown2  string
	Unknown3  [3]uint32
	SkinRefs  []FileRef
	Unknown4  uint32
	Unknown5  string
	Unknown6  [3]uint32
	Record    *Node
	Unknown7  []uint32
	Unknown8  uint32
	Unknown9  uint16
	Unknown10 uint8
	Login     string

	// Unknown11 is present when Version >= 8.
	Unknown11 string
}

func (c *GhostInfoChunk) read(d *decoder) {
	c.Version = d.r.uint32()
	c.ModelID = d.identifier()
	c.Unknown1 = d.r.uint32()
	c.Unknown2 = d.identifier()
	for i := range c.Unknown3 {
		c.Unknown3[i] = d.r.uint32()
	}
	count := d.r.listCount(41)
	for i := 0; i < count && d.r.ok(); i++ {
		c.SkinRefs = append(c.SkinRefs, d.r.fileRef())
	}
	c.Unknown4 = d.r.uint32()
	c.Unknown5 = d.r.stringField()
	for i := range c.Unknown6 {
		c.Unknown6[i] = d.r.uint32()
	}
	c.Record = d.readNodeRef()
	c.Unknown7 = readUint32List(d.r)
	c.Unknown8 = d.r.uint32()
	c.Unknown9 = d.r.uint16()
	c.Unknown10 = d.r.uint8()
	c.Login = d.r.stringField()
	if c.Version >= 8 {
		c.Unknown11 = d.r.stringField()
	}
}

func (c *GhostInfoChunk) write(e *encoder) {
	e.w.uint32(c.Version)
	e.identifier(c.ModelID)
	e.w.uint32(c.Unknown1)
	e.identifier(c.Unknown2)
	for _, v := range c.Unknown3 {
		e.w.uint32(v)
	}
	e.w.uint32(uint32(len(c.SkinRefs)))
	for i := range c.SkinRefs {
		e.w.fileRef(c.SkinRefs[i])
	}
	e.w.uint32(c.Unknown4)
	e.w.stringField(c.Unknown5)
	for _, v := range c.Unknown6 {
		e.w.uint32(v)
	}
	e.writeNodeRef(c.Record)
	writeUint32List(e.w, c.Unknown7)
	e.w.uint32(c.Unknown8)
	e.w.uint16(c.Unknown9)
	e.w.uint8(c.Unknown10)
	e.w.stringField(c.Login)
	if c.Version >= 8 {
		e.w.stringField(c.Unknown11)
	}
}

// GhostChunk00C (0x0309200C).
type GhostChunk00C struct {
	Unknown1 uint32
}

func (c *GhostChunk00C) read(d *decoder)  { c.Unknown1 = d.r.uint32() }
func (c *GhostChunk00C) write(e *encoder) { e.w.uint32(c.Unknown1) }

// GhostChunk00E (0x0309200E).
type GhostChunk00E struct {
	Unknown1 uint32
}

func (c *GhostChunk00E) read(d *decoder)  { c.Unknown1 = d.r.uint32() }
func (c *GhostChunk00E) write(e *encoder) { e.w.uint32(c.Unknown1) }

// GhostChunk00F (0x0309200F) names the driver.
type GhostChunk00F struct {
	Login string
}

func (c *GhostChunk00F) read(d *decoder)  { c.Login = d.r.stringField() }
func (c *GhostChunk00F) write(e *encoder) { e.w.stringField(c.Login) }

// GhostChunk010 (0x03092010).
type GhostChunk010 struct {
	Unknown1 string
}

func (c *GhostChunk010) read(d *decoder)  { c.Unknown1 = d.identifier() }
func (c *GhostChunk010) write(e *encoder) { e.identifier(c.Unknown1) }

// GhostChunk01C (0x0309201C).
type GhostChunk01C struct {
	Unknown1 [8]uint32
}

func (c *GhostChunk01C) read(d *decoder) {
	for i := range c.Unknown1 {
		c.Unknown1[i] = d.r.uint32()
	}
}

func (c *GhostChunk01C) write(e *encoder) {
	for _, v := range c.Unknown1 {
		e.w.uint32(v)
	}
}

// EntityRecordChunk (0x0911F000) holds the recorded entity samples.
// The wire payload is zlib-compressed; Data is the inflated stream.
type EntityRecordChunk struct {
	Version uint32
	Data    []byte
}

func (c *EntityRecordChunk) read(d *decoder) {
	c.Version = d.r.uint32()
	size := d.r.uint32()
	compressed := d.r.blob()
	if !d.r.ok() {
		return
	}
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		d.r.failf(ErrDecompressionFailed, "entity record: %v", err)
		return
	}
	data, err := io.ReadAll(zr)
	zr.Close()
	if err != nil {
		d.r.failf(ErrDecompressionFailed, "entity record: %v", err)
		return
	}
	if len(data) != int(size) {
		d.r.failf(ErrDecompressionFailed, "entity record inflated to %d bytes, header says %d", len(data), size)
		return
	}
	c.Data = data
}

func (c *EntityRecordChunk) write(e *encoder) {
	e.w.uint32(c.Version)
	e.w.uint32(uint32(len(c.Data)))
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(c.Data); err != nil {
		e.fail(ErrIOFailure, "entity record deflate: "+err.Error())
		return
	}
	if err := zw.Close(); err != nil {
		e.fail(ErrIOFailure, "entity record deflate: "+err.Error())
		return
	}
	e.w.blob(buf.Bytes())
}
