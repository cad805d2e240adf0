// Copyright 2026 The Gbx Authors
// SPDX-License-Identifier: Apache-2.0

package gbx

import (
	"encoding/binary"
	"math"
)

// writer is an append-only output buffer. Length prefixes whose value
// is only known after the payload is written use reserve and patch:
// the writer never seeks backwards except to fill a reservation.
type writer struct {
	buf []byte
}

func newWriter() *writer {
	return &writer{buf: make([]byte, 0, 256)}
}

func (w *writer) bytes(b []byte) {
	w.buf = append(w.buf, b...)
}

func (w *writer) uint8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *writer) uint16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

func (w *writer) uint32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *writer) uint64(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

func (w *writer) float32(v float32) {
	w.uint32(math.Float32bits(v))
}

func (w *writer) boolean(v bool) {
	if v {
		w.uint32(1)
	} else {
		w.uint32(0)
	}
}

func (w *writer) stringField(s string) {
	w.uint32(uint32(len(s)))
	w.buf = append(w.buf, s...)
}

func (w *writer) blob(b []byte) {
	w.uint32(uint32(len(b)))
	w.bytes(b)
}

func (w *writer) vec3(v Vec3) {
	w.float32(v.X)
	w.float32(v.Y)
	w.float32(v.Z)
}

func (w *writer) int3(v Int3) {
	w.uint32(v.X)
	w.uint32(v.Y)
	w.uint32(v.Z)
}

func (w *writer) byte3(v Byte3) {
	w.uint8(v.X)
	w.uint8(v.Y)
	w.uint8(v.Z)
}

func (w *writer) fileRef(ref FileRef) {
	w.uint8(fileRefVersion)
	w.bytes(ref.Hash[:])
	w.stringField(ref.Path)
	w.stringField(ref.LocatorURL)
}

func (w *writer) len() int {
	return len(w.buf)
}

// patch marks a reserved u32 slot in the output.
type patch int

// reserveUint32 appends a u32 placeholder and returns its position
// for a later patchUint32.
func (w *writer) reserveUint32() patch {
	p := patch(len(w.buf))
	w.uint32(0)
	return p
}

func (w *writer) patchUint32(p patch, v uint32) {
	binary.LittleEndian.PutUint32(w.buf[p:], v)
}

// sizeSince returns the number of bytes written after the given
// reservation slot. Used to patch size prefixes of skippable chunks
// and nested buffers.
func (w *writer) sizeSince(p patch) uint32 {
	return uint32(len(w.buf) - int(p) - 4)
}
