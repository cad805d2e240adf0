// Copyright 2026 The Gbx Authors
// SPDX-License-Identifier: Apache-2.0

package gbx

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"
)

// reader is a cursor over an in-memory byte slice. All multi-byte
// values are little-endian. The first failure is latched: every
// subsequent read returns a zero value without advancing, so field
// sequences can be read without per-field error checks and the error
// inspected once at the end.
type reader struct {
	data []byte
	off  int
	err  *DecodeError
}

func newReader(data []byte) *reader {
	return &reader{data: data}
}

// fail latches the first error with the current offset. Later calls
// are ignored so the reported offset is where parsing went wrong.
func (r *reader) fail(err error, detail string) {
	if r.err == nil {
		r.err = &DecodeError{Err: err, Offset: r.off, Detail: detail}
	}
}

func (r *reader) failf(err error, format string, args ...any) {
	r.fail(err, fmt.Sprintf(format, args...))
}

func (r *reader) Err() *DecodeError {
	return r.err
}

func (r *reader) ok() bool {
	return r.err == nil
}

func (r *reader) offset() int {
	return r.off
}

func (r *reader) remaining() int {
	return len(r.data) - r.off
}

// need reports whether n more bytes are available, latching
// ErrUnexpectedEOF if not.
func (r *reader) need(n int) bool {
	if r.err != nil {
		return false
	}
	if n < 0 || r.remaining() < n {
		r.failf(ErrUnexpectedEOF, "need %d bytes, have %d", n, r.remaining())
		return false
	}
	return true
}

func (r *reader) bytes(n int) []byte {
	if !r.need(n) {
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) skip(n int) {
	if r.need(n) {
		r.off += n
	}
}

func (r *reader) uint8() uint8 {
	if !r.need(1) {
		return 0
	}
	v := r.data[r.off]
	r.off++
	return v
}

func (r *reader) uint16() uint16 {
	if !r.need(2) {
		return 0
	}
	v := binary.LittleEndian.Uint16(r.data[r.off:])
	r.off += 2
	return v
}

func (r *reader) uint32() uint32 {
	if !r.need(4) {
		return 0
	}
	v := binary.LittleEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v
}

func (r *reader) uint64() uint64 {
	if !r.need(8) {
		return 0
	}
	v := binary.LittleEndian.Uint64(r.data[r.off:])
	r.off += 8
	return v
}

func (r *reader) float32() float32 {
	return math.Float32frombits(r.uint32())
}

// peekUint32 returns the next u32 without advancing. Used by the block
// list decoder, whose element count is not authoritative, and by the
// chunk dispatcher to detect the skippable marker.
func (r *reader) peekUint32() uint32 {
	if !r.need(4) {
		return 0
	}
	return binary.LittleEndian.Uint32(r.data[r.off:])
}

// boolean reads a bool stored as a u32 that must be 0 or 1.
func (r *reader) boolean() bool {
	v := r.uint32()
	if r.err != nil {
		return false
	}
	switch v {
	case 0:
		return false
	case 1:
		return true
	default:
		r.failf(ErrMalformedValue, "boolean field holds %#x", v)
		return false
	}
}

// stringField reads a u32 length prefix followed by UTF-8 bytes.
func (r *reader) stringField() string {
	n := r.uint32()
	if r.err != nil {
		return ""
	}
	if int64(n) > int64(r.remaining()) {
		r.failf(ErrUnexpectedEOF, "string of %d bytes exceeds remaining input", n)
		return ""
	}
	b := r.bytes(int(n))
	if r.err != nil {
		return ""
	}
	if !utf8.Valid(b) {
		r.fail(ErrMalformedValue, "string is not valid UTF-8")
		return ""
	}
	return string(b)
}

// blob reads a u32 length prefix followed by that many raw bytes. The
// returned slice aliases the input; callers that retain it copy it.
func (r *reader) blob() []byte {
	n := r.uint32()
	if r.err != nil {
		return nil
	}
	if int64(n) > int64(r.remaining()) {
		r.failf(ErrUnexpectedEOF, "blob of %d bytes exceeds remaining input", n)
		return nil
	}
	return r.bytes(int(n))
}

// listCount reads a u32 element count and rejects counts that cannot
// possibly fit in the remaining input, assuming at least elemSize
// bytes per element. Guards allocation before reading the elements.
func (r *reader) listCount(elemSize int) int {
	n := r.uint32()
	if r.err != nil {
		return 0
	}
	if elemSize > 0 && int64(n)*int64(elemSize) > int64(r.remaining()) {
		r.failf(ErrUnexpectedEOF, "list of %d elements exceeds remaining input", n)
		return 0
	}
	return int(n)
}

func (r *reader) vec3() Vec3 {
	var v Vec3
	v.X = r.float32()
	v.Y = r.float32()
	v.Z = r.float32()
	return v
}

func (r *reader) int3() Int3 {
	var v Int3
	v.X = r.uint32()
	v.Y = r.uint32()
	v.Z = r.uint32()
	return v
}

func (r *reader) byte3() Byte3 {
	var v Byte3
	v.X = r.uint8()
	v.Y = r.uint8()
	v.Z = r.uint8()
	return v
}

// fileRef reads a file reference: version byte 3, a 32-byte SHA-256
// digest, the internal path and the locator URL. The all-zero form
// decodes to the zero FileRef.
func (r *reader) fileRef() FileRef {
	version := r.uint8()
	if r.err != nil {
		return FileRef{}
	}
	if version != fileRefVersion {
		r.failf(ErrMalformedValue, "file reference version %d, want %d", version, fileRefVersion)
		return FileRef{}
	}
	var ref FileRef
	copy(ref.Hash[:], r.bytes(32))
	ref.Path = r.stringField()
	ref.LocatorURL = r.stringField()
	return ref
}
