// Copyright 2026 The Gbx Authors
// SPDX-License-Identifier: Apache-2.0

package gbx

import (
	"bytes"
	"errors"
	"testing"
)

func TestReaderPrimitives(t *testing.T) {
	w := newWriter()
	w.uint8(0x42)
	w.uint16(0x1234)
	w.uint32(0xDEADBEEF)
	w.uint64(0x0102030405060708)
	w.float32(1.5)
	w.boolean(true)
	w.stringField("hello")

	r := newReader(w.buf)
	if got := r.uint8(); got != 0x42 {
		t.Errorf("uint8 = %#x", got)
	}
	if got := r.uint16(); got != 0x1234 {
		t.Errorf("uint16 = %#x", got)
	}
	if got := r.uint32(); got != 0xDEADBEEF {
		t.Errorf("uint32 = %#x", got)
	}
	if got := r.uint64(); got != 0x0102030405060708 {
		t.Errorf("uint64 = %#x", got)
	}
	if got := r.float32(); got != 1.5 {
		t.Errorf("float32 = %v", got)
	}
	if got := r.boolean(); !got {
		t.Error("boolean = false")
	}
	if got := r.stringField(); got != "hello" {
		t.Errorf("stringField = %q", got)
	}
	if r.err != nil {
		t.Fatalf("unexpected error: %v", r.err)
	}
	if r.remaining() != 0 {
		t.Errorf("remaining = %d", r.remaining())
	}
}

func TestReaderLittleEndian(t *testing.T) {
	r := newReader([]byte{0x01, 0x02, 0x03, 0x04})
	if got := r.uint32(); got != 0x04030201 {
		t.Errorf("uint32 = %#x, want 0x04030201", got)
	}
}

func TestReaderStickyError(t *testing.T) {
	r := newReader([]byte{0x01, 0x02})
	r.uint32()
	if r.err == nil {
		t.Fatal("short read should fail")
	}
	if !errors.Is(r.err, ErrUnexpectedEOF) {
		t.Errorf("error = %v, want ErrUnexpectedEOF", r.err)
	}
	offset := r.err.Offset

	// Later reads return zero values and do not move the latched
	// error.
	if got := r.uint32(); got != 0 {
		t.Errorf("read after error = %#x, want 0", got)
	}
	if r.err.Offset != offset {
		t.Errorf("error offset moved from %d to %d", offset, r.err.Offset)
	}
}

func TestReaderBooleanRejectsJunk(t *testing.T) {
	r := newReader([]byte{0x02, 0x00, 0x00, 0x00})
	r.boolean()
	if !errors.Is(r.err, ErrMalformedValue) {
		t.Errorf("error = %v, want ErrMalformedValue", r.err)
	}
}

func TestReaderStringRejectsInvalidUTF8(t *testing.T) {
	w := newWriter()
	w.uint32(2)
	w.bytes([]byte{0xFF, 0xFE})

	r := newReader(w.buf)
	r.stringField()
	if !errors.Is(r.err, ErrMalformedValue) {
		t.Errorf("error = %v, want ErrMalformedValue", r.err)
	}
}

func TestReaderStringLengthBounded(t *testing.T) {
	// A huge declared length must fail before any allocation.
	w := newWriter()
	w.uint32(0xFFFFFFF0)

	r := newReader(w.buf)
	r.stringField()
	if !errors.Is(r.err, ErrUnexpectedEOF) {
		t.Errorf("error = %v, want ErrUnexpectedEOF", r.err)
	}
}

func TestReaderListCountBounded(t *testing.T) {
	w := newWriter()
	w.uint32(1 << 30)

	r := newReader(w.buf)
	r.listCount(4)
	if !errors.Is(r.err, ErrUnexpectedEOF) {
		t.Errorf("error = %v, want ErrUnexpectedEOF", r.err)
	}
}

func TestReaderVectors(t *testing.T) {
	w := newWriter()
	w.vec3(Vec3{1, 2, 3})
	w.int3(Int3{4, 5, 6})
	w.byte3(Byte3{7, 8, 9})

	r := newReader(w.buf)
	if got := r.vec3(); got != (Vec3{1, 2, 3}) {
		t.Errorf("vec3 = %+v", got)
	}
	if got := r.int3(); got != (Int3{4, 5, 6}) {
		t.Errorf("int3 = %+v", got)
	}
	if got := r.byte3(); got != (Byte3{7, 8, 9}) {
		t.Errorf("byte3 = %+v", got)
	}
	if r.err != nil {
		t.Fatalf("unexpected error: %v", r.err)
	}
}

func TestFileRefRoundTrip(t *testing.T) {
	refs := []FileRef{
		{},
		InternalFileRef("Skins/Sample.zip"),
		ExternalFileRef([32]byte{0xAA, 0xBB}, "Media/Texture.dds", "https://example.com/texture.dds"),
	}

	for _, ref := range refs {
		w := newWriter()
		w.fileRef(ref)

		r := newReader(w.buf)
		got := r.fileRef()
		if r.err != nil {
			t.Fatalf("fileRef(%+v): %v", ref, r.err)
		}
		if got != ref {
			t.Errorf("round trip: got %+v, want %+v", got, ref)
		}
	}
}

func TestFileRefRejectsWrongVersion(t *testing.T) {
	w := newWriter()
	w.uint8(2)
	w.bytes(make([]byte, 32))
	w.stringField("")
	w.stringField("")

	r := newReader(w.buf)
	r.fileRef()
	if !errors.Is(r.err, ErrMalformedValue) {
		t.Errorf("error = %v, want ErrMalformedValue", r.err)
	}
}

func TestFileRefClassification(t *testing.T) {
	if !(FileRef{}).IsZero() {
		t.Error("zero FileRef should be zero")
	}
	internal := InternalFileRef("Skins/Any.zip")
	if !internal.IsInternal() || internal.IsExternal() || internal.IsZero() {
		t.Errorf("internal ref misclassified: %+v", internal)
	}
	external := ExternalFileRef([32]byte{1}, "a", "https://example.com/a")
	if !external.IsExternal() || external.IsInternal() {
		t.Errorf("external ref misclassified: %+v", external)
	}
}

func TestWriterReservePatch(t *testing.T) {
	w := newWriter()
	w.uint32(7)
	p := w.reserveUint32()
	w.bytes([]byte("payload"))
	w.patchUint32(p, w.sizeSince(p))

	r := newReader(w.buf)
	if got := r.uint32(); got != 7 {
		t.Errorf("prefix = %d", got)
	}
	if got := r.uint32(); got != 7 {
		t.Errorf("patched size = %d, want 7", got)
	}
	if got := r.bytes(7); !bytes.Equal(got, []byte("payload")) {
		t.Errorf("payload = %q", got)
	}
}
