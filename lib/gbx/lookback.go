// Copyright 2026 The Gbx Authors
// SPDX-License-Identifier: Apache-2.0

package gbx

// Identifier strings (block model names, map UIDs, decoration names)
// are stored through a lookback table: the first occurrence of a
// string defines it on the wire, repeats are encoded as an index into
// the table of definitions seen so far. A table version word precedes
// the first identifier in each scope; the header block, each
// reference table and the body each start a fresh table.
const (
	lookbackVersion = 3

	// Control words. Bit 30 marks a table operation; the low 12 bits
	// of a back-reference hold the 1-based definition index.
	lookbackNull      = 0xFFFFFFFF
	lookbackEmpty     = 0x00000001
	lookbackDefine    = 0x40000000
	lookbackIndexMask = 0x00000FFF
	lookbackOpMask    = 0xFFFFF000
)

// lookbackDecoder holds the identifier strings defined so far in the
// current scope.
type lookbackDecoder struct {
	seenVersion bool
	table       []string
}

// identifier reads one lookback-encoded string. The null form decodes
// to the empty string.
func (l *lookbackDecoder) identifier(r *reader) string {
	if !l.seenVersion {
		version := r.uint32()
		if r.err != nil {
			return ""
		}
		if version != lookbackVersion {
			r.failf(ErrUnsupportedChunkVersion, "lookback table version %d, want %d", version, lookbackVersion)
			return ""
		}
		l.seenVersion = true
	}

	control := r.uint32()
	if r.err != nil {
		return ""
	}
	switch {
	case control == lookbackNull:
		return ""
	case control == lookbackEmpty:
		return ""
	case control == lookbackDefine:
		s := r.stringField()
		if r.err != nil {
			return ""
		}
		l.table = append(l.table, s)
		return s
	case control&lookbackOpMask == lookbackDefine:
		index := int(control & lookbackIndexMask)
		if index < 1 || index > len(l.table) {
			r.failf(ErrInvalidLookbackIndex, "index %d, table holds %d strings", index, len(l.table))
			return ""
		}
		return l.table[index-1]
	default:
		r.failf(ErrMalformedValue, "lookback control word %#x", control)
		return ""
	}
}

// lookbackEncoder mirrors lookbackDecoder: the first occurrence of a
// string writes a definition, repeats write its 1-based index. Empty
// strings are written as the null form, which the decoder maps back
// to "", keeping decode(encode(x)) stable.
type lookbackEncoder struct {
	seenVersion bool
	index       map[string]uint32
}

func newLookbackEncoder() *lookbackEncoder {
	return &lookbackEncoder{index: make(map[string]uint32)}
}

func (l *lookbackEncoder) identifier(w *writer, s string) {
	if !l.seenVersion {
		w.uint32(lookbackVersion)
		l.seenVersion = true
	}

	if s == "" {
		w.uint32(lookbackNull)
		return
	}
	if index, ok := l.index[s]; ok {
		w.uint32(lookbackDefine | index)
		return
	}
	l.index[s] = uint32(len(l.index) + 1)
	w.uint32(lookbackDefine)
	w.stringField(s)
}
