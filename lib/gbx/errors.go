// Copyright 2026 The Gbx Authors
// SPDX-License-Identifier: Apache-2.0

package gbx

import "fmt"

// Sentinel errors identifying the failure class of a decode or encode.
// Every error returned by Decode wraps one of these, so callers can
// branch with errors.Is without parsing messages.
var (
	// ErrBadMagic: the input does not start with the "GBX" magic.
	ErrBadMagic = fmt.Errorf("bad magic")

	// ErrUnsupportedVersion: the container version is outside the
	// supported range.
	ErrUnsupportedVersion = fmt.Errorf("unsupported file version")

	// ErrUnknownFormatFlag: the format byte is neither 'B' nor 'T',
	// or the text format was requested.
	ErrUnknownFormatFlag = fmt.Errorf("unknown format flag")

	// ErrUnknownCompressionFlag: a compression byte is neither 'C'
	// nor 'U', or an unsupported compression mode was requested.
	ErrUnknownCompressionFlag = fmt.Errorf("unknown compression flag")

	// ErrUnexpectedEOF: the input ended in the middle of a field.
	ErrUnexpectedEOF = fmt.Errorf("unexpected end of input")

	// ErrDecompressionFailed: the compressed body could not be
	// decompressed, or decompressed to the wrong length.
	ErrDecompressionFailed = fmt.Errorf("decompression failed")

	// ErrUnknownNonSkippableChunk: a chunk without a size prefix has
	// no registered decoder, so the rest of the node is unparseable.
	ErrUnknownNonSkippableChunk = fmt.Errorf("unknown non-skippable chunk")

	// ErrUnsupportedChunkVersion: a chunk's leading version field is
	// outside the range this codec understands.
	ErrUnsupportedChunkVersion = fmt.Errorf("unsupported chunk version")

	// ErrInvalidLookbackIndex: a string back-reference points past
	// the end of the lookback table.
	ErrInvalidLookbackIndex = fmt.Errorf("invalid lookback index")

	// ErrUnresolvedNodeReference: a node reference points outside
	// the table declared in the header.
	ErrUnresolvedNodeReference = fmt.Errorf("unresolved node reference")

	// ErrMalformedReferenceTable: the external reference table is
	// structurally invalid.
	ErrMalformedReferenceTable = fmt.Errorf("malformed reference table")

	// ErrMalformedValue: a field holds a value outside its wire
	// domain, such as a boolean that is neither 0 nor 1.
	ErrMalformedValue = fmt.Errorf("malformed value")
)

// Encode failure classes.
var (
	// ErrUnsupportedNodeVariant: a chunk carries neither a structured
	// body nor raw bytes, so there is nothing to serialize.
	ErrUnsupportedNodeVariant = fmt.Errorf("unsupported node variant")

	// ErrIOFailure: writing the encoded output failed.
	ErrIOFailure = fmt.Errorf("i/o failure")
)

// DecodeError reports a decode failure together with the byte offset
// at which it was detected. Offset is relative to the start of the
// stream being parsed at the time (the file for header errors, the
// decompressed body for chunk errors).
type DecodeError struct {
	Err    error
	Offset int
	Detail string
}

func (e *DecodeError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("gbx: %v at offset %d", e.Err, e.Offset)
	}
	return fmt.Sprintf("gbx: %v at offset %d: %s", e.Err, e.Offset, e.Detail)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// EncodeError reports an encode failure.
type EncodeError struct {
	Err    error
	Detail string
}

func (e *EncodeError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("gbx: %v", e.Err)
	}
	return fmt.Sprintf("gbx: %v: %s", e.Err, e.Detail)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}
