// Copyright 2026 The Gbx Authors
// SPDX-License-Identifier: Apache-2.0

package gbx

import "fmt"

// Container bytes.
const (
	formatBinary = 'B'
	formatText   = 'T'

	compressionCompressed   = 'C'
	compressionUncompressed = 'U'

	reservedByte = 'R'
)

// Container versions. Decoding accepts the range; encoding always
// emits the current version.
const (
	minVersion     = 3
	currentVersion = 6
)

// File is a decoded container: the header chunks (user data), the
// external reference table and the root node with everything it
// reaches. Encode of an unmodified File reproduces the bytes Encode
// originally produced for it.
type File struct {
	// Version is the container version the file was decoded from.
	// Encode ignores it and writes the current version.
	Version uint16

	// BodyCompressed mirrors the header's body compression flag.
	BodyCompressed bool

	// HeaderChunks is the user data block: self-sized chunks
	// available without touching the body.
	HeaderChunks []HeaderChunk

	// RefTable lists nodes stored in other files. Nil when the file
	// has no external references.
	RefTable *RefTable

	// Root is the main node. Its class id is the file's class id.
	Root *Node
}

// HeaderChunk is one user data chunk. Like body chunks it is either
// structured (registered header layout for the file's class) or
// carried raw. Heavy marks chunks that tools should not load eagerly;
// the flag is preserved from the wire and forced on for payloads
// larger than 255 bytes.
type HeaderChunk struct {
	ID    uint32
	Heavy bool
	Body  ChunkBody
	Raw   []byte
}

// ClassID returns the file's class id.
func (f *File) ClassID() uint32 {
	if f.Root == nil {
		return 0
	}
	return f.Root.ClassID
}

// HeaderChunk looks up the first header chunk with the given id, or
// nil.
func (f *File) HeaderChunk(id uint32) *HeaderChunk {
	for i := range f.HeaderChunks {
		if f.HeaderChunks[i].ID == id {
			return &f.HeaderChunks[i]
		}
	}
	return nil
}

// Decode parses a container from data. The returned File is complete:
// decoding never returns a partially filled value alongside an error.
func Decode(data []byte) (*File, error) {
	r := newReader(data)

	if magic := r.bytes(3); r.err != nil || string(magic) != "GBX" {
		return nil, &DecodeError{Err: ErrBadMagic}
	}

	version := r.uint16()
	if r.err != nil {
		return nil, r.err
	}
	if version < minVersion || version > currentVersion {
		return nil, &DecodeError{Err: ErrUnsupportedVersion, Offset: 3, Detail: fmt.Sprintf("version %d", version)}
	}

	switch format := r.uint8(); {
	case r.err != nil:
		return nil, r.err
	case format == formatBinary:
	case format == formatText:
		return nil, &DecodeError{Err: ErrUnknownFormatFlag, Offset: 5, Detail: "text format not supported"}
	default:
		return nil, &DecodeError{Err: ErrUnknownFormatFlag, Offset: 5, Detail: fmt.Sprintf("format byte %#x", format)}
	}

	switch refTableCompression := r.uint8(); {
	case r.err != nil:
		return nil, r.err
	case refTableCompression == compressionUncompressed:
	case refTableCompression == compressionCompressed:
		return nil, &DecodeError{Err: ErrUnknownCompressionFlag, Offset: 6, Detail: "compressed reference table not supported"}
	default:
		return nil, &DecodeError{Err: ErrUnknownCompressionFlag, Offset: 6, Detail: fmt.Sprintf("compression byte %#x", refTableCompression)}
	}

	bodyCompressed := false
	switch bodyCompression := r.uint8(); {
	case r.err != nil:
		return nil, r.err
	case bodyCompression == compressionCompressed:
		bodyCompressed = true
	case bodyCompression == compressionUncompressed:
	default:
		return nil, &DecodeError{Err: ErrUnknownCompressionFlag, Offset: 7, Detail: fmt.Sprintf("compression byte %#x", bodyCompression)}
	}

	if version >= 6 {
		if reserved := r.uint8(); r.err == nil && reserved != reservedByte {
			return nil, &DecodeError{Err: ErrMalformedValue, Offset: 8, Detail: fmt.Sprintf("reserved byte %#x", reserved)}
		}
	}
	if r.err != nil {
		return nil, r.err
	}

	classID := r.uint32()

	var headerChunks []HeaderChunk
	if version >= 6 {
		userData := r.blob()
		if r.err != nil {
			return nil, r.err
		}
		var err error
		headerChunks, err = parseUserData(classID, userData)
		if err != nil {
			return nil, err
		}
	}

	numNodes := r.uint32()

	var refTable *RefTable
	if version >= 5 {
		numExternal := r.uint32()
		if r.err != nil {
			return nil, r.err
		}
		if numExternal > 0 {
			var err error
			refTable, err = readRefTable(r, int(numExternal), version)
			if err != nil {
				return nil, err
			}
		}
	}
	if r.err != nil {
		return nil, r.err
	}

	var body []byte
	if bodyCompressed {
		bodySize := r.uint32()
		compressed := r.blob()
		if r.err != nil {
			return nil, r.err
		}
		var err error
		body, err = decompressBody(compressed, bodySize)
		if err != nil {
			return nil, err
		}
	} else {
		body = r.data[r.off:]
	}

	d := newDecoder(body, int(numNodes))
	root := &Node{ClassID: classID}
	d.readChunks(root)
	if d.r.err != nil {
		return nil, d.r.err
	}

	return &File{
		Version:        version,
		BodyCompressed: bodyCompressed,
		HeaderChunks:   headerChunks,
		RefTable:       refTable,
		Root:           root,
	}, nil
}

// Encode serializes f. The output is deterministic: node table
// indexes follow first-discovery order, lookback tables follow first
// occurrence, and the compressor is fixed.
func Encode(f *File) ([]byte, error) {
	if f.Root == nil {
		return nil, &EncodeError{Err: ErrUnsupportedNodeVariant, Detail: "file has no root node"}
	}

	userData, err := buildUserData(f.HeaderChunks)
	if err != nil {
		return nil, err
	}

	e := newEncoder()
	e.writeChunks(f.Root)
	if e.err != nil {
		return nil, e.err
	}
	body := e.w.buf

	w := newWriter()
	w.bytes([]byte("GBX"))
	w.uint16(currentVersion)
	w.uint8(formatBinary)
	w.uint8(compressionUncompressed)
	if f.BodyCompressed {
		w.uint8(compressionCompressed)
	} else {
		w.uint8(compressionUncompressed)
	}
	w.uint8(reservedByte)
	w.uint32(f.Root.ClassID)
	w.blob(userData)
	w.uint32(e.count)

	if f.RefTable != nil && len(f.RefTable.Entries) > 0 {
		w.uint32(uint32(len(f.RefTable.Entries)))
		writeRefTable(w, f.RefTable)
	} else {
		w.uint32(0)
	}

	if f.BodyCompressed {
		compressed := compressBody(body)
		w.uint32(uint32(len(body)))
		w.blob(compressed)
	} else {
		w.bytes(body)
	}

	return w.buf, nil
}
