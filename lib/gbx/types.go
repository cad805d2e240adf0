// Copyright 2026 The Gbx Authors
// SPDX-License-Identifier: Apache-2.0

package gbx

// Vec3 is a 3-component float vector.
type Vec3 struct {
	X, Y, Z float32
}

// Int3 is a 3-component unsigned integer vector.
type Int3 struct {
	X, Y, Z uint32
}

// Byte3 is a 3-component byte vector, used for block coordinates.
type Byte3 struct {
	X, Y, Z uint8
}

// fileRefVersion is the only file reference layout version in
// circulation.
const fileRefVersion = 3

// FileRef is a reference to a resource file. The zero value means no
// reference. An internal reference points at a file shipped with the
// game (hash byte 0 set to 2, no locator). An external reference
// carries the SHA-256 digest of the file and a download URL.
type FileRef struct {
	Hash       [32]byte
	Path       string
	LocatorURL string
}

// IsZero reports whether the reference is absent.
func (f FileRef) IsZero() bool {
	return f.Hash == [32]byte{} && f.Path == "" && f.LocatorURL == ""
}

// IsInternal reports whether the reference points at a game-internal
// file.
func (f FileRef) IsInternal() bool {
	if f.Hash[0] != 2 || f.LocatorURL != "" {
		return false
	}
	for _, b := range f.Hash[1:] {
		if b != 0 {
			return false
		}
	}
	return true
}

// IsExternal reports whether the reference points at a downloadable
// file.
func (f FileRef) IsExternal() bool {
	return !f.IsZero() && !f.IsInternal()
}

// InternalFileRef builds a reference to a game-internal file.
func InternalFileRef(path string) FileRef {
	var ref FileRef
	ref.Hash[0] = 2
	ref.Path = path
	return ref
}

// ExternalFileRef builds a reference to a downloadable file.
func ExternalFileRef(hash [32]byte, path, locatorURL string) FileRef {
	return FileRef{Hash: hash, Path: path, LocatorURL: locatorURL}
}
