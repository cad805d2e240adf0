// Copyright 2026 The Gbx Authors
// SPDX-License-Identifier: Apache-2.0

package gbx

import (
	"fmt"
	"strings"
)

// RefTable lists the nodes a file pulls in from other files. Entries
// name either a file (relative to a folder in the table's folder
// tree, AncestorLevel directories above the containing file) or an
// indexed resource.
type RefTable struct {
	// AncestorLevel is the number of directories to go up from the
	// containing file before applying a folder path.
	AncestorLevel uint32

	// Folders is the root of the folder tree. Folder indexes in
	// entries number the tree in depth-first order, starting at 1
	// for the first subfolder of the root.
	Folders []RefFolder

	Entries []RefEntry
}

// RefFolder is one directory in the reference table's folder tree.
type RefFolder struct {
	Name    string
	Folders []RefFolder
}

// refEntryResource marks an entry that names an indexed resource
// instead of a file.
const refEntryResource = 0x00000004

// RefEntry is one external node reference.
type RefEntry struct {
	Flags uint32

	// FileName and FolderIndex locate the file for file entries
	// (Flags bit 2 clear).
	FileName    string
	FolderIndex uint32

	// ResourceIndex identifies the resource for resource entries
	// (Flags bit 2 set).
	ResourceIndex uint32

	// NodeIndex is the slot in the body's node table this entry
	// provides.
	NodeIndex uint32

	UseFile bool
}

// IsResource reports whether the entry names an indexed resource.
func (e *RefEntry) IsResource() bool {
	return e.Flags&refEntryResource != 0
}

// Path resolves a file entry to a relative path: AncestorLevel
// parent steps, the folder chain, then the file name. Resource
// entries have no path.
func (t *RefTable) Path(e *RefEntry) string {
	if e.IsResource() {
		return ""
	}
	var parts []string
	for i := uint32(0); i < t.AncestorLevel; i++ {
		parts = append(parts, "..")
	}
	if chain, ok := folderChain(t.Folders, e.FolderIndex, new(uint32)); ok {
		parts = append(parts, chain...)
	}
	parts = append(parts, e.FileName)
	return strings.Join(parts, "/")
}

// folderChain finds the name chain of the folder with the given
// depth-first index. Index 0 means the root itself.
func folderChain(folders []RefFolder, index uint32, counter *uint32) ([]string, bool) {
	if index == 0 {
		return nil, true
	}
	for i := range folders {
		*counter++
		if *counter == index {
			return []string{folders[i].Name}, true
		}
		if chain, ok := folderChain(folders[i].Folders, index, counter); ok {
			return append([]string{folders[i].Name}, chain...), true
		}
	}
	return nil, false
}

// readRefTable decodes the reference table that follows a non-zero
// external node count. Identifier strings in the table use their own
// lookback scope, so a plain reader suffices.
func readRefTable(r *reader, numExternal int, version uint16) (*RefTable, error) {
	table := &RefTable{}
	table.AncestorLevel = r.uint32()
	table.Folders = readRefFolders(r, 0)
	if r.err != nil {
		return nil, refTableError(r.err)
	}

	for i := 0; i < numExternal; i++ {
		var entry RefEntry
		entry.Flags = r.uint32()
		if r.err != nil {
			return nil, refTableError(r.err)
		}
		if entry.IsResource() {
			entry.ResourceIndex = r.uint32()
		} else {
			entry.FileName = r.stringField()
		}
		entry.NodeIndex = r.uint32()
		if version >= 5 {
			entry.UseFile = r.boolean()
		}
		if !entry.IsResource() {
			entry.FolderIndex = r.uint32()
		}
		if r.err != nil {
			return nil, refTableError(r.err)
		}
		table.Entries = append(table.Entries, entry)
	}

	return table, nil
}

// maxRefFolderDepth bounds folder tree recursion so a malicious
// count cannot blow the stack.
const maxRefFolderDepth = 64

func readRefFolders(r *reader, depth int) []RefFolder {
	if depth > maxRefFolderDepth {
		r.fail(ErrMalformedReferenceTable, "folder tree too deep")
		return nil
	}
	count := r.listCount(4)
	if count == 0 {
		return nil
	}
	folders := make([]RefFolder, 0, count)
	for i := 0; i < count && r.ok(); i++ {
		var folder RefFolder
		folder.Name = r.stringField()
		folder.Folders = readRefFolders(r, depth+1)
		folders = append(folders, folder)
	}
	return folders
}

func writeRefTable(w *writer, t *RefTable) {
	w.uint32(t.AncestorLevel)
	writeRefFolders(w, t.Folders)
	for i := range t.Entries {
		e := &t.Entries[i]
		w.uint32(e.Flags)
		if e.IsResource() {
			w.uint32(e.ResourceIndex)
		} else {
			w.stringField(e.FileName)
		}
		w.uint32(e.NodeIndex)
		w.boolean(e.UseFile)
		if !e.IsResource() {
			w.uint32(e.FolderIndex)
		}
	}
}

func writeRefFolders(w *writer, folders []RefFolder) {
	w.uint32(uint32(len(folders)))
	for i := range folders {
		w.stringField(folders[i].Name)
		writeRefFolders(w, folders[i].Folders)
	}
}

// refTableError re-tags a decode failure inside the reference table
// so callers see the table-specific failure class, keeping the
// offset of the underlying fault.
func refTableError(err *DecodeError) error {
	if err.Err == ErrUnexpectedEOF || err.Err == ErrMalformedValue {
		return &DecodeError{
			Err:    ErrMalformedReferenceTable,
			Offset: err.Offset,
			Detail: fmt.Sprintf("%v: %s", err.Err, err.Detail),
		}
	}
	return err
}
