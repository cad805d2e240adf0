// Copyright 2026 The Gbx Authors
// SPDX-License-Identifier: Apache-2.0

package gbx

import (
	"errors"
	"reflect"
	"testing"
)

func sampleRefTable() *RefTable {
	return &RefTable{
		AncestorLevel: 2,
		Folders: []RefFolder{
			{Name: "Items", Folders: []RefFolder{
				{Name: "Vehicles"},
			}},
			{Name: "Skins"},
		},
		Entries: []RefEntry{
			{Flags: 1, FileName: "Kart.Item.Gbx", FolderIndex: 2, NodeIndex: 3, UseFile: true},
			{Flags: 1 | refEntryResource, ResourceIndex: 12, NodeIndex: 4},
			{Flags: 1, FileName: "Classic.zip", FolderIndex: 3, NodeIndex: 5},
		},
	}
}

func TestRefTableRoundTrip(t *testing.T) {
	table := sampleRefTable()

	w := newWriter()
	writeRefTable(w, table)

	r := newReader(w.buf)
	got, err := readRefTable(r, len(table.Entries), currentVersion)
	if err != nil {
		t.Fatalf("readRefTable: %v", err)
	}
	if !reflect.DeepEqual(got, table) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, table)
	}
	if r.remaining() != 0 {
		t.Errorf("remaining = %d", r.remaining())
	}
}

func TestRefTablePathResolution(t *testing.T) {
	table := sampleRefTable()

	tests := []struct {
		entry int
		want  string
	}{
		// Folder indexes number the tree depth-first: 1 Items,
		// 2 Items/Vehicles, 3 Skins.
		{0, "../../Items/Vehicles/Kart.Item.Gbx"},
		{1, ""},
		{2, "../../Skins/Classic.zip"},
	}
	for _, test := range tests {
		if got := table.Path(&table.Entries[test.entry]); got != test.want {
			t.Errorf("Path(entry %d) = %q, want %q", test.entry, got, test.want)
		}
	}
}

func TestRefTablePathRootFolder(t *testing.T) {
	table := &RefTable{
		Entries: []RefEntry{{Flags: 1, FileName: "Direct.Gbx", FolderIndex: 0, NodeIndex: 1}},
	}
	if got := table.Path(&table.Entries[0]); got != "Direct.Gbx" {
		t.Errorf("Path = %q, want %q", got, "Direct.Gbx")
	}
}

func TestRefTableUseFileOnlyInV5Plus(t *testing.T) {
	table := &RefTable{
		Entries: []RefEntry{{Flags: 1, FileName: "A.Gbx", NodeIndex: 1, UseFile: true}},
	}
	w := newWriter()
	writeRefTable(w, table)

	// A v4 reader must not consume the UseFile word. Rebuild the v4
	// layout by dropping it from the entry by hand: flags, name,
	// node index, folder index.
	w4 := newWriter()
	w4.uint32(table.AncestorLevel)
	writeRefFolders(w4, table.Folders)
	w4.uint32(table.Entries[0].Flags)
	w4.stringField(table.Entries[0].FileName)
	w4.uint32(table.Entries[0].NodeIndex)
	w4.uint32(table.Entries[0].FolderIndex)

	r := newReader(w4.buf)
	got, err := readRefTable(r, 1, 4)
	if err != nil {
		t.Fatalf("readRefTable v4: %v", err)
	}
	if got.Entries[0].UseFile {
		t.Error("v4 table decoded a UseFile flag")
	}
	if r.remaining() != 0 {
		t.Errorf("remaining = %d", r.remaining())
	}
}

func TestRefTableRejectsTruncation(t *testing.T) {
	w := newWriter()
	writeRefTable(w, sampleRefTable())

	for cut := 1; cut < len(w.buf); cut += 7 {
		r := newReader(w.buf[:cut])
		_, err := readRefTable(r, 3, currentVersion)
		if err == nil {
			t.Fatalf("truncation at %d bytes decoded successfully", cut)
		}
		if !errors.Is(err, ErrMalformedReferenceTable) {
			t.Errorf("truncation at %d: error = %v, want ErrMalformedReferenceTable", cut, err)
		}
	}
}

func TestRefTableRejectsDeepFolderBomb(t *testing.T) {
	// Each nesting level is one folder: count 1, empty name, recurse.
	w := newWriter()
	w.uint32(0) // ancestor level
	for i := 0; i < maxRefFolderDepth+8; i++ {
		w.uint32(1)
		w.stringField("")
	}
	w.uint32(0)

	r := newReader(w.buf)
	_, err := readRefTable(r, 0, currentVersion)
	if !errors.Is(err, ErrMalformedReferenceTable) {
		t.Errorf("error = %v, want ErrMalformedReferenceTable", err)
	}
}
