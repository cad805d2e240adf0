// Copyright 2026 The Gbx Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/gbx-foundation/gbx/lib/binhash"
	"github.com/gbx-foundation/gbx/lib/gbx"
)

func infoCommand() *command {
	return &command{
		Name:    "info",
		Summary: "print a summary of a container",
		Usage:   "gbx info <file>",
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("info takes exactly one file argument")
			}
			return runInfo(args[0])
		},
	}
}

func runInfo(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	file, err := gbx.Decode(data)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	digest, err := binhash.HashFile(path)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 2, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "class:\t%s (%08X)\n", gbx.ClassName(file.ClassID()), file.ClassID())
	fmt.Fprintf(tw, "container version:\t%d\n", file.Version)
	fmt.Fprintf(tw, "body compressed:\t%v\n", file.BodyCompressed)
	fmt.Fprintf(tw, "file sha256:\t%s\n", binhash.FormatDigest(digest))
	fmt.Fprintf(tw, "header chunks:\t%d\n", len(file.HeaderChunks))
	for i := range file.HeaderChunks {
		c := &file.HeaderChunks[i]
		kind := "structured"
		if c.Body == nil {
			kind = fmt.Sprintf("raw, %d bytes", len(c.Raw))
		}
		heavy := ""
		if c.Heavy {
			heavy = ", heavy"
		}
		fmt.Fprintf(tw, "  %08X:\t%s%s\n", c.ID, kind, heavy)
	}

	if ident, ok := headerBody[*gbx.MapIdentChunk](file, 0x03043003); ok {
		fmt.Fprintf(tw, "map:\t%s\n", ident.Name)
		fmt.Fprintf(tw, "map uid:\t%s\n", ident.MapID)
		fmt.Fprintf(tw, "author:\t%s\n", ident.Author)
	}
	if times, ok := headerBody[*gbx.MapInfoChunk](file, 0x03043002); ok {
		fmt.Fprintf(tw, "medals:\tbronze %s, silver %s, gold %s, author %s\n",
			formatTime(times.BronzeTime), formatTime(times.SilverTime),
			formatTime(times.GoldTime), formatTime(times.AuthorTime))
		fmt.Fprintf(tw, "checkpoints:\t%d\n", times.CheckpointCount)
		fmt.Fprintf(tw, "laps:\t%d\n", times.LapCount)
	}

	if file.RefTable != nil {
		fmt.Fprintf(tw, "external references:\t%d\n", len(file.RefTable.Entries))
		for i := range file.RefTable.Entries {
			e := &file.RefTable.Entries[i]
			if e.IsResource() {
				fmt.Fprintf(tw, "  node %d:\tresource %d\n", e.NodeIndex, e.ResourceIndex)
			} else {
				fmt.Fprintf(tw, "  node %d:\t%s\n", e.NodeIndex, file.RefTable.Path(e))
			}
		}
	}

	return tw.Flush()
}

// headerBody looks up a header chunk and asserts its body type.
func headerBody[T gbx.ChunkBody](file *gbx.File, id uint32) (T, bool) {
	var zero T
	chunk := file.HeaderChunk(id)
	if chunk == nil {
		return zero, false
	}
	body, ok := chunk.Body.(T)
	return body, ok
}

// formatTime renders a millisecond race time, with 0xFFFFFFFF as the
// unset marker.
func formatTime(ms uint32) string {
	if ms == 0xFFFFFFFF {
		return "-"
	}
	return fmt.Sprintf("%d.%03ds", ms/1000, ms%1000)
}
