// Copyright 2026 The Gbx Authors
// SPDX-License-Identifier: Apache-2.0

// gbx is the diagnostic tool for GameBox (.Gbx) containers: header
// summaries, structured dumps, round-trip verification and thumbnail
// extraction.
package main

import (
	"fmt"
	"os"

	"github.com/gbx-foundation/gbx/lib/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	for _, argument := range os.Args[1:] {
		if argument == "--version" {
			fmt.Printf("gbx %s\n", version.Info())
			return nil
		}
	}
	return rootCommand().Execute(os.Args[1:])
}

func rootCommand() *command {
	return &command{
		Name:    "gbx",
		Summary: "inspect and verify GameBox containers",
		Description: `gbx decodes GameBox (.Gbx) containers and reports on their
contents. It understands Map, Ghost and MediaTracker classes
structurally and carries everything else verbatim.`,
		Subcommands: []*command{
			infoCommand(),
			dumpCommand(),
			verifyCommand(),
			thumbnailCommand(),
		},
	}
}
