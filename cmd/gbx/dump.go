// Copyright 2026 The Gbx Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/gbx-foundation/gbx/lib/codec"
	"github.com/gbx-foundation/gbx/lib/gbx"
)

func dumpCommand() *command {
	var asJSON bool
	var asDiagnostic bool
	return &command{
		Name:    "dump",
		Summary: "write the decoded structure to stdout",
		Description: `dump decodes a container and writes the full decoded structure to
stdout. The default output is deterministic CBOR; --json emits
indented JSON and --diag emits CBOR diagnostic notation.`,
		Usage: "gbx dump [--json|--diag] <file>",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("dump", pflag.ContinueOnError)
			flags.BoolVar(&asJSON, "json", false, "emit indented JSON instead of CBOR")
			flags.BoolVar(&asDiagnostic, "diag", false, "emit CBOR diagnostic notation")
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("dump takes exactly one file argument")
			}
			return runDump(args[0], asJSON, asDiagnostic)
		},
	}
}

func runDump(path string, asJSON, asDiagnostic bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	file, err := gbx.Decode(data)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	if asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(file)
	}

	encoded, err := codec.Marshal(file)
	if err != nil {
		return fmt.Errorf("encoding dump: %w", err)
	}
	if asDiagnostic {
		notation, err := codec.Diagnose(encoded)
		if err != nil {
			return fmt.Errorf("diagnostic notation: %w", err)
		}
		fmt.Println(notation)
		return nil
	}
	_, err = os.Stdout.Write(encoded)
	return err
}
