// Copyright 2026 The Gbx Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/gbx-foundation/gbx/lib/binhash"
	"github.com/gbx-foundation/gbx/lib/gbx"
)

func verifyCommand() *command {
	var quiet bool
	return &command{
		Name:    "verify",
		Summary: "check that a container survives a decode/encode round trip",
		Description: `verify decodes a container, re-encodes it, decodes the result and
re-encodes again. The two encodings must be byte-identical; if they
are not, the codec lost information. It also prints the content
digest of the canonical uncompressed encoding, which is stable
across recompression.`,
		Usage: "gbx verify [--quiet] <file>...",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("verify", pflag.ContinueOnError)
			flags.BoolVarP(&quiet, "quiet", "q", false, "only report failures")
			return flags
		},
		Run: func(args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("verify takes at least one file argument")
			}
			failed := 0
			for _, path := range args {
				if err := runVerify(path, quiet); err != nil {
					fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(args))
			}
			return nil
		},
	}
}

func runVerify(path string, quiet bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	file, err := gbx.Decode(data)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	first, err := gbx.Encode(file)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	reparsed, err := gbx.Decode(first)
	if err != nil {
		return fmt.Errorf("decode of re-encoded output: %w", err)
	}
	second, err := gbx.Encode(reparsed)
	if err != nil {
		return fmt.Errorf("second encode: %w", err)
	}

	if !bytes.Equal(first, second) {
		return fmt.Errorf("round trip is not byte-stable (%d vs %d bytes)", len(first), len(second))
	}

	digest, err := contentDigest(file)
	if err != nil {
		return err
	}
	if !quiet {
		fmt.Printf("%s: ok, content %s\n", path, binhash.FormatDigest(digest))
	}
	return nil
}

// contentDigest hashes the canonical uncompressed encoding so the
// digest does not change when a file is merely recompressed.
func contentDigest(file *gbx.File) ([32]byte, error) {
	uncompressed := *file
	uncompressed.BodyCompressed = false
	encoded, err := gbx.Encode(&uncompressed)
	if err != nil {
		return [32]byte{}, fmt.Errorf("canonical encode: %w", err)
	}
	return binhash.HashBody(encoded), nil
}
