// Copyright 2026 The Gbx Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/gbx-foundation/gbx/lib/gbx"
)

func thumbnailCommand() *command {
	var output string
	return &command{
		Name:    "thumbnail",
		Summary: "extract the thumbnail JPEG from a map",
		Usage:   "gbx thumbnail [--output <path>] <file>",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("thumbnail", pflag.ContinueOnError)
			flags.StringVarP(&output, "output", "o", "", "write to this path instead of stdout")
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("thumbnail takes exactly one file argument")
			}
			return runThumbnail(args[0], output)
		},
	}
}

func runThumbnail(path, output string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	file, err := gbx.Decode(data)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	thumb, ok := headerBody[*gbx.MapThumbnailChunk](file, 0x03043007)
	if !ok || !thumb.Present || len(thumb.Thumbnail) == 0 {
		return fmt.Errorf("%s has no thumbnail", path)
	}

	if output == "" {
		_, err = os.Stdout.Write(thumb.Thumbnail)
		return err
	}
	return os.WriteFile(output, thumb.Thumbnail, 0644)
}
