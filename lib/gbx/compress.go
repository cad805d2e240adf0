// Copyright 2026 The Gbx Authors
// SPDX-License-Identifier: Apache-2.0

package gbx

import (
	"bytes"
	"fmt"

	"github.com/rasky/go-lzo"
)

// The body is compressed with LZO1X. The wire carries the
// decompressed size ahead of the compressed payload, and the payload
// must decompress to exactly that size.

// decompressBody decompresses an LZO1X payload and verifies the
// declared size.
func decompressBody(compressed []byte, size uint32) ([]byte, error) {
	body, err := lzo.Decompress1X(bytes.NewReader(compressed), len(compressed), int(size))
	if err != nil {
		return nil, &DecodeError{Err: ErrDecompressionFailed, Detail: err.Error()}
	}
	if len(body) != int(size) {
		return nil, &DecodeError{
			Err:    ErrDecompressionFailed,
			Detail: fmt.Sprintf("decompressed to %d bytes, declared %d", len(body), size),
		}
	}
	return body, nil
}

// compressBody compresses a body with LZO1X. The compressor is
// deterministic, so encoding the same body always yields the same
// bytes.
func compressBody(body []byte) []byte {
	return lzo.Compress1X(body)
}
