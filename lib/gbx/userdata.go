// Copyright 2026 The Gbx Authors
// SPDX-License-Identifier: Apache-2.0

package gbx

import "fmt"

// The user data block is a miniature container inside the header: a
// chunk table of (id, size) pairs followed by the concatenated chunk
// payloads. Bit 31 of a size is the heavy flag. All header chunks of
// a file share one lookback table, separate from the body's.

const heavyFlag = 0x80000000

// heavyThreshold is the payload size above which the heavy flag is
// always set.
const heavyThreshold = 255

func parseUserData(classID uint32, userData []byte) ([]HeaderChunk, error) {
	if len(userData) == 0 {
		return nil, nil
	}

	r := newReader(userData)
	count := r.listCount(8)
	type tableEntry struct {
		id    uint32
		size  uint32
		heavy bool
	}
	table := make([]tableEntry, 0, count)
	for i := 0; i < count; i++ {
		id := r.uint32()
		size := r.uint32()
		table = append(table, tableEntry{
			id:    id,
			size:  size & ^uint32(heavyFlag),
			heavy: size&heavyFlag != 0,
		})
	}
	if r.err != nil {
		return nil, r.err
	}

	factories := headerRegistry[classID]
	strings := &lookbackDecoder{}

	chunks := make([]HeaderChunk, 0, count)
	for _, entry := range table {
		payload := r.bytes(int(entry.size))
		if r.err != nil {
			return nil, r.err
		}

		chunk := HeaderChunk{ID: entry.id, Heavy: entry.heavy}
		if factory := factories[entry.id]; factory != nil {
			d := &decoder{r: newReader(payload), strings: strings}
			body := factory()
			body.read(d)
			if d.r.err != nil {
				return nil, d.r.err
			}
			if d.r.remaining() != 0 {
				return nil, &DecodeError{
					Err:    ErrMalformedValue,
					Offset: d.r.offset(),
					Detail: fmt.Sprintf("header chunk %08X left %d bytes unread", entry.id, d.r.remaining()),
				}
			}
			chunk.Body = body
		} else {
			chunk.Raw = append([]byte(nil), payload...)
		}
		chunks = append(chunks, chunk)
	}

	return chunks, nil
}

func buildUserData(chunks []HeaderChunk) ([]byte, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	strings := newLookbackEncoder()
	payloads := make([][]byte, len(chunks))
	for i := range chunks {
		c := &chunks[i]
		switch {
		case c.Body != nil:
			sub := &encoder{w: newWriter(), strings: strings}
			c.Body.write(sub)
			if sub.err != nil {
				return nil, sub.err
			}
			payloads[i] = sub.w.buf
		case c.Raw != nil:
			payloads[i] = c.Raw
		default:
			return nil, &EncodeError{
				Err:    ErrUnsupportedNodeVariant,
				Detail: fmt.Sprintf("header chunk %08X has no payload", c.ID),
			}
		}
	}

	w := newWriter()
	w.uint32(uint32(len(chunks)))
	for i := range chunks {
		size := uint32(len(payloads[i]))
		if chunks[i].Heavy || size > heavyThreshold {
			size |= heavyFlag
		}
		w.uint32(chunks[i].ID)
		w.uint32(size)
	}
	for _, payload := range payloads {
		w.bytes(payload)
	}
	return w.buf, nil
}
