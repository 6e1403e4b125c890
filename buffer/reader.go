// MIT License
//
// Copyright (c) 2025-2026 Wirepak Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package buffer normalizes byte slices and streams into a single sequential,
// position-advancing cursor with explicit exhaustion signaling. The wire and
// packet engines depend only on this narrow read interface, never on a
// concrete byte container.
package buffer

import (
	"fmt"
	"io"

	"github.com/wirepak/wirepak/errors"
)

// Reader is a sequential cursor over raw data. Reads advance the position and
// never rewind; a consumer must not interleave reads of overlapping regions.
type Reader struct {
	src io.Reader

	// fast path when the source is an in-memory slice
	data []byte
	pos  int
}

var _ io.Reader = (*Reader)(nil)

// FromBytes creates a Reader over an in-memory slice. The slice is not copied;
// the caller must not mutate it while unpacking.
func FromBytes(data []byte) *Reader {
	return &Reader{data: data}
}

// FromReader creates a Reader over a stream.
func FromReader(src io.Reader) *Reader {
	if r, ok := src.(*Reader); ok {
		return r
	}
	return &Reader{src: src}
}

// Read implements io.Reader, serving from the in-memory slice or delegating
// to the underlying stream. It lets a Reader compose with stream consumers
// and feed back through FromReader unchanged.
func (r *Reader) Read(p []byte) (int, error) {
	if r.src != nil {
		return r.src.Read(p)
	}
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

// ReadFull reads exactly n bytes, returning ErrBufferExhausted when fewer
// remain. On error the cursor position is unspecified.
func (r *Reader) ReadFull(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative read of %d bytes", errors.ErrBufferExhausted, n)
	}
	if r.src == nil {
		if r.pos+n > len(r.data) {
			return nil, fmt.Errorf("%w: need %d bytes, have %d", errors.ErrBufferExhausted, n, len(r.data)-r.pos)
		}
		out := r.data[r.pos : r.pos+n]
		r.pos += n
		return out, nil
	}

	out := make([]byte, n)
	if _, err := io.ReadFull(r.src, out); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrBufferExhausted, err)
	}
	return out, nil
}

// ReadByte reads a single byte.
func (r *Reader) ReadByte() (byte, error) {
	out, err := r.ReadFull(1)
	if err != nil {
		return 0, err
	}
	return out[0], nil
}

// ReadRemaining consumes and returns every byte left in the buffer.
func (r *Reader) ReadRemaining() ([]byte, error) {
	if r.src == nil {
		out := r.data[r.pos:]
		r.pos = len(r.data)
		return out, nil
	}
	out, err := io.ReadAll(r.src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrBufferExhausted, err)
	}
	return out, nil
}

// Exhausted reports whether the in-memory cursor has consumed every byte.
// Stream-backed readers report false until a read fails.
func (r *Reader) Exhausted() bool {
	return r.src == nil && r.pos >= len(r.data)
}
