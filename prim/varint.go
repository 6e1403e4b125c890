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

package prim

import (
	"fmt"

	"github.com/wirepak/wirepak/buffer"
	"github.com/wirepak/wirepak/errors"
	"github.com/wirepak/wirepak/wire"
)

// Variable-length integers have no static size; asking for one without a
// value yields ErrNoStaticSize, and per-value sizes are found by packing.
var (
	// ULEB128 is an unsigned little-endian base-128 variable-length integer.
	ULEB128 = wire.New("ULEB128",
		wire.WithDefault(uint64(0)),
		wire.WithPack(func(value any, ctx *wire.Context) ([]byte, error) {
			n, err := toUint64(value)
			if err != nil {
				return nil, fmt.Errorf("%w: ULEB128: %v", errors.ErrEncoding, err)
			}
			out := make([]byte, 0, 10)
			for {
				b := byte(n & 0x7f)
				n >>= 7
				if n != 0 {
					b |= 0x80
				}
				out = append(out, b)
				if n == 0 {
					return out, nil
				}
			}
		}),
		wire.WithUnpack(func(buf *buffer.Reader, ctx *wire.Context) (any, error) {
			var n uint64
			var shift uint
			for {
				b, err := buf.ReadByte()
				if err != nil {
					return nil, err
				}
				if shift >= 64 {
					return nil, fmt.Errorf("%w: ULEB128 overflows 64 bits", errors.ErrInvalidValue)
				}
				n |= uint64(b&0x7f) << shift
				if b&0x80 == 0 {
					return n, nil
				}
				shift += 7
			}
		}),
	)

	// SLEB128 is a signed little-endian base-128 variable-length integer.
	SLEB128 = wire.New("SLEB128",
		wire.WithDefault(int64(0)),
		wire.WithPack(func(value any, ctx *wire.Context) ([]byte, error) {
			n, err := toInt64(value)
			if err != nil {
				return nil, fmt.Errorf("%w: SLEB128: %v", errors.ErrEncoding, err)
			}
			out := make([]byte, 0, 10)
			for {
				b := byte(n & 0x7f)
				n >>= 7
				if (n == 0 && b&0x40 == 0) || (n == -1 && b&0x40 != 0) {
					out = append(out, b)
					return out, nil
				}
				out = append(out, b|0x80)
			}
		}),
		wire.WithUnpack(func(buf *buffer.Reader, ctx *wire.Context) (any, error) {
			var n int64
			var shift uint
			for {
				b, err := buf.ReadByte()
				if err != nil {
					return nil, err
				}
				if shift >= 64 {
					return nil, fmt.Errorf("%w: SLEB128 overflows 64 bits", errors.ErrInvalidValue)
				}
				n |= int64(b&0x7f) << shift
				shift += 7
				if b&0x80 == 0 {
					if shift < 64 && b&0x40 != 0 {
						n |= -1 << shift
					}
					return n, nil
				}
			}
		}),
	)
)

func toUint64(v any) (uint64, error) {
	switch n := v.(type) {
	case uint64:
		return n, nil
	case uint:
		return uint64(n), nil
	}
	n, err := toInt64(v)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative value %d for unsigned type", n)
	}
	return uint64(n), nil
}
