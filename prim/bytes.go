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

var (
	// RawByte is a single uninterpreted byte. Arrays over it marshal as
	// contiguous []byte values: RawBytes(5) round-trips a 5-byte slice.
	RawByte = wire.New("RawByte",
		wire.WithStaticSize(1),
		wire.WithAlignment(1),
		wire.WithDefault(byte(0)),
		wire.WithByteArrays(),
		wire.WithPack(func(value any, ctx *wire.Context) ([]byte, error) {
			b, ok := value.(byte)
			if !ok {
				return nil, fmt.Errorf("%w: RawByte expects a byte, got %T", errors.ErrEncoding, value)
			}
			return []byte{b}, nil
		}),
		wire.WithUnpack(func(buf *buffer.Reader, ctx *wire.Context) (any, error) {
			return buf.ReadByte()
		}),
	)

	// Char is a single ASCII character carried as a rune.
	Char = wire.New("Char",
		wire.WithStaticSize(1),
		wire.WithAlignment(1),
		wire.WithDefault('a'),
		wire.WithPack(func(value any, ctx *wire.Context) ([]byte, error) {
			r, ok := value.(rune)
			if !ok {
				return nil, fmt.Errorf("%w: Char expects a rune, got %T", errors.ErrEncoding, value)
			}
			if r < 0 || r > 0x7f {
				return nil, fmt.Errorf("%w: Char %q is not ASCII", errors.ErrEncoding, r)
			}
			return []byte{byte(r)}, nil
		}),
		wire.WithUnpack(func(buf *buffer.Reader, ctx *wire.Context) (any, error) {
			b, err := buf.ReadByte()
			if err != nil {
				return nil, err
			}
			return rune(b), nil
		}),
	)

	// Empty marshals to zero bytes and always holds nil. It is the identity
	// element of a packet layout: declaring it changes nothing on the wire.
	Empty = wire.New("Empty",
		wire.WithStaticSize(0),
		wire.WithAlignment(1),
		wire.WithDefaultFunc(func(*wire.Context) (any, error) {
			return nil, nil
		}),
		wire.WithPack(func(value any, ctx *wire.Context) ([]byte, error) {
			return nil, nil
		}),
		wire.WithUnpack(func(buf *buffer.Reader, ctx *wire.Context) (any, error) {
			return nil, nil
		}),
	)
)

// RawBytes returns the Type for a fixed run of n uninterpreted bytes.
func RawBytes(n int) *wire.Type {
	return RawByte.Array(n)
}

// RemainingBytes returns the Type consuming every byte left in the buffer.
func RemainingBytes() *wire.Type {
	return RawByte.Array(nil)
}

// Padding returns a Type occupying n bytes of dead space: packing writes n
// zero bytes no matter the value, unpacking discards n bytes and yields nil.
func Padding(n int) *wire.Type {
	name := fmt.Sprintf("Padding(%d)", n)
	return wire.MakeType("Padding", name, []any{n}, func() *wire.Type {
		return newPadding(name, n)
	})
}

func newPadding(name string, n int) *wire.Type {
	return wire.New(name,
		wire.WithStaticSize(n),
		wire.WithAlignment(1),
		wire.WithDefaultFunc(func(*wire.Context) (any, error) {
			return nil, nil
		}),
		wire.WithPack(func(value any, ctx *wire.Context) ([]byte, error) {
			return make([]byte, n), nil
		}),
		wire.WithUnpack(func(buf *buffer.Reader, ctx *wire.Context) (any, error) {
			if _, err := buf.ReadFull(n); err != nil {
				return nil, err
			}
			return nil, nil
		}),
	)
}

// String returns a length-prefixed UTF-8 string Type: the prefix typelike is
// packed first, carrying the byte length, followed by the raw bytes.
func String(prefix any) *wire.Type {
	prefixType, err := wire.TypeOf(prefix)
	if err != nil {
		panic(fmt.Sprintf("prim: string prefix: %v", err))
	}
	name := fmt.Sprintf("String(%s)", prefixType.Name())
	return wire.MakeType("String", name, []any{prefixType}, func() *wire.Type {
		return newString(name, prefixType)
	})
}

func newString(name string, prefixType *wire.Type) *wire.Type {
	return wire.New(name,
		wire.WithDefault(""),
		wire.WithPack(func(value any, ctx *wire.Context) ([]byte, error) {
			s, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s expects a string, got %T", errors.ErrEncoding, name, value)
			}
			out, err := prefixType.Pack(len(s), ctx)
			if err != nil {
				return nil, err
			}
			return append(out, s...), nil
		}),
		wire.WithUnpack(func(buf *buffer.Reader, ctx *wire.Context) (any, error) {
			raw, err := prefixType.Unpack(buf, ctx)
			if err != nil {
				return nil, err
			}
			n, err := wire.ToInt(raw)
			if err != nil {
				return nil, fmt.Errorf("string length prefix: %w", err)
			}
			data, err := buf.ReadFull(n)
			if err != nil {
				return nil, err
			}
			return string(data), nil
		}),
	)
}
