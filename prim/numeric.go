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

// Package prim provides the leaf Types every protocol is built from:
// fixed-width integers, floats, booleans, raw bytes, padding and
// variable-length integers. They satisfy the wire Type contract and are
// consumed, never special-cased, by the core engines.
package prim

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/wirepak/wirepak/buffer"
	"github.com/wirepak/wirepak/errors"
	"github.com/wirepak/wirepak/wire"
)

// Little-endian is the wire default; big-endian variants carry the BE suffix.
var (
	Int8   = newInt("Int8", 1, true, binary.LittleEndian)
	Int16  = newInt("Int16", 2, true, binary.LittleEndian)
	Int32  = newInt("Int32", 4, true, binary.LittleEndian)
	Int64  = newInt("Int64", 8, true, binary.LittleEndian)
	UInt8  = newInt("UInt8", 1, false, binary.LittleEndian)
	UInt16 = newInt("UInt16", 2, false, binary.LittleEndian)
	UInt32 = newInt("UInt32", 4, false, binary.LittleEndian)
	UInt64 = newInt("UInt64", 8, false, binary.LittleEndian)

	Int16BE  = newInt("Int16BE", 2, true, binary.BigEndian)
	Int32BE  = newInt("Int32BE", 4, true, binary.BigEndian)
	Int64BE  = newInt("Int64BE", 8, true, binary.BigEndian)
	UInt16BE = newInt("UInt16BE", 2, false, binary.BigEndian)
	UInt32BE = newInt("UInt32BE", 4, false, binary.BigEndian)
	UInt64BE = newInt("UInt64BE", 8, false, binary.BigEndian)

	Float32 = newFloat32("Float32", binary.LittleEndian)
	Float64 = newFloat64("Float64", binary.LittleEndian)

	// Bool is a single byte: zero unpacks to false, anything else to true.
	Bool = newBool("Bool")
)

func newInt(name string, size int, signed bool, order binary.ByteOrder) *wire.Type {
	return wire.New(name,
		wire.WithStaticSize(size),
		wire.WithAlignment(size),
		wire.WithDefaultFunc(func(*wire.Context) (any, error) {
			return intValue(0, size, signed), nil
		}),
		wire.WithPack(func(value any, ctx *wire.Context) ([]byte, error) {
			n, err := toInt64(value)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", errors.ErrEncoding, name, err)
			}
			if !fits(n, size, signed) {
				return nil, fmt.Errorf("%w: %d does not fit in %s", errors.ErrEncoding, n, name)
			}
			out := make([]byte, size)
			putUint(out, order, uint64(n))
			return out, nil
		}),
		wire.WithUnpack(func(buf *buffer.Reader, ctx *wire.Context) (any, error) {
			data, err := buf.ReadFull(size)
			if err != nil {
				return nil, err
			}
			raw := getUint(data, order)
			if signed {
				return intValue(signExtend(raw, size), size, true), nil
			}
			return intValue(int64(raw), size, false), nil
		}),
	)
}

// intValue narrows n to the Go type matching the wire width so that unpacked
// values, defaults and literals compare equal.
func intValue(n int64, size int, signed bool) any {
	if signed {
		switch size {
		case 1:
			return int8(n)
		case 2:
			return int16(n)
		case 4:
			return int32(n)
		default:
			return n
		}
	}
	switch size {
	case 1:
		return uint8(n)
	case 2:
		return uint16(n)
	case 4:
		return uint32(n)
	default:
		return uint64(n)
	}
}

func toInt64(v any) (int64, error) {
	if n, ok := v.(uint64); ok {
		return int64(n), nil
	}
	n, err := wire.ToInt(v)
	if err != nil {
		return 0, err
	}
	return int64(n), nil
}

func fits(n int64, size int, signed bool) bool {
	if size == 8 {
		return true
	}
	bits := uint(size * 8)
	if signed {
		limit := int64(1) << (bits - 1)
		return n >= -limit && n < limit
	}
	return n >= 0 && n < int64(1)<<bits
}

func signExtend(raw uint64, size int) int64 {
	shift := uint(64 - size*8)
	return int64(raw<<shift) >> shift
}

func putUint(out []byte, order binary.ByteOrder, v uint64) {
	switch len(out) {
	case 1:
		out[0] = byte(v)
	case 2:
		order.PutUint16(out, uint16(v))
	case 4:
		order.PutUint32(out, uint32(v))
	default:
		order.PutUint64(out, v)
	}
}

func getUint(data []byte, order binary.ByteOrder) uint64 {
	switch len(data) {
	case 1:
		return uint64(data[0])
	case 2:
		return uint64(order.Uint16(data))
	case 4:
		return uint64(order.Uint32(data))
	default:
		return order.Uint64(data)
	}
}

func newFloat32(name string, order binary.ByteOrder) *wire.Type {
	return wire.New(name,
		wire.WithStaticSize(4),
		wire.WithAlignment(4),
		wire.WithDefault(float32(0)),
		wire.WithPack(func(value any, ctx *wire.Context) ([]byte, error) {
			var f float32
			switch v := value.(type) {
			case float32:
				f = v
			case float64:
				f = float32(v)
			default:
				return nil, fmt.Errorf("%w: %s expects a float, got %T", errors.ErrEncoding, name, value)
			}
			out := make([]byte, 4)
			putUint(out, order, uint64(math.Float32bits(f)))
			return out, nil
		}),
		wire.WithUnpack(func(buf *buffer.Reader, ctx *wire.Context) (any, error) {
			data, err := buf.ReadFull(4)
			if err != nil {
				return nil, err
			}
			return math.Float32frombits(uint32(getUint(data, order))), nil
		}),
	)
}

func newFloat64(name string, order binary.ByteOrder) *wire.Type {
	return wire.New(name,
		wire.WithStaticSize(8),
		wire.WithAlignment(8),
		wire.WithDefault(float64(0)),
		wire.WithPack(func(value any, ctx *wire.Context) ([]byte, error) {
			f, ok := value.(float64)
			if !ok {
				return nil, fmt.Errorf("%w: %s expects a float64, got %T", errors.ErrEncoding, name, value)
			}
			out := make([]byte, 8)
			putUint(out, order, math.Float64bits(f))
			return out, nil
		}),
		wire.WithUnpack(func(buf *buffer.Reader, ctx *wire.Context) (any, error) {
			data, err := buf.ReadFull(8)
			if err != nil {
				return nil, err
			}
			return math.Float64frombits(getUint(data, order)), nil
		}),
	)
}

func newBool(name string) *wire.Type {
	return wire.New(name,
		wire.WithStaticSize(1),
		wire.WithAlignment(1),
		wire.WithDefault(false),
		wire.WithPack(func(value any, ctx *wire.Context) ([]byte, error) {
			b, ok := value.(bool)
			if !ok {
				return nil, fmt.Errorf("%w: %s expects a bool, got %T", errors.ErrEncoding, name, value)
			}
			if b {
				return []byte{1}, nil
			}
			return []byte{0}, nil
		}),
		wire.WithUnpack(func(buf *buffer.Reader, ctx *wire.Context) (any, error) {
			b, err := buf.ReadByte()
			if err != nil {
				return nil, err
			}
			return b != 0, nil
		}),
	)
}
