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

// Package wire defines typed, composable binary wire formats: the Type
// contract describing how values marshal to and from raw bytes, the contexts
// propagated through marshal calls, the dynamic value machinery, and the
// parametric Array, Compound and Enum types built on the contract.
package wire

import (
	stderrors "errors"
	"fmt"

	"github.com/wirepak/wirepak/buffer"
	"github.com/wirepak/wirepak/errors"
	"github.com/wirepak/wirepak/internal/bufferpool"
	"github.com/wirepak/wirepak/internal/clone"
)

// NoValue marks a size query made without a concrete value. Passing it to
// Size asks for a size irrespective of any value.
var NoValue any = uniqueSentinel("wire.NoValue")

type uniqueSentinel string

// PackFunc marshals a value into raw bytes.
type PackFunc func(value any, ctx *Context) ([]byte, error)

// UnpackFunc reads a value from the buffer cursor.
type UnpackFunc func(buf *buffer.Reader, ctx *Context) (any, error)

// SizeFunc computes the packed size of a value. When invoked with NoValue the
// func may report a size irrespective of any value, or return ErrNoStaticSize
// to fall through to the next resolution tier.
type SizeFunc func(value any, ctx *Context) (int, error)

// ValueFunc computes a default value from the context.
type ValueFunc func(ctx *Context) (any, error)

// IntFunc computes an integer quantity from the context.
type IntFunc func(ctx *Context) (int, error)

// Type is a shared, stateless definition of how a value marshals to and from
// raw bytes. Two Types describe the same wire format iff they are the same
// definition: identity is pointer identity, and the parametric constructors
// memoize, so constructing a Type twice with identical arguments returns the
// same pointer.
//
// Types are built through New or the parametric constructors, never composed
// by hand. Authors supply only the inner pack/unpack hooks plus optional
// size, default and alignment slots; the outer methods own slot resolution,
// context defaulting and error policy.
type Type struct {
	name string

	pack   PackFunc
	unpack UnpackFunc

	// Slots hold nil, a constant, a computing func, or a DynamicValue.
	size         any
	defaultValue any
	alignment    any

	// Element-type overrides for arrays built over this Type. Nil for most
	// Types; RawByte uses them to produce contiguous byte slices.
	arrayPack    func(value any, count int, ctx *Context) ([]byte, error)
	arrayUnpack  func(buf *buffer.Reader, count int, ctx *Context) (any, error)
	arrayDefault func(count int, ctx *Context) (any, error)
}

// Option configures a Type under construction.
type Option func(*Type)

// WithPack sets the inner pack hook.
func WithPack(fn PackFunc) Option {
	return func(t *Type) { t.pack = fn }
}

// WithUnpack sets the inner unpack hook.
func WithUnpack(fn UnpackFunc) Option {
	return func(t *Type) { t.unpack = fn }
}

// WithStaticSize declares a constant packed size.
func WithStaticSize(n int) Option {
	return func(t *Type) { t.size = n }
}

// WithSizeFunc declares a computed size rule.
func WithSizeFunc(fn SizeFunc) Option {
	return func(t *Type) { t.size = fn }
}

// WithSizeValue declares a raw size value enrolled in the dynamic value
// machinery: depending on the rules enabled at construction time it resolves
// to a literal or to a context-computed quantity.
func WithSizeValue(v any) Option {
	return func(t *Type) { t.size = Enroll(v) }
}

// WithDefault declares a constant default value. Mutable constants are deep
// copied on every Default call so they never alias across packets.
func WithDefault(v any) Option {
	return func(t *Type) { t.defaultValue = Enroll(v) }
}

// WithDefaultFunc declares a computed default rule.
func WithDefaultFunc(fn ValueFunc) Option {
	return func(t *Type) { t.defaultValue = fn }
}

// WithAlignment declares a constant alignment. Must be a power of two.
func WithAlignment(n int) Option {
	return func(t *Type) { t.alignment = n }
}

// WithAlignmentFunc declares a computed alignment rule.
func WithAlignmentFunc(fn IntFunc) Option {
	return func(t *Type) { t.alignment = fn }
}

// WithAlignmentValue declares a raw alignment value enrolled in the dynamic
// value machinery.
func WithAlignmentValue(v any) Option {
	return func(t *Type) { t.alignment = Enroll(v) }
}

// WithByteArrays makes arrays over the Type marshal as contiguous []byte
// values instead of []any element lists. The Type's values must be single
// bytes.
func WithByteArrays() Option {
	return func(t *Type) {
		t.arrayPack = func(value any, count int, ctx *Context) ([]byte, error) {
			data, ok := value.([]byte)
			if !ok {
				return nil, fmt.Errorf("%w: %s array expects []byte, got %T", errors.ErrEncoding, t.name, value)
			}
			if count >= 0 {
				out := make([]byte, count)
				copy(out, data)
				return out, nil
			}
			return data, nil
		}
		t.arrayUnpack = func(buf *buffer.Reader, count int, ctx *Context) (any, error) {
			if count < 0 {
				return buf.ReadRemaining()
			}
			data, err := buf.ReadFull(count)
			if err != nil {
				return nil, err
			}
			out := make([]byte, count)
			copy(out, data)
			return out, nil
		}
		t.arrayDefault = func(count int, ctx *Context) (any, error) {
			if count < 0 {
				return []byte{}, nil
			}
			return make([]byte, count), nil
		}
	}
}

// New creates a Type definition. The name identifies the Type in errors and
// generated parametric names; it does not participate in identity.
func New(name string, opts ...Option) *Type {
	t := &Type{name: name}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name returns the Type name.
func (t *Type) Name() string { return t.name }

// Pack marshals value into its raw byte representation.
func (t *Type) Pack(value any, ctx *Context) ([]byte, error) {
	ctx = ctx.orBackground()
	if t.pack == nil {
		return nil, fmt.Errorf("%w: %s does not implement pack", errors.ErrEncoding, t.name)
	}
	return t.pack(value, ctx)
}

// Unpack reads a value from the buffer cursor.
func (t *Type) Unpack(buf *buffer.Reader, ctx *Context) (any, error) {
	ctx = ctx.orBackground()
	if t.unpack == nil {
		return nil, fmt.Errorf("%w: %s does not implement unpack", errors.ErrInvalidValue, t.name)
	}
	return t.unpack(buf, ctx)
}

// UnpackBytes unpacks a value from an in-memory slice.
func (t *Type) UnpackBytes(data []byte, ctx *Context) (any, error) {
	return t.Unpack(buffer.FromBytes(data), ctx)
}

// Size returns the packed size of value.
//
// Resolution order: a constant size slot is returned directly; a computed rule
// is invoked and may report ErrNoStaticSize to fall through; a dynamic value
// is resolved against ctx. When the slot is still unresolved and a concrete
// value was supplied, the value is packed and measured. With NoValue and no
// resolvable slot, ErrNoStaticSize is returned.
func (t *Type) Size(value any, ctx *Context) (int, error) {
	ctx = ctx.orBackground()

	n, resolved, err := t.resolveSizeSlot(value, ctx)
	if err != nil {
		return 0, err
	}
	if resolved {
		return n, nil
	}

	if value == NoValue {
		return 0, fmt.Errorf("%w: %s", errors.ErrNoStaticSize, t.name)
	}
	data, err := t.Pack(value, ctx)
	if err != nil {
		return 0, err
	}
	return len(data), nil
}

// StaticSize returns the packed size irrespective of any value, or
// ErrNoStaticSize when the size is only knowable per value.
func (t *Type) StaticSize(ctx *Context) (int, error) {
	return t.Size(NoValue, ctx)
}

func (t *Type) resolveSizeSlot(value any, ctx *Context) (int, bool, error) {
	switch size := t.size.(type) {
	case nil:
		return 0, false, nil
	case int:
		return size, true, nil
	case SizeFunc:
		n, err := size(value, ctx)
		if err != nil {
			if stderrors.Is(err, errors.ErrNoStaticSize) {
				return 0, false, nil
			}
			return 0, false, err
		}
		return n, true, nil
	case DynamicValue:
		v, err := size.Get(ctx)
		if err != nil {
			if stderrors.Is(err, errors.ErrNoStaticSize) {
				return 0, false, nil
			}
			return 0, false, err
		}
		n, err := ToInt(v)
		if err != nil {
			return 0, false, fmt.Errorf("dynamic size of %s: %w", t.name, err)
		}
		return n, true, nil
	default:
		n, err := ToInt(t.size)
		if err != nil {
			return 0, false, fmt.Errorf("size slot of %s: %w", t.name, err)
		}
		return n, true, nil
	}
}

// Default returns the default value of the Type. Constant defaults are deep
// copied so mutable defaults never alias across calls. Unlike Size, Default
// never falls back to packing: an unresolvable default is ErrNoDefault.
func (t *Type) Default(ctx *Context) (any, error) {
	ctx = ctx.orBackground()
	switch def := t.defaultValue.(type) {
	case nil:
		return nil, fmt.Errorf("%w: %s", errors.ErrNoDefault, t.name)
	case ValueFunc:
		return def(ctx)
	case DynamicValue:
		return def.Get(ctx)
	default:
		return clone.Value(def), nil
	}
}

// Alignment returns the alignment of the Type, or ErrNoAlignment when the
// Type declares none. Alignment only makes sense for static-size Types.
func (t *Type) Alignment(ctx *Context) (int, error) {
	ctx = ctx.orBackground()
	switch alignment := t.alignment.(type) {
	case nil:
		return 0, fmt.Errorf("%w: %s", errors.ErrNoAlignment, t.name)
	case int:
		return alignment, nil
	case IntFunc:
		return alignment(ctx)
	case DynamicValue:
		v, err := alignment.Get(ctx)
		if err != nil {
			return 0, err
		}
		n, err := ToInt(v)
		if err != nil {
			return 0, fmt.Errorf("dynamic alignment of %s: %w", t.name, err)
		}
		return n, nil
	default:
		n, err := ToInt(t.alignment)
		if err != nil {
			return 0, fmt.Errorf("alignment slot of %s: %w", t.name, err)
		}
		return n, nil
	}
}

// Array returns the Array Type with the receiver as element and the given
// size descriptor: an int count, a prefix *Type, a sibling field name, an
// IntFunc, or nil for unbounded. The result is memoized; identical arguments
// return the identical definition.
func (t *Type) Array(size any) *Type {
	return ArrayOf(t, size)
}

// AlignmentPaddings computes the padding lengths after each of types so that
// every element sits at an offset aligned to its own alignment, with the
// trailing padding aligning the whole run to totalAlignment.
func AlignmentPaddings(types []*Type, totalAlignment int, ctx *Context) ([]int, error) {
	ctx = ctx.orBackground()
	if len(types) == 0 {
		return nil, nil
	}

	paddings := make([]int, 0, len(types))
	offset, err := types[0].StaticSize(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range types[1:] {
		alignment, err := t.Alignment(ctx)
		if err != nil {
			return nil, err
		}
		padding := -offset & (alignment - 1)

		size, err := t.StaticSize(ctx)
		if err != nil {
			return nil, err
		}
		offset += size + padding
		paddings = append(paddings, padding)
	}
	paddings = append(paddings, -offset&(totalAlignment-1))
	return paddings, nil
}

// ToInt converts any integer-kind value to int. Sizes and counts resolved
// from dynamic values or prefix Types arrive as arbitrary integer widths.
func ToInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int8:
		return int(n), nil
	case int16:
		return int(n), nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case uint:
		return int(n), nil
	case uint8:
		return int(n), nil
	case uint16:
		return int(n), nil
	case uint32:
		return int(n), nil
	case uint64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("%w: %T is not an integer", errors.ErrInvalidValue, v)
	}
}

// concatPacked packs each (type, value) pair in order into one payload using
// a pooled scratch buffer.
func concatPacked(ctx *Context, pairs func(yield func(*Type, any) error) error) ([]byte, error) {
	scratch := bufferpool.Pool.Get()
	defer bufferpool.Pool.Put(scratch)

	err := pairs(func(t *Type, v any) error {
		data, err := t.Pack(v, ctx)
		if err != nil {
			return err
		}
		scratch.Write(data)
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := make([]byte, scratch.Len())
	copy(out, scratch.Bytes())
	return out, nil
}
