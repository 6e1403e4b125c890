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

package wire

import (
	stderrors "errors"
	"fmt"
	"reflect"

	"github.com/wirepak/wirepak/buffer"
	"github.com/wirepak/wirepak/errors"
)

type arraySizeKind int

const (
	fixedSize arraySizeKind = iota
	prefixSize
	fieldSize
	funcSize
	unboundedSize
)

// arrayDescriptor is the parsed size descriptor of an Array: a literal count,
// a length-prefix Type packed before the elements, the name of a sibling
// field unpacked earlier in the same packet, a callable computing the count
// from context, or unbounded.
type arrayDescriptor struct {
	kind   arraySizeKind
	count  int
	prefix *Type
	field  string
	fn     IntFunc
}

func (d *arrayDescriptor) String() string {
	switch d.kind {
	case fixedSize:
		return fmt.Sprintf("%d", d.count)
	case prefixSize:
		return d.prefix.Name()
	case fieldSize:
		return d.field
	case funcSize:
		return fmt.Sprintf("func@%#x", reflect.ValueOf(d.fn).Pointer())
	default:
		return "..."
	}
}

// resolveCount resolves the element count when the descriptor allows it
// without consuming buffer bytes. Unresolvable counts (prefix or unbounded
// descriptors, sibling fields with no packet in scope) report ok=false.
func (d *arrayDescriptor) resolveCount(ctx *Context) (int, bool, error) {
	switch d.kind {
	case fixedSize:
		return d.count, true, nil
	case fieldSize:
		packet := ctx.Packet()
		if packet == nil {
			return 0, false, nil
		}
		v, ok := packet.FieldValue(d.field)
		if !ok {
			return 0, false, nil
		}
		n, err := ToInt(v)
		if err != nil {
			return 0, false, fmt.Errorf("sibling field %q: %w", d.field, err)
		}
		return n, true, nil
	case funcSize:
		n, err := d.fn(ctx)
		if err != nil {
			if stderrors.Is(err, errors.ErrNoStaticSize) {
				return 0, false, nil
			}
			return 0, false, err
		}
		return n, true, nil
	default:
		return 0, false, nil
	}
}

// ArrayOf returns the Array Type over elem with the given size descriptor:
// an int count, a prefix *Type, a sibling field name string, an IntFunc, or
// nil for unbounded. Identical arguments return the identical definition.
//
// ArrayOf panics when the descriptor is none of the supported kinds; a size
// descriptor is declaration-time data, not input.
func ArrayOf(elem *Type, size any) *Type {
	desc := parseDescriptor(size)
	name := fmt.Sprintf("%s[%s]", elem.Name(), desc.String())

	return makeType(elem.Name(), name, []any{elem, size}, func() *Type {
		return newArrayType(name, elem, desc)
	})
}

func parseDescriptor(size any) *arrayDescriptor {
	switch s := size.(type) {
	case nil:
		return &arrayDescriptor{kind: unboundedSize}
	case int:
		return &arrayDescriptor{kind: fixedSize, count: s}
	case *Type:
		return &arrayDescriptor{kind: prefixSize, prefix: s}
	case string:
		return &arrayDescriptor{kind: fieldSize, field: s}
	case IntFunc:
		return &arrayDescriptor{kind: funcSize, fn: s}
	case func(*Context) (int, error):
		return &arrayDescriptor{kind: funcSize, fn: s}
	default:
		panic(fmt.Sprintf("wire: invalid array size descriptor %T(%v)", size, size))
	}
}

func newArrayType(name string, elem *Type, desc *arrayDescriptor) *Type {
	return New(name,
		WithPack(func(value any, ctx *Context) ([]byte, error) {
			return arrayPack(elem, desc, value, ctx)
		}),
		WithUnpack(func(buf *buffer.Reader, ctx *Context) (any, error) {
			return arrayUnpack(elem, desc, buf, ctx)
		}),
		WithSizeFunc(func(value any, ctx *Context) (int, error) {
			count, ok, err := desc.resolveCount(ctx)
			if err != nil {
				return 0, err
			}
			if !ok {
				return 0, fmt.Errorf("%w: %s", errors.ErrNoStaticSize, name)
			}
			elemSize, err := elem.StaticSize(ctx)
			if err != nil {
				return 0, err
			}
			return count * elemSize, nil
		}),
		WithDefaultFunc(func(ctx *Context) (any, error) {
			return arrayDefault(elem, desc, ctx)
		}),
		WithAlignmentFunc(func(ctx *Context) (int, error) {
			return elem.Alignment(ctx)
		}),
	)
}

func arrayDefault(elem *Type, desc *arrayDescriptor, ctx *Context) (any, error) {
	count, ok, err := desc.resolveCount(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		count = -1
	}
	if elem.arrayDefault != nil {
		return elem.arrayDefault(count, ctx)
	}
	if count < 0 {
		return []any{}, nil
	}
	out := make([]any, 0, count)
	for i := 0; i < count; i++ {
		d, err := elem.Default(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func arrayPack(elem *Type, desc *arrayDescriptor, value any, ctx *Context) ([]byte, error) {
	length, err := sliceLen(elem, value)
	if err != nil {
		return nil, err
	}

	switch desc.kind {
	case fixedSize:
		// Short values are padded out with element defaults, extra
		// elements are dropped. The wire always carries exactly count.
		body, err := packElements(elem, value, desc.count, ctx)
		if err != nil {
			return nil, err
		}
		return body, nil
	case prefixSize:
		prefix, err := desc.prefix.Pack(length, ctx)
		if err != nil {
			return nil, err
		}
		body, err := packElements(elem, value, -1, ctx)
		if err != nil {
			return nil, err
		}
		return append(prefix, body...), nil
	default:
		// Sibling-field, callable and unbounded descriptors pack the
		// elements as given; the count lives elsewhere.
		return packElements(elem, value, -1, ctx)
	}
}

func arrayUnpack(elem *Type, desc *arrayDescriptor, buf *buffer.Reader, ctx *Context) (any, error) {
	switch desc.kind {
	case prefixSize:
		raw, err := desc.prefix.Unpack(buf, ctx)
		if err != nil {
			return nil, err
		}
		count, err := ToInt(raw)
		if err != nil {
			return nil, fmt.Errorf("array length prefix: %w", err)
		}
		return unpackElements(elem, buf, count, ctx)
	case unboundedSize:
		return unpackElements(elem, buf, -1, ctx)
	default:
		count, ok, err := desc.resolveCount(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: array %s[%s] count is unresolvable here", errors.ErrInvalidValue, elem.Name(), desc.String())
		}
		return unpackElements(elem, buf, count, ctx)
	}
}

// packElements packs the elements of value. A non-negative count fixes the
// element total: short values are padded with element defaults, extra
// elements dropped.
func packElements(elem *Type, value any, count int, ctx *Context) ([]byte, error) {
	if elem.arrayPack != nil {
		return elem.arrayPack(value, count, ctx)
	}

	rv, err := sliceValue(elem, value)
	if err != nil {
		return nil, err
	}
	total := rv.Len()
	if count >= 0 {
		total = count
	}

	return concatPacked(ctx, func(yield func(*Type, any) error) error {
		for i := 0; i < total; i++ {
			var v any
			if i < rv.Len() {
				v = rv.Index(i).Interface()
			} else {
				d, err := elem.Default(ctx)
				if err != nil {
					return err
				}
				v = d
			}
			if err := yield(elem, v); err != nil {
				return err
			}
		}
		return nil
	})
}

// unpackElements reads count elements, or, when count is negative, elements
// until the buffer is exhausted.
func unpackElements(elem *Type, buf *buffer.Reader, count int, ctx *Context) (any, error) {
	if elem.arrayUnpack != nil {
		return elem.arrayUnpack(buf, count, ctx)
	}

	if count >= 0 {
		out := make([]any, 0, count)
		for i := 0; i < count; i++ {
			v, err := elem.Unpack(buf, ctx)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}

	out := []any{}
	for !buf.Exhausted() {
		v, err := elem.Unpack(buf, ctx)
		if err != nil {
			// The buffer ran out mid-element; everything decoded so
			// far is the value.
			return out, nil
		}
		out = append(out, v)
	}
	return out, nil
}

func sliceValue(elem *Type, value any) (reflect.Value, error) {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return reflect.Value{}, fmt.Errorf("%w: %s array expects a sequence, got %T", errors.ErrEncoding, elem.Name(), value)
	}
	return rv, nil
}

func sliceLen(elem *Type, value any) (int, error) {
	if data, ok := value.([]byte); ok {
		return len(data), nil
	}
	rv, err := sliceValue(elem, value)
	if err != nil {
		return 0, err
	}
	return rv.Len(), nil
}
