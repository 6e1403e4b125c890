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
	"fmt"
	"reflect"

	"github.com/wirepak/wirepak/buffer"
	"github.com/wirepak/wirepak/errors"
)

// EnumMember is one symbolic constant of an Enum: a name bound to a value of
// the underlying elemental Type.
type EnumMember struct {
	name    string
	value   any
	invalid bool
}

// Member declares an Enum constant.
func Member(name string, value any) EnumMember {
	return EnumMember{name: name, value: value}
}

// InvalidMember is the reserved sentinel for successfully decoded bytes that
// match no declared constant. It has no wire representation: packing it is
// always an error.
var InvalidMember = EnumMember{invalid: true}

// Name returns the constant name.
func (m EnumMember) Name() string { return m.name }

// Value returns the underlying value.
func (m EnumMember) Value() any { return m.value }

// Valid reports whether the member is a declared constant rather than the
// reserved invalid sentinel.
func (m EnumMember) Valid() bool { return !m.invalid }

func (m EnumMember) String() string {
	if m.invalid {
		return "<invalid>"
	}
	return fmt.Sprintf("%s(%v)", m.name, m.value)
}

// EnumOf returns the Enum Type mapping the declared constants over the given
// elemental typelike. The default value is the first declared constant.
// Unpacking bytes that decode to no declared constant yields InvalidMember,
// not an error. Identical arguments return the identical definition.
func EnumOf(name string, elem any, members ...EnumMember) (*Type, error) {
	elemType, err := TypeOf(elem)
	if err != nil {
		return nil, fmt.Errorf("enum %s: %w", name, err)
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: enum %s declares no members", errors.ErrInvalidValue, name)
	}
	for _, m := range members {
		if !m.Valid() {
			return nil, fmt.Errorf("%w: enum %s declares the reserved invalid member", errors.ErrInvalidValue, name)
		}
	}

	params := make([]any, 0, len(members)+1)
	params = append(params, elemType)
	for _, m := range members {
		params = append(params, m)
	}

	return makeType("Enum", name, params, func() *Type {
		return newEnumType(name, elemType, members)
	}), nil
}

func newEnumType(name string, elem *Type, members []EnumMember) *Type {
	return New(name,
		WithPack(func(value any, ctx *Context) ([]byte, error) {
			member, ok := value.(EnumMember)
			if !ok {
				return nil, fmt.Errorf("%w: %s expects an enum member, got %T", errors.ErrEncoding, name, value)
			}
			if !member.Valid() {
				return nil, fmt.Errorf("%w: %s", errors.ErrInvalidEnumValue, name)
			}
			return elem.Pack(member.value, ctx)
		}),
		WithUnpack(func(buf *buffer.Reader, ctx *Context) (any, error) {
			raw, err := elem.Unpack(buf, ctx)
			if err != nil {
				return nil, err
			}
			for _, m := range members {
				if EqualValues(m.value, raw) {
					return m, nil
				}
			}
			// Decoding succeeded; the value simply names no constant.
			return InvalidMember, nil
		}),
		WithSizeFunc(func(value any, ctx *Context) (int, error) {
			return elem.StaticSize(ctx)
		}),
		WithDefaultFunc(func(ctx *Context) (any, error) {
			return members[0], nil
		}),
		WithAlignmentFunc(func(ctx *Context) (int, error) {
			return elem.Alignment(ctx)
		}),
	)
}

// EqualValues compares by value equality, tolerating differing integer widths
// between a declared constant and a decoded raw value. It is the comparison
// used for enum lookup and for id dispatch.
func EqualValues(a, b any) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}
	an, aerr := ToInt(a)
	bn, berr := ToInt(b)
	return aerr == nil && berr == nil && an == bn
}
