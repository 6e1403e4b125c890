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

	"github.com/wirepak/wirepak/buffer"
	"github.com/wirepak/wirepak/errors"
)

// Tuple is the value of a Compound: an immutable, fixed-order aggregate of
// named sub-values.
type Tuple struct {
	names  []string
	values []any
}

// NewTuple creates a Tuple pairing names with values.
func NewTuple(names []string, values []any) (Tuple, error) {
	if len(names) != len(values) {
		return Tuple{}, fmt.Errorf("%w: %d names for %d values", errors.ErrInvalidValue, len(names), len(values))
	}
	return Tuple{names: names, values: values}, nil
}

// Len returns the number of sub-values.
func (t Tuple) Len() int { return len(t.values) }

// At returns the sub-value at position i.
func (t Tuple) At(i int) any { return t.values[i] }

// Get returns the sub-value declared under name.
func (t Tuple) Get(name string) (any, bool) {
	for i, n := range t.names {
		if n == name {
			return t.values[i], true
		}
	}
	return nil, false
}

// Values returns a copy of the sub-values in declared order.
func (t Tuple) Values() []any {
	out := make([]any, len(t.values))
	copy(out, t.values)
	return out
}

func (t Tuple) String() string {
	s := "("
	for i, n := range t.names {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s=%v", n, t.values[i])
	}
	return s + ")"
}

// CompoundField names one sub-Type of a Compound. The Type marker may be any
// typelike value.
type CompoundField struct {
	Name string
	Type any
}

// CompoundOf returns the Compound Type aggregating the given sub-Types in
// declared order, contiguous with no padding. Its value type is Tuple; plain
// []any values of matching length are coerced. Identical arguments return the
// identical definition.
func CompoundOf(name string, fields ...CompoundField) (*Type, error) {
	names := make([]string, 0, len(fields))
	types := make([]*Type, 0, len(fields))
	for _, f := range fields {
		t, err := TypeOf(f.Type)
		if err != nil {
			return nil, fmt.Errorf("compound %s field %q: %w", name, f.Name, err)
		}
		names = append(names, f.Name)
		types = append(types, t)
	}

	params := make([]any, 0, 2*len(fields))
	for i := range names {
		params = append(params, names[i], types[i])
	}

	return makeType("Compound", name, params, func() *Type {
		return newCompoundType(name, names, types)
	}), nil
}

func newCompoundType(name string, names []string, types []*Type) *Type {
	return New(name,
		WithPack(func(value any, ctx *Context) ([]byte, error) {
			tuple, err := coerceTuple(name, names, value)
			if err != nil {
				return nil, err
			}
			return concatPacked(ctx, func(yield func(*Type, any) error) error {
				for i, t := range types {
					if err := yield(t, tuple.values[i]); err != nil {
						return err
					}
				}
				return nil
			})
		}),
		WithUnpack(func(buf *buffer.Reader, ctx *Context) (any, error) {
			values := make([]any, 0, len(types))
			for _, t := range types {
				v, err := t.Unpack(buf, ctx)
				if err != nil {
					return nil, err
				}
				values = append(values, v)
			}
			return Tuple{names: names, values: values}, nil
		}),
		WithSizeFunc(func(value any, ctx *Context) (int, error) {
			total := 0
			for _, t := range types {
				n, err := t.StaticSize(ctx)
				if err != nil {
					return 0, err
				}
				total += n
			}
			return total, nil
		}),
		WithDefaultFunc(func(ctx *Context) (any, error) {
			values := make([]any, 0, len(types))
			for _, t := range types {
				v, err := t.Default(ctx)
				if err != nil {
					return nil, err
				}
				values = append(values, v)
			}
			return Tuple{names: names, values: values}, nil
		}),
	)
}

// coerceTuple converts value into the Compound's fixed-order tuple shape.
func coerceTuple(name string, names []string, value any) (Tuple, error) {
	switch v := value.(type) {
	case Tuple:
		if len(v.values) != len(names) {
			return Tuple{}, fmt.Errorf("%w: %s expects %d sub-values, got %d", errors.ErrEncoding, name, len(names), len(v.values))
		}
		return v, nil
	case []any:
		if len(v) != len(names) {
			return Tuple{}, fmt.Errorf("%w: %s expects %d sub-values, got %d", errors.ErrEncoding, name, len(names), len(v))
		}
		return Tuple{names: names, values: v}, nil
	default:
		return Tuple{}, fmt.Errorf("%w: %s expects a tuple, got %T", errors.ErrEncoding, name, value)
	}
}
