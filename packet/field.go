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

package packet

import (
	"fmt"

	"github.com/wirepak/wirepak/errors"
	"github.com/wirepak/wirepak/wire"
)

// Values carries explicit field values into a packet constructor.
type Values map[string]any

// Accessor customizes how a field stores its value on a packet instance.
// Every hook is optional; missing hooks fall back to plain storage. A Set
// hook refusing assignment returns ErrReadOnlyField: default fill and unpack
// skip the field, explicit assignment surfaces the error.
type Accessor struct {
	Get    func(p *Packet) (any, error)
	Set    func(p *Packet, v any) error
	Delete func(p *Packet) error
}

// ReadOnly is a Set hook that refuses every assignment.
func ReadOnly(*Packet, any) error {
	return errors.ErrReadOnlyField
}

// Field declares one named, typed slot of a packet schema. The type marker
// may be any typelike value; it is resolved when the schema is built.
type Field struct {
	name     string
	rawType  any
	accessor *Accessor
	compute  func(p *Packet, ctx *wire.Context) (any, error)
}

// NewField declares a plain stored field.
func NewField(name string, typelike any) Field {
	return Field{name: name, rawType: typelike}
}

// NewAccessorField declares a field whose storage goes through a custom
// accessor. Reusing the name of an inherited plain field overrides its
// storage without counting as a redeclaration; passing a nil typelike
// inherits the overridden field's Type.
func NewAccessorField(name string, typelike any, accessor Accessor) Field {
	return Field{name: name, rawType: typelike, accessor: &accessor}
}

// NewComputedField declares a field whose value is derived from the packet
// being marshaled rather than stored. Used mostly for header fields carrying
// framing metadata.
func NewComputedField(name string, typelike any, compute func(p *Packet, ctx *wire.Context) (any, error)) Field {
	return Field{name: name, rawType: typelike, compute: compute}
}

// Name returns the declared field name.
func (f Field) Name() string { return f.name }

// boundField is a schema-resolved field: marker converted to a Type, accessor
// hooks filled in. Descendant schemas share their ancestors' boundFields, so
// a diamond ancestor contributes its fields once.
type boundField struct {
	name     string
	typ      *wire.Type
	accessor *Accessor
	compute  func(p *Packet, ctx *wire.Context) (any, error)
}

func (b *boundField) get(p *Packet) (any, error) {
	if b.accessor != nil && b.accessor.Get != nil {
		return b.accessor.Get(p)
	}
	v, ok := p.values[b.name]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s has no value", errors.ErrUnsetField, p.schema.name, b.name)
	}
	return v, nil
}

func (b *boundField) set(p *Packet, v any) error {
	if b.accessor != nil && b.accessor.Set != nil {
		return b.accessor.Set(p, v)
	}
	p.values[b.name] = v
	return nil
}

func (b *boundField) delete(p *Packet) error {
	if b.accessor != nil && b.accessor.Delete != nil {
		return b.accessor.Delete(p)
	}
	if _, ok := p.values[b.name]; !ok {
		return fmt.Errorf("%w: %s.%s has no value", errors.ErrUnsetField, p.schema.name, b.name)
	}
	delete(p.values, b.name)
	return nil
}
