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
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/wirepak/wirepak/buffer"
	"github.com/wirepak/wirepak/errors"
	"github.com/wirepak/wirepak/internal/bufferpool"
	"github.com/wirepak/wirepak/wire"
)

// Packet is one instance of a schema: a value per declared field. Packets are
// created by default construction with explicit overrides, or by unpacking a
// buffer; they are not safe for concurrent mutation.
type Packet struct {
	schema *Schema
	values map[string]any
}

var _ wire.Holder = (*Packet)(nil)

// New constructs a packet: every field not named in values receives its
// Type-level default, fields named in values take the given value. Defaults
// that a custom accessor refuses are skipped; explicitly given values are
// not. Unknown names are declaration mistakes and error immediately.
func (s *Schema) New(ctx wire.PacketContext, values Values) (*Packet, error) {
	p := &Packet{schema: s, values: make(map[string]any, len(s.fields))}
	tctx := wire.NewContext(p, s.resolveCtx(ctx))

	remaining := len(values)
	for _, f := range s.fields {
		if v, ok := values[f.name]; ok {
			remaining--
			if err := f.set(p, v); err != nil {
				return nil, fmt.Errorf("field %q of %s: %w", f.name, s.name, err)
			}
			continue
		}
		d, err := f.typ.Default(tctx)
		if err != nil {
			return nil, fmt.Errorf("field %q of %s: %w", f.name, s.name, err)
		}
		if err := f.set(p, d); err != nil {
			if stderrors.Is(err, errors.ErrReadOnlyField) {
				continue
			}
			return nil, fmt.Errorf("field %q of %s: %w", f.name, s.name, err)
		}
	}

	if remaining != 0 {
		for name := range values {
			if _, ok := s.index[name]; !ok {
				return nil, fmt.Errorf("%w: %q on %s", errors.ErrUnknownField, name, s.name)
			}
		}
	}
	return p, nil
}

// MustNew is New for values known to be valid; it panics on error.
func (s *Schema) MustNew(ctx wire.PacketContext, values Values) *Packet {
	p, err := s.New(ctx, values)
	if err != nil {
		panic(fmt.Sprintf("packet: %v", err))
	}
	return p
}

// Unpack constructs a packet strictly from the buffer: every field is read
// through its Type in wire order, and no field ever falls back to a default.
// Values a custom accessor refuses are skipped, the bytes still consumed.
func (s *Schema) Unpack(buf *buffer.Reader, ctx wire.PacketContext) (*Packet, error) {
	p := &Packet{schema: s, values: make(map[string]any, len(s.fields))}
	tctx := wire.NewContext(p, s.resolveCtx(ctx))

	for _, f := range s.fields {
		v, err := f.typ.Unpack(buf, tctx)
		if err != nil {
			return nil, fmt.Errorf("field %q of %s: %w", f.name, s.name, err)
		}
		if err := f.set(p, v); err != nil {
			if stderrors.Is(err, errors.ErrReadOnlyField) {
				continue
			}
			return nil, fmt.Errorf("field %q of %s: %w", f.name, s.name, err)
		}
	}
	return p, nil
}

// UnpackBytes unpacks a packet from an in-memory slice.
func (s *Schema) UnpackBytes(data []byte, ctx wire.PacketContext) (*Packet, error) {
	return s.Unpack(buffer.FromBytes(data), ctx)
}

// Schema returns the packet's schema.
func (p *Packet) Schema() *Schema { return p.schema }

// FieldValue implements wire.Holder: sibling Types resolving their size from
// an earlier field read it through the marshal context.
func (p *Packet) FieldValue(name string) (any, bool) {
	f, ok := p.schema.index[name]
	if !ok {
		return nil, false
	}
	v, err := f.get(p)
	if err != nil {
		return nil, false
	}
	return v, true
}

// Get returns the current value of the named field.
func (p *Packet) Get(name string) (any, error) {
	f, ok := p.schema.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q on %s", errors.ErrUnknownField, name, p.schema.name)
	}
	return f.get(p)
}

// Set assigns the named field. Unlike default fill and unpack, an accessor
// refusing the assignment surfaces the error.
func (p *Packet) Set(name string, v any) error {
	f, ok := p.schema.index[name]
	if !ok {
		return fmt.Errorf("%w: %q on %s", errors.ErrUnknownField, name, p.schema.name)
	}
	return f.set(p, v)
}

// Delete clears the named field's value.
func (p *Packet) Delete(name string) error {
	f, ok := p.schema.index[name]
	if !ok {
		return fmt.Errorf("%w: %q on %s", errors.ErrUnknownField, name, p.schema.name)
	}
	return f.delete(p)
}

// Store writes directly into the packet's backing storage, bypassing
// accessors. Custom accessor hooks use it as their stash.
func (p *Packet) Store(name string, v any) {
	p.values[name] = v
}

// Stored reads directly from the packet's backing storage, bypassing
// accessors.
func (p *Packet) Stored(name string) (any, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Pack marshals the packet body: each field's Type-level pack in declared
// order. Header bytes are framing and are not included; see PackWithHeader.
func (p *Packet) Pack(ctx wire.PacketContext) ([]byte, error) {
	tctx := wire.NewContext(p, p.schema.resolveCtx(ctx))
	return p.packWith(tctx)
}

// PackWithHeader marshals the framing header, when the schema declares one,
// followed by the packet body.
func (p *Packet) PackWithHeader(ctx wire.PacketContext) ([]byte, error) {
	resolved := p.schema.resolveCtx(ctx)
	tctx := wire.NewContext(p, resolved)

	header, err := p.Header(resolved)
	if err != nil {
		return nil, err
	}

	// Header fields marshal against the body packet's context; a header has
	// no context identity of its own.
	framing, err := header.packWith(tctx)
	if err != nil {
		return nil, err
	}
	body, err := p.packWith(tctx)
	if err != nil {
		return nil, err
	}
	return append(framing, body...), nil
}

func (p *Packet) packWith(tctx *wire.Context) ([]byte, error) {
	scratch := bufferpool.Pool.Get()
	defer bufferpool.Pool.Put(scratch)

	for _, f := range p.schema.fields {
		v, err := f.get(p)
		if err != nil {
			return nil, fmt.Errorf("field %q of %s: %w", f.name, p.schema.name, err)
		}
		data, err := f.typ.Pack(v, tctx)
		if err != nil {
			return nil, fmt.Errorf("field %q of %s: %w", f.name, p.schema.name, err)
		}
		scratch.Write(data)
	}
	out := make([]byte, scratch.Len())
	copy(out, scratch.Bytes())
	return out, nil
}

// Size returns the packed size of this packet's current field values.
func (p *Packet) Size(ctx wire.PacketContext) (int, error) {
	tctx := wire.NewContext(p, p.schema.resolveCtx(ctx))
	total := 0
	for _, f := range p.schema.fields {
		v, err := f.get(p)
		if err != nil {
			return 0, fmt.Errorf("field %q of %s: %w", f.name, p.schema.name, err)
		}
		n, err := f.typ.Size(v, tctx)
		if err != nil {
			return 0, fmt.Errorf("field %q of %s: %w", f.name, p.schema.name, err)
		}
		total += n
	}
	return total, nil
}

// Equal reports whether two packets carry the identical field set with
// pairwise equal values. Header and id never participate in equality.
func (p *Packet) Equal(other *Packet) bool {
	if other == nil {
		return false
	}
	if len(p.schema.fields) != len(other.schema.fields) {
		return false
	}
	for i, f := range p.schema.fields {
		of := other.schema.fields[i]
		if f.name != of.name || f.typ != of.typ {
			return false
		}
		v, err := f.get(p)
		if err != nil {
			return false
		}
		ov, err := of.get(other)
		if err != nil {
			return false
		}
		if !reflect.DeepEqual(v, ov) {
			return false
		}
	}
	return true
}

// String renders the type name and every field as name=value.
func (p *Packet) String() string {
	var sb strings.Builder
	sb.WriteString(p.schema.name)
	sb.WriteByte('(')
	for i, f := range p.schema.fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.name)
		sb.WriteByte('=')
		v, err := f.get(p)
		if err != nil {
			sb.WriteString("<unset>")
			continue
		}
		fmt.Fprintf(&sb, "%v", v)
	}
	sb.WriteByte(')')
	return sb.String()
}
