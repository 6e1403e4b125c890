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
	"sync"

	"github.com/wirepak/wirepak/errors"
	"github.com/wirepak/wirepak/wire"
)

var emptyHeaderOnce sync.Once
var emptyHeader *Schema

func emptyHeaderSchema() *Schema {
	emptyHeaderOnce.Do(func() {
		emptyHeader = Must(New("Header", asHeader()))
	})
	return emptyHeader
}

// Header derives the framing header packet for p. Each header field takes
// its value from the owning packet: a computed field runs its hook, a field
// named "size" takes the packed body size, a field named "id" takes the
// schema id, and anything else falls back to its Type default. All of it
// resolves against the body packet's marshal context; a schema with no
// declared header yields an empty header.
func (p *Packet) Header(ctx wire.PacketContext) (*Packet, error) {
	hs := p.schema.HeaderSchema()
	if hs == nil {
		hs = emptyHeaderSchema()
	}

	resolved := p.schema.resolveCtx(ctx)
	tctx := wire.NewContext(p, resolved)

	h := &Packet{schema: hs, values: make(map[string]any, len(hs.fields))}
	for _, f := range hs.fields {
		v, err := p.headerFieldValue(f, resolved, tctx)
		if err != nil {
			return nil, fmt.Errorf("header field %q of %s: %w", f.name, p.schema.name, err)
		}
		h.Store(f.name, v)
	}
	return h, nil
}

func (p *Packet) headerFieldValue(f *boundField, ctx wire.PacketContext, tctx *wire.Context) (any, error) {
	if f.compute != nil {
		return f.compute(p, tctx)
	}
	switch f.name {
	case "size":
		return p.Size(ctx)
	case "id":
		id, err := p.schema.ID(ctx)
		if err != nil {
			return nil, err
		}
		if id == nil {
			return nil, errors.ErrNoID
		}
		return id, nil
	}
	return f.typ.Default(tctx)
}
