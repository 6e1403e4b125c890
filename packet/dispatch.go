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

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/wirepak/wirepak/errors"
	"github.com/wirepak/wirepak/wire"
)

// dispatchKey memoizes id lookups per (id, packet context) pair. Ids must be
// comparable for this to hold, which the id contract already requires.
type dispatchKey struct {
	id      any
	ctxHash uint64
}

func (s *Schema) registerChild(child *Schema) {
	s.mu.Lock()
	s.children = append(s.children, child)
	s.mu.Unlock()
}

// Subclasses returns every schema extending s, directly or transitively, in
// declaration order, each once. The walk is computed on first use; schemas
// declared after that are a misuse of the registry and are not picked up.
func (s *Schema) Subclasses() []*Schema {
	s.subsOnce.Do(func() {
		seen := mapset.NewThreadUnsafeSet[*Schema]()
		var walk func(*Schema)
		walk = func(cur *Schema) {
			cur.mu.Lock()
			children := make([]*Schema, len(cur.children))
			copy(children, cur.children)
			cur.mu.Unlock()
			for _, child := range children {
				if !seen.Add(child) {
					continue
				}
				s.subs = append(s.subs, child)
				walk(child)
			}
		}
		walk(s)
	})
	return s.subs
}

// HasID reports whether the schema declares a dispatch id.
func (s *Schema) HasID() bool { return s.hasID }

// ID resolves the schema's dispatch id under the given packet context, or
// nil when the schema declares none. An id declared as a dynamic value is
// recomputed per context.
func (s *Schema) ID(ctx wire.PacketContext) (any, error) {
	return s.resolveID(wire.NewContext(nil, s.resolveCtx(ctx)))
}

// ID resolves the packet's schema id with the packet itself visible to any
// dynamic id computation.
func (p *Packet) ID(ctx wire.PacketContext) (any, error) {
	return p.schema.resolveID(wire.NewContext(p, p.schema.resolveCtx(ctx)))
}

func (s *Schema) resolveID(tctx *wire.Context) (any, error) {
	if !s.hasID {
		return nil, nil
	}
	switch id := s.id.(type) {
	case wire.ValueFunc:
		return id(tctx)
	case wire.DynamicValue:
		return id.Get(tctx)
	default:
		return id, nil
	}
}

// SubclassWithID finds the descendant schema whose id resolves to the given
// value under ctx. Descendants are scanned in declaration order and the
// first match wins; the outcome, found or not, is memoized per (id, context
// hash). Schemas without an id never match.
func (s *Schema) SubclassWithID(id any, ctx wire.PacketContext) (*Schema, error) {
	resolved := s.resolveCtx(ctx)
	key := dispatchKey{id: id, ctxHash: resolved.Hash()}
	if match, ok := s.memo.Get(key); ok {
		if match == nil {
			return nil, fmt.Errorf("%w: %v on %s", errors.ErrUnknownID, id, s.name)
		}
		return match, nil
	}

	for _, sub := range s.Subclasses() {
		if !sub.hasID {
			continue
		}
		subID, err := sub.resolveID(wire.NewContext(nil, resolved))
		if err != nil {
			return nil, fmt.Errorf("id of %s: %w", sub.name, err)
		}
		if wire.EqualValues(subID, id) {
			s.memo.Set(key, sub)
			return sub, nil
		}
	}

	s.logger.Debugf("no descendant of %s has id %v", s.name, id)
	s.memo.Set(key, nil)
	return nil, fmt.Errorf("%w: %v on %s", errors.ErrUnknownID, id, s.name)
}
