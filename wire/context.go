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
	"github.com/zeebo/xxh3"
)

// Holder is the view of a packet instance the Type engine needs while
// marshaling: ordered, named field access. It is implemented by
// packet.Packet; the wire package never depends on the packet engine itself.
type Holder interface {
	// FieldValue returns the current value of the named field, when the
	// holder declares it and the field currently holds a value.
	FieldValue(name string) (any, bool)
}

// PacketContext carries user-defined protocol state through marshal calls.
//
// Implementations must be immutable after construction, hashable and equality
// comparable; the interface makes the hash and equality obligations a
// compile-time requirement rather than a marshal-time surprise. Contexts at
// equal state must compare equal and hash identically, since dispatch results
// are memoized per context.
type PacketContext interface {
	// Hash returns a stable hash of the context state.
	Hash() uint64
	// Equal reports whether other carries the same context state.
	Equal(other PacketContext) bool
	// Value looks up a named attribute of the context.
	Value(key string) (any, bool)
}

var emptyContextHash = xxh3.HashString("wire.EmptyContext")

// EmptyContext is the base packet context: no state, all instances equal.
type EmptyContext struct{}

var _ PacketContext = (*EmptyContext)(nil)

// Hash implements PacketContext.
func (EmptyContext) Hash() uint64 { return emptyContextHash }

// Equal implements PacketContext. Any two EmptyContext values are equal.
func (EmptyContext) Equal(other PacketContext) bool {
	switch other.(type) {
	case EmptyContext, *EmptyContext:
		return true
	default:
		return false
	}
}

// Value implements PacketContext. An EmptyContext has no attributes.
func (EmptyContext) Value(string) (any, bool) { return nil, false }

// Context is the marshal-time context for a Type: the packet instance
// currently being marshaled, if any, paired with the outer packet context.
// Attribute lookups not satisfied directly fall through to the packet context.
//
// A Context is immutable. Unlike PacketContext it is not hashable, because the
// referenced packet is mutable.
type Context struct {
	packet    Holder
	packetCtx PacketContext
}

// NewContext creates a Context for the given packet instance and outer packet
// context. Either may be nil; a nil ctx falls back to EmptyContext.
func NewContext(packet Holder, ctx PacketContext) *Context {
	if ctx == nil {
		ctx = EmptyContext{}
	}
	return &Context{packet: packet, packetCtx: ctx}
}

// Background returns a Context with no packet and an EmptyContext.
func Background() *Context {
	return &Context{packetCtx: EmptyContext{}}
}

// orBackground tolerates nil contexts on every public entry point.
func (c *Context) orBackground() *Context {
	if c == nil {
		return Background()
	}
	return c
}

// Packet returns the packet instance being marshaled, or nil.
func (c *Context) Packet() Holder { return c.packet }

// PacketContext returns the outer packet context. Never nil.
func (c *Context) PacketContext() PacketContext { return c.packetCtx }

// Value looks up a named attribute on the outer packet context.
func (c *Context) Value(key string) (any, bool) {
	return c.packetCtx.Value(key)
}
