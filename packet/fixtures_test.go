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
	"github.com/wirepak/wirepak/wire"
)

// dynValue adapts a func to wire.DynamicValue for tests.
type dynValue func(ctx *wire.Context) (any, error)

func (f dynValue) Get(ctx *wire.Context) (any, error) { return f(ctx) }

// testContext is a PacketContext with a fixed hash and a plain attribute map.
type testContext struct {
	hash  uint64
	attrs map[string]any
}

func newTestContext(hash uint64, attrs map[string]any) *testContext {
	return &testContext{hash: hash, attrs: attrs}
}

func (c *testContext) Hash() uint64 { return c.hash }

func (c *testContext) Equal(other wire.PacketContext) bool {
	o, ok := other.(*testContext)
	return ok && o.hash == c.hash
}

func (c *testContext) Value(key string) (any, bool) {
	v, ok := c.attrs[key]
	return v, ok
}
