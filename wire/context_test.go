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
	"testing"

	"github.com/stretchr/testify/assert"
)

type holderMap map[string]any

func (h holderMap) FieldValue(name string) (any, bool) {
	v, ok := h[name]
	return v, ok
}

func TestEmptyContext(t *testing.T) {
	t.Run("AllInstancesEqual", func(t *testing.T) {
		assert.True(t, EmptyContext{}.Equal(EmptyContext{}))
		assert.True(t, EmptyContext{}.Equal(&EmptyContext{}))
		assert.Equal(t, EmptyContext{}.Hash(), EmptyContext{}.Hash())
	})
	t.Run("NotEqualToOtherContexts", func(t *testing.T) {
		other := &mapContext{hash: 9}
		assert.False(t, EmptyContext{}.Equal(other))
	})
	t.Run("NoAttributes", func(t *testing.T) {
		_, ok := EmptyContext{}.Value("anything")
		assert.False(t, ok)
	})
}

func TestContext(t *testing.T) {
	t.Run("Background", func(t *testing.T) {
		ctx := Background()
		assert.Nil(t, ctx.Packet())
		assert.Equal(t, EmptyContext{}, ctx.PacketContext())
	})
	t.Run("NilPacketContextFallsBack", func(t *testing.T) {
		ctx := NewContext(nil, nil)
		assert.Equal(t, EmptyContext{}, ctx.PacketContext())
	})
	t.Run("ValueDelegates", func(t *testing.T) {
		ctx := NewContext(nil, &mapContext{hash: 1, attrs: map[string]any{"k": "v"}})
		v, ok := ctx.Value("k")
		assert.True(t, ok)
		assert.Equal(t, "v", v)
	})
	t.Run("PacketHolder", func(t *testing.T) {
		h := holderMap{"len": 3}
		ctx := NewContext(h, nil)
		v, ok := ctx.Packet().FieldValue("len")
		assert.True(t, ok)
		assert.Equal(t, 3, v)
	})
}
