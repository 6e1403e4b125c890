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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wirepak/wirepak/errors"
	"github.com/wirepak/wirepak/prim"
	"github.com/wirepak/wirepak/wire"
)

func TestHeaderDerivation(t *testing.T) {
	t.Run("SizeField", func(t *testing.T) {
		s := Must(New("Sized",
			WithHeader(NewField("size", prim.UInt16)),
			WithFields(NewField("body", prim.UInt8.Array("size"))),
		))
		p := s.MustNew(nil, Values{"body": []any{uint8(1), uint8(2), uint8(3)}})

		h, err := p.Header(nil)
		require.NoError(t, err)
		size, err := h.Get("size")
		require.NoError(t, err)
		assert.Equal(t, 3, size)
	})
	t.Run("IDField", func(t *testing.T) {
		s := Must(New("Tagged",
			WithID(9),
			WithHeader(NewField("id", prim.UInt8)),
			WithFields(NewField("x", prim.UInt8)),
		))
		p := s.MustNew(nil, nil)

		h, err := p.Header(nil)
		require.NoError(t, err)
		id, err := h.Get("id")
		require.NoError(t, err)
		assert.Equal(t, 9, id)
	})
	t.Run("IDFieldWithoutID", func(t *testing.T) {
		s := Must(New("Untagged",
			WithHeader(NewField("id", prim.UInt8)),
			WithFields(NewField("x", prim.UInt8)),
		))
		p := s.MustNew(nil, nil)

		_, err := p.Header(nil)
		assert.ErrorIs(t, err, errors.ErrNoID)
	})
	t.Run("OtherFieldsDefault", func(t *testing.T) {
		s := Must(New("Versioned",
			WithHeader(NewField("version", prim.UInt8)),
			WithFields(NewField("x", prim.UInt8)),
		))
		p := s.MustNew(nil, nil)

		h, err := p.Header(nil)
		require.NoError(t, err)
		version, err := h.Get("version")
		require.NoError(t, err)
		assert.Equal(t, uint8(0), version)
	})
	t.Run("ComputedField", func(t *testing.T) {
		s := Must(New("Checksummed",
			WithHeader(NewComputedField("parity", prim.UInt8, func(p *Packet, ctx *wire.Context) (any, error) {
				v, err := p.Get("x")
				if err != nil {
					return nil, err
				}
				return v.(uint8) & 1, nil
			})),
			WithFields(NewField("x", prim.UInt8)),
		))
		p := s.MustNew(nil, Values{"x": uint8(3)})

		h, err := p.Header(nil)
		require.NoError(t, err)
		parity, err := h.Get("parity")
		require.NoError(t, err)
		assert.Equal(t, uint8(1), parity)
	})
	t.Run("BodyContextThreadsThrough", func(t *testing.T) {
		// A header field resolving through the marshal context must see the
		// body packet, not the header instance.
		s := Must(New("Reflective",
			WithHeader(NewComputedField("echo", prim.UInt8, func(_ *Packet, ctx *wire.Context) (any, error) {
				v, ok := ctx.Packet().FieldValue("x")
				if !ok {
					return uint8(0), nil
				}
				return v, nil
			})),
			WithFields(NewField("x", prim.UInt8)),
		))
		p := s.MustNew(nil, Values{"x": uint8(0x2a)})

		h, err := p.Header(nil)
		require.NoError(t, err)
		echo, err := h.Get("echo")
		require.NoError(t, err)
		assert.Equal(t, uint8(0x2a), echo)
	})
	t.Run("NoHeaderIsEmpty", func(t *testing.T) {
		s := Must(New("Headless", WithFields(NewField("x", prim.UInt8))))
		p := s.MustNew(nil, nil)

		h, err := p.Header(nil)
		require.NoError(t, err)
		assert.Empty(t, h.Schema().Fields())

		data, err := h.Pack(nil)
		require.NoError(t, err)
		assert.Empty(t, data)
	})
}

func TestPackWithHeader(t *testing.T) {
	t.Run("PackIsBodyOnly", func(t *testing.T) {
		s := Must(New("Framed",
			WithHeader(NewField("size", prim.UInt8)),
			WithFields(NewField("body", prim.UInt8.Array("size"))),
		))
		p := s.MustNew(nil, Values{"body": []any{uint8(5), uint8(6)}})

		body, err := p.Pack(nil)
		require.NoError(t, err)
		assert.Equal(t, []byte{5, 6}, body)

		framed, err := p.PackWithHeader(nil)
		require.NoError(t, err)
		assert.Equal(t, []byte{2, 5, 6}, framed)
	})
	t.Run("IDHeader", func(t *testing.T) {
		s := Must(New("TaggedFrame",
			WithID(7),
			WithHeader(NewField("id", prim.UInt8)),
			WithFields(NewField("x", prim.UInt16)),
		))
		p := s.MustNew(nil, Values{"x": uint16(0x0102)})

		framed, err := p.PackWithHeader(nil)
		require.NoError(t, err)
		assert.Equal(t, []byte{7, 0x02, 0x01}, framed)
	})
	t.Run("NoHeader", func(t *testing.T) {
		s := Must(New("Plain", WithFields(NewField("x", prim.UInt8))))
		p := s.MustNew(nil, Values{"x": uint8(1)})

		framed, err := p.PackWithHeader(nil)
		require.NoError(t, err)
		assert.Equal(t, []byte{1}, framed)
	})
}
