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
)

func TestPacketConstruction(t *testing.T) {
	point := Must(New("Point", WithFields(
		NewField("x", prim.Int16),
		NewField("y", prim.Int16),
	)))

	t.Run("Defaults", func(t *testing.T) {
		p, err := point.New(nil, nil)
		require.NoError(t, err)
		x, err := p.Get("x")
		require.NoError(t, err)
		assert.Equal(t, int16(0), x)
	})
	t.Run("ExplicitValues", func(t *testing.T) {
		p, err := point.New(nil, Values{"x": int16(1), "y": int16(-2)})
		require.NoError(t, err)
		x, err := p.Get("x")
		require.NoError(t, err)
		assert.Equal(t, int16(1), x)
		y, err := p.Get("y")
		require.NoError(t, err)
		assert.Equal(t, int16(-2), y)
	})
	t.Run("UnknownValue", func(t *testing.T) {
		_, err := point.New(nil, Values{"z": 1})
		require.ErrorIs(t, err, errors.ErrUnknownField)
	})
	t.Run("MustNewPanics", func(t *testing.T) {
		assert.Panics(t, func() { point.MustNew(nil, Values{"z": 1}) })
	})
	t.Run("SetGetDelete", func(t *testing.T) {
		p := point.MustNew(nil, nil)
		require.NoError(t, p.Set("x", int16(5)))
		v, err := p.Get("x")
		require.NoError(t, err)
		assert.Equal(t, int16(5), v)

		require.NoError(t, p.Delete("x"))
		_, err = p.Get("x")
		require.ErrorIs(t, err, errors.ErrUnsetField)
		require.ErrorIs(t, p.Delete("x"), errors.ErrUnsetField)

		require.ErrorIs(t, p.Set("z", 1), errors.ErrUnknownField)
		_, err = p.Get("z")
		require.ErrorIs(t, err, errors.ErrUnknownField)
	})
	t.Run("FieldValue", func(t *testing.T) {
		p := point.MustNew(nil, Values{"x": int16(3)})
		v, ok := p.FieldValue("x")
		assert.True(t, ok)
		assert.Equal(t, int16(3), v)
		_, ok = p.FieldValue("z")
		assert.False(t, ok)
	})
}

func TestPacketMarshal(t *testing.T) {
	point := Must(New("Point", WithFields(
		NewField("x", prim.Int16),
		NewField("y", prim.Int16),
	)))

	t.Run("RoundTrip", func(t *testing.T) {
		p := point.MustNew(nil, Values{"x": int16(0x0102), "y": int16(0x0304)})
		data, err := p.Pack(nil)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x02, 0x01, 0x04, 0x03}, data)

		q, err := point.UnpackBytes(data, nil)
		require.NoError(t, err)
		assert.True(t, p.Equal(q))
	})
	t.Run("UnpackNeverDefaults", func(t *testing.T) {
		_, err := point.UnpackBytes([]byte{1, 2}, nil)
		require.ErrorIs(t, err, errors.ErrBufferExhausted)
	})
	t.Run("Size", func(t *testing.T) {
		p := point.MustNew(nil, nil)
		n, err := p.Size(nil)
		require.NoError(t, err)
		assert.Equal(t, 4, n)
	})
	t.Run("SizePerValue", func(t *testing.T) {
		s := Must(New("Var", WithFields(NewField("n", prim.ULEB128))))
		p := s.MustNew(nil, Values{"n": uint64(128)})
		n, err := p.Size(nil)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})
	t.Run("String", func(t *testing.T) {
		p := point.MustNew(nil, Values{"x": int16(1), "y": int16(2)})
		assert.Equal(t, "Point(x=1, y=2)", p.String())

		require.NoError(t, p.Delete("y"))
		assert.Equal(t, "Point(x=1, y=<unset>)", p.String())
	})
}

func TestPacketEqual(t *testing.T) {
	point := Must(New("Point", WithFields(
		NewField("x", prim.Int16),
		NewField("y", prim.Int16),
	)))

	t.Run("EqualValues", func(t *testing.T) {
		p := point.MustNew(nil, Values{"x": int16(1), "y": int16(2)})
		q := point.MustNew(nil, Values{"x": int16(1), "y": int16(2)})
		assert.True(t, p.Equal(q))
	})
	t.Run("DifferentValues", func(t *testing.T) {
		p := point.MustNew(nil, Values{"x": int16(1)})
		q := point.MustNew(nil, Values{"x": int16(2)})
		assert.False(t, p.Equal(q))
	})
	t.Run("SameShapeDifferentSchema", func(t *testing.T) {
		// Equality is structural: identical field names, Types and values
		// compare equal across distinct schemas.
		other := Must(New("OtherPoint", WithFields(
			NewField("x", prim.Int16),
			NewField("y", prim.Int16),
		)))
		p := point.MustNew(nil, nil)
		q := other.MustNew(nil, nil)
		assert.True(t, p.Equal(q))
	})
	t.Run("DifferentFieldTypes", func(t *testing.T) {
		other := Must(New("WidePoint", WithFields(
			NewField("x", prim.Int32),
			NewField("y", prim.Int32),
		)))
		p := point.MustNew(nil, nil)
		q := other.MustNew(nil, nil)
		assert.False(t, p.Equal(q))
	})
	t.Run("IDDoesNotParticipate", func(t *testing.T) {
		a := Must(New("IDA", WithID(1), WithFields(NewField("x", prim.Int16))))
		b := Must(New("IDB", WithID(2), WithFields(NewField("x", prim.Int16))))
		p := a.MustNew(nil, Values{"x": int16(9)})
		q := b.MustNew(nil, Values{"x": int16(9)})
		assert.True(t, p.Equal(q))
	})
	t.Run("Nil", func(t *testing.T) {
		p := point.MustNew(nil, nil)
		assert.False(t, p.Equal(nil))
	})
}

func TestSiblingLengthField(t *testing.T) {
	// The array field's element count comes from a field unpacked earlier in
	// the same packet.
	s := Must(New("Blob", WithFields(
		NewField("length", prim.UInt8),
		NewField("data", prim.UInt8.Array("length")),
	)))

	t.Run("Unpack", func(t *testing.T) {
		p, err := s.UnpackBytes([]byte{0x02, 0x05, 0x06}, nil)
		require.NoError(t, err)
		data, err := p.Get("data")
		require.NoError(t, err)
		assert.Equal(t, []any{uint8(5), uint8(6)}, data)
	})
	t.Run("DefaultReadsPartialPacket", func(t *testing.T) {
		// The array default sees the length value already placed on the
		// packet under construction.
		p, err := s.New(nil, Values{"length": uint8(3)})
		require.NoError(t, err)
		data, err := p.Get("data")
		require.NoError(t, err)
		assert.Equal(t, []any{uint8(0), uint8(0), uint8(0)}, data)
	})
	t.Run("RoundTrip", func(t *testing.T) {
		p := s.MustNew(nil, Values{"length": uint8(2), "data": []any{uint8(7), uint8(8)}})
		raw, err := p.Pack(nil)
		require.NoError(t, err)
		assert.Equal(t, []byte{2, 7, 8}, raw)

		q, err := s.UnpackBytes(raw, nil)
		require.NoError(t, err)
		assert.True(t, p.Equal(q))
	})
}

func TestGeneric(t *testing.T) {
	p, err := Generic.UnpackBytes([]byte{1, 2, 3}, nil)
	require.NoError(t, err)
	data, err := p.Get("data")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)

	raw, err := p.Pack(nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, raw)
}
