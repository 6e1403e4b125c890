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
	"github.com/stretchr/testify/require"

	"github.com/wirepak/wirepak/errors"
)

func TestEnum(t *testing.T) {
	elem := newTestByte("EnumByte")
	connect := Member("Connect", 1)
	disconnect := Member("Disconnect", 2)

	enum, err := EnumOf("Opcode", elem, connect, disconnect)
	require.NoError(t, err)

	t.Run("Identity", func(t *testing.T) {
		again, err := EnumOf("Opcode", elem, connect, disconnect)
		require.NoError(t, err)
		assert.Same(t, enum, again)
	})
	t.Run("RoundTrip", func(t *testing.T) {
		data, err := enum.Pack(connect, Background())
		require.NoError(t, err)
		assert.Equal(t, []byte{1}, data)

		v, err := enum.UnpackBytes(data, Background())
		require.NoError(t, err)
		assert.Equal(t, connect, v)
	})
	t.Run("WidthTolerantLookup", func(t *testing.T) {
		// The constant is declared as an int; the decoded raw value is a
		// byte. The lookup still finds it.
		v, err := enum.UnpackBytes([]byte{2}, Background())
		require.NoError(t, err)
		assert.Equal(t, disconnect, v)
	})
	t.Run("UnknownValueDecodesToInvalid", func(t *testing.T) {
		v, err := enum.UnpackBytes([]byte{99}, Background())
		require.NoError(t, err)
		member, ok := v.(EnumMember)
		require.True(t, ok)
		assert.False(t, member.Valid())
		assert.Equal(t, InvalidMember, member)
	})
	t.Run("InvalidMemberDoesNotPack", func(t *testing.T) {
		_, err := enum.Pack(InvalidMember, Background())
		require.ErrorIs(t, err, errors.ErrInvalidEnumValue)
	})
	t.Run("NonMemberDoesNotPack", func(t *testing.T) {
		_, err := enum.Pack(1, Background())
		require.ErrorIs(t, err, errors.ErrEncoding)
	})
	t.Run("DefaultIsFirstMember", func(t *testing.T) {
		v, err := enum.Default(Background())
		require.NoError(t, err)
		assert.Equal(t, connect, v)
	})
	t.Run("SizeFollowsElement", func(t *testing.T) {
		n, err := enum.StaticSize(Background())
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
	t.Run("NoMembers", func(t *testing.T) {
		_, err := EnumOf("Empty", elem)
		require.ErrorIs(t, err, errors.ErrInvalidValue)
	})
	t.Run("ReservedMember", func(t *testing.T) {
		_, err := EnumOf("Reserved", elem, InvalidMember)
		require.ErrorIs(t, err, errors.ErrInvalidValue)
	})
}

func TestEqualValues(t *testing.T) {
	assert.True(t, EqualValues(1, byte(1)))
	assert.True(t, EqualValues(uint16(300), int64(300)))
	assert.True(t, EqualValues("a", "a"))
	assert.False(t, EqualValues(1, 2))
	assert.False(t, EqualValues("a", 1))
}

func TestEnumMemberString(t *testing.T) {
	assert.Equal(t, "Connect(1)", Member("Connect", 1).String())
	assert.Equal(t, "<invalid>", InvalidMember.String())
}
