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

package buffer

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wirepak/wirepak/errors"
)

func TestReadFull(t *testing.T) {
	t.Run("FromBytes", func(t *testing.T) {
		r := FromBytes([]byte{1, 2, 3, 4})
		out, err := r.ReadFull(2)
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2}, out)
		out, err = r.ReadFull(2)
		require.NoError(t, err)
		assert.Equal(t, []byte{3, 4}, out)
		assert.True(t, r.Exhausted())
	})
	t.Run("FromReader", func(t *testing.T) {
		r := FromReader(strings.NewReader("abcd"))
		out, err := r.ReadFull(3)
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), out)
	})
	t.Run("Exhaustion", func(t *testing.T) {
		r := FromBytes([]byte{1})
		_, err := r.ReadFull(2)
		require.ErrorIs(t, err, errors.ErrBufferExhausted)
	})
	t.Run("StreamExhaustion", func(t *testing.T) {
		r := FromReader(bytes.NewReader([]byte{1}))
		_, err := r.ReadFull(2)
		require.ErrorIs(t, err, errors.ErrBufferExhausted)
	})
	t.Run("NegativeRead", func(t *testing.T) {
		r := FromBytes([]byte{1})
		_, err := r.ReadFull(-1)
		require.ErrorIs(t, err, errors.ErrBufferExhausted)
	})
	t.Run("ZeroRead", func(t *testing.T) {
		r := FromBytes(nil)
		out, err := r.ReadFull(0)
		require.NoError(t, err)
		assert.Empty(t, out)
		assert.True(t, r.Exhausted())
	})
}

func TestReadByte(t *testing.T) {
	r := FromBytes([]byte{7})
	b, err := r.ReadByte()
	require.NoError(t, err)
	assert.EqualValues(t, 7, b)
	_, err = r.ReadByte()
	require.ErrorIs(t, err, errors.ErrBufferExhausted)
}

func TestReadRemaining(t *testing.T) {
	t.Run("FromBytes", func(t *testing.T) {
		r := FromBytes([]byte{1, 2, 3})
		_, err := r.ReadByte()
		require.NoError(t, err)
		out, err := r.ReadRemaining()
		require.NoError(t, err)
		assert.Equal(t, []byte{2, 3}, out)
		assert.True(t, r.Exhausted())
	})
	t.Run("FromReader", func(t *testing.T) {
		r := FromReader(strings.NewReader("xyz"))
		out, err := r.ReadRemaining()
		require.NoError(t, err)
		assert.Equal(t, []byte("xyz"), out)
	})
}

func TestFromReaderIdentity(t *testing.T) {
	r := FromBytes([]byte{1})
	assert.Same(t, r, FromReader(r))
}

func TestRead(t *testing.T) {
	t.Run("FromBytes", func(t *testing.T) {
		r := FromBytes([]byte("abcd"))
		out := make([]byte, 3)
		n, err := r.Read(out)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
		assert.Equal(t, []byte("abc"), out)

		n, err = r.Read(out)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Equal(t, byte('d'), out[0])

		_, err = r.Read(out)
		assert.ErrorIs(t, err, io.EOF)
	})
	t.Run("FromReader", func(t *testing.T) {
		r := FromReader(strings.NewReader("xyz"))
		out, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, []byte("xyz"), out)
	})
	t.Run("InterleavesWithReadFull", func(t *testing.T) {
		r := FromBytes([]byte{1, 2, 3, 4})
		out, err := r.ReadFull(2)
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2}, out)

		rest := make([]byte, 4)
		n, err := r.Read(rest)
		require.NoError(t, err)
		assert.Equal(t, []byte{3, 4}, rest[:n])
		assert.True(t, r.Exhausted())
	})
}
