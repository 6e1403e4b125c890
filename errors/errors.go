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

package errors

import (
	"errors"
)

var (
	// ErrNotTypelike is returned when a value cannot be converted to a wire Type
	// because no registered typelike converter matches it.
	ErrNotTypelike = errors.New("value is not typelike")

	// ErrNoStaticSize is returned when a Type is asked for a size irrespective of
	// any value but its size is only knowable per value.
	ErrNoStaticSize = errors.New("type has no static size")

	// ErrNoDefault is returned when a Type without a default value is asked for one.
	ErrNoDefault = errors.New("type has no default value")

	// ErrNoAlignment is returned when a Type without an alignment is asked for one.
	ErrNoAlignment = errors.New("type has no alignment")

	// ErrEncoding is returned when a value cannot be packed by its declared Type.
	ErrEncoding = errors.New("value cannot be encoded")

	// ErrBufferExhausted is returned when unpacking requires more bytes than the
	// buffer holds. It is never retried; the caller must supply more data.
	ErrBufferExhausted = errors.New("buffer exhausted")

	// ErrInvalidValue is returned when decoded bytes do not form a valid value
	// for the Type. Some Types substitute a sentinel instead of returning this.
	ErrInvalidValue = errors.New("decoded bytes form an invalid value")

	// ErrInvalidEnumValue is returned when packing the reserved invalid Enum
	// member, which has no wire representation.
	ErrInvalidEnumValue = errors.New("invalid enum member cannot be packed")

	// ErrDuplicateField is returned at declaration time when a field name is
	// declared twice, either in one schema or across unrelated ancestor branches.
	ErrDuplicateField = errors.New("duplicate field")

	// ErrReservedField is returned at declaration time when a field uses a
	// reserved name.
	ErrReservedField = errors.New("field name is reserved")

	// ErrUnknownField is returned when accessing a field a packet does not declare.
	ErrUnknownField = errors.New("unknown field")

	// ErrUnsetField is returned when reading a declared field that currently
	// holds no value, for instance after an explicit delete.
	ErrUnsetField = errors.New("field holds no value")

	// ErrReadOnlyField is returned when assigning to a field whose accessor
	// refuses assignment. Default fill and unpack skip such fields silently;
	// explicit assignment surfaces this error.
	ErrReadOnlyField = errors.New("field is read-only")

	// ErrMultipleHeaders is returned at declaration time when a packet schema
	// declares more than one header.
	ErrMultipleHeaders = errors.New("packet declares multiple headers")

	// ErrNestedHeader is returned at declaration time when a header schema
	// itself declares a header.
	ErrNestedHeader = errors.New("header cannot declare its own header")

	// ErrUnknownID is returned when no descendant schema declares the queried id.
	ErrUnknownID = errors.New("no packet with the given id")

	// ErrNoID is returned when a packet without an id is asked to marshal one.
	ErrNoID = errors.New("packet has no id")

	// ErrSchemaRequired is returned when a schema constructor is given no name
	// or a nil parent.
	ErrSchemaRequired = errors.New("schema name and parents are required")
)
