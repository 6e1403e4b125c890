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
	"fmt"
	"sync"

	"github.com/wirepak/wirepak/errors"
)

// A typelike is any value convertible to a Type through a registered
// converter. Converters let field declarations accept shorthand markers
// (literals, strings, containers) in place of Type definitions.

type typelikeConverter struct {
	name    string
	matches func(v any) bool
	convert func(v any) (*Type, error)
}

var typelikeRegistry = struct {
	sync.RWMutex
	converters []typelikeConverter
}{}

// RegisterTypelike registers a converter for a class of marker values.
// Converters are consulted in registration order; the first whose matches
// accepts the value converts it.
func RegisterTypelike(name string, matches func(v any) bool, convert func(v any) (*Type, error)) {
	typelikeRegistry.Lock()
	typelikeRegistry.converters = append(typelikeRegistry.converters, typelikeConverter{
		name:    name,
		matches: matches,
		convert: convert,
	})
	typelikeRegistry.Unlock()
}

// UnregisterTypelike removes the converter registered under name.
func UnregisterTypelike(name string) {
	typelikeRegistry.Lock()
	defer typelikeRegistry.Unlock()
	for i, c := range typelikeRegistry.converters {
		if c.name == name {
			typelikeRegistry.converters = append(typelikeRegistry.converters[:i], typelikeRegistry.converters[i+1:]...)
			return
		}
	}
}

// TypeOf converts a typelike value to a Type. A Type is returned unchanged;
// other values go through the converter registry. Values matching no
// converter yield ErrNotTypelike.
func TypeOf(v any) (*Type, error) {
	if t, ok := v.(*Type); ok {
		return t, nil
	}

	typelikeRegistry.RLock()
	defer typelikeRegistry.RUnlock()
	for _, c := range typelikeRegistry.converters {
		if c.matches(v) {
			return c.convert(v)
		}
	}
	return nil, fmt.Errorf("%w: %T(%v)", errors.ErrNotTypelike, v, v)
}

// IsTypelike reports whether v can be converted to a Type.
func IsTypelike(v any) bool {
	if _, ok := v.(*Type); ok {
		return true
	}
	typelikeRegistry.RLock()
	defer typelikeRegistry.RUnlock()
	for _, c := range typelikeRegistry.converters {
		if c.matches(v) {
			return true
		}
	}
	return false
}
