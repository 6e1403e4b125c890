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
	"reflect"
	"strings"

	"github.com/wirepak/wirepak/internal/syncmap"
)

// typeCache memoizes generated definitions by their structural key so that
// constructing a parametric Type twice with identical arguments yields the
// identical (pointer-equal) definition. Required for identity-based dispatch
// and to avoid duplicate definitions.
var typeCache = syncmap.New[string, *Type]()

// MakeType returns the cached definition for (origin, name, params), building
// it with build on first use. Type authors generating definitions from
// parameters go through MakeType so that equal parameters always produce the
// identical definition.
func MakeType(origin string, name string, params []any, build func() *Type) *Type {
	return makeType(origin, name, params, build)
}

// makeType returns the cached definition for (origin, name, params), building
// it with build on first use.
func makeType(origin string, name string, params []any, build func() *Type) *Type {
	key := cacheKey(origin, name, params)
	if t, ok := typeCache.Get(key); ok {
		return t
	}
	t, _ := typeCache.GetOrSet(key, build())
	return t
}

// cacheKey canonicalizes the defining arguments of a generated Type.
// Type parameters key on definition identity, funcs on code pointer,
// everything else on its printed form.
func cacheKey(origin string, name string, params []any) string {
	var sb strings.Builder
	sb.WriteString(origin)
	sb.WriteByte(0)
	sb.WriteString(name)
	for _, p := range params {
		sb.WriteByte(0)
		sb.WriteString(canonParam(p))
	}
	return sb.String()
}

func canonParam(p any) string {
	switch v := p.(type) {
	case nil:
		return "nil"
	case *Type:
		return fmt.Sprintf("type:%s@%p", v.name, v)
	case EnumMember:
		return fmt.Sprintf("member:%s=%v", v.name, v.value)
	default:
		rv := reflect.ValueOf(p)
		if rv.Kind() == reflect.Func {
			return fmt.Sprintf("func@%#x", rv.Pointer())
		}
		return fmt.Sprintf("%T:%v", p, p)
	}
}
