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

package clone

import "reflect"

// Value returns a deep copy of src. Scalars and strings are returned as is;
// slices, maps and pointers are recursively duplicated so that mutable
// defaults never alias across calls.
func Value(src any) any {
	if src == nil {
		return nil
	}
	v := reflect.ValueOf(src)
	return copyValue(v).Interface()
}

func copyValue(src reflect.Value) reflect.Value {
	switch src.Kind() {
	case reflect.Ptr:
		if src.IsNil() {
			return src
		}
		dest := reflect.New(src.Type().Elem())
		dest.Elem().Set(copyValue(src.Elem()))
		return dest
	case reflect.Interface:
		if src.IsNil() {
			return src
		}
		dest := reflect.New(src.Type()).Elem()
		dest.Set(copyValue(src.Elem()))
		return dest
	case reflect.Slice:
		if src.IsNil() {
			return src
		}
		return copySlice(src)
	case reflect.Map:
		if src.IsNil() {
			return src
		}
		return copyMap(src)
	case reflect.Struct:
		return copyStruct(src)
	default:
		return src
	}
}

func copySlice(src reflect.Value) reflect.Value {
	length := src.Len()
	out := reflect.MakeSlice(src.Type(), length, length)
	for i := 0; i < length; i++ {
		out.Index(i).Set(copyValue(src.Index(i)))
	}
	return out
}

func copyMap(src reflect.Value) reflect.Value {
	out := reflect.MakeMapWithSize(src.Type(), src.Len())
	for _, key := range src.MapKeys() {
		out.SetMapIndex(key, copyValue(src.MapIndex(key)))
	}
	return out
}

func copyStruct(src reflect.Value) reflect.Value {
	dest := reflect.New(src.Type()).Elem()
	for i := 0; i < src.NumField(); i++ {
		if !dest.Field(i).CanSet() {
			// Unexported fields cannot be copied through reflection.
			// Fall back to the original value wholesale.
			return src
		}
		dest.Field(i).Set(copyValue(src.Field(i)))
	}
	return dest
}
