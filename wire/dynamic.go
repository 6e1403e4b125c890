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
	"sync"

	"go.uber.org/atomic"
)

// DynamicValue resolves a declared value into a context-computed quantity.
// A raw declared value (a size, a default, an id) can be enrolled in the
// dynamic value machinery so that the same literal behaves either as itself
// or as a computed value, depending on which rules are currently enabled.
//
// Get must be side-effect free and idempotent for a given context; it is
// invoked lazily at every point a size, default or id needs resolving.
type DynamicValue interface {
	Get(ctx *Context) (any, error)
}

// DynamicRule associates a shape of raw declared values with a resolution
// rule. Rules are registered process-wide in declaration order and start out
// disabled: a disabled rule leaves matching values uninterpreted.
type DynamicRule struct {
	name    string
	matches func(v any) bool
	wrap    func(v any) DynamicValue
	enabled atomic.Int64
}

// NewDynamicRule creates a rule wrapping every enrolled value accepted by
// matches into the DynamicValue produced by wrap.
func NewDynamicRule(name string, matches func(v any) bool, wrap func(v any) DynamicValue) *DynamicRule {
	return &DynamicRule{name: name, matches: matches, wrap: wrap}
}

// Name returns the rule name.
func (r *DynamicRule) Name() string { return r.name }

// Enabled reports whether the rule currently participates in enrollment.
func (r *DynamicRule) Enabled() bool { return r.enabled.Load() > 0 }

// Enable turns the rule on for a scope and returns the function restoring the
// previous state. Scopes nest with stack discipline: enabling inside an
// already-enabled scope is a no-op on exit until the outermost restore runs.
//
//	restore := rule.Enable()
//	defer restore()
func (r *DynamicRule) Enable() (restore func()) {
	r.enabled.Inc()
	var once sync.Once
	return func() {
		once.Do(func() { r.enabled.Dec() })
	}
}

var dynamicRegistry = struct {
	sync.RWMutex
	rules []*DynamicRule
}{}

// RegisterDynamic appends a rule to the process-wide registry. Rules are
// consulted in registration order during enrollment.
func RegisterDynamic(rule *DynamicRule) {
	dynamicRegistry.Lock()
	dynamicRegistry.rules = append(dynamicRegistry.rules, rule)
	dynamicRegistry.Unlock()
}

// UnregisterDynamic removes a rule from the registry. Removing a rule while a
// marshal is in flight is not supported.
func UnregisterDynamic(rule *DynamicRule) {
	dynamicRegistry.Lock()
	defer dynamicRegistry.Unlock()
	for i, r := range dynamicRegistry.rules {
		if r == rule {
			dynamicRegistry.rules = append(dynamicRegistry.rules[:i], dynamicRegistry.rules[i+1:]...)
			return
		}
	}
}

// Enroll scans the enabled rules in registration order and wraps v with the
// first matching one. When no enabled rule matches, v is returned unchanged
// and is treated as a literal.
func Enroll(v any) any {
	if v == nil {
		return nil
	}
	if _, ok := v.(DynamicValue); ok {
		return v
	}
	dynamicRegistry.RLock()
	defer dynamicRegistry.RUnlock()
	for _, rule := range dynamicRegistry.rules {
		if rule.Enabled() && rule.matches(v) {
			return rule.wrap(v)
		}
	}
	return v
}
