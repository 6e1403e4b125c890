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

// Package packet aggregates named, typed fields into record-like wire
// messages: schemas declare fields, optional framing headers and dispatch
// ids; packets hold one value per field and marshal through the wire Type
// contract.
package packet

import (
	"fmt"
	"sync"

	"go.uber.org/multierr"

	"github.com/wirepak/wirepak/errors"
	"github.com/wirepak/wirepak/internal/syncmap"
	"github.com/wirepak/wirepak/log"
	"github.com/wirepak/wirepak/wire"
)

// reservedFieldNames may not be declared as fields: they collide with
// constructor parameters.
var reservedFieldNames = map[string]struct{}{
	"ctx": {},
}

// Schema is a packet type: the ordered field set merged from its ancestors
// and its own declarations, plus optional header and dispatch id. Schemas are
// immutable once built; identity is pointer identity.
type Schema struct {
	name    string
	fields  []*boundField
	index   map[string]*boundField
	parents []*Schema

	header   *Schema
	isHeader bool

	id    any
	hasID bool

	ctxFactory func() wire.PacketContext
	logger     log.Logger

	mu       sync.Mutex
	children []*Schema
	subsOnce sync.Once
	subs     []*Schema
	memo     *syncmap.Map[dispatchKey, *Schema]
}

type config struct {
	fields      []Field
	parents     []*Schema
	header      []Field
	headerCount int
	id          any
	hasID       bool
	ctxFactory  func() wire.PacketContext
	logger      log.Logger
	isHeader    bool
}

// Option configures a schema under construction.
type Option func(*config)

// WithFields declares the schema's own fields, in wire order.
func WithFields(fields ...Field) Option {
	return func(c *config) { c.fields = append(c.fields, fields...) }
}

// Extends declares ancestor schemas. The built schema carries the ordered
// union of all ancestors' fields followed by its own; ancestors are visited
// in the given order, each once.
func Extends(parents ...*Schema) Option {
	return func(c *config) { c.parents = append(c.parents, parents...) }
}

// WithHeader declares the schema's framing header as a nested schema built
// from the given fields. A schema may declare at most one header.
func WithHeader(fields ...Field) Option {
	return func(c *config) {
		c.header = fields
		c.headerCount++
	}
}

// WithID declares the schema's dispatch id. The raw value is enrolled in the
// dynamic value machinery at declaration time, so a rule enabled here can
// turn a literal into a context-computed id. Ids must be comparable.
func WithID(id any) Option {
	return func(c *config) {
		c.id = wire.Enroll(id)
		c.hasID = true
	}
}

// WithContext sets the factory producing the schema's packet context when a
// caller passes none.
func WithContext(factory func() wire.PacketContext) Option {
	return func(c *config) { c.ctxFactory = factory }
}

// WithLogger sets the logger used for dispatch diagnostics. Marshaling never
// logs. Defaults to log.DiscardLogger.
func WithLogger(logger log.Logger) Option {
	return func(c *config) { c.logger = logger }
}

func asHeader() Option {
	return func(c *config) { c.isHeader = true }
}

// New builds a schema. All declaration errors — unknown typelike markers,
// duplicate or reserved field names, multiple or nested headers — are
// detected here and returned together; nothing is deferred to marshal time.
func New(name string, opts ...Option) (*Schema, error) {
	if name == "" {
		return nil, errors.ErrSchemaRequired
	}

	c := &config{logger: log.DiscardLogger}
	for _, opt := range opts {
		opt(c)
	}

	s := &Schema{
		name:       name,
		index:      make(map[string]*boundField),
		parents:    c.parents,
		isHeader:   c.isHeader,
		id:         c.id,
		hasID:      c.hasID,
		ctxFactory: c.ctxFactory,
		logger:     c.logger,
		memo:       syncmap.New[dispatchKey, *Schema](),
	}

	var errs error

	// Ancestor fields first, each ancestor once. The same boundField
	// arriving through two parents is one diamond ancestor, not a clash.
	for _, parent := range c.parents {
		if parent == nil {
			errs = multierr.Append(errs, errors.ErrSchemaRequired)
			continue
		}
		for _, f := range parent.fields {
			if existing, ok := s.index[f.name]; ok {
				if existing == f {
					continue
				}
				errs = multierr.Append(errs, fmt.Errorf("%w: %q declared by unrelated ancestors of %s", errors.ErrDuplicateField, f.name, name))
				continue
			}
			s.fields = append(s.fields, f)
			s.index[f.name] = f
		}
	}

	for _, f := range c.fields {
		if _, reserved := reservedFieldNames[f.name]; reserved {
			errs = multierr.Append(errs, fmt.Errorf("%w: %q on %s", errors.ErrReservedField, f.name, name))
			continue
		}

		if inherited, ok := s.index[f.name]; ok {
			if f.accessor == nil {
				errs = multierr.Append(errs, fmt.Errorf("%w: %q redeclared by %s", errors.ErrDuplicateField, f.name, name))
				continue
			}
			// A custom accessor overrides an inherited field's storage
			// in place: same Type and wire position, new accessor.
			typ := inherited.typ
			if f.rawType != nil {
				resolved, err := wire.TypeOf(f.rawType)
				if err != nil {
					errs = multierr.Append(errs, fmt.Errorf("field %q of %s: %w", f.name, name, err))
					continue
				}
				typ = resolved
			}
			override := &boundField{name: f.name, typ: typ, accessor: f.accessor, compute: inherited.compute}
			s.index[f.name] = override
			for i, existing := range s.fields {
				if existing.name == f.name {
					s.fields[i] = override
					break
				}
			}
			continue
		}

		typ, err := wire.TypeOf(f.rawType)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("field %q of %s: %w", f.name, name, err))
			continue
		}
		bound := &boundField{name: f.name, typ: typ, accessor: f.accessor, compute: f.compute}
		s.fields = append(s.fields, bound)
		s.index[f.name] = bound
	}

	if err := s.buildHeader(c); err != nil {
		errs = multierr.Append(errs, err)
	}

	if errs != nil {
		return nil, errs
	}

	for _, parent := range c.parents {
		parent.registerChild(s)
	}
	return s, nil
}

// Must unwraps a schema constructor result, panicking on declaration errors.
// Intended for package-level schema variables.
func Must(s *Schema, err error) *Schema {
	if err != nil {
		panic(fmt.Sprintf("packet: %v", err))
	}
	return s
}

func (s *Schema) buildHeader(c *config) error {
	if c.headerCount > 1 {
		return fmt.Errorf("%w: %s", errors.ErrMultipleHeaders, s.name)
	}
	if c.headerCount == 1 {
		if s.isHeader {
			return fmt.Errorf("%w: %s", errors.ErrNestedHeader, s.name)
		}
		header, err := New(s.name+".Header", WithFields(c.header...), asHeader(), WithLogger(s.logger))
		if err != nil {
			return err
		}
		s.header = header
		return nil
	}
	// No own header: inherit the first ancestor's.
	for _, parent := range c.parents {
		if parent != nil && parent.header != nil {
			s.header = parent.header
			return nil
		}
	}
	return nil
}

// Name returns the schema name.
func (s *Schema) Name() string { return s.name }

// Fields returns the declared field names in wire order, ancestors first.
func (s *Schema) Fields() []string {
	out := make([]string, 0, len(s.fields))
	for _, f := range s.fields {
		out = append(out, f.name)
	}
	return out
}

// FieldType returns the Type of the named field.
func (s *Schema) FieldType(name string) (*wire.Type, bool) {
	f, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return f.typ, true
}

// HeaderSchema returns the schema of the framing header, or nil when the
// schema declares none.
func (s *Schema) HeaderSchema() *Schema {
	return s.header
}

// IsDescendantOf reports whether s extends other, directly or transitively.
// A schema is its own descendant.
func (s *Schema) IsDescendantOf(other *Schema) bool {
	if s == other {
		return true
	}
	for _, parent := range s.parents {
		if parent.IsDescendantOf(other) {
			return true
		}
	}
	return false
}

// Ancestry returns s followed by its ancestors in resolution order, each
// schema once, nearest first.
func (s *Schema) Ancestry() []*Schema {
	seen := make(map[*Schema]struct{})
	var out []*Schema
	var walk func(*Schema)
	walk = func(cur *Schema) {
		if _, ok := seen[cur]; ok {
			return
		}
		seen[cur] = struct{}{}
		out = append(out, cur)
		for _, parent := range cur.parents {
			walk(parent)
		}
	}
	walk(s)
	return out
}

// StaticSize returns the summed static size of the declared fields, or
// ErrNoStaticSize when any field's size is only knowable per value.
func (s *Schema) StaticSize() (int, error) {
	total := 0
	for _, f := range s.fields {
		n, err := f.typ.StaticSize(wire.Background())
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func (s *Schema) resolveCtx(ctx wire.PacketContext) wire.PacketContext {
	if ctx != nil {
		return ctx
	}
	if s.ctxFactory != nil {
		return s.ctxFactory()
	}
	return wire.EmptyContext{}
}
