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

// Package handler routes unmarshaled packets to registered listeners.
// Listeners subscribe to schemas and are matched against a packet's whole
// ancestry, so a listener on a base schema also sees every descendant.
package handler

import (
	"context"
	"reflect"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/wirepak/wirepak/log"
	"github.com/wirepak/wirepak/packet"
)

// Listener consumes one dispatched packet.
type Listener func(ctx context.Context, p *packet.Packet) error

// Flags qualify a registration beyond the schema: a listener only matches
// when its flags equal the flags the packet was dispatched with.
type Flags map[string]any

// Registration is the handle returned by Register, used to unregister.
type Registration struct {
	listener Listener
	flags    Flags
	schemas  []*packet.Schema
}

// Handler holds listener registrations and fans packets out to them.
// Registrations are matched in registration order.
type Handler struct {
	mu     sync.RWMutex
	regs   []*Registration
	logger log.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the logger for dispatch diagnostics.
func WithLogger(logger log.Logger) Option {
	return func(h *Handler) { h.logger = logger }
}

// New creates an empty Handler.
func New(opts ...Option) *Handler {
	h := &Handler{logger: log.DiscardLogger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register subscribes the listener to the given schemas under the given
// flags. A packet matches when its schema descends from any of them.
func (h *Handler) Register(l Listener, flags Flags, schemas ...*packet.Schema) *Registration {
	r := &Registration{listener: l, flags: flags, schemas: schemas}
	h.mu.Lock()
	h.regs = append(h.regs, r)
	h.mu.Unlock()
	return r
}

// Unregister removes a registration. Unknown handles are a no-op.
func (h *Handler) Unregister(r *Registration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, reg := range h.regs {
		if reg == r {
			h.regs = append(h.regs[:i], h.regs[i+1:]...)
			return
		}
	}
}

func (r *Registration) matches(p *packet.Packet, flags Flags) bool {
	if !reflect.DeepEqual(r.flags, flags) {
		return false
	}
	for _, s := range r.schemas {
		if p.Schema().IsDescendantOf(s) {
			return true
		}
	}
	return false
}

// ListenersFor returns the listeners matching the packet under the given
// flags, in registration order.
func (h *Handler) ListenersFor(p *packet.Packet, flags Flags) []Listener {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var out []Listener
	for _, r := range h.regs {
		if r.matches(p, flags) {
			out = append(out, r.listener)
		}
	}
	return out
}

// MostDerived returns the listener registered for the most specific schema
// in the packet's ancestry, or nil when none matches. Listeners on the
// packet's own schema win over listeners on its ancestors.
func (h *Handler) MostDerived(p *packet.Packet, flags Flags) Listener {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ancestor := range p.Schema().Ancestry() {
		for _, r := range h.regs {
			if !reflect.DeepEqual(r.flags, flags) {
				continue
			}
			for _, s := range r.schemas {
				if s == ancestor {
					return r.listener
				}
			}
		}
	}
	return nil
}

// Dispatch runs every matching listener sequentially in registration order,
// stopping at the first error.
func (h *Handler) Dispatch(ctx context.Context, p *packet.Packet, flags Flags) error {
	listeners := h.ListenersFor(p, flags)
	if len(listeners) == 0 {
		h.logger.Debugf("no listener for %s", p.Schema().Name())
		return nil
	}
	for _, l := range listeners {
		if err := l(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// DispatchAsync runs every matching listener concurrently and waits for all
// of them; the first error cancels the shared context and is returned.
func (h *Handler) DispatchAsync(ctx context.Context, p *packet.Packet, flags Flags) error {
	listeners := h.ListenersFor(p, flags)
	if len(listeners) == 0 {
		h.logger.Debugf("no listener for %s", p.Schema().Name())
		return nil
	}
	eg, egCtx := errgroup.WithContext(ctx)
	for _, l := range listeners {
		l := l
		eg.Go(func() error {
			return l(egCtx, p)
		})
	}
	return eg.Wait()
}
