/*
Package detachgo detaches lazily-loaded object graphs and reattaches
them later. Detach walks the graph, replaces every placeholder with its
real value or an identity-only stand-in, and records where the
placeholders sat; Reattach restores placeholders at exactly those slots.
The pair lets a graph cross a serialization or transfer boundary that
cannot carry live placeholders, and come back with its lazy slots
intact.

The walking machinery lives in the materializer and reinserter
subpackages; this package wires them together over a shared Substrate.
*/
package detachgo

import (
	"context"
	"log/slog"

	"github.com/specialistvlad/detachgo/container"
	"github.com/specialistvlad/detachgo/fieldpath"
	"github.com/specialistvlad/detachgo/fieldref"
	"github.com/specialistvlad/detachgo/identity"
	"github.com/specialistvlad/detachgo/internal/ctxlog"
	"github.com/specialistvlad/detachgo/lazy"
	"github.com/specialistvlad/detachgo/materializer"
	"github.com/specialistvlad/detachgo/reinserter"
)

// Substrate is the full placeholder capability the façade needs: the
// read side consumed by Detach and the factory side consumed by
// Reattach. lazy.Substrate implements it.
type Substrate interface {
	materializer.Substrate
	reinserter.Factory
}

// Detached is a materialized graph together with the field paths that
// held placeholders when it was detached. Both halves travel together;
// the paths are what make the graph reattachable.
type Detached struct {
	Entity any
	Paths  *fieldpath.Set
}

// Option configures a Detacher.
type Option func(*config)

type config struct {
	substrate Substrate
	access    fieldref.Accessor
	adapters  []container.Adapter
}

// WithSubstrate replaces the default lazy.Substrate placeholder scheme.
func WithSubstrate(s Substrate) Option {
	return func(c *config) { c.substrate = s }
}

// WithAccessor replaces the reflection-backed field accessor.
func WithAccessor(acc fieldref.Accessor) Option {
	return func(c *config) { c.access = acc }
}

// WithAdapters replaces the built-in container adapters.
func WithAdapters(adapters []container.Adapter) Option {
	return func(c *config) { c.adapters = adapters }
}

// Detacher pairs a materializer with its inverse reinserter over one
// substrate and identity registry. It carries no per-call state and is
// safe for concurrent use on independent graphs.
type Detacher struct {
	m *materializer.Materializer
	r *reinserter.Reinserter
}

// New creates a Detacher over the given identity registry.
func New(ids *identity.Registry, opts ...Option) *Detacher {
	cfg := &config{
		substrate: lazy.Substrate{},
		access:    fieldref.Reflective{},
		adapters:  container.Builtins(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Detacher{
		m: materializer.New(cfg.substrate, ids,
			materializer.WithAccessor(cfg.access),
			materializer.WithAdapters(cfg.adapters),
		),
		r: reinserter.New(cfg.substrate, ids,
			reinserter.WithAccessor(cfg.access),
			reinserter.WithAdapters(cfg.adapters),
		),
	}
}

// Detach materializes the graph rooted at root and returns it together
// with the recorded placeholder paths.
func (d *Detacher) Detach(ctx context.Context, root any) (*Detached, error) {
	entity, paths, err := d.m.Materialize(ctx, root)
	if err != nil {
		return nil, err
	}
	return &Detached{Entity: entity, Paths: paths}, nil
}

// Reattach restores placeholders into a detached graph at the recorded
// paths and returns the resulting graph.
func (d *Detacher) Reattach(ctx context.Context, det *Detached) (any, error) {
	if det == nil {
		return nil, nil
	}
	return d.r.Reinsert(ctx, det.Entity, det.Paths)
}

// ContextWithLogger returns a context carrying the logger Detach and
// Reattach use for debug output. Without it the default slog logger is
// used.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return ctxlog.WithLogger(ctx, logger)
}
