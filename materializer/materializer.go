package materializer

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/specialistvlad/detachgo/container"
	"github.com/specialistvlad/detachgo/fieldpath"
	"github.com/specialistvlad/detachgo/fieldref"
	"github.com/specialistvlad/detachgo/identity"
	"github.com/specialistvlad/detachgo/internal/ctxlog"
)

// Substrate is the placeholder capability the materializer consumes. The
// lazy package provides the default implementation; integrations with
// other lazy-loading schemes supply their own.
type Substrate interface {
	IsPlaceholder(node any) bool
	IsInitialized(node any) (bool, error)
	Implementation(node any) (any, error)
	IdentityKey(node any) (any, error)
	// TargetType must resolve the placeholder's persistent type even
	// when the placeholder is uninitialized, so a same-shaped stand-in
	// can be built without the data source.
	TargetType(node any) (reflect.Type, error)
}

// Option configures a Materializer.
type Option func(*Materializer)

// WithAccessor replaces the reflection-backed field accessor.
func WithAccessor(acc fieldref.Accessor) Option {
	return func(m *Materializer) { m.access = acc }
}

// WithAdapters replaces the built-in container adapters.
func WithAdapters(adapters []container.Adapter) Option {
	return func(m *Materializer) { m.adapters = adapters }
}

// Materializer walks an object graph depth-first, replacing every
// placeholder with its real value (or an identity-only stand-in) and
// recording the field path to every placeholder found. See Materialize
// for the contract.
type Materializer struct {
	substrate Substrate
	ids       *identity.Registry
	access    fieldref.Accessor
	adapters  []container.Adapter
}

// New creates a Materializer over the given substrate and identity
// registry.
func New(substrate Substrate, ids *identity.Registry, opts ...Option) *Materializer {
	m := &Materializer{
		substrate: substrate,
		ids:       ids,
		access:    fieldref.Reflective{},
		adapters:  container.Builtins(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// walk is the per-call state of one materialization: the cycle guard and
// the recorded paths. It is never shared across calls, so a Materializer
// may be used concurrently on independent graphs.
type walk struct {
	visited map[any]struct{}
	paths   *fieldpath.Set
	logger  *slog.Logger
}

// record adds the path of a detached placeholder to the walk's result.
func (w *walk) record(p fieldpath.Path) {
	w.logger.Debug("Recorded detached placeholder path.", "path", p.String())
	w.paths.Add(p)
}

// Materialize walks the graph rooted at root and returns a fully
// materialized graph plus the set of field paths that held placeholders
// at the time of the walk. A nil root yields (nil, empty set, nil).
//
// Every reachable placeholder is represented in the returned set; the
// returned graph contains no placeholder values; nodes already visited
// in the same walk are never descended into again, so graphs with cycles
// terminate. Any unreadable or unwritable field aborts the whole walk
// with an error wrapping *fieldref.AccessError; nothing is retried.
func (m *Materializer) Materialize(ctx context.Context, root any) (any, *fieldpath.Set, error) {
	logger := ctxlog.FromContext(ctx)
	paths := fieldpath.NewSet()
	if root == nil {
		return nil, paths, nil
	}

	w := &walk{
		visited: make(map[any]struct{}),
		paths:   paths,
		logger:  logger,
	}
	out, err := m.materialize(root, fieldpath.Root(), w)
	if err != nil {
		return nil, nil, err
	}

	logger.Debug("Materialization finished.", "recorded_paths", paths.Len())
	return out, paths, nil
}

// materialize rewrites one node and everything reachable from it. path
// is the address of the node relative to the walk's root; container
// elements share their container's path.
func (m *Materializer) materialize(node any, path fieldpath.Path, w *walk) (any, error) {
	if node == nil {
		return nil, nil
	}

	// Single-level conversion first: an initialized placeholder becomes
	// its implementation, an uninitialized one becomes a stand-in and
	// stops the descent.
	if m.substrate.IsPlaceholder(node) {
		initialized, err := m.substrate.IsInitialized(node)
		if err != nil {
			return nil, err
		}
		if !initialized {
			return m.detach(node, path, w)
		}
		impl, err := m.substrate.Implementation(node)
		if err != nil {
			return nil, err
		}
		if impl == nil {
			return nil, nil
		}
		node = impl
	}

	rv := reflect.ValueOf(node)

	// Cycle guard. Only pointer-shaped nodes can be revisited; value
	// nodes are copied on walk and cannot close a cycle.
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, nil
		}
		if _, seen := w.visited[node]; seen {
			return node, nil
		}
		w.visited[node] = struct{}{}
	}

	if adapter, ok := container.ForType(m.adapters, rv.Type()); ok {
		rebuilt, err := adapter.Rebuild(rv, func(elem any) (any, error) {
			return m.materialize(elem, path, w)
		})
		if err != nil {
			return nil, err
		}
		return rebuilt.Interface(), nil
	}

	elem := rv
	if rv.Kind() == reflect.Pointer {
		elem = rv.Elem()
	}
	if elem.Kind() != reflect.Struct {
		return node, nil
	}

	// A struct value sitting in an interface is unaddressable; rewrite
	// an addressable copy and return that.
	usedCopy := false
	if !elem.CanAddr() {
		pv := reflect.New(elem.Type())
		pv.Elem().Set(elem)
		elem = pv.Elem()
		usedCopy = true
	}

	for _, ref := range m.access.Fields(elem.Type()) {
		childPath := path.Child(ref.Name)

		fv, err := m.access.Read(elem, ref)
		if err != nil {
			return nil, err
		}
		out, err := m.materialize(fv.Interface(), childPath, w)
		if err != nil {
			return nil, err
		}

		writeVal := reflect.Value{}
		if out != nil {
			writeVal = reflect.ValueOf(out)
		}
		if err := m.access.Write(elem, ref, writeVal); err != nil {
			return nil, err
		}
	}

	if usedCopy {
		return elem.Interface(), nil
	}
	return node, nil
}

// detach converts an uninitialized placeholder into its materialized
// form and records the current path. Scalar placeholders become a fresh
// instance of the target type with only the identity field set; a
// container-shaped placeholder becomes a typed nil container, which
// keeps the container's shape observable for later reinsertion.
func (m *Materializer) detach(node any, path fieldpath.Path, w *walk) (any, error) {
	target, err := m.substrate.TargetType(node)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, fmt.Errorf("materializer: placeholder at %s has no target type", path)
	}

	if _, ok := container.ForType(m.adapters, target); ok {
		w.record(path)
		return reflect.Zero(target).Interface(), nil
	}

	key, err := m.substrate.IdentityKey(node)
	if err != nil {
		return nil, err
	}

	pv, err := m.access.New(target)
	if err != nil {
		return nil, fmt.Errorf("materializer: building stand-in at %s: %w", path, err)
	}
	if err := m.ids.SetKey(pv.Interface(), key); err != nil {
		return nil, fmt.Errorf("materializer: seeding stand-in identity at %s: %w", path, err)
	}
	w.record(path)

	if target.Kind() != reflect.Pointer {
		return pv.Elem().Interface(), nil
	}
	return pv.Interface(), nil
}
