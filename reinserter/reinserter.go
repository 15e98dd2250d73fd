package reinserter

import (
	"context"
	"fmt"
	"reflect"

	"github.com/specialistvlad/detachgo/container"
	"github.com/specialistvlad/detachgo/fieldpath"
	"github.com/specialistvlad/detachgo/fieldref"
	"github.com/specialistvlad/detachgo/identity"
	"github.com/specialistvlad/detachgo/internal/ctxlog"
	"github.com/specialistvlad/detachgo/lazy"
)

// Factory builds placeholders for reinsertion. The lazy package provides
// the default implementation.
type Factory interface {
	NewPlaceholder(target reflect.Type, key any) any
	NewCollectionPlaceholder(kind lazy.Kind, target reflect.Type) any
}

// MismatchError reports that a recorded path could not be navigated on
// the given graph: a missing field, a non-struct node on the way, or a
// slot with no stand-in to derive the placeholder from.
type MismatchError struct {
	Path   string
	Reason string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("reinserter: cannot apply path %s: %s", e.Path, e.Reason)
}

// Option configures a Reinserter.
type Option func(*Reinserter)

// WithAccessor replaces the reflection-backed field accessor.
func WithAccessor(acc fieldref.Accessor) Option {
	return func(r *Reinserter) { r.access = acc }
}

// WithAdapters replaces the built-in container adapters.
func WithAdapters(adapters []container.Adapter) Option {
	return func(r *Reinserter) { r.adapters = adapters }
}

// Reinserter restores placeholders into a materialized graph at the
// field paths recorded during materialization. It is the inverse of the
// materializer for the placeholder-bearing slots; all other nodes are
// left untouched.
type Reinserter struct {
	factory  Factory
	ids      *identity.Registry
	access   fieldref.Accessor
	adapters []container.Adapter
}

// New creates a Reinserter over the given placeholder factory and
// identity registry.
func New(factory Factory, ids *identity.Registry, opts ...Option) *Reinserter {
	r := &Reinserter{
		factory:  factory,
		ids:      ids,
		access:   fieldref.Reflective{},
		adapters: container.Builtins(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reinsert applies every recorded path to the graph rooted at root and
// returns the resulting graph. An empty or nil path set returns root
// unchanged. When a path addresses the root itself, the whole graph is
// replaced by a single scalar placeholder carrying the root's identity.
//
// Paths are applied in canonical order. A path that cannot be navigated
// on this graph fails the whole call with *MismatchError; nothing is
// applied partially to the returned value, but the input graph may have
// been mutated in place before the failure.
func (r *Reinserter) Reinsert(ctx context.Context, root any, paths *fieldpath.Set) (any, error) {
	if paths == nil || paths.Len() == 0 {
		return root, nil
	}
	logger := ctxlog.FromContext(ctx)

	if paths.Has(fieldpath.Root()) {
		if paths.Len() > 1 {
			return nil, &MismatchError{Path: "$", Reason: "root path recorded alongside deeper paths"}
		}
		if root == nil {
			return nil, &MismatchError{Path: "$", Reason: "nil root"}
		}
		key, err := r.ids.KeyOf(root)
		if err != nil {
			return nil, &MismatchError{Path: "$", Reason: err.Error()}
		}
		logger.Debug("Replacing root with placeholder.", "key", key)
		return r.factory.NewPlaceholder(reflect.TypeOf(root), key), nil
	}

	out := root
	for _, p := range paths.Paths() {
		logger.Debug("Reinserting placeholder.", "path", p.String())
		node, err := r.apply(out, p.Selectors()[1:], p)
		if err != nil {
			return nil, err
		}
		out = node
	}
	return out, nil
}

// apply navigates the remaining selectors from node and plants a
// placeholder at the final slot. Containers met on the way apply the
// remaining selectors to every element.
func (r *Reinserter) apply(node any, sels []fieldpath.Selector, full fieldpath.Path) (any, error) {
	if node == nil {
		return nil, &MismatchError{Path: full.String(), Reason: "nil node on the way"}
	}
	rv := reflect.ValueOf(node)

	if adapter, ok := container.ForType(r.adapters, rv.Type()); ok {
		if (rv.Kind() == reflect.Map || rv.Kind() == reflect.Slice) && rv.IsNil() {
			return nil, &MismatchError{Path: full.String(), Reason: fmt.Sprintf("nil %v on the way", rv.Type())}
		}
		rebuilt, err := adapter.Rebuild(rv, func(elem any) (any, error) {
			return r.apply(elem, sels, full)
		})
		if err != nil {
			return nil, err
		}
		return rebuilt.Interface(), nil
	}

	if len(sels) == 0 {
		return nil, &MismatchError{Path: full.String(), Reason: "path ends on a non-container node"}
	}

	elem := rv
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, &MismatchError{Path: full.String(), Reason: "nil node on the way"}
		}
		elem = rv.Elem()
	}
	if elem.Kind() != reflect.Struct {
		return nil, &MismatchError{Path: full.String(), Reason: fmt.Sprintf("%v is not a struct", elem.Type())}
	}

	usedCopy := false
	if !elem.CanAddr() {
		pv := reflect.New(elem.Type())
		pv.Elem().Set(elem)
		elem = pv.Elem()
		usedCopy = true
	}

	sel := sels[0]
	ref, ok := r.fieldRef(elem.Type(), sel.Name())
	if !ok {
		return nil, &MismatchError{Path: full.String(), Reason: fmt.Sprintf("%v has no field %q", elem.Type(), sel.Name())}
	}
	fv, err := r.access.Read(elem, ref)
	if err != nil {
		return nil, err
	}

	var out any
	if len(sels) == 1 {
		out, err = r.placeholderFor(fv, full)
	} else {
		out, err = r.apply(fv.Interface(), sels[1:], full)
	}
	if err != nil {
		return nil, err
	}

	writeVal := reflect.Value{}
	if out != nil {
		writeVal = reflect.ValueOf(out)
	}
	if err := r.access.Write(elem, ref, writeVal); err != nil {
		return nil, err
	}

	if usedCopy {
		return elem.Interface(), nil
	}
	return node, nil
}

// fieldRef resolves a selector name against the accessible fields of t.
func (r *Reinserter) fieldRef(t reflect.Type, name string) (fieldref.Ref, bool) {
	for _, ref := range r.access.Fields(t) {
		if ref.Name == name {
			return ref, true
		}
	}
	return fieldref.Ref{}, false
}

// placeholderFor derives the placeholder for the addressed slot from the
// stand-in value currently held there: container-shaped slots become
// container placeholders, everything else a scalar placeholder seeded
// with the stand-in's identity key.
func (r *Reinserter) placeholderFor(fv reflect.Value, full fieldpath.Path) (any, error) {
	val := fv.Interface()
	shape := reflect.TypeOf(val)
	if shape == nil {
		// An untyped nil slot carries neither a container shape nor an
		// identity to rebuild the placeholder from.
		return nil, &MismatchError{Path: full.String(), Reason: "no stand-in value at path"}
	}

	if adapter, ok := container.ForType(r.adapters, shape); ok {
		return r.factory.NewCollectionPlaceholder(adapter.Shape(), shape), nil
	}

	key, err := r.ids.KeyOf(val)
	if err != nil {
		return nil, &MismatchError{Path: full.String(), Reason: err.Error()}
	}
	return r.factory.NewPlaceholder(shape, key), nil
}
