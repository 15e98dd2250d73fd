package container

import (
	"fmt"
	"reflect"

	"github.com/specialistvlad/detachgo/lazy"
)

// RewriteFunc rewrites one element position of a container. The walkers
// pass their recursive step here; the adapter assembles a new container
// of the source's type from the results.
type RewriteFunc func(elem any) (any, error)

// Adapter is the capability for traversing and rebuilding one container
// shape, so the walkers never special-case container types inline.
type Adapter interface {
	// Shape returns the container kind the adapter handles.
	Shape() lazy.Kind
	// Matches reports whether the adapter handles the given type.
	Matches(t reflect.Type) bool
	// Rebuild applies fn to every element position of src and returns a
	// container of the same type holding the results. Ordered shapes
	// preserve order and length; sets and maps re-derive membership and
	// keys from the rewritten elements, since a rewrite may change
	// element identity.
	Rebuild(src reflect.Value, fn RewriteFunc) (reflect.Value, error)
}

// builtins is checked in order; the set adapter must come before the map
// adapter because a set is a map with struct{} values.
var builtins = []Adapter{
	seqAdapter{},
	arrayAdapter{},
	setAdapter{},
	mapAdapter{},
}

// Builtins returns the built-in adapters: ordered sequence, fixed array,
// set and associative map.
func Builtins() []Adapter {
	out := make([]Adapter, len(builtins))
	copy(out, builtins)
	return out
}

// ForType returns the first adapter in the list matching t. A nil list
// means the built-in adapters.
func ForType(adapters []Adapter, t reflect.Type) (Adapter, bool) {
	if t == nil {
		return nil, false
	}
	if adapters == nil {
		adapters = builtins
	}
	for _, a := range adapters {
		if a.Matches(t) {
			return a, true
		}
	}
	return nil, false
}

// convert coerces a rewritten element back to the container's element
// type. nil results become the element type's zero value.
func convert(v any, elemType reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(elemType), nil
	}
	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(elemType) {
		return reflect.Value{}, fmt.Errorf("container: rewritten element %v is not assignable to %v", rv.Type(), elemType)
	}
	return rv, nil
}
