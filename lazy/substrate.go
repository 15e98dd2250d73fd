package lazy

import (
	"fmt"
	"reflect"
)

// Substrate implements the placeholder capability over the Value
// interface. It is the default substrate wired by the façade; callers
// integrating another lazy-loading scheme supply their own.
type Substrate struct{}

// IsPlaceholder reports whether the node is a placeholder value.
func (Substrate) IsPlaceholder(node any) bool {
	_, ok := node.(Value)
	return ok
}

// IsInitialized reports whether the placeholder can resolve to its real
// node.
func (Substrate) IsInitialized(node any) (bool, error) {
	v, ok := node.(Value)
	if !ok {
		return false, fmt.Errorf("lazy: %T is not a placeholder", node)
	}
	return v.Initialized(), nil
}

// Implementation resolves an initialized placeholder to its real node.
func (Substrate) Implementation(node any) (any, error) {
	v, ok := node.(Value)
	if !ok {
		return nil, fmt.Errorf("lazy: %T is not a placeholder", node)
	}
	return v.Implementation()
}

// IdentityKey returns the placeholder's identity key.
func (Substrate) IdentityKey(node any) (any, error) {
	v, ok := node.(Value)
	if !ok {
		return nil, fmt.Errorf("lazy: %T is not a placeholder", node)
	}
	return v.IdentityKey()
}

// TargetType resolves the placeholder's persistent type. It is valid
// even for uninitialized placeholders, which is what lets the walker
// build a same-shaped stand-in without touching the data source.
func (Substrate) TargetType(node any) (reflect.Type, error) {
	v, ok := node.(Value)
	if !ok {
		return nil, fmt.Errorf("lazy: %T is not a placeholder", node)
	}
	return v.Target(), nil
}

// NewPlaceholder constructs a detached scalar placeholder for the given
// target type, seeded with the identity key.
func (Substrate) NewPlaceholder(target reflect.Type, key any) any {
	return NewDetachedRef(target, key)
}

// NewCollectionPlaceholder constructs an empty detached container
// placeholder of the given kind.
func (Substrate) NewCollectionPlaceholder(kind Kind, target reflect.Type) any {
	return NewDetachedCollection(kind, target)
}
