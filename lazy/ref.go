package lazy

import "reflect"

// Ref is a scalar placeholder for a single entity. An initialized Ref
// wraps the loaded entity; a detached Ref knows only the entity's type
// and identity key and fails on any other access.
type Ref struct {
	target reflect.Type
	key    any
	impl   any
	init   bool
}

// NewRef wraps an already-loaded entity together with its identity key.
func NewRef(impl any, key any) *Ref {
	return &Ref{
		target: reflect.TypeOf(impl),
		key:    key,
		impl:   impl,
		init:   true,
	}
}

// NewDetachedRef creates an uninitialized placeholder for the given
// target type, carrying only the identity key.
func NewDetachedRef(target reflect.Type, key any) *Ref {
	return &Ref{target: target, key: key}
}

// Initialized reports whether the wrapped entity is available.
func (r *Ref) Initialized() bool {
	return r.init
}

// Implementation returns the wrapped entity, or *UninitializedError when
// the Ref is detached.
func (r *Ref) Implementation() (any, error) {
	if !r.init {
		return nil, &UninitializedError{Target: r.target, Access: "Implementation"}
	}
	return r.impl, nil
}

// IdentityKey returns the identity key. It is valid in either state.
func (r *Ref) IdentityKey() (any, error) {
	return r.key, nil
}

// Target returns the type the Ref stands in for.
func (r *Ref) Target() reflect.Type {
	return r.target
}

// Shape classifies the Ref as a scalar placeholder.
func (r *Ref) Shape() Kind {
	return KindScalar
}
