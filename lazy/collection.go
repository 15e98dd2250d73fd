package lazy

import "reflect"

// Collection is a container-shaped placeholder: a sequence, set, map or
// array whose elements were never loaded. It is always uninitialized and
// holds no elements; iteration and sizing fail with *UninitializedError.
// Containers have no identity key, so IdentityKey fails as well.
type Collection struct {
	kind   Kind
	target reflect.Type
}

// NewDetachedCollection creates an empty placeholder container of the
// given kind. target is the concrete container type the placeholder
// stands in for (e.g. a map or slice type); it may be nil when the
// original container type is unknown.
func NewDetachedCollection(kind Kind, target reflect.Type) *Collection {
	return &Collection{kind: kind, target: target}
}

// Initialized always reports false: a loaded container is represented by
// the container itself, never by a Collection placeholder.
func (c *Collection) Initialized() bool {
	return false
}

// Implementation always fails with *UninitializedError.
func (c *Collection) Implementation() (any, error) {
	return nil, &UninitializedError{Target: c.target, Access: "Implementation"}
}

// IdentityKey always fails: containers have no identity of their own.
func (c *Collection) IdentityKey() (any, error) {
	return nil, &UninitializedError{Target: c.target, Access: "IdentityKey"}
}

// Target returns the concrete container type, or nil when unknown.
func (c *Collection) Target() reflect.Type {
	return c.target
}

// Shape returns the container kind.
func (c *Collection) Shape() Kind {
	return c.kind
}

// Elems always fails with *UninitializedError.
func (c *Collection) Elems() ([]any, error) {
	return nil, &UninitializedError{Target: c.target, Access: "Elems"}
}

// Len always fails with *UninitializedError.
func (c *Collection) Len() (int, error) {
	return 0, &UninitializedError{Target: c.target, Access: "Len"}
}
