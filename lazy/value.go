package lazy

import "reflect"

// Value is the interface placeholders expose to the graph walkers. A
// placeholder stands in for a not-yet-loaded node: while uninitialized it
// can only report its target type, its shape and (for scalars) its
// identity key; every other access fails with *UninitializedError.
//
// Because Go has no runtime subclassing, a field can only hold either a
// placeholder or its materialized value if the field is interface-typed
// (any, or a domain interface the materialized type satisfies). That is
// the Go analogue of "the declared type must be proxyable".
type Value interface {
	// Initialized reports whether the real node is available.
	Initialized() bool
	// Implementation returns the real node. Valid only when initialized.
	Implementation() (any, error)
	// IdentityKey returns the target entity's identifier. Valid for
	// scalar placeholders in either state; container placeholders have
	// no identity and fail.
	IdentityKey() (any, error)
	// Target returns the type the placeholder stands in for. Valid in
	// either state, so a same-shaped stand-in can always be built.
	Target() reflect.Type
	// Shape classifies the target as a scalar or a container kind.
	Shape() Kind
}
