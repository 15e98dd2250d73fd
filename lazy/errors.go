package lazy

import (
	"fmt"
	"reflect"
)

// UninitializedError is returned by every accessor of a detached
// placeholder except the identity one. It is the intended, user-visible
// signal that the underlying entity was never loaded; callers that hit
// it must resolve the entity from its identity key instead.
type UninitializedError struct {
	// Target is the type the placeholder stands in for.
	Target reflect.Type
	// Access names the accessor that was invoked.
	Access string
}

// Error implements the error interface.
func (e *UninitializedError) Error() string {
	return fmt.Sprintf("lazy: %s of uninitialized placeholder for %v", e.Access, e.Target)
}
