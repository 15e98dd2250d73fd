package fieldref

import (
	"fmt"
	"reflect"
)

// Ref identifies one mutable field of a struct type by name and index.
type Ref struct {
	Name  string
	Index int
}

// AccessError reports a field that could not be read or written, or a
// type that could not be instantiated. It always indicates a structural
// mismatch between declared and runtime shapes and is never retried.
type AccessError struct {
	Type   reflect.Type
	Field  string
	Op     string
	Reason string
}

// Error implements the error interface.
func (e *AccessError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("fieldref: cannot %s %v: %s", e.Op, e.Type, e.Reason)
	}
	return fmt.Sprintf("fieldref: cannot %s field %s of %v: %s", e.Op, e.Field, e.Type, e.Reason)
}

// Accessor is the capability for enumerating and accessing the mutable
// fields of a node. The default implementation uses reflection; a
// generated accessor table can be substituted where reflection is
// unwanted.
type Accessor interface {
	// Fields enumerates the mutable fields of a struct type. Unexported
	// fields are immutable from the walker's point of view and are never
	// returned.
	Fields(t reflect.Type) []Ref
	// Read returns the value of the referenced field. entity must be the
	// struct value itself, not a pointer to it.
	Read(entity reflect.Value, ref Ref) (reflect.Value, error)
	// Write replaces the referenced field's value in place.
	Write(entity reflect.Value, ref Ref, val reflect.Value) error
	// New returns a pointer to a fresh zero value of the given struct
	// type.
	New(t reflect.Type) (reflect.Value, error)
}

// Reflective is the reflection-backed Accessor.
type Reflective struct{}

// Fields implements Accessor.
func (Reflective) Fields(t reflect.Type) []Ref {
	if t.Kind() != reflect.Struct {
		return nil
	}
	var out []Ref
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		out = append(out, Ref{Name: field.Name, Index: i})
	}
	return out
}

// Read implements Accessor.
func (Reflective) Read(entity reflect.Value, ref Ref) (reflect.Value, error) {
	if entity.Kind() != reflect.Struct {
		return reflect.Value{}, &AccessError{Type: entity.Type(), Field: ref.Name, Op: "read", Reason: "not a struct"}
	}
	if ref.Index < 0 || ref.Index >= entity.NumField() {
		return reflect.Value{}, &AccessError{Type: entity.Type(), Field: ref.Name, Op: "read", Reason: "no such field"}
	}
	fv := entity.Field(ref.Index)
	if !fv.CanInterface() {
		return reflect.Value{}, &AccessError{Type: entity.Type(), Field: ref.Name, Op: "read", Reason: "field is unexported"}
	}
	return fv, nil
}

// Write implements Accessor.
func (Reflective) Write(entity reflect.Value, ref Ref, val reflect.Value) error {
	if entity.Kind() != reflect.Struct {
		return &AccessError{Type: entity.Type(), Field: ref.Name, Op: "write", Reason: "not a struct"}
	}
	if ref.Index < 0 || ref.Index >= entity.NumField() {
		return &AccessError{Type: entity.Type(), Field: ref.Name, Op: "write", Reason: "no such field"}
	}
	fv := entity.Field(ref.Index)
	if !fv.CanSet() {
		return &AccessError{Type: entity.Type(), Field: ref.Name, Op: "write", Reason: "field is not settable"}
	}
	if !val.IsValid() {
		fv.Set(reflect.Zero(fv.Type()))
		return nil
	}
	if !val.Type().AssignableTo(fv.Type()) {
		return &AccessError{
			Type:   entity.Type(),
			Field:  ref.Name,
			Op:     "write",
			Reason: fmt.Sprintf("%v is not assignable to %v", val.Type(), fv.Type()),
		}
	}
	fv.Set(val)
	return nil
}

// New implements Accessor.
func (Reflective) New(t reflect.Type) (reflect.Value, error) {
	if t == nil {
		return reflect.Value{}, &AccessError{Op: "new", Reason: "nil type"}
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return reflect.Value{}, &AccessError{Type: t, Op: "new", Reason: "not a struct type"}
	}
	return reflect.New(t), nil
}
