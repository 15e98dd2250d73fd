package identity

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// ErrNoIdentity is returned when a type has no identity field binding
// and discovery is disabled or finds nothing.
var ErrNoIdentity = errors.New("no identity field registered")

// Registry maps entity types to the field that carries their identity
// key. Bindings are supplied explicitly at construction time (or loaded
// from manifests); there is no global annotation scanning. The optional
// tag fallback discovers unseen types from the `detach:"identity"`
// struct tag on first use.
//
// A Registry is safe for concurrent readers; walks on independent graphs
// may share one instance.
type Registry struct {
	mu       sync.RWMutex
	fields   map[reflect.Type]string
	types    map[string]reflect.Type
	tagBased bool
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		fields: make(map[reflect.Type]string),
		types:  make(map[string]reflect.Type),
	}
}

// WithTagDiscovery enables lazy struct-tag discovery for types that have
// no explicit binding. It returns the receiver for chaining.
func (r *Registry) WithTagDiscovery() *Registry {
	r.mu.Lock()
	r.tagBased = true
	r.mu.Unlock()
	return r
}

// structType normalizes a sample or entity type to its underlying struct
// type.
func structType(t reflect.Type) (reflect.Type, error) {
	if t == nil {
		return nil, fmt.Errorf("identity: nil type")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("identity: %v is not a struct type", t)
	}
	return t, nil
}

// Register binds the named field as the identity field of the sample's
// type. The field must exist and be exported.
func (r *Registry) Register(sample any, field string) error {
	t, err := structType(reflect.TypeOf(sample))
	if err != nil {
		return err
	}
	sf, ok := t.FieldByName(field)
	if !ok {
		return fmt.Errorf("identity: %v has no field %q", t, field)
	}
	if !sf.IsExported() {
		return fmt.Errorf("identity: field %q of %v is not exported", field, t)
	}

	r.mu.Lock()
	r.fields[t] = field
	r.mu.Unlock()
	return nil
}

// RegisterType binds a manifest entity name to the sample's Go type, so
// HCL manifests can reference it.
func (r *Registry) RegisterType(name string, sample any) error {
	if name == "" {
		return fmt.Errorf("identity: entity name cannot be empty")
	}
	t, err := structType(reflect.TypeOf(sample))
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.types[name]; ok && existing != t {
		return fmt.Errorf("identity: entity name %q already bound to %v", name, existing)
	}
	r.types[name] = t
	return nil
}

// FieldFor returns the identity field name for the given type, running
// tag discovery when enabled and no explicit binding exists.
func (r *Registry) FieldFor(t reflect.Type) (string, bool) {
	st, err := structType(t)
	if err != nil {
		return "", false
	}

	r.mu.RLock()
	field, ok := r.fields[st]
	tagBased := r.tagBased
	r.mu.RUnlock()
	if ok {
		return field, true
	}
	if !tagBased {
		return "", false
	}

	sf, ok := taggedIdentityField(st)
	if !ok {
		return "", false
	}
	r.mu.Lock()
	r.fields[st] = sf.Name
	r.mu.Unlock()
	return sf.Name, true
}

// KeyOf reads the identity key from an entity.
func (r *Registry) KeyOf(entity any) (any, error) {
	rv := reflect.ValueOf(entity)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("identity: nil entity")
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("identity: %T is not an entity", entity)
	}

	field, ok := r.FieldFor(rv.Type())
	if !ok {
		return nil, fmt.Errorf("identity: %w for %v", ErrNoIdentity, rv.Type())
	}
	return rv.FieldByName(field).Interface(), nil
}

// SetKey writes the identity key into an entity, which must be a struct
// pointer. A nil key leaves the field at its zero value.
func (r *Registry) SetKey(entity any, key any) error {
	rv := reflect.ValueOf(entity)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("identity: entity must be a non-nil struct pointer, got %T", entity)
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("identity: %T is not an entity", entity)
	}

	field, ok := r.FieldFor(rv.Type())
	if !ok {
		return fmt.Errorf("identity: %w for %v", ErrNoIdentity, rv.Type())
	}
	if key == nil {
		return nil
	}

	fv := rv.FieldByName(field)
	kv := reflect.ValueOf(key)
	if !kv.Type().AssignableTo(fv.Type()) {
		return fmt.Errorf("identity: key type %v is not assignable to field %s of %v", kv.Type(), field, rv.Type())
	}
	fv.Set(kv)
	return nil
}

// typeFor resolves a manifest entity name to its registered Go type.
func (r *Registry) typeFor(name string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	return t, ok
}

// typeNames lists every entity name registered via RegisterType.
func (r *Registry) typeNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.types))
	for name := range r.types {
		out = append(out, name)
	}
	return out
}
