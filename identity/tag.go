package identity

import (
	"fmt"
	"reflect"
)

// TagKey is the struct tag inspected by tag-based discovery.
const TagKey = "detach"

// tagIdentity is the tag value marking the identity field.
const tagIdentity = "identity"

// taggedIdentityField finds the exported field of t tagged
// `detach:"identity"`.
func taggedIdentityField(t reflect.Type) (reflect.StructField, bool) {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		if sf.Tag.Get(TagKey) == tagIdentity {
			return sf, true
		}
	}
	return reflect.StructField{}, false
}

// FromTags builds a Registry with tag discovery enabled and eagerly
// verifies that every sample carries a tagged identity field, so
// misconfigured domain types fail at construction rather than mid-walk.
func FromTags(samples ...any) (*Registry, error) {
	reg := NewRegistry().WithTagDiscovery()
	for _, sample := range samples {
		t, err := structType(reflect.TypeOf(sample))
		if err != nil {
			return nil, err
		}
		sf, ok := taggedIdentityField(t)
		if !ok {
			return nil, fmt.Errorf("identity: %v has no field tagged `%s:%q`", t, TagKey, tagIdentity)
		}
		if err := reg.Register(sample, sf.Name); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
