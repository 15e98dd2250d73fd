package container

import (
	"reflect"

	"github.com/specialistvlad/detachgo/lazy"
)

// emptyStruct is the value type that distinguishes a set from a map.
var emptyStruct = reflect.TypeOf(struct{}{})

// seqAdapter handles ordered sequences (slices).
type seqAdapter struct{}

func (seqAdapter) Shape() lazy.Kind { return lazy.KindSeq }

func (seqAdapter) Matches(t reflect.Type) bool {
	return t.Kind() == reflect.Slice
}

func (seqAdapter) Rebuild(src reflect.Value, fn RewriteFunc) (reflect.Value, error) {
	if src.IsNil() {
		return src, nil
	}
	out := reflect.MakeSlice(src.Type(), src.Len(), src.Len())
	for i := 0; i < src.Len(); i++ {
		rewritten, err := fn(src.Index(i).Interface())
		if err != nil {
			return reflect.Value{}, err
		}
		ev, err := convert(rewritten, src.Type().Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		out.Index(i).Set(ev)
	}
	return out, nil
}

// arrayAdapter handles fixed-size arrays; length is part of the type and
// is preserved by construction.
type arrayAdapter struct{}

func (arrayAdapter) Shape() lazy.Kind { return lazy.KindArray }

func (arrayAdapter) Matches(t reflect.Type) bool {
	return t.Kind() == reflect.Array
}

func (arrayAdapter) Rebuild(src reflect.Value, fn RewriteFunc) (reflect.Value, error) {
	out := reflect.New(src.Type()).Elem()
	for i := 0; i < src.Len(); i++ {
		rewritten, err := fn(src.Index(i).Interface())
		if err != nil {
			return reflect.Value{}, err
		}
		ev, err := convert(rewritten, src.Type().Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		out.Index(i).Set(ev)
	}
	return out, nil
}

// setAdapter handles sets, represented as map[K]struct{}. Membership is
// re-derived from the rewritten members, so two members that rewrite to
// the same value collapse into one.
type setAdapter struct{}

func (setAdapter) Shape() lazy.Kind { return lazy.KindSet }

func (setAdapter) Matches(t reflect.Type) bool {
	return t.Kind() == reflect.Map && t.Elem() == emptyStruct
}

func (setAdapter) Rebuild(src reflect.Value, fn RewriteFunc) (reflect.Value, error) {
	if src.IsNil() {
		return src, nil
	}
	out := reflect.MakeMapWithSize(src.Type(), src.Len())
	iter := src.MapRange()
	for iter.Next() {
		rewritten, err := fn(iter.Key().Interface())
		if err != nil {
			return reflect.Value{}, err
		}
		kv, err := convert(rewritten, src.Type().Key())
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetMapIndex(kv, reflect.ValueOf(struct{}{}))
	}
	return out, nil
}

// mapAdapter handles associative maps; keys and values are rewritten
// independently and keys are re-derived after the rewrite.
type mapAdapter struct{}

func (mapAdapter) Shape() lazy.Kind { return lazy.KindMap }

func (mapAdapter) Matches(t reflect.Type) bool {
	return t.Kind() == reflect.Map
}

func (mapAdapter) Rebuild(src reflect.Value, fn RewriteFunc) (reflect.Value, error) {
	if src.IsNil() {
		return src, nil
	}
	out := reflect.MakeMapWithSize(src.Type(), src.Len())
	iter := src.MapRange()
	for iter.Next() {
		rewrittenKey, err := fn(iter.Key().Interface())
		if err != nil {
			return reflect.Value{}, err
		}
		kv, err := convert(rewrittenKey, src.Type().Key())
		if err != nil {
			return reflect.Value{}, err
		}
		rewrittenVal, err := fn(iter.Value().Interface())
		if err != nil {
			return reflect.Value{}, err
		}
		vv, err := convert(rewrittenVal, src.Type().Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetMapIndex(kv, vv)
	}
	return out, nil
}
