package fieldpath

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/vmihailenco/msgpack/v5"
)

// Set is a set of Paths keyed on their canonical string form. Insertion
// order is irrelevant; Paths() iterates in sorted order so results are
// stable across runs.
//
// Both wire forms encode the set as an ordered sequence of
// selector-sequences, e.g. [["$","Throughs"],["$","Child"]].
type Set struct {
	paths map[string]Path
}

// NewSet creates a Set holding the given paths.
func NewSet(paths ...Path) *Set {
	s := &Set{paths: make(map[string]Path, len(paths))}
	for _, p := range paths {
		s.Add(p)
	}
	return s
}

// Add inserts a path into the set. Duplicates are ignored. The zero Set
// is ready to use.
func (s *Set) Add(p Path) {
	if p.IsZero() {
		return
	}
	if s.paths == nil {
		s.paths = make(map[string]Path)
	}
	s.paths[p.String()] = p
}

// Has reports whether the set contains a path structurally equal to p.
func (s *Set) Has(p Path) bool {
	_, ok := s.paths[p.String()]
	return ok
}

// Len returns the number of distinct paths in the set.
func (s *Set) Len() int {
	return len(s.paths)
}

// Paths returns the set's members sorted by their canonical string form.
func (s *Set) Paths() []Path {
	keys := make([]string, 0, len(s.paths))
	for k := range s.paths {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Path, len(keys))
	for i, k := range keys {
		out[i] = s.paths[k]
	}
	return out
}

// Equal checks whether two sets contain structurally equal paths.
func (s *Set) Equal(other *Set) bool {
	if s == nil || other == nil {
		return s == other
	}
	if len(s.paths) != len(other.paths) {
		return false
	}
	for k := range s.paths {
		if _, ok := other.paths[k]; !ok {
			return false
		}
	}
	return true
}

// wireForm flattens the set into sorted selector-name sequences.
func (s *Set) wireForm() [][]string {
	paths := s.Paths()
	out := make([][]string, len(paths))
	for i, p := range paths {
		out[i] = p.names()
	}
	return out
}

// fromWireForm rebuilds the set from decoded selector-name sequences.
func (s *Set) fromWireForm(raw [][]string) error {
	s.paths = make(map[string]Path, len(raw))
	for _, names := range raw {
		p, err := fromNames(names)
		if err != nil {
			return fmt.Errorf("invalid recorded path: %w", err)
		}
		s.Add(p)
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (s *Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.wireForm())
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Set) UnmarshalJSON(data []byte) error {
	var raw [][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return s.fromWireForm(raw)
}

// MarshalBinary implements encoding.BinaryMarshaler using a compact
// msgpack encoding, suitable for storing a recorded walk alongside its
// serialized graph.
func (s *Set) MarshalBinary() ([]byte, error) {
	return msgpack.Marshal(s.wireForm())
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (s *Set) UnmarshalBinary(data []byte) error {
	var raw [][]string
	if err := msgpack.Unmarshal(data, &raw); err != nil {
		return err
	}
	return s.fromWireForm(raw)
}
