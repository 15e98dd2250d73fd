package fieldpath

import "strings"

// Path is the structured address of one node within an object graph,
// expressed as field selectors from the root. A Path always begins with
// the root selector and is immutable: Child returns a new Path and never
// aliases the receiver's backing storage.
//
// Paths carry no positional indices. Elements of one container share the
// container field's selectors, so two structurally identical placeholders
// inside the same set or map are not distinguishable by Path. This
// mirrors the recorded-walk semantics and is a known limitation, not an
// oversight.
type Path struct {
	selectors []Selector
}

// Root returns the path denoting the graph root itself.
func Root() Path {
	return Path{selectors: []Selector{RootSelector()}}
}

// Child returns a new path with a selector for the named field appended.
func (p Path) Child(name string) Path {
	out := make([]Selector, 0, len(p.selectors)+1)
	out = append(out, p.selectors...)
	out = append(out, FieldSelector(name))
	return Path{selectors: out}
}

// Selectors returns a copy of the path's selector sequence.
func (p Path) Selectors() []Selector {
	out := make([]Selector, len(p.selectors))
	copy(out, p.selectors)
	return out
}

// Len returns the number of selectors, including the root marker.
func (p Path) Len() int {
	return len(p.selectors)
}

// IsRoot reports whether the path denotes the root node itself.
func (p Path) IsRoot() bool {
	return len(p.selectors) == 1 && p.selectors[0].IsRoot()
}

// IsZero reports whether the path was never initialized. A zero Path is
// not a valid address; valid paths come from Root, Child or Parse.
func (p Path) IsZero() bool {
	return len(p.selectors) == 0
}

// Last returns the final selector of the path.
func (p Path) Last() Selector {
	return p.selectors[len(p.selectors)-1]
}

// String serializes the path into its canonical dot-joined representation,
// e.g. "$.Throughs.Child".
func (p Path) String() string {
	var sb strings.Builder
	for i, sel := range p.selectors {
		if i > 0 {
			sb.WriteRune('.')
		}
		sb.WriteString(sel.Name())
	}
	return sb.String()
}

// Equal checks for element-wise equality of the selector sequences.
func (p Path) Equal(other Path) bool {
	if len(p.selectors) != len(other.selectors) {
		return false
	}
	for i, sel := range p.selectors {
		if sel != other.selectors[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix is a (possibly equal) leading
// subsequence of the path.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix.selectors) > len(p.selectors) {
		return false
	}
	for i, sel := range prefix.selectors {
		if sel != p.selectors[i] {
			return false
		}
	}
	return true
}
