package fieldpath

// rootName is the canonical rendering of the root selector.
const rootName = "$"

// Selector is a single component of a Path: either the root marker or the
// name of a field reached from the previous node.
type Selector struct {
	name string
	root bool
}

// RootSelector returns the selector denoting the graph root.
func RootSelector() Selector {
	return Selector{root: true}
}

// FieldSelector returns a selector for the named field.
func FieldSelector(name string) Selector {
	return Selector{name: name}
}

// IsRoot reports whether the selector is the root marker.
func (s Selector) IsRoot() bool {
	return s.root
}

// Name returns the field name, or "$" for the root selector.
func (s Selector) Name() string {
	if s.root {
		return rootName
	}
	return s.name
}

// String renders the selector in its canonical form.
func (s Selector) String() string {
	return s.Name()
}
