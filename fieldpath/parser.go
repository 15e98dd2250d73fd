package fieldpath

import (
	"fmt"
	"regexp"
	"strings"
)

// fieldRegex matches a single field selector. Field selectors follow Go
// identifier rules since they name struct fields.
var fieldRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Parse creates a Path by parsing its canonical string representation.
// The input must start with the root marker "$" followed by zero or more
// dot-separated field names.
func Parse(raw string) (Path, error) {
	if raw == "" {
		return Path{}, fmt.Errorf("path cannot be empty")
	}

	segments := strings.Split(raw, ".")
	if segments[0] != rootName {
		return Path{}, fmt.Errorf("path must start with %q, got %q", rootName, segments[0])
	}

	selectors := []Selector{RootSelector()}
	for _, segment := range segments[1:] {
		if segment == "" {
			return Path{}, fmt.Errorf("path contains empty segment")
		}
		if !fieldRegex.MatchString(segment) {
			return Path{}, fmt.Errorf("invalid field selector: %q", segment)
		}
		selectors = append(selectors, FieldSelector(segment))
	}

	return Path{selectors: selectors}, nil
}

// fromNames rebuilds a Path from a decoded selector-name sequence.
func fromNames(names []string) (Path, error) {
	if len(names) == 0 {
		return Path{}, fmt.Errorf("selector sequence cannot be empty")
	}
	return Parse(strings.Join(names, "."))
}

// names flattens the path into its selector-name sequence, the shape used
// by both wire forms.
func (p Path) names() []string {
	out := make([]string, len(p.selectors))
	for i, sel := range p.selectors {
		out[i] = sel.Name()
	}
	return out
}
