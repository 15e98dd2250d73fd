// Package entitytest provides the entity fixtures shared by the walker
// tests: a Main entity owning a set of Through entities, each pointing
// back at its Main and forward at a Child.
package entitytest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/detachgo/identity"
)

// Main is the aggregate root. Throughs holds either a
// map[*Through]struct{} or a placeholder.
type Main struct {
	ID       int `detach:"identity"`
	Label    string
	Throughs any
}

// Through is the join entity between Main and Child. Main and Child are
// interface-typed so either side can hold a placeholder.
type Through struct {
	ID    int `detach:"identity"`
	Label string
	Main  any
	Child any
}

// Child is a leaf entity.
type Child struct {
	ID    int `detach:"identity"`
	Label string
}

// Registry builds an identity registry covering all fixture entities.
func Registry(t *testing.T) *identity.Registry {
	t.Helper()
	reg, err := identity.FromTags(&Main{}, &Through{}, &Child{})
	require.NoError(t, err)
	return reg
}

// ThroughSet builds the set container used for Main.Throughs.
func ThroughSet(items ...*Through) map[*Through]struct{} {
	set := make(map[*Through]struct{}, len(items))
	for _, th := range items {
		set[th] = struct{}{}
	}
	return set
}
