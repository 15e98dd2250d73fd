package fieldpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPath_String(t *testing.T) {
	testCases := []struct {
		name        string
		path        Path
		expectedStr string
	}{
		{
			name:        "root only",
			path:        Root(),
			expectedStr: "$",
		},
		{
			name:        "single field",
			path:        Root().Child("Label"),
			expectedStr: "$.Label",
		},
		{
			name:        "nested fields",
			path:        Root().Child("Throughs").Child("Child"),
			expectedStr: "$.Throughs.Child",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedStr, tc.path.String())
		})
	}
}

func TestPath_ChildDoesNotAliasParent(t *testing.T) {
	base := Root().Child("A")
	left := base.Child("B")
	right := base.Child("C")

	assert.Equal(t, "$.A.B", left.String())
	assert.Equal(t, "$.A.C", right.String())
	assert.Equal(t, "$.A", base.String())
}

func TestPath_RoundTrip(t *testing.T) {
	testPaths := []string{
		"$",
		"$.Label",
		"$.Throughs.Child.ID",
	}

	for _, raw := range testPaths {
		t.Run(raw, func(t *testing.T) {
			p, err := Parse(raw)
			require.NoError(t, err)

			assert.Equal(t, raw, p.String())

			again, err := Parse(p.String())
			require.NoError(t, err)
			assert.True(t, p.Equal(again))
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "missing root", raw: "Label"},
		{name: "empty segment", raw: "$..Label"},
		{name: "trailing dot", raw: "$.Label."},
		{name: "invalid identifier", raw: "$.9Label"},
		{name: "bracket syntax", raw: "$.Items[0]"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.raw)
			require.Error(t, err)
		})
	}
}

func TestPath_Equal(t *testing.T) {
	p1 := Root().Child("A").Child("B")
	p2 := Root().Child("A").Child("B")
	p3 := Root().Child("A").Child("C")
	p4 := Root().Child("A")

	assert.True(t, p1.Equal(p2))
	assert.False(t, p1.Equal(p3))
	assert.False(t, p1.Equal(p4))
	assert.True(t, Root().Equal(Root()))
}

func TestPath_HasPrefix(t *testing.T) {
	p := Root().Child("A").Child("B")

	assert.True(t, p.HasPrefix(Root()))
	assert.True(t, p.HasPrefix(Root().Child("A")))
	assert.True(t, p.HasPrefix(p))
	assert.False(t, p.HasPrefix(Root().Child("B")))
	assert.False(t, Root().HasPrefix(p))
}

func TestPath_IsRoot(t *testing.T) {
	assert.True(t, Root().IsRoot())
	assert.False(t, Root().Child("A").IsRoot())
	assert.False(t, Path{}.IsRoot())
	assert.True(t, Path{}.IsZero())
}
