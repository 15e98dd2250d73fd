package materializer_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/detachgo/fieldpath"
	"github.com/specialistvlad/detachgo/internal/entitytest"
	"github.com/specialistvlad/detachgo/lazy"
	"github.com/specialistvlad/detachgo/materializer"
)

func newMaterializer(t *testing.T) *materializer.Materializer {
	t.Helper()
	return materializer.New(lazy.Substrate{}, entitytest.Registry(t))
}

func pathStrings(t *testing.T, set *fieldpath.Set) []string {
	t.Helper()
	require.NotNil(t, set)
	var out []string
	for _, p := range set.Paths() {
		out = append(out, p.String())
	}
	return out
}

func TestMaterialize_NilRoot(t *testing.T) {
	m := newMaterializer(t)

	out, paths, err := m.Materialize(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, out)
	assert.Equal(t, 0, paths.Len())
}

func TestMaterialize_FullyLoadedGraphIsUntouched(t *testing.T) {
	child := &entitytest.Child{ID: 11, Label: "child"}
	th := &entitytest.Through{ID: 21, Label: "through", Child: child}
	main := &entitytest.Main{ID: 1, Label: "main", Throughs: entitytest.ThroughSet(th)}
	th.Main = main

	m := newMaterializer(t)
	out, paths, err := m.Materialize(context.Background(), main)
	require.NoError(t, err)

	// Pointer roots are rewritten in place, never copied.
	require.Same(t, main, out)
	assert.Equal(t, 0, paths.Len())
	assert.Same(t, child, th.Child)
	assert.Same(t, main, th.Main)
}

func TestMaterialize_UnwrapsInitializedPlaceholder(t *testing.T) {
	child := &entitytest.Child{ID: 11, Label: "child"}
	th := &entitytest.Through{ID: 21, Child: lazy.NewRef(child, 11)}
	main := &entitytest.Main{ID: 1, Throughs: entitytest.ThroughSet(th)}
	th.Main = main

	m := newMaterializer(t)
	_, paths, err := m.Materialize(context.Background(), main)
	require.NoError(t, err)

	// An initialized placeholder is replaced by its implementation and
	// contributes no path.
	assert.Same(t, child, th.Child)
	assert.Equal(t, 0, paths.Len())
}

func TestMaterialize_DetachedScalarBecomesStandIn(t *testing.T) {
	th := &entitytest.Through{
		ID:    21,
		Child: lazy.NewDetachedRef(reflect.TypeOf(&entitytest.Child{}), 11),
	}
	main := &entitytest.Main{ID: 1, Throughs: entitytest.ThroughSet(th)}
	th.Main = main

	m := newMaterializer(t)
	_, paths, err := m.Materialize(context.Background(), main)
	require.NoError(t, err)

	// Only the identity survives detachment.
	standIn, ok := th.Child.(*entitytest.Child)
	require.True(t, ok, "expected *Child stand-in, got %T", th.Child)
	assert.Equal(t, 11, standIn.ID)
	assert.Empty(t, standIn.Label)

	assert.Equal(t, []string{"$.Throughs.Child"}, pathStrings(t, paths))
}

func TestMaterialize_DetachedContainerBecomesTypedNil(t *testing.T) {
	main := &entitytest.Main{
		ID: 1,
		Throughs: lazy.NewDetachedCollection(
			lazy.KindSet,
			reflect.TypeOf(map[*entitytest.Through]struct{}{}),
		),
	}

	m := newMaterializer(t)
	_, paths, err := m.Materialize(context.Background(), main)
	require.NoError(t, err)

	// The slot keeps the container's concrete type so a later reinsert
	// can infer the placeholder's shape.
	set, ok := main.Throughs.(map[*entitytest.Through]struct{})
	require.True(t, ok, "expected typed nil set, got %T", main.Throughs)
	assert.Nil(t, set)

	assert.Equal(t, []string{"$.Throughs"}, pathStrings(t, paths))
}

func TestMaterialize_DetachedRoot(t *testing.T) {
	root := lazy.NewDetachedRef(reflect.TypeOf(&entitytest.Main{}), 5)

	m := newMaterializer(t)
	out, paths, err := m.Materialize(context.Background(), root)
	require.NoError(t, err)

	standIn, ok := out.(*entitytest.Main)
	require.True(t, ok)
	assert.Equal(t, 5, standIn.ID)
	assert.Equal(t, []string{"$"}, pathStrings(t, paths))
}

func TestMaterialize_CycleTerminates(t *testing.T) {
	main := &entitytest.Main{ID: 1}
	th := &entitytest.Through{ID: 21, Main: main}
	main.Throughs = entitytest.ThroughSet(th)

	m := newMaterializer(t)
	out, _, err := m.Materialize(context.Background(), main)
	require.NoError(t, err)

	// The back-reference resolves to the one materialized instance.
	require.Same(t, main, out)
	assert.Same(t, main, th.Main)
}

func TestMaterialize_DirectSelfCycleTerminates(t *testing.T) {
	main := &entitytest.Main{ID: 1}
	main.Throughs = main

	m := newMaterializer(t)
	out, paths, err := m.Materialize(context.Background(), main)
	require.NoError(t, err)

	require.Same(t, main, out)
	assert.Same(t, main, main.Throughs)
	assert.Equal(t, 0, paths.Len())
}

func TestMaterialize_ValueRootIsCopied(t *testing.T) {
	original := entitytest.Child{ID: 3, Label: "leaf"}

	m := newMaterializer(t)
	out, paths, err := m.Materialize(context.Background(), original)
	require.NoError(t, err)

	assert.Equal(t, original, out)
	assert.Equal(t, 0, paths.Len())
}

func TestMaterialize_MultipleDetachedSiblings(t *testing.T) {
	first := &entitytest.Through{
		ID:    21,
		Child: lazy.NewDetachedRef(reflect.TypeOf(&entitytest.Child{}), 11),
	}
	second := &entitytest.Through{
		ID:    22,
		Child: lazy.NewDetachedRef(reflect.TypeOf(&entitytest.Child{}), 12),
	}
	main := &entitytest.Main{ID: 1, Throughs: entitytest.ThroughSet(first, second)}

	m := newMaterializer(t)
	_, paths, err := m.Materialize(context.Background(), main)
	require.NoError(t, err)

	// Sibling elements of one container conflate onto a single path.
	assert.Equal(t, []string{"$.Throughs.Child"}, pathStrings(t, paths))

	firstChild, ok := first.Child.(*entitytest.Child)
	require.True(t, ok)
	secondChild, ok := second.Child.(*entitytest.Child)
	require.True(t, ok)
	assert.ElementsMatch(t, []int{11, 12}, []int{firstChild.ID, secondChild.ID})
}

func TestMaterialize_PlaceholderWithoutTargetFails(t *testing.T) {
	th := &entitytest.Through{ID: 21, Child: lazy.NewDetachedRef(nil, 11)}
	main := &entitytest.Main{ID: 1, Throughs: entitytest.ThroughSet(th)}

	m := newMaterializer(t)
	_, _, err := m.Materialize(context.Background(), main)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no target type")
}

func TestMaterialize_SliceContainer(t *testing.T) {
	type box struct {
		ID    int `detach:"identity"`
		Items any
	}

	reg := entitytest.Registry(t)
	require.NoError(t, reg.Register(&box{}, "ID"))

	b := &box{
		ID: 1,
		Items: []any{
			&entitytest.Child{ID: 1, Label: "a"},
			lazy.NewDetachedRef(reflect.TypeOf(&entitytest.Child{}), 2),
		},
	}

	m := materializer.New(lazy.Substrate{}, reg)
	_, paths, err := m.Materialize(context.Background(), b)
	require.NoError(t, err)

	items, ok := b.Items.([]any)
	require.True(t, ok)
	require.Len(t, items, 2)

	// Order and length survive the rebuild.
	assert.Equal(t, "a", items[0].(*entitytest.Child).Label)
	assert.Equal(t, 2, items[1].(*entitytest.Child).ID)

	assert.Equal(t, []string{"$.Items"}, pathStrings(t, paths))
}
