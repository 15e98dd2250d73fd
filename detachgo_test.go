package detachgo_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/detachgo"
	"github.com/specialistvlad/detachgo/fieldpath"
	"github.com/specialistvlad/detachgo/internal/entitytest"
	"github.com/specialistvlad/detachgo/lazy"
)

func newDetacher(t *testing.T) *detachgo.Detacher {
	t.Helper()
	return detachgo.New(entitytest.Registry(t))
}

func TestDetachReattach_RoundTrip(t *testing.T) {
	ctx := context.Background()
	th := &entitytest.Through{
		ID:    21,
		Label: "through",
		Child: lazy.NewDetachedRef(reflect.TypeOf(&entitytest.Child{}), 11),
	}
	main := &entitytest.Main{ID: 1, Label: "main", Throughs: entitytest.ThroughSet(th)}
	th.Main = main

	d := newDetacher(t)
	det, err := d.Detach(ctx, main)
	require.NoError(t, err)

	// The detached half carries an identity-only stand-in.
	standIn, ok := th.Child.(*entitytest.Child)
	require.True(t, ok, "expected *Child stand-in, got %T", th.Child)
	if diff := cmp.Diff(&entitytest.Child{ID: 11}, standIn); diff != "" {
		t.Fatalf("stand-in mismatch (-want +got):\n%s", diff)
	}

	// Paths survive a serialization boundary.
	wire, err := det.Paths.MarshalBinary()
	require.NoError(t, err)
	restored := fieldpath.NewSet()
	require.NoError(t, restored.UnmarshalBinary(wire))
	assert.True(t, det.Paths.Equal(restored))

	out, err := d.Reattach(ctx, &detachgo.Detached{Entity: det.Entity, Paths: restored})
	require.NoError(t, err)
	require.Same(t, main, out)

	// The slot holds a placeholder equivalent to the one detached.
	ref, ok := th.Child.(*lazy.Ref)
	require.True(t, ok, "expected *lazy.Ref, got %T", th.Child)
	assert.False(t, ref.Initialized())
	key, err := ref.IdentityKey()
	require.NoError(t, err)
	assert.Equal(t, 11, key)
	assert.Equal(t, reflect.TypeOf(&entitytest.Child{}), ref.Target())

	// Detaching the reattached graph records the same paths again.
	det2, err := d.Detach(ctx, out)
	require.NoError(t, err)
	assert.True(t, det.Paths.Equal(det2.Paths))
}

func TestDetachReattach_EmptyPathSet(t *testing.T) {
	ctx := context.Background()
	child := &entitytest.Child{ID: 11}
	th := &entitytest.Through{ID: 21, Child: child}
	main := &entitytest.Main{ID: 1, Throughs: entitytest.ThroughSet(th)}

	d := newDetacher(t)
	det, err := d.Detach(ctx, main)
	require.NoError(t, err)
	assert.Equal(t, 0, det.Paths.Len())

	// With nothing recorded, reattachment returns the graph untouched.
	out, err := d.Reattach(ctx, det)
	require.NoError(t, err)
	require.Same(t, main, out)
	assert.Same(t, child, th.Child)
}

func TestDetachReattach_RootPlaceholder(t *testing.T) {
	ctx := context.Background()
	root := lazy.NewDetachedRef(reflect.TypeOf(&entitytest.Main{}), 5)

	d := newDetacher(t)
	det, err := d.Detach(ctx, root)
	require.NoError(t, err)

	standIn, ok := det.Entity.(*entitytest.Main)
	require.True(t, ok)
	assert.Equal(t, 5, standIn.ID)

	out, err := d.Reattach(ctx, det)
	require.NoError(t, err)

	ref, ok := out.(*lazy.Ref)
	require.True(t, ok, "expected *lazy.Ref, got %T", out)
	key, err := ref.IdentityKey()
	require.NoError(t, err)
	assert.Equal(t, 5, key)
}

func TestDetachReattach_ContainerRoundTrip(t *testing.T) {
	ctx := context.Background()
	setType := reflect.TypeOf(map[*entitytest.Through]struct{}{})
	main := &entitytest.Main{
		ID:       1,
		Throughs: lazy.NewDetachedCollection(lazy.KindSet, setType),
	}

	d := newDetacher(t)
	det, err := d.Detach(ctx, main)
	require.NoError(t, err)

	out, err := d.Reattach(ctx, det)
	require.NoError(t, err)

	coll, ok := main.Throughs.(*lazy.Collection)
	require.True(t, ok, "expected *lazy.Collection, got %T", main.Throughs)
	assert.Equal(t, lazy.KindSet, coll.Shape())
	assert.Equal(t, setType, coll.Target())

	// Detaching the reattached graph records the same paths again.
	det2, err := d.Detach(ctx, out)
	require.NoError(t, err)
	assert.True(t, det.Paths.Equal(det2.Paths))
}

func TestDetach_RecordedPathsAreDisjoint(t *testing.T) {
	ctx := context.Background()
	first := &entitytest.Through{
		ID:    21,
		Child: lazy.NewDetachedRef(reflect.TypeOf(&entitytest.Child{}), 11),
	}
	second := &entitytest.Through{
		ID:    22,
		Main:  lazy.NewDetachedRef(reflect.TypeOf(&entitytest.Main{}), 2),
		Child: &entitytest.Child{ID: 12},
	}
	main := &entitytest.Main{ID: 1, Throughs: entitytest.ThroughSet(first, second)}

	d := newDetacher(t)
	det, err := d.Detach(ctx, main)
	require.NoError(t, err)

	paths := det.Paths.Paths()
	require.NotEmpty(t, paths)
	for i, p := range paths {
		for j, q := range paths {
			if i == j {
				continue
			}
			assert.False(t, p.HasPrefix(q), "%s is nested under %s", p, q)
		}
	}
}

func TestReattach_NilDetached(t *testing.T) {
	d := newDetacher(t)
	out, err := d.Reattach(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}
