package libtri_test

import (
	"context"
	"testing"

	"github.com/2x3systems/gotri/gotri"
	"github.com/2x3systems/gotri/libtri"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsIsomorphicTo(t *testing.T) {
	for _, fx := range sigFixtures {
		tri := mustParse(t, fx.dim, fx.expr)
		other := relabelled(t, tri, 11)

		iso := tri.IsIsomorphicTo(other)
		require.NotNil(t, iso, fx.name)
		mapped, err := iso.Apply(tri)
		require.NoError(t, err)
		assert.True(t, mapped.IsIdenticalTo(other), fx.name)

		back, err := iso.Inverse().Apply(other)
		require.NoError(t, err)
		assert.True(t, back.IsIdenticalTo(tri), fx.name)
	}

	assert.Nil(t, mustParse(t, 3, sphereExpr).IsIsomorphicTo(mustParse(t, 3, lensExpr)))
	assert.Nil(t, mustParse(t, 2, mobiusExpr).IsIsomorphicTo(mustParse(t, 2, discExpr)))
	assert.Nil(t, mustParse(t, 3, "1:").IsIsomorphicTo(mustParse(t, 2, "1:")))
}

func TestFindAllIsomorphisms(t *testing.T) {
	tri := mustParse(t, 3, figureEightExpr)
	other := relabelled(t, tri, 3)

	var autos []*libtri.Isomorphism
	count, err := tri.FindAllIsomorphisms(context.Background(), tri, func(iso *libtri.Isomorphism) bool {
		autos = append(autos, iso)
		return true
	})
	require.NoError(t, err)
	require.Equal(t, len(autos), count)
	assert.GreaterOrEqual(t, count, 1)
	for _, auto := range autos {
		mapped, err := auto.Apply(tri)
		require.NoError(t, err)
		assert.True(t, mapped.IsIdenticalTo(tri))
	}

	// isomorphisms onto a relabelled copy are in bijection with automorphisms
	onto, err := tri.FindAllIsomorphisms(context.Background(), other, func(*libtri.Isomorphism) bool { return true })
	require.NoError(t, err)
	assert.Equal(t, count, onto)

	stopped, err := tri.FindAllIsomorphisms(context.Background(), tri, func(*libtri.Isomorphism) bool { return false })
	require.NoError(t, err)
	assert.Equal(t, 1, stopped)
}

func TestFindAllSubcomplexes(t *testing.T) {
	lone := mustParse(t, 3, "1:")
	fig8 := mustParse(t, 3, figureEightExpr)

	count, err := lone.FindAllSubcomplexesIn(context.Background(), fig8, func(*libtri.Isomorphism) bool { return true })
	require.NoError(t, err)
	assert.Equal(t, 2*24, count)

	assert.NotNil(t, lone.IsContainedIn(fig8))
	assert.Nil(t, lone.IsIsomorphicTo(fig8))
	assert.Nil(t, fig8.IsContainedIn(lone))

	// a disc of two triangles sits inside the Möbius band but not the other way round
	disc := mustParse(t, 2, discExpr)
	mobius := mustParse(t, 2, mobiusExpr)
	assert.NotNil(t, disc.IsContainedIn(mobius))
	assert.Nil(t, mobius.IsContainedIn(disc))
}

func TestIsomorphismSearchCancelled(t *testing.T) {
	tri := mustParse(t, 3, figureEightExpr)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	count, err := tri.FindAllIsomorphisms(ctx, tri, func(*libtri.Isomorphism) bool { return true })
	assert.Equal(t, 0, count)
	assert.True(t, errors.Is(err, gotri.ErrCancelled))
	assert.Equal(t, []int{1, 2, 4, 2}, tri.FVector())
}

func TestIsomorphismSearchCancelledMidway(t *testing.T) {
	tri := mustParse(t, 3, figureEightExpr)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	count, err := tri.FindAllIsomorphisms(ctx, relabelled(t, tri, 2), func(*libtri.Isomorphism) bool {
		calls++
		cancel()
		return true
	})
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, count)
	assert.True(t, errors.Is(err, gotri.ErrCancelled))

	count, err = tri.FindAllIsomorphisms(context.Background(), tri, func(*libtri.Isomorphism) bool { return true })
	require.NoError(t, err)
	assert.Greater(t, count, 1)
}

func TestIsomorphismAlgebra(t *testing.T) {
	tri := mustParse(t, 3, figureEightExpr)
	a := libtri.IdentityIsomorphism(3, 2)
	assert.True(t, a.IsIdentity())

	other := relabelled(t, tri, 5)
	iso := tri.IsIsomorphicTo(other)
	require.NotNil(t, iso)
	assert.True(t, iso.Then(iso.Inverse()).IsIdentity())

	inPlace := tri.Clone()
	require.NoError(t, iso.ApplyInPlace(inPlace))
	assert.True(t, inPlace.IsIdenticalTo(other))

	_, err := libtri.NewIsomorphism(3, 3).Apply(tri)
	assert.True(t, errors.Is(err, gotri.ErrSizeMismatch))
}
