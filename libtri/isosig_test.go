package libtri_test

import (
	"sort"
	"strings"
	"testing"

	"github.com/2x3systems/gotri/gotri"
	"github.com/2x3systems/gotri/libtri"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sigFixtures = []struct {
	name string
	dim  int
	expr string
}{
	{"figure-eight", 3, figureEightExpr},
	{"sphere", 3, sphereExpr},
	{"lens", 3, lensExpr},
	{"mobius", 2, mobiusExpr},
	{"disc", 2, discExpr},
	{"pentachoron", 4, pentExpr},
	{"lone tetrahedron", 3, "1:"},
}

func TestIsoSigRoundTrip(t *testing.T) {
	for _, fx := range sigFixtures {
		t.Run(fx.name, func(t *testing.T) {
			tri := mustParse(t, fx.dim, fx.expr)
			sig, rho := tri.IsoSigWithRelabelling()
			assert.Equal(t, sig, tri.IsoSig())

			rebuilt, err := libtri.FromIsoSig(fx.dim, sig)
			require.NoError(t, err)
			assert.Equal(t, sig, rebuilt.IsoSig())
			assert.Equal(t, tri.Size(), rebuilt.Size())
			requireGluingSymmetry(t, rebuilt)

			relabelled, err := rho.Apply(tri)
			require.NoError(t, err)
			assert.True(t, relabelled.IsIdenticalTo(rebuilt))
			assert.NotNil(t, tri.IsIsomorphicTo(rebuilt))
		})
	}
}

func TestIsoSigCanonicity(t *testing.T) {
	for _, fx := range sigFixtures {
		tri := mustParse(t, fx.dim, fx.expr)
		sig := tri.IsoSig()
		for seed := int64(1); seed <= 8; seed++ {
			assert.Equal(t, sig, relabelled(t, tri, seed).IsoSig(), "%s seed %d", fx.name, seed)
		}
	}

	seen := map[string]string{}
	for _, fx := range sigFixtures {
		sig := mustParse(t, fx.dim, fx.expr).IsoSig()
		if fx.dim == 3 {
			_, dup := seen[sig]
			assert.False(t, dup, "%s collides with %s", fx.name, seen[sig])
			seen[sig] = fx.name
		}
	}
}

func TestMakeCanonical(t *testing.T) {
	tri := relabelled(t, mustParse(t, 3, figureEightExpr), 7)
	sig := tri.IsoSig()

	tri.MakeCanonical()
	canon, err := libtri.FromIsoSig(3, sig)
	require.NoError(t, err)
	assert.True(t, tri.IsIdenticalTo(canon))

	once := tri.Clone()
	assert.False(t, tri.MakeCanonical())
	assert.True(t, tri.IsIdenticalTo(once))
}

// Signing a smaller triangulation right after a larger one reuses a pooled builder.
func TestIsoSigAfterLargerInput(t *testing.T) {
	five := mustParse(t, 3, "5:")
	one := mustParse(t, 3, "1:")
	fig8 := mustParse(t, 3, figureEightExpr)

	oneSig := one.IsoSig()
	for i := 0; i < 3; i++ {
		assert.Equal(t, 5, len(five.ComponentSizes()))
		assert.Equal(t, strings.Repeat(oneSig, 5), five.IsoSig())
		assert.Equal(t, oneSig, one.IsoSig())
		assert.NotEmpty(t, fig8.IsoSig())
		assert.Equal(t, oneSig, one.IsoSig())
	}

	canon := mustParse(t, 3, "1:")
	canon.MakeCanonical()
	assert.True(t, canon.IsIdenticalTo(one))
}

func TestIsoSigDisconnected(t *testing.T) {
	a := mustParse(t, 3, sphereExpr)
	require.NoError(t, a.InsertTriangulation(mustParse(t, 3, lensExpr)))
	b := mustParse(t, 3, lensExpr)
	require.NoError(t, b.InsertTriangulation(mustParse(t, 3, sphereExpr)))

	assert.Equal(t, a.IsoSig(), b.IsoSig())

	parts := []string{mustParse(t, 3, sphereExpr).IsoSig(), mustParse(t, 3, lensExpr).IsoSig()}
	sort.Strings(parts)
	assert.Equal(t, strings.Join(parts, ""), a.IsoSig())

	rebuilt, err := libtri.FromIsoSig(3, a.IsoSig())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1}, rebuilt.ComponentSizes())
}

// Three-tetrahedron closed orientable triangulations with different first homology.
func TestIsoSigDiscriminates(t *testing.T) {
	spheres := mustParse(t, 3, sphereExpr)
	require.NoError(t, spheres.InsertTriangulation(spheres))
	withLens := spheres.Clone()
	require.NoError(t, spheres.InsertTriangulation(mustParse(t, 3, sphereExpr)))
	require.NoError(t, withLens.InsertTriangulation(mustParse(t, 3, lensExpr)))

	for _, tri := range []*libtri.Triangulation{spheres, withLens} {
		assert.Equal(t, 3, tri.Size())
		assert.True(t, tri.IsOrientable())
		assert.True(t, tri.IsClosed())
	}

	h1, err := spheres.HomologyH1()
	require.NoError(t, err)
	h2, err := withLens.HomologyH1()
	require.NoError(t, err)
	assert.NotEqual(t, h1.String(), h2.String())

	assert.NotEqual(t, spheres.IsoSig(), withLens.IsoSig())
	assert.Nil(t, spheres.IsIsomorphicTo(withLens))
}

func TestEmptyIsoSig(t *testing.T) {
	empty := libtri.MustNew(3)
	assert.Equal(t, "!", empty.IsoSig())

	tri, err := libtri.FromIsoSig(3, "!")
	require.NoError(t, err)
	assert.True(t, tri.IsEmpty())

	n, err := libtri.IsoSigComponentSize("!")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestMalformedIsoSig(t *testing.T) {
	sig := mustParse(t, 3, figureEightExpr).IsoSig()

	for _, bad := range []string{
		"",
		" ",
		sig[:len(sig)-1],
		sig + "~",
		strings.Repeat("~", 4),
	} {
		_, err := libtri.FromIsoSig(3, bad)
		assert.True(t, errors.Is(err, gotri.ErrMalformedSig), "%q", bad)
		assert.True(t, errors.Is(err, gotri.ErrInvalidArgument), "%q", bad)
	}

	_, err := libtri.FromIsoSig(16, sig)
	assert.True(t, errors.Is(err, gotri.ErrBadDimension))

	// a 3-dimensional signature read as 2-dimensional does not decode
	_, err = libtri.FromIsoSig(2, sig)
	assert.Error(t, err)
}
