package libtri_test

import (
	"testing"

	"github.com/2x3systems/gotri/gotri"
	"github.com/2x3systems/gotri/libtri"
	"github.com/2x3systems/gotri/libtri/perm"
	"github.com/gogo/protobuf/proto"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGluings(t *testing.T) {
	gluings, size, err := libtri.ParseGluings(3, figureEightExpr)
	require.NoError(t, err)
	assert.Equal(t, 2, size)
	require.Len(t, gluings, 4)
	assert.Equal(t, libtri.Gluing{Simp: 0, Facet: 0, Adj: 1, G: perm.MustFromImages(1, 3, 0, 2)}, gluings[0])
	assert.Equal(t, "(0, 0, 1, [1,3,0,2])", gluings[0].String())

	_, size, err = libtri.ParseGluings(3, "5: (0, 0, 1, [1,0,2,3])")
	require.NoError(t, err)
	assert.Equal(t, 5, size)

	for _, bad := range []string{
		"(0, 0, 1, [1,0,2])",
		"(0, 0, 1, [1,1,2,3])",
		"(0, 0, 1 [1,0,2,3])",
		"1: (0, 0, 1, [1,0,2,3])",
		"(0, 0, 1, [1,0,2,3]) (1, 1, 0, [1,0,2,3])",
	} {
		_, _, err := libtri.ParseGluings(3, bad)
		assert.True(t, errors.Is(err, gotri.ErrBadGluingExpr), "%q", bad)
	}

	_, err = libtri.ParseTriangulation(3, "(0, 0, 1, [1,0,2,3]), (0, 0, 1, [0,1,3,2])")
	assert.True(t, errors.Is(err, gotri.ErrFacetGlued))
}

func TestGluingsStringRoundTrip(t *testing.T) {
	for _, fx := range sigFixtures {
		tri := mustParse(t, fx.dim, fx.expr)
		str := tri.GluingsString()

		again, err := libtri.ParseTriangulation(fx.dim, str)
		require.NoError(t, err, fx.name)
		assert.True(t, again.IsIdenticalTo(tri), fx.name)
		assert.Equal(t, str, again.GluingsString())
	}

	tri := libtri.MustNew(2)
	tri.AddSimplices(3)
	assert.Equal(t, "3:", tri.GluingsString())
}

func TestTriDefRoundTrip(t *testing.T) {
	for _, fx := range sigFixtures {
		tri := mustParse(t, fx.dim, fx.expr)
		tri.Simplex(0).SetDescription(fx.name)

		buf, err := tri.Marshal()
		require.NoError(t, err)
		again, err := libtri.Unmarshal(buf)
		require.NoError(t, err, fx.name)
		assert.True(t, again.IsIdenticalTo(tri), fx.name)
		assert.Equal(t, fx.name, again.Simplex(0).Description())
	}
}

func TestTriDefRejectsAsymmetry(t *testing.T) {
	def := mustParse(t, 3, sphereExpr).MarshalDef()
	def.Simplices[0].Gluings[1] = perm.MustFromImages(0, 1, 3, 2).Pack()

	buf, err := proto.Marshal(def)
	require.NoError(t, err)
	_, err = libtri.Unmarshal(buf)
	assert.True(t, errors.Is(err, gotri.ErrUnmarshal))

	_, err = libtri.Unmarshal([]byte{0xFF, 0xFF})
	assert.True(t, errors.Is(err, gotri.ErrUnmarshal))

	_, err = libtri.NewFromDef(&libtri.TriDef{Dim: 1})
	assert.True(t, errors.Is(err, gotri.ErrBadDimension))
}
