package libtri_test

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/2x3systems/gotri/libtri"
	"github.com/stretchr/testify/require"
)

const (
	// two ideal tetrahedra, one ideal vertex with torus link
	figureEightExpr = "(0, 0, 1, [1,3,0,2]), (0, 1, 1, [2,0,3,1]), (0, 2, 1, [0,3,2,1]), (0, 3, 1, [2,1,0,3])"

	// one tetrahedron, two vertices
	sphereExpr = "(0, 0, 0, [1,0,2,3]), (0, 2, 0, [0,1,3,2])"

	// L(4,1) from one tetrahedron
	lensExpr = "(0, 0, 0, [1,2,3,0]), (0, 2, 0, [1,2,3,0])"

	// two triangles, one sheet change
	mobiusExpr = "(0, 0, 1, [0,2,1]), (0, 1, 1, [0,1,2])"

	// two triangles sharing one edge
	discExpr = "(0, 0, 1, [0,2,1])"

	// a pentachoron folded onto itself twice
	pentExpr = "1: (0, 0, 0, [1,0,2,3,4]), (0, 2, 0, [0,1,3,2,4])"
)

func mustParse(t testing.TB, dim int, expr string) *libtri.Triangulation {
	t.Helper()
	tri, err := libtri.ParseTriangulation(dim, expr)
	require.NoError(t, err)
	return tri
}

func relabelled(t testing.TB, tri *libtri.Triangulation, seed int64) *libtri.Triangulation {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	iso := libtri.RandomIsomorphism(tri.Dimension(), tri.Size(), rng)
	out, err := iso.Apply(tri)
	require.NoError(t, err)
	return out
}

// summary collects skeletal data that must agree between a triangulation and a fresh structural copy.
type summary struct {
	FVector          []int
	Valid            bool
	Orientable       bool
	Closed           bool
	BoundaryFacets   int
	BoundaryComps    int
	ComponentSizes   []int
	Degrees          [][]int
	LinkOrientations []bool
}

func summarize(tri *libtri.Triangulation) summary {
	sum := summary{
		FVector:        tri.FVector(),
		Valid:          tri.IsValid(),
		Orientable:     tri.IsOrientable(),
		Closed:         tri.IsClosed(),
		BoundaryFacets: tri.CountBoundaryFacets(),
		BoundaryComps:  tri.CountBoundaryComponents(),
		ComponentSizes: tri.ComponentSizes(),
	}
	for k := 0; k < tri.Dimension(); k++ {
		var degs []int
		for _, face := range tri.Faces(k) {
			degs = append(degs, face.Degree())
			sum.LinkOrientations = append(sum.LinkOrientations, face.IsLinkOrientable())
		}
		sort.Ints(degs)
		sum.Degrees = append(sum.Degrees, degs)
	}
	return sum
}

func requireGluingSymmetry(t *testing.T, tri *libtri.Triangulation) {
	t.Helper()
	for _, simp := range tri.Simplices() {
		for f := 0; f <= tri.Dimension(); f++ {
			adj := simp.Adjacent(f)
			if adj == nil {
				require.Equal(t, -1, simp.AdjacentFacet(f))
				continue
			}
			g := simp.AdjacentGluing(f)
			af := g.Image(f)
			require.Equal(t, af, simp.AdjacentFacet(f))
			require.Same(t, simp, adj.Adjacent(af))
			require.Equal(t, g.Inverse(), adj.AdjacentGluing(af))
		}
	}
}
