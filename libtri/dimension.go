package libtri

import (
	"math/bits"
	"sort"
	"sync"

	"github.com/2x3systems/gotri/gotri"
	"github.com/2x3systems/gotri/libtri/perm"
	"gonum.org/v1/gonum/stat/combin"
)

// dimTables holds the face numbering of a top-dimensional d-simplex.
//
// Faces of subdimension k with 2(k+1) <= d+1 are numbered lexicographically by vertex set.
// Larger faces are numbered so that face i is the complement of face i of subdimension d-k-1;
// in particular facet i is the facet opposite vertex i.
type dimTables struct {
	dim       int
	faceCount []int         // faceCount[k] = C(d+1, k+1)
	faceVerts [][][]int     // faceVerts[k][i] = vertices of face i, ascending
	faceMask  [][]uint32    // faceMask[k][i] = vertex bitmask of face i
	ordering  [][]perm.Perm // ordering[k][i], see faceOrdering()
	faceIndex []int32       // faceIndex[mask] = face number of the face with that vertex set
	ridgeOf   [][]int32     // ridgeOf[f][v] = ridge number of facet f minus vertex v (v != f)
	swapLast  perm.Perm     // (d-1 d)
}

var (
	dimOnce [gotri.MaxDim + 1]sync.Once
	dimTabs [gotri.MaxDim + 1]*dimTables
)

func tablesFor(dim int) *dimTables {
	dimOnce[dim].Do(func() {
		dimTabs[dim] = buildDimTables(dim)
	})
	return dimTabs[dim]
}

func lexLess(a, b []int) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func buildDimTables(dim int) *dimTables {
	n := dim + 1
	tab := &dimTables{
		dim:       dim,
		faceCount: make([]int, dim),
		faceVerts: make([][][]int, dim),
		faceMask:  make([][]uint32, dim),
		ordering:  make([][]perm.Perm, dim),
		faceIndex: make([]int32, 1<<n),
		swapLast:  perm.Transposition(n, dim-1, dim),
	}
	for i := range tab.faceIndex {
		tab.faceIndex[i] = -1
	}

	// Lexicographic subdimensions first since the rest are complements of them.
	for k := 0; k < dim; k++ {
		if 2*(k+1) > n {
			continue
		}
		combos := combin.Combinations(n, k+1)
		sort.Slice(combos, func(i, j int) bool { return lexLess(combos[i], combos[j]) })
		tab.faceVerts[k] = combos
		tab.faceCount[k] = combin.Binomial(n, k+1)
	}
	full := uint32(1)<<n - 1
	for k := 0; k < dim; k++ {
		if 2*(k+1) <= n {
			continue
		}
		dual := tab.faceVerts[dim-k-1]
		verts := make([][]int, len(dual))
		for i, dv := range dual {
			mask := full &^ vertexMask(dv)
			verts[i] = maskVertices(mask)
		}
		tab.faceVerts[k] = verts
		tab.faceCount[k] = len(verts)
	}

	for k := 0; k < dim; k++ {
		tab.faceMask[k] = make([]uint32, tab.faceCount[k])
		tab.ordering[k] = make([]perm.Perm, tab.faceCount[k])
		for i, verts := range tab.faceVerts[k] {
			mask := vertexMask(verts)
			tab.faceMask[k][i] = mask
			tab.faceIndex[mask] = int32(i)
			tab.ordering[k][i] = faceOrdering(n, verts, mask)
		}
	}

	tab.ridgeOf = make([][]int32, n)
	for f := 0; f < n; f++ {
		tab.ridgeOf[f] = make([]int32, n)
		for v := 0; v < n; v++ {
			tab.ridgeOf[f][v] = -1
			if v != f {
				tab.ridgeOf[f][v] = tab.faceIndex[full&^(1<<f|1<<v)]
			}
		}
	}
	return tab
}

// faceOrdering returns the permutation sending 0..k to the face vertices in ascending order
// and k+1..d to the remaining vertices in ascending order.  When at least two vertices remain,
// the last two are swapped if needed so that the permutation is even.
func faceOrdering(n int, verts []int, mask uint32) perm.Perm {
	images := make([]int, 0, n)
	images = append(images, verts...)
	for v := 0; v < n; v++ {
		if mask&(1<<v) == 0 {
			images = append(images, v)
		}
	}
	p := perm.MustFromImages(images...)
	if n-len(verts) >= 2 && p.Sign() < 0 {
		images[n-1], images[n-2] = images[n-2], images[n-1]
		p = perm.MustFromImages(images...)
	}
	return p
}

func vertexMask(verts []int) uint32 {
	mask := uint32(0)
	for _, v := range verts {
		mask |= 1 << v
	}
	return mask
}

func maskVertices(mask uint32) []int {
	verts := make([]int, 0, bits.OnesCount32(mask))
	for mask != 0 {
		v := bits.TrailingZeros32(mask)
		verts = append(verts, v)
		mask &^= 1 << v
	}
	return verts
}

// faceNumber returns the face number of the k-face spanned by the images 0..k of m.
func (tab *dimTables) faceNumber(k int, m perm.Perm) int {
	mask := uint32(0)
	for i := 0; i <= k; i++ {
		mask |= 1 << m.Image(i)
	}
	return int(tab.faceIndex[mask])
}

// FaceCount returns the number of k-faces of a single d-simplex.
func FaceCount(dim, k int) int {
	return tablesFor(dim).faceCount[k]
}

// FaceVertices returns the vertices of face i of subdimension k of a d-simplex, ascending.
func FaceVertices(dim, k, i int) []int {
	return append([]int(nil), tablesFor(dim).faceVerts[k][i]...)
}

// FaceOrdering returns the canonical vertex mapping of face i of subdimension k of a d-simplex.
func FaceOrdering(dim, k, i int) perm.Perm {
	return tablesFor(dim).ordering[k][i]
}

// FaceNumber returns the number of the k-face of a d-simplex whose vertices are the images 0..k of m.
func FaceNumber(dim, k int, m perm.Perm) int {
	return tablesFor(dim).faceNumber(k, m)
}

// IsStandardDim reports if link-based validity and ideal vertices are supported in the given dimension.
func IsStandardDim(dim int) bool {
	return dim == 2 || dim == 3
}
