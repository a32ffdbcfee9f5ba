package surfaces

import (
	"math/big"

	"github.com/2x3systems/gotri/gotri"
	"github.com/2x3systems/gotri/libtri"
	"github.com/2x3systems/gotri/libtri/matrix"
	"github.com/pkg/errors"
)

// tetDiscs holds the disc counts of one tetrahedron; index 1 of tri and quad is only used
// by oriented systems, where index 0 counts discs oriented towards their vertex (or towards vertex 0 for quads).
type tetDiscs struct {
	tri  [2][4]big.Int
	quad [2][3]big.Int
	oct  [3]big.Int
}

// Surface is a normal or almost normal surface in a 3-triangulation, given by a vector in some coordinate system.
// Triangle counts for quad systems are recovered as the smallest non-negative solution of the face equations.
type Surface struct {
	tri    *libtri.Triangulation
	coords Coords
	vec    matrix.Vec
	discs  []tetDiscs
}

// NewSurface validates values against tri and coords and recovers any missing triangle coordinates.
func NewSurface(tri *libtri.Triangulation, coords Coords, values matrix.Vec) (*Surface, error) {
	if err := checkTriangulation(tri, coords); err != nil {
		return nil, err
	}
	if len(values) != coords.Len(tri.Size()) {
		return nil, errors.Wrapf(gotri.ErrBadVector, "%v vector of length %d for %d tetrahedra", coords, len(values), tri.Size())
	}
	if values.HasNegative() {
		return nil, errors.Wrap(gotri.ErrBadVector, "negative coordinate")
	}

	s := &Surface{
		tri:    tri,
		coords: coords,
		vec:    values.Clone(),
		discs:  make([]tetDiscs, tri.Size()),
	}
	for t := range s.discs {
		d := &s.discs[t]
		for side := 0; side < coords.sides(); side++ {
			if coords.HasTriangles() {
				for v := 0; v < 4; v++ {
					d.tri[side][v].Set(s.vec[coords.triIndex(t, v, side)])
				}
			}
			for q := 0; q < 3; q++ {
				d.quad[side][q].Set(s.vec[coords.quadIndex(t, q, side)])
			}
		}
		if coords.IsAlmostNormal() {
			for o := 0; o < 3; o++ {
				d.oct[o].Set(s.vec[coords.octIndex(t, o)])
			}
		}
	}
	if !coords.HasTriangles() {
		if err := s.recoverTriangles(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// NewSurfaceFromInts is NewSurface for small vectors.
func NewSurfaceFromInts(tri *libtri.Triangulation, coords Coords, values ...int64) (*Surface, error) {
	return NewSurface(tri, coords, matrix.VecOf(values...))
}

// VertexLink returns the normal surface in standard coordinates made of one triangle at every corner of vertex v.
func VertexLink(tri *libtri.Triangulation, v int) (*Surface, error) {
	if err := checkTriangulation(tri, Standard); err != nil {
		return nil, err
	}
	if v < 0 || v >= tri.CountFaces(0) {
		return nil, errors.Wrapf(gotri.ErrInvalidArgument, "vertex %d", v)
	}
	vec := matrix.NewVec(Standard.Len(tri.Size()))
	for _, emb := range tri.Face(0, v).Embeddings() {
		vec[Standard.triIndex(emb.Simplex().Index(), emb.Face(), 0)].SetInt64(1)
	}
	return NewSurface(tri, Standard, vec)
}

func (s *Surface) Coords() Coords { return s.coords }

func (s *Surface) Triangulation() *libtri.Triangulation { return s.tri }

// Vector returns the coordinates this surface was built from.  The result must not be modified.
func (s *Surface) Vector() matrix.Vec { return s.vec }

func (s *Surface) TriangleCoord(tet, v int) *big.Int {
	d := &s.discs[tet]
	return new(big.Int).Add(&d.tri[0][v], &d.tri[1][v])
}

func (s *Surface) QuadCoord(tet, q int) *big.Int {
	d := &s.discs[tet]
	return new(big.Int).Add(&d.quad[0][q], &d.quad[1][q])
}

func (s *Surface) OctCoord(tet, o int) *big.Int {
	return new(big.Int).Set(&s.discs[tet].oct[o])
}

// OrientedTriangleCoord counts triangles at v oriented towards v (towards) or away from it.
func (s *Surface) OrientedTriangleCoord(tet, v int, towards bool) *big.Int {
	return new(big.Int).Set(&s.discs[tet].tri[orientedSide(towards)][v])
}

// OrientedQuadCoord counts quads of type q oriented towards the pair holding vertex 0 (towards) or away from it.
func (s *Surface) OrientedQuadCoord(tet, q int, towards bool) *big.Int {
	return new(big.Int).Set(&s.discs[tet].quad[orientedSide(towards)][q])
}

func orientedSide(towards bool) int {
	if towards {
		return 0
	}
	return 1
}

// EdgeWeight returns the number of times this surface meets edge e of the triangulation.
func (s *Surface) EdgeWeight(e int) *big.Int {
	emb := s.tri.Face(1, e).Front()
	m := emb.Vertices()
	return s.tetEdgeWeight(emb.Simplex().Index(), m.Image(0), m.Image(1))
}

func (s *Surface) tetEdgeWeight(tet, a, b int) *big.Int {
	w := new(big.Int).Add(s.TriangleCoord(tet, a), s.TriangleCoord(tet, b))
	keep := QuadSeparating[a][b]
	for q := 0; q < 3; q++ {
		if q != keep {
			w.Add(w, s.QuadCoord(tet, q))
		}
	}
	if s.coords.IsAlmostNormal() {
		d := &s.discs[tet]
		for o := 0; o < 3; o++ {
			w.Add(w, &d.oct[o])
		}
		w.Add(w, &d.oct[keep])
	}
	return w
}

// FaceArcs returns the number of normal arcs on triangle f of the triangulation that cut off vertex i of that triangle.
func (s *Surface) FaceArcs(f, i int) *big.Int {
	emb := s.tri.Face(2, f).Front()
	m := emb.Vertices()
	return s.tetArcs(emb.Simplex().Index(), m.Image(i), m.Image(3))
}

func (s *Surface) tetArcs(tet, v, opp int) *big.Int {
	q := QuadSeparating[v][opp]
	arcs := new(big.Int).Add(s.TriangleCoord(tet, v), s.QuadCoord(tet, q))
	if s.coords.IsAlmostNormal() {
		d := &s.discs[tet]
		for o := 0; o < 3; o++ {
			if o != q {
				arcs.Add(arcs, &d.oct[o])
			}
		}
	}
	return arcs
}

// Add returns the sum of two surfaces in the same triangulation and coordinate system.
func (s *Surface) Add(other *Surface) (*Surface, error) {
	if s.tri != other.tri || s.coords != other.coords {
		return nil, errors.Wrapf(gotri.ErrBadVector, "cannot add %v and %v surfaces of different triangulations or systems", s.coords, other.coords)
	}
	return NewSurface(s.tri, s.coords, s.vec.Add(other.vec))
}

// IsEmpty reports if this surface has no discs at all.
func (s *Surface) IsEmpty() bool {
	for t := range s.discs {
		for v := 0; v < 4; v++ {
			if s.TriangleCoord(t, v).Sign() != 0 {
				return false
			}
		}
	}
	return !s.hasQuadsOrOcts()
}

func (s *Surface) hasQuadsOrOcts() bool {
	for t := range s.discs {
		for q := 0; q < 3; q++ {
			if s.QuadCoord(t, q).Sign() != 0 || s.discs[t].oct[q].Sign() != 0 {
				return true
			}
		}
	}
	return false
}

// IsVertexLinking reports if this non-empty surface consists of triangles only.
func (s *Surface) IsVertexLinking() bool {
	return !s.IsEmpty() && !s.hasQuadsOrOcts()
}

// Octagon returns the first tetrahedron and octagon type with a non-zero count.
func (s *Surface) Octagon() (tet, o int, found bool) {
	for t := range s.discs {
		for o := 0; o < 3; o++ {
			if s.discs[t].oct[o].Sign() != 0 {
				return t, o, true
			}
		}
	}
	return -1, -1, false
}

// IsLocallyEmbeddable checks the embedding constraints: at most one quad type per tetrahedron, and at most
// one octagon type overall, in a tetrahedron without quads.
func (s *Surface) IsLocallyEmbeddable() bool {
	return embeddable(s, nil)
}

// IsCompatible reports if this surface and other can be embedded together, that is if their sum
// satisfies the embedding constraints.
func (s *Surface) IsCompatible(other *Surface) bool {
	if s.tri != other.tri {
		return false
	}
	return embeddable(s, other)
}

func embeddable(a, b *Surface) bool {
	octTet, octType := -1, -1
	for t := range a.discs {
		quads, octs := 0, 0
		for q := 0; q < 3; q++ {
			if a.QuadCoord(t, q).Sign() != 0 || (b != nil && b.QuadCoord(t, q).Sign() != 0) {
				quads++
			}
			if a.discs[t].oct[q].Sign() != 0 || (b != nil && b.discs[t].oct[q].Sign() != 0) {
				octs++
				if octTet >= 0 && (octTet != t || octType != q) {
					return false
				}
				octTet, octType = t, q
			}
		}
		if quads > 1 || (octs > 0 && quads > 0) {
			return false
		}
	}
	return true
}

// EulerChar returns the Euler characteristic of this surface: points on edges, less arcs on triangles, plus discs.
func (s *Surface) EulerChar() *big.Int {
	chi := new(big.Int)
	for e := 0; e < s.tri.CountFaces(1); e++ {
		chi.Add(chi, s.EdgeWeight(e))
	}
	for f := 0; f < s.tri.CountFaces(2); f++ {
		for i := 0; i < 3; i++ {
			chi.Sub(chi, s.FaceArcs(f, i))
		}
	}
	for t := range s.discs {
		for v := 0; v < 4; v++ {
			chi.Add(chi, s.TriangleCoord(t, v))
		}
		for q := 0; q < 3; q++ {
			chi.Add(chi, s.QuadCoord(t, q))
			chi.Add(chi, &s.discs[t].oct[q])
		}
	}
	return chi
}

// SatisfiesMatching reports if this surface's vector lies in the kernel of its matching equations.
func (s *Surface) SatisfiesMatching() bool {
	m, err := MatchingEquations(s.tri, s.coords)
	if err != nil {
		return false
	}
	return m.MulVec(s.vec).IsZero()
}

// StandardVector returns this surface in Standard coordinates, or AlmostNormal when it has octagons.
func (s *Surface) StandardVector() matrix.Vec {
	coords := Standard
	if _, _, found := s.Octagon(); found {
		coords = AlmostNormal
	}
	vec := matrix.NewVec(coords.Len(len(s.discs)))
	for t := range s.discs {
		for v := 0; v < 4; v++ {
			vec[coords.triIndex(t, v, 0)].Set(s.TriangleCoord(t, v))
		}
		for q := 0; q < 3; q++ {
			vec[coords.quadIndex(t, q, 0)].Set(s.QuadCoord(t, q))
			if coords == AlmostNormal {
				vec[coords.octIndex(t, q)].Set(&s.discs[t].oct[q])
			}
		}
	}
	return vec
}

func (s *Surface) String() string {
	return s.coords.String() + " " + s.vec.String()
}
