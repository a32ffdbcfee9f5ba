package surfaces

import (
	"strings"

	"github.com/2x3systems/gotri/gotri"
	"github.com/pkg/errors"
)

// Coords names a normal surface coordinate system.
type Coords int32

const (
	Standard         Coords = iota // 4 triangles + 3 quads per tetrahedron
	AlmostNormal                   // Standard + 3 octagons
	Quad                           // 3 quads
	QuadOct                        // 3 quads + 3 octagons
	OrientedStandard               // Standard with each disc type split by transverse orientation
	OrientedQuad                   // Quad with each disc type split by transverse orientation

	numCoords
)

var coordsNames = [numCoords]string{
	"standard",
	"almost-normal",
	"quad",
	"quad-oct",
	"oriented-standard",
	"oriented-quad",
}

func (c Coords) IsValid() bool {
	return c >= 0 && c < numCoords
}

func (c Coords) String() string {
	if !c.IsValid() {
		return "unknown"
	}
	return coordsNames[c]
}

// ParseCoords accepts the names printed by Coords.String, ignoring case.
func ParseCoords(name string) (Coords, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for c, cname := range coordsNames {
		if cname == name {
			return Coords(c), nil
		}
	}
	return 0, errors.Wrapf(gotri.ErrBadCoords, "%q", name)
}

// HasTriangles reports if triangle coordinates are stored rather than recovered.
func (c Coords) HasTriangles() bool {
	return c == Standard || c == AlmostNormal || c == OrientedStandard
}

func (c Coords) IsAlmostNormal() bool {
	return c == AlmostNormal || c == QuadOct
}

func (c Coords) IsOriented() bool {
	return c == OrientedStandard || c == OrientedQuad
}

// PerTet returns the number of coordinates per tetrahedron.
func (c Coords) PerTet() int {
	n := 3
	if c.HasTriangles() {
		n += 4
	}
	if c.IsAlmostNormal() {
		n += 3
	}
	if c.IsOriented() {
		n *= 2
	}
	return n
}

// Len returns the vector length for a triangulation of the given size.
func (c Coords) Len(tets int) int {
	return c.PerTet() * tets
}

func (c Coords) sides() int {
	if c.IsOriented() {
		return 2
	}
	return 1
}

// triIndex, quadIndex and octIndex locate a disc type within the vector; side is 0 unless oriented.
func (c Coords) triIndex(tet, v, side int) int {
	return c.PerTet()*tet + v*c.sides() + side
}

func (c Coords) quadIndex(tet, q, side int) int {
	offset := 0
	if c.HasTriangles() {
		offset = 4
	}
	return c.PerTet()*tet + (offset+q)*c.sides() + side
}

func (c Coords) octIndex(tet, o int) int {
	offset := 3
	if c.HasTriangles() {
		offset = 7
	}
	return c.PerTet()*tet + offset + o
}

var (
	// QuadDefn[q] lists the vertex pairs kept together by quad type q: {a, b} | {c, d}.
	QuadDefn = [3][4]int{
		{0, 1, 2, 3},
		{0, 2, 1, 3},
		{0, 3, 1, 2},
	}

	// QuadSeparating[a][b] is the quad type that keeps vertices a and b together, or -1 if a == b.
	QuadSeparating = [4][4]int{
		{-1, 0, 1, 2},
		{0, -1, 2, 1},
		{1, 2, -1, 0},
		{2, 1, 0, -1},
	}

	// QuadPartner[q][v] is the vertex kept with v by quad type q.
	QuadPartner = [3][4]int{
		{1, 0, 3, 2},
		{2, 3, 0, 1},
		{3, 2, 1, 0},
	}

	// EdgeVertex[e] gives the endpoints of tetrahedron edge e, matching libtri's edge numbering.
	EdgeVertex = [6][2]int{
		{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3},
	}

	// EdgeNumber[a][b] is the tetrahedron edge joining a and b, or -1 if a == b.
	EdgeNumber = [4][4]int{
		{-1, 0, 1, 2},
		{0, -1, 3, 4},
		{1, 3, -1, 5},
		{2, 4, 5, -1},
	}
)

// quadSide returns which oriented copy of quad q points towards vertex v when side
// is the orientation of an arc towards v; the positive quad side faces the pair holding vertex 0.
func quadSide(q, v, side int) int {
	if v == 0 || QuadPartner[q][v] == 0 {
		return side
	}
	return 1 - side
}

// quadArcIndex locates quad q of tet as met by a normal arc around v oriented by side.
func (c Coords) quadArcIndex(tet, q, v, side int) int {
	if c.IsOriented() {
		side = quadSide(q, v, side)
	}
	return c.quadIndex(tet, q, side)
}
