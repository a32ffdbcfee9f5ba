package surfaces

import (
	"github.com/2x3systems/gotri/gotri"
	"github.com/2x3systems/gotri/libtri"
	"github.com/2x3systems/gotri/libtri/matrix"
	"github.com/pkg/errors"
)

func checkTriangulation(tri *libtri.Triangulation, coords Coords) error {
	if tri.Dimension() != 3 {
		return errors.Wrapf(gotri.ErrNotSimplicial3D, "dimension %d", tri.Dimension())
	}
	if !coords.IsValid() {
		return errors.Wrapf(gotri.ErrBadCoords, "coords=%d", coords)
	}
	return nil
}

// MatchingEquations returns the matrix M with M·v = 0 for every normal surface vector v in coords.
//
// Systems with stored triangles get three face equations per internal triangle (six when oriented),
// one per normal arc type, so 3(4t-B)/2 rows for t tetrahedra with B boundary facets.
// Quad systems instead get one edge equation per internal edge (two when oriented),
// obtained by summing the face equations around the edge so that the triangles cancel.
// Both systems have the same solution space on quad coordinates; only the row count differs.
func MatchingEquations(tri *libtri.Triangulation, coords Coords) (*matrix.Int, error) {
	if err := checkTriangulation(tri, coords); err != nil {
		return nil, err
	}
	cols := coords.Len(tri.Size())
	var rows [][]int64
	if coords.HasTriangles() {
		rows = faceEquations(tri, coords, cols)
	} else {
		rows = edgeEquations(tri, coords, cols)
	}

	m := matrix.NewInt(len(rows), cols)
	for i, row := range rows {
		for j, val := range row {
			if val != 0 {
				m.SetInt64(i, j, val)
			}
		}
	}
	return m, nil
}

// addArc adds sign times the discs in tet meeting the normal arc around vertex v
// on the face opposite vertex opp, oriented by side.
func addArc(row []int64, coords Coords, tet, v, opp, side int, sign int64) {
	q := QuadSeparating[v][opp]
	if coords.HasTriangles() {
		row[coords.triIndex(tet, v, side)] += sign
	}
	row[coords.quadArcIndex(tet, q, v, side)] += sign
	if coords.IsAlmostNormal() {
		for o := 0; o < 3; o++ {
			if o != q {
				row[coords.octIndex(tet, o)] += sign
			}
		}
	}
}

func faceEquations(tri *libtri.Triangulation, coords Coords, cols int) [][]int64 {
	var rows [][]int64
	for _, face := range tri.Faces(2) {
		if face.Degree() != 2 {
			continue
		}
		front, back := face.Front(), face.Back()
		m0, m1 := front.Vertices(), back.Vertices()
		t0, t1 := front.Simplex().Index(), back.Simplex().Index()
		for i := 0; i < 3; i++ {
			for side := 0; side < coords.sides(); side++ {
				row := make([]int64, cols)
				addArc(row, coords, t0, m0.Image(i), m0.Image(3), side, +1)
				addArc(row, coords, t1, m1.Image(i), m1.Image(3), side, -1)
				rows = append(rows, row)
			}
		}
	}
	return rows
}

// edgeEquations walks the embeddings of each internal edge: embedding i leaves through the face
// opposite vertex 3 of its mapping and the next embedding is entered through the face opposite vertex 2.
func edgeEquations(tri *libtri.Triangulation, coords Coords, cols int) [][]int64 {
	var rows [][]int64
	for _, edge := range tri.Faces(1) {
		if edge.IsBoundary() {
			continue
		}
		for side := 0; side < coords.sides(); side++ {
			row := make([]int64, cols)
			for _, emb := range edge.Embeddings() {
				m := emb.Vertices()
				tet := emb.Simplex().Index()
				v := m.Image(0)
				qa := QuadSeparating[v][m.Image(2)]
				qb := QuadSeparating[v][m.Image(3)]
				row[coords.quadArcIndex(tet, qa, v, side)]++
				row[coords.quadArcIndex(tet, qb, v, side)]--
				if coords.IsAlmostNormal() {
					row[coords.octIndex(tet, qa)]--
					row[coords.octIndex(tet, qb)]++
				}
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// SolutionBasis returns an integer basis of the kernel of the matching equations.
// Basis vectors may have negative entries and so need not be surfaces themselves.
func SolutionBasis(tri *libtri.Triangulation, coords Coords) ([]matrix.Vec, error) {
	m, err := MatchingEquations(tri, coords)
	if err != nil {
		return nil, err
	}
	return m.KernelBasis(), nil
}
