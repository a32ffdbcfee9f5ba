package surfaces

import (
	"math/big"

	"github.com/2x3systems/gotri/gotri"
	"github.com/pkg/errors"
)

// arcExtra returns the non-triangle discs of tet meeting the arc around v on the face opposite opp,
// oriented by side.
func (s *Surface) arcExtra(tet, v, opp, side int) *big.Int {
	d := &s.discs[tet]
	q := QuadSeparating[v][opp]
	extra := new(big.Int)
	if s.coords.IsOriented() {
		extra.Set(&d.quad[quadSide(q, v, side)][q])
	} else {
		extra.Set(&d.quad[0][q])
	}
	if s.coords.IsAlmostNormal() {
		for o := 0; o < 3; o++ {
			if o != q {
				extra.Add(extra, &d.oct[o])
			}
		}
	}
	return extra
}

// recoverTriangles solves the face equations for triangle counts around each vertex of the triangulation,
// then shifts each vertex link so that its smallest triangle count is zero.
func (s *Surface) recoverTriangles() error {
	tri := s.tri
	type corner struct {
		tet, v int
	}
	assigned := make([][4]bool, tri.Size())

	for _, vertex := range tri.Faces(0) {
		embs := vertex.Embeddings()
		for side := 0; side < s.coords.sides(); side++ {
			start := embs[0]
			queue := []corner{{start.Simplex().Index(), start.Face()}}
			for _, emb := range embs {
				assigned[emb.Simplex().Index()][emb.Face()] = false
			}
			assigned[start.Simplex().Index()][start.Face()] = true
			s.discs[start.Simplex().Index()].tri[side][start.Face()].SetInt64(0)

			for qi := 0; qi < len(queue); qi++ {
				c := queue[qi]
				simp := tri.Simplex(c.tet)
				val := &s.discs[c.tet].tri[side][c.v]
				for f := 0; f < 4; f++ {
					adj := simp.Adjacent(f)
					if f == c.v || adj == nil {
						continue
					}
					g := simp.AdjacentGluing(f)
					next := corner{adj.Index(), g.Image(c.v)}

					expect := new(big.Int).Add(val, s.arcExtra(c.tet, c.v, f, side))
					expect.Sub(expect, s.arcExtra(next.tet, next.v, g.Image(f), side))

					nextVal := &s.discs[next.tet].tri[side][next.v]
					if assigned[next.tet][next.v] {
						if nextVal.Cmp(expect) != 0 {
							return errors.Wrapf(gotri.ErrBadVector, "%v vector has no finite normal representative near vertex %d", s.coords, vertex.Index())
						}
						continue
					}
					assigned[next.tet][next.v] = true
					nextVal.Set(expect)
					queue = append(queue, next)
				}
			}

			min := new(big.Int).Set(&s.discs[start.Simplex().Index()].tri[side][start.Face()])
			for _, c := range queue {
				if val := &s.discs[c.tet].tri[side][c.v]; val.Cmp(min) < 0 {
					min.Set(val)
				}
			}
			for _, c := range queue {
				val := &s.discs[c.tet].tri[side][c.v]
				val.Sub(val, min)
			}
		}
	}
	return nil
}
