package libtri

import (
	"sync"
	"sync/atomic"

	"github.com/2x3systems/gotri/gotri"
	"github.com/2x3systems/gotri/libtri/perm"
	"github.com/pkg/errors"
)

var gTriangulationID atomic.Uint64

// Triangulation is a d-dimensional triangulation built from top-dimensional simplices
// whose facets are glued in pairs by vertex permutations.
//
// All skeletal data (faces, components, boundary, orientation) is computed on first use
// and discarded by any structural change.  A Triangulation is not safe for concurrent
// mutation; independent triangulations may be used from separate goroutines.
type Triangulation struct {
	dim       int
	tab       *dimTables
	id        uint64
	revision  uint64
	simplices []*Simplex

	mu   sync.Mutex
	skel *skeleton

	changeDepth int
	listeners   map[uint64]func(tri *Triangulation)
	nextListen  uint64
}

// New returns an empty triangulation of the given dimension.
func New(dim int) (*Triangulation, error) {
	if dim < gotri.MinDim || dim > gotri.MaxDim {
		return nil, errors.Wrapf(gotri.ErrBadDimension, "dim=%d", dim)
	}
	return &Triangulation{
		dim: dim,
		tab: tablesFor(dim),
		id:  gTriangulationID.Add(1),
	}, nil
}

// MustNew is New for dimensions known to be supported.
func MustNew(dim int) *Triangulation {
	tri, err := New(dim)
	if err != nil {
		panic(err)
	}
	return tri
}

// ID returns a process-unique identifier for this triangulation.
func (tri *Triangulation) ID() uint64 {
	return tri.id
}

// Revision is incremented by every structural change.
func (tri *Triangulation) Revision() uint64 {
	return tri.revision
}

func (tri *Triangulation) Dimension() int {
	return tri.dim
}

// Size returns the number of top-dimensional simplices.
func (tri *Triangulation) Size() int {
	return len(tri.simplices)
}

func (tri *Triangulation) IsEmpty() bool {
	return len(tri.simplices) == 0
}

// Simplex returns the simplex at index i, or nil if out of range.
func (tri *Triangulation) Simplex(i int) *Simplex {
	if i < 0 || i >= len(tri.simplices) {
		return nil
	}
	return tri.simplices[i]
}

// Simplices returns the simplices in index order.  The slice must not be modified.
func (tri *Triangulation) Simplices() []*Simplex {
	return tri.simplices
}

func (tri *Triangulation) checkSimplex(i int) (*Simplex, error) {
	if i < 0 || i >= len(tri.simplices) {
		return nil, errors.Wrapf(gotri.ErrBadSimplex, "simplex %d of %d", i, len(tri.simplices))
	}
	return tri.simplices[i], nil
}

func (tri *Triangulation) newSimplex(desc string) *Simplex {
	n := tri.dim + 1
	simp := &Simplex{
		tri:    tri,
		index:  len(tri.simplices),
		desc:   desc,
		adj:    make([]*Simplex, n),
		gluing: make([]perm.Perm, n),
	}
	tri.simplices = append(tri.simplices, simp)
	return simp
}

// AddSimplex appends a new isolated simplex with the given (optional) description.
func (tri *Triangulation) AddSimplex(desc string) *Simplex {
	span := tri.StartChanges()
	defer span.End()

	return tri.newSimplex(desc)
}

// AddSimplices appends k new isolated simplices.
func (tri *Triangulation) AddSimplices(k int) []*Simplex {
	span := tri.StartChanges()
	defer span.End()

	added := make([]*Simplex, k)
	for i := range added {
		added[i] = tri.newSimplex("")
	}
	return added
}

// RemoveSimplex isolates and removes the given simplex; higher indices shift down by one.
func (tri *Triangulation) RemoveSimplex(simp *Simplex) error {
	if simp == nil || simp.tri != tri {
		return errors.Wrap(gotri.ErrBadSimplex, "simplex does not belong to this triangulation")
	}
	span := tri.StartChanges()
	defer span.End()

	simp.isolate()
	idx := simp.index
	copy(tri.simplices[idx:], tri.simplices[idx+1:])
	tri.simplices[len(tri.simplices)-1] = nil
	tri.simplices = tri.simplices[:len(tri.simplices)-1]
	for i := idx; i < len(tri.simplices); i++ {
		tri.simplices[i].index = i
	}
	simp.tri = nil
	simp.index = -1
	return nil
}

func (tri *Triangulation) RemoveSimplexAt(i int) error {
	simp, err := tri.checkSimplex(i)
	if err != nil {
		return err
	}
	return tri.RemoveSimplex(simp)
}

// RemoveAllSimplices empties this triangulation.
func (tri *Triangulation) RemoveAllSimplices() {
	span := tri.StartChanges()
	defer span.End()

	for _, simp := range tri.simplices {
		simp.tri = nil
		simp.index = -1
	}
	tri.simplices = nil
}

// Join glues facet f of simplex i to facet g(f) of simplex j.
func (tri *Triangulation) Join(i, f, j int, g perm.Perm) error {
	si, err := tri.checkSimplex(i)
	if err != nil {
		return err
	}
	sj, err := tri.checkSimplex(j)
	if err != nil {
		return err
	}
	return si.Join(f, sj, g)
}

// Unjoin unglues facet f of simplex i (and its partner facet).
func (tri *Triangulation) Unjoin(i, f int) error {
	si, err := tri.checkSimplex(i)
	if err != nil {
		return err
	}
	if f < 0 || f > tri.dim {
		return errors.Wrapf(gotri.ErrBadFacet, "facet %d", f)
	}
	if si.adj[f] == nil {
		return errors.Wrapf(gotri.ErrFacetNotGlued, "simplex %d facet %d", i, f)
	}
	si.Unjoin(f)
	return nil
}

// Clone returns a structural copy (simplices, descriptions and gluings) of this triangulation.
func (tri *Triangulation) Clone() *Triangulation {
	dup := MustNew(tri.dim)
	dup.InsertTriangulation(tri)
	return dup
}

// InsertTriangulation appends copies of the simplices of src, preserving their gluings.
func (tri *Triangulation) InsertTriangulation(src *Triangulation) error {
	if src.dim != tri.dim {
		return errors.Wrapf(gotri.ErrSizeMismatch, "cannot insert a %d-triangulation into a %d-triangulation", src.dim, tri.dim)
	}
	span := tri.StartChanges()
	defer span.End()

	// src may be tri itself, so fix the range before appending.
	base := len(tri.simplices)
	srcSimps := append([]*Simplex(nil), src.simplices...)
	for _, s := range srcSimps {
		tri.newSimplex(s.desc)
	}
	for i, s := range srcSimps {
		dst := tri.simplices[base+i]
		for f, adj := range s.adj {
			if adj != nil {
				dst.adj[f] = tri.simplices[base+adj.index]
				dst.gluing[f] = s.gluing[f]
			}
		}
	}
	return nil
}

// MoveContentsTo moves every simplex of this triangulation to the end of dest, leaving this triangulation empty.
func (tri *Triangulation) MoveContentsTo(dest *Triangulation) error {
	if dest == tri {
		return nil
	}
	if dest.dim != tri.dim {
		return errors.Wrapf(gotri.ErrSizeMismatch, "cannot move a %d-triangulation into a %d-triangulation", tri.dim, dest.dim)
	}
	srcSpan := tri.StartChanges()
	defer srcSpan.End()
	dstSpan := dest.StartChanges()
	defer dstSpan.End()

	for _, simp := range tri.simplices {
		simp.tri = dest
		simp.index = len(dest.simplices)
		dest.simplices = append(dest.simplices, simp)
	}
	tri.simplices = nil
	return nil
}

// IsIdenticalTo reports if both triangulations have the same dimension, size and gluings, label for label.
func (tri *Triangulation) IsIdenticalTo(other *Triangulation) bool {
	if tri.dim != other.dim || len(tri.simplices) != len(other.simplices) {
		return false
	}
	for i, s := range tri.simplices {
		o := other.simplices[i]
		for f, adj := range s.adj {
			oadj := o.adj[f]
			if (adj == nil) != (oadj == nil) {
				return false
			}
			if adj != nil && (adj.index != oadj.index || s.gluing[f] != o.gluing[f]) {
				return false
			}
		}
	}
	return true
}

// clearAllProperties discards the skeleton; every structural change goes through here.
func (tri *Triangulation) clearAllProperties() {
	tri.mu.Lock()
	tri.skel = nil
	tri.revision++
	tri.mu.Unlock()
}
