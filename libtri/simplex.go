package libtri

import (
	"fmt"

	"github.com/2x3systems/gotri/gotri"
	"github.com/2x3systems/gotri/libtri/perm"
	"github.com/pkg/errors"
)

// Simplex is a top-dimensional simplex, exclusively owned by one Triangulation.
//
// For each facet f, adj[f] is the simplex glued to f (nil for a boundary facet) and
// gluing[f] sends the vertices of this simplex to the vertices of adj[f], so that facet f
// is identified with facet gluing[f](f) of adj[f].
type Simplex struct {
	tri    *Triangulation
	index  int
	desc   string
	adj    []*Simplex
	gluing []perm.Perm
}

func (simp *Simplex) Triangulation() *Triangulation {
	return simp.tri
}

// Index returns the position of this simplex in its triangulation.
func (simp *Simplex) Index() int {
	return simp.index
}

func (simp *Simplex) Description() string {
	return simp.desc
}

func (simp *Simplex) SetDescription(desc string) {
	simp.desc = desc
}

// Adjacent returns the simplex glued to facet f, or nil if f is a boundary facet.
func (simp *Simplex) Adjacent(f int) *Simplex {
	return simp.adj[f]
}

// AdjacentFacet returns the facet of Adjacent(f) that f is glued to, or -1 for a boundary facet.
func (simp *Simplex) AdjacentFacet(f int) int {
	if simp.adj[f] == nil {
		return -1
	}
	return simp.gluing[f].Image(f)
}

// AdjacentGluing returns the gluing permutation across facet f (meaningless for a boundary facet).
func (simp *Simplex) AdjacentGluing(f int) perm.Perm {
	return simp.gluing[f]
}

// HasBoundary reports if any facet of this simplex is unglued.
func (simp *Simplex) HasBoundary() bool {
	for _, adj := range simp.adj {
		if adj == nil {
			return true
		}
	}
	return false
}

// Join glues facet f of this simplex to facet g(f) of other using gluing permutation g.
//
// Both facets must be unglued.  A simplex may be glued to itself provided g(f) != f;
// the partner facet then carries g⁻¹.
func (simp *Simplex) Join(f int, other *Simplex, g perm.Perm) error {
	tri := simp.tri
	if tri == nil || other == nil || other.tri != tri {
		return errors.Wrap(gotri.ErrBadSimplex, "simplices belong to different triangulations")
	}
	if f < 0 || f > tri.dim {
		return errors.Wrapf(gotri.ErrBadFacet, "facet %d", f)
	}
	if g.N() != tri.dim+1 {
		return errors.Wrapf(gotri.ErrBadPerm, "gluing %v acts on %d points, want %d", g, g.N(), tri.dim+1)
	}
	of := g.Image(f)
	if other == simp && of == f {
		return errors.Wrapf(gotri.ErrBadSelfGluing, "simplex %d facet %d via %v", simp.index, f, g)
	}
	if simp.adj[f] != nil {
		return errors.Wrapf(gotri.ErrFacetGlued, "simplex %d facet %d", simp.index, f)
	}
	if other.adj[of] != nil {
		return errors.Wrapf(gotri.ErrFacetGlued, "simplex %d facet %d", other.index, of)
	}

	span := tri.StartChanges()
	defer span.End()

	simp.adj[f] = other
	simp.gluing[f] = g
	other.adj[of] = simp
	other.gluing[of] = g.Inverse()
	return nil
}

// Unjoin unglues facet f and returns the simplex that was glued there, or nil if f was already a boundary facet.
func (simp *Simplex) Unjoin(f int) *Simplex {
	adj := simp.adj[f]
	if adj == nil {
		return nil
	}
	span := simp.tri.StartChanges()
	defer span.End()

	of := simp.gluing[f].Image(f)
	adj.adj[of] = nil
	simp.adj[f] = nil
	return adj
}

// Isolate unglues every facet of this simplex.
func (simp *Simplex) Isolate() {
	span := simp.tri.StartChanges()
	defer span.End()

	simp.isolate()
}

func (simp *Simplex) isolate() {
	for f := range simp.adj {
		if adj := simp.adj[f]; adj != nil {
			adj.adj[simp.gluing[f].Image(f)] = nil
			simp.adj[f] = nil
		}
	}
}

// Face returns the k-face of the triangulation appearing as face j of this simplex.
func (simp *Simplex) Face(k, j int) *Face {
	skel := simp.tri.ensureSkeleton()
	return skel.faces[k][skel.simpFace[k][simp.index*simp.tri.tab.faceCount[k]+j]]
}

// FaceMapping returns the vertex mapping of face j of subdimension k: its images 0..k are the
// vertices of this simplex spanning the face, in the face's canonical order.
func (simp *Simplex) FaceMapping(k, j int) perm.Perm {
	skel := simp.tri.ensureSkeleton()
	return skel.simpMap[k][simp.index*simp.tri.tab.faceCount[k]+j]
}

// Vertex returns the vertex of the triangulation at vertex v of this simplex.
func (simp *Simplex) Vertex(v int) *Face {
	return simp.Face(0, v)
}

// Component returns the connected component containing this simplex.
func (simp *Simplex) Component() *Component {
	skel := simp.tri.ensureSkeleton()
	return skel.components[skel.simpComponent[simp.index]]
}

// Orientation returns +1 or -1, the orientation of this simplex relative to the dual spanning forest.
// In a non-orientable component the value is still well defined but not globally consistent.
func (simp *Simplex) Orientation() int {
	skel := simp.tri.ensureSkeleton()
	return int(skel.simpOrient[simp.index])
}

// FacetInDualForest reports if the dual edge across facet f belongs to the dual spanning forest.
func (simp *Simplex) FacetInDualForest(f int) bool {
	skel := simp.tri.ensureSkeleton()
	return skel.simpForest[simp.index]&(1<<f) != 0
}

func (simp *Simplex) String() string {
	if simp.desc != "" {
		return fmt.Sprintf("%d (%s)", simp.index, simp.desc)
	}
	return fmt.Sprintf("%d", simp.index)
}
