package libtri

import (
	"fmt"

	"github.com/2x3systems/gotri/libtri/perm"
)

// LinkType classifies the link of a vertex in a 3-dimensional triangulation.
type LinkType int8

const (
	LinkUnknown LinkType = iota
	LinkSphere           // closed, Euler characteristic 2
	LinkDisc             // bounded, Euler characteristic 1
	LinkIdeal            // closed, any other surface
	LinkInvalid          // bounded, not a disc
)

func (lt LinkType) String() string {
	switch lt {
	case LinkSphere:
		return "sphere"
	case LinkDisc:
		return "disc"
	case LinkIdeal:
		return "ideal"
	case LinkInvalid:
		return "invalid"
	}
	return "unknown"
}

// FaceEmbedding is one appearance of a face inside a top-dimensional simplex.
type FaceEmbedding struct {
	simp    *Simplex
	face    int
	mapping perm.Perm
}

func (emb FaceEmbedding) Simplex() *Simplex { return emb.simp }

// Face returns the face number inside the simplex.
func (emb FaceEmbedding) Face() int { return emb.face }

// Vertices returns the vertex mapping: images 0..k name the face vertices inside the simplex.
func (emb FaceEmbedding) Vertices() perm.Perm { return emb.mapping }

func (emb FaceEmbedding) String() string {
	return fmt.Sprintf("%d (%v)", emb.simp.index, emb.mapping)
}

// Face is an equivalence class of k-faces of top-dimensional simplices under the gluings, 0 <= k < d.
// Face objects live in the skeleton arena and are invalidated by any structural change.
type Face struct {
	skel       *skeleton
	subdim     int
	index      int
	embeddings []FaceEmbedding
	component  int32
	boundary   int32

	badIdentification bool
	badLink           bool
	linkNonOrientable bool
	onBoundary        bool

	linkType  LinkType
	linkEuler int
}

func (face *Face) Subdim() int { return face.subdim }

// Index returns the position of this face among all faces of its subdimension.
func (face *Face) Index() int { return face.index }

// Degree returns the number of embeddings.
func (face *Face) Degree() int { return len(face.embeddings) }

func (face *Face) Front() FaceEmbedding { return face.embeddings[0] }

func (face *Face) Back() FaceEmbedding { return face.embeddings[len(face.embeddings)-1] }

func (face *Face) Embedding(i int) FaceEmbedding { return face.embeddings[i] }

// Embeddings returns all appearances; for ridges these are in walk order around the ridge.
func (face *Face) Embeddings() []FaceEmbedding { return face.embeddings }

// VertexMapping returns the vertex mapping of the i-th embedding.
func (face *Face) VertexMapping(i int) perm.Perm {
	return face.embeddings[i].mapping
}

// IsValid reports that the face is not identified with itself by a non-identity map and,
// in standard dimensions, that its link is of the expected type.
func (face *Face) IsValid() bool {
	return !face.badIdentification && !face.badLink
}

func (face *Face) HasBadIdentification() bool { return face.badIdentification }

func (face *Face) HasBadLink() bool { return face.badLink }

func (face *Face) IsLinkOrientable() bool { return !face.linkNonOrientable }

// IsBoundary reports if this face lies in a real or ideal boundary component.
func (face *Face) IsBoundary() bool { return face.boundary >= 0 }

func (face *Face) Component() *Component {
	return face.skel.components[face.component]
}

// BoundaryComponent returns the boundary component containing this face, or nil.
func (face *Face) BoundaryComponent() *BoundaryComponent {
	if face.boundary < 0 {
		return nil
	}
	return face.skel.boundary[face.boundary]
}

// Vertex returns the vertex of the triangulation at vertex i (0 <= i <= k) of this face.
func (face *Face) Vertex(i int) *Face {
	emb := face.embeddings[0]
	return emb.simp.Face(0, emb.mapping.Image(i))
}

// SubFace returns the j-face of the triangulation spanned by face vertices verts (ascending within the face).
func (face *Face) SubFace(j int, verts ...int) *Face {
	emb := face.embeddings[0]
	images := make([]int, len(verts))
	for i, v := range verts {
		images[i] = emb.mapping.Image(v)
	}
	tab := emb.simp.tri.tab
	return emb.simp.Face(j, int(tab.faceIndex[vertexMask(images)]))
}

// LinkType returns the link classification of a vertex of a 3-dimensional triangulation.
func (face *Face) LinkType() LinkType { return face.linkType }

// LinkEulerChar returns the Euler characteristic of the link of a vertex of a 3-dimensional triangulation.
func (face *Face) LinkEulerChar() int { return face.linkEuler }

// IsIdeal reports if this is a vertex of a 3-dimensional triangulation whose link is a closed surface other than a sphere.
func (face *Face) IsIdeal() bool { return face.linkType == LinkIdeal }

func (face *Face) String() string {
	return fmt.Sprintf("%d-face %d: deg %d, %v", face.subdim, face.index, len(face.embeddings), face.embeddings)
}

// Component is a connected piece of the dual graph.
type Component struct {
	skel               *skeleton
	index              int
	simplices          []*Simplex
	faces              [][]*Face
	boundaryComponents []*BoundaryComponent
	orientable         bool
	boundaryFacets     int
}

func (comp *Component) Index() int { return comp.index }

func (comp *Component) Size() int { return len(comp.simplices) }

func (comp *Component) Simplex(i int) *Simplex { return comp.simplices[i] }

func (comp *Component) Simplices() []*Simplex { return comp.simplices }

func (comp *Component) CountFaces(k int) int { return len(comp.faces[k]) }

func (comp *Component) Face(k, i int) *Face { return comp.faces[k][i] }

func (comp *Component) IsOrientable() bool { return comp.orientable }

func (comp *Component) CountBoundaryFacets() int { return comp.boundaryFacets }

func (comp *Component) IsClosed() bool { return len(comp.boundaryComponents) == 0 }

func (comp *Component) CountBoundaryComponents() int { return len(comp.boundaryComponents) }

func (comp *Component) BoundaryComponent(i int) *BoundaryComponent { return comp.boundaryComponents[i] }

// BoundaryComponent is a connected piece of the boundary: either a union of boundary facets
// sharing ridges (real) or a single ideal vertex.
type BoundaryComponent struct {
	skel      *skeleton
	index     int
	component int32
	facets    []*Face
	faces     [][]*Face // faces[k] for k < d-1, all faces lying on this component
	ideal     *Face
}

func (bc *BoundaryComponent) Index() int { return bc.index }

func (bc *BoundaryComponent) IsIdeal() bool { return bc.ideal != nil }

func (bc *BoundaryComponent) IsReal() bool { return bc.ideal == nil }

// IdealVertex returns the vertex of an ideal boundary component, or nil for a real one.
func (bc *BoundaryComponent) IdealVertex() *Face { return bc.ideal }

func (bc *BoundaryComponent) CountFacets() int { return len(bc.facets) }

func (bc *BoundaryComponent) Facet(i int) *Face { return bc.facets[i] }

// CountFaces returns the number of k-faces on this component; k = d-1 counts facets.
func (bc *BoundaryComponent) CountFaces(k int) int {
	if k == len(bc.faces) {
		return len(bc.facets)
	}
	return len(bc.faces[k])
}

func (bc *BoundaryComponent) Face(k, i int) *Face {
	if k == len(bc.faces) {
		return bc.facets[i]
	}
	return bc.faces[k][i]
}

func (bc *BoundaryComponent) Component() *Component {
	return bc.skel.components[bc.component]
}
