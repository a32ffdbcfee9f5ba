package libtri

import (
	"sort"

	"github.com/2x3systems/gotri/gotri"
	"github.com/pkg/errors"
)

func (tri *Triangulation) CountComponents() int {
	return len(tri.ensureSkeleton().components)
}

func (tri *Triangulation) Component(i int) *Component {
	return tri.ensureSkeleton().components[i]
}

func (tri *Triangulation) Components() []*Component {
	return tri.ensureSkeleton().components
}

// CountFaces returns the number of k-faces, 0 <= k <= d; k = d counts top-dimensional simplices.
func (tri *Triangulation) CountFaces(k int) int {
	if k == tri.dim {
		return len(tri.simplices)
	}
	return len(tri.ensureSkeleton().faces[k])
}

func (tri *Triangulation) Face(k, i int) *Face {
	return tri.ensureSkeleton().faces[k][i]
}

// Faces returns all k-faces, 0 <= k < d.  The slice must not be modified.
func (tri *Triangulation) Faces(k int) []*Face {
	return tri.ensureSkeleton().faces[k]
}

// FVector returns the face counts f_0, ..., f_d.
func (tri *Triangulation) FVector() []int {
	return tri.ensureSkeleton().fVector()
}

// EulerCharTri returns the alternating sum of the f-vector.
func (tri *Triangulation) EulerCharTri() int {
	chi := 0
	for k, fk := range tri.FVector() {
		if k&1 == 0 {
			chi += fk
		} else {
			chi -= fk
		}
	}
	return chi
}

// EulerCharManifold returns the Euler characteristic of the compact manifold obtained by
// truncating ideal and invalid vertices and, in dimension 3, invalid edges.
// It differs from EulerCharTri only for ideal or invalid triangulations.
func (tri *Triangulation) EulerCharManifold() (int, error) {
	if err := tri.checkStandard("manifold euler characteristic"); err != nil {
		return 0, err
	}
	chi := tri.EulerCharTri()
	if tri.dim != 3 {
		return chi, nil
	}
	for _, v := range tri.Faces(0) {
		if v.linkType == LinkIdeal || v.linkType == LinkInvalid {
			chi += v.linkEuler - 1
		}
	}
	for _, e := range tri.Faces(1) {
		if !e.IsValid() {
			chi++
		}
	}
	return chi, nil
}

// IsValid reports that no face is identified with itself by a non-identity map and,
// in standard dimensions, that every vertex link is of an allowed type.
func (tri *Triangulation) IsValid() bool {
	return tri.ensureSkeleton().valid
}

func (tri *Triangulation) IsOrientable() bool {
	for _, comp := range tri.ensureSkeleton().components {
		if !comp.orientable {
			return false
		}
	}
	return true
}

// IsOriented reports if every gluing permutation is odd.
func (tri *Triangulation) IsOriented() bool {
	for _, simp := range tri.simplices {
		for f, adj := range simp.adj {
			if adj != nil && simp.gluing[f].Sign() > 0 {
				return false
			}
		}
	}
	return true
}

func (tri *Triangulation) IsConnected() bool {
	return len(tri.ensureSkeleton().components) <= 1
}

// IsClosed reports that there are no boundary components, real or ideal.
func (tri *Triangulation) IsClosed() bool {
	return len(tri.ensureSkeleton().boundary) == 0
}

// HasBoundaryFacets reports if some facet is unglued.
func (tri *Triangulation) HasBoundaryFacets() bool {
	return 2*tri.CountFaces(tri.dim-1) > (tri.dim+1)*len(tri.simplices)
}

func (tri *Triangulation) CountBoundaryFacets() int {
	return 2*tri.CountFaces(tri.dim-1) - (tri.dim+1)*len(tri.simplices)
}

func (tri *Triangulation) CountBoundaryComponents() int {
	return len(tri.ensureSkeleton().boundary)
}

func (tri *Triangulation) BoundaryComponent(i int) *BoundaryComponent {
	return tri.ensureSkeleton().boundary[i]
}

func (tri *Triangulation) BoundaryComponents() []*BoundaryComponent {
	return tri.ensureSkeleton().boundary
}

func (tri *Triangulation) checkStandard(query string) error {
	if !IsStandardDim(tri.dim) {
		return errors.Wrapf(gotri.ErrCapabilityAbsent, "%s in dimension %d", query, tri.dim)
	}
	return nil
}

// IsIdeal reports if some vertex link is a closed surface other than a sphere.
func (tri *Triangulation) IsIdeal() (bool, error) {
	n, err := tri.CountIdealVertices()
	return n > 0, err
}

func (tri *Triangulation) CountIdealVertices() (int, error) {
	if err := tri.checkStandard("ideal vertices"); err != nil {
		return 0, err
	}
	return tri.ensureSkeleton().idealVertices, nil
}

// IdealVertices returns the vertices with closed non-sphere links.
func (tri *Triangulation) IdealVertices() ([]*Face, error) {
	if err := tri.checkStandard("ideal vertices"); err != nil {
		return nil, err
	}
	var ideal []*Face
	for _, v := range tri.ensureSkeleton().faces[0] {
		if v.linkType == LinkIdeal {
			ideal = append(ideal, v)
		}
	}
	return ideal, nil
}

// HasBadLinks reports if some vertex link is of a forbidden type.
func (tri *Triangulation) HasBadLinks() (bool, error) {
	if err := tri.checkStandard("link validity"); err != nil {
		return false, err
	}
	return tri.ensureSkeleton().badLinks, nil
}

// ComponentSizes returns the simplex count of each component, ascending.
func (tri *Triangulation) ComponentSizes() []int {
	comps := tri.ensureSkeleton().components
	sizes := make([]int, len(comps))
	for i, comp := range comps {
		sizes[i] = len(comp.simplices)
	}
	sort.Ints(sizes)
	return sizes
}
