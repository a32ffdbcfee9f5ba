package libtri

import (
	"math/rand"
	"strconv"
	"strings"

	"github.com/2x3systems/gotri/gotri"
	"github.com/2x3systems/gotri/libtri/perm"
	"github.com/pkg/errors"
)

// Isomorphism maps simplex i of a source triangulation to simplex SimpImage(i) of a destination,
// sending vertex v of simplex i to vertex FacetPerm(i)(v) of its image.
type Isomorphism struct {
	dim       int
	simpImage []int
	facetPerm []perm.Perm
}

// NewIsomorphism returns the identity isomorphism on size simplices of the given dimension.
func NewIsomorphism(dim, size int) *Isomorphism {
	iso := &Isomorphism{
		dim:       dim,
		simpImage: make([]int, size),
		facetPerm: make([]perm.Perm, size),
	}
	id := perm.Identity(dim + 1)
	for i := range iso.simpImage {
		iso.simpImage[i] = i
		iso.facetPerm[i] = id
	}
	return iso
}

// RandomIsomorphism returns a uniformly random relabelling of size simplices.
func RandomIsomorphism(dim, size int, rng *rand.Rand) *Isomorphism {
	iso := NewIsomorphism(dim, size)
	copy(iso.simpImage, rng.Perm(size))
	for i := range iso.facetPerm {
		iso.facetPerm[i] = perm.MustFromImages(rng.Perm(dim + 1)...)
	}
	return iso
}

func (iso *Isomorphism) Dimension() int { return iso.dim }

func (iso *Isomorphism) Size() int { return len(iso.simpImage) }

func (iso *Isomorphism) SimpImage(i int) int { return iso.simpImage[i] }

func (iso *Isomorphism) FacetPerm(i int) perm.Perm { return iso.facetPerm[i] }

func (iso *Isomorphism) SetSimpImage(i, img int) { iso.simpImage[i] = img }

func (iso *Isomorphism) SetFacetPerm(i int, p perm.Perm) { iso.facetPerm[i] = p }

// Clone returns an independent copy.
func (iso *Isomorphism) Clone() *Isomorphism {
	return &Isomorphism{
		dim:       iso.dim,
		simpImage: append([]int(nil), iso.simpImage...),
		facetPerm: append([]perm.Perm(nil), iso.facetPerm...),
	}
}

func (iso *Isomorphism) IsIdentity() bool {
	for i, img := range iso.simpImage {
		if img != i || !iso.facetPerm[i].IsIdentity() {
			return false
		}
	}
	return true
}

// isBijection reports if the simplex images are a permutation of 0..size-1.
func (iso *Isomorphism) isBijection() bool {
	seen := make([]bool, len(iso.simpImage))
	for _, img := range iso.simpImage {
		if img < 0 || img >= len(seen) || seen[img] {
			return false
		}
		seen[img] = true
	}
	return true
}

// Inverse returns the inverse of a bijective isomorphism.
func (iso *Isomorphism) Inverse() *Isomorphism {
	inv := NewIsomorphism(iso.dim, len(iso.simpImage))
	for i, img := range iso.simpImage {
		inv.simpImage[img] = i
		inv.facetPerm[img] = iso.facetPerm[i].Inverse()
	}
	return inv
}

// Then returns the composition that applies iso first and next second.
func (iso *Isomorphism) Then(next *Isomorphism) *Isomorphism {
	comp := NewIsomorphism(iso.dim, len(iso.simpImage))
	for i, img := range iso.simpImage {
		comp.simpImage[i] = next.simpImage[img]
		comp.facetPerm[i] = next.facetPerm[img].Compose(iso.facetPerm[i])
	}
	return comp
}

func (iso *Isomorphism) checkApplies(tri *Triangulation) error {
	if iso.dim != tri.dim || len(iso.simpImage) != len(tri.simplices) {
		return errors.Wrapf(gotri.ErrSizeMismatch, "isomorphism of %d %d-simplices applied to %d %d-simplices",
			len(iso.simpImage), iso.dim, len(tri.simplices), tri.dim)
	}
	if !iso.isBijection() {
		return errors.Wrap(gotri.ErrInvalidArgument, "isomorphism is not a bijection")
	}
	return nil
}

// Apply returns a new triangulation: tri relabelled by this isomorphism.
func (iso *Isomorphism) Apply(tri *Triangulation) (*Triangulation, error) {
	if err := iso.checkApplies(tri); err != nil {
		return nil, err
	}
	dup := tri.Clone()
	iso.applyInPlace(dup)
	return dup, nil
}

// ApplyInPlace relabels tri.  Simplex objects are kept; only their indices and gluings change.
func (iso *Isomorphism) ApplyInPlace(tri *Triangulation) error {
	if err := iso.checkApplies(tri); err != nil {
		return err
	}
	iso.applyInPlace(tri)
	return nil
}

func (iso *Isomorphism) applyInPlace(tri *Triangulation) {
	span := tri.StartChanges()
	defer span.End()

	n := len(tri.simplices)
	dim := tri.dim
	ordered := make([]*Simplex, n)
	adjs := make([][]*Simplex, n)
	gluings := make([][]perm.Perm, n)
	for i, simp := range tri.simplices {
		img := iso.simpImage[i]
		p := iso.facetPerm[i]
		pInv := p.Inverse()
		ordered[img] = simp
		adjs[img] = make([]*Simplex, dim+1)
		gluings[img] = make([]perm.Perm, dim+1)
		for f, adj := range simp.adj {
			if adj == nil {
				continue
			}
			F := p.Image(f)
			adjs[img][F] = adj
			gluings[img][F] = iso.facetPerm[adj.index].Compose(simp.gluing[f]).Compose(pInv)
		}
	}
	for i, simp := range ordered {
		simp.index = i
		simp.adj = adjs[i]
		simp.gluing = gluings[i]
	}
	tri.simplices = ordered
}

func (iso *Isomorphism) String() string {
	b := strings.Builder{}
	for i, img := range iso.simpImage {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Itoa(i))
		b.WriteString(" -> ")
		b.WriteString(strconv.Itoa(img))
		b.WriteString(" (")
		b.WriteString(iso.facetPerm[i].String())
		b.WriteByte(')')
	}
	return b.String()
}

// IdentityIsomorphism is NewIsomorphism, named for call sites that want to say so.
func IdentityIsomorphism(dim, size int) *Isomorphism {
	return NewIsomorphism(dim, size)
}
