package libtri

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/2x3systems/gotri/gotri"
	"github.com/2x3systems/gotri/libtri/matrix"
	"github.com/pkg/errors"
)

// Homology is a finitely generated abelian group Z^Rank + Z_t1 + ... + Z_tk, with each t dividing the next.
type Homology struct {
	Rank    int
	Torsion []*big.Int
}

// IsTrivial reports if the group is 0.
func (h Homology) IsTrivial() bool {
	return h.Rank == 0 && len(h.Torsion) == 0
}

// String renders the group as "0", "Z", "Z^2 + Z_3", ...
func (h Homology) String() string {
	if h.IsTrivial() {
		return "0"
	}
	var terms []string
	switch {
	case h.Rank == 1:
		terms = append(terms, "Z")
	case h.Rank > 1:
		terms = append(terms, "Z^"+strconv.Itoa(h.Rank))
	}
	for _, t := range h.Torsion {
		terms = append(terms, "Z_"+t.String())
	}
	return strings.Join(terms, " + ")
}

// HomologyH1 computes the first homology from the dual cell structure: dual edges are internal facets
// outside the dual forest, and dual 2-cells are internal codimension-2 faces whose links close up.
func (tri *Triangulation) HomologyH1() (Homology, error) {
	skel := tri.ensureSkeleton()
	if !skel.valid {
		return Homology{}, errors.Wrap(gotri.ErrNotValid, "first homology")
	}
	d := tri.dim

	facets := skel.faces[d-1]
	gens := make([]int, len(facets))
	numGens := 0
	for i, facet := range facets {
		gens[i] = -1
		if facet.Degree() != 2 {
			continue
		}
		front := facet.embeddings[0]
		if front.simp.FacetInDualForest(front.face) {
			continue
		}
		gens[i] = numGens
		numGens++
	}

	var ridges []*Face
	for _, ridge := range skel.faces[d-2] {
		if !ridge.onBoundary {
			ridges = append(ridges, ridge)
		}
	}

	rel := matrix.NewInt(len(ridges), numGens)
	for r, ridge := range ridges {
		for _, emb := range ridge.embeddings {
			f := emb.mapping.Image(d)
			facet := skel.faces[d-1][skel.simpFace[d-1][skel.slot(d-1, emb.simp, f)]]
			gen := gens[facet.index]
			if gen < 0 {
				continue
			}
			front := facet.embeddings[0]
			if front.simp == emb.simp && front.face == f {
				rel.AddInt64(r, gen, 1)
			} else {
				rel.AddInt64(r, gen, -1)
			}
		}
	}

	factors := rel.SmithNormalForm()
	h := Homology{
		Rank: numGens - len(factors),
	}
	for _, t := range factors {
		if t.Cmp(big.NewInt(1)) != 0 {
			h.Torsion = append(h.Torsion, t)
		}
	}
	return h, nil
}
