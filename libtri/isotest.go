package libtri

import (
	"context"
	"sort"

	"github.com/2x3systems/gotri/gotri"
	"github.com/2x3systems/gotri/libtri/perm"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// isoSearch is a backtracking search for simplicial maps from src into dst.
// In onto mode the map is a bijection that also matches boundary facets to boundary facets.
type isoSearch struct {
	ctx      context.Context
	src      *Triangulation
	dst      *Triangulation
	onto     bool
	comps    []*Component
	iso      *Isomorphism
	used     []bool
	assigned []int
	queue    []*Simplex
	onFound  func(iso *Isomorphism) bool
	found    int
	err      error
}

func newIsoSearch(ctx context.Context, src, dst *Triangulation, onto bool, onFound func(iso *Isomorphism) bool) *isoSearch {
	srch := &isoSearch{
		ctx:     ctx,
		src:     src,
		dst:     dst,
		onto:    onto,
		comps:   src.Components(),
		iso:     NewIsomorphism(src.dim, len(src.simplices)),
		used:    make([]bool, len(dst.simplices)),
		onFound: onFound,
	}
	for i := range srch.iso.simpImage {
		srch.iso.simpImage[i] = -1
	}
	if onto {
		dst.ensureSkeleton()
	}
	return srch
}

func (srch *isoSearch) undo(mark int) {
	for _, idx := range srch.assigned[mark:] {
		srch.used[srch.iso.simpImage[idx]] = false
		srch.iso.simpImage[idx] = -1
	}
	srch.assigned = srch.assigned[:mark]
}

func (srch *isoSearch) assign(simp *Simplex, target int, p perm.Perm) {
	srch.iso.simpImage[simp.index] = target
	srch.iso.facetPerm[simp.index] = p
	srch.used[target] = true
	srch.assigned = append(srch.assigned, simp.index)
	srch.queue = append(srch.queue, simp)
}

// propagate extends the partial map from start -> (target, pi) across the component of start.
// On failure the caller undoes every assignment made since its mark.
func (srch *isoSearch) propagate(start *Simplex, target int, pi perm.Perm) bool {
	dim := srch.src.dim
	srch.queue = srch.queue[:0]
	srch.assign(start, target, pi)

	for qi := 0; qi < len(srch.queue); qi++ {
		simp := srch.queue[qi]
		p := srch.iso.facetPerm[simp.index]
		image := srch.dst.simplices[srch.iso.simpImage[simp.index]]
		for f := 0; f <= dim; f++ {
			adj := simp.adj[f]
			tf := p.Image(f)
			tadj := image.adj[tf]
			if adj == nil {
				if srch.onto && tadj != nil {
					return false
				}
				continue
			}
			if tadj == nil {
				return false
			}
			q := image.gluing[tf].Compose(p).Compose(simp.gluing[f].Inverse())
			if img := srch.iso.simpImage[adj.index]; img >= 0 {
				if img != tadj.index || srch.iso.facetPerm[adj.index] != q {
					return false
				}
				continue
			}
			if srch.used[tadj.index] {
				return false
			}
			srch.assign(adj, tadj.index, q)
		}
	}
	return true
}

// run maps components ci and onwards, reporting false once the search should stop.
func (srch *isoSearch) run(ci int) bool {
	if ci == len(srch.comps) {
		srch.found++
		return srch.onFound(srch.iso.Clone())
	}
	if err := srch.ctx.Err(); err != nil {
		srch.err = errors.Wrap(gotri.ErrCancelled, err.Error())
		return false
	}

	comp := srch.comps[ci]
	start := comp.simplices[0]
	keepGoing := true
	for target := range srch.dst.simplices {
		if srch.used[target] {
			continue
		}
		if srch.onto && srch.dst.simplices[target].Component().Size() != comp.Size() {
			continue
		}
		perm.ForEach(srch.src.dim+1, func(pi perm.Perm) bool {
			if err := srch.ctx.Err(); err != nil {
				srch.err = errors.Wrap(gotri.ErrCancelled, err.Error())
				keepGoing = false
				return false
			}
			mark := len(srch.assigned)
			if srch.propagate(start, target, pi) {
				keepGoing = srch.run(ci + 1)
			}
			srch.undo(mark)
			return keepGoing
		})
		if !keepGoing {
			break
		}
	}
	return keepGoing
}

// mayBeIsomorphic compares cheap invariants of two triangulations of the same dimension.
func mayBeIsomorphic(a, b *Triangulation) bool {
	if len(a.simplices) != len(b.simplices) {
		return false
	}
	if a.IsOrientable() != b.IsOrientable() ||
		a.CountBoundaryFacets() != b.CountBoundaryFacets() ||
		a.IsValid() != b.IsValid() ||
		!equalInts(a.ComponentSizes(), b.ComponentSizes()) ||
		!equalInts(a.FVector(), b.FVector()) {
		return false
	}
	if IsStandardDim(a.dim) {
		for k := 0; k < a.dim; k++ {
			if !equalInts(degreeSequence(a, k), degreeSequence(b, k)) {
				return false
			}
		}
	}
	return true
}

func degreeSequence(tri *Triangulation, k int) []int {
	faces := tri.Faces(k)
	degs := make([]int, len(faces))
	for i, face := range faces {
		degs[i] = face.Degree()
	}
	sort.Ints(degs)
	return degs
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// IsIsomorphicTo returns an isomorphism from this triangulation onto other, or nil if there is none.
func (tri *Triangulation) IsIsomorphicTo(other *Triangulation) *Isomorphism {
	var iso *Isomorphism
	tri.FindAllIsomorphisms(context.Background(), other, func(found *Isomorphism) bool {
		iso = found
		return false
	})
	return iso
}

// IsContainedIn returns a boundary-relaxed embedding of this triangulation into other, or nil if there is none.
func (tri *Triangulation) IsContainedIn(other *Triangulation) *Isomorphism {
	var iso *Isomorphism
	tri.FindAllSubcomplexesIn(context.Background(), other, func(found *Isomorphism) bool {
		iso = found
		return false
	})
	return iso
}

// FindAllIsomorphisms calls onFound for every isomorphism from this triangulation onto other
// until onFound returns false, and returns how many were reported.
func (tri *Triangulation) FindAllIsomorphisms(ctx context.Context, other *Triangulation, onFound func(iso *Isomorphism) bool) (int, error) {
	if tri.dim != other.dim || !mayBeIsomorphic(tri, other) {
		return 0, nil
	}
	return tri.search(ctx, other, true, onFound)
}

// FindAllSubcomplexesIn calls onFound for every injective simplicial map of this triangulation into other
// that respects gluings; boundary facets of this triangulation may map anywhere.
func (tri *Triangulation) FindAllSubcomplexesIn(ctx context.Context, other *Triangulation, onFound func(iso *Isomorphism) bool) (int, error) {
	if tri.dim != other.dim || len(tri.simplices) > len(other.simplices) {
		return 0, nil
	}
	return tri.search(ctx, other, false, onFound)
}

func (tri *Triangulation) search(ctx context.Context, other *Triangulation, onto bool, onFound func(iso *Isomorphism) bool) (int, error) {
	srch := newIsoSearch(ctx, tri, other, onto, onFound)
	srch.run(0)
	if len(tri.simplices) >= gLogSkeletonSize {
		klog.V(2).Infof("isomorphism search %d -> %d (onto=%v): %d found", len(tri.simplices), len(other.simplices), onto, srch.found)
	}
	return srch.found, srch.err
}
