package libtri

import "github.com/2x3systems/gotri/libtri/perm"

// Orient relabels the vertices of simplices within orientable components so that every
// gluing in those components is odd.  Non-orientable components are left untouched.
func (tri *Triangulation) Orient() {
	skel := tri.ensureSkeleton()
	iso := NewIsomorphism(tri.dim, len(tri.simplices))
	flip := tri.tab.swapLast
	needed := false
	for i := range tri.simplices {
		if skel.simpOrient[i] < 0 && skel.components[skel.simpComponent[i]].orientable {
			iso.facetPerm[i] = flip
			needed = true
		}
	}
	if needed {
		iso.applyInPlace(tri)
	}
}

// MakeDoubleCover replaces this triangulation with its orientable double cover.
// Simplex i lifts to simplices i and i+n; orientation-consistent gluings stay within a sheet
// and the others cross between sheets.
func (tri *Triangulation) MakeDoubleCover() {
	n := len(tri.simplices)
	if n == 0 {
		return
	}
	skel := tri.ensureSkeleton()
	orient := append([]int8(nil), skel.simpOrient...)

	type gluing struct {
		simp, facet, adj int
		g                perm.Perm
	}
	var gluings []gluing
	for _, simp := range tri.simplices {
		for f, adj := range simp.adj {
			if adj == nil {
				continue
			}
			g := simp.gluing[f]
			if adj.index < simp.index || (adj.index == simp.index && g.Image(f) < f) {
				continue
			}
			gluings = append(gluings, gluing{simp.index, f, adj.index, g})
		}
	}

	span := tri.StartChanges()
	defer span.End()

	for i := 0; i < n; i++ {
		tri.newSimplex(tri.simplices[i].desc)
	}
	for _, gl := range gluings {
		lower, upper := tri.simplices[gl.simp], tri.simplices[gl.simp+n]
		adjLower, adjUpper := tri.simplices[gl.adj], tri.simplices[gl.adj+n]
		if orient[gl.adj] != -orient[gl.simp]*int8(gl.g.Sign()) {
			adjLower, adjUpper = adjUpper, adjLower
		}
		// The sheet-0 gluing already exists; re-point it and add its twin.
		of := gl.g.Image(gl.facet)
		lower.adj[gl.facet] = adjLower
		adjLower.adj[of] = lower
		adjLower.gluing[of] = gl.g.Inverse()
		upper.adj[gl.facet] = adjUpper
		upper.gluing[gl.facet] = gl.g
		adjUpper.adj[of] = upper
		adjUpper.gluing[of] = gl.g.Inverse()
	}
}
