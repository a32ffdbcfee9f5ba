package libtri

import (
	"github.com/2x3systems/gotri/libtri/perm"
	"github.com/plan-systems/klog"
)

// skeleton is the arena of derived data for one revision of a triangulation.
// Faces, components and boundary components refer to each other by index or by
// pointers into this arena; the whole arena is dropped in one step on mutation.
type skeleton struct {
	tri   *Triangulation
	valid bool

	faces    [][]*Face     // faces[k], 0 <= k < d
	simpFace [][]int32     // simpFace[k][s*C(d+1,k+1) + j] = face index
	simpMap  [][]perm.Perm // vertex mappings, indexed as simpFace

	components    []*Component
	simpComponent []int32
	simpOrient    []int8
	simpForest    []uint32 // dual forest facet bitmask per simplex

	boundary      []*BoundaryComponent
	idealVertices int
	badLinks      bool
}

// large triangulations log their skeleton builds at V(2)
const gLogSkeletonSize = 5000

func (tri *Triangulation) ensureSkeleton() *skeleton {
	tri.mu.Lock()
	defer tri.mu.Unlock()

	if tri.skel == nil {
		tri.skel = calculateSkeleton(tri)
	}
	return tri.skel
}

func calculateSkeleton(tri *Triangulation) *skeleton {
	d := tri.dim
	n := len(tri.simplices)
	tab := tri.tab

	skel := &skeleton{
		tri:      tri,
		valid:    true,
		faces:    make([][]*Face, d),
		simpFace: make([][]int32, d),
		simpMap:  make([][]perm.Perm, d),
	}
	for k := 0; k < d; k++ {
		slots := n * tab.faceCount[k]
		skel.simpFace[k] = make([]int32, slots)
		for i := range skel.simpFace[k] {
			skel.simpFace[k][i] = -1
		}
		skel.simpMap[k] = make([]perm.Perm, slots)
	}

	skel.calculateComponents()
	skel.calculateFacets()
	skel.calculateRidges()
	for k := d - 3; k >= 0; k-- {
		skel.calculateLowerFaces(k)
	}
	if d == 3 {
		skel.calculateVertexLinks()
	}
	skel.calculateBoundary()

	if n >= gLogSkeletonSize {
		klog.V(2).Infof("skeleton of %d-triangulation #%d: %d simplices, f=%v, valid=%v", d, tri.id, n, skel.fVector(), skel.valid)
	}
	return skel
}

func (skel *skeleton) fVector() []int {
	fv := make([]int, len(skel.faces)+1)
	for k, faces := range skel.faces {
		fv[k] = len(faces)
	}
	fv[len(skel.faces)] = len(skel.tri.simplices)
	return fv
}

func (skel *skeleton) newFace(k int, comp int32) *Face {
	face := &Face{
		skel:      skel,
		subdim:    k,
		index:     len(skel.faces[k]),
		component: comp,
		boundary:  -1,
	}
	skel.faces[k] = append(skel.faces[k], face)
	c := skel.components[comp]
	c.faces[k] = append(c.faces[k], face)
	return face
}

func (skel *skeleton) slot(k int, simp *Simplex, j int) int {
	return simp.index*skel.tri.tab.faceCount[k] + j
}

// claim records that face j of simp belongs to face with the given mapping.
func (skel *skeleton) claim(face *Face, simp *Simplex, j int, m perm.Perm) FaceEmbedding {
	slot := skel.slot(face.subdim, simp, j)
	skel.simpFace[face.subdim][slot] = int32(face.index)
	skel.simpMap[face.subdim][slot] = m
	return FaceEmbedding{
		simp:    simp,
		face:    j,
		mapping: m,
	}
}

// Step 1: components, orientation, and the dual spanning forest by breadth-first search.
func (skel *skeleton) calculateComponents() {
	tri := skel.tri
	d := tri.dim
	n := len(tri.simplices)

	skel.simpComponent = make([]int32, n)
	skel.simpOrient = make([]int8, n)
	skel.simpForest = make([]uint32, n)
	for i := range skel.simpComponent {
		skel.simpComponent[i] = -1
	}

	queue := make([]*Simplex, 0, n)
	for _, start := range tri.simplices {
		if skel.simpComponent[start.index] >= 0 {
			continue
		}
		compIdx := int32(len(skel.components))
		comp := &Component{
			skel:       skel,
			index:      int(compIdx),
			faces:      make([][]*Face, d),
			orientable: true,
		}
		skel.components = append(skel.components, comp)

		skel.simpComponent[start.index] = compIdx
		skel.simpOrient[start.index] = 1
		queue = append(queue[:0], start)
		for qi := 0; qi < len(queue); qi++ {
			simp := queue[qi]
			comp.simplices = append(comp.simplices, simp)
			for f, adj := range simp.adj {
				if adj == nil {
					comp.boundaryFacets++
					continue
				}
				g := simp.gluing[f]
				expected := -skel.simpOrient[simp.index] * int8(g.Sign())
				if skel.simpComponent[adj.index] < 0 {
					skel.simpComponent[adj.index] = compIdx
					skel.simpOrient[adj.index] = expected
					skel.simpForest[simp.index] |= 1 << f
					skel.simpForest[adj.index] |= 1 << g.Image(f)
					queue = append(queue, adj)
				} else if skel.simpOrient[adj.index] != expected {
					comp.orientable = false
				}
			}
		}
	}
}

// Step 2: facets, visiting facets d..0 of each simplex so labels come out lexicographic.
func (skel *skeleton) calculateFacets() {
	tri := skel.tri
	k := tri.dim - 1
	for _, simp := range tri.simplices {
		for f := tri.dim; f >= 0; f-- {
			if skel.simpFace[k][skel.slot(k, simp, f)] >= 0 {
				continue
			}
			face := skel.newFace(k, skel.simpComponent[simp.index])
			m := tri.tab.ordering[k][f]
			face.embeddings = append(face.embeddings, skel.claim(face, simp, f, m))
			if adj := simp.adj[f]; adj != nil {
				g := simp.gluing[f]
				face.embeddings = append(face.embeddings, skel.claim(face, adj, g.Image(f), g.Compose(m)))
			} else {
				face.onBoundary = true
			}
		}
	}
}

// Step 3: ridges.  The link of a ridge is a path or a loop, walked in both directions.
// Embedding i always leaves through facet mapping(d) into embedding i+1.
func (skel *skeleton) calculateRidges() {
	tri := skel.tri
	k := tri.dim - 2
	count := tri.tab.faceCount[k]
	for _, simp := range tri.simplices {
		for j := 0; j < count; j++ {
			if skel.simpFace[k][skel.slot(k, simp, j)] >= 0 {
				continue
			}
			face := skel.newFace(k, skel.simpComponent[simp.index])
			m := tri.tab.ordering[k][j]
			face.embeddings = append(face.embeddings, skel.claim(face, simp, j, m))

			if !skel.walkRidge(face, simp, m, true) {
				skel.walkRidge(face, simp, m, false)
			}
		}
	}
}

// walkRidge walks away from the start embedding and reports if it returned to an already claimed appearance.
func (skel *skeleton) walkRidge(face *Face, simp *Simplex, m perm.Perm, forward bool) bool {
	tri := skel.tri
	d := tri.dim
	k := face.subdim
	swap := tri.tab.swapLast

	var behind []FaceEmbedding
	defer func() {
		if len(behind) == 0 {
			return
		}
		walk := make([]FaceEmbedding, 0, len(behind)+len(face.embeddings))
		for i := len(behind) - 1; i >= 0; i-- {
			walk = append(walk, behind[i])
		}
		face.embeddings = append(walk, face.embeddings...)
	}()

	for {
		exit := m.Image(d - 1)
		if forward {
			exit = m.Image(d)
		}
		adj := simp.adj[exit]
		if adj == nil {
			face.onBoundary = true
			return false
		}
		adjMap := simp.gluing[exit].Compose(m).Compose(swap)
		adjFace := tri.tab.faceNumber(k, adjMap)
		slot := skel.slot(k, adj, adjFace)
		if skel.simpFace[k][slot] >= 0 {
			skel.checkRevisit(face, skel.simpMap[k][slot], adjMap)
			return true
		}
		emb := skel.claim(face, adj, adjFace, adjMap)
		if forward {
			face.embeddings = append(face.embeddings, emb)
		} else {
			behind = append(behind, emb)
		}
		simp, m = adj, adjMap
	}
}

func (skel *skeleton) checkRevisit(face *Face, was, now perm.Perm) {
	for i := 0; i <= face.subdim; i++ {
		if was.Image(i) != now.Image(i) {
			face.badIdentification = true
			skel.valid = false
			return
		}
	}
	if was.Sign() != now.Sign() {
		face.linkNonOrientable = true
	}
}

// Step 4: faces of subdimension k < d-2 by breadth-first search across the facets containing them.
func (skel *skeleton) calculateLowerFaces(k int) {
	tri := skel.tri
	d := tri.dim
	count := tri.tab.faceCount[k]
	swap := tri.tab.swapLast
	for _, start := range tri.simplices {
		for j := 0; j < count; j++ {
			if skel.simpFace[k][skel.slot(k, start, j)] >= 0 {
				continue
			}
			face := skel.newFace(k, skel.simpComponent[start.index])
			face.embeddings = append(face.embeddings, skel.claim(face, start, j, tri.tab.ordering[k][j]))

			for qi := 0; qi < len(face.embeddings); qi++ {
				emb := face.embeddings[qi]
				simp, m := emb.simp, emb.mapping
				for x := k + 1; x <= d; x++ {
					f := m.Image(x)
					adj := simp.adj[f]
					if adj == nil {
						face.onBoundary = true
						continue
					}
					adjMap := simp.gluing[f].Compose(m).Compose(swap)
					adjFace := tri.tab.faceNumber(k, adjMap)
					slot := skel.slot(k, adj, adjFace)
					if skel.simpFace[k][slot] >= 0 {
						skel.checkRevisit(face, skel.simpMap[k][slot], adjMap)
						continue
					}
					face.embeddings = append(face.embeddings, skel.claim(face, adj, adjFace, adjMap))
				}
			}
		}
	}
}

// vertexOf returns the index of the vertex at vertex v of simp.
func (skel *skeleton) vertexOf(simp *Simplex, v int) int32 {
	return skel.simpFace[0][skel.slot(0, simp, v)]
}

// calculateVertexLinks classifies vertex links of a 3-triangulation by Euler characteristic:
// link vertices are edge ends, link edges are triangle corners, link triangles are vertex embeddings.
func (skel *skeleton) calculateVertexLinks() {
	verts := skel.faces[0]
	euler := make([]int, len(verts))
	for k, sign := range [2]int{1, -1} {
		for _, face := range skel.faces[k+1] {
			emb := face.embeddings[0]
			for i := 0; i <= k+1; i++ {
				euler[skel.vertexOf(emb.simp, emb.mapping.Image(i))] += sign
			}
		}
	}
	for i, v := range verts {
		v.linkEuler = euler[i] + len(v.embeddings)
		switch {
		case !v.onBoundary && v.linkEuler == 2:
			v.linkType = LinkSphere
		case !v.onBoundary:
			v.linkType = LinkIdeal
			skel.idealVertices++
		case v.linkEuler == 1:
			v.linkType = LinkDisc
		default:
			v.linkType = LinkInvalid
			v.badLink = true
			skel.badLinks = true
			skel.valid = false
		}
	}
}

// calculateBoundary unions boundary facets that share a ridge, then adds one component per ideal vertex.
func (skel *skeleton) calculateBoundary() {
	tri := skel.tri
	d := tri.dim
	tab := tri.tab
	facets := skel.faces[d-1]

	parent := make([]int32, len(facets))
	for i := range parent {
		parent[i] = int32(i)
	}
	var find func(i int32) int32
	find = func(i int32) int32 {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}

	ridgeOwner := make([]int32, len(skel.faces[d-2]))
	for i := range ridgeOwner {
		ridgeOwner[i] = -1
	}
	for _, facet := range facets {
		if !facet.onBoundary {
			continue
		}
		emb := facet.embeddings[0]
		for v := 0; v <= d; v++ {
			if v == emb.face {
				continue
			}
			r := skel.simpFace[d-2][skel.slot(d-2, emb.simp, int(tab.ridgeOf[emb.face][v]))]
			if owner := ridgeOwner[r]; owner < 0 {
				ridgeOwner[r] = int32(facet.index)
			} else if a, b := find(owner), find(int32(facet.index)); a != b {
				parent[b] = a
			}
		}
	}

	rootBC := make(map[int32]*BoundaryComponent)
	for _, facet := range facets {
		if !facet.onBoundary {
			continue
		}
		root := find(int32(facet.index))
		bc := rootBC[root]
		if bc == nil {
			bc = skel.newBoundaryComponent(facet.component)
			rootBC[root] = bc
		}
		facet.boundary = int32(bc.index)
		bc.facets = append(bc.facets, facet)

		emb := facet.embeddings[0]
		for k := 0; k < d-1; k++ {
			for j, mask := range tab.faceMask[k] {
				if mask&(1<<emb.face) != 0 {
					continue
				}
				sub := skel.faces[k][skel.simpFace[k][skel.slot(k, emb.simp, j)]]
				if sub.boundary < 0 {
					sub.boundary = int32(bc.index)
					bc.faces[k] = append(bc.faces[k], sub)
				}
			}
		}
	}

	if d == 3 {
		for _, v := range skel.faces[0] {
			if v.linkType == LinkIdeal {
				bc := skel.newBoundaryComponent(v.component)
				bc.ideal = v
				bc.faces[0] = append(bc.faces[0], v)
				v.boundary = int32(bc.index)
			}
		}
	}
}

func (skel *skeleton) newBoundaryComponent(comp int32) *BoundaryComponent {
	bc := &BoundaryComponent{
		skel:      skel,
		index:     len(skel.boundary),
		component: comp,
		faces:     make([][]*Face, skel.tri.dim-1),
	}
	skel.boundary = append(skel.boundary, bc)
	c := skel.components[comp]
	c.boundaryComponents = append(c.boundaryComponents, bc)
	return bc
}
