package libtri

import (
	"bytes"
	"sync"

	"github.com/2x3systems/gotri/gotri"
	"github.com/2x3systems/gotri/libtri/perm"
	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/pkg/errors"
)

/***

Isomorphism signature format (printable ASCII 33..126, one block per component, blocks sorted):

	header     simplex count n, base 47 low digit first; a character value >= 47 carries a digit
	           (value - 47) and signals that more digits follow
	actions    one action per facet visited in canonical order, three base-3 digits per character:
	           0 = boundary, 1 = glued to a new simplex (identity gluing), 2 = glued to a known simplex
	dests      one per join action: destination simplex, base 94 in a fixed width w with 94^w >= n
	gluings    one per join action: tight encoding of the gluing permutation

The empty triangulation is "!".  Facets whose gluing was already described from the other side are skipped.

***/

const (
	sigBoundary byte = 0
	sigNew      byte = 1
	sigJoin     byte = 2

	sigHeaderBase = 47
	sigEmpty      = "!"
)

// sigBuilder holds scratch space for canonical traversals; instances are recycled through gSigBuilderPool.
type sigBuilder struct {
	tri     *Triangulation
	image   []int
	vmap    []perm.Perm
	order   []int
	actions []byte
	dests   []int
	joins   []perm.Perm
	buf     []byte
	best    []byte
}

var gSigBuilderPool = sync.Pool{
	New: func() interface{} {
		return new(sigBuilder)
	},
}

func newSigBuilder(tri *Triangulation) *sigBuilder {
	sb := gSigBuilderPool.Get().(*sigBuilder)
	sb.tri = tri
	n := len(tri.simplices)
	if cap(sb.image) < n {
		sb.image = make([]int, n)
		sb.vmap = make([]perm.Perm, n)
	}
	sb.image = sb.image[:n]
	sb.vmap = sb.vmap[:n]
	sb.order = sb.order[:0]
	for i := range sb.image {
		sb.image[i] = -1
	}
	return sb
}

// Reclaim returns this builder to the pool; the caller must not retain it.
func (sb *sigBuilder) Reclaim() {
	sb.tri = nil
	sb.order = sb.order[:0]
	gSigBuilderPool.Put(sb)
}

// trace labels the component of start canonically, starting from start with vertex relabelling pi.
func (sb *sigBuilder) trace(start *Simplex, pi perm.Perm) {
	for _, idx := range sb.order {
		sb.image[idx] = -1
	}
	sb.order = append(sb.order[:0], start.index)
	sb.actions = sb.actions[:0]
	sb.dests = sb.dests[:0]
	sb.joins = sb.joins[:0]

	sb.image[start.index] = 0
	sb.vmap[start.index] = pi

	dim := sb.tri.dim
	simplices := sb.tri.simplices
	for next := 0; next < len(sb.order); next++ {
		simp := simplices[sb.order[next]]
		p := sb.vmap[simp.index]
		pInv := p.Inverse()
		for F := 0; F <= dim; F++ {
			f := pInv.Image(F)
			adj := simp.adj[f]
			if adj == nil {
				sb.actions = append(sb.actions, sigBoundary)
				continue
			}
			g := simp.gluing[f]
			if sb.image[adj.index] < 0 {
				sb.image[adj.index] = len(sb.order)
				sb.vmap[adj.index] = p.Compose(g.Inverse())
				sb.order = append(sb.order, adj.index)
				sb.actions = append(sb.actions, sigNew)
				continue
			}
			if sb.image[adj.index] < next || (adj == simp && p.Image(g.Image(f)) < F) {
				continue
			}
			sb.actions = append(sb.actions, sigJoin)
			sb.dests = append(sb.dests, sb.image[adj.index])
			sb.joins = append(sb.joins, sb.vmap[adj.index].Compose(g).Compose(pInv))
		}
	}
}

// encode appends the signature block of the last trace to dst.
func (sb *sigBuilder) encode(dst []byte) []byte {
	n := len(sb.order)
	dst = appendSigHeader(dst, n)
	for i := 0; i < len(sb.actions); i += 3 {
		v, mul := byte(0), byte(1)
		for j := i; j < i+3 && j < len(sb.actions); j++ {
			v += sb.actions[j] * mul
			mul *= 3
		}
		dst = append(dst, perm.TightMin+v)
	}
	width := sigDestWidth(n)
	for _, dest := range sb.dests {
		for w := 0; w < width; w++ {
			dst = append(dst, byte(perm.TightMin+dest%perm.TightBase))
			dest /= perm.TightBase
		}
	}
	for _, g := range sb.joins {
		dst = g.AppendTightEncoding(dst)
	}
	return dst
}

func appendSigHeader(dst []byte, n int) []byte {
	for {
		digit := n % sigHeaderBase
		n /= sigHeaderBase
		if n == 0 {
			return append(dst, byte(perm.TightMin+digit))
		}
		dst = append(dst, byte(perm.TightMin+sigHeaderBase+digit))
	}
}

func sigDestWidth(n int) int {
	width, span := 1, perm.TightBase
	for span < n {
		width++
		span *= perm.TightBase
	}
	return width
}

type componentSig struct {
	comp  *Component
	start *Simplex
	pi    perm.Perm
	sig   string
}

// minimalSig finds the least signature block of comp over every starting simplex and vertex relabelling.
func (sb *sigBuilder) minimalSig(comp *Component) componentSig {
	best := componentSig{comp: comp}
	sb.best = sb.best[:0]
	for _, start := range comp.simplices {
		perm.ForEach(sb.tri.dim+1, func(pi perm.Perm) bool {
			sb.trace(start, pi)
			sb.buf = sb.encode(sb.buf[:0])
			if best.start == nil || bytes.Compare(sb.buf, sb.best) < 0 {
				sb.best = append(sb.best[:0], sb.buf...)
				best.start = start
				best.pi = pi
			}
			return true
		})
	}
	best.sig = string(sb.best)
	return best
}

// IsoSig returns the isomorphism signature: equal for two triangulations iff they are combinatorially isomorphic.
func (tri *Triangulation) IsoSig() string {
	sig, _ := tri.isoSig(false)
	return sig
}

// IsoSigWithRelabelling also returns an isomorphism rho such that rho applied to tri is exactly FromIsoSig(sig).
func (tri *Triangulation) IsoSigWithRelabelling() (string, *Isomorphism) {
	return tri.isoSig(true)
}

func (tri *Triangulation) isoSig(wantIso bool) (string, *Isomorphism) {
	if len(tri.simplices) == 0 {
		return sigEmpty, NewIsomorphism(tri.dim, 0)
	}
	comps := tri.Components()

	sb := newSigBuilder(tri)
	defer sb.Reclaim()

	// Components are ordered by signature; isomorphic components share a tree entry.
	sorted := redblacktree.NewWithStringComparator()
	for _, comp := range comps {
		cs := sb.minimalSig(comp)
		var same []componentSig
		if val, found := sorted.Get(cs.sig); found {
			same = val.([]componentSig)
		}
		sorted.Put(cs.sig, append(same, cs))
	}

	var iso *Isomorphism
	if wantIso {
		iso = NewIsomorphism(tri.dim, len(tri.simplices))
	}
	sig := make([]byte, 0, 64)
	offset := 0
	for it := sorted.Iterator(); it.Next(); {
		for _, cs := range it.Value().([]componentSig) {
			sig = append(sig, cs.sig...)
			if wantIso {
				sb.trace(cs.start, cs.pi)
				for _, idx := range sb.order {
					iso.simpImage[idx] = offset + sb.image[idx]
					iso.facetPerm[idx] = sb.vmap[idx]
				}
			}
			offset += cs.comp.Size()
		}
	}
	return string(sig), iso
}

// MakeCanonical relabels this triangulation into the canonical labelling of its iso-sig
// and reports if any label changed.
func (tri *Triangulation) MakeCanonical() bool {
	_, iso := tri.IsoSigWithRelabelling()
	if iso.IsIdentity() {
		return false
	}
	before := tri.Clone()
	iso.applyInPlace(tri)
	return !before.IsIdenticalTo(tri)
}

func decodeSigHeader(sig string) (int, string, error) {
	n, mul := 0, 1
	for i := 0; i < len(sig); i++ {
		c := sig[i]
		if !perm.IsTightChar(c) {
			return 0, sig, errors.Wrapf(gotri.ErrMalformedSig, "character %q", c)
		}
		v := int(c - perm.TightMin)
		if v < sigHeaderBase {
			return n + v*mul, sig[i+1:], nil
		}
		n += (v - sigHeaderBase) * mul
		mul *= sigHeaderBase
		if mul > gotri.MaxCatalogSize*sigHeaderBase*sigHeaderBase*sigHeaderBase {
			return 0, sig, errors.Wrap(gotri.ErrMalformedSig, "simplex count overflow")
		}
	}
	return 0, sig, errors.Wrap(gotri.ErrMalformedSig, "truncated simplex count")
}

// IsoSigComponentSize returns the simplex count of the first component encoded in sig.
func IsoSigComponentSize(sig string) (int, error) {
	if sig == sigEmpty {
		return 0, nil
	}
	n, _, err := decodeSigHeader(sig)
	return n, err
}

// FromIsoSig reconstructs the triangulation of the given dimension encoded by sig, in its canonical labelling.
func FromIsoSig(dim int, sig string) (*Triangulation, error) {
	tri, err := New(dim)
	if err != nil {
		return nil, err
	}
	if len(sig) == 0 {
		return nil, errors.Wrap(gotri.ErrMalformedSig, "empty signature")
	}
	for i := 0; i < len(sig); i++ {
		if !perm.IsTightChar(sig[i]) {
			return nil, errors.Wrapf(gotri.ErrMalformedSig, "character %q at %d", sig[i], i)
		}
	}
	if sig == sigEmpty {
		return tri, nil
	}

	span := tri.StartChanges()
	defer span.End()

	rest := sig
	for len(rest) > 0 {
		var n int
		n, rest, err = decodeSigHeader(rest)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, errors.Wrapf(gotri.ErrMalformedSig, "empty component in %q", sig)
		}
		rest, err = tri.decodeComponent(n, rest)
		if err != nil {
			return nil, err
		}
	}
	return tri, nil
}

func (tri *Triangulation) decodeComponent(n int, enc string) (string, error) {
	dim := tri.dim
	malformed := func(what string) (string, error) {
		return enc, errors.Wrapf(gotri.ErrMalformedSig, "%s in component of size %d", what, n)
	}

	var actions []byte
	numNew, numJoins := 0, 0
	pos := 0
	for remaining := (dim + 1) * n; remaining > 0; {
		if pos >= len(enc) {
			return malformed("truncated actions")
		}
		v := enc[pos] - perm.TightMin
		pos++
		if v >= 27 {
			return malformed("bad action character")
		}
		for j := 0; j < 3 && remaining > 0; j++ {
			a := v % 3
			v /= 3
			switch a {
			case sigBoundary:
				remaining--
			case sigNew:
				remaining -= 2
				numNew++
			case sigJoin:
				remaining -= 2
				numJoins++
			}
			if remaining < 0 {
				return malformed("facet count overrun")
			}
			actions = append(actions, a)
		}
		if v != 0 {
			return malformed("padding in action character")
		}
	}
	if numNew != n-1 {
		return malformed("disconnected action sequence")
	}

	width := sigDestWidth(n)
	dests := make([]int, numJoins)
	for i := range dests {
		if pos+width > len(enc) {
			return malformed("truncated destinations")
		}
		dest, mul := 0, 1
		for w := 0; w < width; w++ {
			dest += int(enc[pos+w]-perm.TightMin) * mul
			mul *= perm.TightBase
		}
		pos += width
		if dest >= n {
			return malformed("destination out of range")
		}
		dests[i] = dest
	}

	rest := enc[pos:]
	joins := make([]perm.Perm, numJoins)
	for i := range joins {
		var err error
		joins[i], rest, err = perm.TightDecodePrefix(dim+1, rest)
		if err != nil {
			return enc, errors.Wrapf(gotri.ErrMalformedSig, "gluing %d: %v", i, err)
		}
	}

	base := len(tri.simplices)
	tri.newSimplex("")
	created := 1
	next, joinIdx := 0, 0
	identity := perm.Identity(dim + 1)
	for idx := 0; idx < created; idx++ {
		simp := tri.simplices[base+idx]
		for F := 0; F <= dim; F++ {
			if simp.adj[F] != nil {
				continue
			}
			if next >= len(actions) {
				return malformed("too few actions")
			}
			action := actions[next]
			next++
			switch action {
			case sigNew:
				if created >= n {
					return malformed("too many simplices")
				}
				adj := tri.newSimplex("")
				created++
				simp.adj[F], simp.gluing[F] = adj, identity
				adj.adj[F], adj.gluing[F] = simp, identity
			case sigJoin:
				dest, g := dests[joinIdx], joins[joinIdx]
				joinIdx++
				if dest >= created {
					return malformed("join to an unseen simplex")
				}
				adj := tri.simplices[base+dest]
				af := g.Image(F)
				if (adj == simp && af == F) || adj.adj[af] != nil {
					return malformed("inconsistent gluing")
				}
				simp.adj[F], simp.gluing[F] = adj, g
				adj.adj[af], adj.gluing[af] = simp, g.Inverse()
			}
		}
	}
	if next != len(actions) || created != n {
		return malformed("unused actions")
	}
	return rest, nil
}
