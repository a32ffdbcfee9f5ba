package libtri

import (
	"strconv"
	"strings"

	"github.com/2x3systems/gotri/gotri"
	"github.com/2x3systems/gotri/libtri/perm"
	"github.com/alecthomas/participle/v2"
	"github.com/pkg/errors"
)

// GluingsExpr is a text gluing table, for example:
//
//	2: (0, 0, 1, [1,3,0,2]), (0, 1, 1, [0,2,1,3])
//
// Each entry (i, f, j, [g]) glues facet f of simplex i to facet g(f) of simplex j.
// The optional leading count fixes the number of simplices; otherwise it is one more than the largest index.
type GluingsExpr struct {
	Size    *int          `(@Int ":")?`
	Gluings []*GluingExpr `(@@ ("," @@)*)?`
}

type GluingExpr struct {
	Simp   int   `"(" @Int ","`
	Facet  int   `@Int ","`
	Adj    int   `@Int ","`
	Images []int `"[" @Int ("," @Int)* "]" ")"`
}

var parseGluingsExpr = participle.MustBuild[GluingsExpr]()

// Gluing glues facet Facet of simplex Simp to facet G(Facet) of simplex Adj.
type Gluing struct {
	Simp  int
	Facet int
	Adj   int
	G     perm.Perm
}

func (gl Gluing) String() string {
	var b strings.Builder
	gl.appendTo(&b)
	return b.String()
}

func (gl Gluing) appendTo(b *strings.Builder) {
	b.WriteByte('(')
	b.WriteString(strconv.Itoa(gl.Simp))
	b.WriteString(", ")
	b.WriteString(strconv.Itoa(gl.Facet))
	b.WriteString(", ")
	b.WriteString(strconv.Itoa(gl.Adj))
	b.WriteString(", [")
	for i, img := range gl.G.Images() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(img))
	}
	b.WriteString("])")
}

// ParseGluings parses a gluing table for dimension dim and returns its gluings and simplex count.
func ParseGluings(dim int, expr string) ([]Gluing, int, error) {
	if dim < gotri.MinDim || dim > gotri.MaxDim {
		return nil, 0, errors.Wrapf(gotri.ErrBadDimension, "dim=%d", dim)
	}
	parsed, err := parseGluingsExpr.ParseString("", expr)
	if err != nil {
		return nil, 0, errors.Wrap(gotri.ErrBadGluingExpr, err.Error())
	}

	size := 0
	gluings := make([]Gluing, 0, len(parsed.Gluings))
	for i, ge := range parsed.Gluings {
		if len(ge.Images) != dim+1 {
			return nil, 0, errors.Wrapf(gotri.ErrBadGluingExpr, "gluing #%d has %d images, expected %d", i+1, len(ge.Images), dim+1)
		}
		g, err := perm.FromImages(ge.Images)
		if err != nil {
			return nil, 0, errors.Wrapf(gotri.ErrBadGluingExpr, "gluing #%d: %v", i+1, err)
		}
		gluings = append(gluings, Gluing{
			Simp:  ge.Simp,
			Facet: ge.Facet,
			Adj:   ge.Adj,
			G:     g,
		})
		if ge.Simp >= size {
			size = ge.Simp + 1
		}
		if ge.Adj >= size {
			size = ge.Adj + 1
		}
	}
	if parsed.Size != nil {
		if *parsed.Size < size {
			return nil, 0, errors.Wrapf(gotri.ErrBadGluingExpr, "simplex count %d is less than %d", *parsed.Size, size)
		}
		size = *parsed.Size
	}
	return gluings, size, nil
}

// FromGluings builds a triangulation with size simplices and the given gluings, each listed from one side only.
func FromGluings(dim, size int, gluings []Gluing) (*Triangulation, error) {
	tri, err := New(dim)
	if err != nil {
		return nil, err
	}
	span := tri.StartChanges()
	defer span.End()

	tri.AddSimplices(size)
	for _, gl := range gluings {
		if err := tri.Join(gl.Simp, gl.Facet, gl.Adj, gl.G); err != nil {
			return nil, err
		}
	}
	return tri, nil
}

// ParseTriangulation is ParseGluings followed by FromGluings.
func ParseTriangulation(dim int, expr string) (*Triangulation, error) {
	gluings, size, err := ParseGluings(dim, expr)
	if err != nil {
		return nil, err
	}
	return FromGluings(dim, size, gluings)
}

// Gluings lists every gluing once, from the side with the smaller (simplex, facet).
func (tri *Triangulation) Gluings() []Gluing {
	var gluings []Gluing
	for _, simp := range tri.simplices {
		for f, adj := range simp.adj {
			if adj == nil {
				continue
			}
			g := simp.gluing[f]
			if adj.index < simp.index || (adj == simp && g.Image(f) < f) {
				continue
			}
			gluings = append(gluings, Gluing{
				Simp:  simp.index,
				Facet: f,
				Adj:   adj.index,
				G:     g,
			})
		}
	}
	return gluings
}

// GluingsString renders a triangulation as a gluing table accepted by ParseGluings.
func (tri *Triangulation) GluingsString() string {
	return GluingsString(len(tri.simplices), tri.Gluings())
}

// GluingsString renders size and gluings in the format accepted by ParseGluings.
func GluingsString(size int, gluings []Gluing) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(size))
	b.WriteByte(':')
	for i, gl := range gluings {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte(' ')
		gl.appendTo(&b)
	}
	return b.String()
}
