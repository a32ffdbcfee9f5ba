package libtri

import (
	"fmt"
	"io"
	"strconv"

	"github.com/2x3systems/gotri/gotri"
)

var (
	comma   = []byte{','}
	newline = []byte{'\n'}
)

// WriteAsString writes a one-line, comma separated summary of this triangulation.
func (tri *Triangulation) WriteAsString(out io.Writer, opts gotri.PrintOpts) {
	fmt.Fprintf(out, "d=%d,n=%d", tri.dim, len(tri.simplices))

	if opts.Sig {
		out.Write(comma)
		io.WriteString(out, strconv.Quote(tri.IsoSig()))
	}
	if opts.FVector {
		out.Write(comma)
		tri.WriteFVector(out)
	}
	if opts.Props {
		out.Write(comma)
		tri.WriteProps(out)
	}
	if opts.Gluings {
		out.Write(comma)
		io.WriteString(out, strconv.Quote(tri.GluingsString()))
	}
	out.Write(newline)
}

// WriteFVector writes the face counts per dimension, lowest first, as "f=[a b c]".
func (tri *Triangulation) WriteFVector(out io.Writer) {
	var buf [24]byte
	io.WriteString(out, "f=[")
	for k, fk := range tri.FVector() {
		if k > 0 {
			out.Write([]byte{' '})
		}
		out.Write(strconv.AppendInt(buf[:0], int64(fk), 10))
	}
	io.WriteString(out, "]")
}

// WriteProps writes validity, orientability, and boundary flags.
func (tri *Triangulation) WriteProps(out io.Writer) {
	flag := func(label string, val bool) {
		if val {
			io.WriteString(out, "+")
		} else {
			io.WriteString(out, "-")
		}
		io.WriteString(out, label)
	}
	flag("valid", tri.IsValid())
	out.Write(comma)
	flag("orientable", tri.IsOrientable())
	out.Write(comma)
	flag("closed", !tri.HasBoundaryFacets())
	out.Write(comma)
	fmt.Fprintf(out, "c=%d", tri.CountComponents())
}
