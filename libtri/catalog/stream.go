package catalog

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/2x3systems/gotri/gotri"
	"github.com/2x3systems/gotri/libtri"
	"github.com/plan-systems/klog"
)

// Adder is anything a Stream can deposit triangulations into.
type Adder interface {
	TryAdd(tri *libtri.Triangulation, name string) (bool, error)
	Close() error
}

type AddOpts struct {
	NamePrefix       string // entries are named NamePrefix followed by their position in the stream
	AutoCloseCatalog bool
}

// Stream is a pipeline stage of triangulations.
type Stream struct {
	Outlet chan *libtri.Triangulation
}

func NewStream() *Stream {
	return &Stream{
		Outlet: make(chan *libtri.Triangulation, 1),
	}
}

// StreamOf returns a stream that emits the given triangulations then closes.
func StreamOf(tris ...*libtri.Triangulation) *Stream {
	next := NewStream()

	go func() {
		for _, tri := range tris {
			next.Outlet <- tri
		}
		next.Close()
	}()

	return next
}

// ScanLines returns a stream of the triangulations read from r, one per line.
// A line is either a gluing expression or an iso-sig; blank lines and lines starting with '#' are skipped.
// Lines that fail to parse are passed to onErr and skipped.
func ScanLines(dim int, r io.Reader, onErr func(lineNum int, err error)) *Stream {
	next := NewStream()

	go func() {
		scanner := bufio.NewScanner(r)
		lineNum := 0
		for scanner.Scan() {
			lineNum++
			line := strings.TrimSpace(scanner.Text())
			if line == "" || line[0] == '#' {
				continue
			}
			tri, err := ParseLine(dim, line)
			if err != nil {
				if onErr != nil {
					onErr(lineNum, err)
				}
				continue
			}
			next.Outlet <- tri
		}
		if err := scanner.Err(); err != nil && onErr != nil {
			onErr(lineNum, err)
		}
		next.Close()
	}()

	return next
}

// ParseLine reads a triangulation given either as a gluing expression or as an iso-sig.
// Iso-sigs never contain spaces, so any line with a space is read as a gluing expression.
func ParseLine(dim int, line string) (*libtri.Triangulation, error) {
	if strings.ContainsRune(line, ' ') {
		return libtri.ParseTriangulation(dim, line)
	}
	tri, err := libtri.FromIsoSig(dim, line)
	if err == nil || line[0] != '(' {
		return tri, err
	}
	if tri, gluingsErr := libtri.ParseTriangulation(dim, line); gluingsErr == nil {
		return tri, nil
	}
	return nil, err
}

func (stream *Stream) Close() {
	if stream.Outlet != nil {
		close(stream.Outlet)
	}
}

func (stream *Stream) Push(tri *libtri.Triangulation) {
	stream.Outlet <- tri
}

func (stream *Stream) Pull() *libtri.Triangulation {
	return <-stream.Outlet
}

// PullAll drains the stream and returns the number of triangulations it carried.
func (stream *Stream) PullAll() int {
	count := int(0)
	for range stream.Outlet {
		count++
	}
	return count
}

// Collect drains the stream into a slice.
func (stream *Stream) Collect() []*libtri.Triangulation {
	var tris []*libtri.Triangulation
	for tri := range stream.Outlet {
		tris = append(tris, tri)
	}
	return tris
}

func (stream *Stream) Print(
	out io.WriteCloser,
	opts gotri.PrintOpts) *Stream {

	next := NewStream()

	go func() {
		buf := strings.Builder{}
		buf.Grow(256)

		count := 0
		for tri := range stream.Outlet {
			if len(opts.Label) > 0 {
				buf.WriteString(opts.Label)
				buf.WriteByte(',')
			}

			count++
			fmt.Fprintf(&buf, "%06d,", count)
			tri.WriteAsString(&buf, opts)
			io.WriteString(out, buf.String())
			buf.Reset()
			next.Outlet <- tri
		}
		out.Close()
		next.Close()
	}()

	return next
}

// Canonize relabels each triangulation into its canonical labelling.
func (stream *Stream) Canonize() *Stream {
	next := NewStream()

	go func() {
		for tri := range stream.Outlet {
			tri.MakeCanonical()
			next.Outlet <- tri
		}
		next.Close()
	}()

	return next
}

// Unique drops every triangulation isomorphic to one already seen by set.
func (stream *Stream) Unique(set SigSet) *Stream {
	next := NewStream()

	go func() {
		for tri := range stream.Outlet {
			if set.TryAdd(tri) {
				next.Outlet <- tri
			}
		}
		next.Close()
	}()

	return next
}

// AddTo adds each triangulation to target and passes on only those that were newly added.
func (stream *Stream) AddTo(target Adder, opts AddOpts) *Stream {
	next := NewStream()

	go func() {
		count := 0
		for tri := range stream.Outlet {
			count++
			name := ""
			if opts.NamePrefix != "" {
				name = fmt.Sprintf("%s%d", opts.NamePrefix, count)
			}
			wasAdded, err := target.TryAdd(tri, name)
			if err != nil {
				klog.Warningf("catalog add #%d: %v", count, err)
				continue
			}
			if wasAdded {
				next.Outlet <- tri
			}
		}
		if opts.AutoCloseCatalog {
			if err := target.Close(); err != nil {
				klog.Warningf("catalog close: %v", err)
			}
		}
		next.Close()
	}()

	return next
}

// SelectFromCatalog streams the triangulations of cat passing sel.
func SelectFromCatalog(cat Catalog, sel gotri.Selector) *Stream {
	next := NewStream()

	onHit := make(chan *Entry, 4)

	go func() {
		if err := cat.Select(sel, onHit); err != nil {
			klog.Warningf("catalog select: %v", err)
		}
		close(onHit)
	}()

	go func() {
		var seen SigSet
		if sel.UniqueSigs {
			seen = NewSigSet()
			defer seen.Close()
		}
		for entry := range onHit {
			if seen != nil && !seen.TryAddSig(sel.Dim, entry.Sig) {
				continue
			}
			next.Outlet <- entry.Tri
		}
		next.Close()
	}()

	return next
}

// SelectFromStream passes on the triangulations passing sel.
func (stream *Stream) SelectFromStream(sel gotri.Selector) *Stream {
	next := NewStream()

	go func() {
		var seen SigSet
		if sel.UniqueSigs {
			seen = NewSigSet()
			defer seen.Close()
		}
		for tri := range stream.Outlet {
			if !Selects(&sel, tri) {
				continue
			}
			if seen != nil && !seen.TryAdd(tri) {
				continue
			}
			next.Outlet <- tri
		}
		next.Close()
	}()

	return next
}
