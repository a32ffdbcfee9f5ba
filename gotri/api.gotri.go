package gotri

import "io"

const (
	// MinDim and MaxDim bound the dimension of a triangulation; MaxDim+1 vertices must fit a Perm.
	MinDim = 2
	MaxDim = 15

	// MaxCatalogSize is the largest simplex count a catalog key can carry.
	MaxCatalogSize = 0xFFFF
)

// CatalogContext is a container for open / active catalog instances.
type CatalogContext interface {

	// Attaches the given catalog to this context.
	AttachCatalog(cat io.Closer)

	// Detaches the given catalog from this context.
	DetachCatalog(cat io.Closer)

	// Closes all open catalogs then closes.
	Close()

	// Signals when Close() completed and all open catalogs have been closed
	Done() <-chan struct{}
}

// CatalogOpts specifies params for opening a census catalog
type CatalogOpts struct {
	DbPathName string // omit for in-memory db
	ReadOnly   bool   // open in read-only mode
}

// Tristate is a filter that either requires, rejects, or ignores a property.
type Tristate int8

const (
	Either Tristate = 0
	Yes    Tristate = 1
	No     Tristate = -1
)

// Allows reports if the given property value passes this filter.
func (ts Tristate) Allows(val bool) bool {
	switch ts {
	case Yes:
		return val
	case No:
		return !val
	}
	return true
}

// Selector is an operator that either selects a given triangulation or not.
type Selector struct {
	Dim        int      // required dimension
	MinSize    int      // lower bound on simplex count
	MaxSize    int      // upper bound on simplex count (0 denotes no bound)
	Orientable Tristate // orientability filter
	Closed     Tristate // no boundary facets
	Valid      Tristate // validity filter
	Connected  Tristate // single component filter
	UniqueSigs bool     // for streams: drop triangulations whose iso-sig was already seen
}

// SelectsSize reports if the given simplex count is within the selector bounds.
func (sel *Selector) SelectsSize(size int) bool {
	if size < sel.MinSize {
		return false
	}
	if sel.MaxSize > 0 && size > sel.MaxSize {
		return false
	}
	return true
}

// DefaultSelector selects every 3-dimensional triangulation.
var DefaultSelector = Selector{
	Dim: 3,
}

// PrintOpts specifies what is printed when printing a triangulation
type PrintOpts struct {
	Label   string // Prefix label
	Sig     bool   // If set, prints the iso-sig
	Gluings bool   // If set, prints the gluing table expr
	FVector bool   // If set, prints face counts per dimension
	Props   bool   // If set, prints validity, orientability, and boundary info
}

// DefaultPrintOpts{}
var DefaultPrintOpts = PrintOpts{
	Sig:   true,
	Props: true,
}
