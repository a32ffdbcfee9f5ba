package gotri

import "github.com/pkg/errors"

// Error kinds
var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrInvalidState     = errors.New("invalid state")
	ErrCapabilityAbsent = errors.New("capability absent in this dimension")
	ErrCancelled        = errors.New("operation cancelled")
)

// Errors
var (
	ErrBadDimension    = errors.WithMessage(ErrInvalidArgument, "unsupported dimension")
	ErrBadSimplex      = errors.WithMessage(ErrInvalidArgument, "simplex index out of range")
	ErrBadFacet        = errors.WithMessage(ErrInvalidArgument, "facet index out of range")
	ErrBadPerm         = errors.WithMessage(ErrInvalidArgument, "ill-formed permutation")
	ErrBadSelfGluing   = errors.WithMessage(ErrInvalidArgument, "facet cannot be glued to itself")
	ErrSizeMismatch    = errors.WithMessage(ErrInvalidArgument, "size or dimension mismatch")
	ErrMalformedSig    = errors.WithMessage(ErrInvalidArgument, "malformed isomorphism signature")
	ErrMalformedTight  = errors.WithMessage(ErrInvalidArgument, "malformed tight encoding")
	ErrTrailingChars   = errors.WithMessage(ErrInvalidArgument, "unexpected trailing characters")
	ErrBadGluingExpr   = errors.WithMessage(ErrInvalidArgument, "bad gluing expression")
	ErrBadCoords       = errors.WithMessage(ErrInvalidArgument, "unsupported coordinate system")
	ErrBadVector       = errors.WithMessage(ErrInvalidArgument, "bad normal surface vector")
	ErrBadCatalogParam = errors.WithMessage(ErrInvalidArgument, "bad catalog param")
	ErrUnmarshal       = errors.WithMessage(ErrInvalidArgument, "unmarshal failed")
	ErrNotInCatalog    = errors.WithMessage(ErrInvalidArgument, "not found in catalog")

	ErrFacetGlued      = errors.WithMessage(ErrInvalidState, "facet is already glued")
	ErrFacetNotGlued   = errors.WithMessage(ErrInvalidState, "facet is not glued")
	ErrNotValid        = errors.WithMessage(ErrInvalidState, "triangulation is not valid")
	ErrNotSimplicial3D = errors.WithMessage(ErrInvalidState, "operation requires a 3-dimensional triangulation")
	ErrCatalogClosed   = errors.WithMessage(ErrInvalidState, "catalog is closed")
	ErrReadOnly        = errors.WithMessage(ErrInvalidState, "catalog is read-only")
)
