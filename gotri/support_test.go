package gotri_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/2x3systems/gotri/gotri"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	ctx    gotri.CatalogContext
	closed atomic.Int32
}

func (cat *fakeCatalog) Close() error {
	cat.closed.Add(1)
	cat.ctx.DetachCatalog(cat)
	return nil
}

func TestCatalogContextClosesAttached(t *testing.T) {
	ctx := gotri.NewCatalogContext()
	cats := make([]*fakeCatalog, 3)
	for i := range cats {
		cats[i] = &fakeCatalog{ctx: ctx}
		ctx.AttachCatalog(cats[i])
	}
	ctx.Close()
	ctx.Close()

	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("context never signalled done")
	}
	for _, cat := range cats {
		require.EqualValues(t, 1, cat.closed.Load())
	}
}

func TestCatalogContextLateAttach(t *testing.T) {
	ctx := gotri.NewCatalogContext()
	ctx.Close()
	<-ctx.Done()

	late := &fakeCatalog{ctx: ctx}
	ctx.AttachCatalog(late)
	require.Eventually(t, func() bool {
		return late.closed.Load() == 1
	}, 5*time.Second, time.Millisecond)
}

func TestErrorKinds(t *testing.T) {
	require.True(t, errors.Is(gotri.ErrBadFacet, gotri.ErrInvalidArgument))
	require.True(t, errors.Is(gotri.ErrFacetGlued, gotri.ErrInvalidState))
	require.False(t, errors.Is(gotri.ErrFacetGlued, gotri.ErrInvalidArgument))

	err := errors.Wrapf(gotri.ErrTrailingChars, "at offset %d", 4)
	require.True(t, errors.Is(err, gotri.ErrTrailingChars))
	require.True(t, errors.Is(err, gotri.ErrInvalidArgument))
	require.False(t, errors.Is(err, gotri.ErrMalformedSig))
}

func TestSelector(t *testing.T) {
	sel := gotri.Selector{MinSize: 2, MaxSize: 4, Orientable: gotri.Yes, Closed: gotri.No}
	require.False(t, sel.SelectsSize(1))
	require.True(t, sel.SelectsSize(4))
	require.False(t, sel.SelectsSize(5))
	require.True(t, sel.Orientable.Allows(true))
	require.False(t, sel.Closed.Allows(true))
	require.True(t, gotri.Either.Allows(false))
}
