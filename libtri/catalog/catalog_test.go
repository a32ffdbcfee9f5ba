package catalog_test

import (
	"errors"
	"math/rand"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/2x3systems/gotri/gotri"
	"github.com/2x3systems/gotri/libtri"
	"github.com/2x3systems/gotri/libtri/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	figureEightExpr = "(0, 0, 1, [1,3,0,2]), (0, 1, 1, [2,0,3,1]), (0, 2, 1, [0,3,2,1]), (0, 3, 1, [2,1,0,3])"
	sphereExpr      = "(0, 0, 0, [1,0,2,3]), (0, 2, 0, [0,1,3,2])"
	lensExpr        = "(0, 0, 0, [1,2,3,0]), (0, 2, 0, [1,2,3,0])"
	mobiusExpr      = "(0, 0, 1, [0,2,1]), (0, 1, 1, [0,1,2])"
)

func mustParse(t testing.TB, dim int, expr string) *libtri.Triangulation {
	t.Helper()
	tri, err := libtri.ParseTriangulation(dim, expr)
	require.NoError(t, err)
	return tri
}

func relabelled(t testing.TB, tri *libtri.Triangulation, seed int64) *libtri.Triangulation {
	t.Helper()
	iso := libtri.RandomIsomorphism(tri.Dimension(), tri.Size(), rand.New(rand.NewSource(seed)))
	out, err := iso.Apply(tri)
	require.NoError(t, err)
	return out
}

func openCatalog(t *testing.T, opts gotri.CatalogOpts) (gotri.CatalogContext, catalog.Catalog) {
	t.Helper()
	ctx := gotri.NewCatalogContext()
	cat, err := catalog.Open(ctx, opts)
	require.NoError(t, err)
	return ctx, cat
}

type nopCloser struct {
	*strings.Builder
}

func (nopCloser) Close() error { return nil }

func TestCatalogBasics(t *testing.T) {
	ctx, cat := openCatalog(t, gotri.CatalogOpts{})
	defer ctx.Close()

	fig8 := mustParse(t, 3, figureEightExpr)

	added, err := cat.TryAdd(fig8, "m004")
	require.NoError(t, err)
	assert.True(t, added)

	for seed := int64(1); seed <= 4; seed++ {
		added, err = cat.TryAdd(relabelled(t, fig8, seed), "dupe")
		require.NoError(t, err)
		assert.False(t, added)
	}

	for name, expr := range map[string]string{"S3": sphereExpr, "L41": lensExpr} {
		added, err = cat.TryAdd(mustParse(t, 3, expr), name)
		require.NoError(t, err)
		assert.True(t, added, name)
	}
	assert.EqualValues(t, 3, cat.NumEntries(3))
	assert.EqualValues(t, 0, cat.NumEntries(2))

	entry, err := cat.Lookup(relabelled(t, fig8, 9))
	require.NoError(t, err)
	assert.Equal(t, "m004", entry.Name)
	assert.Equal(t, fig8.IsoSig(), entry.Sig)

	canon, err := libtri.FromIsoSig(3, entry.Sig)
	require.NoError(t, err)
	assert.True(t, entry.Tri.IsIdenticalTo(canon))

	entry, err = cat.LookupSig(3, mustParse(t, 3, lensExpr).IsoSig())
	require.NoError(t, err)
	assert.Equal(t, "L41", entry.Name)

	_, err = cat.Lookup(mustParse(t, 2, mobiusExpr))
	assert.True(t, errors.Is(err, gotri.ErrNotInCatalog))

	_, err = cat.LookupSig(3, "not a sig")
	assert.True(t, errors.Is(err, gotri.ErrMalformedSig))
}

func TestCatalogSelect(t *testing.T) {
	ctx, cat := openCatalog(t, gotri.CatalogOpts{})
	defer ctx.Close()

	for _, expr := range []string{figureEightExpr, sphereExpr, lensExpr} {
		_, err := cat.TryAdd(mustParse(t, 3, expr), "")
		require.NoError(t, err)
	}
	_, err := cat.TryAdd(mustParse(t, 2, mobiusExpr), "mobius")
	require.NoError(t, err)

	collect := func(sel gotri.Selector) []*catalog.Entry {
		onHit := make(chan *catalog.Entry)
		var entries []*catalog.Entry
		done := make(chan struct{})
		go func() {
			for entry := range onHit {
				entries = append(entries, entry)
			}
			close(done)
		}()
		require.NoError(t, cat.Select(sel, onHit))
		close(onHit)
		<-done
		return entries
	}

	all := collect(gotri.DefaultSelector)
	require.Len(t, all, 3)
	for i := 1; i < len(all); i++ {
		assert.LessOrEqual(t, all[i-1].Tri.Size(), all[i].Tri.Size())
	}

	sel := gotri.DefaultSelector
	sel.MaxSize = 1
	assert.Len(t, collect(sel), 2)

	sel = gotri.DefaultSelector
	sel.MinSize = 2
	small := collect(sel)
	require.Len(t, small, 1)
	assert.Equal(t, 2, small[0].Tri.Size())

	sel = gotri.Selector{Dim: 2, Orientable: gotri.No}
	twoDim := collect(sel)
	require.Len(t, twoDim, 1)
	assert.Equal(t, "mobius", twoDim[0].Name)

	sel.Orientable = gotri.Yes
	assert.Empty(t, collect(sel))

	assert.True(t, errors.Is(cat.Select(gotri.Selector{Dim: 1}, nil), gotri.ErrBadDimension))
}

func TestCatalogPersistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "census")

	ctx, cat := openCatalog(t, gotri.CatalogOpts{DbPathName: dbPath})
	_, err := cat.TryAdd(mustParse(t, 3, figureEightExpr), "m004")
	require.NoError(t, err)
	_, err = cat.TryAdd(mustParse(t, 3, sphereExpr), "S3")
	require.NoError(t, err)
	require.NoError(t, cat.Close())
	ctx.Close()
	<-ctx.Done()

	ctx, cat = openCatalog(t, gotri.CatalogOpts{DbPathName: dbPath, ReadOnly: true})
	defer ctx.Close()

	assert.True(t, cat.IsReadOnly())
	assert.EqualValues(t, 2, cat.NumEntries(3))

	entry, err := cat.Lookup(relabelled(t, mustParse(t, 3, figureEightExpr), 3))
	require.NoError(t, err)
	assert.Equal(t, "m004", entry.Name)

	_, err = cat.TryAdd(mustParse(t, 3, lensExpr), "L41")
	assert.True(t, errors.Is(err, gotri.ErrReadOnly))
}

func TestCatalogParams(t *testing.T) {
	ctx := gotri.NewCatalogContext()
	defer ctx.Close()

	_, err := catalog.Open(ctx, gotri.CatalogOpts{ReadOnly: true})
	assert.True(t, errors.Is(err, gotri.ErrBadCatalogParam))

	cat, err := catalog.Open(ctx, gotri.CatalogOpts{})
	require.NoError(t, err)
	require.NoError(t, cat.Close())

	_, err = cat.TryAdd(mustParse(t, 3, sphereExpr), "")
	assert.True(t, errors.Is(err, gotri.ErrCatalogClosed))
	_, err = cat.LookupSig(3, mustParse(t, 3, sphereExpr).IsoSig())
	assert.True(t, errors.Is(err, gotri.ErrCatalogClosed))
}

func TestContextClosesCatalogs(t *testing.T) {
	ctx, cat := openCatalog(t, gotri.CatalogOpts{})
	_, err := cat.TryAdd(mustParse(t, 3, sphereExpr), "")
	require.NoError(t, err)

	ctx.Close()
	<-ctx.Done()

	_, err = cat.TryAdd(mustParse(t, 3, lensExpr), "")
	assert.True(t, errors.Is(err, gotri.ErrCatalogClosed))
}

func TestSigSet(t *testing.T) {
	set := catalog.NewSigSet()
	defer set.Close()

	fig8 := mustParse(t, 3, figureEightExpr)
	assert.True(t, set.TryAdd(fig8))
	assert.False(t, set.TryAdd(relabelled(t, fig8, 5)))
	assert.True(t, set.TryAdd(mustParse(t, 3, sphereExpr)))

	// same sig text in another dimension is a different entry
	assert.True(t, set.TryAddSig(4, fig8.IsoSig()))
	assert.False(t, set.TryAddSig(3, fig8.IsoSig()))
}

func TestStreamPipeline(t *testing.T) {
	fig8 := mustParse(t, 3, figureEightExpr)
	lens := mustParse(t, 3, lensExpr)
	inputs := func() []*libtri.Triangulation {
		return []*libtri.Triangulation{
			fig8.Clone(),
			relabelled(t, fig8, 11),
			mustParse(t, 3, sphereExpr),
			lens.Clone(),
			relabelled(t, lens, 12),
		}
	}

	set := catalog.NewSigSet()
	assert.Equal(t, 3, catalog.StreamOf(inputs()...).Unique(set).PullAll())
	set.Close()

	for _, tri := range catalog.StreamOf(inputs()...).Canonize().Collect() {
		canon, err := libtri.FromIsoSig(3, tri.IsoSig())
		require.NoError(t, err)
		assert.True(t, tri.IsIdenticalTo(canon))
	}

	ctx, cat := openCatalog(t, gotri.CatalogOpts{})
	defer ctx.Close()

	added := catalog.StreamOf(inputs()...).AddTo(cat, catalog.AddOpts{NamePrefix: "t"}).Collect()
	require.Len(t, added, 3)
	assert.EqualValues(t, 3, cat.NumEntries(3))

	entry, err := cat.Lookup(lens)
	require.NoError(t, err)
	assert.Equal(t, "t4", entry.Name)

	sel := gotri.DefaultSelector
	sel.MaxSize = 1
	assert.Equal(t, 2, catalog.SelectFromCatalog(cat, sel).PullAll())

	sel = gotri.Selector{UniqueSigs: true, MaxSize: 1}
	assert.Equal(t, 2, catalog.StreamOf(inputs()...).SelectFromStream(sel).PullAll())
}

func TestStreamPrint(t *testing.T) {
	out := nopCloser{&strings.Builder{}}
	opts := gotri.PrintOpts{Label: "census", Sig: true, FVector: true}

	sphere := mustParse(t, 3, sphereExpr)
	n := catalog.StreamOf(sphere, mustParse(t, 3, lensExpr)).Print(out, opts).PullAll()
	require.Equal(t, 2, n)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "census,000001,d=3,n=1,"))
	assert.Contains(t, lines[0], strconv.Quote(sphere.IsoSig()))
	assert.Contains(t, lines[0], "f=[2 3 2 1]")
}

func TestScanLines(t *testing.T) {
	sig := mustParse(t, 3, lensExpr).IsoSig()
	input := strings.Join([]string{
		"# census input",
		figureEightExpr,
		"",
		sig,
		"(0, 0, 0, [0,1,2,3])",
		"1: " + sphereExpr,
	}, "\n")

	var badLines []int
	tris := catalog.ScanLines(3, strings.NewReader(input), func(lineNum int, err error) {
		badLines = append(badLines, lineNum)
	}).Collect()

	require.Len(t, tris, 3)
	assert.Equal(t, []int{5}, badLines)
	assert.Equal(t, 2, tris[0].Size())
	assert.Equal(t, sig, tris[1].IsoSig())
	assert.Equal(t, 1, tris[2].Size())
}
