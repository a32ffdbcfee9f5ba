package perm_test

import (
	"math/rand"
	"testing"

	"github.com/2x3systems/gotri/gotri"
	"github.com/2x3systems/gotri/libtri/perm"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomPerm(rng *rand.Rand, n int) perm.Perm {
	p, err := perm.FromImages(rng.Perm(n))
	if err != nil {
		panic(err)
	}
	return p
}

func TestSnIndexParity(t *testing.T) {
	for n := 1; n <= 7; n++ {
		count := perm.Factorial(n)
		seen := make(map[perm.Perm]bool, count)
		for i := int64(0); i < count; i++ {
			p := perm.FromSnIndex(n, i)
			require.Equal(t, i, p.SnIndex(), "n=%d", n)
			require.False(t, seen[p])
			seen[p] = true
			if i%2 == 0 {
				require.Equal(t, 1, p.Sign(), "n=%d idx=%d", n, i)
			} else {
				require.Equal(t, -1, p.Sign(), "n=%d idx=%d", n, i)
			}
		}
	}
}

func TestS4Order(t *testing.T) {
	want := []string{"0123", "0132", "0231", "0213", "0312", "0321", "1032", "1023"}
	for i, w := range want {
		assert.Equal(t, w, perm.FromSnIndex(4, int64(i)).String())
	}
}

func TestLargeN(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, n := range []int{8, 11, 16} {
		for trial := 0; trial < 50; trial++ {
			p := randomPerm(rng, n)
			idx := p.SnIndex()
			require.Less(t, idx, perm.Factorial(n))
			require.Equal(t, p, perm.FromSnIndex(n, idx))
			require.Equal(t, idx%2 == 0, p.Sign() > 0)
		}
	}
}

func TestAlgebra(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, n := range []int{2, 3, 4, 5, 7, 9, 16} {
		id := perm.Identity(n)
		for trial := 0; trial < 40; trial++ {
			p, q := randomPerm(rng, n), randomPerm(rng, n)
			require.Equal(t, id, p.Compose(p.Inverse()))
			require.Equal(t, id, p.Inverse().Compose(p))
			require.Equal(t, p.Sign()*q.Sign(), p.Compose(q).Sign())
			for x := 0; x < n; x++ {
				require.Equal(t, p.Image(q.Image(x)), p.Compose(q).Image(x))
				require.Equal(t, x, p.PreImageOf(p.Image(x)))
			}
			require.Equal(t, id, p.Pow(p.Order()))
			require.Equal(t, p.Inverse(), p.Pow(-1))
			require.Equal(t, p.Compose(p).Compose(p), p.Pow(3))
		}
	}
}

func TestConstructors(t *testing.T) {
	tr := perm.Transposition(4, 1, 3)
	assert.Equal(t, "0321", tr.String())
	assert.Equal(t, -1, tr.Sign())
	assert.Equal(t, 2, tr.Order())

	rot := perm.Rot(5, 2)
	assert.Equal(t, "23401", rot.String())
	assert.Equal(t, 5, rot.Order())
	assert.Equal(t, perm.Rot(5, -3), rot)

	ext := perm.MustFromImages(1, 0).Extend(4)
	assert.Equal(t, "1023", ext.String())
	assert.Equal(t, perm.MustFromImages(1, 0), ext.Restrict(2))

	assert.Equal(t, -1, perm.MustFromImages(0, 2, 1).Compare(perm.MustFromImages(1, 0, 2)))
	assert.Equal(t, 0, perm.Identity(3).Compare(perm.Identity(3)))
	assert.True(t, perm.Identity(6).IsIdentity())

	_, err := perm.FromImages([]int{0, 1, 1})
	require.True(t, errors.Is(err, gotri.ErrBadPerm))
	_, err = perm.FromImages([]int{0, 3, 1})
	require.True(t, errors.Is(err, gotri.ErrInvalidArgument))

	p := perm.MustFromImages(3, 1, 0, 2)
	q, err := perm.FromPack(4, p.Pack())
	require.NoError(t, err)
	require.Equal(t, p, q)
	_, err = perm.FromPack(4, 0x1111)
	require.Error(t, err)
}

func TestTrunc(t *testing.T) {
	p := perm.MustFromImages(2, 0, 3, 1)
	assert.Equal(t, "2031", p.String())
	for k, want := range map[int]string{-1: "", 0: "", 2: "20", 4: "2031", 9: "2031"} {
		assert.Equal(t, want, p.Trunc(k), "k=%d", k)
	}
}

func TestTightEncoding(t *testing.T) {
	p := perm.FromSnIndex(7, 4321)
	enc := p.TightEncoding()
	require.Len(t, enc, 2)
	require.Equal(t, 2, perm.TightLength(7))
	back, err := perm.TightDecode(7, enc)
	require.NoError(t, err)
	require.Equal(t, p, back)
	require.Equal(t, -1, p.Sign())
	require.Equal(t, 1, perm.FromSnIndex(7, 4320).Sign())

	for n := 1; n <= 7; n++ {
		perm.ForEach(n, func(p perm.Perm) bool {
			q, err := perm.TightDecode(n, p.TightEncoding())
			require.NoError(t, err)
			require.Equal(t, p, q)
			return true
		})
	}

	_, err = perm.TightDecode(7, enc+"x")
	require.True(t, errors.Is(err, gotri.ErrTrailingChars))

	_, err = perm.TightDecode(7, "a")
	require.True(t, errors.Is(err, gotri.ErrMalformedTight))

	_, err = perm.TightDecode(4, " ")
	require.True(t, errors.Is(err, gotri.ErrMalformedTight))

	// 4! = 24 so index 93 is out of range
	_, err = perm.TightDecode(4, "~")
	require.True(t, errors.Is(err, gotri.ErrMalformedTight))

	_, rest, err := perm.TightDecodePrefix(4, "!!rest")
	require.NoError(t, err)
	require.Equal(t, "!rest", rest)
}

func TestPrecompute(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	perm.Precompute(5)
	for trial := 0; trial < 100; trial++ {
		p, q := randomPerm(rng, 5), randomPerm(rng, 5)
		require.Equal(t, p.Compose(q), p.CachedComp(q))
		require.Equal(t, p.Order(), p.CachedOrder())
		require.Equal(t, p.Pow(4), p.CachedPow(4))
		require.Equal(t, p.Pow(-2), p.CachedPow(-2))
	}

	// Without precomputation the cached forms fall back to direct computation
	p, q := randomPerm(rng, 6), randomPerm(rng, 6)
	require.Equal(t, p.Compose(q), p.CachedComp(q))
	require.Len(t, perm.Sn(6), 720)
}
