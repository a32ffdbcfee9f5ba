package perm

import (
	"sync"
	"sync/atomic"

	"github.com/2x3systems/gotri/gotri"
	"github.com/pkg/errors"
)

// MaxTableN is the largest n for which the Sn enumeration is held in a table.
const MaxTableN = 7

var factorials [MaxN + 1]int64

func init() {
	factorials[0] = 1
	for i := 1; i <= MaxN; i++ {
		factorials[i] = factorials[i-1] * int64(i)
	}
}

// Factorial returns n! for 0 <= n <= MaxN.
func Factorial(n int) int64 {
	return factorials[n]
}

// OrderedIndex returns the lexicographic rank of p among all permutations of n points.
func (p Perm) OrderedIndex() int64 {
	n := int(p.n)
	rank := int64(0)
	used := 0
	for i := 0; i < n; i++ {
		img := p.Image(i)
		smaller := 0
		for j := 0; j < img; j++ {
			if used&(1<<j) == 0 {
				smaller++
			}
		}
		used |= 1 << img
		rank += int64(smaller) * factorials[n-1-i]
	}
	return rank
}

// FromOrderedIndex is the inverse of OrderedIndex.
func FromOrderedIndex(n int, idx int64) Perm {
	checkN(n)
	p := Perm{n: uint8(n)}
	used := 0
	for i := 0; i < n; i++ {
		f := factorials[n-1-i]
		k := int(idx / f)
		idx %= f
		for j := 0; j < n; j++ {
			if used&(1<<j) != 0 {
				continue
			}
			if k == 0 {
				p.set(i, j)
				used |= 1 << j
				break
			}
			k--
		}
	}
	return p
}

// SnIndex returns the index of p in the alternating-parity enumeration of Sn.
//
// Lexicographic neighbours 2k and 2k+1 differ by a swap of the last two images, so each
// pair holds one even and one odd permutation; the even one takes the even index.
func (p Perm) SnIndex() int64 {
	if t := table(int(p.n)); t != nil {
		return int64(t.index[p.pack])
	}
	return snIndex(p)
}

func snIndex(p Perm) int64 {
	o := p.OrderedIndex()
	if p.Sign() < 0 {
		return o | 1
	}
	return o &^ 1
}

// FromSnIndex returns the permutation with the given Sn index.
func FromSnIndex(n int, idx int64) Perm {
	if t := table(n); t != nil {
		return t.perms[idx]
	}
	return fromSnIndex(n, idx)
}

func fromSnIndex(n int, idx int64) Perm {
	if n == 1 {
		return Identity(1)
	}
	p := FromOrderedIndex(n, idx&^1)
	odd := p.Sign() < 0
	if odd != (idx&1 != 0) {
		p = FromOrderedIndex(n, idx|1)
	}
	return p
}

// ForEach calls fn with every permutation of n points in Sn order until fn returns false.
func ForEach(n int, fn func(p Perm) bool) {
	if t := table(n); t != nil {
		for _, p := range t.perms {
			if !fn(p) {
				return
			}
		}
		return
	}
	count := factorials[n]
	for i := int64(0); i < count; i++ {
		if !fn(fromSnIndex(n, i)) {
			return
		}
	}
}

// Sn returns all permutations of n <= MaxTableN points in Sn order.
// The returned slice is shared and must not be modified.
func Sn(n int) []Perm {
	t := table(n)
	if t == nil {
		panic(errors.Wrapf(gotri.ErrBadPerm, "no Sn table for n=%d", n))
	}
	return t.perms
}

type snTable struct {
	once  sync.Once
	perms []Perm
	index map[uint64]int32

	// built by Precompute()
	precomputeOnce sync.Once
	ready          atomic.Bool
	product        []uint16 // n! x n!, product[i*n!+j] = Sn index of perms[i]∘perms[j]
	order          []uint8
}

var tables [MaxTableN + 1]snTable

func table(n int) *snTable {
	if n < 1 || n > MaxTableN {
		return nil
	}
	t := &tables[n]
	t.once.Do(func() {
		count := factorials[n]
		t.perms = make([]Perm, count)
		t.index = make(map[uint64]int32, count)
		for i := int64(0); i < count; i++ {
			p := fromSnIndex(n, i)
			t.perms[i] = p
			t.index[p.pack] = int32(i)
		}
	})
	return t
}

// Precompute builds the product and order tables for n <= MaxTableN, enabling O(1)
// CachedComp, CachedPow and CachedOrder.  For n = 7 the product table takes about 50 MB.
func Precompute(n int) {
	t := table(n)
	if t == nil {
		return
	}
	t.precomputeOnce.Do(func() {
		count := len(t.perms)
		t.product = make([]uint16, count*count)
		t.order = make([]uint8, count)
		for i, p := range t.perms {
			row := t.product[i*count : (i+1)*count]
			for j, q := range t.perms {
				row[j] = uint16(t.index[p.Compose(q).pack])
			}
			t.order[i] = uint8(p.Order())
		}
		t.ready.Store(true)
	})
}

func readyTable(n int) *snTable {
	if n > MaxTableN {
		return nil
	}
	t := &tables[n]
	if !t.ready.Load() {
		return nil
	}
	return t
}

// CachedComp is Compose via the precomputed product table when available.
func (p Perm) CachedComp(q Perm) Perm {
	if t := readyTable(int(p.n)); t != nil {
		count := len(t.perms)
		i, j := t.index[p.pack], t.index[q.pack]
		return t.perms[t.product[int(i)*count+int(j)]]
	}
	return p.Compose(q)
}

// CachedOrder is Order via the precomputed order table when available.
func (p Perm) CachedOrder() int {
	if t := readyTable(int(p.n)); t != nil {
		return int(t.order[t.index[p.pack]])
	}
	return p.Order()
}

// CachedPow is Pow via the precomputed tables when available.
func (p Perm) CachedPow(k int) Perm {
	t := readyTable(int(p.n))
	if t == nil {
		return p.Pow(k)
	}
	order := int(t.order[t.index[p.pack]])
	k %= order
	if k < 0 {
		k += order
	}
	result := Identity(int(p.n))
	for ; k > 0; k-- {
		result = p.CachedComp(result)
	}
	return result
}
