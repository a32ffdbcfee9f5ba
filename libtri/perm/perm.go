// Package perm implements permutations of up to 16 points.
//
// A Perm is a comparable value: the images of 0..n-1 are packed four bits apiece.
// Permutations are identified by their Sn index, the position in an enumeration of
// all n! permutations in which even indices hold even permutations and odd indices
// hold odd ones.
package perm

import (
	"strings"

	"github.com/2x3systems/gotri/gotri"
	"github.com/pkg/errors"
)

const (
	// MaxN is the largest number of points a Perm can act on.
	MaxN = 16

	imgBits = 4
	imgMask = uint64(1)<<imgBits - 1
)

// Perm is a permutation of {0, ..., n-1}.
type Perm struct {
	pack uint64
	n    uint8
}

var identityPack [MaxN + 1]uint64

func init() {
	for n := 1; n <= MaxN; n++ {
		identityPack[n] = identityPack[n-1] | uint64(n-1)<<(imgBits*(n-1))
	}
}

func checkN(n int) {
	if n < 1 || n > MaxN {
		panic(errors.Wrapf(gotri.ErrBadPerm, "n=%d out of range", n))
	}
}

// Identity returns the identity permutation of n points.
func Identity(n int) Perm {
	checkN(n)
	return Perm{pack: identityPack[n], n: uint8(n)}
}

// Transposition returns the permutation of n points swapping a and b.
func Transposition(n, a, b int) Perm {
	p := Identity(n)
	p.set(a, b)
	p.set(b, a)
	return p
}

// Rot returns the rotation i -> i+k (mod n).
func Rot(n, k int) Perm {
	checkN(n)
	k %= n
	if k < 0 {
		k += n
	}
	p := Perm{n: uint8(n)}
	for i := 0; i < n; i++ {
		p.set(i, (i+k)%n)
	}
	return p
}

// FromImages validates and returns the permutation sending i to images[i].
func FromImages(images []int) (Perm, error) {
	n := len(images)
	if n < 1 || n > MaxN {
		return Perm{}, errors.Wrapf(gotri.ErrBadPerm, "%d images", n)
	}
	seen := 0
	p := Perm{n: uint8(n)}
	for i, img := range images {
		if img < 0 || img >= n || seen&(1<<img) != 0 {
			return Perm{}, errors.Wrapf(gotri.ErrBadPerm, "images %v", images)
		}
		seen |= 1 << img
		p.set(i, img)
	}
	return p, nil
}

// MustFromImages is FromImages for literal permutations and panics on bad input.
func MustFromImages(images ...int) Perm {
	p, err := FromImages(images)
	if err != nil {
		panic(err)
	}
	return p
}

// FromPack validates and returns the permutation with the given packed images (see Pack).
func FromPack(n int, pack uint64) (Perm, error) {
	if n < 1 || n > MaxN {
		return Perm{}, errors.Wrapf(gotri.ErrBadPerm, "n=%d out of range", n)
	}
	if n < MaxN && pack>>(imgBits*n) != 0 {
		return Perm{}, errors.Wrapf(gotri.ErrBadPerm, "pack %x has images beyond n=%d", pack, n)
	}
	seen := 0
	for i := 0; i < n; i++ {
		img := int(pack >> (imgBits * i) & imgMask)
		if img >= n || seen&(1<<img) != 0 {
			return Perm{}, errors.Wrapf(gotri.ErrBadPerm, "pack %x", pack)
		}
		seen |= 1 << img
	}
	return Perm{pack: pack, n: uint8(n)}, nil
}

func (p *Perm) set(i, img int) {
	shift := imgBits * uint(i)
	p.pack = p.pack&^(imgMask<<shift) | uint64(img)<<shift
}

// N returns the number of points this permutation acts on.
func (p Perm) N() int {
	return int(p.n)
}

// Pack returns the images of this permutation packed four bits apiece, image 0 lowest.
func (p Perm) Pack() uint64 {
	return p.pack
}

// Image returns the image of i.
func (p Perm) Image(i int) int {
	return int(p.pack >> (imgBits * uint(i)) & imgMask)
}

// PreImageOf returns the point that p sends to img.
func (p Perm) PreImageOf(img int) int {
	for i := 0; i < int(p.n); i++ {
		if p.Image(i) == img {
			return i
		}
	}
	return -1
}

// Images returns the images of 0..n-1.
func (p Perm) Images() []int {
	images := make([]int, p.n)
	for i := range images {
		images[i] = p.Image(i)
	}
	return images
}

func (p Perm) IsIdentity() bool {
	return p.pack == identityPack[p.n]
}

// Inverse returns p⁻¹.
func (p Perm) Inverse() Perm {
	inv := Perm{n: p.n}
	for i := 0; i < int(p.n); i++ {
		inv.set(p.Image(i), i)
	}
	return inv
}

// Compose returns p∘q, i.e. the permutation x -> p(q(x)).
func (p Perm) Compose(q Perm) Perm {
	r := Perm{n: p.n}
	for i := 0; i < int(p.n); i++ {
		r.pack |= uint64(p.Image(q.Image(i))) << (imgBits * uint(i))
	}
	return r
}

// Sign returns +1 for even permutations and -1 for odd ones.
func (p Perm) Sign() int {
	n := int(p.n)
	visited := 0
	cycles := 0
	for i := 0; i < n; i++ {
		if visited&(1<<i) != 0 {
			continue
		}
		cycles++
		for j := i; visited&(1<<j) == 0; j = p.Image(j) {
			visited |= 1 << j
		}
	}
	if (n-cycles)&1 == 0 {
		return 1
	}
	return -1
}

// Order returns the smallest k > 0 with p^k = id.
func (p Perm) Order() int {
	n := int(p.n)
	visited := 0
	order := 1
	for i := 0; i < n; i++ {
		if visited&(1<<i) != 0 {
			continue
		}
		length := 0
		for j := i; visited&(1<<j) == 0; j = p.Image(j) {
			visited |= 1 << j
			length++
		}
		order = lcm(order, length)
	}
	return order
}

func lcm(a, b int) int {
	x, y := a, b
	for y != 0 {
		x, y = y, x%y
	}
	return a / x * b
}

// Pow returns p^k; negative k powers the inverse.
func (p Perm) Pow(k int) Perm {
	if k < 0 {
		return p.Inverse().Pow(-k)
	}
	k %= p.Order()
	result := Identity(int(p.n))
	base := p
	for ; k > 0; k >>= 1 {
		if k&1 != 0 {
			result = base.Compose(result)
		}
		base = base.Compose(base)
	}
	return result
}

// Compare orders permutations lexicographically by their image lists.
func (p Perm) Compare(q Perm) int {
	for i := 0; i < int(p.n); i++ {
		a, b := p.Image(i), q.Image(i)
		if a < b {
			return -1
		} else if a > b {
			return 1
		}
	}
	return 0
}

// Extend returns the permutation of m >= n points that agrees with p and fixes n..m-1.
func (p Perm) Extend(m int) Perm {
	checkN(m)
	ext := Identity(m)
	for i := 0; i < int(p.n); i++ {
		ext.set(i, p.Image(i))
	}
	return ext
}

// Restrict returns the permutation of the first m points, which p must preserve.
func (p Perm) Restrict(m int) Perm {
	checkN(m)
	r := Perm{n: uint8(m)}
	for i := 0; i < m; i++ {
		r.set(i, p.Image(i))
	}
	return r
}

// String prints the images as hex digits, e.g. "1023".
func (p Perm) String() string {
	const digits = "0123456789abcdef"
	b := strings.Builder{}
	b.Grow(int(p.n))
	for i := 0; i < int(p.n); i++ {
		b.WriteByte(digits[p.Image(i)])
	}
	return b.String()
}

// Trunc prints only the first k images; k is clamped to [0, n].
func (p Perm) Trunc(k int) string {
	str := p.String()
	switch {
	case k < 0:
		k = 0
	case k > len(str):
		k = len(str)
	}
	return str[:k]
}
