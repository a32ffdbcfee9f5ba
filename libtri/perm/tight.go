package perm

import (
	"github.com/2x3systems/gotri/gotri"
	"github.com/pkg/errors"
)

const (
	// TightBase is the radix of the printable tight encoding, using characters 33..126.
	TightBase = 94
	TightMin  = 33
	TightMax  = TightMin + TightBase - 1
)

var tightLen [MaxN + 1]int

func init() {
	for n := 1; n <= MaxN; n++ {
		width, span := 1, int64(TightBase)
		for span < factorials[n] {
			width++
			span *= TightBase
		}
		tightLen[n] = width
	}
}

// TightLength returns the number of characters in the tight encoding of a permutation of n points.
func TightLength(n int) int {
	return tightLen[n]
}

// IsTightChar reports if c can appear in a tight encoding or an isomorphism signature.
func IsTightChar(c byte) bool {
	return c >= TightMin && c <= TightMax
}

// AppendTightEncoding appends the tight encoding of p to dst: the Sn index in base 94,
// low digit first, in exactly TightLength(n) characters.
func (p Perm) AppendTightEncoding(dst []byte) []byte {
	idx := p.SnIndex()
	for i := tightLen[p.n]; i > 0; i-- {
		dst = append(dst, byte(TightMin+idx%TightBase))
		idx /= TightBase
	}
	return dst
}

func (p Perm) TightEncoding() string {
	var buf [8]byte
	return string(p.AppendTightEncoding(buf[:0]))
}

// TightDecodePrefix decodes one permutation of n points from the front of enc and returns the rest.
func TightDecodePrefix(n int, enc string) (Perm, string, error) {
	if n < 1 || n > MaxN {
		return Perm{}, enc, errors.Wrapf(gotri.ErrBadPerm, "n=%d out of range", n)
	}
	width := tightLen[n]
	if len(enc) < width {
		return Perm{}, enc, errors.Wrapf(gotri.ErrMalformedTight, "%q is too short", enc)
	}
	idx := int64(0)
	for i := width - 1; i >= 0; i-- {
		c := enc[i]
		if !IsTightChar(c) {
			return Perm{}, enc, errors.Wrapf(gotri.ErrMalformedTight, "character %q", c)
		}
		idx = idx*TightBase + int64(c-TightMin)
	}
	if idx >= factorials[n] {
		return Perm{}, enc, errors.Wrapf(gotri.ErrMalformedTight, "index %d out of range for n=%d", idx, n)
	}
	return FromSnIndex(n, idx), enc[width:], nil
}

// TightDecode decodes a complete tight encoding, rejecting trailing characters.
func TightDecode(n int, enc string) (Perm, error) {
	p, rest, err := TightDecodePrefix(n, enc)
	if err != nil {
		return Perm{}, err
	}
	if len(rest) > 0 {
		return Perm{}, errors.Wrapf(gotri.ErrTrailingChars, "%q after tight encoding", rest)
	}
	return p, nil
}
