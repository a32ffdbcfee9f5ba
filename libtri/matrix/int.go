// Package matrix provides dense exact matrices over the integers and the rationals.
package matrix

import (
	"math/big"
	"strings"
)

// Vec is a vector of arbitrary-precision integers.
type Vec []*big.Int

// NewVec returns a zero vector of length n.
func NewVec(n int) Vec {
	v := make(Vec, n)
	for i := range v {
		v[i] = new(big.Int)
	}
	return v
}

// VecOf returns a vector holding the given values.
func VecOf(vals ...int64) Vec {
	v := make(Vec, len(vals))
	for i, x := range vals {
		v[i] = big.NewInt(x)
	}
	return v
}

func (v Vec) Clone() Vec {
	c := make(Vec, len(v))
	for i, x := range v {
		c[i] = new(big.Int).Set(x)
	}
	return c
}

// Add returns v + w; both must have equal length.
func (v Vec) Add(w Vec) Vec {
	sum := make(Vec, len(v))
	for i := range v {
		sum[i] = new(big.Int).Add(v[i], w[i])
	}
	return sum
}

func (v Vec) Equal(w Vec) bool {
	if len(v) != len(w) {
		return false
	}
	for i := range v {
		if v[i].Cmp(w[i]) != 0 {
			return false
		}
	}
	return true
}

func (v Vec) IsZero() bool {
	for _, x := range v {
		if x.Sign() != 0 {
			return false
		}
	}
	return true
}

// HasNegative reports if any entry is < 0.
func (v Vec) HasNegative() bool {
	for _, x := range v {
		if x.Sign() < 0 {
			return true
		}
	}
	return false
}

func (v Vec) String() string {
	b := strings.Builder{}
	b.WriteByte('(')
	for i, x := range v {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(x.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Int is a dense rows x cols matrix of arbitrary-precision integers.
type Int struct {
	rows, cols int
	vals       []big.Int
}

// NewInt returns a zero rows x cols matrix.
func NewInt(rows, cols int) *Int {
	return &Int{
		rows: rows,
		cols: cols,
		vals: make([]big.Int, rows*cols),
	}
}

func (m *Int) Rows() int { return m.rows }
func (m *Int) Cols() int { return m.cols }

// Entry returns the entry at (i, j).  The returned value is owned by m and must not be modified.
func (m *Int) Entry(i, j int) *big.Int {
	return &m.vals[i*m.cols+j]
}

func (m *Int) Set(i, j int, val *big.Int) {
	m.vals[i*m.cols+j].Set(val)
}

func (m *Int) SetInt64(i, j int, val int64) {
	m.vals[i*m.cols+j].SetInt64(val)
}

// AddInt64 adds delta to the entry at (i, j).
func (m *Int) AddInt64(i, j int, delta int64) {
	e := &m.vals[i*m.cols+j]
	e.Add(e, big.NewInt(delta))
}

func (m *Int) Clone() *Int {
	c := NewInt(m.rows, m.cols)
	for i := range m.vals {
		c.vals[i].Set(&m.vals[i])
	}
	return c
}

func (m *Int) Equal(other *Int) bool {
	if m.rows != other.rows || m.cols != other.cols {
		return false
	}
	for i := range m.vals {
		if m.vals[i].Cmp(&other.vals[i]) != 0 {
			return false
		}
	}
	return true
}

// Row returns a copy of row i.
func (m *Int) Row(i int) Vec {
	row := make(Vec, m.cols)
	for j := range row {
		row[j] = new(big.Int).Set(m.Entry(i, j))
	}
	return row
}

// MulVec returns m·v.
func (m *Int) MulVec(v Vec) Vec {
	out := NewVec(m.rows)
	var prod big.Int
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			e := m.Entry(i, j)
			if e.Sign() == 0 || v[j].Sign() == 0 {
				continue
			}
			out[i].Add(out[i], prod.Mul(e, v[j]))
		}
	}
	return out
}

func (m *Int) SwapRows(a, b int) {
	if a == b {
		return
	}
	for j := 0; j < m.cols; j++ {
		ea, eb := m.Entry(a, j), m.Entry(b, j)
		var tmp big.Int
		tmp.Set(ea)
		ea.Set(eb)
		eb.Set(&tmp)
	}
}

func (m *Int) SwapCols(a, b int) {
	if a == b {
		return
	}
	for i := 0; i < m.rows; i++ {
		ea, eb := m.Entry(i, a), m.Entry(i, b)
		var tmp big.Int
		tmp.Set(ea)
		ea.Set(eb)
		eb.Set(&tmp)
	}
}

// AddRowMultiple adds k times row src to row dst.
func (m *Int) AddRowMultiple(dst, src int, k *big.Int) {
	var prod big.Int
	for j := 0; j < m.cols; j++ {
		e := m.Entry(dst, j)
		e.Add(e, prod.Mul(k, m.Entry(src, j)))
	}
}

// AddColMultiple adds k times column src to column dst.
func (m *Int) AddColMultiple(dst, src int, k *big.Int) {
	var prod big.Int
	for i := 0; i < m.rows; i++ {
		e := m.Entry(i, dst)
		e.Add(e, prod.Mul(k, m.Entry(i, src)))
	}
}

func (m *Int) NegateRow(i int) {
	for j := 0; j < m.cols; j++ {
		e := m.Entry(i, j)
		e.Neg(e)
	}
}

// Rank returns the rank over the rationals.
func (m *Int) Rank() int {
	return FromInt(m).Rank()
}

// IsZeroVec reports if m·v = 0.
func (m *Int) IsZeroVec(v Vec) bool {
	return m.MulVec(v).IsZero()
}

// RowEchelon reduces m in place to row echelon form using unimodular integer row operations
// and returns the rank.  Pivots are positive; rows at and below the rank are zero.
func (m *Int) RowEchelon() int {
	rank := 0
	var a, b, g, s, t, ag, bg, x, y big.Int
	for col := 0; col < m.cols && rank < m.rows; col++ {
		pivot := -1
		for i := rank; i < m.rows; i++ {
			if m.Entry(i, col).Sign() != 0 {
				pivot = i
				break
			}
		}
		if pivot < 0 {
			continue
		}
		m.SwapRows(rank, pivot)

		for i := rank + 1; i < m.rows; i++ {
			if m.Entry(i, col).Sign() == 0 {
				continue
			}
			// [s t; -b/g a/g] has determinant 1 and clears entry (i, col).
			a.Set(m.Entry(rank, col))
			b.Set(m.Entry(i, col))
			g.GCD(&s, &t, &a, &b)
			ag.Quo(&a, &g)
			bg.Quo(&b, &g)
			for j := col; j < m.cols; j++ {
				r, ri := m.Entry(rank, j), m.Entry(i, j)
				x.Mul(&s, r)
				x.Add(&x, y.Mul(&t, ri))
				y.Mul(&ag, ri)
				y.Sub(&y, new(big.Int).Mul(&bg, r))
				r.Set(&x)
				ri.Set(&y)
			}
		}
		if m.Entry(rank, col).Sign() < 0 {
			m.NegateRow(rank)
		}
		rank++
	}
	return rank
}

// SmithNormalForm returns the non-zero invariant factors of m in increasing divisibility order.
// Each factor is positive and divides the next; the count equals the rank of m.
func (m *Int) SmithNormalForm() []*big.Int {
	a := m.Clone()
	var factors []*big.Int
	var q big.Int

	for t := 0; t < a.rows && t < a.cols; t++ {
		if !a.movePivot(t) {
			break
		}
		for {
			// Clear column t below and row t right of the pivot by Euclidean steps.
			dirty := false
			pivot := a.Entry(t, t)
			for i := t + 1; i < a.rows; i++ {
				if a.Entry(i, t).Sign() == 0 {
					continue
				}
				q.Quo(a.Entry(i, t), pivot)
				a.AddRowMultiple(i, t, new(big.Int).Neg(&q))
				if a.Entry(i, t).Sign() != 0 {
					dirty = true
				}
			}
			for j := t + 1; j < a.cols; j++ {
				if a.Entry(t, j).Sign() == 0 {
					continue
				}
				q.Quo(a.Entry(t, j), pivot)
				a.AddColMultiple(j, t, new(big.Int).Neg(&q))
				if a.Entry(t, j).Sign() != 0 {
					dirty = true
				}
			}
			if dirty {
				a.movePivot(t)
				continue
			}

			// The pivot must divide every remaining entry.
			fixed := false
			var r big.Int
			for i := t + 1; i < a.rows && !fixed; i++ {
				for j := t + 1; j < a.cols; j++ {
					if r.Rem(a.Entry(i, j), pivot).Sign() != 0 {
						a.AddRowMultiple(t, i, big.NewInt(1))
						fixed = true
						break
					}
				}
			}
			if !fixed {
				break
			}
		}
		factors = append(factors, new(big.Int).Abs(a.Entry(t, t)))
	}
	return factors
}

// movePivot moves the smallest non-zero entry (in absolute value) of the submatrix at (t, t)
// into position (t, t), returning false if the submatrix is zero.
func (m *Int) movePivot(t int) bool {
	bi, bj := -1, -1
	var best big.Int
	var abs big.Int
	for i := t; i < m.rows; i++ {
		for j := t; j < m.cols; j++ {
			e := m.Entry(i, j)
			if e.Sign() == 0 {
				continue
			}
			abs.Abs(e)
			if bi < 0 || abs.Cmp(&best) < 0 {
				bi, bj = i, j
				best.Set(&abs)
			}
		}
	}
	if bi < 0 {
		return false
	}
	m.SwapRows(t, bi)
	m.SwapCols(t, bj)
	return true
}

// KernelBasis returns a basis of primitive integer vectors spanning the rational kernel of m.
func (m *Int) KernelBasis() []Vec {
	ratBasis := FromInt(m).NullSpace()
	basis := make([]Vec, len(ratBasis))
	for k, rv := range ratBasis {
		denLcm := big.NewInt(1)
		var g big.Int
		for _, x := range rv {
			d := x.Denom()
			g.GCD(nil, nil, denLcm, d)
			denLcm.Mul(denLcm, new(big.Int).Quo(d, &g))
		}
		v := NewVec(len(rv))
		numGcd := new(big.Int)
		for i, x := range rv {
			v[i].Mul(x.Num(), new(big.Int).Quo(denLcm, x.Denom()))
			numGcd.GCD(nil, nil, numGcd, new(big.Int).Abs(v[i]))
		}
		if numGcd.Sign() != 0 && numGcd.Cmp(big.NewInt(1)) != 0 {
			for _, x := range v {
				x.Quo(x, numGcd)
			}
		}
		basis[k] = v
	}
	return basis
}

func (m *Int) String() string {
	b := strings.Builder{}
	for i := 0; i < m.rows; i++ {
		b.WriteByte('[')
		for j := 0; j < m.cols; j++ {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(m.Entry(i, j).String())
		}
		b.WriteString("]\n")
	}
	return b.String()
}
