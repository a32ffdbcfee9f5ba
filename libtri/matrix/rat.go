package matrix

import "math/big"

// Rat is a dense rows x cols matrix of rationals.
type Rat struct {
	rows, cols int
	vals       []big.Rat
}

func NewRat(rows, cols int) *Rat {
	return &Rat{
		rows: rows,
		cols: cols,
		vals: make([]big.Rat, rows*cols),
	}
}

// FromInt returns a rational copy of m.
func FromInt(m *Int) *Rat {
	r := NewRat(m.rows, m.cols)
	for i := range m.vals {
		r.vals[i].SetInt(&m.vals[i])
	}
	return r
}

func (m *Rat) Rows() int { return m.rows }
func (m *Rat) Cols() int { return m.cols }

// Entry returns the entry at (i, j).  The returned value is owned by m and must not be modified.
func (m *Rat) Entry(i, j int) *big.Rat {
	return &m.vals[i*m.cols+j]
}

func (m *Rat) Set(i, j int, val *big.Rat) {
	m.vals[i*m.cols+j].Set(val)
}

func (m *Rat) Clone() *Rat {
	c := NewRat(m.rows, m.cols)
	for i := range m.vals {
		c.vals[i].Set(&m.vals[i])
	}
	return c
}

// RREF reduces m in place to reduced row echelon form and returns the pivot column of each non-zero row.
func (m *Rat) RREF() []int {
	var pivots []int
	var scale, prod big.Rat
	row := 0
	for col := 0; col < m.cols && row < m.rows; col++ {
		sel := -1
		for i := row; i < m.rows; i++ {
			if m.Entry(i, col).Sign() != 0 {
				sel = i
				break
			}
		}
		if sel < 0 {
			continue
		}
		if sel != row {
			for j := 0; j < m.cols; j++ {
				a, b := m.Entry(row, j), m.Entry(sel, j)
				var tmp big.Rat
				tmp.Set(a)
				a.Set(b)
				b.Set(&tmp)
			}
		}

		scale.Inv(m.Entry(row, col))
		for j := col; j < m.cols; j++ {
			e := m.Entry(row, j)
			e.Mul(e, &scale)
		}
		for i := 0; i < m.rows; i++ {
			if i == row {
				continue
			}
			f := new(big.Rat).Set(m.Entry(i, col))
			if f.Sign() == 0 {
				continue
			}
			for j := col; j < m.cols; j++ {
				e := m.Entry(i, j)
				e.Sub(e, prod.Mul(f, m.Entry(row, j)))
			}
		}
		pivots = append(pivots, col)
		row++
	}
	return pivots
}

func (m *Rat) Rank() int {
	return len(m.Clone().RREF())
}

// NullSpace returns a basis of the kernel of m, one vector per free column.
func (m *Rat) NullSpace() [][]*big.Rat {
	r := m.Clone()
	pivots := r.RREF()

	isPivot := make([]bool, m.cols)
	for _, pc := range pivots {
		isPivot[pc] = true
	}

	var basis [][]*big.Rat
	for free := 0; free < m.cols; free++ {
		if isPivot[free] {
			continue
		}
		v := make([]*big.Rat, m.cols)
		for j := range v {
			v[j] = new(big.Rat)
		}
		v[free].SetInt64(1)
		for i, pc := range pivots {
			v[pc].Neg(r.Entry(i, free))
		}
		basis = append(basis, v)
	}
	return basis
}
