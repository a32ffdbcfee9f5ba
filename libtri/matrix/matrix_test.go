package matrix_test

import (
	"math/big"
	"testing"

	"github.com/2x3systems/gotri/libtri/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intMatrix(rows [][]int64) *matrix.Int {
	m := matrix.NewInt(len(rows), len(rows[0]))
	for i, row := range rows {
		for j, x := range row {
			m.SetInt64(i, j, x)
		}
	}
	return m
}

func factorsOf(m *matrix.Int) []int64 {
	var out []int64
	for _, f := range m.SmithNormalForm() {
		out = append(out, f.Int64())
	}
	return out
}

func TestSmithNormalForm(t *testing.T) {
	tests := []struct {
		name string
		rows [][]int64
		want []int64
	}{
		{"identity", [][]int64{{1, 0}, {0, 1}}, []int64{1, 1}},
		{"zero", [][]int64{{0, 0}, {0, 0}}, nil},
		{"coprime diagonal", [][]int64{{2, 0}, {0, 3}}, []int64{1, 6}},
		{"classic", [][]int64{{2, 4, 4}, {-6, 6, 12}, {10, -4, -16}}, []int64{2, 6, 12}},
		{"rank deficient", [][]int64{{1, 2}, {2, 4}}, []int64{1}},
		{"wide", [][]int64{{0, 4, 0}, {6, 0, 0}}, []int64{2, 12}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := intMatrix(tt.rows)
			assert.Equal(t, tt.want, factorsOf(m))
			assert.Equal(t, len(tt.want), m.Rank())
		})
	}
}

func TestKernelBasis(t *testing.T) {
	m := intMatrix([][]int64{
		{1, -1, 0, 0},
		{0, 2, -2, 0},
	})
	basis := m.KernelBasis()
	require.Len(t, basis, 2)
	for _, v := range basis {
		require.True(t, m.MulVec(v).IsZero(), "v=%v", v)
		require.False(t, v.IsZero())
	}

	// Primitive: halves must be scaled back to integers
	m = intMatrix([][]int64{{2, -3}})
	basis = m.KernelBasis()
	require.Len(t, basis, 1)
	require.Equal(t, matrix.VecOf(3, 2).String(), basis[0].String())
}

func TestRowEchelon(t *testing.T) {
	tests := []struct {
		name string
		rows [][]int64
		rank int
	}{
		{"coprime pivots", [][]int64{{2, 4}, {3, 5}}, 2},
		{"rank deficient", [][]int64{{1, 2}, {2, 4}}, 1},
		{"negative lead", [][]int64{{0, -3, 6}, {0, 2, 1}, {0, 0, 0}}, 2},
		{"zero", [][]int64{{0, 0}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := intMatrix(tt.rows)
			orig := m.Clone()
			require.Equal(t, tt.rank, m.RowEchelon())
			assert.Equal(t, orig.Rank(), m.Rank())

			lead := -1
			for i := 0; i < m.Rows(); i++ {
				j := 0
				for j < m.Cols() && m.Entry(i, j).Sign() == 0 {
					j++
				}
				if i >= tt.rank {
					assert.Equal(t, m.Cols(), j, "row %d should be zero", i)
					continue
				}
				assert.Greater(t, j, lead)
				assert.Positive(t, m.Entry(i, j).Sign())
				lead = j
			}
		})
	}

	// Row operations are unimodular, so the kernel is unchanged
	m := intMatrix([][]int64{{2, 4, 1}, {3, 5, 0}})
	v := m.KernelBasis()[0]
	m.RowEchelon()
	assert.True(t, m.IsZeroVec(v))
}

func TestRREF(t *testing.T) {
	r := matrix.FromInt(intMatrix([][]int64{
		{0, 2, 4},
		{1, 1, 1},
	}))
	pivots := r.RREF()
	require.Equal(t, []int{0, 1}, pivots)
	require.Equal(t, 0, r.Entry(0, 2).Cmp(big.NewRat(-1, 1)))
	require.Equal(t, 0, r.Entry(1, 2).Cmp(big.NewRat(2, 1)))
}

func TestVecOps(t *testing.T) {
	a := matrix.VecOf(1, 2, 3)
	b := matrix.VecOf(0, -2, 1)
	sum := a.Add(b)
	assert.True(t, sum.Equal(matrix.VecOf(1, 0, 4)))
	assert.True(t, b.HasNegative())
	assert.False(t, a.HasNegative())
	assert.Equal(t, "(1 2 3)", a.String())
	c := a.Clone()
	c[0].SetInt64(9)
	assert.Equal(t, int64(1), a[0].Int64())

	m := intMatrix([][]int64{{1, 1, 1}, {1, 0, -1}})
	assert.True(t, m.MulVec(a).Equal(matrix.VecOf(6, -2)))
}
