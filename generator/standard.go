package generator

import (
	"fmt"

	"github.com/ppopth/coded-caching/field"
)

// Standardize reduces G to [I_K | A] with the elementary operations, keeping
// R and C in step. When the remaining bottom-right block is all zero the
// matrix is rank deficient; the reduction stops and an error wrapping
// ErrNotStandard is returned.
func (m *Matrix) Standardize() error {
	for pivot := 0; pivot < m.k; pivot++ {
		if !m.g[pivot][pivot].IsOne() {
			row, col, found := m.findPivot(pivot)
			if !found {
				m.status = statusNotStandard
				log.Debugf("rank deficient: %d of %d rows independent", pivot, m.k)
				return fmt.Errorf("rank %d < %d: %w", pivot, m.k, ErrNotStandard)
			}
			if err := m.SwitchRows(row, pivot); err != nil {
				return err
			}
			if err := m.SwitchCols(col, pivot); err != nil {
				return err
			}
			if err := m.MultiplyRow(pivot, m.g[pivot][pivot].Inv()); err != nil {
				return err
			}
		}
		if err := m.eliminate(pivot); err != nil {
			return err
		}
	}

	if !m.IsStandard() {
		return fmt.Errorf("reduction did not reach [I | A]: %w", ErrNotStandard)
	}
	log.Debugf("standardized %dx%d matrix with %d operations", m.k, m.n, len(m.ops))
	return nil
}

// findPivot searches the block G[pivot:, pivot:] for a nonzero entry. For
// each start position it scans down column start first, then across row start.
func (m *Matrix) findPivot(pivot int) (int, int, bool) {
	for start := pivot; start < m.k; start++ {
		for row := start; row < m.k; row++ {
			if !m.g[row][start].IsZero() {
				return row, start, true
			}
		}
		for col := start; col < m.n; col++ {
			if !m.g[start][col].IsZero() {
				return start, col, true
			}
		}
	}
	return 0, 0, false
}

// eliminate clears column pivot in every row but the pivot row
func (m *Matrix) eliminate(pivot int) error {
	for row := 0; row < m.k; row++ {
		if row == pivot || m.g[row][pivot].IsZero() {
			continue
		}
		if err := m.AddRow(row, pivot, m.g[row][pivot].Neg()); err != nil {
			return err
		}
	}
	return nil
}

// IsStandard reports whether G has the form [I_K | A]. The answer is
// remembered until the next mutation.
func (m *Matrix) IsStandard() bool {
	switch m.status {
	case statusStandard:
		return true
	case statusNotStandard:
		return false
	}

	m.status = statusNotStandard
	for i := 0; i < m.k; i++ {
		if !m.g[i][i].IsOne() {
			return false
		}
	}
	for j := 0; j < m.k; j++ {
		nonzero := 0
		for i := 0; i < m.k; i++ {
			if !m.g[i][j].IsZero() {
				nonzero++
			}
		}
		if nonzero != 1 {
			return false
		}
	}
	m.status = statusStandard
	return true
}

// Rank returns the rank of G
func (m *Matrix) Rank() int {
	if m.status == statusStandard {
		return m.k
	}
	return field.Rank(m.g)
}

// CheckMatrix returns H = [-Aᵀ | I_(N-K)] · Cᵀ, an (N-K) x N matrix with
// H · xᵀ == 0 exactly for the rows x of the original row space. It fails
// with ErrNotStandard until Standardize has brought the matrix to [I | A];
// the matrix is never reduced as a side effect.
func (m *Matrix) CheckMatrix() ([][]field.Element, error) {
	h, err := m.checkMatrix()
	if err != nil {
		return nil, err
	}
	return field.CloneMatrix(h), nil
}

func (m *Matrix) checkMatrix() ([][]field.Element, error) {
	if !m.IsStandard() {
		return nil, fmt.Errorf("no check matrix for a %dx%d matrix that is not in standard form: %w", m.k, m.n, ErrNotStandard)
	}
	if m.check.valid && m.check.generation == m.generation {
		return m.check.h, nil
	}

	r := m.n - m.k
	hs := field.ZeroMatrix(r, m.n, m.field)
	for i := 0; i < r; i++ {
		for j := 0; j < m.k; j++ {
			hs[i][j] = m.g[j][m.k+i].Neg()
		}
		hs[i][m.k+i] = m.field.One()
	}

	var h [][]field.Element
	if r > 0 {
		h = field.MatrixMultiply(hs, field.Transpose(m.c), m.field)
	}
	m.check = cachedCheck{h: h, generation: m.generation, valid: true}
	return h, nil
}

// IsInCodeSpace tests each column of the N x cols matrix X; a column is in the
// code space when its syndrome H · x is zero. Like CheckMatrix it needs a
// standardized matrix.
func (m *Matrix) IsInCodeSpace(X [][]field.Element) ([]bool, error) {
	if len(X) != m.n {
		return nil, fmt.Errorf("input has %d rows, expected %d: %w", len(X), m.n, ErrDimension)
	}
	cols := len(X[0])
	for i, row := range X {
		if len(row) != cols {
			return nil, fmt.Errorf("input row %d has %d columns, expected %d: %w", i, len(row), cols, ErrDimension)
		}
	}
	h, err := m.checkMatrix()
	if err != nil {
		return nil, err
	}

	in := make([]bool, cols)
	for j := range in {
		in[j] = true
	}
	if len(h) == 0 {
		// Full-width code: every vector is a codeword
		return in, nil
	}
	syndrome := field.MatrixMultiply(h, X, m.field)
	for _, row := range syndrome {
		for j, s := range row {
			if !s.IsZero() {
				in[j] = false
			}
		}
	}
	return in, nil
}

// Contains reports whether the N-vector x lies in the code space
func (m *Matrix) Contains(x []field.Element) (bool, error) {
	if len(x) != m.n {
		return false, fmt.Errorf("vector has %d entries, expected %d: %w", len(x), m.n, ErrDimension)
	}
	in, err := m.IsInCodeSpace(field.Transpose([][]field.Element{x}))
	if err != nil {
		return false, err
	}
	return in[0], nil
}

// Decode returns the K coefficients c with x = G_originalᵀ · c. x must lie in
// the code space.
func (m *Matrix) Decode(x []field.Element) ([]field.Element, error) {
	ok, err := m.Contains(x)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotInCodeSpace
	}

	colX := field.MatrixVectorMultiply(field.Transpose(m.c), x, m.field)
	return field.MatrixVectorMultiply(field.Transpose(m.r), colX[:m.k], m.field), nil
}

// DecodeBits is Decode for 0/1 indicator vectors over GF(2)
func (m *Matrix) DecodeBits(x []bool) ([]bool, error) {
	c, err := m.Decode(field.BoolsToElements(x, m.field))
	if err != nil {
		return nil, err
	}
	return field.ElementsToBools(c), nil
}
