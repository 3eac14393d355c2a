package field

import (
	"fmt"
)

// Matrix operations over finite fields. Matrices are row-major [][]Element
// and every function here leaves its inputs untouched.

// IdentityMatrix returns the n×n identity matrix
func IdentityMatrix(n int, field Field) [][]Element {
	I := make([][]Element, n)
	for i := range I {
		I[i] = ZeroVector(n, field)
		I[i][i] = field.One()
	}
	return I
}

// ZeroMatrix returns an n×m matrix of zeros
func ZeroMatrix(n, m int, field Field) [][]Element {
	Z := make([][]Element, n)
	for i := range Z {
		Z[i] = ZeroVector(m, field)
	}
	return Z
}

// CloneMatrix returns a deep copy of A
func CloneMatrix(A [][]Element) [][]Element {
	if A == nil {
		return nil
	}
	B := make([][]Element, len(A))
	for i, row := range A {
		B[i] = CloneVector(row)
	}
	return B
}

// CloneVector returns a deep copy of v
func CloneVector(v []Element) []Element {
	if v == nil {
		return nil
	}
	w := make([]Element, len(v))
	for i, e := range v {
		w[i] = e.Clone()
	}
	return w
}

// Transpose returns Aᵀ. A must be rectangular.
func Transpose(A [][]Element) [][]Element {
	if len(A) == 0 {
		return nil
	}
	n, m := len(A), len(A[0])
	T := make([][]Element, m)
	for j := 0; j < m; j++ {
		T[j] = make([]Element, n)
		for i := 0; i < n; i++ {
			T[j][i] = A[i][j].Clone()
		}
	}
	return T
}

// leadingColumn returns the index of the first nonzero entry of row, or -1
func leadingColumn(row []Element) int {
	for j, elem := range row {
		if !elem.IsZero() {
			return j
		}
	}
	return -1
}

// Rank returns the rank of A using forward elimination on a copy
func Rank(A [][]Element) int {
	n := len(A)
	if n == 0 {
		return 0
	}
	m := len(A[0])
	B := CloneMatrix(A)

	rank := 0
	for col := 0; col < m && rank < n; col++ {
		pivot := -1
		for i := rank; i < n; i++ {
			if !B[i][col].IsZero() {
				pivot = i
				break
			}
		}
		if pivot == -1 {
			continue
		}
		B[rank], B[pivot] = B[pivot], B[rank]

		inv := B[rank][col].Inv()
		for i := rank + 1; i < n; i++ {
			if B[i][col].IsZero() {
				continue
			}
			factor := B[i][col].Mul(inv)
			for j := col; j < m; j++ {
				B[i][j] = B[i][j].Sub(factor.Mul(B[rank][j]))
			}
		}
		rank++
	}
	return rank
}

// IsLinearlyIndependentIncremental checks whether newVector is independent of rows already in
// Row Echelon Form. It returns the extended REF matrix and true when it is, or nil and false
// when newVector is a combination of existingREF. existingREF itself is never modified.
func IsLinearlyIndependentIncremental(existingREF [][]Element, newVector []Element) ([][]Element, bool) {
	m := len(newVector)
	n := len(existingREF)
	if n >= m {
		return nil, false
	}

	reduced := CloneVector(newVector)
	for _, row := range existingREF {
		pivotCol := leadingColumn(row)
		if pivotCol == -1 || reduced[pivotCol].IsZero() {
			continue
		}
		// reduced -= (reduced[p] / row[p]) * row
		factor := reduced[pivotCol].Mul(row[pivotCol].Inv())
		for j := pivotCol; j < m; j++ {
			reduced[j] = reduced[j].Sub(factor.Mul(row[j]))
		}
	}

	newPivot := leadingColumn(reduced)
	if newPivot == -1 {
		return nil, false
	}

	// Keep pivots strictly increasing down the rows
	insertPos := n
	for i, row := range existingREF {
		if newPivot < leadingColumn(row) {
			insertPos = i
			break
		}
	}

	extended := make([][]Element, 0, n+1)
	extended = append(extended, existingREF[:insertPos]...)
	extended = append(extended, reduced)
	extended = append(extended, existingREF[insertPos:]...)
	return extended, true
}

// MatrixMultiply computes A × B matrix multiplication over the field
// A is m×n, B is n×p, result is m×p
func MatrixMultiply(A, B [][]Element, field Field) [][]Element {
	if len(A) == 0 || len(B) == 0 {
		return nil
	}

	m := len(A)
	n := len(A[0])
	p := len(B[0])

	if len(B) != n {
		panic(fmt.Sprintf("matrix dimensions mismatch: A is %d×%d, B is %d×%d", m, n, len(B), p))
	}

	C := make([][]Element, m)
	for i := range C {
		C[i] = make([]Element, p)
		for j := 0; j < p; j++ {
			sum := field.Zero()
			for k := 0; k < n; k++ {
				sum = sum.Add(A[i][k].Mul(B[k][j]))
			}
			C[i][j] = sum
		}
	}
	return C
}

// MatrixVectorMultiply computes A · v for an m×n matrix A and an n-vector v
func MatrixVectorMultiply(A [][]Element, v []Element, field Field) []Element {
	result := make([]Element, len(A))
	for i, row := range A {
		if len(row) != len(v) {
			panic(fmt.Sprintf("matrix dimensions mismatch: row %d has %d columns, vector has %d entries", i, len(row), len(v)))
		}
		sum := field.Zero()
		for j, elem := range row {
			sum = sum.Add(elem.Mul(v[j]))
		}
		result[i] = sum
	}
	return result
}

// MatricesEqual checks if two matrices are element-wise equal
func MatricesEqual(A, B [][]Element) bool {
	if len(A) != len(B) {
		return false
	}
	for i := range A {
		if !VectorsEqual(A[i], B[i]) {
			return false
		}
	}
	return true
}

// VectorsEqual checks if two vectors are element-wise equal
func VectorsEqual(a, b []Element) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
