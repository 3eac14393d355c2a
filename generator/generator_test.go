package generator

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/ppopth/coded-caching/field"
)

// Test helper functions

// fromInts builds a matrix from small integers
func fromInts(rows [][]int64, f field.Field) [][]field.Element {
	M := make([][]field.Element, len(rows))
	for i, row := range rows {
		M[i] = make([]field.Element, len(row))
		for j, v := range row {
			M[i][j] = f.FromInt64(v)
		}
	}
	return M
}

// generateFullRankMatrix creates a random k×n matrix of rank k
func generateFullRankMatrix(rng *rand.Rand, k, n int, f field.Field, order int64) [][]field.Element {
	for {
		M := make([][]field.Element, k)
		for i := range M {
			M[i] = make([]field.Element, n)
			for j := range M[i] {
				M[i][j] = f.FromInt64(rng.Int63n(order))
			}
		}
		if field.Rank(M) == k {
			return M
		}
	}
}

// checkStandardFormIdentity verifies R · G0 · C == G and G == [I | A]
func checkStandardFormIdentity(t *testing.T, m *Matrix, G0 [][]field.Element) {
	t.Helper()
	f := m.Field()
	lhs := field.MatrixMultiply(field.MatrixMultiply(m.RowPermutation(), G0, f), m.ColumnPermutation(), f)
	if !field.MatricesEqual(lhs, m.G()) {
		t.Fatalf("R · G0 · C != G")
	}
	G := m.G()
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Rows(); j++ {
			if (i == j) != G[i][j].IsOne() || (i != j && !G[i][j].IsZero()) {
				t.Fatalf("G[%d][%d] = %s breaks the identity block", i, j, G[i][j])
			}
		}
	}
}

func TestOperationsTrackPermutations(t *testing.T) {
	f := field.NewBitField()
	G0 := fromInts([][]int64{
		{0, 1, 0, 0, 0, 0, 0},
		{0, 0, 1, 1, 0, 0, 1},
		{0, 0, 1, 1, 0, 0, 0},
		{1, 0, 0, 0, 0, 1, 0},
		{1, 0, 1, 1, 1, 1, 0},
	}, f)
	m, err := New(f, G0)
	if err != nil {
		t.Fatal(err)
	}

	steps := []func() error{
		func() error { return m.SwitchRows(0, 3) },
		func() error { return m.AddRow(4, 0, f.One()) },
		func() error { return m.SwitchRows(3, 1) },
		func() error { return m.AddRow(3, 2, f.One()) },
		func() error { return m.AddRow(4, 2, f.One()) },
		func() error { return m.SwitchCols(6, 3) },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	lhs := field.MatrixMultiply(field.MatrixMultiply(m.RowPermutation(), G0, f), m.ColumnPermutation(), f)
	if !field.MatricesEqual(lhs, m.G()) {
		t.Fatalf("R · G0 · C != G after manual operations")
	}

	ops := m.Ops()
	if len(ops) != 6 {
		t.Fatalf("Expected 6 logged operations, got %d", len(ops))
	}
	// Switches are logged as ordered pairs
	if ops[2].String() != "r1 <-> r3" {
		t.Errorf("Expected \"r1 <-> r3\", got %q", ops[2].String())
	}
	if ops[1].String() != "r4 = r4 + r0 x 1" {
		t.Errorf("Expected \"r4 = r4 + r0 x 1\", got %q", ops[1].String())
	}
	if ops[5].String() != "c3 <-> c6" {
		t.Errorf("Expected \"c3 <-> c6\", got %q", ops[5].String())
	}
}

func TestNoOpOperations(t *testing.T) {
	f := field.NewBitField()
	m, err := NewBinary([][]bool{{true, false, true}, {false, true, true}})
	if err != nil {
		t.Fatal(err)
	}
	gen := m.Generation()

	if err := m.SwitchRows(1, 1); err != nil {
		t.Fatal(err)
	}
	if err := m.SwitchCols(2, 2); err != nil {
		t.Fatal(err)
	}
	if err := m.MultiplyRow(0, f.One()); err != nil {
		t.Fatal(err)
	}
	if err := m.MultiplyColumn(1, f.One()); err != nil {
		t.Fatal(err)
	}
	if len(m.Ops()) != 0 || m.Generation() != gen {
		t.Errorf("No-op operations should not be logged or bump the generation")
	}
}

func TestInvalidOperations(t *testing.T) {
	f := field.NewBitField()
	m, err := NewBinary([][]bool{{true, false, true}, {false, true, true}})
	if err != nil {
		t.Fatal(err)
	}
	before := m.G()

	cases := []struct {
		name string
		op   func() error
	}{
		{"row out of range", func() error { return m.SwitchRows(0, 2) }},
		{"negative row", func() error { return m.SwitchRows(-1, 0) }},
		{"column out of range", func() error { return m.SwitchCols(0, 3) }},
		{"zero row scalar", func() error { return m.MultiplyRow(0, f.Zero()) }},
		{"zero column scalar", func() error { return m.MultiplyColumn(0, f.Zero()) }},
		{"add row to itself", func() error { return m.AddRow(1, 1, f.One()) }},
		{"zero add scalar", func() error { return m.AddRow(0, 1, f.Zero()) }},
		{"add from missing row", func() error { return m.AddRow(0, 5, f.One()) }},
	}
	for _, c := range cases {
		if err := c.op(); !errors.Is(err, ErrInvalidOperation) {
			t.Errorf("%s: expected ErrInvalidOperation, got %v", c.name, err)
		}
	}
	if !field.MatricesEqual(before, m.G()) {
		t.Errorf("Rejected operations modified the matrix")
	}
}

func TestTransposeWhenTall(t *testing.T) {
	m, err := NewBinary([][]bool{{true, false}, {false, true}, {true, true}})
	if err != nil {
		t.Fatal(err)
	}
	if !m.Transposed() || m.Rows() != 2 || m.Cols() != 3 {
		t.Errorf("Expected transposed 2x3 matrix, got %dx%d transposed=%v", m.Rows(), m.Cols(), m.Transposed())
	}
}

func TestNewRejectsBadShapes(t *testing.T) {
	if _, err := NewBinary(nil); !errors.Is(err, ErrDimension) {
		t.Errorf("Expected ErrDimension for empty matrix, got %v", err)
	}
	if _, err := NewBinary([][]bool{{true, false}, {true}}); !errors.Is(err, ErrDimension) {
		t.Errorf("Expected ErrDimension for ragged matrix, got %v", err)
	}
}

func TestStandardFormIdentityRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	f := field.NewBitField()

	for trial := 0; trial < 20; trial++ {
		k := 1 + rng.Intn(8)
		n := k + rng.Intn(8)
		G0 := generateFullRankMatrix(rng, k, n, f, 2)

		m, err := New(f, G0)
		if err != nil {
			t.Fatal(err)
		}
		if err := m.Standardize(); err != nil {
			t.Fatalf("trial %d: Standardize failed on full-rank %dx%d matrix: %v", trial, k, n, err)
		}
		if !m.IsStandard() {
			t.Fatalf("trial %d: expected standard form", trial)
		}
		checkStandardFormIdentity(t, m, G0)
		if m.Rank() != k {
			t.Errorf("trial %d: expected rank %d, got %d", trial, k, m.Rank())
		}
	}
}

func TestDecodeRoundTripRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	f := field.NewBitField()

	for trial := 0; trial < 20; trial++ {
		k := 1 + rng.Intn(10)
		n := k + rng.Intn(10)
		G0 := generateFullRankMatrix(rng, k, n, f, 2)
		m, err := New(f, G0)
		if err != nil {
			t.Fatal(err)
		}
		if err := m.Standardize(); err != nil {
			t.Fatal(err)
		}

		for iter := 0; iter < 10; iter++ {
			c := make([]field.Element, k)
			for i := range c {
				c[i] = f.FromInt64(rng.Int63n(2))
			}
			x := field.MatrixVectorMultiply(field.Transpose(G0), c, f)

			ok, err := m.Contains(x)
			if err != nil {
				t.Fatal(err)
			}
			if !ok {
				t.Fatalf("trial %d: codeword reported outside the code space", trial)
			}
			got, err := m.Decode(x)
			if err != nil {
				t.Fatal(err)
			}
			if !field.VectorsEqual(got, c) {
				t.Fatalf("trial %d: decode returned %v, expected %v", trial, got, c)
			}
		}
	}
}

func TestDecodePrimeField(t *testing.T) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	f := field.NewPrimeFieldInt64(7)
	G0 := generateFullRankMatrix(rng, 3, 6, f, 7)

	m, err := New(f, G0)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Standardize(); err != nil {
		t.Fatal(err)
	}
	checkStandardFormIdentity(t, m, G0)

	H, err := m.CheckMatrix()
	if err != nil {
		t.Fatal(err)
	}
	// H · G0ᵀ == 0
	for _, row := range field.MatrixMultiply(H, field.Transpose(G0), f) {
		for _, e := range row {
			if !e.IsZero() {
				t.Fatalf("H · G0ᵀ is not zero")
			}
		}
	}

	c := fromInts([][]int64{{3, 0, 5}}, f)[0]
	x := field.MatrixVectorMultiply(field.Transpose(G0), c, f)
	got, err := m.Decode(x)
	if err != nil {
		t.Fatal(err)
	}
	if !field.VectorsEqual(got, c) {
		t.Errorf("Expected %v, got %v", c, got)
	}
}

func TestColumnScalingKeepsCheckMatrixValid(t *testing.T) {
	f := field.NewPrimeFieldInt64(5)
	G0 := fromInts([][]int64{{1, 2, 0, 3}, {0, 1, 4, 1}}, f)
	m, err := New(f, G0)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.MultiplyColumn(3, f.FromInt64(2)); err != nil {
		t.Fatal(err)
	}
	if err := m.Standardize(); err != nil {
		t.Fatal(err)
	}
	checkStandardFormIdentity(t, m, G0)

	c := fromInts([][]int64{{4, 2}}, f)[0]
	x := field.MatrixVectorMultiply(field.Transpose(G0), c, f)
	got, err := m.Decode(x)
	if err != nil {
		t.Fatal(err)
	}
	if !field.VectorsEqual(got, c) {
		t.Errorf("Expected %v, got %v", c, got)
	}
}

func TestRankDeficientRejection(t *testing.T) {
	f := field.NewBitField()
	// Row 2 is the sum of rows 0 and 1
	m, err := NewBinary([][]bool{
		{true, true, false, false},
		{false, true, true, false},
		{true, false, true, false},
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := m.Standardize(); !errors.Is(err, ErrNotStandard) {
		t.Fatalf("Expected ErrNotStandard, got %v", err)
	}
	if m.IsStandard() {
		t.Errorf("Rank-deficient matrix should not be standard")
	}
	if m.Rank() != 2 {
		t.Errorf("Expected rank 2, got %d", m.Rank())
	}
	if _, err := m.CheckMatrix(); !errors.Is(err, ErrNotStandard) {
		t.Errorf("Expected ErrNotStandard from CheckMatrix, got %v", err)
	}
	x := field.BoolsToElements([]bool{true, true, false, false}, f)
	if _, err := m.Decode(x); !errors.Is(err, ErrNotStandard) {
		t.Errorf("Expected ErrNotStandard from Decode, got %v", err)
	}
}

func TestIsInCodeSpaceBatch(t *testing.T) {
	f := field.NewBitField()
	G0 := fromInts([][]int64{
		{1, 1, 0, 1, 0},
		{0, 1, 1, 0, 1},
	}, f)
	m, err := New(f, G0)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Standardize(); err != nil {
		t.Fatal(err)
	}

	// Columns: row 0, row 0 + row 1, a non-codeword
	X := field.Transpose(fromInts([][]int64{
		{1, 1, 0, 1, 0},
		{1, 0, 1, 1, 1},
		{1, 0, 0, 0, 0},
	}, f))
	in, err := m.IsInCodeSpace(X)
	if err != nil {
		t.Fatal(err)
	}
	expected := []bool{true, true, false}
	for i := range expected {
		if in[i] != expected[i] {
			t.Errorf("Column %d: expected %v, got %v", i, expected[i], in[i])
		}
	}

	if _, err := m.Decode(field.BoolsToElements([]bool{true, false, false, false, false}, f)); !errors.Is(err, ErrNotInCodeSpace) {
		t.Errorf("Expected ErrNotInCodeSpace, got %v", err)
	}
	if _, err := m.IsInCodeSpace(X[:3]); !errors.Is(err, ErrDimension) {
		t.Errorf("Expected ErrDimension, got %v", err)
	}
	if _, err := m.Contains(field.ZeroVector(4, f)); !errors.Is(err, ErrDimension) {
		t.Errorf("Expected ErrDimension, got %v", err)
	}
}

func TestSquareFullRankContainsEverything(t *testing.T) {
	m, err := NewBinary([][]bool{{true, true}, {false, true}})
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Standardize(); err != nil {
		t.Fatal(err)
	}
	c, err := m.DecodeBits([]bool{true, false})
	if err != nil {
		t.Fatal(err)
	}
	// [1 0] = row 0 + row 1
	if !c[0] || !c[1] {
		t.Errorf("Expected both rows, got %v", c)
	}
}

func TestCheckMatrixMemoized(t *testing.T) {
	f := field.NewBitField()
	m, err := NewBinary([][]bool{{true, false, true}, {false, true, true}})
	if err != nil {
		t.Fatal(err)
	}
	H1, err := m.CheckMatrix()
	if err != nil {
		t.Fatal(err)
	}
	// Mutating the returned copy leaves the cached value alone
	H1[0][0] = H1[0][0].Add(f.One())
	H2, err := m.CheckMatrix()
	if err != nil {
		t.Fatal(err)
	}
	if field.MatricesEqual(H1, H2) {
		t.Errorf("CheckMatrix returned a shared matrix")
	}

	// A mutation invalidates the standard status
	if err := m.SwitchCols(0, 2); err != nil {
		t.Fatal(err)
	}
	if m.IsStandard() {
		t.Errorf("Expected non-standard after a column switch")
	}
	if _, err := m.CheckMatrix(); !errors.Is(err, ErrNotStandard) {
		t.Errorf("Expected ErrNotStandard before restandardizing, got %v", err)
	}
	if err := m.Standardize(); err != nil {
		t.Fatal(err)
	}
	if _, err := m.CheckMatrix(); err != nil {
		t.Errorf("CheckMatrix after Standardize: %v", err)
	}
}

func TestQueriesDoNotReduce(t *testing.T) {
	f := field.NewBitField()
	m, err := NewBinary([][]bool{{true, true, false}, {true, false, true}})
	if err != nil {
		t.Fatal(err)
	}
	before := m.G()
	x := field.BoolsToElements([]bool{true, true, false}, f)

	if _, err := m.CheckMatrix(); !errors.Is(err, ErrNotStandard) {
		t.Errorf("CheckMatrix: expected ErrNotStandard, got %v", err)
	}
	if _, err := m.Contains(x); !errors.Is(err, ErrNotStandard) {
		t.Errorf("Contains: expected ErrNotStandard, got %v", err)
	}
	if _, err := m.IsInCodeSpace(field.Transpose([][]field.Element{x})); !errors.Is(err, ErrNotStandard) {
		t.Errorf("IsInCodeSpace: expected ErrNotStandard, got %v", err)
	}
	if _, err := m.Decode(x); !errors.Is(err, ErrNotStandard) {
		t.Errorf("Decode: expected ErrNotStandard, got %v", err)
	}
	if len(m.Ops()) != 0 || !field.MatricesEqual(m.G(), before) {
		t.Errorf("Queries modified the matrix: ops %v", m.Ops())
	}
	if m.IsStandard() {
		t.Errorf("Matrix should still be outside standard form")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	m, err := NewBinary([][]bool{{false, true, true}, {true, false, true}})
	if err != nil {
		t.Fatal(err)
	}
	clone := m.Clone()
	if err := clone.Standardize(); err != nil {
		t.Fatal(err)
	}
	if len(m.Ops()) != 0 {
		t.Errorf("Standardizing a clone changed the original op log")
	}
	if field.MatricesEqual(m.RowPermutation(), clone.RowPermutation()) && field.MatricesEqual(m.G(), clone.G()) {
		t.Errorf("Clone shares state with the original")
	}
}
