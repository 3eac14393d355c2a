package generator

import (
	"errors"
	"fmt"

	"github.com/ppopth/coded-caching/field"

	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("generator")

var (
	// ErrInvalidOperation is returned for out-of-range indices and non-invertible scalars
	ErrInvalidOperation = errors.New("invalid elementary operation")
	// ErrNotStandard is returned when the matrix cannot be brought to [I | A]
	ErrNotStandard = errors.New("matrix is not in standard form")
	// ErrNotInCodeSpace is returned when decoding a vector outside the row space
	ErrNotInCodeSpace = errors.New("vector is not in the code space")
	// ErrDimension is returned for shape mismatches
	ErrDimension = errors.New("dimension mismatch")
)

// OpKind identifies one of the five elementary operations
type OpKind int

const (
	OpSwitchRows OpKind = iota
	OpMultiplyRow
	OpAddRow
	OpSwitchCols
	OpMultiplyColumn
)

// Op is one entry of the operation log. For switches A < B. For AddRow, A is
// the target row and B the source row. Scalar is nil for switches.
type Op struct {
	Kind   OpKind
	A, B   int
	Scalar field.Element
}

func (o Op) String() string {
	switch o.Kind {
	case OpSwitchRows:
		return fmt.Sprintf("r%d <-> r%d", o.A, o.B)
	case OpMultiplyRow:
		return fmt.Sprintf("r%d = r%d x %s", o.A, o.A, o.Scalar)
	case OpAddRow:
		return fmt.Sprintf("r%d = r%d + r%d x %s", o.A, o.A, o.B, o.Scalar)
	case OpSwitchCols:
		return fmt.Sprintf("c%d <-> c%d", o.A, o.B)
	case OpMultiplyColumn:
		return fmt.Sprintf("c%d = c%d x %s", o.A, o.A, o.Scalar)
	default:
		return fmt.Sprintf("unknown op %d", int(o.Kind))
	}
}

type standardStatus int

const (
	statusUnknown standardStatus = iota
	statusStandard
	statusNotStandard
)

// Matrix is a K x N generator matrix over a finite field. It keeps the row
// permutation R (K x K) and column permutation C (N x N) such that
// R · G_original · C == G at all times.
type Matrix struct {
	field field.Field
	k, n  int

	g [][]field.Element
	r [][]field.Element
	c [][]field.Element

	transposed bool
	ops        []Op
	status     standardStatus

	// generation is bumped on every mutation; derived values remember the
	// generation they were computed at.
	generation uint64
	check      cachedCheck
}

type cachedCheck struct {
	h          [][]field.Element
	generation uint64
	valid      bool
}

// New creates a generator matrix from rows over f. The input is copied. When
// there are more rows than columns the matrix is stored transposed.
func New(f field.Field, rows [][]field.Element) (*Matrix, error) {
	if f == nil {
		return nil, fmt.Errorf("nil field")
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("empty matrix: %w", ErrDimension)
	}
	width := len(rows[0])
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has %d columns, expected %d: %w", i, len(row), width, ErrDimension)
		}
	}

	g := field.CloneMatrix(rows)
	transposed := false
	if len(g) > width {
		g = field.Transpose(g)
		transposed = true
		log.Debugf("transposed %dx%d input so that K <= N", len(rows), width)
	}

	k, n := len(g), len(g[0])
	return &Matrix{
		field:      f,
		k:          k,
		n:          n,
		g:          g,
		r:          field.IdentityMatrix(k, f),
		c:          field.IdentityMatrix(n, f),
		transposed: transposed,
	}, nil
}

// NewBinary creates a generator matrix over GF(2) from 0/1 indicator rows
func NewBinary(rows [][]bool) (*Matrix, error) {
	f := field.NewBitField()
	return New(f, field.BoolMatrixToElements(rows, f))
}

func (m *Matrix) checkRow(r int) error {
	if r < 0 || r >= m.k {
		return fmt.Errorf("row %d out of range [0, %d): %w", r, m.k, ErrInvalidOperation)
	}
	return nil
}

func (m *Matrix) checkCol(c int) error {
	if c < 0 || c >= m.n {
		return fmt.Errorf("column %d out of range [0, %d): %w", c, m.n, ErrInvalidOperation)
	}
	return nil
}

func checkScalar(s field.Element) error {
	if s == nil || s.IsZero() {
		return fmt.Errorf("scalar %v is not invertible: %w", s, ErrInvalidOperation)
	}
	return nil
}

func (m *Matrix) touch(op Op) {
	m.ops = append(m.ops, op)
	m.status = statusUnknown
	m.generation++
}

// SwitchRows swaps rows r1 and r2 of G and R
func (m *Matrix) SwitchRows(r1, r2 int) error {
	if err := m.checkRow(r1); err != nil {
		return err
	}
	if err := m.checkRow(r2); err != nil {
		return err
	}
	if r1 == r2 {
		return nil
	}
	if r1 > r2 {
		r1, r2 = r2, r1
	}
	m.g[r1], m.g[r2] = m.g[r2], m.g[r1]
	m.r[r1], m.r[r2] = m.r[r2], m.r[r1]
	m.touch(Op{Kind: OpSwitchRows, A: r1, B: r2})
	return nil
}

// MultiplyRow scales row of G and R by a nonzero scalar
func (m *Matrix) MultiplyRow(row int, scalar field.Element) error {
	if err := m.checkRow(row); err != nil {
		return err
	}
	if err := checkScalar(scalar); err != nil {
		return err
	}
	if scalar.IsOne() {
		return nil
	}
	scaleVector(m.g[row], scalar)
	scaleVector(m.r[row], scalar)
	m.touch(Op{Kind: OpMultiplyRow, A: row, Scalar: scalar.Clone()})
	return nil
}

// AddRow performs G[target] += scalar·G[source] and the same on R
func (m *Matrix) AddRow(target, source int, scalar field.Element) error {
	if err := m.checkRow(target); err != nil {
		return err
	}
	if err := m.checkRow(source); err != nil {
		return err
	}
	if target == source {
		return fmt.Errorf("cannot add row %d to itself: %w", target, ErrInvalidOperation)
	}
	if err := checkScalar(scalar); err != nil {
		return err
	}
	addScaled(m.g[target], m.g[source], scalar)
	addScaled(m.r[target], m.r[source], scalar)
	m.touch(Op{Kind: OpAddRow, A: target, B: source, Scalar: scalar.Clone()})
	return nil
}

// SwitchCols swaps columns c1 and c2 of G and C
func (m *Matrix) SwitchCols(c1, c2 int) error {
	if err := m.checkCol(c1); err != nil {
		return err
	}
	if err := m.checkCol(c2); err != nil {
		return err
	}
	if c1 == c2 {
		return nil
	}
	if c1 > c2 {
		c1, c2 = c2, c1
	}
	for _, row := range m.g {
		row[c1], row[c2] = row[c2], row[c1]
	}
	for _, row := range m.c {
		row[c1], row[c2] = row[c2], row[c1]
	}
	m.touch(Op{Kind: OpSwitchCols, A: c1, B: c2})
	return nil
}

// MultiplyColumn scales column col of G and C by a nonzero scalar
func (m *Matrix) MultiplyColumn(col int, scalar field.Element) error {
	if err := m.checkCol(col); err != nil {
		return err
	}
	if err := checkScalar(scalar); err != nil {
		return err
	}
	if scalar.IsOne() {
		return nil
	}
	for _, row := range m.g {
		row[col] = row[col].Mul(scalar)
	}
	for _, row := range m.c {
		row[col] = row[col].Mul(scalar)
	}
	m.touch(Op{Kind: OpMultiplyColumn, A: col, Scalar: scalar.Clone()})
	return nil
}

func scaleVector(v []field.Element, s field.Element) {
	for j := range v {
		v[j] = v[j].Mul(s)
	}
}

func addScaled(dst, src []field.Element, s field.Element) {
	for j := range dst {
		if src[j].IsZero() {
			continue
		}
		dst[j] = dst[j].Add(src[j].Mul(s))
	}
}

// Ops returns a copy of the operation log
func (m *Matrix) Ops() []Op {
	ops := make([]Op, len(m.ops))
	copy(ops, m.ops)
	return ops
}

// Field returns the field the matrix is defined over
func (m *Matrix) Field() field.Field {
	return m.field
}

// Rows returns K
func (m *Matrix) Rows() int {
	return m.k
}

// Cols returns N
func (m *Matrix) Cols() int {
	return m.n
}

// Transposed reports whether the input was transposed at construction
func (m *Matrix) Transposed() bool {
	return m.transposed
}

// Generation returns the mutation counter
func (m *Matrix) Generation() uint64 {
	return m.generation
}

// G returns a copy of the current matrix
func (m *Matrix) G() [][]field.Element {
	return field.CloneMatrix(m.g)
}

// RowPermutation returns a copy of R
func (m *Matrix) RowPermutation() [][]field.Element {
	return field.CloneMatrix(m.r)
}

// ColumnPermutation returns a copy of C
func (m *Matrix) ColumnPermutation() [][]field.Element {
	return field.CloneMatrix(m.c)
}

// Clone returns an independent deep copy. The cached check matrix is not carried over.
func (m *Matrix) Clone() *Matrix {
	return &Matrix{
		field:      m.field,
		k:          m.k,
		n:          m.n,
		g:          field.CloneMatrix(m.g),
		r:          field.CloneMatrix(m.r),
		c:          field.CloneMatrix(m.c),
		transposed: m.transposed,
		ops:        m.Ops(),
		status:     m.status,
		generation: m.generation,
	}
}

func (m *Matrix) String() string {
	s := ""
	for _, row := range m.g {
		s += fmt.Sprintln(row)
	}
	return s
}
