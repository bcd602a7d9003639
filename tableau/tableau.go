// Package tableau implements the dense simplex tableau shared by the LP
// solver and the Lemke-Howson path follower.
//
// A Tableau holds a linear system M z = rhs together with a basis: one basic
// variable per row, whose column of M is the corresponding unit vector.
// Non-basic variables are fixed at zero, so the basic variable of row i has
// value rhs[i]. Every variable (column) is named by an integer id chosen by
// the caller.
//
// Degenerate ratio tests are resolved with the lexicographic rule, see
// RatioTest.
package tableau

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/timpalpant/lemke/scalar"
)

var (
	// ErrShape is returned when the dimensions of a system are inconsistent.
	ErrShape = errors.New("tableau: inconsistent dimensions")
	// ErrBadBasis is returned when the initial basis is not an identity.
	ErrBadBasis = errors.New("tableau: initial basis is not an identity")
	// ErrUnknownVariable is returned for a variable id without a column.
	ErrUnknownVariable = errors.New("tableau: unknown variable")
	// ErrBadPivot is returned when asked to pivot on a zero entry or on a
	// variable that is already basic.
	ErrBadPivot = errors.New("tableau: invalid pivot")
)

// Tableau is a dense simplex tableau over the field T.
type Tableau[T any] struct {
	f        scalar.Field[T]
	pivotTol T

	rows [][]T
	rhs  []T

	// ids maps column -> variable id, cols is the inverse. Both are
	// never modified after construction and are shared between copies.
	ids  []int
	cols map[int]int
	// Columns that formed the initial identity basis, by row. These
	// columns of the current tableau hold B^-1 and drive the
	// lexicographic tie-break.
	unit []int

	basis   []int // row -> column
	isBasic []bool
	minCol  int
	maxCol  int
	nPivots int
}

type options struct {
	structuralIDs []int
	slackIDs      []int
}

// Option configures New.
type Option func(*options)

// WithIDs sets the variable ids of the structural columns of A and of the
// slack columns appended by New. By default structural columns are numbered
// 1..n and slack columns -1..-m.
func WithIDs(structural, slack []int) Option {
	return func(o *options) {
		o.structuralIDs = structural
		o.slackIDs = slack
	}
}

// New builds the tableau of A x + s = b with the slack variables s as the
// initial basis. A is m×n and len(b) must equal m.
func New[T any](f scalar.Field[T], A [][]T, b []T, opts ...Option) (*Tableau[T], error) {
	m := len(A)
	if len(b) != m {
		return nil, errors.Wrapf(ErrShape, "len(b) = %d, expected %d", len(b), m)
	}
	n := 0
	if m > 0 {
		n = len(A[0])
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.structuralIDs == nil {
		o.structuralIDs = make([]int, n)
		for j := range o.structuralIDs {
			o.structuralIDs[j] = j + 1
		}
	}
	if o.slackIDs == nil {
		o.slackIDs = make([]int, m)
		for i := range o.slackIDs {
			o.slackIDs[i] = -(i + 1)
		}
	}
	if len(o.structuralIDs) != n || len(o.slackIDs) != m {
		return nil, errors.Wrapf(ErrShape, "got %d+%d ids for %d+%d columns",
			len(o.structuralIDs), len(o.slackIDs), n, m)
	}

	M := make([][]T, m)
	basis := make([]int, m)
	for i, row := range A {
		if len(row) != n {
			return nil, errors.Wrapf(ErrShape, "row %d has %d columns, expected %d", i, len(row), n)
		}
		M[i] = make([]T, n+m)
		copy(M[i], row)
		for k := 0; k < m; k++ {
			if k == i {
				M[i][n+k] = f.One()
			} else {
				M[i][n+k] = f.Zero()
			}
		}
		basis[i] = n + i
	}

	ids := append(append([]int{}, o.structuralIDs...), o.slackIDs...)
	return newTableau(f, M, b, ids, basis, n)
}

// NewWithBasis builds a tableau of M z = rhs whose columns are named by ids.
// basis[i] is the id of the initial basic variable of row i; its column
// must be the i-th unit vector. The first nStructural columns are the
// structural variables reported by MinCol and MaxCol.
func NewWithBasis[T any](f scalar.Field[T], M [][]T, rhs []T, ids []int, basis []int, nStructural int) (*Tableau[T], error) {
	cols := make(map[int]int, len(ids))
	for c, id := range ids {
		cols[id] = c
	}
	basisCols := make([]int, len(basis))
	for i, id := range basis {
		c, ok := cols[id]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownVariable, "basis variable %d", id)
		}
		basisCols[i] = c
	}

	rows := make([][]T, len(M))
	for i, row := range M {
		rows[i] = append([]T(nil), row...)
	}
	return newTableau(f, rows, rhs, ids, basisCols, nStructural)
}

func newTableau[T any](f scalar.Field[T], rows [][]T, rhs []T, ids []int, basis []int, nStructural int) (*Tableau[T], error) {
	m := len(rows)
	if len(rhs) != m || len(basis) != m {
		return nil, errors.Wrapf(ErrShape, "%d rows, %d rhs, %d basic", m, len(rhs), len(basis))
	}
	if nStructural > len(ids) {
		return nil, errors.Wrapf(ErrShape, "%d structural of %d columns", nStructural, len(ids))
	}

	cols := make(map[int]int, len(ids))
	for c, id := range ids {
		if _, dup := cols[id]; dup {
			return nil, errors.Errorf("tableau: duplicate variable id %d", id)
		}
		cols[id] = c
	}

	isBasic := make([]bool, len(ids))
	for i, row := range rows {
		if len(row) != len(ids) {
			return nil, errors.Wrapf(ErrShape, "row %d has %d columns, expected %d", i, len(row), len(ids))
		}
		for k, c := range basis {
			want := 0
			if k == i {
				want = 1
			}
			if f.Cmp(row[c], f.FromInt(int64(want))) != 0 {
				return nil, errors.Wrapf(ErrBadBasis, "row %d, column %d", i, ids[c])
			}
		}
		isBasic[basis[i]] = true
	}

	t := &Tableau[T]{
		f:        f,
		pivotTol: f.Epsilon(),
		rows:     rows,
		rhs:      append([]T(nil), rhs...),
		ids:      ids,
		cols:     cols,
		unit:     append([]int(nil), basis...),
		basis:    append([]int(nil), basis...),
		isBasic:  isBasic,
	}
	for c := 0; c < nStructural; c++ {
		if c == 0 || ids[c] < t.minCol {
			t.minCol = ids[c]
		}
		if c == 0 || ids[c] > t.maxCol {
			t.maxCol = ids[c]
		}
	}
	return t, nil
}

// SetPivotTolerance sets the smallest entry considered as a pivot by the
// ratio test. It defaults to the field's epsilon.
func (t *Tableau[T]) SetPivotTolerance(tol T) {
	t.pivotTol = tol
}

// Field returns the scalar field of t.
func (t *Tableau[T]) Field() scalar.Field[T] {
	return t.f
}

// Rows returns the number of constraint rows.
func (t *Tableau[T]) Rows() int {
	return len(t.rows)
}

// MinRow is the index of the first row.
func (t *Tableau[T]) MinRow() int { return 0 }

// MaxRow is the index of the last row.
func (t *Tableau[T]) MaxRow() int { return len(t.rows) - 1 }

// MinCol and MaxCol bound the ids of the structural variables.
func (t *Tableau[T]) MinCol() int { return t.minCol }
func (t *Tableau[T]) MaxCol() int { return t.maxCol }

// IDs returns the variable ids of all columns, in column order.
func (t *Tableau[T]) IDs() []int {
	return t.ids
}

// Has reports whether t has a column for variable id.
func (t *Tableau[T]) Has(id int) bool {
	_, ok := t.cols[id]
	return ok
}

// IsBasic reports whether variable id is currently basic.
func (t *Tableau[T]) IsBasic(id int) bool {
	c, ok := t.cols[id]
	return ok && t.isBasic[c]
}

// Find returns the row in which variable id is basic, or -1.
func (t *Tableau[T]) Find(id int) int {
	c, ok := t.cols[id]
	if !ok || !t.isBasic[c] {
		return -1
	}
	for i, bc := range t.basis {
		if bc == c {
			return i
		}
	}
	return -1
}

// Basis returns the ids of the basic variables, by row.
func (t *Tableau[T]) Basis() []int {
	result := make([]int, len(t.basis))
	for i, c := range t.basis {
		result[i] = t.ids[c]
	}
	return result
}

// BasicID returns the id of the basic variable of row.
func (t *Tableau[T]) BasicID(row int) int {
	return t.ids[t.basis[row]]
}

// RHS returns the current value of the basic variable of row.
func (t *Tableau[T]) RHS(row int) T {
	return t.rhs[row]
}

// Entry returns the current coefficient of variable id in row.
func (t *Tableau[T]) Entry(row, id int) T {
	return t.rows[row][t.cols[id]]
}

// InitialBasis returns the ids of the initial basic variables, by row.
func (t *Tableau[T]) InitialBasis() []int {
	result := make([]int, len(t.unit))
	for i, c := range t.unit {
		result[i] = t.ids[c]
	}
	return result
}

// NumPivots returns the number of pivots performed on t (and on the
// tableau it was copied from, before the copy).
func (t *Tableau[T]) NumPivots() int {
	return t.nPivots
}

// ResetPivots zeroes the pivot counter.
func (t *Tableau[T]) ResetPivots() {
	t.nPivots = 0
}

// Pivot makes variable id basic in row, replacing the current basic
// variable of that row.
func (t *Tableau[T]) Pivot(row, id int) error {
	f := t.f
	c, ok := t.cols[id]
	if !ok {
		return errors.Wrapf(ErrUnknownVariable, "pivot on %d", id)
	}
	if row < 0 || row >= len(t.rows) {
		return errors.Wrapf(ErrBadPivot, "row %d out of range", row)
	}
	if t.isBasic[c] {
		return errors.Wrapf(ErrBadPivot, "variable %d is already basic", id)
	}
	p := t.rows[row][c]
	if f.Sign(p) == 0 {
		return errors.Wrapf(ErrBadPivot, "zero pivot at row %d, variable %d", row, id)
	}

	pivotRow := t.rows[row]
	for k := range pivotRow {
		pivotRow[k] = f.Div(pivotRow[k], p)
	}
	pivotRow[c] = f.One()
	t.rhs[row] = f.Div(t.rhs[row], p)

	for i, r := range t.rows {
		if i == row {
			continue
		}
		factor := r[c]
		if f.Sign(factor) == 0 {
			r[c] = f.Zero()
			continue
		}
		for k := range r {
			r[k] = f.Sub(r[k], f.Mul(factor, pivotRow[k]))
		}
		r[c] = f.Zero()
		t.rhs[i] = f.Sub(t.rhs[i], f.Mul(factor, t.rhs[row]))
	}

	t.isBasic[t.basis[row]] = false
	t.isBasic[c] = true
	t.basis[row] = c
	t.nPivots++
	return nil
}

// RatioTest returns the row that leaves the basis when variable id is
// increased from zero, i.e. the row i minimizing rhs[i] / a[i] over the
// rows whose entry a[i] in the column of id exceeds the pivot tolerance.
//
// Ties are broken lexicographically: among the tied rows the one whose
// vector (rhs[i], B^-1[i][0], ..., B^-1[i][m-1]) / a[i] is smallest wins,
// with B^-1 read from the columns of the initial basis. Because the rows of
// [rhs | B^-1] are linearly independent this selects a unique row, which
// prevents cycling. If two rows still compare equal within the field's
// tolerance, the row whose basic variable has the smaller id wins.
//
// ok is false if no entry exceeds the tolerance (the column is unbounded).
func (t *Tableau[T]) RatioTest(id int) (row int, ok bool) {
	c, found := t.cols[id]
	if !found {
		return -1, false
	}

	best := -1
	for i, r := range t.rows {
		if t.f.Cmp(r[c], t.pivotTol) <= 0 {
			continue
		}
		if best < 0 || t.lexLess(i, best, c) {
			best = i
		}
	}

	return best, best >= 0
}

// lexLess reports whether row i precedes row j in the lexicographic
// ratio order for column c.
func (t *Tableau[T]) lexLess(i, j, c int) bool {
	f := t.f
	ai, aj := t.rows[i][c], t.rows[j][c]
	if cmp := f.Cmp(f.Div(t.rhs[i], ai), f.Div(t.rhs[j], aj)); cmp != 0 {
		return cmp < 0
	}
	for _, u := range t.unit {
		if cmp := f.Cmp(f.Div(t.rows[i][u], ai), f.Div(t.rows[j][u], aj)); cmp != 0 {
			return cmp < 0
		}
	}
	return t.ids[t.basis[i]] < t.ids[t.basis[j]]
}

// BFS returns the values of the basic variables. Basic variables with a
// negative value (an infeasible basis) are left undefined.
func (t *Tableau[T]) BFS() BFS[T] {
	b := NewBFS[T]()
	for i, c := range t.basis {
		if t.f.Sign(t.rhs[i]) >= 0 {
			b.Define(t.ids[c], t.rhs[i])
		}
	}
	return b
}

// IsFeasible reports whether all basic variables are non-negative.
func (t *Tableau[T]) IsFeasible() bool {
	for _, v := range t.rhs {
		if t.f.Sign(v) < 0 {
			return false
		}
	}
	return true
}

// Copy returns a deep copy of t. Pivots on the copy do not affect t.
func (t *Tableau[T]) Copy() *Tableau[T] {
	rows := make([][]T, len(t.rows))
	for i, r := range t.rows {
		rows[i] = append([]T(nil), r...)
	}

	result := *t
	result.rows = rows
	result.rhs = append([]T(nil), t.rhs...)
	result.basis = append([]int(nil), t.basis...)
	result.isBasic = append([]bool(nil), t.isBasic...)
	return &result
}

// Dump writes a human readable rendering of t to w.
func (t *Tableau[T]) Dump(w io.Writer) {
	fmt.Fprintf(w, "basis: %v\n", t.Basis())
	fmt.Fprint(w, "      ")
	for _, id := range t.ids {
		fmt.Fprintf(w, "%10d", id)
	}
	fmt.Fprintf(w, "%10s\n", "rhs")
	for i, r := range t.rows {
		fmt.Fprintf(w, "%5d ", t.ids[t.basis[i]])
		for _, v := range r {
			fmt.Fprintf(w, "%10s", t.f.Format(v))
		}
		fmt.Fprintf(w, "%10s\n", t.f.Format(t.rhs[i]))
	}
}
