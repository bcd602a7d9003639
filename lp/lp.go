// Package lp implements a two-phase simplex solver for linear programs of
// the form
//
//	maximize c x  subject to  A x <= b (last k rows: A x = b),  x >= 0
//
// on top of the tableau package. The solver never panics or returns an
// error for bad problems: the outcome is reported with flags on the Result.
package lp

import (
	"context"
	"fmt"

	"github.com/golang/glog"

	"github.com/timpalpant/lemke/scalar"
	"github.com/timpalpant/lemke/tableau"
)

// Status summarizes the outcome of a solve.
type Status int

const (
	Optimal Status = iota
	Malformed
	Infeasible
	Unbounded
	Aborted
)

var statusStr = [...]string{
	"Optimal",
	"Malformed",
	"Infeasible",
	"Unbounded",
	"Aborted",
}

func (s Status) String() string {
	return statusStr[s]
}

// Tolerances are the thresholds used by the solver.
type Tolerances[T any] struct {
	// Primal is the largest total infeasibility accepted at the end of
	// phase 1.
	Primal T
	// Dual is the smallest reduced cost for which a column may enter the
	// basis. Columns with smaller reduced cost are considered optimal.
	Dual T
	// Pivot is the smallest tableau entry accepted as a pivot.
	Pivot T
}

// DefaultTolerances sets every tolerance to the epsilon of f.
func DefaultTolerances[T any](f scalar.Field[T]) Tolerances[T] {
	return Tolerances[T]{
		Primal: f.Epsilon(),
		Dual:   f.Epsilon(),
		Pivot:  f.Epsilon(),
	}
}

// Result is the outcome of a solve. Callers must check WellFormed and
// Feasible before using the optimum.
type Result[T any] struct {
	WellFormed bool
	Feasible   bool
	Bounded    bool
	Aborted    bool

	OptimumCost T
	// OptimumVector holds the value of each column of A.
	OptimumVector []T
	// Slack holds b - A x for each row (zero for equality rows).
	Slack []T
	// Dual holds the dual price of each row.
	Dual []T
	// BFS is the final basis. Variables 1..n are the columns of A,
	// n+1..n+m the slack of each inequality row and n+m+1.. the
	// artificial variables.
	BFS       tableau.BFS[T]
	NumPivots int

	// Optima lists every optimal vertex, starting with OptimumVector.
	// It is only filled by SolveAll.
	Optima [][]T
}

// Status returns the overall outcome of the solve.
func (r *Result[T]) Status() Status {
	switch {
	case !r.WellFormed:
		return Malformed
	case r.Aborted:
		return Aborted
	case !r.Feasible:
		return Infeasible
	case !r.Bounded:
		return Unbounded
	default:
		return Optimal
	}
}

func (r *Result[T]) String() string {
	return fmt.Sprintf("lp.Result{%v, pivots: %d}", r.Status(), r.NumPivots)
}

// Solver solves linear programs over the field T.
type Solver[T any] struct {
	f   scalar.Field[T]
	tol Tolerances[T]
}

// NewSolver returns a solver using DefaultTolerances.
func NewSolver[T any](f scalar.Field[T]) *Solver[T] {
	return &Solver[T]{f: f, tol: DefaultTolerances(f)}
}

// WithTolerances returns a copy of s using the given tolerances.
func (s *Solver[T]) WithTolerances(tol Tolerances[T]) *Solver[T] {
	return &Solver[T]{f: s.f, tol: tol}
}

// Solve is a shortcut for NewSolver(f).Solve(ctx, A, b, c, nEqualities).
func Solve[T any](ctx context.Context, f scalar.Field[T], A [][]T, b, c []T, nEqualities int) *Result[T] {
	return NewSolver(f).Solve(ctx, A, b, c, nEqualities)
}

// Solve maximizes c x subject to A x <= b and x >= 0, where the last
// nEqualities rows of A are equality constraints.
//
// ctx is polled between pivots. If it is cancelled the solve stops, the
// result is marked Aborted, and the vector reflects the last basis reached.
func (s *Solver[T]) Solve(ctx context.Context, A [][]T, b, c []T, nEqualities int) *Result[T] {
	return s.solve(ctx, A, b, c, nEqualities, false)
}

// SolveAll is Solve followed by the enumeration of every optimal basic
// feasible solution into Result.Optima. Alternative optima are reached by
// pivoting in non-basic columns whose reduced cost is zero. If ctx is
// cancelled during the enumeration the result is marked Aborted and
// Optima holds the vertices found so far.
func (s *Solver[T]) SolveAll(ctx context.Context, A [][]T, b, c []T, nEqualities int) *Result[T] {
	return s.solve(ctx, A, b, c, nEqualities, true)
}

func (s *Solver[T]) solve(ctx context.Context, A [][]T, b, c []T, nEqualities int, all bool) *Result[T] {
	f := s.f
	m, n := len(A), len(c)
	result := &Result[T]{OptimumCost: f.Zero()}
	if !wellFormed(A, b, c, nEqualities) {
		glog.V(1).Infof("Malformed LP: %d rows, %d rhs, %d costs, %d equalities",
			m, len(b), n, nEqualities)
		return result
	}
	result.WellFormed = true

	p := newProblem(f, A, b, c, nEqualities)
	tab, err := tableau.NewWithBasis(f, p.rows, p.rhs, p.ids, p.basis, n)
	if err != nil {
		// Unreachable for a well-formed problem: the initial basis is
		// an identity by construction.
		glog.Errorf("Unable to build LP tableau: %v", err)
		result.WellFormed = false
		return result
	}
	tab.SetPivotTolerance(s.tol.Pivot)

	notArtificial := func(id int) bool { return !p.isArtificial(id) }
	if len(p.artificial) > 0 {
		phase1Cost := make(map[int]T, len(p.artificial))
		for _, id := range p.artificial {
			phase1Cost[id] = f.Neg(f.One())
		}

		st := s.optimize(ctx, tab, phase1Cost, func(int) bool { return true })
		glog.V(2).Infof("Phase 1 finished with %v after %d pivots", st, tab.NumPivots())
		if st == Aborted {
			result.Aborted = true
			s.fill(result, tab, p)
			return result
		}

		infeasibility := objective(f, tab, phase1Cost)
		if f.Cmp(infeasibility, f.Neg(s.tol.Primal)) < 0 {
			glog.V(1).Infof("LP infeasible: phase 1 optimum %v", f.Format(infeasibility))
			s.fill(result, tab, p)
			return result
		}
		s.evictArtificials(tab, p)
	}
	result.Feasible = true

	phase2Cost := make(map[int]T, n)
	for j, cj := range c {
		phase2Cost[j+1] = cj
	}
	st := s.optimize(ctx, tab, phase2Cost, notArtificial)
	glog.V(2).Infof("Phase 2 finished with %v after %d pivots", st, tab.NumPivots())
	switch st {
	case Aborted:
		result.Aborted = true
	case Unbounded:
		result.Bounded = false
	default:
		result.Bounded = true
	}

	s.fill(result, tab, p)
	if all && st == Optimal {
		var complete bool
		result.Optima, complete = s.optima(ctx, tab, phase2Cost, p)
		result.Aborted = !complete
		glog.V(1).Infof("Found %d optimal vertices", len(result.Optima))
	}
	glog.V(1).Infof("LP solved: %v, cost %v", result, f.Format(result.OptimumCost))
	return result
}

// optima walks the optimal face from the optimal basis of tab, depth
// first, and returns the distinct optimal vectors it visits. It returns
// false if ctx was cancelled before the walk finished. tab is not
// modified.
func (s *Solver[T]) optima(ctx context.Context, tab *tableau.Tableau[T], cost map[int]T, p *problem[T]) ([][]T, bool) {
	f := s.f
	visited := tableau.NewBFSList(f)
	visited.Append(tab.BFS())
	vectors := [][]T{primal(f, tab, p.n)}

	stack := []*tableau.Tableau[T]{tab}
	for len(stack) > 0 {
		if ctx.Err() != nil {
			return vectors, false
		}
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		prices := dualPrices(f, t, cost)
		for _, id := range t.IDs() {
			if t.IsBasic(id) || p.isArtificial(id) {
				continue
			}
			// Reduced costs are at most Dual at an optimum; the ones
			// within Dual of zero lead to alternative optima.
			if f.Cmp(reducedCost(f, t, cost, prices, id), f.Neg(s.tol.Dual)) < 0 {
				continue
			}
			row, ok := t.RatioTest(id)
			if !ok {
				continue // Unbounded edge of the optimal face.
			}
			next := t.Copy()
			if err := next.Pivot(row, id); err != nil {
				glog.Errorf("Pivot failed: %v", err)
				continue
			}
			if !visited.Append(next.BFS()) {
				continue
			}
			stack = append(stack, next)
			if x := primal(f, next, p.n); !containsVector(f, vectors, x) {
				vectors = append(vectors, x)
			}
		}
	}
	return vectors, true
}

// primal returns the values of the n structural columns at the basis of
// tab.
func primal[T any](f scalar.Field[T], tab *tableau.Tableau[T], n int) []T {
	x := make([]T, n)
	for j := range x {
		if row := tab.Find(j + 1); row >= 0 {
			x[j] = tab.RHS(row)
		} else {
			x[j] = f.Zero()
		}
	}
	return x
}

func containsVector[T any](f scalar.Field[T], vectors [][]T, x []T) bool {
	for _, v := range vectors {
		same := true
		for j := range v {
			if f.Cmp(v[j], x[j]) != 0 {
				same = false
				break
			}
		}
		if same {
			return true
		}
	}
	return false
}

// optimize runs primal simplex iterations maximizing cost, allowing only
// columns for which canEnter returns true to enter the basis. The
// entering column is the one with the largest reduced cost (the first
// such column on ties); the leaving row is chosen by the tableau's
// lexicographic ratio test.
func (s *Solver[T]) optimize(ctx context.Context, tab *tableau.Tableau[T], cost map[int]T, canEnter func(int) bool) Status {
	f := s.f
	for {
		if ctx.Err() != nil {
			return Aborted
		}

		prices := dualPrices(f, tab, cost)
		entering := 0
		var best T
		for _, id := range tab.IDs() {
			if tab.IsBasic(id) || !canEnter(id) {
				continue
			}
			d := reducedCost(f, tab, cost, prices, id)
			if f.Cmp(d, s.tol.Dual) <= 0 {
				continue
			}
			if entering == 0 || f.Cmp(d, best) > 0 {
				entering, best = id, d
			}
		}
		if entering == 0 {
			return Optimal
		}

		row, ok := tab.RatioTest(entering)
		if !ok {
			glog.V(2).Infof("Column %d is unbounded", entering)
			return Unbounded
		}
		if err := tab.Pivot(row, entering); err != nil {
			// RatioTest only returns rows with a pivot above tolerance.
			glog.Errorf("Pivot failed: %v", err)
			return Unbounded
		}
	}
}

// evictArtificials pivots artificial variables that are still basic (at
// level zero) out of the basis wherever the row has a usable entry. Rows
// without one are redundant and keep their artificial variable, which can
// never become positive because artificials are not allowed to re-enter.
func (s *Solver[T]) evictArtificials(tab *tableau.Tableau[T], p *problem[T]) {
	f := s.f
	for row := 0; row < tab.Rows(); row++ {
		if !p.isArtificial(tab.BasicID(row)) {
			continue
		}
		for _, id := range tab.IDs() {
			if p.isArtificial(id) || tab.IsBasic(id) {
				continue
			}
			a := tab.Entry(row, id)
			if f.Sign(a) < 0 {
				a = f.Neg(a)
			}
			if f.Cmp(a, s.tol.Pivot) > 0 {
				if err := tab.Pivot(row, id); err != nil {
					glog.Errorf("Unable to evict artificial from row %d: %v", row, err)
				}
				break
			}
		}
	}
}

func (s *Solver[T]) fill(result *Result[T], tab *tableau.Tableau[T], p *problem[T]) {
	f := s.f
	result.BFS = tab.BFS()
	result.NumPivots = tab.NumPivots()

	value := func(id int) T {
		if row := tab.Find(id); row >= 0 {
			return tab.RHS(row)
		}
		return f.Zero()
	}

	result.OptimumVector = primal(f, tab, p.n)
	result.OptimumCost = f.Zero()
	for j := range result.OptimumVector {
		result.OptimumCost = f.Add(result.OptimumCost, f.Mul(p.c[j], result.OptimumVector[j]))
	}

	result.Slack = make([]T, p.m)
	for i := range result.Slack {
		if id, ok := p.slack[i]; ok {
			result.Slack[i] = value(id)
		} else {
			result.Slack[i] = f.Zero()
		}
	}

	cost := make(map[int]T, p.n)
	for j, cj := range p.c {
		cost[j+1] = cj
	}
	prices := dualPrices(f, tab, cost)
	result.Dual = make([]T, p.m)
	for i, id := range p.basis {
		y := f.Zero()
		for row := 0; row < tab.Rows(); row++ {
			y = f.Add(y, f.Mul(prices[row], tab.Entry(row, id)))
		}
		if p.negated[i] {
			y = f.Neg(y)
		}
		result.Dual[i] = y
	}
}

// dualPrices returns the cost of the basic variable of each row.
func dualPrices[T any](f scalar.Field[T], tab *tableau.Tableau[T], cost map[int]T) []T {
	prices := make([]T, tab.Rows())
	for row := range prices {
		if c, ok := cost[tab.BasicID(row)]; ok {
			prices[row] = c
		} else {
			prices[row] = f.Zero()
		}
	}
	return prices
}

// reducedCost returns c_id - sum_i c_B(i) * T[i][id].
func reducedCost[T any](f scalar.Field[T], tab *tableau.Tableau[T], cost map[int]T, prices []T, id int) T {
	d, ok := cost[id]
	if !ok {
		d = f.Zero()
	}
	for row, price := range prices {
		if f.Sign(price) == 0 {
			continue
		}
		d = f.Sub(d, f.Mul(price, tab.Entry(row, id)))
	}
	return d
}

// objective returns the value of cost at the current basis.
func objective[T any](f scalar.Field[T], tab *tableau.Tableau[T], cost map[int]T) T {
	total := f.Zero()
	for row := 0; row < tab.Rows(); row++ {
		if c, ok := cost[tab.BasicID(row)]; ok {
			total = f.Add(total, f.Mul(c, tab.RHS(row)))
		}
	}
	return total
}

func wellFormed[T any](A [][]T, b, c []T, nEqualities int) bool {
	if len(A) == 0 || len(c) == 0 || len(b) != len(A) {
		return false
	}
	if nEqualities < 0 || nEqualities > len(A) {
		return false
	}
	for _, row := range A {
		if len(row) != len(c) {
			return false
		}
	}
	return true
}
