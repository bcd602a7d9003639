package lemke

import (
	"fmt"
	"io"

	"github.com/golang/glog"

	"github.com/timpalpant/lemke/game"
	"github.com/timpalpant/lemke/scalar"
	"github.com/timpalpant/lemke/tableau"
)

// LHTableau is the pair of coupled tableaus followed by the Lemke-Howson
// algorithm on a two-player game restricted to a support with n1 and n2
// strategies.
//
// The first tableau holds Player1's best-response constraints
// B^T x + s = 1 over Player0's mixed strategy x, the second holds
// Player0's constraints A y + r = 1 over Player1's mixed strategy y, where
// A and B are the payoffs mapped to be at least one. Variables are named:
//
//	x_i = i       (1 <= i <= n1)    r_i = -i
//	y_j = n1 + j  (1 <= j <= n2)    s_j = -(n1 + j)
//
// so that the label of variable v is |v| and its complement is -v. A basis
// is complementary when no variable is basic together with its complement.
type LHTableau[T any] struct {
	f      scalar.Field[T]
	n1, n2 int
	t1, t2 *tableau.Tableau[T]
}

// NewLHTableau builds the tableau of g restricted to s. The initial basis
// is the artificial equilibrium where every slack is basic.
func NewLHTableau[T any](g *game.Game[T], s game.Support) (*LHTableau[T], error) {
	if err := g.ValidateSupport(s); err != nil {
		return nil, err
	}
	f := g.Field()
	rows, cols := s.Strategies(game.Player0), s.Strategies(game.Player1)
	n1, n2 := len(rows), len(cols)

	entry := payoffMap(g)

	// Player1's constraints: one row per Player1 strategy.
	A1 := make([][]T, n2)
	for j, col := range cols {
		A1[j] = make([]T, n1)
		for i, row := range rows {
			A1[j][i] = entry(g.Payoff(game.Player1, row, col))
		}
	}
	// Player0's constraints: one row per Player0 strategy.
	A2 := make([][]T, n1)
	for i, row := range rows {
		A2[i] = make([]T, n2)
		for j, col := range cols {
			A2[i][j] = entry(g.Payoff(game.Player0, row, col))
		}
	}

	x, r := make([]int, n1), make([]int, n1)
	for i := range x {
		x[i], r[i] = i+1, -(i + 1)
	}
	y, sl := make([]int, n2), make([]int, n2)
	for j := range y {
		y[j], sl[j] = n1+j+1, -(n1 + j + 1)
	}

	t1, err := tableau.New(f, A1, ones(f, n2), tableau.WithIDs(x, sl))
	if err != nil {
		return nil, err
	}
	t2, err := tableau.New(f, A2, ones(f, n1), tableau.WithIDs(y, r))
	if err != nil {
		return nil, err
	}

	return &LHTableau[T]{f: f, n1: n1, n2: n2, t1: t1, t2: t2}, nil
}

// payoffMap returns the positive affine map applied to every payoff of g
// before it enters the tableau. Exact payoffs are shifted so that the
// smallest is at least one. Inexact payoffs are mapped onto [1, 2] so that tableau
// entries do not depend on the payoff scale. Neither map changes the
// equilibria.
func payoffMap[T any](g *game.Game[T]) func(T) T {
	f := g.Field()
	lo, hi := g.MinPayoff(), g.MaxPayoff()
	if f.Exact() || f.Cmp(hi, lo) == 0 {
		shift := f.Sub(f.One(), lo)
		if f.Sign(shift) < 0 {
			shift = f.Zero()
		}
		return func(u T) T { return f.Add(u, shift) }
	}

	width := f.Sub(hi, lo)
	return func(u T) T {
		return f.Add(f.One(), f.Div(f.Sub(u, lo), width))
	}
}

func ones[T any](f scalar.Field[T], n int) []T {
	v := make([]T, n)
	for i := range v {
		v[i] = f.One()
	}
	return v
}

// MinCol is the smallest label.
func (lh *LHTableau[T]) MinCol() int { return 1 }

// MaxCol is the largest label.
func (lh *LHTableau[T]) MaxCol() int { return lh.n1 + lh.n2 }

// owner returns the tableau in which variable id lives.
func (lh *LHTableau[T]) owner(id int) *tableau.Tableau[T] {
	if lh.t1.Has(id) {
		return lh.t1
	}
	return lh.t2
}

func (lh *LHTableau[T]) isBasic(id int) bool {
	return lh.owner(id).IsBasic(id)
}

// IsComplementary reports whether no label has both of its variables
// basic.
func (lh *LHTableau[T]) IsComplementary() bool {
	for k := lh.MinCol(); k <= lh.MaxCol(); k++ {
		if lh.isBasic(k) && lh.isBasic(-k) {
			return false
		}
	}
	return true
}

// LemkePath follows the path that drops the given label, starting from
// the current complementary basis, until a new complementary basis is
// reached. It returns false, leaving the tableau unchanged, if the current
// basis is not complementary or the label is out of range. It also returns
// false if the path cannot be continued because no row blocks the entering
// variable; the tableau is then left part way along the path and must be
// discarded.
func (lh *LHTableau[T]) LemkePath(label int) bool {
	if label < lh.MinCol() || label > lh.MaxCol() {
		return false
	}
	if !lh.IsComplementary() {
		glog.V(2).Infof("Refusing to follow label %d from a non-complementary basis", label)
		return false
	}

	entering := label
	if lh.isBasic(entering) {
		entering = -label
	}

	for {
		tab := lh.owner(entering)
		row, ok := tab.RatioTest(entering)
		if !ok {
			// The polytopes are bounded when payoffs are positive, so
			// this only happens when entries vanish within tolerance.
			glog.Warningf("No blocking row for variable %d on label %d", entering, label)
			return false
		}

		leaving := tab.BasicID(row)
		if err := tab.Pivot(row, entering); err != nil {
			glog.Errorf("Pivot on variable %d failed: %v", entering, err)
			return false
		}

		if abs(leaving) == label {
			return true
		}
		entering = -leaving
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// NumPivots returns the number of pivots performed on both tableaus.
func (lh *LHTableau[T]) NumPivots() int {
	return lh.t1.NumPivots() + lh.t2.NumPivots()
}

// ResetPivots zeroes the pivot counters of both tableaus.
func (lh *LHTableau[T]) ResetPivots() {
	lh.t1.ResetPivots()
	lh.t2.ResetPivots()
}

// BFS returns the values of the basic variables of both tableaus.
func (lh *LHTableau[T]) BFS() tableau.BFS[T] {
	result := lh.t1.BFS()
	b2 := lh.t2.BFS()
	for _, id := range b2.Keys() {
		v, _ := b2.Value(id)
		result.Define(id, v)
	}
	return result
}

// Copy returns a deep copy of lh.
func (lh *LHTableau[T]) Copy() *LHTableau[T] {
	return &LHTableau[T]{
		f:  lh.f,
		n1: lh.n1,
		n2: lh.n2,
		t1: lh.t1.Copy(),
		t2: lh.t2.Copy(),
	}
}

func (lh *LHTableau[T]) Dump(w io.Writer) {
	fmt.Fprintln(w, "Player1 constraints:")
	lh.t1.Dump(w)
	fmt.Fprintln(w, "Player0 constraints:")
	lh.t2.Dump(w)
}
