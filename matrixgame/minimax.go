package matrixgame

import (
	"context"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/timpalpant/lemke/lp"
	"github.com/timpalpant/lemke/scalar"
)

// Minimax returns optimal strategies of both players of the zero-sum game
// with row player payoffs m, and the value of the game to the row player.
//
// Each player's strategy is the solution of a linear program over the
// payoffs shifted to be at least one, so that the value variable is
// positive.
func Minimax[T any](ctx context.Context, f scalar.Field[T], m [][]T) (p0, p1 []T, value T, err error) {
	value = f.Zero()
	if len(m) == 0 || len(m[0]) == 0 {
		return nil, nil, value, errors.New("empty payoff matrix")
	}
	n0, n1 := len(m), len(m[0])
	for i, row := range m {
		if len(row) != n1 {
			return nil, nil, value, errors.Errorf("row %d has %d columns, expected %d", i, len(row), n1)
		}
	}

	lowest := m[0][0]
	for _, row := range m {
		if v, _ := scalar.Min(f, row); f.Cmp(v, lowest) < 0 {
			lowest = v
		}
	}
	shift := f.Sub(f.One(), lowest)

	// Row player: max v  s.t.  v <= sum_i x_i M[i][j] for every j,
	// sum_i x_i = 1.
	A := make([][]T, n1+1)
	for j := 0; j < n1; j++ {
		A[j] = make([]T, n0+1)
		for i := 0; i < n0; i++ {
			A[j][i] = f.Neg(f.Add(m[i][j], shift))
		}
		A[j][n0] = f.One()
	}
	A[n1] = append(ones(f, n0), f.Zero())
	b := append(scalar.Vector(f, n1), f.One())
	c := append(scalar.Vector(f, n0), f.One())

	res := lp.Solve(ctx, f, A, b, c, 1)
	if err := checkResult(ctx, res); err != nil {
		return nil, nil, value, errors.Wrap(err, "row player")
	}
	p0 = res.OptimumVector[:n0]
	value = f.Sub(res.OptimumCost, shift)

	// Column player: min w  s.t.  sum_j M[i][j] y_j <= w for every i,
	// sum_j y_j = 1.
	A = make([][]T, n0+1)
	for i := 0; i < n0; i++ {
		A[i] = make([]T, n1+1)
		for j := 0; j < n1; j++ {
			A[i][j] = f.Add(m[i][j], shift)
		}
		A[i][n1] = f.Neg(f.One())
	}
	A[n0] = append(ones(f, n1), f.Zero())
	b = append(scalar.Vector(f, n0), f.One())
	c = append(scalar.Vector(f, n1), f.Neg(f.One()))

	res = lp.Solve(ctx, f, A, b, c, 1)
	if err := checkResult(ctx, res); err != nil {
		return nil, nil, value, errors.Wrap(err, "column player")
	}
	p1 = res.OptimumVector[:n1]

	glog.V(1).Infof("Game value %v", f.Format(value))
	return p0, p1, value, nil
}

func checkResult[T any](ctx context.Context, res *lp.Result[T]) error {
	switch res.Status() {
	case lp.Optimal:
		return nil
	case lp.Aborted:
		return ctx.Err()
	default:
		return errors.Errorf("linear program %v", res.Status())
	}
}

func ones[T any](f scalar.Field[T], n int) []T {
	v := make([]T, n)
	for i := range v {
		v[i] = f.One()
	}
	return v
}
