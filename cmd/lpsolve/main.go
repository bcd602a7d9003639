// Solve a linear program given as a YAML file with the two-phase simplex
// method.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/timpalpant/lemke/lp"
	"github.com/timpalpant/lemke/scalar"
)

type RunParams struct {
	ProblemFile string
	Arithmetic  string
	Timeout     time.Duration
	All         bool

	PrimalTol float64
	DualTol   float64
	PivotTol  float64
}

func main() {
	var params RunParams
	flag.StringVar(&params.ProblemFile, "problem", "", "YAML file with the linear program")
	flag.StringVar(&params.Arithmetic, "arithmetic", "rational",
		"Arithmetic to solve with (rational or float)")
	flag.DurationVar(&params.Timeout, "timeout", 0,
		"Abort the solve after this long (0 = no limit)")
	flag.BoolVar(&params.All, "all", false, "List every optimal vertex")
	flag.Float64Var(&params.PrimalTol, "eps1", scalar.DefaultEpsilon,
		"Largest infeasibility accepted at the end of phase 1 (float only)")
	flag.Float64Var(&params.DualTol, "eps2", scalar.DefaultEpsilon,
		"Smallest reduced cost of an entering column (float only)")
	flag.Float64Var(&params.PivotTol, "eps3", scalar.DefaultEpsilon,
		"Smallest accepted pivot (float only)")
	flag.Parse()

	if params.ProblemFile == "" {
		glog.Fatal("Must provide -problem")
	}

	ctx := context.Background()
	if params.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, params.Timeout)
		defer cancel()
	}

	switch params.Arithmetic {
	case "rational":
		q := scalar.Rational{}
		run[*big.Rat](ctx, params, q, lp.NewSolver[*big.Rat](q))
	case "float":
		f := scalar.NewFloat()
		solver := lp.NewSolver[float64](f).WithTolerances(lp.Tolerances[float64]{
			Primal: params.PrimalTol,
			Dual:   params.DualTol,
			Pivot:  params.PivotTol,
		})
		run[float64](ctx, params, f, solver)
	default:
		glog.Fatalf("Unknown arithmetic: %v", params.Arithmetic)
	}
}

func run[T any](ctx context.Context, params RunParams, f scalar.Field[T], solver *lp.Solver[T]) {
	r, err := os.Open(params.ProblemFile)
	if err != nil {
		glog.Fatal(err)
	}
	defer r.Close()

	p, err := lp.Load(r, f)
	if err != nil {
		glog.Fatal(err)
	}

	start := time.Now()
	var res *lp.Result[T]
	if params.All {
		res = p.SolveAll(ctx, solver)
	} else {
		res = p.Solve(ctx, solver)
	}
	glog.Infof("%v in %v", res, time.Since(start))

	fmt.Printf("status: %v\n", res.Status())
	if res.Status() != lp.Optimal {
		return
	}
	fmt.Printf("cost: %s\n", f.Format(res.OptimumCost))
	fmt.Printf("x: %s\n", formatVector(f, res.OptimumVector))
	fmt.Printf("slack: %s\n", formatVector(f, res.Slack))
	fmt.Printf("dual: %s\n", formatVector(f, res.Dual))
	for i, x := range res.Optima {
		fmt.Printf("optimum %d: %s\n", i+1, formatVector(f, x))
	}
}

func formatVector[T any](f scalar.Field[T], xs []T) string {
	strs := make([]string, len(xs))
	for i, x := range xs {
		strs[i] = f.Format(x)
	}
	return "[" + strings.Join(strs, ", ") + "]"
}
