// Enumerate the Nash equilibria of two-player games given as YAML files
// with the Lemke-Howson algorithm.
//
// Games are listed with -game (comma separated) and as arguments. Results
// are memoized, so repeated games are solved once.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/big"
	"math/rand"
	"net/http"
	_ "net/http/pprof"
	"os"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/timpalpant/lemke"
	"github.com/timpalpant/lemke/game"
	"github.com/timpalpant/lemke/matrixgame"
	"github.com/timpalpant/lemke/scalar"
)

type RunParams struct {
	GameFiles  []string
	Arithmetic string
	Epsilon    float64
	Timeout    time.Duration
	OutputFile string
	ListenAddr string

	NumGames  int
	Seed      int64
	CacheSize int
	Minimax   bool

	Lemke lemke.Params
}

func main() {
	var params RunParams
	gameFiles := flag.String("game", "", "YAML files with the games to solve (comma separated)")
	flag.StringVar(&params.Arithmetic, "arithmetic", "rational",
		"Arithmetic to solve with (rational or float)")
	flag.Float64Var(&params.Epsilon, "eps", scalar.DefaultEpsilon,
		"Tolerance of floating point comparisons")
	flag.DurationVar(&params.Timeout, "timeout", 0,
		"Stop enumerating after this long (0 = no limit)")
	flag.StringVar(&params.OutputFile, "output", "",
		"File to save the equilibria to (gzipped gob)")
	flag.StringVar(&params.ListenAddr, "listen", "localhost:4123",
		"Address to serve pprof and expvar on (empty to disable)")
	flag.IntVar(&params.NumGames, "num_games", 0,
		"Number of games to simulate with each equilibrium")
	flag.Int64Var(&params.Seed, "seed", 1234, "Random seed for simulation")
	flag.IntVar(&params.CacheSize, "cache_size", 128, "Number of solved games to memoize")
	flag.BoolVar(&params.Minimax, "minimax", false,
		"Also compute the value of zero-sum games by linear programming")
	flag.IntVar(&params.Lemke.DupStrat, "dup_strat", 0,
		"Label to drop from the artificial equilibrium (0 = enumerate all)")
	flag.IntVar(&params.Lemke.Trace, "trace", 0, "Trace verbosity (0, 1 or 2)")
	flag.IntVar(&params.Lemke.StopAfter, "stop_after", 0,
		"Stop after finding this many equilibria (0 = no limit)")
	flag.BoolVar(&params.Lemke.Verify, "verify", false,
		"Check that each equilibrium satisfies the Nash condition")
	flag.Parse()

	if *gameFiles != "" {
		params.GameFiles = strings.Split(*gameFiles, ",")
	}
	params.GameFiles = append(params.GameFiles, flag.Args()...)
	if len(params.GameFiles) == 0 {
		glog.Fatal("Must provide -game")
	}
	if params.ListenAddr != "" {
		go http.ListenAndServe(params.ListenAddr, nil)
	}
	if params.Lemke.Trace > 0 {
		params.Lemke.TraceWriter = os.Stderr
	}

	ctx := context.Background()
	if params.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, params.Timeout)
		defer cancel()
	}

	switch params.Arithmetic {
	case "rational":
		run[*big.Rat](ctx, params, scalar.Rational{})
	case "float":
		run[float64](ctx, params, scalar.Float{Eps: params.Epsilon})
	default:
		glog.Fatalf("Unknown arithmetic: %v", params.Arithmetic)
	}
}

func run[T any](ctx context.Context, params RunParams, f scalar.Field[T]) {
	cache, err := lemke.NewCache[T](params.CacheSize)
	if err != nil {
		glog.Fatal(err)
	}

	rng := rand.New(rand.NewSource(params.Seed))
	var all []lemke.MixedSolution[T]
	for _, filename := range params.GameFiles {
		g := mustLoadGame(filename, f)
		glog.Infof("Solving %q: %d x %d", g.Title(),
			g.NumStrats(game.Player0), g.NumStrats(game.Player1))

		start := time.Now()
		solutions, outcome, err := cache.Solve(ctx, g, params.Lemke)
		if err != nil {
			glog.Fatal(err)
		}
		glog.Infof("%v: found %d equilibria in %v", outcome, len(solutions), time.Since(start))

		fmt.Printf("%s: %v\n", filename, outcome)
		for i, sol := range solutions {
			fmt.Printf("%d: %s\n", i+1, sol.Profile.Format(f))
			fmt.Printf("   payoffs: %s, %s\n",
				f.Format(sol.Profile.Payoff(g, game.Player0)),
				f.Format(sol.Profile.Payoff(g, game.Player1)))
			if params.NumGames > 0 {
				avg0, avg1 := simulate(g, sol.Profile, params.NumGames, rng)
				fmt.Printf("   simulated %d games: %.4f, %.4f\n", params.NumGames, avg0, avg1)
			}
		}
		if params.Minimax {
			printMinimax(ctx, g)
		}
		all = append(all, solutions...)
	}

	if params.OutputFile != "" {
		mustSaveSolutions(params.OutputFile, all)
	}
}

// printMinimax prints the value and optimal strategies of g if it is
// zero-sum.
func printMinimax[T any](ctx context.Context, g *game.Game[T]) {
	f := g.Field()
	n0, n1 := g.NumStrats(game.Player0), g.NumStrats(game.Player1)
	m := make([][]T, n0)
	for i := range m {
		m[i] = make([]T, n1)
		for j := range m[i] {
			m[i][j] = g.Payoff(game.Player0, i, j)
			if f.Cmp(f.Neg(m[i][j]), g.Payoff(game.Player1, i, j)) != 0 {
				glog.Warningf("%q is not zero-sum, skipping minimax", g.Title())
				return
			}
		}
	}

	p0, p1, value, err := matrixgame.Minimax(ctx, f, m)
	if err != nil {
		glog.Errorf("Minimax failed: %v", err)
		return
	}
	fmt.Printf("   value: %s\n", f.Format(value))
	fmt.Printf("   minimax: (%s; %s)\n", formatVector(f, p0), formatVector(f, p1))
}

func formatVector[T any](f scalar.Field[T], xs []T) string {
	strs := make([]string, len(xs))
	for i, x := range xs {
		strs[i] = f.Format(x)
	}
	return strings.Join(strs, ", ")
}

// simulate plays n games with both players sampling from profile and
// returns the average payoff to each player.
func simulate[T any](g *game.Game[T], profile game.MixedProfile[T], n int, rng *rand.Rand) (float64, float64) {
	f := g.Field()
	var total0, total1 float64
	for k := 0; k < n; k++ {
		i := profile.Sample(f, game.Player0, rng.Float32())
		j := profile.Sample(f, game.Player1, rng.Float32())
		total0 += f.Float64(g.Payoff(game.Player0, i, j))
		total1 += f.Float64(g.Payoff(game.Player1, i, j))
	}
	return total0 / float64(n), total1 / float64(n)
}

func mustLoadGame[T any](filename string, f scalar.Field[T]) *game.Game[T] {
	glog.Infof("Loading game from: %v", filename)
	r, err := os.Open(filename)
	if err != nil {
		glog.Fatal(err)
	}
	defer r.Close()

	g, err := game.Load(r, f)
	if err != nil {
		glog.Fatal(err)
	}
	return g
}

func mustSaveSolutions[T any](filename string, solutions []lemke.MixedSolution[T]) {
	glog.Infof("Saving %d equilibria to: %v", len(solutions), filename)
	w, err := os.Create(filename)
	if err != nil {
		glog.Fatal(err)
	}
	defer w.Close()

	if err := lemke.SaveSolutions(w, solutions); err != nil {
		glog.Fatal(err)
	}
}
