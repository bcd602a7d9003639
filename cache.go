package lemke

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"expvar"
	"fmt"
	"io"
	"math"
	"math/big"

	"github.com/hashicorp/golang-lru"

	"github.com/timpalpant/lemke/game"
	"github.com/timpalpant/lemke/scalar"
)

var (
	cacheHits    = expvar.NewInt("lemke/cache_hits")
	cacheMisses  = expvar.NewInt("lemke/cache_misses")
	cacheHitRate = expvar.NewFloat("lemke/cache_hit_rate")
	cacheSize    = expvar.NewInt("lemke/cache_size")
)

// Cache memoizes the solutions of games solved over their full support.
// Only successful runs are cached. Returned slices are shared between
// callers and must not be modified.
type Cache[T any] struct {
	cache *lru.Cache
}

type cacheEntry[T any] struct {
	solutions []MixedSolution[T]
	outcome   Outcome
}

// NewCache returns a cache holding the results of at most size games.
func NewCache[T any](size int) (*Cache[T], error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Cache[T]{cache: cache}, nil
}

// Solve returns the cached solutions of g under params, or solves g and
// caches the result.
func (c *Cache[T]) Solve(ctx context.Context, g *game.Game[T], params Params) ([]MixedSolution[T], Outcome, error) {
	if g == nil {
		return nil, Malformed, nil
	}

	key := Fingerprint(g, params)
	if cached, ok := c.cache.Get(key); ok {
		cacheHits.Add(1)
		updateHitRate()
		entry := cached.(cacheEntry[T])
		return entry.solutions, entry.outcome, nil
	}

	cacheMisses.Add(1)
	updateHitRate()
	solutions, outcome, err := Solve(ctx, g, params)
	if err == nil && outcome == Success {
		c.cache.Add(key, cacheEntry[T]{solutions: solutions, outcome: outcome})
		cacheSize.Set(int64(c.cache.Len()))
	}
	return solutions, outcome, err
}

// Len returns the number of cached games.
func (c *Cache[T]) Len() int {
	return c.cache.Len()
}

func updateHitRate() {
	hits, misses := cacheHits.Value(), cacheMisses.Value()
	cacheHitRate.Set(float64(hits) / float64(hits+misses))
}

// Fingerprint identifies a game, its field and the parameters that affect
// which solutions are found. Payoffs are hashed exactly, so games that
// differ in any payoff bit have different fingerprints.
func Fingerprint[T any](g *game.Game[T], params Params) string {
	f := g.Field()
	h := md5.New()
	fmt.Fprintf(h, "%d %d %d %v|", params.DupStrat, params.StopAfter, g.NumPlayers(), params.Verify)
	fmt.Fprintf(h, "%T %v ", f, f.Exact())
	writeExact(h, f, f.Epsilon())
	fmt.Fprint(h, "|")
	if g.Validate() == nil {
		n0, n1 := g.NumStrats(game.Player0), g.NumStrats(game.Player1)
		fmt.Fprintf(h, "%dx%d|", n0, n1)
		for p := game.Player0; p <= game.Player1; p++ {
			for i := 0; i < n0; i++ {
				for j := 0; j < n1; j++ {
					writeExact(h, f, g.Payoff(p, i, j))
				}
			}
			fmt.Fprint(h, ";")
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

func writeExact[T any](w io.Writer, f scalar.Field[T], x T) {
	switch v := any(x).(type) {
	case float64:
		fmt.Fprintf(w, "%016x,", math.Float64bits(v))
	case *big.Rat:
		fmt.Fprintf(w, "%s,", v.String())
	default:
		fmt.Fprintf(w, "%s,", f.Format(x))
	}
}
