// Package matrixgame solves two-player zero-sum games given by the payoff
// matrix of the row player.
package matrixgame

import (
	"math"
	"math/rand"

	"github.com/golang/glog"

	"github.com/timpalpant/lemke/scalar"
)

// FictitiousPlay approximates the equilibrium of the zero-sum game with
// row player payoffs m. At each iteration both players best respond to the
// empirical play of their opponent, except that with probability
// mixingLambda they play uniformly at random instead. The empirical
// frequencies of each player are returned.
func FictitiousPlay[T any](f scalar.Field[T], m [][]T, nIter int, mixingLambda float64, rng *rand.Rand) ([]float64, []float64) {
	payoffs := make([][]float64, len(m))
	for i, row := range m {
		payoffs[i] = scalar.Floats(f, row)
	}

	p0PlayCounts := make([]int, len(payoffs))
	p1PlayCounts := make([]int, len(payoffs[0]))
	logEvery := nIter / 10
	for i := 1; i <= nIter; i++ {
		var p0Selected int
		if rng.Float64() < mixingLambda {
			p0Selected = rng.Intn(len(p0PlayCounts))
		} else {
			p0Selected = p0BestResponse(payoffs, p1PlayCounts, rng)
		}

		var p1Selected int
		if rng.Float64() < mixingLambda {
			p1Selected = rng.Intn(len(p1PlayCounts))
		} else {
			p1Selected = p1BestResponse(payoffs, p0PlayCounts, rng)
		}
		p0PlayCounts[p0Selected]++
		p1PlayCounts[p1Selected]++

		if logEvery > 0 && i%logEvery == 0 {
			glog.V(1).Infof("After %d iterations, player 0 weights: %v", i, normalize(p0PlayCounts))
			glog.V(1).Infof("After %d iterations, player 1 weights: %v", i, normalize(p1PlayCounts))
		}
	}

	return normalize(p0PlayCounts), normalize(p1PlayCounts)
}

func p0BestResponse(payoffs [][]float64, p1PlayCounts []int, rng *rand.Rand) int {
	utilities := make([]float64, len(payoffs))
	for j, c := range p1PlayCounts {
		for i := range utilities {
			utilities[i] += float64(c) * payoffs[i][j]
		}
	}

	_, br := argMax(utilities, rng)
	return br
}

func p1BestResponse(payoffs [][]float64, p0PlayCounts []int, rng *rand.Rand) int {
	utilities := make([]float64, len(payoffs[0]))
	for i, c := range p0PlayCounts {
		for j := range utilities {
			utilities[j] -= float64(c) * payoffs[i][j]
		}
	}

	_, br := argMax(utilities, rng)
	return br
}

func normalize(counts []int) []float64 {
	total := 0
	for _, v := range counts {
		total += v
	}

	result := make([]float64, len(counts))
	if total == 0 {
		return result
	}
	for i, v := range counts {
		result[i] = float64(v) / float64(total)
	}
	return result
}

// argMax breaks ties at random.
func argMax(vs []float64, rng *rand.Rand) (float64, int) {
	best := -math.MaxFloat64
	bestIdx := 0
	for i, v := range vs {
		if v > best {
			best = v
			bestIdx = i
		} else if v == best && rng.Intn(2) == 1 {
			bestIdx = i
		}
	}

	return best, bestIdx
}
