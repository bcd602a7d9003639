package game

import (
	"fmt"
	"strings"

	"github.com/timpalpant/go-cfr/sampling"

	"github.com/timpalpant/lemke/scalar"
)

// MixedProfile assigns a probability distribution over the strategies of
// each player. Probs[p][s] is the probability that player p plays s.
type MixedProfile[T any] struct {
	Probs [2][]T
}

// NewMixedProfile returns the all-zero profile for g.
func NewMixedProfile[T any](g *Game[T]) MixedProfile[T] {
	var m MixedProfile[T]
	for p := Player0; p <= Player1; p++ {
		m.Probs[p] = scalar.Vector(g.Field(), g.NumStrats(p))
	}
	return m
}

// Prob returns the probability that player p plays strategy s.
func (m MixedProfile[T]) Prob(p Player, s int) T {
	return m.Probs[p][s]
}

// IsValid reports whether every probability is non-negative and each
// player's probabilities sum to one.
func (m MixedProfile[T]) IsValid(f scalar.Field[T]) bool {
	for _, probs := range m.Probs {
		if len(probs) == 0 {
			return false
		}
		for _, x := range probs {
			if f.Sign(x) < 0 {
				return false
			}
		}
		if f.Cmp(scalar.Sum(f, probs), f.One()) != 0 {
			return false
		}
	}
	return true
}

// StrategyValue returns the expected payoff to player p of playing the
// pure strategy s against the other player's mixed strategy.
func (m MixedProfile[T]) StrategyValue(g *Game[T], p Player, s int) T {
	f := g.Field()
	total := f.Zero()
	other := p.Other()
	for t, prob := range m.Probs[other] {
		if f.Sign(prob) == 0 {
			continue
		}
		var u T
		if p == Player0 {
			u = g.Payoff(p, s, t)
		} else {
			u = g.Payoff(p, t, s)
		}
		total = f.Add(total, f.Mul(prob, u))
	}
	return total
}

// Payoff returns the expected payoff to player p.
func (m MixedProfile[T]) Payoff(g *Game[T], p Player) T {
	f := g.Field()
	total := f.Zero()
	for s, prob := range m.Probs[p] {
		if f.Sign(prob) == 0 {
			continue
		}
		total = f.Add(total, f.Mul(prob, m.StrategyValue(g, p, s)))
	}
	return total
}

// IsNash reports whether m is a valid profile in which no player can
// improve their expected payoff by deviating to a pure strategy.
func (m MixedProfile[T]) IsNash(g *Game[T]) bool {
	f := g.Field()
	if len(m.Probs[Player0]) != g.NumStrats(Player0) || len(m.Probs[Player1]) != g.NumStrats(Player1) {
		return false
	}
	if !m.IsValid(f) {
		return false
	}
	for p := Player0; p <= Player1; p++ {
		value := m.Payoff(g, p)
		for s := range m.Probs[p] {
			if f.Cmp(m.StrategyValue(g, p, s), value) > 0 {
				return false
			}
		}
	}
	return true
}

// Sample draws a strategy for player p. u must be uniform on [0, 1).
func (m MixedProfile[T]) Sample(f scalar.Field[T], p Player, u float32) int {
	weights := make([]float32, len(m.Probs[p]))
	for s, x := range m.Probs[p] {
		weights[s] = float32(f.Float64(x))
	}
	return sampling.SampleOne(weights, u)
}

// Format renders the profile as "(p0_1, p0_2, ...; p1_1, ...)".
func (m MixedProfile[T]) Format(f scalar.Field[T]) string {
	parts := make([]string, 2)
	for p, probs := range m.Probs {
		strs := make([]string, len(probs))
		for s, x := range probs {
			strs[s] = f.Format(x)
		}
		parts[p] = strings.Join(strs, ", ")
	}
	return fmt.Sprintf("(%s; %s)", parts[0], parts[1])
}
