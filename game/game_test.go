package game

import (
	"math/big"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timpalpant/lemke/scalar"
)

func coordination() *Game[*big.Rat] {
	return NewFromFloats[*big.Rat](scalar.Rational{},
		[][]float64{{3, 0}, {0, 2}},
		[][]float64{{2, 0}, {0, 3}})
}

func rat(s string) *big.Rat {
	r, _ := new(big.Rat).SetString(s)
	return r
}

func TestValidate(t *testing.T) {
	g := coordination()
	require.NoError(t, g.Validate())
	assert.Equal(t, 2, g.NumPlayers())
	assert.Equal(t, 2, g.NumStrats(Player0))
	assert.Equal(t, 2, g.NumStrats(Player1))
	assert.Equal(t, "2", g.StrategyName(Player1, 1))
	assert.Equal(t, "0", g.MinPayoff().RatString())

	f := scalar.NewFloat()
	tests := map[string]*Game[float64]{
		"one player":   NewFromFloats[float64](f, [][]float64{{1}}),
		"three player": NewFromFloats[float64](f, [][]float64{{1}}, [][]float64{{1}}, [][]float64{{1}}),
		"no strategy":  NewFromFloats[float64](f, [][]float64{}, [][]float64{}),
		"ragged":       NewFromFloats[float64](f, [][]float64{{1, 2}, {3}}, [][]float64{{1, 2}, {3, 4}}),
		"mismatched":   NewFromFloats[float64](f, [][]float64{{1, 2}}, [][]float64{{1}, {2}}),
	}
	for name, g := range tests {
		assert.Error(t, g.Validate(), name)
	}
}

func TestPlayerString(t *testing.T) {
	assert.Equal(t, "Player0", Player0.String())
	assert.Equal(t, "Player1", Player1.String())
	assert.Equal(t, Player1, Player0.Other())
	assert.Equal(t, "Player2", Player(2).String())
}

func TestSupport(t *testing.T) {
	g := NewFromFloats[float64](scalar.NewFloat(),
		[][]float64{{1, 2, 3}, {4, 5, 6}},
		[][]float64{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, g.Validate())

	full := FullSupport(g)
	assert.Equal(t, []int{0, 1}, full.Strategies(Player0))
	assert.Equal(t, []int{0, 1, 2}, full.Strategies(Player1))
	assert.False(t, full.IsEmpty())

	s, err := NewSupport(g, []int{1}, []int{2, 0, 2})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, s.Strategies(Player1))
	assert.True(t, s.Contains(Player1, 2))
	assert.False(t, s.Contains(Player1, 1))
	assert.False(t, s.Contains(Player0, 0))

	_, err = NewSupport(g, []int{2}, nil)
	assert.Error(t, err)

	empty, err := NewSupport(g, []int{0}, nil)
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())

	assert.NoError(t, g.ValidateSupport(s))
	small := NewFromFloats[float64](scalar.NewFloat(), [][]float64{{1, 2}}, [][]float64{{1, 2}})
	assert.Error(t, small.ValidateSupport(full))
	assert.NoError(t, g.ValidateSupport(FullSupport(small)))
}

func TestPayoffRange(t *testing.T) {
	g := NewFromFloats[float64](scalar.NewFloat(),
		[][]float64{{1, -2}, {4, 0}},
		[][]float64{{7, 3}, {-1, 2}})
	assert.Equal(t, -2.0, g.MinPayoff())
	assert.Equal(t, 7.0, g.MaxPayoff())
}

func TestMixedProfileNash(t *testing.T) {
	g := coordination()
	q := g.Field()

	pure := NewMixedProfile(g)
	pure.Probs[Player0][0] = q.One()
	pure.Probs[Player1][0] = q.One()
	assert.True(t, pure.IsNash(g))
	assert.Equal(t, "3", pure.Payoff(g, Player0).RatString())
	assert.Equal(t, "2", pure.Payoff(g, Player1).RatString())

	mixed := MixedProfile[*big.Rat]{Probs: [2][]*big.Rat{
		{rat("3/5"), rat("2/5")},
		{rat("2/5"), rat("3/5")},
	}}
	assert.True(t, mixed.IsNash(g))
	assert.Equal(t, "6/5", mixed.Payoff(g, Player0).RatString())
	assert.Equal(t, "6/5", mixed.StrategyValue(g, Player0, 1).RatString())
	assert.Equal(t, "6/5", mixed.Payoff(g, Player1).RatString())

	// Equal mixing is not an equilibrium: Player0 prefers strategy 1.
	uniform := MixedProfile[*big.Rat]{Probs: [2][]*big.Rat{
		{rat("1/2"), rat("1/2")},
		{rat("1/2"), rat("1/2")},
	}}
	assert.False(t, uniform.IsNash(g))

	offDiagonal := NewMixedProfile(g)
	offDiagonal.Probs[Player0][0] = q.One()
	offDiagonal.Probs[Player1][1] = q.One()
	assert.False(t, offDiagonal.IsNash(g))

	assert.False(t, NewMixedProfile(g).IsNash(g), "zero profile is not a distribution")
	assert.Equal(t, "(3/5, 2/5; 2/5, 3/5)", mixed.Format(q))
}

func TestSample(t *testing.T) {
	g := coordination()
	m := MixedProfile[*big.Rat]{Probs: [2][]*big.Rat{
		{rat("1"), rat("0")},
		{rat("0"), rat("1")},
	}}
	for _, u := range []float32{0.3, 0.5, 0.99} {
		assert.Equal(t, 0, m.Sample(g.Field(), Player0, u))
		assert.Equal(t, 1, m.Sample(g.Field(), Player1, u))
	}
}

func TestLoad(t *testing.T) {
	const doc = `
title: Battle of the sexes
players: [Alice, Bob]
strategies:
  - [Opera, Football]
  - [Opera, Football]
payoffs:
  - [[3, 0], [0, 2]]
  - [["2", 0], [0, 7/2]]
`
	g, err := Load[*big.Rat](strings.NewReader(doc), scalar.Rational{})
	require.NoError(t, err)
	assert.Equal(t, "Battle of the sexes", g.Title())
	assert.Equal(t, "Bob", g.PlayerName(Player1))
	assert.Equal(t, "Football", g.StrategyName(Player0, 1))
	assert.Equal(t, "7/2", g.Payoff(Player1, 1, 1).RatString())
	assert.Equal(t, "3", g.Payoff(Player0, 0, 0).RatString())

	fg, err := Load[float64](strings.NewReader(doc), scalar.NewFloat())
	require.NoError(t, err)
	assert.Equal(t, 3.5, fg.Payoff(Player1, 1, 1))
}

func TestLoadErrors(t *testing.T) {
	tests := map[string]string{
		"bad number":  "payoffs:\n  - [[x]]\n  - [[1]]\n",
		"one player":  "payoffs:\n  - [[1]]\n",
		"ragged":      "payoffs:\n  - [[1, 2], [3]]\n  - [[1, 2], [3, 4]]\n",
		"names":       "players: [a]\npayoffs:\n  - [[1]]\n  - [[1]]\n",
		"not scalar":  "payoffs:\n  - [[[1]]]\n  - [[1]]\n",
		"bad strings": "strategies: [[a, b], [c]]\npayoffs:\n  - [[1]]\n  - [[1]]\n",
	}
	for name, doc := range tests {
		_, err := Load[float64](strings.NewReader(doc), scalar.NewFloat())
		assert.Error(t, err, name)
	}
}

func TestLoadFile(t *testing.T) {
	r, err := os.Open("testdata/coordination.yaml")
	require.NoError(t, err)
	defer r.Close()

	g, err := Load[*big.Rat](r, scalar.Rational{})
	require.NoError(t, err)
	assert.Equal(t, "Coordination", g.Title())
	assert.Equal(t, "Column", g.PlayerName(Player1))
	assert.Equal(t, "Right", g.StrategyName(Player1, 1))
	assert.Equal(t, "3", g.Payoff(Player1, 1, 1).RatString())
}
