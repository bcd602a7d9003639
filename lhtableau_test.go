package lemke

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timpalpant/lemke/game"
	"github.com/timpalpant/lemke/scalar"
)

func coordinationGame() *game.Game[*big.Rat] {
	return game.NewFromFloats[*big.Rat](scalar.Rational{},
		[][]float64{{3, 0}, {0, 2}},
		[][]float64{{2, 0}, {0, 3}})
}

func newCoordinationTableau(t *testing.T) *LHTableau[*big.Rat] {
	g := coordinationGame()
	lh, err := NewLHTableau(g, game.FullSupport(g))
	require.NoError(t, err)
	return lh
}

func value(t *testing.T, lh *LHTableau[*big.Rat], id int) string {
	v, ok := lh.BFS().Value(id)
	if !ok {
		return "0"
	}
	return v.RatString()
}

func TestLHTableauArtificialEquilibrium(t *testing.T) {
	lh := newCoordinationTableau(t)
	assert.Equal(t, 1, lh.MinCol())
	assert.Equal(t, 4, lh.MaxCol())
	assert.True(t, lh.IsComplementary())
	assert.Equal(t, []int{-4, -3, -2, -1}, lh.BFS().Keys())
	assert.Equal(t, 0, lh.NumPivots())
}

func TestLemkePath(t *testing.T) {
	lh := newCoordinationTableau(t)
	require.True(t, lh.LemkePath(1))
	assert.True(t, lh.IsComplementary())
	assert.Equal(t, 2, lh.NumPivots())
	// Payoffs are shifted by one: x1 = 1/3, y1 = 1/4.
	assert.Equal(t, "1/3", value(t, lh, 1))
	assert.Equal(t, "1/4", value(t, lh, 3))
	assert.Equal(t, "0", value(t, lh, 2))
	assert.Equal(t, "0", value(t, lh, 4))

	// From (1, 1), dropping label 2 reaches the mixed equilibrium.
	lh.ResetPivots()
	require.True(t, lh.LemkePath(2))
	assert.Equal(t, 2, lh.NumPivots())
	assert.Equal(t, "3/11", value(t, lh, 1))
	assert.Equal(t, "2/11", value(t, lh, 2))
	assert.Equal(t, "2/11", value(t, lh, 3))
	assert.Equal(t, "3/11", value(t, lh, 4))
}

func TestLemkePathRejectsBadInput(t *testing.T) {
	lh := newCoordinationTableau(t)
	assert.False(t, lh.LemkePath(0))
	assert.False(t, lh.LemkePath(5))
	assert.Equal(t, 0, lh.NumPivots())

	// x1 and its complement r1 both basic.
	require.NoError(t, lh.t1.Pivot(0, 1))
	assert.False(t, lh.IsComplementary())
	assert.False(t, lh.LemkePath(2))
	assert.Equal(t, 1, lh.NumPivots())
}

func TestLHTableauCopy(t *testing.T) {
	lh := newCoordinationTableau(t)
	cp := lh.Copy()
	require.True(t, cp.LemkePath(2))
	assert.Equal(t, []int{-4, -3, -2, -1}, lh.BFS().Keys())
	assert.Equal(t, 0, lh.NumPivots())
	assert.Equal(t, "1/4", value(t, cp, 2))
	assert.Equal(t, "1/3", value(t, cp, 4))
}

func TestLHTableauSupport(t *testing.T) {
	g := game.NewFromFloats[*big.Rat](scalar.Rational{},
		[][]float64{{3, 0, 9}, {0, 2, 9}, {1, 1, 1}},
		[][]float64{{2, 0, 0}, {0, 3, 0}, {1, 1, 1}})
	s, err := game.NewSupport(g, []int{0, 1}, []int{0, 1})
	require.NoError(t, err)
	lh, err := NewLHTableau(g, s)
	require.NoError(t, err)
	assert.Equal(t, 4, lh.MaxCol())
	require.True(t, lh.LemkePath(1))
	assert.Equal(t, "1/3", value(t, lh, 1))
	assert.Equal(t, "1/4", value(t, lh, 3))
}

func TestLHTableauRejectsForeignSupport(t *testing.T) {
	big3 := game.NewFromFloats[*big.Rat](scalar.Rational{},
		[][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}},
		[][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})
	_, err := NewLHTableau(coordinationGame(), game.FullSupport(big3))
	assert.Error(t, err)
}

func TestLHTableauLargeFloatPayoffs(t *testing.T) {
	g := game.NewFromFloats[float64](scalar.NewFloat(),
		[][]float64{{3e9, 0}, {0, 2e9}},
		[][]float64{{2e9, 0}, {0, 3e9}})
	for label := 1; label <= 4; label++ {
		lh, err := NewLHTableau(g, game.FullSupport(g))
		require.NoError(t, err)
		assert.True(t, lh.LemkePath(label), "label %d", label)
		assert.True(t, lh.IsComplementary(), "label %d", label)
	}
}
