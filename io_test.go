package lemke

import (
	"bytes"
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timpalpant/lemke/game"
	"github.com/timpalpant/lemke/scalar"
)

func TestSaveLoadSolutions(t *testing.T) {
	g := coordinationGame()
	sols, _, err := Solve(context.Background(), g, Params{Verify: true})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, SaveSolutions(&buf, sols))
	loaded, err := LoadSolutions[*big.Rat](&buf)
	require.NoError(t, err)

	var q scalar.Field[*big.Rat] = scalar.Rational{}
	assert.Equal(t, formatAll(q, sols), formatAll(q, loaded))
	for i := range sols {
		assert.Equal(t, sols[i].Creator, loaded[i].Creator)
		assert.Equal(t, sols[i].IsNash, loaded[i].IsNash)
		assert.Equal(t, sols[i].IsPerfect, loaded[i].IsPerfect)
		assert.True(t, loaded[i].Profile.IsNash(g))
	}
}

func TestSaveLoadFloatSolutions(t *testing.T) {
	f := scalar.NewFloat()
	g := game.NewFromFloats[float64](f,
		[][]float64{{1, -1}, {-1, 1}},
		[][]float64{{-1, 1}, {1, -1}})
	sols, _, err := Solve(context.Background(), g, Params{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, SaveSolutions(&buf, sols))
	loaded, err := LoadSolutions[float64](&buf)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, loaded[0].Profile.Probs[game.Player0], 1e-12)
}

func TestLoadSolutionsInvalid(t *testing.T) {
	_, err := LoadSolutions[float64](bytes.NewReader([]byte("not gzip")))
	assert.Error(t, err)
}
