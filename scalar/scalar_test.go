package scalar

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestFloatTolerance(t *testing.T) {
	f := Float{Eps: 1e-6}
	assert.Equal(t, 0, f.Cmp(1.0, 1.0+1e-7))
	assert.Equal(t, -1, f.Cmp(1.0, 1.0+1e-5))
	assert.Equal(t, 1, f.Cmp(1.0+1e-5, 1.0))
	assert.Equal(t, 0, f.Sign(-1e-7))
	assert.Equal(t, -1, f.Sign(-1e-5))
	assert.True(t, IsZero[float64](f, 5e-7))

	// Large values are compared relative to their magnitude.
	assert.Equal(t, 0, f.Cmp(1e9, 1e9+100))
	assert.Equal(t, -1, f.Cmp(1e9, 1e9+1e4))
	assert.Equal(t, 1, f.Cmp(-1e9, -1e9-1e4))
}

func TestParse(t *testing.T) {
	q := Rational{}
	for s, want := range map[string]*big.Rat{
		"3":     big.NewRat(3, 1),
		"3/5":   big.NewRat(3, 5),
		"-0.25": big.NewRat(-1, 4),
		"1e-3":  big.NewRat(1, 1000),
	} {
		got, err := q.Parse(s)
		require.NoError(t, err, s)
		assert.Equal(t, 0, got.Cmp(want), "parsing %q: got %v", s, got)
	}

	x, err := NewFloat().Parse("3/5")
	require.NoError(t, err)
	assert.InDelta(t, 0.6, x, 1e-12)

	_, err = q.Parse("three")
	assert.Error(t, err)
}

func TestRationalIsExact(t *testing.T) {
	q := Rational{}
	third := q.Div(q.One(), q.FromInt(3))
	sum := Sum[*big.Rat](q, []*big.Rat{third, third, third})
	assert.Equal(t, 0, q.Cmp(sum, q.One()))
	assert.Equal(t, "1/3", q.Format(third))
	assert.True(t, q.Exact())
	assert.Equal(t, 0, q.Sign(q.Epsilon()))
}

func TestRationalOperationsDoNotMutate(t *testing.T) {
	q := Rational{}
	a := big.NewRat(1, 2)
	b := big.NewRat(1, 3)
	_ = q.Add(a, b)
	_ = q.Mul(a, b)
	_ = q.Neg(a)
	assert.Equal(t, "1/2", a.RatString())
	assert.Equal(t, "1/3", b.RatString())
}

func TestMinMax(t *testing.T) {
	f := NewFloat()
	xs := []float64{3, 1, 4, 1, 5}
	v, i := Min[float64](f, xs)
	assert.Equal(t, 1.0, v)
	assert.Equal(t, 1, i)
	v, i = Max[float64](f, xs)
	assert.Equal(t, 5.0, v)
	assert.Equal(t, 4, i)
}

func TestFromFloatNaN(t *testing.T) {
	q := Rational{}
	assert.Equal(t, 0, q.FromFloat(math.NaN()).Sign())
}

func TestLiteral(t *testing.T) {
	var doc struct {
		Values []Literal `yaml:"values"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(`values: [1, "2/3", -0.5, 1e-3]`), &doc))
	assert.Equal(t, []Literal{"1", "2/3", "-0.5", "1e-3"}, doc.Values)

	xs, err := ParseAll[*big.Rat](Rational{}, doc.Values)
	require.NoError(t, err)
	assert.Equal(t, "2/3", xs[1].RatString())
	assert.Equal(t, "1/1000", xs[3].RatString())

	_, err = ParseAll[float64](NewFloat(), []Literal{"1", "abc"})
	assert.Error(t, err)

	assert.Error(t, yaml.Unmarshal([]byte(`values: [[1]]`), &doc))
}
