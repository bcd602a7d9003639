package scalar

import (
	"math/big"
)

// Rational is the exact field of rational numbers backed by *big.Rat.
// A nil *big.Rat is never produced by Rational.
type Rational struct{}

// Verify that we implement the interface.
var _ Field[*big.Rat] = Rational{}

func (Rational) Zero() *big.Rat { return new(big.Rat) }
func (Rational) One() *big.Rat { return big.NewRat(1, 1) }
func (Rational) FromInt(n int64) *big.Rat { return big.NewRat(n, 1) }
func (Rational) Add(a, b *big.Rat) *big.Rat { return new(big.Rat).Add(a, b) }
func (Rational) Sub(a, b *big.Rat) *big.Rat { return new(big.Rat).Sub(a, b) }
func (Rational) Mul(a, b *big.Rat) *big.Rat { return new(big.Rat).Mul(a, b) }
func (Rational) Div(a, b *big.Rat) *big.Rat { return new(big.Rat).Quo(a, b) }
func (Rational) Neg(a *big.Rat) *big.Rat { return new(big.Rat).Neg(a) }
func (Rational) Cmp(a, b *big.Rat) int { return a.Cmp(b) }
func (Rational) Sign(a *big.Rat) int { return a.Sign() }
func (Rational) Epsilon() *big.Rat { return new(big.Rat) }
func (Rational) Exact() bool { return true }
func (Rational) Format(a *big.Rat) string { return a.RatString() }

// FromFloat converts x exactly. NaN and infinities map to zero.
func (Rational) FromFloat(x float64) *big.Rat {
	r := new(big.Rat).SetFloat64(x)
	if r == nil {
		return new(big.Rat)
	}
	return r
}

func (Rational) Parse(s string) (*big.Rat, error) {
	return parseRat(s)
}

func (Rational) Float64(a *big.Rat) float64 {
	x, _ := a.Float64()
	return x
}
