package scalar

import (
	"math"
	"strconv"
)

// DefaultEpsilon is the equality tolerance used by NewFloat.
const DefaultEpsilon = 1e-9

// Float is an approximate field over float64. Cmp treats two values as
// equal when they differ by at most Eps relative to the larger magnitude
// (absolute below magnitude one). Sign compares against Eps absolutely.
type Float struct {
	Eps float64
}

// Verify that we implement the interface.
var _ Field[float64] = Float{}

// NewFloat returns a Float field with DefaultEpsilon tolerance.
func NewFloat() Float {
	return Float{Eps: DefaultEpsilon}
}

func (Float) Zero() float64 { return 0 }
func (Float) One() float64 { return 1 }
func (Float) FromInt(n int64) float64 { return float64(n) }
func (Float) FromFloat(x float64) float64 { return x }
func (Float) Add(a, b float64) float64 { return a + b }
func (Float) Sub(a, b float64) float64 { return a - b }
func (Float) Mul(a, b float64) float64 { return a * b }
func (Float) Neg(a float64) float64 { return -a }
func (Float) Float64(a float64) float64 { return a }
func (f Float) Epsilon() float64 { return f.Eps }
func (Float) Exact() bool { return false }
func (Float) Format(a float64) string { return strconv.FormatFloat(a, 'g', 10, 64) }

func (Float) Div(a, b float64) float64 {
	if b == 0 {
		panic("scalar: division by zero")
	}
	return a / b
}

func (Float) Parse(s string) (float64, error) {
	r, err := parseRat(s)
	if err != nil {
		return 0, err
	}
	x, _ := r.Float64()
	return x, nil
}

func (f Float) Cmp(a, b float64) int {
	d := a - b
	tol := f.Eps * math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	switch {
	case d > tol:
		return 1
	case d < -tol:
		return -1
	default:
		return 0
	}
}

func (f Float) Sign(a float64) int {
	if math.Abs(a) <= f.Eps {
		return 0
	} else if a > 0 {
		return 1
	}
	return -1
}
