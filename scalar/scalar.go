// Package scalar provides the field arithmetic that the pivoting code is
// generic over. Two fields are implemented: Float, an approximate field over
// float64 with an equality tolerance, and Rational, an exact field over
// *big.Rat.
//
// Field values are treated as immutable: every operation returns a fresh
// value and never modifies its arguments. Code that copies slices of values
// (e.g. a tableau snapshot) may therefore share the underlying elements.
package scalar

import (
	"math/big"

	"github.com/pkg/errors"
)

// Field is the set of operations required of a scalar type T.
//
// Cmp and Sign are tolerance aware: for approximate fields two values whose
// difference is within Epsilon compare equal. Exact fields have a zero Epsilon.
type Field[T any] interface {
	Zero() T
	One() T
	FromInt(n int64) T
	FromFloat(x float64) T
	// Parse accepts integers ("3"), decimals ("-0.25", "1e-3") and
	// fractions ("3/5").
	Parse(s string) (T, error)

	Add(a, b T) T
	Sub(a, b T) T
	Mul(a, b T) T
	// Div panics if b is exactly zero.
	Div(a, b T) T
	Neg(a T) T

	Cmp(a, b T) int
	Sign(a T) int

	Float64(a T) float64
	Format(a T) string
	Epsilon() T
	Exact() bool
}

// IsZero reports whether a is zero within the field's tolerance.
func IsZero[T any](f Field[T], a T) bool {
	return f.Sign(a) == 0
}

// Equal reports whether a and b are equal within the field's tolerance.
func Equal[T any](f Field[T], a, b T) bool {
	return f.Cmp(a, b) == 0
}

// Sum adds up all values of xs.
func Sum[T any](f Field[T], xs []T) T {
	total := f.Zero()
	for _, x := range xs {
		total = f.Add(total, x)
	}
	return total
}

// Min returns the smallest value of xs and its index. The first index wins
// ties. Min panics if xs is empty.
func Min[T any](f Field[T], xs []T) (T, int) {
	best, bestIdx := xs[0], 0
	for i, x := range xs[1:] {
		if f.Cmp(x, best) < 0 {
			best, bestIdx = x, i+1
		}
	}
	return best, bestIdx
}

// Max returns the largest value of xs and its index. The first index wins
// ties. Max panics if xs is empty.
func Max[T any](f Field[T], xs []T) (T, int) {
	best, bestIdx := xs[0], 0
	for i, x := range xs[1:] {
		if f.Cmp(x, best) > 0 {
			best, bestIdx = x, i+1
		}
	}
	return best, bestIdx
}

// Vector returns a slice of n zeros.
func Vector[T any](f Field[T], n int) []T {
	v := make([]T, n)
	for i := range v {
		v[i] = f.Zero()
	}
	return v
}

// Matrix converts a matrix of float64 into field values.
func Matrix[T any](f Field[T], m [][]float64) [][]T {
	result := make([][]T, len(m))
	for i, row := range m {
		result[i] = make([]T, len(row))
		for j, x := range row {
			result[i][j] = f.FromFloat(x)
		}
	}
	return result
}

// Floats converts a vector of field values into float64.
func Floats[T any](f Field[T], xs []T) []float64 {
	result := make([]float64, len(xs))
	for i, x := range xs {
		result[i] = f.Float64(x)
	}
	return result
}

func parseRat(s string) (*big.Rat, error) {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, errors.Errorf("invalid number %q", s)
	}
	return r, nil
}
