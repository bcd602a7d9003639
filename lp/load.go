package lp

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/timpalpant/lemke/scalar"
)

// File is the YAML representation of a linear program:
//
//	maximize: [1, 1]
//	constraints:
//	  - [1, 1]
//	  - [1, 0]
//	rhs: [4, 3]
//	equalities: 0
//
// The last `equalities` constraints are equalities, the others are <=.
type File struct {
	Maximize    []scalar.Literal   `yaml:"maximize"`
	Constraints [][]scalar.Literal `yaml:"constraints"`
	RHS         []scalar.Literal   `yaml:"rhs"`
	Equalities  int                `yaml:"equalities,omitempty"`
}

// Problem is a linear program over the field T.
type Problem[T any] struct {
	A           [][]T
	B           []T
	C           []T
	NEqualities int
}

// Load reads a YAML linear program into the field f. The shape of the
// problem is not checked: Solve reports malformed problems.
func Load[T any](r io.Reader, f scalar.Field[T]) (*Problem[T], error) {
	var file File
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, errors.Wrap(err, "decoding linear program")
	}

	p := &Problem[T]{NEqualities: file.Equalities}
	var err error
	if p.C, err = scalar.ParseAll(f, file.Maximize); err != nil {
		return nil, errors.Wrap(err, "objective")
	}
	if p.B, err = scalar.ParseAll(f, file.RHS); err != nil {
		return nil, errors.Wrap(err, "rhs")
	}
	p.A = make([][]T, len(file.Constraints))
	for i, row := range file.Constraints {
		if p.A[i], err = scalar.ParseAll(f, row); err != nil {
			return nil, errors.Wrapf(err, "constraint %d", i)
		}
	}
	return p, nil
}

// Solve solves p with s.
func (p *Problem[T]) Solve(ctx context.Context, s *Solver[T]) *Result[T] {
	return s.Solve(ctx, p.A, p.B, p.C, p.NEqualities)
}

// SolveAll solves p with s, listing every optimal vertex.
func (p *Problem[T]) SolveAll(ctx context.Context, s *Solver[T]) *Result[T] {
	return s.SolveAll(ctx, p.A, p.B, p.C, p.NEqualities)
}
