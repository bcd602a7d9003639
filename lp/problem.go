package lp

import (
	"github.com/timpalpant/lemke/scalar"
)

// problem is the standard-form system handed to the tableau: every row
// has a non-negative right hand side and an initial basic variable that
// is either its slack or an artificial variable.
type problem[T any] struct {
	m, n int
	c    []T

	rows  [][]T
	rhs   []T
	ids   []int
	basis []int // initial basic variable id, by row

	negated    []bool      // row was multiplied by -1
	slack      map[int]int // row -> slack variable id
	artificial []int
	isArt      map[int]bool
}

func newProblem[T any](f scalar.Field[T], A [][]T, b, c []T, nEqualities int) *problem[T] {
	m, n := len(A), len(c)
	nIneq := m - nEqualities
	p := &problem[T]{
		m:       m,
		n:       n,
		c:       c,
		rhs:     make([]T, m),
		basis:   make([]int, m),
		negated: make([]bool, m),
		slack:   make(map[int]int, nIneq),
		isArt:   make(map[int]bool),
	}

	for i := 0; i < m; i++ {
		p.negated[i] = f.Sign(b[i]) < 0
	}

	// Column layout: x (1..n), slacks (n+1..n+m, inequality rows only),
	// artificials (n+m+1.., rows that need one).
	for j := 1; j <= n; j++ {
		p.ids = append(p.ids, j)
	}
	for i := 0; i < nIneq; i++ {
		p.slack[i] = n + 1 + i
		p.ids = append(p.ids, n+1+i)
	}
	for i := 0; i < m; i++ {
		if i < nIneq && !p.negated[i] {
			p.basis[i] = p.slack[i]
			continue
		}
		id := n + m + 1 + i
		p.artificial = append(p.artificial, id)
		p.isArt[id] = true
		p.ids = append(p.ids, id)
		p.basis[i] = id
	}

	col := make(map[int]int, len(p.ids))
	for k, id := range p.ids {
		col[id] = k
	}

	p.rows = make([][]T, m)
	for i := 0; i < m; i++ {
		sign := f.One()
		if p.negated[i] {
			sign = f.Neg(sign)
		}

		row := scalar.Vector(f, len(p.ids))
		for j := 0; j < n; j++ {
			row[j] = f.Mul(sign, A[i][j])
		}
		if id, ok := p.slack[i]; ok {
			row[col[id]] = sign
		}
		if p.isArt[p.basis[i]] {
			row[col[p.basis[i]]] = f.One()
		}
		p.rows[i] = row
		p.rhs[i] = f.Mul(sign, b[i])
	}

	return p
}

func (p *problem[T]) isArtificial(id int) bool {
	return p.isArt[id]
}
