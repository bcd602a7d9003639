package tableau

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/timpalpant/lemke/scalar"
)

func TestBFSEqual(t *testing.T) {
	f := scalar.Float{Eps: 1e-9}
	a := NewBFS[float64]()
	a.Define(1, 0.5)
	a.Define(-2, 0)
	b := NewBFS[float64]()
	b.Define(-2, 0)
	b.Define(1, 0.5+1e-12)
	assert.True(t, a.Equal(f, b))
	assert.True(t, b.Equal(f, a))

	c := NewBFS[float64]()
	c.Define(1, 0.5)
	c.Define(-3, 0)
	assert.False(t, a.Equal(f, c), "different defined sets")

	d := NewBFS[float64]()
	d.Define(1, 0.5)
	assert.False(t, a.Equal(f, d), "subset is not equal")
}

func TestBFSListDeduplicates(t *testing.T) {
	f := scalar.NewFloat()
	l := NewBFSList[float64](f)

	a := NewBFS[float64]()
	a.Define(1, 1)
	b := NewBFS[float64]()
	b.Define(1, 2)

	assert.True(t, l.Append(a))
	assert.True(t, l.Append(b))
	dup := NewBFS[float64]()
	dup.Define(1, 1)
	assert.True(t, l.Contains(dup))
	assert.False(t, l.Append(dup))
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, a, l.At(0))
	assert.Len(t, l.Items(), 2)
}

func TestBFSDump(t *testing.T) {
	b := NewBFS[float64]()
	b.Define(2, 0.25)
	b.Define(-1, 3)
	var buf bytes.Buffer
	b.Dump(&buf, scalar.NewFloat())
	assert.Equal(t, "{-1: 3, 2: 0.25}", buf.String())
}
