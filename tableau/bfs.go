package tableau

import (
	"fmt"
	"io"
	"sort"

	"github.com/timpalpant/lemke/scalar"
)

// BFS is a basic feasible solution: a sparse mapping from variable id to
// value. Only variables that were basic (and feasible) when the solution was
// extracted are defined; every other variable is implicitly zero.
type BFS[T any] struct {
	values map[int]T
}

// NewBFS returns an empty BFS.
func NewBFS[T any]() BFS[T] {
	return BFS[T]{values: make(map[int]T)}
}

// Define sets the value of variable id.
func (b BFS[T]) Define(id int, v T) {
	b.values[id] = v
}

// IsDefined reports whether variable id has a value in b.
func (b BFS[T]) IsDefined(id int) bool {
	_, ok := b.values[id]
	return ok
}

// Value returns the value of variable id, and whether it is defined.
func (b BFS[T]) Value(id int) (T, bool) {
	v, ok := b.values[id]
	return v, ok
}

// Len returns the number of defined variables.
func (b BFS[T]) Len() int {
	return len(b.values)
}

// Keys returns the defined variable ids in increasing order.
func (b BFS[T]) Keys() []int {
	keys := make([]int, 0, len(b.values))
	for id := range b.values {
		keys = append(keys, id)
	}
	sort.Ints(keys)
	return keys
}

// Equal reports whether b and other define the same variables with the
// same values (within the tolerance of f).
func (b BFS[T]) Equal(f scalar.Field[T], other BFS[T]) bool {
	if len(b.values) != len(other.values) {
		return false
	}

	for id, v := range b.values {
		w, ok := other.values[id]
		if !ok || f.Cmp(v, w) != 0 {
			return false
		}
	}

	return true
}

// Dump writes b as "{id: value, ...}" in increasing id order.
func (b BFS[T]) Dump(w io.Writer, f scalar.Field[T]) {
	fmt.Fprint(w, "{")
	for i, id := range b.Keys() {
		if i > 0 {
			fmt.Fprint(w, ", ")
		}
		fmt.Fprintf(w, "%d: %s", id, f.Format(b.values[id]))
	}
	fmt.Fprint(w, "}")
}

// BFSList is an ordered list of distinct BFS. Membership is decided by
// BFS equality rather than identity.
type BFSList[T any] struct {
	f     scalar.Field[T]
	items []BFS[T]
}

// NewBFSList returns an empty list comparing values with f.
func NewBFSList[T any](f scalar.Field[T]) *BFSList[T] {
	return &BFSList[T]{f: f}
}

// Contains reports whether a BFS equal to b is already in the list.
func (l *BFSList[T]) Contains(b BFS[T]) bool {
	for _, item := range l.items {
		if item.Equal(l.f, b) {
			return true
		}
	}
	return false
}

// Append adds b to the end of the list unless an equal BFS is already
// present. It returns whether b was added.
func (l *BFSList[T]) Append(b BFS[T]) bool {
	if l.Contains(b) {
		return false
	}
	l.items = append(l.items, b)
	return true
}

func (l *BFSList[T]) Len() int {
	return len(l.items)
}

func (l *BFSList[T]) At(i int) BFS[T] {
	return l.items[i]
}

// Items returns the list contents in insertion order.
func (l *BFSList[T]) Items() []BFS[T] {
	return l.items
}
