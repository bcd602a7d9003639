package game

import (
	"fmt"
	"sort"
)

// Support restricts a two-player game to a subset of each player's
// strategies. Strategy indices are kept sorted.
type Support struct {
	strats [2][]int
}

// FullSupport returns the support containing every strategy of g.
func FullSupport[T any](g *Game[T]) Support {
	var s Support
	for p := Player0; p <= Player1; p++ {
		s.strats[p] = make([]int, g.NumStrats(p))
		for i := range s.strats[p] {
			s.strats[p][i] = i
		}
	}
	return s
}

// NewSupport returns the support of g containing strategies s0 of Player0
// and s1 of Player1. Duplicates are removed.
func NewSupport[T any](g *Game[T], s0, s1 []int) (Support, error) {
	var s Support
	for p, strats := range [2][]int{s0, s1} {
		player := Player(p)
		seen := make(map[int]bool, len(strats))
		for _, i := range strats {
			if i < 0 || i >= g.NumStrats(player) {
				return Support{}, fmt.Errorf("player %v has no strategy %d", player, i)
			}
			if !seen[i] {
				seen[i] = true
				s.strats[p] = append(s.strats[p], i)
			}
		}
		sort.Ints(s.strats[p])
	}
	return s, nil
}

// Strategies returns the strategies of p in the support, in increasing
// order.
func (s Support) Strategies(p Player) []int {
	return s.strats[p]
}

func (s Support) NumStrats(p Player) int {
	return len(s.strats[p])
}

// Contains reports whether strategy i of player p is in the support.
func (s Support) Contains(p Player, i int) bool {
	k := sort.SearchInts(s.strats[p], i)
	return k < len(s.strats[p]) && s.strats[p][k] == i
}

// IsEmpty reports whether either player has no strategy in the support.
func (s Support) IsEmpty() bool {
	return len(s.strats[Player0]) == 0 || len(s.strats[Player1]) == 0
}

func (s Support) String() string {
	return fmt.Sprintf("Support{%v: %v, %v: %v}",
		Player0, s.strats[Player0], Player1, s.strats[Player1])
}
