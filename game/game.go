// Package game describes two-player games in strategic form: the payoff
// tables, restrictions of a game to a subset of strategies, and mixed
// strategy profiles.
package game

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/timpalpant/lemke/scalar"
)

// Player represents the identity of a player in the game.
type Player uint8

const (
	Player0 Player = iota
	Player1
)

var playerStr = [...]string{
	"Player0",
	"Player1",
}

func (p Player) String() string {
	if int(p) < len(playerStr) {
		return playerStr[p]
	}
	return fmt.Sprintf("Player%d", p)
}

// Other returns the opponent of p.
func (p Player) Other() Player {
	return 1 - p
}

// Game is a strategic-form game over the field T.
//
// payoffs[p][i][j] is the payoff to player p when Player0 plays strategy
// i and Player1 plays strategy j. Only games with exactly two payoff
// tables are valid.
type Game[T any] struct {
	f          scalar.Field[T]
	title      string
	players    []string
	strategies [][]string
	payoffs    [][][]T
}

// New returns a game with one payoff table per player. Call Validate
// before use: New does not check the shape of the tables.
func New[T any](f scalar.Field[T], payoffs ...[][]T) *Game[T] {
	g := &Game[T]{f: f, payoffs: payoffs}
	g.players = make([]string, len(payoffs))
	for p := range g.players {
		g.players[p] = Player(p).String()
	}
	g.strategies = make([][]string, len(payoffs))
	if len(payoffs) > 0 {
		n0, n1 := len(payoffs[0]), 0
		if n0 > 0 {
			n1 = len(payoffs[0][0])
		}
		for p := range g.strategies {
			n := n0
			if p == 1 {
				n = n1
			}
			g.strategies[p] = defaultNames(n)
		}
	}
	return g
}

// NewFromFloats converts float64 payoff tables into the field T.
func NewFromFloats[T any](f scalar.Field[T], payoffs ...[][]float64) *Game[T] {
	tables := make([][][]T, len(payoffs))
	for p, m := range payoffs {
		tables[p] = scalar.Matrix(f, m)
	}
	return New(f, tables...)
}

func defaultNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("%d", i+1)
	}
	return names
}

// Validate checks that the game has two players and that both payoff
// tables are rectangular with the same, non-empty, dimensions.
func (g *Game[T]) Validate() error {
	if g.NumPlayers() != 2 {
		return fmt.Errorf("game has %d players, expected 2", g.NumPlayers())
	}

	n0 := len(g.payoffs[Player0])
	if n0 == 0 {
		return fmt.Errorf("player %v has no strategies", Player0)
	}
	n1 := len(g.payoffs[Player0][0])
	if n1 == 0 {
		return fmt.Errorf("player %v has no strategies", Player1)
	}

	for p, table := range g.payoffs {
		if err := validateTable(table, n0, n1); err != nil {
			return errors.Wrapf(err, "player %v payoffs invalid", Player(p))
		}
		if len(g.strategies[p]) != g.NumStrats(Player(p)) {
			return fmt.Errorf("player %v has %d strategy names for %d strategies",
				Player(p), len(g.strategies[p]), g.NumStrats(Player(p)))
		}
	}

	return nil
}

func validateTable[T any](table [][]T, n0, n1 int) error {
	if len(table) != n0 {
		return fmt.Errorf("%d rows, expected %d", len(table), n0)
	}
	for i, row := range table {
		if len(row) != n1 {
			return fmt.Errorf("row %d has %d columns, expected %d", i, len(row), n1)
		}
	}
	return nil
}

func (g *Game[T]) Field() scalar.Field[T] {
	return g.f
}

func (g *Game[T]) Title() string {
	return g.title
}

func (g *Game[T]) SetTitle(title string) {
	g.title = title
}

func (g *Game[T]) NumPlayers() int {
	return len(g.payoffs)
}

// NumStrats returns the number of strategies of player p.
func (g *Game[T]) NumStrats(p Player) int {
	switch {
	case len(g.payoffs) == 0:
		return 0
	case p == Player0:
		return len(g.payoffs[0])
	case len(g.payoffs[0]) == 0:
		return 0
	default:
		return len(g.payoffs[0][0])
	}
}

// Payoff returns the payoff to player p when Player0 plays i and Player1
// plays j.
func (g *Game[T]) Payoff(p Player, i, j int) T {
	return g.payoffs[p][i][j]
}

func (g *Game[T]) PlayerName(p Player) string {
	return g.players[p]
}

// SetPlayerName renames player p.
func (g *Game[T]) SetPlayerName(p Player, name string) {
	g.players[p] = name
}

func (g *Game[T]) StrategyName(p Player, s int) string {
	return g.strategies[p][s]
}

// SetStrategyNames renames the strategies of player p.
func (g *Game[T]) SetStrategyNames(p Player, names []string) {
	g.strategies[p] = names
}

// MinPayoff returns the smallest payoff to any player in the game.
func (g *Game[T]) MinPayoff() T {
	return g.extremePayoff(-1)
}

// MaxPayoff returns the largest payoff to any player in the game.
func (g *Game[T]) MaxPayoff() T {
	return g.extremePayoff(1)
}

func (g *Game[T]) extremePayoff(sign int) T {
	first := true
	var best T
	for _, table := range g.payoffs {
		for _, row := range table {
			for _, x := range row {
				if first || g.f.Cmp(x, best) == sign {
					best, first = x, false
				}
			}
		}
	}
	if first {
		return g.f.Zero()
	}
	return best
}

// ValidateSupport checks that every strategy of s exists in g.
func (g *Game[T]) ValidateSupport(s Support) error {
	for p := Player0; p <= Player1; p++ {
		n := g.NumStrats(p)
		for _, i := range s.Strategies(p) {
			if i < 0 || i >= n {
				return errors.Errorf("support has strategy %d of %v, which has %d strategies", i, p, n)
			}
		}
	}
	return nil
}
