package game

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/timpalpant/lemke/scalar"
)

// File is the YAML representation of a game:
//
//	title: Battle of the sexes
//	players: [Alice, Bob]
//	strategies:
//	  - [Opera, Football]
//	  - [Opera, Football]
//	payoffs:
//	  - [[3, 0], [0, 2]]
//	  - [[2, 0], [0, 3]]
//
// Payoffs may be integers, decimals or fractions such as 3/5. They are
// parsed by the field the game is loaded into, so that fractions stay
// exact in a rational game.
type File struct {
	Title      string               `yaml:"title,omitempty"`
	Players    []string             `yaml:"players,omitempty"`
	Strategies [][]string           `yaml:"strategies,omitempty"`
	Payoffs    [][][]scalar.Literal `yaml:"payoffs"`
}

// Load reads a YAML game file into the field f and validates it.
func Load[T any](r io.Reader, f scalar.Field[T]) (*Game[T], error) {
	var file File
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, errors.Wrap(err, "decoding game file")
	}
	return FromFile(&file, f)
}

// FromFile converts a decoded game file into a validated game over f.
func FromFile[T any](file *File, f scalar.Field[T]) (*Game[T], error) {
	tables := make([][][]T, len(file.Payoffs))
	for p, table := range file.Payoffs {
		tables[p] = make([][]T, len(table))
		for i, row := range table {
			values, err := scalar.ParseAll(f, row)
			if err != nil {
				return nil, errors.Wrapf(err, "player %v payoffs row %d", Player(p), i)
			}
			tables[p][i] = values
		}
	}

	g := New(f, tables...)
	g.SetTitle(file.Title)
	if len(file.Players) > 0 {
		if len(file.Players) != g.NumPlayers() {
			return nil, errors.Errorf("%d player names for %d players",
				len(file.Players), g.NumPlayers())
		}
		for p, name := range file.Players {
			g.SetPlayerName(Player(p), name)
		}
	}
	if len(file.Strategies) > 0 {
		if len(file.Strategies) != g.NumPlayers() {
			return nil, errors.Errorf("strategy names for %d players, expected %d",
				len(file.Strategies), g.NumPlayers())
		}
		for p, names := range file.Strategies {
			g.SetStrategyNames(Player(p), names)
		}
	}

	if err := g.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid game")
	}
	return g, nil
}
