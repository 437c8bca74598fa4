// Package testhelpers builds deterministic games for tests outside the
// game package.
package testhelpers

import (
	"strings"

	"github.com/domino14/vortstelo/config"
	"github.com/domino14/vortstelo/game"
	"github.com/domino14/vortstelo/pool"
	"github.com/domino14/vortstelo/tilemapping"
)

var DefaultConfig = config.DefaultConfig()

func EsperantoDistribution() *tilemapping.LetterDistribution {
	ld, err := tilemapping.NamedLetterDistribution(tilemapping.EsperantoDistribution)
	if err != nil {
		panic(err)
	}
	return ld
}

// FixedGame returns a game that draws the letters of bag in order. Players
// are given as "id" or "id:name", and join in the order given.
func FixedGame(bag string, opts game.Options, players ...string) *game.Game {
	g := game.NewGame(pool.NewFixed(tilemapping.FromString(bag), nil), opts)
	for _, p := range players {
		id, name, ok := strings.Cut(p, ":")
		if !ok {
			name = id
		}
		if _, err := g.Join(id, name); err != nil {
			panic(err)
		}
	}
	return g
}
