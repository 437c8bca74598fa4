package game

import (
	"github.com/samber/lo"

	"github.com/domino14/vortstelo/tilemapping"
)

type PlayerStatus struct {
	ID     string             `json:"id" yaml:"id"`
	Name   string             `json:"name" yaml:"name"`
	Words  []tilemapping.Word `json:"words" yaml:"words"`
	OnTurn bool               `json:"on_turn" yaml:"on_turn"`
}

// Status is a snapshot of everything a player can see.
type Status struct {
	GameID    string           `json:"game_id" yaml:"game_id"`
	State     string           `json:"state" yaml:"state"`
	Center    tilemapping.Word `json:"center" yaml:"center"`
	Remaining int              `json:"remaining" yaml:"remaining"`
	Drawn     int              `json:"drawn" yaml:"drawn"`
	Players   []PlayerStatus   `json:"players" yaml:"players"`
	Undoable  int              `json:"undoable" yaml:"undoable"`

	// OnTurn is the id of the player who draws next, empty without players.
	OnTurn string `json:"on_turn" yaml:"on_turn"`
}

// Status returns a snapshot of the game. It shares nothing with the game.
func (g *Game) Status() Status {
	st := Status{
		GameID:    g.id,
		State:     g.state.String(),
		Center:    g.pool.Center(),
		Remaining: g.pool.Remaining(),
		Drawn:     g.pool.Drawn(),
		Undoable:  len(g.history),
	}
	if p := g.playerOnTurn(); p != nil {
		st.OnTurn = p.ID
	}
	st.Players = lo.Map(g.players, func(p *Player, _ int) PlayerStatus {
		return PlayerStatus{
			ID:     p.ID,
			Name:   p.Name,
			Words:  p.Words(),
			OnTurn: p.ID == st.OnTurn,
		}
	})
	return st
}
