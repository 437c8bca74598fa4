package game

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/vortstelo/pool"
	"github.com/domino14/vortstelo/tilemapping"
)

// ActionType enumerates the reversible actions.
type ActionType int

const (
	DrawTile ActionType = iota + 1
	ClaimFromPool
	StealWord
)

func (t ActionType) String() string {
	switch t {
	case DrawTile:
		return "draw"
	case ClaimFromPool:
		return "claim"
	case StealWord:
		return "steal"
	}
	return fmt.Sprintf("ActionType(%d)", int(t))
}

// An Action records one successful mutation, with enough detail to
// reverse it exactly. Which fields are set depends on Type:
//
//	DrawTile:      Letter, PrevTurn
//	ClaimFromPool: Player, Word
//	StealWord:     FromPlayer, FromWord, FromIndex, Player, Word
type Action struct {
	Type ActionType

	Letter   tilemapping.Letter
	PrevTurn int

	Player string
	Word   tilemapping.Word

	FromPlayer string
	FromWord   tilemapping.Word
	FromIndex  int
}

func (a Action) String() string {
	switch a.Type {
	case DrawTile:
		return fmt.Sprintf("draw %v", a.Letter)
	case ClaimFromPool:
		return fmt.Sprintf("%v claims %v", a.Player, a.Word)
	case StealWord:
		return fmt.Sprintf("%v steals %v from %v as %v", a.Player, a.FromWord, a.FromPlayer, a.Word)
	}
	return a.Type.String()
}

func (g *Game) pushAction(a Action) {
	g.history = append(g.history, a)
}

// History returns the actions that can still be undone, oldest first.
func (g *Game) History() []Action {
	h := make([]Action, len(g.history))
	copy(h, g.history)
	return h
}

// Undo reverses the most recent action. Any player may undo anyone's
// action. The reversed action is returned.
func (g *Game) Undo(playerID string) (Action, error) {
	if g.state == Concluded {
		return Action{}, ErrGameOver
	}
	if _, err := g.get(playerID); err != nil {
		return Action{}, err
	}
	if len(g.history) == 0 {
		return Action{}, ErrNothingToUndo
	}
	last := g.history[len(g.history)-1]
	if err := g.reverse(last); err != nil {
		return Action{}, err
	}
	g.history = g.history[:len(g.history)-1]
	log.Debug().Str("game", g.id).Str("by", playerID).Stringer("action", last).Msg("undo")
	return last, nil
}

// reverse applies the exact inverse of a. Consistency is checked before
// anything changes, so a failed reverse leaves the game untouched.
func (g *Game) reverse(a Action) error {
	switch a.Type {
	case DrawTile:
		if err := g.pool.Undraw(a.Letter); err != nil {
			return fmt.Errorf("undo draw: %w", err)
		}
		g.onturn = a.PrevTurn
		if g.pool.Drawn() == 0 {
			g.state = Forming
		}
		return nil

	case ClaimFromPool:
		p, err := g.get(a.Player)
		if err != nil {
			return err
		}
		if p.removeWord(a.Word) < 0 {
			return fmt.Errorf("undo claim: %v does not hold %v", p.ID, a.Word)
		}
		g.pool.Return(a.Word)
		return nil

	case StealWord:
		thief, err := g.get(a.Player)
		if err != nil {
			return err
		}
		victim, err := g.get(a.FromPlayer)
		if err != nil {
			return err
		}
		if thief.removeWord(a.Word) < 0 {
			return fmt.Errorf("undo steal: %v does not hold %v", thief.ID, a.Word)
		}
		victim.insertWord(a.FromIndex, a.FromWord)
		g.pool.Return(pool.Subtract(a.Word, a.FromWord))
		return nil
	}
	return fmt.Errorf("unhandled action type %v", a.Type)
}
