package game

import (
	"slices"

	"github.com/samber/lo"

	"github.com/domino14/vortstelo/tilemapping"
)

// A Player is someone who joined a game, with the words they hold.
type Player struct {
	ID   string
	Name string

	// in the order they were claimed
	words []tilemapping.Word
}

// Words returns copies of the player's words, in claim order.
func (p *Player) Words() []tilemapping.Word {
	return lo.Map(p.words, func(w tilemapping.Word, _ int) tilemapping.Word {
		return w.Copy()
	})
}

func (p *Player) NumWords() int {
	return len(p.words)
}

func (p *Player) NumLetters() int {
	return lo.SumBy(p.words, func(w tilemapping.Word) int { return len(w) })
}

func (p *Player) addWord(w tilemapping.Word) {
	p.words = append(p.words, w.Copy())
}

func (p *Player) insertWord(idx int, w tilemapping.Word) {
	idx = max(0, min(idx, len(p.words)))
	p.words = slices.Insert(p.words, idx, w.Copy())
}

// removeWord removes the most recently claimed copy of w, returning its
// position, or -1 if the player does not hold w.
func (p *Player) removeWord(w tilemapping.Word) int {
	for i := len(p.words) - 1; i >= 0; i-- {
		if p.words[i].Equal(w) {
			p.words = slices.Delete(p.words, i, i+1)
			return i
		}
	}
	return -1
}

// roster is the players in join order, and whose turn it is.
type roster struct {
	players []*Player
	byID    map[string]*Player
	onturn  int
}

func newRoster() roster {
	return roster{byID: map[string]*Player{}}
}

func (r *roster) add(id, name string) (*Player, error) {
	if _, ok := r.byID[id]; ok {
		return nil, ErrDuplicatePlayer
	}
	p := &Player{ID: id, Name: name}
	r.players = append(r.players, p)
	r.byID[id] = p
	return p, nil
}

func (r *roster) get(id string) (*Player, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, ErrNotAPlayer
	}
	return p, nil
}

func (r *roster) advance() {
	r.onturn = (r.onturn + 1) % len(r.players)
}

// playerOnTurn is nil for an empty roster.
func (r *roster) playerOnTurn() *Player {
	if len(r.players) == 0 {
		return nil
	}
	return r.players[r.onturn]
}
