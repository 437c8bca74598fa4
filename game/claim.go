package game

import (
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/domino14/vortstelo/pool"
	"github.com/domino14/vortstelo/tilemapping"
)

type ClaimKind int

const (
	NoMatch ClaimKind = iota
	FromPool
	Steal
)

func (k ClaimKind) String() string {
	switch k {
	case FromPool:
		return "from-pool"
	case Steal:
		return "steal"
	}
	return "no-match"
}

// ClaimResult describes what a claim did. The From fields are only set for
// steals.
type ClaimResult struct {
	Kind       ClaimKind
	PlayerID   string
	PlayerName string
	Word       tilemapping.Word

	FromPlayerID   string
	FromPlayerName string
	FromWord       tilemapping.Word
}

// Claim tries to give word to the player, first straight from the center,
// then by extending a word someone holds. A claim that can't be made
// returns a NoMatch result and changes nothing.
func (g *Game) Claim(playerID string, word tilemapping.Word) (ClaimResult, error) {
	if g.state == Concluded {
		return ClaimResult{}, ErrGameOver
	}
	p, err := g.get(playerID)
	if err != nil {
		return ClaimResult{}, err
	}
	if len(word) == 0 {
		return ClaimResult{}, ErrEmptyWord
	}
	if len(word) < g.opts.MinWordLength {
		return ClaimResult{}, fmt.Errorf("%w: need at least %d letters", ErrWordTooShort, g.opts.MinWordLength)
	}
	return g.resolveClaim(p, word.Copy()), nil
}

func (g *Game) resolveClaim(p *Player, word tilemapping.Word) ClaimResult {
	res := ClaimResult{Kind: NoMatch, PlayerID: p.ID, PlayerName: p.Name, Word: word.Copy()}

	if len(g.pool.Missing(word)) == 0 {
		// Can't fail; Missing just said so.
		_ = g.pool.Take(word)
		p.addWord(word)
		g.pushAction(Action{Type: ClaimFromPool, Player: p.ID, Word: word})
		res.Kind = FromPool
		log.Debug().Str("game", g.id).Str("player", p.ID).Stringer("word", word).Msg("claimed")
		return res
	}

	// The first steal found in roster order, then claim order, wins, even
	// if a later one would be longer.
	for _, victim := range g.players {
		for idx, other := range victim.words {
			extra, ok := stealExtra(word, other)
			if !ok || len(g.pool.Missing(extra)) > 0 {
				continue
			}
			_ = g.pool.Take(extra)
			victim.words = slices.Delete(victim.words, idx, idx+1)
			p.addWord(word)
			g.pushAction(Action{
				Type:       StealWord,
				FromPlayer: victim.ID,
				FromWord:   other,
				FromIndex:  idx,
				Player:     p.ID,
				Word:       word,
			})
			res.Kind = Steal
			res.FromPlayerID = victim.ID
			res.FromPlayerName = victim.Name
			res.FromWord = other.Copy()
			log.Debug().Str("game", g.id).Str("thief", p.ID).Str("victim", victim.ID).
				Stringer("from", other).Stringer("word", word).Msg("stole")
			return res
		}
	}
	return res
}

// stealExtra returns the letters word adds to other, if word is strictly
// longer and contains every letter of other.
func stealExtra(word, other tilemapping.Word) (tilemapping.Word, bool) {
	if len(other) >= len(word) {
		return nil, false
	}
	extra := pool.Subtract(word, other)
	return extra, len(extra) == len(word)-len(other)
}
