package game

import (
	"sort"

	"github.com/samber/lo"

	"github.com/domino14/vortstelo/tilemapping"
)

// ScoreEntry is one line of the final standings.
type ScoreEntry struct {
	PlayerID    string   `json:"player_id" yaml:"player_id"`
	Name        string   `json:"name" yaml:"name"`
	WordCount   int      `json:"word_count" yaml:"word_count"`
	LetterCount int      `json:"letter_count" yaml:"letter_count"`
	Words       []string `json:"words" yaml:"words"`
}

func (e ScoreEntry) beats(o ScoreEntry) bool {
	if e.WordCount != o.WordCount {
		return e.WordCount > o.WordCount
	}
	return e.LetterCount > o.LetterCount
}

// Scoreboard ranks players by word count, then letter count. Players
// who tie keep their join order; the first of them is the winner, and Tie
// is set.
type Scoreboard struct {
	Entries []ScoreEntry `json:"entries" yaml:"entries"`
	Tie     bool         `json:"tie" yaml:"tie"`
}

// Winner returns the top entry, or nil if nobody played.
func (s *Scoreboard) Winner() *ScoreEntry {
	if len(s.Entries) == 0 {
		return nil
	}
	return &s.Entries[0]
}

// Score computes the standings without changing the game.
func (g *Game) Score() *Scoreboard {
	entries := lo.Map(g.players, func(p *Player, _ int) ScoreEntry {
		return ScoreEntry{
			PlayerID:    p.ID,
			Name:        p.Name,
			WordCount:   p.NumWords(),
			LetterCount: p.NumLetters(),
			Words:       lo.Map(p.words, func(w tilemapping.Word, _ int) string { return w.String() }),
		}
	})
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].beats(entries[j])
	})
	sb := &Scoreboard{Entries: entries}
	if len(entries) > 1 && !entries[0].beats(entries[1]) {
		sb.Tie = true
	}
	return sb
}
