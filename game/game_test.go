package game

import (
	"errors"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domino14/vortstelo/pool"
	"github.com/domino14/vortstelo/tilemapping"
)

func w(s string) tilemapping.Word {
	return tilemapping.FromString(s)
}

// newTestGame builds a game over a fixed bag; players are given as ids and
// their name is the id.
func newTestGame(t *testing.T, bag string, opts Options, players ...string) *Game {
	t.Helper()
	g := NewGame(pool.NewFixed(w(bag), nil), opts)
	for _, p := range players {
		_, err := g.Join(p, p)
		require.NoError(t, err)
	}
	return g
}

func drawN(t *testing.T, g *Game, n int) {
	t.Helper()
	for range n {
		_, err := g.Draw()
		require.NoError(t, err)
	}
}

func wordsOf(t *testing.T, g *Game, id string) []string {
	t.Helper()
	p, err := g.Player(id)
	require.NoError(t, err)
	out := []string{}
	for _, w := range p.Words() {
		out = append(out, w.String())
	}
	return out
}

func TestStealScenario(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t, "CATS", Options{}, "alice", "bob")
	is.Equal(g.State(), Forming)

	drawN(t, g, 4)
	is.Equal(g.State(), Active)
	is.Equal(g.Status().Center.String(), "ACST")

	res, err := g.Claim("alice", w("CAT"))
	is.NoErr(err)
	is.Equal(res.Kind, FromPool)
	is.Equal(g.Status().Center.String(), "S")

	res, err = g.Claim("bob", w("CATS"))
	is.NoErr(err)
	is.Equal(res.Kind, Steal)
	is.Equal(res.FromPlayerID, "alice")
	is.Equal(res.FromWord.String(), "CAT")
	is.Equal(res.PlayerID, "bob")
	is.Equal(res.Word.String(), "CATS")
	is.Equal(wordsOf(t, g, "alice"), []string{})
	is.Equal(wordsOf(t, g, "bob"), []string{"CATS"})
	is.Equal(g.Status().Center.String(), "")

	// Undo the steal.
	a, err := g.Undo("alice")
	is.NoErr(err)
	is.Equal(a.Type, StealWord)
	is.Equal(wordsOf(t, g, "alice"), []string{"CAT"})
	is.Equal(wordsOf(t, g, "bob"), []string{})
	is.Equal(g.Status().Center.String(), "S")
}

func TestDrawExhausted(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t, "AB", Options{}, "alice", "bob")
	drawN(t, g, 2)

	before := g.Status()
	_, err := g.Draw()
	is.True(errors.Is(err, ErrPoolExhausted))
	is.Equal(KindOf(err), StateError)
	is.Equal(g.Status(), before)
}

func TestUndoFreshGame(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t, "CATS", Options{}, "alice")

	before := g.Status()
	_, err := g.Undo("alice")
	is.True(errors.Is(err, ErrNothingToUndo))
	is.Equal(g.Status(), before)
}

func TestDrawNeedsPlayers(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t, "CATS", Options{})
	_, err := g.Draw()
	is.True(errors.Is(err, ErrNoPlayers))
	is.Equal(g.Status().Drawn, 0)
	is.Equal(g.Status().OnTurn, "")
}

func TestTurnRotation(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t, "ABCDEF", Options{}, "alice", "bob", "carol")
	is.Equal(g.PlayerOnTurn().ID, "alice")

	drawN(t, g, 1)
	is.Equal(g.PlayerOnTurn().ID, "bob")
	drawN(t, g, 2)
	is.Equal(g.PlayerOnTurn().ID, "alice")

	_, err := g.Undo("bob")
	is.NoErr(err)
	is.Equal(g.PlayerOnTurn().ID, "carol")
	is.Equal(g.Status().Drawn, 2)
}

func TestUndoFirstDrawReturnsToForming(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t, "AB", Options{}, "alice", "bob")
	drawN(t, g, 1)
	is.Equal(g.State(), Active)
	_, err := g.Undo("bob")
	is.NoErr(err)
	is.Equal(g.State(), Forming)
	is.Equal(g.PlayerOnTurn().ID, "alice")
}

func TestUndoDrawAfterLateJoin(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t, "ABCD", Options{}, "alice", "bob")
	drawN(t, g, 1) // bob's turn
	_, err := g.Join("carol", "Carol")
	is.NoErr(err)
	drawN(t, g, 1) // carol's turn
	is.Equal(g.PlayerOnTurn().ID, "carol")

	_, err = g.Undo("carol")
	is.NoErr(err)
	is.Equal(g.PlayerOnTurn().ID, "bob")
}

func TestStrictTurns(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t, "ABCD", Options{StrictTurns: true}, "alice", "bob")

	_, err := g.TakeTurn("bob")
	is.True(errors.Is(err, ErrNotYourTurn))
	is.Equal(KindOf(err), ValidationError)

	l, err := g.TakeTurn("alice")
	is.NoErr(err)
	is.Equal(l, tilemapping.Letter('A'))

	_, err = g.TakeTurn("mallory")
	is.True(errors.Is(err, ErrNotAPlayer))

	loose := newTestGame(t, "ABCD", Options{}, "alice", "bob")
	_, err = loose.TakeTurn("bob")
	is.NoErr(err)
}

func TestJoin(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t, "ABC", Options{}, "alice")

	_, err := g.Join("alice", "Alice again")
	is.True(errors.Is(err, ErrDuplicatePlayer))
	is.Equal(len(g.Players()), 1)

	drawN(t, g, 1)
	p, err := g.Join("bob", "Bob")
	is.NoErr(err)
	is.Equal(p.Name, "Bob")
	is.Equal(len(g.Players()), 2)
}

func TestClaimValidation(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t, "CATS", Options{}, "alice")
	drawN(t, g, 4)

	_, err := g.Claim("alice", nil)
	is.True(errors.Is(err, ErrEmptyWord))
	_, err = g.Claim("alice", w("AT"))
	is.True(errors.Is(err, ErrWordTooShort))
	is.Equal(KindOf(err), ValidationError)
	_, err = g.Claim("bob", w("CAT"))
	is.True(errors.Is(err, ErrNotAPlayer))

	g2 := newTestGame(t, "CATS", Options{MinWordLength: 2}, "alice")
	drawN(t, g2, 4)
	res, err := g2.Claim("alice", w("AT"))
	is.NoErr(err)
	is.Equal(res.Kind, FromPool)
}

func TestClaimNoMatchChangesNothing(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t, "CATSDOG", Options{}, "alice", "bob")
	drawN(t, g, 7)
	_, err := g.Claim("alice", w("CAT"))
	is.NoErr(err)

	before := g.Status()
	// The center holds DGOS; alice holds CAT.
	for _, word := range []string{"BIRD", "CAT", "TACT", "CODS"} {
		res, err := g.Claim("bob", w(word))
		is.NoErr(err)
		is.Equal(res.Kind, NoMatch)
		is.Equal(g.Status(), before)
	}
}

func TestStealRequiresStrictSuperset(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t, "CATSXR", Options{}, "alice", "bob")
	drawN(t, g, 6)
	_, err := g.Claim("alice", w("CAT"))
	is.NoErr(err)

	// Same length: an anagram is never a steal.
	res, err := g.Claim("bob", w("ACT"))
	is.NoErr(err)
	is.Equal(res.Kind, NoMatch)

	// CART is CAT plus the R from the center.
	res, err = g.Claim("bob", w("CART"))
	is.NoErr(err)
	is.Equal(res.Kind, Steal)

	// SCARTZ needs a Z nobody has.
	res, err = g.Claim("alice", w("SCARTZ"))
	is.NoErr(err)
	is.Equal(res.Kind, NoMatch)
}

func TestStealFirstFoundWins(t *testing.T) {
	is := is.New(t)
	// alice holds EAT, bob holds TEA and SEAT. TASTES, with SST in the
	// center, could extend any of them; alice's EAT comes first in roster
	// order.
	g := newTestGame(t, "EATTEASEATSTS", Options{}, "alice", "bob")
	drawN(t, g, 3)
	_, err := g.Claim("alice", w("EAT"))
	is.NoErr(err)
	drawN(t, g, 3)
	_, err = g.Claim("bob", w("TEA"))
	is.NoErr(err)
	drawN(t, g, 4)
	_, err = g.Claim("bob", w("SEAT"))
	is.NoErr(err)
	drawN(t, g, 3)
	is.Equal(g.Status().Center.String(), "SST")

	res, err := g.Claim("bob", w("TASTES"))
	is.NoErr(err)
	is.Equal(res.Kind, Steal)
	is.Equal(res.FromPlayerID, "alice")
	is.Equal(res.FromWord.String(), "EAT")
	is.Equal(g.Status().Center.String(), "")
	is.Equal(wordsOf(t, g, "bob"), []string{"TEA", "SEAT", "TASTES"})
}

func TestStealOwnWordAndClaimOrderScan(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t, "RATTARSS", Options{}, "alice")
	drawN(t, g, 3)
	_, err := g.Claim("alice", w("RAT"))
	is.NoErr(err)
	drawN(t, g, 3)
	_, err = g.Claim("alice", w("TAR"))
	is.NoErr(err)
	drawN(t, g, 2)

	// Both RAT and TAR fit STAR; RAT was claimed first.
	res, err := g.Claim("alice", w("STAR"))
	is.NoErr(err)
	is.Equal(res.Kind, Steal)
	is.Equal(res.FromWord.String(), "RAT")
	is.Equal(wordsOf(t, g, "alice"), []string{"TAR", "STAR"})

	// Undo puts RAT back where it was.
	_, err = g.Undo("alice")
	is.NoErr(err)
	is.Equal(wordsOf(t, g, "alice"), []string{"RAT", "TAR"})
}

func TestUndoRestoresEveryAction(t *testing.T) {
	g := newTestGame(t, "CATSDOGSEAR", Options{}, "alice", "bob", "carol")
	type step struct {
		player string
		op     string // draw, claim
		word   string
	}
	steps := []step{
		{"", "draw", ""}, {"", "draw", ""}, {"", "draw", ""},
		{"alice", "claim", "CAT"},
		{"", "draw", ""}, {"", "draw", ""}, {"", "draw", ""}, {"", "draw", ""},
		{"bob", "claim", "DOGS"},
		{"carol", "claim", "DOGS"}, // no match
		{"", "draw", ""},
		{"carol", "claim", "SCAT"}, // steals alice's CAT
		{"", "draw", ""}, {"", "draw", ""}, {"", "draw", ""},
		{"carol", "claim", "CRATES"},
	}
	for i, s := range steps {
		before := g.Status()
		histBefore := len(g.History())
		switch s.op {
		case "draw":
			_, err := g.Draw()
			require.NoError(t, err, "step %d", i)
		case "claim":
			res, err := g.Claim(s.player, w(s.word))
			require.NoError(t, err, "step %d", i)
			if res.Kind == NoMatch {
				assert.Equal(t, before, g.Status(), "step %d", i)
				assert.Equal(t, histBefore, len(g.History()))
				continue
			}
		}
		after := g.Status()
		assertConserved(t, g)

		_, err := g.Undo("alice")
		require.NoError(t, err, "step %d", i)
		assert.Equal(t, before, g.Status(), "undo of step %d", i)
		assertConserved(t, g)

		// Replay the step to move on.
		switch s.op {
		case "draw":
			_, err = g.Draw()
		case "claim":
			_, err = g.Claim(s.player, w(s.word))
		}
		require.NoError(t, err)
		assert.Equal(t, after, g.Status(), "replay of step %d", i)
	}
	assert.Equal(t, []string{"CRATES"}, wordsOf(t, g, "carol"))
	assert.Equal(t, []string{}, wordsOf(t, g, "alice"))

	// Unwind everything.
	for {
		_, err := g.Undo("bob")
		if errors.Is(err, ErrNothingToUndo) {
			break
		}
		require.NoError(t, err)
		assertConserved(t, g)
	}
	st := g.Status()
	assert.Equal(t, 0, st.Drawn)
	assert.Equal(t, "", st.Center.String())
	assert.Equal(t, "alice", st.OnTurn)
	assert.Equal(t, Forming.String(), st.State)
}

// assertConserved checks that every drawn letter is either in the center
// or in somebody's word.
func assertConserved(t *testing.T, g *Game) {
	t.Helper()
	st := g.Status()
	held := 0
	for _, p := range g.Players() {
		held += p.NumLetters()
	}
	assert.Equal(t, st.Drawn, len(st.Center)+held)
	assert.Equal(t, g.pool.Size()-st.Remaining, st.Drawn)
}

func TestEndAndScoring(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t, "CATDOGSHOEPIN", Options{}, "alice", "bob", "carol")
	drawN(t, g, 13)
	for _, c := range []struct{ p, w string }{
		{"alice", "CAT"}, {"bob", "DOGS"}, {"bob", "HOE"}, {"carol", "PIN"},
	} {
		res, err := g.Claim(c.p, w(c.w))
		is.NoErr(err)
		is.Equal(res.Kind, FromPool)
	}

	histLen := len(g.History())
	_ = g.Score()
	is.Equal(len(g.History()), histLen)
	is.Equal(g.State(), Active)

	sb, err := g.End()
	is.NoErr(err)
	is.Equal(g.State(), Concluded)
	is.Equal(sb.Winner().PlayerID, "bob")
	is.Equal(sb.Winner().WordCount, 2)
	is.Equal(sb.Winner().LetterCount, 7)
	is.Equal(sb.Winner().Words, []string{"DOGS", "HOE"})
	is.True(!sb.Tie) // alice and carol tie for second, but bob is clear
	is.Equal(sb.Entries[1].PlayerID, "alice")
	is.Equal(sb.Entries[2].PlayerID, "carol")

	_, err = g.End()
	is.True(errors.Is(err, ErrGameOver))
	_, err = g.Draw()
	is.True(errors.Is(err, ErrGameOver))
	_, err = g.Claim("alice", w("DOG"))
	is.True(errors.Is(err, ErrGameOver))
	_, err = g.Undo("alice")
	is.True(errors.Is(err, ErrGameOver))
	_, err = g.Join("dave", "Dave")
	is.True(errors.Is(err, ErrGameOver))
}

func TestScoreboardTie(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t, "CATDOG", Options{}, "alice", "bob")
	drawN(t, g, 6)
	_, err := g.Claim("bob", w("DOG"))
	is.NoErr(err)
	_, err = g.Claim("alice", w("CAT"))
	is.NoErr(err)

	sb := g.Score()
	is.True(sb.Tie)
	is.Equal(sb.Winner().PlayerID, "alice") // first in join order

	empty := newTestGame(t, "CAT", Options{})
	sb = empty.Score()
	is.True(sb.Winner() == nil)
	is.True(!sb.Tie)
}

func TestScoreboardLetterCountBreaksWordTie(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t, "CATDOGS", Options{}, "alice", "bob")
	drawN(t, g, 7)
	_, err := g.Claim("alice", w("CAT"))
	is.NoErr(err)
	_, err = g.Claim("bob", w("DOGS"))
	is.NoErr(err)
	sb := g.Score()
	is.True(!sb.Tie)
	is.Equal(sb.Winner().PlayerID, "bob")
}

func TestTouch(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t, "CAT", Options{})
	is.True(g.LastActivity().IsZero())
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	g.Touch(now)
	is.Equal(g.LastActivity(), now)
}

func TestStatusIsDetached(t *testing.T) {
	is := is.New(t)
	g := newTestGame(t, "CATS", Options{}, "alice")
	drawN(t, g, 4)
	_, err := g.Claim("alice", w("CAT"))
	is.NoErr(err)

	st := g.Status()
	st.Players[0].Words[0][0] = 'B'
	st.Center[0] = 'Z'
	is.Equal(wordsOf(t, g, "alice"), []string{"CAT"})
	is.Equal(g.Status().Center.String(), "S")
}
