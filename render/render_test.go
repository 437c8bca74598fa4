package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/vortstelo/game"
	"github.com/domino14/vortstelo/testhelpers"
	"github.com/domino14/vortstelo/tilemapping"
)

func TestStatusEscapesNames(t *testing.T) {
	is := is.New(t)
	g := testhelpers.FixedGame("CATS", game.Options{}, "1:<Bob & co>", "2:alice")
	for range 3 {
		_, err := g.Draw()
		is.NoErr(err)
	}
	_, err := g.Claim("2", tilemapping.FromString("CAT"))
	is.NoErr(err)

	out := Status(g.Status())
	is.Equal(out, "Center: (empty)\nLetters left: 1\n\n"+
		"<b>&lt;Bob &amp; co&gt;</b>\n(no words)\n\n"+
		"<b>alice</b> (to draw)\nCAT")
}

func TestClaimMessages(t *testing.T) {
	is := is.New(t)
	g := testhelpers.FixedGame("CATS", game.Options{}, "1:alice", "2:bob")
	for range 4 {
		_, err := g.Draw()
		is.NoErr(err)
	}
	res, err := g.Claim("1", tilemapping.FromString("CAT"))
	is.NoErr(err)
	is.True(strings.HasPrefix(Claim(res, g.Status()), "<b>alice</b> took <b>CAT</b> from the center.\n\nCenter: <code>S</code>"))

	res, err = g.Claim("2", tilemapping.FromString("CATS"))
	is.NoErr(err)
	is.Equal(res.Kind, game.Steal)
	msg := Claim(res, g.Status())
	is.True(strings.HasPrefix(msg, "<b>bob</b> stole <b>CAT</b> from <b>alice</b> to make <b>CATS</b>!\n\n"))

	res, err = g.Claim("1", tilemapping.FromString("DOG"))
	is.NoErr(err)
	is.Equal(Claim(res, g.Status()), "<b>DOG</b> can't be made from the center or any word.")
}

func TestUndone(t *testing.T) {
	is := is.New(t)
	g := testhelpers.FixedGame("CATS", game.Options{}, "1:alice", "2:bob")
	for range 4 {
		_, err := g.Draw()
		is.NoErr(err)
	}
	_, err := g.Claim("1", tilemapping.FromString("CAT"))
	is.NoErr(err)
	_, err = g.Claim("2", tilemapping.FromString("CATS"))
	is.NoErr(err)

	a, err := g.Undo("1")
	is.NoErr(err)
	msg := Undone(a, g.Status())
	is.True(strings.HasPrefix(msg, "Gave <b>CAT</b> back to <b>alice</b>; <b>bob</b> no longer has <b>CATS</b>.\n\n"))

	_, err = g.Undo("1")
	is.NoErr(err)
	a, err = g.Undo("1")
	is.NoErr(err)
	is.True(strings.HasPrefix(Undone(a, g.Status()), "Put <b>S</b> back in the bag.\n\nCenter: <code>A C T</code>"))
}

func TestGameOver(t *testing.T) {
	is := is.New(t)
	sb := &game.Scoreboard{Entries: []game.ScoreEntry{
		{Name: "bob", WordCount: 2, LetterCount: 7, Words: []string{"CATS", "DOG"}},
		{Name: "alice", WordCount: 0, LetterCount: 0},
	}}
	is.Equal(GameOver(sb, ReasonEnded), "The game is over.\n\n<b>bob</b> wins!\n"+
		"\n1. <b>bob</b>: 2 words, 7 letters\nCATS, DOG"+
		"\n2. <b>alice</b>: 0 words, 0 letters")

	sb.Tie = true
	sb.Entries[1].WordCount = 2
	sb.Entries[1].LetterCount = 7
	out := GameOver(sb, ReasonIdle)
	is.True(strings.HasPrefix(out, "The game ended after a period of inactivity.\n\nIt's a tie!\n\n1. <b>bob</b>"))

	is.Equal(GameOver(&game.Scoreboard{}, ReasonEnded), "The game is over.\n\nNobody played.")
}

func TestError(t *testing.T) {
	is := is.New(t)
	is.Equal(Error(game.ErrNotAPlayer), "Not a player in this game.")
	is.Equal(Error(fmt.Errorf("%w: need at least 3 letters", game.ErrWordTooShort)),
		"Word is too short: need at least 3 letters.")
	is.Equal(Error(fmt.Errorf("dial tcp: refused")), "Something went wrong, please try again.")
}

func TestHelpListsAliases(t *testing.T) {
	is := is.New(t)
	h := Help()
	is.True(strings.HasPrefix(h, "Commands:\n/start, /komenci - start a new game and join it\n"))
	is.True(strings.Contains(h, "\n/join, /aligxi, /aliĝi - join the game\n"))
}
