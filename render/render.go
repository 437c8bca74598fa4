// Package render turns game results into chat messages. All output is
// Telegram HTML; anything a player typed is escaped.
package render

import (
	"errors"
	"fmt"
	"html"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/domino14/vortstelo/command"
	"github.com/domino14/vortstelo/game"
	"github.com/domino14/vortstelo/tilemapping"
)

func esc(s fmt.Stringer) string {
	return html.EscapeString(s.String())
}

func bold(s string) string {
	return "<b>" + html.EscapeString(s) + "</b>"
}

// Status lists the center and every player's words.
func Status(st game.Status) string {
	var sb strings.Builder
	sb.WriteString("Center: ")
	if len(st.Center) == 0 {
		sb.WriteString("(empty)")
	} else {
		sb.WriteString("<code>")
		sb.WriteString(html.EscapeString(spaced(st.Center)))
		sb.WriteString("</code>")
	}
	fmt.Fprintf(&sb, "\nLetters left: %d\n", st.Remaining)

	for _, p := range st.Players {
		sb.WriteString("\n")
		sb.WriteString(bold(p.Name))
		if p.OnTurn {
			sb.WriteString(" (to draw)")
		}
		sb.WriteString("\n")
		if len(p.Words) == 0 {
			sb.WriteString("(no words)")
		} else {
			words := lo.Map(p.Words, func(w tilemapping.Word, _ int) string { return w.String() })
			sb.WriteString(html.EscapeString(strings.Join(words, ", ")))
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func spaced(w tilemapping.Word) string {
	return strings.Join(lo.Map(w, func(l tilemapping.Letter, _ int) string { return l.String() }), " ")
}

func Started(name string, st game.Status) string {
	return fmt.Sprintf("%s started a new game.\n\n%s", bold(name), Status(st))
}

func Joined(name string, st game.Status) string {
	return fmt.Sprintf("%s joined the game.\n\n%s", bold(name), Status(st))
}

func Drew(l tilemapping.Letter, st game.Status) string {
	return fmt.Sprintf("New letter: <b>%s</b>\n\n%s", esc(l), Status(st))
}

// Claim describes a claim result. A NoMatch result gets a short refusal
// without the status.
func Claim(res game.ClaimResult, st game.Status) string {
	switch res.Kind {
	case game.FromPool:
		return fmt.Sprintf("%s took %s from the center.\n\n%s",
			bold(res.PlayerName), bold(res.Word.String()), Status(st))
	case game.Steal:
		return fmt.Sprintf("%s stole %s from %s to make %s!\n\n%s",
			bold(res.PlayerName), bold(res.FromWord.String()), bold(res.FromPlayerName),
			bold(res.Word.String()), Status(st))
	}
	return fmt.Sprintf("%s can't be made from the center or any word.", bold(res.Word.String()))
}

// Undone describes a reversed action. Player names are looked up in st.
func Undone(a game.Action, st game.Status) string {
	name := func(id string) string {
		for _, p := range st.Players {
			if p.ID == id {
				return p.Name
			}
		}
		return id
	}
	var what string
	switch a.Type {
	case game.DrawTile:
		what = fmt.Sprintf("Put <b>%s</b> back in the bag.", esc(a.Letter))
	case game.ClaimFromPool:
		what = fmt.Sprintf("Returned %s from %s to the center.", bold(a.Word.String()), bold(name(a.Player)))
	case game.StealWord:
		what = fmt.Sprintf("Gave %s back to %s; %s no longer has %s.",
			bold(a.FromWord.String()), bold(name(a.FromPlayer)), bold(name(a.Player)), bold(a.Word.String()))
	default:
		what = "Undid " + html.EscapeString(a.String()) + "."
	}
	return what + "\n\n" + Status(st)
}

// Reason says why a game ended.
type Reason string

const (
	ReasonEnded Reason = "ended"
	ReasonIdle  Reason = "idle"
)

// GameOver announces the final standings.
func GameOver(sb *game.Scoreboard, reason Reason) string {
	var b strings.Builder
	if reason == ReasonIdle {
		b.WriteString("The game ended after a period of inactivity.\n\n")
	} else {
		b.WriteString("The game is over.\n\n")
	}
	w := sb.Winner()
	switch {
	case w == nil:
		b.WriteString("Nobody played.")
		return b.String()
	case sb.Tie:
		b.WriteString("It's a tie!\n")
	default:
		fmt.Fprintf(&b, "%s wins!\n", bold(w.Name))
	}
	for i, e := range sb.Entries {
		fmt.Fprintf(&b, "\n%d. %s: %d words, %d letters", i+1, bold(e.Name), e.WordCount, e.LetterCount)
		if len(e.Words) > 0 {
			b.WriteString("\n")
			b.WriteString(html.EscapeString(strings.Join(e.Words, ", ")))
		}
	}
	return b.String()
}

var helpText = map[command.Name]string{
	command.Start:  "start a new game and join it",
	command.Join:   "join the game",
	command.Draw:   "turn over a letter",
	command.Claim:  "claim a word: /claim WORD",
	command.Undo:   "undo the last action",
	command.End:    "end the game and show the scores",
	command.Status: "show the center and everyone's words",
	command.Help:   "show this message",
}

// Help lists the commands and their aliases.
func Help() string {
	var b strings.Builder
	b.WriteString("Commands:\n")
	for _, n := range command.Names {
		fmt.Fprintf(&b, "/%s", n)
		for _, a := range sortedAliases(n) {
			fmt.Fprintf(&b, ", /%s", html.EscapeString(a))
		}
		fmt.Fprintf(&b, " - %s\n", html.EscapeString(helpText[n]))
	}
	b.WriteString("\nAnyone in the game may claim a word at any time, in the x-system if you like (cx for ĉ).")
	return b.String()
}

func sortedAliases(n command.Name) []string {
	as := command.Aliases(n)
	// Pure-ASCII spellings first, then by name.
	slices.SortFunc(as, func(a, b string) int {
		if isASCII(a) != isASCII(b) {
			if isASCII(a) {
				return -1
			}
			return 1
		}
		return strings.Compare(a, b)
	})
	return as
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// Error explains a failed command to the player. Errors that aren't the
// player's doing get a generic message.
func Error(err error) string {
	var ge *game.Error
	if !errors.As(err, &ge) {
		return "Something went wrong, please try again."
	}
	msg := err.Error()
	return html.EscapeString(strings.ToUpper(msg[:1]) + msg[1:] + ".")
}
