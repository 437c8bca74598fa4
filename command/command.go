// Package command pulls a bot command and its argument out of a chat
// message.
package command

import (
	"strings"
	"unicode/utf16"
)

type Name string

const (
	Start  Name = "start"
	Join   Name = "join"
	Draw   Name = "draw"
	Claim  Name = "claim"
	Undo   Name = "undo"
	End    Name = "end"
	Status Name = "status"
	Help   Name = "help"
)

// Names lists the commands in the order help shows them.
var Names = []Name{Start, Join, Draw, Claim, Undo, End, Status, Help}

var aliases = map[string]Name{
	"start": Start, "komenci": Start,
	"join": Join, "aligxi": Join, "aliĝi": Join,
	"draw": Draw, "turni": Draw,
	"claim": Claim, "preni": Claim,
	"undo": Undo, "malfari": Undo,
	"end": End, "fini": End,
	"status": Status, "stato": Status,
	"help": Help, "helpo": Help,
}

// Aliases returns the alternative spellings of n, excluding n itself.
func Aliases(n Name) []string {
	var out []string
	for alias, name := range aliases {
		if name == n && alias != string(n) {
			out = append(out, alias)
		}
	}
	return out
}

// Lookup resolves a command word such as "/Komenci@vsbot".
func Lookup(raw string) (Name, bool) {
	raw = strings.TrimPrefix(raw, "/")
	if at := strings.IndexByte(raw, '@'); at >= 0 {
		raw = raw[:at]
	}
	n, ok := aliases[strings.ToLower(raw)]
	return n, ok
}

// Entity marks a span of a message, in UTF-16 code units.
type Entity struct {
	Type   string `json:"type"`
	Offset int    `json:"offset"`
	Length int    `json:"length"`
}

const BotCommandEntity = "bot_command"

type Command struct {
	Name Name
	// Raw is the command as typed, e.g. "/aligxi@vsbot".
	Raw  string
	Args string
}

// Find returns the first bot command of the message, with everything after
// it as the argument. Name is empty for commands we don't know. ok is false
// if the message holds no command at all.
func Find(text string, entities []Entity) (cmd Command, ok bool) {
	u := utf16.Encode([]rune(text))
	for _, e := range entities {
		if e.Type != BotCommandEntity {
			continue
		}
		end := e.Offset + e.Length
		if e.Offset < 0 || e.Length <= 0 || end > len(u) {
			continue
		}
		raw := string(utf16.Decode(u[e.Offset:end]))
		rest := string(utf16.Decode(u[end:]))
		name, _ := Lookup(raw)
		return Command{Name: name, Raw: raw, Args: strings.TrimSpace(rest)}, true
	}
	return Command{}, false
}
