package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/samber/lo"

	"github.com/domino14/vortstelo/game"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string
	Args    []string
}

var commandMetadata = map[string]CommandMetadata{
	"new": {
		Options: []string{"-dist", "-bag", "-minlength", "-strict"},
	},
	"help": {
		Args: []string{"claim", "new", "undo"},
	},
}

var commandNames = []string{
	"new", "join", "draw", "claim", "undo", "status", "dump", "history",
	"end", "help", "exit",
}

// playerArgCommands take a player id as their first argument.
var playerArgCommands = map[string]bool{"draw": true, "claim": true, "undo": true}

// Do implements the readline.AutoCompleter interface
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}
		var lastCompleteField string
		if endsWithSpace {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}

		switch {
		case lastCompleteField == "-dist":
			completions = []string{"esperanto", "english"}
		case lastCompleteField == "-strict":
			completions = []string{"true", "false"}
		case playerArgCommands[cmdName] && (len(fields) == 1 || (len(fields) == 2 && !endsWithSpace)):
			completions = c.playerIDs()
		default:
			if metadata, exists := commandMetadata[cmdName]; exists {
				if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
					completions = metadata.Options
				} else {
					completions = metadata.Args
				}
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}
	return matches, len(prefix)
}

func (c *ShellCompleter) playerIDs() []string {
	if c.sc == nil || c.sc.game == nil {
		return nil
	}
	return lo.Map(c.sc.game.Status().Players, func(p game.PlayerStatus, _ int) string { return p.ID })
}
