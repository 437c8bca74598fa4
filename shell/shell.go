// Package shell is an interactive console for playing a game locally, with
// every player typing at the same keyboard.
package shell

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"

	"github.com/domino14/vortstelo/config"
	"github.com/domino14/vortstelo/game"
	"github.com/domino14/vortstelo/tilemapping"
)

type ShellController struct {
	l      *readline.Instance
	config *config.Config
	out    io.Writer

	game *game.Game
	norm tilemapping.Normalizer
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func NewShellController(cfg *config.Config) *ShellController {
	sc := &ShellController{config: cfg, out: os.Stderr}
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[32mvortstelo>\033[0m ",
		HistoryFile:     filepath.Join(os.TempDir(), "vortstelo_readline.tmp"),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    NewShellCompleter(sc),

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	sc.out = l.Stderr()
	return sc
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func (sc *ShellController) standardModeSwitch(line string) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	fn, ok := commands[cmd.cmd]
	if !ok {
		log.Debug().Msgf("you said: %v", strconv.Quote(line))
		return nil, errors.New("unknown command " + strconv.Quote(cmd.cmd) + "; try `help`")
	}
	return fn(sc, cmd)
}

// Execute runs a single line, as if typed at the prompt.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	resp, err := sc.standardModeSwitch(line)
	switch {
	case errors.Is(err, errQuit):
		sig <- syscall.SIGINT
	case errors.Is(err, errNoData):
	case err != nil:
		sc.showError(err)
	case resp != nil:
		sc.showMessage(resp.message)
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			}
			continue
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "exit" || line == "bye" {
			sig <- syscall.SIGINT
			break
		}
		sc.Execute(sig, line)
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Game returns the game in progress, if any.
func (sc *ShellController) Game() *game.Game {
	return sc.game
}
