package shell

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/domino14/vortstelo/config"
	"github.com/domino14/vortstelo/game"
	"github.com/domino14/vortstelo/pool"
	"github.com/domino14/vortstelo/tilemapping"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoGame            = errors.New("no game; start one with `new`")
	errQuit              = errors.New("quit")
)

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) Bool(key string) bool {
	v := c[key]
	if len(v) == 0 {
		return false
	}
	return strings.ToLower(v[0]) == "true"
}

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

// extractFields splits a line into a command, its arguments and its
// -key value options. Quoting works as in a POSIX shell.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := &shellcmd{cmd: fields[0], options: CmdOptions{}}
	for i := 1; i < len(fields); i++ {
		f := fields[i]
		if strings.HasPrefix(f, "-") && len(f) > 1 {
			if i == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			key := f[1:]
			cmd.options[key] = append(cmd.options[key], fields[i+1])
			i++
			continue
		}
		cmd.args = append(cmd.args, f)
	}
	return cmd, nil
}

type cmdFunc func(sc *ShellController, cmd *shellcmd) (*Response, error)

var commands map[string]cmdFunc

func init() {
	commands = map[string]cmdFunc{
		"new":     (*ShellController).newGame,
		"join":    (*ShellController).join,
		"draw":    (*ShellController).draw,
		"claim":   (*ShellController).claim,
		"undo":    (*ShellController).undo,
		"status":  (*ShellController).status,
		"s":       (*ShellController).status,
		"dump":    (*ShellController).dump,
		"history": (*ShellController).history,
		"end":     (*ShellController).end,
		"help":    (*ShellController).help,
		"exit":    (*ShellController).exit,
		"bye":     (*ShellController).exit,
	}
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return usage("standard")
	}
	return usageTopic(cmd.args[0])
}

func (sc *ShellController) exit(cmd *shellcmd) (*Response, error) {
	return nil, errQuit
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	distName := cmd.options.String("dist")
	if distName == "" {
		distName = sc.config.GetString(config.ConfigLetterDistribution)
	}
	ld, err := tilemapping.NamedLetterDistribution(distName)
	if err != nil {
		return nil, err
	}
	minLength, err := cmd.options.IntDefault("minlength", sc.config.GetInt(config.ConfigMinWordLength))
	if err != nil {
		return nil, err
	}
	opts := game.Options{
		MinWordLength: minLength,
		StrictTurns:   sc.config.GetBool(config.ConfigStrictTurns) || cmd.options.Bool("strict"),
	}
	norm := ld.Normalizer()

	var p *pool.Pool
	if bag := cmd.options.String("bag"); bag != "" {
		w, err := norm.Normalize(bag)
		if err != nil {
			return nil, fmt.Errorf("bad bag: %w", err)
		}
		if err := ld.Alphabet().Validate(w); err != nil {
			return nil, err
		}
		p = pool.NewFixed(w, ld.Alphabet())
	} else {
		p = pool.New(ld)
	}
	sc.game = game.NewGame(p, opts)
	sc.norm = norm
	return msg(fmt.Sprintf("new game %v: %d letters (%v)", sc.game.ID(), p.Size(), ld.Name)), nil
}

func (sc *ShellController) curGame() (*game.Game, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	return sc.game, nil
}

func (sc *ShellController) join(cmd *shellcmd) (*Response, error) {
	g, err := sc.curGame()
	if err != nil {
		return nil, err
	}
	if len(cmd.args) == 0 {
		return nil, errors.New("usage: join <id> [name]")
	}
	id := cmd.args[0]
	name := strings.Join(cmd.args[1:], " ")
	if name == "" {
		name = id
	}
	if _, err := g.Join(id, name); err != nil {
		return nil, err
	}
	return msg(name + " joined\n" + statusText(g.Status())), nil
}

func (sc *ShellController) draw(cmd *shellcmd) (*Response, error) {
	g, err := sc.curGame()
	if err != nil {
		return nil, err
	}
	var l tilemapping.Letter
	if len(cmd.args) > 0 {
		l, err = g.TakeTurn(cmd.args[0])
	} else {
		l, err = g.Draw()
	}
	if err != nil {
		return nil, err
	}
	return msg("drew " + l.String() + "\n" + statusText(g.Status())), nil
}

func (sc *ShellController) claim(cmd *shellcmd) (*Response, error) {
	g, err := sc.curGame()
	if err != nil {
		return nil, err
	}
	if len(cmd.args) != 2 {
		return nil, errors.New("usage: claim <id> <word>")
	}
	word, err := sc.norm.Normalize(cmd.args[1])
	if err != nil {
		return nil, err
	}
	res, err := g.Claim(cmd.args[0], word)
	if err != nil {
		return nil, err
	}
	var what string
	switch res.Kind {
	case game.FromPool:
		what = fmt.Sprintf("%v took %v from the center", res.PlayerName, res.Word)
	case game.Steal:
		what = fmt.Sprintf("%v stole %v from %v to make %v", res.PlayerName, res.FromWord, res.FromPlayerName, res.Word)
	default:
		return msg(fmt.Sprintf("%v: no match", res.Word)), nil
	}
	return msg(what + "\n" + statusText(g.Status())), nil
}

func (sc *ShellController) undo(cmd *shellcmd) (*Response, error) {
	g, err := sc.curGame()
	if err != nil {
		return nil, err
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: undo <id>")
	}
	a, err := g.Undo(cmd.args[0])
	if err != nil {
		return nil, err
	}
	return msg("undid: " + a.String() + "\n" + statusText(g.Status())), nil
}

func (sc *ShellController) status(cmd *shellcmd) (*Response, error) {
	g, err := sc.curGame()
	if err != nil {
		return nil, err
	}
	return msg(statusText(g.Status())), nil
}

func (sc *ShellController) dump(cmd *shellcmd) (*Response, error) {
	g, err := sc.curGame()
	if err != nil {
		return nil, err
	}
	out, err := yaml.Marshal(g.Status())
	if err != nil {
		return nil, err
	}
	return msg(strings.TrimRight(string(out), "\n")), nil
}

func (sc *ShellController) history(cmd *shellcmd) (*Response, error) {
	g, err := sc.curGame()
	if err != nil {
		return nil, err
	}
	h := g.History()
	if len(h) == 0 {
		return msg("nothing to undo"), nil
	}
	lines := lo.Map(h, func(a game.Action, i int) string {
		return fmt.Sprintf("%3d: %v", i+1, a)
	})
	return msg(strings.Join(lines, "\n")), nil
}

func (sc *ShellController) end(cmd *shellcmd) (*Response, error) {
	g, err := sc.curGame()
	if err != nil {
		return nil, err
	}
	sb, err := g.End()
	if err != nil {
		return nil, err
	}
	sc.game = nil
	return msg(scoreboardText(sb)), nil
}

func statusText(st game.Status) string {
	var sb strings.Builder
	center := lo.Map(st.Center, func(l tilemapping.Letter, _ int) string { return l.String() })
	fmt.Fprintf(&sb, "center: %v  (%d left)", strings.Join(center, " "), st.Remaining)
	for _, p := range st.Players {
		marker := " "
		if p.OnTurn {
			marker = "*"
		}
		words := lo.Map(p.Words, func(w tilemapping.Word, _ int) string { return w.String() })
		fmt.Fprintf(&sb, "\n%s %v: %v", marker, p.Name, strings.Join(words, ", "))
	}
	return sb.String()
}

func scoreboardText(sb *game.Scoreboard) string {
	var b strings.Builder
	w := sb.Winner()
	switch {
	case w == nil:
		return "game over; nobody played"
	case sb.Tie:
		b.WriteString("game over; it's a tie")
	default:
		fmt.Fprintf(&b, "game over; %v wins", w.Name)
	}
	for i, e := range sb.Entries {
		fmt.Fprintf(&b, "\n%3d: %-12v %2d words %3d letters  %v", i+1, e.Name, e.WordCount, e.LetterCount,
			strings.Join(e.Words, ", "))
	}
	return b.String()
}
