// Package game is the word-steal engine. Players take turns drawing
// letters from a shared bag into the center; anyone may claim a word made
// from center letters, or steal a word someone already holds by spelling
// a longer word from it plus center letters. Every change is recorded so
// it can be undone.
//
// A Game is not safe for concurrent use. Callers serialize access to it;
// see the sessions package.
package game

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/domino14/vortstelo/pool"
	"github.com/domino14/vortstelo/tilemapping"
)

const DefaultMinWordLength = 3

// State is where the game is in its lifecycle.
type State int

const (
	// Forming games accept players but nothing has been drawn yet.
	Forming State = iota
	Active
	Concluded
)

func (s State) String() string {
	switch s {
	case Forming:
		return "forming"
	case Active:
		return "active"
	case Concluded:
		return "concluded"
	}
	return "unknown"
}

type Options struct {
	// MinWordLength defaults to DefaultMinWordLength.
	MinWordLength int
	// StrictTurns makes TakeTurn refuse players who are not on turn.
	StrictTurns bool
}

// Game is the actual internal game structure that controls the entire
// business logic of the game: drawing, claiming, stealing and undoing.
type Game struct {
	roster

	id      string
	pool    *pool.Pool
	history []Action
	state   State
	opts    Options

	lastActivity time.Time
}

// NewGame creates a game in the Forming state that draws from p.
func NewGame(p *pool.Pool, opts Options) *Game {
	if opts.MinWordLength <= 0 {
		opts.MinWordLength = DefaultMinWordLength
	}
	return &Game{
		roster: newRoster(),
		id:     uuid.NewString(),
		pool:   p,
		opts:   opts,
	}
}

func (g *Game) ID() string {
	return g.id
}

func (g *Game) State() State {
	return g.state
}

func (g *Game) Options() Options {
	return g.opts
}

// Join adds a player. Players may join at any time before the game ends.
func (g *Game) Join(id, name string) (*Player, error) {
	if g.state == Concluded {
		return nil, ErrGameOver
	}
	p, err := g.add(id, name)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("game", g.id).Str("player", id).Int("players", len(g.players)).Msg("joined")
	return p, nil
}

// Player looks up a player by id.
func (g *Game) Player(id string) (*Player, error) {
	return g.get(id)
}

// Players returns the players in join order.
func (g *Game) Players() []*Player {
	ps := make([]*Player, len(g.players))
	copy(ps, g.players)
	return ps
}

// PlayerOnTurn returns the player who draws next, or nil if nobody has
// joined.
func (g *Game) PlayerOnTurn() *Player {
	return g.playerOnTurn()
}

// Draw moves the next letter from the bag into the center and passes the
// turn to the next player.
func (g *Game) Draw() (tilemapping.Letter, error) {
	if g.state == Concluded {
		return 0, ErrGameOver
	}
	if len(g.players) == 0 {
		return 0, ErrNoPlayers
	}
	l, err := g.pool.Draw()
	if err != nil {
		return 0, ErrPoolExhausted
	}
	g.pushAction(Action{Type: DrawTile, Letter: l, PrevTurn: g.onturn})
	g.advance()
	g.state = Active
	log.Debug().Str("game", g.id).Stringer("letter", l).Int("remaining", g.pool.Remaining()).Msg("drew")
	return l, nil
}

// TakeTurn is Draw on behalf of a player. With StrictTurns, only the
// player on turn may draw.
func (g *Game) TakeTurn(playerID string) (tilemapping.Letter, error) {
	if g.state == Concluded {
		return 0, ErrGameOver
	}
	if _, err := g.get(playerID); err != nil {
		return 0, err
	}
	if g.opts.StrictTurns && g.playerOnTurn().ID != playerID {
		return 0, ErrNotYourTurn
	}
	return g.Draw()
}

// End scores the game and concludes it. Nothing can be done with the game
// afterwards.
func (g *Game) End() (*Scoreboard, error) {
	if g.state == Concluded {
		return nil, ErrGameOver
	}
	sb := g.Score()
	g.state = Concluded
	log.Debug().Str("game", g.id).Msg("concluded")
	return sb, nil
}

// Touch records activity at t. The game never reads the clock itself;
// whoever owns it decides what idle means.
func (g *Game) Touch(t time.Time) {
	g.lastActivity = t
}

func (g *Game) LastActivity() time.Time {
	return g.lastActivity
}
