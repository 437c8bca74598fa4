// Package sessions keeps one game per chat and serializes access to each
// game. Games of different chats run independently.
package sessions

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/vortstelo/game"
)

var (
	ErrNoGame     = game.NewStateError("no game in progress")
	ErrGameExists = game.NewStateError("a game is already in progress")
)

// A Factory makes a fresh game for a chat.
type Factory func() (*game.Game, error)

type entry struct {
	mu sync.Mutex
	g  *game.Game
}

// Registry maps chat ids to their games.
type Registry struct {
	mu      sync.Mutex
	games   map[int64]*entry
	newGame Factory
	now     func() time.Time
}

func NewRegistry(f Factory) *Registry {
	return &Registry{
		games:   map[int64]*entry{},
		newGame: f,
		now:     time.Now,
	}
}

// SetClock replaces the clock used to stamp activity.
func (r *Registry) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

func (r *Registry) clock() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.now()
}

// Create starts a new game for the chat and runs fn on it, typically to
// seat whoever asked for the game.
func (r *Registry) Create(chatID int64, fn func(*game.Game) error) error {
	r.mu.Lock()
	if _, ok := r.games[chatID]; ok {
		r.mu.Unlock()
		return ErrGameExists
	}
	g, err := r.newGame()
	if err != nil {
		r.mu.Unlock()
		return err
	}
	e := &entry{g: g}
	// Lock before publishing so nobody else sees the game before fn ran.
	e.mu.Lock()
	r.games[chatID] = e
	now := r.now()
	r.mu.Unlock()

	defer e.mu.Unlock()
	g.Touch(now)
	log.Info().Int64("chat", chatID).Str("game", g.ID()).Msg("game-created")
	if fn == nil {
		return nil
	}
	return fn(g)
}

// With runs fn with exclusive access to the chat's game and records the
// activity.
func (r *Registry) With(chatID int64, fn func(*game.Game) error) error {
	r.mu.Lock()
	e, ok := r.games[chatID]
	r.mu.Unlock()
	if !ok {
		return ErrNoGame
	}
	now := r.clock()
	e.mu.Lock()
	defer e.mu.Unlock()
	e.g.Touch(now)
	return fn(e.g)
}

// End concludes the chat's game, forgets it and returns its standings.
func (r *Registry) End(chatID int64) (*game.Game, *game.Scoreboard, error) {
	r.mu.Lock()
	e, ok := r.games[chatID]
	delete(r.games, chatID)
	r.mu.Unlock()
	if !ok {
		return nil, nil, ErrNoGame
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	sb, err := e.g.End()
	if err != nil {
		return nil, nil, err
	}
	log.Info().Int64("chat", chatID).Str("game", e.g.ID()).Msg("game-ended")
	return e.g, sb, nil
}

// Expired describes a game that was ended for being idle.
type Expired struct {
	ChatID     int64
	Game       *game.Game
	Scoreboard *game.Scoreboard
}

// Reap ends every game with no activity for at least idle. The results are
// ordered by chat id.
func (r *Registry) Reap(idle time.Duration) []Expired {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	var expired []Expired
	for chatID, e := range r.games {
		e.mu.Lock()
		if now.Sub(e.g.LastActivity()) >= idle {
			delete(r.games, chatID)
			if sb, err := e.g.End(); err == nil {
				expired = append(expired, Expired{ChatID: chatID, Game: e.g, Scoreboard: sb})
			}
		}
		e.mu.Unlock()
	}
	sort.Slice(expired, func(i, j int) bool { return expired[i].ChatID < expired[j].ChatID })
	for _, ex := range expired {
		log.Info().Int64("chat", ex.ChatID).Str("game", ex.Game.ID()).Dur("idle", idle).Msg("game-expired")
	}
	return expired
}

// RunReaper calls Reap every interval until ctx is done, handing each
// expired game to fn.
func (r *Registry) RunReaper(ctx context.Context, interval, idle time.Duration, fn func(Expired)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for _, ex := range r.Reap(idle) {
				fn(ex)
			}
		}
	}
}

// ChatIDs returns the chats with a game in progress, sorted.
func (r *Registry) ChatIDs() []int64 {
	r.mu.Lock()
	ids := lo.Keys(r.games)
	r.mu.Unlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
