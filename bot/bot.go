// Package bot connects chat messages to games: one message in, zero or
// more replies out. It serves Telegram by long-polling and NATS by
// request/reply.
package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/vortstelo/command"
	"github.com/domino14/vortstelo/game"
	"github.com/domino14/vortstelo/render"
	"github.com/domino14/vortstelo/sessions"
	"github.com/domino14/vortstelo/store"
	"github.com/domino14/vortstelo/tilemapping"
)

// Message is an incoming chat message, stripped to what the bot uses.
type Message struct {
	ChatID    int64            `json:"chat_id"`
	MessageID int64            `json:"message_id"`
	FromID    int64            `json:"from_id"`
	FromName  string           `json:"from_name"`
	Text      string           `json:"text"`
	Entities  []command.Entity `json:"entities,omitempty"`
}

// Reply is a message to send back. Text is HTML.
type Reply struct {
	ChatID  int64  `json:"chat_id"`
	Text    string `json:"text"`
	ReplyTo int64  `json:"reply_to,omitempty"`
}

// An Archive keeps finished games.
type Archive interface {
	ArchiveGame(ctx context.Context, r store.Result) error
}

type Bot struct {
	sessions *sessions.Registry
	norm     tilemapping.Normalizer
	archive  Archive
	now      func() time.Time
}

func NewBot(reg *sessions.Registry, norm tilemapping.Normalizer, archive Archive) *Bot {
	return &Bot{
		sessions: reg,
		norm:     norm,
		archive:  archive,
		now:      time.Now,
	}
}

var errBadWord = errors.New("bad word")

func (b *Bot) Sessions() *sessions.Registry {
	return b.sessions
}

// Handle runs the command in m, if any. Messages without a command, with
// a command we don't know, or without a sender get no reply.
func (b *Bot) Handle(ctx context.Context, m Message) []Reply {
	cmd, ok := command.Find(m.Text, m.Entities)
	if !ok || cmd.Name == "" || m.FromID == 0 {
		return nil
	}
	logger := log.With().Int64("chat", m.ChatID).Int64("from", m.FromID).Str("cmd", string(cmd.Name)).Logger()
	logger.Debug().Str("args", cmd.Args).Msg("handle-command")

	text, err := b.run(ctx, m, cmd)
	if err != nil {
		switch {
		case errors.Is(err, errBadWord):
			text = "Please give a word made only of letters, e.g. <code>/claim kato</code>."
		case game.KindOf(err) == game.UnknownError:
			logger.Err(err).Msg("command-failed")
			text = render.Error(err)
		default:
			logger.Debug().Err(err).Msg("command-refused")
			text = render.Error(err)
		}
		return []Reply{{ChatID: m.ChatID, Text: text, ReplyTo: m.MessageID}}
	}
	return []Reply{{ChatID: m.ChatID, Text: text}}
}

func (b *Bot) run(ctx context.Context, m Message, cmd command.Command) (string, error) {
	playerID := PlayerID(m.FromID)
	name := m.FromName
	if strings.TrimSpace(name) == "" {
		name = playerID
	}
	chat := m.ChatID
	var text string

	switch cmd.Name {
	case command.Start:
		err := b.sessions.Create(chat, func(g *game.Game) error {
			if _, err := g.Join(playerID, name); err != nil {
				return err
			}
			text = render.Started(name, g.Status())
			return nil
		})
		return text, err

	case command.Join:
		err := b.sessions.With(chat, func(g *game.Game) error {
			if _, err := g.Join(playerID, name); err != nil {
				return err
			}
			text = render.Joined(name, g.Status())
			return nil
		})
		return text, err

	case command.Draw:
		err := b.sessions.With(chat, func(g *game.Game) error {
			l, err := g.TakeTurn(playerID)
			if err != nil {
				return err
			}
			text = render.Drew(l, g.Status())
			return nil
		})
		return text, err

	case command.Claim:
		if cmd.Args == "" {
			return "", game.ErrEmptyWord
		}
		word, err := b.norm.Normalize(cmd.Args)
		if err != nil {
			return "", errBadWord
		}
		err = b.sessions.With(chat, func(g *game.Game) error {
			res, err := g.Claim(playerID, word)
			if err != nil {
				return err
			}
			text = render.Claim(res, g.Status())
			return nil
		})
		return text, err

	case command.Undo:
		err := b.sessions.With(chat, func(g *game.Game) error {
			a, err := g.Undo(playerID)
			if err != nil {
				return err
			}
			text = render.Undone(a, g.Status())
			return nil
		})
		return text, err

	case command.Status:
		err := b.sessions.With(chat, func(g *game.Game) error {
			text = render.Status(g.Status())
			return nil
		})
		return text, err

	case command.End:
		g, sb, err := b.sessions.End(chat)
		if err != nil {
			return "", err
		}
		b.archiveGame(ctx, chat, g, sb, render.ReasonEnded)
		return render.GameOver(sb, render.ReasonEnded), nil

	case command.Help:
		return render.Help(), nil
	}
	return "", nil
}

// Expired archives a game the reaper ended and returns its announcement.
func (b *Bot) Expired(ctx context.Context, ex sessions.Expired) Reply {
	b.archiveGame(ctx, ex.ChatID, ex.Game, ex.Scoreboard, render.ReasonIdle)
	return Reply{ChatID: ex.ChatID, Text: render.GameOver(ex.Scoreboard, render.ReasonIdle)}
}

func (b *Bot) archiveGame(ctx context.Context, chat int64, g *game.Game, sb *game.Scoreboard, reason render.Reason) {
	if b.archive == nil {
		return
	}
	err := b.archive.ArchiveGame(ctx, store.Result{
		GameID:     g.ID(),
		ChatID:     chat,
		EndedAt:    b.now(),
		Reason:     string(reason),
		Scoreboard: *sb,
	})
	if err != nil {
		// The players already have their result; losing the archive row
		// is only logged.
		log.Err(err).Int64("chat", chat).Str("game", g.ID()).Msg("archive-failed")
	}
}

// PlayerID maps a chat user id onto a player id.
func PlayerID(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
