package bot

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/vortstelo/telegram"
)

// Transport is the part of the Telegram client the poller needs.
type Transport interface {
	GetUpdates(ctx context.Context, offset *int64) ([]telegram.Update, error)
	SendMessage(ctx context.Context, msg telegram.OutgoingMessage) error
}

type Poller struct {
	bot     *Bot
	tg      Transport
	offsets telegram.OffsetStore

	PollErrorDelay time.Duration
	SendErrorDelay time.Duration
}

func NewPoller(b *Bot, tg Transport, offsets telegram.OffsetStore) *Poller {
	return &Poller{
		bot:            b,
		tg:             tg,
		offsets:        offsets,
		PollErrorDelay: time.Minute,
		SendErrorDelay: 30 * time.Second,
	}
}

// Run polls until ctx is done. Transport failures are logged and waited
// out, never returned.
func (p *Poller) Run(ctx context.Context) error {
	last, hasLast, err := p.offsets.LastUpdateID(ctx)
	if err != nil {
		return err
	}
	log.Info().Int64("last-update", last).Bool("resume", hasLast).Msg("polling")

	for ctx.Err() == nil {
		var offset *int64
		if hasLast {
			o := last + 1
			offset = &o
		}
		updates, err := p.tg.GetUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			log.Err(err).Msg("get-updates-failed")
			sleep(ctx, p.PollErrorDelay)
			continue
		}

		for _, u := range telegram.Usable(updates, last, hasLast) {
			last, hasLast = u.UpdateID, true
			if err := p.deliver(ctx, p.bot.Handle(ctx, toMessage(u.Message))); err != nil {
				log.Err(err).Int64("update", u.UpdateID).Msg("send-failed")
				sleep(ctx, p.SendErrorDelay)
				break
			}
			if err := p.offsets.SaveUpdateID(ctx, last); err != nil {
				log.Err(err).Int64("update", last).Msg("save-update-id-failed")
			}
		}
	}
	return nil
}

// Announce sends replies that weren't prompted by an update, such as idle
// game results.
func (p *Poller) Announce(ctx context.Context, replies ...Reply) {
	if err := p.deliver(ctx, replies); err != nil {
		log.Err(err).Msg("announce-failed")
	}
}

func (p *Poller) deliver(ctx context.Context, replies []Reply) error {
	for _, r := range replies {
		err := p.tg.SendMessage(ctx, telegram.OutgoingMessage{
			ChatID:           r.ChatID,
			Text:             r.Text,
			ParseMode:        telegram.ParseModeHTML,
			ReplyToMessageID: r.ReplyTo,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func toMessage(tm *telegram.Message) Message {
	m := Message{
		ChatID:    tm.Chat.ID,
		MessageID: tm.MessageID,
		Text:      tm.Text,
		Entities:  tm.Entities,
	}
	if tm.From != nil {
		m.FromID = tm.From.ID
		m.FromName = tm.From.FirstName
	}
	return m
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
