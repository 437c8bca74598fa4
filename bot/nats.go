package bot

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// natsResponse is what ServeNATS answers with. Exactly one of the fields
// is set.
type natsResponse struct {
	Replies []Reply `json:"replies,omitempty"`
	Error   string  `json:"error,omitempty"`
}

// ServeNATS answers JSON Messages published as requests on subject with
// the bot's replies, until ctx is done.
func ServeNATS(ctx context.Context, nc *nats.Conn, subject string, b *Bot) error {
	sub, err := nc.Subscribe(subject, func(m *nats.Msg) {
		log.Debug().Int("bytes", len(m.Data)).Msg("nats-recv")
		if err := m.Respond(b.handleNATS(ctx, m.Data)); err != nil {
			log.Err(err).Msg("nats-respond-failed")
		}
	})
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()
	if err := nc.Flush(); err != nil {
		return err
	}
	if err := nc.LastError(); err != nil {
		return err
	}
	log.Info().Str("subject", subject).Msg("listening")

	<-ctx.Done()
	return nil
}

func (b *Bot) handleNATS(ctx context.Context, data []byte) []byte {
	var resp natsResponse
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		resp.Error = "could not parse request: " + err.Error()
	} else {
		resp.Replies = b.Handle(ctx, m)
	}
	out, err := json.Marshal(resp)
	if err != nil {
		// Should never happen; Reply is plain data.
		return []byte(`{"error":"` + err.Error() + `"}`)
	}
	return out
}
