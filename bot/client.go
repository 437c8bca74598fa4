package bot

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// Client sends messages to a bot served over NATS.
type Client struct {
	nc      *nats.Conn
	channel string
}

func NewClient(nc *nats.Conn, channel string) *Client {
	return &Client{nc: nc, channel: channel}
}

// Send delivers m to the bot and returns its replies.
func (c *Client) Send(ctx context.Context, m Message) ([]Reply, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	res, err := c.nc.RequestWithContext(ctx, c.channel, data)
	if err != nil {
		if c.nc.LastError() != nil {
			log.Error().Msgf("%v for request", c.nc.LastError())
		}
		return nil, err
	}
	log.Debug().Msgf("res: %v", string(res.Data))

	var resp natsResponse
	if err := json.Unmarshal(res.Data, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, errors.New("bot returned: " + resp.Error)
	}
	return resp.Replies, nil
}
