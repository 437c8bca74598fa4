// Package telegram is a small client for the parts of the Telegram Bot API
// the bot needs: long-polling for updates and sending messages.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
)

const DefaultAPIURL = "https://api.telegram.org"

// APIError is an error reported by the Bot API itself.
type APIError struct {
	Method      string
	Code        int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram %s: %d %s", e.Method, e.Code, e.Description)
}

// temporary reports whether retrying the request could help.
func (e *APIError) temporary() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	ErrorCode   int             `json:"error_code"`
	Description string          `json:"description"`
}

type Client struct {
	httpClient  *http.Client
	baseURL     string
	pollTimeout time.Duration
	attempts    uint
	retryDelay  time.Duration
}

type Option func(*Client)

// WithPollTimeout sets how long getUpdates waits on the server for new
// updates.
func WithPollTimeout(d time.Duration) Option {
	return func(c *Client) { c.pollTimeout = d }
}

// WithRetry sets the number of attempts per request and the initial
// backoff delay between them.
func WithRetry(attempts uint, delay time.Duration) Option {
	return func(c *Client) {
		c.attempts = attempts
		c.retryDelay = delay
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(apiURL, token string, opts ...Option) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	c := &Client{
		baseURL:     strings.TrimRight(apiURL, "/") + "/bot" + token + "/",
		pollTimeout: 5 * time.Minute,
		attempts:    3,
		retryDelay:  time.Second,
	}
	for _, o := range opts {
		o(c)
	}
	if c.httpClient == nil {
		// Leave room for the long poll on top of the usual round trip.
		c.httpClient = &http.Client{Timeout: c.pollTimeout + 30*time.Second}
	}
	return c
}

// GetUpdates long-polls for message updates. A nil offset asks for every
// pending update.
func (c *Client) GetUpdates(ctx context.Context, offset *int64) ([]Update, error) {
	args := map[string]any{
		"timeout":         int(c.pollTimeout / time.Second),
		"allowed_updates": []string{"message"},
	}
	if offset != nil {
		args["offset"] = *offset
	}
	var updates []Update
	if err := c.call(ctx, "getUpdates", args, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

func (c *Client) SendMessage(ctx context.Context, msg OutgoingMessage) error {
	return c.call(ctx, "sendMessage", msg, nil)
}

func (c *Client) call(ctx context.Context, method string, args, result any) error {
	body, err := json.Marshal(args)
	if err != nil {
		return err
	}
	return retry.Do(
		func() error {
			err := c.post(ctx, method, body, result)
			var apiErr *APIError
			if errors.As(err, &apiErr) && !apiErr.temporary() {
				return retry.Unrecoverable(err)
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.retryDelay),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			log.Debug().Err(err).Str("method", method).Uint("n", n).Msg("telegram-request-failed-try-again")
			return retry.BackOffDelay(n, err, config)
		}),
	)
}

func (c *Client) post(ctx context.Context, method string, body []byte, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+method, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	var ar apiResponse
	if err := json.Unmarshal(data, &ar); err != nil {
		return fmt.Errorf("telegram %s: unexpected response (status %d): %w", method, resp.StatusCode, err)
	}
	if !ar.OK {
		code := ar.ErrorCode
		if code == 0 {
			code = resp.StatusCode
		}
		return &APIError{Method: method, Code: code, Description: ar.Description}
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(ar.Result, result); err != nil {
		return fmt.Errorf("telegram %s: bad result: %w", method, err)
	}
	return nil
}
