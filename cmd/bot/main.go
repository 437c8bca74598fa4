package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/vortstelo/bot"
	"github.com/domino14/vortstelo/config"
	"github.com/domino14/vortstelo/game"
	"github.com/domino14/vortstelo/pool"
	"github.com/domino14/vortstelo/sessions"
	"github.com/domino14/vortstelo/store"
	"github.com/domino14/vortstelo/telegram"
	"github.com/domino14/vortstelo/tilemapping"
)

func main() {
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	exPath := filepath.Dir(ex)

	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg.AdjustRelativePaths(exPath)

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
	log.Info().Interface("config", cfg.SanitizedSettings()).Msg("loaded-config")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("bot-failed")
	}
	log.Info().Msg("bot gracefully shutting down")
}

func run(ctx context.Context, cfg *config.Config) error {
	ld, err := tilemapping.NamedLetterDistribution(cfg.GetString(config.ConfigLetterDistribution))
	if err != nil {
		return err
	}
	opts := game.Options{
		MinWordLength: cfg.GetInt(config.ConfigMinWordLength),
		StrictTurns:   cfg.GetBool(config.ConfigStrictTurns),
	}
	reg := sessions.NewRegistry(func() (*game.Game, error) {
		return game.NewGame(pool.New(ld), opts), nil
	})

	var archive bot.Archive
	var offsets telegram.OffsetStore = telegram.FileOffsetStore{Path: cfg.GetString(config.ConfigUpdateIDFile)}
	if dbPath := cfg.GetString(config.ConfigDBPath); dbPath != "" {
		st, err := store.Open(dbPath)
		if err != nil {
			return err
		}
		defer st.Close()
		archive = st
		offsets = st
		log.Info().Str("path", dbPath).Msg("opened-store")
	}
	b := bot.NewBot(reg, ld.Normalizer(), archive)

	idle := cfg.GetDuration(config.ConfigIdleTimeout)
	interval := cfg.GetDuration(config.ConfigReapInterval)

	g, ctx := errgroup.WithContext(ctx)

	switch transport := cfg.GetString(config.ConfigTransport); transport {
	case config.TransportTelegram:
		key, err := cfg.TelegramAPIKey()
		if err != nil {
			return err
		}
		client := telegram.NewClient(cfg.GetString(config.ConfigTelegramAPIURL), key,
			telegram.WithPollTimeout(cfg.GetDuration(config.ConfigTelegramPollTimeout)))
		poller := bot.NewPoller(b, client, offsets)
		poller.PollErrorDelay = cfg.GetDuration(config.ConfigPollErrorDelay)
		poller.SendErrorDelay = cfg.GetDuration(config.ConfigSendErrorDelay)

		g.Go(func() error { return poller.Run(ctx) })
		g.Go(func() error {
			return reg.RunReaper(ctx, interval, idle, func(ex sessions.Expired) {
				poller.Announce(ctx, b.Expired(ctx, ex))
			})
		})

	case config.TransportNats:
		nc, err := nats.Connect(cfg.GetString(config.ConfigNatsURL))
		if err != nil {
			return err
		}
		defer nc.Close()
		subject := cfg.GetString(config.ConfigNatsSubject)
		announce := subject + ".announce"

		g.Go(func() error { return bot.ServeNATS(ctx, nc, subject, b) })
		g.Go(func() error {
			return reg.RunReaper(ctx, interval, idle, func(ex sessions.Expired) {
				data, err := json.Marshal(b.Expired(ctx, ex))
				if err != nil {
					log.Err(err).Msg("marshal-announcement")
					return
				}
				if err := nc.Publish(announce, data); err != nil {
					log.Err(err).Int64("chat", ex.ChatID).Msg("announce-failed")
				}
			})
		})

	default:
		return fmt.Errorf("unknown transport %q", transport)
	}

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
