package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"regexp"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/chzyer/readline"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/domino14/vortstelo/bot"
	"github.com/domino14/vortstelo/command"
)

var tagRE = regexp.MustCompile(`</?[a-z]+>`)

// plain turns a reply's HTML into terminal text.
func plain(s string) string {
	return html.UnescapeString(tagRE.ReplaceAllString(s, ""))
}

// toMessage marks a leading /command the way a chat client would.
func toMessage(chat, user int64, name, text string) bot.Message {
	m := bot.Message{ChatID: chat, MessageID: time.Now().UnixNano(), FromID: user, FromName: name, Text: text}
	if strings.HasPrefix(text, "/") {
		word, _, _ := strings.Cut(text, " ")
		m.Entities = []command.Entity{{
			Type:   command.BotCommandEntity,
			Length: len(utf16.Encode([]rune(word))),
		}}
	}
	return m
}

func main() {
	fs := pflag.NewFlagSet("bot_shell", pflag.ExitOnError)
	url := fs.String("nats-url", nats.DefaultURL, "nats server url")
	subject := fs.String("nats-subject", "vortstelo.messages", "subject the bot serves")
	chat := fs.Int64("chat", 1, "chat id to play in")
	user := fs.Int64("user", 1, "your user id")
	name := fs.String("name", os.Getenv("USER"), "your name")
	debug := fs.Bool("debug", false, "debug logging on")
	fs.Parse(os.Args[1:])

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	nc, err := nats.Connect(*url)
	if err != nil {
		log.Fatal().Err(err).Msg("connect")
	}
	defer nc.Close()
	client := bot.NewClient(nc, *subject)

	// Idle-game results arrive unprompted.
	sub, err := nc.Subscribe(*subject+".announce", func(m *nats.Msg) {
		var r bot.Reply
		if err := json.Unmarshal(m.Data, &r); err != nil || r.ChatID != *chat {
			return
		}
		fmt.Println(plain(r.Text))
	})
	if err != nil {
		log.Fatal().Err(err).Msg("subscribe")
	}
	defer sub.Unsubscribe()

	l, err := readline.New(fmt.Sprintf("%v@%d> ", *name, *chat))
	if err != nil {
		panic(err)
	}
	defer l.Close()

	for {
		line, err := l.Readline()
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		replies, err := client.Send(ctx, toMessage(*chat, *user, *name, line))
		cancel()
		if err != nil {
			log.Err(err).Msg("send")
			continue
		}
		for _, r := range replies {
			fmt.Println(plain(r.Text))
		}
	}
}
