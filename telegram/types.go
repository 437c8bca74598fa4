package telegram

import (
	"slices"

	"github.com/domino14/vortstelo/command"
)

type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
}

type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type,omitempty"`
}

type Message struct {
	MessageID int64            `json:"message_id"`
	From      *User            `json:"from,omitempty"`
	Chat      *Chat            `json:"chat,omitempty"`
	Text      string           `json:"text,omitempty"`
	Entities  []command.Entity `json:"entities,omitempty"`
}

type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

// OutgoingMessage is the body of a sendMessage call.
type OutgoingMessage struct {
	ChatID           int64  `json:"chat_id"`
	Text             string `json:"text"`
	ParseMode        string `json:"parse_mode,omitempty"`
	ReplyToMessageID int64  `json:"reply_to_message_id,omitempty"`
}

const ParseModeHTML = "HTML"

// Usable drops updates we have already handled (id <= last, when hasLast)
// and updates that carry no chat message, and sorts the rest by id.
func Usable(updates []Update, last int64, hasLast bool) []Update {
	out := make([]Update, 0, len(updates))
	for _, u := range updates {
		if hasLast && u.UpdateID <= last {
			continue
		}
		if u.Message == nil || u.Message.Chat == nil {
			continue
		}
		out = append(out, u)
	}
	slices.SortFunc(out, func(a, b Update) int {
		switch {
		case a.UpdateID < b.UpdateID:
			return -1
		case a.UpdateID > b.UpdateID:
			return 1
		}
		return 0
	})
	return out
}
