package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFind(t *testing.T) {
	cases := []struct {
		name     string
		text     string
		entities []Entity
		ok       bool
		expected Command
	}{
		{
			name:     "plain",
			text:     "/claim kato",
			entities: []Entity{{Type: "bot_command", Offset: 0, Length: 6}},
			ok:       true,
			expected: Command{Name: Claim, Raw: "/claim", Args: "kato"},
		},
		{
			name:     "esperanto alias with bot name",
			text:     "/aligxi@vsbot",
			entities: []Entity{{Type: "bot_command", Offset: 0, Length: 13}},
			ok:       true,
			expected: Command{Name: Join, Raw: "/aligxi@vsbot", Args: ""},
		},
		{
			// The emoji is two UTF-16 code units, so the command starts at 3.
			name: "offsets in utf-16",
			text: "😀 /preni ŝipo",
			entities: []Entity{
				{Type: "mention", Offset: 0, Length: 2},
				{Type: "bot_command", Offset: 3, Length: 6},
			},
			ok:       true,
			expected: Command{Name: Claim, Raw: "/preni", Args: "ŝipo"},
		},
		{
			name:     "unknown command",
			text:     "/frobnicate",
			entities: []Entity{{Type: "bot_command", Offset: 0, Length: 11}},
			ok:       true,
			expected: Command{Name: "", Raw: "/frobnicate", Args: ""},
		},
		{
			name:     "no command",
			text:     "hello there",
			entities: []Entity{{Type: "bold", Offset: 0, Length: 5}},
			ok:       false,
		},
		{
			name:     "entity out of range",
			text:     "/x",
			entities: []Entity{{Type: "bot_command", Offset: 0, Length: 9}},
			ok:       false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd, ok := Find(tc.text, tc.entities)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, cmd)
		})
	}
}

func TestLookup(t *testing.T) {
	n, ok := Lookup("/KOMENCI")
	assert.True(t, ok)
	assert.Equal(t, Start, n)

	_, ok = Lookup("/nope@bot")
	assert.False(t, ok)

	assert.ElementsMatch(t, []string{"fini"}, Aliases(End))
	assert.ElementsMatch(t, []string{"aligxi", "aliĝi"}, Aliases(Join))
}
