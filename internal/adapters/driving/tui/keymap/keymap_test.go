package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	require.NotNil(t, km)
}

func TestDefaultKeyMap_Bindings(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name    string
		binding key.Binding
		keys    []string
	}{
		{"quit", km.Quit, []string{"ctrl+c", "esc"}},
		{"help", km.Help, []string{"f1"}},
		{"next", km.Next, []string{"tab", "down"}},
		{"prev", km.Prev, []string{"shift+tab", "up"}},
		{"submit", km.Submit, []string{"enter"}},
		{"reset", km.Reset, []string{"ctrl+r"}},
		{"scroll up", km.ScrollUp, []string{"pgup"}},
		{"scroll down", km.ScrollDown, []string{"pgdown"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ElementsMatch(t, tt.keys, tt.binding.Keys())
			assert.NotEmpty(t, tt.binding.Help().Desc)
		})
	}
}

func TestDefaultKeyMap_QuitDoesNotUseLetters(t *testing.T) {
	km := DefaultKeyMap()

	// Letters must reach the text inputs.
	assert.NotContains(t, km.Quit.Keys(), "q")
}

func TestKeyMap_ShortHelp(t *testing.T) {
	km := DefaultKeyMap()

	help := km.ShortHelp()

	require.Len(t, help, 3)
	assert.Equal(t, km.Submit.Keys(), help[0].Keys())
}

func TestKeyMap_FullHelp(t *testing.T) {
	km := DefaultKeyMap()

	help := km.FullHelp()

	require.Len(t, help, 3)
	total := 0
	for _, group := range help {
		total += len(group)
	}
	assert.Equal(t, 8, total)
}

func TestMatches(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name    string
		keyStr  string
		binding key.Binding
		want    bool
	}{
		{"enter submits", "enter", km.Submit, true},
		{"tab moves on", "tab", km.Next, true},
		{"shift+tab moves back", "shift+tab", km.Prev, true},
		{"ctrl+c quits", "ctrl+c", km.Quit, true},
		{"q does not quit", "q", km.Quit, false},
		{"x is unbound", "x", km.Reset, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.keyStr, tt.binding))
		})
	}
}
