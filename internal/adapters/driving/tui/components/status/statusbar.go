// Package status renders the one-line bar at the bottom of the chat view.
package status

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ragchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragchat/internal/adapters/driving/tui/styles"
)

// State selects how the bar's message is drawn.
type State string

const (
	StateReady   State = "ready"
	StateBusy    State = "busy"
	StateInfo    State = "info"
	StateWarning State = "warning"
	StateError   State = "error"
)

// Bar shows the outcome of the last action on the left and key hints on
// the right. While busy, a spinner runs beside the message.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	hints   help.Model
	spinner spinner.Model

	state   State
	message string
	entries int
	width   int
}

// NewBar returns a bar in StateReady. Nil arguments use the defaults.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	hints := help.New()
	hints.ShortSeparator = " | "
	hints.Styles.ShortKey = s.Muted
	hints.Styles.ShortDesc = s.Muted
	hints.Styles.ShortSeparator = s.Muted

	return &Bar{
		styles:  s,
		keymap:  km,
		hints:   hints,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(s.Label)),
		state:   StateReady,
		width:   80,
	}
}

func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update only consumes spinner ticks, and only while busy, so the
// spinner stops once the bar leaves StateBusy.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	tick, ok := msg.(spinner.TickMsg)
	if !ok || s.state != StateBusy {
		return s, nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(tick)
	return s, cmd
}

func (s *Bar) View() string {
	left := s.status()
	right := s.hints.ShortHelpView(s.keymap.ShortHelp())
	gap := max(1, s.width-lipgloss.Width(left)-lipgloss.Width(right)-2)
	return s.styles.StatusBar.Width(s.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (s *Bar) status() string {
	switch s.state {
	case StateBusy:
		return s.spinner.View() + " " + s.styles.Muted.Render(s.message)
	case StateInfo:
		return s.styles.Success.Render(s.message)
	case StateWarning:
		return s.styles.Warning.Render(s.message)
	case StateError:
		if s.message == "" {
			return s.styles.Error.Render("Error")
		}
		return s.styles.Error.Render("Error: " + s.message)
	}
	if s.entries > 0 {
		return s.styles.Normal.Render("Document loaded")
	}
	return s.styles.Muted.Render("No document")
}

// Show sets the state and message together.
func (s *Bar) Show(state State, message string) {
	s.state = state
	s.message = message
}

// SetBusy shows message beside the spinner and returns the command that
// starts it ticking.
func (s *Bar) SetBusy(message string) tea.Cmd {
	s.Show(StateBusy, message)
	return s.spinner.Tick
}

// Clear returns to StateReady. The entry count is kept.
func (s *Bar) Clear() {
	s.Show(StateReady, "")
}

func (s *Bar) State() State     { return s.state }
func (s *Bar) Message() string  { return s.message }
func (s *Bar) Entries() int     { return s.entries }
func (s *Bar) Width() int       { return s.width }
func (s *Bar) SetEntries(n int) { s.entries = n }

// SetWidth resizes the bar. Hints are clipped when they do not fit.
func (s *Bar) SetWidth(width int) {
	s.width = width
	s.hints.Width = width / 2
}
