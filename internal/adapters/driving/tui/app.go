package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ragchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragchat/internal/adapters/driving/tui/views/chat"
)

var _ tea.Model = (*App)(nil)

// App is the bubbletea model for the chat. It owns global keys and the
// prompt reload subscription and hands everything else to the chat view.
type App struct {
	ctx    context.Context
	ports  *Ports
	keymap *keymap.KeyMap
	chat   *chat.View

	// sized is set by the first window size message; nothing is drawn
	// before it.
	sized bool
}

// NewApp builds the chat around ports.Session.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	km := keymap.DefaultKeyMap()
	return &App{
		ctx:    context.Background(),
		ports:  ports,
		keymap: km,
		chat:   chat.NewView(styles.DefaultStyles(), km, ports.Session, ports.APIKey),
	}, nil
}

// WithContext sets the context session calls run under.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chat.WithContext(ctx)
	return a
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(tea.SetWindowTitle("ragchat"), a.chat.Init(), a.nextPromptReload())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil
	case tea.KeyMsg:
		if keymap.Matches(msg.String(), a.keymap.Quit) {
			return a, tea.Quit
		}
	case messages.Quit:
		return a, tea.Quit
	case messages.PromptReloaded:
		a.chat, cmd = a.chat.Update(msg)
		return a, tea.Batch(cmd, a.nextPromptReload())
	}
	a.chat, cmd = a.chat.Update(msg)
	return a, cmd
}

func (a *App) View() string {
	if !a.sized {
		return "Initialising..."
	}
	return a.chat.View()
}

// nextPromptReload waits for one reload event. The subscription ends when
// the channel closes.
func (a *App) nextPromptReload() tea.Cmd {
	events := a.ports.PromptEvents
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		if name, ok := <-events; ok {
			return messages.PromptReloaded{Name: name}
		}
		return nil
	}
}

// Run shows the chat on the alternate screen until the user quits or the
// app's context is cancelled. opts are appended to the defaults.
func (a *App) Run(opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(a.ctx)}, opts...)
	_, err := tea.NewProgram(a, opts...).Run()
	return err
}

// Chat returns the chat view.
func (a *App) Chat() *chat.View {
	return a.chat
}

// Ready reports whether a window size has been received.
func (a *App) Ready() bool {
	return a.sized
}

// SetDimensions resizes the chat view.
func (a *App) SetDimensions(width, height int) {
	a.sized = true
	a.chat.SetDimensions(width, height)
}
