// Package chat provides the single-page chat view: API key, document
// upload, question and answer.
package chat

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ragchat/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/ragchat/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/ragchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driving"
	"github.com/custodia-labs/ragchat/internal/normalisers/plaintext"
)

// chromeHeight is the number of rows used by everything except the answer pane.
const chromeHeight = 17

// View is the chat page.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	help      help.Model
	statusbar *status.Bar

	apiKey   *input.Field
	document *input.Field
	question *input.Field
	focus    messages.Field

	answer viewport.Model
	last   *domain.Answer

	session driving.SessionService
	reader  *plaintext.Normaliser
	ctx     context.Context

	busy   bool
	err    error
	width  int
	height int
}

// NewView creates the chat view. apiKey pre-fills the key field.
func NewView(s *styles.Styles, km *keymap.KeyMap, session driving.SessionService, apiKey string) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	keyField := input.NewField(s, input.Options{
		Label:       "Gemini API key",
		Placeholder: "Paste your API key",
		Masked:      true,
		CharLimit:   256,
	})
	keyField.SetValue(apiKey)

	v := &View{
		styles:    s,
		keymap:    km,
		help:      help.New(),
		statusbar: status.NewBar(s, km),
		apiKey:    keyField,
		document: input.NewField(s, input.Options{
			Label:       "Upload document",
			Placeholder: "Path to a .txt file",
		}),
		question: input.NewField(s, input.Options{
			Label:       "Ask a question",
			Placeholder: "What would you like to know?",
		}),
		answer:  viewport.New(60, 5),
		session: session,
		reader:  plaintext.New(plaintext.DefaultMaxBytes),
		ctx:     context.Background(),
		width:   80,
		height:  24,
	}

	// Start where the user has something to do.
	v.focus = messages.FieldDocument
	if strings.TrimSpace(apiKey) == "" {
		v.focus = messages.FieldAPIKey
	}
	v.field(v.focus).Focus()
	return v
}

// WithContext sets the context used for session calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init starts the cursor and loads the session status.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.field(v.focus).Init(), v.statusCmd())
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.DocumentIngested:
		v.busy = false
		if msg.Err != nil {
			v.showError(msg.Err)
			return v, nil
		}
		v.err = nil
		v.statusbar.Show(status.StateInfo, fmt.Sprintf("Uploaded %s", filepath.Base(msg.Path)))
		return v, tea.Batch(v.statusCmd(), v.moveFocus(messages.FieldQuestion))

	case messages.AnswerReceived:
		v.busy = false
		if msg.Err != nil {
			v.showError(msg.Err)
			return v, nil
		}
		v.err = nil
		v.setAnswer(msg.Answer)
		if len(msg.Answer.Warnings) > 0 {
			v.statusbar.Show(status.StateWarning, msg.Answer.Warnings[0])
		} else {
			v.statusbar.Clear()
		}
		return v, nil

	case messages.SessionReset:
		v.busy = false
		if msg.Err != nil {
			v.showError(msg.Err)
			return v, nil
		}
		v.last = nil
		v.answer.SetContent("")
		v.statusbar.Show(status.StateInfo, "Session reset")
		return v, tea.Batch(v.statusCmd(), v.moveFocus(messages.FieldDocument))

	case messages.StatusLoaded:
		if msg.Err == nil {
			v.statusbar.SetEntries(msg.Status.Entries)
		}
		return v, nil

	case messages.PromptReloaded:
		if !v.busy {
			v.statusbar.Show(status.StateInfo, fmt.Sprintf("Reloaded %s prompt", msg.Name))
		}
		return v, nil

	case messages.ErrorOccurred:
		v.busy = false
		v.showError(msg.Err)
		return v, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	v.statusbar, cmd = v.statusbar.Update(msg)
	cmds = append(cmds, cmd)
	cmds = append(cmds, v.updateFocused(msg))
	return v, tea.Batch(cmds...)
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Next):
		return v, v.moveFocus(v.focus.Next())
	case key.Matches(msg, v.keymap.Prev):
		return v, v.moveFocus(v.focus.Prev())
	case key.Matches(msg, v.keymap.Help):
		v.help.ShowAll = !v.help.ShowAll
		return v, nil
	case key.Matches(msg, v.keymap.ScrollUp):
		v.answer.HalfViewUp()
		return v, nil
	case key.Matches(msg, v.keymap.ScrollDown):
		v.answer.HalfViewDown()
		return v, nil
	case key.Matches(msg, v.keymap.Reset):
		if v.busy {
			return v, nil
		}
		v.busy = true
		return v, tea.Batch(v.statusbar.SetBusy("Resetting..."), v.resetCmd())
	case key.Matches(msg, v.keymap.Submit):
		return v, v.submit()
	}
	return v, v.updateFocused(msg)
}

// submit acts on the focused field.
func (v *View) submit() tea.Cmd {
	if v.busy {
		return nil
	}

	switch v.focus {
	case messages.FieldAPIKey:
		return v.moveFocus(messages.FieldDocument)

	case messages.FieldDocument:
		path := strings.TrimSpace(v.document.Value())
		if path == "" {
			v.statusbar.Show(status.StateWarning, "Please choose a document to upload")
			return nil
		}
		v.busy = true
		return tea.Batch(v.statusbar.SetBusy("Indexing document..."), v.ingestCmd(path))

	case messages.FieldQuestion:
		v.busy = true
		return tea.Batch(v.statusbar.SetBusy("Thinking..."), v.askCmd(v.question.Value(), v.apiKey.Value()))
	}
	return nil
}

func (v *View) ingestCmd(path string) tea.Cmd {
	ctx, session, reader := v.ctx, v.session, v.reader
	return func() tea.Msg {
		text, err := reader.ReadFile(expandHome(path))
		if err != nil {
			return messages.DocumentIngested{Path: path, Err: err}
		}
		doc, err := session.Ingest(ctx, text)
		return messages.DocumentIngested{Path: path, Document: doc, Err: err}
	}
}

func (v *View) askCmd(question, apiKey string) tea.Cmd {
	ctx, session := v.ctx, v.session
	return func() tea.Msg {
		answer, err := session.Ask(ctx, question, strings.TrimSpace(apiKey))
		return messages.AnswerReceived{Question: question, Answer: answer, Err: err}
	}
}

func (v *View) resetCmd() tea.Cmd {
	ctx, session := v.ctx, v.session
	return func() tea.Msg {
		return messages.SessionReset{Err: session.Reset(ctx)}
	}
}

func (v *View) statusCmd() tea.Cmd {
	ctx, session := v.ctx, v.session
	return func() tea.Msg {
		st, err := session.Status(ctx)
		return messages.StatusLoaded{Status: st, Err: err}
	}
}

func (v *View) field(f messages.Field) *input.Field {
	switch f {
	case messages.FieldAPIKey:
		return v.apiKey
	case messages.FieldDocument:
		return v.document
	default:
		return v.question
	}
}

func (v *View) moveFocus(f messages.Field) tea.Cmd {
	v.field(v.focus).Blur()
	v.focus = f
	return v.field(f).Focus()
}

func (v *View) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch v.focus {
	case messages.FieldAPIKey:
		v.apiKey, cmd = v.apiKey.Update(msg)
	case messages.FieldDocument:
		v.document, cmd = v.document.Update(msg)
	case messages.FieldQuestion:
		v.question, cmd = v.question.Update(msg)
	}
	return cmd
}

// showError puts err on the status bar. Problems the user can fix are
// warnings; everything else is an error.
func (v *View) showError(err error) {
	v.err = err
	if cause := domain.ActionableCause(err); cause != nil {
		v.statusbar.Show(status.StateWarning, sentence(cause.Error()))
		return
	}
	v.statusbar.Show(status.StateError, err.Error())
}

func (v *View) setAnswer(a *domain.Answer) {
	v.last = a
	body := v.styles.Answer.Width(v.answer.Width - 2).Render(a.Text)
	meta := v.styles.Muted.Render(string(a.Model)+" · ") +
		v.styles.ScoreStyle(a.Score).Render(fmt.Sprintf("score %.3f", a.Score))
	v.answer.SetContent(body + "\n\n" + meta)
	v.answer.GotoTop()
}

// View renders the chat page.
func (v *View) View() string {
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		v.styles.Title.Render("ragchat"),
		v.styles.Muted.Render("  Ask questions about your document"),
	)

	answerTitle := v.styles.Label.Render("Answer")
	var pane string
	if v.last == nil {
		pane = v.styles.Muted.Render("Upload a document, then ask a question.")
	} else {
		pane = v.answer.View()
	}

	sections := []string{
		header,
		"",
		v.apiKey.View(),
		v.document.View(),
		v.question.View(),
		"",
		answerTitle,
		pane,
	}
	if v.help.ShowAll {
		sections = append(sections, "", v.help.View(v.keymap))
	}
	sections = append(sections, v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the terminal dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.apiKey.SetWidth(width - 2)
	v.document.SetWidth(width - 2)
	v.question.SetWidth(width - 2)
	v.statusbar.SetWidth(width)
	v.help.Width = width

	v.answer.Width = max(20, width)
	v.answer.Height = max(3, height-chromeHeight)
	if v.last != nil {
		v.setAnswer(v.last)
	}
}

// Focus returns the focused field.
func (v *View) Focus() messages.Field {
	return v.focus
}

// Busy reports whether a session call is in flight.
func (v *View) Busy() bool {
	return v.busy
}

// Err returns the last error shown.
func (v *View) Err() error {
	return v.err
}

// LastAnswer returns the answer on display, if any.
func (v *View) LastAnswer() *domain.Answer {
	return v.last
}

// StatusBar returns the status bar.
func (v *View) StatusBar() *status.Bar {
	return v.statusbar
}

func sentence(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
