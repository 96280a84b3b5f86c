package chat

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragchat/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/ragchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragchat/internal/core/domain"
)

// mockSession implements driving.SessionService for testing.
type mockSession struct {
	ingested  []string
	questions []string
	keys      []string
	resets    int

	ingestErr error
	askErr    error
	answer    *domain.Answer
	entries   int
}

func (m *mockSession) Ingest(_ context.Context, rawText string) (*domain.Document, error) {
	if m.ingestErr != nil {
		return nil, m.ingestErr
	}
	m.ingested = append(m.ingested, rawText)
	m.entries = 1
	return &domain.Document{ID: "doc-1", Content: rawText}, nil
}

func (m *mockSession) Ask(_ context.Context, question, apiKey string) (*domain.Answer, error) {
	m.questions = append(m.questions, question)
	m.keys = append(m.keys, apiKey)
	if m.askErr != nil {
		return nil, m.askErr
	}
	if m.answer != nil {
		return m.answer, nil
	}
	return &domain.Answer{Text: "The deadline is Friday.", Model: domain.DefaultModel, Score: 0.9}, nil
}

func (m *mockSession) Reset(_ context.Context) error {
	m.resets++
	m.entries = 0
	return nil
}

func (m *mockSession) Status(_ context.Context) (domain.SessionStatus, error) {
	return domain.SessionStatus{Entries: m.entries}, nil
}

func press(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func typeText(v *View, text string) {
	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

// run executes cmd and feeds every resulting message back into the view,
// following batches.
func run(t *testing.T, v *View, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			run(t, v, c)
		}
	case messages.DocumentIngested, messages.AnswerReceived, messages.SessionReset, messages.StatusLoaded:
		_, next := v.Update(msg)
		run(t, v, next)
	}
}

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewView_FocusDependsOnKey(t *testing.T) {
	withKey := NewView(nil, nil, &mockSession{}, "key")
	withoutKey := NewView(nil, nil, &mockSession{}, "  ")

	assert.Equal(t, messages.FieldDocument, withKey.Focus())
	assert.Equal(t, messages.FieldAPIKey, withoutKey.Focus())
}

func TestView_FocusCycles(t *testing.T) {
	v := NewView(nil, nil, &mockSession{}, "")

	v.Update(press(tea.KeyTab))
	assert.Equal(t, messages.FieldDocument, v.Focus())

	v.Update(press(tea.KeyTab))
	assert.Equal(t, messages.FieldQuestion, v.Focus())

	v.Update(press(tea.KeyTab))
	assert.Equal(t, messages.FieldAPIKey, v.Focus())

	v.Update(press(tea.KeyShiftTab))
	assert.Equal(t, messages.FieldQuestion, v.Focus())
}

func TestView_EnterOnKeyMovesToDocument(t *testing.T) {
	v := NewView(nil, nil, &mockSession{}, "")
	typeText(v, "secret")

	_, cmd := v.Update(press(tea.KeyEnter))
	_ = cmd

	assert.Equal(t, messages.FieldDocument, v.Focus())
	assert.False(t, v.Busy())
}

func TestView_UploadAndAsk(t *testing.T) {
	session := &mockSession{}
	v := NewView(nil, nil, session, "secret")
	v.SetDimensions(100, 40)
	path := writeDoc(t, "The deadline is Friday.\r\n")

	typeText(v, path)
	_, cmd := v.Update(press(tea.KeyEnter))
	assert.True(t, v.Busy())
	run(t, v, cmd)

	require.Len(t, session.ingested, 1)
	assert.Equal(t, "The deadline is Friday.\n", session.ingested[0])
	assert.False(t, v.Busy())
	assert.Equal(t, messages.FieldQuestion, v.Focus())
	assert.Equal(t, status.StateInfo, v.StatusBar().State())
	assert.Equal(t, "Uploaded notes.txt", v.StatusBar().Message())
	assert.Equal(t, 1, v.StatusBar().Entries())

	typeText(v, "When is the deadline?")
	_, cmd = v.Update(press(tea.KeyEnter))
	run(t, v, cmd)

	require.Len(t, session.questions, 1)
	assert.Equal(t, "When is the deadline?", session.questions[0])
	assert.Equal(t, "secret", session.keys[0])
	require.NotNil(t, v.LastAnswer())
	assert.Contains(t, v.View(), "The deadline is Friday.")
	assert.Equal(t, status.StateReady, v.StatusBar().State())
}

func TestView_UploadRequiresPath(t *testing.T) {
	session := &mockSession{}
	v := NewView(nil, nil, session, "secret")

	_, cmd := v.Update(press(tea.KeyEnter))

	assert.Nil(t, cmd)
	assert.Empty(t, session.ingested)
	assert.Equal(t, status.StateWarning, v.StatusBar().State())
	assert.Equal(t, "Please choose a document to upload", v.StatusBar().Message())
}

func TestView_UploadUnreadableFile(t *testing.T) {
	session := &mockSession{}
	v := NewView(nil, nil, session, "secret")

	typeText(v, filepath.Join(t.TempDir(), "missing.txt"))
	_, cmd := v.Update(press(tea.KeyEnter))
	run(t, v, cmd)

	assert.Empty(t, session.ingested)
	assert.Error(t, v.Err())
	assert.Equal(t, status.StateError, v.StatusBar().State())
}

func TestView_UserActionableErrorsAreWarnings(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"empty index", errors.Join(errors.New("ask"), domain.ErrEmptyIndex), "Please upload a document first"},
		{"blank question", domain.ErrBlankQuestion, "Please enter a question"},
		{"missing key", domain.ErrMissingAPIKey, "API key is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewView(nil, nil, &mockSession{askErr: tt.err}, "secret")
			v.Update(press(tea.KeyTab))

			_, cmd := v.Update(press(tea.KeyEnter))
			run(t, v, cmd)

			assert.Equal(t, status.StateWarning, v.StatusBar().State())
			assert.Equal(t, tt.want, v.StatusBar().Message())
			assert.Nil(t, v.LastAnswer())
		})
	}
}

func TestView_GenerationErrorIsError(t *testing.T) {
	apiErr := &domain.GenerationAPIError{Status: 403, Message: "API key not valid"}
	v := NewView(nil, nil, &mockSession{askErr: apiErr}, "secret")
	v.Update(press(tea.KeyTab))

	_, cmd := v.Update(press(tea.KeyEnter))
	run(t, v, cmd)

	assert.Equal(t, status.StateError, v.StatusBar().State())
	assert.Contains(t, v.StatusBar().Message(), "API key not valid")
}

func TestView_AnswerWarningsShown(t *testing.T) {
	answer := &domain.Answer{
		Text:     "ok",
		Model:    domain.DefaultModel,
		Warnings: []string{"model list unavailable; using gemini-1.5-flash"},
	}
	v := NewView(nil, nil, &mockSession{answer: answer}, "secret")
	v.Update(press(tea.KeyTab))

	_, cmd := v.Update(press(tea.KeyEnter))
	run(t, v, cmd)

	assert.Equal(t, status.StateWarning, v.StatusBar().State())
	assert.Contains(t, v.StatusBar().Message(), "model list unavailable")
}

func TestView_SubmitIgnoredWhileBusy(t *testing.T) {
	session := &mockSession{}
	v := NewView(nil, nil, session, "secret")
	v.Update(press(tea.KeyTab))

	_, first := v.Update(press(tea.KeyEnter))
	_, second := v.Update(press(tea.KeyEnter))

	assert.NotNil(t, first)
	assert.Nil(t, second)
}

func TestView_Reset(t *testing.T) {
	session := &mockSession{entries: 1}
	v := NewView(nil, nil, session, "secret")
	v.Update(messages.AnswerReceived{Answer: &domain.Answer{Text: "old"}})

	_, cmd := v.Update(press(tea.KeyCtrlR))
	run(t, v, cmd)

	assert.Equal(t, 1, session.resets)
	assert.Nil(t, v.LastAnswer())
	assert.Equal(t, "Session reset", v.StatusBar().Message())
	assert.Equal(t, 0, v.StatusBar().Entries())
	assert.Equal(t, messages.FieldDocument, v.Focus())
}

func TestView_HelpToggle(t *testing.T) {
	v := NewView(nil, nil, &mockSession{}, "secret")
	v.SetDimensions(120, 40)

	assert.NotContains(t, v.View(), "scroll up")

	v.Update(press(tea.KeyF1))
	assert.Contains(t, v.View(), "scroll up")
}

func TestView_SetDimensions(t *testing.T) {
	v := NewView(nil, nil, &mockSession{}, "")

	v.SetDimensions(100, 40)

	assert.Equal(t, 100, v.answer.Width)
	assert.Equal(t, 40-chromeHeight, v.answer.Height)
	assert.Equal(t, 100, v.StatusBar().Width())
}

func TestView_SetDimensions_Small(t *testing.T) {
	v := NewView(nil, nil, &mockSession{}, "")

	v.SetDimensions(10, 5)

	assert.Equal(t, 20, v.answer.Width)
	assert.Equal(t, 3, v.answer.Height)
}

func TestSentence(t *testing.T) {
	assert.Equal(t, "Please enter a question", sentence("please enter a question"))
	assert.Equal(t, "", sentence(""))
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "notes.txt"), expandHome("~/notes.txt"))
	assert.Equal(t, "/tmp/notes.txt", expandHome("/tmp/notes.txt"))
	assert.Equal(t, "~user/notes.txt", expandHome("~user/notes.txt"))
}
