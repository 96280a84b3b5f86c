// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/ragchat/internal/core/domain"
)

// Field identifies an input on the chat view.
type Field int

const (
	// FieldAPIKey is the masked Gemini API key input.
	FieldAPIKey Field = iota
	// FieldDocument is the document path input.
	FieldDocument
	// FieldQuestion is the question input.
	FieldQuestion
)

// fieldCount is the number of focusable fields.
const fieldCount = 3

// Next returns the field after f, wrapping around.
func (f Field) Next() Field {
	return (f + 1) % fieldCount
}

// Prev returns the field before f, wrapping around.
func (f Field) Prev() Field {
	return (f + fieldCount - 1) % fieldCount
}

// String returns the string representation of the field.
func (f Field) String() string {
	switch f {
	case FieldAPIKey:
		return "api_key"
	case FieldDocument:
		return "document"
	case FieldQuestion:
		return "question"
	default:
		return "unknown"
	}
}

// IngestRequested is a command to read and ingest the document at Path.
type IngestRequested struct {
	Path string
}

// DocumentIngested carries the outcome of an ingest.
type DocumentIngested struct {
	Path     string
	Document *domain.Document
	Err      error
}

// AskRequested is a command to answer Question.
type AskRequested struct {
	Question string
}

// AnswerReceived carries the outcome of an ask.
type AnswerReceived struct {
	Question string
	Answer   *domain.Answer
	Err      error
}

// SessionReset signals the index was emptied.
type SessionReset struct {
	Err error
}

// StatusLoaded carries a snapshot of the session.
type StatusLoaded struct {
	Status domain.SessionStatus
	Err    error
}

// PromptReloaded signals a prompt template file changed on disk.
type PromptReloaded struct {
	Name string
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
