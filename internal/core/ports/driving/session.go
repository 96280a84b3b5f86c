package driving

import (
	"context"

	"github.com/custodia-labs/ragchat/internal/core/domain"
)

// SessionService is the caller-facing surface of one RAG session.
// A session owns its vector index; separate sessions share nothing.
type SessionService interface {
	// Ingest adds a document to the session.
	Ingest(ctx context.Context, rawText string) (*domain.Document, error)

	// Ask answers a question using the session's document.
	Ask(ctx context.Context, question, apiKey string) (*domain.Answer, error)

	// Reset clears the session's index.
	Reset(ctx context.Context) error

	// Status reports what the session holds.
	Status(ctx context.Context) (domain.SessionStatus, error)
}
