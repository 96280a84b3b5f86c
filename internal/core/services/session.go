package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
	"github.com/custodia-labs/ragchat/internal/core/ports/driving"
	"github.com/custodia-labs/ragchat/internal/logger"
)

// Ensure Session implements the interface.
var _ driving.SessionService = (*Session)(nil)

// SessionDeps are the adapters a session runs on.
type SessionDeps struct {
	Embedder  driven.EmbeddingService
	Index     driven.VectorIndex
	Registry  driven.ModelRegistry
	Generator driven.GenerationClient
	Prompts   driven.PromptStore // optional
}

// SessionOptions tune a session. Zero values use the defaults.
type SessionOptions struct {
	Policy       domain.IngestPolicy
	DefaultModel domain.ModelDescriptor
	TopK         int
}

// Session is one ingest-then-ask conversation. It owns its services; two
// sessions share nothing unless they are given the same adapters.
type Session struct {
	index    driven.VectorIndex
	embedder driven.EmbeddingService
	docs     *DocumentService
	query    *QueryService
	selector *ModelSelector
}

// NewSession wires the services of a session.
func NewSession(deps SessionDeps, opts SessionOptions) *Session {
	selector := NewModelSelector(deps.Registry, opts.DefaultModel)
	docs := NewDocumentService(deps.Embedder, deps.Index, opts.Policy)
	query := NewQueryService(
		deps.Embedder,
		deps.Index,
		selector,
		NewPromptAssembler(deps.Prompts),
		deps.Generator,
		opts.TopK,
	)

	return &Session{
		index:    deps.Index,
		embedder: deps.Embedder,
		docs:     docs,
		query:    query,
		selector: selector,
	}
}

// Ingest adds a document to the session.
func (s *Session) Ingest(ctx context.Context, rawText string) (*domain.Document, error) {
	return s.docs.Ingest(ctx, rawText)
}

// Ask answers a question against the session's document.
func (s *Session) Ask(ctx context.Context, question, apiKey string) (*domain.Answer, error) {
	return s.query.Ask(ctx, question, apiKey)
}

// Reset empties the index and forgets the current document. The model
// cache is kept because it depends only on the API key.
func (s *Session) Reset(ctx context.Context) error {
	if err := s.index.Reset(ctx); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	s.docs.Forget()
	logger.Info("Session reset")
	return nil
}

// Count returns the number of index entries.
func (s *Session) Count(ctx context.Context) (int, error) {
	return s.index.Count(ctx)
}

// Status reports what the session holds.
func (s *Session) Status(ctx context.Context) (domain.SessionStatus, error) {
	count, err := s.index.Count(ctx)
	if err != nil {
		return domain.SessionStatus{}, fmt.Errorf("status: %w", err)
	}
	return domain.SessionStatus{
		DocumentID:     s.docs.Current(),
		Entries:        count,
		Policy:         s.docs.Policy(),
		EmbeddingModel: s.embedder.ModelName(),
		Dimensions:     s.embedder.Dimensions(),
	}, nil
}

// Models returns the session's model selector.
func (s *Session) Models() driving.ModelSelector {
	return s.selector
}
