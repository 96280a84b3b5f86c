package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
	"github.com/custodia-labs/ragchat/internal/core/ports/driving"
	"github.com/custodia-labs/ragchat/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// documentNamespace seeds content-derived document ids.
var documentNamespace = uuid.MustParse("6f1c2e4a-8d3b-4f7e-9a21-4c0b7d3e5f18")

// DocumentID returns the id a document with this content is stored under.
func DocumentID(rawText string) string {
	return uuid.NewSHA1(documentNamespace, []byte(rawText)).String()
}

// DocumentService embeds documents and stores them in the vector index.
// Ingests are serialised; the service remembers only the current id.
type DocumentService struct {
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	policy   domain.IngestPolicy

	mu         sync.Mutex
	current    string
	ingestedAt time.Time
}

// NewDocumentService creates a new document service. An invalid policy
// falls back to reject.
func NewDocumentService(
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	policy domain.IngestPolicy,
) *DocumentService {
	if !policy.IsValid() {
		policy = domain.IngestPolicyReject
	}
	return &DocumentService{
		embedder: embedder,
		index:    index,
		policy:   policy,
	}
}

// Policy returns the active ingest policy.
func (s *DocumentService) Policy() domain.IngestPolicy {
	return s.policy
}

// Ingest embeds rawText and adds it to the index.
func (s *DocumentService) Ingest(ctx context.Context, rawText string) (*domain.Document, error) {
	logger.Section("Ingest")
	defer logger.Timed("Ingest")()

	if strings.TrimSpace(rawText) == "" {
		return nil, domain.ErrEmptyDocument
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := DocumentID(rawText)
	logger.Debug("Document id: %s (%d bytes)", id, len(rawText))
	if n := countTokens(rawText); n >= 0 {
		logger.Debug("Document tokens: ~%d", n)
	}

	count, err := s.index.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("ingest: count index: %w", err)
	}

	if count > 0 {
		switch s.policy {
		case domain.IngestPolicyReplace:
			if id == s.current {
				logger.Debug("Same document already held, nothing to do")
				return &domain.Document{ID: id, Content: rawText, IngestedAt: s.ingestedAt}, nil
			}
		default:
			return nil, domain.ErrDocumentAlreadyIngested
		}
	}

	vectors, err := s.embedder.Embed(ctx, []string{rawText})
	if err != nil {
		return nil, fmt.Errorf("ingest: %w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if len(vectors) != 1 || len(vectors[0]) == 0 {
		return nil, fmt.Errorf("ingest: %w: got %d vectors for 1 text", domain.ErrEmbeddingUnavailable, len(vectors))
	}
	vector := vectors[0]

	added := true
	err = s.index.Add(ctx, id, vector, rawText)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrDuplicateID) && s.policy == domain.IngestPolicyReplace:
		// Held from an earlier run; keep it and drop the rest.
		logger.Debug("Document already indexed")
		added = false
	default:
		return nil, fmt.Errorf("ingest: %w", err)
	}

	if count > 0 {
		if err := s.removeOthers(ctx, id, vector, count); err != nil {
			err = fmt.Errorf("ingest: remove previous document: %w", err)
			if added {
				err = s.rollback(ctx, id, err)
			}
			return nil, err
		}
	}

	s.current = id
	s.ingestedAt = time.Now()
	logger.Info("Ingested document %s", id)

	return &domain.Document{ID: id, Content: rawText, IngestedAt: s.ingestedAt}, nil
}

// removeOthers deletes every entry except keep. The entries are found by
// querying with keep's own vector, which returns all of them.
func (s *DocumentService) removeOthers(ctx context.Context, keep string, vector []float32, previous int) error {
	hits, err := s.index.Query(ctx, vector, previous+1)
	if err != nil {
		return err
	}
	for _, hit := range hits {
		if hit.ID == keep {
			continue
		}
		if err := s.index.Delete(ctx, hit.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		logger.Debug("Removed previous document %s", hit.ID)
	}
	return nil
}

// rollback deletes the entry added by a failed replace so the index
// holds only the previous document again.
func (s *DocumentService) rollback(ctx context.Context, id string, cause error) error {
	if err := s.index.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		logger.Warn("rollback of %s failed: %v", id, err)
		return errors.Join(cause, fmt.Errorf("ingest: roll back %s: %w", id, err))
	}
	logger.Debug("Rolled back %s", id)
	return cause
}

// Current returns the id of the held document, empty when none.
func (s *DocumentService) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Forget drops the remembered document id.
func (s *DocumentService) Forget() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = ""
	s.ingestedAt = time.Time{}
}
