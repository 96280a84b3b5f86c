package driving

import (
	"context"

	"github.com/custodia-labs/ragchat/internal/core/domain"
)

// DocumentService owns the ingestion lifecycle.
type DocumentService interface {
	// Ingest embeds rawText and stores it in the vector index.
	// Blank text fails with domain.ErrEmptyDocument before any external call.
	// Either the document is fully indexed or nothing observable changes.
	Ingest(ctx context.Context, rawText string) (*domain.Document, error)

	// Current returns the id of the held document, empty when none.
	Current() string

	// Forget drops the remembered document id after the index was reset.
	Forget()
}
