package driven

import (
	"context"

	"github.com/custodia-labs/ragchat/internal/core/domain"
)

// ConfigValidator checks that configured adapters are reachable, beyond the
// structural checks done on the settings themselves.
type ConfigValidator interface {
	// ValidateEmbedding creates the embedding provider and pings it.
	ValidateEmbedding(ctx context.Context, config *domain.EmbeddingSettings) error

	// ValidateIndex opens the index backend and closes it again.
	ValidateIndex(ctx context.Context, config *domain.IndexSettings) error
}
