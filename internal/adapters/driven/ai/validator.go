package ai

import (
	"context"

	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.ConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator checks that configured adapters can actually be reached.
type ConfigValidator struct {
	dataDir string
}

// NewConfigValidator creates a validator. dataDir locates the default SQLite index.
func NewConfigValidator(dataDir string) *ConfigValidator {
	return &ConfigValidator{dataDir: dataDir}
}

// ValidateEmbedding pings the configured embedding provider.
func (v *ConfigValidator) ValidateEmbedding(ctx context.Context, config *domain.EmbeddingSettings) error {
	return ValidateEmbeddingConfig(ctx, config)
}

// ValidateIndex opens the configured index backend.
func (v *ConfigValidator) ValidateIndex(ctx context.Context, config *domain.IndexSettings) error {
	return ValidateIndexConfig(ctx, config, v.dataDir)
}
