package driving

import (
	"context"

	"github.com/custodia-labs/ragchat/internal/core/domain"
)

// ModelSelector picks the generation model for an API key.
type ModelSelector interface {
	// Select never fails: registry problems yield the default model with
	// a warning in the returned selection.
	Select(ctx context.Context, apiKey string) domain.ModelSelection

	// Available lists the short names of the models the key can use.
	Available(ctx context.Context, apiKey string) ([]string, error)

	// Invalidate clears the cached selection.
	Invalidate()
}
