package driven

import (
	"context"

	"github.com/custodia-labs/ragchat/internal/core/domain"
)

// GenerationClient sends a prompt to a remote completion endpoint.
// One attempt per call; implementations never retry.
type GenerationClient interface {
	// Complete returns the text of the first candidate's first part.
	// Failures are *domain.GenerationAPIError, *domain.GenerationTransportError
	// or domain.ErrGenerationMalformedResponse.
	Complete(ctx context.Context, prompt string, model domain.ModelDescriptor, apiKey string) (string, error)
}
