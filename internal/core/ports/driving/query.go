package driving

import (
	"context"

	"github.com/custodia-labs/ragchat/internal/core/domain"
)

// QueryService answers questions against the ingested document.
type QueryService interface {
	// Ask retrieves the closest passage and asks the generation model.
	// A blank question fails with domain.ErrBlankQuestion and an empty index
	// with domain.ErrEmptyIndex, both without any external call.
	Ask(ctx context.Context, question, apiKey string) (*domain.Answer, error)
}
