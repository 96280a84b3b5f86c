package driven

import "context"

// ModelRegistry lists the generation models available to an API key.
type ModelRegistry interface {
	// ListModels returns fully qualified model names (e.g. "models/gemini-pro")
	// in the order the registry returned them.
	ListModels(ctx context.Context, apiKey string) ([]string, error)
}
