package mcp

import (
	"github.com/custodia-labs/ragchat/internal/core/ports/driving"
)

// PromptSource reads prompt templates by name.
type PromptSource interface {
	Load(name string) (string, error)
}

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Session ingests documents and answers questions.
	Session driving.SessionService

	// Models lists the models an API key can use. Optional.
	Models driving.ModelSelector

	// Prompts exposes prompt templates as resources. Optional.
	Prompts PromptSource

	// APIKey is used by ask and models when the call does not carry one.
	APIKey string
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Session == nil {
		return ErrMissingSessionService
	}
	return nil
}
