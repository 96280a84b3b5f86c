// Package tui provides an interactive terminal user interface for ragchat.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/ragchat/internal/core/ports/driving"
)

// Ports aggregates what the TUI needs from the core.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Session ingests documents and answers questions.
	Session driving.SessionService

	// APIKey pre-fills the API key field. Optional.
	APIKey string

	// PromptEvents delivers the names of prompt templates reloaded from
	// disk. Optional; closed when watching stops.
	PromptEvents <-chan string
}

// NewPorts creates a new Ports aggregate for session.
func NewPorts(session driving.SessionService) *Ports {
	return &Ports{Session: session}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Session == nil {
		return ErrMissingSessionService
	}
	return nil
}
