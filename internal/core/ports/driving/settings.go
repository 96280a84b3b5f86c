package driving

import (
	"context"

	"github.com/custodia-labs/ragchat/internal/core/domain"
)

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, defaults filled in.
	Get() (*domain.AppSettings, error)

	// Save validates and persists application settings.
	Save(settings *domain.AppSettings) error

	// Set updates a single configuration key from its string form.
	Set(key, value string) error

	// Keys lists the configuration keys Set accepts.
	Keys() []string

	// Validate checks the given settings.
	Validate(settings *domain.AppSettings) error

	// Check validates the current settings and, when possible, that the
	// configured embedding provider and index can be reached.
	Check(ctx context.Context) error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
