package cli

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragchat/internal/core/domain"
)

func TestModelsCmd_MarksSelection(t *testing.T) {
	clearAPIKeyEnv(t)
	models := &MockModelSelector{
		Names:     []string{"gemini-1.0-pro", "gemini-1.5-flash"},
		Selection: domain.ModelSelection{Model: "gemini-1.5-flash"},
	}
	cleanup := setupServices(Services{Models: models})
	defer cleanup()

	out, _, err := execute(t, "models", "--api-key", "k")

	require.NoError(t, err)
	assert.Equal(t, []string{"  gemini-1.0-pro", "* gemini-1.5-flash"}, lines(out))
}

func TestModelsCmd_EmptyList(t *testing.T) {
	clearAPIKeyEnv(t)
	cleanup := setupServices(Services{Models: &MockModelSelector{}})
	defer cleanup()

	out, _, err := execute(t, "models", "--api-key", "k")

	require.NoError(t, err)
	assert.Contains(t, out, "No models listed.")
	assert.Contains(t, out, "Using default: gemini-1.5-flash")
}

func TestModelsCmd_ListFailure(t *testing.T) {
	clearAPIKeyEnv(t)
	models := &MockModelSelector{Err: fmt.Errorf("%w: status 403", domain.ErrModelListUnavailable)}
	cleanup := setupServices(Services{Models: models})
	defer cleanup()

	_, _, err := execute(t, "models", "--api-key", "k")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrModelListUnavailable)
}

func TestModelsCmd_RequiresKey(t *testing.T) {
	clearAPIKeyEnv(t)
	cleanup := setupServices(Services{Models: &MockModelSelector{}})
	defer cleanup()

	_, _, err := execute(t, "models")

	assert.ErrorIs(t, err, domain.ErrMissingAPIKey)
}

func TestModelsCmd_NotConfigured(t *testing.T) {
	cleanup := setupServices(Services{})
	defer cleanup()

	_, _, err := execute(t, "models", "--api-key", "k")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "model selector not configured")
}
