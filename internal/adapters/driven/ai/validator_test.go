package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
)

func TestConfigValidator_ImplementsInterface(t *testing.T) {
	var _ driven.ConfigValidator = (*ConfigValidator)(nil)
}

func TestConfigValidator_ValidateEmbedding(t *testing.T) {
	v := NewConfigValidator(t.TempDir())
	ctx := context.Background()

	t.Run("local always passes", func(t *testing.T) {
		assert.NoError(t, v.ValidateEmbedding(ctx, &domain.EmbeddingSettings{Provider: domain.EmbeddingProviderLocal}))
	})

	t.Run("reachable ollama passes", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}))
		defer server.Close()

		err := v.ValidateEmbedding(ctx, &domain.EmbeddingSettings{
			Provider: domain.EmbeddingProviderOllama,
			BaseURL:  server.URL,
		})
		assert.NoError(t, err)
	})

	t.Run("failing ollama reports status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		err := v.ValidateEmbedding(ctx, &domain.EmbeddingSettings{
			Provider: domain.EmbeddingProviderOllama,
			BaseURL:  server.URL,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "500")
	})

	t.Run("openai without key fails", func(t *testing.T) {
		assert.Error(t, v.ValidateEmbedding(ctx, &domain.EmbeddingSettings{Provider: domain.EmbeddingProviderOpenAI}))
	})
}

func TestConfigValidator_ValidateIndex(t *testing.T) {
	v := NewConfigValidator(t.TempDir())
	ctx := context.Background()

	assert.NoError(t, v.ValidateIndex(ctx, &domain.IndexSettings{Backend: domain.IndexBackendMemory}))
	assert.NoError(t, v.ValidateIndex(ctx, &domain.IndexSettings{Backend: domain.IndexBackendSQLite}))
	assert.Error(t, v.ValidateIndex(ctx, &domain.IndexSettings{Backend: "chroma"}))
}
