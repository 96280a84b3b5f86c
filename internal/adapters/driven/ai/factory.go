// Package ai provides factory functions that turn AppSettings into the
// driven adapters a session runs on.
package ai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/custodia-labs/ragchat/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ragchat/internal/adapters/driven/embedding/hashing"
	ollamaembed "github.com/custodia-labs/ragchat/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/ragchat/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/ragchat/internal/adapters/driven/gemini"
	"github.com/custodia-labs/ragchat/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ragchat/internal/adapters/driven/storage/pgvector"
	"github.com/custodia-labs/ragchat/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
	"github.com/custodia-labs/ragchat/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// indexFileName is the SQLite index file used when no DSN is configured.
const indexFileName = "index.db"

// InitResult contains the adapters built from settings.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	VectorIndex      driven.VectorIndex
	PromptStore      *file.PromptStore
	Gemini           *gemini.Client
	Warnings         []string // Non-fatal issues that caused fallback.
	FellBack         bool     // True if the local embedder replaced the configured one.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		_ = r.EmbeddingService.Close()
	}
	if r.VectorIndex != nil {
		_ = r.VectorIndex.Close()
	}
}

// Initialise builds every adapter a session needs. dataDir holds the
// default SQLite index and the prompts directory.
func Initialise(ctx context.Context, settings *domain.AppSettings, dataDir string) (*InitResult, error) {
	if settings == nil {
		defaults := domain.DefaultAppSettings()
		settings = &defaults
	}

	result := &InitResult{}

	embedder, warning := CreateAndValidateEmbeddingService(ctx, &settings.Embedding)
	result.EmbeddingService = embedder
	if warning != "" {
		result.Warnings = append(result.Warnings, warning)
		result.FellBack = true
	}

	index, err := CreateVectorIndex(ctx, &settings.Index, dataDir)
	if err != nil {
		result.Close()
		return nil, err
	}
	result.VectorIndex = index

	promptDir := ""
	if dataDir != "" {
		promptDir = filepath.Join(dataDir, "prompts")
	}
	prompts, err := file.NewPromptStore(promptDir)
	if err != nil {
		// The assembler falls back to the built-in template.
		result.Warnings = append(result.Warnings, fmt.Sprintf("prompt store unavailable: %v", err))
	} else {
		result.PromptStore = prompts
	}

	result.Gemini = CreateGeminiClient(&settings.Generation)

	return result, nil
}

// CreateAndValidateEmbeddingService creates the configured embedding service
// and pings it. When creation or the ping fails, the local hashing embedder
// is returned with a warning explaining the fallback.
func CreateAndValidateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, string) {
	svc, err := CreateEmbeddingService(settings)
	if err == nil {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		err = svc.Ping(pingCtx)
		cancel()
		if err != nil {
			_ = svc.Close()
			err = fmt.Errorf("service unreachable (%w)", err)
		}
	}
	if err == nil {
		logger.Debug("embedding: %s (%d dims)", svc.ModelName(), svc.Dimensions())
		return svc, ""
	}

	fallback := localEmbedding(settings)
	warning := fmt.Sprintf("%v: %v; using local %s embeddings. Run 'ragchat settings' to fix",
		domain.ErrEmbeddingUnavailable, err, fallback.ModelName())
	logger.Warn("%s", warning)
	return fallback, warning
}

// CreateEmbeddingService creates the embedding service named by settings.
// Nil settings select the local embedder.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || settings.Provider == "" {
		return localEmbedding(settings), nil
	}

	switch settings.Provider {
	case domain.EmbeddingProviderLocal:
		svc, err := hashing.NewEmbeddingService(hashing.Config{Dimensions: settings.Dimensions})
		if err != nil {
			return nil, err
		}
		return svc, nil

	case domain.EmbeddingProviderOllama:
		return createOllamaEmbedding(settings), nil

	case domain.EmbeddingProviderOpenAI:
		return createOpenAIEmbedding(settings)

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// localEmbedding returns a hashing embedder, keeping the configured
// dimensions when they are usable.
func localEmbedding(settings *domain.EmbeddingSettings) driven.EmbeddingService {
	dims := 0
	if settings != nil && settings.Dimensions > 0 {
		dims = settings.Dimensions
	}
	svc, err := hashing.NewEmbeddingService(hashing.Config{Dimensions: dims})
	if err != nil {
		svc, _ = hashing.NewEmbeddingService(hashing.Config{})
	}
	return svc
}

// createOllamaEmbedding creates an Ollama embedding service.
func createOllamaEmbedding(settings *domain.EmbeddingSettings) driven.EmbeddingService {
	dimensions := domain.EmbeddingDimensions()[settings.Model]
	if dimensions == 0 {
		dimensions = ollamaembed.DefaultDimensions
	}

	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
	})
}

// createOpenAIEmbedding creates an OpenAI embedding service.
func createOpenAIEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	dimensions := domain.EmbeddingDimensions()[settings.Model]

	svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:     settings.APIKey,
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
	})
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// CreateVectorIndex opens the index backend named by settings. An empty
// SQLite DSN uses index.db under dataDir, or memory when dataDir is empty.
func CreateVectorIndex(ctx context.Context, settings *domain.IndexSettings, dataDir string) (driven.VectorIndex, error) {
	if settings == nil || settings.Backend == "" {
		return memory.NewVectorIndex(), nil
	}

	switch settings.Backend {
	case domain.IndexBackendMemory:
		return memory.NewVectorIndex(), nil

	case domain.IndexBackendSQLite:
		dsn := settings.DSN
		if dsn == "" && dataDir != "" {
			dsn = filepath.Join(dataDir, indexFileName)
		}
		index, err := sqlite.NewVectorIndex(dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite index: %w", err)
		}
		logger.Debug("index: sqlite at %s", index.Path())
		return index, nil

	case domain.IndexBackendPgvector:
		dsn := settings.DSN
		if dsn == "" {
			dsn = os.Getenv("DATABASE_URL")
		}
		index, err := pgvector.NewVectorIndex(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("open pgvector index: %w", err)
		}
		logger.Debug("index: pgvector")
		return index, nil

	default:
		return nil, fmt.Errorf("unsupported index backend %q: %w", settings.Backend, domain.ErrInvalidInput)
	}
}

// CreateGeminiClient creates the model registry and generation client.
func CreateGeminiClient(settings *domain.GenerationSettings) *gemini.Client {
	if settings == nil {
		return gemini.NewClient(gemini.Config{})
	}
	return gemini.NewClient(gemini.Config{
		BaseURL:           settings.BaseURL,
		Timeout:           settings.Timeout,
		RequestsPerMinute: settings.RequestsPerMinute,
	})
}

// ValidateEmbeddingConfig creates the configured embedding service and pings it.
func ValidateEmbeddingConfig(ctx context.Context, settings *domain.EmbeddingSettings) error {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return svc.Ping(pingCtx)
}

// ValidateIndexConfig opens the configured index and reads its size.
func ValidateIndexConfig(ctx context.Context, settings *domain.IndexSettings, dataDir string) error {
	index, err := CreateVectorIndex(ctx, settings, dataDir)
	if err != nil {
		return err
	}
	_, countErr := index.Count(ctx)
	return errors.Join(countErr, index.Close())
}
