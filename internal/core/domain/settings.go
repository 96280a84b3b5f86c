package domain

import "time"

const unknownDescription = "Unknown"

// EmbeddingProvider identifies the service that turns text into vectors.
type EmbeddingProvider string

// Available embedding providers.
const (
	// EmbeddingProviderLocal is the built-in hashing embedder. Needs no network.
	EmbeddingProviderLocal EmbeddingProvider = "local"

	// EmbeddingProviderOllama is a local Ollama instance.
	EmbeddingProviderOllama EmbeddingProvider = "ollama"

	// EmbeddingProviderOpenAI is the OpenAI cloud API.
	EmbeddingProviderOpenAI EmbeddingProvider = "openai"
)

// IsValid returns true if the provider is recognised.
func (p EmbeddingProvider) IsValid() bool {
	switch p {
	case EmbeddingProviderLocal, EmbeddingProviderOllama, EmbeddingProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p EmbeddingProvider) RequiresAPIKey() bool {
	return p == EmbeddingProviderOpenAI
}

// IsRemote returns true if embedding calls leave the process.
func (p EmbeddingProvider) IsRemote() bool {
	return p == EmbeddingProviderOllama || p == EmbeddingProviderOpenAI
}

// String returns the string representation.
func (p EmbeddingProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p EmbeddingProvider) Description() string {
	switch p {
	case EmbeddingProviderLocal:
		return "Local (hashing, offline)"
	case EmbeddingProviderOllama:
		return "Ollama (local server)"
	case EmbeddingProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// IndexBackend identifies the vector index implementation.
type IndexBackend string

// Available index backends.
const (
	// IndexBackendMemory keeps vectors in process memory.
	IndexBackendMemory IndexBackend = "memory"

	// IndexBackendSQLite stores vectors in an embedded SQLite database.
	IndexBackendSQLite IndexBackend = "sqlite"

	// IndexBackendPgvector stores vectors in PostgreSQL with pgvector.
	IndexBackendPgvector IndexBackend = "pgvector"
)

// IsValid returns true if the backend is recognised.
func (b IndexBackend) IsValid() bool {
	switch b {
	case IndexBackendMemory, IndexBackendSQLite, IndexBackendPgvector:
		return true
	default:
		return false
	}
}

// RequiresDSN returns true if the backend cannot run without a DSN.
func (b IndexBackend) RequiresDSN() bool {
	return b == IndexBackendPgvector
}

// String returns the string representation.
func (b IndexBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b IndexBackend) Description() string {
	switch b {
	case IndexBackendMemory:
		return "Memory (cosine, brute force)"
	case IndexBackendSQLite:
		return "SQLite (embedded)"
	case IndexBackendPgvector:
		return "PostgreSQL + pgvector"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider EmbeddingProvider `validate:"required,oneof=local ollama openai"`

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama and OpenAI-compatible APIs).
	BaseURL string `validate:"omitempty,url"`

	// APIKey is the API key (for OpenAI).
	APIKey string `validate:"required_if=Provider openai"`

	// Dimensions is the vector size for the local embedder.
	Dimensions int `validate:"gte=0,lte=8192"`
}

// IndexSettings holds vector index configuration.
type IndexSettings struct {
	// Backend is the vector index implementation.
	Backend IndexBackend `validate:"required,oneof=memory sqlite pgvector"`

	// DSN is a SQLite path or PostgreSQL connection string.
	DSN string `validate:"required_if=Backend pgvector"`
}

// IngestSettings holds document ingestion configuration.
type IngestSettings struct {
	// Policy decides what a second ingest does.
	Policy IngestPolicy `validate:"required,oneof=reject replace"`
}

// GenerationSettings holds remote generation configuration.
type GenerationSettings struct {
	// BaseURL is the REST root of the generation API.
	BaseURL string `validate:"required,url"`

	// DefaultModel is used when model selection falls back.
	DefaultModel ModelDescriptor `validate:"required"`

	// Timeout bounds each request. Zero means only the caller's context applies.
	Timeout time.Duration `validate:"gte=0"`

	// RequestsPerMinute limits outbound calls. Zero disables the limiter.
	RequestsPerMinute int `validate:"gte=0"`
}

// QuerySettings holds retrieval configuration.
type QuerySettings struct {
	// TopK is how many neighbours are retrieved. Only the best one becomes context.
	TopK int `validate:"gte=1,lte=100"`
}

// AppSettings holds all application settings.
type AppSettings struct {
	Embedding  EmbeddingSettings
	Index      IndexSettings
	Ingest     IngestSettings
	Generation GenerationSettings
	Query      QuerySettings
}

// Defaults used by DefaultAppSettings.
const (
	DefaultGenerationBaseURL = "https://generativelanguage.googleapis.com/v1"
	DefaultLocalDimensions   = 384
	DefaultRequestsPerMinute = 60
	DefaultTopK              = 1
)

// DefaultAppSettings returns settings that work offline for ingestion:
// local embeddings, in-memory index, reject policy.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider:   EmbeddingProviderLocal,
			Dimensions: DefaultLocalDimensions,
		},
		Index: IndexSettings{
			Backend: IndexBackendMemory,
		},
		Ingest: IngestSettings{
			Policy: IngestPolicyReject,
		},
		Generation: GenerationSettings{
			BaseURL:           DefaultGenerationBaseURL,
			DefaultModel:      DefaultModel,
			RequestsPerMinute: DefaultRequestsPerMinute,
		},
		Query: QuerySettings{
			TopK: DefaultTopK,
		},
	}
}

// AllEmbeddingProviders returns all embedding providers.
func AllEmbeddingProviders() []EmbeddingProvider {
	return []EmbeddingProvider{
		EmbeddingProviderLocal,
		EmbeddingProviderOllama,
		EmbeddingProviderOpenAI,
	}
}

// AllIndexBackends returns all vector index backends.
func AllIndexBackends() []IndexBackend {
	return []IndexBackend{
		IndexBackendMemory,
		IndexBackendSQLite,
		IndexBackendPgvector,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[EmbeddingProvider]string {
	return map[EmbeddingProvider]string{
		EmbeddingProviderLocal:  "hashing-384",
		EmbeddingProviderOllama: "all-minilm",
		EmbeddingProviderOpenAI: "text-embedding-3-small",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
