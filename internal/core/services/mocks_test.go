package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbedder implements driven.EmbeddingService for testing.
// Each text maps to vectors[text], or to a vector derived from its length.
type mockEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float32
	err     error
	calls   int
	empty   bool
}

func (m *mockEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if m.empty {
		return nil, nil
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if v, ok := m.vectors[text]; ok {
			out[i] = v
			continue
		}
		out[i] = []float32{1, float32(len(text) % 7), 0.5}
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int              { return 3 }
func (m *mockEmbedder) ModelName() string            { return "mock-embed" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

func (m *mockEmbedder) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockRegistry implements driven.ModelRegistry for testing.
type mockRegistry struct {
	mu     sync.Mutex
	models []string
	err    error
	calls  int
	keys   []string
}

func (m *mockRegistry) ListModels(_ context.Context, apiKey string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.keys = append(m.keys, apiKey)
	if m.err != nil {
		return nil, m.err
	}
	return m.models, nil
}

func (m *mockRegistry) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockGenerator implements driven.GenerationClient for testing.
type mockGenerator struct {
	text       string
	err        error
	calls      int
	lastPrompt string
	lastModel  domain.ModelDescriptor
	lastKey    string
}

func (m *mockGenerator) Complete(_ context.Context, prompt string, model domain.ModelDescriptor, apiKey string) (string, error) {
	m.calls++
	m.lastPrompt = prompt
	m.lastModel = model
	m.lastKey = apiKey
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	template string
	err      error
}

func (m *mockPromptStore) Load(_ string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.template, nil
}

func (m *mockPromptStore) Reload() {}

// faultyIndex wraps a VectorIndex and injects errors.
type faultyIndex struct {
	driven.VectorIndex
	addErr    error
	countErr  error
	queryErr  error
	deleteErr error

	// failDeleteOf limits deleteErr to one id when set.
	failDeleteOf string
}

func (f *faultyIndex) Add(ctx context.Context, id string, v []float32, payload string) error {
	if f.addErr != nil {
		return f.addErr
	}
	return f.VectorIndex.Add(ctx, id, v, payload)
}

func (f *faultyIndex) Count(ctx context.Context) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.VectorIndex.Count(ctx)
}

func (f *faultyIndex) Query(ctx context.Context, v []float32, k int) ([]driven.VectorHit, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.VectorIndex.Query(ctx, v, k)
}

func (f *faultyIndex) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil && (f.failDeleteOf == "" || f.failDeleteOf == id) {
		return f.deleteErr
	}
	return f.VectorIndex.Delete(ctx, id)
}

// Compile-time checks.
var (
	_ driven.EmbeddingService = (*mockEmbedder)(nil)
	_ driven.ModelRegistry    = (*mockRegistry)(nil)
	_ driven.GenerationClient = (*mockGenerator)(nil)
	_ driven.PromptStore      = (*mockPromptStore)(nil)
)
