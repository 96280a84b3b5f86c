package hashing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragchat/internal/adapters/driven/storage/similarity"
	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
)

func TestEmbeddingService_ImplementsInterface(t *testing.T) {
	var _ driven.EmbeddingService = (*EmbeddingService)(nil)
}

func TestNewEmbeddingService_Defaults(t *testing.T) {
	s, err := NewEmbeddingService(Config{})

	require.NoError(t, err)
	assert.Equal(t, 384, s.Dimensions())
	assert.Equal(t, "hashing-384", s.ModelName())
	assert.NoError(t, s.Ping(context.Background()))
	assert.NoError(t, s.Close())
}

func TestNewEmbeddingService_NegativeDimensions(t *testing.T) {
	_, err := NewEmbeddingService(Config{Dimensions: -1})

	assert.Error(t, err)
}

func TestEmbed_ShapeAndOrder(t *testing.T) {
	s, err := NewEmbeddingService(Config{Dimensions: 64})
	require.NoError(t, err)

	texts := []string{"The sky is blue.", "Grass is green.", ""}
	vectors, err := s.Embed(context.Background(), texts)

	require.NoError(t, err)
	require.Len(t, vectors, 3)
	for _, v := range vectors {
		assert.Len(t, v, 64)
	}

	single, err := s.Embed(context.Background(), []string{"Grass is green."})
	require.NoError(t, err)
	assert.Equal(t, vectors[1], single[0])
}

func TestEmbed_Deterministic(t *testing.T) {
	a, _ := NewEmbeddingService(Config{})
	b, _ := NewEmbeddingService(Config{})

	va, err := a.Embed(context.Background(), []string{"Retrieval augmented generation"})
	require.NoError(t, err)
	vb, err := b.Embed(context.Background(), []string{"Retrieval augmented generation"})
	require.NoError(t, err)

	assert.Equal(t, va, vb)
	assert.InDelta(t, 1.0, similarity.Cosine(va[0], vb[0]), 1e-6)
}

func TestEmbed_RelatedTextsScoreHigher(t *testing.T) {
	s, _ := NewEmbeddingService(Config{})

	vectors, err := s.Embed(context.Background(), []string{
		"The sky is blue.",
		"What color is the sky?",
		"Quarterly revenue grew by four percent.",
	})
	require.NoError(t, err)

	related := similarity.Cosine(vectors[0], vectors[1])
	unrelated := similarity.Cosine(vectors[2], vectors[1])
	assert.Greater(t, related, 0.2)
	assert.Greater(t, related, unrelated)
}

func TestEmbed_CaseInsensitive(t *testing.T) {
	s, _ := NewEmbeddingService(Config{})

	vectors, err := s.Embed(context.Background(), []string{"BLUE SKY", "blue sky"})

	require.NoError(t, err)
	assert.Equal(t, vectors[0], vectors[1])
}

func TestEmbed_EmptyTextIsZeroVector(t *testing.T) {
	s, _ := NewEmbeddingService(Config{Dimensions: 8})

	vectors, err := s.Embed(context.Background(), []string{"the of and"})

	require.NoError(t, err)
	assert.Equal(t, make([]float32, 8), vectors[0])
}

func TestEmbed_CancelledContext(t *testing.T) {
	s, _ := NewEmbeddingService(Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Embed(ctx, []string{"x"})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"sky", "blue"}, tokenize("The sky is blue."))
	assert.Equal(t, []string{"don't", "panic", "42"}, tokenize("Don't panic, 42!"))
	assert.Empty(t, tokenize("   "))
}
