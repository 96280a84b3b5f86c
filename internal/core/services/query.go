package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
	"github.com/custodia-labs/ragchat/internal/core/ports/driving"
	"github.com/custodia-labs/ragchat/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// QueryService answers a question in one pass: retrieve the closest
// passage, pick a model, build the prompt and ask for a completion.
type QueryService struct {
	embedder  driven.EmbeddingService
	index     driven.VectorIndex
	selector  driving.ModelSelector
	assembler *PromptAssembler
	generator driven.GenerationClient
	topK      int
}

// NewQueryService creates a new query service. topK below 1 uses
// domain.DefaultTopK; only the best hit becomes context.
func NewQueryService(
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	selector driving.ModelSelector,
	assembler *PromptAssembler,
	generator driven.GenerationClient,
	topK int,
) *QueryService {
	if topK < 1 {
		topK = domain.DefaultTopK
	}
	if assembler == nil {
		assembler = NewPromptAssembler(nil)
	}
	return &QueryService{
		embedder:  embedder,
		index:     index,
		selector:  selector,
		assembler: assembler,
		generator: generator,
		topK:      topK,
	}
}

// Ask answers question using the indexed document and apiKey.
func (s *QueryService) Ask(ctx context.Context, question, apiKey string) (*domain.Answer, error) {
	logger.Section("Ask")
	defer logger.Timed("Ask")()
	logger.Debug("Question: %q", question)

	if strings.TrimSpace(question) == "" {
		return nil, domain.ErrBlankQuestion
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, domain.ErrMissingAPIKey
	}

	count, err := s.index.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("ask: count index: %w", err)
	}
	if count == 0 {
		return nil, domain.ErrEmptyIndex
	}

	vectors, err := s.embedder.Embed(ctx, []string{question})
	if err != nil {
		return nil, fmt.Errorf("ask: %w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if len(vectors) != 1 || len(vectors[0]) == 0 {
		return nil, fmt.Errorf("ask: %w: got %d vectors for 1 text", domain.ErrEmbeddingUnavailable, len(vectors))
	}

	hits, err := s.index.Query(ctx, vectors[0], s.topK)
	if err != nil {
		return nil, fmt.Errorf("ask: query index: %w", err)
	}
	logger.Debug("Retrieved %d hit(s)", len(hits))

	answer := &domain.Answer{}
	if len(hits) > 0 {
		answer.Context = hits[0].Payload
		answer.SourceID = hits[0].ID
		answer.Score = hits[0].Score
		logger.Debug("Context from %s (score %.4f)", answer.SourceID, answer.Score)
	}

	selection := s.selector.Select(ctx, apiKey)
	answer.Model = selection.Model
	if selection.Warning != nil {
		answer.Warnings = append(answer.Warnings, selection.Warning.Error())
	}

	answer.Prompt = s.assembler.Build(answer.Context, question)
	if n := countTokens(answer.Prompt); n >= 0 {
		logger.Debug("Prompt tokens: ~%d", n)
	}

	text, err := s.generator.Complete(ctx, answer.Prompt, selection.Model, apiKey)
	if err != nil {
		logger.Warn("Generation failed: %v", err)
		return nil, fmt.Errorf("ask: %w", err)
	}
	answer.Text = text
	logger.Info("Answered with %s", answer.Model)

	return answer, nil
}
