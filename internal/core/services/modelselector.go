package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/ragchat/internal/core/domain"
	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
	"github.com/custodia-labs/ragchat/internal/core/ports/driving"
	"github.com/custodia-labs/ragchat/internal/logger"
)

// Ensure ModelSelector implements the interface.
var _ driving.ModelSelector = (*ModelSelector)(nil)

// ModelSelector picks the generation model for an API key and caches the
// choice per key.
type ModelSelector struct {
	registry     driven.ModelRegistry
	defaultModel domain.ModelDescriptor

	mu    sync.RWMutex
	cache map[string]domain.ModelDescriptor
}

// NewModelSelector creates a selector. An empty defaultModel uses
// domain.DefaultModel.
func NewModelSelector(registry driven.ModelRegistry, defaultModel domain.ModelDescriptor) *ModelSelector {
	if defaultModel == "" {
		defaultModel = domain.DefaultModel
	}
	return &ModelSelector{
		registry:     registry,
		defaultModel: defaultModel,
		cache:        make(map[string]domain.ModelDescriptor),
	}
}

// Select returns the model to use with apiKey. Never fails: when the
// registry cannot be reached the default model is returned with a Warning,
// and that fallback is not cached.
func (s *ModelSelector) Select(ctx context.Context, apiKey string) domain.ModelSelection {
	s.mu.RLock()
	model, ok := s.cache[apiKey]
	s.mu.RUnlock()
	if ok {
		logger.Debug("Model (cached): %s", model)
		return domain.ModelSelection{Model: model, Cached: true}
	}

	names, err := s.registry.ListModels(ctx, apiKey)
	if err != nil {
		warning := fmt.Errorf("%w: %w; using %s", domain.ErrModelListUnavailable, err, s.defaultModel)
		logger.Warn("%v", warning)
		return domain.ModelSelection{Model: s.defaultModel, Warning: warning}
	}

	short := make([]string, 0, len(names))
	for _, name := range names {
		short = append(short, domain.ShortModelName(name))
	}

	model, ok = domain.PreferredModel(short)
	if !ok {
		logger.Debug("Registry returned no models, using %s", s.defaultModel)
		model = s.defaultModel
	}
	logger.Debug("Model selected: %s (from %d listed)", model, len(short))

	s.mu.Lock()
	s.cache[apiKey] = model
	s.mu.Unlock()

	return domain.ModelSelection{Model: model}
}

// Available lists the short names of every model apiKey can use.
func (s *ModelSelector) Available(ctx context.Context, apiKey string) ([]string, error) {
	names, err := s.registry.ListModels(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrModelListUnavailable, err)
	}

	short := make([]string, 0, len(names))
	for _, name := range names {
		short = append(short, domain.ShortModelName(name))
	}
	return short, nil
}

// Invalidate forgets every cached selection.
func (s *ModelSelector) Invalidate() {
	s.mu.Lock()
	s.cache = make(map[string]domain.ModelDescriptor)
	s.mu.Unlock()
}
