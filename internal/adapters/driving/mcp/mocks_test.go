package mcp

import (
	"context"
	"errors"

	"github.com/custodia-labs/ragchat/internal/core/domain"
)

// mockSessionService is a mock implementation of driving.SessionService.
type mockSessionService struct {
	doc     *domain.Document
	answer  *domain.Answer
	status  domain.SessionStatus
	err     error
	resets  int
	lastKey string
	lastQ   string
}

func (m *mockSessionService) Ingest(_ context.Context, rawText string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.doc != nil {
		return m.doc, nil
	}
	m.status.Entries = 1
	return &domain.Document{ID: "doc-1", Content: rawText}, nil
}

func (m *mockSessionService) Ask(_ context.Context, question, apiKey string) (*domain.Answer, error) {
	m.lastQ = question
	m.lastKey = apiKey
	if m.err != nil {
		return nil, m.err
	}
	return m.answer, nil
}

func (m *mockSessionService) Reset(_ context.Context) error {
	m.resets++
	m.status.Entries = 0
	m.status.DocumentID = ""
	return m.err
}

func (m *mockSessionService) Status(_ context.Context) (domain.SessionStatus, error) {
	return m.status, nil
}

// mockModelSelector is a mock implementation of driving.ModelSelector.
type mockModelSelector struct {
	names     []string
	selection domain.ModelSelection
	err       error
}

func (m *mockModelSelector) Select(_ context.Context, _ string) domain.ModelSelection {
	return m.selection
}

func (m *mockModelSelector) Available(_ context.Context, _ string) ([]string, error) {
	return m.names, m.err
}

func (m *mockModelSelector) Invalidate() {}

// mockPromptSource is a mock implementation of PromptSource.
type mockPromptSource struct {
	prompts map[string]string
}

func (m *mockPromptSource) Load(name string) (string, error) {
	if p, ok := m.prompts[name]; ok {
		return p, nil
	}
	return "", errors.New("no such prompt")
}
