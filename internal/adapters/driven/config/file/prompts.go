package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
)

var _ driven.PromptStore = (*PromptStore)(nil)

// builtinPrompts are written to the prompt directory the first time it is
// used and served whenever a file cannot be read.
var builtinPrompts = map[string]string{
	driven.PromptAnswer: strings.TrimSpace(driven.DefaultAnswerTemplate),
}

var promptReadme = fmt.Sprintf(`# ragchat Prompts

This directory contains the prompt ragchat sends to Gemini.

## Files

- %[1]sanswer.txt%[1]s - Wraps the retrieved context and your question

## Customisation

Edit the file to change how answers are requested. The chat view and the
MCP server pick up edits while running; other commands read the file on
each run.

## Placeholders

- %[1]s%[2]s%[1]s - The retrieved document text
- %[1]s%[3]s%[1]s - The question as typed

Both placeholders must be present. A template missing either one is ignored
and the built-in prompt is used instead.
`, "`", driven.PlaceholderContext, driven.PlaceholderQuestion)

// PromptStore serves prompt templates from <dir>/<name>.txt. The directory
// is seeded on first Load, not by the constructor. Templates are cached
// until Reload.
type PromptStore struct {
	dir string

	seedOnce sync.Once
	seedErr  error

	mu    sync.RWMutex
	cache map[string]string
}

// NewPromptStore returns a store rooted at dir, or ~/.ragchat/prompts when
// dir is empty.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		root, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(root, "prompts")
	}
	return &PromptStore{dir: dir, cache: make(map[string]string)}, nil
}

// Load returns the named template. A built-in prompt is returned when its
// file is missing or unreadable; other names fail.
func (s *PromptStore) Load(name string) (string, error) {
	s.seedOnce.Do(func() { s.seedErr = s.seed() })
	if s.seedErr != nil {
		return s.builtin(name, fmt.Errorf("prompt store init failed: %w", s.seedErr))
	}

	if prompt, ok := s.cached(name); ok {
		return prompt, nil
	}

	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return s.builtin(name, fmt.Errorf("load prompt %q: %w", name, err))
	}
	prompt := strings.TrimSpace(string(data))

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.cache[name]; ok {
		return existing, nil
	}
	s.cache[name] = prompt
	return prompt, nil
}

// Reload drops cached templates so the next Load reads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	clear(s.cache)
	s.mu.Unlock()
}

// Dir returns the prompt directory.
func (s *PromptStore) Dir() string {
	return s.dir
}

func (s *PromptStore) cached(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	prompt, ok := s.cache[name]
	return prompt, ok
}

func (s *PromptStore) builtin(name string, cause error) (string, error) {
	if prompt, ok := builtinPrompts[name]; ok {
		return prompt, nil
	}
	return "", cause
}

func (s *PromptStore) path(name string) string {
	return filepath.Join(s.dir, name+".txt")
}

// seed creates the directory and any missing default files. Existing
// files are never touched.
func (s *PromptStore) seed() error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("create prompt directory: %w", err)
	}
	for name, content := range builtinPrompts {
		if err := createExclusive(s.path(name), content+"\n"); err != nil {
			return fmt.Errorf("create default prompt %q: %w", name, err)
		}
	}
	if err := createExclusive(filepath.Join(s.dir, "README.md"), promptReadme); err != nil {
		return fmt.Errorf("create prompt readme: %w", err)
	}
	return nil
}

// createExclusive writes content to a new file. An existing file is left
// as is.
func createExclusive(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
