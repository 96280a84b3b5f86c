package services

import (
	"strings"

	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
	"github.com/custodia-labs/ragchat/internal/logger"
)

// PromptAssembler turns retrieved context and a question into the text sent
// to the generation model. Context and question are inserted verbatim.
type PromptAssembler struct {
	store driven.PromptStore
}

// NewPromptAssembler creates an assembler. store is optional; without it the
// built-in template is used.
func NewPromptAssembler(store driven.PromptStore) *PromptAssembler {
	return &PromptAssembler{store: store}
}

// Build renders the answer prompt.
func (a *PromptAssembler) Build(context, question string) string {
	return render(a.template(), context, question)
}

// template returns the stored template when it is usable, else the default.
// Stored templates are framed by a leading and trailing newline like the default.
func (a *PromptAssembler) template() string {
	if a.store == nil {
		return driven.DefaultAnswerTemplate
	}

	tmpl, err := a.store.Load(driven.PromptAnswer)
	if err != nil {
		logger.Warn("load answer prompt: %v; using built-in prompt", err)
		return driven.DefaultAnswerTemplate
	}
	if !strings.Contains(tmpl, driven.PlaceholderContext) || !strings.Contains(tmpl, driven.PlaceholderQuestion) {
		logger.Warn("answer prompt lacks %s or %s; using built-in prompt",
			driven.PlaceholderContext, driven.PlaceholderQuestion)
		return driven.DefaultAnswerTemplate
	}
	return "\n" + strings.TrimSpace(tmpl) + "\n"
}

// render substitutes both placeholders in a single pass, so placeholder text
// inside the context or question is left as typed.
func render(tmpl, context, question string) string {
	r := strings.NewReplacer(
		driven.PlaceholderContext, context,
		driven.PlaceholderQuestion, question,
	)
	return r.Replace(tmpl)
}
