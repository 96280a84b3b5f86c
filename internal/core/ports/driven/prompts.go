package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names.
const (
	// PromptAnswer is the retrieval-augmented answer prompt.
	// The template expects {{context}} and {{question}} placeholders.
	PromptAnswer = "answer"
)

// Placeholders substituted into PromptAnswer.
const (
	PlaceholderContext  = "{{context}}"
	PlaceholderQuestion = "{{question}}"
)

// DefaultAnswerTemplate is the built-in PromptAnswer template.
const DefaultAnswerTemplate = `
You are a helpful AI assistant. Use the context below to answer accurately.

Context:
` + PlaceholderContext + `

Question:
` + PlaceholderQuestion + `

Answer:
`
