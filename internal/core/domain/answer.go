package domain

// Answer is the result of asking a question against the ingested document.
type Answer struct {
	// Text is the generated answer.
	Text string `json:"answer"`

	// Model is the generation model that produced the answer.
	Model ModelDescriptor `json:"model"`

	// Context is the retrieved passage sent to the model, empty if none.
	Context string `json:"context,omitempty"`

	// SourceID is the id of the retrieved document.
	SourceID string `json:"source_id,omitempty"`

	// Score is the similarity of the retrieved passage to the question.
	Score float64 `json:"score"`

	// Prompt is the assembled prompt as sent.
	Prompt string `json:"-"`

	// Warnings are non-fatal conditions met on the way, such as a model
	// selection fallback.
	Warnings []string `json:"warnings,omitempty"`
}
