// Package services implements the driving port interfaces.
// Services contain the core question-answering logic and orchestrate
// calls to driven ports (adapters).
//
// A Session ties the pieces together: DocumentService ingests text,
// QueryService retrieves the closest passage, ModelSelector picks the
// Gemini model and PromptAssembler builds what is sent to it.
package services
