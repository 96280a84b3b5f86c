package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider or backend type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrEmbeddingUnavailable indicates the embedding call failed.
	// The current ingest or ask is abandoned; nothing is indexed or queried.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrEmptyDocument indicates ingestion was called with blank text.
	ErrEmptyDocument = errors.New("document is empty")

	// ErrDuplicateID indicates an index insertion collided with an existing id.
	ErrDuplicateID = errors.New("duplicate document id")

	// ErrDocumentAlreadyIngested indicates the session already holds a document
	// and the ingest policy rejects a second one until the session is reset.
	ErrDocumentAlreadyIngested = errors.New("a document is already ingested; reset the session first")

	// ErrDimensionMismatch indicates a vector does not match the index dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrModelListUnavailable indicates the model registry could not be read.
	// Never returned as a failure: the selector falls back to the default model
	// and carries this as a warning.
	ErrModelListUnavailable = errors.New("model list unavailable")

	// ErrGenerationMalformedResponse indicates the completion reply lacked
	// candidates[0].content.parts[0].text.
	ErrGenerationMalformedResponse = errors.New("malformed generation response")

	// ErrEmptyIndex indicates ask was called before any successful ingest.
	ErrEmptyIndex = errors.New("please upload a document first")

	// ErrBlankQuestion indicates ask was called with an empty question.
	ErrBlankQuestion = errors.New("please enter a question")

	// ErrMissingAPIKey indicates no generation API key was supplied.
	ErrMissingAPIKey = errors.New("API key is required")
)

// GenerationAPIError is returned when the completion endpoint answers with a
// non-success status and a structured error message.
type GenerationAPIError struct {
	Status  int
	Message string
}

func (e *GenerationAPIError) Error() string {
	return fmt.Sprintf("generation API error (status %d): %s", e.Status, e.Message)
}

// GenerationTransportError is returned when the completion call failed below
// the API layer: the request could not be sent, or a non-success reply had an
// unparseable body. Status is 0 when no response was received.
type GenerationTransportError struct {
	Status int
	Err    error
}

func (e *GenerationTransportError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("generation transport error (status %d)", e.Status)
	}
	return fmt.Sprintf("generation transport error (status %d): %v", e.Status, e.Err)
}

func (e *GenerationTransportError) Unwrap() error {
	return e.Err
}

// actionable are the errors a user can resolve themselves (upload a
// document, type a question, supply a key) rather than failures of an
// external service.
var actionable = []error{
	ErrEmptyIndex,
	ErrBlankQuestion,
	ErrEmptyDocument,
	ErrMissingAPIKey,
	ErrDocumentAlreadyIngested,
}

// ActionableCause returns the user-resolvable sentinel err wraps, or nil.
func ActionableCause(err error) error {
	for _, target := range actionable {
		if errors.Is(err, target) {
			return target
		}
	}
	return nil
}

// IsUserActionable reports whether err is a warning the user can resolve.
func IsUserActionable(err error) bool {
	return ActionableCause(err) != nil
}
