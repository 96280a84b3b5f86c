package domain

import "time"

// Document is one unit of ingested text.
// Created on ingestion and never mutated; it lives in the vector index until
// the owning session is reset.
type Document struct {
	// ID is unique within the index lifetime. Derived from the content so
	// that re-ingesting identical text collides instead of overwriting.
	ID string

	// Content is the raw text as ingested.
	Content string

	// IngestedAt is when the document entered the index.
	IngestedAt time.Time
}

// IngestPolicy decides what happens when a document is ingested while the
// session already holds one.
type IngestPolicy string

// Available ingest policies.
const (
	// IngestPolicyReject fails a second ingest with ErrDocumentAlreadyIngested.
	IngestPolicyReject IngestPolicy = "reject"

	// IngestPolicyReplace swaps the held document for the new one.
	IngestPolicyReplace IngestPolicy = "replace"
)

// IsValid returns true if the policy is recognised.
func (p IngestPolicy) IsValid() bool {
	return p == IngestPolicyReject || p == IngestPolicyReplace
}

// String returns the string representation.
func (p IngestPolicy) String() string {
	return string(p)
}

// Description returns a human-readable description of the policy.
func (p IngestPolicy) Description() string {
	switch p {
	case IngestPolicyReject:
		return "Reject (one document per session)"
	case IngestPolicyReplace:
		return "Replace (new upload replaces the old one)"
	default:
		return unknownDescription
	}
}

// SessionStatus is a snapshot of what a session currently holds.
type SessionStatus struct {
	// DocumentID is the id of the held document, empty when none.
	DocumentID string `json:"document_id,omitempty"`

	// Entries is the number of entries in the vector index.
	Entries int `json:"entries"`

	// Policy is the active ingest policy.
	Policy IngestPolicy `json:"policy"`

	// EmbeddingModel names the embedding model in use.
	EmbeddingModel string `json:"embedding_model"`

	// Dimensions is the embedding vector size.
	Dimensions int `json:"dimensions"`
}
