package models

import "time"

// TimeLayout is the fixed timestamp format written into chat logs.
const TimeLayout = "2006-01-02 15:04:05"

// Roles recorded in a conversation transcript.
const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// Turn is a single utterance. Immutable once created; content may span
// multiple lines.
type Turn struct {
	Role      string `json:"role"`
	Timestamp string `json:"timestamp"`
	Content   string `json:"content"`
}

// NewTurn stamps content with the fixed timestamp layout.
func NewTurn(role, content string, at time.Time) Turn {
	return Turn{Role: role, Timestamp: at.Format(TimeLayout), Content: content}
}

// Conversation is an ordered transcript; insertion order is chronological.
type Conversation []Turn

// RetrievedPassage is one similarity-search candidate. Transient: only the
// source ids are surfaced to the user, as provenance.
type RetrievedPassage struct {
	Text     string  `json:"text"`
	SourceID string  `json:"source_id"`
	Score    float32 `json:"score"`
}

// Backend names one of the two model integrations.
type Backend string

const (
	// BackendOpenAI is the memory-bearing conversational backend.
	BackendOpenAI Backend = "openai"
	// BackendGoogleAI is the stateless per-call document-QA backend.
	BackendGoogleAI Backend = "googleai"
)

// ParseBackend validates a backend name from an API request.
func ParseBackend(s string) (Backend, bool) {
	switch Backend(s) {
	case BackendOpenAI, BackendGoogleAI:
		return Backend(s), true
	}
	return "", false
}
