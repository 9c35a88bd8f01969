package model

import "time"

// Operation classifies a text-client call for token accounting.
type Operation string

const (
	OpResponseGeneration   Operation = "response_generation"
	OpEmbeddingsGeneration Operation = "embeddings_generation"
)

// TokenUsageRecord is one line of the append-only token audit trail. It is an
// advisory channel: failures persisting a record never affect the outcome of
// the call that produced it.
type TokenUsageRecord struct {
	At           time.Time `json:"at"`
	Op           Operation `json:"op"`
	Model        string    `json:"model"`
	InputTokens  int64     `json:"input_tokens"`
	OutputTokens int64     `json:"output_tokens"`
}
