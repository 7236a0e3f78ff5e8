// Package transcript records one document per webhook exchange for offline
// analysis.
package transcript

import (
	"context"
	"time"
)

// Entry is one question/answer exchange.
type Entry struct {
	RequestID string    `json:"requestId"`
	Kind      string    `json:"kind"`
	Utterance string    `json:"utterance"`
	Provider  string    `json:"provider,omitempty"`
	Answer    string    `json:"answer"`
	Fallback  bool      `json:"fallback"`
	Timestamp time.Time `json:"timestamp"`
}

// Sink stores entries. Implementations must be safe for concurrent use; the
// orchestrator records asynchronously and ignores failures beyond logging.
type Sink interface {
	Record(ctx context.Context, entry *Entry) error
}
