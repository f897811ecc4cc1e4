package store

import (
	"context"
	"time"
)

// RequestEventData captures one call made against the session server.
type RequestEventData struct {
	RequestID    string
	SessionID    string
	BlockID      string
	Operation    string
	StatusCode   int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// RequestEvent is a journaled RequestEventData with its ordering fields.
type RequestEvent struct {
	RequestEventData
	Sequence  int64
	Timestamp time.Time
}

// OperationSummary aggregates the journal for one operation.
type OperationSummary struct {
	Operation     string
	Total         int
	Failures      int
	MeanLatencyMs float64
}

// EventRepo provides append and query access to the request journal.
// Implementations must be safe for concurrent use: entries are appended from
// Bubble Tea command goroutines.
type EventRepo interface {
	// AppendRequest records a server call.
	AppendRequest(ctx context.Context, data RequestEventData) error

	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]RequestEvent, error)

	// Summary returns per-operation totals ordered by operation name.
	Summary(ctx context.Context) ([]OperationSummary, error)

	// Prune deletes all but the keep most recent entries.
	Prune(ctx context.Context, keep int) error

	// Purge deletes every entry and returns how many were removed.
	Purge(ctx context.Context) (int, error)
}
