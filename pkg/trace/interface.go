// Package trace exports sanitized operation traces for offline analysis.
package trace

import (
	"context"
	"time"
)

// Exporter defines the interface for exporting operation traces.
// Implementations must be safe for concurrent use.
type Exporter interface {
	// Export writes a trace record to the configured destination.
	Export(ctx context.Context, record *Record) error

	// Close flushes any buffered records and releases resources.
	Close() error
}

// Record is a sanitized operation trace. It carries ids and timings only,
// never record content or credentials.
type Record struct {
	// Timestamp is the operation start time.
	Timestamp time.Time `json:"timestamp"`

	// OperationID uniquely identifies this operation for correlation.
	OperationID string `json:"operationId"`

	// Operation is the operation type: "enrich_evidence", "assess_argument".
	Operation string `json:"operation"`

	// DurationMs is the total operation duration in milliseconds.
	DurationMs int64 `json:"durationMs"`

	// Status is "success" or "error".
	Status string `json:"status"`

	// Spans contains per-stage timing and status.
	Spans []Span `json:"spans,omitempty"`

	// ErrorType classifies the error when Status == "error":
	// rate_limit, remote, validation, storage, timeout, network, unknown.
	ErrorType string `json:"errorType,omitempty"`

	// RecordID is the target record's id.
	RecordID int64 `json:"recordId,omitempty"`
}

// Span is a single stage within an operation.
type Span struct {
	// Name is the stage name (call, merge).
	Name string `json:"name"`

	// DurationMs is the stage duration in milliseconds.
	DurationMs int64 `json:"durationMs"`

	// OK indicates success (true) or failure (false).
	OK bool `json:"ok"`
}
