// Package llm provides the remote text/JSON generation clients used for
// record enrichment, plus the retrying call wrapper every enrichment goes
// through.
package llm

import "context"

// Client is the interface for a text/JSON generation service.
type Client interface {
	// Complete sends a prompt and returns the raw completion text.
	Complete(ctx context.Context, prompt string) (string, error)

	// CompleteWithSchema sends a prompt and unmarshals the JSON response
	// into schema, which must be a pointer to the target value. A malformed
	// JSON response is a hard failure and is never retried.
	CompleteWithSchema(ctx context.Context, prompt string, schema any) error
}
