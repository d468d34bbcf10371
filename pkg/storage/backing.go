// Package storage provides persistence backings for the casefile document.
//
// The entire application state is one JSON blob: it is loaded once at startup
// and rewritten in full on every mutation. A Backing only needs to store and
// return that single blob.
package storage

import "context"

// Backing is the interface for durable storage of the casefile document.
// Implementations must tolerate Save being called on every store mutation.
type Backing interface {
	// Load returns the most recently saved document.
	// Returns (nil, nil) if nothing has been saved yet.
	Load(ctx context.Context) ([]byte, error)

	// Save durably replaces the stored document with data.
	Save(ctx context.Context, data []byte) error

	// Close releases any resources held by the backing.
	Close() error
}
