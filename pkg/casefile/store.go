// Package casefile implements the record store for a local-first
// case-management document: named collections of typed records, generic CRUD
// by id, scalar settings, and full-document persistence on every mutation.
package casefile

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"casefile/pkg/metrics"
	"casefile/pkg/storage"
)

// Store owns the in-memory document and funnels every mutation through a
// single lock, then persists the full document before returning. Readers get
// snapshots; no caller ever holds a live reference into the document.
type Store struct {
	mu        sync.Mutex
	doc       Document
	backing   storage.Backing
	lastID    int64
	collector metrics.Collector
}

// Option configures a Store at Open time.
type Option func(*Store)

// WithCollector attaches a metrics collector. Defaults to the no-op collector.
func WithCollector(c metrics.Collector) Option {
	return func(s *Store) {
		s.collector = c
	}
}

// Open loads the document from the backing, or starts an empty one if the
// backing holds nothing yet.
func Open(ctx context.Context, backing storage.Backing, opts ...Option) (*Store, error) {
	s := &Store{
		backing:   backing,
		collector: metrics.NewNoopCollector(),
	}
	for _, opt := range opts {
		opt(s)
	}

	data, err := backing.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	if data == nil {
		s.doc = NewDocument()
	} else {
		var doc Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse stored document: %w", err)
		}
		s.doc = doc
	}
	s.lastID = s.doc.maxID()

	return s, nil
}

// Snapshot returns a deep copy of the current document.
func (s *Store) Snapshot() Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// SetTheme replaces the active theme and persists.
func (s *Store) SetTheme(ctx context.Context, theme string) error {
	return s.setScalar(ctx, func(d *Document) { d.Theme = theme })
}

// SetAPIKey replaces the remote-service credential and persists. An empty
// key disables enrichment.
func (s *Store) SetAPIKey(ctx context.Context, key string) error {
	return s.setScalar(ctx, func(d *Document) { d.APIKey = key })
}

// APIKey returns the configured remote-service credential, if any.
func (s *Store) APIKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.APIKey
}

// SetPromptTemplate stores a per-operation prompt template override.
func (s *Store) SetPromptTemplate(ctx context.Context, operation, template string) error {
	return s.setScalar(ctx, func(d *Document) {
		if d.PromptTemplates == nil {
			d.PromptTemplates = make(map[string]string)
		}
		d.PromptTemplates[operation] = template
	})
}

// PromptTemplate returns the stored template override for an operation, or
// "" when the caller should fall back to its built-in template.
func (s *Store) PromptTemplate(operation string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.PromptTemplates[operation]
}

func (s *Store) setScalar(ctx context.Context, apply func(*Document)) error {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	apply(&s.doc)
	err := s.persistLocked(ctx)
	s.recordOp(ctx, "set_scalar", start, err)
	return err
}

// persistLocked writes the whole document to the backing. Callers must hold
// s.mu. The in-memory change stands even when the persist fails; the error
// is reported to the caller.
func (s *Store) persistLocked(ctx context.Context) error {
	data, err := s.doc.marshal()
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	if err := s.backing.Save(ctx, data); err != nil {
		return fmt.Errorf("persist document: %w", err)
	}
	return nil
}

// nextIDLocked returns a fresh process-unique id. Ids are unix-millisecond
// timestamps, bumped past the last issued id so rapid inserts stay unique
// and monotonic.
func (s *Store) nextIDLocked() int64 {
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// noteID keeps the id generator ahead of externally assigned ids.
func (s *Store) noteIDLocked(id int64) {
	if id > s.lastID {
		s.lastID = id
	}
}

func (s *Store) recordOp(ctx context.Context, op string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
		s.collector.RecordError(ctx, op, "storage")
	}
	s.collector.RecordOperation(ctx, op, status, time.Since(start).Milliseconds())
}
