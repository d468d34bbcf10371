package casefile

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ExportEnvelope wraps the document for export with provenance stamps. The
// document itself is carried verbatim, exactly as persisted.
type ExportEnvelope struct {
	ID         string    `json:"id"`
	ExportedAt time.Time `json:"exportedAt"`
	Document   Document  `json:"document"`
}

// Export serializes the current document inside a stamped envelope.
func (s *Store) Export() ([]byte, error) {
	env := ExportEnvelope{
		ID:         uuid.New().String(),
		ExportedAt: time.Now().UTC(),
		Document:   s.Snapshot(),
	}
	return json.MarshalIndent(env, "", "  ")
}

// Import validates data and fully replaces the current state with it, then
// persists. It accepts either a bare document or an export envelope. The
// document must carry at least the evidence and missions collections;
// anything else is rejected with a ValidationError before any mutation.
//
// After a successful import all derived state held by callers (graph
// projections, cached snapshots) is stale and must be rebuilt.
func (s *Store) Import(ctx context.Context, data []byte) error {
	data, err := unwrapEnvelope(data)
	if err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return &ValidationError{Reason: fmt.Sprintf("document is not valid JSON: %v", err)}
	}
	for _, key := range requiredImportKeys {
		if _, ok := raw[key]; !ok {
			return validationErrorf(key, "required collection missing from document")
		}
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return &ValidationError{Reason: fmt.Sprintf("document does not match the expected shape: %v", err)}
	}

	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc = doc
	s.lastID = doc.maxID()
	perr := s.persistLocked(ctx)
	s.recordOp(ctx, "import", start, perr)
	return perr
}

// unwrapEnvelope returns the inner document bytes when data is an export
// envelope, or data unchanged when it is a bare document.
func unwrapEnvelope(data []byte) ([]byte, error) {
	var probe struct {
		Document json.RawMessage `json:"document"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("import payload is not valid JSON: %v", err)}
	}
	if len(probe.Document) > 0 {
		return probe.Document, nil
	}
	return data, nil
}
