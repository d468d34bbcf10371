package casefile

import (
	"context"
	"time"
)

// Record is any entity stored in a named collection, addressable by its
// integer id.
type Record interface {
	RecordID() int64
}

// Collection describes one named collection of the document: how to reach
// its slice, how to stamp an id onto a record, and its ordering policy.
// The generic CRUD operations below are written once against this descriptor
// instead of being duplicated per entity type.
type Collection[T Record] struct {
	Key     string
	get     func(*Document) []T
	set     func(*Document, []T)
	setID   func(*T, int64)
	prepend bool // newest-first collections prepend on insert
}

// The document's collections. Evidence and action items are kept
// reverse-chronological (newest first); the rest keep insertion order.
var (
	Evidences = Collection[Evidence]{
		Key:     KeyEvidence,
		get:     func(d *Document) []Evidence { return d.Evidence },
		set:     func(d *Document, v []Evidence) { d.Evidence = v },
		setID:   func(e *Evidence, id int64) { e.ID = id },
		prepend: true,
	}
	ActionItems = Collection[ActionItem]{
		Key:     KeyActionItems,
		get:     func(d *Document) []ActionItem { return d.ActionItems },
		set:     func(d *Document, v []ActionItem) { d.ActionItems = v },
		setID:   func(a *ActionItem, id int64) { a.ID = id },
		prepend: true,
	}
	Missions = Collection[Mission]{
		Key:   KeyMissions,
		get:   func(d *Document) []Mission { return d.Missions },
		set:   func(d *Document, v []Mission) { d.Missions = v },
		setID: func(m *Mission, id int64) { m.ID = id },
	}
	Goals = Collection[Goal]{
		Key:   KeyGoals,
		get:   func(d *Document) []Goal { return d.Goals },
		set:   func(d *Document, v []Goal) { d.Goals = v },
		setID: func(g *Goal, id int64) { g.ID = id },
	}
	Charges = Collection[Charge]{
		Key:   KeyCharges,
		get:   func(d *Document) []Charge { return d.Charges },
		set:   func(d *Document, v []Charge) { d.Charges = v },
		setID: func(c *Charge, id int64) { c.ID = id },
	}
)

// Get returns the collection's records in order. The returned slice is the
// caller's to keep; mutating it does not touch the store.
func Get[T Record](s *Store, c Collection[T]) []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]T(nil), c.get(&s.doc)...)
}

// FindByID returns the record with the given id, if present.
func FindByID[T Record](s *Store, c Collection[T], id int64) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range c.get(&s.doc) {
		if rec.RecordID() == id {
			return rec, true
		}
	}
	var zero T
	return zero, false
}

// Insert adds a record to the collection, assigning a fresh id when the
// record carries none, and persists. Returns the record as stored.
func Insert[T Record](ctx context.Context, s *Store, c Collection[T], rec T) (T, error) {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.RecordID() == 0 {
		c.setID(&rec, s.nextIDLocked())
	} else {
		s.noteIDLocked(rec.RecordID())
	}

	col := c.get(&s.doc)
	if c.prepend {
		col = append([]T{rec}, col...)
	} else {
		col = append(col, rec)
	}
	c.set(&s.doc, col)

	err := s.persistLocked(ctx)
	s.recordOp(ctx, "insert", start, err)
	s.collector.SetRecordCount(ctx, c.Key, int64(len(col)))
	return rec, err
}

// UpdateByID applies patch to the record with the given id and persists.
// A missing id is a no-op, not an error: callers must not assume existence.
// Returns whether a record was updated.
func UpdateByID[T Record](ctx context.Context, s *Store, c Collection[T], id int64, patch func(*T)) (bool, error) {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	col := c.get(&s.doc)
	for i := range col {
		if col[i].RecordID() != id {
			continue
		}
		patch(&col[i])
		c.set(&s.doc, col)
		err := s.persistLocked(ctx)
		s.recordOp(ctx, "update", start, err)
		return true, err
	}
	return false, nil
}

// DeleteByID removes the record with the given id and persists. A missing
// id is a no-op. Returns whether a record was removed.
func DeleteByID[T Record](ctx context.Context, s *Store, c Collection[T], id int64) (bool, error) {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	col := c.get(&s.doc)
	for i := range col {
		if col[i].RecordID() != id {
			continue
		}
		col = append(col[:i], col[i+1:]...)
		c.set(&s.doc, col)
		err := s.persistLocked(ctx)
		s.recordOp(ctx, "delete", start, err)
		s.collector.SetRecordCount(ctx, c.Key, int64(len(col)))
		return true, err
	}
	return false, nil
}

// SetCollection atomically replaces the whole collection and persists.
// Used for bulk transforms.
func SetCollection[T Record](ctx context.Context, s *Store, c Collection[T], recs []T) error {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range recs {
		s.noteIDLocked(rec.RecordID())
	}
	c.set(&s.doc, append([]T(nil), recs...))

	err := s.persistLocked(ctx)
	s.recordOp(ctx, "set_collection", start, err)
	s.collector.SetRecordCount(ctx, c.Key, int64(len(recs)))
	return err
}
