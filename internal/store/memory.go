package store

import (
	"context"
	"sync"

	apperrors "clueless/internal/errors"
)

// Memory keeps records in a map. Contents are lost when the process exits.
type Memory struct {
	records map[string]Record
	mu      sync.RWMutex
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		records: make(map[string]Record),
	}
}

// Save stores rec unless a record with a newer or equal sequence exists.
func (s *Memory) Save(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.records[rec.ID]; ok && cur.Sequence >= rec.Sequence {
		return nil
	}
	rec.Data = append([]byte(nil), rec.Data...)
	s.records[rec.ID] = rec
	return nil
}

// Load retrieves a record by game id.
func (s *Memory) Load(ctx context.Context, id string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return Record{}, apperrors.Wrapf(apperrors.ErrNotFound, "game %s not found", id)
	}
	return rec, nil
}

// List returns every record, newest first.
func (s *Memory) List(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	s.mu.RUnlock()
	sortRecords(out)
	return out, nil
}

// Close is a no-op.
func (s *Memory) Close() error { return nil }
