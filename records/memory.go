package records

import (
	"context"
	"sync"

	"github.com/ByLCY/labreport/lab"
)

// MemoryStore keeps records in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	recs []lab.Record
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Append(ctx context.Context, rec lab.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs, rec)
	return nil
}

func (s *MemoryStore) Latest(ctx context.Context, name string) (lab.Record, error) {
	if err := ctx.Err(); err != nil {
		return lab.Record{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return latest(s.recs, name)
}

func (s *MemoryStore) All(ctx context.Context) ([]lab.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]lab.Record, len(s.recs))
	copy(out, s.recs)
	return out, nil
}
