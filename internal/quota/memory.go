package quota

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/hakwonplus/academy-api/internal/models"
)

// MemoryStore is an in-process Store for tests and local development.
// Mutual exclusion is a single mutex, so Mutate's atomicity only holds
// within one process - production uses the Postgres-backed repository.
type MemoryStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]*models.DirectorLimitation
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[uuid.UUID]*models.DirectorLimitation),
	}
}

func (s *MemoryStore) Find(ctx context.Context, directorID uuid.UUID) (*models.DirectorLimitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[directorID]
	if !ok {
		return nil, nil
	}

	cp := *rec
	return &cp, nil
}

func (s *MemoryStore) Save(ctx context.Context, rec *models.DirectorLimitation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *rec
	s.records[rec.DirectorID] = &cp
	return nil
}

func (s *MemoryStore) Mutate(ctx context.Context, directorID uuid.UUID, fn func(rec *models.DirectorLimitation) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[directorID]
	if !ok {
		return ErrNoRecord
	}

	// Work on a copy so a failed fn leaves the record untouched.
	cp := *rec
	if err := fn(&cp); err != nil {
		return err
	}

	s.records[directorID] = &cp
	return nil
}

func (s *MemoryStore) Increment(ctx context.Context, directorID uuid.UUID, f Feature) error {
	return s.adjust(directorID, f, 1)
}

func (s *MemoryStore) Decrement(ctx context.Context, directorID uuid.UUID, f Feature) error {
	return s.adjust(directorID, f, -1)
}

func (s *MemoryStore) adjust(directorID uuid.UUID, f Feature, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[directorID]
	if !ok {
		// Matches the SQL store: updating an absent row is a no-op.
		return nil
	}

	q := QuotaOf(rec, f)
	if q == nil {
		return nil
	}

	q.DailyUsed += delta
	q.MonthlyUsed += delta
	if q.DailyUsed < 0 {
		q.DailyUsed = 0
	}
	if q.MonthlyUsed < 0 {
		q.MonthlyUsed = 0
	}

	return nil
}
