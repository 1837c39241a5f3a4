package repository

import (
	"context"
	"maps"
	"sync"
	"time"

	"lead_triage_backend/internal/leads/domain"
	"lead_triage_backend/internal/leads/report"
)

// MemoryStore keeps leads in process memory. Ids restart at 1 after Clear.
type MemoryStore struct {
	mu     sync.RWMutex
	leads  []domain.Lead
	nextID int64
	now    func() time.Time
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) PutBatch(_ context.Context, leads []domain.Lead) ([]domain.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]domain.Lead, len(leads))
	createdAt := s.now().UTC()
	for i, lead := range leads {
		s.nextID++
		lead.ID = s.nextID
		if lead.CreatedAt.IsZero() {
			lead.CreatedAt = createdAt
		}
		stored[i] = cloneLead(lead)
	}
	s.leads = append(s.leads, stored...)

	out := make([]domain.Lead, len(stored))
	for i, lead := range stored {
		out[i] = cloneLead(lead)
	}
	return out, nil
}

func (s *MemoryStore) List(_ context.Context) ([]domain.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(), nil
}

func (s *MemoryStore) Clear(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.leads)
	s.leads = nil
	s.nextID = 0
	return n, nil
}

func (s *MemoryStore) GroupHotBySource(_ context.Context) (domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return report.GroupHotBySource(s.snapshot()), nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

// snapshot copies the stored leads. Callers must hold mu.
func (s *MemoryStore) snapshot() []domain.Lead {
	out := make([]domain.Lead, len(s.leads))
	for i, lead := range s.leads {
		out[i] = cloneLead(lead)
	}
	return out
}

func cloneLead(lead domain.Lead) domain.Lead {
	lead.Extra = maps.Clone(lead.Extra)
	if lead.AI != nil {
		ai := *lead.AI
		lead.AI = &ai
	}
	return lead
}
