package drafts

import (
	"context"
	"sync"
	"time"

	"farelink_admin/internal/routebuilder"
)

type memoryEntry struct {
	draft   routebuilder.Draft
	expires time.Time
}

// MemoryStore is the single-instance Store used when no Redis is configured.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	drafts   map[string]memoryEntry
	inFlight map[string]time.Time
	now      func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		drafts:   make(map[string]memoryEntry),
		inFlight: make(map[string]time.Time),
		now:      time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, companyID, id string) (routebuilder.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := draftKey(companyID, id)
	e, ok := s.drafts[key]
	if !ok {
		return routebuilder.Draft{}, ErrDraftNotFound
	}
	if s.now().After(e.expires) {
		delete(s.drafts, key)
		return routebuilder.Draft{}, ErrDraftNotFound
	}
	return e.draft, nil
}

func (s *MemoryStore) Put(_ context.Context, d routebuilder.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.drafts[draftKey(d.CompanyID, d.ID)] = memoryEntry{draft: d, expires: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, companyID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.drafts, draftKey(companyID, id))
	delete(s.inFlight, submitKey(companyID, id))
	return nil
}

func (s *MemoryStore) AcquireSubmit(_ context.Context, companyID, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := submitKey(companyID, id)
	if until, busy := s.inFlight[key]; busy && s.now().Before(until) {
		return false, nil
	}
	s.inFlight[key] = s.now().Add(submitGuardTTL)
	return true, nil
}

func (s *MemoryStore) ReleaseSubmit(_ context.Context, companyID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.inFlight, submitKey(companyID, id))
	return nil
}
