package session

import (
	"context"
	"sync"
	"time"

	"github.com/markjakearzadon/rxmate-checkout/internal/models"
)

type memoryEntry struct {
	tc        models.TransactionContext
	expiresAt time.Time
}

// MemoryStore keeps contexts in process memory. Suitable for tests and a
// single-instance deployment.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates a store whose records expire after ttl. A zero ttl
// keeps records until cleared.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Save(_ context.Context, sessionID string, tc models.TransactionContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := memoryEntry{tc: tc}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}
	s.entries[sessionID] = entry
	return nil
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) (*models.TransactionContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	if !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt) {
		delete(s.entries, sessionID)
		return nil, ErrNotFound
	}
	tc := entry.tc
	return &tc, nil
}

func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
	return nil
}
