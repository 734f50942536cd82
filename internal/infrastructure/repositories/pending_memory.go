package repositories

import (
	"context"
	"sync"

	"github.com/you/medsync/domain"
)

// PendingMemoryStore implements domain.PendingRegistrationStore as a
// process-local map. Entries are not swept on expiry; they live until
// overwritten, consumed or the process restarts. Losing them on restart
// is accepted behavior for unconfirmed signups.
type PendingMemoryStore struct {
	mu      sync.RWMutex
	entries map[string]domain.PendingRegistration
}

// NewPendingMemoryStore creates a new in-memory pending store.
func NewPendingMemoryStore() domain.PendingRegistrationStore {
	return &PendingMemoryStore{entries: make(map[string]domain.PendingRegistration)}
}

// Save implements domain.PendingRegistrationStore
func (s *PendingMemoryStore) Save(ctx context.Context, reg *domain.PendingRegistration) error {
	s.mu.Lock()
	s.entries[reg.Email] = *reg
	s.mu.Unlock()
	return nil
}

// Find implements domain.PendingRegistrationStore
func (s *PendingMemoryStore) Find(ctx context.Context, email string) (*domain.PendingRegistration, error) {
	s.mu.RLock()
	reg, ok := s.entries[email]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrPendingNotFound
	}
	return &reg, nil
}

// Delete implements domain.PendingRegistrationStore
func (s *PendingMemoryStore) Delete(ctx context.Context, email string) error {
	s.mu.Lock()
	delete(s.entries, email)
	s.mu.Unlock()
	return nil
}
