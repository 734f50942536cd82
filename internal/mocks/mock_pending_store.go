package mocks

import (
	"context"

	"github.com/you/medsync/domain"
)

// MockPendingStore implements domain.PendingRegistrationStore for testing
type MockPendingStore struct {
	SaveFunc   func(ctx context.Context, reg *domain.PendingRegistration) error
	FindFunc   func(ctx context.Context, email string) (*domain.PendingRegistration, error)
	DeleteFunc func(ctx context.Context, email string) error
}

// NewMockPendingStore creates a new MockPendingStore with default behaviors
func NewMockPendingStore() *MockPendingStore {
	return &MockPendingStore{}
}

// Save stores a pending registration
func (m *MockPendingStore) Save(ctx context.Context, reg *domain.PendingRegistration) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, reg)
	}
	// Default behavior: success
	return nil
}

// Find retrieves a pending registration by email
func (m *MockPendingStore) Find(ctx context.Context, email string) (*domain.PendingRegistration, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, email)
	}
	// Default behavior: not found
	return nil, domain.ErrPendingNotFound
}

// Delete removes a pending registration
func (m *MockPendingStore) Delete(ctx context.Context, email string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, email)
	}
	// Default behavior: success
	return nil
}

// Compile-time interface compliance verification
var _ domain.PendingRegistrationStore = (*MockPendingStore)(nil)
