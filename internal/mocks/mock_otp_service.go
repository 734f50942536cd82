package mocks

import (
	"context"
	"time"

	"github.com/you/medsync/domain"
)

// MockOTPService implements domain.OTPService interface for testing
type MockOTPService struct {
	IssueFunc         func() (string, string, time.Time, error)
	VerifyPendingFunc func(ctx context.Context, email, code string) (*domain.PendingRegistration, error)
	VerifyResetFunc   func(user *domain.User, code string) error
}

// NewMockOTPService creates a new MockOTPService with default behaviors
func NewMockOTPService() *MockOTPService {
	return &MockOTPService{}
}

// Issue generates a fresh code
func (m *MockOTPService) Issue() (string, string, time.Time, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc()
	}
	// Default behavior: fixed code
	return "123456", "hashed_123456", time.Now().Add(10 * time.Minute), nil
}

// VerifyPending validates a code against the pending bundle
func (m *MockOTPService) VerifyPending(ctx context.Context, email, code string) (*domain.PendingRegistration, error) {
	if m.VerifyPendingFunc != nil {
		return m.VerifyPendingFunc(ctx, email, code)
	}
	// Default behavior: not found
	return nil, domain.ErrPendingNotFound
}

// VerifyReset validates a code against a user's reset OTP fields
func (m *MockOTPService) VerifyReset(user *domain.User, code string) error {
	if m.VerifyResetFunc != nil {
		return m.VerifyResetFunc(user, code)
	}
	// Default behavior: success
	return nil
}

// Compile-time interface compliance verification
var _ domain.OTPService = (*MockOTPService)(nil)
