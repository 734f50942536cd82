package mocks

import (
	"context"
	"time"

	"github.com/you/medsync/domain"
)

// MockUserRepository implements domain.UserRepository interface for testing
type MockUserRepository struct {
	CreateFunc        func(ctx context.Context, user *domain.User, includeCode bool) error
	FindByEmailFunc   func(ctx context.Context, email string) (*domain.User, error)
	FindByCodeFunc    func(ctx context.Context, code string) (*domain.User, error)
	CodeExistsFunc    func(ctx context.Context, code string) (bool, error)
	SetResetOTPFunc   func(ctx context.Context, email, otpHash string, expiresAt, sentAt time.Time) error
	ResetPasswordFunc func(ctx context.Context, email, passwordHash string) error
}

// NewMockUserRepository creates a new MockUserRepository with default behaviors
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

// Create inserts a user row
func (m *MockUserRepository) Create(ctx context.Context, user *domain.User, includeCode bool) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user, includeCode)
	}
	// Default behavior: success
	return nil
}

// FindByEmail finds a user by email
func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	// Default behavior: not found
	return nil, domain.ErrUserNotFound
}

// FindByCode finds a user by their role-prefixed code
func (m *MockUserRepository) FindByCode(ctx context.Context, code string) (*domain.User, error) {
	if m.FindByCodeFunc != nil {
		return m.FindByCodeFunc(ctx, code)
	}
	// Default behavior: not found
	return nil, domain.ErrUserNotFound
}

// CodeExists reports whether a code is already in use
func (m *MockUserRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	if m.CodeExistsFunc != nil {
		return m.CodeExistsFunc(ctx, code)
	}
	// Default behavior: free
	return false, nil
}

// SetResetOTP stores a password-reset OTP on the user row
func (m *MockUserRepository) SetResetOTP(ctx context.Context, email, otpHash string, expiresAt, sentAt time.Time) error {
	if m.SetResetOTPFunc != nil {
		return m.SetResetOTPFunc(ctx, email, otpHash, expiresAt, sentAt)
	}
	// Default behavior: success
	return nil
}

// ResetPassword overwrites the password hash and clears the OTP fields
func (m *MockUserRepository) ResetPassword(ctx context.Context, email, passwordHash string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, email, passwordHash)
	}
	// Default behavior: success
	return nil
}

// Compile-time interface compliance verification
var _ domain.UserRepository = (*MockUserRepository)(nil)
