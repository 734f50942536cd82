package mocks

import (
	"context"

	"github.com/you/medsync/domain"
)

// MockAuthService implements domain.AuthService interface for testing
type MockAuthService struct {
	RegisterFunc             func(ctx context.Context, fullName, email, password, role, department string) error
	CompleteRegistrationFunc func(ctx context.Context, email, otp string) (*domain.RegistrationResult, error)
	ResendOTPFunc            func(ctx context.Context, email string) error
	LoginFunc                func(ctx context.Context, identifier, password string) (*domain.AuthResult, error)
	ForgotPasswordFunc       func(ctx context.Context, email string) error
	ResetPasswordFunc        func(ctx context.Context, email, otp, newPassword string) error
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

// Register starts a registration
func (m *MockAuthService) Register(ctx context.Context, fullName, email, password, role, department string) error {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, fullName, email, password, role, department)
	}
	return nil
}

// CompleteRegistration verifies the OTP and creates the account
func (m *MockAuthService) CompleteRegistration(ctx context.Context, email, otp string) (*domain.RegistrationResult, error) {
	if m.CompleteRegistrationFunc != nil {
		return m.CompleteRegistrationFunc(ctx, email, otp)
	}
	return &domain.RegistrationResult{
		User:        &domain.User{ID: 1, Email: email, Role: domain.RolePatient},
		EmailStatus: "sent",
	}, nil
}

// ResendOTP refreshes a pending registration's OTP
func (m *MockAuthService) ResendOTP(ctx context.Context, email string) error {
	if m.ResendOTPFunc != nil {
		return m.ResendOTPFunc(ctx, email)
	}
	return nil
}

// Login authenticates by email or user code
func (m *MockAuthService) Login(ctx context.Context, identifier, password string) (*domain.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, identifier, password)
	}
	return &domain.AuthResult{
		User:  &domain.User{ID: 1, Email: identifier, Role: domain.RolePatient},
		Token: "mock_token",
	}, nil
}

// ForgotPassword issues a reset OTP
func (m *MockAuthService) ForgotPassword(ctx context.Context, email string) error {
	if m.ForgotPasswordFunc != nil {
		return m.ForgotPasswordFunc(ctx, email)
	}
	return nil
}

// ResetPassword completes a password reset
func (m *MockAuthService) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, email, otp, newPassword)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*MockAuthService)(nil)
