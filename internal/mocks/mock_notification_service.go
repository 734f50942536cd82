package mocks

import "github.com/you/medsync/domain"

// MockNotificationService implements domain.NotificationService for testing
type MockNotificationService struct {
	SendOTPEmailFunc     func(to, code string) error
	SendAccountEmailFunc func(to, fullName, role, department, userCode string) error

	// SentOTPs records every OTP email delivered through the default path
	SentOTPs []string
}

// NewMockNotificationService creates a new MockNotificationService with default behaviors
func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

// SendOTPEmail delivers a verification code
func (m *MockNotificationService) SendOTPEmail(to, code string) error {
	if m.SendOTPEmailFunc != nil {
		return m.SendOTPEmailFunc(to, code)
	}
	m.SentOTPs = append(m.SentOTPs, code)
	return nil
}

// SendAccountEmail delivers the account-created message
func (m *MockNotificationService) SendAccountEmail(to, fullName, role, department, userCode string) error {
	if m.SendAccountEmailFunc != nil {
		return m.SendAccountEmailFunc(to, fullName, role, department, userCode)
	}
	// Default behavior: success
	return nil
}

// Compile-time interface compliance verification
var _ domain.NotificationService = (*MockNotificationService)(nil)
