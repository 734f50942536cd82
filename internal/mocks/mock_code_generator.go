package mocks

import (
	"context"

	"github.com/you/medsync/domain"
)

// MockCodeGenerator implements domain.CodeGenerator interface for testing
type MockCodeGenerator struct {
	GenerateFunc func(ctx context.Context, role string) (string, bool)
}

// NewMockCodeGenerator creates a new MockCodeGenerator with default behaviors
func NewMockCodeGenerator() *MockCodeGenerator {
	return &MockCodeGenerator{}
}

// Generate returns a role-prefixed code
func (m *MockCodeGenerator) Generate(ctx context.Context, role string) (string, bool) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, role)
	}
	prefix, ok := domain.RolePrefixes[role]
	if !ok {
		return "", false
	}
	return prefix + "0001", true
}

// Compile-time interface compliance verification
var _ domain.CodeGenerator = (*MockCodeGenerator)(nil)
