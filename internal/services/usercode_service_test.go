package services

import (
	"context"
	"regexp"
	"testing"

	"github.com/you/medsync/domain"
	"github.com/you/medsync/internal/mocks"
)

func TestUserCodeGenerator_Generate(t *testing.T) {
	ctx := context.Background()

	patterns := map[string]*regexp.Regexp{
		domain.RolePatient:  regexp.MustCompile(`^P\d{4}$`),
		domain.RoleDoctor:   regexp.MustCompile(`^D\d{4}$`),
		domain.RoleStaff:    regexp.MustCompile(`^S\d{4}$`),
		domain.RolePharmacy: regexp.MustCompile(`^PH\d{4}$`),
	}

	for role, pattern := range patterns {
		t.Run(role, func(t *testing.T) {
			gen := NewUserCodeGenerator(mocks.NewMockUserRepository())
			code, supported := gen.Generate(ctx, role)
			if !supported {
				t.Error("expected supported=true with a healthy store")
			}
			if !pattern.MatchString(code) {
				t.Errorf("expected code matching %s, got %q", pattern, code)
			}
		})
	}

	t.Run("unknown role yields no code", func(t *testing.T) {
		gen := NewUserCodeGenerator(mocks.NewMockUserRepository())
		code, supported := gen.Generate(ctx, "Admin")
		if code != "" || supported {
			t.Errorf("expected empty unsupported code, got %q supported=%v", code, supported)
		}
	})

	t.Run("missing code column reports unsupported but returns a code", func(t *testing.T) {
		repo := mocks.NewMockUserRepository()
		repo.CodeExistsFunc = func(ctx context.Context, code string) (bool, error) {
			return false, domain.ErrCodeLookupUnsupported
		}
		gen := NewUserCodeGenerator(repo)
		code, supported := gen.Generate(ctx, domain.RolePatient)
		if supported {
			t.Error("expected supported=false when the column is missing")
		}
		if !regexp.MustCompile(`^P\d{4}$`).MatchString(code) {
			t.Errorf("expected a code for reporting, got %q", code)
		}
	})

	t.Run("exhausted draws fall back to a time-derived code", func(t *testing.T) {
		repo := mocks.NewMockUserRepository()
		attempts := 0
		repo.CodeExistsFunc = func(ctx context.Context, code string) (bool, error) {
			attempts++
			return true, nil
		}
		gen := NewUserCodeGenerator(repo)
		code, supported := gen.Generate(ctx, domain.RolePharmacy)
		if attempts != codeAttempts {
			t.Errorf("expected %d collision checks, got %d", codeAttempts, attempts)
		}
		if !supported {
			t.Error("expected fallback code to count as supported")
		}
		if !regexp.MustCompile(`^PH\d{4}$`).MatchString(code) {
			t.Errorf("expected time-derived PH code, got %q", code)
		}
	})
}
