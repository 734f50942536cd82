package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/you/medsync/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:       7,
		FullName: "Asha Rao",
		Email:    "asha@example.com",
		Role:     domain.RolePatient,
	}
}

func TestJWTServiceImpl_GenerateAndValidate(t *testing.T) {
	svc := NewJWTService("test-secret", "medsync", 24*time.Hour)

	token, err := svc.Generate(testUser())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}

	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != 7 {
		t.Errorf("expected user_id 7, got %d", claims.UserID)
	}
	if claims.Email != "asha@example.com" {
		t.Errorf("expected email asha@example.com, got %s", claims.Email)
	}
	if claims.Role != domain.RolePatient {
		t.Errorf("expected role Patient, got %s", claims.Role)
	}
	if claims.FullName != "Asha Rao" {
		t.Errorf("expected full name, got %s", claims.FullName)
	}

	issuedFor := time.Unix(claims.ExpiresAt, 0).Sub(time.Unix(claims.IssuedAt, 0))
	if issuedFor != 24*time.Hour {
		t.Errorf("expected 24h validity, got %v", issuedFor)
	}
}

func TestJWTServiceImpl_Validate_WrongSecret(t *testing.T) {
	svc := NewJWTService("test-secret", "medsync", time.Hour)
	other := NewJWTService("other-secret", "medsync", time.Hour)

	token, err := svc.Generate(testUser())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := other.Validate(token); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestJWTServiceImpl_Validate_Expired(t *testing.T) {
	svc := NewJWTService("test-secret", "medsync", -time.Minute)

	token, err := svc.Generate(testUser())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Validate(token); !errors.Is(err, domain.ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestJWTServiceImpl_Validate_Garbage(t *testing.T) {
	svc := NewJWTService("test-secret", "medsync", time.Hour)
	if _, err := svc.Validate("not.a.token"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}
