package repositories

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/you/medsync/domain"
)

func openTestDB(t *testing.T, withCodeColumn bool) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&DBUser{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	if withCodeColumn {
		if err := db.Exec("ALTER TABLE users ADD COLUMN user_code varchar(16)").Error; err != nil {
			t.Fatalf("failed to add code column: %v", err)
		}
	}
	return db
}

func testUser(email string) *domain.User {
	return &domain.User{
		FullName:     "Asha Rao",
		Email:        email,
		Role:         domain.RolePatient,
		PasswordHash: "hashed_pw",
		UserCode:     "P0001",
	}
}

func TestUserRepositoryImpl_CreateAndFindByEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(openTestDB(t, true), "user_code")

	if err := repo.Create(ctx, testUser("asha@example.com"), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, err := repo.FindByEmail(ctx, "asha@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.ID == 0 {
		t.Error("expected assigned ID")
	}
	if found.UserCode != "P0001" {
		t.Errorf("expected user code P0001, got %q", found.UserCode)
	}
	if found.Role != domain.RolePatient {
		t.Errorf("expected role Patient, got %s", found.Role)
	}
	if found.PasswordHash != "hashed_pw" {
		t.Errorf("expected stored password hash, got %s", found.PasswordHash)
	}

	if _, err := repo.FindByEmail(ctx, "nobody@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepositoryImpl_MissingCodeColumn(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(openTestDB(t, false), "user_code")

	user := testUser("asha@example.com")
	err := repo.Create(ctx, user, true)
	if !errors.Is(err, domain.ErrCodeColumnMissing) {
		t.Fatalf("expected ErrCodeColumnMissing, got %v", err)
	}

	// The retry without the code column succeeds.
	if err := repo.Create(ctx, user, false); err != nil {
		t.Fatalf("unexpected error on retry: %v", err)
	}

	found, err := repo.FindByEmail(ctx, "asha@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.UserCode != "" {
		t.Errorf("expected empty user code, got %q", found.UserCode)
	}

	// Code lookups are refused for the rest of the process lifetime.
	if _, err := repo.FindByCode(ctx, "P0001"); !errors.Is(err, domain.ErrCodeLookupUnsupported) {
		t.Errorf("expected ErrCodeLookupUnsupported, got %v", err)
	}
	if _, err := repo.CodeExists(ctx, "P0001"); !errors.Is(err, domain.ErrCodeLookupUnsupported) {
		t.Errorf("expected ErrCodeLookupUnsupported, got %v", err)
	}
}

func TestUserRepositoryImpl_FindByCode(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(openTestDB(t, true), "user_code")

	if err := repo.Create(ctx, testUser("asha@example.com"), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, err := repo.FindByCode(ctx, "P0001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.Email != "asha@example.com" {
		t.Errorf("expected asha@example.com, got %s", found.Email)
	}
	if found.UserCode != "P0001" {
		t.Errorf("expected user code P0001, got %q", found.UserCode)
	}

	if _, err := repo.FindByCode(ctx, "P9999"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepositoryImpl_CodeExists(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(openTestDB(t, true), "user_code")

	exists, err := repo.CodeExists(ctx, "P0001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Error("expected code to be free")
	}

	if err := repo.Create(ctx, testUser("asha@example.com"), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	exists, err = repo.CodeExists(ctx, "P0001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Error("expected code to be taken")
	}
}

func TestUserRepositoryImpl_SetResetOTP(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(openTestDB(t, true), "user_code")

	if err := repo.Create(ctx, testUser("asha@example.com"), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expiresAt := time.Now().Add(10 * time.Minute)
	if err := repo.SetResetOTP(ctx, "asha@example.com", "hashed_654321", expiresAt, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, err := repo.FindByEmail(ctx, "asha@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.OTPHash != "hashed_654321" {
		t.Errorf("expected stored OTP hash, got %s", found.OTPHash)
	}
	if found.OTPPurpose != domain.OTPPurposeReset {
		t.Errorf("expected purpose %s, got %s", domain.OTPPurposeReset, found.OTPPurpose)
	}
	if found.OTPExpiresAt == nil {
		t.Fatal("expected expiry to be set")
	}
	if found.OTPResendCount != 1 {
		t.Errorf("expected resend count 1, got %d", found.OTPResendCount)
	}

	// A second issue bumps the counter.
	if err := repo.SetResetOTP(ctx, "asha@example.com", "hashed_111111", expiresAt, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found, _ = repo.FindByEmail(ctx, "asha@example.com")
	if found.OTPResendCount != 2 {
		t.Errorf("expected resend count 2, got %d", found.OTPResendCount)
	}

	if err := repo.SetResetOTP(ctx, "nobody@example.com", "h", expiresAt, time.Now()); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepositoryImpl_ResetPassword(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(openTestDB(t, true), "user_code")

	if err := repo.Create(ctx, testUser("asha@example.com"), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.SetResetOTP(ctx, "asha@example.com", "hashed_654321", time.Now().Add(10*time.Minute), time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := repo.ResetPassword(ctx, "asha@example.com", "hashed_newpw"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, err := repo.FindByEmail(ctx, "asha@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.PasswordHash != "hashed_newpw" {
		t.Errorf("expected new password hash, got %s", found.PasswordHash)
	}
	if found.OTPHash != "" || found.OTPPurpose != "" || found.OTPExpiresAt != nil {
		t.Error("expected OTP fields cleared after reset")
	}

	if err := repo.ResetPassword(ctx, "nobody@example.com", "h"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
