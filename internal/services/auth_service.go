package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/you/medsync/domain"
)

// AuthServiceImpl implements domain.AuthService: the OTP-gated
// registration workflow, login, and the password-reset flow.
type AuthServiceImpl struct {
	userRepo     domain.UserRepository
	pendingStore domain.PendingRegistrationStore
	passwordSvc  domain.PasswordService
	tokenSvc     domain.TokenService
	otpSvc       domain.OTPService
	codeGen      domain.CodeGenerator
	notifier     domain.NotificationService
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	pendingStore domain.PendingRegistrationStore,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	otpSvc domain.OTPService,
	codeGen domain.CodeGenerator,
	notifier domain.NotificationService,
) domain.AuthService {
	return &AuthServiceImpl{
		userRepo:     userRepo,
		pendingStore: pendingStore,
		passwordSvc:  passwordSvc,
		tokenSvc:     tokenSvc,
		otpSvc:       otpSvc,
		codeGen:      codeGen,
		notifier:     notifier,
	}
}

// Register implements domain.AuthService. The pending bundle is only
// written after both hashes succeed, and is removed again if the OTP
// email cannot be delivered. OTP delivery is a hard dependency here.
func (s *AuthServiceImpl) Register(ctx context.Context, fullName, email, password, role, department string) error {
	if !domain.RoleValid(role) {
		return fmt.Errorf("%w: invalid role", domain.ErrValidation)
	}
	if role == domain.RoleDoctor {
		if department == "" {
			return fmt.Errorf("%w: department is required for Doctor role", domain.ErrValidation)
		}
		if !domain.DepartmentValid(department) {
			return fmt.Errorf("%w: invalid department", domain.ErrValidation)
		}
	} else {
		department = ""
	}

	code, otpHash, expiresAt, err := s.otpSvc.Issue()
	if err != nil {
		return err
	}
	passwordHash, err := s.passwordSvc.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	reg := &domain.PendingRegistration{
		FullName:     fullName,
		Email:        email,
		Role:         role,
		Department:   department,
		PasswordHash: passwordHash,
		OTPHash:      otpHash,
		ExpiresAt:    expiresAt,
	}
	if err := s.pendingStore.Save(ctx, reg); err != nil {
		return fmt.Errorf("failed to store pending registration: %w", err)
	}

	if err := s.notifier.SendOTPEmail(email, code); err != nil {
		// No deliverable OTP means no verifiable registration.
		_ = s.pendingStore.Delete(ctx, email)
		return fmt.Errorf("failed to send OTP email: %w", err)
	}
	return nil
}

// CompleteRegistration implements domain.AuthService. Invoked by
// verify-otp: the pending bundle is consumed, the user row written, and
// the account email attempted last so its failure can never undo a
// committed registration.
func (s *AuthServiceImpl) CompleteRegistration(ctx context.Context, email, otp string) (*domain.RegistrationResult, error) {
	reg, err := s.otpSvc.VerifyPending(ctx, email, otp)
	if err != nil {
		return nil, err
	}

	code, supported := s.codeGen.Generate(ctx, reg.Role)
	user := &domain.User{
		FullName:     reg.FullName,
		Email:        reg.Email,
		Role:         reg.Role,
		Department:   reg.Department,
		PasswordHash: reg.PasswordHash,
		UserCode:     code,
	}

	note := ""
	includeCode := code != "" && supported
	if code != "" && !supported {
		note = codeNotPersistedNote(code)
	}

	if err := s.userRepo.Create(ctx, user, includeCode); err != nil {
		if includeCode && errors.Is(err, domain.ErrCodeColumnMissing) {
			// Identical insert minus the code column.
			if err := s.userRepo.Create(ctx, user, false); err != nil {
				return nil, err
			}
			note = codeNotPersistedNote(code)
		} else {
			return nil, err
		}
	}

	created, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: created user not readable: %v", domain.ErrPersistence, err)
	}
	if err := s.pendingStore.Delete(ctx, email); err != nil {
		log.Printf("PENDING_DELETE_FAILED: email=%s error=%v", email, err)
	}

	emailStatus := "sent"
	codeToSend := created.UserCode
	if codeToSend == "" {
		codeToSend = code
	}
	if err := s.notifier.SendAccountEmail(email, reg.FullName, reg.Role, reg.Department, codeToSend); err != nil {
		if errors.Is(err, domain.ErrMailNotConfigured) {
			emailStatus = "skipped"
		} else {
			emailStatus = "failed"
			log.Printf("ACCOUNT_EMAIL_FAILED: email=%s error=%v", email, err)
		}
	}

	created.PasswordHash = ""
	return &domain.RegistrationResult{
		User:          created,
		EmailStatus:   emailStatus,
		GeneratedCode: code,
		Note:          note,
	}, nil
}

// ResendOTP implements domain.AuthService. Only pending registrations
// can be refreshed; subjects that already completed registration get
// ErrAlreadyRegistered, and a store failure during that check is
// reported as such instead of masquerading as "not found".
func (s *AuthServiceImpl) ResendOTP(ctx context.Context, email string) error {
	reg, err := s.pendingStore.Find(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrPendingNotFound) {
			return err
		}
		if _, lookupErr := s.userRepo.FindByEmail(ctx, email); lookupErr == nil {
			return domain.ErrAlreadyRegistered
		} else if !errors.Is(lookupErr, domain.ErrUserNotFound) {
			return fmt.Errorf("%w: %v", domain.ErrRegistrationCheck, lookupErr)
		}
		return domain.ErrPendingNotFound
	}

	code, otpHash, expiresAt, err := s.otpSvc.Issue()
	if err != nil {
		return err
	}
	reg.OTPHash = otpHash
	reg.ExpiresAt = expiresAt
	if err := s.pendingStore.Save(ctx, reg); err != nil {
		return fmt.Errorf("failed to refresh pending registration: %w", err)
	}
	if err := s.notifier.SendOTPEmail(email, code); err != nil {
		return fmt.Errorf("failed to send OTP email: %w", err)
	}
	return nil
}

// Login implements domain.AuthService. The identifier is an email when
// it contains '@', otherwise a role-prefixed user code.
func (s *AuthServiceImpl) Login(ctx context.Context, identifier, password string) (*domain.AuthResult, error) {
	var user *domain.User
	var err error
	if strings.Contains(identifier, "@") {
		user, err = s.userRepo.FindByEmail(ctx, identifier)
	} else {
		user, err = s.userRepo.FindByCode(ctx, identifier)
	}
	if err != nil {
		return nil, err
	}

	if !s.passwordSvc.Verify(user.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokenSvc.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	user.PasswordHash = ""
	return &domain.AuthResult{User: user, Token: token}, nil
}

// ForgotPassword implements domain.AuthService. The OTP lands on the
// persisted user row; delivery is a hard dependency like registration.
func (s *AuthServiceImpl) ForgotPassword(ctx context.Context, email string) error {
	if _, err := s.userRepo.FindByEmail(ctx, email); err != nil {
		return err
	}

	code, otpHash, expiresAt, err := s.otpSvc.Issue()
	if err != nil {
		return err
	}
	if err := s.userRepo.SetResetOTP(ctx, email, otpHash, expiresAt, time.Now()); err != nil {
		return err
	}
	if err := s.notifier.SendOTPEmail(email, code); err != nil {
		return fmt.Errorf("failed to send OTP email: %w", err)
	}
	return nil
}

// ResetPassword implements domain.AuthService
func (s *AuthServiceImpl) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := s.otpSvc.VerifyReset(user, otp); err != nil {
		return err
	}

	passwordHash, err := s.passwordSvc.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.userRepo.ResetPassword(ctx, email, passwordHash)
}

func codeNotPersistedNote(code string) string {
	return fmt.Sprintf("Note: the users table has no user code column. The generated code '%s' was not saved. Add the column to persist it.", code)
}
