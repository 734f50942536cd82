package domain

import (
	"context"
	"time"
)

// UserRepository defines user data access operations. Implementations
// must tolerate a schema without the user-code column: code-touching
// operations return ErrCodeColumnMissing / ErrCodeLookupUnsupported
// rather than opaque store errors, and remember the missing column for
// the process lifetime.
type UserRepository interface {
	// Create inserts a user row. When includeCode is true and
	// user.UserCode is set, the code column is part of the insert;
	// ErrCodeColumnMissing signals the caller to retry without it.
	Create(ctx context.Context, user *User, includeCode bool) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	// FindByCode resolves a user by their role-prefixed code.
	// Returns ErrCodeLookupUnsupported when the column is absent.
	FindByCode(ctx context.Context, code string) (*User, error)
	// CodeExists reports whether a generated code is already in use.
	CodeExists(ctx context.Context, code string) (bool, error)
	// SetResetOTP stores a password-reset OTP on the user row, bumping
	// the resend counter and recording when it was sent.
	SetResetOTP(ctx context.Context, email, otpHash string, expiresAt, sentAt time.Time) error
	// ResetPassword overwrites the password hash and clears every OTP
	// field in a single update.
	ResetPassword(ctx context.Context, email, passwordHash string) error
}

// PendingRegistrationStore is the keyed holding area for registrations
// awaiting OTP confirmation. Save overwrites any prior entry for the
// same email (last writer wins).
type PendingRegistrationStore interface {
	Save(ctx context.Context, reg *PendingRegistration) error
	Find(ctx context.Context, email string) (*PendingRegistration, error)
	Delete(ctx context.Context, email string) error
}

// PasswordService hashes and verifies secrets (passwords and OTPs).
type PasswordService interface {
	Hash(secret string) (string, error)
	// Verify reports whether secret matches digest. Malformed digests
	// verify as false, never as an error.
	Verify(digest, secret string) bool
}

// TokenService mints and validates session tokens.
type TokenService interface {
	Generate(user *User) (string, error)
	Validate(token string) (*TokenClaims, error)
}

// NotificationService sends transactional email.
type NotificationService interface {
	// SendOTPEmail delivers a verification code. Registration treats a
	// failure here as fatal.
	SendOTPEmail(to, code string) error
	// SendAccountEmail delivers the account-created message with login
	// details. Always best-effort for callers.
	SendAccountEmail(to, fullName, role, department, userCode string) error
}

// OTPService manages one-time code issue and verification for both the
// pending-registration and password-reset paths.
type OTPService interface {
	// Issue generates a fresh 6-digit code, returning the plaintext
	// code (for delivery), its hash (for storage) and the expiry.
	Issue() (code, hash string, expiresAt time.Time, err error)
	// VerifyPending validates a code against the pending bundle for
	// email. Expired bundles are deleted. The bundle is returned for
	// the caller to consume on success.
	VerifyPending(ctx context.Context, email, code string) (*PendingRegistration, error)
	// VerifyReset validates a code against a persisted user's reset
	// OTP fields.
	VerifyReset(user *User, code string) error
}

// CodeGenerator produces role-prefixed human-readable account codes.
type CodeGenerator interface {
	// Generate returns a code for the role, or "" for unknown roles.
	// supported is false when the store cannot persist codes; the code
	// is still returned for reporting.
	Generate(ctx context.Context, role string) (code string, supported bool)
}

// AuthService is the registration, login and password-reset workflow.
type AuthService interface {
	Register(ctx context.Context, fullName, email, password, role, department string) error
	CompleteRegistration(ctx context.Context, email, otp string) (*RegistrationResult, error)
	ResendOTP(ctx context.Context, email string) error
	Login(ctx context.Context, identifier, password string) (*AuthResult, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, otp, newPassword string) error
}

// PolicyService defines authorization policy operations.
type PolicyService interface {
	AddPolicy(role, resource, action string) error
	CheckPermission(role, resource, action string) (bool, error)
	GetPolicies() [][]string
}

// CasbinEnforcer is the subset of the Casbin enforcer the service uses.
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}
