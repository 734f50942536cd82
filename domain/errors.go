package domain

import "errors"

// Validation errors
var (
	ErrValidation = errors.New("validation failed")
)

// Account errors
var (
	ErrUserNotFound          = errors.New("user not found")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrAlreadyRegistered     = errors.New("email is already registered")
	ErrRegistrationCheck     = errors.New("unable to verify registration status")
	ErrCodeLookupUnsupported = errors.New("user code lookup is not supported by the store")
)

// OTP errors
var (
	ErrOTPExpired      = errors.New("otp has expired")
	ErrOTPInvalid      = errors.New("invalid otp code")
	ErrOTPWrongPurpose = errors.New("otp is not valid for this purpose")
	ErrPendingNotFound = errors.New("no pending registration found")
)

// Store errors
var (
	ErrCodeColumnMissing = errors.New("user code column does not exist")
	ErrPersistence       = errors.New("store write failed")
)

// Token errors
var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("malformed token")
)

// Notification errors
var (
	ErrMailNotConfigured = errors.New("mail transport is not configured")
)
