package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/you/medsync/domain"
)

// otpMin/otpMax bound the 6-digit code space. The range is closed at
// 100000 so every code is exactly six digits without zero-padding.
const (
	otpMin = 100000
	otpMax = 999999
)

// OTPServiceImpl implements domain.OTPService. Codes are stored only as
// hashes; expiry is judged at verification time against the stored
// timestamp, never by background sweeping.
type OTPServiceImpl struct {
	pendingStore domain.PendingRegistrationStore
	passwordSvc  domain.PasswordService
	expiry       time.Duration
}

// NewOTPService creates a new OTP service. expiry is the validity
// window applied to every issued code.
func NewOTPService(pendingStore domain.PendingRegistrationStore, passwordSvc domain.PasswordService, expiry time.Duration) domain.OTPService {
	return &OTPServiceImpl{
		pendingStore: pendingStore,
		passwordSvc:  passwordSvc,
		expiry:       expiry,
	}
}

// Issue implements domain.OTPService
func (s *OTPServiceImpl) Issue() (string, string, time.Time, error) {
	code, err := s.generateCode()
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("failed to generate OTP code: %w", err)
	}
	hash, err := s.passwordSvc.Hash(code)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("failed to hash OTP code: %w", err)
	}
	return code, hash, time.Now().Add(s.expiry), nil
}

// VerifyPending implements domain.OTPService. An expired bundle is
// deleted so the subject must register again; a wrong code leaves the
// bundle untouched.
func (s *OTPServiceImpl) VerifyPending(ctx context.Context, email, code string) (*domain.PendingRegistration, error) {
	reg, err := s.pendingStore.Find(ctx, email)
	if err != nil {
		return nil, err
	}
	if reg.Expired(time.Now()) {
		if delErr := s.pendingStore.Delete(ctx, email); delErr != nil {
			return nil, fmt.Errorf("failed to drop expired registration: %w", delErr)
		}
		return nil, domain.ErrOTPExpired
	}
	if !s.passwordSvc.Verify(reg.OTPHash, code) {
		return nil, domain.ErrOTPInvalid
	}
	return reg, nil
}

// VerifyReset implements domain.OTPService. The expired record is left
// on the row for the caller to clear.
func (s *OTPServiceImpl) VerifyReset(user *domain.User, code string) error {
	if user.OTPPurpose != domain.OTPPurposeReset {
		return domain.ErrOTPWrongPurpose
	}
	if user.OTPExpiresAt == nil || time.Now().After(*user.OTPExpiresAt) {
		return domain.ErrOTPExpired
	}
	if user.OTPHash == "" || !s.passwordSvc.Verify(user.OTPHash, code) {
		return domain.ErrOTPInvalid
	}
	return nil
}

// generateCode draws a uniform 6-digit code from crypto/rand.
func (s *OTPServiceImpl) generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+otpMin), nil
}
