package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/you/medsync/domain"
)

// PasswordServiceImpl implements domain.PasswordService. It hashes both
// account passwords and OTP codes; neither is ever stored in plaintext.
type PasswordServiceImpl struct {
	cost int
}

// NewPasswordService creates a new password service
func NewPasswordService() domain.PasswordService {
	return &PasswordServiceImpl{
		cost: bcrypt.DefaultCost,
	}
}

// Hash implements domain.PasswordService
func (p *PasswordServiceImpl) Hash(secret string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(secret), p.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// Verify implements domain.PasswordService. bcrypt compares in constant
// time; malformed digests report false rather than an error.
func (p *PasswordServiceImpl) Verify(digest, secret string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(secret))
	return err == nil
}
