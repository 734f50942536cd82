package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/you/medsync/domain"
)

// codeAttempts caps the collision-check loop before falling back to a
// time-derived suffix.
const codeAttempts = 20

// UserCodeGenerator implements domain.CodeGenerator: short role-prefixed
// codes like P0001, D1234, PH0456. Uniqueness is best-effort; the
// store's unique index, when the column exists, is the real backstop.
type UserCodeGenerator struct {
	userRepo domain.UserRepository
}

// NewUserCodeGenerator creates a new code generator.
func NewUserCodeGenerator(userRepo domain.UserRepository) domain.CodeGenerator {
	return &UserCodeGenerator{userRepo: userRepo}
}

// Generate implements domain.CodeGenerator. Unknown roles yield an
// empty code and callers skip assignment. supported turns false as soon
// as the store reports the code column missing; the code is still
// returned so the caller can report it.
func (g *UserCodeGenerator) Generate(ctx context.Context, role string) (string, bool) {
	prefix, ok := domain.RolePrefixes[role]
	if !ok {
		return "", false
	}

	for i := 0; i < codeAttempts; i++ {
		code, err := g.randomCode(prefix)
		if err != nil {
			break
		}
		exists, err := g.userRepo.CodeExists(ctx, code)
		if errors.Is(err, domain.ErrCodeLookupUnsupported) {
			return code, false
		}
		if err == nil && !exists {
			return code, true
		}
	}

	// Every draw collided; derive a suffix from the clock. Not unique.
	ts := time.Now().UTC().Format("150405")
	return prefix + ts[len(ts)-4:], true
}

func (g *UserCodeGenerator) randomCode(prefix string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9999))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", prefix, n.Int64()+1), nil
}
