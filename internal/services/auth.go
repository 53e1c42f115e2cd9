package services

import (
	"context"
	"fmt"
	"sync"

	"domain-portfolio/internal/errs"

	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 6
	maxPasswordLength = 72 // bcrypt input limit
)

// PasswordService keeps a bcrypt hash of the session user's password and
// replaces it after verifying the current one
type PasswordService struct {
	mu   sync.Mutex
	hash []byte
	cost int
}

// NewPasswordService hashes the initial password. A cost of 0 uses bcrypt.DefaultCost.
func NewPasswordService(initial string, cost int) (*PasswordService, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	s := &PasswordService{cost: cost}

	hash, err := s.HashPassword(initial)
	if err != nil {
		return nil, fmt.Errorf("failed to hash initial password: %w", err)
	}
	s.hash = hash
	return s, nil
}

// HashPassword hashes a password using bcrypt
func (s *PasswordService) HashPassword(password string) ([]byte, error) {
	if len(password) > maxPasswordLength {
		return nil, errs.Invalid("password", fmt.Sprintf("must be at most %d bytes", maxPasswordLength))
	}
	return bcrypt.GenerateFromPassword([]byte(password), s.cost)
}

// CheckPassword compares the stored hash with a plain password
func (s *PasswordService) CheckPassword(password string) bool {
	s.mu.Lock()
	hash := s.hash
	s.mu.Unlock()

	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}

// ChangePassword verifies current and stores a hash of next
func (s *PasswordService) ChangePassword(ctx context.Context, current, next string) error {
	if len(next) < minPasswordLength {
		return errs.Invalid("new_password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := bcrypt.CompareHashAndPassword(s.hash, []byte(current)); err != nil {
		return fmt.Errorf("current password does not match: %w", errs.ErrUnauthorized)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	hash, err := s.HashPassword(next)
	if err != nil {
		return err
	}
	s.hash = hash
	return nil
}
