package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/ranznz/wage-survey/internal/models"
	"github.com/ranznz/wage-survey/pkg/crypto"
)

// MinPasswordLength applies to all password changes.
const MinPasswordLength = 8

var (
	// ErrInvalidCredentials is returned when the email/password pair is invalid.
	// Lookup misses and hash mismatches are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrWeakPassword signals that the new password fails the length policy.
	ErrWeakPassword = errors.New("auth: password too short")
)

// CredentialService validates staff credentials and performs password changes
// against the users table. Both operations are single-row reads/writes.
type CredentialService struct {
	db *gorm.DB
}

// NewCredentialService constructs a CredentialService.
func NewCredentialService(db *gorm.DB) (*CredentialService, error) {
	if db == nil {
		return nil, errors.New("credential service: db is required")
	}
	return &CredentialService{db: db}, nil
}

// Authenticate verifies the supplied credentials and returns the matching
// user. Email comparison is case-insensitive; password comparison goes
// through bcrypt's own constant-effort verification.
func (s *CredentialService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var user models.User
	err := s.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", email).
		Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("credential service: query user: %w", err)
	}

	if !crypto.VerifyPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// ChangePassword re-hashes and stores the new password and clears the
// forced-change flag in the same statement. This is the one operation a
// token with a pending forced change is allowed to perform.
func (s *CredentialService) ChangePassword(ctx context.Context, email, newPassword string) (*models.User, error) {
	if len(newPassword) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	var user models.User
	err := s.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", strings.TrimSpace(email)).
		Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("credential service: query user: %w", err)
	}

	hash, err := crypto.HashPassword(newPassword)
	if err != nil {
		return nil, fmt.Errorf("credential service: hash password: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(&user).Updates(map[string]any{
		"password_hash":        hash,
		"must_change_password": false,
	}).Error; err != nil {
		return nil, fmt.Errorf("credential service: update password: %w", err)
	}

	user.PasswordHash = hash
	user.MustChangePassword = false
	return &user, nil
}
