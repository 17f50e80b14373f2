package admin

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for a wrong email or password. The two
// cases are not distinguished to the caller.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Service manages admin accounts.
type Service struct {
	repo Repository
}

// NewService creates a new admin service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a new admin with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, creds Credentials) (Admin, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	if email == "" {
		return Admin{}, errors.New("email is required")
	}
	if len(creds.Password) < 8 {
		return Admin{}, errors.New("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return Admin{}, err
	}

	a := Admin{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Admin{}, err
	}

	return a, nil
}

// Authenticate verifies an email/password pair.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (Admin, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	a, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Admin{}, ErrInvalidCredentials
		}
		return Admin{}, err
	}

	if err := bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(creds.Password)); err != nil {
		return Admin{}, ErrInvalidCredentials
	}

	return a, nil
}
