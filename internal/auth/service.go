package auth

import (
	"errors"
	"time"

	"github.com/agri-connect/agri_connect/internal/admin"
	"github.com/agri-connect/agri_connect/internal/config"
	"github.com/agri-connect/agri_connect/internal/profile"
)

// Service issues and validates admin session tokens.
type Service struct {
	cfg config.Config
}

// NewService creates a new auth service.
func NewService(cfg config.Config) *Service {
	return &Service{cfg: cfg}
}

// Session is an issued admin session token.
type Session struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// IssueAdminSession signs an HS256 session token for an authenticated admin.
func (s *Service) IssueAdminSession(a admin.Admin) (Session, error) {
	now := time.Now()
	exp := now.Add(s.cfg.AdminTokenTTL)
	claims := map[string]any{
		"sub":   a.ID,
		"email": a.Email,
		"role":  profile.RoleAdmin,
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
	}
	signed, err := SignHS256(claims, []byte(s.cfg.JWTSecret))
	if err != nil {
		return Session{}, err
	}
	return Session{Token: signed, ExpiresIn: int64(time.Until(exp).Seconds())}, nil
}

// VerifyAdminSession validates a session token and returns the admin id.
func (s *Service) VerifyAdminSession(raw string) (string, error) {
	claims, err := ParseAndVerifyHS256(raw, []byte(s.cfg.JWTSecret))
	if err != nil {
		return "", err
	}

	role, _ := claims["role"].(string)
	if role != profile.RoleAdmin {
		return "", errors.New("not an admin token")
	}

	expFloat, _ := claims["exp"].(float64)
	if expFloat == 0 || time.Now().Unix() >= int64(expFloat) {
		return "", errors.New("token expired")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", errors.New("missing subject")
	}
	return sub, nil
}
