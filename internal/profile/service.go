package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agri-connect/agri_connect/internal/notification"
	"github.com/agri-connect/agri_connect/internal/token"
)

// Service provisions and manages user profiles.
type Service struct {
	repo     Repository
	notifier notification.Notifier
}

// NewService creates a new profile service. notifier may be nil.
func NewService(repo Repository, notifier notification.Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

// Provision returns the profile for a verified identity, creating a default
// one on first login. Existing profiles are returned verbatim: neither role
// nor phone is refreshed by a login, and updated_at is only touched by
// explicit mutations. The create is conditional, so concurrent first logins
// for the same subject converge on a single stored profile.
func (s *Service) Provision(ctx context.Context, identity token.Identity) (UserProfile, error) {
	if identity.SubjectID == "" {
		return UserProfile{}, errors.New("subject id is required")
	}

	existing, err := s.repo.Get(ctx, identity.SubjectID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return UserProfile{}, fmt.Errorf("load profile: %w", err)
	}

	now := time.Now().UTC()
	created := UserProfile{
		UserID:    identity.SubjectID,
		Phone:     identity.PhoneNumber,
		Role:      RoleFarmer,
		CreatedAt: now,
		UpdatedAt: now,
	}

	switch err := s.repo.CreateIfAbsent(ctx, created); {
	case err == nil:
		s.notifyProvisioned(ctx, created)
		return created, nil
	case errors.Is(err, ErrAlreadyExists):
		// Lost the race; the winner's profile is authoritative.
		winner, err := s.repo.Get(ctx, identity.SubjectID)
		if err != nil {
			return UserProfile{}, fmt.Errorf("reload profile after create race: %w", err)
		}
		return winner, nil
	default:
		return UserProfile{}, fmt.Errorf("create profile: %w", err)
	}
}

// Get fetches a profile by user id.
func (s *Service) Get(ctx context.Context, userID string) (UserProfile, error) {
	return s.repo.Get(ctx, userID)
}

// ChangeRole assigns a new role to an existing profile and refreshes its
// updated_at.
func (s *Service) ChangeRole(ctx context.Context, userID, role string) (UserProfile, error) {
	if !ValidRole(role) {
		return UserProfile{}, fmt.Errorf("unknown role %q", role)
	}
	p, err := s.repo.UpdateRole(ctx, userID, role)
	if err != nil {
		return UserProfile{}, err
	}
	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindRoleChanged,
			Destination: p.Phone,
			Body:        fmt.Sprintf("role for %s changed to %s", p.UserID, p.Role),
		})
	}
	return p, nil
}

func (s *Service) notifyProvisioned(ctx context.Context, p UserProfile) {
	if s.notifier == nil {
		return
	}
	_ = s.notifier.Send(ctx, notification.Message{
		Kind:        notification.KindUserProvisioned,
		Destination: p.Phone,
		Body:        fmt.Sprintf("profile created for %s with role %s", p.UserID, p.Role),
	})
}
