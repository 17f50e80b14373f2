package token

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/coreos/go-oidc/v3/oidc"
)

// OIDCVerifier validates Firebase-issued ID tokens against the project's
// OIDC issuer. Signature, expiry and audience checking are delegated to the
// provider's published keys; this type only extracts the claims we need.
type OIDCVerifier struct {
	verifier *oidc.IDTokenVerifier
	logger   *slog.Logger
}

// NewOIDCVerifier discovers the issuer's verification keys. Call during
// startup; discovery performs a network round trip.
func NewOIDCVerifier(ctx context.Context, issuerURL, audience string, logger *slog.Logger) (*OIDCVerifier, error) {
	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("discover token issuer: %w", err)
	}

	return &OIDCVerifier{
		verifier: provider.Verifier(&oidc.Config{ClientID: audience}),
		logger:   logger,
	}, nil
}

// Verify checks the raw token and returns the subject and verified phone
// number. The underlying cause of a rejection is logged but collapsed into
// ErrInvalidToken so it never leaks to the caller.
func (v *OIDCVerifier) Verify(ctx context.Context, rawToken string) (Identity, error) {
	idToken, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		v.logger.Warn("token verification failed", "error", err)
		return Identity{}, ErrInvalidToken
	}

	var claims struct {
		PhoneNumber string `json:"phone_number"`
	}
	if err := idToken.Claims(&claims); err != nil {
		v.logger.Warn("token claims decode failed", "error", err)
		return Identity{}, ErrInvalidToken
	}

	if idToken.Subject == "" {
		v.logger.Warn("token missing subject claim")
		return Identity{}, ErrInvalidToken
	}

	return Identity{SubjectID: idToken.Subject, PhoneNumber: claims.PhoneNumber}, nil
}
