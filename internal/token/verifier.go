package token

import (
	"context"
	"errors"
)

// ErrInvalidToken is returned when the identity provider rejects a token for
// any reason: bad signature, expiry, wrong audience, or a provider fault.
// Callers are not expected to tell those apart.
var ErrInvalidToken = errors.New("invalid token")

// Identity is the result of a successful token verification.
type Identity struct {
	SubjectID   string
	PhoneNumber string
}

// Verifier establishes the identity behind a raw bearer token.
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (Identity, error)
}
