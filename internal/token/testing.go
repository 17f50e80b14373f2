package token

import "context"

// StaticVerifier is a test double mapping known raw tokens to identities.
type StaticVerifier struct {
	Identities map[string]Identity
}

// NewStaticVerifier builds a verifier that accepts exactly the given tokens.
func NewStaticVerifier(identities map[string]Identity) *StaticVerifier {
	return &StaticVerifier{Identities: identities}
}

// Verify resolves a token from the static table.
func (v *StaticVerifier) Verify(_ context.Context, rawToken string) (Identity, error) {
	id, ok := v.Identities[rawToken]
	if !ok {
		return Identity{}, ErrInvalidToken
	}
	return id, nil
}
