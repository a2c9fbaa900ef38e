package auth

import (
	"context"

	"github.com/yuzvak/storefront-service/internal/application/ports"
	domainErrors "github.com/yuzvak/storefront-service/internal/domain/errors"
)

var _ ports.Verifier = (*StaticVerifier)(nil)

// StaticVerifier maps fixed bearer tokens to user ids. It stands in for
// Firebase in local runs and tests.
type StaticVerifier struct {
	tokens map[string]string
}

func NewStaticVerifier(tokens map[string]string) *StaticVerifier {
	copied := make(map[string]string, len(tokens))
	for token, uid := range tokens {
		copied[token] = uid
	}
	return &StaticVerifier{tokens: copied}
}

func (v *StaticVerifier) Verify(_ context.Context, idToken string) (ports.Identity, error) {
	uid, ok := v.tokens[idToken]
	if !ok || idToken == "" {
		return ports.Identity{}, domainErrors.ErrUnauthenticated
	}
	return ports.Identity{UID: uid}, nil
}
