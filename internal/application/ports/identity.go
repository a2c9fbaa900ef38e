package ports

import "context"

type Identity struct {
	UID   string
	Email string
	Name  string
}

// Verifier turns a bearer ID token into the caller's identity.
type Verifier interface {
	Verify(ctx context.Context, idToken string) (Identity, error)
}
