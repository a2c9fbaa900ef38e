package auth

import (
	"context"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/yuzvak/storefront-service/internal/application/ports"
	"github.com/yuzvak/storefront-service/internal/config"
	domainErrors "github.com/yuzvak/storefront-service/internal/domain/errors"
)

var _ ports.Verifier = (*FirebaseVerifier)(nil)

// FirebaseVerifier checks Firebase ID tokens issued to the storefront's
// sign-in flow.
type FirebaseVerifier struct {
	client *fbauth.Client
}

func NewFirebaseVerifier(ctx context.Context, cfg config.FirebaseConfig) (*FirebaseVerifier, error) {
	var opts []option.ClientOption
	if credFile := strings.TrimSpace(cfg.CredentialsFile); credFile != "" {
		opts = append(opts, option.WithCredentialsFile(credFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth: %w", err)
	}

	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (ports.Identity, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return ports.Identity{}, fmt.Errorf("%w: %v", domainErrors.ErrUnauthenticated, err)
	}

	uid := strings.TrimSpace(token.UID)
	if uid == "" {
		return ports.Identity{}, domainErrors.ErrUnauthenticated
	}

	return ports.Identity{
		UID:   uid,
		Email: stringClaim(token.Claims, "email"),
		Name:  stringClaim(token.Claims, "name"),
	}, nil
}

func stringClaim(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
