package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/yuzvak/storefront-service/internal/application/ports"
	domainErrors "github.com/yuzvak/storefront-service/internal/domain/errors"
	"github.com/yuzvak/storefront-service/internal/infrastructure/http/response"
	"github.com/yuzvak/storefront-service/internal/pkg/logger"
)

type identityKey struct{}

// AdminChecker reports whether uid holds admin rights.
type AdminChecker interface {
	IsAdmin(ctx context.Context, uid string) (bool, error)
}

type Authenticator struct {
	verifier ports.Verifier
	admins   AdminChecker
	log      *logger.Logger
}

func NewAuthenticator(verifier ports.Verifier, admins AdminChecker, log *logger.Logger) *Authenticator {
	return &Authenticator{verifier: verifier, admins: admins, log: log}
}

// RequireUser verifies the bearer token and stores the caller's identity in
// the request context.
func (a *Authenticator) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			response.WriteDomainError(w, domainErrors.ErrUnauthenticated)
			return
		}

		identity, err := a.verifier.Verify(r.Context(), token)
		if err != nil {
			a.log.Warn("Token verification failed", "error", err, "path", r.URL.Path)
			response.WriteDomainError(w, domainErrors.ErrUnauthenticated)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

// RequireAdmin must run after RequireUser.
func (a *Authenticator) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			response.WriteDomainError(w, domainErrors.ErrUnauthenticated)
			return
		}

		isAdmin, err := a.admins.IsAdmin(r.Context(), identity.UID)
		if err != nil {
			a.log.Error("Admin lookup failed", "error", err, "uid", identity.UID)
			response.WriteDomainError(w, err)
			return
		}
		if !isAdmin {
			a.log.Warn("Admin access denied", "uid", identity.UID, "path", r.URL.Path)
			response.WriteDomainError(w, domainErrors.ErrForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func WithIdentity(ctx context.Context, identity ports.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

func IdentityFromContext(ctx context.Context) (ports.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(ports.Identity)
	return identity, ok && identity.UID != ""
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}
