package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/yuzvak/storefront-service/internal/pkg/generator"
)

const SessionCookieName = "cart_session"

const sessionCookieMaxAge = 30 * 24 * time.Hour

type sessionKey struct{}

// CartSession resolves the cart session from its cookie, issuing a fresh id
// when the cookie is missing or malformed.
func CartSession(idGen *generator.CodeGenerator, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sessionID string
			if c, err := r.Cookie(SessionCookieName); err == nil && idGen.IsValidSessionID(c.Value) {
				sessionID = c.Value
			} else {
				sessionID = idGen.GenerateSessionID()
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookieName,
					Value:    sessionID,
					Path:     "/",
					MaxAge:   int(sessionCookieMaxAge.Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), sessionID)))
		})
	}
}

func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionKey{}, sessionID)
}

func SessionIDFromContext(ctx context.Context) string {
	sessionID, _ := ctx.Value(sessionKey{}).(string)
	return sessionID
}
