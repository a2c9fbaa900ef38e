package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yuzvak/storefront-service/internal/infrastructure/auth"
	"github.com/yuzvak/storefront-service/internal/pkg/generator"
	"github.com/yuzvak/storefront-service/internal/pkg/logger"
)

type adminSet map[string]bool

func (a adminSet) IsAdmin(_ context.Context, uid string) (bool, error) {
	return a[uid], nil
}

func newAuthenticator() *Authenticator {
	verifier := auth.NewStaticVerifier(map[string]string{"tok-user": "uid-1", "tok-admin": "uid-admin"})
	return NewAuthenticator(verifier, adminSet{"uid-admin": true}, logger.NewNop())
}

func TestRequireUser(t *testing.T) {
	var seen string
	h := newAuthenticator().RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, _ := IdentityFromContext(r.Context())
		seen = identity.UID
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic tok-user", http.StatusUnauthorized},
		{"unknown token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer tok-user", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
	assert.Equal(t, "uid-1", seen)
}

func TestRequireAdmin(t *testing.T) {
	a := newAuthenticator()
	h := a.RequireUser(a.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})))

	for token, status := range map[string]int{"tok-user": http.StatusForbidden, "tok-admin": http.StatusOK} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, status, rec.Code, token)
	}
}

func TestCartSessionIssuesAndReusesCookie(t *testing.T) {
	idGen := generator.NewCodeGenerator()
	var seen string
	h := CartSession(idGen, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, cookies[0].Value, seen)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Result().Cookies())
	assert.Equal(t, cookies[0].Value, seen)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "../../etc"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Len(t, rec.Result().Cookies(), 1)
	assert.NotEqual(t, "../../etc", seen)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2, logger.NewNop())
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	codes := []int{}
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	req.RemoteAddr = "10.0.0.2:5000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rl.Cleanup()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	req.RemoteAddr = "10.0.0.1:5000"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	h := NewRecoveryMiddleware(logger.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal_error")
}

func TestLoggingMiddlewareTagsRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := chimw.RequestID(NewLoggingMiddleware(logger.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/boom" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	})))

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(chimw.RequestIDHeader, "req-42")
	h.ServeHTTP(httptest.NewRecorder(), req)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	entries := logs.All()
	require.Len(t, entries, 2)

	first := entries[0].ContextMap()
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "req-42", first["request_id"])
	assert.Equal(t, "/ok", first["path"])
	assert.EqualValues(t, http.StatusOK, first["status"])

	second := entries[1].ContextMap()
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.NotEmpty(t, second["request_id"])
	assert.EqualValues(t, http.StatusServiceUnavailable, second["status"])
}
