package middleware

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/yuzvak/storefront-service/internal/infrastructure/http/response"
	"github.com/yuzvak/storefront-service/internal/pkg/logger"
)

const maxTrackedLimiters = 10000

// RateLimiter throttles requests per caller: the authenticated uid when
// present, otherwise the client address.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
	log      *logger.Logger
}

func NewRateLimiter(perSecond float64, burst int, log *logger.Logger) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(perSecond),
		burst:    burst,
		log:      log,
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	l, ok := rl.limiters[key]
	if !ok {
		if len(rl.limiters) >= maxTrackedLimiters {
			rl.limiters = make(map[string]*rate.Limiter)
		}
		l = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[key] = l
	}
	return l
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := callerKey(r)
		if !rl.limiter(key).Allow() {
			rl.log.Warn("Rate limit exceeded", "key", key, "path", r.URL.Path)
			w.Header().Set("Retry-After", "1")
			response.WriteError(w, http.StatusTooManyRequests, response.StatusTooManyRequests, "Too many requests")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Cleanup forgets all limiters; called on a schedule so idle callers do not
// accumulate.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	rl.limiters = make(map[string]*rate.Limiter)
	rl.mu.Unlock()
}

func callerKey(r *http.Request) string {
	if identity, ok := IdentityFromContext(r.Context()); ok {
		return "uid:" + identity.UID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "addr:" + host
}
