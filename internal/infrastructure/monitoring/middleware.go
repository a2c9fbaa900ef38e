package monitoring

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// HTTPMetrics records request count and latency per handler group. The group
// comes from the matched chi route when there is one, so ids in the path never
// become label values.
func HTTPMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		handler := extractHandlerName(routePattern(r))
		code := strconv.Itoa(status)

		HTTPRequestDuration.WithLabelValues(handler, r.Method, code).Observe(time.Since(start).Seconds())
		HTTPRequestsTotal.WithLabelValues(handler, r.Method, code).Inc()
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" && pattern != "/*" {
			return pattern
		}
	}
	return r.URL.Path
}

var handlerGroups = []struct {
	prefix string
	name   string
}{
	{"api/v1/admin/orders", "admin_orders"},
	{"api/v1/admin/users", "admin_users"},
	{"api/v1/cart", "cart"},
	{"api/v1/checkout", "checkout"},
	{"api/v1/orders", "orders"},
	{"api/v1/products", "catalog"},
	{"api/v1/categories", "catalog"},
	{"api/v1/profile", "profile"},
	{"metrics", "metrics"},
	{"health", "health"},
}

func extractHandlerName(path string) string {
	path = strings.TrimPrefix(path, "/")
	for _, g := range handlerGroups {
		if strings.HasPrefix(path, g.prefix) {
			return g.name
		}
	}
	return "unknown"
}
