package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/yuzvak/storefront-service/internal/pkg/logger"
)

func NewLoggingMiddleware(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now().UTC()
			reqLog := log.With("request_id", chimw.GetReqID(r.Context()))

			wrw := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(wrw, r)

			status := wrw.Status()
			if status == 0 {
				status = http.StatusOK
			}

			fields := []interface{}{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", wrw.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_addr", r.RemoteAddr,
			}
			if status >= http.StatusInternalServerError {
				reqLog.Warn("HTTP Request", fields...)
				return
			}
			reqLog.Info("HTTP Request", fields...)
		})
	}
}
