package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/yuzvak/storefront-service/internal/infrastructure/http/response"
	"github.com/yuzvak/storefront-service/internal/pkg/logger"
)

const pingTimeout = 2 * time.Second

// Pinger is any backing service the health check should probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	dependencies map[string]Pinger
	log          *logger.Logger
	startTime    time.Time
}

func NewHealthHandler(dependencies map[string]Pinger, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		dependencies: dependencies,
		log:          log,
		startTime:    time.Now().UTC(),
	}
}

type MemoryMetrics struct {
	Alloc      uint64 `json:"alloc"`
	TotalAlloc uint64 `json:"total_alloc"`
	Sys        uint64 `json:"sys"`
	NumGC      uint32 `json:"num_gc"`
}

type HealthData struct {
	ServicesStatus map[string]string `json:"services_status"`
	Uptime         string            `json:"uptime"`
	Memory         MemoryMetrics     `json:"memory"`
	Goroutines     int               `json:"goroutines"`
}

// HandleHealth reports 503 when any dependency is down.
func (h *HealthHandler) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		statuses := map[string]string{"app": "UP"}
		healthy := true

		for name, dep := range h.dependencies {
			ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
			err := dep.Ping(ctx)
			cancel()

			statuses[name] = "UP"
			if err != nil {
				h.log.Warn("Health check failed", "dependency", name, "error", err)
				statuses[name] = "DOWN"
				healthy = false
			}
		}

		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)

		data := HealthData{
			ServicesStatus: statuses,
			Uptime:         time.Since(h.startTime).String(),
			Memory: MemoryMetrics{
				Alloc:      mem.Alloc,
				TotalAlloc: mem.TotalAlloc,
				Sys:        mem.Sys,
				NumGC:      mem.NumGC,
			},
			Goroutines: runtime.NumGoroutine(),
		}

		if !healthy {
			response.WriteJSON(w, http.StatusServiceUnavailable, response.Success(data, "degraded"))
			return
		}
		response.WriteSuccess(w, data)
	}
}
