package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/yuzvak/storefront-service/internal/config"
	"github.com/yuzvak/storefront-service/internal/infrastructure/http/handlers"
	"github.com/yuzvak/storefront-service/internal/infrastructure/http/middleware"
	"github.com/yuzvak/storefront-service/internal/pkg/generator"
	"github.com/yuzvak/storefront-service/internal/pkg/logger"
)

type Handlers struct {
	Health   *handlers.HealthHandler
	Catalog  *handlers.CatalogHandler
	Cart     *handlers.CartHandler
	Checkout *handlers.CheckoutHandler
	Orders   *handlers.OrdersHandler
	Profile  *handlers.ProfileHandler
	Admin    *handlers.AdminHandler
}

type Server struct {
	server         *http.Server
	logger         *logger.Logger
	handlers       Handlers
	auth           *middleware.Authenticator
	limiter        *middleware.RateLimiter
	idGen          *generator.CodeGenerator
	allowedOrigins []string
	cookieSecure   bool
}

func NewServer(
	cfg *config.Config,
	h Handlers,
	auth *middleware.Authenticator,
	limiter *middleware.RateLimiter,
	logger *logger.Logger,
) *Server {
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 40 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	s := &Server{
		server:         server,
		logger:         logger,
		handlers:       h,
		auth:           auth,
		limiter:        limiter,
		idGen:          generator.NewCodeGenerator(),
		allowedOrigins: cfg.Server.AllowedOrigins,
		cookieSecure:   cfg.Sessions.CookieSecure,
	}
	server.Handler = s.setupRoutes()
	return s
}

// Handler exposes the routed handler for in-process use.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) ListenAndServe() error {
	s.logger.Info("Starting HTTP server", "address", s.server.Addr)
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
