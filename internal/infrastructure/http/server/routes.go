package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/yuzvak/storefront-service/internal/infrastructure/http/middleware"
	"github.com/yuzvak/storefront-service/internal/infrastructure/monitoring"
)

const requestTimeout = 30 * time.Second

func (s *Server) setupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.NewRecoveryMiddleware(s.logger))
	r.Use(middleware.NewLoggingMiddleware(s.logger))
	r.Use(monitoring.WrapHandler)
	r.Use(s.corsMiddleware())

	r.Handle("/metrics", monitoring.Handler())
	r.Get("/health", s.handlers.Health.HandleHealth())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", s.handlers.Catalog.HandleListProducts())
		r.Get("/products/{id}", s.handlers.Catalog.HandleGetProduct())
		r.Get("/categories", s.handlers.Catalog.HandleCategories())

		r.Group(func(r chi.Router) {
			r.Use(middleware.CartSession(s.idGen, s.cookieSecure))

			r.Get("/cart", s.handlers.Cart.HandleGetCart())
			r.Delete("/cart", s.handlers.Cart.HandleClearCart())
			r.Post("/cart/items", s.handlers.Cart.HandleAddItem())
			r.Put("/cart/items/{id}", s.handlers.Cart.HandleSetQuantity())
			r.Delete("/cart/items/{id}", s.handlers.Cart.HandleRemoveItem())

			r.With(s.auth.RequireUser, s.limiter.Handler).
				Post("/checkout", s.handlers.Checkout.HandleCheckout())
		})

		r.Group(func(r chi.Router) {
			r.Use(s.auth.RequireUser)

			r.Get("/orders", s.handlers.Orders.HandleListOrders())
			r.Post("/orders/{id}/cancel", s.handlers.Orders.HandleCancelOrder())
			r.Get("/orders/{id}/returns", s.handlers.Orders.HandleListReturns())
			r.Post("/orders/{id}/returns", s.handlers.Orders.HandleRequestReturn())

			r.Get("/profile", s.handlers.Profile.HandleGetProfile())
			r.Put("/profile", s.handlers.Profile.HandleUpdateProfile())

			r.Route("/admin", func(r chi.Router) {
				r.Use(s.auth.RequireAdmin)

				r.Get("/orders", s.handlers.Admin.HandleListOrders())
				r.Put("/orders/{id}/status", s.handlers.Admin.HandleUpdateStatus())
				r.Get("/users", s.handlers.Admin.HandleListUsers())
			})
		})
	})

	return http.TimeoutHandler(r, requestTimeout, `{"message":"Request timeout","code":"service_unavailable"}`)
}

func (s *Server) corsMiddleware() func(http.Handler) http.Handler {
	origins := s.allowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
