package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yuzvak/storefront-service/internal/application/commands"
	"github.com/yuzvak/storefront-service/internal/application/ports"
	"github.com/yuzvak/storefront-service/internal/application/use_cases"
	"github.com/yuzvak/storefront-service/internal/config"
	"github.com/yuzvak/storefront-service/internal/domain/cart"
	"github.com/yuzvak/storefront-service/internal/domain/catalog"
	"github.com/yuzvak/storefront-service/internal/infrastructure/auth"
	"github.com/yuzvak/storefront-service/internal/infrastructure/http/handlers"
	"github.com/yuzvak/storefront-service/internal/infrastructure/http/middleware"
	"github.com/yuzvak/storefront-service/internal/infrastructure/http/server"
	"github.com/yuzvak/storefront-service/internal/infrastructure/mail"
	"github.com/yuzvak/storefront-service/internal/infrastructure/monitoring"
	"github.com/yuzvak/storefront-service/internal/infrastructure/persistence/firestore"
	"github.com/yuzvak/storefront-service/internal/infrastructure/persistence/memory"
	"github.com/yuzvak/storefront-service/internal/infrastructure/persistence/postgres"
	"github.com/yuzvak/storefront-service/internal/infrastructure/persistence/redis"
	"github.com/yuzvak/storefront-service/internal/infrastructure/scheduler"
	"github.com/yuzvak/storefront-service/internal/pkg/clock"
	"github.com/yuzvak/storefront-service/internal/pkg/generator"
	"github.com/yuzvak/storefront-service/internal/pkg/logger"
)

// app holds the process-wide dependencies and the closers to run on exit.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	db      *postgres.Connection
	redis   *redis.Connection
	orders  ports.OrderRepository
	users   ports.UserRepository
	closers []func() error
}

func bootstrap(ctx context.Context, configPath string) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	a := &app{cfg: cfg, log: logger.NewLoggerWithLevel(cfg.Log.Level)}

	if cfg.Orders.Backend == "postgres" || cfg.Database.Host != "" {
		db, err := postgres.NewConnection(ctx, cfg.Database)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		a.db = db
		a.closers = append(a.closers, db.Close)
	}

	switch cfg.Orders.Backend {
	case "postgres":
		a.orders = postgres.NewOrderRepository(a.db)
		a.users = postgres.NewUserRepository(a.db)
	case "firestore":
		client, err := firestore.NewClient(ctx, cfg.Firebase)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("connect to firestore: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		a.orders = firestore.NewOrderRepository(client)
		a.users = firestore.NewUserRepository(client)
	case "memory":
		a.log.Warn("Orders are kept in memory and will not survive a restart")
		a.orders = memory.NewOrderRepository()
		a.users = memory.NewUserRepository()
	default:
		a.close()
		return nil, fmt.Errorf("unknown orders backend %q", cfg.Orders.Backend)
	}

	return a, nil
}

func (a *app) connectRedis(ctx context.Context) error {
	if a.cfg.Redis.Host == "" {
		return nil
	}
	conn, err := redis.NewConnection(ctx, a.cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	a.redis = conn
	a.closers = append(a.closers, conn.Close)
	return nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && a.log != nil {
			a.log.Warn("Close failed", "error", err)
		}
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}

// loadCatalog prefers the products table. An empty table is seeded from the
// catalog file first; without a database the file is used directly.
func (a *app) loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	if a.db != nil {
		products := postgres.NewProductRepository(a.db)
		items, err := products.ListProducts(ctx)
		switch {
		case err != nil:
			a.log.Warn("Failed to read products table, using catalog file", "error", err)
		case len(items) > 0:
			a.log.Info("Catalog loaded from database", "products", len(items))
			return catalog.New(items), nil
		default:
			seed, err := catalog.LoadFile(a.cfg.Catalog.Path)
			if err != nil {
				return nil, fmt.Errorf("load catalog: %w", err)
			}
			if err := products.UpsertProducts(ctx, seed); err != nil {
				a.log.Warn("Failed to seed products table", "error", err)
			} else {
				a.log.Info("Products table seeded", "path", a.cfg.Catalog.Path, "products", len(seed))
			}
			return catalog.New(seed), nil
		}
	}

	items, err := catalog.LoadFile(a.cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	a.log.Info("Catalog loaded from file", "path", a.cfg.Catalog.Path, "products", len(items))
	return catalog.New(items), nil
}

func (a *app) pricing() cart.Pricing {
	return cart.Pricing{
		TaxRate:               a.cfg.Pricing.TaxRate,
		FreeShippingThreshold: cart.FromMajor(a.cfg.Pricing.FreeShippingThreshold),
		ShippingFee:           cart.FromMajor(a.cfg.Pricing.ShippingFee),
	}
}

func (a *app) cartBackends() (cart.BlobStore, ports.Locker) {
	if a.redis == nil {
		a.log.Warn("Redis is not configured, carts and checkout locks are process local")
		return memory.NewBlobStore(), memory.NewLocker()
	}
	ttl := time.Duration(a.cfg.Redis.CartTTLHours) * time.Hour
	return redis.NewCartStore(a.redis, ttl), redis.NewLocker(a.redis, a.log)
}

func (a *app) verifier(ctx context.Context) (ports.Verifier, error) {
	if a.cfg.Firebase.Enabled {
		return auth.NewFirebaseVerifier(ctx, a.cfg.Firebase)
	}
	a.log.Warn("Firebase auth disabled, accepting static tokens", "tokens", len(a.cfg.Auth.StaticTokens))
	return auth.NewStaticVerifier(a.cfg.Auth.StaticTokens), nil
}

func (a *app) notifier() (ports.Notifier, error) {
	if a.cfg.Mail.SendGridAPIKey == "" {
		return mail.NewLogNotifier(a.log), nil
	}
	return mail.NewSendGridNotifier(a.cfg.Mail, a.log)
}

func (a *app) pingers() map[string]handlers.Pinger {
	deps := make(map[string]handlers.Pinger)
	if a.db != nil {
		deps["postgres"] = a.db
	}
	if a.redis != nil {
		deps["redis"] = a.redis
	}
	return deps
}

func serve(ctx context.Context, configPath string) error {
	a, err := bootstrap(ctx, configPath)
	if err != nil {
		return err
	}
	defer a.close()

	log := a.log
	log.Info("Starting storefront service", "orders_backend", a.cfg.Orders.Backend)

	if err := a.connectRedis(ctx); err != nil {
		return err
	}

	products, err := a.loadCatalog(ctx)
	if err != nil {
		return err
	}

	blobs, locker := a.cartBackends()
	sessions := cart.NewSessions(blobs, a.pricing(),
		cart.WithLogger(log),
		cart.WithObserver(monitoring.NewCartObserver()),
	)

	verifier, err := a.verifier(ctx)
	if err != nil {
		return fmt.Errorf("init auth: %w", err)
	}
	notifier, err := a.notifier()
	if err != nil {
		return fmt.Errorf("init mail: %w", err)
	}

	clk := clock.NewRealClock()
	idGen := generator.NewCodeGenerator()

	carts := use_cases.NewCartUseCase(sessions, products)
	checkout := use_cases.NewCheckoutUseCase(sessions, a.orders, locker, notifier, idGen, clk, log)
	queries := use_cases.NewAccountQueries(a.orders, a.users, log)
	orderCommands := commands.NewOrderHandler(a.orders, idGen, clk, log)

	h := server.Handlers{
		Health:   handlers.NewHealthHandler(a.pingers(), log),
		Catalog:  handlers.NewCatalogHandler(products, log),
		Cart:     handlers.NewCartHandler(carts, log),
		Checkout: handlers.NewCheckoutHandler(commands.NewPlaceOrderHandler(checkout, log), log),
		Orders:   handlers.NewOrdersHandler(queries, orderCommands, log),
		Profile:  handlers.NewProfileHandler(queries, commands.NewUpdateProfileHandler(a.users, clk, log), log),
		Admin:    handlers.NewAdminHandler(queries, orderCommands, log),
	}

	authn := middleware.NewAuthenticator(verifier, queries, log)
	limiter := middleware.NewRateLimiter(a.cfg.RateLimit.CheckoutPerSecond, a.cfg.RateLimit.CheckoutBurst, log)

	jobs := scheduler.NewScheduler(log)
	idle := time.Duration(a.cfg.Sessions.IdleTTLMinutes) * time.Minute
	if err := jobs.Schedule("session-janitor", a.cfg.Sessions.JanitorSchedule,
		scheduler.NewSessionJanitor(sessions, idle, log).Run); err != nil {
		return err
	}
	if err := jobs.Schedule("rate-limiter-cleanup", "@every 10m", limiter.Cleanup); err != nil {
		return err
	}

	serverCtx, stopServer := context.WithCancel(ctx)
	defer stopServer()

	if a.db != nil {
		monitoring.NewDBMetricsCollector(a.db.GetDB()).StartCollecting(serverCtx, 30*time.Second)
	}

	httpServer := server.NewServer(a.cfg, h, authn, limiter, log)
	jobs.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
		case <-serverCtx.Done():
			return
		}

		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		<-jobs.Stop().Done()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("Server shutdown error", "error", err)
		}
		stopServer()
	}()

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}

	<-serverCtx.Done()
	log.Info("Server stopped")
	return nil
}

func migrate(ctx context.Context, configPath string, seed bool) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.NewLoggerWithLevel(cfg.Log.Level)
	defer log.Sync()

	db, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(ctx, db.GetDB(), cfg.Database.MigrationsPath, log); err != nil {
		return err
	}
	if !seed {
		return nil
	}

	items, err := catalog.LoadFile(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	if err := postgres.NewProductRepository(db).UpsertProducts(ctx, items); err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	log.Info("Catalog seeded", "products", len(items))
	return nil
}

func grantAdmin(ctx context.Context, configPath, uid string, admin bool) error {
	a, err := bootstrap(ctx, configPath)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.users.SetAdmin(ctx, uid, admin); err != nil {
		return fmt.Errorf("set admin for %s: %w", uid, err)
	}
	a.log.Info("Admin flag updated", "uid", uid, "admin", admin)
	return nil
}
