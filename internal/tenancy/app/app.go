package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/audit"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/domain"
	httpapi "github.com/aussiebroadwan/tenancy/internal/tenancy/http"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/identity"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/observability/tracing"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/service"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/store"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/store/cache"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/store/drivers/postgres"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/store/drivers/sqlite"
	"github.com/aussiebroadwan/tenancy/pkg/cryptox"
	"github.com/aussiebroadwan/tenancy/pkg/jwtx"
	"github.com/aussiebroadwan/tenancy/pkg/retry"
	"github.com/aussiebroadwan/tenancy/pkg/slogx"
	"github.com/redis/go-redis/v9"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"

	serviceName = "tenancy"
)

// Application owns every long lived client and the services built on them.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db            store.Store
	redis         *redis.Client // nil without REDIS_URL
	hasher        cryptox.Hasher
	audit         *audit.Logger
	traceShutdown func(context.Context) error

	// Services
	sessionService      *service.SessionService
	tenantService       *service.TenantService
	authService         *service.AuthService
	invitationService   *service.InvitationService
	bootstrapService    *service.BootstrapService
	housekeepingService *service.HousekeepingService
	oidcProvider        *identity.OIDCProvider // nil unless OIDC is configured
	demoProvider        *identity.DemoProvider // nil unless demo login is enabled

	// HTTP server
	server  *http.Server
	router  *httpapi.Router
	running bool
}

// NewLogger builds the process logger from cfg.
func NewLogger(cfg Config) *slog.Logger {
	return slogx.New(slogx.Config{
		Service: serviceName,
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})
}

// New creates a new Application with all dependencies initialized.
func New(ctx context.Context, cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{cfg: cfg, logger: NewLogger(cfg)}

	if err := app.initDatabase(ctx); err != nil {
		return nil, err
	}
	if err := app.initServices(ctx); err != nil {
		_ = app.close()
		return nil, err
	}
	if err := app.initHTTP(ctx); err != nil {
		_ = app.close()
		return nil, err
	}

	return app, nil
}

// Handler exposes the fully wired router.
func (app *Application) Handler() http.Handler { return app.router }

// Bootstrap runs the one-time setup directly against the store, bypassing
// the bootstrap token.
func (app *Application) Bootstrap(ctx context.Context, req service.BootstrapRequest) (service.BootstrapResult, error) {
	return app.bootstrapService.BootstrapLocal(slogx.WithContext(ctx, app.logger), req)
}

// CreateTenant registers a tenant without an HTTP round trip.
// The returned string is the tenant's public URL.
func (app *Application) CreateTenant(ctx context.Context, req service.CreateTenantRequest) (domain.Tenant, string, error) {
	t, err := app.tenantService.Create(slogx.WithContext(ctx, app.logger), req)
	if err != nil {
		return domain.Tenant{}, "", err
	}
	return t, app.tenantService.URL(t), nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()
	app.running = true

	app.logger.Info("tenancy service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"oidc", app.oidcProvider != nil,
		"demo", app.demoProvider != nil,
		"cache", app.redis != nil,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = app.Shutdown()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down tenancy service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if app.running {
		app.housekeepingService.Stop()
		app.running = false
	}

	if app.traceShutdown != nil {
		if err := app.traceShutdown(ctx); err != nil {
			app.logger.Error("error flushing traces", "error", err)
		}
	}

	if err := app.close(); err != nil {
		return err
	}

	app.logger.Info("tenancy service stopped")
	return nil
}

// close releases the cache and database connections.
func (app *Application) close() error {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis", "error", err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database", "error", err)
			return err
		}
	}
	return nil
}

// OpenStore connects to the database named by DATABASE_URL and applies
// migrations. postgres:// and postgresql:// URLs select the postgres driver;
// anything else is a sqlite path or DSN.
func OpenStore(ctx context.Context, cfg Config, logger *slog.Logger) (store.Store, error) {
	var (
		db     store.Store
		driver string
	)

	if isPostgresURL(cfg.DatabaseURL) {
		driver = "postgres"
		pg, err := postgres.NewStore(ctx, cfg.DatabaseURL, postgres.Options{
			MaxOpenConns:    20,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
			Retry:           retry.DefaultConfig(),
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		db = pg
	} else {
		driver = "sqlite"
		lite, err := sqlite.NewStore(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		db = lite
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}

	logger.Info("database migrations applied successfully", "driver", driver)
	return db, nil
}

func isPostgresURL(url string) bool {
	return strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://")
}

func (app *Application) initDatabase(ctx context.Context) error {
	db, err := OpenStore(ctx, app.cfg, app.logger)
	if err != nil {
		return err
	}
	app.db = db
	return nil
}

// initServices initializes all business logic services.
func (app *Application) initServices(ctx context.Context) error {
	pepper, err := cryptox.LoadPepper(app.cfg.PepperFile)
	if err != nil {
		return fmt.Errorf("failed to load pepper: %w", err)
	}
	app.hasher = cryptox.Hasher{Pepper: pepper}
	app.audit = audit.NewLogger(app.logger)

	app.sessionService = &service.SessionService{
		Store:    app.db,
		TTL:      app.cfg.SessionTTL,
		CacheTTL: app.cfg.SessionCacheTTL,
	}
	if app.cfg.RedisURL != "" {
		rdb, err := cache.NewClient(ctx, app.cfg.RedisURL)
		if err != nil {
			return err
		}
		app.redis = rdb
		app.sessionService.Cache = cache.NewSessionCache(rdb)
		app.logger.Info("session cache enabled")
	}

	app.tenantService = &service.TenantService{
		Store:   app.db,
		Audit:   app.audit,
		BaseURL: app.cfg.BaseURL,
		Prod:    app.cfg.IsProd(),
	}
	app.authService = &service.AuthService{
		Store:       app.db,
		Credentials: &service.CredentialService{Store: app.db, Hasher: app.hasher},
		Sessions:    app.sessionService,
		Hasher:      app.hasher,
		Audit:       app.audit,
	}
	app.invitationService = &service.InvitationService{
		Store:  app.db,
		Hasher: app.hasher,
		Audit:  app.audit,
		TTL:    app.cfg.InvitationTTL,
	}
	app.bootstrapService = &service.BootstrapService{
		Store:   app.db,
		Tenants: app.tenantService,
		Hasher:  app.hasher,
		Audit:   app.audit,
		Token:   app.cfg.BootstrapToken,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)

	if app.cfg.OIDC.Enabled() {
		provider, err := identity.NewOIDCProvider(ctx, app.cfg.OIDC)
		if err != nil {
			return fmt.Errorf("failed to initialize OIDC provider: %w", err)
		}
		app.oidcProvider = provider
		app.logger.Info("oidc sign-in enabled", "issuer", app.cfg.OIDC.Issuer)
	}

	if app.cfg.Demo.Enabled {
		demoCfg := app.cfg.Demo
		demoCfg.Prod = app.cfg.IsProd()
		demo, err := identity.NewDemoProvider(demoCfg)
		if err != nil {
			return fmt.Errorf("failed to initialize demo login: %w", err)
		}
		app.demoProvider = demo
		app.logger.Warn("DEMO LOGIN ENABLED: anyone with the demo credentials can sign in", "email", app.cfg.Demo.Email)
	}

	return nil
}

// initHTTP initializes tracing, the HTTP router and the server.
func (app *Application) initHTTP(ctx context.Context) error {
	traceShutdown, err := tracing.Init(ctx, app.logger, app.cfg.OTLPEndpoint, serviceName, app.cfg.Env)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	app.traceShutdown = traceShutdown

	secret := app.cfg.SessionSecret
	if secret == "" {
		// Only reachable outside prod; cookies signed with it die with the process.
		if secret, err = cryptox.GenerateToken(jwtx.MinSecretLength); err != nil {
			return fmt.Errorf("failed to generate session secret: %w", err)
		}
		app.logger.Warn("SESSION_SECRET not set, using an ephemeral secret")
	}
	codec, err := jwtx.NewHMAC([]byte(secret), serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize cookie signer: %w", err)
	}

	router := httpapi.NewRouter(
		httpapi.NewCookies(codec, app.cfg.IsProd()),
		BuildVersion,
		app.db,
		app.logger,
	)

	router.AuthService = app.authService
	router.SessionService = app.sessionService
	router.InvitationService = app.invitationService
	router.TenantService = app.tenantService
	router.BootstrapService = app.bootstrapService
	router.Audit = app.audit
	router.Demo = app.demoProvider
	if app.oidcProvider != nil {
		router.OIDC = app.oidcProvider
	}
	if app.redis != nil {
		router.CachePing = func(ctx context.Context) error { return app.redis.Ping(ctx).Err() }
	}
	router.RequestTimeout = app.cfg.RequestTimeout
	router.Limits = app.cfg.RateLimits
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}
