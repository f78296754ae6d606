package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	httpapi "github.com/aussiebroadwan/tenancy/internal/tenancy/http"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/identity"
	"github.com/aussiebroadwan/tenancy/internal/tenancy/service"
	"github.com/aussiebroadwan/tenancy/pkg/httpx"
	"github.com/aussiebroadwan/tenancy/pkg/jwtx"
)

type Config struct {
	Env       string // Environment (dev, staging, prod) (default: dev)
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (json, text) (default: json)
	Port      int    // HTTP server port (default: 8080)

	DatabaseURL string // sqlite file path, file: DSN or postgres:// URL (default: tenancy.db)
	PepperFile  string // Optional: path to file containing pepper for password hashing (default: ./pepper)

	SessionSecret   string        // Signs the tenant cookie and OAuth state. Required in prod.
	SessionTTL      time.Duration // Fixed session lifetime (default: 30 days)
	SessionCacheTTL time.Duration // Redis entry lifetime (default: 5m)
	InvitationTTL   time.Duration // Invitation lifetime (default: 7 days)
	BootstrapToken  string        // Optional: token required to perform bootstrap
	BaseURL         string        // Public URL of the service (default: http://localhost:{PORT})
	RedisURL        string        // Optional: enables the session cache

	OIDC identity.OIDCConfig
	Demo identity.DemoConfig

	OTLPEndpoint string // Optional: enables trace export

	RequestTimeout       time.Duration // Per-request deadline (default: 10s)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)

	RateLimits httpapi.RateLimits
}

// LoadConfig reads the environment. It must run after any .env file has been
// loaded so RATELIMIT_* overrides are seen.
func LoadConfig() Config {
	env := getEnvOrDefault("ENV", "dev")
	port := getEnvIntOrDefault("PORT", 8080)

	return Config{
		Env:       env,
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),
		Port:      port,

		DatabaseURL: getEnvOrDefault("DATABASE_URL", "tenancy.db"),
		PepperFile:  getEnvOrDefault("PEPPER_FILE", "pepper"),

		SessionSecret:   os.Getenv("SESSION_SECRET"),
		SessionTTL:      getEnvDurationOrDefault("SESSION_TTL", service.DefaultSessionTTL),
		SessionCacheTTL: getEnvDurationOrDefault("SESSION_CACHE_TTL", service.DefaultSessionCacheTTL),
		InvitationTTL:   getEnvDurationOrDefault("INVITATION_TTL", service.DefaultInvitationTTL),
		BootstrapToken:  os.Getenv("BOOTSTRAP_TOKEN"),
		BaseURL:         strings.TrimRight(getEnvOrDefault("APP_BASE_URL", fmt.Sprintf("http://localhost:%d", port)), "/"),
		RedisURL:        os.Getenv("REDIS_URL"),

		OIDC: identity.OIDCConfig{
			Issuer:       os.Getenv("OIDC_ISSUER"),
			ClientID:     os.Getenv("OIDC_CLIENT_ID"),
			ClientSecret: os.Getenv("OIDC_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("OIDC_REDIRECT_URL"),
		},
		Demo: identity.DemoConfig{
			Enabled:  getEnvBoolOrDefault("DEMO_LOGIN_ENABLED", false),
			Email:    os.Getenv("DEMO_EMAIL"),
			Password: os.Getenv("DEMO_PASSWORD"),
		},

		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),

		RequestTimeout:       getEnvDurationOrDefault("REQUEST_TIMEOUT", 10*time.Second),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),

		RateLimits: httpapi.RateLimits{
			Strict:   httpx.ParseRateLimitFromEnv("STRICT", httpx.StrictLimit),
			Moderate: httpx.ParseRateLimitFromEnv("MODERATE", httpx.ModerateLimit),
			Lenient:  httpx.ParseRateLimitFromEnv("LENIENT", httpx.LenientLimit),
			Public:   httpx.ParseRateLimitFromEnv("PUBLIC", httpx.PublicLimit),
		},
	}
}

// IsProd reports whether the service runs in production.
func (c Config) IsProd() bool {
	return c.Env == "prod" || c.Env == "production"
}

// Validate rejects configurations that are unsafe to serve with.
func (c Config) Validate() error {
	var errs []error

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.InvitationTTL <= 0 {
		errs = append(errs, errors.New("INVITATION_TTL must be positive"))
	}

	if c.IsProd() {
		if len(c.SessionSecret) < jwtx.MinSecretLength {
			errs = append(errs, fmt.Errorf("SESSION_SECRET must be at least %d bytes in prod", jwtx.MinSecretLength))
		}
		if c.Demo.Enabled {
			errs = append(errs, errors.New("DEMO_LOGIN_ENABLED is not allowed in prod"))
		}
	} else if c.SessionSecret != "" && len(c.SessionSecret) < jwtx.MinSecretLength {
		errs = append(errs, fmt.Errorf("SESSION_SECRET must be at least %d bytes", jwtx.MinSecretLength))
	}

	if c.OIDC.Enabled() && c.OIDC.RedirectURL == "" {
		errs = append(errs, errors.New("OIDC_REDIRECT_URL is required when OIDC_ISSUER is set"))
	}
	if c.Demo.Enabled && (c.Demo.Email == "" || c.Demo.Password == "") {
		errs = append(errs, errors.New("DEMO_EMAIL and DEMO_PASSWORD are required when demo login is enabled"))
	}

	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
