package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=production"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	PageSize int    `env:"PAGE_SIZE, default=25"`

	Auth    AuthConfig
	Admin   AdminConfig
	Docs    DocsConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Cache   CacheConfig
	Breaker BreakerConfig
}

type AuthConfig struct {
	JWTSecret string `env:"JWT_SECRET"`
	// SecretFile, when set, holds the signing secret instead of JWT_SECRET and
	// is re-read on SIGHUP to rotate keys without a restart.
	SecretFile      string        `env:"JWT_SECRET_FILE"`
	PreviousSecrets []string      `env:"JWT_PREVIOUS_SECRETS"`
	TokenTTL        time.Duration `env:"TOKEN_TTL,          default=168h"`
	RenewWindow     time.Duration `env:"TOKEN_RENEW_WINDOW, default=1h"`
	Leeway          time.Duration `env:"TOKEN_LEEWAY,       default=0s"`
}

// AdminConfig seeds an administrator at startup when Password is set. The same
// email is used by the API docs auto-login.
type AdminConfig struct {
	Email    string `env:"ADMIN_EMAIL, default=admin@kazale.com"`
	Password string `env:"ADMIN_PASSWORD"`
}

// DocsConfig controls the API docs, which are only served in development.
// AutoLogin additionally exposes GET /swagger/auth, which hands out a token
// for the admin account without credentials.
type DocsConfig struct {
	AutoLogin bool `env:"DOCS_AUTOLOGIN, default=false"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=ponto_inteligente"`
}

type RedisConfig struct {
	Addr       string `env:"REDIS_ADDR,        default=localhost:6379"`
	Password   string `env:"REDIS_PASSWORD"`
	DB         int    `env:"REDIS_DB,          default=0"`
	ClientName string `env:"REDIS_CLIENT_NAME, default=ponto-api"`
	PoolSize   int    `env:"REDIS_POOL_SIZE,   default=0"`
}

// CacheConfig selects the entry cache: "memory" for an in-process LRU shared
// by one instance, "redis" when several instances serve the same store.
type CacheConfig struct {
	Backend string        `env:"CACHE_BACKEND,       default=memory"`
	Size    int           `env:"CACHE_SIZE,          default=10000"`
	TTL     time.Duration `env:"CACHE_TTL,           default=0s"`
	// TombstoneTTL is how long a deleted id stays blocked in a shared cache.
	TombstoneTTL time.Duration `env:"CACHE_TOMBSTONE_TTL, default=1m"`
}

type BreakerConfig struct {
	MinRequests  uint32        `env:"BREAKER_MIN_REQUESTS,  default=5"`
	FailureRatio float64       `env:"BREAKER_FAILURE_RATIO, default=0.6"`
	Interval     time.Duration `env:"BREAKER_INTERVAL,      default=10s"`
	OpenTimeout  time.Duration `env:"BREAKER_OPEN_TIMEOUT,  default=5s"`
	HalfOpenMax  uint32        `env:"BREAKER_HALF_OPEN_MAX, default=1"`
}

// Secret returns the current signing secret, read from SecretFile when set.
func (a AuthConfig) Secret() (string, error) {
	if a.SecretFile == "" {
		return a.JWTSecret, nil
	}
	b, err := os.ReadFile(a.SecretFile)
	if err != nil {
		return "", fmt.Errorf("config: read secret file: %w", err)
	}
	secret := strings.TrimSpace(string(b))
	if secret == "" {
		return "", fmt.Errorf("config: secret file %s is empty", a.SecretFile)
	}
	return secret, nil
}

// IsDevelopment reports whether development-only surfaces (API docs) are enabled.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development") || strings.EqualFold(c.Env, "dev")
}

// DocsAutoLogin reports whether GET /swagger/auth is mounted.
func (c *Config) DocsAutoLogin() bool {
	return c.IsDevelopment() && c.Docs.AutoLogin
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Auth.JWTSecret) == "" && c.Auth.SecretFile == "" {
		errs = append(errs, errors.New("JWT_SECRET or JWT_SECRET_FILE is required"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.Auth.Leeway < 0 {
		errs = append(errs, errors.New("TOKEN_LEEWAY must not be negative"))
	}
	if c.Docs.AutoLogin && !c.IsDevelopment() {
		errs = append(errs, errors.New("DOCS_AUTOLOGIN requires ENV=development"))
	}
	if c.Cache.TombstoneTTL <= 0 {
		errs = append(errs, errors.New("CACHE_TOMBSTONE_TTL must be positive"))
	}
	if c.PageSize <= 0 {
		errs = append(errs, errors.New("PAGE_SIZE must be positive"))
	}
	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		errs = append(errs, fmt.Errorf("CACHE_BACKEND %q must be memory or redis", c.Cache.Backend))
	}
	return errors.Join(errs...)
}

// LoadWith reads configuration through the given lookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: process: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}
