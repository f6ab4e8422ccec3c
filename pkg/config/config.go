package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Backend      BackendConfig
	Cookie       CookieConfig
	Quote        QuoteConfig
	Calculation  CalculationConfig
	RateLimit    RateLimitConfig
	Maintenance  MaintenanceConfig
	Redis        RedisConfig
	DB           DBConfig
	FeatureFlags FeatureFlagsConfig
	CORS         CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Backend.validate(); err != nil {
		return nil, err
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	if cfg.Maintenance.LedgerRetentionDays < 1 {
		return nil, fmt.Errorf("%s must be at least 1", EnvLedgerRetentionDays)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" default:"dev"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
	// PublicURL is the origin used in share links. When empty the origin of
	// the inbound request is used.
	PublicURL string `envconfig:"STOREFRONT_PUBLIC_URL"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// BackendConfig points at the pricing/cart API.
type BackendConfig struct {
	BaseURL string `envconfig:"STOREFRONT_BACKEND_URL" default:"http://localhost:3000"`
	// Timeout of zero leaves calls bounded only by the request context.
	Timeout time.Duration `envconfig:"STOREFRONT_BACKEND_TIMEOUT" default:"0s"`
}

func (b *BackendConfig) validate() error {
	b.BaseURL = strings.TrimRight(strings.TrimSpace(b.BaseURL), "/")
	u, err := url.Parse(b.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL, got %q", EnvBackendURL, b.BaseURL)
	}
	if b.Timeout < 0 {
		return fmt.Errorf("%s must not be negative", EnvBackendTimeout)
	}
	return nil
}

type CookieConfig struct {
	Secure bool `envconfig:"STOREFRONT_COOKIE_SECURE" default:"true"`
}

type QuoteConfig struct {
	WhatsAppPhone string `envconfig:"STOREFRONT_WHATSAPP_PHONE" default:"254724275877"`
	PagePath      string `envconfig:"STOREFRONT_QUOTE_PAGE_PATH" default:"/"`
}

type CalculationConfig struct {
	TTL time.Duration `envconfig:"STOREFRONT_CALCULATION_TTL" default:"24h"`
}

// RateLimitConfig throttles pricing requests per client IP. It only applies
// when Redis is configured; a zero window or limit disables it.
type RateLimitConfig struct {
	CalculateWindow time.Duration `envconfig:"STOREFRONT_CALCULATE_RATE_WINDOW" default:"1m"`
	CalculateLimit  int           `envconfig:"STOREFRONT_CALCULATE_RATE_LIMIT" default:"30"`
}

// MaintenanceConfig drives the in-process job scheduler.
type MaintenanceConfig struct {
	Enabled             bool          `envconfig:"STOREFRONT_MAINTENANCE_ENABLED" default:"true"`
	Interval            time.Duration `envconfig:"STOREFRONT_MAINTENANCE_INTERVAL" default:"10m"`
	LedgerRetentionDays int           `envconfig:"STOREFRONT_LEDGER_RETENTION_DAYS" default:"90"`
}

// RedisConfig is optional; without a URL or address the last calculation of
// each cart is kept in process memory.
type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

// DBConfig backs the quote export ledger. Without a DSN the ledger is off.
type DBConfig struct {
	DSN    string `envconfig:"STOREFRONT_DB_DSN"`
	Driver string `envconfig:"STOREFRONT_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db DBConfig) Enabled() bool {
	return db.DSN != ""
}

func (db *DBConfig) validate() error {
	db.Driver = strings.ToLower(strings.TrimSpace(db.Driver))
	switch db.Driver {
	case DriverPostgres, DriverSQLite:
		return nil
	default:
		return fmt.Errorf("%s must be %q or %q, got %q", EnvDBDriver, DriverPostgres, DriverSQLite, db.Driver)
	}
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"STOREFRONT_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"STOREFRONT_CORS_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
}
