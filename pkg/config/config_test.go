package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.Backend.BaseURL != "http://localhost:3000" {
		t.Fatalf("unexpected backend url %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Timeout != 0 {
		t.Fatalf("expected no backend timeout by default, got %v", cfg.Backend.Timeout)
	}
	if !cfg.Cookie.Secure {
		t.Fatalf("cookies should be secure by default")
	}
	if cfg.Quote.WhatsAppPhone != "254724275877" {
		t.Fatalf("unexpected whatsapp phone %q", cfg.Quote.WhatsAppPhone)
	}
	if cfg.Calculation.TTL != 24*time.Hour {
		t.Fatalf("unexpected calculation ttl %v", cfg.Calculation.TTL)
	}
	if cfg.RateLimit.CalculateWindow != time.Minute || cfg.RateLimit.CalculateLimit != 30 {
		t.Fatalf("unexpected rate limit defaults %+v", cfg.RateLimit)
	}
	if !cfg.Maintenance.Enabled || cfg.Maintenance.Interval != 10*time.Minute {
		t.Fatalf("unexpected maintenance defaults %+v", cfg.Maintenance)
	}
	if cfg.Maintenance.LedgerRetentionDays != 90 {
		t.Fatalf("unexpected ledger retention %d", cfg.Maintenance.LedgerRetentionDays)
	}
	if cfg.Redis.Enabled() {
		t.Fatalf("redis should be disabled without url")
	}
	if cfg.DB.Enabled() {
		t.Fatalf("ledger db should be disabled without dsn")
	}
	if len(cfg.CORS.AllowedOrigins) != 2 {
		t.Fatalf("unexpected cors origins %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAppEnv, "prod")
	t.Setenv(EnvBackendURL, "https://pricing.example.com/")
	t.Setenv(EnvBackendTimeout, "15s")
	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
	t.Setenv(EnvDBDSN, "file:ledger.db")
	t.Setenv(EnvDBDriver, "SQLite")
	t.Setenv(EnvCalculateLimit, "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if !cfg.App.IsProd() {
		t.Fatalf("expected prod env")
	}
	if cfg.Backend.BaseURL != "https://pricing.example.com" {
		t.Fatalf("trailing slash should be trimmed, got %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Timeout != 15*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.Backend.Timeout)
	}
	if !cfg.Redis.Enabled() || !cfg.DB.Enabled() {
		t.Fatalf("redis and db should be enabled")
	}
	if cfg.RateLimit.CalculateLimit != 5 {
		t.Fatalf("unexpected calculate limit %d", cfg.RateLimit.CalculateLimit)
	}
	if cfg.DB.Driver != DriverSQLite {
		t.Fatalf("driver should be normalized, got %q", cfg.DB.Driver)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvBackendURL, "not a url")
	if _, err := Load(); err == nil {
		t.Fatal("expected relative backend url to be rejected")
	}

	clearEnv(t)
	t.Setenv(EnvDBDriver, "mysql")
	if _, err := Load(); err == nil {
		t.Fatal("expected unknown driver to be rejected")
	}

	clearEnv(t)
	t.Setenv(EnvLedgerRetentionDays, "0")
	if _, err := Load(); err == nil {
		t.Fatal("expected zero retention to be rejected")
	}
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() || devConfig.IsProd() {
		t.Fatalf("unexpected helpers for %q", devConfig.Env)
	}
	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() || prodConfig.IsDev() {
		t.Fatalf("unexpected helpers for %q", prodConfig.Env)
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvAppEnv, EnvPort, EnvPublicURL, EnvBackendURL, EnvBackendTimeout,
		EnvCookieSecure, EnvWhatsAppPhone, EnvCalculationTTL, EnvRedisURL,
		EnvDBDSN, EnvDBDriver, EnvCORSOrigins, EnvCalculateLimit,
		EnvMaintenance, EnvLedgerRetentionDays,
	} {
		// t.Setenv restores the original value on cleanup.
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset %s: %v", key, err)
		}
	}
}
