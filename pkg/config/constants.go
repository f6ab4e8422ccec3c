package config

const (
	EnvPrefix = "STOREFRONT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	EnvAppEnv              = "STOREFRONT_APP_ENV"
	EnvPort                = "STOREFRONT_APP_PORT"
	EnvPublicURL           = "STOREFRONT_PUBLIC_URL"
	EnvBackendURL          = "STOREFRONT_BACKEND_URL"
	EnvBackendTimeout      = "STOREFRONT_BACKEND_TIMEOUT"
	EnvCookieSecure        = "STOREFRONT_COOKIE_SECURE"
	EnvWhatsAppPhone       = "STOREFRONT_WHATSAPP_PHONE"
	EnvCalculationTTL      = "STOREFRONT_CALCULATION_TTL"
	EnvCalculateLimit      = "STOREFRONT_CALCULATE_RATE_LIMIT"
	EnvRedisURL            = "STOREFRONT_REDIS_URL"
	EnvMaintenance         = "STOREFRONT_MAINTENANCE_ENABLED"
	EnvLedgerRetentionDays = "STOREFRONT_LEDGER_RETENTION_DAYS"
	EnvDBDSN               = "STOREFRONT_DB_DSN"
	EnvDBDriver            = "STOREFRONT_DB_DRIVER"
	EnvCORSOrigins         = "STOREFRONT_CORS_ORIGINS"
)
