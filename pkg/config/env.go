package config

// EnvPrefix is handed to envconfig; every field below declares its full name explicitly.
const EnvPrefix = "BLOODBANK"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv       = "BLOODBANK_APP_ENV"
	EnvPort         = "BLOODBANK_APP_PORT"
	EnvLogLevel     = "BLOODBANK_LOG_LEVEL"
	EnvLogWarnStack = "BLOODBANK_LOG_WARN_STACK"

	EnvDBDSN    = "BLOODBANK_DB_DSN"
	EnvDBDriver = "BLOODBANK_DB_DRIVER"
	EnvDBHost   = "BLOODBANK_DB_HOST"
	EnvDBPort   = "BLOODBANK_DB_PORT"
	EnvDBUser   = "BLOODBANK_DB_USER"
	EnvDBPass   = "BLOODBANK_DB_PASSWORD"
	EnvDBName   = "BLOODBANK_DB_NAME"

	EnvRedisURL  = "BLOODBANK_REDIS_URL"
	EnvRedisAddr = "BLOODBANK_REDIS_ADDR"

	EnvUseMemoryStore = "BLOODBANK_USE_MEMORY_STORE"
	EnvAutoMigrate    = "BLOODBANK_AUTO_MIGRATE"
	EnvSeedDemoData   = "BLOODBANK_SEED_DEMO_DATA"

	EnvCriticalThreshold = "BLOODBANK_INVENTORY_CRITICAL_THRESHOLD"
	EnvExpiryHorizonDays = "BLOODBANK_INVENTORY_EXPIRY_HORIZON_DAYS"
	EnvShelfLifeDays     = "BLOODBANK_INVENTORY_SHELF_LIFE_DAYS"

	EnvCronInterval = "BLOODBANK_CRON_INTERVAL"
	EnvCronLockTTL  = "BLOODBANK_CRON_LOCK_TTL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
