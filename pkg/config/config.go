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
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	Inventory    InventoryConfig
	Cron         CronConfig
	Metrics      MetricsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseMemoryStore {
		return &cfg, nil
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BLOODBANK_APP_ENV" required:"true"`
	Port         string `envconfig:"BLOODBANK_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"BLOODBANK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BLOODBANK_LOG_WARN_STACK" default:"false"`

	CORSOrigins     []string      `envconfig:"BLOODBANK_CORS_ORIGINS" default:"http://localhost:3000"`
	ReadTimeout     time.Duration `envconfig:"BLOODBANK_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"BLOODBANK_HTTP_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"BLOODBANK_HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"BLOODBANK_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"BLOODBANK_DB_DSN"`
	Driver string `envconfig:"BLOODBANK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BLOODBANK_DB_HOST"`
	LegacyPort     int    `envconfig:"BLOODBANK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BLOODBANK_DB_USER"`
	LegacyPassword string `envconfig:"BLOODBANK_DB_PASSWORD"`
	LegacyName     string `envconfig:"BLOODBANK_DB_NAME"`
	LegacySSLMode  string `envconfig:"BLOODBANK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BLOODBANK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BLOODBANK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BLOODBANK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BLOODBANK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the relational store runs on the sqlite driver.
func (d DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(d.Driver), "sqlite")
}

// RedisConfig is optional: when neither URL nor address is set the API runs
// without idempotency replay and the cron worker falls back to a local lock.
type RedisConfig struct {
	URL          string        `envconfig:"BLOODBANK_REDIS_URL"`
	Address      string        `envconfig:"BLOODBANK_REDIS_ADDR"`
	Password     string        `envconfig:"BLOODBANK_REDIS_PASSWORD"`
	DB           int           `envconfig:"BLOODBANK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BLOODBANK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BLOODBANK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BLOODBANK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BLOODBANK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BLOODBANK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type FeatureFlagsConfig struct {
	UseMemoryStore bool `envconfig:"BLOODBANK_USE_MEMORY_STORE" default:"false"`
	AutoMigrate    bool `envconfig:"BLOODBANK_AUTO_MIGRATE" default:"false"`
	SeedDemoData   bool `envconfig:"BLOODBANK_SEED_DEMO_DATA" default:"false"`
}

// InventoryConfig holds the stock heuristics used by the summarizer and the
// donation workflow. Defaults mirror the values operators have always seen.
type InventoryConfig struct {
	CriticalThreshold int `envconfig:"BLOODBANK_INVENTORY_CRITICAL_THRESHOLD" default:"10"`
	ExpiryHorizonDays int `envconfig:"BLOODBANK_INVENTORY_EXPIRY_HORIZON_DAYS" default:"7"`
	ShelfLifeDays     int `envconfig:"BLOODBANK_INVENTORY_SHELF_LIFE_DAYS" default:"42"`
	MaxExpiringWindow int `envconfig:"BLOODBANK_INVENTORY_MAX_EXPIRING_WINDOW_DAYS" default:"90"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"BLOODBANK_CRON_INTERVAL" default:"1h"`
	LockTTL  time.Duration `envconfig:"BLOODBANK_CRON_LOCK_TTL" default:"55m"`
}

type MetricsConfig struct {
	Enabled bool   `envconfig:"BLOODBANK_METRICS_ENABLED" default:"true"`
	Path    string `envconfig:"BLOODBANK_METRICS_PATH" default:"/metrics"`
	Addr    string `envconfig:"BLOODBANK_METRICS_ADDR" default:":9090"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required for the sqlite driver", EnvDBDSN)
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
