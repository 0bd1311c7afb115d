package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	SecretKey string

	Database      DatabaseConfig
	Redis         RedisConfig
	Log           LogConfig
	Dashboard     DashboardConfig
	Records       RecordsConfig
	Maintenance   MaintenanceConfig
	Notifications NotificationsConfig
	Projections   ProjectionsConfig
	Balance       BalanceConfig
	CORS          CORSConfig
}

type DatabaseConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
}

// RedisConfig is optional; an empty URL disables the dashboard cache.
type RedisConfig struct {
	URL string
}

type LogConfig struct {
	Level  string
	Format string
}

// DashboardConfig tunes the dashboard cache.
type DashboardConfig struct {
	CacheTTL time.Duration
}

// RecordsConfig controls how dependent records are accepted.
type RecordsConfig struct {
	RequireRegisteredLocation bool
}

// MaintenanceConfig guards the destructive wipe endpoint.
type MaintenanceConfig struct {
	DeletePassphrase     string
	DeletePassphraseHash string
}

// NotificationsConfig toggles alert generation and its cron schedule.
type NotificationsConfig struct {
	Enabled  bool
	Schedule string
}

// ProjectionsConfig holds trend projection defaults.
type ProjectionsConfig struct {
	DefaultMonths int
}

// BalanceConfig labels rendered balance sheets.
type BalanceConfig struct {
	Currency string
}

// CORSConfig lists origins allowed to call the JSON endpoints.
type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from .env (when present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.SecretKey = v.GetString("SECRET_KEY")

	cfg.Database = DatabaseConfig{
		URL:          strings.TrimSpace(v.GetString("DATABASE_URL")),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}
	if cfg.Database.URL == "" {
		return nil, errors.New("DATABASE_URL is not configured")
	}

	cfg.Redis = RedisConfig{URL: strings.TrimSpace(v.GetString("REDIS_URL"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Dashboard = DashboardConfig{
		CacheTTL: parseDuration(v.GetString("DASHBOARD_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Records = RecordsConfig{
		RequireRegisteredLocation: v.GetBool("REQUIRE_REGISTERED_LOCATION"),
	}

	cfg.Maintenance = MaintenanceConfig{
		DeletePassphrase:     v.GetString("DELETE_PASSPHRASE"),
		DeletePassphraseHash: v.GetString("DELETE_PASSPHRASE_HASH"),
	}

	cfg.Notifications = NotificationsConfig{
		Enabled:  v.GetBool("ENABLE_NOTIFICATIONS"),
		Schedule: v.GetString("NOTIFICATIONS_SCHEDULE"),
	}

	months := v.GetInt("PROJECTION_DEFAULT_MONTHS")
	if months < 1 {
		months = 6
	}
	cfg.Projections = ProjectionsConfig{DefaultMonths: months}

	cfg.Balance = BalanceConfig{Currency: v.GetString("CURRENCY")}

	cfg.CORS = CORSConfig{AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS"))}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("SECRET_KEY", "dev_secret_key")

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_URL", "")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("DASHBOARD_CACHE_TTL", "5m")
	v.SetDefault("REQUIRE_REGISTERED_LOCATION", true)

	v.SetDefault("DELETE_PASSPHRASE", "0429")
	v.SetDefault("DELETE_PASSPHRASE_HASH", "")

	v.SetDefault("ENABLE_NOTIFICATIONS", true)
	v.SetDefault("NOTIFICATIONS_SCHEDULE", "0 6 * * *")

	v.SetDefault("PROJECTION_DEFAULT_MONTHS", 6)
	v.SetDefault("CURRENCY", "PEN")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

// viper reports a missing explicit config file as a *fs.PathError rather than ConfigFileNotFoundError.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
