package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the process-wide settings read at startup.
type Config struct {
	AppPort string

	DBDriver          string
	DatabaseDSN       string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	DBQueryTimeout    time.Duration

	JWTSecret string
	JWTTTL    time.Duration

	RabbitMQURL string

	UploadDir     string
	PublicBaseURL string

	LogLevel string
	LogFile  string
}

// Load reads configuration from environment variables, falling back to defaults.
func Load() (Config, error) {
	return LoadFrom(viper.New())
}

// LoadFrom reads configuration through the given viper instance. Tests use it to
// inject values without touching the process environment.
func LoadFrom(v *viper.Viper) (Config, error) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "file:pasar.db?_foreign_keys=1&_busy_timeout=5000")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 30*time.Minute)
	v.SetDefault("DB_QUERY_TIMEOUT", 5*time.Second)
	v.SetDefault("JWT_TTL", 24*time.Hour)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("UPLOAD_DIR", "./uploads")
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "")
	v.AutomaticEnv() // Load environment variables

	cfg := Config{
		AppPort:           v.GetString("APP_PORT"),
		DBDriver:          v.GetString("DB_DRIVER"),
		DatabaseDSN:       v.GetString("DATABASE_DSN"),
		DBMaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
		DBMaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
		DBConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		DBQueryTimeout:    v.GetDuration("DB_QUERY_TIMEOUT"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		JWTTTL:            v.GetDuration("JWT_TTL"),
		RabbitMQURL:       v.GetString("RABBITMQ_URL"),
		UploadDir:         v.GetString("UPLOAD_DIR"),
		PublicBaseURL:     v.GetString("PUBLIC_BASE_URL"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		LogFile:           v.GetString("LOG_FILE"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first missing or out-of-range setting.
func (c Config) Validate() error {
	if c.AppPort == "" {
		return fmt.Errorf("APP_PORT required")
	}
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want sqlite or postgres)", c.DBDriver)
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("DATABASE_DSN required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET required")
	}
	if c.DBQueryTimeout <= 0 {
		return fmt.Errorf("DB_QUERY_TIMEOUT must be positive")
	}
	return nil
}
