package config_test

import (
	"testing"
	"time"

	"pasar/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	v := viper.New()
	v.Set("JWT_SECRET", "secret")

	cfg, err := config.LoadFrom(v)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 10, cfg.DBMaxOpenConns)
	assert.Equal(t, 5*time.Second, cfg.DBQueryTimeout)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Empty(t, cfg.RabbitMQURL)
}

func TestLoadFrom_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("JWT_SECRET", "secret")
	v.Set("DB_DRIVER", "postgres")
	v.Set("DATABASE_DSN", "host=db user=pasar dbname=pasar")
	v.Set("DB_QUERY_TIMEOUT", "2s")

	cfg, err := config.LoadFrom(v)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "host=db user=pasar dbname=pasar", cfg.DatabaseDSN)
	assert.Equal(t, 2*time.Second, cfg.DBQueryTimeout)
}

func TestLoadFrom_Invalid(t *testing.T) {
	v := viper.New()
	v.Set("JWT_SECRET", "")
	_, err := config.LoadFrom(v)
	assert.ErrorContains(t, err, "JWT_SECRET")

	v = viper.New()
	v.Set("JWT_SECRET", "secret")
	v.Set("DB_DRIVER", "mysql")
	_, err = config.LoadFrom(v)
	assert.ErrorContains(t, err, "unsupported DB_DRIVER")
}
