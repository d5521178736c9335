package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "postgres", cfg.App.StorageDriver)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 5*time.Minute, cfg.Redis.TTL)
	assert.False(t, cfg.Redis.Enabled(), "sin REDIS_URL la caché queda apagada")
	assert.False(t, cfg.Lifecycle.DispatchDecrementsStock, "el despacho no descuenta stock por defecto")
}

func TestFromViper_LeeValoresComoTexto(t *testing.T) {
	v := viper.New()
	v.Set("DB_PORT", "6543")
	v.Set("DISPATCH_DECREMENTS_STOCK", "true")
	v.Set("STORAGE_DRIVER", "MEMORY")
	v.Set("REDIS_URL", "redis://localhost:6379/0")
	v.Set("CACHE_TTL_SECONDS", "30")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 6543, cfg.DB.Port)
	assert.True(t, cfg.Lifecycle.DispatchDecrementsStock)
	assert.Equal(t, "memory", cfg.App.StorageDriver)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL)
}

func TestFromViper_DriverInvalido(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_DRIVER", "mysql")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestFromViper_ProduccionSinSecreto(t *testing.T) {
	v := viper.New()
	v.Set("APP_ENV", "production")
	_, err := fromViper(v)
	assert.Error(t, err, "producción exige JWT_SECRET")
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "indrhi", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/indrhi?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
