package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.Server.Addr)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "admin@store.com", cfg.Auth.AdminEmail)
	assert.Equal(t, 83.0, cfg.Currency.Rate)
	assert.Equal(t, "INR", cfg.Currency.Code)
	assert.Equal(t, "local", cfg.Media.Provider)
	assert.EqualValues(t, 8<<20, cfg.Media.MaxUploadBytes)
	assert.Equal(t, 10*time.Second, cfg.Client.Timeout)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("STOREFRONT_DB_DRIVER", "memory")
	t.Setenv("STOREFRONT_AUTH_JWT_SECRET", "s3cret")
	t.Setenv("STOREFRONT_CURRENCY_RATE", "90.5")
	t.Setenv("STOREFRONT_CLIENT_API_URL", "http://shop.local/api")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.DB.Driver)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 90.5, cfg.Currency.Rate)
	assert.Equal(t, "http://shop.local/api", cfg.Client.APIURL)
	assert.NoError(t, cfg.ValidateServer())
}

func TestValidateServer(t *testing.T) {
	valid := Config{
		DB:       DBConfig{Driver: "mongo"},
		Auth:     AuthConfig{JWTSecret: "x"},
		Currency: CurrencyConfig{Rate: 83},
	}
	require.NoError(t, valid.ValidateServer())

	noSecret := valid
	noSecret.Auth.JWTSecret = ""
	assert.Error(t, noSecret.ValidateServer())

	badRate := valid
	badRate.Currency.Rate = 0
	assert.Error(t, badRate.ValidateServer())

	badDriver := valid
	badDriver.DB.Driver = "sqlite"
	assert.Error(t, badDriver.ValidateServer())
}
