package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiry())
	assert.Equal(t, uint32(32), cfg.Argon2.KeyLength)
	assert.Equal(t, "Sinthiya Telecom", cfg.Shop.Name)
	assert.Equal(t, 2*time.Minute, cfg.Cache.DashboardTTL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "s3cret")
	t.Setenv("DATABASE_HOST", "db.internal")
	t.Setenv("PORT", "9090")
	t.Setenv("GEMINI_API_KEY", "key-123")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "key-123", cfg.Gemini.APIKey)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Contains(t, cfg.Database.DSN(), "host=db.internal")
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.secret_key")
}

func TestValidate_LogLevel(t *testing.T) {
	cfg := Config{
		JWT:    JWTConfig{SecretKey: "x", ExpiryHours: 1},
		Argon2: Argon2Config{SaltLength: 16, KeyLength: 32},
		Log:    LogConfig{Level: "loud"},
	}
	assert.Error(t, cfg.Validate())

	cfg.Log.Level = "warn"
	assert.NoError(t, cfg.Validate())
}

func TestShopLocation(t *testing.T) {
	assert.Equal(t, time.UTC, ShopConfig{Timezone: "Nowhere/Invalid"}.Location())
}
