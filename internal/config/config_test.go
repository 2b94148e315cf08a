package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ADMIN_USERNAME", "")
	t.Setenv("DATABASE_TYPE", "")
	t.Setenv("AUTH_TOKEN_TTL", "")
	t.Setenv("RATE_LIMIT_ENABLED", "")
	t.Setenv("RATE_LIMIT_LOGIN_ATTEMPTS", "")
	t.Setenv("RATE_LIMIT_LOGIN_WINDOW", "")
	t.Chdir(t.TempDir())

	cfg := Load()
	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.Equal(t, "sqlite", cfg.DBType)
	assert.Equal(t, 8*time.Hour, cfg.AuthTokenTTL)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 10, cfg.RateLimit.LoginAttempts)
	assert.Equal(t, time.Minute, cfg.RateLimit.LoginWindow)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ADMIN_USERNAME", "  owner ")
	t.Setenv("ADMIN_PASSWORD", "s3cret")
	t.Setenv("DATABASE_TYPE", "Postgres")
	t.Setenv("AUTH_TOKEN_TTL", "15m")
	t.Setenv("DATABASE_MAX_OPEN_CONN", "not-a-number")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("RATE_LIMIT_ENABLED", "yes")
	t.Setenv("RATE_LIMIT_LOGIN_WINDOW", "30s")

	cfg := Load()
	assert.Equal(t, "owner", cfg.AdminUsername)
	assert.Equal(t, "s3cret", cfg.AdminPassword)
	assert.Equal(t, "postgres", cfg.DBType)
	assert.Equal(t, 15*time.Minute, cfg.AuthTokenTTL)
	assert.Equal(t, 10, cfg.DBMaxOpenConn)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.LoginWindow)
}

func TestDisplayConfigDefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	holder, err := NewDisplayConfigHolder()
	require.NoError(t, err)
	assert.Equal(t, DefaultDisplayConfig(), holder.Get())
}

func TestDisplayConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	body := "display:\n  tiers:\n    silver: 150\n    gold: 400\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "display.yml"), []byte(body), 0o600))
	t.Chdir(dir)

	holder, err := NewDisplayConfigHolder()
	require.NoError(t, err)
	assert.Equal(t, int64(150), holder.Get().Tiers.Silver)
	assert.Equal(t, int64(400), holder.Get().Tiers.Gold)
}

func TestDisplayConfigRejectsInvertedThresholds(t *testing.T) {
	dir := t.TempDir()
	body := "display:\n  tiers:\n    silver: 500\n    gold: 100\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "display.yml"), []byte(body), 0o600))
	t.Chdir(dir)

	_, err := NewDisplayConfigHolder()
	assert.Error(t, err)
}
