package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dmiBot/internal/adapters/logger"
)

var configKeys = []string{
	"PORT", "DB_PATH", "BINANCE_API_KEY", "BINANCE_API_SECRET", "IS_TESTNET",
	"LOG_LEVEL", "LOG_FORMAT", "HTTP_READ_TIMEOUT_SECONDS", "HTTP_WRITE_TIMEOUT_SECONDS",
	"SHUTDOWN_TIMEOUT_SECONDS", "WEBHOOK_RATE_LIMIT_RPS", "WEBHOOK_RATE_LIMIT_BURST", "GIN_MODE", "TRUSTED_PROXIES",
}

// clearEnv blanks every key so the shell environment cannot leak in.
// getEnv treats empty values as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "./data/dmi_bot.db", cfg.DBPath)
	assert.True(t, cfg.IsTestnet)
	assert.Empty(t, cfg.APIKey)
	assert.Equal(t, logger.LevelInfo, cfg.LogLevel)
	assert.Equal(t, logger.FormatText, cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.WriteTimeout)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 5.0, cfg.WebhookRateLimitRPS)
	assert.Equal(t, 10, cfg.WebhookRateLimitBurst)
	assert.Equal(t, "release", cfg.GinMode)
	assert.Empty(t, cfg.TrustedProxies)
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("IS_TESTNET", "false")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("WEBHOOK_RATE_LIMIT_RPS", "0")
	t.Setenv("BINANCE_API_KEY", "key")
	t.Setenv("TRUSTED_PROXIES", " 10.0.0.1, 172.16.0.0/12 ,")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.False(t, cfg.IsTestnet)
	assert.Equal(t, logger.LevelDebug, cfg.LogLevel)
	assert.Equal(t, logger.FormatJSON, cfg.LogFormat)
	assert.Equal(t, 0.0, cfg.WebhookRateLimitRPS)
	assert.Equal(t, "key", cfg.APIKey)
	assert.Equal(t, []string{"10.0.0.1", "172.16.0.0/12"}, cfg.TrustedProxies)
}

func TestLoadConfig_CollectsErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "abc")
	t.Setenv("LOG_FORMAT", "xml")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "-1")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid PORT")
	assert.Contains(t, err.Error(), "LOG_FORMAT must be text or json")
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT_SECONDS must be positive")
}
