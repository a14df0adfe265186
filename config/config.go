package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"dmiBot/internal/adapters/logger"
)

// Config holds all application configuration.
type Config struct {
	// HTTP server
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	GinMode         string

	// Webhook rate limiting (per client IP)
	WebhookRateLimitRPS   float64
	WebhookRateLimitBurst int

	// Reverse proxies allowed to set X-Forwarded-For; empty trusts none
	TrustedProxies []string

	// Binance API
	APIKey    string
	SecretKey string
	IsTestnet bool

	// Database
	DBPath string

	// Logging
	LogLevel  logger.LogLevel
	LogFormat logger.Format
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var err error
	var errs []string // Collect validation errors

	// HTTP server
	cfg.Port, err = getEnvAsIntRequired("PORT", 8080)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid PORT: %v", err))
	} else if cfg.Port <= 0 || cfg.Port > 65535 {
		errs = append(errs, "PORT must be between 1 and 65535")
	}

	cfg.ReadTimeout, err = getEnvAsSeconds("HTTP_READ_TIMEOUT_SECONDS", 10)
	if err != nil {
		errs = append(errs, err.Error())
	}
	cfg.WriteTimeout, err = getEnvAsSeconds("HTTP_WRITE_TIMEOUT_SECONDS", 15)
	if err != nil {
		errs = append(errs, err.Error())
	}
	cfg.ShutdownTimeout, err = getEnvAsSeconds("SHUTDOWN_TIMEOUT_SECONDS", 10)
	if err != nil {
		errs = append(errs, err.Error())
	}

	cfg.GinMode = strings.ToLower(getEnv("GIN_MODE", "release"))
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Sprintf("GIN_MODE must be one of debug, release, test (got %q)", cfg.GinMode))
	}

	// Rate limiting; an RPS of 0 disables it
	cfg.WebhookRateLimitRPS, err = getEnvAsFloatRequired("WEBHOOK_RATE_LIMIT_RPS", 5)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid WEBHOOK_RATE_LIMIT_RPS: %v", err))
	} else if cfg.WebhookRateLimitRPS < 0 {
		errs = append(errs, "WEBHOOK_RATE_LIMIT_RPS cannot be negative")
	}
	cfg.WebhookRateLimitBurst, err = getEnvAsIntRequired("WEBHOOK_RATE_LIMIT_BURST", 10)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid WEBHOOK_RATE_LIMIT_BURST: %v", err))
	} else if cfg.WebhookRateLimitBurst <= 0 {
		errs = append(errs, "WEBHOOK_RATE_LIMIT_BURST must be positive")
	}

	cfg.TrustedProxies = getEnvAsList("TRUSTED_PROXIES")

	// Binance API. Keys are optional: price lookups are public and the
	// client logs a warning when they are missing.
	cfg.APIKey = getEnv("BINANCE_API_KEY", "")
	cfg.SecretKey = getEnv("BINANCE_API_SECRET", "")
	cfg.IsTestnet = getEnvAsBool("IS_TESTNET", true) // Default to testnet for safety

	// Database
	cfg.DBPath = getEnv("DB_PATH", "./data/dmi_bot.db")

	// Logging
	cfg.LogLevel = logger.ParseLevel(getEnv("LOG_LEVEL", "INFO"))
	logFormat := strings.ToLower(strings.TrimSpace(getEnv("LOG_FORMAT", string(logger.FormatText))))
	if logFormat != string(logger.FormatText) && logFormat != string(logger.FormatJSON) {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT must be text or json (got %q)", logFormat))
	}
	cfg.LogFormat = logger.ParseFormat(logFormat)

	// Combine validation errors
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsIntRequired(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		// Use default if env var is not set at all
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		// Return error if env var is set but invalid
		return 0, fmt.Errorf("invalid integer value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsFloatRequired(key string, defaultValue float64) (float64, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsSeconds(key string, defaultSeconds int) (time.Duration, error) {
	seconds, err := getEnvAsIntRequired(key, defaultSeconds)
	if err != nil {
		return 0, err
	}
	if seconds <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return time.Duration(seconds) * time.Second, nil
}

func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
