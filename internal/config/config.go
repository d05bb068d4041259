// Package config provides application configuration management.
// It loads settings from environment variables and provides defaults for
// the Telegram transport, the booker API client and the ops HTTP server.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Telegram Bot Configuration
	TelegramToken string

	// Booker API Configuration
	BookerBaseURL string
	BookerTimeout time.Duration

	// Error tracking (Better Stack / Sentry)
	BetterstackToken string // Better Stack Logs source token (empty = stdout only)
	SentryToken      string // Better Stack Errors token (empty = Sentry disabled)
	SentryHost       string // Better Stack Errors ingesting host
	Environment      string // Deployment environment label

	// Metrics Authentication
	MetricsUsername string // Username for /metrics endpoint Basic Auth (default: "prometheus")
	MetricsPassword string // Password for /metrics endpoint Basic Auth (empty = no auth)

	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Bot Configuration (embedded)
	Bot BotConfig
}

// BotConfig holds bot-specific configuration
type BotConfig struct {
	// Rate Limits (Token Bucket Algorithm)
	ChatRateLimitBurst        float64 // Maximum burst tokens per chat (default: 10)
	ChatRateLimitRefillPerSec float64 // Tokens refilled per second (default: 0.5 = 1 per 2s)

	// Telegram API Constraints
	MaxCallbackDataSize int // Maximum callback payload size (Telegram limit: 64 bytes)

	// Menu layout
	WeekdaysPerRow    int // Buttons per row in the weekday menu (default: 3)
	TimeSlotsPerRow   int // Buttons per row in the time-slot menu (default: 6)
	BotsPerRow        int // Buttons per row in the delete-bot menu (default: 2)
	GroupMenuRowWidth int // Max cumulative label width per row in grouped-booking menus (default: 44)
}

// Load reads configuration from environment variables
// It attempts to load .env file first, then reads from env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken: getEnv("TELEGRAM_BOT_TOKEN", ""),

		BookerBaseURL: getEnv("BOOKER_API_URL", ""),
		BookerTimeout: getDurationEnv("BOOKER_TIMEOUT", 15*time.Second),

		BetterstackToken: getEnv("BETTERSTACK_TOKEN", ""),
		SentryToken:      getEnv("SENTRY_TOKEN", ""),
		SentryHost:       getEnv("SENTRY_HOST", "errors.betterstack.com"),
		Environment:      getEnv("ENVIRONMENT", "production"),

		MetricsUsername: getEnv("METRICS_USERNAME", "prometheus"),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),

		Port:            getEnv("PORT", "10000"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 30*time.Second),

		Bot: BotConfig{
			ChatRateLimitBurst:        getFloatEnv("CHAT_RATE_LIMIT_BURST", 10.0),
			ChatRateLimitRefillPerSec: getFloatEnv("CHAT_RATE_LIMIT_REFILL_PER_SEC", 0.5),
			MaxCallbackDataSize:       TelegramMaxCallbackDataLength,
			WeekdaysPerRow:            getIntEnv("WEEKDAYS_PER_ROW", 3),
			TimeSlotsPerRow:           getIntEnv("TIME_SLOTS_PER_ROW", 6),
			BotsPerRow:                getIntEnv("BOTS_PER_ROW", 2),
			GroupMenuRowWidth:         getIntEnv("GROUP_MENU_ROW_WIDTH", 44),
		},
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// TelegramMaxCallbackDataLength is the hard ceiling Telegram imposes on
// callback_data for inline keyboard buttons, in bytes.
const TelegramMaxCallbackDataLength = 64

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	var errs []error

	if c.TelegramToken == "" {
		errs = append(errs, errors.New("TELEGRAM_BOT_TOKEN is required"))
	}
	if c.BookerBaseURL == "" {
		errs = append(errs, errors.New("BOOKER_API_URL is required"))
	} else if _, err := url.Parse(c.BookerBaseURL); err != nil {
		errs = append(errs, fmt.Errorf("BOOKER_API_URL is not a valid URL: %w", err))
	}
	if c.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	if c.BookerTimeout <= 0 {
		errs = append(errs, fmt.Errorf("BOOKER_TIMEOUT must be positive, got %v", c.BookerTimeout))
	}
	if err := c.Bot.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("bot config: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Validate checks bot-specific configuration values
func (c *BotConfig) Validate() error {
	var errs []error

	if c.ChatRateLimitBurst <= 0 {
		errs = append(errs, fmt.Errorf("CHAT_RATE_LIMIT_BURST must be positive, got %v", c.ChatRateLimitBurst))
	}
	if c.ChatRateLimitRefillPerSec <= 0 {
		errs = append(errs, fmt.Errorf("CHAT_RATE_LIMIT_REFILL_PER_SEC must be positive, got %v", c.ChatRateLimitRefillPerSec))
	}
	if c.WeekdaysPerRow < 1 || c.TimeSlotsPerRow < 1 || c.BotsPerRow < 1 {
		errs = append(errs, errors.New("buttons per row must be at least 1"))
	}
	if c.GroupMenuRowWidth < 1 {
		errs = append(errs, fmt.Errorf("GROUP_MENU_ROW_WIDTH must be at least 1, got %d", c.GroupMenuRowWidth))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves integer environment variable with fallback to default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getFloatEnv retrieves float64 environment variable with fallback to default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
