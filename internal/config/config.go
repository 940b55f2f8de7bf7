package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port            int
	APIKey          string
	CORSAllowOrigin string

	// Upstream feed
	GoldFeedURL      string
	SilverFeedURL    string
	FeedTimeoutSecs  int
	RetryMaxAttempts int
	RetryBaseDelayMS int
	RetryMaxDelayMS  int

	// Refresh
	RefreshIntervalMinutes int

	// Cache (optional)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Notifications
	WebhookURL string
	AppName    string

	// Logging
	LogLevel string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:            envInt("PORT", 8080),
		APIKey:          envStr("API_KEY", ""),
		CORSAllowOrigin: envStr("CORS_ALLOW_ORIGIN", "*"),

		GoldFeedURL:      envStr("GOLD_FEED_URL", "https://webwatch.tech/aura_gold_prices.json"),
		SilverFeedURL:    envStr("SILVER_FEED_URL", "https://webwatch.tech/aura_silver_prices.json"),
		FeedTimeoutSecs:  envInt("FEED_TIMEOUT_SECONDS", 10),
		RetryMaxAttempts: envInt("FEED_RETRY_MAX_ATTEMPTS", 3),
		RetryBaseDelayMS: envInt("FEED_RETRY_BASE_DELAY_MS", 2000),
		RetryMaxDelayMS:  envInt("FEED_RETRY_MAX_DELAY_MS", 10000),

		RefreshIntervalMinutes: envInt("REFRESH_INTERVAL_MINUTES", 5),

		RedisAddr:     envStr("REDIS_ADDR", ""),
		RedisPassword: envStr("REDIS_PASSWORD", ""),
		RedisDB:       envInt("REDIS_DB", 0),

		WebhookURL: envStr("WEBHOOK_URL", ""),
		AppName:    envStr("APP_NAME", "AuraPriceWatch"),

		LogLevel: envStr("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, "PORT must be between 1 and 65535")
	}
	if c.GoldFeedURL == "" {
		errs = append(errs, "GOLD_FEED_URL is required")
	}
	if c.SilverFeedURL == "" {
		errs = append(errs, "SILVER_FEED_URL is required")
	}
	if c.RefreshIntervalMinutes <= 0 {
		errs = append(errs, "REFRESH_INTERVAL_MINUTES must be positive")
	}
	if c.APIKey == "" {
		fmt.Println("[WARN] API_KEY not set, REST API has no authentication")
	}
	if c.RedisAddr == "" {
		fmt.Println("[WARN] REDIS_ADDR not set, running without snapshot cache")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func (c *Config) Print() {
	fmt.Println("=== Aura Metals Price Backend Configuration ===")
	fmt.Printf("Port: %d\n", c.Port)
	fmt.Printf("Gold feed: %s\n", c.GoldFeedURL)
	fmt.Printf("Silver feed: %s\n", c.SilverFeedURL)
	fmt.Printf("Refresh interval: %d min\n", c.RefreshIntervalMinutes)
	fmt.Printf("Feed timeout: %ds (retry x%d)\n", c.FeedTimeoutSecs, c.RetryMaxAttempts)
	fmt.Printf("Snapshot cache: %s\n", boolLabel(c.RedisAddr != "", c.RedisAddr, "disabled"))
	fmt.Printf("Webhook alerts: %s\n", boolLabel(c.WebhookURL != "", "configured", "disabled"))
	fmt.Printf("Authentication: %s\n", boolLabel(c.APIKey != "", "enabled (Bearer token)", "disabled"))
	fmt.Println("===============================================")
}

func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalMinutes) * time.Minute
}

func (c *Config) FeedTimeout() time.Duration {
	return time.Duration(c.FeedTimeoutSecs) * time.Second
}

// --- helpers ---

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func boolLabel(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
