package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the POS terminal.
type Config struct {
	Port     string
	Env      string
	Location *time.Location
	Currency string
	SeedFile string

	KitchenDelay      time.Duration
	PaymentDelay      time.Duration
	LowStockThreshold int
	RequestTimeout    time.Duration

	// Optional side channels. Empty values disable them.
	RedisURL        string
	NotifyChannel   string
	KafkaBrokers    []string
	KafkaOrderTopic string
	SNSTopicARN     string

	RateLimitRPS   float64
	RateLimitBurst int
}

// LoadConfig reads configuration from the environment, after loading a .env
// file when one is present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", "8095"),
		Env:             getEnv("APP_ENV", "development"),
		Currency:        getEnv("POS_CURRENCY", "$"),
		SeedFile:        os.Getenv("POS_SEED_FILE"),
		RedisURL:        os.Getenv("REDIS_URL"),
		NotifyChannel:   getEnv("NOTIFY_CHANNEL", "pos:notifications"),
		KafkaBrokers:    splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaOrderTopic: getEnv("KAFKA_ORDER_TOPIC", "pos.orders"),
		SNSTopicARN:     os.Getenv("POS_SNS_TOPIC_ARN"),
	}

	loc, err := time.LoadLocation(getEnv("POS_TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("invalid POS_TIMEZONE: %w", err)
	}
	cfg.Location = loc

	if cfg.KitchenDelay, err = getDuration("KITCHEN_DELAY", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.PaymentDelay, err = getDuration("PAYMENT_DELAY", time.Second); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.LowStockThreshold, err = getInt("LOW_STOCK_THRESHOLD", 10); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = getInt("RATE_LIMIT_BURST", 40); err != nil {
		return nil, err
	}

	cfg.RateLimitRPS = 20
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil || rps <= 0 {
			return nil, fmt.Errorf("invalid RATE_LIMIT_RPS %q", v)
		}
		cfg.RateLimitRPS = rps
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return n, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
