package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"referral_rewards/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort       string
	AppVersion    string
	DatabaseURL   string
	DBMaxConns    int32
	AllowedOrigin string

	// Referral program
	ReferralLinkTemplate string
	MaxReferralDepth     int

	// Redis backed rate limiting, disabled when RedisAddr is empty
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	APIRateLimit  int
	APIRateWindow time.Duration

	LogLevel string
	LogJSON  bool
}

// Load reads .env and the environment, exiting when required values are missing
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := LoadFromEnv()
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	return cfg
}

// LoadFromEnv builds the config from environment variables only
func LoadFromEnv() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	linkTemplate := getString("REFERRAL_LINK_TEMPLATE", "https://example.com/register?ref=%s")
	if strings.Count(linkTemplate, "%s") != 1 {
		return nil, errors.New("REFERRAL_LINK_TEMPLATE must contain exactly one %s")
	}

	return &Config{
		AppPort:              getString("APP_PORT", "8080"),
		AppVersion:           getString("APP_VERSION", "dev"),
		DatabaseURL:          dbURL,
		DBMaxConns:           int32(getPositiveInt("DB_MAX_CONNS", 10)),
		AllowedOrigin:        os.Getenv("ALLOWED_ORIGIN"),
		ReferralLinkTemplate: linkTemplate,
		MaxReferralDepth:     getPositiveInt("MAX_REFERRAL_DEPTH", 3),
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		RedisPassword:        os.Getenv("REDIS_PASSWORD"),
		RedisDB:              getPositiveInt("REDIS_DB", 0),
		APIRateLimit:         getPositiveInt("API_RATE_LIMIT", 60),
		APIRateWindow:        time.Duration(getPositiveInt("API_RATE_WINDOW_SECONDS", 60)) * time.Second,
		LogLevel:             getString("LOG_LEVEL", "info"),
		LogJSON:              os.Getenv("LOG_FORMAT") == "json",
	}, nil
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getPositiveInt falls back to def for unset, malformed or non-positive values
func getPositiveInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
