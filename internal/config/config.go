package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

type Config struct {
	Port            string
	LogLevel        zerolog.Level
	DBPath          string
	JWTSecret       string
	JWTExpiresDays  int
	CookieName      string
	AnonCookieName  string
	ClientOrigin    string
	Production      bool
	DailySalt       string
	DefaultEasyMode bool
	RequestTimeout  time.Duration
	SessionIdle     time.Duration
}

// Load reads configuration from the environment. Call godotenv.Load first
// to pick up a local .env file.
func Load() (Config, error) {
	c := Config{
		Port:           envOr("PORT", "5175"),
		DBPath:         envOr("DB_PATH", "./data/cardloop.db"),
		JWTSecret:      envOr("JWT_SECRET", "dev_secret_change_me"),
		JWTExpiresDays: 14,
		CookieName:     envOr("COOKIE_NAME", "cardloop_token"),
		AnonCookieName: envOr("ANON_COOKIE_NAME", "cardloop_anon"),
		ClientOrigin:   envOr("CLIENT_ORIGIN", "http://localhost:5173"),
		Production:     os.Getenv("NODE_ENV") == "production",
		DailySalt:      envOr("DAILY_SALT", "local_dev_salt"),
		RequestTimeout: 10 * time.Second,
		SessionIdle:    2 * time.Hour,
	}

	level, err := zerolog.ParseLevel(envOr("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	c.LogLevel = level

	if v := os.Getenv("JWT_EXPIRES_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid JWT_EXPIRES_DAYS %q", v)
		}
		c.JWTExpiresDays = n
	}
	if v := os.Getenv("DEFAULT_EASY_MODE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DEFAULT_EASY_MODE %q: %w", v, err)
		}
		c.DefaultEasyMode = b
	}
	if c.RequestTimeout, err = durationOr("REQUEST_TIMEOUT", c.RequestTimeout); err != nil {
		return Config{}, err
	}
	if c.SessionIdle, err = durationOr("SESSION_IDLE", c.SessionIdle); err != nil {
		return Config{}, err
	}

	if c.Production && c.JWTSecret == "dev_secret_change_me" {
		return Config{}, fmt.Errorf("JWT_SECRET is required when NODE_ENV=production")
	}
	return c, nil
}

// Addr is the listen address.
func (c Config) Addr() string { return ":" + c.Port }

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return d, nil
}
