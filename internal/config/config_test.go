package config_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mildminihi/CardLoopChallengeGame/internal/config"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"PORT", "LOG_LEVEL", "DB_PATH", "JWT_SECRET", "JWT_EXPIRES_DAYS", "COOKIE_NAME",
		"ANON_COOKIE_NAME", "CLIENT_ORIGIN", "NODE_ENV", "DAILY_SALT", "DEFAULT_EASY_MODE",
		"REQUEST_TIMEOUT", "SESSION_IDLE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	c, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":5175", c.Addr())
	assert.Equal(t, zerolog.InfoLevel, c.LogLevel)
	assert.Equal(t, "./data/cardloop.db", c.DBPath)
	assert.Equal(t, 14, c.JWTExpiresDays)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.False(t, c.DefaultEasyMode)
	assert.False(t, c.Production)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("JWT_EXPIRES_DAYS", "3")
	t.Setenv("DEFAULT_EASY_MODE", "true")
	t.Setenv("REQUEST_TIMEOUT", "2s")

	c, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", c.Addr())
	assert.Equal(t, zerolog.DebugLevel, c.LogLevel)
	assert.Equal(t, 3, c.JWTExpiresDays)
	assert.True(t, c.DefaultEasyMode)
	assert.Equal(t, 2*time.Second, c.RequestTimeout)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"LOG_LEVEL":         "loud",
		"JWT_EXPIRES_DAYS":  "soon",
		"DEFAULT_EASY_MODE": "maybe",
		"REQUEST_TIMEOUT":   "-1s",
	}
	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(k, v)
			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_ProductionNeedsSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("NODE_ENV", "production")
	_, err := config.Load()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "s3cret")
	c, err := config.Load()
	require.NoError(t, err)
	assert.True(t, c.Production)
}
