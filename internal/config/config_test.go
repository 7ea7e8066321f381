package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"board-service/internal/domain/entities"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "SIGNUP_TOKEN", "PASSWORD_SCHEME", "TOKEN_STORE", "CORS_ORIGIN", "NOTIFY_TIMEOUT", "SEED_DEMO_DATA"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, DefaultSignupToken, cfg.SignupToken)
	assert.Equal(t, entities.PasswordPlain, cfg.PasswordScheme)
	assert.Equal(t, TokenStoreMemory, cfg.TokenStore)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 10*time.Second, cfg.NotifyTimeout)
	assert.False(t, cfg.SeedDemoData)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("PASSWORD_SCHEME", "BCRYPT")
	t.Setenv("TOKEN_STORE", "Redis")
	t.Setenv("CORS_ORIGIN", "http://a.test, ,http://b.test")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("LOGIN_RATE_LIMIT_WINDOW", "30s")
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("SEED_DEMO_DATA", "1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, entities.PasswordBcrypt, cfg.PasswordScheme)
	assert.Equal(t, TokenStoreRedis, cfg.TokenStore)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.Equal(t, 30*time.Second, cfg.LoginRateLimitWindow)
	assert.Equal(t, 0, cfg.RedisDB, "unparsable values fall back to the default")
	assert.True(t, cfg.SeedDemoData)
}

func TestLoad_Rejects(t *testing.T) {
	tests := map[string][2]string{
		"password scheme": {"PASSWORD_SCHEME", "md5"},
		"token store":     {"TOKEN_STORE", "memcached"},
		"postgres url":    {"DB_DRIVER", "postgres"},
	}
	for name, kv := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv("DATABASE_URL", "")
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestGetEnvAsBool(t *testing.T) {
	t.Setenv("FLAG", "true")
	assert.True(t, GetEnvAsBool("FLAG", false))
	t.Setenv("FLAG", "nope")
	assert.True(t, GetEnvAsBool("FLAG", true))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{LogLevel: "warn", LogFormat: "json"}
	log := cfg.NewLogger(&buf)

	log.Info("hidden")
	log.Warn("shown", "k", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
