package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"board-service/internal/domain/entities"
)

const DefaultSignupToken = "secret-signup-token-2025"

const (
	TokenStoreMemory = "memory"
	TokenStoreRedis  = "redis"
)

type Config struct {
	Port string

	DBDriver    string
	DatabaseURL string
	// SeedDemoData loads the demo users, projects and tickets at startup.
	SeedDemoData bool

	SignupToken    string
	PasswordScheme entities.PasswordScheme
	TokenStore     string

	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	EmailProvider string
	EmailAPIKey   string
	EmailSender   string
	NotifyTimeout time.Duration

	NATSURL string

	RateLimitRPS         float64
	RateLimitBurst       int
	LoginRateLimitWindow time.Duration
	LoginRateLimitMax    int

	CORSOrigins []string

	LogLevel  string
	LogFormat string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	cfg := &Config{
		Port:                 GetEnvAsString("PORT", "8000"),
		DBDriver:             GetEnvAsString("DB_DRIVER", "sqlite"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		SeedDemoData:         GetEnvAsBool("SEED_DEMO_DATA", false),
		SignupToken:          GetEnvAsString("SIGNUP_TOKEN", DefaultSignupToken),
		TokenStore:           strings.ToLower(GetEnvAsString("TOKEN_STORE", TokenStoreMemory)),
		RedisURL:             os.Getenv("REDIS_URL"),
		RedisHost:            GetEnvAsString("REDIS_HOST", "localhost"),
		RedisPort:            GetEnvAsString("REDIS_PORT", "6379"),
		RedisPassword:        os.Getenv("REDIS_PASSWORD"),
		RedisDB:              GetEnvAsInt("REDIS_DB", 0),
		EmailProvider:        GetEnvAsString("EMAIL_PROVIDER", "sendgrid"),
		EmailAPIKey:          os.Getenv("EMAIL_API_KEY"),
		EmailSender:          GetEnvAsString("EMAIL_SENDER", "ticket-update@cloud-collab.com"),
		NotifyTimeout:        GetEnvAsDuration("NOTIFY_TIMEOUT", 10*time.Second),
		NATSURL:              os.Getenv("NATS_URL"),
		RateLimitRPS:         GetEnvAsFloat("RATE_LIMIT_RPS", 100),
		RateLimitBurst:       GetEnvAsInt("RATE_LIMIT_BURST", 200),
		LoginRateLimitWindow: GetEnvAsDuration("LOGIN_RATE_LIMIT_WINDOW", time.Minute),
		LoginRateLimitMax:    GetEnvAsInt("LOGIN_RATE_LIMIT_MAX", 10),
		CORSOrigins:          GetEnvAsList("CORS_ORIGIN", []string{"*"}),
		LogLevel:             GetEnvAsString("LOG_LEVEL", "info"),
		LogFormat:            GetEnvAsString("LOG_FORMAT", "text"),
	}

	scheme, err := entities.ParsePasswordScheme(GetEnvAsString("PASSWORD_SCHEME", string(entities.PasswordPlain)))
	if err != nil {
		return nil, err
	}
	cfg.PasswordScheme = scheme

	if cfg.TokenStore != TokenStoreMemory && cfg.TokenStore != TokenStoreRedis {
		return nil, fmt.Errorf("TOKEN_STORE must be %q or %q, got %q", TokenStoreMemory, TokenStoreRedis, cfg.TokenStore)
	}
	if cfg.DBDriver == "postgres" && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required for DB_DRIVER=postgres")
	}
	return cfg, nil
}

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
