package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"thinkboard/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Rate limiter backends and key strategies.
const (
	LimiterRedis  = "redis"
	LimiterMemory = "memory"

	KeyStrategyFixed    = "fixed"
	KeyStrategyClientIP = "client-ip"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
	MCP       MCPConfig
}

type ServerConfig struct {
	Port            string        `validate:"required,numeric"`
	Env             string        `validate:"oneof=development test production"`
	AllowedOrigin   string        `validate:"required"`
	MaxBodyBytes    int64         `validate:"gt=0"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
}

type RateLimitConfig struct {
	Enabled     bool
	Backend     string        `validate:"oneof=redis memory"`
	RedisURL    string        `validate:"required_if=Backend redis"`
	Requests    int           `validate:"gt=0"`
	Window      time.Duration `validate:"gte=1ms"`
	KeyStrategy string        `validate:"oneof=fixed client-ip"`
	Key         string        `validate:"required"`
	Prefix      string        `validate:"required"`
}

type LoggingConfig struct {
	Level  string `validate:"oneof=debug info warn error"`
	Format string `validate:"oneof=text json"`
}

type MCPConfig struct {
	Enabled bool
}

// Load reads an optional .env file, then the process environment, and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            utils.GetEnvAsString("PORT", "5001"),
			Env:             utils.GetEnvAsString("APP_ENV", "development"),
			AllowedOrigin:   utils.GetEnvAsString("CORS_ALLOWED_ORIGIN", "http://localhost:5173"),
			MaxBodyBytes:    utils.GetEnvAsInt64("MAX_BODY_BYTES", 1<<20),
			ShutdownTimeout: utils.GetEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: LoadDatabaseConfig(),
		RateLimit: RateLimitConfig{
			Enabled:     utils.GetEnvAsBool("RATE_LIMIT_ENABLED", true),
			Backend:     utils.GetEnvAsString("RATE_LIMIT_BACKEND", LimiterRedis),
			RedisURL:    utils.GetEnvAsString("REDIS_URL", "redis://localhost:6379/0"),
			Requests:    utils.GetEnvAsInt("RATE_LIMIT_REQUESTS", 100),
			Window:      utils.GetEnvAsDuration("RATE_LIMIT_WINDOW", 60*time.Second),
			KeyStrategy: utils.GetEnvAsString("RATE_LIMIT_KEY_STRATEGY", KeyStrategyFixed),
			Key:         utils.GetEnvAsString("RATE_LIMIT_KEY", "my-limit-key"),
			Prefix:      utils.GetEnvAsString("RATE_LIMIT_PREFIX", "ratelimit"),
		},
		Logging: LoggingConfig{
			Level:  utils.GetEnvAsString("LOG_LEVEL", "info"),
			Format: utils.GetEnvAsString("LOG_FORMAT", "text"),
		},
		MCP: MCPConfig{
			Enabled: utils.GetEnvAsBool("MCP_ENABLED", true),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct tags above and reports every offending field.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]error, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Errorf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid configuration: %w", errors.Join(msgs...))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// IsDevelopment reports whether the server runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}
