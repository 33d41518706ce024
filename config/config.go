package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string `env:"HTTP_ADDR,default=:8080"`
	GinMode  string `env:"GIN_MODE,default=debug"`

	DBDriver       string `env:"DB_DRIVER,default=sqlite"`
	DBDSN          string `env:"DB_DSN,default=startuphub.db"`
	DBMaxOpenConns int    `env:"DB_MAX_OPEN_CONNS,default=10"`
	DBMaxIdleConns int    `env:"DB_MAX_IDLE_CONNS,default=5"`

	RedisAddr string `env:"REDIS_ADDR"`

	JWTSecret string        `env:"JWT_SECRET,default=change-me"`
	JWTTTL    time.Duration `env:"JWT_TTL,default=24h"`

	CORSOrigins []string `env:"CORS_ORIGINS,default=http://localhost:3000"`

	LoginRate  float64 `env:"LOGIN_RATE,default=1"`
	LoginBurst int     `env:"LOGIN_BURST,default=5"`

	WorkerConcurrency int    `env:"WORKER_CONCURRENCY,default=10"`
	CloseExpiredSpec  string `env:"CLOSE_EXPIRED_SPEC,default=@every 1h"`

	LogLevel  string `env:"LOG_LEVEL,default=debug"`
	LogFormat string `env:"LOG_FORMAT,default=console"`
}

// Load reads an optional dotenv file and decodes the environment into a Config.
// A missing dotenv file is not an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.DBDriver) {
	case "sqlite", "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DBDSN == "" {
		return errors.New("DB_DSN must not be empty")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	return nil
}

// TasksEnabled reports whether a Redis address was configured for the task queue.
func (c *Config) TasksEnabled() bool {
	return c.RedisAddr != ""
}
