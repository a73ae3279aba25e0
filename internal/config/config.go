package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/env"
)

type Config struct {
	Primary  Primary        `koanf:"primary"`
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Ledger   LedgerConfig   `koanf:"ledger"`
	Retry    RetryConfig    `koanf:"retry"`
	Logger   LoggerConfig   `koanf:"logger"`
	Sweeper  SweeperConfig  `koanf:"sweeper"`
}

type Primary struct {
	Env     string `koanf:"env" validate:"required"`
	StoreID string `koanf:"store_id" validate:"required"`
}

type ServerConfig struct {
	Port           string        `koanf:"port" validate:"required"`
	ReadTimeout    time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout   time.Duration `koanf:"write_timeout" validate:"required"`
	IdleTimeout    time.Duration `koanf:"idle_timeout" validate:"required"`
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"required"`
	RateLimit      int           `koanf:"rate_limit"`
}

type DatabaseConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"required"`
	User            string        `koanf:"user" validate:"required"`
	Password        string        `koanf:"password" validate:"required"`
	Name            string        `koanf:"name" validate:"required"`
	SSLMode         string        `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time" validate:"required"`
}

type LedgerConfig struct {
	BaseURL     string        `koanf:"base_url" validate:"required"`
	ConnTimeout time.Duration `koanf:"conn_timeout" validate:"required"`
}

type RetryConfig struct {
	BaseDelay  time.Duration `koanf:"base_delay"`
	MaxRetries int           `koanf:"max_retries"`
}

type LoggerConfig struct {
	Level string `koanf:"level"`
}

// NewLogger builds the process logger at the configured level. Unknown
// levels fall back to info.
func (c LoggerConfig) NewLogger() *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

type SweeperConfig struct {
	Interval   time.Duration `koanf:"interval" validate:"required"`
	BatchSize  int           `koanf:"batch_size" validate:"required"`
	StaleAfter time.Duration `koanf:"stale_after" validate:"required"`
}

func LoadConfig() (*Config, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	k := koanf.New(".")

	err := k.Load(env.Provider("TERMINAL_", ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "TERMINAL_")),
			"__",
			".",
		)
	}), nil)
	if err != nil {
		logger.Error("failed to load environment variables", "error", err)
		return nil, err
	}

	mainConfig := &Config{}

	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Error("could not unmarshal main config", "error", err)
		return nil, err
	}

	validate := validator.New()

	err = validate.Struct(mainConfig)
	if err != nil {
		logger.Error("config validation failed", "error", err)
		return nil, err
	}

	return mainConfig, nil
}
