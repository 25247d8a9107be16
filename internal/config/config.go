package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App        App
	HTTP       HTTP
	Probe      Probe
	Metrics    Metrics
	Postgres   Postgres
	Redis      Redis
	Allocation Allocation
	Policy     Policy
	Bot        Bot
	Queue      Queue
}

type App struct {
	Name    string `env:"APP_NAME" envDefault:"acquisition-desk"`
	Version string `env:"APP_VERSION" envDefault:"dev"`
	// LogLevel accepts DEBUG, INFO, WARN or ERROR.
	LogLevel slog.Level `env:"APP_LOG_LEVEL" envDefault:"INFO"`
	// StoreCode is used for submissions that do not name their rooftop.
	StoreCode string `env:"APP_STORE_CODE" envDefault:"ST1"`
	// DedupWindow rejects the same VIN submitted twice by the same buyer
	// through the same channel within the window.
	DedupWindow time.Duration `env:"APP_DEDUP_WINDOW" envDefault:"1m"`
}

type HTTP struct {
	ListenAddress   string        `env:"HTTP_LISTEN_ADDRESS" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	LogFieldMaxLen  int           `env:"HTTP_LOG_FIELD_MAX_LEN" envDefault:"4096"`
}

type Probe struct {
	ListenAddress string `env:"PROBE_LISTEN_ADDRESS" envDefault:":8081"`
}

type Metrics struct {
	ListenAddress string `env:"METRICS_LISTEN_ADDRESS" envDefault:":9090"`
}

type Bot struct {
	// Token is optional. Without it review alerts are only logged.
	Token  string `env:"BOT_TOKEN" json:"-"`
	ChatID int64  `env:"BOT_CHAT_ID"`
}

func (b Bot) Enabled() bool {
	return b.Token != ""
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	config.App.StoreCode = strings.ToUpper(strings.TrimSpace(config.App.StoreCode))

	if err := config.Allocation.validate(); err != nil {
		return Config{}, fmt.Errorf("allocation: %w", err)
	}

	if _, err := config.Policy.Valuation(); err != nil {
		return Config{}, fmt.Errorf("policy: %w", err)
	}

	return config, nil
}
