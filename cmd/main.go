package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"acquisition_desk/internal/application"
	"acquisition_desk/internal/config"
	"acquisition_desk/pkg/contextx"
	"acquisition_desk/pkg/logx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		newLogger(slog.LevelInfo).Error("config.Load", logx.Error(err))
		os.Exit(1)
	}

	logger := newLogger(cfg.App.LogLevel).With(
		slog.String(logx.FieldAppName, cfg.App.Name),
		slog.String(logx.FieldAppVersion, cfg.App.Version),
	)
	slog.SetDefault(logger)

	ctx = contextx.WithLogger(ctx, logger)

	if err := application.Run(ctx, cfg); err != nil {
		logger.Error("application failed", logx.Error(err))
		os.Exit(1) //nolint:gocritic
	}

	logger.Info("application stopped")
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      level,
		TimeFormat: time.DateTime,
	}))
}
