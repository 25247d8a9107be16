// Command reevaluate recomputes the stored evaluation of every vehicle under
// the currently configured policy and queues review alerts for the vehicles
// whose outcome changed into a flagged state.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/lmittmann/tint"

	"acquisition_desk/internal/application"
	"acquisition_desk/internal/config"
	"acquisition_desk/internal/domain/service/acquisition"
	"acquisition_desk/internal/worker"
	"acquisition_desk/pkg/contextx"
	"acquisition_desk/pkg/logx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: time.DateTime,
	}))
	ctx = contextx.WithLogger(ctx, logger)

	if err := run(ctx); err != nil {
		logger.Error("reevaluate failed", logx.Error(err))
		os.Exit(1) //nolint:gocritic
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pg := application.NewPostgres(cfg.Postgres)

	db, err := pg.Connect(ctx)
	if err != nil {
		return err
	}
	defer pg.Close(ctx)

	rds := application.NewRedis(cfg.Redis)

	redisClient, err := rds.Connect(ctx)
	if err != nil {
		return err
	}
	defer rds.Close(ctx)

	queueClient := asynq.NewClientFromRedisClient(redisClient)

	service, err := application.NewAcquisitionService(cfg, db, redisClient,
		acquisition.WithReviewQueue(worker.NewReviewQueue(queueClient)),
	)
	if err != nil {
		return err
	}

	started := time.Now()

	result, err := service.ReevaluateAll(ctx)
	if err != nil {
		return err
	}

	contextx.LoggerFromContextOrDefault(ctx).Info(
		"reevaluation finished",
		slog.Int("scanned", result.Scanned),
		slog.Int("changed", result.Changed),
		slog.Int64(logx.FieldDurationMs, time.Since(started).Milliseconds()),
	)

	return nil
}
