package modules

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"
)

type AsynqQueues map[string]int

type AsynqHandler struct {
	Pattern string
	Handle  func(context.Context, *asynq.Task) error
}

type AsynqServer struct {
	Redis       asynq.RedisClientOpt
	Concurrency int
}

// Run starts the worker and stops it when ctx is done. asynq's own Run
// waits for OS signals, which the application already owns.
func (s AsynqServer) Run(
	ctx context.Context,
	g *errgroup.Group,
	queues AsynqQueues,
	handlers ...AsynqHandler,
) {
	g.Go(func() error {
		worker := asynq.NewServer(s.Redis, asynq.Config{
			BaseContext: func() context.Context { return ctx },
			Queues:      queues,
			Concurrency: s.Concurrency,
			Logger:      asynqLogger{ctx: ctx},
		})

		mux := asynq.NewServeMux()

		for _, h := range handlers {
			mux.HandleFunc(h.Pattern, h.Handle)
		}

		if err := worker.Start(mux); err != nil {
			return fmt.Errorf("asynqServer.Start: %w", err)
		}

		logger(ctx).Info("asynq server started", slog.String("redis-address", s.Redis.Addr), slog.Int("redis-db", s.Redis.DB))

		<-ctx.Done()

		worker.Shutdown()

		logger(ctx).Info("asynq server stopped", slog.String("redis-address", s.Redis.Addr), slog.Int("redis-db", s.Redis.DB))

		return nil
	})
}

// asynqLogger routes asynq's internal messages to the context logger.
type asynqLogger struct {
	ctx context.Context //nolint:containedctx
}

func (l asynqLogger) Debug(args ...any) {
	logger(l.ctx).Debug(fmt.Sprint(args...))
}

func (l asynqLogger) Info(args ...any) {
	logger(l.ctx).Info(fmt.Sprint(args...))
}

func (l asynqLogger) Warn(args ...any) {
	logger(l.ctx).Warn(fmt.Sprint(args...))
}

func (l asynqLogger) Error(args ...any) {
	logger(l.ctx).Error(fmt.Sprint(args...))
}

func (l asynqLogger) Fatal(args ...any) {
	logger(l.ctx).Error(fmt.Sprint(args...))
}
