// Package application assembles the acquisition desk from its config and
// runs every long-lived module until the context is canceled.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"acquisition_desk/internal/config"
	"acquisition_desk/internal/domain/service/acquisition"
	"acquisition_desk/internal/infrastructure/lock"
	"acquisition_desk/internal/infrastructure/notifier"
	"acquisition_desk/internal/infrastructure/persistence"
	"acquisition_desk/internal/server"
	"acquisition_desk/internal/worker"
	"acquisition_desk/pkg/application/connectors"
	"acquisition_desk/pkg/application/modules"
	"acquisition_desk/pkg/httpx"
	"acquisition_desk/pkg/logx"
	"acquisition_desk/pkg/probe"
)

const (
	httpReadHeaderTimeout = 5 * time.Second
	botRequestTimeout     = 10 * time.Second
)

// Run blocks until ctx is done or a module fails.
func Run(ctx context.Context, cfg config.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pg := NewPostgres(cfg.Postgres)

	db, err := pg.Connect(ctx)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pg.Close(ctx)

	if cfg.Postgres.AutoMigrate {
		if err = persistence.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	rds := NewRedis(cfg.Redis)

	redisClient, err := rds.Connect(ctx)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer rds.Close(ctx)

	queueClient := asynq.NewClientFromRedisClient(redisClient)
	defer func() {
		if err := queueClient.Close(); err != nil {
			logger(ctx).Error("queueClient.Close", logx.Error(err))
		}
	}()

	service, err := NewAcquisitionService(cfg, db, redisClient,
		acquisition.WithReviewQueue(worker.NewReviewQueue(queueClient)),
		acquisition.WithMetrics(acquisition.NewMetrics(prometheus.DefaultRegisterer)),
	)
	if err != nil {
		return err
	}

	reviewNotifier, err := newNotifier(cfg)
	if err != nil {
		return err
	}

	masker := logx.NewSensitiveDataMasker()
	srv := server.NewServer(server.NewVehicleServer(service))

	httpServer := &http.Server{
		//nolint:exhaustruct
		Addr:              cfg.HTTP.ListenAddress,
		Handler:           srv.Handler(masker, cfg.HTTP.LogFieldMaxLen),
		ReadHeaderTimeout: httpReadHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	g, gctx := errgroup.WithContext(ctx)

	modules.HTTPServer{
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}.Run(gctx, g, httpServer)

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.Probe.ListenAddress,
		Checks: map[string]probe.ReadyCheck{
			"postgres": db.PingContext,
			"redis": func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			},
		},
	}.Run(gctx, g)

	modules.MetricServer{
		ListenAddress: cfg.Metrics.ListenAddress,
		Gatherer:      prometheus.DefaultGatherer,
	}.Run(gctx, g)

	modules.AsynqServer{
		Redis:       asynqRedis(cfg.Redis),
		Concurrency: cfg.Queue.Concurrency,
	}.Run(gctx, g,
		modules.AsynqQueues{worker.QueueAlerts: 1},
		modules.AsynqHandler{
			Pattern: worker.TypeReview,
			Handle:  worker.NewReviewHandler(reviewNotifier).Handle,
		},
	)

	logger(ctx).Info(
		"acquisition desk started",
		slog.String(logx.FieldAppName, cfg.App.Name),
		slog.String(logx.FieldAppVersion, cfg.App.Version),
		slog.String("store-code", cfg.App.StoreCode),
		slog.String("allocation-mode", cfg.Allocation.Mode),
		slog.String("lock-backend", cfg.Allocation.LockBackend),
	)

	if err := g.Wait(); err != nil {
		return fmt.Errorf("application stopped: %w", err)
	}

	return nil
}

// NewAcquisitionService builds the service over postgres storage with the
// configured allocation mode and lock backend.
func NewAcquisitionService(
	cfg config.Config,
	db *sqlx.DB,
	redisClient redis.UniversalClient,
	opts ...acquisition.Option,
) (*acquisition.Service, error) {
	policy, err := cfg.Policy.Valuation()
	if err != nil {
		return nil, fmt.Errorf("policy: %w", err)
	}

	var locker acquisition.Locker

	switch cfg.Allocation.LockBackend {
	case config.LockBackendRedis:
		locker = lock.NewRedisLocker(redisClient, cfg.Allocation.LockTTL, cfg.Allocation.LockWait)
	default:
		locker = lock.NewLocalLocker(cfg.Allocation.LockWait)
	}

	return acquisition.NewService(
		persistence.NewVehicleRepository(db),
		persistence.NewSequenceRepository(db),
		locker,
		acquisition.Config{
			StoreCode:   cfg.App.StoreCode,
			Mode:        acquisition.Mode(cfg.Allocation.Mode),
			MaxAttempts: cfg.Allocation.MaxAttempts,
			DedupWindow: cfg.App.DedupWindow,
			Policy:      policy,
		},
		opts...,
	), nil
}

func newNotifier(cfg config.Config) (worker.Notifier, error) {
	if !cfg.Bot.Enabled() {
		return notifier.LogNotifier{}, nil
	}

	httpClient := &http.Client{
		//nolint:exhaustruct
		Timeout: botRequestTimeout,
		Transport: httpx.NewLoggingRoundTripper(
			http.DefaultTransport,
			httpx.WithPeer("telegram"),
			httpx.WithLogFieldMaxLen(cfg.HTTP.LogFieldMaxLen),
		),
	}

	bot, err := notifier.NewTelegramBot(cfg.Bot.Token, cfg.Bot.ChatID, httpClient)
	if err != nil {
		return nil, fmt.Errorf("notifier.NewTelegramBot: %w", err)
	}

	return bot, nil
}

func NewPostgres(cfg config.Postgres) *connectors.Postgres {
	return &connectors.Postgres{
		DSN:             cfg.DSN,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		ConnectAttempts: cfg.ConnectAttempts,
		RetryDelay:      cfg.RetryDelay,
	}
}

func NewRedis(cfg config.Redis) *connectors.Redis {
	return &connectors.Redis{
		Username:           cfg.Username,
		Password:           cfg.Password,
		Address:            cfg.Address,
		DatabaseNumber:     cfg.DatabaseNumber,
		PoolSize:           cfg.PoolSize,
		MinIdleConnections: cfg.MinIdleConnections,
		MaxIdleConnections: cfg.MaxIdleConnections,
		ConnectAttempts:    cfg.ConnectAttempts,
		RetryDelay:         cfg.RetryDelay,
	}
}

func asynqRedis(cfg config.Redis) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		//nolint:exhaustruct
		Addr:     cfg.Address,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DatabaseNumber,
	}
}
