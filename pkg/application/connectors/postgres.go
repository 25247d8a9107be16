package connectors

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // golang postgres driver
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"acquisition_desk/pkg/logx"
)

// Postgres opens a sqlx pool over pgx and waits for the server to accept
// connections.
type Postgres struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnectAttempts int
	RetryDelay      time.Duration

	value *sqlx.DB
}

func (p *Postgres) Connect(ctx context.Context) (*sqlx.DB, error) {
	db, err := sqlx.Open("pgx", p.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqlx.Open: %w", err)
	}

	db.SetMaxOpenConns(p.MaxOpenConns)
	db.SetMaxIdleConns(p.MaxIdleConns)
	db.SetConnMaxLifetime(p.ConnMaxLifetime)

	err = retry(ctx, p.ConnectAttempts, p.RetryDelay, "postgres", db.PingContext)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("db.PingContext: %w", err)
	}

	p.value = db

	logger(ctx).Info("postgres connected", slog.String("database", p.database()))

	return db, nil
}

func (p *Postgres) Close(ctx context.Context) {
	if p.value == nil {
		return
	}

	if err := p.value.Close(); err != nil {
		logger(ctx).Error("postgresClient.Close", logx.Error(err))
	}

	logger(ctx).Info("postgres disconnected", slog.String("database", p.database()))
}

// database names the target without leaking credentials from the DSN.
func (p *Postgres) database() string {
	u, err := url.Parse(p.DSN)
	if err != nil {
		return "unknown"
	}

	return u.Host + u.Path
}

// retry calls ping until it succeeds, attempts run out or ctx ends.
func retry(ctx context.Context, attempts int, delay time.Duration, name string, ping func(context.Context) error) error {
	_, _, err := lo.AttemptWithDelay(max(attempts, 1), delay, func(i int, _ time.Duration) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := ping(ctx)
		if err != nil {
			logger(ctx).Warn(
				"connection attempt failed",
				slog.String(logx.FieldPeer, name),
				slog.Int(logx.FieldAttempt, i+1),
				logx.Error(err),
			)
		}

		return err
	})

	return err
}
