package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	"acquisition_desk/migrations"
	"acquisition_desk/pkg/logx"
)

// Migrate brings the schema to the latest embedded version. The driver takes
// a postgres advisory lock, so replicas starting together apply it once.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("iofs.New: %w", err)
	}

	driver, err := migratepgx.WithInstance(db.DB, &migratepgx.Config{})
	if err != nil {
		return fmt.Errorf("migratepgx.WithInstance: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "pgx5", driver)
	if err != nil {
		return fmt.Errorf("migrate.NewWithInstance: %w", err)
	}

	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			logger(ctx).Error("migrate.Close", logx.Error(errors.Join(srcErr, dbErr)))
		}
	}()

	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate.Up: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("migrate.Version: %w", err)
	}

	logger(ctx).Info("schema migrated", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))

	return nil
}
