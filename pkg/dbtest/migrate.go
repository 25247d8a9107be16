package dbtest

import (
	"fmt"
	"io"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib" // golang postgres driver
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// MigrateFromFile executes all SQL queries from the files over a database
// connection.
func MigrateFromFile(db *sqlx.DB, fileNames ...string) error {
	for _, fileName := range fileNames {
		fh, err := os.Open(fileName)
		if err != nil {
			return fmt.Errorf("os.Open: %w", err)
		}

		fileBytes, err := io.ReadAll(fh)
		if err != nil {
			return fmt.Errorf("io.ReadAll: %w", err)
		}

		if err = fh.Close(); err != nil {
			return fmt.Errorf("fh.Close: %w", err)
		}

		if _, err = db.Exec(string(fileBytes)); err != nil {
			return fmt.Errorf("db.Exec: %w", err)
		}
	}

	return nil
}

// Open connects to the postgres database named by the dsnEnv variable,
// drops the given tables and applies the migration files. The test is
// skipped when the variable is unset.
func Open(t *testing.T, dsnEnv string, tables []string, fileNames ...string) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv(dsnEnv)
	if dsn == "" {
		t.Skipf("%s is not set", dsnEnv)
	}

	db, err := sqlx.Connect("pgx", dsn)
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	for _, table := range tables {
		_, err = db.Exec(`DROP TABLE IF EXISTS ` + table)
		require.NoError(t, err)
	}

	require.NoError(t, MigrateFromFile(db, fileNames...))

	return db
}
