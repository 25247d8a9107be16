package config

import "time"

// Postgres retries the first ping ConnectAttempts times so the service can
// start before the database does. With AutoMigrate the embedded schema is
// applied on start.
type Postgres struct {
	DSN             string        `env:"PG_DSN,notEmpty" json:"-"`
	MaxIdleConns    int           `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`
	MaxOpenConns    int           `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
	ConnMaxLifetime time.Duration `env:"PG_CONN_MAX_LIFETIME" envDefault:"5m"`
	ConnectAttempts int           `env:"PG_CONNECT_ATTEMPTS" envDefault:"5"`
	RetryDelay      time.Duration `env:"PG_CONNECT_RETRY_DELAY" envDefault:"2s"`
	AutoMigrate     bool          `env:"PG_AUTO_MIGRATE" envDefault:"true"`
}
