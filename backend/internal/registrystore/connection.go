package registrystore

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/nat20/combatcore/backend/internal/config"
)

// DB wraps a sqlx connection, grounded on
// ctclostio-DnD-Game/backend/internal/database/connection.go's DB type —
// narrowed to just the driver-selection and pool-tuning logic this
// package's SQLStore needs, since content definitions have no
// transactional multi-table writes to justify carrying WithTx along.
type DB struct {
	*sqlx.DB
	driver string
}

// NewConnection opens a registry database connection per cfg. Driver is
// either "postgres" or "sqlite3"; DSN is passed to the driver as-is (a
// file path for sqlite3, a connection string for postgres).
func NewConnection(cfg config.RegistryDBConfig) (*DB, error) {
	if cfg.Driver == "" {
		return nil, fmt.Errorf("registrystore: no driver configured")
	}

	db, err := sqlx.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("registrystore: failed to open %s connection: %w", cfg.Driver, err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.MaxLifetime)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("registrystore: failed to ping %s: %w", cfg.Driver, err)
	}

	return &DB{DB: db, driver: cfg.Driver}, nil
}

// newTestDB wraps an already-opened sqlx.DB (typically backed by
// go-sqlmock) for use in tests, bypassing Ping.
func newTestDB(db *sqlx.DB, driver string) *DB {
	return &DB{DB: db, driver: driver}
}

// DriverName reports which SQL driver this connection uses.
func (db *DB) DriverName() string { return db.driver }
