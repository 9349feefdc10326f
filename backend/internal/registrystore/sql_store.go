package registrystore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// SQLStore is a Store backed by a registry_definitions table, grounded
// on ctclostio-DnD-Game/backend/internal/database/user_repository.go's
// CRUD shape — Rebind lets the same '?'-placeholder queries run against
// both the postgres and sqlite3 drivers.
type SQLStore struct {
	db *DB
}

// NewSQLStore wraps db as a Store. RunMigrations must have been called
// against db at least once beforehand.
func NewSQLStore(db *DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Get(ctx context.Context, kind, id string) (json.RawMessage, bool, error) {
	query := s.db.Rebind(`SELECT data FROM registry_definitions WHERE kind = ? AND id = ?`)

	var raw string
	err := s.db.QueryRowContext(ctx, query, kind, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("registrystore: failed to get %s/%s: %w", kind, id, err)
	}
	return json.RawMessage(raw), true, nil
}

func (s *SQLStore) Put(ctx context.Context, kind, id string, data json.RawMessage) error {
	switch s.db.DriverName() {
	case "sqlite3":
		query := s.db.Rebind(`
			INSERT INTO registry_definitions (kind, id, data, updated_at)
			VALUES (?, ?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT (kind, id) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`)
		_, err := s.db.ExecContext(ctx, query, kind, id, string(data))
		if err != nil {
			return fmt.Errorf("registrystore: failed to put %s/%s: %w", kind, id, err)
		}
		return nil
	default:
		query := `
			INSERT INTO registry_definitions (kind, id, data, updated_at)
			VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
			ON CONFLICT (kind, id) DO UPDATE SET data = $3, updated_at = CURRENT_TIMESTAMP`
		_, err := s.db.ExecContext(ctx, query, kind, id, string(data))
		if err != nil {
			return fmt.Errorf("registrystore: failed to put %s/%s: %w", kind, id, err)
		}
		return nil
	}
}

func (s *SQLStore) Delete(ctx context.Context, kind, id string) error {
	query := s.db.Rebind(`DELETE FROM registry_definitions WHERE kind = ? AND id = ?`)
	if _, err := s.db.ExecContext(ctx, query, kind, id); err != nil {
		return fmt.Errorf("registrystore: failed to delete %s/%s: %w", kind, id, err)
	}
	return nil
}

func (s *SQLStore) List(ctx context.Context, kind string) ([]json.RawMessage, error) {
	query := s.db.Rebind(`SELECT data FROM registry_definitions WHERE kind = ?`)

	rows, err := s.db.QueryContext(ctx, query, kind)
	if err != nil {
		return nil, fmt.Errorf("registrystore: failed to list %s: %w", kind, err)
	}
	defer rows.Close()

	var out []json.RawMessage
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("registrystore: failed to scan %s row: %w", kind, err)
		}
		out = append(out, json.RawMessage(raw))
	}
	return out, rows.Err()
}
