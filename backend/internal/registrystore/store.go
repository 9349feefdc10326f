// Package registrystore persists content definitions (actions, effects,
// spells, items, classes, ...) outside the process, as an alternative to
// loading them from files straight into registry.Load at startup
// (spec.md §4.12 leaves the source of the []T passed to Load
// unspecified). Every definition is stored as its marshaled JSON form
// keyed by (kind, namespaced id string), so the store never needs to
// know the Go type of any particular content kind.
package registrystore

import (
	"context"
	"encoding/json"
)

// Store is the read/write surface over content definitions, independent
// of which backend (in-memory, Postgres, SQLite) is wired in. cmd/server
// builds one at startup; internal/httpapi does not use it.
type Store interface {
	// Get returns the marshaled definition for (kind, id), or found=false
	// if none is stored.
	Get(ctx context.Context, kind, id string) (data json.RawMessage, found bool, err error)

	// Put upserts the marshaled definition for (kind, id).
	Put(ctx context.Context, kind, id string, data json.RawMessage) error

	// Delete removes the definition for (kind, id), if present.
	Delete(ctx context.Context, kind, id string) error

	// List returns every marshaled definition stored under kind, in no
	// particular order.
	List(ctx context.Context, kind string) ([]json.RawMessage, error)
}
