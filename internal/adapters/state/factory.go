package state

import (
	"fmt"
	"strings"

	"github.com/hugo-lorenzo-mato/verity-ai/internal/core"
)

// NewAuditStore creates an audit store for the configured backend.
// Supported backends are "sqlite" (single database file) and "json"
// (one file per run under a directory).
func NewAuditStore(backend, path string) (core.AuditStore, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", "sqlite":
		if !strings.HasSuffix(path, ".db") {
			path += ".db"
		}
		return NewSQLiteStore(path)
	case "json":
		return NewJSONStore(path)
	default:
		return nil, fmt.Errorf("unknown audit store backend: %s", backend)
	}
}

// Closeable is an optional interface for stores that need cleanup.
type Closeable interface {
	Close() error
}

// CloseStore safely closes a store if it implements Closeable.
func CloseStore(store core.AuditStore) error {
	if closeable, ok := store.(Closeable); ok {
		return closeable.Close()
	}
	return nil
}
