// Package sqlite provides the embedded SQLite database adapter for
// compmatrix, backed by the pure-Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/compmatrix/pkg/adapter"
	"github.com/leapstack-labs/compmatrix/pkg/core"
	"github.com/leapstack-labs/compmatrix/pkg/dialect"
	_ "modernc.org/sqlite"
)

// MemoryPath selects a private in-memory database.
const MemoryPath = ":memory:"

// Adapter implements core.Adapter for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// DialectConfig returns the SQLite dialect configuration.
func (a *Adapter) DialectConfig() *core.DialectConfig {
	return &dialect.SQLite.DialectConfig
}

// Connect opens the database file named by cfg.Path.
// Use ":memory:" (or an empty path) for an in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	path := cfg.Path
	if path == "" {
		path = MemoryPath
	}

	a.Logger.Debug("opening sqlite database", slog.String("path", path))

	db, err := sql.Open("sqlite", buildDSN(path))
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// Every pooled connection to :memory: would see its own empty database.
	if path == MemoryPath {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	a.Conn = db
	a.Cfg = cfg
	return nil
}

// buildDSN enables foreign keys everywhere and WAL for file databases.
func buildDSN(path string) string {
	if path == MemoryPath {
		return "file::memory:?_pragma=foreign_keys(1)"
	}
	return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
}
