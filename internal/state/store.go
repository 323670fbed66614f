// Package state provides the persisted catalog of apps, SDKs and their
// associations, with embedded schema migrations.
package state

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/compmatrix/pkg/adapter"
	"github.com/leapstack-labs/compmatrix/pkg/core"
	"github.com/leapstack-labs/compmatrix/pkg/dialect"

	// Register the supported adapters.
	_ "github.com/leapstack-labs/compmatrix/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/compmatrix/pkg/adapters/sqlite"
)

var _ core.Store = (*Store)(nil)

// Store implements core.Store on top of a database adapter.
type Store struct {
	adp     core.Adapter
	dialect *dialect.Dialect
	logger  *slog.Logger
}

// NewStore wraps a connected adapter.
func NewStore(adp core.Adapter, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	cfg := adp.DialectConfig()
	d, ok := dialect.Get(cfg.Name)
	if !ok {
		d = dialect.New(*cfg)
	}

	return &Store{adp: adp, dialect: d, logger: logger}, nil
}

// Open creates the adapter named by cfg.Type, connects it and wraps it.
func Open(ctx context.Context, cfg adapter.Config, logger *slog.Logger) (*Store, error) {
	adp, err := adapter.NewAdapter(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := adp.Connect(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.Type, err)
	}

	return NewStore(adp, logger)
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.adp.Close()
}

// DB returns the connection pool.
func (s *Store) DB() *sql.DB {
	return s.db()
}

// Dialect returns the SQL dialect of the store.
func (s *Store) Dialect() *dialect.Dialect {
	return s.dialect
}

func (s *Store) db() *sql.DB {
	if s.adp == nil {
		return nil
	}
	return s.adp.DB()
}
