package core

import "context"

// Store defines the catalog operations backing the matrix engine.
type Store interface {
	Close() error
	Migrate(ctx context.Context) error
	MigrationVersion(ctx context.Context) (int64, error)

	// Catalog reads
	ListSDKs(ctx context.Context) ([]SDK, error)
	UnknownSDKIDs(ctx context.Context, ids []int64) ([]int64, error)
	CountApps(ctx context.Context) (int64, error)

	// Catalog writes
	ReplaceCatalog(ctx context.Context, c Catalog) error
}
