package core

import (
	"context"
	"database/sql"
)

// Adapter defines the interface that all database adapters must implement.
type Adapter interface {
	// Connect establishes a connection to the database.
	Connect(ctx context.Context, cfg AdapterConfig) error

	// Close closes the database connection.
	Close() error

	// DB returns the underlying connection pool, or nil before Connect.
	DB() *sql.DB

	// DialectConfig returns the static dialect configuration.
	DialectConfig() *DialectConfig
}

// AdapterConfig holds configuration for connecting to a database.
type AdapterConfig struct {
	Type     string
	Path     string
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Options  map[string]string
}

// PlaceholderStyle defines how query parameters are written.
type PlaceholderStyle int

const (
	// PlaceholderQuestion uses ? for all parameters (SQLite).
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar uses $1, $2, etc. for parameters (PostgreSQL).
	PlaceholderDollar
)

// DialectConfig is the static description of a SQL dialect.
type DialectConfig struct {
	// Name is the dialect name, also used as the goose dialect.
	Name string
	// Placeholder is the bind parameter style.
	Placeholder PlaceholderStyle
	// ReadOnlyTx reports whether the driver accepts read-only transactions.
	ReadOnlyTx bool
}
