package adapter

import (
	"database/sql"
	"log/slog"
)

// BaseSQLAdapter provides common database/sql functionality for adapters.
// Embed this struct in concrete adapter implementations to get standard
// Close and DB implementations.
type BaseSQLAdapter struct {
	Conn   *sql.DB
	Cfg    Config
	Logger *slog.Logger
}

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	if b.Conn != nil {
		if b.Logger != nil {
			b.Logger.Debug("closing database connection")
		}
		return b.Conn.Close()
	}
	return nil
}

// DB returns the connection pool, or nil if not connected.
func (b *BaseSQLAdapter) DB() *sql.DB {
	return b.Conn
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.Conn != nil
}
