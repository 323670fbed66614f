package state

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate runs all pending database migrations.
func (s *Store) Migrate(ctx context.Context) error {
	if s.db() == nil {
		return fmt.Errorf("database not opened")
	}
	return MigrateWithDB(ctx, s.db(), s.dialect.Name)
}

// MigrateWithDB runs migrations using a raw database connection.
// This is useful for testing or when you have a db connection from elsewhere.
func MigrateWithDB(ctx context.Context, db *sql.DB, dialectName string) error {
	if err := configureGoose(dialectName); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// MigrationVersion returns the current migration version.
func (s *Store) MigrationVersion(ctx context.Context) (int64, error) {
	if s.db() == nil {
		return 0, fmt.Errorf("database not opened")
	}

	if err := configureGoose(s.dialect.Name); err != nil {
		return 0, err
	}

	return goose.GetDBVersionContext(ctx, s.db())
}

// configureGoose points goose at the embedded migrations.
func configureGoose(dialectName string) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(dialectName); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	return nil
}
