// Package compmatrix computes competitive matrices: how many apps moved
// from one SDK to another, and which apps those are.
package compmatrix

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/compmatrix/pkg/dialect"
)

// Engine runs matrix and cell queries against the catalog tables.
// It holds no per-request state and is safe for concurrent use.
type Engine struct {
	db      *sql.DB
	dialect *dialect.Dialect
	logger  *slog.Logger
}

// Source is what the engine needs from a store.
type Source interface {
	DB() *sql.DB
	Dialect() *dialect.Dialect
}

// NewEngine creates an engine reading from src.
// If logger is nil, a discard logger is used.
func NewEngine(src Source, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{db: src.DB(), dialect: src.Dialect(), logger: logger}
}

// withReadTx runs fn inside one transaction so that every query of a
// request sees the same snapshot.
func (e *Engine) withReadTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if e.db == nil {
		return fmt.Errorf("database not opened")
	}

	var opts *sql.TxOptions
	if e.dialect.ReadOnlyTx {
		opts = &sql.TxOptions{ReadOnly: true}
	}

	tx, err := e.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin read transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to end read transaction: %w", err)
	}
	return nil
}

// countCell counts the apps of one cell.
func (e *Engine) countCell(ctx context.Context, tx *sql.Tx, cell Query) (int64, error) {
	query := e.dialect.Rebind("SELECT COUNT(*) FROM (" + cell.SQL + ") AS cell")

	var n int64
	if err := tx.QueryRowContext(ctx, query, cell.Args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cell apps: %w", err)
	}
	return n, nil
}

func sdkIDs(ctx context.Context, tx *sql.Tx) ([]int64, error) {
	rows, err := tx.QueryContext(ctx, "SELECT id FROM sdk ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list sdk ids: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan sdk id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sdk ids: %w", err)
	}
	return ids, nil
}
