package state

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/compmatrix/pkg/adapter"
	"github.com/leapstack-labs/compmatrix/pkg/core"
	"github.com/leapstack-labs/compmatrix/pkg/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockAdapter serves a sqlmock connection through the adapter contract.
type mockAdapter struct {
	adapter.BaseSQLAdapter
	dialect *dialect.Dialect
}

func (m *mockAdapter) Connect(context.Context, adapter.Config) error { return nil }

func (m *mockAdapter) DialectConfig() *core.DialectConfig { return &m.dialect.DialectConfig }

func newMockStore(t *testing.T, d *dialect.Dialect) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store, err := NewStore(&mockAdapter{BaseSQLAdapter: adapter.BaseSQLAdapter{Conn: db}, dialect: d}, nil)
	require.NoError(t, err)
	return store, mock
}

func TestStore_NotOpened(t *testing.T) {
	store, err := NewStore(&mockAdapter{dialect: dialect.SQLite}, nil)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = store.ListSDKs(ctx)
	assert.EqualError(t, err, "database not opened")
	_, err = store.UnknownSDKIDs(ctx, []int64{1})
	assert.EqualError(t, err, "database not opened")
	_, err = store.CountApps(ctx)
	assert.EqualError(t, err, "database not opened")
	err = store.ReplaceCatalog(ctx, core.Catalog{})
	assert.EqualError(t, err, "database not opened")
	err = store.Migrate(ctx)
	assert.EqualError(t, err, "database not opened")
}

func TestStore_QueryErrors(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(mock sqlmock.Sqlmock)
		call   func(s *Store) error
		errMsg string
	}{
		{
			name:  "list sdks",
			setup: func(mock sqlmock.Sqlmock) { mock.ExpectQuery("SELECT id, name").WillReturnError(assert.AnError) },
			call: func(s *Store) error {
				_, err := s.ListSDKs(context.Background())
				return err
			},
			errMsg: "failed to list sdks",
		},
		{
			name:  "unknown sdk ids",
			setup: func(mock sqlmock.Sqlmock) { mock.ExpectQuery("SELECT id FROM sdk").WillReturnError(assert.AnError) },
			call: func(s *Store) error {
				_, err := s.UnknownSDKIDs(context.Background(), []int64{1, 2})
				return err
			},
			errMsg: "failed to look up sdk ids",
		},
		{
			name:  "count apps",
			setup: func(mock sqlmock.Sqlmock) { mock.ExpectQuery("SELECT COUNT").WillReturnError(assert.AnError) },
			call: func(s *Store) error {
				_, err := s.CountApps(context.Background())
				return err
			},
			errMsg: "failed to count apps",
		},
		{
			name: "replace catalog clear fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("DELETE FROM app_sdk").WillReturnError(assert.AnError)
				mock.ExpectRollback()
			},
			call: func(s *Store) error {
				return s.ReplaceCatalog(context.Background(), core.Catalog{})
			},
			errMsg: "failed to clear app_sdk",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newMockStore(t, dialect.SQLite)
			tt.setup(mock)

			err := tt.call(store)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.ErrorIs(t, err, assert.AnError)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUnknownSDKIDs_PostgresPlaceholders(t *testing.T) {
	store, mock := newMockStore(t, dialect.Postgres)

	mock.ExpectQuery(`SELECT id FROM sdk WHERE id IN \(\$1, \$2\)`).
		WithArgs(int64(1), int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	got, err := store.UnknownSDKIDs(context.Background(), []int64{1, 5})
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "?", placeholders(1))
	assert.Equal(t, "?, ?, ?", placeholders(3))
}
