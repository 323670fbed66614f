package testutil

import (
	"context"
	"testing"

	"github.com/leapstack-labs/compmatrix/internal/dataset"
	"github.com/leapstack-labs/compmatrix/internal/state"
	"github.com/leapstack-labs/compmatrix/pkg/adapter"
)

// SDK ids of the sample catalog.
const (
	PayPal     int64 = 1
	CardIO     int64 = 2
	Chartboost int64 = 3
)

// SampleAppID maps a zero-based fixture index (0 = Clash of Clans,
// 14 = Pinterest) to the app id used by the sample catalog.
func SampleAppID(index int) int64 {
	return int64(index) + 1
}

// NewTestStore opens a migrated, empty in-memory store that is closed when
// the test ends.
func NewTestStore(t testing.TB) *state.Store {
	t.Helper()
	ctx := context.Background()

	store, err := state.Open(ctx, adapter.Config{Type: "sqlite", Path: ":memory:"}, NewTestLogger(t))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate store: %v", err)
	}
	return store
}

// NewSampleStore opens an in-memory store seeded with the sample catalog.
func NewSampleStore(t testing.TB) *state.Store {
	t.Helper()

	store := NewTestStore(t)
	if err := store.ReplaceCatalog(context.Background(), dataset.Sample()); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}
	return store
}
