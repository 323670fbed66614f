package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/compmatrix/internal/compmatrix"
	"github.com/leapstack-labs/compmatrix/internal/notifier"
	"github.com/leapstack-labs/compmatrix/internal/state"
	"github.com/leapstack-labs/compmatrix/internal/testutil"
)

const tinyDataset = `
sdks:
  - {id: 1, name: A, slug: a}
apps:
  - {id: 1, name: X, seller_name: S, sdks: {installed: [a]}}
  - {id: 2, name: Y, seller_name: S, sdks: {uninstalled: [a]}}
`

func newTestServer(t *testing.T, store *state.Store, cfg Config) *Server {
	t.Helper()
	logger := testutil.NewTestLogger(t)
	cfg.Store = store
	cfg.Matrices = compmatrix.NewEngine(store, logger)
	cfg.Logger = logger
	return New(cfg)
}

func writeDataset(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestNew_Defaults(t *testing.T) {
	s := New(Config{Host: "127.0.0.1", Port: 10982})

	assert.Equal(t, "127.0.0.1:10982", s.Addr())
	assert.Equal(t, 10*time.Second, s.readHeaderTimeout)
	assert.Equal(t, 5*time.Second, s.shutdownTimeout)
	assert.False(t, s.watch, "watch needs a dataset path")
	assert.NotNil(t, s.logger)
}

func TestHandler(t *testing.T) {
	s := newTestServer(t, testutil.NewSampleStore(t), Config{})

	handler, err := s.Handler()
	require.NoError(t, err)

	ts := httptest.NewServer(handler)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/sdk-compmatrix/numbers?from_sdks=1&to_sdks=1")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":{"numbers":[[4,6],[3,11]]}}`, string(body))

	notFound, err := http.Get(ts.URL + "/api/v2/sdks")
	require.NoError(t, err)
	_ = notFound.Body.Close()
	assert.Equal(t, http.StatusNotFound, notFound.StatusCode)
}

func TestServeListener(t *testing.T) {
	s := newTestServer(t, testutil.NewSampleStore(t), Config{ShutdownTimeout: time.Second})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	url := "http://" + ln.Addr().String() + "/api/v1/sdks"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ServeListener(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestReload(t *testing.T) {
	store := testutil.NewSampleStore(t)
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	writeDataset(t, path, tinyDataset)

	s := newTestServer(t, store, Config{DatasetPath: path})
	events, cancel := s.Reloads()
	defer cancel()

	require.NoError(t, s.Reload(context.Background()))

	ev := <-events
	require.NoError(t, ev.Err)
	assert.Equal(t, path, ev.Path)
	assert.Equal(t, int64(2), ev.Apps)

	sdks, err := store.ListSDKs(context.Background())
	require.NoError(t, err)
	require.Len(t, sdks, 1)
	assert.Equal(t, "A", sdks[0].Name)
}

func TestReload_BadDatasetKeepsCatalog(t *testing.T) {
	store := testutil.NewSampleStore(t)
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	writeDataset(t, path, "sdks: [{id: 1, name: A}]\n")

	s := newTestServer(t, store, Config{DatasetPath: path})
	events, cancel := s.Reloads()
	defer cancel()

	require.Error(t, s.Reload(context.Background()))
	ev := <-events
	assert.Error(t, ev.Err)

	apps, err := store.CountApps(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(15), apps)
}

func TestServe_WatchReloads(t *testing.T) {
	store := testutil.NewSampleStore(t)
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	writeDataset(t, path, "sdks: []\n")

	s := newTestServer(t, store, Config{Watch: true, DatasetPath: path, ShutdownTimeout: time.Second})
	events, cancelEvents := s.Reloads()
	defer cancelEvents()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ServeListener(ctx, ln) }()
	defer func() {
		cancel()
		<-done
	}()

	// keep writing until the watcher has been registered and fires
	ev := waitForReload(t, events, func() { writeDataset(t, path, tinyDataset) })
	require.NoError(t, ev.Err)
	assert.Equal(t, int64(2), ev.Apps)
}

func waitForReload(t *testing.T, events <-chan notifier.Reload, write func()) notifier.Reload {
	t.Helper()
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(250 * time.Millisecond)
	defer tick.Stop()

	write()
	for {
		select {
		case ev := <-events:
			return ev
		case <-tick.C:
			write()
		case <-deadline:
			t.Fatal("dataset change was not picked up")
		}
	}
}
