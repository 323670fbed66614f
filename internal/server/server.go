// Package server runs the compmatrix HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/compmatrix/internal/api"
	"github.com/leapstack-labs/compmatrix/internal/dataset"
	"github.com/leapstack-labs/compmatrix/internal/notifier"
	"github.com/leapstack-labs/compmatrix/pkg/core"
)

const reloadDebounce = 100 * time.Millisecond

// Store is the catalog storage the server reads and reloads.
type Store interface {
	api.Catalog
	CountApps(ctx context.Context) (int64, error)
	ReplaceCatalog(ctx context.Context, c core.Catalog) error
}

// Server is the API server.
type Server struct {
	store             Store
	matrices          api.Matrices
	addr              string
	readHeaderTimeout time.Duration
	shutdownTimeout   time.Duration
	watch             bool
	datasetPath       string
	logger            *slog.Logger
	notifier          *notifier.Notifier
}

// Config holds configuration for the API server.
type Config struct {
	Store             Store
	Matrices          api.Matrices
	Host              string
	Port              int
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
	// Watch reloads the catalog whenever DatasetPath changes.
	Watch       bool
	DatasetPath string
	Logger      *slog.Logger
}

// New creates a new API server instance.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	readHeaderTimeout := cfg.ReadHeaderTimeout
	if readHeaderTimeout <= 0 {
		readHeaderTimeout = 10 * time.Second
	}
	shutdownTimeout := cfg.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 5 * time.Second
	}

	return &Server{
		store:             cfg.Store,
		matrices:          cfg.Matrices,
		addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		readHeaderTimeout: readHeaderTimeout,
		shutdownTimeout:   shutdownTimeout,
		watch:             cfg.Watch && cfg.DatasetPath != "",
		datasetPath:       cfg.DatasetPath,
		logger:            logger,
		notifier:          notifier.New(),
	}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Reloads subscribes to catalog reload events. Call cancel when done.
func (s *Server) Reloads() (<-chan notifier.Reload, func()) {
	return s.notifier.Subscribe()
}

// Handler builds the HTTP handler with all routes mounted.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	if err := api.SetupRoutes(r, s.store, s.matrices, s.logger); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve listens on the configured address and blocks until the context
// is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln and blocks until the context is cancelled.
// ln is closed on return.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	s.logger.Info("starting API server", "addr", "http://"+ln.Addr().String())

	eg, egctx := errgroup.WithContext(ctx)

	handler, err := s.Handler()
	if err != nil {
		_ = ln.Close()
		return err
	}

	srv := &http.Server{
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: s.readHeaderTimeout,
	}

	if s.watch {
		eg.Go(func() error {
			return s.watchDataset(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		s.logger.Debug("shutting down API server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// Reload replaces the catalog with the contents of the dataset file and
// publishes the outcome to subscribers.
func (s *Server) Reload(ctx context.Context) error {
	ev := notifier.Reload{Path: s.datasetPath, At: time.Now()}
	defer func() { s.notifier.Publish(ev) }()

	catalog, err := dataset.LoadFile(s.datasetPath)
	if err != nil {
		ev.Err = err
		return err
	}
	if err := s.store.ReplaceCatalog(ctx, catalog); err != nil {
		ev.Err = err
		return err
	}
	apps, err := s.store.CountApps(ctx)
	if err != nil {
		ev.Err = err
		return err
	}
	ev.Apps = apps

	s.logger.Info("catalog reloaded", "dataset", s.datasetPath, "apps", apps)
	return nil
}

// watchDataset reloads the catalog when the dataset file changes. The
// parent directory is watched so that editors replacing the file are seen.
func (s *Server) watchDataset(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	target := filepath.Clean(s.datasetPath)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		s.logger.Error("failed to watch dataset", "dataset", target, "error", err)
		return nil
	}

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(reloadDebounce, func() {
				s.logger.Debug("dataset changed, reloading", "file", event.Name)
				if err := s.Reload(ctx); err != nil {
					s.logger.Error("reload failed", "dataset", target, "error", err)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}
