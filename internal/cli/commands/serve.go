package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/compmatrix/internal/cli/config"
	"github.com/leapstack-labs/compmatrix/internal/cli/output"
	"github.com/leapstack-labs/compmatrix/internal/notifier"
	"github.com/leapstack-labs/compmatrix/internal/server"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the competitive matrix HTTP API",
		Long: `Start an HTTP server exposing the competitive matrix API under /api/v1:

  GET /api/v1/sdks
  GET /api/v1/sdk-compmatrix/numbers?from_sdks=1&to_sdks=2
  GET /api/v1/sdk-compmatrix/apps?from_sdk=1&to_sdk=2&count=10

When --dataset is given the catalog is loaded from that file on start.
With --watch, the catalog is reloaded whenever the file changes.`,
		Example: `  # Serve on the default address
  compmatrix serve

  # Serve a dataset and reload it on change
  compmatrix serve --dataset catalog.yaml --watch

  # Listen on all interfaces
  compmatrix serve --host 0.0.0.0 --port 8080`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}

	cmd.Flags().String("host", "", fmt.Sprintf("Host to listen on (default: %s)", config.DefaultServerHost))
	cmd.Flags().Int("port", 0, fmt.Sprintf("Port to listen on (default: %d)", config.DefaultServerPort))
	cmd.Flags().Bool("watch", false, "Reload the catalog when the dataset file changes")
	cmd.Flags().String("dataset", "", "Dataset file to load on start")

	return cmd
}

func runServe(cmd *cobra.Command) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	cfg := cc.Cfg
	srv := server.New(server.Config{
		Store:             cc.Store,
		Matrices:          cc.Engine,
		Host:              cfg.Server.Host,
		Port:              cfg.Server.Port,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ShutdownTimeout:   cfg.Server.ShutdownTimeout,
		Watch:             cfg.Server.Watch,
		DatasetPath:       cfg.Dataset,
		Logger:            cc.Logger,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Dataset != "" {
		if err := srv.Reload(ctx); err != nil {
			return fmt.Errorf("failed to load dataset: %w", err)
		}
	} else if cfg.Server.Watch {
		cc.Renderer.Warning("--watch has no effect without --dataset")
	}

	r := cc.Renderer
	events, unsubscribe := srv.Reloads()
	done := make(chan struct{})
	go func() {
		defer close(done)
		reportReloads(r, events)
	}()
	defer func() {
		unsubscribe()
		<-done
	}()

	r.Success("Serving the API on http://" + srv.Addr() + "/api/v1")
	r.Muted("Press Ctrl+C to stop")

	return srv.Serve(ctx)
}

// reportReloads prints one line per catalog reload until events is closed.
func reportReloads(r *output.Renderer, events <-chan notifier.Reload) {
	for ev := range events {
		if ev.Err != nil {
			r.Warning(fmt.Sprintf("catalog reload from %s failed: %v", ev.Path, ev.Err))
			continue
		}
		r.Success(fmt.Sprintf("catalog reloaded from %s: %s", ev.Path, english.Plural(int(ev.Apps), "app", "")))
	}
}
