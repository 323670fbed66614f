package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/compmatrix/internal/cli/config"
	"github.com/leapstack-labs/compmatrix/internal/cli/output"
	"github.com/leapstack-labs/compmatrix/internal/compmatrix"
	"github.com/leapstack-labs/compmatrix/internal/state"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Store    *state.Store
	Engine   *compmatrix.Engine
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with a migrated store, an
// engine and a renderer. Returns the context and a cleanup function that
// must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cc := NewCommandContextWithoutEngine(cmd)

	store, err := openStore(cmd.Context(), cc.Cfg, cc.Logger)
	if err != nil {
		return nil, nil, err
	}
	if err := store.Migrate(cmd.Context()); err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	cc.Store = store
	cc.Engine = compmatrix.NewEngine(store, cc.Logger)

	cleanup := func() {
		_ = store.Close()
	}
	return cc, cleanup, nil
}

// NewCommandContextWithoutEngine creates a CommandContext without a store
// or engine. Useful for commands that don't need database access.
func NewCommandContextWithoutEngine(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// getConfig returns the current configuration, or the defaults when no
// configuration was loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*state.Store, error) {
	store, err := state.Open(ctx, cfg.Database.AdapterConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Database.Type, err)
	}
	return store, nil
}
