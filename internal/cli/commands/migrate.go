package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/compmatrix/internal/cli/output"
)

// NewMigrateCommand creates the migrate command and its status subcommand.
func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Long: `Apply every pending schema migration to the configured database.

Migrations are embedded in the binary and applied in order. Running migrate on
an up-to-date database does nothing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd, true)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd, false)
		},
	})

	return cmd
}

func runMigrate(cmd *cobra.Command, apply bool) error {
	cc := NewCommandContextWithoutEngine(cmd)
	ctx := cmd.Context()

	store, err := openStore(ctx, cc.Cfg, cc.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if apply {
		if err := store.Migrate(ctx); err != nil {
			return err
		}
	}
	version, err := store.MigrationVersion(ctx)
	if err != nil {
		return err
	}

	r := cc.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(output.MigrateOutput{Version: version})
	case output.ModeMarkdown:
		r.Println(output.FormatKeyValue("Schema version", fmt.Sprint(version)))
	default:
		if apply {
			r.Success(fmt.Sprintf("Database is at schema version %d", version))
		} else {
			r.Println(fmt.Sprintf("Schema version: %d", version))
		}
	}
	return nil
}
