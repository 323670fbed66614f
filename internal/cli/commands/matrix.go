package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/compmatrix/internal/cli/output"
	"github.com/leapstack-labs/compmatrix/internal/state"
	"github.com/leapstack-labs/compmatrix/pkg/core"
)

// MatrixOptions holds options for the matrix command.
type MatrixOptions struct {
	From []int64
	To   []int64
}

// NewMatrixCommand creates the matrix command.
func NewMatrixCommand() *cobra.Command {
	opts := &MatrixOptions{}

	cmd := &cobra.Command{
		Use:   "matrix",
		Short: "Compute the competitive matrix",
		Long: `Compute how many apps migrated from each source SDK to each destination SDK.

Each listed SDK gets its own row or column. A "(none)" row or column is added
whenever some SDK is not listed; it stands for every SDK without its own row
or column, and for apps that have no SDK on that side at all.

Output adapts to environment:
  - Terminal: Styled table
  - Piped/Scripted: Markdown table (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # PayPal and card.io against everything
  compmatrix matrix --from 1,2 --to 1,2

  # Everything collapsed into "(none)"
  compmatrix matrix

  # As JSON
  compmatrix matrix --from 1 --to 1 -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMatrix(cmd, opts)
		},
	}

	cmd.Flags().Int64SliceVar(&opts.From, "from", nil, "Source SDK ids, one row each")
	cmd.Flags().Int64SliceVar(&opts.To, "to", nil, "Destination SDK ids, one column each")

	return cmd
}

func runMatrix(cmd *cobra.Command, opts *MatrixOptions) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	if err := checkSDKIDs(ctx, cc.Store, append(append([]int64{}, opts.From...), opts.To...)); err != nil {
		return err
	}

	m, err := cc.Engine.ComputeMatrix(ctx, opts.From, opts.To)
	if err != nil {
		return err
	}

	names, err := sdkNames(ctx, cc.Store)
	if err != nil {
		return err
	}
	out := output.MatrixOutput{
		Rows:    selectorLabels(m.Rows, names),
		Columns: selectorLabels(m.Columns, names),
		Numbers: m.Numbers,
	}

	r := cc.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(out)
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Competitive Matrix"))
		r.Println("")
		r.Table(matrixHeader(out), matrixRows(out))
	default:
		r.Header(1, "Competitive Matrix")
		r.Table(matrixHeader(out), matrixRows(out))
		r.Muted("Rows are sources, columns are destinations.")
	}
	return nil
}

func matrixHeader(out output.MatrixOutput) []string {
	return append([]string{"from \\ to"}, out.Columns...)
}

func matrixRows(out output.MatrixOutput) [][]string {
	rows := make([][]string, len(out.Numbers))
	for i, numbers := range out.Numbers {
		row := make([]string, 0, len(numbers)+1)
		row = append(row, out.Rows[i])
		for _, n := range numbers {
			row = append(row, humanize.Comma(n))
		}
		rows[i] = row
	}
	return rows
}

// checkSDKIDs fails when any id does not refer to an SDK.
func checkSDKIDs(ctx context.Context, store *state.Store, ids []int64) error {
	unknown, err := store.UnknownSDKIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(unknown) == 0 {
		return nil
	}
	parts := make([]string, len(unknown))
	for i, id := range unknown {
		parts[i] = fmt.Sprint(id)
	}
	return fmt.Errorf("unknown sdk ids: %s", strings.Join(parts, ", "))
}

func sdkNames(ctx context.Context, store *state.Store) (map[int64]string, error) {
	sdks, err := store.ListSDKs(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(sdks))
	for _, s := range sdks {
		names[s.ID] = s.Name
	}
	return names, nil
}

func selectorLabels(selectors []core.Selector, names map[int64]string) []string {
	labels := make([]string, len(selectors))
	for i, s := range selectors {
		switch {
		case !s.IsSpecific():
			labels[i] = core.NoneLabel
		case names[s.ID()] != "":
			labels[i] = names[s.ID()]
		default:
			labels[i] = fmt.Sprintf("#%d", s.ID())
		}
	}
	return labels
}
