package commands

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/compmatrix/internal/cli/output"
	"github.com/leapstack-labs/compmatrix/internal/cli/testutil"
	"github.com/leapstack-labs/compmatrix/internal/notifier"
	"github.com/leapstack-labs/compmatrix/pkg/core"
)

func TestNewServeCommand(t *testing.T) {
	cmd := NewServeCommand()

	assert.Equal(t, "serve", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	flags := []string{"host", "port", "watch", "dataset"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestNewMatrixCommand(t *testing.T) {
	cmd := NewMatrixCommand()

	assert.Equal(t, "matrix", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")

	// Note: --output flag is a global persistent flag on root command, not local to matrix
	for _, flag := range []string{"from", "to"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestNewAppsCommand(t *testing.T) {
	cmd := NewAppsCommand()

	assert.Equal(t, "apps", cmd.Use)
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	flags := []string{"from-sdk", "to-sdk", "other-from-sdks", "other-to-sdks", "count", "cursor", "direction"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
	assert.Equal(t, "10", cmd.Flags().Lookup("count").DefValue)
}

func TestNewSeedCommand(t *testing.T) {
	cmd := NewSeedCommand()

	assert.Equal(t, "seed", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("dataset"))
}

func TestNewMigrateCommand(t *testing.T) {
	cmd := NewMigrateCommand()

	assert.Equal(t, "migrate", cmd.Use)
	require.Len(t, cmd.Commands(), 1)
	assert.Equal(t, "status", cmd.Commands()[0].Use)
}

func parseAppsFlags(t *testing.T, args ...string) (*AppsOptions, *pflag.FlagSet) {
	t.Helper()
	opts := &AppsOptions{}
	flags := pflag.NewFlagSet("apps", pflag.ContinueOnError)
	opts.bindFlags(flags)
	require.NoError(t, flags.Parse(args))
	return opts, flags
}

func TestAppsOptions_CellRequest(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		src   string
		dst   string
		count int
	}{
		{"defaults", nil, "NoneOf()", "NoneOf()", defaultPageSize},
		{"specific", []string{"--from-sdk", "1", "--to-sdk", "2", "--count", "3"}, "Specific(1)", "Specific(2)", 3},
		{"zero id is specific", []string{"--from-sdk", "0"}, "Specific(0)", "NoneOf()", defaultPageSize},
		{"none buckets", []string{"--other-from-sdks", "1,2", "--other-to-sdks", "3"}, "NoneOf(1,2)", "NoneOf(3)", defaultPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, flags := parseAppsFlags(t, tt.args...)
			req, err := opts.cellRequest(flags)
			require.NoError(t, err)
			assert.Equal(t, tt.src, req.Source.String())
			assert.Equal(t, tt.dst, req.Destination.String())
			assert.Equal(t, tt.count, req.Count)
			assert.Nil(t, req.Cursor)
		})
	}
}

func TestAppsOptions_CellRequestCursor(t *testing.T) {
	opts, flags := parseAppsFlags(t, "--cursor", "Hay Day;Supercell Oy", "--direction", "previous")

	req, err := opts.cellRequest(flags)
	require.NoError(t, err)
	require.NotNil(t, req.Cursor)
	assert.Equal(t, core.Cursor{Name: "Hay Day", SellerName: "Supercell Oy"}, *req.Cursor)
	assert.Equal(t, core.DirectionPrevious, req.Direction)
}

func TestAppsOptions_CellRequestJoinsErrors(t *testing.T) {
	opts, flags := parseAppsFlags(t, "--count", "-1", "--to-sdk", "1", "--other-to-sdks", "2")

	_, err := opts.cellRequest(flags)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--count must be greater than zero")
	assert.Contains(t, err.Error(), "--other-to-sdks cannot be combined with --to-sdk")
}

func TestAppsOptions_IDs(t *testing.T) {
	opts, flags := parseAppsFlags(t, "--to-sdk", "2", "--other-from-sdks", "3,4")
	assert.Equal(t, []int64{2, 3, 4}, opts.ids(flags))
}

func TestSelectorLabels(t *testing.T) {
	names := map[int64]string{1: "PayPal"}
	selectors := []core.Selector{core.Specific(1), core.Specific(7), core.NoneOf([]int64{1})}

	assert.Equal(t, []string{"PayPal", "#7", "(none)"}, selectorLabels(selectors, names))
}

func TestMatrixRows(t *testing.T) {
	out := output.MatrixOutput{
		Rows:    []string{"PayPal", "(none)"},
		Columns: []string{"PayPal"},
		Numbers: [][]int64{{4}, {12345}},
	}

	assert.Equal(t, []string{"from \\ to", "PayPal"}, matrixHeader(out))
	assert.Equal(t, [][]string{{"PayPal", "4"}, {"(none)", "12,345"}}, matrixRows(out))
}

func TestAppsRendering(t *testing.T) {
	released := time.Date(2012, 6, 14, 0, 0, 0, 0, time.UTC)
	clash := core.Cursor{Name: "Clash of Clans", SellerName: "Supercell Oy"}
	page := core.AppPage{
		Apps: []core.App{{
			Name:            "Clash of Clans",
			SellerName:      "Supercell Oy",
			ReleaseDate:     &released,
			FiveStarRatings: 1000,
			OneStarRatings:  500,
		}},
		TotalCount:  4,
		StartCursor: &clash,
		EndCursor:   &clash,
	}

	t.Run("markdown", func(t *testing.T) {
		tr := testutil.NewTestRendererMarkdown()
		require.NoError(t, appsMarkdown(tr.Renderer, page))

		out := tr.Output()
		testutil.AssertValidMarkdown(t, out)
		testutil.AssertContains(t, out, "# Apps")
		testutil.AssertContains(t, out, "| Clash of Clans | Supercell Oy | 2012-06-14 | 1,500 |")
		testutil.AssertContains(t, out, "- **Total:** 4")
		testutil.AssertContains(t, out, "- **Start cursor:** Clash of Clans;Supercell Oy")
		testutil.AssertOutputMode(t, tr, output.ModeMarkdown)
	})

	t.Run("text", func(t *testing.T) {
		tr := testutil.NewTestRenderer(output.ModeText, false)
		require.NoError(t, appsText(tr.Renderer, page))

		out := tr.Output()
		testutil.AssertNoANSI(t, out)
		testutil.AssertContains(t, out, "Showing 1 of 4 apps")
		testutil.AssertContains(t, out, "End cursor:   Clash of Clans;Supercell Oy")
	})

	t.Run("empty page", func(t *testing.T) {
		tr := testutil.NewTestRendererText()
		require.NoError(t, appsText(tr.Renderer, core.AppPage{TotalCount: 4}))

		out := tr.Output()
		testutil.AssertContains(t, out, "No apps on this page.")
		testutil.AssertNotContains(t, out, "Start cursor")
	})
}

func TestReportReloads(t *testing.T) {
	tests := []struct {
		name    string
		tr      *testutil.TestRenderer
		event   notifier.Reload
		stdout  string
		stderr  string
		noMatch string
	}{
		{
			name:   "reloaded",
			tr:     testutil.NewTestRendererAuto(),
			event:  notifier.Reload{Path: "catalog.yaml", Apps: 15},
			stdout: "catalog reloaded from catalog.yaml: 15 apps",
		},
		{
			name:   "single app",
			tr:     testutil.NewTestRendererText(),
			event:  notifier.Reload{Path: "catalog.yaml", Apps: 1},
			stdout: "catalog reloaded from catalog.yaml: 1 app",
		},
		{
			name:    "failed",
			tr:      testutil.NewTestRendererJSON(),
			event:   notifier.Reload{Path: "catalog.yaml", Err: errors.New("bad yaml")},
			stderr:  "catalog reload from catalog.yaml failed: bad yaml",
			noMatch: "reloaded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := notifier.New()
			events, unsubscribe := n.Subscribe()

			done := make(chan struct{})
			go func() {
				defer close(done)
				reportReloads(tt.tr.Renderer, events)
			}()

			n.Publish(tt.event)
			unsubscribe()

			select {
			case <-done:
			case <-time.After(5 * time.Second):
				t.Fatal("reportReloads did not return after unsubscribe")
			}

			if !tt.tr.IsTTY() {
				testutil.AssertNoANSI(t, tt.tr.Output())
			}
			if tt.stdout != "" {
				testutil.AssertContains(t, tt.tr.Output(), tt.stdout)
			}
			if tt.stderr != "" {
				testutil.AssertContains(t, tt.tr.ErrorOutput(), tt.stderr)
			}
			if tt.noMatch != "" {
				testutil.AssertNotContains(t, tt.tr.Output(), tt.noMatch)
			}
		})
	}
}
