package commands

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/compmatrix/internal/api"
	"github.com/leapstack-labs/compmatrix/internal/cli/output"
	"github.com/leapstack-labs/compmatrix/pkg/core"
)

// defaultPageSize is the page size of the apps command.
const defaultPageSize = 10

// AppsOptions holds options for the apps command.
type AppsOptions struct {
	FromSDK       int64
	ToSDK         int64
	OtherFromSDKs []int64
	OtherToSDKs   []int64
	Count         int
	Cursor        string
	Direction     string
}

// NewAppsCommand creates the apps command.
func NewAppsCommand() *cobra.Command {
	opts := &AppsOptions{}

	cmd := &cobra.Command{
		Use:   "apps",
		Short: "List the apps behind a matrix cell",
		Long: `List one page of the apps that migrated between two SDKs, ordered by
name and seller name.

The source is --from-sdk when given, and otherwise the "(none)" bucket over
--other-from-sdks. The destination works the same way with --to-sdk and
--other-to-sdks.

Pages are walked with --cursor and --direction, where a cursor has the form
"<app name>;<app seller name>" and is printed with every page.`,
		Example: `  # Apps that kept PayPal
  compmatrix apps --from-sdk 1 --to-sdk 1

  # The next page
  compmatrix apps --from-sdk 1 --to-sdk 1 --cursor "Clash of Clans;Supercell Oy" --direction next

  # Apps that moved to card.io from an SDK other than PayPal
  compmatrix apps --other-from-sdks 1 --to-sdk 2`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApps(cmd, opts)
		},
	}

	opts.bindFlags(cmd.Flags())

	_ = cmd.RegisterFlagCompletionFunc("direction", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{string(core.DirectionNext), string(core.DirectionPrevious)}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func (o *AppsOptions) bindFlags(flags *pflag.FlagSet) {
	flags.Int64Var(&o.FromSDK, "from-sdk", 0, "Source SDK id")
	flags.Int64Var(&o.ToSDK, "to-sdk", 0, "Destination SDK id")
	flags.Int64SliceVar(&o.OtherFromSDKs, "other-from-sdks", nil, "SDK ids excluded from the \"(none)\" source")
	flags.Int64SliceVar(&o.OtherToSDKs, "other-to-sdks", nil, "SDK ids excluded from the \"(none)\" destination")
	flags.IntVar(&o.Count, "count", defaultPageSize, "Page size")
	flags.StringVar(&o.Cursor, "cursor", "", `Page cursor, "<app name>;<app seller name>"`)
	flags.StringVar(&o.Direction, "direction", "", "Direction from the cursor (next|previous)")
}

// cellRequest builds the page request from the flags that were set.
func (o *AppsOptions) cellRequest(flags *pflag.FlagSet) (core.CellRequest, error) {
	req := core.CellRequest{Count: o.Count}

	var errs []error
	if o.Count < 1 {
		errs = append(errs, fmt.Errorf("--count must be greater than zero, got %d", o.Count))
	}
	if flags.Changed("from-sdk") && len(o.OtherFromSDKs) > 0 {
		errs = append(errs, errors.New("--other-from-sdks cannot be combined with --from-sdk"))
	}
	if flags.Changed("to-sdk") && len(o.OtherToSDKs) > 0 {
		errs = append(errs, errors.New("--other-to-sdks cannot be combined with --to-sdk"))
	}

	switch {
	case o.Cursor != "" && o.Direction == "":
		errs = append(errs, errors.New("--direction is required with --cursor"))
	case o.Cursor == "" && o.Direction != "":
		errs = append(errs, errors.New("--cursor is required with --direction"))
	case o.Cursor != "":
		cursor, err := core.ParseCursor(o.Cursor)
		if err != nil {
			errs = append(errs, err)
		} else {
			req.Cursor = &cursor
		}
		dir, err := core.ParseDirection(o.Direction)
		if err != nil {
			errs = append(errs, err)
		} else {
			req.Direction = dir
		}
	}
	if err := errors.Join(errs...); err != nil {
		return core.CellRequest{}, err
	}

	req.Source = core.NoneOf(o.OtherFromSDKs)
	if flags.Changed("from-sdk") {
		req.Source = core.Specific(o.FromSDK)
	}
	req.Destination = core.NoneOf(o.OtherToSDKs)
	if flags.Changed("to-sdk") {
		req.Destination = core.Specific(o.ToSDK)
	}
	return req, nil
}

// ids returns every SDK id named by the flags.
func (o *AppsOptions) ids(flags *pflag.FlagSet) []int64 {
	var ids []int64
	if flags.Changed("from-sdk") {
		ids = append(ids, o.FromSDK)
	}
	if flags.Changed("to-sdk") {
		ids = append(ids, o.ToSDK)
	}
	ids = append(ids, o.OtherFromSDKs...)
	return append(ids, o.OtherToSDKs...)
}

func runApps(cmd *cobra.Command, opts *AppsOptions) error {
	req, err := opts.cellRequest(cmd.Flags())
	if err != nil {
		return err
	}

	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	if err := checkSDKIDs(ctx, cc.Store, opts.ids(cmd.Flags())); err != nil {
		return err
	}

	page, err := cc.Engine.ListCellApps(ctx, req)
	if err != nil {
		return err
	}

	r := cc.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(api.NewAppsResponse(page))
	case output.ModeMarkdown:
		return appsMarkdown(r, page)
	default:
		return appsText(r, page)
	}
}

var appsHeader = []string{"Name", "Seller", "Released", "Ratings"}

func appRows(apps []core.App) [][]string {
	rows := make([][]string, len(apps))
	for i, a := range apps {
		released := "-"
		if a.ReleaseDate != nil {
			released = a.ReleaseDate.UTC().Format("2006-01-02")
		}
		ratings := a.FiveStarRatings + a.FourStarRatings + a.ThreeStarRatings + a.TwoStarRatings + a.OneStarRatings
		rows[i] = []string{a.Name, a.SellerName, released, humanize.Comma(ratings)}
	}
	return rows
}

func pageSummary(page core.AppPage) string {
	return fmt.Sprintf("Showing %d of %s", len(page.Apps),
		english.Plural(int(page.TotalCount), "app", ""))
}

func cursorString(c *core.Cursor) string {
	if c == nil {
		return "-"
	}
	return c.String()
}

func appsText(r *output.Renderer, page core.AppPage) error {
	r.Header(1, "Apps")
	if len(page.Apps) == 0 {
		r.Muted("No apps on this page.")
	} else {
		r.Table(appsHeader, appRows(page.Apps))
	}
	r.Muted(pageSummary(page))
	if page.StartCursor != nil {
		r.Muted("Start cursor: " + cursorString(page.StartCursor))
		r.Muted("End cursor:   " + cursorString(page.EndCursor))
	}
	return nil
}

func appsMarkdown(r *output.Renderer, page core.AppPage) error {
	r.Println(output.FormatHeader(1, "Apps"))
	r.Println("")
	if len(page.Apps) > 0 {
		r.Table(appsHeader, appRows(page.Apps))
		r.Println("")
	}
	r.Println(output.FormatKeyValue("Total", fmt.Sprint(page.TotalCount)))
	r.Println(output.FormatKeyValue("Start cursor", cursorString(page.StartCursor)))
	r.Println(output.FormatKeyValue("End cursor", cursorString(page.EndCursor)))
	return nil
}
