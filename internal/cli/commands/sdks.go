package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/compmatrix/internal/api"
	"github.com/leapstack-labs/compmatrix/internal/cli/output"
)

// NewSDKsCommand creates the sdks command.
func NewSDKsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sdks",
		Short: "List SDKs",
		Long: `List every SDK in the catalog, ordered by name.

The ids shown here are the ones the matrix and apps commands expect.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSDKs(cmd)
		},
	}
}

func runSDKs(cmd *cobra.Command) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	sdks, err := cc.Store.ListSDKs(cmd.Context())
	if err != nil {
		return err
	}
	api.SortSDKs(sdks)

	r := cc.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		resp := api.SDKsResponse{SDKs: make([]api.SDK, len(sdks))}
		for i, s := range sdks {
			resp.SDKs[i] = api.NewSDK(s)
		}
		return r.JSON(resp)
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatHeader(1, "SDKs"))
		r.Println("")
	} else {
		r.Header(1, "SDKs")
	}
	if len(sdks) == 0 {
		r.Muted("No SDKs in the catalog. Run `compmatrix seed` to load one.")
		return nil
	}

	rows := make([][]string, len(sdks))
	for i, s := range sdks {
		rows[i] = []string{fmt.Sprint(s.ID), s.Name, s.Slug, s.URL}
	}
	r.Table([]string{"ID", "Name", "Slug", "URL"}, rows)
	return nil
}
