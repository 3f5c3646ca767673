package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/foliokit/folioctl/internal/output"
)

func newReleasesCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "releases",
		Short: "List published releases on the configured foliod",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := output.ParseFormat(outputFormat)
			if err != nil {
				return err
			}

			rt, api, err := runtimeAndClientFromCommand(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			resp, err := api.ListReleases(cmd.Context())
			if err != nil {
				return err
			}

			if format != output.FormatTable {
				return output.WriteStructured(cmd.OutOrStdout(), format, resp)
			}

			if len(resp.Releases) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No releases published yet")
				return nil
			}

			rows := make([][]string, 0, len(resp.Releases))
			for _, rel := range resp.Releases {
				active := ""
				if rel.Active {
					active = "*"
				}
				rows = append(rows, []string{
					rel.ReleaseID,
					rel.SiteName,
					rel.CreatedAt,
					strconv.Itoa(rel.PageCount),
					active,
				})
			}
			return output.WriteTable(cmd.OutOrStdout(),
				[]string{"RELEASE", "SITE", "CREATED", "PAGES", "ACTIVE"}, rows)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "", "Output format: table, json, or yaml")

	return cmd
}
