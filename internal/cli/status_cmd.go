package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/foliokit/folioctl/internal/output"
)

func newStatusCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show what the configured foliod is serving",
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

			status, err := api.GetStatus(cmd.Context())
			if err != nil {
				return err
			}

			if format != output.FormatTable {
				return output.WriteStructured(cmd.OutOrStdout(), format, status)
			}

			out := cmd.OutOrStdout()
			if status.ActiveReleaseID == nil {
				fmt.Fprintf(out, "Context %q: no release published yet\n", rt.ResolvedContext.Name)
				return nil
			}
			fmt.Fprintf(out, "Context:  %s\n", rt.ResolvedContext.Name)
			fmt.Fprintf(out, "Site:     %s\n", status.Site)
			fmt.Fprintf(out, "Release:  %s\n", *status.ActiveReleaseID)
			fmt.Fprintf(out, "Pages:    %d\n", status.PageCount)
			fmt.Fprintf(out, "Created:  %s\n", output.OrNone(status.CreatedAt))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "", "Output format: table, json, or yaml")

	return cmd
}
