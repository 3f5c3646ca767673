package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/foliokit/folioctl/internal/output"
)

const maxUserAgentWidth = 40

func newVisitsCmd() *cobra.Command {
	var outputFormat string
	var recent int

	cmd := &cobra.Command{
		Use:   "visits",
		Short: "Summarize recorded section visits",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := output.ParseFormat(outputFormat)
			if err != nil {
				return err
			}
			if recent < 0 {
				return fmt.Errorf("--recent must be zero or positive")
			}

			rt, api, err := runtimeAndClientFromCommand(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			summary, err := api.VisitsSummary(cmd.Context(), recent)
			if err != nil {
				return err
			}

			if format != output.FormatTable {
				return output.WriteStructured(cmd.OutOrStdout(), format, summary)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total visits: %d\n", summary.Total)
			if len(summary.TopSections) > 0 {
				fmt.Fprintln(out)
				rows := make([][]string, 0, len(summary.TopSections))
				for _, section := range summary.TopSections {
					rows = append(rows, []string{section.SectionID, strconv.FormatInt(section.Count, 10)})
				}
				if err := output.WriteTable(out, []string{"SECTION", "VISITS"}, rows); err != nil {
					return err
				}
			}
			if len(summary.Recent) > 0 {
				fmt.Fprintln(out)
				rows := make([][]string, 0, len(summary.Recent))
				for _, visit := range summary.Recent {
					rows = append(rows, []string{
						visit.Timestamp,
						visit.Path,
						visit.SectionID,
						output.Truncate(visit.UserAgent, maxUserAgentWidth),
					})
				}
				if err := output.WriteTable(out, []string{"TIME", "PATH", "SECTION", "USER_AGENT"}, rows); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "", "Output format: table, json, or yaml")
	cmd.Flags().IntVar(&recent, "recent", 0, "Include the N most recent raw visits")

	return cmd
}
