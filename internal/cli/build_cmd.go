package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newBuildCmd() *cobra.Command {
	var from string
	var output string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render a site directory into a publishable static tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(from) == "" {
				fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
				return fmt.Errorf("required flag(s) \"from\" not set")
			}

			site, err := loadAndValidateSite(from)
			if err != nil {
				return err
			}

			pages, err := buildSiteOutput(site, output)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Built %d page(s) to %s\n", pages, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&from, "from", "f", "", "Source site directory")
	cmd.Flags().StringVarP(&output, "output", "o", "./dist", "Output directory")

	return cmd
}
