// Package cli builds the folioctl command tree.
package cli

import "github.com/spf13/cobra"

// NewRootCmd builds the folioctl root command tree.
func NewRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folioctl",
		Short: "Build, preview, and publish single-page portfolio sites",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().String("config", "", "Path to the folioctl config file (default ~/.folioctl/config.yaml)")
	cmd.PersistentFlags().String("context", "", "Config context to use for remote commands")

	cmd.AddCommand(newBuildCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newPublishCmd())
	cmd.AddCommand(newDiffCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newReleasesCmd())
	cmd.AddCommand(newVisitsCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd(version))

	return cmd
}
