package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/foliokit/folioctl/internal/bundle"
	"github.com/foliokit/folioctl/internal/diff"
	"github.com/foliokit/folioctl/internal/output"
)

func newDiffCmd() *cobra.Command {
	var from string
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Compare a local build against what the configured foliod serves",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(from) == "" {
				fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
				return fmt.Errorf("required flag(s) \"from\" not set")
			}
			format, err := output.ParseFormat(outputFormat)
			if err != nil {
				return err
			}

			site, err := loadAndValidateSite(from)
			if err != nil {
				return err
			}

			outputDir, err := os.MkdirTemp("", "folioctl-diff-*")
			if err != nil {
				return fmt.Errorf("create build directory: %w", err)
			}
			defer os.RemoveAll(outputDir)

			if _, err := buildSiteOutput(site, outputDir); err != nil {
				return err
			}

			siteName := site.Website.Metadata.Name
			_, manifest, err := bundle.BuildTarFromDir(outputDir, siteName)
			if err != nil {
				return err
			}
			local := make([]diff.FileRecord, 0, len(manifest.Files))
			for _, ref := range manifest.Files {
				local = append(local, diff.FileRecord{Path: ref.Path, Hash: ref.Hash})
			}

			rt, api, err := runtimeAndClientFromCommand(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			served, err := api.ListReleaseFiles(cmd.Context())
			if err != nil {
				return err
			}

			result, err := diff.Compute(local, served.Files)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format != output.FormatTable {
				return output.WriteStructured(out, format, diff.Report{
					Site:            siteName,
					Context:         rt.ResolvedContext.Name,
					ActiveReleaseID: served.ActiveReleaseID,
					Result:          result,
				})
			}
			return diff.WriteTable(out, result, diff.DisplayOptions{Color: diff.AutoColor(out)})
		},
	}

	cmd.Flags().StringVarP(&from, "from", "f", "", "Source site directory")
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "", "Output format: table, json, or yaml")

	return cmd
}
