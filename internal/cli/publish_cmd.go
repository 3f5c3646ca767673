package cli

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/foliokit/folioctl/internal/bundle"
)

func newPublishCmd() *cobra.Command {
	var from string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Build a site and publish it to the configured foliod",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(from) == "" {
				fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
				return fmt.Errorf("required flag(s) \"from\" not set")
			}

			site, err := loadAndValidateSite(from)
			if err != nil {
				return err
			}

			outputDir, err := os.MkdirTemp("", "folioctl-publish-*")
			if err != nil {
				return fmt.Errorf("create build directory: %w", err)
			}
			defer os.RemoveAll(outputDir)

			if _, err := buildSiteOutput(site, outputDir); err != nil {
				return err
			}

			siteName := site.Website.Metadata.Name
			tarBytes, _, err := bundle.BuildTarFromDir(outputDir, siteName)
			if err != nil {
				return err
			}

			rt, api, err := runtimeAndClientFromCommand(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			resp, err := api.PublishBundle(cmd.Context(), bytes.NewReader(tarBytes), dryRun)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if resp.DryRun {
				fmt.Fprintf(out, "Dry run: bundle for %q verified (%d pages, context %q)\n",
					resp.Site, resp.PageCount, rt.ResolvedContext.Name)
				return nil
			}
			fmt.Fprintf(out, "Published %q as release %s (%d pages, context %q)\n",
				resp.Site, resp.ReleaseID, resp.PageCount, rt.ResolvedContext.Name)
			if resp.PreviousReleaseID != nil {
				fmt.Fprintf(out, "Previous release: %s\n", *resp.PreviousReleaseID)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&from, "from", "f", "", "Source site directory")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Verify the bundle on the server without activating it")

	return cmd
}
