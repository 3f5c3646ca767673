package cli

import (
	"fmt"

	"github.com/foliokit/folioctl/internal/ogimage"
	"github.com/foliokit/folioctl/internal/release"
	"github.com/foliokit/folioctl/pkg/loader"
	"github.com/foliokit/folioctl/pkg/model"
	"github.com/foliokit/folioctl/pkg/renderer"
	"github.com/foliokit/folioctl/pkg/validator"
)

// loadAndValidateSite loads a site directory and runs both structural and
// markup validation. Content problems come back with the validation exit
// code.
func loadAndValidateSite(siteDir string) (*model.Site, error) {
	site, err := loader.LoadSite(siteDir)
	if err != nil {
		return nil, err
	}
	if err := loader.ValidateSite(site); err != nil {
		return nil, exitCodeError(exitCodeValidation, err)
	}
	if errs := validator.ValidateAllSections(site); len(errs) > 0 {
		return nil, exitCodeError(exitCodeValidation,
			fmt.Errorf("section validation failed:\n%s", validator.FormatErrors(errs)))
	}
	return site, nil
}

// buildSiteOutput renders a complete publishable tree: entry pages, hashed
// statics, preview cards, and SEO artifacts.
func buildSiteOutput(site *model.Site, outputDir string) (int, error) {
	if err := renderSite(site, outputDir); err != nil {
		return 0, err
	}
	manifest, err := release.ReadManifest(outputDir)
	if err != nil {
		return 0, err
	}
	if err := release.WriteSEOArtifacts(site, outputDir, manifest); err != nil {
		return 0, err
	}
	return len(manifest.Routes), nil
}

func renderSite(site *model.Site, outputDir string) error {
	if err := renderer.Render(site, outputDir); err != nil {
		return err
	}
	return ogimage.WriteCards(site, outputDir)
}
