package ogimage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/foliokit/folioctl/pkg/model"
)

var accentTokenPattern = regexp.MustCompile(`--og-accent\s*:\s*([^;}]+)[;}]`)

// AccentFromTokens extracts the --og-accent custom property from tokens.css.
// Returns empty when the token is absent; Generate falls back to the neutral
// accent in that case.
func AccentFromTokens(tokensCSS string) string {
	m := accentTokenPattern.FindStringSubmatch(tokensCSS)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// WriteCards renders one preview card per section into outputDir/og/. The
// card set covers authored sections and case studies alike, matching the
// og:image URLs the entry pages carry.
func WriteCards(site *model.Site, outputDir string) error {
	if site == nil {
		return fmt.Errorf("site is nil")
	}
	accent := AccentFromTokens(site.Styles.TokensCSS)
	siteName := site.Website.Spec.Title

	dir := filepath.Join(outputDir, "og")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create og directory: %w", err)
	}

	write := func(id, title, description string) error {
		if title == "" {
			title = siteName
		}
		payload, err := Generate(Card{
			Title:       title,
			Description: description,
			SiteName:    siteName,
			AccentColor: accent,
		})
		if err != nil {
			return fmt.Errorf("generate card for %q: %w", id, err)
		}
		if err := os.WriteFile(filepath.Join(dir, id+".png"), payload, 0o644); err != nil {
			return fmt.Errorf("write card for %q: %w", id, err)
		}
		return nil
	}

	for _, section := range site.Sections {
		if err := write(section.Spec.ID, section.Spec.Title, section.Spec.Description); err != nil {
			return err
		}
	}
	for _, study := range site.CaseStudies {
		if err := write(study.SectionID(), study.Spec.Title, study.Spec.Description); err != nil {
			return err
		}
	}
	return nil
}
