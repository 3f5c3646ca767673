package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadSiteValidSite(t *testing.T) {
	site, err := LoadSite(filepath.Join("..", "..", "testdata", "valid-site"))
	if err != nil {
		t.Fatalf("LoadSite() error = %v", err)
	}

	if site.Website.Metadata.Name != "janedoe" {
		t.Fatalf("unexpected website name: %q", site.Website.Metadata.Name)
	}
	if len(site.Website.Spec.Nav) != 4 {
		t.Fatalf("unexpected nav: %#v", site.Website.Spec.Nav)
	}

	intro, ok := site.Sections["intro"]
	if !ok {
		t.Fatalf("expected section 'intro' to be present")
	}
	if intro.Spec.Route != "/" {
		t.Fatalf("unexpected normalized route: %q", intro.Spec.Route)
	}
	if !strings.Contains(intro.Spec.HTML, "<h1>Jane Doe</h1>") {
		t.Fatalf("section markup not loaded")
	}

	work, ok := site.Sections["work"]
	if !ok {
		t.Fatalf("expected section 'work' to be present")
	}
	if len(work.Spec.Grid) != 2 || work.Spec.Grid[0].Slug != "portfolio" {
		t.Fatalf("unexpected project grid: %#v", work.Spec.Grid)
	}

	study, ok := site.CaseStudies["portfolio"]
	if !ok {
		t.Fatalf("expected case study 'portfolio' to be present")
	}
	if study.SectionID() != "case-portfolio" {
		t.Fatalf("unexpected case section id: %q", study.SectionID())
	}
	if !strings.Contains(study.Spec.BodyHTML, "<h1") {
		t.Fatalf("markdown body not rendered: %q", study.Spec.BodyHTML)
	}

	sub, ok := site.CaseStudies["portfolio-design"]
	if !ok {
		t.Fatalf("expected case study 'portfolio-design' to be present")
	}
	if sub.RoutePath() != "/work/portfolio/design" {
		t.Fatalf("unexpected case route: %q", sub.RoutePath())
	}

	if !strings.Contains(site.Styles.TokensCSS, "--og-accent") {
		t.Fatalf("tokens.css not loaded")
	}
	if len(site.Assets) != 1 || site.Assets[0].Path != "images/portfolio.webp" {
		t.Fatalf("unexpected assets: %#v", site.Assets)
	}
}

func TestLoadSiteMissingWebsiteYAML(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadSite(dir); err == nil || !strings.Contains(err.Error(), "website.yaml") {
		t.Fatalf("expected missing website.yaml error, got %v", err)
	}
}

func TestLoadSiteMissingSectionMarkup(t *testing.T) {
	dir := copyValidSite(t)
	if err := os.Remove(filepath.Join(dir, "sections", "about.html")); err != nil {
		t.Fatalf("remove: %v", err)
	}

	_, err := LoadSite(dir)
	if err == nil || !strings.Contains(err.Error(), "missing its markup file") {
		t.Fatalf("expected missing markup error, got %v", err)
	}
}

func TestLoadSiteCaseStudyWithoutBody(t *testing.T) {
	dir := copyValidSite(t)
	if err := os.Remove(filepath.Join(dir, "work", "portfolio-design.md")); err != nil {
		t.Fatalf("remove: %v", err)
	}

	site, err := LoadSite(dir)
	if err != nil {
		t.Fatalf("LoadSite() error = %v", err)
	}
	if got := site.CaseStudies["portfolio-design"].Spec.BodyHTML; got != "" {
		t.Fatalf("expected empty body, got %q", got)
	}
}

func copyValidSite(t *testing.T) string {
	t.Helper()
	src := filepath.Join("..", "..", "testdata", "valid-site")
	dst := t.TempDir()
	err := filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, content, 0o644)
	})
	if err != nil {
		t.Fatalf("copy fixture: %v", err)
	}
	return dst
}
