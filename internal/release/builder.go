// Package release builds immutable publishes of a portfolio site. A release
// is a fully rendered output tree under releases/<ulid>; activation is one
// atomic symlink flip, so rollback is pointing the symlink at an older id.
package release

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/foliokit/folioctl/internal/ogimage"
	"github.com/foliokit/folioctl/pkg/model"
	"github.com/foliokit/folioctl/pkg/renderer"
)

type Result struct {
	ID        string
	Dir       string
	PageCount int
}

// Build renders the site into a fresh release directory, adds the SEO
// artifacts, and activates it. The data directory layout is
// dataDir/releases/<id>/ plus the dataDir/current symlink.
func Build(site *model.Site, dataDir string, now time.Time) (Result, error) {
	if site == nil {
		return Result{}, fmt.Errorf("site is nil")
	}
	if dataDir == "" {
		return Result{}, fmt.Errorf("data directory is required")
	}

	id, err := NewReleaseID(now)
	if err != nil {
		return Result{}, err
	}
	releaseDir := filepath.Join(dataDir, "releases", id)

	if err := renderer.Render(site, releaseDir); err != nil {
		return Result{}, fmt.Errorf("render release %s: %w", id, err)
	}
	if err := ogimage.WriteCards(site, releaseDir); err != nil {
		return Result{}, fmt.Errorf("render preview cards for release %s: %w", id, err)
	}

	manifest, err := ReadManifest(releaseDir)
	if err != nil {
		return Result{}, err
	}
	if err := WriteSEOArtifacts(site, releaseDir, manifest); err != nil {
		return Result{}, err
	}

	if err := SwitchCurrentSymlink(dataDir, id); err != nil {
		return Result{}, err
	}

	return Result{ID: id, Dir: releaseDir, PageCount: len(manifest.Routes)}, nil
}

// WriteSEOArtifacts adds sitemap.xml and robots.txt next to a rendered
// output tree when the site configures them.
func WriteSEOArtifacts(site *model.Site, dir string, manifest renderer.Manifest) error {
	paths := make([]string, 0, len(manifest.Routes))
	for _, route := range manifest.Routes {
		paths = append(paths, route.Path)
	}

	seo := site.Website.Spec.SEO
	sitemap, err := GenerateSitemap(seo, manifest.BasePath, paths)
	if err != nil {
		return err
	}
	if sitemap != nil {
		if err := os.WriteFile(filepath.Join(dir, "sitemap.xml"), sitemap, 0o644); err != nil {
			return fmt.Errorf("write sitemap.xml: %w", err)
		}
	}

	sitemapURL, err := SitemapURL(seo, manifest.BasePath)
	if err != nil {
		return err
	}
	var robotsCfg *model.SiteRobots
	if seo != nil {
		robotsCfg = seo.Robots
	}
	if robots := GenerateRobotsText(robotsCfg, sitemapURL); robots != "" {
		if err := os.WriteFile(filepath.Join(dir, "robots.txt"), []byte(robots), 0o644); err != nil {
			return fmt.Errorf("write robots.txt: %w", err)
		}
	}
	return nil
}

// ReadManifest loads the route manifest from a rendered release directory.
func ReadManifest(releaseDir string) (renderer.Manifest, error) {
	raw, err := os.ReadFile(filepath.Join(releaseDir, renderer.ManifestName))
	if err != nil {
		return renderer.Manifest{}, fmt.Errorf("read route manifest: %w", err)
	}
	return ParseRouteManifest(raw)
}

// ParseRouteManifest decodes raw routes.json content.
func ParseRouteManifest(raw []byte) (renderer.Manifest, error) {
	var manifest renderer.Manifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return manifest, fmt.Errorf("parse route manifest: %w", err)
	}
	return manifest, nil
}
