package renderer

import (
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/foliokit/folioctl/pkg/model"
	"github.com/foliokit/folioctl/pkg/router"
	"github.com/foliokit/folioctl/pkg/routes"
)

// ManifestName is the machine-readable route manifest written next to the
// rendered pages. The serving daemon reads it to resolve deep links without
// re-parsing the site source.
const ManifestName = "routes.json"

// Manifest describes the rendered output to the serving daemon.
type Manifest struct {
	BasePath    string          `json:"basePath"`
	DefaultPath string          `json:"defaultPath"`
	Routes      []ManifestRoute `json:"routes"`
}

type ManifestRoute struct {
	Path      string `json:"path"`
	SectionID string `json:"sectionId"`
	File      string `json:"file"`
}

// Render writes the complete static output for a site: one entry page per
// route, content-addressed styles and assets, the router script, the 404
// deep-link handoff, and the route manifest. Output is deterministic: the
// same site input produces byte-identical output.
//
// Every entry page is the full shell with the route's section pre-marked
// visible. The visible section, document metadata, and active-nav state come
// from driving the navigation controller against an in-memory document, so
// the static output and the client router agree by construction.
func Render(site *model.Site, outputDir string) error {
	if site == nil {
		return fmt.Errorf("site is nil")
	}
	if outputDir == "" {
		return fmt.Errorf("output directory is required")
	}

	if err := os.RemoveAll(outputDir); err != nil {
		return fmt.Errorf("clean output directory %s: %w", outputDir, err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", outputDir, err)
	}

	statics, err := renderStatics(site, outputDir)
	if err != nil {
		return err
	}

	base := basePrefix(site)
	registry := buildRegistry(site)
	table := routes.New(base, staticRoutes(site), registry)

	configJSON, err := buildBootstrapConfig(site, table)
	if err != nil {
		return err
	}

	sections, err := assembleSections(site, table, statics.AssetMap)
	if err != nil {
		return err
	}

	navItems := site.Website.Spec.Nav
	navHrefs := make([]string, len(navItems))
	for i, item := range navItems {
		navHrefs[i] = navHref(item.Href, table)
	}

	manifest := Manifest{BasePath: base, DefaultPath: routes.DefaultPath}

	for _, path := range entryPaths(site, table) {
		page, visibleID, err := snapshotEntry(site, table, registry, navItems, navHrefs, path)
		if err != nil {
			return err
		}
		page.StyleHrefs = []string{
			table.WithBase(statics.TokensHref),
			table.WithBase(statics.DefaultHref),
		}
		page.Sections = markActive(sections, visibleID)
		page.ConfigJSON = template.HTML(configJSON)
		page.ScriptSrc = table.WithBase(statics.ScriptSrc)

		htmlBytes, err := renderShell(page)
		if err != nil {
			return fmt.Errorf("render entry page %q: %w", path, err)
		}

		outputRel := routeToOutputPath(path)
		if err := writeFileAtomic(filepath.Join(outputDir, filepath.FromSlash(outputRel)), htmlBytes); err != nil {
			return fmt.Errorf("write entry page %q: %w", path, err)
		}

		manifest.Routes = append(manifest.Routes, ManifestRoute{
			Path:      path,
			SectionID: visibleID,
			File:      outputRel,
		})
	}

	notFound, err := renderNotFound(site.Website.Spec.Title, base)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(filepath.Join(outputDir, "404.html"), notFound); err != nil {
		return fmt.Errorf("write 404.html: %w", err)
	}

	manifestBytes, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal route manifest: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(outputDir, ManifestName), append(manifestBytes, '\n')); err != nil {
		return fmt.Errorf("write route manifest: %w", err)
	}

	return nil
}

// entryPaths enumerates every canonical route that gets its own entry page,
// sorted for deterministic output.
func entryPaths(site *model.Site, table *routes.Table) []string {
	seen := map[string]bool{}
	var out []string
	add := func(p string) {
		p = table.Normalize(p)
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		out = append(out, p)
	}

	for _, section := range sortedSections(site) {
		add(section.Spec.Route)
	}
	for _, study := range sortedCaseStudies(site) {
		add(study.RoutePath())
	}

	sort.Strings(out)
	return out
}

// snapshotEntry drives one navigation to the entry path against an in-memory
// document and captures the resulting shell state.
func snapshotEntry(site *model.Site, table *routes.Table, registry *router.Registry, navItems []model.NavItem, navHrefs []string, path string) (shellData, string, error) {
	doc := router.NewMemoryDocument(registry, navHrefs)
	hist := router.NewMemoryHistory()

	cfg := router.Config{
		Routes:   table,
		Registry: registry,
		Document: doc,
		History:  hist,
	}
	if site.Website.Spec.SEO != nil {
		cfg.CanonicalBase = site.Website.Spec.SEO.PublicBaseURL
	}
	ctrl, err := router.New(cfg)
	if err != nil {
		return shellData{}, "", fmt.Errorf("build navigation controller: %w", err)
	}

	ctrl.InitialShow(path, "")

	visibleID, ok := doc.Visible()
	if !ok {
		return shellData{}, "", fmt.Errorf("entry path %q resolved to no section", path)
	}

	title := doc.Title()
	if title == "" {
		title = site.Website.Spec.Title
	}
	description := doc.Description()
	if description == "" {
		description = site.Website.Spec.Description
	}

	ogType := "website"
	if strings.HasPrefix(visibleID, "case-") {
		ogType = "article"
	}
	meta, err := renderHeadMeta(headMeta{
		Canonical:   doc.Canonical(),
		SiteName:    site.Website.Spec.Title,
		Title:       title,
		Description: description,
		OGType:      ogType,
		ImageURL:    ogImageURL(site, table, visibleID),
	})
	if err != nil {
		return shellData{}, "", fmt.Errorf("render head meta for %q: %w", path, err)
	}

	page := shellData{
		Title:       title,
		Description: description,
		HeadMeta:    meta,
	}
	for i, link := range doc.NavLinks() {
		label := ""
		if i < len(navItems) {
			label = navItems[i].Label
		}
		page.Nav = append(page.Nav, navLinkData{Href: link.Href, Label: label, Active: link.Active})
	}

	return page, visibleID, nil
}

func markActive(sections []sectionData, visibleID string) []sectionData {
	out := make([]sectionData, len(sections))
	copy(out, sections)
	for i := range out {
		out[i].Active = out[i].ID == visibleID
	}
	return out
}

// navHref converts an authored nav href to the emitted anchor href. In-site
// paths get the base prefix; hash links pass through untouched.
func navHref(href string, table *routes.Table) string {
	if strings.HasPrefix(href, "#") {
		return href
	}
	return table.WithBase(table.Normalize(href))
}

// ogImageURL returns the absolute social-card image URL for a section, or
// empty when the site has no public base URL to anchor absolute URLs on.
func ogImageURL(site *model.Site, table *routes.Table, sectionID string) string {
	seo := site.Website.Spec.SEO
	if seo == nil || strings.TrimSpace(seo.PublicBaseURL) == "" {
		return ""
	}
	base := strings.TrimSuffix(seo.PublicBaseURL, "/")
	return base + table.WithBase("/og/"+sectionID+".png")
}

func routeToOutputPath(route string) string {
	if route == "/" {
		return "index.html"
	}
	return strings.TrimPrefix(route, "/") + "/index.html"
}
