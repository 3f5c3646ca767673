package release

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/foliokit/folioctl/internal/domain"
	"github.com/foliokit/folioctl/pkg/model"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc string `xml:"loc"`
}

// GenerateSitemap builds sitemap.xml from the canonical route list. Returns
// nil when the site has no sitemap configured, which callers treat as "write
// nothing".
func GenerateSitemap(seo *model.SiteSEO, basePath string, paths []string) ([]byte, error) {
	if seo == nil || seo.Sitemap == nil || !seo.Sitemap.Enabled {
		return nil, nil
	}

	baseURL, err := parsePublicBaseURL(seo.PublicBaseURL)
	if err != nil {
		return nil, err
	}

	locs := make([]string, 0, len(paths))
	for _, p := range paths {
		locs = append(locs, deriveSitemapURL(baseURL, basePath, p))
	}
	sort.Strings(locs)

	urls := make([]sitemapURL, 0, len(locs))
	for _, loc := range locs {
		urls = append(urls, sitemapURL{Loc: loc})
	}

	payload, err := xml.MarshalIndent(sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal sitemap xml: %w", err)
	}
	out := append([]byte(xml.Header), payload...)
	out = append(out, '\n')
	return out, nil
}

// SitemapURL returns the absolute URL robots.txt should advertise, or empty
// when no sitemap is configured.
func SitemapURL(seo *model.SiteSEO, basePath string) (string, error) {
	if seo == nil || seo.Sitemap == nil || !seo.Sitemap.Enabled {
		return "", nil
	}
	baseURL, err := parsePublicBaseURL(seo.PublicBaseURL)
	if err != nil {
		return "", err
	}
	derived := *baseURL
	derived.Path = strings.TrimRight(derived.Path, "/") + basePath + "/sitemap.xml"
	return derived.String(), nil
}

func parsePublicBaseURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("publicBaseURL is required when sitemap is enabled")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse publicBaseURL %q: %w", raw, err)
	}
	if !parsed.IsAbs() || parsed.Host == "" {
		return nil, fmt.Errorf("publicBaseURL %q must be an absolute http(s) URL", raw)
	}
	if _, err := domain.Normalize(parsed.Hostname()); err != nil {
		return nil, fmt.Errorf("publicBaseURL %q: %w", raw, err)
	}
	return parsed, nil
}

func deriveSitemapURL(baseURL *url.URL, basePath, route string) string {
	derived := *baseURL
	prefix := strings.TrimRight(derived.Path, "/") + basePath
	if route == "/" {
		derived.Path = prefix + "/"
		return derived.String()
	}
	derived.Path = prefix + route
	return derived.String()
}
