package release

import (
	"strings"

	"github.com/foliokit/folioctl/pkg/model"
)

// GenerateRobotsText renders robots.txt. A site with robots enabled but no
// groups gets the allow-everything default; empty output means "write
// nothing".
func GenerateRobotsText(robots *model.SiteRobots, sitemapURL string) string {
	if robots == nil || !robots.Enabled {
		return ""
	}

	groups := robots.Groups
	if len(groups) == 0 {
		groups = []model.RobotsGroup{{
			UserAgents: []string{"*"},
			Allow:      []string{"/"},
		}}
	}

	lines := make([]string, 0, 8)
	for groupIndex, group := range groups {
		if groupIndex > 0 {
			lines = append(lines, "")
		}
		for _, userAgent := range group.UserAgents {
			lines = append(lines, "User-agent: "+userAgent)
		}
		for _, allow := range group.Allow {
			lines = append(lines, "Allow: "+allow)
		}
		for _, disallow := range group.Disallow {
			lines = append(lines, "Disallow: "+disallow)
		}
	}
	if strings.TrimSpace(sitemapURL) != "" {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, "Sitemap: "+sitemapURL)
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
