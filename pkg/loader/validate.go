package loader

import (
	"fmt"
	"strings"

	"github.com/foliokit/folioctl/internal/names"
	"github.com/foliokit/folioctl/pkg/model"
)

// ValidateSite validates cross-resource relationships required for safe
// rendering and routing.
func ValidateSite(site *model.Site) error {
	if site == nil {
		return fmt.Errorf("site is nil")
	}
	if site.Website.Metadata.Name == "" {
		return fmt.Errorf("website metadata.name is required")
	}
	if strings.TrimSpace(site.Website.Spec.Title) == "" {
		return fmt.Errorf("website spec.title is required")
	}
	if err := validateBasePath(site.Website.Spec.BasePath); err != nil {
		return err
	}
	if len(site.Sections) == 0 {
		return fmt.Errorf("at least one section is required")
	}

	ids := make(map[string]string, len(site.Sections)+len(site.CaseStudies))
	routes := make(map[string]string, len(site.Sections))

	for name, section := range site.Sections {
		id := section.Spec.ID
		if err := names.ValidateSectionID(id); err != nil {
			return fmt.Errorf("section %q: %w", name, err)
		}
		if strings.HasPrefix(id, "case-") {
			return fmt.Errorf("section %q: id %q uses the case- prefix reserved for case studies", name, id)
		}
		if owner, exists := ids[id]; exists {
			return fmt.Errorf("duplicate section id %q in %q and %q", id, owner, name)
		}
		ids[id] = name

		if section.Spec.Route != "" {
			route := NormalizeRoute(section.Spec.Route)
			if owner, exists := routes[route]; exists {
				return fmt.Errorf("duplicate route %q in sections %q and %q", route, owner, name)
			}
			routes[route] = name
			section.Spec.Route = route
			site.Sections[name] = section
		}
	}

	for name, study := range site.CaseStudies {
		if err := names.ValidateSlug(study.Spec.Slug); err != nil {
			return fmt.Errorf("case study %q: %w", name, err)
		}
		if study.Spec.Sub != "" {
			if err := names.ValidateSlug(study.Spec.Sub); err != nil {
				return fmt.Errorf("case study %q sub: %w", name, err)
			}
		}
		id := study.SectionID()
		if owner, exists := ids[id]; exists {
			return fmt.Errorf("case study %q: section id %q already taken by %q", name, id, owner)
		}
		ids[id] = name
	}

	for i, item := range site.Website.Spec.Nav {
		href := strings.TrimSpace(item.Href)
		if href == "" {
			return fmt.Errorf("nav[%d] has an empty href", i)
		}
		if !strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "#") {
			return fmt.Errorf("nav[%d] href %q must be an in-site path or hash", i, href)
		}
		if strings.TrimSpace(item.Label) == "" {
			return fmt.Errorf("nav[%d] (%s) has an empty label", i, href)
		}
	}

	return nil
}

func validateBasePath(basePath string) error {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" || basePath == "/" {
		return nil
	}
	if !strings.HasPrefix(basePath, "/") {
		return fmt.Errorf("basePath %q must start with /", basePath)
	}
	if strings.Contains(basePath, "//") {
		return fmt.Errorf("basePath %q must not contain empty segments", basePath)
	}
	return nil
}

// NormalizeRoute normalizes routes to a deterministic representation.
func NormalizeRoute(route string) string {
	route = strings.TrimSpace(route)
	if route == "" {
		return ""
	}

	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	if len(route) > 1 {
		route = strings.TrimRight(route, "/")
	}

	return route
}
