package names

import (
	"fmt"
	"regexp"
)

const MaxNameLength = 128

// Slugs double as DOM ids and URL segments, so the charset is the
// intersection of both: lowercase alphanumerics and hyphens.
var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

func ValidateSlug(slug string) error {
	if slug == "" {
		return fmt.Errorf("slug is required")
	}
	if len(slug) > MaxNameLength {
		return fmt.Errorf("slug must be at most %d characters", MaxNameLength)
	}
	if !slugPattern.MatchString(slug) {
		return fmt.Errorf("slug must match %q", slugPattern.String())
	}
	return nil
}

// ValidateSectionID applies the same rules as slugs; section ids are anchor
// targets and must be stable, URL-safe identifiers.
func ValidateSectionID(id string) error {
	if id == "" {
		return fmt.Errorf("section id is required")
	}
	if len(id) > MaxNameLength {
		return fmt.Errorf("section id must be at most %d characters", MaxNameLength)
	}
	if !slugPattern.MatchString(id) {
		return fmt.Errorf("section id must match %q", slugPattern.String())
	}
	return nil
}
