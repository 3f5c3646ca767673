package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/foliokit/folioctl/pkg/model"
)

const (
	SeverityError = "error"
)

type ValidationError struct {
	Section  string
	Rule     string
	Severity string
	Message  string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] section %q (%s): %s", e.Severity, e.Section, e.Rule, e.Message)
}

// ValidateSection validates a single section's markup with the default rule
// set, anchored to the section's declared id.
func ValidateSection(section *model.Section) []ValidationError {
	if section == nil {
		return []ValidationError{{
			Rule:     "section-present",
			Severity: SeverityError,
			Message:  "section is nil",
		}}
	}
	cfg := DefaultConfig()
	cfg.ExpectedAnchorID = section.Spec.ID
	return ValidateSectionWithConfig(section, cfg)
}

// ValidateSectionWithConfig validates a single section with configurable
// rules.
func ValidateSectionWithConfig(section *model.Section, cfg Config) []ValidationError {
	if section == nil {
		return []ValidationError{{
			Rule:     "section-present",
			Severity: SeverityError,
			Message:  "section is nil",
		}}
	}
	allowlist := normalizedAllowlist(cfg.AllowedRootTags)
	return validateParsedFragment(*section, allowlist, cfg.ExpectedAnchorID)
}

// ValidateAllSections validates every section in the site and returns all
// diagnostics, ordered by section name.
func ValidateAllSections(site *model.Site) []ValidationError {
	if site == nil {
		return []ValidationError{{
			Rule:     "site-present",
			Severity: SeverityError,
			Message:  "site is nil",
		}}
	}

	names := make([]string, 0, len(site.Sections))
	for name := range site.Sections {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []ValidationError
	for _, name := range names {
		section := site.Sections[name]
		out = append(out, ValidateSection(&section)...)
	}

	return out
}

func FormatErrors(errs []ValidationError) string {
	if len(errs) == 0 {
		return ""
	}
	lines := make([]string, 0, len(errs))
	for _, err := range errs {
		lines = append(lines, err.Error())
	}
	return strings.Join(lines, "\n")
}

func normalizedAllowlist(tags []string) map[string]struct{} {
	if len(tags) == 0 {
		tags = DefaultConfig().AllowedRootTags
	}
	out := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			out[tag] = struct{}{}
		}
	}
	if len(out) == 0 {
		for _, tag := range DefaultConfig().AllowedRootTags {
			out[tag] = struct{}{}
		}
	}
	return out
}
