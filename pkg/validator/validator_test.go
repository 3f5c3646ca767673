package validator

import (
	"strings"
	"testing"

	"github.com/foliokit/folioctl/pkg/model"
)

func section(id, markup string) *model.Section {
	return &model.Section{
		Metadata: model.Metadata{Name: id},
		Spec:     model.SectionSpec{ID: id, HTML: markup},
	}
}

func TestValidateSection(t *testing.T) {
	tests := []struct {
		name     string
		section  *model.Section
		wantRule string
	}{
		{
			name:    "valid section",
			section: section("intro", `<section id="intro"><h1>Jane Doe</h1></section>`),
		},
		{
			name:    "valid article root",
			section: section("case-portfolio", `<article id="case-portfolio"><p>Case study.</p></article>`),
		},
		{
			name:     "missing root",
			section:  section("intro", "   "),
			wantRule: "single-root",
		},
		{
			name:     "multiple roots",
			section:  section("intro", `<section id="intro"></section><div></div>`),
			wantRule: "single-root",
		},
		{
			name:     "root level text",
			section:  section("intro", `hello <section id="intro"></section>`),
			wantRule: "single-root",
		},
		{
			name:     "disallowed root tag",
			section:  section("intro", `<span id="intro">hi</span>`),
			wantRule: "root-tag-allowlist",
		},
		{
			name:     "missing anchor id",
			section:  section("intro", `<section><h1>Jane</h1></section>`),
			wantRule: "anchor-id",
		},
		{
			name:     "anchor id mismatch",
			section:  section("intro", `<section id="hero"><h1>Jane</h1></section>`),
			wantRule: "anchor-id",
		},
		{
			name:     "script tag",
			section:  section("intro", `<section id="intro"><script>alert(1)</script></section>`),
			wantRule: "script-disallow",
		},
		{
			name:     "nested script tag",
			section:  section("intro", `<section id="intro"><div><p><script src="x.js"></script></p></div></section>`),
			wantRule: "script-disallow",
		},
		{
			name:     "inline event handler",
			section:  section("intro", `<section id="intro"><a href="/work" onclick="steal()">Work</a></section>`),
			wantRule: "event-handler-disallow",
		},
		{
			name:     "inline onmouseover",
			section:  section("intro", `<section id="intro" onmouseover="x()"></section>`),
			wantRule: "event-handler-disallow",
		},
		{
			name:     "nil section",
			section:  nil,
			wantRule: "section-present",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			errs := ValidateSection(tc.section)
			if tc.wantRule == "" {
				if len(errs) != 0 {
					t.Fatalf("ValidateSection() = %v, want no errors", errs)
				}
				return
			}
			if !hasRule(errs, tc.wantRule) {
				t.Fatalf("ValidateSection() = %v, want rule %q", errs, tc.wantRule)
			}
		})
	}
}

func TestValidateSectionWithConfigCustomAllowlist(t *testing.T) {
	cfg := Config{AllowedRootTags: []string{"aside"}, ExpectedAnchorID: "intro"}

	errs := ValidateSectionWithConfig(section("intro", `<aside id="intro"></aside>`), cfg)
	if len(errs) != 0 {
		t.Fatalf("ValidateSectionWithConfig() = %v, want no errors", errs)
	}

	errs = ValidateSectionWithConfig(section("intro", `<section id="intro"></section>`), cfg)
	if !hasRule(errs, "root-tag-allowlist") {
		t.Fatalf("ValidateSectionWithConfig() = %v, want root-tag-allowlist", errs)
	}
}

func TestValidateAllSectionsOrdersBySectionName(t *testing.T) {
	site := &model.Site{
		Sections: map[string]model.Section{
			"work":  {Metadata: model.Metadata{Name: "work"}, Spec: model.SectionSpec{ID: "work", HTML: `<section></section>`}},
			"intro": {Metadata: model.Metadata{Name: "intro"}, Spec: model.SectionSpec{ID: "intro", HTML: `<span id="intro"></span>`}},
		},
	}

	errs := ValidateAllSections(site)
	if len(errs) != 2 {
		t.Fatalf("ValidateAllSections() = %v, want 2 errors", errs)
	}
	if errs[0].Section != "intro" || errs[1].Section != "work" {
		t.Fatalf("errors not ordered by section name: %v", errs)
	}
}

func TestFormatErrors(t *testing.T) {
	if got := FormatErrors(nil); got != "" {
		t.Fatalf("FormatErrors(nil) = %q, want empty", got)
	}

	errs := ValidateSection(section("intro", `<span id="intro"></span>`))
	out := FormatErrors(errs)
	if !strings.Contains(out, "root-tag-allowlist") || !strings.Contains(out, `section "intro"`) {
		t.Fatalf("FormatErrors() = %q", out)
	}
}

func hasRule(errs []ValidationError, rule string) bool {
	for _, err := range errs {
		if err.Rule == rule {
			return true
		}
	}
	return false
}
