package model

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestWebsiteYAMLDeserialization(t *testing.T) {
	input := []byte(`apiVersion: folio.dev/v1
kind: Website
metadata:
  name: janedoe
spec:
  title: Jane Doe
  description: Selected work and contact details.
  basePath: ""
  accentColor: "#6366f1"
  assetsPath: /assets/
  nav:
    - label: Home
      href: /
    - label: Work
      href: /work
  seo:
    publicBaseURL: https://janedoe.dev
    sitemap:
      enabled: true
    robots:
      enabled: true
      groups:
        - userAgents:
            - "*"
          allow:
            - /
          disallow:
            - /drafts/
`)

	var website Website
	if err := yaml.Unmarshal(input, &website); err != nil {
		t.Fatalf("unmarshal website: %v", err)
	}

	if website.Metadata.Name != "janedoe" {
		t.Fatalf("unexpected website name: %q", website.Metadata.Name)
	}
	if website.Spec.Title != "Jane Doe" {
		t.Fatalf("unexpected title: %q", website.Spec.Title)
	}
	if website.Spec.AccentColor != "#6366f1" {
		t.Fatalf("unexpected accent color: %q", website.Spec.AccentColor)
	}
	if len(website.Spec.Nav) != 2 || website.Spec.Nav[1].Href != "/work" {
		t.Fatalf("unexpected nav: %#v", website.Spec.Nav)
	}
	if website.Spec.SEO == nil || website.Spec.SEO.Sitemap == nil || !website.Spec.SEO.Sitemap.Enabled {
		t.Fatalf("expected sitemap config to be parsed")
	}
	if website.Spec.SEO.PublicBaseURL != "https://janedoe.dev" {
		t.Fatalf("unexpected publicBaseURL: %q", website.Spec.SEO.PublicBaseURL)
	}
	if website.Spec.SEO.Robots == nil || !website.Spec.SEO.Robots.Enabled {
		t.Fatalf("expected robots enabled to be parsed")
	}
	if got := website.Spec.SEO.Robots.Groups[0].Disallow; len(got) != 1 || got[0] != "/drafts/" {
		t.Fatalf("unexpected robots disallow rules: %#v", got)
	}
}

func TestSectionYAMLDeserialization(t *testing.T) {
	input := []byte(`apiVersion: folio.dev/v1
kind: Section
metadata:
  name: work
spec:
  id: work
  route: /work
  title: Work
  navLabel: Work
  grid:
    - slug: portfolio
      title: Portfolio Site
      summary: Static portfolio with client-side routing.
      image: /assets/images/portfolio.webp
      tags: [go, web]
`)

	var section Section
	if err := yaml.Unmarshal(input, &section); err != nil {
		t.Fatalf("unmarshal section: %v", err)
	}

	if section.Spec.ID != "work" || section.Spec.Route != "/work" {
		t.Fatalf("unexpected section spec: %#v", section.Spec)
	}
	if len(section.Spec.Grid) != 1 {
		t.Fatalf("expected 1 grid card, got %d", len(section.Spec.Grid))
	}
	card := section.Spec.Grid[0]
	if card.Slug != "portfolio" || len(card.Tags) != 2 {
		t.Fatalf("unexpected grid card: %#v", card)
	}
}

func TestCaseStudySectionIDAndRoutePath(t *testing.T) {
	tests := []struct {
		slug      string
		sub       string
		wantID    string
		wantRoute string
	}{
		{slug: "portfolio", wantID: "case-portfolio", wantRoute: "/work/portfolio"},
		{slug: "portfolio", sub: "design", wantID: "case-portfolio-design", wantRoute: "/work/portfolio/design"},
	}
	for _, tc := range tests {
		cs := CaseStudy{Spec: CaseStudySpec{Slug: tc.slug, Sub: tc.sub}}
		if got := cs.SectionID(); got != tc.wantID {
			t.Errorf("SectionID(%q, %q) = %q, want %q", tc.slug, tc.sub, got, tc.wantID)
		}
		if got := cs.RoutePath(); got != tc.wantRoute {
			t.Errorf("RoutePath(%q, %q) = %q, want %q", tc.slug, tc.sub, got, tc.wantRoute)
		}
	}
}
