package model

// Metadata is shared by resource documents.
type Metadata struct {
	Name string `yaml:"name"`
}

type NavItem struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

type RobotsGroup struct {
	UserAgents []string `yaml:"userAgents"`
	Allow      []string `yaml:"allow"`
	Disallow   []string `yaml:"disallow"`
}

type SiteRobots struct {
	Enabled bool          `yaml:"enabled"`
	Groups  []RobotsGroup `yaml:"groups"`
}

type SiteSitemap struct {
	Enabled bool `yaml:"enabled"`
}

type SiteSEO struct {
	PublicBaseURL string       `yaml:"publicBaseURL"`
	Robots        *SiteRobots  `yaml:"robots"`
	Sitemap       *SiteSitemap `yaml:"sitemap"`
}

type SiteSpec struct {
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	BasePath    string    `yaml:"basePath"`
	AccentColor string    `yaml:"accentColor"`
	AssetsPath  string    `yaml:"assetsPath"`
	Nav         []NavItem `yaml:"nav"`
	SEO         *SiteSEO  `yaml:"seo"`
}

type Website struct {
	APIVersion string   `yaml:"apiVersion"`
	Kind       string   `yaml:"kind"`
	Metadata   Metadata `yaml:"metadata"`
	Spec       SiteSpec `yaml:"spec"`
}

// ProjectCard is one tile in a section's project grid.
type ProjectCard struct {
	Slug    string   `yaml:"slug"`
	Title   string   `yaml:"title"`
	Summary string   `yaml:"summary"`
	Image   string   `yaml:"image"`
	Tags    []string `yaml:"tags"`
}

type SectionSpec struct {
	ID          string        `yaml:"id"`
	Route       string        `yaml:"route"`
	Title       string        `yaml:"title"`
	Description string        `yaml:"description"`
	NavLabel    string        `yaml:"navLabel"`
	Grid        []ProjectCard `yaml:"grid"`
	HTML        string        `yaml:"-"`
}

type Section struct {
	APIVersion string      `yaml:"apiVersion"`
	Kind       string      `yaml:"kind"`
	Metadata   Metadata    `yaml:"metadata"`
	Spec       SectionSpec `yaml:"spec"`
}

type CaseStudySpec struct {
	Slug        string `yaml:"slug"`
	Sub         string `yaml:"sub"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Body        string `yaml:"-"`
	BodyHTML    string `yaml:"-"`
}

type CaseStudy struct {
	APIVersion string        `yaml:"apiVersion"`
	Kind       string        `yaml:"kind"`
	Metadata   Metadata      `yaml:"metadata"`
	Spec       CaseStudySpec `yaml:"spec"`
}

// SectionID returns the section id a case study occupies in the shell:
// case-<slug>, or case-<slug>-<sub> for sub-pages.
func (c CaseStudy) SectionID() string {
	id := "case-" + c.Spec.Slug
	if c.Spec.Sub != "" {
		id += "-" + c.Spec.Sub
	}
	return id
}

// RoutePath returns the canonical path a case study is reachable under.
func (c CaseStudy) RoutePath() string {
	p := "/work/" + c.Spec.Slug
	if c.Spec.Sub != "" {
		p += "/" + c.Spec.Sub
	}
	return p
}

type Asset struct {
	Name string
	Path string
}

type StyleBundle struct {
	Name       string
	TokensCSS  string
	DefaultCSS string
}

type Site struct {
	RootDir     string
	Website     Website
	Sections    map[string]Section
	CaseStudies map[string]CaseStudy
	Styles      StyleBundle
	Assets      []Asset
}
