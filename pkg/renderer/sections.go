package renderer

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/foliokit/folioctl/pkg/model"
	"github.com/foliokit/folioctl/pkg/router"
	"github.com/foliokit/folioctl/pkg/routes"
)

func basePrefix(site *model.Site) string {
	base := strings.TrimSpace(site.Website.Spec.BasePath)
	if base == "" || base == "/" {
		return ""
	}
	if !strings.HasPrefix(base, "/") {
		base = "/" + base
	}
	return strings.TrimSuffix(base, "/")
}

func buildRegistry(site *model.Site) *router.Registry {
	var entries []router.Section
	for _, section := range sortedSections(site) {
		entries = append(entries, router.Section{
			ID:          section.Spec.ID,
			Title:       section.Spec.Title,
			Description: section.Spec.Description,
		})
	}
	for _, study := range sortedCaseStudies(site) {
		entries = append(entries, router.Section{
			ID:          study.SectionID(),
			Title:       study.Spec.Title,
			Description: study.Spec.Description,
		})
	}
	return router.NewRegistry(entries...)
}

func staticRoutes(site *model.Site) []routes.Route {
	var out []routes.Route
	for _, section := range sortedSections(site) {
		out = append(out, routes.Route{Path: section.Spec.Route, SectionID: section.Spec.ID})
	}
	return out
}

var projectGridTemplate = template.Must(template.New("project-grid").Parse(`<div class="project-grid">
{{- range .Cards }}
  <a class="project-card" href="{{.Href}}">
{{- if .ImageSrc }}
    <img src="{{.ImageSrc}}" alt="{{.Title}}" loading="lazy">
{{- end }}
    <h3>{{.Title}}</h3>
{{- if .Summary }}
    <p>{{.Summary}}</p>
{{- end }}
{{- if .Tags }}
    <ul class="tags">
{{- range .Tags }}
      <li>{{.}}</li>
{{- end }}
    </ul>
{{- end }}
  </a>
{{- end }}
</div>
`))

type projectCardData struct {
	Href     string
	ImageSrc string
	Title    string
	Summary  string
	Tags     []string
}

type projectGridData struct {
	Cards []projectCardData
}

func renderProjectGrid(cards []model.ProjectCard, table *routes.Table, assetMap map[string]string) (string, error) {
	data := projectGridData{}
	for _, card := range cards {
		href := table.WithBase("/work/" + card.Slug)
		imageSrc := ""
		if card.Image != "" {
			key := "assets/" + strings.TrimPrefix(card.Image, "/")
			if hashed, ok := assetMap[key]; ok {
				imageSrc = table.WithBase(hashed)
			} else {
				imageSrc = table.WithBase("/" + key)
			}
		}
		data.Cards = append(data.Cards, projectCardData{
			Href:     href,
			ImageSrc: imageSrc,
			Title:    card.Title,
			Summary:  card.Summary,
			Tags:     append([]string(nil), card.Tags...),
		})
	}

	var buf bytes.Buffer
	if err := projectGridTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render project grid: %w", err)
	}
	return buf.String(), nil
}

var caseStudyTemplate = template.Must(template.New("case-study").Parse(`<article id="{{.ID}}">
  <h1>{{.Title}}</h1>
  <p><a href="{{.BackHref}}" data-router-back>Back to selected work</a></p>
{{.Body}}</article>
`))

type caseStudyData struct {
	ID       string
	Title    string
	BackHref string
	Body     template.HTML
}

func renderCaseStudyMarkup(study model.CaseStudy, table *routes.Table) (string, error) {
	title := study.Spec.Title
	if title == "" {
		title = study.Spec.Slug
	}
	var buf bytes.Buffer
	err := caseStudyTemplate.Execute(&buf, caseStudyData{
		ID:       study.SectionID(),
		Title:    title,
		BackHref: table.WithBase("/work"),
		// BodyHTML is goldmark output; raw HTML in the source markdown is
		// already dropped there.
		Body: template.HTML(study.Spec.BodyHTML),
	})
	if err != nil {
		return "", fmt.Errorf("render case study %q: %w", study.Metadata.Name, err)
	}
	return buf.String(), nil
}

// assembleSections builds the full ordered section list for the shell:
// authored sections first (by route), then generated case-study sections.
func assembleSections(site *model.Site, table *routes.Table, assetMap map[string]string) ([]sectionData, error) {
	var out []sectionData

	for _, section := range sortedSections(site) {
		markup := strings.TrimRight(normalizeLF(section.Spec.HTML), "\n") + "\n"
		if len(section.Spec.Grid) > 0 {
			grid, err := renderProjectGrid(section.Spec.Grid, table, assetMap)
			if err != nil {
				return nil, fmt.Errorf("section %q: %w", section.Metadata.Name, err)
			}
			markup += grid
		}
		out = append(out, sectionData{ID: section.Spec.ID, HTML: template.HTML(markup)})
	}

	for _, study := range sortedCaseStudies(site) {
		markup, err := renderCaseStudyMarkup(study, table)
		if err != nil {
			return nil, err
		}
		out = append(out, sectionData{ID: study.SectionID(), HTML: template.HTML(markup)})
	}

	return out, nil
}
