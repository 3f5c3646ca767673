package renderer

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

var (
	canonicalTagTemplate = template.Must(template.New("canonical-tag").Parse(`  <link rel="canonical" href="{{.URL}}">` + "\n"))
	propMetaTagTemplate  = template.Must(template.New("prop-meta-tag").Parse(`  <meta property="{{.Property}}" content="{{.Content}}">` + "\n"))
)

type canonicalTagData struct {
	URL string
}

type propertyMetaTagData struct {
	Property string
	Content  string
}

type headMeta struct {
	Canonical   string
	SiteName    string
	Title       string
	Description string
	OGType      string
	ImageURL    string
}

func renderHeadMeta(head headMeta) (template.HTML, error) {
	var buf bytes.Buffer

	if canonical := strings.TrimSpace(head.Canonical); canonical != "" {
		if err := canonicalTagTemplate.Execute(&buf, canonicalTagData{URL: canonical}); err != nil {
			return "", fmt.Errorf("render canonical tag: %w", err)
		}
	}

	openGraphProperties := []propertyMetaTagData{
		{Property: "og:type", Content: head.OGType},
		{Property: "og:url", Content: head.Canonical},
		{Property: "og:site_name", Content: head.SiteName},
		{Property: "og:title", Content: head.Title},
		{Property: "og:description", Content: head.Description},
		{Property: "og:image", Content: head.ImageURL},
	}
	for _, property := range openGraphProperties {
		if strings.TrimSpace(property.Content) == "" {
			continue
		}
		if err := propMetaTagTemplate.Execute(&buf, property); err != nil {
			return "", fmt.Errorf("render open graph tag %q: %w", property.Property, err)
		}
	}

	return template.HTML(buf.String()), nil
}
