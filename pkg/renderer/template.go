package renderer

import (
	"bytes"
	"fmt"
	"html/template"
)

type navLinkData struct {
	Href   string
	Label  string
	Active bool
}

type sectionData struct {
	ID     string
	Active bool
	HTML   template.HTML
}

type shellData struct {
	Title       string
	Description string
	HeadMeta    template.HTML
	StyleHrefs  []string
	Nav         []navLinkData
	Sections    []sectionData
	ConfigJSON  template.HTML
	ScriptSrc   string
}

// shellTemplate is the single-page shell. Every section is present in every
// entry page; only the entry route's section carries the visible marker, so
// the page is complete without JS and the router only has to flip markers.
const shellTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <meta name="description" content="{{.Description}}">
{{.HeadMeta}}{{- range .StyleHrefs }}
  <link rel="stylesheet" href="{{.}}">
{{- end }}
</head>
<body>
  <header>
    <nav>
{{- range .Nav }}
      <a href="{{.Href}}"{{if .Active}} class="is-active" aria-current="page"{{end}}>{{.Label}}</a>
{{- end }}
    </nav>
  </header>
  <main>
{{- range .Sections }}
    <div class="section{{if .Active}} visible{{end}}" data-section="{{.ID}}">
{{.HTML}}    </div>
{{- end }}
  </main>
  <script id="folio-config" type="application/json">{{.ConfigJSON}}</script>
  <script src="{{.ScriptSrc}}" defer></script>
</body>
</html>
`

var shellTmpl = template.Must(template.New("shell").Parse(shellTemplate))

func renderShell(data shellData) ([]byte, error) {
	var buf bytes.Buffer
	if err := shellTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute shell template: %w", err)
	}
	return []byte(normalizeLF(buf.String())), nil
}

// notFoundTemplate is the static-host deep-link handoff. Hosts that cannot
// rewrite arbitrary paths serve this as 404.html; it stashes the requested
// location and bounces to the shell, where the router picks the path back up.
const notFoundTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
  <script>
    try {
      sessionStorage.setItem({{.StorageKey}}, location.pathname + location.hash);
    } catch (e) {}
    location.replace({{.Target}});
  </script>
</head>
<body>
  <p><a href="{{.Target}}">Continue to {{.Title}}</a></p>
</body>
</html>
`

type notFoundData struct {
	Title      string
	StorageKey string
	Target     string
}

var notFoundTmpl = template.Must(template.New("not-found").Parse(notFoundTemplate))

func renderNotFound(title, basePath string) ([]byte, error) {
	target := basePath + "/"
	if basePath == "" {
		target = "/"
	}
	var buf bytes.Buffer
	err := notFoundTmpl.Execute(&buf, notFoundData{
		Title:      title,
		StorageKey: deepLinkStorageKey,
		Target:     target,
	})
	if err != nil {
		return nil, fmt.Errorf("execute 404 template: %w", err)
	}
	return []byte(normalizeLF(buf.String())), nil
}
