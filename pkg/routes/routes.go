// Package routes maps browser paths to section ids and back.
//
// All functions operate on canonical paths: base prefix stripped, a single
// leading slash, no trailing slash except for the root path itself.
// Normalization is structural and total; validating a path against the route
// table is a separate step (PathToID).
package routes

import "strings"

// DefaultPath is the route every unresolvable navigation falls back to.
const DefaultPath = "/"

const (
	workPrefix = "/work/"
	casePrefix = "case-"
)

// Route is an immutable path/section pair.
type Route struct {
	Path      string
	SectionID string
}

// Registry reports which section ids exist in the document. It is built once
// at startup from the static content, so route resolution never touches a
// live document.
type Registry interface {
	Has(id string) bool
}

// Table resolves canonical paths to section ids. Static routes are
// enumerated; /work/<slug>[/<sub>] resolves dynamically against the section
// registry. Immutable after construction.
type Table struct {
	base     string
	pathToID map[string]string
	idToPath map[string]string
	sections Registry
}

// New builds a route table. basePrefix is the site's base path when hosted
// under a subpath (empty for root hosting); it is canonicalized without a
// trailing slash.
func New(basePrefix string, static []Route, sections Registry) *Table {
	t := &Table{
		pathToID: make(map[string]string, len(static)),
		idToPath: make(map[string]string, len(static)),
		sections: sections,
	}
	t.base = canonicalBase(basePrefix)
	for _, r := range static {
		p := t.normalizeBare(r.Path)
		t.pathToID[p] = r.SectionID
		if _, exists := t.idToPath[r.SectionID]; !exists {
			t.idToPath[r.SectionID] = p
		}
	}
	return t
}

// DefaultStaticRoutes is the portfolio's enumerated route table.
func DefaultStaticRoutes() []Route {
	return []Route{
		{Path: "/", SectionID: "intro"},
		{Path: "/work", SectionID: "work"},
		{Path: "/about", SectionID: "about"},
		{Path: "/contact", SectionID: "contact"},
	}
}

func canonicalBase(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" || prefix == "/" {
		return ""
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return strings.TrimSuffix(prefix, "/")
}

// Base returns the canonical base prefix ("" when hosted at the root).
func (t *Table) Base() string {
	return t.base
}

// Normalize converts a raw browser pathname to a canonical path. It strips
// the base prefix (slash-suffixed form first, then the bare form), ensures a
// single leading slash, and strips one trailing slash except for the root.
// Idempotent: normalizing a canonical path returns it unchanged.
func (t *Table) Normalize(pathname string) string {
	p := pathname
	if t.base != "" {
		switch {
		case strings.HasPrefix(p, t.base+"/"):
			p = p[len(t.base):]
		case p == t.base:
			p = "/"
		case strings.HasPrefix(p, t.base):
			p = p[len(t.base):]
		}
	}
	return t.normalizeBare(p)
}

func (t *Table) normalizeBare(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	if p == "" {
		return "/"
	}
	return p
}

// PathToID resolves a canonical path to a section id. Static routes are
// looked up first; /work/<slug>[/<sub>] synthesizes case-<slug>[-<sub>] and
// returns it only when that id exists in the registry. An empty result means
// "not a route this table owns" and callers should leave the navigation to
// the host environment.
func (t *Table) PathToID(path string) string {
	if id, ok := t.pathToID[path]; ok {
		return id
	}
	if !strings.HasPrefix(path, workPrefix) {
		return ""
	}
	rest := path[len(workPrefix):]
	if rest == "" {
		return ""
	}
	slug, sub, _ := strings.Cut(rest, "/")
	if slug == "" || strings.Contains(sub, "/") {
		return ""
	}
	id := casePrefix + slug
	if sub != "" {
		id += "-" + sub
	}
	if t.sections != nil && t.sections.Has(id) {
		return id
	}
	return ""
}

// IDToPath is the inverse mapping. For case-* ids the slug/sub boundary is
// the FIRST hyphen after the prefix; slugs that themselves contain hyphens
// are therefore not invertible (case-foo-bar-design splits as slug "foo",
// sub "bar-design"). That boundary is part of the id scheme contract, not
// something this function can repair.
func (t *Table) IDToPath(id string) string {
	if p, ok := t.idToPath[id]; ok {
		return p
	}
	if !strings.HasPrefix(id, casePrefix) {
		return ""
	}
	rest := id[len(casePrefix):]
	if rest == "" {
		return ""
	}
	slug, sub, hasSub := strings.Cut(rest, "-")
	if slug == "" {
		return ""
	}
	p := "/work/" + slug
	if hasSub && sub != "" {
		p += "/" + sub
	}
	return p
}

// WithBase re-adds the base prefix to a canonical path, producing the
// absolute in-site path an anchor href should carry.
func (t *Table) WithBase(path string) string {
	if t.base == "" {
		return path
	}
	if path == "/" {
		return t.base + "/"
	}
	return t.base + path
}

// StaticRoutes returns the enumerated routes. Order is undefined; callers
// needing determinism should sort by path.
func (t *Table) StaticRoutes() []Route {
	out := make([]Route, 0, len(t.pathToID))
	for p, id := range t.pathToID {
		out = append(out, Route{Path: p, SectionID: id})
	}
	return out
}
