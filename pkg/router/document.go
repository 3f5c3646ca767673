package router

import "sync"

// Document is the presentation surface the controller mutates. Visibility is
// structural state only: implementations toggle a marker per section and
// never carry positional or style state that could fight a later restore.
type Document interface {
	// Show marks the section with the given id visible and every other
	// section hidden. Idempotent. An unknown id leaves zero sections
	// visible; callers resolve a fallback route before calling.
	Show(id string)
	// Visible returns the id of the section currently carrying the visible
	// marker, if any.
	Visible() (string, bool)
	// Stale reports whether the marked-visible section is actually hidden
	// by presentation state the marker does not control. A back-forward
	// cache restore can leave the two out of sync.
	Stale() bool

	SetTitle(title string)
	SetDescription(desc string)
	SetCanonical(href string)

	// NavHrefs lists the hrefs of the nav anchors, in document order.
	NavHrefs() []string
	// SetActive toggles the active marker (is-active, aria-current) on
	// every nav anchor with the given href.
	SetActive(href string, active bool)

	ScrollToTop()
}

// NavLink is one nav anchor with its active marker.
type NavLink struct {
	Href   string
	Active bool
}

// MemoryDocument is the in-memory Document used by tests, the renderer's
// per-route snapshots, and the daemon's deep-link resolution.
type MemoryDocument struct {
	mu          sync.Mutex
	registry    *Registry
	visible     string
	stale       map[string]bool
	title       string
	description string
	canonical   string
	nav         []NavLink
	scrolls     int
}

func NewMemoryDocument(registry *Registry, navHrefs []string) *MemoryDocument {
	d := &MemoryDocument{
		registry: registry,
		stale:    make(map[string]bool),
	}
	for _, href := range navHrefs {
		d.nav = append(d.nav, NavLink{Href: href})
	}
	return d
}

func (d *MemoryDocument) Show(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.registry != nil && !d.registry.Has(id) {
		d.visible = ""
		return
	}
	d.visible = id
	delete(d.stale, id)
}

func (d *MemoryDocument) Visible() (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.visible, d.visible != ""
}

func (d *MemoryDocument) Stale() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.visible != "" && d.stale[d.visible]
}

// MarkStale simulates a restore that hid the visible section behind the
// marker's back (what a bfcache restore does to a real document).
func (d *MemoryDocument) MarkStale(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stale[id] = true
}

func (d *MemoryDocument) SetTitle(title string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.title = title
}

func (d *MemoryDocument) SetDescription(desc string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.description = desc
}

func (d *MemoryDocument) SetCanonical(href string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.canonical = href
}

func (d *MemoryDocument) Title() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.title
}

func (d *MemoryDocument) Description() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.description
}

func (d *MemoryDocument) Canonical() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.canonical
}

func (d *MemoryDocument) NavHrefs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.nav))
	for i, l := range d.nav {
		out[i] = l.Href
	}
	return out
}

func (d *MemoryDocument) SetActive(href string, active bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.nav {
		if d.nav[i].Href == href {
			d.nav[i].Active = active
		}
	}
}

// NavLinks returns a snapshot of the nav anchors and their active markers.
func (d *MemoryDocument) NavLinks() []NavLink {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]NavLink, len(d.nav))
	copy(out, d.nav)
	return out
}

func (d *MemoryDocument) ScrollToTop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scrolls++
}

// Scrolls reports how many times the document was scrolled to top.
func (d *MemoryDocument) Scrolls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.scrolls
}
