package router

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/foliokit/folioctl/pkg/routes"
)

// Link describes the anchor a click landed on.
type Link struct {
	Href     string
	Target   string
	Rel      string
	Download bool
	// NoRouter is the per-anchor opt-out (class or data attribute in the
	// markup) that forces native navigation.
	NoRouter bool
}

// Click is one pointer activation on a link.
type Click struct {
	Link   Link
	Button int
	Ctrl   bool
	Meta   bool
	Shift  bool
	Alt    bool
}

// BindingsConfig wires the event layer. Origin is the site origin
// (scheme://host[:port]) clicks are checked against; AssetsPrefix marks a
// path subtree always left to native handling.
type BindingsConfig struct {
	Controller   *Controller
	Routes       *routes.Table
	Registry     *Registry
	History      History
	Origin       string
	AssetsPrefix string
}

// Bindings turns host events (link clicks, popstate, pageshow, visibility
// changes) into controller operations. It never dispatches synthetic events
// of its own, so a navigation can't recursively re-enter through this layer.
type Bindings struct {
	ctrl         *Controller
	routes       *routes.Table
	registry     *Registry
	hist         History
	origin       *url.URL
	assetsPrefix string
}

func NewBindings(cfg BindingsConfig) (*Bindings, error) {
	if cfg.Controller == nil {
		return nil, fmt.Errorf("controller is required")
	}
	if cfg.Routes == nil {
		return nil, fmt.Errorf("route table is required")
	}
	if cfg.Registry == nil {
		return nil, fmt.Errorf("section registry is required")
	}
	origin, err := url.Parse(strings.TrimSpace(cfg.Origin))
	if err != nil || origin.Scheme == "" || origin.Host == "" {
		return nil, fmt.Errorf("origin must be an absolute scheme://host URL, got %q", cfg.Origin)
	}
	return &Bindings{
		ctrl:         cfg.Controller,
		routes:       cfg.Routes,
		registry:     cfg.Registry,
		hist:         cfg.History,
		origin:       origin,
		assetsPrefix: cfg.AssetsPrefix,
	}, nil
}

// BindHistory subscribes to host-initiated entry changes. Back/forward
// always re-renders with replace; a browser-initiated move must never push a
// new entry.
func (b *Bindings) BindHistory() (remove func()) {
	if b.hist == nil {
		return func() {}
	}
	return b.hist.OnPop(func(path string) {
		b.ctrl.Navigate(path, true)
	})
}

// HandlePageShow covers back-forward cache restores, which bring the
// document back without re-running boot code.
func (b *Bindings) HandlePageShow() {
	b.ctrl.EnsureSectionSync()
}

// HandleVisibilityChange re-syncs when the page becomes visible again.
func (b *Bindings) HandleVisibilityChange(visible bool) {
	if visible {
		b.ctrl.EnsureSectionSync()
	}
}

// fileExtPattern matches an extension at the end of the final path segment.
// Such hrefs look like files and are left to native handling.
var fileExtPattern = regexp.MustCompile(`\.[A-Za-z0-9]{1,8}$`)

// HandleClick applies the interception policy to one click. It returns true
// when the click was intercepted and a navigation ran (the host must then
// suppress the default action); false means pass-through, including for
// malformed hrefs, which are treated as "not a routable link" rather than
// errors.
func (b *Bindings) HandleClick(click Click) bool {
	if click.Button != 0 || click.Ctrl || click.Meta || click.Shift || click.Alt {
		return false
	}
	link := click.Link
	if t := link.Target; t != "" && t != "_self" {
		return false
	}
	href := strings.TrimSpace(link.Href)
	if href == "" || link.Download || link.NoRouter {
		return false
	}
	lower := strings.ToLower(href)
	if strings.HasPrefix(lower, "mailto:") || strings.HasPrefix(lower, "tel:") {
		return false
	}
	if relContains(link.Rel, "external") {
		return false
	}

	u, err := b.origin.Parse(href)
	if err != nil {
		return false
	}
	if u.Scheme != b.origin.Scheme || u.Host != b.origin.Host {
		return false
	}
	if fileExtPattern.MatchString(u.Path) {
		return false
	}
	path := b.routes.Normalize(u.Path)
	if b.assetsPrefix != "" && strings.HasPrefix(path, b.assetsPrefix) {
		return false
	}

	if frag := u.Fragment; frag != "" {
		if !b.registry.Has(frag) {
			// Unknown fragment: native in-page anchor behavior.
			return false
		}
		if p := b.routes.IDToPath(frag); p != "" {
			b.ctrl.Navigate(p, false)
			return true
		}
		return false
	}

	if b.routes.PathToID(path) == "" {
		return false
	}
	b.ctrl.Navigate(path, false)
	return true
}

func relContains(rel, token string) bool {
	for _, part := range strings.Fields(rel) {
		if strings.EqualFold(part, token) {
			return true
		}
	}
	return false
}
