package router

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/foliokit/folioctl/pkg/routes"
)

// SmartBackTimeout is how long SmartBack waits for the host history to react
// before committing to the fallback navigation. A heuristic, not a
// guarantee: a slow host could still move after the fallback fires.
const SmartBackTimeout = 250 * time.Millisecond

// Config wires a Controller's collaborators. Routes, Registry, Document, and
// History are required; Timer defaults to the system timer and DefaultPath to
// routes.DefaultPath.
type Config struct {
	Routes   *routes.Table
	Registry *Registry
	Document Document
	History  History
	Timer    Timer

	// DefaultPath is the route unresolvable navigations fall back to.
	DefaultPath string
	// CanonicalBase, when set, is the absolute URL prefix (scheme://host)
	// prepended to the in-site path for canonical-link updates. Left empty,
	// canonical links are never touched.
	CanonicalBase string
}

type navRequest struct {
	path    string
	replace bool
}

// Controller orchestrates navigations end to end: resolve the target
// section, update visibility, metadata, and active-nav state, record the
// entry in history, and notify reveal observers. A navigation is a single
// transaction; requests arriving while one is in flight collapse
// last-write-wins, and the single-visible-section invariant holds whenever a
// call returns.
type Controller struct {
	routes        *routes.Table
	registry      *Registry
	doc           Document
	hist          History
	timer         Timer
	defaultPath   string
	canonicalBase string

	mu            sync.Mutex
	transitioning bool
	pending       *navRequest
	currentPath   string

	obsMu     sync.Mutex
	observers []func(id string)
}

func New(cfg Config) (*Controller, error) {
	if cfg.Routes == nil {
		return nil, fmt.Errorf("route table is required")
	}
	if cfg.Registry == nil {
		return nil, fmt.Errorf("section registry is required")
	}
	if cfg.Document == nil {
		return nil, fmt.Errorf("document is required")
	}
	if cfg.History == nil {
		return nil, fmt.Errorf("history is required")
	}
	timer := cfg.Timer
	if timer == nil {
		timer = SystemTimer()
	}
	defaultPath := cfg.DefaultPath
	if defaultPath == "" {
		defaultPath = routes.DefaultPath
	}
	return &Controller{
		routes:        cfg.Routes,
		registry:      cfg.Registry,
		doc:           cfg.Document,
		hist:          cfg.History,
		timer:         timer,
		defaultPath:   defaultPath,
		canonicalBase: strings.TrimSuffix(cfg.CanonicalBase, "/"),
	}, nil
}

// OnSectionVisible registers a reveal observer. Observers fire once per
// successful navigation, after visibility, metadata, and history are
// settled. Fire-and-forget: the controller ignores whatever they do, except
// that a re-entrant Navigate is queued, not recursed into.
func (c *Controller) OnSectionVisible(fn func(id string)) {
	c.obsMu.Lock()
	defer c.obsMu.Unlock()
	c.observers = append(c.observers, fn)
}

// Navigate runs one navigation transaction. Unroutable paths fall back to
// the default route rather than failing; replace controls whether the
// history entry is replaced or pushed.
func (c *Controller) Navigate(path string, replace bool) {
	canonical := c.routes.Normalize(path)

	c.mu.Lock()
	if c.transitioning {
		// Collapse: the in-flight transaction picks this up last-write-wins.
		c.pending = &navRequest{path: canonical, replace: replace}
		c.mu.Unlock()
		return
	}
	c.transitioning = true
	c.mu.Unlock()

	for {
		c.commit(canonical, replace)

		c.mu.Lock()
		if c.pending == nil {
			c.transitioning = false
			c.mu.Unlock()
			return
		}
		next := *c.pending
		c.pending = nil
		c.mu.Unlock()
		canonical, replace = next.path, next.replace
	}
}

func (c *Controller) commit(path string, replace bool) {
	id := c.routes.PathToID(path)
	if id == "" {
		path = c.routes.Normalize(c.defaultPath)
		id = c.routes.PathToID(path)
	}

	c.doc.Show(id)
	c.doc.ScrollToTop()

	if sec, ok := c.registry.Get(id); ok {
		if sec.Title != "" {
			c.doc.SetTitle(sec.Title)
		}
		if sec.Description != "" {
			c.doc.SetDescription(sec.Description)
		}
	}
	if c.canonicalBase != "" {
		c.doc.SetCanonical(c.canonicalBase + c.routes.WithBase(path))
	}

	for _, href := range c.doc.NavHrefs() {
		c.doc.SetActive(href, c.routes.Normalize(hrefPath(href)) == path)
	}

	if replace {
		c.hist.Replace(path)
	} else {
		c.hist.Push(path)
	}

	c.mu.Lock()
	c.currentPath = path
	c.mu.Unlock()

	c.notifyVisible(id)
}

func (c *Controller) notifyVisible(id string) {
	c.obsMu.Lock()
	observers := make([]func(string), len(c.observers))
	copy(observers, c.observers)
	c.obsMu.Unlock()
	for _, fn := range observers {
		fn(id)
	}
}

// InitialShow resolves the boot target: an existing hash-targeted section
// wins over the path-derived one (deep links), and everything falls back to
// the default route. Always a replace; the first load never grows history.
func (c *Controller) InitialShow(path, hash string) {
	hash = strings.TrimPrefix(hash, "#")
	if hash != "" && c.registry.Has(hash) {
		if p := c.routes.IDToPath(hash); p != "" {
			c.Navigate(p, true)
			return
		}
	}
	c.Navigate(path, true)
}

// SmartBack attempts a true history back. If the history did not move within
// SmartBackTimeout (a directly-loaded page has nothing to go back to), it
// navigates to href instead. Best-effort by design.
func (c *Controller) SmartBack(href string) {
	before := c.hist.Current()
	var popped atomic.Bool
	remove := c.hist.OnPop(func(string) { popped.Store(true) })

	c.hist.Back()

	c.timer.AfterFunc(SmartBackTimeout, func() {
		remove()
		if popped.Load() || c.hist.Current() != before {
			return
		}
		c.Navigate(href, false)
	})
}

// EnsureSectionSync re-renders the current route when the document's
// visibility state went stale, which happens after back-forward cache
// restores. A replace: corrective re-renders never grow history.
func (c *Controller) EnsureSectionSync() {
	if _, ok := c.doc.Visible(); ok && !c.doc.Stale() {
		return
	}
	c.Navigate(c.CurrentPath(), true)
}

// CurrentPath returns the canonical path of the last committed navigation,
// or the default path before any navigation ran.
func (c *Controller) CurrentPath() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.currentPath == "" {
		return c.defaultPath
	}
	return c.currentPath
}

// hrefPath extracts the path component of a nav anchor href, which may be an
// absolute URL or a bare path. Unparseable hrefs are compared as-is.
func hrefPath(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	return u.Path
}
