package router

import (
	"sync"
	"testing"
	"time"

	"github.com/foliokit/folioctl/pkg/routes"
)

type manualTimer struct {
	mu  sync.Mutex
	fns []func()
}

func (t *manualTimer) AfterFunc(_ time.Duration, fn func()) func() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fns = append(t.fns, fn)
	return func() {}
}

func (t *manualTimer) fire() {
	t.mu.Lock()
	fns := t.fns
	t.fns = nil
	t.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

var testNavHrefs = []string{"/", "/work", "/about", "/contact"}

func testRegistry() *Registry {
	return NewRegistry(
		Section{ID: "intro", Title: "Jane Doe — Portfolio", Description: "Selected work and writing"},
		Section{ID: "work", Title: "Work — Jane Doe", Description: "Projects and case studies"},
		Section{ID: "about", Title: "About — Jane Doe"},
		Section{ID: "contact"},
		Section{ID: "case-portfolio", Title: "Case study: Portfolio"},
		Section{ID: "case-portfolio-design", Title: "Case study: Portfolio, design notes"},
	)
}

type fixture struct {
	ctrl  *Controller
	doc   *MemoryDocument
	hist  *MemoryHistory
	timer *manualTimer
	table *routes.Table
}

func newFixture(t *testing.T, base string) *fixture {
	t.Helper()
	reg := testRegistry()
	table := routes.New(base, routes.DefaultStaticRoutes(), reg)
	doc := NewMemoryDocument(reg, testNavHrefs)
	hist := NewMemoryHistory()
	timer := &manualTimer{}
	ctrl, err := New(Config{
		Routes:        table,
		Registry:      reg,
		Document:      doc,
		History:       hist,
		Timer:         timer,
		CanonicalBase: "https://janedoe.dev",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return &fixture{ctrl: ctrl, doc: doc, hist: hist, timer: timer, table: table}
}

func (f *fixture) mustVisible(t *testing.T, want string) {
	t.Helper()
	got, ok := f.doc.Visible()
	if !ok {
		t.Fatalf("no section visible, want %q", want)
	}
	if got != want {
		t.Fatalf("visible section = %q, want %q", got, want)
	}
}

func TestNavigateSingleVisibleInvariant(t *testing.T) {
	f := newFixture(t, "")

	paths := []string{"/", "/work", "/work/portfolio", "/about", "/nope", "/work/portfolio/design", "/contact"}
	for _, p := range paths {
		f.ctrl.Navigate(p, false)
		if _, ok := f.doc.Visible(); !ok {
			t.Fatalf("after Navigate(%q): zero sections visible", p)
		}
	}
	f.mustVisible(t, "contact")
}

func TestNavigateFallsBackToDefaultRoute(t *testing.T) {
	f := newFixture(t, "")

	f.ctrl.Navigate("/does-not-exist", false)

	f.mustVisible(t, "intro")
	if got := f.hist.Current(); got != "/" {
		t.Fatalf("history current = %q, want /", got)
	}
	if got := f.ctrl.CurrentPath(); got != "/" {
		t.Fatalf("CurrentPath = %q, want /", got)
	}
}

func TestNavigateAppliesSectionMetadata(t *testing.T) {
	f := newFixture(t, "")

	f.ctrl.Navigate("/work", false)
	if got := f.doc.Title(); got != "Work — Jane Doe" {
		t.Fatalf("title = %q", got)
	}
	if got := f.doc.Description(); got != "Projects and case studies" {
		t.Fatalf("description = %q", got)
	}
	if got := f.doc.Canonical(); got != "https://janedoe.dev/work" {
		t.Fatalf("canonical = %q", got)
	}

	// contact has no metadata; title and description stay as they were.
	f.ctrl.Navigate("/contact", false)
	if got := f.doc.Title(); got != "Work — Jane Doe" {
		t.Fatalf("title changed for metadata-less section: %q", got)
	}
	if got := f.doc.Description(); got != "Projects and case studies" {
		t.Fatalf("description changed for metadata-less section: %q", got)
	}
	if got := f.doc.Canonical(); got != "https://janedoe.dev/contact" {
		t.Fatalf("canonical = %q", got)
	}
}

func TestNavigateCanonicalWithBasePrefix(t *testing.T) {
	f := newFixture(t, "/site")

	f.ctrl.Navigate("/site/work", false)

	f.mustVisible(t, "work")
	if got := f.doc.Canonical(); got != "https://janedoe.dev/site/work" {
		t.Fatalf("canonical = %q", got)
	}
}

func TestActiveNavExactMatchOnly(t *testing.T) {
	f := newFixture(t, "")

	f.ctrl.Navigate("/work", false)
	for _, l := range f.doc.NavLinks() {
		want := l.Href == "/work"
		if l.Active != want {
			t.Fatalf("nav %q active = %v, want %v", l.Href, l.Active, want)
		}
	}

	// A case-study route is under /work but must not highlight /work:
	// highlighting is exact-match on the canonical path.
	f.ctrl.Navigate("/work/portfolio", false)
	for _, l := range f.doc.NavLinks() {
		if l.Active {
			t.Fatalf("nav %q unexpectedly active on case-study route", l.Href)
		}
	}
}

func TestNavigateScrollsToTop(t *testing.T) {
	f := newFixture(t, "")

	f.ctrl.Navigate("/work", false)
	f.ctrl.Navigate("/about", false)

	if got := f.doc.Scrolls(); got != 2 {
		t.Fatalf("scroll resets = %d, want 2", got)
	}
}

func TestHistoryGrowthDiscipline(t *testing.T) {
	f := newFixture(t, "")

	// Initial load replaces, never grows.
	f.ctrl.InitialShow("/work", "")
	if got := f.hist.Len(); got != 1 {
		t.Fatalf("after initial show: history len = %d, want 1", got)
	}

	// User clicks push exactly one entry each.
	f.ctrl.Navigate("/about", false)
	f.ctrl.Navigate("/contact", false)
	if got := f.hist.Len(); got != 3 {
		t.Fatalf("after two pushes: history len = %d, want 3", got)
	}

	// Corrective re-render never grows history.
	f.doc.MarkStale("contact")
	f.ctrl.EnsureSectionSync()
	if got := f.hist.Len(); got != 3 {
		t.Fatalf("after resync: history len = %d, want 3", got)
	}

	entries := f.hist.Entries()
	wantPaths := []string{"/work", "/about", "/contact"}
	for i, want := range wantPaths {
		if entries[i].Path != want {
			t.Fatalf("entry[%d].Path = %q, want %q", i, entries[i].Path, want)
		}
	}
}

func TestInitialShowPrefersExistingHash(t *testing.T) {
	f := newFixture(t, "")

	f.ctrl.InitialShow("/about", "#case-portfolio")

	f.mustVisible(t, "case-portfolio")
	if got := f.hist.Current(); got != "/work/portfolio" {
		t.Fatalf("history current = %q, want /work/portfolio", got)
	}
	if got := f.hist.Len(); got != 1 {
		t.Fatalf("history len = %d, want 1", got)
	}
}

func TestInitialShowIgnoresUnknownHash(t *testing.T) {
	f := newFixture(t, "")

	f.ctrl.InitialShow("/about", "#missing")

	f.mustVisible(t, "about")
}

func TestInitialShowUnroutableFallsBack(t *testing.T) {
	f := newFixture(t, "")

	f.ctrl.InitialShow("/totally/unknown", "")

	f.mustVisible(t, "intro")
	if got := f.hist.Len(); got != 1 {
		t.Fatalf("history len = %d, want 1", got)
	}
}

func TestSmartBackUsesRealHistoryWhenAvailable(t *testing.T) {
	f := newFixture(t, "")
	bindings, err := NewBindings(BindingsConfig{
		Controller: f.ctrl,
		Routes:     f.table,
		Registry:   testRegistry(),
		History:    f.hist,
		Origin:     "https://janedoe.dev",
	})
	if err != nil {
		t.Fatalf("NewBindings: %v", err)
	}
	defer bindings.BindHistory()()

	f.ctrl.InitialShow("/work", "")
	f.ctrl.Navigate("/work/portfolio", false)

	f.ctrl.SmartBack("/work")
	f.timer.fire()

	f.mustVisible(t, "work")
	if got := f.hist.Len(); got != 1 {
		t.Fatalf("history len = %d, want 1 (true back, no fallback push)", got)
	}
}

func TestSmartBackFallsBackWithoutHistory(t *testing.T) {
	f := newFixture(t, "")
	f.ctrl.InitialShow("/work/portfolio", "")

	f.ctrl.SmartBack("/work")
	// Nothing to go back to; before the timeout, state is unchanged.
	f.mustVisible(t, "case-portfolio")

	f.timer.fire()

	f.mustVisible(t, "work")
	if got := f.hist.Current(); got != "/work" {
		t.Fatalf("history current = %q, want /work", got)
	}

	// Same end state as a direct Navigate("/work").
	direct := newFixture(t, "")
	direct.ctrl.InitialShow("/work/portfolio", "")
	direct.ctrl.Navigate("/work", false)
	if a, b := f.hist.Current(), direct.hist.Current(); a != b {
		t.Fatalf("fallback end path %q != direct navigation %q", a, b)
	}
	dv, _ := direct.doc.Visible()
	fv, _ := f.doc.Visible()
	if dv != fv {
		t.Fatalf("fallback visible %q != direct visible %q", fv, dv)
	}
}

func TestEnsureSectionSyncNoopWhenHealthy(t *testing.T) {
	f := newFixture(t, "")
	f.ctrl.InitialShow("/work", "")
	scrolls := f.doc.Scrolls()

	f.ctrl.EnsureSectionSync()

	if got := f.doc.Scrolls(); got != scrolls {
		t.Fatalf("healthy document was re-rendered")
	}
}

func TestEnsureSectionSyncRecoversStaleRestore(t *testing.T) {
	f := newFixture(t, "")
	f.ctrl.InitialShow("/about", "")

	f.doc.MarkStale("about")
	if !f.doc.Stale() {
		t.Fatalf("document should be stale")
	}

	f.ctrl.EnsureSectionSync()

	f.mustVisible(t, "about")
	if f.doc.Stale() {
		t.Fatalf("document still stale after resync")
	}
	if got := f.hist.Len(); got != 1 {
		t.Fatalf("history len = %d, want 1", got)
	}
}

func TestReentrantNavigateCollapses(t *testing.T) {
	f := newFixture(t, "")

	var calls []string
	f.ctrl.OnSectionVisible(func(id string) {
		calls = append(calls, id)
		// A collaborator reacting to the reveal by navigating again must
		// not recurse; the request queues and commits after this one.
		if id == "work" {
			f.ctrl.Navigate("/about", false)
		}
	})

	f.ctrl.Navigate("/work", false)

	f.mustVisible(t, "about")
	if len(calls) != 2 || calls[0] != "work" || calls[1] != "about" {
		t.Fatalf("observer calls = %v", calls)
	}
}

func TestRevealObserverFiresOncePerNavigation(t *testing.T) {
	f := newFixture(t, "")

	var count int
	f.ctrl.OnSectionVisible(func(string) { count++ })

	f.ctrl.Navigate("/work", false)
	f.ctrl.Navigate("/about", false)
	f.ctrl.Navigate("/about", false)

	if count != 3 {
		t.Fatalf("observer fired %d times, want 3", count)
	}
}

func TestNewValidatesCollaborators(t *testing.T) {
	reg := testRegistry()
	table := routes.New("", routes.DefaultStaticRoutes(), reg)
	doc := NewMemoryDocument(reg, nil)
	hist := NewMemoryHistory()

	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "missing routes", cfg: Config{Registry: reg, Document: doc, History: hist}},
		{name: "missing registry", cfg: Config{Routes: table, Document: doc, History: hist}},
		{name: "missing document", cfg: Config{Routes: table, Registry: reg, History: hist}},
		{name: "missing history", cfg: Config{Routes: table, Registry: reg, Document: doc}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.cfg); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
