// Package router implements the portfolio's navigation core: a history-aware
// controller that keeps exactly one content section visible, keeps document
// metadata and active-nav state consistent with the current route, and
// absorbs the host environment's quirks (back/forward restores, deep links,
// repeated rapid navigations).
//
// The package is host-agnostic: the document, session history, and timers are
// injected interfaces, so the same semantics drive the in-memory document
// used by the renderer and daemon as well as headless tests.
package router

// Section is a content block the router can make visible. Title and
// Description are optional metadata applied to the document when the section
// becomes the active one.
type Section struct {
	ID          string
	Title       string
	Description string
}

// Registry is the immutable set of sections known at boot. Route resolution
// consults it instead of probing a live document.
type Registry struct {
	order []string
	byID  map[string]Section
}

// NewRegistry builds a registry from the static content. Sections with empty
// or duplicate ids are dropped; the first occurrence wins.
func NewRegistry(sections ...Section) *Registry {
	r := &Registry{byID: make(map[string]Section, len(sections))}
	for _, s := range sections {
		if s.ID == "" {
			continue
		}
		if _, dup := r.byID[s.ID]; dup {
			continue
		}
		r.byID[s.ID] = s
		r.order = append(r.order, s.ID)
	}
	return r
}

func (r *Registry) Has(id string) bool {
	_, ok := r.byID[id]
	return ok
}

func (r *Registry) Get(id string) (Section, bool) {
	s, ok := r.byID[id]
	return s, ok
}

// IDs returns section ids in registration order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) Len() int {
	return len(r.order)
}
