package router

import "sync"

// State is the payload stored with every history entry. It must survive JSON
// serialization; the canonical path is the only field.
type State struct {
	Path string `json:"path"`
}

// History abstracts the host environment's session history.
type History interface {
	Push(path string)
	Replace(path string)
	// Back asks the host to go back one entry. Hosts with nothing to go
	// back to do nothing; callers can only observe the difference through
	// OnPop or by re-reading Current after a delay.
	Back()
	// Current returns the canonical path of the active entry ("" when the
	// history is empty).
	Current() string
	Len() int
	// OnPop registers an observer for host-initiated entry changes
	// (back/forward). The returned func removes the observer.
	OnPop(fn func(path string)) (remove func())
}

type popHandler struct {
	fn      func(string)
	removed bool
}

// MemoryHistory is an in-process History with deterministic, synchronous
// back navigation. Pop observers fire inline from Back.
type MemoryHistory struct {
	mu      sync.Mutex
	entries []State
	pops    []*popHandler
}

func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{}
}

func (h *MemoryHistory) Push(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, State{Path: path})
}

func (h *MemoryHistory) Replace(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		h.entries = append(h.entries, State{Path: path})
		return
	}
	h.entries[len(h.entries)-1] = State{Path: path}
}

func (h *MemoryHistory) Back() {
	h.mu.Lock()
	if len(h.entries) < 2 {
		h.mu.Unlock()
		return
	}
	h.entries = h.entries[:len(h.entries)-1]
	path := h.entries[len(h.entries)-1].Path
	handlers := h.snapshotPops()
	h.mu.Unlock()

	for _, fn := range handlers {
		fn(path)
	}
}

func (h *MemoryHistory) snapshotPops() []func(string) {
	out := make([]func(string), 0, len(h.pops))
	for _, p := range h.pops {
		if !p.removed {
			out = append(out, p.fn)
		}
	}
	return out
}

func (h *MemoryHistory) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		return ""
	}
	return h.entries[len(h.entries)-1].Path
}

func (h *MemoryHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

func (h *MemoryHistory) OnPop(fn func(path string)) (remove func()) {
	handler := &popHandler{fn: fn}
	h.mu.Lock()
	h.pops = append(h.pops, handler)
	h.mu.Unlock()
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		handler.removed = true
		for i, p := range h.pops {
			if p == handler {
				h.pops = append(h.pops[:i], h.pops[i+1:]...)
				break
			}
		}
	}
}

// Entries returns a snapshot of the history stack, oldest first.
func (h *MemoryHistory) Entries() []State {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]State, len(h.entries))
	copy(out, h.entries)
	return out
}
