package lekka

import (
	"net/url"
	"slices"
	"strings"
	"sync"
)

// View names a top-level page.
type View string

// Views selectable by URL fragment.
const (
	ViewHome View = "home"
	ViewTeam View = "team"
)

// Fragment returns the URL fragment that selects v, e.g. "#team".
// Home has no fragment.
func (v View) Fragment() string {
	if v == ViewTeam {
		return "#team"
	}
	return ""
}

// ResolveView maps a URL fragment to a view. The leading '#' is optional.
// Empty and unrecognized fragments select home.
func ResolveView(fragment string) View {
	f := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(fragment, "#")))
	if f == string(ViewTeam) {
		return ViewTeam
	}
	return ViewHome
}

// ViewFromURL resolves the fragment of raw. Unparseable URLs select home.
func ViewFromURL(raw string) View {
	u, err := url.Parse(raw)
	if err != nil {
		return ViewHome
	}
	return ResolveView(u.Fragment)
}

// Router tracks the active view and notifies subscribers when a fragment
// change selects a different one. Safe for concurrent use.
type Router struct {
	mu      sync.Mutex
	current View
	subs    []func(View)
}

// NewRouter creates a router resolved from the initial fragment.
func NewRouter(fragment string) *Router {
	return &Router{current: ResolveView(fragment)}
}

// Current returns the active view.
func (r *Router) Current() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Subscribe registers fn to run after each view change.
func (r *Router) Subscribe(fn func(View)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, fn)
}

// HandleFragmentChange resolves fragment and returns the active view.
// Subscribers run outside the lock, only when the view changed.
func (r *Router) HandleFragmentChange(fragment string) View {
	next := ResolveView(fragment)

	r.mu.Lock()
	changed := next != r.current
	r.current = next
	subs := slices.Clone(r.subs)
	r.mu.Unlock()

	if changed {
		for _, fn := range subs {
			fn(next)
		}
	}
	return next
}
