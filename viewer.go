package lekka

import (
	"context"
	"sync"
)

// ViewerState is the lifecycle state of a policy viewer session.
type ViewerState int

const (
	// ViewerClosed means no session is open and no text is held.
	ViewerClosed ViewerState = iota
	// ViewerLoading means a fetch is in flight.
	ViewerLoading
	// ViewerReady means the policy text (or the fallback) is available.
	ViewerReady
)

// String returns the state name.
func (s ViewerState) String() string {
	switch s {
	case ViewerLoading:
		return "loading"
	case ViewerReady:
		return "ready"
	default:
		return "closed"
	}
}

// Viewer is one policy viewer session: open fetches the policy once, close
// discards it. Every Open starts a new generation; a fetch result that
// arrives after Close or after a newer Open is dropped.
// Safe for concurrent use.
type Viewer struct {
	src      PolicySource
	renderer *PolicyRenderer

	mu   sync.Mutex
	gen  uint64
	open bool
	doc  *Document
}

// NewViewer creates a closed viewer. A nil renderer uses NewPolicyRenderer.
func NewViewer(src PolicySource, renderer *PolicyRenderer) *Viewer {
	if renderer == nil {
		renderer = NewPolicyRenderer()
	}
	return &Viewer{src: src, renderer: renderer}
}

// Open starts a session and issues exactly one fetch. The returned channel
// yields the document if it was stored, and is closed without a value if
// the result was dropped because the session was closed or reopened.
// Opening an already open viewer starts a fresh fetch; there is no caching.
func (v *Viewer) Open(ctx context.Context) <-chan Document {
	v.mu.Lock()
	v.gen++
	gen := v.gen
	v.open = true
	v.doc = nil
	v.mu.Unlock()

	out := make(chan Document, 1)
	go func() {
		defer close(out)
		doc := FetchPolicy(ctx, v.src)
		if v.store(gen, doc) {
			out <- doc
		}
	}()
	return out
}

// Load opens the viewer and waits for the fetch. ok is false when the result
// was dropped or ctx ended first.
func (v *Viewer) Load(ctx context.Context) (doc Document, ok bool) {
	select {
	case doc, ok = <-v.Open(ctx):
		return doc, ok
	case <-ctx.Done():
		return Document{}, false
	}
}

// store records doc if gen is still the live generation.
func (v *Viewer) store(gen uint64, doc Document) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.open || gen != v.gen {
		return false
	}
	v.doc = &doc
	return true
}

// Close ends the session and discards the text. Pending fetches are dropped.
func (v *Viewer) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.open = false
	v.gen++
	v.doc = nil
}

// State reports the current lifecycle state.
func (v *Viewer) State() ViewerState {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch {
	case !v.open:
		return ViewerClosed
	case v.doc == nil:
		return ViewerLoading
	default:
		return ViewerReady
	}
}

// Text returns the held policy text. loaded is false while closed or loading.
func (v *Viewer) Text() (text string, loaded bool) {
	doc, ok := v.Document()
	return doc.Text, ok
}

// Document returns the held document. ok is false while closed or loading.
func (v *Viewer) Document() (Document, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.open || v.doc == nil {
		return Document{}, false
	}
	return *v.doc, true
}

// Render converts the held text to HTML. loaded is false while closed or
// loading, in which case html is empty and err is nil.
func (v *Viewer) Render(ctx context.Context) (html string, loaded bool, err error) {
	text, loaded := v.Text()
	if !loaded {
		return "", false, nil
	}
	if text == "" {
		return "", true, nil
	}
	html, err = v.renderer.Render(ctx, text)
	return html, true, err
}
