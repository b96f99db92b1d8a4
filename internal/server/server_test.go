package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	lekka "github.com/NandanaMD/labourlekka-web"
	"github.com/NandanaMD/labourlekka-web/internal/assets"
)

// stubSource returns text or err, optionally waiting for release.
type stubSource struct {
	text    string
	err     error
	release chan struct{}

	mu    sync.Mutex
	calls int
}

func (s *stubSource) Fetch(ctx context.Context) (string, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.text, s.err
}

func (s *stubSource) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// stubExporter records the capture document and returns a canned result.
type stubExporter struct {
	err error

	mu  sync.Mutex
	doc string
}

func (e *stubExporter) Export(ctx context.Context, htmlDoc string) (*lekka.ExportResult, error) {
	e.mu.Lock()
	e.doc = htmlDoc
	e.mu.Unlock()

	if e.err != nil {
		return nil, e.err
	}
	return &lekka.ExportResult{PDF: []byte("%PDF-1.4 stub"), Pages: 2, Filename: lekka.ExportFilename}, nil
}

func newTestServer(t *testing.T, src lekka.PolicySource, exp Exporter) *Server {
	t.Helper()

	res, err := assets.NewAssetResolver("")
	require.NoError(t, err)

	s, err := New(Options{
		Log:      zap.NewNop().Sugar(),
		Assets:   res,
		Source:   src,
		Exporter: exp,
		Carousel: lekka.NewCarousel(lekka.DefaultSlides(), time.Hour),
		LoadWait: 2 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func do(t *testing.T, s *Server, method, target string, cookies ...*http.Cookie) (*http.Response, string) {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func viewerCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()

	for _, c := range resp.Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", sessionCookie)
	return nil
}

// ---------------------------------------------------------------------------
// Construction
// ---------------------------------------------------------------------------

func TestNewRequiresDependencies(t *testing.T) {
	res, err := assets.NewAssetResolver("")
	require.NoError(t, err)
	log := zap.NewNop().Sugar()
	src := &stubSource{}
	exp := &stubExporter{}

	tests := []struct {
		name string
		opts Options
	}{
		{"no logger", Options{Assets: res, Source: src, Exporter: exp}},
		{"no assets", Options{Log: log, Source: src, Exporter: exp}},
		{"no source", Options{Log: log, Assets: res, Exporter: exp}},
		{"no exporter", Options{Log: log, Assets: res, Source: src}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts)
			require.Error(t, err)
		})
	}
}

// ---------------------------------------------------------------------------
// Pages and routing
// ---------------------------------------------------------------------------

func TestPages(t *testing.T) {
	s := newTestServer(t, &stubSource{}, &stubExporter{})

	tests := []struct {
		target string
		want   string
	}{
		{"/", "Manage labour, even offline"},
		{"/team", "The People Behind Labour Lekka"},
		{"/privacy-policy.html", "Privacy Policy"},
		{"/data-deletion.html", "<html"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			resp, body := do(t, s, http.MethodGet, tt.target)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			require.Contains(t, body, tt.want)
		})
	}
}

func TestTeamShowsInitialsWithoutPhotos(t *testing.T) {
	s := newTestServer(t, &stubSource{}, &stubExporter{})

	_, body := do(t, s, http.MethodGet, "/team")

	for _, c := range lekka.Team() {
		require.Contains(t, body, ">"+c.Initials+"</span>")
	}
	require.NotContains(t, body, "/static/team/")
}

func TestViewResolvesFragment(t *testing.T) {
	s := newTestServer(t, &stubSource{}, &stubExporter{})

	tests := []struct {
		query    string
		location string
	}{
		{"?fragment=%23team", "/team"},
		{"?fragment=team", "/team"},
		{"?fragment=%23unknown", "/"},
		{"", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, _ := do(t, s, http.MethodGet, "/view"+tt.query)
			require.Equal(t, http.StatusSeeOther, resp.StatusCode)
			require.Equal(t, tt.location, resp.Header.Get("Location"))
		})
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, &stubSource{}, &stubExporter{})

	resp, _ := do(t, s, http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStaticAssets(t *testing.T) {
	s := newTestServer(t, &stubSource{}, &stubExporter{})

	resp, body := do(t, s, http.MethodGet, "/static/styles/site.css")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, ".carousel")

	resp, _ = do(t, s, http.MethodGet, "/static/missing.png")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, s, http.MethodGet, "/static/../go.mod")
	require.NotEqual(t, http.StatusOK, resp.StatusCode)
}

func TestPolicyMarkdown(t *testing.T) {
	s := newTestServer(t, &stubSource{}, &stubExporter{})

	resp, body := do(t, s, http.MethodGet, "/PRIVACY_POLICY.md")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/markdown")
	require.Contains(t, body, "# Privacy Policy")
}

// ---------------------------------------------------------------------------
// Policy viewer
// ---------------------------------------------------------------------------

func TestPrivacyFetch404ShowsFallback(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	defer upstream.Close()

	src := &lekka.HTTPSource{URL: upstream.URL + "/PRIVACY_POLICY.md", Client: upstream.Client()}
	s := newTestServer(t, src, &stubExporter{})

	resp, body := do(t, s, http.MethodGet, "/privacy")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, `id="policy-content"`)
	require.Contains(t, body, "Unable to load policy.")
	require.NotContains(t, body, "Loading privacy policy...")
	viewerCookie(t, resp)
}

func TestPrivacyRendersPolicy(t *testing.T) {
	src := &stubSource{text: "# Privacy Policy\n\n| Data | Use |\n|---|---|\n| Phone | Sign-in |\n\n<a href=\"mailto:x@example.com\">mail</a>\n"}
	s := newTestServer(t, src, &stubExporter{})

	_, body := do(t, s, http.MethodGet, "/privacy")
	require.Contains(t, body, "<table>")
	require.Contains(t, body, `<a href="mailto:x@example.com">mail</a>`)
	require.Contains(t, body, `href="/privacy/export"`)
}

func TestPrivacyLoadingThenReady(t *testing.T) {
	src := &stubSource{text: "# Loaded", release: make(chan struct{})}

	res, err := assets.NewAssetResolver("")
	require.NoError(t, err)
	s, err := New(Options{
		Log:      zap.NewNop().Sugar(),
		Assets:   res,
		Source:   src,
		Exporter: &stubExporter{},
		LoadWait: 10 * time.Millisecond,
	})
	require.NoError(t, err)
	defer s.Close()

	resp, body := do(t, s, http.MethodGet, "/privacy")
	require.Contains(t, body, "Loading privacy policy...")
	require.Contains(t, body, `http-equiv="refresh"`)
	cookie := viewerCookie(t, resp)

	close(src.release)
	require.Eventually(t, func() bool {
		_, body := do(t, s, http.MethodGet, "/privacy", cookie)
		return strings.Contains(body, `id="loaded"`)
	}, 5*time.Second, 10*time.Millisecond)

	require.Equal(t, 1, src.count(), "reloading an open viewer must not refetch")
}

func TestPrivacyCloseDiscardsAndRefetches(t *testing.T) {
	src := &stubSource{text: "# Policy"}
	s := newTestServer(t, src, &stubExporter{})

	resp, _ := do(t, s, http.MethodGet, "/privacy")
	cookie := viewerCookie(t, resp)

	resp, _ = do(t, s, http.MethodGet, "/privacy/close", cookie)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))

	sess, ok := s.sessions.lookup(cookie.Value)
	require.True(t, ok)
	require.Equal(t, lekka.ViewerClosed, sess.viewer.State())
	_, loaded := sess.viewer.Text()
	require.False(t, loaded)

	do(t, s, http.MethodGet, "/privacy", cookie)
	require.Equal(t, 2, src.count())
}

func TestLeavingPolicyClosesViewer(t *testing.T) {
	for _, page := range []string{"/", "/team"} {
		t.Run(page, func(t *testing.T) {
			src := &stubSource{text: "# Policy"}
			s := newTestServer(t, src, &stubExporter{})

			resp, _ := do(t, s, http.MethodGet, "/privacy")
			cookie := viewerCookie(t, resp)
			require.Equal(t, 1, src.count())

			resp, _ = do(t, s, http.MethodGet, page, cookie)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			sess, ok := s.sessions.lookup(cookie.Value)
			require.True(t, ok)
			require.Equal(t, lekka.ViewerClosed, sess.viewer.State())

			resp, _ = do(t, s, http.MethodGet, "/privacy/export", cookie)
			require.Equal(t, http.StatusSeeOther, resp.StatusCode)

			do(t, s, http.MethodGet, "/privacy", cookie)
			require.Equal(t, 2, src.count())
		})
	}
}

func TestPagesDoNotCreateSessions(t *testing.T) {
	s := newTestServer(t, &stubSource{}, &stubExporter{})

	resp, _ := do(t, s, http.MethodGet, "/")
	for _, c := range resp.Cookies() {
		require.NotEqual(t, sessionCookie, c.Name)
	}
	do(t, s, http.MethodGet, "/team", &http.Cookie{Name: sessionCookie, Value: "unknown"})
	require.Equal(t, 0, s.sessions.count())
}

func TestPrivacyCloseBeforeFetchCompletes(t *testing.T) {
	src := &stubSource{text: "# Late", release: make(chan struct{})}

	res, err := assets.NewAssetResolver("")
	require.NoError(t, err)
	s, err := New(Options{
		Log:      zap.NewNop().Sugar(),
		Assets:   res,
		Source:   src,
		Exporter: &stubExporter{},
		LoadWait: 10 * time.Millisecond,
	})
	require.NoError(t, err)
	defer s.Close()

	resp, _ := do(t, s, http.MethodGet, "/privacy")
	cookie := viewerCookie(t, resp)
	do(t, s, http.MethodGet, "/privacy/close", cookie)

	close(src.release)
	time.Sleep(50 * time.Millisecond)

	sess, ok := s.sessions.lookup(cookie.Value)
	require.True(t, ok)
	require.Equal(t, lekka.ViewerClosed, sess.viewer.State())
}

// ---------------------------------------------------------------------------
// Export
// ---------------------------------------------------------------------------

func TestExportSendsPDF(t *testing.T) {
	exp := &stubExporter{}
	s := newTestServer(t, &stubSource{text: "# Privacy Policy\n\nWe keep data on your device."}, exp)

	resp, _ := do(t, s, http.MethodGet, "/privacy")
	cookie := viewerCookie(t, resp)

	resp, body := do(t, s, http.MethodGet, "/privacy/export", cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	require.Equal(t, `attachment; filename="Labour-Lekka-Privacy-Policy.pdf"`, resp.Header.Get("Content-Disposition"))
	require.Equal(t, "%PDF-1.4 stub", body)

	exp.mu.Lock()
	doc := exp.doc
	exp.mu.Unlock()
	require.Contains(t, doc, `id="policy-content"`)
	require.Contains(t, doc, "We keep data on your device.")
	require.Contains(t, doc, `<body class="capture">`)
	require.Contains(t, doc, `<base href="http://example.com/">`)
}

func TestExportUsesPublicURLAsBase(t *testing.T) {
	exp := &stubExporter{}
	res, err := assets.NewAssetResolver("")
	require.NoError(t, err)
	s, err := New(Options{
		Log:       zap.NewNop().Sugar(),
		Assets:    res,
		Source:    &stubSource{text: "![logo](logo_lale.svg)"},
		Exporter:  exp,
		LoadWait:  2 * time.Second,
		PublicURL: "https://labourlekka.example",
	})
	require.NoError(t, err)
	defer s.Close()

	resp, _ := do(t, s, http.MethodGet, "/privacy")
	cookie := viewerCookie(t, resp)

	req := httptest.NewRequest(http.MethodGet, "/privacy/export", nil)
	req.Host = "attacker.invalid"
	req.AddCookie(cookie)
	resp, err = s.App().Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	exp.mu.Lock()
	doc := exp.doc
	exp.mu.Unlock()
	require.Contains(t, doc, `<base href="https://labourlekka.example/">`)
	require.Contains(t, doc, `src="/static/logo_lale.svg"`)
	require.NotContains(t, doc, "attacker.invalid")
}

func TestListenOrigin(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{"0.0.0.0:8080", "http://127.0.0.1:8080"},
		{"[::]:8080", "http://127.0.0.1:8080"},
		{"127.0.0.1:3000", "http://127.0.0.1:3000"},
		{"[::1]:3000", "http://[::1]:3000"},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			addr, err := net.ResolveTCPAddr("tcp", tt.addr)
			require.NoError(t, err)
			require.Equal(t, tt.want, listenOrigin(addr))
		})
	}
}

func TestExportFailureShowsAlertAndKeepsViewerOpen(t *testing.T) {
	exp := &stubExporter{err: errors.Join(lekka.ErrCapture, errors.New("tainted canvas"))}
	s := newTestServer(t, &stubSource{text: "# Policy"}, exp)

	resp, _ := do(t, s, http.MethodGet, "/privacy")
	cookie := viewerCookie(t, resp)

	resp, body := do(t, s, http.MethodGet, "/privacy/export", cookie)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.Contains(t, body, "Failed to export PDF. Please try again.")
	require.Contains(t, body, `id="policy-content"`)

	sess, ok := s.sessions.lookup(cookie.Value)
	require.True(t, ok)
	require.Equal(t, lekka.ViewerReady, sess.viewer.State())
}

func TestExportWithoutOpenViewerRedirects(t *testing.T) {
	s := newTestServer(t, &stubSource{text: "# Policy"}, &stubExporter{})

	resp, _ := do(t, s, http.MethodGet, "/privacy/export")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/privacy", resp.Header.Get("Location"))
}

func TestPoolExporter(t *testing.T) {
	pool := lekka.NewExporterPool(1, lekka.WithSettings(lekka.ExportSettings{}))
	defer pool.Close()

	// Invalid settings make the pool fail to build an exporter.
	_, err := (&PoolExporter{Pool: pool}).Export(context.Background(), "<html></html>")
	require.ErrorIs(t, err, lekka.ErrInvalidPageSize)
}

// ---------------------------------------------------------------------------
// Carousel
// ---------------------------------------------------------------------------

func TestCarouselEndpoints(t *testing.T) {
	s := newTestServer(t, &stubSource{}, &stubExporter{})
	last := len(lekka.DefaultSlides()) - 1

	var state carouselState
	_, body := do(t, s, http.MethodGet, "/carousel")
	require.NoError(t, json.Unmarshal([]byte(body), &state))
	require.Equal(t, 0, state.Index)
	require.Equal(t, time.Hour.Milliseconds(), state.IntervalMS)
	require.Len(t, state.Slides, len(lekka.DefaultSlides()))
	require.True(t, state.Slides[0].Active)

	tests := []struct {
		name         string
		target       string
		wantStatus   int
		wantLocation string
	}{
		{"next from shared position", "/carousel/next", http.StatusSeeOther, "/?slide=1"},
		{"next from visitor slide", "/carousel/next?slide=1", http.StatusSeeOther, "/?slide=2"},
		{"next wraps", "/carousel/next?slide=" + strconv.Itoa(last), http.StatusSeeOther, "/?slide=0"},
		{"prev wraps", "/carousel/prev?slide=0", http.StatusSeeOther, "/?slide=" + strconv.Itoa(last)},
		{"prev ignores bad slide", "/carousel/prev?slide=x", http.StatusSeeOther, "/?slide=" + strconv.Itoa(last)},
		{"jump", "/carousel/2", http.StatusSeeOther, "/?slide=2"},
		{"jump out of range", "/carousel/9", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := do(t, s, http.MethodPost, tt.target)
			require.Equal(t, tt.wantStatus, resp.StatusCode)
			require.Equal(t, tt.wantLocation, resp.Header.Get("Location"))
		})
	}

	require.Equal(t, 0, s.Carousel().Index())
}

func TestCarouselNavigationIsPerVisitor(t *testing.T) {
	s := newTestServer(t, &stubSource{}, &stubExporter{})

	a := &http.Cookie{Name: sessionCookie, Value: "visitor-a"}
	b := &http.Cookie{Name: sessionCookie, Value: "visitor-b"}

	resp, _ := do(t, s, http.MethodPost, "/carousel/next?slide=0", a)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	_, body := do(t, s, http.MethodGet, resp.Header.Get("Location"), a)
	require.Contains(t, body, `class="slide active" data-index="1"`)
	require.Contains(t, body, `action="/carousel/next?slide=1"`)

	_, body = do(t, s, http.MethodGet, "/", b)
	require.Contains(t, body, `class="slide active" data-index="0"`)
	require.Contains(t, body, `action="/carousel/next?slide=0"`)

	require.Equal(t, 0, s.Carousel().Index())
}

func TestHomeIgnoresOutOfRangeSlide(t *testing.T) {
	s := newTestServer(t, &stubSource{}, &stubExporter{})
	require.NoError(t, s.Carousel().Jump(2))

	for _, target := range []string{"/?slide=-1", "/?slide=99", "/?slide=two"} {
		resp, body := do(t, s, http.MethodGet, target)
		require.Equal(t, http.StatusOK, resp.StatusCode, target)
		require.Contains(t, body, `class="slide active" data-index="2"`, target)
	}
}

func TestCarouselStateIndexMatchesSlides(t *testing.T) {
	s := newTestServer(t, &stubSource{}, &stubExporter{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		for ctx.Err() == nil {
			s.Carousel().Next()
		}
	}()

	for range 50 {
		var state carouselState
		_, body := do(t, s, http.MethodGet, "/carousel")
		require.NoError(t, json.Unmarshal([]byte(body), &state))
		require.True(t, state.Slides[state.Index].Active, "index %d is not the active slide", state.Index)
	}
}

// ---------------------------------------------------------------------------
// Serve
// ---------------------------------------------------------------------------

func TestRunStopsOnCancel(t *testing.T) {
	s := newTestServer(t, &stubSource{}, &stubExporter{})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	res, err := assets.NewAssetResolver("")
	require.NoError(t, err)
	s, err := New(Options{
		Log:      zap.New(core).Sugar(),
		Assets:   res,
		Source:   &stubSource{},
		Exporter: &stubExporter{},
	})
	require.NoError(t, err)
	defer s.Close()

	do(t, s, http.MethodGet, "/healthz")
	do(t, s, http.MethodPost, "/carousel/42")

	entries := logs.FilterMessage("http").All()
	require.Len(t, entries, 2)

	first := entries[0].ContextMap()
	require.Equal(t, "GET", first["method"])
	require.Equal(t, "/healthz", first["path"])
	require.EqualValues(t, http.StatusOK, first["status"])
	require.NotEmpty(t, first["request_id"])

	second := entries[1].ContextMap()
	require.Equal(t, "POST", second["method"])
	require.Equal(t, "/carousel/42", second["path"])
	require.EqualValues(t, http.StatusBadRequest, second["status"])
}

func TestRequestLoggerFieldsOutliveRequest(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	res, err := assets.NewAssetResolver("")
	require.NoError(t, err)
	s, err := New(Options{
		Log:      zap.New(core).Sugar(),
		Assets:   res,
		Source:   &stubSource{},
		Exporter: &stubExporter{},
	})
	require.NoError(t, err)
	defer s.Close()

	do(t, s, http.MethodGet, "/team?from=a")
	for i := 0; i < 8; i++ {
		do(t, s, http.MethodDelete, "/privacy/viewer-"+strconv.Itoa(i))
	}

	entries := logs.FilterMessage("http").All()
	require.Len(t, entries, 9)
	first := entries[0].ContextMap()
	require.Equal(t, "GET", first["method"])
	require.Equal(t, "/team?from=a", first["path"])
}
