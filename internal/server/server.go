// Package server serves the site pages, the policy viewer and PDF export over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	lekka "github.com/NandanaMD/labourlekka-web"
	"github.com/NandanaMD/labourlekka-web/internal/assets"
	"github.com/NandanaMD/labourlekka-web/internal/views"
)

// Defaults for zero Options fields.
const (
	defaultFetchTimeout    = 10 * time.Second
	defaultExportTimeout   = 30 * time.Second
	defaultShutdownTimeout = 5 * time.Second
	defaultLoadWait        = 1500 * time.Millisecond
	loadingRefresh         = time.Second
	sweepInterval          = time.Minute
	staticMaxAge           = 3600
)

// Exporter turns a capture document into a PDF. *lekka.Exporter and
// PoolExporter satisfy it.
type Exporter interface {
	Export(ctx context.Context, htmlDoc string) (*lekka.ExportResult, error)
}

// Options configures a Server. Log, Assets, Source and Exporter are required.
type Options struct {
	Log      *zap.SugaredLogger
	Assets   *assets.AssetResolver
	Source   lekka.PolicySource
	Exporter Exporter
	Carousel *lekka.Carousel // nil uses DefaultSlides at DefaultInterval

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	FetchTimeout    time.Duration // bounds one policy fetch
	ExportTimeout   time.Duration // bounds one PDF export
	LoadWait        time.Duration // how long /privacy waits for a fetch before showing the loading page

	// PublicURL is the origin the export browser resolves /static paths
	// against. Empty uses the address Serve listens on.
	PublicURL string
}

// Server is the site HTTP server.
type Server struct {
	app      *fiber.App
	log      *zap.SugaredLogger
	assets   *assets.AssetResolver
	exporter Exporter
	carousel *lekka.Carousel
	renderer *lekka.PolicyRenderer
	sessions *sessionStore

	captureCSS      string
	captureBase     string
	fetchTimeout    time.Duration
	exportTimeout   time.Duration
	shutdownTimeout time.Duration
	loadWait        time.Duration

	// ctx outlives requests; policy fetches run on it so a visitor leaving
	// the page does not abort the fetch their session is waiting for.
	ctx    context.Context
	cancel context.CancelFunc
}

// New builds the server and registers all routes.
func New(opts Options) (*Server, error) {
	switch {
	case opts.Log == nil:
		return nil, errors.New("server: logger is required")
	case opts.Assets == nil:
		return nil, errors.New("server: assets are required")
	case opts.Source == nil:
		return nil, errors.New("server: policy source is required")
	case opts.Exporter == nil:
		return nil, errors.New("server: exporter is required")
	}

	css, err := views.CaptureStyles(opts.Assets)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	carousel := opts.Carousel
	if carousel == nil {
		carousel = lekka.NewCarousel(lekka.DefaultSlides(), lekka.DefaultInterval)
	}

	ctx, cancel := context.WithCancel(context.Background())
	renderer := lekka.NewPolicyRenderer(lekka.WithAssetBase(views.StaticPrefix))

	s := &Server{
		log:             opts.Log,
		assets:          opts.Assets,
		exporter:        opts.Exporter,
		carousel:        carousel,
		renderer:        renderer,
		captureCSS:      css,
		captureBase:     baseHref(opts.PublicURL),
		fetchTimeout:    orDefault(opts.FetchTimeout, defaultFetchTimeout),
		exportTimeout:   orDefault(opts.ExportTimeout, defaultExportTimeout),
		shutdownTimeout: orDefault(opts.ShutdownTimeout, defaultShutdownTimeout),
		loadWait:        orDefault(opts.LoadWait, defaultLoadWait),
		ctx:             ctx,
		cancel:          cancel,
	}
	s.sessions = newSessionStore(func() *lekka.Viewer {
		return lekka.NewViewer(opts.Source, renderer)
	})

	s.app = fiber.New(fiber.Config{
		ReadTimeout:           opts.ReadTimeout,
		WriteTimeout:          opts.WriteTimeout,
		ErrorHandler:          errorHandler(opts.Log),
		DisableStartupMessage: true,
	})
	s.routes()
	return s, nil
}

// baseHref returns origin with exactly one trailing slash, or "" for "".
func baseHref(origin string) string {
	if origin == "" {
		return ""
	}
	return strings.TrimRight(origin, "/") + "/"
}

// listenOrigin returns the loopback origin for a listener address.
// Unspecified hosts map to 127.0.0.1.
func listenOrigin(addr net.Addr) string {
	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return ""
	}
	if ip := net.ParseIP(host); ip == nil || ip.IsUnspecified() {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port)
}

func orDefault(d, def time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return def
}

func (s *Server) routes() {
	s.app.Use(recover.New())
	s.app.Use(requestid.New())
	s.app.Use(RequestLogger(s.log))

	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	s.app.Get(views.PathHome, s.handleHome)
	s.app.Get(views.PathTeam, s.handleTeam)
	s.app.Get("/view", s.handleView)

	s.app.Get(views.PathPrivacy, s.handlePrivacy)
	s.app.Get(views.PathPrivacyClose, s.handlePrivacyClose)
	s.app.Get(views.PathExport, s.handleExport)
	s.app.Get("/"+assets.PolicyFile, s.handlePolicyMarkdown)

	s.app.Get(views.PathCarousel, s.handleCarousel)
	s.app.Post(views.PathCarousel+"/next", s.handleCarouselNext)
	s.app.Post(views.PathCarousel+"/prev", s.handleCarouselPrev)
	s.app.Post(views.PathCarousel+"/:index<int>", s.handleCarouselJump)

	s.app.Get(views.PathPrivacyPage, s.staticPage(lekka.PrivacyPageFile))
	s.app.Get(views.PathDataDeletion, s.staticPage(lekka.DataDeletionPageFile))

	s.app.Use(strings.TrimSuffix(views.StaticPrefix, "/"), filesystem.New(filesystem.Config{
		Root:   http.FS(s.assets),
		MaxAge: staticMaxAge,
	}))
}

// App exposes the fiber app, e.g. for app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

// Carousel returns the shared carousel.
func (s *Server) Carousel() *lekka.Carousel {
	return s.carousel
}

// Close stops background work started on behalf of sessions, such as
// pending policy fetches. Serve calls it on return.
func (s *Server) Close() {
	s.cancel()
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done. The carousel ticker and the session
// sweeper run for the lifetime of the call.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer s.cancel()

	if s.captureBase == "" {
		s.captureBase = baseHref(listenOrigin(ln.Addr()))
	}

	go s.carousel.Run(s.ctx)
	go s.sessions.sweep(s.ctx, sweepInterval, func(n int) {
		s.log.Debugw("expired viewer sessions", "count", n)
	})

	errCh := make(chan error, 1)
	go func() {
		s.log.Infow("listening", "addr", ln.Addr().String())
		errCh <- s.app.Listener(ln)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	done := make(chan struct{})
	go func() {
		_ = s.app.Shutdown()
		close(done)
	}()

	select {
	case <-done:
		s.log.Infow("server stopped")
	case <-shutdownCtx.Done():
		s.log.Warnw("server shutdown timeout", "timeout", s.shutdownTimeout)
	}
	return nil
}
