package lekka

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/NandanaMD/labourlekka-web/internal/fileutil"
	"github.com/NandanaMD/labourlekka-web/internal/process"
)

// Capture viewport in CSS pixels. The width matches the on-screen policy card.
const (
	captureViewportWidth  = 900
	captureViewportHeight = 1200
)

// regionCapturer abstracts rasterizing a region of an HTML document to allow
// testing the exporter without a browser.
type regionCapturer interface {
	Capture(ctx context.Context, htmlDoc string, settings ExportSettings) ([]byte, error)
	Close() error
}

// styleTarget is a region whose inline style can be read, changed and
// photographed.
type styleTarget interface {
	Style(prop string) (string, error)
	SetStyle(prop, value string) error
	Screenshot(ctx context.Context) ([]byte, error)
}

// Compile-time interface checks.
var (
	_ regionCapturer = (*rodCapturer)(nil)
	_ styleTarget    = (*rodRegion)(nil)
)

// captureWithStyle forces the export background and padding on t, takes the
// screenshot and puts the previous inline values back. The restore runs on
// every path once the originals were read, including a failed screenshot.
func captureWithStyle(ctx context.Context, t styleTarget, settings ExportSettings) (img []byte, err error) {
	prevBackground, err := t.Style("background")
	if err != nil {
		return nil, fmt.Errorf("%w: reading background: %v", ErrCapture, err)
	}
	prevPadding, err := t.Style("padding")
	if err != nil {
		return nil, fmt.Errorf("%w: reading padding: %v", ErrCapture, err)
	}

	defer func() {
		restoreErr := errors.Join(
			t.SetStyle("background", prevBackground),
			t.SetStyle("padding", prevPadding),
		)
		if restoreErr != nil && err == nil {
			img, err = nil, fmt.Errorf("%w: %v", ErrStyleRestore, restoreErr)
		}
	}()

	if err := t.SetStyle("background", settings.Background); err != nil {
		return nil, fmt.Errorf("%w: setting background: %v", ErrCapture, err)
	}
	if err := t.SetStyle("padding", settings.paddingCSS()); err != nil {
		return nil, fmt.Errorf("%w: setting padding: %v", ErrCapture, err)
	}

	img, err = t.Screenshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCapture, err)
	}
	return img, nil
}

// rodRegion adapts a rod element to styleTarget.
type rodRegion struct {
	page *rod.Page
	el   *rod.Element
}

func (r *rodRegion) Style(prop string) (string, error) {
	res, err := r.el.Eval(`(p) => this.style[p]`, prop)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

func (r *rodRegion) SetStyle(prop, value string) error {
	_, err := r.el.Eval(`(p, v) => { this.style[p] = v }`, prop, value)
	return err
}

// Screenshot clips the page to the region's current box. The box is read
// after the style change so the forced padding is part of the capture.
func (r *rodRegion) Screenshot(ctx context.Context) ([]byte, error) {
	shape, err := r.el.Context(ctx).Shape()
	if err != nil {
		return nil, err
	}
	box := shape.Box()
	if box == nil || box.Width <= 0 || box.Height <= 0 {
		return nil, errors.New("region has no visible box")
	}

	return r.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
		Clip: &proto.PageViewport{
			X:      box.X,
			Y:      box.Y,
			Width:  box.Width,
			Height: box.Height,
			Scale:  1,
		},
		CaptureBeyondViewport: true,
	})
}

// rodCapturer implements regionCapturer using go-rod.
// Rod automatically downloads Chromium on first run if not found.
type rodCapturer struct {
	timeout time.Duration

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
}

// newRodCapturer creates a rodCapturer with the given timeout.
func newRodCapturer(timeout time.Duration) *rodCapturer {
	return &rodCapturer{timeout: timeout}
}

// ensureBrowser lazily launches and connects to the browser.
func (c *rodCapturer) ensureBrowser() (*rod.Browser, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.browser != nil {
		return c.browser, nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	c.launcher = l
	c.browser = browser
	return browser, nil
}

// Close releases browser resources and kills the browser process tree.
func (c *rodCapturer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.browser == nil {
		return nil
	}

	err := c.browser.Close()
	process.KillGroup(c.launcher.PID())
	c.launcher.Kill()
	c.launcher.Cleanup()

	c.browser = nil
	c.launcher = nil
	return err
}

// Capture writes htmlDoc to a temp file, loads it at the configured scale and
// screenshots the region matched by settings.Selector.
func (c *rodCapturer) Capture(ctx context.Context, htmlDoc string, settings ExportSettings) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	url, cleanup, err := fileutil.WriteCapturePage(htmlDoc)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	browser, err := c.ensureBrowser()
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}
	p := page.Context(ctx).Timeout(timeout)

	if err := p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             captureViewportWidth,
		Height:            captureViewportHeight,
		DeviceScaleFactor: settings.Scale,
	}); err != nil {
		return nil, fmt.Errorf("%w: setting viewport: %v", ErrPageLoad, err)
	}

	if err := p.Navigate(url); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := p.WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	// Check context after page load
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	found, el, err := p.Has(settings.Selector)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCapture, err)
	}
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrRegionNotFound, settings.Selector)
	}

	return captureWithStyle(ctx, &rodRegion{page: p, el: el}, settings)
}
