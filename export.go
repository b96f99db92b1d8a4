package lekka

import (
	"context"
	"fmt"
	"time"
)

// ExportResult is a finished policy PDF.
type ExportResult struct {
	PDF      []byte
	Pages    int
	Filename string
}

// Exporter rasterizes the rendered policy region and paginates it into a PDF.
// Create with NewExporter, call Export, and Close when done.
// An Exporter owns one browser and is not safe for concurrent Export calls;
// use ExporterPool to serve parallel requests.
type Exporter struct {
	settings ExportSettings
	timeout  time.Duration
	capturer regionCapturer
	encoder  pdfEncoder
}

// NewExporter creates an Exporter with A4 defaults.
// The browser is launched lazily on the first Export.
func NewExporter(opts ...Option) (*Exporter, error) {
	e := &Exporter{
		settings: DefaultExportSettings(),
		timeout:  defaultTimeout,
	}

	for _, opt := range opts {
		opt(e)
	}

	if err := e.settings.Validate(); err != nil {
		return nil, err
	}

	// Create backends if not injected (e.g., by tests)
	if e.capturer == nil {
		e.capturer = newRodCapturer(e.timeout)
	}
	if e.encoder == nil {
		e.encoder = newFPDFEncoder()
	}

	return e, nil
}

// Settings returns the export settings in use.
func (e *Exporter) Settings() ExportSettings {
	return e.settings
}

// Export captures the region of htmlDoc matched by the settings selector and
// returns the paginated PDF. htmlDoc must be a complete document; see
// internal/views.CaptureDocument.
func (e *Exporter) Export(ctx context.Context, htmlDoc string) (*ExportResult, error) {
	if htmlDoc == "" {
		return nil, ErrEmptyDocument
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	img, err := e.capturer.Capture(ctx, htmlDoc, e.settings)
	if err != nil {
		return nil, fmt.Errorf("capturing policy: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf, pages, err := e.encoder.Encode(img, e.settings)
	if err != nil {
		return nil, fmt.Errorf("encoding PDF: %w", err)
	}

	return &ExportResult{
		PDF:      pdf,
		Pages:    pages,
		Filename: e.settings.Filename,
	}, nil
}

// Close releases resources (headless Chrome browser).
func (e *Exporter) Close() error {
	if e.capturer != nil {
		return e.capturer.Close()
	}
	return nil
}
