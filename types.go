package lekka

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// defaultTimeout bounds one export when no deadline is set.
const defaultTimeout = 30 * time.Second

// ExportFilename is the name offered for the downloaded policy PDF.
const ExportFilename = "Labour-Lekka-Privacy-Policy.pdf"

// RegionSelector identifies the rendered policy inside the capture document.
const RegionSelector = "#policy-content"

// PageSize is a page size in points (1/72 inch).
type PageSize struct {
	Width  float64
	Height float64
}

// PageA4 is ISO A4 portrait in points.
var PageA4 = PageSize{Width: 595.28, Height: 841.89}

// Capture defaults.
const (
	DefaultMargin     = 30.0
	DefaultScale      = 2.0
	DefaultPadding    = 40
	DefaultBackground = "#ffffff"
)

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ExportSettings controls capture and pagination of the policy PDF.
type ExportSettings struct {
	Page       PageSize
	Margin     float64 // points, applied left, right and on top of page 1
	Scale      float64 // device pixels per CSS pixel during capture
	Padding    int     // CSS px applied to the region while capturing
	Background string  // CSS color forced on the region while capturing
	Selector   string
	Filename   string
	Stamp      string // free text written into the PDF subject, e.g. the export date
}

// DefaultExportSettings returns A4 pages with a 30pt margin and a 2x capture.
func DefaultExportSettings() ExportSettings {
	return ExportSettings{
		Page:       PageA4,
		Margin:     DefaultMargin,
		Scale:      DefaultScale,
		Padding:    DefaultPadding,
		Background: DefaultBackground,
		Selector:   RegionSelector,
		Filename:   ExportFilename,
	}
}

// Validate checks that settings are usable.
func (s ExportSettings) Validate() error {
	if s.Page.Width <= 0 || s.Page.Height <= 0 {
		return fmt.Errorf("%w: %.2fx%.2f", ErrInvalidPageSize, s.Page.Width, s.Page.Height)
	}
	if s.Margin < 0 || 2*s.Margin >= s.Page.Width || s.Margin >= s.Page.Height {
		return fmt.Errorf("%w: %.2f does not fit a %.2fx%.2f page", ErrInvalidMargin, s.Margin, s.Page.Width, s.Page.Height)
	}
	if s.Scale <= 0 {
		return fmt.Errorf("%w: %.2f", ErrInvalidScale, s.Scale)
	}
	if s.Padding < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPadding, s.Padding)
	}
	if !hexColorPattern.MatchString(s.Background) {
		return fmt.Errorf("%w: %q (use #rgb or #rrggbb)", ErrInvalidBackground, s.Background)
	}
	if strings.TrimSpace(s.Selector) == "" {
		return ErrInvalidSelector
	}
	if s.Filename == "" || strings.ContainsAny(s.Filename, "/\\\x00") || !strings.HasSuffix(strings.ToLower(s.Filename), ".pdf") {
		return fmt.Errorf("%w: %q", ErrInvalidFilename, s.Filename)
	}
	return nil
}

// paddingCSS renders the padding value as a CSS length.
func (s ExportSettings) paddingCSS() string {
	return fmt.Sprintf("%dpx", s.Padding)
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithTimeout sets the capture timeout for one export.
func WithTimeout(d time.Duration) Option {
	return func(e *Exporter) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithSettings replaces the default export settings.
func WithSettings(s ExportSettings) Option {
	return func(e *Exporter) {
		e.settings = s
	}
}
