package lekka

import "errors"

// Sentinel errors for library operations.
var (
	// Policy fetch errors. FetchPolicy turns all of them into the fallback text.
	ErrPolicyStatus   = errors.New("policy fetch returned non-success status")
	ErrPolicyTooLarge = errors.New("policy exceeds maximum size")
	ErrPolicySource   = errors.New("invalid policy source")

	// Rendering errors.
	ErrEmptyDocument = errors.New("document content cannot be empty")
	ErrHTMLRender    = errors.New("HTML rendering failed")

	// Capture errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrRegionNotFound = errors.New("capture region not found")
	ErrCapture        = errors.New("region capture failed")
	ErrStyleRestore   = errors.New("failed to restore region style")

	// PDF assembly errors.
	ErrImageDecode = errors.New("failed to decode captured image")
	ErrPDFEncode   = errors.New("PDF encoding failed")

	// Export settings validation errors.
	ErrInvalidPageSize   = errors.New("invalid page size")
	ErrInvalidMargin     = errors.New("invalid margin")
	ErrInvalidScale      = errors.New("invalid capture scale")
	ErrInvalidPadding    = errors.New("invalid capture padding")
	ErrInvalidBackground = errors.New("invalid background color")
	ErrInvalidSelector   = errors.New("invalid region selector")
	ErrInvalidFilename   = errors.New("invalid export filename")

	// Carousel errors.
	ErrSlideOutOfRange = errors.New("slide index out of range")
)
