package main

import (
	"context"
	"errors"
	"os"

	lekka "github.com/NandanaMD/labourlekka-web"
	"github.com/NandanaMD/labourlekka-web/internal/assets"
	"github.com/NandanaMD/labourlekka-web/internal/config"
	"github.com/NandanaMD/labourlekka-web/internal/hints"
)

// Exit codes for the lekka CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Command completed
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // Policy unavailable, file not found, write failure
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must wrap with %w.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, lekka.ErrBrowserConnect) ||
		errors.Is(err, lekka.ErrPageCreate) ||
		errors.Is(err, lekka.ErrPageLoad) ||
		errors.Is(err, lekka.ErrRegionNotFound) ||
		errors.Is(err, lekka.ErrCapture) {
		return ExitBrowser
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrPolicyUnavailable) ||
		errors.Is(err, ErrWritePDF) ||
		errors.Is(err, ErrWriteOutput) {
		return ExitIO
	}

	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrConfigInvalid) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, assets.ErrInvalidBasePath) ||
		errors.Is(err, lekka.ErrPolicySource) ||
		errors.Is(err, lekka.ErrInvalidPageSize) ||
		errors.Is(err, lekka.ErrInvalidMargin) ||
		errors.Is(err, lekka.ErrInvalidScale) ||
		errors.Is(err, lekka.ErrInvalidPadding) ||
		errors.Is(err, lekka.ErrInvalidBackground) ||
		errors.Is(err, lekka.ErrInvalidSelector) ||
		errors.Is(err, lekka.ErrInvalidFilename) {
		return ExitUsage
	}

	return ExitGeneral
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	var pe *policyError
	var le *listenError
	switch {
	case errors.As(err, &pe):
		return hints.ForPolicySource(pe.source)
	case errors.Is(err, lekka.ErrBrowserConnect):
		return hints.ForBrowserConnect(os.Getenv)
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.As(err, &le):
		return hints.ForListenAddress(le.addr)
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound()
	case errors.Is(err, ErrWritePDF), errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	default:
		return ""
	}
}
