package assets

import "errors"

var (
	// ErrStyleNotFound is returned for a stylesheet name with no styles/<name>.css.
	ErrStyleNotFound = errors.New("style not found")

	// ErrFileNotFound is returned when no tree holds the requested file.
	ErrFileNotFound = errors.New("asset not found")

	// ErrInvalidAssetName rejects names with separators, dots or traversal.
	ErrInvalidAssetName = errors.New("invalid asset name")

	// ErrInvalidBasePath rejects an asset directory that cannot be opened.
	ErrInvalidBasePath = errors.New("invalid base path")

	// ErrAssetRead wraps I/O failures other than a missing file.
	ErrAssetRead = errors.New("failed to read asset")

	// ErrPathTraversal is returned when a symlink leads outside the asset directory.
	ErrPathTraversal = errors.New("path traversal detected")
)
