package assets

import (
	"errors"
	"io/fs"
)

// AssetResolver combines custom and embedded loaders with fallback logic.
// When a custom loader is configured, it tries custom first, then falls back
// to embedded if the asset is not found in the custom location.
type AssetResolver struct {
	custom   AssetLoader // nil if no custom path configured
	embedded AssetLoader
}

// NewAssetResolver creates an AssetResolver.
// If customBasePath is empty, only embedded assets are used.
// Returns error if customBasePath is set but invalid.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	resolver := &AssetResolver{
		embedded: NewEmbeddedLoader(),
	}

	if customBasePath != "" {
		dir, err := NewDirLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		resolver.custom = dir
	}

	return resolver, nil
}

// LoadStyle loads a CSS style, trying the custom loader first if available.
func (r *AssetResolver) LoadStyle(name string) (string, error) {
	return withFallback(r, func(l AssetLoader) (string, error) {
		return l.LoadStyle(name)
	})
}

// LoadFile loads a static file, trying the custom loader first if available.
func (r *AssetResolver) LoadFile(name string) ([]byte, error) {
	return withFallback(r, func(l AssetLoader) ([]byte, error) {
		return l.LoadFile(name)
	})
}

// Open opens a static file, trying the custom loader first if available.
// Together with the fs.FS assertion below this lets the resolver back an
// HTTP file server.
func (r *AssetResolver) Open(name string) (fs.File, error) {
	f, err := withFallback(r, func(l AssetLoader) (fs.File, error) {
		return l.Open(name)
	})
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: toFSError(err)}
	}
	return f, nil
}

// Exists reports whether a static file can be loaded from either tree.
func (r *AssetResolver) Exists(name string) bool {
	f, err := r.Open(name)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

// HasCustomLoader returns true if a custom asset loader is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

// withFallback implements the custom-first, fallback-to-embedded logic.
// Only "not found" errors fall back; validation and I/O errors are returned.
func withFallback[T any](r *AssetResolver, load func(AssetLoader) (T, error)) (T, error) {
	if r.custom == nil {
		return load(r.embedded)
	}

	v, err := load(r.custom)
	if err == nil || !isNotFoundError(err) {
		return v, err
	}

	return load(r.embedded)
}

// isNotFoundError checks if the error indicates the asset was not found.
func isNotFoundError(err error) bool {
	return errors.Is(err, ErrStyleNotFound) || errors.Is(err, ErrFileNotFound)
}

// toFSError maps asset errors onto fs.ErrNotExist so file servers answer 404
// for missing files and for paths that fail validation.
func toFSError(err error) error {
	switch {
	case isNotFoundError(err),
		errors.Is(err, ErrInvalidAssetName),
		errors.Is(err, ErrPathTraversal):
		return fs.ErrNotExist
	default:
		return err
	}
}

// Compile-time interface checks.
var (
	_ AssetLoader = (*AssetResolver)(nil)
	_ fs.FS       = (*AssetResolver)(nil)
)
