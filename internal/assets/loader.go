package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// AssetLoader defines the contract for loading site assets.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadStyle(name string) (string, error)

	// LoadFile loads a static file by slash-separated path, e.g. "team/nandana.jpg".
	// A leading slash is ignored.
	// Returns ErrFileNotFound if the file doesn't exist.
	// Returns ErrInvalidAssetName if the path escapes the asset root.
	LoadFile(name string) ([]byte, error)

	// Open opens a static file for streaming. Same path rules as LoadFile.
	Open(name string) (fs.File, error)
}

// FSLoader serves one asset tree: the bundled copy or a directory on disk.
type FSLoader struct {
	fsys fs.FS
	dir  string   // "" for the bundled tree
	root *os.Root // nil for the bundled tree
}

// Dir returns the directory the loader reads, or "" for the bundled tree.
func (l *FSLoader) Dir() string {
	return l.dir
}

// Close releases the directory handle. It is a no-op for the bundled tree.
func (l *FSLoader) Close() error {
	if l.root == nil {
		return nil
	}
	return l.root.Close()
}

// LoadStyle reads styles/<name>.css.
func (l *FSLoader) LoadStyle(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	b, err := fs.ReadFile(l.fsys, "styles/"+name+".css")
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}
	if err != nil {
		return "", classify(name, err)
	}
	return string(b), nil
}

// LoadFile reads a whole file.
func (l *FSLoader) LoadFile(name string) ([]byte, error) {
	p, err := CleanAssetPath(name)
	if err != nil {
		return nil, err
	}

	b, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return nil, classify(name, err)
	}
	return b, nil
}

// Open opens a file for streaming. Directories report ErrFileNotFound, which
// lets the resolver fall through to the bundled tree.
func (l *FSLoader) Open(name string) (fs.File, error) {
	p, err := CleanAssetPath(name)
	if err != nil {
		return nil, err
	}

	f, err := l.fsys.Open(p)
	if err != nil {
		return nil, classify(name, err)
	}

	info, err := f.Stat()
	if err == nil && info.IsDir() {
		err = fmt.Errorf("%w: %q is a directory", ErrFileNotFound, name)
	}
	if err != nil {
		_ = f.Close()
		return nil, classify(name, err)
	}
	return f, nil
}

// classify maps fs errors onto the package sentinels.
func classify(name string, err error) error {
	switch {
	case errors.Is(err, ErrFileNotFound):
		return err
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %q", ErrFileNotFound, name)
	case escapesRoot(err):
		return fmt.Errorf("%w: %q", ErrPathTraversal, name)
	default:
		return fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
}

// escapesRoot reports whether err is os.Root refusing a path that resolves
// outside its directory. The stdlib does not export that error.
func escapesRoot(err error) bool {
	var pe *fs.PathError
	return errors.As(err, &pe) && pe.Err != nil && pe.Err.Error() == "path escapes from parent"
}

// Compile-time interface check.
var _ AssetLoader = (*FSLoader)(nil)
