package assets

import (
	"fmt"
	"os"
	"path/filepath"
)

// NewDirLoader returns a loader confined to dir. Reads go through os.Root,
// so neither ".." nor a symlink can reach files outside dir.
// Returns ErrInvalidBasePath if dir is not an openable directory.
func NewDirLoader(dir string) (*FSLoader, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}

	info, err := os.Stat(abs)
	switch {
	case os.IsNotExist(err):
		return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, abs)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	case !info.IsDir():
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, abs)
	}

	root, err := os.OpenRoot(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	return &FSLoader{fsys: root.FS(), dir: abs, root: root}, nil
}
