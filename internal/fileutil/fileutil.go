// Package fileutil holds the small file helpers shared by the exporter, the
// CLI and config loading.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// capturePattern names capture pages so stray files are easy to spot in /tmp.
const capturePattern = "lekka-capture-*.html"

// WriteCapturePage writes an HTML document to a temp file for the browser to
// load and returns its file:// URL. cleanup removes the file.
func WriteCapturePage(htmlDoc string) (url string, cleanup func(), err error) {
	path, err := writeTemp("", capturePattern, []byte(htmlDoc))
	if err != nil {
		return "", nil, err
	}
	cleanup = func() { _ = os.Remove(path) }

	url, err = FileURL(path)
	if err != nil {
		cleanup()
		return "", nil, err
	}
	return url, cleanup, nil
}

// WriteFileAtomic writes data next to path and renames it into place, so a
// failed export never leaves a truncated PDF behind.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := writeTemp(filepath.Dir(path), "."+filepath.Base(path)+".*", data)
	if err != nil {
		return err
	}

	if err := os.Chmod(tmp, perm); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("moving %s into place: %w", path, err)
	}
	return nil
}

// writeTemp creates a file in dir from pattern holding data. Nothing is left
// on disk when it fails.
func writeTemp(dir, pattern string, data []byte) (string, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}

	_, werr := f.Write(data)
	cerr := f.Close()
	if werr != nil || cerr != nil {
		_ = os.Remove(f.Name())
		if werr != nil {
			return "", fmt.Errorf("writing temp file: %w", werr)
		}
		return "", fmt.Errorf("closing temp file: %w", cerr)
	}
	return f.Name(), nil
}

// FileURL converts a local path to a file:// URL usable by the browser.
func FileURL(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %q: %w", path, err)
	}
	return "file://" + filepath.ToSlash(abs), nil
}

// FileExists reports whether path names a regular file (not a directory).
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// IsFilePath reports whether s is a path ("./site.yaml") rather than a bare
// config name ("site").
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsURL reports whether s is an http or https URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
