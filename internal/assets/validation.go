package assets

import (
	"fmt"
	"io/fs"
	"strings"
)

// ValidateAssetName checks that a style name is safe for use as a filename.
// Returns ErrInvalidAssetName if the name is empty or contains path separators,
// dots (which could allow extension manipulation), or traversal characters.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

// CleanAssetPath validates a static file path and returns it relative to the
// asset root. "/team/a.jpeg" becomes "team/a.jpeg".
func CleanAssetPath(name string) (string, error) {
	p := strings.TrimPrefix(name, "/")
	if p == "" || p == "." {
		return "", fmt.Errorf("%w: empty path", ErrInvalidAssetName)
	}
	if strings.ContainsAny(p, "\\\x00") || !fs.ValidPath(p) {
		return "", fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return p, nil
}
