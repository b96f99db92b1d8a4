package assets

import (
	"embed"
	"io/fs"
)

//go:embed static
var static embed.FS

// NewEmbeddedLoader returns a loader for the assets compiled into the binary.
func NewEmbeddedLoader() *FSLoader {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return &FSLoader{fsys: sub}
}
