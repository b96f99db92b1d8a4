// Package assets provides the site's static files, stylesheets and the
// bundled privacy policy.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── FSLoader          - one tree: NewEmbeddedLoader or NewDirLoader
//	    └── AssetResolver     - a directory tree over the bundled one
//
// AssetResolver is the loader used by the server and the exporter. It tries
// the directory loader first, falling back to the bundled tree when the
// file is not found. This lets a deployment replace the policy or add team
// photos without rebuilding the binary. AssetResolver also implements fs.FS
// so the HTTP layer can serve the merged tree directly.
//
// # Directory Structure
//
//	{basePath}/
//	├── PRIVACY_POLICY.md        # policy shown by the viewer
//	├── privacy-policy.html      # static policy page
//	├── data-deletion.html       # static data deletion page
//	├── styles/
//	│   └── {name}.css           # site.css, policy.css
//	├── screens/                 # carousel screenshots
//	└── team/                    # contributor photos (optional)
//
// # Security
//
// Asset names are validated before any lookup. NewDirLoader reads through
// os.Root, which refuses paths and symlinks that resolve outside the directory.
package assets
