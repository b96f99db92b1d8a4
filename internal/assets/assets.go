package assets

// PolicyFile is the bundled policy document, served at /PRIVACY_POLICY.md.
const PolicyFile = "PRIVACY_POLICY.md"

// Style names shipped with the site.
const (
	StyleSite   = "site"
	StylePolicy = "policy"
)

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads a CSS file by name using the default embedded loader.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// LoadPolicy returns the bundled privacy policy Markdown.
func LoadPolicy() (string, error) {
	b, err := defaultLoader.LoadFile(PolicyFile)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
