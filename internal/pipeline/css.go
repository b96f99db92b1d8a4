package pipeline

import "strings"

// SanitizeCSS escapes sequences that could close the <style> element the
// CSS is inlined into. Stylesheets can come from a custom asset directory,
// so they are not trusted to be free of "</style>".
func SanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
