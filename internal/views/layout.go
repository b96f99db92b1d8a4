// Package views renders the site pages as HTML with gomponents.
package views

import (
	"bytes"
	"io"
	"strings"

	g "maragu.dev/gomponents"
	c "maragu.dev/gomponents/components"
	. "maragu.dev/gomponents/html"

	"github.com/NandanaMD/labourlekka-web/internal/assets"
)

// StaticPrefix is the URL path the asset root is mounted under.
const StaticPrefix = "/static/"

const siteName = "Labour Lekka"

// Route paths linked from the pages.
const (
	PathHome         = "/"
	PathTeam         = "/team"
	PathPrivacy      = "/privacy"
	PathPrivacyClose = "/privacy/close"
	PathExport       = "/privacy/export"
	PathCarousel     = "/carousel"
	PathPrivacyPage  = "/privacy-policy.html"
	PathDataDeletion = "/data-deletion.html"
)

// Asset returns the URL of a file under the asset root.
func Asset(name string) string {
	return StaticPrefix + strings.TrimPrefix(name, "/")
}

func stylesheet(name string) g.Node {
	return Link(Rel("stylesheet"), Href(Asset("styles/"+name+".css")))
}

type pageProps struct {
	title       string
	description string
	bodyClass   string
	style       string
	head        []g.Node
}

// page wraps body in the HTML5 document shared by all site pages.
func page(p pageProps, body ...g.Node) g.Node {
	title := siteName
	if p.title != "" {
		title = p.title + " | " + siteName
	}

	style := p.style
	if style == "" {
		style = assets.StyleSite
	}

	head := []g.Node{
		Link(Rel("icon"), Href(Asset("logo_lale.svg"))),
		stylesheet(style),
	}
	head = append(head, p.head...)

	return c.HTML5(c.HTML5Props{
		Title:       title,
		Description: p.description,
		Language:    "en",
		Head:        head,
		Body: []g.Node{
			g.If(p.bodyClass != "", Class(p.bodyClass)),
			g.Group(body),
		},
	})
}

// brand is the logo and name shown at the top left of every page.
func brand() g.Node {
	return A(Class("brand"), Href(PathHome),
		Img(Src(Asset("logo_lale.svg")), Alt("Labour Lekka logo"), Width("40"), Height("40")),
		Span(g.Text(siteName)),
	)
}

func siteNav(links ...g.Node) g.Node {
	return Header(
		Nav(Class("nav"),
			brand(),
			Div(Class("nav-links"), g.Group(links)),
		),
	)
}

func siteFooter() g.Node {
	return Footer(Class("site-footer"),
		P(g.Raw("&copy; 2025 Labour Lekka. Built with care.")),
	)
}

// Render writes n to w.
func Render(w io.Writer, n g.Node) error {
	return n.Render(w)
}

// String renders n to a string.
func String(n g.Node) (string, error) {
	var buf bytes.Buffer
	if err := n.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
