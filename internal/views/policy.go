package views

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	g "maragu.dev/gomponents"
	c "maragu.dev/gomponents/components"
	. "maragu.dev/gomponents/html"

	lekka "github.com/NandanaMD/labourlekka-web"
	"github.com/NandanaMD/labourlekka-web/internal/assets"
	"github.com/NandanaMD/labourlekka-web/internal/pipeline"
)

// ExportFailedAlert is shown when a PDF export fails.
const ExportFailedAlert = "Failed to export PDF. Please try again."

// Policy dates shown in the title block.
const (
	PolicyEffective   = "December 30, 2025"
	PolicyLastUpdated = "December 30, 2025"
)

// PolicyData is what the policy viewer shows.
type PolicyData struct {
	State   lekka.ViewerState
	HTML    string        // rendered policy, trusted
	Alert   string        // shown above the policy when set
	Refresh time.Duration // reload period while loading; 0 disables
}

// PolicyPage renders the policy viewer. While loading it shows a spinner and
// reloads itself; once ready the rendered policy sits in the export region.
func PolicyPage(d PolicyData) g.Node {
	loading := d.State != lekka.ViewerReady

	var head []g.Node
	if loading && d.Refresh > 0 {
		head = append(head, Meta(g.Attr("http-equiv", "refresh"), Content(strconv.Itoa(refreshSeconds(d.Refresh)))))
	}

	return page(pageProps{
		title:     "Privacy Policy",
		bodyClass: "policy-page",
		style:     assets.StylePolicy,
		head:      head,
	},
		Header(Class("policy-header"),
			Div(Class("bar"),
				A(Class("back-link"), Href(PathPrivacyClose), g.Raw("&larr; Back")),
				brand(),
				g.If(!loading,
					A(Class("button"), Href(PathExport), g.Text("Export PDF")),
				),
			),
		),
		Main(Class("policy-main"),
			Div(Class("policy-card"),
				Div(Class("policy-title"),
					H1(g.Text("Privacy Policy")),
					P(g.Text("Effective: "+PolicyEffective)),
					Span(g.Text("Last updated: "+PolicyLastUpdated)),
				),
				g.If(d.Alert != "",
					Div(Class("alert"), Role("alert"), g.Text(d.Alert)),
				),
				Div(Class("policy-body"),
					g.If(loading,
						Div(Class("loading"), Aria("live", "polite"),
							Div(Class("spinner"), Aria("hidden", "true")),
							P(g.Text("Loading privacy policy...")),
						),
					),
					g.If(!loading, policyRegion(d.HTML)),
				),
				Div(Class("policy-footer"),
					A(Class("button"), Href(PathPrivacyClose), g.Text("Back to Home")),
				),
			),
		),
	)
}

// policyRegion is the element the exporter captures.
func policyRegion(html string) g.Node {
	return Div(Class("policy-markdown"), ID(strings.TrimPrefix(lekka.RegionSelector, "#")),
		g.Raw(html),
	)
}

func refreshSeconds(d time.Duration) int {
	s := int(d.Round(time.Second) / time.Second)
	if s < 1 {
		return 1
	}
	return s
}

// CaptureStyles returns the stylesheet inlined into the capture document:
// the policy style from loader followed by the code highlighting rules,
// escaped for use inside a <style> element.
func CaptureStyles(loader assets.AssetLoader) (string, error) {
	css, err := loader.LoadStyle(assets.StylePolicy)
	if err != nil {
		return "", fmt.Errorf("loading policy style: %w", err)
	}
	highlight, err := pipeline.HighlightCSS()
	if err != nil {
		return "", err
	}
	return pipeline.SanitizeCSS(css + "\n" + highlight), nil
}

// CaptureDocument is a standalone page holding only the rendered policy in
// the export region. It is loaded from a temp file, so all CSS is inline.
// A non-empty base is emitted as <base href> so root-relative asset paths
// resolve against the site instead of the file system.
func CaptureDocument(policyHTML, css, base string) g.Node {
	return c.HTML5(c.HTML5Props{
		Title:    "Privacy Policy | " + siteName,
		Language: "en",
		Head: []g.Node{
			g.If(base != "", Base(Href(base))),
			StyleEl(g.Raw(css)),
		},
		Body: []g.Node{
			Class("capture"),
			policyRegion(policyHTML),
		},
	})
}
