// Package lekka implements the Labour Lekka landing site: the privacy policy
// viewer with PDF export, the screenshot carousel, fragment routing between
// the home and team views, and the team roster.
//
// # Policy Viewer
//
// A Viewer fetches the policy Markdown once per Open and holds the text until
// Close. A failed fetch (network error or non-2xx status) stores
// FallbackPolicy instead, so the viewer never shows an empty state:
//
//	src, _ := lekka.NewPolicySource("https://example.com/PRIVACY_POLICY.md", nil, nil)
//	v := lekka.NewViewer(src, nil)
//	doc, _ := v.Load(ctx)
//	html, _, err := v.Render(ctx)
//	v.Close()
//
// Results of a fetch that completes after Close, or after a newer Open, are
// dropped.
//
// # PDF Export
//
// An Exporter loads a capture document in headless Chrome (go-rod), forces a
// white background and 40px padding on the policy region, screenshots it at
// scale 2 and restores the region's inline style whether or not the capture
// succeeded. The image is laid across A4 pages in points with go-pdf/fpdf:
// page 1 draws it at the top margin and every further page draws the same
// image one page height higher (see PageOffsets).
//
//	exp, err := lekka.NewExporter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer exp.Close()
//
//	res, err := exp.Export(ctx, captureHTML)
//	os.WriteFile(res.Filename, res.PDF, 0o644)
//
// Use ExporterPool to serve concurrent exports; each exporter owns a browser.
//
// # Carousel and Routing
//
// Carousel wraps an index over a fixed slide list; Run advances it every
// DefaultInterval until its context ends. ResolveView maps a URL fragment to
// a View: "#team" selects the team view and anything else selects home.
package lekka
