package pipeline

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RewriteRelativePaths rebases relative img[src] and a[href] values onto
// base, a URL prefix such as "/static/" or "file:///srv/site/". An empty base
// returns the HTML unchanged.
//
// Left as written:
//   - URLs with a scheme or host (https:, mailto:, data:, //cdn)
//   - absolute paths and fragment-only links
//   - paths that would resolve outside base
func RewriteRelativePaths(htmlContent, base string) (string, error) {
	if base == "" {
		return htmlContent, nil
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	if !strings.HasSuffix(baseURL.Path, "/") {
		baseURL.Path += "/"
	}

	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	rewriteNode(doc, baseURL)

	return renderHTML(doc, isFragment)
}

// parseHTML parses HTML content, handling both full documents and fragments.
// Returns the parsed node and whether it was a fragment.
func parseHTML(content string) (*html.Node, bool, error) {
	trimmed := strings.ToLower(strings.TrimSpace(content))

	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	// Parse with body context so the fragment is not wrapped.
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return nil, true, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, true, nil
}

// renderHTML renders the document back to string.
// Fragments render their children only, without an <html><body> wrapper.
func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder

	if !isFragment {
		if err := html.Render(&buf, doc); err != nil {
			return "", err
		}
		return buf.String(), nil
	}

	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func rewriteNode(n *html.Node, base *url.URL) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Img:
			rewriteAttr(n, "src", base)
		case atom.A:
			rewriteAttr(n, "href", base)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteNode(c, base)
	}
}

func rewriteAttr(n *html.Node, key string, base *url.URL) {
	for i, attr := range n.Attr {
		if attr.Key != key {
			continue
		}
		ref, ok := relativeRef(attr.Val)
		if !ok {
			continue
		}

		// ResolveReference removes dot segments, so an escape shows up as a
		// path outside base.
		resolved := base.ResolveReference(ref)
		if !strings.HasPrefix(resolved.Path, base.Path) {
			continue
		}
		n.Attr[i].Val = resolved.String()
	}
}

// relativeRef parses v and reports whether it is a relative path reference.
func relativeRef(v string) (*url.URL, bool) {
	if v == "" || strings.HasPrefix(v, "#") || strings.HasPrefix(v, "/") {
		return nil, false
	}
	ref, err := url.Parse(v)
	if err != nil || ref.Scheme != "" || ref.Host != "" || ref.Path == "" {
		return nil, false
	}
	return ref, true
}
