// Package pipeline turns policy Markdown into an HTML fragment.
//
// The pipeline has two stages:
//   - preprocessing (BOM removal, line ending normalization, blank line compression)
//   - Markdown to HTML conversion via Goldmark (GFM, raw HTML, syntax highlighting)
//
// Page layout and PDF capture live elsewhere: internal/views wraps the fragment
// in a document and the root lekka package rasterizes it with headless Chrome.
package pipeline
