package lekka

import (
	"context"
	"fmt"

	"github.com/NandanaMD/labourlekka-web/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.PolicyPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
)

// PolicyRenderer turns policy Markdown into an HTML fragment.
// Safe for concurrent use.
type PolicyRenderer struct {
	preprocessor  pipeline.MarkdownPreprocessor
	htmlConverter pipeline.HTMLConverter
	assetBase     string
}

// RendererOption configures a PolicyRenderer.
type RendererOption func(*PolicyRenderer)

// WithAssetBase rebases relative image and link paths in the policy onto
// base, e.g. "/static/" on the site or a file:// directory for local export.
func WithAssetBase(base string) RendererOption {
	return func(r *PolicyRenderer) {
		r.assetBase = base
	}
}

// NewPolicyRenderer creates a renderer with GFM tables, strikethrough,
// autolinks, raw HTML passthrough and code highlighting.
func NewPolicyRenderer(opts ...RendererOption) *PolicyRenderer {
	r := &PolicyRenderer{
		preprocessor:  &pipeline.PolicyPreprocessor{},
		htmlConverter: pipeline.NewGoldmarkConverter(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render converts markdown to HTML.
func (r *PolicyRenderer) Render(ctx context.Context, markdown string) (string, error) {
	if markdown == "" {
		return "", ErrEmptyDocument
	}

	md := r.preprocessor.PreprocessMarkdown(ctx, markdown)
	if err := ctx.Err(); err != nil {
		return "", err
	}

	out, err := r.htmlConverter.ToHTML(ctx, md)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrHTMLRender, err)
	}

	out, err = pipeline.RewriteRelativePaths(out, r.assetBase)
	if err != nil {
		return "", fmt.Errorf("%w: rewriting paths: %w", ErrHTMLRender, err)
	}
	return out, nil
}
