package main

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	lekka "github.com/NandanaMD/labourlekka-web"
	"github.com/NandanaMD/labourlekka-web/internal/assets"
	"github.com/NandanaMD/labourlekka-web/internal/fileutil"
	"github.com/NandanaMD/labourlekka-web/internal/views"
)

// filePermissions is rw-r--r--: owner read+write, others read.
const filePermissions = 0o644

// runExport fetches, renders and exports the policy to a PDF file.
// Unlike the web viewer, a failed fetch is an error: a PDF of the fallback
// text is of no use to anyone.
func runExport(ctx context.Context, f *exportFlags, env *Environment) error {
	cfg, err := loadConfig(&f.common, env.Stderr)
	if err != nil {
		return err
	}
	if err := mergeExportFlags(f, cfg); err != nil {
		return err
	}

	res, err := assets.NewAssetResolver(cfg.Assets.BasePath)
	if err != nil {
		return fmt.Errorf("loading assets: %w", err)
	}
	src, err := lekka.NewPolicySource(cfg.Policy.Source, res, &http.Client{Timeout: cfg.Policy.FetchTimeout})
	if err != nil {
		return err
	}
	settings, err := cfg.Export.Settings(env.Now())
	if err != nil {
		return err
	}

	start := env.Now()
	fetchCtx, cancel := context.WithTimeout(ctx, cfg.Policy.FetchTimeout)
	doc := lekka.FetchPolicy(fetchCtx, src)
	cancel()
	if doc.Fallback {
		return &policyError{source: cfg.Policy.Source, err: doc.Err}
	}
	if f.common.verbose {
		fmt.Fprintf(env.Stderr, "Fetched policy from %s (%d bytes)\n", policyLabel(cfg.Policy.Source), len(doc.Text))
	}

	base, err := assetBase(cfg.Policy.Source, cfg.Assets.BasePath)
	if err != nil {
		return err
	}
	page, err := captureDocument(ctx, res, doc.Text, base)
	if err != nil {
		return err
	}

	exp, err := env.NewExporter(lekka.WithSettings(settings), lekka.WithTimeout(cfg.Export.Timeout))
	if err != nil {
		return err
	}
	defer func() { _ = exp.Close() }()

	result, err := exp.Export(ctx, page)
	if err != nil {
		return fmt.Errorf("exporting policy: %w", err)
	}

	out := f.output
	if out == "" {
		out = result.Filename
	}
	if err := fileutil.WriteFileAtomic(out, result.PDF, filePermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrWritePDF, err)
	}

	if !f.common.quiet {
		fmt.Fprintf(env.Stdout, "Wrote %s (%d pages)\n", out, result.Pages)
	}
	if f.common.verbose {
		fmt.Fprintf(env.Stderr, "Export took %s\n", env.Now().Sub(start).Round(time.Millisecond))
	}
	return nil
}

// assetBase returns the file:// directory that relative paths in a local
// policy resolve against: the policy's own directory, else the asset
// directory. Remote and bundled policies get "".
func assetBase(policySource, assetDir string) (string, error) {
	dir := assetDir
	if policySource != "" && !fileutil.IsURL(policySource) {
		dir = filepath.Dir(policySource)
	}
	if dir == "" {
		return "", nil
	}
	u, err := fileutil.FileURL(dir)
	if err != nil {
		return "", err
	}
	return u + "/", nil
}

// captureDocument renders the policy into the standalone page the exporter captures.
func captureDocument(ctx context.Context, res *assets.AssetResolver, markdown, base string) (string, error) {
	html, err := lekka.NewPolicyRenderer(lekka.WithAssetBase(base)).Render(ctx, markdown)
	if err != nil {
		return "", err
	}
	css, err := views.CaptureStyles(res)
	if err != nil {
		return "", err
	}
	return views.String(views.CaptureDocument(html, css, ""))
}
