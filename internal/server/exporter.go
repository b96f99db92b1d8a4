package server

import (
	"context"

	lekka "github.com/NandanaMD/labourlekka-web"
)

// Compile-time interface checks.
var (
	_ Exporter = (*lekka.Exporter)(nil)
	_ Exporter = (*PoolExporter)(nil)
)

// PoolExporter runs each export on an exporter borrowed from a pool, so
// concurrent requests never share a browser page.
type PoolExporter struct {
	Pool *lekka.ExporterPool
}

// Export acquires an exporter, runs the export and releases it.
func (p *PoolExporter) Export(ctx context.Context, htmlDoc string) (*lekka.ExportResult, error) {
	e, err := p.Pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer p.Pool.Release(e)

	return e.Export(ctx, htmlDoc)
}
