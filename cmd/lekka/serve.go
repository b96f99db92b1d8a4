package main

import (
	"context"
	"fmt"
	"net"
	"net/http"

	lekka "github.com/NandanaMD/labourlekka-web"
	"github.com/NandanaMD/labourlekka-web/internal/assets"
	"github.com/NandanaMD/labourlekka-web/internal/logger"
	"github.com/NandanaMD/labourlekka-web/internal/server"
)

// runServe starts the site server and blocks until ctx is cancelled.
func runServe(ctx context.Context, f *serveFlags, env *Environment) error {
	cfg, err := loadConfig(&f.common, env.Stderr)
	if err != nil {
		return err
	}
	if err := mergeServeFlags(f, cfg); err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	defer func() { _ = log.Sync() }()

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

	pool := lekka.NewExporterPool(lekka.ResolvePoolSize(cfg.Export.Workers),
		lekka.WithSettings(settings),
		lekka.WithTimeout(cfg.Export.Timeout),
	)
	defer func() {
		if err := pool.Close(); err != nil {
			log.Warnw("closing exporter pool", "error", err)
		}
	}()

	srv, err := server.New(server.Options{
		Log:             log,
		Assets:          res,
		Source:          src,
		Exporter:        &server.PoolExporter{Pool: pool},
		Carousel:        lekka.NewCarousel(lekka.DefaultSlides(), cfg.Carousel.Interval),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		PublicURL:       cfg.Server.PublicURL,
		FetchTimeout:    cfg.Policy.FetchTimeout,
		ExportTimeout:   cfg.Export.Timeout,
	})
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return &listenError{addr: cfg.Server.Addr, err: err}
	}

	log.Infow("starting",
		"version", Version,
		"policy", policyLabel(cfg.Policy.Source),
		"custom_assets", res.HasCustomLoader(),
		"export_workers", pool.Size(),
	)
	if !f.common.quiet {
		fmt.Fprintf(env.Stderr, "Serving on http://%s\n", ln.Addr())
	}
	return srv.Serve(ctx, ln)
}

// policyLabel describes a policy source location for logs and messages.
func policyLabel(source string) string {
	if source == "" {
		return "bundled " + lekka.DefaultPolicyPath
	}
	return source
}
