package main

import (
	"bytes"
	"context"
	"fmt"

	g "maragu.dev/gomponents"

	lekka "github.com/NandanaMD/labourlekka-web"
	"github.com/NandanaMD/labourlekka-web/internal/assets"
	"github.com/NandanaMD/labourlekka-web/internal/fileutil"
	"github.com/NandanaMD/labourlekka-web/internal/views"
)

// runRender writes the view selected by --fragment as a standalone HTML page.
func runRender(_ context.Context, f *renderFlags, env *Environment) error {
	cfg, err := loadConfig(&f.common, env.Stderr)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	res, err := assets.NewAssetResolver(cfg.Assets.BasePath)
	if err != nil {
		return fmt.Errorf("loading assets: %w", err)
	}

	view := lekka.NewRouter(f.fragment).Current()

	var page g.Node
	switch view {
	case lekka.ViewTeam:
		page = views.TeamPage(views.NewTeamData(lekka.Team(), res.Exists))
	default:
		carousel := lekka.NewCarousel(lekka.DefaultSlides(), cfg.Carousel.Interval)
		page = views.HomePage(views.HomeData{Slides: carousel.Items(), Interval: carousel.Interval()})
	}

	var buf bytes.Buffer
	if err := views.Render(&buf, page); err != nil {
		return err
	}

	if f.output == "" || f.output == "-" {
		_, err := env.Stdout.Write(buf.Bytes())
		return err
	}
	if err := fileutil.WriteFileAtomic(f.output, buf.Bytes(), filePermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	if !f.common.quiet {
		fmt.Fprintf(env.Stderr, "Wrote %s view to %s\n", view, f.output)
	}
	return nil
}
