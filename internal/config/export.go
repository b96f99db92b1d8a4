package config

import (
	"fmt"
	"time"

	lekka "github.com/NandanaMD/labourlekka-web"
	"github.com/NandanaMD/labourlekka-web/internal/dateutil"
)

// Settings converts the export section to exporter settings on A4 pages.
// The stamp is resolved against now, so "auto" becomes e.g.
// "Exported December 30, 2025"; fixed text is used as is.
func (e ExportConfig) Settings(now time.Time) (lekka.ExportSettings, error) {
	stamp, err := dateutil.Resolve(e.Stamp, now)
	if err != nil {
		return lekka.ExportSettings{}, fmt.Errorf("%w: export.stamp: %v", ErrConfigInvalid, err)
	}

	s := lekka.DefaultExportSettings()
	s.Margin = e.Margin
	s.Scale = e.Scale
	s.Padding = e.Padding
	s.Background = e.Background
	if e.Filename != "" {
		s.Filename = e.Filename
	}
	s.Stamp = stamp
	if stamp != e.Stamp {
		s.Stamp = "Exported " + stamp
	}

	if err := s.Validate(); err != nil {
		return lekka.ExportSettings{}, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	return s, nil
}
