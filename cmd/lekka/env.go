package main

import (
	"context"
	"io"
	"os"
	"time"

	lekka "github.com/NandanaMD/labourlekka-web"
)

// pdfExporter is the part of *lekka.Exporter the export command uses.
type pdfExporter interface {
	Export(ctx context.Context, htmlDoc string) (*lekka.ExportResult, error)
	Close() error
}

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now         func() time.Time
	Stdout      io.Writer
	Stderr      io.Writer
	NewExporter func(opts ...lekka.Option) (pdfExporter, error)
}

// DefaultEnv returns the production environment backed by headless Chrome.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		NewExporter: func(opts ...lekka.Option) (pdfExporter, error) {
			return lekka.NewExporter(opts...)
		},
	}
}
