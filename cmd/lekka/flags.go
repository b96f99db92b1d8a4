package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config    string
	envFile   string
	policy    string
	assetPath string
	quiet     bool
	verbose   bool
}

// serveFlags holds flags for the serve command.
type serveFlags struct {
	common   commonFlags
	addr     string
	workers  int
	logLevel string
	interval string
}

// exportFlags holds flags for the export command.
type exportFlags struct {
	common  commonFlags
	output  string
	stamp   string
	timeout string
}

// renderFlags holds flags for the render command.
type renderFlags struct {
	common   commonFlags
	fragment string
	output   string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVar(&f.envFile, "env-file", "", "dotenv file to load (default .env)")
	fs.StringVar(&f.policy, "policy", "", "policy source: URL or file path (default: bundled)")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed progress")
}

// newFlagSet returns a FlagSet that reports errors and usage on w.
func newFlagSet(name string, w io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() { usage(w) }
	return fs
}

// parse runs fs over args and rejects positional arguments.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected argument %q", ErrUsage, fs.Arg(0))
	}
	return nil
}

// parseServeFlags parses serve command flags.
func parseServeFlags(args []string, w io.Writer) (*serveFlags, error) {
	f := &serveFlags{}
	fs := newFlagSet("serve", w, printServeUsage)

	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (default :8080)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "concurrent PDF exports (0 = auto)")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&f.interval, "interval", "", "carousel interval (e.g., 4s)")
	addCommonFlags(fs, &f.common)

	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return f, nil
}

// parseExportFlags parses export command flags.
func parseExportFlags(args []string, w io.Writer) (*exportFlags, error) {
	f := &exportFlags{}
	fs := newFlagSet("export", w, printExportUsage)

	fs.StringVarP(&f.output, "output", "o", "", "output PDF path (default: Labour-Lekka-Privacy-Policy.pdf)")
	fs.StringVar(&f.stamp, "stamp", "", `PDF subject stamp: "auto", "auto:FORMAT", or literal`)
	fs.StringVarP(&f.timeout, "timeout", "t", "", "capture timeout (e.g., 30s, 2m)")
	addCommonFlags(fs, &f.common)

	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return f, nil
}

// parseRenderFlags parses render command flags.
func parseRenderFlags(args []string, w io.Writer) (*renderFlags, error) {
	f := &renderFlags{}
	fs := newFlagSet("render", w, printRenderUsage)

	fs.StringVarP(&f.fragment, "fragment", "f", "", "URL fragment selecting the view (#team or #home)")
	fs.StringVarP(&f.output, "output", "o", "", "output HTML path (default: stdout)")
	addCommonFlags(fs, &f.common)

	if err := parse(fs, args); err != nil {
		return nil, err
	}
	return f, nil
}

// parseDuration parses a positive duration flag value; "" yields 0.
func parseDuration(name, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: --%s %q: %v", ErrInvalidTimeout, name, value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: --%s must be positive, got %s", ErrInvalidTimeout, name, d)
	}
	return d, nil
}
