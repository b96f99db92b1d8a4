package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	lekka "github.com/NandanaMD/labourlekka-web"
	"github.com/NandanaMD/labourlekka-web/internal/config"
	"github.com/NandanaMD/labourlekka-web/internal/yamlutil"
)

// envConfigPath names the config file when --config is absent.
const envConfigPath = "LEKKA_CONFIG"

// knownEnvVars lists valid LEKKA_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	envConfigPath:     true,
	"LEKKA_CONTAINER": true,
	// Server
	"LEKKA_ADDR":             true,
	"LEKKA_READ_TIMEOUT":     true,
	"LEKKA_WRITE_TIMEOUT":    true,
	"LEKKA_SHUTDOWN_TIMEOUT": true,
	"LEKKA_PUBLIC_URL":       true,
	// Policy
	"LEKKA_POLICY_SOURCE":        true,
	"LEKKA_POLICY_FETCH_TIMEOUT": true,
	// Export
	"LEKKA_EXPORT_MARGIN":     true,
	"LEKKA_EXPORT_SCALE":      true,
	"LEKKA_EXPORT_PADDING":    true,
	"LEKKA_EXPORT_BACKGROUND": true,
	"LEKKA_EXPORT_FILENAME":   true,
	"LEKKA_EXPORT_STAMP":      true,
	"LEKKA_EXPORT_TIMEOUT":    true,
	"LEKKA_EXPORT_WORKERS":    true,
	// Site
	"LEKKA_CAROUSEL_INTERVAL": true,
	"LEKKA_ASSETS_DIR":        true,
	"LEKKA_LOG_LEVEL":         true,
}

// loadConfig builds the effective configuration:
// defaults, then the YAML file, then LEKKA_* variables (a dotenv file fills
// in variables that are not already set). Command flags are merged by the caller.
func loadConfig(f *commonFlags, w io.Writer) (*config.Config, error) {
	if err := config.LoadDotEnv(f.envFile); err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrConfigParse, err)
	}

	warnUnknownEnvVars(w)

	cfg := config.DefaultConfig()
	path := f.config
	if path == "" {
		path = os.Getenv(envConfigPath)
	}
	if path != "" {
		var err error
		if cfg, err = config.LoadConfig(path); err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}

	if f.policy != "" {
		cfg.Policy.Source = f.policy
	}
	if f.assetPath != "" {
		cfg.Assets.BasePath = f.assetPath
	}
	return cfg, nil
}

// warnUnknownEnvVars logs warnings for unrecognized LEKKA_* variables.
func warnUnknownEnvVars(w io.Writer) {
	var unknown []string
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, "LEKKA_") {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
	}
}

// mergeServeFlags applies serve flags on top of cfg (flags win).
func mergeServeFlags(f *serveFlags, cfg *config.Config) error {
	if f.workers < 0 || f.workers > lekka.MaxPoolSize {
		return fmt.Errorf("%w: %d (must be 0-%d)", ErrInvalidWorkerCount, f.workers, lekka.MaxPoolSize)
	}
	if f.addr != "" {
		cfg.Server.Addr = f.addr
	}
	if f.workers > 0 {
		cfg.Export.Workers = f.workers
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	interval, err := parseDuration("interval", f.interval)
	if err != nil {
		return err
	}
	if interval > 0 {
		cfg.Carousel.Interval = interval
	}
	return cfg.Validate()
}

// mergeExportFlags applies export flags on top of cfg (flags win).
func mergeExportFlags(f *exportFlags, cfg *config.Config) error {
	if f.stamp != "" {
		cfg.Export.Stamp = f.stamp
	}
	timeout, err := parseDuration("timeout", f.timeout)
	if err != nil {
		return err
	}
	if timeout > 0 {
		cfg.Export.Timeout = timeout
	}
	return cfg.Validate()
}

// runConfigCmd prints the effective configuration as YAML, after every
// source and flag has been applied and validated.
func runConfigCmd(args []string, env *Environment) error {
	var common commonFlags
	fs := newFlagSet("config", env.Stderr, printConfigUsage)
	addCommonFlags(fs, &common)
	if err := parse(fs, args); err != nil {
		return err
	}

	cfg, err := loadConfig(&common, env.Stderr)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	out, err := yamlutil.Encode(cfg)
	if err != nil {
		return err
	}
	_, err = env.Stdout.Write(out)
	return err
}
