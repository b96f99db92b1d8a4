// Package config loads site configuration from YAML, .env and the environment.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/NandanaMD/labourlekka-web/internal/fileutil"
	"github.com/NandanaMD/labourlekka-web/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrConfigInvalid   = errors.New("invalid config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
)

// Field length limits.
const (
	MaxAddrLength       = 255
	MaxURLLength        = 2048
	MaxPathLength       = 4096
	MaxFilenameLength   = 255
	MaxColorLength      = 20
	MaxStampLength      = 60
	MaxLogLevelLength   = 10
	MaxExportWorkers    = 8
	MaxCaptureScale     = 4
	MaxCapturePadding   = 400
	MaxPageMarginPoints = 200
)

// appDirName is the directory under os.UserConfigDir searched for named configs.
const appDirName = "lekka"

// DotEnvFile is read by LoadDotEnv when no path is given.
const DotEnvFile = ".env"

// Config holds all runtime settings for the site and the exporter.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Policy   PolicyConfig   `yaml:"policy"`
	Export   ExportConfig   `yaml:"export"`
	Carousel CarouselConfig `yaml:"carousel"`
	Assets   AssetsConfig   `yaml:"assets"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig defines the HTTP listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr" env:"LEKKA_ADDR"`
	ReadTimeout     time.Duration `yaml:"readTimeout" env:"LEKKA_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"writeTimeout" env:"LEKKA_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" env:"LEKKA_SHUTDOWN_TIMEOUT"`
	PublicURL       string        `yaml:"publicURL" env:"LEKKA_PUBLIC_URL"` // where the export browser reaches /static; empty = listen address
}

// PolicyConfig defines where the policy Markdown comes from.
type PolicyConfig struct {
	Source       string        `yaml:"source" env:"LEKKA_POLICY_SOURCE"` // URL or file path; empty = bundled copy
	FetchTimeout time.Duration `yaml:"fetchTimeout" env:"LEKKA_POLICY_FETCH_TIMEOUT"`
}

// ExportConfig defines PDF export settings.
type ExportConfig struct {
	Margin     float64       `yaml:"margin" env:"LEKKA_EXPORT_MARGIN"` // points
	Scale      float64       `yaml:"scale" env:"LEKKA_EXPORT_SCALE"`
	Padding    int           `yaml:"padding" env:"LEKKA_EXPORT_PADDING"` // CSS px
	Background string        `yaml:"background" env:"LEKKA_EXPORT_BACKGROUND"`
	Filename   string        `yaml:"filename" env:"LEKKA_EXPORT_FILENAME"`
	Stamp      string        `yaml:"stamp" env:"LEKKA_EXPORT_STAMP"` // "auto", "auto:iso", or fixed text
	Timeout    time.Duration `yaml:"timeout" env:"LEKKA_EXPORT_TIMEOUT"`
	Workers    int           `yaml:"workers" env:"LEKKA_EXPORT_WORKERS"` // 0 = derived from GOMAXPROCS
}

// CarouselConfig defines the screenshot carousel.
type CarouselConfig struct {
	Interval time.Duration `yaml:"interval" env:"LEKKA_CAROUSEL_INTERVAL"`
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath" env:"LEKKA_ASSETS_DIR"` // Empty = use embedded assets
}

// LogConfig defines logger settings.
type LogConfig struct {
	Level string `yaml:"level" env:"LEKKA_LOG_LEVEL"`
}

// DefaultConfig returns the settings used when nothing overrides them.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Policy: PolicyConfig{
			FetchTimeout: 10 * time.Second,
		},
		Export: ExportConfig{
			Margin:     30,
			Scale:      2,
			Padding:    40,
			Background: "#ffffff",
			Filename:   "Labour-Lekka-Privacy-Policy.pdf",
			Stamp:      "auto",
			Timeout:    30 * time.Second,
		},
		Carousel: CarouselConfig{Interval: 4 * time.Second},
		Log:      LogConfig{Level: "info"},
	}
}

// Validate checks ranges and field lengths.
// Called automatically by Load, but available for callers who build a Config by hand.
func (c *Config) Validate() error {
	lengths := []struct {
		field string
		value string
		max   int
	}{
		{"server.addr", c.Server.Addr, MaxAddrLength},
		{"policy.source", c.Policy.Source, MaxURLLength},
		{"export.background", c.Export.Background, MaxColorLength},
		{"export.filename", c.Export.Filename, MaxFilenameLength},
		{"export.stamp", c.Export.Stamp, MaxStampLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"log.level", c.Log.Level, MaxLogLevelLength},
	}
	for _, l := range lengths {
		if err := validateFieldLength(l.field, l.value, l.max); err != nil {
			return err
		}
	}

	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		return fmt.Errorf("%w: server.addr %q: %v", ErrConfigInvalid, c.Server.Addr, err)
	}

	if c.Server.PublicURL != "" && !fileutil.IsURL(c.Server.PublicURL) {
		return fmt.Errorf("%w: server.publicURL %q must be an http(s) URL", ErrConfigInvalid, c.Server.PublicURL)
	}

	durations := []struct {
		field string
		value time.Duration
	}{
		{"server.readTimeout", c.Server.ReadTimeout},
		{"server.writeTimeout", c.Server.WriteTimeout},
		{"server.shutdownTimeout", c.Server.ShutdownTimeout},
		{"policy.fetchTimeout", c.Policy.FetchTimeout},
		{"export.timeout", c.Export.Timeout},
		{"carousel.interval", c.Carousel.Interval},
	}
	for _, d := range durations {
		if d.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %s", ErrConfigInvalid, d.field, d.value)
		}
	}

	if c.Export.Margin < 0 || c.Export.Margin > MaxPageMarginPoints {
		return fmt.Errorf("%w: export.margin must be between 0 and %d, got %.2f", ErrConfigInvalid, MaxPageMarginPoints, c.Export.Margin)
	}
	if c.Export.Scale <= 0 || c.Export.Scale > MaxCaptureScale {
		return fmt.Errorf("%w: export.scale must be in (0, %d], got %.2f", ErrConfigInvalid, MaxCaptureScale, c.Export.Scale)
	}
	if c.Export.Padding < 0 || c.Export.Padding > MaxCapturePadding {
		return fmt.Errorf("%w: export.padding must be between 0 and %d, got %d", ErrConfigInvalid, MaxCapturePadding, c.Export.Padding)
	}
	if c.Export.Workers < 0 || c.Export.Workers > MaxExportWorkers {
		return fmt.Errorf("%w: export.workers must be between 0 and %d, got %d", ErrConfigInvalid, MaxExportWorkers, c.Export.Workers)
	}
	if c.Export.Filename == "" || strings.ContainsAny(c.Export.Filename, "/\\\x00") {
		return fmt.Errorf("%w: export.filename %q must be a bare file name", ErrConfigInvalid, c.Export.Filename)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q (must be debug, info, warn, or error)", ErrConfigInvalid, c.Log.Level)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name on top of
// DefaultConfig. If nameOrPath contains a path separator, it's treated as a
// file path. Otherwise, it's searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.DecodeStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDotEnv copies variables from a .env file into the process environment
// without overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = DotEnvFile
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	for k, v := range vars {
		if _, exists := os.LookupEnv(k); !exists {
			_ = os.Setenv(k, v)
		}
	}
	return nil
}

// ApplyEnv overrides cfg with LEKKA_* environment variables and re-validates.
// Variables that are not set leave the current values untouched.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("%w: parse env: %v", ErrConfigParse, err)
	}
	return cfg.Validate()
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/lekka/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, appDirName, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
