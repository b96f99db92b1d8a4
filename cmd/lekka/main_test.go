package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	lekka "github.com/NandanaMD/labourlekka-web"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Mock exporter and environment
// ---------------------------------------------------------------------------

// mockExporter records the capture document and returns a canned result.
type mockExporter struct {
	mu       sync.Mutex
	doc      string
	settings lekka.ExportSettings
	err      error
	closed   bool
}

func (m *mockExporter) Export(_ context.Context, htmlDoc string) (*lekka.ExportResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc = htmlDoc
	if m.err != nil {
		return nil, m.err
	}
	return &lekka.ExportResult{PDF: []byte("%PDF-1.4 mock"), Pages: 3, Filename: m.settings.Filename}, nil
}

func (m *mockExporter) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// testEnv returns an environment with buffers, a fixed clock and mock.
// The options passed to NewExporter are validated by a real Exporter so
// tests can inspect the resolved settings.
func testEnv(mock *mockExporter) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:    func() time.Time { return time.Date(2025, 12, 30, 9, 0, 0, 0, time.UTC) },
		Stdout: &stdout,
		Stderr: &stderr,
		NewExporter: func(opts ...lekka.Option) (pdfExporter, error) {
			real, err := lekka.NewExporter(opts...)
			if err != nil {
				return nil, err
			}
			mock.settings = real.Settings()
			_ = real.Close()
			return mock, nil
		},
	}
	return env, &stdout, &stderr
}

// writePolicy writes a policy file into a temp dir and returns its path.
func writePolicy(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "PRIVACY_POLICY.md")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing policy: %v", err)
	}
	return path
}

// ---------------------------------------------------------------------------
// TestRunMain - Main entry point exit codes
// ---------------------------------------------------------------------------

func TestRunMain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		args         []string
		wantCode     int
		wantInStdout []string
		wantInStderr []string
	}{
		{
			name:         "no args shows usage and exits with ExitUsage",
			args:         []string{"lekka"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"Usage: lekka"},
		},
		{
			name:         "version command exits 0",
			args:         []string{"lekka", "version"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"lekka " + Version},
		},
		{
			name:         "help command exits 0",
			args:         []string{"lekka", "help"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"Usage: lekka", "Commands:", "export"},
		},
		{
			name:         "help export shows export help",
			args:         []string{"lekka", "help", "export"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"Usage: lekka export", "--stamp"},
		},
		{
			name:         "help for unknown command exits with ExitUsage",
			args:         []string{"lekka", "help", "deploy"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"unknown command: deploy"},
		},
		{
			name:         "unknown command exits with ExitUsage",
			args:         []string{"lekka", "unknown"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"unknown command: unknown"},
		},
		{
			name:         "unknown flag exits with ExitUsage",
			args:         []string{"lekka", "render", "--nope"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"unknown flag"},
		},
		{
			name:     "flag help exits 0",
			args:     []string{"lekka", "render", "--help"},
			wantCode: ExitSuccess,
			// pflag prints usage on the flag set output
			wantInStderr: []string{"Usage: lekka render"},
		},
		{
			name:         "too many workers exits with ExitUsage",
			args:         []string{"lekka", "serve", "--workers", "99"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"invalid worker count"},
		},
		{
			name:         "bad timeout exits with ExitUsage",
			args:         []string{"lekka", "export", "--timeout", "soon"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"invalid timeout"},
		},
		{
			name:         "missing config file exits with ExitUsage",
			args:         []string{"lekka", "render", "--config", "./does-not-exist.yaml"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"config file not found", "hint:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv(&mockExporter{})
			code := runMain(tt.args, env)

			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d (stderr: %s)", code, tt.wantCode, stderr.String())
			}
			for _, want := range tt.wantInStdout {
				if !strings.Contains(stdout.String(), want) {
					t.Errorf("stdout missing %q, got: %s", want, stdout.String())
				}
			}
			for _, want := range tt.wantInStderr {
				if !strings.Contains(stderr.String(), want) {
					t.Errorf("stderr missing %q, got: %s", want, stderr.String())
				}
			}
		})
	}
}

func TestHasVerboseFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"lekka", "serve"}, false},
		{[]string{"lekka", "serve", "-v"}, true},
		{[]string{"lekka", "export", "--verbose"}, true},
		{[]string{"lekka", "render", "--", "-v"}, false},
	}

	for _, tt := range tests {
		if got := hasVerboseFlag(tt.args); got != tt.want {
			t.Errorf("hasVerboseFlag(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestRunMain_Export - export command end to end with a mock exporter
// ---------------------------------------------------------------------------

func TestRunMain_Export(t *testing.T) {
	t.Parallel()

	policy := writePolicy(t, "# Privacy Policy\n\nWe store attendance on your device.\n")
	out := filepath.Join(t.TempDir(), "policy.pdf")

	mock := &mockExporter{}
	env, stdout, stderr := testEnv(mock)

	code := runMain([]string{"lekka", "export", "--policy", policy, "-o", out}, env)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(data) != "%PDF-1.4 mock" {
		t.Errorf("output = %q", data)
	}
	if !strings.Contains(stdout.String(), "(3 pages)") {
		t.Errorf("stdout = %q, want page count", stdout.String())
	}
	if !strings.Contains(mock.doc, "We store attendance on your device.") {
		t.Error("capture document does not contain the policy text")
	}
	if !strings.Contains(mock.doc, `id="policy-content"`) {
		t.Error("capture document has no capture region")
	}
	if mock.settings.Stamp != "Exported December 30, 2025" {
		t.Errorf("stamp = %q", mock.settings.Stamp)
	}
	if !mock.closed {
		t.Error("exporter was not closed")
	}
}

func TestRunMain_ExportStampFlag(t *testing.T) {
	t.Parallel()

	policy := writePolicy(t, "# Policy")
	out := filepath.Join(t.TempDir(), "policy.pdf")

	mock := &mockExporter{}
	env, _, stderr := testEnv(mock)

	code := runMain([]string{"lekka", "export", "-q", "--policy", policy, "-o", out, "--stamp", "auto:iso"}, env)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
	}
	if mock.settings.Stamp != "Exported 2025-12-30" {
		t.Errorf("stamp = %q", mock.settings.Stamp)
	}
}

func TestRunMain_ExportMissingPolicy(t *testing.T) {
	t.Parallel()

	mock := &mockExporter{}
	env, _, stderr := testEnv(mock)
	missing := filepath.Join(t.TempDir(), "missing.md")

	code := runMain([]string{"lekka", "export", "--policy", missing}, env)
	if code != ExitIO {
		t.Errorf("exit code = %d, want %d", code, ExitIO)
	}
	if !strings.Contains(stderr.String(), "policy unavailable") {
		t.Errorf("stderr = %q", stderr.String())
	}
	if mock.doc != "" {
		t.Error("exporter ran for an unavailable policy")
	}
}

func TestRunMain_ExportBrowserFailure(t *testing.T) {
	t.Parallel()

	policy := writePolicy(t, "# Policy")
	mock := &mockExporter{err: errors.Join(lekka.ErrBrowserConnect, errors.New("no chrome"))}
	env, _, stderr := testEnv(mock)

	code := runMain([]string{"lekka", "export", "--policy", policy, "-o", filepath.Join(t.TempDir(), "x.pdf")}, env)
	if code != ExitBrowser {
		t.Errorf("exit code = %d, want %d", code, ExitBrowser)
	}
	if !strings.Contains(stderr.String(), "failed to connect to browser") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

// ---------------------------------------------------------------------------
// TestRunMain_Render - view selection by fragment
// ---------------------------------------------------------------------------

func TestRunMain_Render(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		fragment string
		want     string
	}{
		{"team fragment", "#team", "The People Behind Labour Lekka"},
		{"team without hash", "team", "The People Behind Labour Lekka"},
		{"unknown fragment", "#unknown", "Manage labour, even offline"},
		{"empty fragment", "", "Manage labour, even offline"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv(&mockExporter{})
			code := runMain([]string{"lekka", "render", "--fragment", tt.fragment}, env)
			if code != ExitSuccess {
				t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
			}
			if !strings.Contains(stdout.String(), tt.want) {
				t.Errorf("output missing %q", tt.want)
			}
		})
	}
}

func TestRunMain_RenderToFile(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "team.html")
	env, stdout, stderr := testEnv(&mockExporter{})

	code := runMain([]string{"lekka", "render", "-f", "#team", "-o", out}, env)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
	}
	if stdout.Len() != 0 {
		t.Error("rendering to a file should not write stdout")
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.HasPrefix(string(data), "<!doctype html>") {
		t.Errorf("output does not start with a doctype: %.40q", data)
	}
	if !strings.Contains(stderr.String(), "Wrote team view") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestAssetBase(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	policy := filepath.Join(dir, "PRIVACY_POLICY.md")

	tests := []struct {
		name     string
		source   string
		assetDir string
		wantDir  string // "" means no base
	}{
		{"bundled", "", "", ""},
		{"remote", "https://example.com/PRIVACY_POLICY.md", "", ""},
		{"remote with assets", "https://example.com/PRIVACY_POLICY.md", dir, dir},
		{"local file", policy, "", dir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := assetBase(tt.source, tt.assetDir)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantDir == "" {
				if got != "" {
					t.Errorf("assetBase() = %q, want none", got)
				}
				return
			}
			if !strings.HasPrefix(got, "file://") || !strings.HasSuffix(got, filepath.ToSlash(tt.wantDir)+"/") {
				t.Errorf("assetBase() = %q, want file URL of %s", got, tt.wantDir)
			}
		})
	}
}
