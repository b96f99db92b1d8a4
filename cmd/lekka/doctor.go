package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
	flag "github.com/spf13/pflag"

	lekka "github.com/NandanaMD/labourlekka-web"
	"github.com/NandanaMD/labourlekka-web/internal/assets"
	"github.com/NandanaMD/labourlekka-web/internal/config"
	"github.com/NandanaMD/labourlekka-web/internal/hints"
)

// checkStatus grades one diagnostic.
type checkStatus string

const (
	checkOK   checkStatus = "ok"
	checkWarn checkStatus = "warn"
	checkFail checkStatus = "fail"
)

// checkResult is the outcome of one diagnostic.
type checkResult struct {
	Name   string      `json:"name"`
	Status checkStatus `json:"status"`
	Detail string      `json:"detail"`
}

// doctorReport is what doctor prints, as text or JSON.
type doctorReport struct {
	Platform string        `json:"platform"`
	Ready    bool          `json:"ready"`
	Checks   []checkResult `json:"checks"`
}

// doctorProbe holds the system lookups the checks make; tests replace them.
type doctorProbe struct {
	getenv         func(string) string
	lookBrowser    func() (string, bool)
	browserVersion func(path string) (string, error)
	tempDir        func() string
}

func defaultProbe() doctorProbe {
	return doctorProbe{
		getenv:      os.Getenv,
		lookBrowser: launcher.LookPath,
		browserVersion: func(path string) (string, error) {
			out, err := exec.Command(path, "--version").Output() // #nosec G204 -- path comes from the operator
			return strings.TrimSpace(string(out)), err
		},
		tempDir: os.TempDir,
	}
}

// requiredAssets are resolved by every page or by the exporter.
var requiredAssets = []string{
	assets.PolicyFile,
	"styles/" + assets.StyleSite + ".css",
	"styles/" + assets.StylePolicy + ".css",
}

// runDoctorCmd executes the doctor command and returns an exit code:
// 0 when every check passes or warns, 1 when any check fails.
func runDoctorCmd(args []string, env *Environment) int {
	var common commonFlags
	var jsonOutput bool
	fs := newFlagSet("doctor", env.Stderr, printDoctorUsage)
	fs.BoolVar(&jsonOutput, "json", false, "print the report as JSON")
	addCommonFlags(fs, &common)
	if err := parse(fs, args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitUsage
	}

	cfg, err := loadConfig(&common, env.Stderr)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
		return exitCodeFor(err)
	}

	report := runDoctor(context.Background(), cfg, defaultProbe())

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(report)
	} else {
		printDoctorReport(env.Stdout, report)
	}

	if !report.Ready {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor runs every check against cfg.
func runDoctor(ctx context.Context, cfg *config.Config, p doctorProbe) *doctorReport {
	report := &doctorReport{
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
		Ready:    true,
	}

	res, assetErr := assets.NewAssetResolver(cfg.Assets.BasePath)

	report.Checks = []checkResult{
		checkBrowser(p),
		checkSandbox(p),
		checkAssets(res, assetErr),
		checkPolicy(ctx, cfg, res),
		checkTempDir(p),
	}
	for _, c := range report.Checks {
		if c.Status == checkFail {
			report.Ready = false
		}
	}
	return report
}

// checkBrowser finds the Chrome binary PDF export drives.
func checkBrowser(p doctorProbe) checkResult {
	r := checkResult{Name: "browser"}

	path := p.getenv("ROD_BROWSER_BIN")
	if path == "" {
		var found bool
		if path, found = p.lookBrowser(); !found {
			r.Status = checkFail
			r.Detail = "Chrome/Chromium not found; PDF export needs it. Install Chrome or set ROD_BROWSER_BIN"
			return r
		}
	}

	version, err := p.browserVersion(path)
	if err != nil {
		r.Status = checkWarn
		r.Detail = fmt.Sprintf("%s (version unknown: %v)", path, err)
		return r
	}
	r.Status = checkOK
	r.Detail = fmt.Sprintf("%s (%s)", path, version)
	return r
}

// checkSandbox warns when Chrome will likely refuse to start its sandbox.
func checkSandbox(p doctorProbe) checkResult {
	r := checkResult{Name: "sandbox", Status: checkOK}

	if p.getenv("ROD_NO_SANDBOX") == "1" {
		r.Detail = "disabled (ROD_NO_SANDBOX=1)"
		return r
	}

	where := hints.Container(p.getenv)
	if ci := hints.CI(p.getenv); where == "" && ci != "" {
		where = "CI (" + ci + ")"
	}
	if where == "" {
		r.Detail = "enabled"
		return r
	}

	r.Status = checkWarn
	r.Detail = where + " detected but ROD_NO_SANDBOX is not set; set ROD_NO_SANDBOX=1"
	return r
}

// checkAssets verifies the site and export assets resolve.
func checkAssets(res *assets.AssetResolver, err error) checkResult {
	r := checkResult{Name: "assets"}
	if err != nil {
		r.Status = checkFail
		r.Detail = err.Error()
		return r
	}

	var missing []string
	for _, name := range requiredAssets {
		if !res.Exists(name) {
			missing = append(missing, name)
		}
	}
	switch {
	case len(missing) > 0:
		r.Status = checkFail
		r.Detail = "missing " + strings.Join(missing, ", ")
	case res.HasCustomLoader():
		r.Status = checkOK
		r.Detail = "custom directory with bundled fallback"
	default:
		r.Status = checkOK
		r.Detail = "bundled"
	}
	return r
}

// checkPolicy fetches the policy once from the configured source. A failure
// is a warning: the site still serves, showing the fallback text.
func checkPolicy(ctx context.Context, cfg *config.Config, res *assets.AssetResolver) checkResult {
	r := checkResult{Name: "policy"}
	if res == nil {
		r.Status = checkWarn
		r.Detail = "skipped: assets unavailable"
		return r
	}

	src, err := lekka.NewPolicySource(cfg.Policy.Source, res, &http.Client{Timeout: cfg.Policy.FetchTimeout})
	if err != nil {
		r.Status = checkFail
		r.Detail = err.Error()
		return r
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Policy.FetchTimeout)
	defer cancel()
	doc := lekka.FetchPolicy(ctx, src)
	if doc.Fallback {
		r.Status = checkWarn
		r.Detail = fmt.Sprintf("%s unavailable, visitors will see the fallback text: %v", policyLabel(cfg.Policy.Source), doc.Err)
		return r
	}
	r.Status = checkOK
	r.Detail = fmt.Sprintf("%s (%d bytes)", policyLabel(cfg.Policy.Source), len(doc.Text))
	return r
}

// checkTempDir verifies the capture page can be written to disk.
func checkTempDir(p doctorProbe) checkResult {
	r := checkResult{Name: "temp dir"}
	dir := p.tempDir()

	f, err := os.CreateTemp(dir, "lekka-doctor-*")
	if err != nil {
		r.Status = checkFail
		r.Detail = fmt.Sprintf("%s not writable: %v", dir, err)
		return r
	}
	_ = f.Close()
	_ = os.Remove(filepath.Clean(f.Name()))

	r.Status = checkOK
	r.Detail = dir
	return r
}

// printDoctorReport outputs human-readable diagnostic results.
func printDoctorReport(w io.Writer, r *doctorReport) {
	fmt.Fprintf(w, "lekka doctor (%s)\n\n", r.Platform)

	for _, c := range r.Checks {
		fmt.Fprintf(w, "  %-6s %-9s %s\n", "["+strings.ToUpper(string(c.Status))+"]", c.Name, c.Detail)
	}
	fmt.Fprintln(w)

	if r.Ready {
		fmt.Fprintln(w, "Status: Ready to serve and export")
	} else {
		fmt.Fprintln(w, "Status: Not ready (see failures above)")
	}
}
