package lekka

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/NandanaMD/labourlekka-web/internal/fileutil"
)

// FallbackPolicy is shown whenever the policy cannot be fetched.
const FallbackPolicy = "# Privacy Policy\n\nUnable to load policy."

// MaxPolicySize caps the fetched policy text.
const MaxPolicySize = 1 << 20

// DefaultPolicyPath is the path the policy is published under.
const DefaultPolicyPath = "PRIVACY_POLICY.md"

// PolicySource fetches the raw policy Markdown.
type PolicySource interface {
	Fetch(ctx context.Context) (string, error)
}

// Compile-time interface checks.
var (
	_ PolicySource = (*HTTPSource)(nil)
	_ PolicySource = (*FSSource)(nil)
)

// HTTPSource fetches the policy with a GET request. Any status outside 2xx is an error.
type HTTPSource struct {
	URL    string
	Client *http.Client // nil uses http.DefaultClient
}

// Fetch performs one GET request. There are no retries.
func (s *HTTPSource) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPolicySource, err)
	}
	req.Header.Set("Accept", "text/markdown, text/plain;q=0.9, */*;q=0.1")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching policy: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s", ErrPolicyStatus, resp.Status)
	}

	return readCapped(resp.Body)
}

// FSSource reads the policy from a filesystem, e.g. the site assets.
type FSSource struct {
	FS   fs.FS
	Path string
}

// Fetch reads the file at Path.
func (s *FSSource) Fetch(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.FS == nil {
		return "", fmt.Errorf("%w: no filesystem", ErrPolicySource)
	}

	f, err := s.FS.Open(strings.TrimPrefix(s.Path, "/"))
	if err != nil {
		return "", fmt.Errorf("opening policy: %w", err)
	}
	defer f.Close()

	return readCapped(f)
}

// readCapped reads at most MaxPolicySize bytes.
func readCapped(r io.Reader) (string, error) {
	b, err := io.ReadAll(io.LimitReader(r, MaxPolicySize+1))
	if err != nil {
		return "", fmt.Errorf("reading policy: %w", err)
	}
	if len(b) > MaxPolicySize {
		return "", fmt.Errorf("%w: more than %d bytes", ErrPolicyTooLarge, MaxPolicySize)
	}
	return string(b), nil
}

// NewPolicySource picks a source for a configured location:
//
//   - ""                  -> PRIVACY_POLICY.md in site (the bundled or overridden assets)
//   - "https://..."       -> HTTPSource
//   - "./PRIVACY_POLICY.md" or any other path -> that file on disk
func NewPolicySource(location string, site fs.FS, client *http.Client) (PolicySource, error) {
	switch {
	case location == "":
		if site == nil {
			return nil, fmt.Errorf("%w: no location and no site assets", ErrPolicySource)
		}
		return &FSSource{FS: site, Path: DefaultPolicyPath}, nil
	case fileutil.IsURL(location):
		return &HTTPSource{URL: location, Client: client}, nil
	default:
		abs, err := filepath.Abs(location)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPolicySource, err)
		}
		return &FSSource{FS: os.DirFS(filepath.Dir(abs)), Path: filepath.Base(abs)}, nil
	}
}

// Document is the outcome of one policy fetch.
// Text is never empty: on failure it holds FallbackPolicy and Err says why.
type Document struct {
	Text     string
	Fallback bool
	Err      error
}

// FetchPolicy fetches the policy once, substituting FallbackPolicy on any failure.
func FetchPolicy(ctx context.Context, src PolicySource) Document {
	text, err := src.Fetch(ctx)
	if err != nil {
		return Document{Text: FallbackPolicy, Fallback: true, Err: err}
	}
	return Document{Text: text}
}

// IsFetchFailure reports whether err came from an unreachable or rejected source
// rather than from cancellation.
func IsFetchFailure(err error) bool {
	return err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}
