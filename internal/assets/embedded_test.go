package assets

import (
	"errors"
	"io"
	"testing"
)

func TestEmbeddedLoader_LoadStyle(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	tests := []struct {
		name    string
		style   string
		wantErr error
	}{
		{name: "site style", style: "site"},
		{name: "policy style", style: "policy"},
		{name: "missing style", style: "corporate", wantErr: ErrStyleNotFound},
		{name: "traversal", style: "../styles/site", wantErr: ErrInvalidAssetName},
		{name: "extension", style: "site.css", wantErr: ErrInvalidAssetName},
		{name: "empty", style: "", wantErr: ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := loader.LoadStyle(tt.style)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("LoadStyle(%q) error = %v, want %v", tt.style, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadStyle(%q) error = %v", tt.style, err)
			}
			if got == "" {
				t.Errorf("LoadStyle(%q) returned empty content", tt.style)
			}
		})
	}
}

func TestEmbeddedLoader_LoadFile(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{name: "policy markdown", path: "PRIVACY_POLICY.md"},
		{name: "leading slash", path: "/privacy-policy.html"},
		{name: "data deletion page", path: "data-deletion.html"},
		{name: "nested screenshot", path: "screens/workers.svg"},
		{name: "logo", path: "logo_lale.svg"},
		{name: "missing team photo", path: "team/nandana.jpg", wantErr: ErrFileNotFound},
		{name: "traversal", path: "../embedded.go", wantErr: ErrInvalidAssetName},
		{name: "backslash", path: "screens\\workers.svg", wantErr: ErrInvalidAssetName},
		{name: "empty", path: "/", wantErr: ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := loader.LoadFile(tt.path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("LoadFile(%q) error = %v, want %v", tt.path, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadFile(%q) error = %v", tt.path, err)
			}
			if len(got) == 0 {
				t.Errorf("LoadFile(%q) returned empty content", tt.path)
			}
		})
	}
}

func TestEmbeddedLoader_Open(t *testing.T) {
	t.Parallel()

	f, err := NewEmbeddedLoader().Open("/google-play-badge.svg")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(b) == 0 {
		t.Error("Open() returned empty file")
	}
}
