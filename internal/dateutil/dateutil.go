// Package dateutil resolves the export stamp written into PDF metadata.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date layout string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxLayoutLength limits layout strings read from config.
const MaxLayoutLength = 50

// DefaultLayout is used for a bare "auto".
const DefaultLayout = "MMMM D, YYYY"

// tokens maps layout tokens to Go reference time components, longest first.
var tokens = []struct {
	token string
	goFmt string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// Presets are named layouts accepted after "auto:".
var Presets = map[string]string{
	"iso":   "YYYY-MM-DD",
	"long":  "MMMM D, YYYY",
	"short": "D MMM YYYY",
}

// GoLayout converts a token layout such as "D MMM YYYY" into a Go time layout.
// Text inside brackets is kept literally: "[Updated] MMM YYYY".
func GoLayout(layout string) (string, error) {
	if layout == "" {
		return "", fmt.Errorf("%w: layout cannot be empty", ErrInvalidDateFormat)
	}
	if len(layout) > MaxLayoutLength {
		return "", fmt.Errorf("%w: layout exceeds %d characters", ErrInvalidDateFormat, MaxLayoutLength)
	}

	var b strings.Builder
	rest := layout
	for rest != "" {
		if rest[0] == '[' {
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, len(layout)-len(rest))
			}
			b.WriteString(rest[1:end])
			rest = rest[end+1:]
			continue
		}
		n := matchToken(rest, &b)
		rest = rest[n:]
	}
	return b.String(), nil
}

// matchToken writes the Go form of the token at the start of s, or the first
// byte literally, and returns how many bytes were consumed.
func matchToken(s string, b *strings.Builder) int {
	for _, t := range tokens {
		if strings.HasPrefix(s, t.token) {
			b.WriteString(t.goFmt)
			return len(t.token)
		}
	}
	b.WriteByte(s[0])
	return 1
}

// Resolve expands "auto", "auto:<preset>" and "auto:<layout>" against now.
// Any other value, including empty, is returned unchanged.
func Resolve(value string, now time.Time) (string, error) {
	lower := strings.ToLower(value)
	switch {
	case !strings.HasPrefix(lower, "auto"):
		return value, nil
	case lower == "auto":
		return format(DefaultLayout, now)
	case !strings.HasPrefix(lower, "auto:"):
		return "", fmt.Errorf("%w: %q, use \"auto\" or \"auto:LAYOUT\"", ErrInvalidDateFormat, value)
	}

	layout := value[len("auto:"):]
	if preset, ok := Presets[strings.ToLower(layout)]; ok {
		layout = preset
	}
	return format(layout, now)
}

func format(layout string, now time.Time) (string, error) {
	goLayout, err := GoLayout(layout)
	if err != nil {
		return "", err
	}
	return now.Format(goLayout), nil
}
