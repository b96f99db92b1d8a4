package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// byteOrderMark is stripped from fetched documents; editors on Windows add it.
const byteOrderMark = "\uFEFF"

var (
	crlfOrCR           = regexp.MustCompile(`\r\n?`)
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
	trailingSpaces     = regexp.MustCompile(`[ \t]+\n`)
)

// MarkdownPreprocessor defines the contract for markdown preprocessing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// PolicyPreprocessor normalizes fetched policy text before conversion.
type PolicyPreprocessor struct{}

// PreprocessMarkdown strips the BOM, normalizes line endings and trims
// runs of blank lines. Two trailing spaces are a Markdown hard break, so
// only lines ending in a single space or tab run are left for goldmark.
func (p *PolicyPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}

	content = strings.TrimPrefix(content, byteOrderMark)
	content = crlfOrCR.ReplaceAllString(content, "\n")
	content = trimTrailingSpaces(content)
	content = multipleBlankLines.ReplaceAllString(content, "\n\n")
	return content
}

// trimTrailingSpaces removes trailing whitespace except Markdown hard breaks.
func trimTrailingSpaces(content string) string {
	return trailingSpaces.ReplaceAllStringFunc(content, func(m string) string {
		if strings.HasSuffix(m, "  \n") {
			return m
		}
		return "\n"
	})
}
