// Package export renders stored posts into portable formats so content can
// leave the blog: PDF for reading, Markdown for round-tripping back through
// the importer, JSON for downstream tooling.
package export

import (
	"errors"
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/goliatone/go-blog/internal/content"
)

// Format selects an output renderer.
type Format string

const (
	FormatPDF      Format = "pdf"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

var (
	ErrServiceDisabled   = errors.New("export: service disabled")
	ErrUnsupportedFormat = errors.New("export: unsupported format")
	ErrPostRequired      = errors.New("export: post is required")

	errContentRequired = errors.New("export: content service is required")
)

// ParseFormat resolves user input into a Format. Blank input selects PDF.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "pdf":
		return FormatPDF, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, value)
}

// Document is the unit of work handed to a renderer: the post plus the
// metadata renderers surface that the post itself does not carry.
type Document struct {
	Post *content.Post

	// Permalink is the absolute URL of the published page, when the site
	// has a base URL to build one from.
	Permalink string
}

// Renderer turns one document into a file payload.
type Renderer interface {
	Render(doc Document) ([]byte, error)
	Extension() string
}

func rendererFor(format Format) (Renderer, error) {
	switch format {
	case FormatPDF:
		return NewPDFRenderer(), nil
	case FormatMarkdown:
		return NewMarkdownRenderer(), nil
	case FormatJSON:
		return NewJSONRenderer(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// documentMarkdown returns the Markdown source for a post. Posts imported
// from HTML store no Markdown body, so their rendered HTML converts back.
func documentMarkdown(post *content.Post) (string, error) {
	if body := strings.TrimSpace(post.Body); body != "" {
		return body, nil
	}
	html := strings.TrimSpace(post.HTML)
	if html == "" {
		return "", nil
	}
	markdown, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("export: convert stored html for %s: %w", post.Slug, err)
	}
	return strings.TrimSpace(markdown), nil
}
