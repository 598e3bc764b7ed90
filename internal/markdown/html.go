package markdown

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
)

// htmlNoiseSelectors are elements removed before converting HTML pages into
// Markdown. They carry navigation chrome or executable content rather than
// prose, so dropping them keeps imported posts readable.
var htmlNoiseSelectors = []string{
	"script", "style", "noscript",
	"nav", "footer", "header",
	"iframe", "form", "button", "input", "select", "textarea",
	".sidebar", ".menu", ".navigation", ".ads",
}

// HTMLConversion carries the outcome of converting an HTML page to Markdown.
type HTMLConversion struct {
	Title    string
	Markdown []byte
}

// ConvertHTML extracts the main content from a full HTML page and converts it
// to Markdown. The page <title> (or first <h1>) is reported separately so
// importers can seed frontmatter for documents that never had any.
func ConvertHTML(source []byte) (*HTMLConversion, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(source)))
	if err != nil {
		return nil, fmt.Errorf("markdown html: parse: %w", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	for _, sel := range htmlNoiseSelectors {
		doc.Find(sel).Remove()
	}

	// Prefer the most semantic container, falling back to <body>.
	var content *goquery.Selection
	for _, tag := range []string{"main", "article", "body"} {
		sel := doc.Find(tag)
		if sel.Length() > 0 {
			content = sel.First()
			break
		}
	}
	if content == nil {
		return nil, fmt.Errorf("markdown html: no content container found")
	}

	fragment, err := goquery.OuterHtml(content)
	if err != nil {
		return nil, fmt.Errorf("markdown html: serialise content: %w", err)
	}

	converted, err := htmltomarkdown.ConvertString(fragment)
	if err != nil {
		return nil, fmt.Errorf("markdown html: convert: %w", err)
	}

	return &HTMLConversion{
		Title:    title,
		Markdown: []byte(strings.TrimSpace(converted) + "\n"),
	}, nil
}
