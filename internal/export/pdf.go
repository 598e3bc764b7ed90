package export

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// pdfDateFormat matches the theme engine's default display format.
const pdfDateFormat = "January 2, 2006"

var pdfHeadingSizes = map[int]float64{1: 18, 2: 15, 3: 13, 4: 12, 5: 11, 6: 10}

// PDFRenderer renders a post as an A4 PDF: title and byline up top, then the
// Markdown body with sized headings, bullet and numbered lists, and shaded
// monospace code blocks. Images are skipped.
type PDFRenderer struct {
	dateFormat string
}

// PDFOption customizes the PDF renderer.
type PDFOption func(*PDFRenderer)

// WithPDFDateFormat overrides the byline date layout.
func WithPDFDateFormat(layout string) PDFOption {
	return func(r *PDFRenderer) {
		if strings.TrimSpace(layout) != "" {
			r.dateFormat = layout
		}
	}
}

// NewPDFRenderer builds a PDF renderer.
func NewPDFRenderer(opts ...PDFOption) *PDFRenderer {
	renderer := &PDFRenderer{dateFormat: pdfDateFormat}
	for _, opt := range opts {
		if opt != nil {
			opt(renderer)
		}
	}
	return renderer
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

// Render converts the post into PDF bytes.
func (r *PDFRenderer) Render(doc Document) ([]byte, error) {
	if doc.Post == nil {
		return nil, ErrPostRequired
	}
	post := doc.Post

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	if post.Title != "" {
		pdf.SetFont("Helvetica", "B", 18)
		pdf.MultiCell(0, 8, post.Title, "", "L", false)
		pdf.Ln(2)
	}

	if byline := r.byline(doc); byline != "" {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetTextColor(100, 100, 100)
		pdf.MultiCell(0, 5, byline, "", "L", false)
		pdf.SetTextColor(0, 0, 0)
	}
	if doc.Permalink != "" {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetTextColor(100, 100, 100)
		pdf.MultiCell(0, 5, "Source: "+doc.Permalink, "", "L", false)
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.Ln(6)

	if post.Summary != nil {
		if summary := strings.TrimSpace(*post.Summary); summary != "" {
			pdf.SetFont("Helvetica", "I", 10)
			pdf.MultiCell(0, 5, summary, "", "L", false)
			pdf.Ln(4)
		}
	}

	markdown, err := documentMarkdown(post)
	if err != nil {
		return nil, err
	}
	r.writeBody(pdf, markdown)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("export: write pdf for %s: %w", post.Slug, err)
	}
	return buf.Bytes(), nil
}

func (r *PDFRenderer) byline(doc Document) string {
	post := doc.Post
	parts := make([]string, 0, 2)
	if author := strings.TrimSpace(post.Author); author != "" {
		parts = append(parts, author)
	}
	if !post.PublishedAt.IsZero() {
		parts = append(parts, post.PublishedAt.Format(r.dateFormat))
	}
	return strings.Join(parts, " / ")
}

// writeBody walks the Markdown line by line. Fenced code toggles a
// monospace shaded mode; everything else maps to heading, list, quote or
// paragraph cells.
func (r *PDFRenderer) writeBody(pdf *gofpdf.Fpdf, markdown string) {
	inCodeBlock := false
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			inCodeBlock = !inCodeBlock
			pdf.Ln(2)
			continue
		}
		if inCodeBlock {
			pdf.SetFont("Courier", "", 9)
			pdf.SetFillColor(245, 245, 245)
			pdf.MultiCell(0, 4.5, line, "", "L", true)
			continue
		}

		if trimmed == "" {
			pdf.Ln(3)
			continue
		}

		if strings.HasPrefix(trimmed, "#") {
			level := headingLevel(trimmed)
			text := strings.TrimSpace(strings.TrimLeft(trimmed, "# "))
			r.writeHeading(pdf, text, level)
			continue
		}

		if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") {
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, "• "+stripInlineMarkdown(trimmed[2:]), "", "L", false)
			continue
		}
		if orderedItemPattern.MatchString(trimmed) {
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, stripInlineMarkdown(trimmed), "", "L", false)
			continue
		}

		if strings.HasPrefix(trimmed, "> ") {
			pdf.SetFont("Helvetica", "I", 10)
			pdf.SetTextColor(80, 80, 80)
			pdf.MultiCell(0, 5, stripInlineMarkdown(strings.TrimPrefix(trimmed, "> ")), "", "L", false)
			pdf.SetTextColor(0, 0, 0)
			continue
		}

		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, stripInlineMarkdown(trimmed), "", "L", false)
	}
}

func (r *PDFRenderer) writeHeading(pdf *gofpdf.Fpdf, text string, level int) {
	size, ok := pdfHeadingSizes[level]
	if !ok {
		size = 10
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", size)
	pdf.MultiCell(0, size*0.6, stripInlineMarkdown(text), "", "L", false)
	pdf.Ln(2)
}

func headingLevel(line string) int {
	level := 0
	for _, ch := range line {
		if ch != '#' {
			break
		}
		level++
	}
	return level
}

var (
	orderedItemPattern = regexp.MustCompile(`^\d+\.\s`)
	italicPattern      = regexp.MustCompile(`(?:^|\s)\*([^*]+)\*(?:\s|$)`)
	inlineCodePattern  = regexp.MustCompile("`([^`]+)`")
	linkPattern        = regexp.MustCompile(`\[([^\]]*)\]\(([^)]+)\)`)
	imagePattern       = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
)

// stripInlineMarkdown drops inline formatting the flat PDF text cannot
// carry, keeping link and emphasis text.
func stripInlineMarkdown(text string) string {
	text = imagePattern.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "__", "")
	text = italicPattern.ReplaceAllString(text, " $1 ")
	text = inlineCodePattern.ReplaceAllString(text, "$1")
	text = linkPattern.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}
