package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// MarkdownRenderer writes a post back out as a frontmatter document. The
// emitted keys mirror what the loader reads, so exported files re-import
// without edits.
type MarkdownRenderer struct{}

// NewMarkdownRenderer builds a Markdown renderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}

type exportFrontMatter struct {
	Title    string         `yaml:"title"`
	Slug     string         `yaml:"slug"`
	Summary  string         `yaml:"summary,omitempty"`
	Author   string         `yaml:"author,omitempty"`
	Date     *time.Time     `yaml:"date,omitempty"`
	Updated  *time.Time     `yaml:"updated,omitempty"`
	Tags     []string       `yaml:"tags,omitempty"`
	Template string         `yaml:"template,omitempty"`
	Draft    bool           `yaml:"draft,omitempty"`
	Custom   map[string]any `yaml:",inline"`
}

// Render serialises the post as YAML frontmatter followed by its Markdown
// body.
func (r *MarkdownRenderer) Render(doc Document) ([]byte, error) {
	if doc.Post == nil {
		return nil, ErrPostRequired
	}
	post := doc.Post

	fm := exportFrontMatter{
		Title:    post.Title,
		Slug:     post.Slug,
		Author:   strings.TrimSpace(post.Author),
		Tags:     post.Tags,
		Template: strings.TrimSpace(post.Template),
		Draft:    post.Draft,
		Custom:   post.Metadata,
	}
	if post.Summary != nil {
		fm.Summary = strings.TrimSpace(*post.Summary)
	}
	if !post.PublishedAt.IsZero() {
		published := post.PublishedAt
		fm.Date = &published
	}
	if !post.UpdatedAt.IsZero() && !post.UpdatedAt.Equal(post.PublishedAt) {
		updated := post.UpdatedAt
		fm.Updated = &updated
	}

	encoded, err := yaml.Marshal(&fm)
	if err != nil {
		return nil, fmt.Errorf("export: encode frontmatter for %s: %w", post.Slug, err)
	}
	body, err := documentMarkdown(post)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(encoded)
	buf.WriteString("---\n")
	if body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}
