package export

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-blog/internal/content"
)

// JSONRenderer produces a structured document for downstream tooling: the
// post fields plus the analysis the content service derives (outline, word
// count, reading time).
type JSONRenderer struct{}

// NewJSONRenderer builds a JSON renderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}

type jsonHeading struct {
	ID    string `json:"id,omitempty"`
	Level int    `json:"level"`
	Text  string `json:"text"`
}

type jsonDocument struct {
	Slug        string         `json:"slug"`
	Title       string         `json:"title"`
	Summary     string         `json:"summary,omitempty"`
	Author      string         `json:"author,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Template    string         `json:"template,omitempty"`
	Draft       bool           `json:"draft,omitempty"`
	Permalink   string         `json:"permalink,omitempty"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`
	UpdatedAt   *time.Time     `json:"updated_at,omitempty"`
	WordCount   int            `json:"word_count"`
	ReadingTime int            `json:"reading_time"`
	Excerpt     string         `json:"excerpt,omitempty"`
	Outline     []jsonHeading  `json:"outline,omitempty"`
	Markdown    string         `json:"markdown,omitempty"`
	HTML        string         `json:"html,omitempty"`
	Checksum    string         `json:"checksum,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Render marshals the post with two-space indentation.
func (r *JSONRenderer) Render(doc Document) ([]byte, error) {
	if doc.Post == nil {
		return nil, ErrPostRequired
	}
	post := doc.Post

	markdown, err := documentMarkdown(post)
	if err != nil {
		return nil, err
	}

	out := jsonDocument{
		Slug:        post.Slug,
		Title:       post.Title,
		Author:      strings.TrimSpace(post.Author),
		Tags:        post.Tags,
		Template:    strings.TrimSpace(post.Template),
		Draft:       post.Draft,
		Permalink:   doc.Permalink,
		WordCount:   post.WordCount,
		ReadingTime: post.ReadingTime,
		Excerpt:     post.Excerpt,
		Outline:     jsonOutline(post.Outline),
		Markdown:    markdown,
		HTML:        post.HTML,
		Checksum:    post.Checksum,
		Metadata:    post.Metadata,
	}
	if post.Summary != nil {
		out.Summary = strings.TrimSpace(*post.Summary)
	}
	if !post.PublishedAt.IsZero() {
		published := post.PublishedAt
		out.PublishedAt = &published
	}
	if !post.UpdatedAt.IsZero() {
		updated := post.UpdatedAt
		out.UpdatedAt = &updated
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export: encode json for %s: %w", post.Slug, err)
	}
	return data, nil
}

func jsonOutline(headings []content.Heading) []jsonHeading {
	if len(headings) == 0 {
		return nil
	}
	out := make([]jsonHeading, 0, len(headings))
	for _, heading := range headings {
		out = append(out, jsonHeading{
			ID:    heading.ID,
			Level: heading.Level,
			Text:  heading.Text,
		})
	}
	return out
}
