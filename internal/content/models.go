package content

import (
	"time"

	"github.com/google/uuid"
)

// Post is a blog entry backed by a Markdown source file. Body holds the
// Markdown source and HTML the rendered output; the analysis fields
// (Excerpt, Outline, WordCount, ReadingTime) are derived from HTML on write.
type Post struct {
	ID          uuid.UUID
	Slug        string
	Title       string
	Summary     *string
	Body        string
	HTML        string
	Excerpt     string
	Outline     []Heading
	WordCount   int
	ReadingTime int
	Tags        []string
	Author      string
	Template    string
	Draft       bool
	PublishedAt time.Time
	UpdatedAt   time.Time
	SourcePath  string
	Checksum    string
	Metadata    map[string]any
	CreatedAt   time.Time
}

// Heading is a single entry in a post's table of contents.
type Heading struct {
	ID    string
	Level int
	Text  string
}
