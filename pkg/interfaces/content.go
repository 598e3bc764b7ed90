package interfaces

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PostService abstracts the post store so Markdown import workflows and render
// pipelines can provision or read posts without depending on internal
// implementations.
type PostService interface {
	Create(ctx context.Context, req PostCreateRequest) (*PostRecord, error)
	Update(ctx context.Context, req PostUpdateRequest) (*PostRecord, error)
	GetBySlug(ctx context.Context, slug string) (*PostRecord, error)
	List(ctx context.Context, opts PostListOptions) ([]*PostRecord, error)
	Delete(ctx context.Context, req PostDeleteRequest) error
}

// PostListOptions filters list reads. The zero value lists every published
// post ordered by publish date, newest first.
type PostListOptions struct {
	IncludeDrafts bool
	Tag           string
	Year          int
}

// PostCreateRequest captures the details required to create a post.
type PostCreateRequest struct {
	Slug        string
	Title       string
	Summary     *string
	Body        string
	BodyHTML    string
	Tags        []string
	Author      string
	Template    string
	Draft       bool
	PublishedAt time.Time
	UpdatedAt   time.Time
	SourcePath  string
	Checksum    string
	Metadata    map[string]any
}

// PostUpdateRequest captures the mutable fields for an existing post.
type PostUpdateRequest struct {
	ID          uuid.UUID
	Title       string
	Summary     *string
	Body        string
	BodyHTML    string
	Tags        []string
	Author      string
	Template    string
	Draft       bool
	PublishedAt time.Time
	UpdatedAt   time.Time
	SourcePath  string
	Checksum    string
	Metadata    map[string]any
}

// PostDeleteRequest identifies the post to remove.
type PostDeleteRequest struct {
	ID uuid.UUID
}

// PostRecord reflects the persisted state returned by the post service.
type PostRecord struct {
	ID          uuid.UUID
	Slug        string
	Title       string
	Summary     *string
	Body        string
	BodyHTML    string
	Excerpt     string
	Tags        []string
	Author      string
	Template    string
	Draft       bool
	PublishedAt time.Time
	UpdatedAt   time.Time
	SourcePath  string
	// Checksum stores the hex-encoded SHA-256 of the source file so imports
	// can skip unchanged documents.
	Checksum string
	Metadata map[string]any
}
