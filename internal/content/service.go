package content

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-blog/internal/identity"
	"github.com/google/uuid"
)

// Service exposes blog post use-cases.
type Service interface {
	Create(ctx context.Context, req CreatePostRequest) (*Post, error)
	Update(ctx context.Context, req UpdatePostRequest) (*Post, error)
	Get(ctx context.Context, id uuid.UUID) (*Post, error)
	GetBySlug(ctx context.Context, slug string) (*Post, error)
	List(ctx context.Context, req ListPostsRequest) ([]*Post, error)
	ListByTag(ctx context.Context, tag string) ([]*Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreatePostRequest captures the information required to create a post.
type CreatePostRequest struct {
	Slug        string
	Title       string
	Summary     *string
	Body        string
	HTML        string
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

// UpdatePostRequest replaces the mutable fields of an existing post. The slug
// is immutable once created. Zero-valued PublishedAt keeps the stored date;
// empty SourcePath and Checksum keep the stored values.
type UpdatePostRequest struct {
	ID          uuid.UUID
	Title       string
	Summary     *string
	Body        string
	HTML        string
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

// ListPostsRequest filters listings. The zero value lists published posts
// ordered by publish date, newest first, slug as tiebreak.
type ListPostsRequest struct {
	IncludeDrafts bool
	Tag           string
	Year          int
}

var (
	ErrTitleRequired  = errors.New("content: title is required")
	ErrSlugRequired   = errors.New("content: slug is required")
	ErrSlugInvalid    = errors.New("content: slug contains invalid characters")
	ErrSlugExists     = errors.New("content: slug already exists")
	ErrPostIDRequired = errors.New("content: post id required")
)

// PostRepository abstracts storage operations for posts.
type PostRepository interface {
	Create(ctx context.Context, record *Post) (*Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Post, error)
	GetBySlug(ctx context.Context, slug string) (*Post, error)
	List(ctx context.Context) ([]*Post, error)
	Update(ctx context.Context, record *Post) (*Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// NotFoundError represents missing records from repository lookups.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// ServiceOption customizes service construction.
type ServiceOption func(*service)

// WithClock overrides the time source used for timestamps.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// IDGenerator derives post identifiers from slugs.
type IDGenerator func(slug string) uuid.UUID

// WithIDGenerator overrides the post identifier derivation.
func WithIDGenerator(gen IDGenerator) ServiceOption {
	return func(s *service) {
		if gen != nil {
			s.id = gen
		}
	}
}

// WithExcerptLength bounds derived excerpts to the given rune count.
func WithExcerptLength(length int) ServiceOption {
	return func(s *service) {
		if length > 0 {
			s.excerptLength = length
		}
	}
}

// service implements Service.
type service struct {
	posts         PostRepository
	now           func() time.Time
	id            IDGenerator
	excerptLength int
}

// NewService constructs a post service backed by the supplied repository.
func NewService(posts PostRepository, opts ...ServiceOption) Service {
	s := &service{
		posts:         posts,
		now:           time.Now,
		id:            identity.PostUUID,
		excerptLength: defaultExcerptLength,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Create validates and stores a new post. Identifiers derive from the slug so
// repeated imports of the same source produce the same post ID.
func (s *service) Create(ctx context.Context, req CreatePostRequest) (*Post, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		return nil, ErrSlugRequired
	}
	if !isValidSlug(slug) {
		return nil, ErrSlugInvalid
	}

	if existing, err := s.posts.GetBySlug(ctx, slug); err == nil && existing != nil {
		return nil, ErrSlugExists
	} else if err != nil {
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	if err := validateFrontMatterMetadata(req.Metadata); err != nil {
		return nil, err
	}

	now := s.now()
	published := req.PublishedAt
	if published.IsZero() {
		published = now
	}
	updated := req.UpdatedAt
	if updated.IsZero() {
		updated = published
	}

	record := &Post{
		ID:          s.id(slug),
		Slug:        slug,
		Title:       title,
		Summary:     cloneStringPtr(req.Summary),
		Body:        req.Body,
		HTML:        req.HTML,
		Tags:        normalizeTags(req.Tags),
		Author:      strings.TrimSpace(req.Author),
		Template:    strings.TrimSpace(req.Template),
		Draft:       req.Draft,
		PublishedAt: published,
		UpdatedAt:   updated,
		SourcePath:  req.SourcePath,
		Checksum:    req.Checksum,
		Metadata:    cloneMetadata(req.Metadata),
		CreatedAt:   now,
	}
	analyzePost(record, s.excerptLength)

	return s.posts.Create(ctx, record)
}

// Update replaces the mutable fields of an existing post and re-derives the
// analysis fields.
func (s *service) Update(ctx context.Context, req UpdatePostRequest) (*Post, error) {
	if req.ID == uuid.Nil {
		return nil, ErrPostIDRequired
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	if err := validateFrontMatterMetadata(req.Metadata); err != nil {
		return nil, err
	}

	record, err := s.posts.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	record.Title = title
	record.Summary = cloneStringPtr(req.Summary)
	record.Body = req.Body
	record.HTML = req.HTML
	record.Tags = normalizeTags(req.Tags)
	record.Author = strings.TrimSpace(req.Author)
	record.Template = strings.TrimSpace(req.Template)
	record.Draft = req.Draft
	if !req.PublishedAt.IsZero() {
		record.PublishedAt = req.PublishedAt
	}
	if req.UpdatedAt.IsZero() {
		record.UpdatedAt = s.now()
	} else {
		record.UpdatedAt = req.UpdatedAt
	}
	if req.SourcePath != "" {
		record.SourcePath = req.SourcePath
	}
	if req.Checksum != "" {
		record.Checksum = req.Checksum
	}
	if req.Metadata != nil {
		record.Metadata = cloneMetadata(req.Metadata)
	}
	record.Excerpt = ""
	analyzePost(record, s.excerptLength)

	return s.posts.Update(ctx, record)
}

// Get fetches a post by identifier.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*Post, error) {
	return s.posts.GetByID(ctx, id)
}

// GetBySlug fetches a post by slug.
func (s *service) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	return s.posts.GetBySlug(ctx, strings.TrimSpace(slug))
}

// List returns posts matching the request, newest first.
func (s *service) List(ctx context.Context, req ListPostsRequest) ([]*Post, error) {
	records, err := s.posts.List(ctx)
	if err != nil {
		return nil, err
	}

	tag := strings.TrimSpace(req.Tag)
	out := make([]*Post, 0, len(records))
	for _, record := range records {
		if record == nil {
			continue
		}
		if record.Draft && !req.IncludeDrafts {
			continue
		}
		if tag != "" && !hasTag(record, tag) {
			continue
		}
		if req.Year != 0 && record.PublishedAt.Year() != req.Year {
			continue
		}
		out = append(out, record)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].PublishedAt.Equal(out[j].PublishedAt) {
			return out[i].Slug < out[j].Slug
		}
		return out[i].PublishedAt.After(out[j].PublishedAt)
	})

	return out, nil
}

// ListByTag returns published posts carrying the given tag, newest first.
func (s *service) ListByTag(ctx context.Context, tag string) ([]*Post, error) {
	return s.List(ctx, ListPostsRequest{Tag: tag})
}

// Delete removes a post.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrPostIDRequired
	}
	return s.posts.Delete(ctx, id)
}

func isValidSlug(slug string) bool {
	const pattern = "^[a-z0-9\\-]+$"
	matched, _ := regexp.MatchString(pattern, slug)
	return matched
}

func hasTag(record *Post, tag string) bool {
	for _, candidate := range record.Tags {
		if strings.EqualFold(strings.TrimSpace(candidate), tag) {
			return true
		}
	}
	return false
}

func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func cloneStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneMetadata(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
