package di

import (
	"context"
	"errors"

	"github.com/goliatone/go-blog/internal/content"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// postServiceAdapter bridges the internal post service onto the
// interfaces.PostService contract the Markdown importer consumes.
type postServiceAdapter struct {
	service content.Service
}

func newPostServiceAdapter(service content.Service) interfaces.PostService {
	if service == nil {
		return nil
	}
	return &postServiceAdapter{service: service}
}

var errContentUnavailable = errors.New("di: content service unavailable")

func (a *postServiceAdapter) Create(ctx context.Context, req interfaces.PostCreateRequest) (*interfaces.PostRecord, error) {
	if a == nil || a.service == nil {
		return nil, errContentUnavailable
	}
	post, err := a.service.Create(ctx, content.CreatePostRequest{
		Slug:        req.Slug,
		Title:       req.Title,
		Summary:     req.Summary,
		Body:        req.Body,
		HTML:        req.BodyHTML,
		Tags:        req.Tags,
		Author:      req.Author,
		Template:    req.Template,
		Draft:       req.Draft,
		PublishedAt: req.PublishedAt,
		UpdatedAt:   req.UpdatedAt,
		SourcePath:  req.SourcePath,
		Checksum:    req.Checksum,
		Metadata:    cloneMetadata(req.Metadata),
	})
	if err != nil {
		return nil, err
	}
	return toPostRecord(post), nil
}

func (a *postServiceAdapter) Update(ctx context.Context, req interfaces.PostUpdateRequest) (*interfaces.PostRecord, error) {
	if a == nil || a.service == nil {
		return nil, errContentUnavailable
	}
	post, err := a.service.Update(ctx, content.UpdatePostRequest{
		ID:          req.ID,
		Title:       req.Title,
		Summary:     req.Summary,
		Body:        req.Body,
		HTML:        req.BodyHTML,
		Tags:        req.Tags,
		Author:      req.Author,
		Template:    req.Template,
		Draft:       req.Draft,
		PublishedAt: req.PublishedAt,
		UpdatedAt:   req.UpdatedAt,
		SourcePath:  req.SourcePath,
		Checksum:    req.Checksum,
		Metadata:    cloneMetadata(req.Metadata),
	})
	if err != nil {
		return nil, err
	}
	return toPostRecord(post), nil
}

func (a *postServiceAdapter) GetBySlug(ctx context.Context, slug string) (*interfaces.PostRecord, error) {
	if a == nil || a.service == nil {
		return nil, errContentUnavailable
	}
	post, err := a.service.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return toPostRecord(post), nil
}

func (a *postServiceAdapter) List(ctx context.Context, opts interfaces.PostListOptions) ([]*interfaces.PostRecord, error) {
	if a == nil || a.service == nil {
		return nil, errContentUnavailable
	}
	posts, err := a.service.List(ctx, content.ListPostsRequest{
		IncludeDrafts: opts.IncludeDrafts,
		Tag:           opts.Tag,
		Year:          opts.Year,
	})
	if err != nil {
		return nil, err
	}
	records := make([]*interfaces.PostRecord, 0, len(posts))
	for _, post := range posts {
		records = append(records, toPostRecord(post))
	}
	return records, nil
}

func (a *postServiceAdapter) Delete(ctx context.Context, req interfaces.PostDeleteRequest) error {
	if a == nil || a.service == nil {
		return errContentUnavailable
	}
	return a.service.Delete(ctx, req.ID)
}

func toPostRecord(post *content.Post) *interfaces.PostRecord {
	if post == nil {
		return nil
	}
	return &interfaces.PostRecord{
		ID:          post.ID,
		Slug:        post.Slug,
		Title:       post.Title,
		Summary:     post.Summary,
		Body:        post.Body,
		BodyHTML:    post.HTML,
		Excerpt:     post.Excerpt,
		Tags:        append([]string(nil), post.Tags...),
		Author:      post.Author,
		Template:    post.Template,
		Draft:       post.Draft,
		PublishedAt: post.PublishedAt,
		UpdatedAt:   post.UpdatedAt,
		SourcePath:  post.SourcePath,
		Checksum:    post.Checksum,
		Metadata:    cloneMetadata(post.Metadata),
	}
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
