package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-blog/internal/content"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/pages"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// DefaultOutputDir receives exports when neither the config nor the request
// names a directory.
const DefaultOutputDir = "exports"

// Service exports posts to files on disk.
type Service interface {
	Export(ctx context.Context, req Request) (*Result, error)
}

// Config carries site-level settings for the exporter.
type Config struct {
	// OutputDir is the default destination directory.
	OutputDir string

	// BaseURL lets renderers emit absolute permalinks. Blank disables them.
	BaseURL string

	// Format is the default output format. Blank selects PDF.
	Format Format
}

// Dependencies lists the collaborating services.
type Dependencies struct {
	Content content.Service

	// Pages resolves post routes for permalinks. Optional: without it
	// exports simply carry no source links.
	Pages pages.Service
}

// Request selects which posts to export and where to put them.
type Request struct {
	// Slugs names specific posts. Empty exports every listed post.
	Slugs []string

	// Format overrides the configured default.
	Format Format

	// OutputDir overrides the configured destination.
	OutputDir string

	// IncludeDrafts lists drafts too when exporting everything. Posts
	// requested by slug export regardless of their draft flag.
	IncludeDrafts bool
}

// File describes one written export.
type File struct {
	Slug string
	Path string
	Size int64
}

// Result reports what an export produced.
type Result struct {
	Format    Format
	OutputDir string
	Files     []File
}

// Option customizes service construction.
type Option func(*service)

// WithLogger sets the exporter logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	cfg    Config
	deps   Dependencies
	logger interfaces.Logger
}

// NewService builds the exporter.
func NewService(cfg Config, deps Dependencies, opts ...Option) (Service, error) {
	if deps.Content == nil {
		return nil, errContentRequired
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	svc := &service{
		cfg:    cfg,
		deps:   deps,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc, nil
}

// NewDisabledService returns a Service that rejects every call.
func NewDisabledService() Service {
	return disabledService{}
}

type disabledService struct{}

func (disabledService) Export(context.Context, Request) (*Result, error) {
	return nil, ErrServiceDisabled
}

func (s *service) Export(ctx context.Context, req Request) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	format := req.Format
	if format == "" {
		format = s.cfg.Format
	}
	if format == "" {
		format = FormatPDF
	}
	renderer, err := rendererFor(format)
	if err != nil {
		return nil, err
	}

	outputDir := strings.TrimSpace(req.OutputDir)
	if outputDir == "" {
		outputDir = strings.TrimSpace(s.cfg.OutputDir)
	}
	if outputDir == "" {
		outputDir = DefaultOutputDir
	}

	posts, err := s.resolvePosts(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return &Result{Format: format, OutputDir: outputDir}, nil
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("export: create output directory %s: %w", outputDir, err)
	}

	result := &Result{Format: format, OutputDir: outputDir}
	var errs []error
	for _, post := range posts {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		data, err := renderer.Render(Document{
			Post:      post,
			Permalink: s.permalink(post),
		})
		if err != nil {
			errs = append(errs, err)
			continue
		}
		path := filepath.Join(outputDir, post.Slug+renderer.Extension())
		if err := os.WriteFile(path, data, 0o644); err != nil {
			errs = append(errs, fmt.Errorf("export: write %s: %w", path, err))
			continue
		}
		result.Files = append(result.Files, File{
			Slug: post.Slug,
			Path: path,
			Size: int64(len(data)),
		})
	}

	sort.Slice(result.Files, func(i, j int) bool {
		return result.Files[i].Slug < result.Files[j].Slug
	})
	s.logger.Info("export.completed",
		"format", string(format),
		"output_dir", outputDir,
		"files", len(result.Files),
		"errors", len(errs),
	)
	return result, errors.Join(errs...)
}

// resolvePosts loads the requested posts. Explicit slugs are fetched one by
// one so a missing slug surfaces as a lookup error instead of a silent gap.
func (s *service) resolvePosts(ctx context.Context, req Request) ([]*content.Post, error) {
	if len(req.Slugs) == 0 {
		posts, err := s.deps.Content.List(ctx, content.ListPostsRequest{IncludeDrafts: req.IncludeDrafts})
		if err != nil {
			return nil, fmt.Errorf("export: list posts: %w", err)
		}
		return posts, nil
	}

	posts := make([]*content.Post, 0, len(req.Slugs))
	seen := make(map[string]struct{}, len(req.Slugs))
	for _, raw := range req.Slugs {
		slug := strings.ToLower(strings.TrimSpace(raw))
		if slug == "" {
			continue
		}
		if _, dup := seen[slug]; dup {
			continue
		}
		seen[slug] = struct{}{}
		post, err := s.deps.Content.GetBySlug(ctx, slug)
		if err != nil {
			return nil, fmt.Errorf("export: load post %s: %w", slug, err)
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (s *service) permalink(post *content.Post) string {
	if s.cfg.BaseURL == "" || s.deps.Pages == nil {
		return ""
	}
	path, err := s.deps.Pages.PostPath(post.Slug)
	if err != nil {
		s.logger.Warn("export.permalink_failed", "slug", post.Slug, "error", err)
		return ""
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return s.cfg.BaseURL + path
}
