package generator

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-blog/internal/content"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/pages"
	"github.com/goliatone/go-blog/internal/themes"
	"github.com/goliatone/go-blog/internal/widgets"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

var (
	// ErrServiceDisabled indicates the generator feature is disabled.
	ErrServiceDisabled = errors.New("generator: service disabled")
	// ErrOutputDirUnsafe indicates a clean request that would reach outside
	// the build root.
	ErrOutputDirUnsafe  = errors.New("generator: output directory outside the build root")
	errRendererRequired = errors.New("generator: template renderer is required")
	errContentRequired  = errors.New("generator: content service is required")
	errPagesRequired    = errors.New("generator: page planner is required")
	errMarkdownRequired = errors.New("generator: markdown parser is required")
)

// Service describes the static site generator contract.
type Service interface {
	Build(ctx context.Context, opts BuildOptions) (*BuildResult, error)
	Clean(ctx context.Context) error
}

// Config captures runtime behaviour toggles for the generator.
type Config struct {
	OutputDir        string
	Site             SiteContext
	Variant          string
	CSSPrefix        string
	Version          string
	CleanBuild       bool
	Incremental      bool
	CopyAssets       bool
	GenerateSitemap  bool
	GenerateRobots   bool
	GenerateFeeds    bool
	FeedLimit        int
	Workers          int
	RenderTimeout    time.Duration
	WidgetPlacements []WidgetPlacement
}

// Dependencies lists the services the generator renders through.
type Dependencies struct {
	Content    content.Service
	Pages      pages.Service
	Widgets    widgets.Service
	Shortcodes interfaces.ShortcodeService
	Markdown   interfaces.MarkdownParser
	Renderer   interfaces.TemplateRenderer
	Theme      *themes.Theme
	Selector   *themes.Selector
	Writer     ArtifactWriter
	StaticFS   fs.FS
}

// BuildOptions narrows the scope of a generator run.
type BuildOptions struct {
	DryRun        bool
	Force         bool
	IncludeDrafts bool
}

// BuildResult reports aggregated build metadata.
type BuildResult struct {
	PagesBuilt    int
	PagesSkipped  int
	AssetsBuilt   int
	AssetsSkipped int
	FeedsBuilt    int
	OutputDir     string
	Duration      time.Duration
	Rendered      []RenderedPage
	Diagnostics   []RenderDiagnostic
	Errors        []error
	DryRun        bool
}

// RenderedPage is one page the build produced.
type RenderedPage struct {
	Kind         string
	Path         string
	Template     string
	Output       string
	HTML         string
	Hash         string
	Checksum     string
	LastModified time.Time
	Duration     time.Duration
}

// RenderDiagnostic records the outcome of a single page render.
type RenderDiagnostic struct {
	Path     string
	Kind     string
	Template string
	Duration time.Duration
	Skipped  bool
	Err      error
}

type renderOutcome struct {
	diagnostic RenderDiagnostic
	page       RenderedPage
	skipped    bool
	err        error
}

// Option configures the service.
type Option func(*service)

// WithLogger sets the build logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the build timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires a generator with the provided configuration and
// dependencies.
func NewService(cfg Config, deps Dependencies, opts ...Option) Service {
	svc := &service{
		cfg:    cfg,
		deps:   deps,
		now:    time.Now,
		logger: logging.NoOp(),
	}
	svc.cfg.Site.BaseURL = strings.TrimRight(strings.TrimSpace(svc.cfg.Site.BaseURL), "/")
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

// NewDisabledService returns a Service that fails all operations with
// ErrServiceDisabled.
func NewDisabledService() Service {
	return disabledService{}
}

type service struct {
	cfg    Config
	deps   Dependencies
	now    func() time.Time
	logger interfaces.Logger
}

type disabledService struct{}

func (s *service) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.deps.Renderer == nil {
		return nil, errRendererRequired
	}
	if s.deps.Content == nil {
		return nil, errContentRequired
	}
	if s.deps.Pages == nil {
		return nil, errPagesRequired
	}

	start := time.Now()
	state, err := s.loadState(ctx, opts)
	if err != nil {
		return nil, err
	}

	baseDir := strings.Trim(strings.TrimSpace(s.cfg.OutputDir), "/")
	writer := newArtifactWriter(s.deps.Writer)

	manifest, manifestErr := s.loadManifest(ctx, writer)
	if manifestErr != nil {
		s.logger.Warn("generator.manifest_unreadable", "error", manifestErr)
		manifest = newBuildManifest()
	}
	if opts.Force {
		manifest = newBuildManifest()
	}

	result := &BuildResult{
		DryRun:      opts.DryRun,
		OutputDir:   baseDir,
		Diagnostics: make([]RenderDiagnostic, 0, len(state.plan.Pages)),
	}

	var (
		mu       sync.Mutex
		errs     []error
		rendered = make([]RenderedPage, 0, len(state.plan.Pages))
		pageKeys = map[string]struct{}{}
	)
	collect := func(outcome renderOutcome) {
		mu.Lock()
		defer mu.Unlock()
		result.Diagnostics = append(result.Diagnostics, outcome.diagnostic)
		pageKeys[pageKey(outcome.diagnostic.Path)] = struct{}{}
		if outcome.err != nil {
			errs = append(errs, outcome.err)
			return
		}
		if outcome.skipped {
			result.PagesSkipped++
			return
		}
		result.PagesBuilt++
		rendered = append(rendered, outcome.page)
	}

	workerCount := s.effectiveWorkerCount(len(state.plan.Pages))
	if workerCount <= 1 || len(state.plan.Pages) <= 1 {
		for _, page := range state.plan.Pages {
			if err := ctx.Err(); err != nil {
				errs = append(errs, err)
				break
			}
			collect(s.renderPage(ctx, page, state, manifest, baseDir, opts))
		}
	} else {
		s.renderConcurrently(ctx, state, workerCount, manifest, baseDir, opts, collect)
	}

	sort.Slice(rendered, func(i, j int) bool { return rendered[i].Path < rendered[j].Path })
	sort.Slice(result.Diagnostics, func(i, j int) bool {
		return result.Diagnostics[i].Path < result.Diagnostics[j].Path
	})

	if opts.DryRun {
		result.Rendered = rendered
		result.Duration = time.Since(start)
		if len(errs) > 0 {
			result.Errors = append(result.Errors, errs...)
			return result, errors.Join(errs...)
		}
		return result, nil
	}

	if s.cfg.CleanBuild && !s.cfg.Incremental && len(errs) == 0 {
		if err := s.cleanOutput(ctx, writer, baseDir); err != nil {
			errs = append(errs, err)
		} else {
			manifest = newBuildManifest()
		}
	}
	if baseDir != "" {
		if err := writer.EnsureDir(ctx, baseDir); err != nil {
			errs = append(errs, err)
		}
	}

	if err := s.persistPages(ctx, writer, rendered, manifest, state, baseDir); err != nil {
		errs = append(errs, err)
	}

	if s.cfg.CopyAssets {
		assetKeep := map[string]struct{}{}
		themeSummary, err := s.copyThemeAssets(ctx, writer, state, manifest, baseDir, assetKeep)
		if err != nil {
			errs = append(errs, err)
		}
		staticSummary, err := s.copyStaticAssets(ctx, writer, manifest, baseDir, assetKeep)
		if err != nil {
			errs = append(errs, err)
		}
		themeSummary.add(staticSummary)
		result.AssetsBuilt = themeSummary.Built
		result.AssetsSkipped = themeSummary.Skipped
		manifest.pruneAssets(assetKeep)
	}

	if s.cfg.GenerateFeeds {
		written, err := s.writeFeeds(ctx, writer, state, baseDir)
		result.FeedsBuilt = written
		if err != nil {
			errs = append(errs, err)
		}
	}
	if s.cfg.GenerateSitemap {
		if err := s.writeSitemap(ctx, writer, state, manifest, baseDir); err != nil {
			errs = append(errs, err)
		}
	}
	if s.cfg.GenerateRobots {
		if err := s.writeRobots(ctx, writer, state, baseDir); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) == 0 {
		manifest.GeneratedAt = state.generatedAt
		manifest.prunePages(pageKeys)
		if err := s.persistManifest(ctx, writer, manifest, baseDir); err != nil {
			errs = append(errs, err)
		}
	}

	result.Rendered = rendered
	result.Duration = time.Since(start)
	s.logger.Info("generator.build_completed",
		"pages", result.PagesBuilt,
		"skipped", result.PagesSkipped,
		"assets", result.AssetsBuilt,
		"duration", result.Duration.String(),
		"errors", len(errs),
	)
	if len(errs) > 0 {
		result.Errors = append(result.Errors, errs...)
		return result, errors.Join(errs...)
	}
	return result, nil
}

// Clean removes the generated output tree. It refuses paths that would
// escape the build root.
func (s *service) Clean(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	writer := newArtifactWriter(s.deps.Writer)
	baseDir := strings.Trim(strings.TrimSpace(s.cfg.OutputDir), "/")
	return s.cleanOutput(ctx, writer, baseDir)
}

func (s *service) cleanOutput(ctx context.Context, writer ArtifactWriter, baseDir string) error {
	if err := guardOutputDir(baseDir); err != nil {
		return err
	}
	if err := writer.RemoveAll(ctx, baseDir); err != nil {
		return fmt.Errorf("generator: clean %s: %w", baseDir, err)
	}
	s.logger.Info("generator.output_cleaned", "output", baseDir)
	return nil
}

func guardOutputDir(baseDir string) error {
	cleaned := path.Clean(strings.TrimSpace(baseDir))
	if cleaned == "" || cleaned == "." || cleaned == "/" || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return fmt.Errorf("%w: %q", ErrOutputDirUnsafe, baseDir)
	}
	return nil
}

func (s *service) renderConcurrently(
	ctx context.Context,
	state *buildState,
	workers int,
	manifest *buildManifest,
	baseDir string,
	opts BuildOptions,
	collect func(renderOutcome),
) {
	jobs := make(chan *pages.Page)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for page := range jobs {
				collect(s.renderPage(ctx, page, state, manifest, baseDir, opts))
			}
		}()
	}

feeding:
	for _, page := range state.plan.Pages {
		select {
		case <-ctx.Done():
			collect(renderOutcome{
				diagnostic: RenderDiagnostic{Path: page.Path, Kind: string(page.Kind), Err: ctx.Err()},
				err:        ctx.Err(),
			})
			break feeding
		case jobs <- page:
		}
	}
	close(jobs)
	wg.Wait()
}

func (s *service) renderPage(
	ctx context.Context,
	page *pages.Page,
	state *buildState,
	manifest *buildManifest,
	baseDir string,
	opts BuildOptions,
) renderOutcome {
	outcome := renderOutcome{
		diagnostic: RenderDiagnostic{Path: page.Path, Kind: string(page.Kind)},
	}
	if err := ctx.Err(); err != nil {
		outcome.err = err
		outcome.diagnostic.Err = err
		return outcome
	}

	templateName := resolveTemplate(page)
	outcome.diagnostic.Template = templateName
	hash := s.pageHash(page, state, templateName)
	expectedOutput := joinOutputPath(baseDir, buildOutputPath(page.Path))

	if s.cfg.Incremental && !opts.Force && manifest.shouldSkipPage(page.Path, hash, expectedOutput) {
		outcome.skipped = true
		outcome.diagnostic.Skipped = true
		return outcome
	}

	templateCtx := TemplateContext{
		Site:  s.cfg.Site,
		Page:  s.pageContext(page, state),
		Theme: state.theme,
		Build: BuildMetadata{GeneratedAt: state.generatedAt, Version: s.cfg.Version},
	}

	start := time.Now()
	html, err := s.deps.Renderer.RenderTemplate(templateName, templateCtx)
	duration := time.Since(start)
	outcome.diagnostic.Duration = duration
	if err != nil {
		wrapped := fmt.Errorf("generator: render %s (%s): %w", page.Path, templateName, err)
		outcome.err = wrapped
		outcome.diagnostic.Err = wrapped
		return outcome
	}
	if s.cfg.RenderTimeout > 0 && duration > s.cfg.RenderTimeout {
		s.logger.Warn("generator.render_slow",
			"path", page.Path,
			"template", templateName,
			"duration", duration.String(),
			"budget", s.cfg.RenderTimeout.String(),
		)
	}

	outcome.page = RenderedPage{
		Kind:         string(page.Kind),
		Path:         page.Path,
		Template:     templateName,
		HTML:         html,
		Hash:         hash,
		LastModified: pageLastModified(page),
		Duration:     duration,
	}
	return outcome
}

func (s *service) persistPages(
	ctx context.Context,
	writer ArtifactWriter,
	rendered []RenderedPage,
	manifest *buildManifest,
	state *buildState,
	baseDir string,
) error {
	if len(rendered) == 0 {
		return nil
	}
	dirCache := map[string]struct{}{}
	for i := range rendered {
		fullPath := joinOutputPath(baseDir, buildOutputPath(rendered[i].Path))
		if err := ensureDir(ctx, writer, dirCache, path.Dir(fullPath)); err != nil {
			return err
		}
		checksum := computeHashFromString(rendered[i].HTML)
		rendered[i].Output = fullPath
		rendered[i].Checksum = checksum

		if err := writer.WriteFile(ctx, WriteFileRequest{
			Path:        fullPath,
			Content:     strings.NewReader(rendered[i].HTML),
			Size:        int64(len(rendered[i].HTML)),
			Category:    categoryPage,
			ContentType: "text/html; charset=utf-8",
			Checksum:    checksum,
			Metadata: map[string]string{
				"path":     rendered[i].Path,
				"kind":     rendered[i].Kind,
				"template": rendered[i].Template,
			},
		}); err != nil {
			return err
		}

		manifest.setPage(manifestPage{
			Path:         rendered[i].Path,
			Kind:         rendered[i].Kind,
			Output:       fullPath,
			Template:     rendered[i].Template,
			Hash:         rendered[i].Hash,
			Checksum:     checksum,
			LastModified: rendered[i].LastModified,
			RenderedAt:   state.generatedAt,
		})
	}
	return nil
}

func (s *service) loadManifest(ctx context.Context, writer ArtifactWriter) (*buildManifest, error) {
	target := joinOutputPath(strings.Trim(strings.TrimSpace(s.cfg.OutputDir), "/"), manifestFileName)
	data, err := writer.ReadFile(ctx, target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return newBuildManifest(), nil
		}
		return nil, fmt.Errorf("generator: read build manifest: %w", err)
	}
	return parseBuildManifest(data)
}

func (s *service) persistManifest(ctx context.Context, writer ArtifactWriter, manifest *buildManifest, baseDir string) error {
	data, err := manifest.marshal()
	if err != nil {
		return fmt.Errorf("generator: marshal build manifest: %w", err)
	}
	return writer.WriteFile(ctx, WriteFileRequest{
		Path:        joinOutputPath(baseDir, manifestFileName),
		Content:     bytes.NewReader(data),
		Size:        int64(len(data)),
		Category:    categoryManifest,
		ContentType: "application/json",
		Checksum:    computeHash(data),
		Metadata: map[string]string{
			"generated_at": manifest.GeneratedAt.UTC().Format(time.RFC3339),
		},
	})
}

func (s *service) writeSitemap(
	ctx context.Context,
	writer ArtifactWriter,
	state *buildState,
	manifest *buildManifest,
	baseDir string,
) error {
	base := baseURLWithFallback(s.cfg.Site.BaseURL)
	entries := make([]sitemapEntry, 0, len(state.plan.Pages))
	for _, page := range state.plan.Pages {
		lastMod := pageLastModified(page)
		if lastMod.IsZero() {
			if entry, ok := manifest.lookupPage(page.Path); ok {
				lastMod = entry.LastModified
			}
		}
		if lastMod.IsZero() {
			lastMod = state.generatedAt
		}
		entries = append(entries, sitemapEntry{Location: base + page.Path, LastMod: lastMod})
	}

	content := buildSitemap(base, entries)
	return writer.WriteFile(ctx, WriteFileRequest{
		Path:        joinOutputPath(baseDir, "sitemap.xml"),
		Content:     strings.NewReader(content),
		Size:        int64(len(content)),
		Category:    categorySitemap,
		ContentType: "application/xml",
		Checksum:    computeHashFromString(content),
		Metadata: map[string]string{
			"generated_at": state.generatedAt.UTC().Format(time.RFC3339),
		},
	})
}

func (s *service) writeRobots(ctx context.Context, writer ArtifactWriter, state *buildState, baseDir string) error {
	content := buildRobots(s.cfg.Site.BaseURL, s.cfg.GenerateSitemap)
	return writer.WriteFile(ctx, WriteFileRequest{
		Path:        joinOutputPath(baseDir, "robots.txt"),
		Content:     strings.NewReader(content),
		Size:        int64(len(content)),
		Category:    categoryRobots,
		ContentType: "text/plain; charset=utf-8",
		Checksum:    computeHashFromString(content),
		Metadata: map[string]string{
			"generated_at": state.generatedAt.UTC().Format(time.RFC3339),
		},
	})
}

func (s *service) effectiveWorkerCount(pageCount int) int {
	workers := s.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}
	if pageCount > 0 && workers > pageCount {
		return pageCount
	}
	return workers
}

func ensureDir(ctx context.Context, writer ArtifactWriter, cache map[string]struct{}, dir string) error {
	dir = strings.TrimSpace(dir)
	if dir == "" || dir == "." {
		return nil
	}
	if cache != nil {
		if _, ok := cache[dir]; ok {
			return nil
		}
		cache[dir] = struct{}{}
	}
	return writer.EnsureDir(ctx, dir)
}

func computeHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func computeHashFromString(content string) string {
	return computeHash([]byte(content))
}

func (disabledService) Build(context.Context, BuildOptions) (*BuildResult, error) {
	return nil, ErrServiceDisabled
}

func (disabledService) Clean(context.Context) error {
	return ErrServiceDisabled
}
