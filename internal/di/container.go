package di

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-blog/internal/buildcache"
	"github.com/goliatone/go-blog/internal/content"
	"github.com/goliatone/go-blog/internal/export"
	"github.com/goliatone/go-blog/internal/generator"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/logging/console"
	"github.com/goliatone/go-blog/internal/logging/gologger"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/internal/pages"
	"github.com/goliatone/go-blog/internal/runtimeconfig"
	"github.com/goliatone/go-blog/internal/shortcode"
	"github.com/goliatone/go-blog/internal/themes"
	"github.com/goliatone/go-blog/internal/widgets"
	"github.com/goliatone/go-blog/pkg/interfaces"
	urlkit "github.com/goliatone/go-urlkit"
)

// Container wires the blog services from a validated runtime configuration.
// Construction is eager: every enabled service exists once NewContainer
// returns, and feature-gated services fall back to their disabled or no-op
// variants so callers never test for nil.
type Container struct {
	cfg runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	parser         interfaces.MarkdownParser
	now            func() time.Time

	postRepo content.PostRepository

	contentSvc   content.Service
	markdownSvc  interfaces.MarkdownService
	pageSvc      pages.Service
	widgetSvc    widgets.Service
	shortcodeSvc interfaces.ShortcodeService
	generatorSvc generator.Service
	exportSvc    export.Service

	theme      *themes.Theme
	engine     *themes.Engine
	selector   *themes.Selector
	cache      *buildcache.Cache
	placements []generator.WidgetPlacement
}

// Option mutates the container before services are wired.
type Option func(*Container)

// WithLoggerProvider overrides the provider derived from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithMarkdownParser overrides the default goldmark parser.
func WithMarkdownParser(parser interfaces.MarkdownParser) Option {
	return func(c *Container) {
		if parser != nil {
			c.parser = parser
		}
	}
}

// WithClock overrides the time source handed to services.
func WithClock(now func() time.Time) Option {
	return func(c *Container) {
		if now != nil {
			c.now = now
		}
	}
}

// WithPostRepository overrides the in-memory post store.
func WithPostRepository(repo content.PostRepository) Option {
	return func(c *Container) {
		if repo != nil {
			c.postRepo = repo
		}
	}
}

// WithContentService overrides the default content service binding.
func WithContentService(svc content.Service) Option {
	return func(c *Container) {
		c.contentSvc = svc
	}
}

// WithWidgetService overrides the default widget service binding.
func WithWidgetService(svc widgets.Service) Option {
	return func(c *Container) {
		c.widgetSvc = svc
	}
}

// NewContainer validates the configuration and wires every service. The
// content directory must exist: the markdown loader stats it up front.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		cfg: cfg,
		now: time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if c.loggerProvider == nil {
		provider, err := buildLoggerProvider(cfg)
		if err != nil {
			return nil, err
		}
		c.loggerProvider = provider
	}
	if c.parser == nil {
		c.parser = markdown.NewGoldmarkParser(parseOptions(cfg.Markdown.Parser))
	}
	if c.postRepo == nil {
		c.postRepo = content.NewMemoryPostRepository()
	}

	if c.contentSvc == nil {
		contentOpts := []content.ServiceOption{content.WithClock(c.now)}
		if cfg.Content.ExcerptLength > 0 {
			contentOpts = append(contentOpts, content.WithExcerptLength(cfg.Content.ExcerptLength))
		}
		c.contentSvc = content.NewService(c.postRepo, contentOpts...)
	}

	if err := c.wireMarkdown(); err != nil {
		return nil, err
	}
	c.wirePages()
	if err := c.wireThemes(); err != nil {
		return nil, err
	}
	if err := c.wireWidgets(); err != nil {
		return nil, err
	}
	if err := c.wireBuildCache(); err != nil {
		return nil, err
	}
	if err := c.wireShortcodes(); err != nil {
		return nil, err
	}
	c.wireGenerator()
	if err := c.wireExport(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Container) wireMarkdown() error {
	importer := markdown.NewImporter(markdown.ImporterConfig{
		Posts:  newPostServiceAdapter(c.contentSvc),
		Logger: logging.ModuleLogger(c.loggerProvider, "blog.importer"),
	})

	svc, err := markdown.NewService(markdown.Config{
		BasePath:  c.cfg.Content.Dir,
		Pattern:   c.cfg.Content.Pattern,
		Recursive: c.cfg.Content.Recursive,
		Parser:    parseOptions(c.cfg.Markdown.Parser),
	}, c.parser,
		markdown.WithImporter(importer),
		markdown.WithLogger(logging.ModuleLogger(c.loggerProvider, "blog.markdown")),
	)
	if err != nil {
		return fmt.Errorf("di: markdown service: %w", err)
	}
	c.markdownSvc = svc
	return nil
}

func (c *Container) wirePages() {
	var manager *urlkit.RouteManager
	if c.cfg.Routes.RouteConfig != nil {
		manager = urlkit.NewRouteManager(c.cfg.Routes.RouteConfig)
	} else {
		manager = urlkit.NewRouteManager(pages.DefaultRouteConfig())
	}

	c.pageSvc = pages.NewService(pages.Config{
		Manager:  manager,
		Group:    c.cfg.Routes.Group,
		PageSize: c.cfg.Content.PageSize,
	}, pages.WithLogger(logging.ModuleLogger(c.loggerProvider, "blog.pages")))
}

func (c *Container) wireThemes() error {
	theme, err := themes.ResolveTheme(c.cfg.Themes.BasePath, c.cfg.Themes.DefaultTheme)
	if err != nil {
		return fmt.Errorf("di: resolve theme: %w", err)
	}
	c.theme = theme

	engine, err := themes.NewEngine(theme, themes.WithEngineBaseURL(c.cfg.Site.BaseURL))
	if err != nil {
		return fmt.Errorf("di: theme engine: %w", err)
	}
	c.engine = engine

	selector := themes.NewSelector(theme.Name, c.cfg.Themes.Variant)
	if err := selector.Register(theme); err != nil {
		return fmt.Errorf("di: register theme: %w", err)
	}
	c.selector = selector
	return nil
}

func (c *Container) wireWidgets() error {
	if c.widgetSvc == nil && !c.cfg.Features.Widgets {
		c.widgetSvc = widgets.NewNoOpService()
		return nil
	}

	logger := logging.ModuleLogger(c.loggerProvider, "blog.widgets")

	if c.widgetSvc == nil {
		registry := widgets.NewRegistry()
		registry.RegisterFactory(widgets.CounterWidgetName, widgets.CounterRegistration(widgets.NewCounterRenderer(logger)))

		c.widgetSvc = widgets.NewService(
			widgets.NewMemoryDefinitionRepository(),
			widgets.NewMemoryInstanceRepository(),
			widgets.WithRegistry(registry),
			widgets.WithClock(c.now),
		)
	}

	ctx := context.Background()
	for _, def := range c.cfg.Widgets.Definitions {
		_, err := c.widgetSvc.RegisterDefinition(ctx, widgets.RegisterDefinitionInput{
			Name:        def.Name,
			Description: optionalString(def.Description),
			Schema:      def.Schema,
			Defaults:    def.Defaults,
			Category:    optionalString(def.Category),
			Icon:        optionalString(def.Icon),
		})
		if err != nil && !errors.Is(err, widgets.ErrDefinitionExists) {
			return fmt.Errorf("di: register widget definition %q: %w", def.Name, err)
		}
	}
	if err := c.widgetSvc.SyncRegistry(ctx); err != nil {
		return fmt.Errorf("di: sync widget registry: %w", err)
	}

	for _, placement := range c.cfg.Widgets.Placements {
		definition, err := c.widgetSvc.GetDefinitionByName(ctx, placement.Widget)
		if err != nil {
			return fmt.Errorf("di: widget placement %q: %w", placement.Widget, err)
		}
		instance, err := c.widgetSvc.EnsureInstance(ctx, widgets.CreateInstanceInput{
			DefinitionID:  definition.ID,
			Key:           placement.Key,
			Configuration: placement.Configuration,
			Position:      placement.Position,
		})
		if err != nil {
			return fmt.Errorf("di: widget instance %q/%q: %w", placement.Widget, placement.Key, err)
		}
		c.placements = append(c.placements, generator.WidgetPlacement{
			Area:       placement.Area,
			InstanceID: instance.ID,
			Position:   placement.Position,
		})
	}
	return nil
}

func (c *Container) wireShortcodes() error {
	if !c.cfg.Features.Shortcodes {
		c.shortcodeSvc = shortcode.NewNoOpService()
		return nil
	}

	validator := shortcode.NewValidator()
	extras := []interfaces.ShortcodeDefinition{}
	if c.cfg.Features.Widgets {
		extras = append(extras, shortcode.CounterShortcode(c.widgetSvc))
	}
	registry, err := shortcode.NewBuiltInRegistry(validator, extras...)
	if err != nil {
		return err
	}

	rendererOpts := []shortcode.RendererOption{}
	if c.cache != nil {
		rendererOpts = append(rendererOpts, shortcode.WithRendererCache(c.cache))
	}
	renderer := shortcode.NewRenderer(registry, validator, rendererOpts...)

	c.shortcodeSvc = shortcode.NewService(registry, renderer,
		shortcode.WithLogger(logging.ModuleLogger(c.loggerProvider, "blog.shortcodes")))
	return nil
}

func (c *Container) wireBuildCache() error {
	if !c.cfg.Cache.Enabled {
		return nil
	}
	cache, err := buildcache.New(buildcache.Config{
		Dir:        c.cfg.Cache.Dir,
		DefaultTTL: c.cfg.Cache.DefaultTTL,
	},
		buildcache.WithLogger(logging.ModuleLogger(c.loggerProvider, "blog.buildcache")),
		buildcache.WithClock(c.now),
	)
	if err != nil {
		return fmt.Errorf("di: build cache: %w", err)
	}
	c.cache = cache
	return nil
}

func (c *Container) wireGenerator() {
	if !c.cfg.Generator.Enabled {
		c.generatorSvc = generator.NewDisabledService()
		return
	}

	gen := c.cfg.Generator

	// The generator namespaces artifacts under OutputDir inside the writer
	// root, so an absolute destination splits into root + directory name.
	outputDir := filepath.Clean(strings.TrimSpace(gen.OutputDir))
	writerRoot := filepath.Dir(outputDir)
	baseDir := filepath.Base(outputDir)

	c.generatorSvc = generator.NewService(generator.Config{
		OutputDir:        baseDir,
		Site:             siteContext(c.cfg.Site),
		Variant:          c.cfg.Themes.Variant,
		CleanBuild:       gen.CleanBuild,
		Incremental:      gen.Incremental,
		CopyAssets:       gen.CopyAssets,
		GenerateSitemap:  gen.GenerateSitemap,
		GenerateRobots:   gen.GenerateRobots,
		GenerateFeeds:    gen.GenerateFeeds,
		FeedLimit:        gen.FeedLimit,
		Workers:          gen.Workers,
		RenderTimeout:    gen.RenderTimeout,
		WidgetPlacements: c.placements,
	}, generator.Dependencies{
		Content:    c.contentSvc,
		Pages:      c.pageSvc,
		Widgets:    c.widgetSvc,
		Shortcodes: c.shortcodeSvc,
		Markdown:   c.parser,
		Renderer:   c.engine,
		Theme:      c.theme,
		Selector:   c.selector,
		Writer:     generator.NewFSWriter(writerRoot),
		StaticFS:   os.DirFS(c.cfg.Content.Dir),
	},
		generator.WithLogger(logging.ModuleLogger(c.loggerProvider, "blog.generator")),
		generator.WithClock(c.now),
	)
}

func (c *Container) wireExport() error {
	if !c.cfg.Features.Export {
		c.exportSvc = export.NewDisabledService()
		return nil
	}

	format, err := export.ParseFormat(c.cfg.Export.Format)
	if err != nil {
		return fmt.Errorf("di: export format: %w", err)
	}
	svc, err := export.NewService(export.Config{
		OutputDir: c.cfg.Export.OutputDir,
		BaseURL:   c.cfg.Site.BaseURL,
		Format:    format,
	}, export.Dependencies{
		Content: c.contentSvc,
		Pages:   c.pageSvc,
	}, export.WithLogger(logging.ModuleLogger(c.loggerProvider, "blog.export")))
	if err != nil {
		return fmt.Errorf("di: export service: %w", err)
	}
	c.exportSvc = svc
	return nil
}

// Config returns the configuration the container was built from.
func (c *Container) Config() runtimeconfig.Config {
	return c.cfg
}

// LoggerProvider returns the provider every module logger derives from.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// MarkdownParser returns the shared markdown parser.
func (c *Container) MarkdownParser() interfaces.MarkdownParser {
	return c.parser
}

// ContentService returns the post CRUD service.
func (c *Container) ContentService() content.Service {
	return c.contentSvc
}

// MarkdownService returns the load/render/import pipeline.
func (c *Container) MarkdownService() interfaces.MarkdownService {
	return c.markdownSvc
}

// PageService returns the render-plan service.
func (c *Container) PageService() pages.Service {
	return c.pageSvc
}

// WidgetService returns the widget service, a no-op when the feature is off.
func (c *Container) WidgetService() widgets.Service {
	return c.widgetSvc
}

// ShortcodeService returns the shortcode pipeline, a no-op when the feature is off.
func (c *Container) ShortcodeService() interfaces.ShortcodeService {
	return c.shortcodeSvc
}

// GeneratorService returns the static site builder, disabled unless configured.
func (c *Container) GeneratorService() generator.Service {
	return c.generatorSvc
}

// ExportService returns the post exporter, disabled unless the feature is on.
func (c *Container) ExportService() export.Service {
	return c.exportSvc
}

// Theme returns the resolved active theme.
func (c *Container) Theme() *themes.Theme {
	return c.theme
}

// TemplateRenderer returns the theme-backed renderer.
func (c *Container) TemplateRenderer() interfaces.TemplateRenderer {
	return c.engine
}

// ThemeSelector returns the registered theme selector.
func (c *Container) ThemeSelector() *themes.Selector {
	return c.selector
}

// BuildCache returns the disk cache, nil when caching is disabled.
func (c *Container) BuildCache() *buildcache.Cache {
	return c.cache
}

// WidgetPlacements returns the instances bound from configured placements.
func (c *Container) WidgetPlacements() []generator.WidgetPlacement {
	return append([]generator.WidgetPlacement(nil), c.placements...)
}

func buildLoggerProvider(cfg runtimeconfig.Config) (interfaces.LoggerProvider, error) {
	if !cfg.Features.Logger {
		return console.NewProvider(console.Options{}), nil
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Provider)) {
	case "", "console":
		opts := console.Options{}
		if level, ok := consoleLevel(cfg.Logging.Level); ok {
			opts.MinLevel = &level
		}
		return console.NewProvider(opts), nil
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
			Focus:     cfg.Logging.Focus,
		})
		if err != nil {
			return nil, fmt.Errorf("di: logger provider: %w", err)
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("di: unknown logging provider %q", cfg.Logging.Provider)
	}
}

func consoleLevel(level string) (console.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return console.LevelTrace, true
	case "debug":
		return console.LevelDebug, true
	case "info":
		return console.LevelInfo, true
	case "warn", "warning":
		return console.LevelWarn, true
	case "error":
		return console.LevelError, true
	case "fatal":
		return console.LevelFatal, true
	default:
		return console.LevelInfo, false
	}
}

func parseOptions(cfg runtimeconfig.MarkdownParserConfig) interfaces.ParseOptions {
	return interfaces.ParseOptions{
		Extensions: append([]string(nil), cfg.Extensions...),
		HardWraps:  cfg.HardWraps,
		SafeMode:   cfg.SafeMode,
	}
}

func siteContext(site runtimeconfig.SiteConfig) generator.SiteContext {
	ctx := generator.SiteContext{
		Title:       site.Title,
		Description: site.Description,
		Author:      site.Author,
		BaseURL:     site.BaseURL,
		Language:    site.Language,
	}
	for _, link := range site.Nav {
		ctx.Nav = append(ctx.Nav, generator.NavLink{Label: link.Label, URL: link.URL})
	}
	return ctx
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
