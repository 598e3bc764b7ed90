package blog

import (
	"github.com/goliatone/go-blog/internal/buildcache"
	"github.com/goliatone/go-blog/internal/content"
	"github.com/goliatone/go-blog/internal/di"
	"github.com/goliatone/go-blog/internal/export"
	"github.com/goliatone/go-blog/internal/generator"
	"github.com/goliatone/go-blog/internal/pages"
	"github.com/goliatone/go-blog/internal/themes"
	"github.com/goliatone/go-blog/internal/widgets"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// ContentService exports the post CRUD contract for consumers of the blog package.
type ContentService = content.Service

// PageService exports the render-plan contract.
type PageService = pages.Service

// WidgetService exports the widgets service contract.
type WidgetService = widgets.Service

// ShortcodeService exports the shortcode pipeline contract.
type ShortcodeService = interfaces.ShortcodeService

// MarkdownService exports the markdown load/render/import contract.
type MarkdownService = interfaces.MarkdownService

// GeneratorService exports the static site generator contract.
type GeneratorService = generator.Service

// ExportService exports the post exporter contract.
type ExportService = export.Service

// Theme exports the theme model.
type Theme = themes.Theme

// ImportOptions exports the markdown import options.
type ImportOptions = interfaces.ImportOptions

// ImportResult exports the markdown import report.
type ImportResult = interfaces.ImportResult

// BuildOptions exports the generator run options.
type BuildOptions = generator.BuildOptions

// BuildResult exports the generator run report.
type BuildResult = generator.BuildResult

// ExportRequest exports the exporter request DTO.
type ExportRequest = export.Request

// ExportResult exports the exporter report.
type ExportResult = export.Result

// Post exports the post model.
type Post = content.Post

// Module is the top level blog runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a blog module using the provided configuration and optional
// DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Content returns the configured post service.
func (m *Module) Content() ContentService {
	return m.container.ContentService()
}

// Markdown returns the configured markdown pipeline.
func (m *Module) Markdown() MarkdownService {
	return m.container.MarkdownService()
}

// Pages returns the configured page planner.
func (m *Module) Pages() PageService {
	return m.container.PageService()
}

// Widgets returns the configured widget service.
func (m *Module) Widgets() WidgetService {
	return m.container.WidgetService()
}

// Shortcodes returns the configured shortcode service.
func (m *Module) Shortcodes() ShortcodeService {
	return m.container.ShortcodeService()
}

// Generator returns the configured static site generator.
func (m *Module) Generator() GeneratorService {
	return m.container.GeneratorService()
}

// Export returns the configured post exporter.
func (m *Module) Export() ExportService {
	return m.container.ExportService()
}

// Theme returns the active theme.
func (m *Module) Theme() *Theme {
	return m.container.Theme()
}

// BuildCache returns the disk cache, nil when caching is disabled.
func (m *Module) BuildCache() *buildcache.Cache {
	return m.container.BuildCache()
}

// Logger returns the logger provider every module logger derives from.
func (m *Module) Logger() interfaces.LoggerProvider {
	return m.container.LoggerProvider()
}
