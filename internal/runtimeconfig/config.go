package runtimeconfig

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
)

// ErrSiteTitleRequired indicates the site cannot be rendered without a title.
var ErrSiteTitleRequired = errors.New("blog config: site title is required")

// ErrSiteBaseURLInvalid indicates the configured base URL failed to parse.
var ErrSiteBaseURLInvalid = errors.New("blog config: site base url is invalid")

// ErrThemesFeatureRequired indicates inconsistent theme configuration.
var ErrThemesFeatureRequired = errors.New("blog config: themes feature must be enabled to configure a default theme")

// ErrFeedsRequireBaseURL ensures feeds only build when absolute links can be formed.
var ErrFeedsRequireBaseURL = errors.New("blog config: feeds require the site base url")

var ErrContentDirRequired = errors.New("blog config: content directory is required")
var ErrContentPageSizeInvalid = errors.New("blog config: content page size must be zero or positive")
var ErrGeneratorOutputDirRequired = errors.New("blog config: generator output directory is required when generator is enabled")
var ErrGeneratorWorkersInvalid = errors.New("blog config: generator workers must be zero or positive")
var ErrCacheDirRequired = errors.New("blog config: cache directory is required when the build cache is enabled")
var ErrWidgetPlacementInvalid = errors.New("blog config: widget placements need a widget name and an area")
var ErrLoggingProviderRequired = errors.New("blog config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("blog config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("blog config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("blog config: logging format is invalid")
var ErrExportFormatInvalid = errors.New("blog config: export format is invalid")

// Config aggregates feature flags and adapter bindings for the blog module.
// Fields intentionally use simple types so host applications can extend them later.
type Config struct {
	Enabled   bool
	Site      SiteConfig
	Content   ContentConfig
	Markdown  MarkdownConfig
	Routes    RoutesConfig
	Themes    ThemeConfig
	Widgets   WidgetConfig
	Cache     CacheConfig
	Generator GeneratorConfig
	Export    ExportConfig
	Commands  CommandsConfig
	Logging   LoggingConfig
	Features  Features
}

// SiteConfig carries the site-wide metadata rendered into every page.
type SiteConfig struct {
	Title       string
	Description string
	Author      string
	BaseURL     string
	Language    string
	Nav         []NavLink
}

// NavLink is a single navigation entry rendered by the theme header partial.
type NavLink struct {
	Label string
	URL   string
}

// ContentConfig captures filesystem discovery and listing behaviour for posts.
type ContentConfig struct {
	Dir           string
	Pattern       string
	Recursive     bool
	IncludeDrafts bool
	ExcerptLength int
	PageSize      int
}

// MarkdownConfig captures parser behaviour for Markdown ingestion.
type MarkdownConfig struct {
	Parser MarkdownParserConfig
}

// MarkdownParserConfig mirrors interfaces.ParseOptions for runtime configuration.
type MarkdownParserConfig struct {
	Extensions []string
	HardWraps  bool
	SafeMode   bool
}

// RoutesConfig captures routing configuration for page path resolution.
type RoutesConfig struct {
	RouteConfig *urlkit.Config
	Group       string
}

// ThemeConfig captures configuration for the themes module.
type ThemeConfig struct {
	BasePath     string
	DefaultTheme string
	Variant      string
}

// WidgetConfig controls registry bootstrapping.
type WidgetConfig struct {
	Definitions []WidgetDefinitionConfig
	Placements  []WidgetPlacementConfig
}

// WidgetDefinitionConfig mirrors the minimal RegisterDefinitionInput requirements.
type WidgetDefinitionConfig struct {
	Name        string
	Description string
	Schema      map[string]any
	Defaults    map[string]any
	Category    string
	Icon        string
}

// WidgetPlacementConfig pins a keyed widget instance into a theme widget
// area. Keyed instances resolve to deterministic identifiers, so the same
// placement binds the same instance across builds.
type WidgetPlacementConfig struct {
	Widget        string
	Area          string
	Key           string
	Configuration map[string]any
	Position      int
}

// CacheConfig captures build cache behaviour.
type CacheConfig struct {
	Enabled    bool
	Dir        string
	DefaultTTL time.Duration
}

// GeneratorConfig captures behaviour for the static site generator.
type GeneratorConfig struct {
	Enabled         bool
	OutputDir       string
	CleanBuild      bool
	Incremental     bool
	CopyAssets      bool
	GenerateSitemap bool
	GenerateRobots  bool
	GenerateFeeds   bool
	FeedLimit       int
	Workers         int
	RenderTimeout   time.Duration
}

// ExportConfig captures defaults for the post exporter. Format accepts the
// same values as the export CLI: pdf, markdown (md), json. Blank selects PDF.
type ExportConfig struct {
	OutputDir string
	Format    string
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	Enabled bool
	Timeout time.Duration
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// Features toggles module functionality.
type Features struct {
	Widgets    bool
	Shortcodes bool
	Themes     bool
	Preview    bool
	Export     bool
	Logger     bool
}

// DefaultConfig returns opinionated defaults for a single-author blog.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Site: SiteConfig{
			Title:    "My Blog",
			Language: "en",
		},
		Content: ContentConfig{
			Dir:           "content",
			Pattern:       "*.md",
			Recursive:     true,
			ExcerptLength: 240,
			PageSize:      10,
		},
		Markdown: MarkdownConfig{
			Parser: MarkdownParserConfig{
				Extensions: []string{"gfm"},
			},
		},
		Routes: RoutesConfig{
			Group: "site",
		},
		Themes: ThemeConfig{
			BasePath: "themes",
			Variant:  "light",
		},
		Widgets: WidgetConfig{
			Definitions: []WidgetDefinitionConfig{
				{
					Name:        "counter",
					Description: "Interactive counter with increment and decrement controls and a zero floor",
					Schema: map[string]any{
						"fields": []any{
							map[string]any{"name": "label", "type": "text"},
							map[string]any{"name": "start", "schema": map[string]any{"type": "number", "minimum": 0}},
						},
					},
					Defaults: map[string]any{
						"label": "Counter",
						"start": 0,
					},
					Category: "interactive",
					Icon:     "plus-minus",
				},
			},
			Placements: []WidgetPlacementConfig{
				{
					Widget: "counter",
					Area:   "footer",
					Key:    "footer-counter",
				},
			},
		},
		Cache: CacheConfig{
			Enabled:    false,
			Dir:        ".blog-cache",
			DefaultTTL: time.Minute,
		},
		Generator: GeneratorConfig{
			OutputDir:       "dist",
			CleanBuild:      true,
			Incremental:     false,
			CopyAssets:      true,
			GenerateSitemap: true,
			GenerateRobots:  false,
			GenerateFeeds:   false,
			FeedLimit:       0,
			Workers:         0,
			RenderTimeout:   0,
		},
		Export: ExportConfig{
			OutputDir: "exports",
		},
		Commands: CommandsConfig{},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
		Features: Features{},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Site.Title) == "" {
		return ErrSiteTitleRequired
	}
	if base := strings.TrimSpace(cfg.Site.BaseURL); base != "" {
		parsed, err := url.Parse(base)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("%w: %s", ErrSiteBaseURLInvalid, base)
		}
	}
	if !cfg.Features.Themes {
		if strings.TrimSpace(cfg.Themes.DefaultTheme) != "" {
			return ErrThemesFeatureRequired
		}
	}
	if strings.TrimSpace(cfg.Content.Dir) == "" {
		return ErrContentDirRequired
	}
	if cfg.Content.PageSize < 0 {
		return ErrContentPageSizeInvalid
	}
	if cfg.Cache.Enabled && strings.TrimSpace(cfg.Cache.Dir) == "" {
		return ErrCacheDirRequired
	}
	for _, placement := range cfg.Widgets.Placements {
		if strings.TrimSpace(placement.Widget) == "" || strings.TrimSpace(placement.Area) == "" {
			return ErrWidgetPlacementInvalid
		}
	}
	if cfg.Generator.Enabled {
		if strings.TrimSpace(cfg.Generator.OutputDir) == "" {
			return ErrGeneratorOutputDirRequired
		}
		if cfg.Generator.Workers < 0 {
			return ErrGeneratorWorkersInvalid
		}
		if cfg.Generator.GenerateFeeds && strings.TrimSpace(cfg.Site.BaseURL) == "" {
			return ErrFeedsRequireBaseURL
		}
	}
	if cfg.Features.Export {
		if format := strings.ToLower(strings.TrimSpace(cfg.Export.Format)); format != "" && !isSupportedExportFormat(format) {
			return fmt.Errorf("%w: %s", ErrExportFormatInvalid, cfg.Export.Format)
		}
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedExportFormat(format string) bool {
	switch format {
	case "pdf", "md", "markdown", "json":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
