package blog

import "github.com/goliatone/go-blog/internal/runtimeconfig"

var (
	ErrSiteTitleRequired          = runtimeconfig.ErrSiteTitleRequired
	ErrSiteBaseURLInvalid         = runtimeconfig.ErrSiteBaseURLInvalid
	ErrThemesFeatureRequired      = runtimeconfig.ErrThemesFeatureRequired
	ErrFeedsRequireBaseURL        = runtimeconfig.ErrFeedsRequireBaseURL
	ErrContentDirRequired         = runtimeconfig.ErrContentDirRequired
	ErrContentPageSizeInvalid     = runtimeconfig.ErrContentPageSizeInvalid
	ErrGeneratorOutputDirRequired = runtimeconfig.ErrGeneratorOutputDirRequired
	ErrGeneratorWorkersInvalid    = runtimeconfig.ErrGeneratorWorkersInvalid
	ErrCacheDirRequired           = runtimeconfig.ErrCacheDirRequired
	ErrWidgetPlacementInvalid     = runtimeconfig.ErrWidgetPlacementInvalid
	ErrLoggingProviderRequired    = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown     = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid        = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid       = runtimeconfig.ErrLoggingFormatInvalid
	ErrExportFormatInvalid        = runtimeconfig.ErrExportFormatInvalid
)

type (
	Config                 = runtimeconfig.Config
	SiteConfig             = runtimeconfig.SiteConfig
	NavLink                = runtimeconfig.NavLink
	ContentConfig          = runtimeconfig.ContentConfig
	MarkdownConfig         = runtimeconfig.MarkdownConfig
	MarkdownParserConfig   = runtimeconfig.MarkdownParserConfig
	RoutesConfig           = runtimeconfig.RoutesConfig
	ThemeConfig            = runtimeconfig.ThemeConfig
	WidgetConfig           = runtimeconfig.WidgetConfig
	WidgetDefinitionConfig = runtimeconfig.WidgetDefinitionConfig
	WidgetPlacementConfig  = runtimeconfig.WidgetPlacementConfig
	CacheConfig            = runtimeconfig.CacheConfig
	GeneratorConfig        = runtimeconfig.GeneratorConfig
	ExportConfig           = runtimeconfig.ExportConfig
	CommandsConfig         = runtimeconfig.CommandsConfig
	LoggingConfig          = runtimeconfig.LoggingConfig
	Features               = runtimeconfig.Features
)

// DefaultConfig returns the opinionated defaults for a single-author blog.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
