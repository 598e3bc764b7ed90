package commands

import (
	"fmt"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	blog "github.com/goliatone/go-blog"
)

// loadConfig resolves the runtime configuration: defaults first, then
// blog.yaml from the working directory or the user's home, then BLOG_
// environment variables. A missing config file is not an error.
func loadConfig() (blog.Config, error) {
	defaults := blog.DefaultConfig()

	v := viper.New()
	v.SetConfigName("blog")
	v.SetConfigType("yaml")
	v.SetEnvPrefix("BLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	setDefaults(v, defaults)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configPath != "" {
			return blog.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	return buildConfig(v, defaults), nil
}

func setDefaults(v *viper.Viper, cfg blog.Config) {
	v.SetDefault("site.title", cfg.Site.Title)
	v.SetDefault("site.description", cfg.Site.Description)
	v.SetDefault("site.author", cfg.Site.Author)
	v.SetDefault("site.base_url", cfg.Site.BaseURL)
	v.SetDefault("site.language", cfg.Site.Language)

	v.SetDefault("content.dir", cfg.Content.Dir)
	v.SetDefault("content.pattern", cfg.Content.Pattern)
	v.SetDefault("content.recursive", cfg.Content.Recursive)
	v.SetDefault("content.include_drafts", cfg.Content.IncludeDrafts)
	v.SetDefault("content.excerpt_length", cfg.Content.ExcerptLength)
	v.SetDefault("content.page_size", cfg.Content.PageSize)

	v.SetDefault("markdown.extensions", cfg.Markdown.Parser.Extensions)
	v.SetDefault("markdown.hard_wraps", cfg.Markdown.Parser.HardWraps)
	v.SetDefault("markdown.safe_mode", cfg.Markdown.Parser.SafeMode)

	v.SetDefault("themes.base_path", cfg.Themes.BasePath)
	v.SetDefault("themes.default_theme", cfg.Themes.DefaultTheme)
	v.SetDefault("themes.variant", cfg.Themes.Variant)

	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.dir", cfg.Cache.Dir)
	v.SetDefault("cache.default_ttl", cfg.Cache.DefaultTTL)

	v.SetDefault("generator.enabled", cfg.Generator.Enabled)
	v.SetDefault("generator.output_dir", cfg.Generator.OutputDir)
	v.SetDefault("generator.clean_build", cfg.Generator.CleanBuild)
	v.SetDefault("generator.incremental", cfg.Generator.Incremental)
	v.SetDefault("generator.copy_assets", cfg.Generator.CopyAssets)
	v.SetDefault("generator.generate_sitemap", cfg.Generator.GenerateSitemap)
	v.SetDefault("generator.generate_robots", cfg.Generator.GenerateRobots)
	v.SetDefault("generator.generate_feeds", cfg.Generator.GenerateFeeds)
	v.SetDefault("generator.feed_limit", cfg.Generator.FeedLimit)
	v.SetDefault("generator.workers", cfg.Generator.Workers)
	v.SetDefault("generator.render_timeout", cfg.Generator.RenderTimeout)

	v.SetDefault("export.output_dir", cfg.Export.OutputDir)
	v.SetDefault("export.format", cfg.Export.Format)

	v.SetDefault("logging.provider", cfg.Logging.Provider)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.add_source", cfg.Logging.AddSource)

	v.SetDefault("features.widgets", cfg.Features.Widgets)
	v.SetDefault("features.shortcodes", cfg.Features.Shortcodes)
	v.SetDefault("features.themes", cfg.Features.Themes)
	v.SetDefault("features.preview", cfg.Features.Preview)
	v.SetDefault("features.export", cfg.Features.Export)
	v.SetDefault("features.logger", cfg.Features.Logger)
}

func buildConfig(v *viper.Viper, cfg blog.Config) blog.Config {
	cfg.Site.Title = v.GetString("site.title")
	cfg.Site.Description = v.GetString("site.description")
	cfg.Site.Author = v.GetString("site.author")
	cfg.Site.BaseURL = v.GetString("site.base_url")
	cfg.Site.Language = v.GetString("site.language")

	cfg.Content.Dir = v.GetString("content.dir")
	cfg.Content.Pattern = v.GetString("content.pattern")
	cfg.Content.Recursive = v.GetBool("content.recursive")
	cfg.Content.IncludeDrafts = v.GetBool("content.include_drafts")
	cfg.Content.ExcerptLength = v.GetInt("content.excerpt_length")
	cfg.Content.PageSize = v.GetInt("content.page_size")

	cfg.Markdown.Parser.Extensions = v.GetStringSlice("markdown.extensions")
	cfg.Markdown.Parser.HardWraps = v.GetBool("markdown.hard_wraps")
	cfg.Markdown.Parser.SafeMode = v.GetBool("markdown.safe_mode")

	cfg.Themes.BasePath = v.GetString("themes.base_path")
	cfg.Themes.DefaultTheme = v.GetString("themes.default_theme")
	cfg.Themes.Variant = v.GetString("themes.variant")

	cfg.Cache.Enabled = v.GetBool("cache.enabled")
	cfg.Cache.Dir = v.GetString("cache.dir")
	cfg.Cache.DefaultTTL = v.GetDuration("cache.default_ttl")

	cfg.Generator.Enabled = v.GetBool("generator.enabled")
	cfg.Generator.OutputDir = v.GetString("generator.output_dir")
	cfg.Generator.CleanBuild = v.GetBool("generator.clean_build")
	cfg.Generator.Incremental = v.GetBool("generator.incremental")
	cfg.Generator.CopyAssets = v.GetBool("generator.copy_assets")
	cfg.Generator.GenerateSitemap = v.GetBool("generator.generate_sitemap")
	cfg.Generator.GenerateRobots = v.GetBool("generator.generate_robots")
	cfg.Generator.GenerateFeeds = v.GetBool("generator.generate_feeds")
	cfg.Generator.FeedLimit = v.GetInt("generator.feed_limit")
	cfg.Generator.Workers = v.GetInt("generator.workers")
	cfg.Generator.RenderTimeout = v.GetDuration("generator.render_timeout")

	cfg.Export.OutputDir = v.GetString("export.output_dir")
	cfg.Export.Format = v.GetString("export.format")

	cfg.Logging.Provider = v.GetString("logging.provider")
	cfg.Logging.Level = v.GetString("logging.level")
	cfg.Logging.Format = v.GetString("logging.format")
	cfg.Logging.AddSource = v.GetBool("logging.add_source")

	cfg.Features.Widgets = v.GetBool("features.widgets")
	cfg.Features.Shortcodes = v.GetBool("features.shortcodes")
	cfg.Features.Themes = v.GetBool("features.themes")
	cfg.Features.Preview = v.GetBool("features.preview")
	cfg.Features.Export = v.GetBool("features.export")
	cfg.Features.Logger = v.GetBool("features.logger")

	return cfg
}
