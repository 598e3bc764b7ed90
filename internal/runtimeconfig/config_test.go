package runtimeconfig_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-blog/internal/runtimeconfig"
)

func TestConfigValidate_AllowsDisabledGeneratorWithoutOutput(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Generator.OutputDir = ""

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate_RequiresOutputDirWhenGeneratorEnabled(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Generator.Enabled = true
	cfg.Generator.OutputDir = " "

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrGeneratorOutputDirRequired) {
		t.Fatalf("expected ErrGeneratorOutputDirRequired, got %v", err)
	}
}

func TestConfigValidate_RequiresSiteTitle(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Site.Title = "  "

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrSiteTitleRequired) {
		t.Fatalf("expected ErrSiteTitleRequired, got %v", err)
	}
}

func TestConfigValidate_RejectsRelativeBaseURL(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Site.BaseURL = "/blog"

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrSiteBaseURLInvalid) {
		t.Fatalf("expected ErrSiteBaseURLInvalid, got %v", err)
	}
}

func TestConfigValidate_RequiresContentDir(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Content.Dir = ""

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrContentDirRequired) {
		t.Fatalf("expected ErrContentDirRequired, got %v", err)
	}
}

func TestConfigValidate_RequiresThemesFeatureForDefaultTheme(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Themes = false
	cfg.Themes.DefaultTheme = "paper"

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrThemesFeatureRequired) {
		t.Fatalf("expected ErrThemesFeatureRequired, got %v", err)
	}
}

func TestConfigValidate_FeedsRequireBaseURL(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Generator.Enabled = true
	cfg.Generator.GenerateFeeds = true
	cfg.Site.BaseURL = ""

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrFeedsRequireBaseURL) {
		t.Fatalf("expected ErrFeedsRequireBaseURL, got %v", err)
	}
}

func TestConfigValidate_RequiresCacheDirWhenCacheEnabled(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Cache.Enabled = true
	cfg.Cache.Dir = " "

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrCacheDirRequired) {
		t.Fatalf("expected ErrCacheDirRequired, got %v", err)
	}
}

func TestConfigValidate_RequiresLoggingProviderWhenFeatureEnabled(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = ""

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrLoggingProviderRequired) {
		t.Fatalf("expected ErrLoggingProviderRequired, got %v", err)
	}
}

func TestConfigValidate_RejectsUnknownLoggingProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "syslog"

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}

func TestConfigValidate_RejectsInvalidLoggingFormat(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}
}

func TestDefaultConfigSeedsCounterWidget(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()

	if len(cfg.Widgets.Definitions) == 0 {
		t.Fatalf("expected default widget definitions")
	}
	def := cfg.Widgets.Definitions[0]
	if def.Name != "counter" {
		t.Fatalf("expected counter definition, got %q", def.Name)
	}
	if def.Defaults["start"] != 0 {
		t.Fatalf("expected counter to start at zero, got %v", def.Defaults["start"])
	}

	if len(cfg.Widgets.Placements) == 0 {
		t.Fatalf("expected a default widget placement")
	}
	placement := cfg.Widgets.Placements[0]
	if placement.Widget != "counter" || placement.Area != "footer" {
		t.Fatalf("expected the counter placed in the footer, got %+v", placement)
	}
	if placement.Key == "" {
		t.Fatalf("expected a stable placement key")
	}
}

func TestConfigValidate_RejectsPlacementWithoutArea(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Widgets.Placements = append(cfg.Widgets.Placements, runtimeconfig.WidgetPlacementConfig{Widget: "counter"})

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrWidgetPlacementInvalid) {
		t.Fatalf("expected ErrWidgetPlacementInvalid, got %v", err)
	}
}
