package sitecmd

import (
	"context"
	"errors"

	"github.com/goliatone/go-blog/internal/commands"
	"github.com/goliatone/go-blog/internal/generator"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

const (
	buildOperation = "site.build"
	cleanOperation = "site.clean"
)

// ErrGeneratorFeatureDisabled is returned when the generator is disabled at runtime.
var ErrGeneratorFeatureDisabled = errors.New("site command: generator feature disabled")

var (
	_ command.Commander[BuildSiteCommand] = (*BuildSiteHandler)(nil)
	_ command.Commander[CleanSiteCommand] = (*CleanSiteHandler)(nil)
)

// BuildCache is the slice of the build cache the clean handler drives.
// *buildcache.Cache satisfies it.
type BuildCache interface {
	Clear(ctx context.Context) error
	Prune(ctx context.Context) (int, error)
}

// BuildSiteHandler runs generator builds via the shared command handler foundation.
type BuildSiteHandler struct {
	inner *commands.Handler[BuildSiteCommand]
}

// NewBuildSiteHandler creates a handler bound to the supplied generator service.
func NewBuildSiteHandler(service generator.Service, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[BuildSiteCommand]) *BuildSiteHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg BuildSiteCommand) error {
		if !gates.generatorEnabled() {
			return ErrGeneratorFeatureDisabled
		}

		result, err := service.Build(ctx, generator.BuildOptions{
			DryRun:        msg.DryRun,
			Force:         msg.Force,
			IncludeDrafts: msg.IncludeDrafts,
		})
		if err != nil {
			return err
		}
		if result != nil {
			logging.WithFields(baseLogger, map[string]any{
				"pages_built":   result.PagesBuilt,
				"pages_skipped": result.PagesSkipped,
				"assets_built":  result.AssetsBuilt,
				"feeds_built":   result.FeedsBuilt,
				"output_dir":    result.OutputDir,
				"duration_ms":   result.Duration.Milliseconds(),
				"dry_run":       result.DryRun,
			}).Info("site.command.build.completed")
			if len(result.Errors) > 0 {
				return errors.Join(result.Errors...)
			}
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[BuildSiteCommand]{
		commands.WithLogger[BuildSiteCommand](baseLogger),
		commands.WithOperation[BuildSiteCommand](buildOperation),
		commands.WithMessageFields(func(msg BuildSiteCommand) map[string]any {
			fields := map[string]any{}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			if msg.Force {
				fields["force"] = true
			}
			if msg.IncludeDrafts {
				fields["include_drafts"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[BuildSiteCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &BuildSiteHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[BuildSiteCommand].
func (h *BuildSiteHandler) Execute(ctx context.Context, msg BuildSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}

// CleanSiteHandler wipes build output and maintains the build cache.
type CleanSiteHandler struct {
	inner *commands.Handler[CleanSiteCommand]
}

// NewCleanSiteHandler creates a handler bound to the supplied generator
// service. The cache is optional; cache flags no-op without one.
func NewCleanSiteHandler(service generator.Service, cache BuildCache, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[CleanSiteCommand]) *CleanSiteHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg CleanSiteCommand) error {
		if !gates.generatorEnabled() {
			return ErrGeneratorFeatureDisabled
		}

		if err := service.Clean(ctx); err != nil {
			return err
		}

		if cache == nil {
			return nil
		}
		if msg.ResetCache {
			if err := cache.Clear(ctx); err != nil {
				return err
			}
			baseLogger.Info("site.command.clean.cache_reset")
			return nil
		}
		if msg.PruneCache {
			pruned, err := cache.Prune(ctx)
			if err != nil {
				return err
			}
			baseLogger.Info("site.command.clean.cache_pruned", "entries", pruned)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[CleanSiteCommand]{
		commands.WithLogger[CleanSiteCommand](baseLogger),
		commands.WithOperation[CleanSiteCommand](cleanOperation),
		commands.WithMessageFields(func(msg CleanSiteCommand) map[string]any {
			fields := map[string]any{}
			if msg.PruneCache {
				fields["prune_cache"] = true
			}
			if msg.ResetCache {
				fields["reset_cache"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[CleanSiteCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CleanSiteHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[CleanSiteCommand].
func (h *CleanSiteHandler) Execute(ctx context.Context, msg CleanSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}
