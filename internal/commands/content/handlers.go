package contentcmd

import (
	"context"
	"errors"

	"github.com/goliatone/go-blog/internal/commands"
	"github.com/goliatone/go-blog/internal/export"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

const (
	importOperation = "content.import_directory"
	exportOperation = "content.export_post"
)

var (
	// ErrImportFeatureDisabled is returned when Markdown import is disabled at runtime.
	ErrImportFeatureDisabled = errors.New("content command: import feature disabled")
	// ErrExportFeatureDisabled is returned when the export feature flag is disabled at runtime.
	ErrExportFeatureDisabled = errors.New("content command: export feature disabled")
)

var (
	_ command.Commander[ImportDirectoryCommand] = (*ImportDirectoryHandler)(nil)
	_ command.Commander[ExportPostCommand]      = (*ExportPostHandler)(nil)
)

// ImportDirectoryHandler orchestrates Markdown directory imports via the
// shared command handler foundation.
type ImportDirectoryHandler struct {
	inner *commands.Handler[ImportDirectoryCommand]
}

// NewImportDirectoryHandler creates a handler bound to the supplied Markdown service.
func NewImportDirectoryHandler(service interfaces.MarkdownService, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[ImportDirectoryCommand]) *ImportDirectoryHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg ImportDirectoryCommand) error {
		if !gates.importEnabled() {
			return ErrImportFeatureDisabled
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		result, err := service.ImportDirectory(ctx, msg.Directory, interfaces.ImportOptions{
			UpdateExisting: msg.UpdateExisting,
			IncludeDrafts:  msg.IncludeDrafts,
			DryRun:         msg.DryRun,
		})
		if err != nil {
			return err
		}
		if result != nil {
			logging.WithFields(baseLogger, map[string]any{
				"created_count": len(result.CreatedPostIDs),
				"updated_count": len(result.UpdatedPostIDs),
				"skipped_count": len(result.SkippedPostIDs),
				"error_count":   len(result.Errors),
				"dry_run":       msg.DryRun,
			}).Info("content.command.import_directory.completed")
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ImportDirectoryCommand]{
		commands.WithLogger[ImportDirectoryCommand](baseLogger),
		commands.WithOperation[ImportDirectoryCommand](importOperation),
		commands.WithMessageFields(func(msg ImportDirectoryCommand) map[string]any {
			fields := map[string]any{
				"directory": msg.Directory,
			}
			if msg.UpdateExisting {
				fields["update_existing"] = true
			}
			if msg.IncludeDrafts {
				fields["include_drafts"] = true
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ImportDirectoryCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ImportDirectoryHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ImportDirectoryCommand].
func (h *ImportDirectoryHandler) Execute(ctx context.Context, msg ImportDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ExportPostHandler renders posts to disk via the export service.
type ExportPostHandler struct {
	inner *commands.Handler[ExportPostCommand]
}

// NewExportPostHandler creates a handler bound to the supplied export service.
func NewExportPostHandler(service export.Service, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[ExportPostCommand]) *ExportPostHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg ExportPostCommand) error {
		if !gates.exportEnabled() {
			return ErrExportFeatureDisabled
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		format, err := export.ParseFormat(msg.Format)
		if err != nil {
			return err
		}

		result, err := service.Export(ctx, export.Request{
			Slugs:         msg.Slugs,
			Format:        format,
			OutputDir:     msg.OutputDir,
			IncludeDrafts: msg.IncludeDrafts,
		})
		if err != nil {
			return err
		}
		if result != nil {
			logging.WithFields(baseLogger, map[string]any{
				"format":     string(result.Format),
				"output_dir": result.OutputDir,
				"file_count": len(result.Files),
			}).Info("content.command.export_post.completed")
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ExportPostCommand]{
		commands.WithLogger[ExportPostCommand](baseLogger),
		commands.WithOperation[ExportPostCommand](exportOperation),
		commands.WithMessageFields(func(msg ExportPostCommand) map[string]any {
			fields := map[string]any{}
			if len(msg.Slugs) > 0 {
				fields["slug_count"] = len(msg.Slugs)
			}
			if msg.Format != "" {
				fields["format"] = msg.Format
			}
			if msg.OutputDir != "" {
				fields["output_dir"] = msg.OutputDir
			}
			if msg.IncludeDrafts {
				fields["include_drafts"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ExportPostCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ExportPostHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ExportPostCommand].
func (h *ExportPostHandler) Execute(ctx context.Context, msg ExportPostCommand) error {
	return h.inner.Execute(ctx, msg)
}
