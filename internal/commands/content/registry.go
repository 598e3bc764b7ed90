package contentcmd

import (
	"errors"

	"github.com/goliatone/go-blog/internal/commands"
	"github.com/goliatone/go-blog/internal/export"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// HandlerSet groups the content command handlers produced by RegisterContentCommands.
type HandlerSet struct {
	Import *ImportDirectoryHandler
	Export *ExportPostHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	importHandlerOpts []commands.HandlerOption[ImportDirectoryCommand]
	exportHandlerOpts []commands.HandlerOption[ExportPostCommand]
}

// WithImportHandlerOptions forwards options to the ImportDirectoryHandler constructor.
func WithImportHandlerOptions(opts ...commands.HandlerOption[ImportDirectoryCommand]) Option {
	return func(cfg *options) {
		cfg.importHandlerOpts = append(cfg.importHandlerOpts, opts...)
	}
}

// WithExportHandlerOptions forwards options to the ExportPostHandler constructor.
func WithExportHandlerOptions(opts ...commands.HandlerOption[ExportPostCommand]) Option {
	return func(cfg *options) {
		cfg.exportHandlerOpts = append(cfg.exportHandlerOpts, opts...)
	}
}

// RegisterContentCommands builds the content command handlers and registers
// them with the provided registry. The returned HandlerSet contains the
// constructed handlers so callers can wire additional integrations
// (dispatcher, CLI) as needed.
func RegisterContentCommands(reg CommandRegistry, markdownSvc interfaces.MarkdownService, exportSvc export.Service, provider interfaces.LoggerProvider, gates FeatureGates, opts ...Option) (*HandlerSet, error) {
	if markdownSvc == nil {
		return nil, errors.New("content command registration: markdown service is nil")
	}
	if exportSvc == nil {
		return nil, errors.New("content command registration: export service is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "content")

	importHandler := NewImportDirectoryHandler(markdownSvc, logger, gates, cfg.importHandlerOpts...)
	exportHandler := NewExportPostHandler(exportSvc, logger, gates, cfg.exportHandlerOpts...)

	if reg != nil {
		if err := reg.RegisterCommand(importHandler); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(exportHandler); err != nil {
			return nil, err
		}
	}

	return &HandlerSet{
		Import: importHandler,
		Export: exportHandler,
	}, nil
}
