package contentcmd

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-blog/internal/export"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

type importCall struct {
	directory string
	options   interfaces.ImportOptions
}

type stubMarkdownService struct {
	importCalls  []importCall
	importResult *interfaces.ImportResult
	importErr    error
}

func (s *stubMarkdownService) Load(context.Context, string, interfaces.LoadOptions) (*interfaces.Document, error) {
	return nil, nil
}

func (s *stubMarkdownService) LoadDirectory(context.Context, string, interfaces.LoadOptions) ([]*interfaces.Document, error) {
	return nil, nil
}

func (s *stubMarkdownService) Render(context.Context, []byte, interfaces.ParseOptions) ([]byte, error) {
	return nil, nil
}

func (s *stubMarkdownService) RenderDocument(context.Context, *interfaces.Document, interfaces.ParseOptions) ([]byte, error) {
	return nil, nil
}

func (s *stubMarkdownService) Import(context.Context, *interfaces.Document, interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	return nil, nil
}

func (s *stubMarkdownService) ImportDirectory(ctx context.Context, directory string, opts interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	s.importCalls = append(s.importCalls, importCall{
		directory: directory,
		options:   opts,
	})
	if s.importErr != nil {
		return nil, s.importErr
	}
	return s.importResult, nil
}

type stubExportService struct {
	requests []export.Request
	result   *export.Result
	err      error
}

func (s *stubExportService) Export(ctx context.Context, req export.Request) (*export.Result, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type captureLogger struct {
	fields       []map[string]any
	infoMessages []string
}

var _ interfaces.Logger = (*captureLogger)(nil)

func (c *captureLogger) Trace(string, ...any) {}
func (c *captureLogger) Debug(string, ...any) {}
func (c *captureLogger) Info(msg string, _ ...any) {
	c.infoMessages = append(c.infoMessages, msg)
}
func (c *captureLogger) Warn(string, ...any)  {}
func (c *captureLogger) Error(string, ...any) {}
func (c *captureLogger) Fatal(string, ...any) {}

func (c *captureLogger) WithFields(fields map[string]any) interfaces.Logger {
	if fields == nil {
		c.fields = append(c.fields, map[string]any{})
		return c
	}
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	c.fields = append(c.fields, copied)
	return c
}

func (c *captureLogger) WithContext(context.Context) interfaces.Logger {
	return c
}

func TestImportDirectoryHandlerInvokesService(t *testing.T) {
	service := &stubMarkdownService{
		importResult: &interfaces.ImportResult{
			CreatedPostIDs: []uuid.UUID{uuid.New()},
			UpdatedPostIDs: []uuid.UUID{uuid.New()},
			SkippedPostIDs: []uuid.UUID{},
			Errors:         []error{},
		},
	}
	logger := &captureLogger{}
	handler := NewImportDirectoryHandler(service, logger, FeatureGates{
		ImportEnabled: func() bool { return true },
	})

	cmd := ImportDirectoryCommand{
		Directory:      "content",
		UpdateExisting: true,
		DryRun:         true,
	}

	if err := handler.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("execute import directory: %v", err)
	}

	if len(service.importCalls) != 1 {
		t.Fatalf("expected import call, got %d", len(service.importCalls))
	}
	call := service.importCalls[0]
	if call.directory != cmd.Directory {
		t.Fatalf("expected directory %q, got %q", cmd.Directory, call.directory)
	}
	if !call.options.UpdateExisting {
		t.Fatalf("expected update existing option set")
	}
	if !call.options.DryRun {
		t.Fatalf("expected dry run option set")
	}

	if len(logger.infoMessages) == 0 {
		t.Fatalf("expected summary log emitted")
	}
	found := false
	for _, fields := range logger.fields {
		if _, ok := fields["created_count"]; ok {
			found = true
			if fields["created_count"] != len(service.importResult.CreatedPostIDs) {
				t.Fatalf("expected created count %d, got %v", len(service.importResult.CreatedPostIDs), fields["created_count"])
			}
			if fields["dry_run"] != cmd.DryRun {
				t.Fatalf("expected dry_run %v, got %v", cmd.DryRun, fields["dry_run"])
			}
			break
		}
	}
	if !found {
		t.Fatalf("expected summary fields recorded, got %#v", logger.fields)
	}
}

func TestImportDirectoryHandlerFeatureDisabled(t *testing.T) {
	service := &stubMarkdownService{}
	handler := NewImportDirectoryHandler(service, logging.NoOp(), FeatureGates{
		ImportEnabled: func() bool { return false },
	})

	err := handler.Execute(context.Background(), ImportDirectoryCommand{
		Directory: "content",
	})
	if !errors.Is(err, ErrImportFeatureDisabled) {
		t.Fatalf("expected feature disabled error, got %v", err)
	}
	if len(service.importCalls) != 0 {
		t.Fatalf("expected no import calls, got %d", len(service.importCalls))
	}
}

func TestImportDirectoryHandlerContextCancellation(t *testing.T) {
	service := &stubMarkdownService{}
	handler := NewImportDirectoryHandler(service, logging.NoOp(), FeatureGates{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := handler.Execute(ctx, ImportDirectoryCommand{
		Directory: "content",
	})
	if err == nil {
		t.Fatal("expected context cancellation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command error category, got %v", err)
	}
	if len(service.importCalls) != 0 {
		t.Fatalf("expected no import calls, got %d", len(service.importCalls))
	}
}

func TestImportDirectoryCommandRequiresDirectory(t *testing.T) {
	service := &stubMarkdownService{}
	handler := NewImportDirectoryHandler(service, logging.NoOp(), FeatureGates{})

	err := handler.Execute(context.Background(), ImportDirectoryCommand{Directory: "  "})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if len(service.importCalls) != 0 {
		t.Fatalf("expected no import calls, got %d", len(service.importCalls))
	}
}

func TestExportPostHandlerInvokesService(t *testing.T) {
	service := &stubExportService{
		result: &export.Result{
			Format:    export.FormatMarkdown,
			OutputDir: "exports",
			Files: []export.File{
				{Slug: "first-post", Path: "exports/first-post.md", Size: 42},
			},
		},
	}
	logger := &captureLogger{}
	handler := NewExportPostHandler(service, logger, FeatureGates{
		ExportEnabled: func() bool { return true },
	})

	cmd := ExportPostCommand{
		Slugs:     []string{"first-post"},
		Format:    "markdown",
		OutputDir: "exports",
	}
	if err := handler.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("execute export: %v", err)
	}

	if len(service.requests) != 1 {
		t.Fatalf("expected export request, got %d", len(service.requests))
	}
	req := service.requests[0]
	if req.Format != export.FormatMarkdown {
		t.Fatalf("expected markdown format, got %s", req.Format)
	}
	if req.OutputDir != "exports" {
		t.Fatalf("expected output dir exports, got %q", req.OutputDir)
	}
	if len(req.Slugs) != 1 || req.Slugs[0] != "first-post" {
		t.Fatalf("unexpected slugs: %v", req.Slugs)
	}

	found := false
	for _, fields := range logger.fields {
		if _, ok := fields["file_count"]; ok {
			found = true
			if fields["file_count"] != 1 {
				t.Fatalf("expected file count 1, got %v", fields["file_count"])
			}
			break
		}
	}
	if !found {
		t.Fatalf("expected export summary fields recorded, got %#v", logger.fields)
	}
}

func TestExportPostCommandRejectsUnknownFormat(t *testing.T) {
	service := &stubExportService{}
	handler := NewExportPostHandler(service, logging.NoOp(), FeatureGates{})

	err := handler.Execute(context.Background(), ExportPostCommand{Format: "docx"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if len(service.requests) != 0 {
		t.Fatalf("expected no export calls, got %d", len(service.requests))
	}
}

func TestExportPostHandlerFeatureDisabled(t *testing.T) {
	service := &stubExportService{}
	handler := NewExportPostHandler(service, logging.NoOp(), FeatureGates{
		ExportEnabled: func() bool { return false },
	})

	err := handler.Execute(context.Background(), ExportPostCommand{})
	if !errors.Is(err, ErrExportFeatureDisabled) {
		t.Fatalf("expected feature disabled error, got %v", err)
	}
	if len(service.requests) != 0 {
		t.Fatalf("expected no export calls, got %d", len(service.requests))
	}
}
