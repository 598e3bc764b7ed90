package contentcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	importDirectoryMessageType = "blog.content.import_directory"
	exportPostMessageType      = "blog.content.export_post"
)

// ImportDirectoryCommand triggers a filesystem walk for Markdown documents
// under the provided Directory. The command mirrors markdown.Service
// ImportDirectory semantics, so callers can supply options that map directly
// onto interfaces.ImportOptions for post creation.
type ImportDirectoryCommand struct {
	// Directory selects the filesystem path (relative or absolute) to load Markdown files from.
	Directory string `json:"directory"`
	// UpdateExisting overwrites stored posts when the source file changed.
	UpdateExisting bool `json:"update_existing,omitempty"`
	// IncludeDrafts imports documents flagged as drafts too.
	IncludeDrafts bool `json:"include_drafts,omitempty"`
	// DryRun collects the import diff without persisting changes.
	DryRun bool `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (ImportDirectoryCommand) Type() string { return importDirectoryMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd ImportDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("blog.content.import_directory.directory_required", "directory is required")
			}
			return nil
		})),
	)
}

// ExportPostCommand renders one or more posts into files on disk. An empty
// slug list exports the whole published listing.
type ExportPostCommand struct {
	// Slugs names the posts to export. Empty exports every listed post.
	Slugs []string `json:"slugs,omitempty"`
	// Format selects the output renderer: pdf, markdown or json. Blank
	// falls back to the exporter default.
	Format string `json:"format,omitempty"`
	// OutputDir overrides the configured destination directory.
	OutputDir string `json:"output_dir,omitempty"`
	// IncludeDrafts lists drafts too when exporting everything.
	IncludeDrafts bool `json:"include_drafts,omitempty"`
}

// Type implements command.Message.
func (ExportPostCommand) Type() string { return exportPostMessageType }

// Validate rejects unknown formats before the exporter runs.
func (cmd ExportPostCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Format, validation.In("", "pdf", "md", "markdown", "json").
			Error("format must be one of pdf, markdown or json")),
		validation.Field(&cmd.Slugs, validation.Each(validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("blog.content.export_post.slug_blank", "slugs cannot be blank")
			}
			return nil
		}))),
	)
}
