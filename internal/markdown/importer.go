package markdown

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
	"github.com/goliatone/go-slug"
)

var (
	ErrPostServiceRequired = errors.New("markdown importer: post service is required")
	ErrSlugMissing         = errors.New("markdown importer: document slug could not be determined")
	ErrSlugConflict        = errors.New("markdown importer: slug conflict")
)

// ImporterConfig encapsulates dependencies required to persist markdown documents.
type ImporterConfig struct {
	Posts  interfaces.PostService
	Logger interfaces.Logger
}

// Importer converts markdown documents into posts, creating new records and
// updating existing ones when the source file changed.
type Importer struct {
	posts  interfaces.PostService
	logger interfaces.Logger
}

// NewImporter builds an Importer from the supplied configuration.
func NewImporter(cfg ImporterConfig) *Importer {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Importer{
		posts:  cfg.Posts,
		logger: logger,
	}
}

// ImportDocument imports a single markdown document.
func (i *Importer) ImportDocument(ctx context.Context, doc *interfaces.Document, opts interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	if i.posts == nil {
		return nil, ErrPostServiceRequired
	}
	acc := newImportAccumulator()
	if err := i.applyDocument(ctx, doc, opts, acc); err != nil {
		acc.addError(err)
	}
	return acc.result(), firstError(acc.errors)
}

// ImportDocuments imports an arbitrary slice of documents. Failures are
// accumulated per document so one broken file does not abort the run.
func (i *Importer) ImportDocuments(ctx context.Context, docs []*interfaces.Document, opts interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	if i.posts == nil {
		return nil, ErrPostServiceRequired
	}

	acc := newImportAccumulator()
	conflicted := slugConflicts(docs, acc)
	for _, doc := range docs {
		if doc != nil && conflicted[DocumentSlug(doc)] {
			continue
		}
		if err := i.applyDocument(ctx, doc, opts, acc); err != nil {
			acc.addError(err)
		}
	}
	return acc.result(), firstError(acc.errors)
}

// slugConflicts flags slugs claimed by more than one file in the batch. None
// of the claimants is applied; the conflict is reported once per slug so the
// author can pick a winner instead of the importer picking one silently.
func slugConflicts(docs []*interfaces.Document, acc *importAccumulator) map[string]bool {
	claims := map[string][]string{}
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		slugValue := DocumentSlug(doc)
		if slugValue == "" {
			continue
		}
		claims[slugValue] = append(claims[slugValue], doc.FilePath)
	}

	conflicted := map[string]bool{}
	for slugValue, paths := range claims {
		if len(paths) < 2 {
			continue
		}
		conflicted[slugValue] = true
		sort.Strings(paths)
		acc.addError(fmt.Errorf("%w: slug %q claimed by %s", ErrSlugConflict, slugValue, strings.Join(paths, ", ")))
	}
	return conflicted
}

func (i *Importer) applyDocument(ctx context.Context, doc *interfaces.Document, opts interfaces.ImportOptions, acc *importAccumulator) error {
	if doc == nil {
		return errors.New("markdown importer: nil document")
	}

	slugValue := DocumentSlug(doc)
	if slugValue == "" {
		return fmt.Errorf("%w: %s", ErrSlugMissing, doc.FilePath)
	}

	logger := logging.WithDocumentContext(i.logger, doc.FilePath, slugValue, "")

	if doc.FrontMatter.Draft && !opts.IncludeDrafts {
		logger.Debug("markdown.import.skip_draft")
		return nil
	}

	existing, err := i.posts.GetBySlug(ctx, slugValue)
	if err != nil {
		return fmt.Errorf("markdown importer: post lookup %s: %w", slugValue, err)
	}

	checksum := hex.EncodeToString(doc.Checksum)

	if existing == nil {
		if opts.DryRun {
			logger.Info("markdown.import.would_create")
			return nil
		}

		record, createErr := i.posts.Create(ctx, buildCreateRequest(slugValue, checksum, doc))
		if createErr != nil {
			return fmt.Errorf("markdown importer: create post %s: %w", slugValue, createErr)
		}
		logger.Info("markdown.import.created", "post_id", record.ID)
		acc.created(record.ID)
		return nil
	}

	if existing.SourcePath != "" && doc.FilePath != "" && existing.SourcePath != doc.FilePath {
		return fmt.Errorf("%w: slug %q already imported from %s, refusing %s", ErrSlugConflict, slugValue, existing.SourcePath, doc.FilePath)
	}

	if existing.Checksum == checksum {
		logger.Debug("markdown.import.unchanged")
		acc.skip(existing.ID)
		return nil
	}

	if !opts.UpdateExisting {
		logger.Debug("markdown.import.skip_existing")
		acc.skip(existing.ID)
		return nil
	}

	if opts.DryRun {
		logger.Info("markdown.import.would_update")
		acc.skip(existing.ID)
		return nil
	}

	updated, updateErr := i.posts.Update(ctx, buildUpdateRequest(existing.ID, slugValue, checksum, doc))
	if updateErr != nil {
		return fmt.Errorf("markdown importer: update post %s: %w", slugValue, updateErr)
	}
	logger.Info("markdown.import.updated", "post_id", updated.ID)
	acc.updated(updated.ID)
	return nil
}

// DocumentSlug resolves the canonical slug for a document: explicit
// frontmatter wins, otherwise the file name (without extension) is normalised.
func DocumentSlug(doc *interfaces.Document) string {
	if doc == nil {
		return ""
	}
	if explicit := strings.TrimSpace(doc.FrontMatter.Slug); explicit != "" {
		return explicit
	}

	base := filepath.Base(doc.FilePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		return ""
	}

	normalized, err := slug.Normalize(base)
	if err != nil || normalized == "" {
		return strings.ToLower(base)
	}
	return normalized
}

func buildCreateRequest(slugValue, checksum string, doc *interfaces.Document) interfaces.PostCreateRequest {
	published, updated := documentTimes(doc)
	return interfaces.PostCreateRequest{
		Slug:        slugValue,
		Title:       documentTitle(slugValue, doc),
		Summary:     optionalString(doc.FrontMatter.Summary),
		Body:        string(doc.Body),
		BodyHTML:    string(doc.BodyHTML),
		Tags:        append([]string(nil), doc.FrontMatter.Tags...),
		Author:      doc.FrontMatter.Author,
		Template:    doc.FrontMatter.Template,
		Draft:       doc.FrontMatter.Draft,
		PublishedAt: published,
		UpdatedAt:   updated,
		SourcePath:  doc.FilePath,
		Checksum:    checksum,
		Metadata:    documentMetadata(doc),
	}
}

func buildUpdateRequest(id uuid.UUID, slugValue, checksum string, doc *interfaces.Document) interfaces.PostUpdateRequest {
	published, updated := documentTimes(doc)
	return interfaces.PostUpdateRequest{
		ID:          id,
		Title:       documentTitle(slugValue, doc),
		Summary:     optionalString(doc.FrontMatter.Summary),
		Body:        string(doc.Body),
		BodyHTML:    string(doc.BodyHTML),
		Tags:        append([]string(nil), doc.FrontMatter.Tags...),
		Author:      doc.FrontMatter.Author,
		Template:    doc.FrontMatter.Template,
		Draft:       doc.FrontMatter.Draft,
		PublishedAt: published,
		UpdatedAt:   updated,
		SourcePath:  doc.FilePath,
		Checksum:    checksum,
		Metadata:    documentMetadata(doc),
	}
}

func documentTitle(slugValue string, doc *interfaces.Document) string {
	title := strings.TrimSpace(doc.FrontMatter.Title)
	if title != "" {
		return title
	}
	return fallbackTitle(slugValue)
}

func fallbackTitle(slugValue string) string {
	if slugValue == "" {
		return "Untitled"
	}
	words := strings.FieldsFunc(slugValue, func(r rune) bool {
		return r == '-' || r == '_'
	})
	for idx, word := range words {
		if word == "" {
			continue
		}
		words[idx] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func documentTimes(doc *interfaces.Document) (published time.Time, updated time.Time) {
	published = doc.FrontMatter.Date
	if published.IsZero() {
		published = doc.LastModified
	}
	updated = doc.FrontMatter.Updated
	if updated.IsZero() {
		updated = doc.LastModified
	}
	return published, updated
}

func documentMetadata(doc *interfaces.Document) map[string]any {
	return map[string]any{
		"source":      "markdown",
		"path":        doc.FilePath,
		"frontmatter": doc.FrontMatter.Raw,
		"imported_at": doc.LastModified,
	}
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

type importAccumulator struct {
	createdIDs []uuid.UUID
	updatedIDs []uuid.UUID
	skippedIDs []uuid.UUID
	errors     []error
}

func newImportAccumulator() *importAccumulator {
	return &importAccumulator{
		createdIDs: []uuid.UUID{},
		updatedIDs: []uuid.UUID{},
		skippedIDs: []uuid.UUID{},
		errors:     []error{},
	}
}

func (a *importAccumulator) created(id uuid.UUID) {
	if id != uuid.Nil {
		a.createdIDs = append(a.createdIDs, id)
	}
}

func (a *importAccumulator) updated(id uuid.UUID) {
	if id != uuid.Nil {
		a.updatedIDs = append(a.updatedIDs, id)
	}
}

func (a *importAccumulator) skip(id uuid.UUID) {
	if id != uuid.Nil {
		a.skippedIDs = append(a.skippedIDs, id)
	}
}

func (a *importAccumulator) addError(err error) {
	if err != nil {
		a.errors = append(a.errors, err)
	}
}

func (a *importAccumulator) result() *interfaces.ImportResult {
	return &interfaces.ImportResult{
		CreatedPostIDs: a.createdIDs,
		UpdatedPostIDs: a.updatedIDs,
		SkippedPostIDs: a.skippedIDs,
		Errors:         a.errors,
	}
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
