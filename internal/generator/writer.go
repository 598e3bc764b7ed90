package generator

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

type writeCategory string

const (
	categoryPage     writeCategory = "page"
	categoryAsset    writeCategory = "asset"
	categoryFeed     writeCategory = "feed"
	categorySitemap  writeCategory = "sitemap"
	categoryRobots   writeCategory = "robots"
	categoryManifest writeCategory = "manifest"
)

// WriteFileRequest describes a file write routed through the artifact writer.
type WriteFileRequest struct {
	Path        string
	Content     io.Reader
	Size        int64
	Category    writeCategory
	ContentType string
	Checksum    string
	Metadata    map[string]string
}

// ArtifactWriter abstracts where build outputs land. Paths are slash
// separated and relative to the writer's root.
type ArtifactWriter interface {
	EnsureDir(ctx context.Context, path string) error
	WriteFile(ctx context.Context, req WriteFileRequest) error
	ReadFile(ctx context.Context, path string) ([]byte, error)
	RemoveAll(ctx context.Context, path string) error
}

func newArtifactWriter(writer ArtifactWriter) ArtifactWriter {
	if writer == nil {
		return noopWriter{}
	}
	return writer
}

// NewFSWriter returns an ArtifactWriter backed by the local filesystem. Root
// anchors every path; an empty root resolves against the working directory.
func NewFSWriter(root string) ArtifactWriter {
	return &fsWriter{root: strings.TrimSpace(root)}
}

type fsWriter struct {
	root string
}

func (w *fsWriter) resolve(p string) string {
	cleaned := filepath.FromSlash(strings.TrimSpace(p))
	if w.root == "" {
		return cleaned
	}
	return filepath.Join(w.root, cleaned)
}

func (w *fsWriter) EnsureDir(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(path) == "" || path == "." {
		return nil
	}
	return os.MkdirAll(w.resolve(path), 0o755)
}

func (w *fsWriter) WriteFile(ctx context.Context, req WriteFileRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if req.Content == nil {
		return errors.New("generator: write requires a content reader")
	}
	if strings.TrimSpace(req.Path) == "" {
		return errors.New("generator: write requires a path")
	}
	target := w.resolve(req.Path)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	file, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(file, req.Content); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func (w *fsWriter) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(w.resolve(path))
}

func (w *fsWriter) RemoveAll(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(path) == "" {
		return nil
	}
	return os.RemoveAll(w.resolve(path))
}

type noopWriter struct{}

func (noopWriter) EnsureDir(context.Context, string) error { return nil }

func (noopWriter) WriteFile(context.Context, WriteFileRequest) error { return nil }

func (noopWriter) ReadFile(context.Context, string) ([]byte, error) {
	return nil, fs.ErrNotExist
}

func (noopWriter) RemoveAll(context.Context, string) error { return nil }
