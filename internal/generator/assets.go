package generator

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
)

const (
	assetScopeTheme  = "theme"
	assetScopeStatic = "static"
)

type assetCopySummary struct {
	Built   int
	Skipped int
}

func (summary *assetCopySummary) add(other assetCopySummary) {
	summary.Built += other.Built
	summary.Skipped += other.Skipped
}

// copyThemeAssets copies the active theme's declared asset files under
// assets/ in the output tree, where the base layout links them.
func (s *service) copyThemeAssets(
	ctx context.Context,
	writer ArtifactWriter,
	state *buildState,
	manifest *buildManifest,
	baseDir string,
	keep map[string]struct{},
) (assetCopySummary, error) {
	summary := assetCopySummary{}
	theme := s.deps.Theme
	if theme == nil || theme.FS == nil || theme.Manifest == nil {
		return summary, nil
	}

	for _, asset := range theme.Manifest.AssetFiles(state.theme.Variant) {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		source := path.Join(theme.Dir, asset)
		data, err := fs.ReadFile(theme.FS, source)
		if err != nil {
			return summary, fmt.Errorf("generator: read theme asset %s: %w", asset, err)
		}

		destRel := asset
		if !strings.HasPrefix(destRel, "assets/") {
			destRel = path.Join("assets", destRel)
		}
		fullPath := joinOutputPath(baseDir, destRel)
		checksum := computeHash(data)
		key := assetKey(assetScopeTheme, asset)
		keep[key] = struct{}{}

		if s.cfg.Incremental && manifest.shouldSkipAsset(assetScopeTheme, asset, checksum, fullPath) {
			summary.Skipped++
			continue
		}
		if err := writer.WriteFile(ctx, WriteFileRequest{
			Path:        fullPath,
			Content:     bytes.NewReader(data),
			Size:        int64(len(data)),
			Category:    categoryAsset,
			ContentType: detectAssetContentType(destRel),
			Checksum:    checksum,
			Metadata:    map[string]string{"theme": theme.Name, "asset": asset},
		}); err != nil {
			return summary, err
		}
		summary.Built++
		manifest.setAsset(manifestAsset{
			Key:      key,
			Source:   source,
			Output:   fullPath,
			Checksum: checksum,
			Size:     int64(len(data)),
			CopiedAt: s.now().UTC(),
		})
	}
	return summary, nil
}

// copyStaticAssets mirrors non-Markdown files that sit next to the content
// (images, downloads) into the output tree at the same relative paths.
func (s *service) copyStaticAssets(
	ctx context.Context,
	writer ArtifactWriter,
	manifest *buildManifest,
	baseDir string,
	keep map[string]struct{},
) (assetCopySummary, error) {
	summary := assetCopySummary{}
	if s.deps.StaticFS == nil {
		return summary, nil
	}

	err := fs.WalkDir(s.deps.StaticFS, ".", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if p != "." && strings.HasPrefix(name, ".") {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		switch strings.ToLower(path.Ext(name)) {
		case ".md", ".markdown":
			return nil
		}

		file, err := s.deps.StaticFS.Open(p)
		if err != nil {
			return fmt.Errorf("generator: open static asset %s: %w", p, err)
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return fmt.Errorf("generator: read static asset %s: %w", p, err)
		}

		fullPath := joinOutputPath(baseDir, p)
		checksum := computeHash(data)
		key := assetKey(assetScopeStatic, p)
		keep[key] = struct{}{}

		if s.cfg.Incremental && manifest.shouldSkipAsset(assetScopeStatic, p, checksum, fullPath) {
			summary.Skipped++
			return nil
		}
		if err := writer.WriteFile(ctx, WriteFileRequest{
			Path:        fullPath,
			Content:     bytes.NewReader(data),
			Size:        int64(len(data)),
			Category:    categoryAsset,
			ContentType: detectAssetContentType(p),
			Checksum:    checksum,
			Metadata:    map[string]string{"asset": p},
		}); err != nil {
			return err
		}
		summary.Built++
		manifest.setAsset(manifestAsset{
			Key:      key,
			Source:   p,
			Output:   fullPath,
			Checksum: checksum,
			Size:     int64(len(data)),
			CopiedAt: s.now().UTC(),
		})
		return nil
	})
	return summary, err
}

func detectAssetContentType(asset string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(asset), "."))
	switch ext {
	case "css":
		return "text/css"
	case "js":
		return "application/javascript"
	case "json":
		return "application/json"
	case "svg":
		return "image/svg+xml"
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	case "ico":
		return "image/x-icon"
	case "txt":
		return "text/plain; charset=utf-8"
	case "xml":
		return "application/xml"
	case "woff":
		return "font/woff"
	case "woff2":
		return "font/woff2"
	default:
		return "application/octet-stream"
	}
}
