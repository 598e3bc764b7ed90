package generator

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestParseBuildManifestEmptyInputStartsFresh(t *testing.T) {
	manifest, err := parseBuildManifest(nil)
	if err != nil {
		t.Fatalf("expected empty input to parse, got %v", err)
	}
	if manifest.Version != manifestFileVersion {
		t.Fatalf("expected version %d, got %d", manifestFileVersion, manifest.Version)
	}
	if manifest.Pages == nil || manifest.Assets == nil {
		t.Fatalf("expected initialized maps, got %+v", manifest)
	}
}

func TestParseBuildManifestRejectsGarbage(t *testing.T) {
	_, err := parseBuildManifest([]byte("{not json"))
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if !strings.Contains(err.Error(), "parse build manifest") {
		t.Fatalf("expected wrapped parse error, got %v", err)
	}
}

func TestBuildManifestMarshalIsDeterministic(t *testing.T) {
	manifest := newBuildManifest()
	manifest.GeneratedAt = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	manifest.setPage(manifestPage{Path: "/tags/go", Kind: "tag", Output: "dist/tags/go/index.html", Hash: "b"})
	manifest.setPage(manifestPage{Path: "/", Kind: "index", Output: "dist/index.html", Hash: "a"})
	manifest.setAsset(manifestAsset{Key: assetKey("theme", "assets/style.css"), Source: "assets/style.css", Output: "dist/assets/style.css"})
	manifest.setAsset(manifestAsset{Key: assetKey("static", "notes.txt"), Source: "notes.txt", Output: "dist/notes.txt"})

	first, err := manifest.marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, err := manifest.marshal()
	if err != nil {
		t.Fatalf("second marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("expected identical output across marshals")
	}

	text := string(first)
	if strings.Index(text, `"/"`) > strings.Index(text, `"/tags/go"`) {
		t.Fatalf("expected pages sorted by path, got:\n%s", text)
	}
	if strings.Index(text, "static::notes.txt") > strings.Index(text, "theme::assets/style.css") {
		t.Fatalf("expected assets sorted by key, got:\n%s", text)
	}
}

func TestBuildManifestRoundTrip(t *testing.T) {
	manifest := newBuildManifest()
	manifest.GeneratedAt = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	manifest.setPage(manifestPage{Path: "/posts/hello", Kind: "post", Output: "dist/posts/hello/index.html", Hash: "abc", Checksum: "def"})

	data, err := manifest.marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	parsed, err := parseBuildManifest(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	entry, ok := parsed.lookupPage("/posts/hello")
	if !ok {
		t.Fatalf("expected page entry to survive the round trip")
	}
	if entry.Hash != "abc" || entry.Checksum != "def" || entry.Output != "dist/posts/hello/index.html" {
		t.Fatalf("unexpected entry after round trip: %+v", entry)
	}
}

func TestBuildManifestShouldSkipPage(t *testing.T) {
	manifest := newBuildManifest()
	manifest.setPage(manifestPage{Path: "/posts/hello", Hash: "h1", Output: "dist/posts/hello/index.html"})

	if !manifest.shouldSkipPage("/posts/hello", "h1", "dist/posts/hello/index.html") {
		t.Fatalf("expected matching hash and output to skip")
	}
	if manifest.shouldSkipPage("/posts/hello", "h2", "dist/posts/hello/index.html") {
		t.Fatalf("expected changed hash to rebuild")
	}
	if manifest.shouldSkipPage("/posts/hello", "h1", "elsewhere/index.html") {
		t.Fatalf("expected moved output to rebuild")
	}
	if manifest.shouldSkipPage("/unknown", "h1", "dist/index.html") {
		t.Fatalf("expected unknown page to rebuild")
	}
	// Page keys are case insensitive.
	if !manifest.shouldSkipPage("/Posts/Hello", "h1", "dist/posts/hello/index.html") {
		t.Fatalf("expected lookup to normalize case")
	}
}

func TestBuildManifestShouldSkipAsset(t *testing.T) {
	manifest := newBuildManifest()
	manifest.setAsset(manifestAsset{
		Key:      assetKey(assetScopeTheme, "assets/style.css"),
		Source:   "assets/style.css",
		Output:   "dist/assets/style.css",
		Checksum: "c1",
	})

	if !manifest.shouldSkipAsset(assetScopeTheme, "assets/style.css", "c1", "dist/assets/style.css") {
		t.Fatalf("expected unchanged asset to skip")
	}
	if manifest.shouldSkipAsset(assetScopeTheme, "assets/style.css", "c2", "dist/assets/style.css") {
		t.Fatalf("expected changed checksum to rebuild")
	}
	if manifest.shouldSkipAsset(assetScopeStatic, "assets/style.css", "c1", "dist/assets/style.css") {
		t.Fatalf("expected scope to separate asset identities")
	}
}

func TestBuildManifestPruneDropsStaleEntries(t *testing.T) {
	manifest := newBuildManifest()
	manifest.setPage(manifestPage{Path: "/keep"})
	manifest.setPage(manifestPage{Path: "/drop"})
	manifest.setAsset(manifestAsset{Key: assetKey("theme", "keep.css"), Source: "keep.css"})
	manifest.setAsset(manifestAsset{Key: assetKey("theme", "drop.css"), Source: "drop.css"})

	manifest.prunePages(map[string]struct{}{pageKey("/keep"): {}})
	manifest.pruneAssets(map[string]struct{}{assetKey("theme", "keep.css"): {}})

	if _, ok := manifest.lookupPage("/keep"); !ok {
		t.Fatalf("expected kept page to remain")
	}
	if _, ok := manifest.lookupPage("/drop"); ok {
		t.Fatalf("expected stale page to be pruned")
	}
	if _, ok := manifest.lookupAsset("theme", "keep.css"); !ok {
		t.Fatalf("expected kept asset to remain")
	}
	if _, ok := manifest.lookupAsset("theme", "drop.css"); ok {
		t.Fatalf("expected stale asset to be pruned")
	}
}
