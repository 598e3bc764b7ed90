package pages

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-blog/internal/content"
	urlkit "github.com/goliatone/go-urlkit"
)

func testPost(slug, title string, published time.Time, tags ...string) *content.Post {
	return &content.Post{
		Slug:        slug,
		Title:       title,
		Tags:        tags,
		PublishedAt: published,
	}
}

func TestServiceResolvesPathsWithFallbackPatterns(t *testing.T) {
	svc := NewService(Config{})

	cases := []struct {
		name string
		got  func() (string, error)
		want string
	}{
		{"post", func() (string, error) { return svc.PostPath("hello-world") }, "/posts/hello-world/"},
		{"tag", func() (string, error) { return svc.TagPath("Machine Learning") }, "/tags/machine-learning/"},
		{"archive", func() (string, error) { return svc.ArchivePath(2025) }, "/archive/2025/"},
		{"home", func() (string, error) { return svc.IndexPath(1) }, "/"},
		{"page", func() (string, error) { return svc.IndexPath(3) }, "/page/3/"},
		{"standalone", func() (string, error) { return svc.StandalonePath("about") }, "/about/"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.got()
			if err != nil {
				t.Fatalf("expected path, got error %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestServiceResolvesPathsThroughRouteManager(t *testing.T) {
	manager := urlkit.NewRouteManager(DefaultRouteConfig())
	svc := NewService(Config{Manager: manager, Group: DefaultGroup})

	got, err := svc.PostPath("hello-world")
	if err != nil {
		t.Fatalf("expected path, got error %v", err)
	}
	if got != "/posts/hello-world/" {
		t.Fatalf("expected /posts/hello-world/, got %q", got)
	}

	got, err = svc.IndexPath(2)
	if err != nil {
		t.Fatalf("expected path, got error %v", err)
	}
	if got != "/page/2/" {
		t.Fatalf("expected /page/2/, got %q", got)
	}
}

func TestServiceReportsUnknownRouteGroup(t *testing.T) {
	manager := urlkit.NewRouteManager(DefaultRouteConfig())
	svc := NewService(Config{Manager: manager, Group: "missing"})

	_, err := svc.PostPath("hello-world")
	if err == nil {
		t.Fatal("expected an error for an unregistered route group")
	}
	if !strings.Contains(err.Error(), "missing") {
		t.Fatalf("expected the group name in the error, got %v", err)
	}
}

func TestServiceValidatesPathArguments(t *testing.T) {
	svc := NewService(Config{})

	if _, err := svc.PostPath("  "); !errors.Is(err, ErrSlugRequired) {
		t.Fatalf("expected ErrSlugRequired, got %v", err)
	}
	if _, err := svc.TagPath(" "); !errors.Is(err, ErrTagRequired) {
		t.Fatalf("expected ErrTagRequired, got %v", err)
	}
	if _, err := svc.ArchivePath(0); !errors.Is(err, ErrYearInvalid) {
		t.Fatalf("expected ErrYearInvalid, got %v", err)
	}
	if _, err := svc.IndexPath(0); !errors.Is(err, ErrPageNumberInvalid) {
		t.Fatalf("expected ErrPageNumberInvalid, got %v", err)
	}
	if _, err := svc.StandalonePath(""); !errors.Is(err, ErrSlugRequired) {
		t.Fatalf("expected ErrSlugRequired, got %v", err)
	}
}

func TestPlanLinksPostNeighboursInPublishOrder(t *testing.T) {
	svc := NewService(Config{})

	posts := []*content.Post{
		testPost("oldest", "Oldest", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		testPost("newest", "Newest", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)),
		testPost("middle", "Middle", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)),
	}

	plan, err := svc.Plan(context.Background(), posts)
	if err != nil {
		t.Fatalf("expected plan, got error %v", err)
	}

	postPages := plan.ByKind(KindPost)
	if len(postPages) != 3 {
		t.Fatalf("expected 3 post pages, got %d", len(postPages))
	}

	newest := postPages[0]
	if newest.Path != "/posts/newest/" {
		t.Fatalf("expected newest post first, got %q", newest.Path)
	}
	if newest.Next != nil {
		t.Fatalf("expected no newer neighbour, got %+v", newest.Next)
	}
	if newest.Prev == nil || newest.Prev.Path != "/posts/middle/" {
		t.Fatalf("expected prev to point at middle, got %+v", newest.Prev)
	}

	middle := postPages[1]
	if middle.Next == nil || middle.Next.Title != "Newest" {
		t.Fatalf("expected next to point at newest, got %+v", middle.Next)
	}
	if middle.Prev == nil || middle.Prev.Title != "Oldest" {
		t.Fatalf("expected prev to point at oldest, got %+v", middle.Prev)
	}

	oldest := postPages[2]
	if oldest.Prev != nil {
		t.Fatalf("expected no older neighbour, got %+v", oldest.Prev)
	}
	if oldest.Next == nil || oldest.Next.Path != "/posts/middle/" {
		t.Fatalf("expected next to point at middle, got %+v", oldest.Next)
	}
}

func TestPlanPaginatesHomeIndex(t *testing.T) {
	svc := NewService(Config{PageSize: 2})

	posts := make([]*content.Post, 0, 5)
	for i := 0; i < 5; i++ {
		published := time.Date(2025, 1, 1+i, 0, 0, 0, 0, time.UTC)
		posts = append(posts, testPost("post-"+string(rune('a'+i)), "Post", published))
	}

	plan, err := svc.Plan(context.Background(), posts)
	if err != nil {
		t.Fatalf("expected plan, got error %v", err)
	}

	indexPages := plan.ByKind(KindIndex)
	if len(indexPages) != 3 {
		t.Fatalf("expected ceil(5/2)=3 index pages, got %d", len(indexPages))
	}

	first := indexPages[0]
	if first.Path != "/" {
		t.Fatalf("expected page one at the site root, got %q", first.Path)
	}
	if len(first.Posts) != 2 {
		t.Fatalf("expected 2 posts on page one, got %d", len(first.Posts))
	}
	if first.Pagination.PrevPath != "" || first.Pagination.NextPath != "/page/2/" {
		t.Fatalf("unexpected pagination on page one: %+v", first.Pagination)
	}
	if first.Posts[0].Slug != "post-e" {
		t.Fatalf("expected newest post first on page one, got %q", first.Posts[0].Slug)
	}

	second := indexPages[1]
	if second.Pagination.PrevPath != "/" || second.Pagination.NextPath != "/page/3/" {
		t.Fatalf("unexpected pagination on page two: %+v", second.Pagination)
	}

	last := indexPages[2]
	if len(last.Posts) != 1 {
		t.Fatalf("expected the remainder on the last page, got %d posts", len(last.Posts))
	}
	if last.Pagination.NextPath != "" {
		t.Fatalf("expected no next path on the last page, got %q", last.Pagination.NextPath)
	}
	if last.Pagination.Total != 3 || last.Pagination.Number != 3 {
		t.Fatalf("unexpected pagination on the last page: %+v", last.Pagination)
	}
}

func TestPlanEmptyCorpusStillPlansHome(t *testing.T) {
	svc := NewService(Config{})

	plan, err := svc.Plan(context.Background(), nil)
	if err != nil {
		t.Fatalf("expected plan, got error %v", err)
	}

	indexPages := plan.ByKind(KindIndex)
	if len(indexPages) != 1 {
		t.Fatalf("expected a single home page, got %d", len(indexPages))
	}
	if indexPages[0].Path != "/" {
		t.Fatalf("expected the home page at /, got %q", indexPages[0].Path)
	}
	if len(indexPages[0].Posts) != 0 {
		t.Fatalf("expected no posts on an empty home page, got %d", len(indexPages[0].Posts))
	}
	if indexPages[0].Pagination.Total != 1 {
		t.Fatalf("expected pagination total 1, got %d", indexPages[0].Pagination.Total)
	}
}

func TestPlanBucketsTagsCaseInsensitively(t *testing.T) {
	svc := NewService(Config{})

	posts := []*content.Post{
		testPost("older", "Older", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), "go", "tooling"),
		testPost("newer", "Newer", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), "Go"),
	}

	plan, err := svc.Plan(context.Background(), posts)
	if err != nil {
		t.Fatalf("expected plan, got error %v", err)
	}

	tagPages := plan.ByKind(KindTag)
	if len(tagPages) != 2 {
		t.Fatalf("expected 2 tag pages, got %d", len(tagPages))
	}

	goPage := tagPages[0]
	if goPage.Path != "/tags/go/" {
		t.Fatalf("expected /tags/go/ first, got %q", goPage.Path)
	}
	if goPage.Tag != "Go" {
		t.Fatalf("expected the newest spelling for display, got %q", goPage.Tag)
	}
	if len(goPage.Posts) != 2 {
		t.Fatalf("expected both posts under the go tag, got %d", len(goPage.Posts))
	}
	if goPage.Posts[0].Slug != "newer" {
		t.Fatalf("expected newest post first, got %q", goPage.Posts[0].Slug)
	}

	if tagPages[1].Path != "/tags/tooling/" {
		t.Fatalf("expected /tags/tooling/ second, got %q", tagPages[1].Path)
	}
}

func TestPlanGroupsArchivesByYear(t *testing.T) {
	svc := NewService(Config{})

	posts := []*content.Post{
		testPost("late", "Late", time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)),
		testPost("early", "Early", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)),
		testPost("mid", "Mid", time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)),
	}

	plan, err := svc.Plan(context.Background(), posts)
	if err != nil {
		t.Fatalf("expected plan, got error %v", err)
	}

	archives := plan.ByKind(KindArchive)
	if len(archives) != 2 {
		t.Fatalf("expected 2 archive pages, got %d", len(archives))
	}

	if archives[0].Year != 2025 || archives[0].Path != "/archive/2025/" {
		t.Fatalf("expected the 2025 archive first, got %+v", archives[0])
	}
	if archives[1].Year != 2024 || len(archives[1].Posts) != 2 {
		t.Fatalf("expected two posts in the 2024 archive, got %+v", archives[1])
	}
	if archives[1].Posts[0].Slug != "mid" {
		t.Fatalf("expected newest post first within the year, got %q", archives[1].Posts[0].Slug)
	}
}

func TestPlanSeparatesStandalonePages(t *testing.T) {
	svc := NewService(Config{})

	about := testPost("about", "About", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	about.Template = "page"
	posts := []*content.Post{
		about,
		testPost("hello", "Hello", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
	}

	plan, err := svc.Plan(context.Background(), posts)
	if err != nil {
		t.Fatalf("expected plan, got error %v", err)
	}

	standalone := plan.ByKind(KindStandalone)
	if len(standalone) != 1 {
		t.Fatalf("expected one standalone page, got %d", len(standalone))
	}
	if standalone[0].Path != "/about/" {
		t.Fatalf("expected /about/, got %q", standalone[0].Path)
	}

	indexPages := plan.ByKind(KindIndex)
	if len(indexPages) != 1 {
		t.Fatalf("expected one index page, got %d", len(indexPages))
	}
	for _, post := range indexPages[0].Posts {
		if post.Slug == "about" {
			t.Fatal("expected standalone pages to stay out of the home listing")
		}
	}
	if len(plan.ByKind(KindArchive)) != 1 {
		t.Fatalf("expected standalone pages to stay out of archives")
	}
}

func TestNormalizePathReducesAbsoluteURLs(t *testing.T) {
	cases := map[string]string{
		"https://example.com/Posts/Hi": "/posts/hi/",
		"/posts/hi":                    "/posts/hi/",
		"posts/hi/":                    "/posts/hi/",
		"":                             "/",
	}
	for input, want := range cases {
		if got := normalizePath(input); got != want {
			t.Fatalf("normalizePath(%q): expected %q, got %q", input, want, got)
		}
	}
}
