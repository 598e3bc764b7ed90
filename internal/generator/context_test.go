package generator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-blog/internal/content"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/pages"
	"github.com/goliatone/go-blog/internal/themes"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// markerShortcodes swaps one known invocation for a plain-text placeholder so
// tests can watch the extract, convert, expand order.
type markerShortcodes struct{}

func (markerShortcodes) Process(_ context.Context, body string, _ interfaces.ShortcodeProcessOptions) (string, error) {
	return body, nil
}

func (markerShortcodes) Extract(body string) (string, []interfaces.ParsedShortcode, error) {
	if !strings.Contains(body, "[[counter]]") {
		return body, nil, nil
	}
	replaced := strings.ReplaceAll(body, "[[counter]]", "@@shortcode:0@@")
	return replaced, []interfaces.ParsedShortcode{{Name: "counter", Raw: "[[counter]]"}}, nil
}

func (markerShortcodes) Expand(_ context.Context, body string, _ []interfaces.ParsedShortcode, _ interfaces.ShortcodeProcessOptions) (string, error) {
	return strings.ReplaceAll(body, "@@shortcode:0@@", `<div class="widget-counter"></div>`), nil
}

func contextFixtureService(cfg Config, deps Dependencies) *service {
	return &service{cfg: cfg, deps: deps, logger: logging.NoOp(), now: time.Now}
}

func TestRenderPostBodyConvertsMarkdownAroundShortcodes(t *testing.T) {
	svc := contextFixtureService(Config{}, Dependencies{
		Markdown:   paragraphMarkdown{},
		Shortcodes: markerShortcodes{},
	})
	post := &content.Post{Slug: "counting", Body: "Count with [[counter]] daily."}

	body, err := svc.renderPostBody(context.Background(), post)
	if err != nil {
		t.Fatalf("expected body to render, got %v", err)
	}
	want := `<p>Count with <div class="widget-counter"></div> daily.</p>`
	if string(body) != want {
		t.Fatalf("expected %q, got %q", want, body)
	}
}

func TestRenderPostBodyUsesStoredHTMLWhenBodyEmpty(t *testing.T) {
	svc := contextFixtureService(Config{}, Dependencies{})
	post := &content.Post{Slug: "imported", HTML: "<p>already rendered</p>"}

	body, err := svc.renderPostBody(context.Background(), post)
	if err != nil {
		t.Fatalf("expected stored HTML to pass through, got %v", err)
	}
	if string(body) != "<p>already rendered</p>" {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestRenderPostBodyRequiresMarkdownParser(t *testing.T) {
	svc := contextFixtureService(Config{}, Dependencies{})
	post := &content.Post{Slug: "raw", Body: "Plain markdown body."}

	_, err := svc.renderPostBody(context.Background(), post)
	if !errors.Is(err, errMarkdownRequired) {
		t.Fatalf("expected errMarkdownRequired, got %v", err)
	}
}

func TestResolveTemplate(t *testing.T) {
	cases := []struct {
		name string
		page *pages.Page
		want string
	}{
		{"index without post", &pages.Page{Kind: pages.KindIndex}, "index"},
		{"post default", &pages.Page{Kind: pages.KindPost, Post: &content.Post{}}, "post"},
		{"post custom template", &pages.Page{Kind: pages.KindPost, Post: &content.Post{Template: "Fancy"}}, "fancy"},
		{"standalone page marker", &pages.Page{Kind: pages.KindStandalone, Post: &content.Post{Template: "page"}}, "standalone"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := resolveTemplate(tc.page); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestPageLastModified(t *testing.T) {
	published := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	updated := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	single := &pages.Page{Post: &content.Post{PublishedAt: published, UpdatedAt: updated}}
	if got := pageLastModified(single); !got.Equal(updated) {
		t.Fatalf("expected updated timestamp, got %v", got)
	}

	listing := &pages.Page{Posts: []*content.Post{
		{PublishedAt: published},
		{PublishedAt: published, UpdatedAt: updated},
	}}
	if got := pageLastModified(listing); !got.Equal(updated) {
		t.Fatalf("expected newest timestamp across posts, got %v", got)
	}

	if got := pageLastModified(&pages.Page{}); !got.IsZero() {
		t.Fatalf("expected zero time for empty pages, got %v", got)
	}
}

func TestThemeContextFallsBackToManifestTokens(t *testing.T) {
	theme, err := themes.DefaultTheme()
	if err != nil {
		t.Fatalf("default theme: %v", err)
	}

	svc := contextFixtureService(Config{Variant: "dark"}, Dependencies{Theme: theme})
	tc := svc.themeContext()
	if tc.Name != "default" {
		t.Fatalf("expected theme name, got %q", tc.Name)
	}
	if tc.Variant != "dark" {
		t.Fatalf("expected requested variant, got %q", tc.Variant)
	}
	if !strings.Contains(string(tc.CSS), "--blog-color-bg: #14161c;") {
		t.Fatalf("expected dark token CSS, got:\n%s", tc.CSS)
	}
	if len(tc.Tokens) == 0 {
		t.Fatalf("expected manifest tokens to back the context")
	}

	svc = contextFixtureService(Config{}, Dependencies{Theme: theme})
	tc = svc.themeContext()
	if tc.Variant != "light" {
		t.Fatalf("expected manifest default variant, got %q", tc.Variant)
	}
}

func TestRenderWidgetAreasWithoutWidgets(t *testing.T) {
	svc := contextFixtureService(Config{}, Dependencies{})
	areas, digest := svc.renderWidgetAreas(context.Background())
	if areas != nil || digest != "" {
		t.Fatalf("expected no widget output without a widget service, got %v %q", areas, digest)
	}
}
