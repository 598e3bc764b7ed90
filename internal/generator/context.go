package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"html/template"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-blog/internal/content"
	"github.com/goliatone/go-blog/internal/pages"
	"github.com/goliatone/go-blog/internal/themes"
	"github.com/goliatone/go-blog/pkg/interfaces"
	gotheme "github.com/goliatone/go-theme"
	"github.com/google/uuid"
)

// TemplateContext is the root object handed to theme templates.
type TemplateContext struct {
	Site  SiteContext
	Page  PageContext
	Theme ThemeContext
	Build BuildMetadata
}

// SiteContext carries the site-wide fields every layout renders.
type SiteContext struct {
	Title       string
	Description string
	Author      string
	BaseURL     string
	Language    string
	Nav         []NavLink
}

// NavLink is one header navigation entry.
type NavLink struct {
	Label string
	URL   string
}

// PageContext describes the page being rendered. Exactly one of Post and
// Posts is populated depending on the page kind.
type PageContext struct {
	Kind       string
	Path       string
	Title      string
	Post       *PostView
	Posts      []*PostView
	Tag        string
	Year       int
	Pagination *pages.Pagination
	Prev       *pages.PostLink
	Next       *pages.PostLink
	Widgets    map[string][]template.HTML
}

// PostView is a post prepared for templates: Markdown converted, shortcodes
// expanded, and every path resolved.
type PostView struct {
	Slug        string
	Title       string
	Path        string
	HTML        template.HTML
	Excerpt     string
	Summary     string
	Author      string
	PublishedAt time.Time
	UpdatedAt   time.Time
	Tags        []TagLink
	ReadingTime int
	WordCount   int
}

// TagLink pairs a tag's display name with its listing path.
type TagLink struct {
	Name string
	Path string
}

// ThemeContext carries the resolved theme identity and the inline token CSS
// the base layout injects.
type ThemeContext struct {
	Name    string
	Variant string
	CSS     template.CSS
	Tokens  map[string]string
}

// BuildMetadata timestamps the build for templates.
type BuildMetadata struct {
	GeneratedAt time.Time
	Version     string
}

// WidgetPlacement pins a widget instance into a theme widget area.
type WidgetPlacement struct {
	Area       string
	InstanceID uuid.UUID
	Position   int
}

// buildState holds everything a single build run derives before page
// rendering starts.
type buildState struct {
	plan        *pages.Plan
	views       map[string]*PostView
	widgets     map[string][]template.HTML
	widgetHash  string
	theme       ThemeContext
	generatedAt time.Time
}

func (s *service) loadState(ctx context.Context, opts BuildOptions) (*buildState, error) {
	posts, err := s.deps.Content.List(ctx, content.ListPostsRequest{IncludeDrafts: opts.IncludeDrafts})
	if err != nil {
		return nil, fmt.Errorf("generator: list posts: %w", err)
	}
	plan, err := s.deps.Pages.Plan(ctx, posts)
	if err != nil {
		return nil, fmt.Errorf("generator: plan pages: %w", err)
	}

	state := &buildState{
		plan:        plan,
		views:       make(map[string]*PostView),
		generatedAt: s.now().UTC(),
	}

	tagPaths := map[string]string{}
	for _, page := range plan.Pages {
		if page.Post == nil {
			continue
		}
		view, err := s.buildPostView(ctx, page.Post, page.Path, tagPaths)
		if err != nil {
			return nil, err
		}
		state.views[page.Post.Slug] = view
	}

	state.theme = s.themeContext()
	state.widgets, state.widgetHash = s.renderWidgetAreas(ctx)
	return state, nil
}

func (s *service) buildPostView(ctx context.Context, post *content.Post, pagePath string, tagPaths map[string]string) (*PostView, error) {
	body, err := s.renderPostBody(ctx, post)
	if err != nil {
		return nil, err
	}
	view := &PostView{
		Slug:        post.Slug,
		Title:       post.Title,
		Path:        pagePath,
		HTML:        body,
		Excerpt:     post.Excerpt,
		Author:      post.Author,
		PublishedAt: post.PublishedAt,
		UpdatedAt:   post.UpdatedAt,
		ReadingTime: post.ReadingTime,
		WordCount:   post.WordCount,
	}
	if post.Summary != nil {
		view.Summary = strings.TrimSpace(*post.Summary)
	}
	for _, tag := range post.Tags {
		key := strings.ToLower(strings.TrimSpace(tag))
		resolved, ok := tagPaths[key]
		if !ok {
			resolved, err = s.deps.Pages.TagPath(tag)
			if err != nil {
				return nil, fmt.Errorf("generator: resolve tag path %q: %w", tag, err)
			}
			tagPaths[key] = resolved
		}
		view.Tags = append(view.Tags, TagLink{Name: tag, Path: resolved})
	}
	return view, nil
}

// renderPostBody runs the content pipeline: shortcodes extract to plain-text
// placeholders, Markdown converts around them, then the placeholders expand
// into rendered fragments. Posts without a Markdown body fall back to their
// stored HTML and skip the conversion step.
func (s *service) renderPostBody(ctx context.Context, post *content.Post) (template.HTML, error) {
	source := post.Body
	preRendered := false
	if strings.TrimSpace(source) == "" {
		source = post.HTML
		preRendered = true
	}

	var parsed []interfaces.ParsedShortcode
	if s.deps.Shortcodes != nil {
		transformed, extracted, err := s.deps.Shortcodes.Extract(source)
		if err != nil {
			return "", fmt.Errorf("generator: extract shortcodes for %s: %w", post.Slug, err)
		}
		source = transformed
		parsed = extracted
	}

	if !preRendered {
		if s.deps.Markdown == nil {
			return "", fmt.Errorf("generator: post %s: %w", post.Slug, errMarkdownRequired)
		}
		rendered, err := s.deps.Markdown.Parse([]byte(source))
		if err != nil {
			return "", fmt.Errorf("generator: render markdown for %s: %w", post.Slug, err)
		}
		source = string(rendered)
	}

	if s.deps.Shortcodes != nil && len(parsed) > 0 {
		expanded, err := s.deps.Shortcodes.Expand(ctx, source, parsed, interfaces.ShortcodeProcessOptions{})
		if err != nil {
			return "", fmt.Errorf("generator: expand shortcodes for %s: %w", post.Slug, err)
		}
		source = expanded
	}
	return template.HTML(source), nil
}

// themeContext resolves the theme/variant pair once per build. A failed
// go-theme selection logs and falls back to the theme's own manifest tokens,
// so the page set still builds styled.
func (s *service) themeContext() ThemeContext {
	tc := ThemeContext{Variant: strings.TrimSpace(s.cfg.Variant)}
	theme := s.deps.Theme
	if theme == nil {
		return tc
	}
	tc.Name = theme.Name

	var selection *gotheme.Selection
	if s.deps.Selector != nil {
		resolved, err := s.deps.Selector.Selection(theme.Name, tc.Variant)
		if err != nil {
			s.logger.Warn("generator.theme_selection_failed", "theme", theme.Name, "variant", tc.Variant, "error", err)
		} else if resolved != nil {
			selection = resolved
			if variant := strings.TrimSpace(selection.Variant); variant != "" {
				tc.Variant = variant
			}
		}
	}
	if tc.Variant == "" && theme.Manifest != nil {
		tc.Variant = theme.Manifest.DefaultVariant
	}

	tc.CSS = themes.Stylesheet(theme, selection, tc.Variant, s.cssPrefix())
	if selection != nil {
		tc.Tokens = selection.Tokens()
	}
	if len(tc.Tokens) == 0 && theme.Manifest != nil {
		tc.Tokens = theme.Manifest.VariantTokens(tc.Variant)
	}
	return tc
}

func (s *service) cssPrefix() string {
	if prefix := strings.TrimSpace(s.cfg.CSSPrefix); prefix != "" {
		return prefix
	}
	return themes.DefaultCSSPrefix
}

// renderWidgetAreas renders every configured placement once per build; the
// same fragments repeat on every page. A failing widget logs and drops out
// instead of failing the build.
func (s *service) renderWidgetAreas(ctx context.Context) (map[string][]template.HTML, string) {
	if s.deps.Widgets == nil || len(s.cfg.WidgetPlacements) == 0 {
		return nil, ""
	}
	placements := append([]WidgetPlacement(nil), s.cfg.WidgetPlacements...)
	sort.SliceStable(placements, func(i, j int) bool {
		if placements[i].Area == placements[j].Area {
			return placements[i].Position < placements[j].Position
		}
		return placements[i].Area < placements[j].Area
	})

	areas := map[string][]template.HTML{}
	hasher := sha256.New()
	for _, placement := range placements {
		area := strings.TrimSpace(placement.Area)
		if area == "" || placement.InstanceID == uuid.Nil {
			continue
		}
		fragment, err := s.deps.Widgets.Render(ctx, placement.InstanceID)
		if err != nil {
			s.logger.Warn("generator.widget_render_failed", "area", area, "instance", placement.InstanceID.String(), "error", err)
			continue
		}
		areas[area] = append(areas[area], template.HTML(fragment))
		hashParts(hasher, area, fragment)
	}
	if len(areas) == 0 {
		return nil, ""
	}
	return areas, hex.EncodeToString(hasher.Sum(nil))
}

func (s *service) pageContext(page *pages.Page, state *buildState) PageContext {
	pc := PageContext{
		Kind:       string(page.Kind),
		Path:       page.Path,
		Title:      page.Title,
		Tag:        page.Tag,
		Year:       page.Year,
		Pagination: page.Pagination,
		Prev:       page.Prev,
		Next:       page.Next,
		Widgets:    state.widgets,
	}
	if page.Post != nil {
		pc.Post = state.views[page.Post.Slug]
	}
	for _, post := range page.Posts {
		if view, ok := state.views[post.Slug]; ok {
			pc.Posts = append(pc.Posts, view)
		}
	}
	return pc
}

// resolveTemplate maps a page to its theme template name. A post's Template
// field overrides the kind default; the "page" marker means standalone and
// already shaped the plan, so it resolves to the kind default too.
func resolveTemplate(page *pages.Page) string {
	fallback := string(page.Kind)
	if page.Post == nil {
		return fallback
	}
	custom := strings.ToLower(strings.TrimSpace(page.Post.Template))
	switch custom {
	case "", "page":
		return fallback
	default:
		return custom
	}
}

// pageHash fingerprints every input that shapes a page's output so
// incremental builds can skip pages whose inputs did not change.
func (s *service) pageHash(page *pages.Page, state *buildState, templateName string) string {
	hasher := sha256.New()
	hashParts(hasher,
		"v"+strconv.Itoa(manifestFileVersion),
		string(page.Kind), page.Path, page.Title, templateName,
		state.theme.Name, state.theme.Variant, string(state.theme.CSS), state.widgetHash,
		s.cfg.Site.Title, s.cfg.Site.Description, s.cfg.Site.Author,
		s.cfg.Site.BaseURL, s.cfg.Site.Language, s.cfg.Version,
	)
	for _, nav := range s.cfg.Site.Nav {
		hashParts(hasher, nav.Label, nav.URL)
	}
	if page.Pagination != nil {
		hashParts(hasher,
			strconv.Itoa(page.Pagination.Number), strconv.Itoa(page.Pagination.Total),
			page.Pagination.PrevPath, page.Pagination.NextPath,
		)
	}
	if page.Prev != nil {
		hashParts(hasher, page.Prev.Title, page.Prev.Path)
	}
	if page.Next != nil {
		hashParts(hasher, page.Next.Title, page.Next.Path)
	}
	hashParts(hasher, page.Tag, strconv.Itoa(page.Year))
	if page.Post != nil {
		hashPost(hasher, page.Post)
	}
	for _, post := range page.Posts {
		hashPost(hasher, post)
	}
	return hex.EncodeToString(hasher.Sum(nil))
}

func hashPost(hasher hash.Hash, post *content.Post) {
	hashParts(hasher,
		post.Slug, post.Checksum, post.Title,
		post.UpdatedAt.UTC().Format(time.RFC3339Nano),
		post.PublishedAt.UTC().Format(time.RFC3339Nano),
	)
}

func hashParts(hasher hash.Hash, parts ...string) {
	for _, part := range parts {
		hasher.Write([]byte(part))
		hasher.Write([]byte{0})
	}
}

func pageLastModified(page *pages.Page) time.Time {
	var last time.Time
	consider := func(ts time.Time) {
		if ts.After(last) {
			last = ts
		}
	}
	if page.Post != nil {
		consider(page.Post.UpdatedAt)
		consider(page.Post.PublishedAt)
	}
	for _, post := range page.Posts {
		consider(post.UpdatedAt)
		consider(post.PublishedAt)
	}
	return last
}
