package pages

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-blog/internal/content"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
	"github.com/goliatone/go-slug"
	urlkit "github.com/goliatone/go-urlkit"
)

// Route names resolved against the configured urlkit group.
const (
	RouteHome       = "home"
	RoutePost       = "post"
	RouteTag        = "tag"
	RouteArchive    = "archive"
	RoutePage       = "page"
	RouteStandalone = "standalone"
)

// DefaultGroup is the route group consulted when the configuration leaves
// it blank.
const DefaultGroup = "site"

// DefaultPageSize bounds the home index when no page size is configured.
const DefaultPageSize = 10

// standaloneTemplate marks posts that plan as standalone pages. They render
// at /<slug>/ and never join the home, tag or archive listings.
const standaloneTemplate = "page"

var (
	ErrSlugRequired      = errors.New("pages: slug is required")
	ErrTagRequired       = errors.New("pages: tag is required")
	ErrYearInvalid       = errors.New("pages: year must be positive")
	ErrPageNumberInvalid = errors.New("pages: page number must be positive")
)

// fallbackPatterns serve path resolution when no route manager is
// configured. They match the templates DefaultRouteConfig registers.
var fallbackPatterns = map[string]string{
	RouteHome:       "/",
	RoutePost:       "/posts/:slug",
	RouteTag:        "/tags/:tag",
	RouteArchive:    "/archive/:year",
	RoutePage:       "/page/:number",
	RouteStandalone: "/:slug",
}

// DefaultRouteConfig returns the urlkit configuration the planner expects
// when hosts do not supply their own route templates.
func DefaultRouteConfig() *urlkit.Config {
	return &urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name: DefaultGroup,
				Paths: map[string]string{
					RouteHome:       "/",
					RoutePost:       "/posts/:slug",
					RouteTag:        "/tags/:tag",
					RouteArchive:    "/archive/:year",
					RoutePage:       "/page/:number",
					RouteStandalone: "/:slug",
				},
			},
		},
	}
}

// Service plans the page set a site build emits from a post corpus.
type Service interface {
	// Plan lays out every page for the given posts: one page per post with
	// prev/next links, the paginated home index, one page per tag, one
	// archive per publish year and standalone pages.
	Plan(ctx context.Context, posts []*content.Post) (*Plan, error)

	// PostPath resolves the permalink for a post slug.
	PostPath(slug string) (string, error)

	// TagPath resolves the listing path for a tag. The tag is slugified, so
	// display spellings with spaces or mixed case are accepted.
	TagPath(tag string) (string, error)

	// ArchivePath resolves the listing path for a publish year.
	ArchivePath(year int) (string, error)

	// IndexPath resolves one page of the home listing. Page one is the site
	// root.
	IndexPath(number int) (string, error)

	// StandalonePath resolves the path for a standalone page slug.
	StandalonePath(slug string) (string, error)
}

// Config wires route resolution and pagination for the planner.
type Config struct {
	// Manager resolves route templates. When nil the planner falls back to
	// the built-in patterns.
	Manager *urlkit.RouteManager

	// Group names the route group holding the site templates. Dotted paths
	// address nested groups.
	Group string

	// PageSize bounds the home index pages.
	PageSize int
}

// Option configures optional service collaborators.
type Option func(*service)

// WithLogger overrides the no-op default logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	manager  *urlkit.RouteManager
	group    string
	pageSize int
	logger   interfaces.Logger

	mu         sync.RWMutex
	groupCache map[string]*urlkit.Group
}

// NewService builds a page planner from routing configuration.
func NewService(cfg Config, opts ...Option) Service {
	group := strings.TrimSpace(cfg.Group)
	if group == "" {
		group = DefaultGroup
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	svc := &service{
		manager:    cfg.Manager,
		group:      group,
		pageSize:   pageSize,
		logger:     logging.NoOp(),
		groupCache: make(map[string]*urlkit.Group),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

var _ Service = (*service)(nil)

// Plan walks the corpus and lays out every page the site emits. Input order
// does not matter; the plan sorts newest first with slug as tiebreak.
func (s *service) Plan(ctx context.Context, posts []*content.Post) (*Plan, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	entries, standalone := splitStandalone(posts)
	sortNewestFirst(entries)
	sortNewestFirst(standalone)

	plan := &Plan{}

	postPages, err := s.planPosts(entries)
	if err != nil {
		return nil, err
	}
	plan.Pages = append(plan.Pages, postPages...)

	standalonePages, err := s.planStandalone(standalone)
	if err != nil {
		return nil, err
	}
	plan.Pages = append(plan.Pages, standalonePages...)

	indexPages, err := s.planIndex(entries)
	if err != nil {
		return nil, err
	}
	plan.Pages = append(plan.Pages, indexPages...)

	tagPages, err := s.planTags(entries)
	if err != nil {
		return nil, err
	}
	plan.Pages = append(plan.Pages, tagPages...)

	archivePages, err := s.planArchives(entries)
	if err != nil {
		return nil, err
	}
	plan.Pages = append(plan.Pages, archivePages...)

	s.logger.Debug("pages.plan_completed",
		"posts", len(entries),
		"standalone", len(standalone),
		"pages", len(plan.Pages),
	)
	return plan, nil
}

// PostPath resolves the permalink for a post slug.
func (s *service) PostPath(slugValue string) (string, error) {
	slugValue = strings.TrimSpace(slugValue)
	if slugValue == "" {
		return "", ErrSlugRequired
	}
	return s.resolve(RoutePost, map[string]any{"slug": slugValue})
}

// TagPath resolves the listing path for a tag.
func (s *service) TagPath(tag string) (string, error) {
	normalized := tagSlug(tag)
	if normalized == "" {
		return "", ErrTagRequired
	}
	return s.resolve(RouteTag, map[string]any{"tag": normalized})
}

// ArchivePath resolves the listing path for a publish year.
func (s *service) ArchivePath(year int) (string, error) {
	if year <= 0 {
		return "", ErrYearInvalid
	}
	return s.resolve(RouteArchive, map[string]any{"year": strconv.Itoa(year)})
}

// IndexPath resolves one page of the home listing.
func (s *service) IndexPath(number int) (string, error) {
	if number <= 0 {
		return "", ErrPageNumberInvalid
	}
	if number == 1 {
		return s.resolve(RouteHome, nil)
	}
	return s.resolve(RoutePage, map[string]any{"number": strconv.Itoa(number)})
}

// StandalonePath resolves the path for a standalone page slug.
func (s *service) StandalonePath(slugValue string) (string, error) {
	slugValue = strings.TrimSpace(slugValue)
	if slugValue == "" {
		return "", ErrSlugRequired
	}
	return s.resolve(RouteStandalone, map[string]any{"slug": slugValue})
}

func (s *service) planPosts(posts []*content.Post) ([]*Page, error) {
	paths := make([]string, len(posts))
	for i, post := range posts {
		path, err := s.PostPath(post.Slug)
		if err != nil {
			return nil, err
		}
		paths[i] = path
	}

	pages := make([]*Page, 0, len(posts))
	for i, post := range posts {
		page := &Page{
			Kind:  KindPost,
			Path:  paths[i],
			Title: post.Title,
			Post:  post,
		}
		if i > 0 {
			page.Next = &PostLink{Title: posts[i-1].Title, Path: paths[i-1]}
		}
		if i < len(posts)-1 {
			page.Prev = &PostLink{Title: posts[i+1].Title, Path: paths[i+1]}
		}
		pages = append(pages, page)
	}
	return pages, nil
}

func (s *service) planStandalone(posts []*content.Post) ([]*Page, error) {
	pages := make([]*Page, 0, len(posts))
	for _, post := range posts {
		path, err := s.StandalonePath(post.Slug)
		if err != nil {
			return nil, err
		}
		pages = append(pages, &Page{
			Kind:  KindStandalone,
			Path:  path,
			Title: post.Title,
			Post:  post,
		})
	}
	return pages, nil
}

// planIndex paginates the home listing. An empty corpus still plans a
// single home page so the site root always exists; otherwise the run holds
// ceil(len/pageSize) pages and the last page carries the remainder.
func (s *service) planIndex(posts []*content.Post) ([]*Page, error) {
	total := (len(posts) + s.pageSize - 1) / s.pageSize
	if total == 0 {
		total = 1
	}

	paths := make([]string, total)
	for number := 1; number <= total; number++ {
		path, err := s.IndexPath(number)
		if err != nil {
			return nil, err
		}
		paths[number-1] = path
	}

	pages := make([]*Page, 0, total)
	for number := 1; number <= total; number++ {
		start := (number - 1) * s.pageSize
		end := start + s.pageSize
		if end > len(posts) {
			end = len(posts)
		}

		pagination := &Pagination{Number: number, Total: total}
		if number > 1 {
			pagination.PrevPath = paths[number-2]
		}
		if number < total {
			pagination.NextPath = paths[number]
		}

		title := "Home"
		if number > 1 {
			title = fmt.Sprintf("Page %d", number)
		}

		pages = append(pages, &Page{
			Kind:       KindIndex,
			Path:       paths[number-1],
			Title:      title,
			Posts:      posts[start:end],
			Pagination: pagination,
		})
	}
	return pages, nil
}

// planTags buckets posts by slugified tag. Tags compare case insensitively
// and the newest post's spelling wins the display form.
func (s *service) planTags(posts []*content.Post) ([]*Page, error) {
	type bucket struct {
		display string
		posts   []*content.Post
	}
	buckets := make(map[string]*bucket)
	for _, post := range posts {
		for _, tag := range post.Tags {
			display := strings.TrimSpace(tag)
			if display == "" {
				continue
			}
			key := tagSlug(display)
			if key == "" {
				continue
			}
			entry, ok := buckets[key]
			if !ok {
				entry = &bucket{display: display}
				buckets[key] = entry
			}
			entry.posts = append(entry.posts, post)
		}
	}

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pages := make([]*Page, 0, len(keys))
	for _, key := range keys {
		entry := buckets[key]
		path, err := s.TagPath(entry.display)
		if err != nil {
			return nil, err
		}
		pages = append(pages, &Page{
			Kind:  KindTag,
			Path:  path,
			Title: entry.display,
			Tag:   entry.display,
			Posts: entry.posts,
		})
	}
	return pages, nil
}

func (s *service) planArchives(posts []*content.Post) ([]*Page, error) {
	byYear := make(map[int][]*content.Post)
	for _, post := range posts {
		if post.PublishedAt.IsZero() {
			continue
		}
		year := post.PublishedAt.Year()
		byYear[year] = append(byYear[year], post)
	}

	years := make([]int, 0, len(byYear))
	for year := range byYear {
		years = append(years, year)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	pages := make([]*Page, 0, len(years))
	for _, year := range years {
		path, err := s.ArchivePath(year)
		if err != nil {
			return nil, err
		}
		pages = append(pages, &Page{
			Kind:  KindArchive,
			Path:  path,
			Title: strconv.Itoa(year),
			Year:  year,
			Posts: byYear[year],
		})
	}
	return pages, nil
}

func (s *service) resolve(route string, params map[string]any) (string, error) {
	if s.manager == nil {
		return s.resolveFallback(route, params)
	}

	group, err := s.lookupGroup(s.group)
	if err != nil {
		return "", err
	}
	builder, err := safeBuilder(group, route)
	if err != nil {
		return "", err
	}
	for key, val := range params {
		builder.WithParam(key, val)
	}
	built, err := builder.Build()
	if err != nil {
		return "", fmt.Errorf("pages: build route %q: %w", route, err)
	}
	return normalizePath(built), nil
}

func (s *service) resolveFallback(route string, params map[string]any) (string, error) {
	pattern, ok := fallbackPatterns[route]
	if !ok {
		return "", fmt.Errorf("pages: unknown route %q", route)
	}
	out := pattern
	for key, val := range params {
		out = strings.ReplaceAll(out, ":"+key, fmt.Sprint(val))
	}
	if strings.Contains(out, ":") {
		return "", fmt.Errorf("pages: route %q is missing parameters", route)
	}
	return normalizePath(out), nil
}

func (s *service) lookupGroup(path string) (*urlkit.Group, error) {
	s.mu.RLock()
	group, ok := s.groupCache[path]
	s.mu.RUnlock()
	if ok {
		return group, nil
	}

	parts := strings.Split(path, ".")
	current, err := lookupRootGroup(s.manager, parts[0])
	if err != nil {
		return nil, err
	}
	for _, part := range parts[1:] {
		current, err = lookupChildGroup(current, part)
		if err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	s.groupCache[path] = current
	s.mu.Unlock()
	return current, nil
}

// urlkit panics on unknown groups and routes, so lookups run behind
// recover and report the failure as an error.
func lookupRootGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	if manager == nil {
		return nil, fmt.Errorf("pages: route manager not configured")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pages: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	return group, err
}

func lookupChildGroup(parent *urlkit.Group, name string) (group *urlkit.Group, err error) {
	if parent == nil {
		return nil, fmt.Errorf("pages: parent route group is nil")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pages: child route group %q not found", name)
		}
	}()
	group = parent.Group(name)
	return group, err
}

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	if group == nil {
		return nil, fmt.Errorf("pages: route group is nil")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pages: route %q not registered", route)
		}
	}()
	builder = group.Builder(route)
	return builder, err
}

// normalizePath reduces a built URL to the root relative, lower case,
// slash terminated form pages use. Absolute URLs keep only their path
// component, so route groups may carry a base URL without leaking hosts
// into page paths.
func normalizePath(built string) string {
	built = strings.TrimSpace(built)
	if parsed, err := url.Parse(built); err == nil {
		built = parsed.Path
	}
	if built == "" {
		built = "/"
	}
	if !strings.HasPrefix(built, "/") {
		built = "/" + built
	}
	if !strings.HasSuffix(built, "/") {
		built += "/"
	}
	return strings.ToLower(built)
}

// splitStandalone separates listing posts from standalone pages.
func splitStandalone(posts []*content.Post) (entries, standalone []*content.Post) {
	for _, post := range posts {
		if post == nil {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(post.Template), standaloneTemplate) {
			standalone = append(standalone, post)
			continue
		}
		entries = append(entries, post)
	}
	return entries, standalone
}

func sortNewestFirst(posts []*content.Post) {
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].PublishedAt.Equal(posts[j].PublishedAt) {
			return posts[i].Slug < posts[j].Slug
		}
		return posts[i].PublishedAt.After(posts[j].PublishedAt)
	})
}

func tagSlug(tag string) string {
	candidate := strings.TrimSpace(tag)
	if candidate == "" {
		return ""
	}
	normalized, err := slug.Default().Normalize(candidate)
	if err != nil || normalized == "" {
		return strings.ToLower(strings.Join(strings.Fields(candidate), "-"))
	}
	return normalized
}
