package pages

import (
	"github.com/goliatone/go-blog/internal/content"
)

// PageKind selects the theme template a planned page renders with.
type PageKind string

const (
	// KindPost is a single post at /posts/<slug>/.
	KindPost PageKind = "post"
	// KindIndex is one page of the paginated home listing.
	KindIndex PageKind = "index"
	// KindTag lists every post carrying one tag.
	KindTag PageKind = "tag"
	// KindArchive lists every post published in one year.
	KindArchive PageKind = "archive"
	// KindStandalone is a top-level page such as /about/.
	KindStandalone PageKind = "standalone"
)

// Page is a single output document in a site plan. Path is always root
// relative, lower case and slash terminated, so writers can map it onto
// <output>/<path>index.html without further normalization.
type Page struct {
	Kind  PageKind
	Path  string
	Title string

	// Post is set for post and standalone pages.
	Post *content.Post

	// Posts carries the listing for index, tag and archive pages, newest
	// first.
	Posts []*content.Post

	// Tag holds the display spelling for tag pages.
	Tag string

	// Year is the archive year for archive pages.
	Year int

	// Pagination is set on index pages only.
	Pagination *Pagination

	// Prev and Next link neighbouring posts in publish order: Next walks
	// toward newer posts, Prev toward older ones. Set on post pages only.
	Prev *PostLink
	Next *PostLink
}

// Pagination locates an index page inside the home listing. PrevPath and
// NextPath are empty at the ends of the run.
type Pagination struct {
	Number   int
	Total    int
	PrevPath string
	NextPath string
}

// PostLink points at a neighbouring post.
type PostLink struct {
	Title string
	Path  string
}

// Plan is the complete page set a build emits, in a deterministic order:
// posts, standalone pages, the home index run, tag pages, year archives.
type Plan struct {
	Pages []*Page
}

// ByKind returns the planned pages of one kind, preserving plan order.
func (p *Plan) ByKind(kind PageKind) []*Page {
	if p == nil {
		return nil
	}
	out := make([]*Page, 0, len(p.Pages))
	for _, page := range p.Pages {
		if page != nil && page.Kind == kind {
			out = append(out, page)
		}
	}
	return out
}
