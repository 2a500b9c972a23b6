// Package works keeps the sidebar's project list consistent across
// rendering, tag filtering, sorting and active-page reconciliation. The
// in-memory List is the record of truth; the page DOM is a projection of it.
package works

import (
	"path"
	"strings"

	"github.com/apandji/pandjico4/internal/model"
)

// Entry is one sidebar item.
type Entry struct {
	Slug    string     `json:"slug"`
	Href    string     `json:"href"`
	Tags    []string   `json:"tags"`
	Date    model.Date `json:"date,omitempty"`
	Visible bool       `json:"visible"`
	Active  bool       `json:"active,omitempty"`
}

func (e Entry) hasTags(tags []string) bool {
	return model.Project{Tags: e.Tags}.HasTags(tags)
}

// List is the ordered set of entries as currently displayed.
type List struct {
	entries   []*Entry
	fallback  bool
	detail    bool
	pinned    string
	scrollTop int
}

func NewList() *List { return &List{} }

// Entries returns a snapshot of the entries in display order.
func (l *List) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	for i, e := range l.entries {
		out[i] = *e
		out[i].Tags = append([]string(nil), e.Tags...)
	}
	return out
}

// Slugs returns the slugs in display order.
func (l *List) Slugs() []string {
	out := make([]string, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.Slug
	}
	return out
}

// VisibleSlugs returns the slugs of visible entries in display order.
func (l *List) VisibleSlugs() []string {
	var out []string
	for _, e := range l.entries {
		if e.Visible {
			out = append(out, e.Slug)
		}
	}
	return out
}

func (l *List) Len() int { return len(l.entries) }

func (l *List) VisibleCount() int {
	n := 0
	for _, e := range l.entries {
		if e.Visible {
			n++
		}
	}
	return n
}

// Fallback reports whether the last filter matched nothing and every entry
// is being shown instead.
func (l *List) Fallback() bool { return l.fallback }

// Detail reports whether the list belongs to a project detail page.
func (l *List) Detail() bool { return l.detail }

// SetDetail marks the list as belonging to a project detail page, which
// exempts it from sorting.
func (l *List) SetDetail(detail bool) { l.detail = detail }

// Pinned is the slug held at the top of a detail page's list.
func (l *List) Pinned() string { return l.pinned }

// ScrollTop is the list's scroll offset as last projected.
func (l *List) ScrollTop() int { return l.scrollTop }

// Active returns the active entry, if any.
func (l *List) Active() (Entry, bool) {
	for _, e := range l.entries {
		if e.Active {
			return *e, true
		}
	}
	return Entry{}, false
}

func (l *List) find(slug string) (int, *Entry) {
	for i, e := range l.entries {
		if e.Slug == slug {
			return i, e
		}
	}
	return -1, nil
}

func (l *List) moveToFront(i int) {
	if i <= 0 {
		return
	}
	e := l.entries[i]
	copy(l.entries[1:i+1], l.entries[:i])
	l.entries[0] = e
}

// SlugFromHref recovers a slug from a sidebar link target such as
// "works/foo.html", "../works/foo.html?x=1" or "/works/foo".
func SlugFromHref(href string) string {
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		href = href[:i]
	}
	href = strings.TrimRight(href, "/")
	if href == "" {
		return ""
	}
	base := path.Base(href)
	return strings.TrimSuffix(base, path.Ext(base))
}
