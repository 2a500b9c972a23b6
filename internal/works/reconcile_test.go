package works

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/apandji/pandjico4/internal/model"
)

func TestIsDetailPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/works/foo.html", true},
		{"/site/works/foo", true},
		{"works/foo.html", true},
		{"/works/", false},
		{"/works/index.html", false},
		{"/index.html", false},
		{"/", false},
		{"/artworks/foo.html", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsDetailPath(tt.path, "works"), "path %q", tt.path)
	}
	assert.False(t, IsDetailPath("/works/foo.html", ""))
}

func TestReconcile_MarksExactlyOne(t *testing.T) {
	l := renderList([]model.Project{{Slug: "a"}, {Slug: "foo"}, {Slug: "b"}}, "")

	assert.Equal(t, "foo", Reconcile(l, "/works/foo.html"))
	assert.Equal(t, "b", Reconcile(l, "/works/b.html"))

	active := 0
	for _, e := range l.Entries() {
		if e.Active {
			active++
			assert.Equal(t, "b", e.Slug)
		}
	}
	assert.Equal(t, 1, active)

	assert.Empty(t, Reconcile(l, "/about.html"))
	_, ok := l.Active()
	assert.False(t, ok)
}

func TestReconcile_ListingPageOnlyHighlights(t *testing.T) {
	l := renderList([]model.Project{{Slug: "a"}, {Slug: "foo"}}, "")

	Reconcile(l, "/foo.html")

	assert.Equal(t, []string{"a", "foo"}, l.Slugs())
	assert.Empty(t, l.Pinned())
}

func TestReconcile_DetailPagePinsFirst(t *testing.T) {
	l := renderList([]model.Project{{Slug: "a"}, {Slug: "b"}, {Slug: "foo"}}, "")
	l.SetDetail(true)
	l.scrollTop = 240

	Reconcile(l, "/works/foo.html")

	assert.Equal(t, []string{"foo", "a", "b"}, l.Slugs())
	assert.Equal(t, "foo", l.Pinned())
	assert.Equal(t, 0, l.ScrollTop())

	Sort(l, SortState{SortAlphabetical, Desc})
	assert.Equal(t, "foo", l.Slugs()[0])
}
