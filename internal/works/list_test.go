package works

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/apandji/pandjico4/internal/model"
)

func TestSlugFromHref(t *testing.T) {
	tests := []struct {
		href string
		want string
	}{
		{"works/foo.html", "foo"},
		{"../works/foo.html", "foo"},
		{"/works/foo", "foo"},
		{"/works/foo/", "foo"},
		{"works/foo.html?tags=web#top", "foo"},
		{"https://example.com/works/bar.html", "bar"},
		{"", ""},
		{"/", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SlugFromHref(tt.href), "href %q", tt.href)
	}
}

func TestList_EntriesIsASnapshot(t *testing.T) {
	l := renderList([]model.Project{{Slug: "a", Tags: []string{"web"}}}, "")
	entries := l.Entries()
	entries[0].Tags[0] = "changed"
	entries[0].Visible = false

	assert.Equal(t, []string{"web"}, l.Entries()[0].Tags)
	assert.Equal(t, 1, l.VisibleCount())
}
