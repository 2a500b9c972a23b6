package works

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apandji/pandjico4/internal/model"
	"github.com/apandji/pandjico4/internal/store"
)

func TestRender_DeduplicatesKeepingFirst(t *testing.T) {
	l := NewList()
	errs := NewRenderer(nil).Render(l, []model.Project{
		{Slug: "a", Tags: []string{"first"}},
		{Slug: "b"},
		{Slug: "a", Tags: []string{"second"}},
		{Slug: ""},
	}, "")

	assert.Equal(t, []string{"a", "b"}, l.Slugs())
	assert.Equal(t, []string{"first"}, l.Entries()[0].Tags)
	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], store.ErrDuplicateSlug))
}

func TestRender_ReplacesPreviousEntries(t *testing.T) {
	l := NewList()
	r := NewRenderer(nil)
	r.Render(l, []model.Project{{Slug: "a"}, {Slug: "b"}}, "")
	r.Render(l, []model.Project{{Slug: "c"}}, "")

	assert.Equal(t, []string{"c"}, l.Slugs())
}

func TestRender_PinsCurrentSlugFirst(t *testing.T) {
	l := renderList([]model.Project{{Slug: "a"}, {Slug: "b"}, {Slug: "c"}}, "c")

	assert.Equal(t, []string{"c", "a", "b"}, l.Slugs())
	assert.Equal(t, "c", l.Pinned())
}

func TestRender_UnknownCurrentSlugIsIgnored(t *testing.T) {
	l := renderList([]model.Project{{Slug: "a"}, {Slug: "b"}}, "zzz")

	assert.Equal(t, []string{"a", "b"}, l.Slugs())
	assert.Empty(t, l.Pinned())
}

func TestRenderer_Href(t *testing.T) {
	r := NewRenderer(nil)
	assert.Equal(t, "works/foo.html", r.Href("foo"))

	r.BasePath = "../"
	assert.Equal(t, "../works/foo.html", r.Href("foo"))

	l := NewList()
	r.Render(l, []model.Project{{Slug: "foo"}}, "")
	assert.Equal(t, "foo", SlugFromHref(l.Entries()[0].Href))
}
