package works

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apandji/pandjico4/internal/model"
)

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		in   string
		want SortKey
	}{
		{"alphabetical", SortAlphabetical},
		{"Name", SortAlphabetical},
		{"date", SortDate},
		{"year", SortDate},
	}
	for _, tt := range tests {
		got, err := ParseSortKey(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
	_, err := ParseSortKey("size")
	assert.Error(t, err)

	dir, err := ParseDirection("DESC")
	require.NoError(t, err)
	assert.Equal(t, Desc, dir)
	_, err = ParseDirection("sideways")
	assert.Error(t, err)
}

func TestSort_AlphabeticalIsCaseInsensitive(t *testing.T) {
	l := renderList([]model.Project{{Slug: "beta"}, {Slug: "Alpha"}, {Slug: "gamma"}}, "")

	Sort(l, SortState{SortAlphabetical, Asc})
	assert.Equal(t, []string{"Alpha", "beta", "gamma"}, l.Slugs())

	Sort(l, SortState{SortAlphabetical, Desc})
	assert.Equal(t, []string{"gamma", "beta", "Alpha"}, l.Slugs())
}

func TestSort_Idempotent(t *testing.T) {
	l := renderList([]model.Project{{Slug: "c"}, {Slug: "a"}, {Slug: "B"}, {Slug: "b"}}, "")

	Sort(l, DefaultSort())
	first := l.Slugs()
	Sort(l, DefaultSort())

	assert.Equal(t, first, l.Slugs())
	assert.Equal(t, []string{"a", "B", "b", "c"}, first)
}

func TestSort_UndatedRanksHighest(t *testing.T) {
	l := renderList([]model.Project{
		{Slug: "y2023", Date: "2023"},
		{Slug: "undated"},
		{Slug: "y2021", Date: "2021"},
	}, "")

	Sort(l, SortState{SortDate, Asc})
	assert.Equal(t, []string{"y2021", "y2023", "undated"}, l.Slugs())

	Sort(l, SortState{SortDate, Desc})
	assert.Equal(t, []string{"undated", "y2023", "y2021"}, l.Slugs())
}

func TestSort_OnlyVisibleEntriesMove(t *testing.T) {
	l := renderList([]model.Project{
		{Slug: "d", Tags: []string{"x"}},
		{Slug: "hidden1"},
		{Slug: "b", Tags: []string{"x"}},
		{Slug: "hidden0"},
		{Slug: "a", Tags: []string{"x"}},
	}, "")
	NewFilter("x").Apply(l)

	Sort(l, DefaultSort())

	assert.Equal(t, []string{"a", "hidden1", "b", "hidden0", "d"}, l.Slugs())
	assert.Equal(t, []string{"a", "b", "d"}, l.VisibleSlugs())
}

func TestSort_SkippedOnDetailPage(t *testing.T) {
	l := renderList([]model.Project{{Slug: "b"}, {Slug: "foo"}, {Slug: "a"}}, "foo")
	l.SetDetail(true)

	assert.False(t, Sort(l, DefaultSort()))
	assert.Equal(t, []string{"foo", "b", "a"}, l.Slugs())
}

func TestSortState_Label(t *testing.T) {
	assert.Equal(t, "A-Z", SortState{SortAlphabetical, Asc}.Label())
	assert.Equal(t, "Z-A", SortState{SortAlphabetical, Desc}.Label())
	assert.Equal(t, "Past→New", SortState{SortDate, Asc}.Label())
	assert.Equal(t, "New→Past", SortState{SortDate, Desc}.Label())
}
