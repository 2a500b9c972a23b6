package shell

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sidebar = `<aside class="works-section">
  <div class="filters">
    <button class="filter-tag" data-filter="all">all</button>
    <button class="filter-tag" data-filter="web">web</button>
    <span id="filterBadge" class="filter-badge"></span>
  </div>
  <div class="sort-controls">
    <button class="sort-button" data-sort="alphabetical" data-direction="asc"><span class="sort-label">A-Z</span></button>
    <button class="sort-button" data-sort="date" data-direction="desc"><span class="sort-label">New→Past</span></button>
  </div>
  <ul class="works-list"></ul>
</aside>`

func TestParseFragment_MountPoints(t *testing.T) {
	doc, err := ParseFragmentString(sidebar)
	require.NoError(t, err)

	list, err := doc.WorksList()
	require.NoError(t, err)
	assert.Equal(t, "ul", list.Data)

	buttons, err := doc.FilterButtons()
	require.NoError(t, err)
	assert.Len(t, buttons, 2)
	assert.Equal(t, "all", Attr(buttons[0], "data-filter"))

	sorts, err := doc.SortButtons()
	require.NoError(t, err)
	assert.Len(t, sorts, 2)

	badge, err := doc.FilterBadge()
	require.NoError(t, err)
	assert.Equal(t, "span", badge.Data)
}

func TestMissingContainers(t *testing.T) {
	doc, err := ParseFragmentString(`<nav><a href="/">home</a></nav>`)
	require.NoError(t, err)

	_, err = doc.WorksList()
	assert.True(t, errors.Is(err, ErrContainerMissing))
	_, err = doc.FilterButtons()
	assert.True(t, errors.Is(err, ErrContainerMissing))
	_, err = doc.SortButtons()
	assert.True(t, errors.Is(err, ErrContainerMissing))
	_, err = doc.FeaturedContainer()
	assert.True(t, errors.Is(err, ErrContainerMissing))
	_, err = doc.ProjectTags()
	assert.True(t, errors.Is(err, ErrContainerMissing))
	_, err = doc.FilterBadge()
	assert.True(t, errors.Is(err, ErrContainerMissing))
	assert.ErrorContains(t, err, "#filterBadge")
}

func TestParse_FullPage(t *testing.T) {
	doc, err := Parse(strings.NewReader(`<!DOCTYPE html><html><body>
		<div id="featuredProjects"></div>
		<div class="project-tags"><button class="tag" data-tag="web">#web</button></div>
	</body></html>`))
	require.NoError(t, err)

	_, err = doc.FeaturedContainer()
	assert.NoError(t, err)

	tags, err := doc.ProjectTags()
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "#web", Text(tags[0]))
	assert.True(t, strings.HasPrefix(doc.String(), "<!DOCTYPE html>"))
}

func TestClassHelpers(t *testing.T) {
	doc, err := ParseFragmentString(`<li class="a b"></li>`)
	require.NoError(t, err)
	li := FirstByTag(doc.Root(), "li")
	require.NotNil(t, li)

	SetClass(li, "active", true)
	assert.True(t, HasClass(li, "active"))
	SetClass(li, "active", true)
	assert.Equal(t, "a b active", Attr(li, "class"))

	SetClass(li, "a", false)
	SetClass(li, "b", false)
	SetClass(li, "active", false)
	assert.False(t, HasAttr(li, "class"))

	SetHidden(li, true)
	assert.True(t, IsHidden(li))
	SetHidden(li, false)
	assert.False(t, IsHidden(li))
}

func TestAppendHTMLAndClear(t *testing.T) {
	doc, err := ParseFragmentString(`<ul class="works-list"><li>old</li></ul>`)
	require.NoError(t, err)
	list, err := doc.WorksList()
	require.NoError(t, err)

	Clear(list)
	assert.Empty(t, Children(list))

	elems, err := AppendHTML(list, `<li>one</li><li>two</li>`)
	require.NoError(t, err)
	assert.Len(t, elems, 2)
	assert.Len(t, Children(list), 2)
	assert.Equal(t, `<ul class="works-list"><li>one</li><li>two</li></ul>`, doc.String())

	SetText(elems[0], "uno")
	assert.Equal(t, "uno", Text(elems[0]))
}
