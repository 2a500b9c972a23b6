package works

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apandji/pandjico4/internal/model"
	"github.com/apandji/pandjico4/internal/shell"
	"github.com/apandji/pandjico4/internal/store"
)

const twoProjects = `{"projects": [
	{"slug": "a", "tags": ["web"], "date": "2022"},
	{"slug": "b", "tags": ["cli"], "date": "2020"}
]}`

func TestController_EndToEnd(t *testing.T) {
	ctx := context.Background()
	c := NewController(memStore(twoProjects))
	require.NoError(t, c.Init(ctx, "https://example.com/index.html"))

	snap := c.Snapshot()
	assert.True(t, snap.DataAvailable)
	assert.Equal(t, []string{"a", "b"}, c.list.VisibleSlugs())

	require.NoError(t, c.ToggleFilter("cli"))
	assert.Equal(t, []string{"b"}, c.list.VisibleSlugs())
	assert.Equal(t, "https://example.com/index.html?tags=cli", c.URL())

	require.NoError(t, c.SetSort(SortState{SortDate, Desc}))
	assert.Equal(t, []string{"b"}, c.list.VisibleSlugs())
	assert.False(t, c.Snapshot().Fallback)
}

func TestController_SeedsFilterFromURL(t *testing.T) {
	c := NewController(memStore(`{"projects": [
		{"slug": "xy", "tags": ["x", "y"]},
		{"slug": "x", "tags": ["x"]}
	]}`))
	require.NoError(t, c.Init(context.Background(), "/index.html?tags=x,y"))

	snap := c.Snapshot()
	assert.Equal(t, []string{"x", "y"}, snap.Filter)
	assert.Equal(t, []string{"xy"}, c.list.VisibleSlugs())

	require.NoError(t, c.ToggleFilter("y"))
	assert.Equal(t, "/index.html?tags=x", c.URL())
	require.NoError(t, c.ToggleFilter(AllTag))
	assert.Equal(t, "/index.html", c.URL())
}

func TestController_DetailPagePinsActiveEntry(t *testing.T) {
	c := NewController(memStore(`{"projects": [
		{"slug": "alpha"}, {"slug": "beta"}, {"slug": "foo"}
	]}`))
	require.NoError(t, c.Init(context.Background(), "/works/foo.html"))

	snap := c.Snapshot()
	assert.True(t, snap.Detail)
	assert.Equal(t, "foo", snap.Active)
	assert.Equal(t, "foo", snap.Entries[0].Slug)

	require.NoError(t, c.SelectSort(SortAlphabetical))
	require.NoError(t, c.SetSort(SortState{SortDate, Asc}))
	assert.Equal(t, "foo", c.Snapshot().Entries[0].Slug)

	require.NoError(t, c.Regenerate(context.Background()))
	assert.Equal(t, "foo", c.Snapshot().Entries[0].Slug)
}

func TestController_SelectSortFlipsSameKey(t *testing.T) {
	c := NewController(memStore(twoProjects))
	require.NoError(t, c.Init(context.Background(), "/"))

	require.NoError(t, c.SelectSort(SortAlphabetical))
	assert.Equal(t, SortState{SortAlphabetical, Desc}, c.Snapshot().Sort)
	assert.Equal(t, []string{"b", "a"}, c.list.Slugs())

	require.NoError(t, c.SelectSort(SortDate))
	assert.Equal(t, SortState{SortDate, Desc}, c.Snapshot().Sort)
	assert.Equal(t, []string{"a", "b"}, c.list.Slugs())

	require.NoError(t, c.SelectSort(SortAlphabetical))
	assert.Equal(t, SortState{SortAlphabetical, Desc}, c.Snapshot().Sort)
}

func TestController_UnavailableDataDegrades(t *testing.T) {
	st := store.New(store.NewFileTransport(fstest.MapFS{}))
	doc, err := shell.Parse(strings.NewReader(`<html><body>` + sidebarShell +
		`<div id="featuredProjects"><article>placeholder</article></div></body></html>`))
	require.NoError(t, err)

	c := NewController(st, WithShell(doc), WithFeatured([]string{"a"}))
	require.NoError(t, c.Init(context.Background(), "/"))

	snap := c.Snapshot()
	assert.False(t, snap.DataAvailable)
	assert.Empty(t, snap.Entries)

	list, err := doc.WorksList()
	require.NoError(t, err)
	assert.Empty(t, shell.Children(list))

	featured, err := doc.FeaturedContainer()
	require.NoError(t, err)
	assert.True(t, shell.IsHidden(featured))
	assert.Empty(t, shell.Children(featured))

	var buf bytes.Buffer
	require.NoError(t, c.WriteFeatured(&buf))
	assert.Empty(t, buf.String())
}

func TestController_ProjectsOntoShell(t *testing.T) {
	doc, err := shell.Parse(strings.NewReader(`<html><body>` + sidebarShell +
		`<div class="project-tags"><button class="tag" data-tag="web">#web</button></div>` +
		`<div id="featuredProjects"></div></body></html>`))
	require.NoError(t, err)

	c := NewController(memStore(`{"featured": ["b", "a"], "projects": [
		{"slug": "a", "tags": ["web"], "date": "2022", "description": "A site"},
		{"slug": "b", "tags": ["cli"], "date": "2020", "image": "/img/b.png"}
	]}`), WithShell(doc))
	require.NoError(t, c.Init(context.Background(), "/index.html?tags=web"))

	list, err := doc.WorksList()
	require.NoError(t, err)
	items := shell.Children(list)
	require.Len(t, items, 2)
	assert.Equal(t, "works/a.html", shell.Attr(shell.FirstByTag(items[0], "a"), "href"))
	assert.False(t, shell.IsHidden(items[0]))
	assert.True(t, shell.IsHidden(items[1]))

	buttons, err := doc.FilterButtons()
	require.NoError(t, err)
	assert.False(t, shell.HasClass(buttons[0], "active"), "all")
	assert.True(t, shell.HasClass(buttons[1], "active"), "web")
	assert.False(t, shell.HasClass(buttons[2], "active"), "cli")

	badge, err := doc.FilterBadge()
	require.NoError(t, err)
	assert.Equal(t, "1", shell.Text(badge))

	tags, err := doc.ProjectTags()
	require.NoError(t, err)
	assert.True(t, shell.HasClass(tags[0], "active"))

	sorts, err := doc.SortButtons()
	require.NoError(t, err)
	assert.True(t, shell.HasClass(sorts[0], "active"))
	assert.False(t, shell.HasClass(sorts[1], "active"))
	assert.Equal(t, "New→Past", shell.Text(shell.FirstByClass(sorts[1], "sort-label")))

	featured, err := doc.FeaturedContainer()
	require.NoError(t, err)
	cards := shell.AllByClass(featured, "featured-project")
	require.Len(t, cards, 2)
	assert.Equal(t, "b", shell.Text(shell.FirstByTag(cards[0], "h3")))
	assert.Equal(t, "a", shell.Text(shell.FirstByTag(cards[1], "h3")))

	require.NoError(t, c.ToggleFilter(AllTag))
	assert.True(t, shell.HasClass(buttons[0], "active"))
	assert.False(t, shell.IsHidden(items[1]))

	require.NoError(t, c.SelectSort(SortDate))
	assert.True(t, shell.HasClass(sorts[1], "active"))
	assert.Equal(t, []string{"a", "b"}, NewView(list).Order())
}

func TestController_ShellWithoutListIsSkipped(t *testing.T) {
	doc, err := shell.ParseFragmentString(`<nav>no sidebar here</nav>`)
	require.NoError(t, err)

	c := NewController(memStore(twoProjects), WithShell(doc))
	require.NoError(t, c.Init(context.Background(), "/"))
	assert.Len(t, c.Snapshot().Entries, 2)

	var buf bytes.Buffer
	require.NoError(t, c.WriteShell(&buf))
	assert.Equal(t, `<nav>no sidebar here</nav>`, buf.String())
}

// gatedTransport holds every fetch until release is closed.
type gatedTransport struct {
	data    []byte
	started chan struct{}
	release chan struct{}
	once    sync.Once
	calls   atomic.Int32
}

func newGatedTransport(data string) *gatedTransport {
	return &gatedTransport{
		data:    []byte(data),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (g *gatedTransport) Fetch(ctx context.Context, _ string) ([]byte, error) {
	g.calls.Add(1)
	g.once.Do(func() { close(g.started) })
	select {
	case <-g.release:
		return g.data, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestController_ConcurrentRegenerateRendersOnce(t *testing.T) {
	const callers = 10

	gate := newGatedTransport(twoProjects)
	doc, err := shell.ParseFragmentString(sidebarShell)
	require.NoError(t, err)
	c := NewController(store.New(gate), WithShell(doc))

	var ready, done sync.WaitGroup
	ready.Add(callers)
	done.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer done.Done()
			ready.Done()
			assert.NoError(t, c.Regenerate(context.Background()))
		}()
	}

	<-gate.started
	ready.Wait()
	// Let the callers that were scheduled last reach the in-flight run.
	time.Sleep(50 * time.Millisecond)
	close(gate.release)
	done.Wait()

	assert.Equal(t, int32(1), gate.calls.Load())
	assert.Equal(t, 1, c.Renders())

	list, err := doc.WorksList()
	require.NoError(t, err)
	assert.Len(t, shell.Children(list), 2)

	require.NoError(t, c.Regenerate(context.Background()))
	assert.Equal(t, 2, c.Renders())
	assert.Equal(t, int32(1), gate.calls.Load(), "loaded data is reused")
}

func TestController_Featured(t *testing.T) {
	data := `{"featured": ["a"], "projects": [{"slug": "a"}, {"slug": "b"}, {"slug": "c"}]}`

	c := NewController(memStore(data))
	require.NoError(t, c.Init(context.Background(), "/"))
	assert.Equal(t, []string{"a"}, slugsOf(c.Featured()))

	c = NewController(memStore(data), WithFeatured([]string{"c", "missing", "a", "c"}))
	require.NoError(t, c.Init(context.Background(), "/"))
	assert.Equal(t, []string{"c", "a"}, slugsOf(c.Featured()))

	c = NewController(store.New(store.NewFileTransport(fstest.MapFS{})), WithFeatured([]string{"a"}))
	require.NoError(t, c.Init(context.Background(), "/"))
	assert.Empty(t, c.Featured())
}

func TestSortDirectionsFromDoc(t *testing.T) {
	doc, err := shell.ParseFragmentString(`
		<button class="sort-button" data-sort="alphabetical">A-Z</button>
		<button class="sort-button" data-sort="year" data-direction="asc">Past→New</button>
		<button class="sort-button" data-sort="size" data-direction="desc">?</button>`)
	require.NoError(t, err)

	dirs := sortDirectionsFromDoc(doc)
	assert.Equal(t, map[SortKey]Direction{SortAlphabetical: Asc, SortDate: Asc}, dirs)
	assert.Equal(t, map[SortKey]Direction{SortAlphabetical: Asc, SortDate: Desc}, sortDirectionsFromDoc(nil))
}

func TestController_BasePathLinks(t *testing.T) {
	doc, err := shell.ParseFragmentString(sidebarShell)
	require.NoError(t, err)
	c := NewController(memStore(twoProjects), WithShell(doc), WithBasePath("../"))
	require.NoError(t, c.Init(context.Background(), "/works/b.html"))

	var buf bytes.Buffer
	require.NoError(t, c.WriteShell(&buf))
	out := buf.String()
	assert.Contains(t, out, `href="../works/b.html" class="active"`)
	assert.Less(t, strings.Index(out, "../works/b.html"), strings.Index(out, "../works/a.html"))
}

func slugsOf(ps []model.Project) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Slug
	}
	return out
}
