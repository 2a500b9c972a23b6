package works

import (
	"testing/fstest"

	"github.com/apandji/pandjico4/internal/model"
	"github.com/apandji/pandjico4/internal/store"
)

func renderList(ps []model.Project, current string) *List {
	l := NewList()
	NewRenderer(nil).Render(l, ps, current)
	return l
}

func memStore(data string) *store.Store {
	return store.New(store.NewFileTransport(fstest.MapFS{
		store.DefaultDataPath: {Data: []byte(data)},
	}))
}

const sidebarShell = `<aside class="works-section">
  <button class="filter-tag" data-filter="all">all</button>
  <button class="filter-tag" data-filter="web">web</button>
  <button class="filter-tag" data-filter="cli">cli</button>
  <span id="filterBadge"></span>
  <button class="sort-button" data-sort="alphabetical" data-direction="asc"><i class="sort-icon"></i><span class="sort-label">A-Z</span></button>
  <button class="sort-button" data-sort="year" data-direction="desc"><i class="sort-icon"></i><span class="sort-label">New→Past</span></button>
  <ul class="works-list"><li data-tags="stale"><div class="project-link-wrapper"><a href="works/stale.html">stale</a></div></li></ul>
</aside>`
