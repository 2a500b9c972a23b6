package works

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/apandji/pandjico4/internal/logger"
	"github.com/apandji/pandjico4/internal/model"
	"github.com/apandji/pandjico4/internal/shell"
	"github.com/apandji/pandjico4/internal/store"
)

// Controller owns the state of one page: the store, the filter, the sort
// and the list, plus the optional shell they are projected onto. Build one
// per page view and drop it when the page goes away.
type Controller struct {
	store    *store.Store
	renderer *Renderer
	logger   *slog.Logger

	featured  []string
	worksPath string

	group singleflight.Group

	mu          sync.Mutex
	page        *url.URL
	doc         *shell.Document
	view        *View
	list        *List
	filter      *Filter
	sort        SortState
	dirs        map[SortKey]Direction
	unavailable bool
	renders     int
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithShell projects the pipeline onto doc.
func WithShell(doc *shell.Document) ControllerOption {
	return func(c *Controller) { c.doc = doc }
}

// WithFeatured sets the ordered featured allow-list. Without it the data
// file's own list is used.
func WithFeatured(slugs []string) ControllerOption {
	return func(c *Controller) { c.featured = append([]string(nil), slugs...) }
}

// WithWorksPath sets the detail page directory (default "works").
func WithWorksPath(p string) ControllerOption {
	return func(c *Controller) {
		if p != "" {
			c.worksPath = p
		}
	}
}

// WithBasePath prefixes the links the list renders.
func WithBasePath(p string) ControllerOption {
	return func(c *Controller) { c.renderer.BasePath = p }
}

// WithSort sets the initial sort.
func WithSort(s SortState) ControllerOption {
	return func(c *Controller) { c.sort = s }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ControllerOption {
	return func(c *Controller) { c.logger = l }
}

func NewController(st *store.Store, opts ...ControllerOption) *Controller {
	c := &Controller{
		store:     st,
		worksPath: DefaultWorksPath,
		list:      NewList(),
		filter:    NewFilter(),
		sort:      DefaultSort(),
		page:      &url.URL{Path: "/"},
	}
	c.renderer = NewRenderer(nil)
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logger.OrDiscard(c.logger).With(logger.Scope("works"))
	c.renderer.logger = c.logger.With(logger.Scope("works.render"))
	c.renderer.WorksPath = c.worksPath
	c.dirs = sortDirectionsFromDoc(c.doc)
	c.dirs[c.sort.Key] = c.sort.Direction
	return c
}

// Init binds the controller to pageURL, seeds the filter from its tags
// parameter and renders. Data that cannot be loaded leaves an empty list and
// a hidden featured section; only a malformed pageURL is an error.
func (c *Controller) Init(ctx context.Context, pageURL string) error {
	u, err := url.Parse(pageURL)
	if err != nil {
		return fmt.Errorf("failed to parse page url '%s': %w", pageURL, err)
	}

	c.mu.Lock()
	c.page = u
	c.filter.Set(TagsFromURL(u))
	c.list.SetDetail(IsDetailPath(u.Path, c.worksPath))
	c.mu.Unlock()

	return c.Regenerate(ctx)
}

// Regenerate rebuilds the list from the store and reapplies filter, sort
// and reconciliation. Concurrent callers share a single in-flight run.
func (c *Controller) Regenerate(ctx context.Context) error {
	_, err, shared := c.group.Do("regenerate", func() (any, error) {
		coll, err := c.store.Load(ctx)
		if err != nil {
			c.logger.Warn("rendering without project data", logger.Error(err))
			coll = model.Empty()
		}

		c.mu.Lock()
		defer c.mu.Unlock()

		c.unavailable = err != nil
		current := ""
		if c.list.Detail() {
			current = SlugFromPath(c.page.Path)
		}
		c.renderer.Render(c.list, coll.Projects(), current)
		c.renders++

		if err := c.rebuildView(); err != nil {
			return nil, err
		}
		return nil, c.refresh()
	})
	if shared {
		c.logger.Debug("joined in-flight regeneration")
	}
	return err
}

// ToggleFilter toggles tag ("all" clears), rewrites the page URL and
// re-applies filter, sort and highlighting.
func (c *Controller) ToggleFilter(tag string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.filter.Toggle(tag)
	c.page = WithTags(c.page, c.filter.Active())
	return c.refresh()
}

// SetFilter replaces the active tags.
func (c *Controller) SetFilter(tags []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.filter.Set(tags)
	c.page = WithTags(c.page, c.filter.Active())
	return c.refresh()
}

// SelectSort behaves like a sort button: choosing the current key flips its
// direction, choosing another key switches to it with that key's last
// direction.
func (c *Controller) SelectSort(key SortKey) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if key == c.sort.Key {
		c.sort.Direction = c.sort.Direction.Flip()
	} else {
		dir, ok := c.dirs[key]
		if !ok {
			dir = Asc
		}
		c.sort = SortState{Key: key, Direction: dir}
	}
	c.dirs[c.sort.Key] = c.sort.Direction
	return c.refresh()
}

// SetSort applies s directly.
func (c *Controller) SetSort(s SortState) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sort = s
	c.dirs[s.Key] = s.Direction
	return c.refresh()
}

// refresh requires c.mu.
func (c *Controller) refresh() error {
	visible := c.filter.Apply(c.list)
	Sort(c.list, c.sort)
	active := Reconcile(c.list, c.page.Path)
	c.logger.Debug("list refreshed",
		slog.Int("visible", visible),
		slog.Bool("fallback", c.list.Fallback()),
		slog.String("active", active),
	)
	return c.project()
}

// rebuildView requires c.mu.
func (c *Controller) rebuildView() error {
	if c.doc == nil {
		return nil
	}
	container, err := c.doc.WorksList()
	if err != nil {
		c.view = nil
		c.logger.Debug("no works list on page", logger.Error(err))
		return nil
	}
	if c.view == nil || c.view.container != container {
		c.view = NewView(container)
	}
	return c.view.Rebuild(c.list)
}

// project requires c.mu.
func (c *Controller) project() error {
	if c.doc == nil {
		return nil
	}
	if c.view != nil {
		c.view.Sync(c.list)
	}
	projectFilterControls(c.doc, c.filter)
	projectSortControls(c.doc, c.sort, c.dirs)

	container, err := c.doc.FeaturedContainer()
	if errors.Is(err, shell.ErrContainerMissing) {
		return nil
	}
	return projectFeatured(container, c.featuredLocked(), c.renderer)
}

// Featured returns the projects for the featured section, in display order.
func (c *Controller) Featured() []model.Project {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.featuredLocked()
}

func (c *Controller) featuredLocked() []model.Project {
	if c.unavailable {
		return nil
	}
	return c.store.GetFeatured(c.featured)
}

// WriteFeatured renders the featured cards; nothing is written when there
// is nothing to feature.
func (c *Controller) WriteFeatured(w io.Writer) error {
	c.mu.Lock()
	r := *c.renderer
	projects := c.featuredLocked()
	c.mu.Unlock()
	return WriteFeatured(w, projects, &r)
}

// WriteShell renders the shell document with the list projected into it.
func (c *Controller) WriteShell(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.doc == nil {
		return nil
	}
	return c.doc.Render(w)
}

// URL is the page URL including the current tags parameter.
func (c *Controller) URL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page.String()
}

// Snapshot is a read-only view of the controller state.
type Snapshot struct {
	URL           string    `json:"url"`
	Detail        bool      `json:"detail"`
	Active        string    `json:"active,omitempty"`
	Filter        []string  `json:"filter"`
	Fallback      bool      `json:"fallback"`
	Sort          SortState `json:"sort"`
	DataAvailable bool      `json:"data_available"`
	Entries       []Entry   `json:"entries"`
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	active, _ := c.list.Active()
	return Snapshot{
		URL:           c.page.String(),
		Detail:        c.list.Detail(),
		Active:        active.Slug,
		Filter:        c.filter.Active(),
		Fallback:      c.list.Fallback(),
		Sort:          c.sort,
		DataAvailable: !c.unavailable,
		Entries:       c.list.Entries(),
	}
}

// Renders counts completed regenerations.
func (c *Controller) Renders() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.renders
}
