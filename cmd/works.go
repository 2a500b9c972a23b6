package cmd

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/apandji/pandjico4/internal/config"
	"github.com/apandji/pandjico4/internal/shell"
	"github.com/apandji/pandjico4/internal/store"
	"github.com/apandji/pandjico4/internal/works"
)

// worksQuery describes one headless run of the works pipeline.
type worksQuery struct {
	Path string
	Tags []string
	Sort string
	Dir  string
}

func (q worksQuery) pageURL() string {
	p := q.Path
	if p == "" {
		p = "/index.html"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return works.WithTags(&url.URL{Path: p}, q.Tags).String()
}

// runWorks initializes a controller for q and applies its sort. doc may be
// nil.
func runWorks(ctx context.Context, st *store.Store, doc *shell.Document, cfg config.Config, q worksQuery) (*works.Controller, error) {
	opts := []works.ControllerOption{
		works.WithFeatured(cfg.Featured),
		works.WithWorksPath(cfg.WorksPath),
		works.WithBasePath("/"),
		works.WithLogger(appLogger),
	}
	if doc != nil {
		opts = append(opts, works.WithShell(doc))
	}

	c := works.NewController(st, opts...)
	if err := c.Init(ctx, q.pageURL()); err != nil {
		return nil, err
	}

	if q.Sort != "" {
		key, err := works.ParseSortKey(q.Sort)
		if err != nil {
			return nil, err
		}
		if key != c.Snapshot().Sort.Key {
			if err := c.SelectSort(key); err != nil {
				return nil, err
			}
		}
	}
	if q.Dir != "" {
		dir, err := works.ParseDirection(q.Dir)
		if err != nil {
			return nil, err
		}
		s := c.Snapshot().Sort
		s.Direction = dir
		if err := c.SetSort(s); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// loadShell parses the sidebar fragment. A missing file yields nil.
func loadShell(file string) (*shell.Document, error) {
	if file == "" {
		return nil, nil
	}
	f, err := os.Open(file)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open sidebar shell '%s': %w", file, err)
	}
	defer f.Close()
	return shell.ParseFragment(f)
}

func splitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return works.NewFilter(strings.Split(s, ",")...).Active()
}
