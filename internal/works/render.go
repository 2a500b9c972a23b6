package works

import (
	"log/slog"

	"github.com/apandji/pandjico4/internal/logger"
	"github.com/apandji/pandjico4/internal/model"
	"github.com/apandji/pandjico4/internal/store"
)

// DefaultWorksPath is the directory detail pages are published under.
const DefaultWorksPath = "works"

// Renderer turns a project collection into list entries.
type Renderer struct {
	// BasePath prefixes every link, e.g. "../" on a detail page.
	BasePath string
	// WorksPath is the detail page directory.
	WorksPath string
	// Ext is the detail page extension.
	Ext string

	logger *slog.Logger
}

func NewRenderer(l *slog.Logger) *Renderer {
	return &Renderer{
		WorksPath: DefaultWorksPath,
		Ext:       ".html",
		logger:    logger.OrDiscard(l).With(logger.Scope("works.render")),
	}
}

// Href builds the link to a project's detail page.
func (r *Renderer) Href(slug string) string {
	return r.BasePath + r.WorksPath + "/" + slug + r.Ext
}

// Render replaces the list's entries with one entry per distinct slug, in
// source order. A repeated slug keeps its first occurrence; the rest are
// reported. When currentSlug names an entry it is placed first and pinned.
func (r *Renderer) Render(l *List, projects []model.Project, currentSlug string) []error {
	l.entries = l.entries[:0]
	l.fallback = false
	l.pinned = ""

	var dups []error
	seen := make(map[string]bool, len(projects))
	for i, p := range projects {
		if p.Slug == "" {
			continue
		}
		if seen[p.Slug] {
			err := &store.RecordError{Index: i, Slug: p.Slug, Reason: "already rendered", Err: store.ErrDuplicateSlug}
			r.logger.Warn("duplicate slug dropped from list", logger.Error(err))
			dups = append(dups, err)
			continue
		}
		seen[p.Slug] = true
		l.entries = append(l.entries, &Entry{
			Slug:    p.Slug,
			Href:    r.Href(p.Slug),
			Tags:    append([]string(nil), p.Tags...),
			Date:    p.Date,
			Visible: true,
		})
	}

	if currentSlug != "" {
		if i, _ := l.find(currentSlug); i >= 0 {
			l.moveToFront(i)
			l.pinned = currentSlug
		}
	}

	r.logger.Debug("list rendered", slog.Int("entries", len(l.entries)), slog.String("pinned", l.pinned))
	return dups
}
