// Package site generates the static portfolio: one page per project merged
// from the data file and its markdown, the home page, and the published
// data file the works list reads at runtime.
package site

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/yuin/goldmark"

	"github.com/apandji/pandjico4/internal/config"
	"github.com/apandji/pandjico4/internal/logger"
	"github.com/apandji/pandjico4/internal/model"
	"github.com/apandji/pandjico4/internal/shell"
	"github.com/apandji/pandjico4/internal/store"
	"github.com/apandji/pandjico4/internal/works"
)

// Builder runs one build. It is safe to reuse for rebuilds but not for
// concurrent ones.
type Builder struct {
	cfg    config.Config
	root   string
	params map[string]any
	sync   bool
	logger *slog.Logger
	out    io.Writer
	md     goldmark.Markdown
}

type Option func(*Builder)

// WithRoot resolves relative config paths against dir instead of the
// working directory.
func WithRoot(dir string) Option {
	return func(b *Builder) { b.root = dir }
}

// WithParams exposes params to layouts as .Site.Params.
func WithParams(params map[string]any) Option {
	return func(b *Builder) { b.params = params }
}

// WithSync writes the merged records back to the source data file.
func WithSync(sync bool) Option {
	return func(b *Builder) { b.sync = sync }
}

func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// WithOutput receives the build progress lines (default stdout).
func WithOutput(w io.Writer) Option {
	return func(b *Builder) { b.out = w }
}

func New(cfg config.Config, opts ...Option) *Builder {
	b := &Builder{
		cfg: cfg,
		out: os.Stdout,
		md:  newMarkdown(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = logger.OrDiscard(b.logger).With(logger.Scope("site"))
	if b.params == nil {
		b.params = map[string]any{}
	}
	return b
}

// Result summarizes a build.
type Result struct {
	Built    int
	Skipped  int
	Projects []model.Project
	Issues   []error
}

// page is one project that gets its own page.
type page struct {
	project model.Project
	content template.HTML
}

func (b *Builder) path(p string) string {
	if p == "" || filepath.IsAbs(p) || b.root == "" {
		return p
	}
	return filepath.Join(b.root, p)
}

// Build cleans the output directory and regenerates the site.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	cfg := b.cfg
	outputDir := b.path(cfg.OutputDir)
	layoutsDir := b.path(cfg.LayoutsDir)
	staticDir := b.path(cfg.StaticDir)

	fmt.Fprintln(b.out, "Building project pages...")

	if _, err := os.Stat(layoutsDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("layouts directory '%s' not found", layoutsDir)
	}
	layouts, err := loadLayouts(layoutsDir)
	if err != nil {
		return nil, err
	}

	source := dataStore(b.path(cfg.DataFile), b.logger)
	coll, err := source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load project data: %w", err)
	}
	res := &Result{Issues: coll.Issues}
	pages, err := b.collect(coll.Projects(), res)
	if err != nil {
		return nil, err
	}
	dataset := model.Dataset{Projects: res.Projects, Featured: coll.FeaturedSlugs()}

	if err := os.RemoveAll(outputDir); err != nil {
		return nil, fmt.Errorf("failed to remove output directory '%s': %w", outputDir, err)
	}
	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create output directory '%s': %w", outputDir, err)
	}

	if _, err := os.Stat(staticDir); err == nil {
		if err := copyDirContents(staticDir, outputDir, b.logger); err != nil {
			return nil, fmt.Errorf("failed to copy static assets: %w", err)
		}
	} else {
		b.logger.Debug("no static directory", slog.String("dir", staticDir))
	}

	published := filepath.Join(outputDir, filepath.FromSlash(cfg.DataFile))
	if filepath.IsAbs(cfg.DataFile) {
		published = filepath.Join(outputDir, store.DefaultDataPath)
	}
	if err := writeDataset(published, dataset); err != nil {
		return nil, err
	}

	sidebar, err := b.readShell()
	if err != nil {
		return nil, err
	}

	// Pages read the published data, so the sidebar shows merged records.
	site := &model.Site{
		Title:    cfg.SiteTitle,
		BaseURL:  cfg.BaseURL,
		Params:   b.params,
		Projects: res.Projects,
	}
	pageStore := dataStore(published, b.logger)

	for _, p := range pages {
		if err := b.writeProject(ctx, layouts, pageStore, sidebar, site, p); err != nil {
			return nil, err
		}
		res.Built++
	}
	if err := b.writeHome(ctx, layouts, pageStore, sidebar, site); err != nil {
		return nil, err
	}

	if b.sync {
		if err := writeDataset(b.path(cfg.DataFile), dataset); err != nil {
			return nil, err
		}
		fmt.Fprintf(b.out, "Synced frontmatter to %s\n", cfg.DataFile)
	}

	fmt.Fprintf(b.out, "Build complete! %d files built, %d skipped.\n", res.Built, res.Skipped)
	return res, nil
}

// collect merges every record with its markdown. Records without markdown
// or JSON content get no page but stay in the data set.
func (b *Builder) collect(projects []model.Project, res *Result) ([]page, error) {
	var pages []page
	for _, p := range projects {
		src, err := FindSource(p.Slug, b.path(b.cfg.ContentDir), b.path(b.cfg.LegacyContentDir))
		if err != nil {
			return nil, err
		}

		var content template.HTML
		switch {
		case src != nil:
			p = Merge(p, src.Frontmatter)
			if len(src.Body) > 0 {
				var buf bytes.Buffer
				if err := b.md.Convert(src.Body, &buf); err != nil {
					return nil, fmt.Errorf("failed to convert markdown to HTML for file '%s': %w", src.Path, err)
				}
				content = template.HTML(buf.String())
			}
		case p.Content != "":
			content = template.HTML(Paragraphs(p.Content))
		default:
			fmt.Fprintf(b.out, "Skipping %s.html (no content)\n", p.Slug)
			res.Skipped++
			res.Projects = append(res.Projects, p)
			continue
		}

		res.Projects = append(res.Projects, p)
		pages = append(pages, page{project: p, content: content})
	}
	return pages, nil
}

func (b *Builder) readShell() ([]byte, error) {
	if b.cfg.ShellFile == "" {
		return nil, nil
	}
	data, err := os.ReadFile(b.path(b.cfg.ShellFile))
	if os.IsNotExist(err) {
		b.logger.Info("no sidebar shell, pages get no works list", slog.String("file", b.cfg.ShellFile))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read sidebar shell '%s': %w", b.cfg.ShellFile, err)
	}
	return data, nil
}

// controller runs the works pipeline for the page at pagePath and returns
// it with the pre-rendered sidebar.
func (b *Builder) controller(ctx context.Context, st *store.Store, sidebar []byte, pagePath, basePath string) (*works.Controller, template.HTML, error) {
	opts := []works.ControllerOption{
		works.WithFeatured(b.cfg.Featured),
		works.WithWorksPath(b.cfg.WorksPath),
		works.WithBasePath(basePath),
		works.WithLogger(b.logger),
	}
	var doc *shell.Document
	if sidebar != nil {
		var err error
		if doc, err = shell.ParseFragment(bytes.NewReader(sidebar)); err != nil {
			return nil, "", fmt.Errorf("failed to parse sidebar shell: %w", err)
		}
		opts = append(opts, works.WithShell(doc))
	}

	c := works.NewController(st, opts...)
	if err := c.Init(ctx, pagePath); err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	if err := c.WriteShell(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to render sidebar for '%s': %w", pagePath, err)
	}
	return c, template.HTML(buf.String()), nil
}

func (b *Builder) writeProject(ctx context.Context, layouts *template.Template, st *store.Store, sidebar []byte, site *model.Site, p page) error {
	worksPath := b.cfg.WorksPath
	if worksPath == "" {
		worksPath = works.DefaultWorksPath
	}
	pagePath := "/" + path.Join(worksPath, p.project.Slug+".html")

	_, sidebarHTML, err := b.controller(ctx, st, sidebar, pagePath, "../")
	if err != nil {
		return err
	}

	project := p.project
	title := project.Title
	if title == "" {
		title = TitleFromSlug(project.Slug)
	}
	data := model.PageData{
		Site:        site,
		Project:     &project,
		Title:       title,
		Path:        pagePath,
		ContentHTML: p.content,
		Sidebar:     sidebarHTML,
	}

	out := filepath.Join(b.path(b.cfg.OutputDir), filepath.FromSlash(pagePath))
	if err := executeLayout(layouts, projectLayout, out, data); err != nil {
		return fmt.Errorf("failed to generate page for '%s': %w", project.Slug, err)
	}
	fmt.Fprintf(b.out, "Built %s\n", pagePath)
	return nil
}

func (b *Builder) writeHome(ctx context.Context, layouts *template.Template, st *store.Store, sidebar []byte, site *model.Site) error {
	c, sidebarHTML, err := b.controller(ctx, st, sidebar, "/index.html", "")
	if err != nil {
		return err
	}

	var featured bytes.Buffer
	if err := c.WriteFeatured(&featured); err != nil {
		return err
	}

	data := model.PageData{
		Site:     site,
		Title:    site.Title,
		Path:     "/index.html",
		Sidebar:  sidebarHTML,
		Featured: template.HTML(featured.String()),
	}
	out := filepath.Join(b.path(b.cfg.OutputDir), "index.html")
	if err := executeLayout(layouts, homeLayout, out, data); err != nil {
		return fmt.Errorf("failed to generate homepage: %w", err)
	}
	fmt.Fprintln(b.out, "Built /index.html")
	return nil
}

func executeLayout(layouts *template.Template, name, out string, data model.PageData) error {
	var buf bytes.Buffer
	if err := layouts.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("failed to execute template '%s': %w", name, err)
	}
	if err := os.MkdirAll(filepath.Dir(out), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", filepath.Dir(out), err)
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write '%s': %w", out, err)
	}
	return nil
}

// dataStore reads the data file at file from disk.
func dataStore(file string, l *slog.Logger) *store.Store {
	dir, name := filepath.Split(file)
	if dir == "" {
		dir = "."
	}
	return store.New(store.NewDirTransport(dir), store.WithDataPath(name), store.WithLogger(l))
}

// writeDataset writes ds as two-space indented JSON with a trailing newline.
func writeDataset(file string, ds model.Dataset) error {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode project data: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(file), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", filepath.Dir(file), err)
	}
	if err := os.WriteFile(file, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write project data '%s': %w", file, err)
	}
	return nil
}
