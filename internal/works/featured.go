package works

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"golang.org/x/net/html"

	"github.com/apandji/pandjico4/internal/model"
	"github.com/apandji/pandjico4/internal/shell"
)

// FeaturedCard is the markup of one featured project.
func FeaturedCard(p model.Project, href string) g.Node {
	return h.Article(
		h.Class("featured-project"),
		h.A(
			h.Href(href),
			h.Class("featured-project-link"),
			g.If(p.Image != "", h.Div(
				h.Class("featured-project-image"),
				h.Img(h.Src(p.Image), h.Alt(p.Slug)),
			)),
			h.Div(
				h.Class("featured-project-content"),
				h.H3(g.Text(p.Slug)),
				g.If(p.Summary() != "", h.P(h.Class("featured-project-description"), g.Text(p.Summary()))),
				g.If(len(p.Tags) > 0, h.Span(h.Class("featured-project-tags"), g.Text(strings.Join(p.Tags, ", ")))),
			),
		),
	)
}

// WriteFeatured renders the cards for projects in order.
func WriteFeatured(w io.Writer, projects []model.Project, r *Renderer) error {
	for _, p := range projects {
		if err := FeaturedCard(p, r.Href(p.Slug)).Render(w); err != nil {
			return fmt.Errorf("failed to render featured card '%s': %w", p.Slug, err)
		}
	}
	return nil
}

// projectFeatured fills container with the cards, or hides it when there is
// nothing to feature.
func projectFeatured(container *html.Node, projects []model.Project, r *Renderer) error {
	shell.Clear(container)
	if len(projects) == 0 {
		shell.SetHidden(container, true)
		return nil
	}
	shell.SetHidden(container, false)

	var buf bytes.Buffer
	if err := WriteFeatured(&buf, projects, r); err != nil {
		return err
	}
	_, err := shell.AppendHTML(container, buf.String())
	return err
}
