package works

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"golang.org/x/net/html"

	"github.com/apandji/pandjico4/internal/shell"
)

const (
	classActive        = "active"
	classHasActiveLink = "has-active-link"
	classFallback      = "fallback-mode"
	classLinkWrapper   = "project-link-wrapper"
	classDateSidebar   = "project-date-sidebar"
)

// EntryNode is the markup of one sidebar item. The slug is only carried by
// the link target.
func EntryNode(e Entry) g.Node {
	wrapperClass := classLinkWrapper
	if e.Active {
		wrapperClass += " " + classHasActiveLink
	}
	return h.Li(
		h.Data("tags", strings.Join(e.Tags, " ")),
		g.If(e.Date != "", h.Data("date", string(e.Date))),
		h.Div(
			h.Class(wrapperClass),
			h.A(h.Href(e.Href), g.If(e.Active, h.Class(classActive)), g.Text(e.Slug)),
			g.If(e.Date != "", h.Span(h.Class(classDateSidebar), g.Text(string(e.Date)))),
		),
	)
}

// View projects a List onto a <ul> container.
type View struct {
	container *html.Node
	nodes     map[string]*html.Node
}

func NewView(container *html.Node) *View {
	return &View{container: container, nodes: make(map[string]*html.Node)}
}

// Rebuild discards whatever the container holds and creates one node per
// entry. Any node whose link resolves to an already seen slug is removed,
// so the container never shows a slug twice.
func (v *View) Rebuild(l *List) error {
	shell.Clear(v.container)
	v.nodes = make(map[string]*html.Node, len(l.entries))

	var buf bytes.Buffer
	for _, e := range l.entries {
		if err := EntryNode(*e).Render(&buf); err != nil {
			return fmt.Errorf("failed to render entry '%s': %w", e.Slug, err)
		}
	}
	if _, err := shell.AppendHTML(v.container, buf.String()); err != nil {
		return fmt.Errorf("failed to insert works list: %w", err)
	}

	for _, li := range shell.Children(v.container) {
		a := shell.FirstByTag(li, "a")
		if a == nil {
			shell.Detach(li)
			continue
		}
		slug := SlugFromHref(shell.Attr(a, "href"))
		if _, dup := v.nodes[slug]; dup || slug == "" {
			shell.Detach(li)
			continue
		}
		v.nodes[slug] = li
	}
	return nil
}

// Sync brings order, visibility, highlighting and fallback state of the
// existing nodes in line with l.
func (v *View) Sync(l *List) {
	for _, e := range l.entries {
		li, ok := v.nodes[e.Slug]
		if !ok {
			continue
		}
		shell.Detach(li)
		v.container.AppendChild(li)
		shell.SetHidden(li, !e.Visible)

		if wrapper := shell.FirstByClass(li, classLinkWrapper); wrapper != nil {
			shell.SetClass(wrapper, classHasActiveLink, e.Active)
		}
		if a := shell.FirstByTag(li, "a"); a != nil {
			shell.SetClass(a, classActive, e.Active)
		}
	}
	shell.SetClass(v.container, classFallback, l.fallback)
	if l.detail {
		shell.SetAttr(v.container, "data-scroll-top", strconv.Itoa(l.scrollTop))
	} else {
		shell.RemoveAttr(v.container, "data-scroll-top")
	}
}

// Order returns the slugs in DOM order, recovered from the link targets.
func (v *View) Order() []string {
	var out []string
	for _, li := range shell.Children(v.container) {
		if a := shell.FirstByTag(li, "a"); a != nil {
			out = append(out, SlugFromHref(shell.Attr(a, "href")))
		}
	}
	return out
}
