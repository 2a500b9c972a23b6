// Package shell wraps the injected page shell (the sidebar fragment and the
// page around it) as a mutable DOM. The works pipeline renders into the
// mount points it exposes and never assumes one is present.
package shell

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrContainerMissing is returned when a mount point is absent. Pages that
// do not carry a region are expected to hit this, so callers skip quietly.
var ErrContainerMissing = errors.New("container missing")

const (
	ClassWorksList   = "works-list"
	ClassFilterTag   = "filter-tag"
	ClassSortButton  = "sort-button"
	ClassProjectTags = "project-tags"
	ClassTag         = "tag"
	IDFilterBadge    = "filterBadge"
	IDFeatured       = "featuredProjects"
)

// Document is a parsed shell. It may be a full page or a bare fragment.
type Document struct {
	root *html.Node
}

// Parse reads a complete HTML page.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseFragment reads a fragment such as components/sidebar.html, as if it
// were injected into <body>.
func ParseFragment(r io.Reader) (*Document, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(r, body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fragment: %w", err)
	}
	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return &Document{root: root}, nil
}

// ParseFragmentString is ParseFragment for in-memory markup.
func ParseFragmentString(s string) (*Document, error) {
	return ParseFragment(strings.NewReader(s))
}

// Render writes the document back out.
func (d *Document) Render(w io.Writer) error {
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(w, c); err != nil {
			return err
		}
	}
	return nil
}

func (d *Document) String() string {
	var buf bytes.Buffer
	_ = d.Render(&buf)
	return buf.String()
}

// Root exposes the underlying tree.
func (d *Document) Root() *html.Node { return d.root }

// WorksList is the <ul> the sidebar entries are rendered into.
func (d *Document) WorksList() (*html.Node, error) {
	return mount(FirstByClass(d.root, ClassWorksList), ClassWorksList)
}

// FilterButtons are the tag filter controls, including the "all" button.
func (d *Document) FilterButtons() ([]*html.Node, error) {
	return mountAll(AllByClass(d.root, ClassFilterTag), ClassFilterTag)
}

// SortButtons are the sort key controls.
func (d *Document) SortButtons() ([]*html.Node, error) {
	return mountAll(AllByClass(d.root, ClassSortButton), ClassSortButton)
}

// FilterBadge shows the number of active filters.
func (d *Document) FilterBadge() (*html.Node, error) {
	return mount(ByID(d.root, IDFilterBadge), "#"+IDFilterBadge)
}

// FeaturedContainer holds the featured project cards on the home page.
func (d *Document) FeaturedContainer() (*html.Node, error) {
	return mount(ByID(d.root, IDFeatured), "#"+IDFeatured)
}

// ProjectTags are the tag buttons of a project detail page.
func (d *Document) ProjectTags() ([]*html.Node, error) {
	var out []*html.Node
	for _, group := range AllByClass(d.root, ClassProjectTags) {
		out = append(out, AllByClass(group, ClassTag)...)
	}
	return mountAll(out, "."+ClassProjectTags+" ."+ClassTag)
}

func mount(n *html.Node, what string) (*html.Node, error) {
	if n == nil {
		return nil, fmt.Errorf("%w: %s", ErrContainerMissing, what)
	}
	return n, nil
}

func mountAll(ns []*html.Node, what string) ([]*html.Node, error) {
	if len(ns) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrContainerMissing, what)
	}
	return ns, nil
}
