package shell

import (
	"strings"

	"golang.org/x/net/html"
)

func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if !visit(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, visit) {
			return false
		}
	}
	return true
}

// ByID returns the first element below n with the given id.
func ByID(n *html.Node, id string) *html.Node {
	var found *html.Node
	walk(n, func(c *html.Node) bool {
		if c.Type == html.ElementNode && Attr(c, "id") == id {
			found = c
			return false
		}
		return true
	})
	return found
}

// FirstByClass returns the first element below n carrying class.
func FirstByClass(n *html.Node, class string) *html.Node {
	var found *html.Node
	walk(n, func(c *html.Node) bool {
		if c.Type == html.ElementNode && HasClass(c, class) {
			found = c
			return false
		}
		return true
	})
	return found
}

// AllByClass returns every element below n carrying class, in document order.
func AllByClass(n *html.Node, class string) []*html.Node {
	var out []*html.Node
	walk(n, func(c *html.Node) bool {
		if c.Type == html.ElementNode && HasClass(c, class) {
			out = append(out, c)
		}
		return true
	})
	return out
}

// FirstByTag returns the first element below n named tag.
func FirstByTag(n *html.Node, tag string) *html.Node {
	var found *html.Node
	walk(n, func(c *html.Node) bool {
		if c.Type == html.ElementNode && c.Data == tag {
			found = c
			return false
		}
		return true
	})
	return found
}

// Children returns the element children of n.
func Children(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func HasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func RemoveAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key != key {
			out = append(out, a)
		}
	}
	n.Attr = out
}

func HasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(Attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// SetClass adds or removes class on n.
func SetClass(n *html.Node, class string, on bool) {
	var kept []string
	for _, c := range strings.Fields(Attr(n, "class")) {
		if c != class {
			kept = append(kept, c)
		}
	}
	if on {
		kept = append(kept, class)
	}
	if len(kept) == 0 {
		RemoveAttr(n, "class")
		return
	}
	SetAttr(n, "class", strings.Join(kept, " "))
}

// SetHidden projects a visibility flag onto the inline display style.
func SetHidden(n *html.Node, hidden bool) {
	if hidden {
		SetAttr(n, "style", "display:none")
	} else {
		RemoveAttr(n, "style")
	}
}

func IsHidden(n *html.Node) bool {
	return strings.Contains(strings.ReplaceAll(Attr(n, "style"), " ", ""), "display:none")
}

// Clear detaches every child of n.
func Clear(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}

// Detach removes n from its parent, if any.
func Detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// AppendHTML parses markup in the context of parent and appends the result.
// It returns the appended element nodes.
func AppendHTML(parent *html.Node, markup string) ([]*html.Node, error) {
	nodes, err := html.ParseFragment(strings.NewReader(markup), parent)
	if err != nil {
		return nil, err
	}
	var elems []*html.Node
	for _, n := range nodes {
		parent.AppendChild(n)
		if n.Type == html.ElementNode {
			elems = append(elems, n)
		}
	}
	return elems, nil
}

// Text returns the concatenated text below n.
func Text(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		return true
	})
	return b.String()
}

// SetText replaces the children of n with a single text node.
func SetText(n *html.Node, text string) {
	Clear(n)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}
