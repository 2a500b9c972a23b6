package works

import (
	"net/url"
	"strings"
)

// AllTag is the filter value that clears every active tag.
const AllTag = "all"

// TagsParam is the query parameter carrying the active filter.
const TagsParam = "tags"

// Filter is the active tag set. Insertion order is kept so the URL reads
// back the way the user built it.
type Filter struct {
	tags []string
}

func NewFilter(tags ...string) *Filter {
	f := &Filter{}
	f.Set(tags)
	return f
}

// Set replaces the active set, dropping blanks, repeats and "all". Tags
// containing a comma are dropped too: the comma separates tags in the URL.
func (f *Filter) Set(tags []string) {
	f.tags = f.tags[:0]
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if !validTag(t) || t == AllTag || f.Has(t) {
			continue
		}
		f.tags = append(f.tags, t)
	}
}

// Toggle adds tag if absent and removes it if present. "all" clears. A tag
// containing a comma is ignored.
func (f *Filter) Toggle(tag string) {
	tag = strings.TrimSpace(tag)
	if !validTag(tag) {
		return
	}
	if tag == AllTag {
		f.tags = f.tags[:0]
		return
	}
	for i, t := range f.tags {
		if t == tag {
			f.tags = append(f.tags[:i], f.tags[i+1:]...)
			return
		}
	}
	f.tags = append(f.tags, tag)
}

func validTag(tag string) bool {
	return tag != "" && !strings.Contains(tag, ",")
}

func (f *Filter) Has(tag string) bool {
	for _, t := range f.tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (f *Filter) Empty() bool { return len(f.tags) == 0 }

// Active returns a copy of the active tags.
func (f *Filter) Active() []string {
	return append([]string(nil), f.tags...)
}

// Apply sets each entry's visibility: visible when the filter is empty or
// the entry carries every active tag. If that would hide every entry of a
// non-empty list, all entries are shown and the list enters fallback mode.
// It returns the number of visible entries.
func (f *Filter) Apply(l *List) int {
	visible := 0
	for _, e := range l.entries {
		e.Visible = e.hasTags(f.tags)
		if e.Visible {
			visible++
		}
	}

	l.fallback = false
	if visible == 0 && len(l.entries) > 0 {
		for _, e := range l.entries {
			e.Visible = true
		}
		l.fallback = true
		visible = len(l.entries)
	}
	return visible
}

// TagsFromURL reads the comma separated tag list from u's query.
func TagsFromURL(u *url.URL) []string {
	if u == nil {
		return nil
	}
	raw := u.Query().Get(TagsParam)
	if raw == "" {
		return nil
	}
	return NewFilter(strings.Split(raw, ",")...).Active()
}

// WithTags returns a copy of u whose tags parameter reflects tags. Commas
// are left unescaped so the address bar reads ?tags=x,y; tags containing a
// comma are left out. Other parameters are kept and an empty tag list drops
// the parameter.
func WithTags(u *url.URL, tags []string) *url.URL {
	out := *u
	q := u.Query()
	q.Del(TagsParam)
	rest := q.Encode()

	var escaped []string
	for _, t := range tags {
		if validTag(t) {
			escaped = append(escaped, url.QueryEscape(t))
		}
	}
	if len(escaped) == 0 {
		out.RawQuery = rest
		return &out
	}
	param := TagsParam + "=" + strings.Join(escaped, ",")
	if rest != "" {
		out.RawQuery = rest + "&" + param
	} else {
		out.RawQuery = param
	}
	return &out
}
