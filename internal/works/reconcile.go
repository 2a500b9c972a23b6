package works

import (
	"path"
	"strings"
)

// SlugFromPath derives the project slug from the last segment of a page
// path, stripping its extension: "/works/foo.html" gives "foo".
func SlugFromPath(p string) string {
	return SlugFromHref(p)
}

// IsDetailPath reports whether p addresses a page inside worksPath, such as
// "/works/foo.html" or "/site/works/foo".
func IsDetailPath(p, worksPath string) bool {
	worksPath = strings.Trim(worksPath, "/")
	if worksPath == "" {
		return false
	}
	p = strings.TrimRight(path.Clean("/"+p), "/")
	dir, file := path.Split(p)
	if file == "" || strings.TrimSuffix(file, path.Ext(file)) == "index" {
		return false
	}
	return strings.HasSuffix(strings.TrimRight(dir, "/"), "/"+worksPath)
}

// Reconcile marks the entry matching currentPath as the only active entry.
// On a detail page the active entry is also moved to the top, pinned, and
// the scroll offset reset so it shows without scrolling. It returns the
// active entry's slug, or "" when the path matches no entry.
func Reconcile(l *List, currentPath string) string {
	slug := SlugFromPath(currentPath)

	var active *Entry
	idx := -1
	for i, e := range l.entries {
		e.Active = false
		if active == nil && slug != "" && e.Slug == slug {
			active = e
			idx = i
		}
	}
	if active == nil {
		return ""
	}
	active.Active = true

	if l.detail {
		l.moveToFront(idx)
		l.pinned = active.Slug
		l.scrollTop = 0
	}
	return active.Slug
}
