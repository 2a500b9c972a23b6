package site

import (
	"fmt"
	"html/template"
	"io/fs"
	"path/filepath"
	"strings"
)

const (
	projectLayout = "project.html"
	homeLayout    = "home.html"
	partialsDir   = "partials"
)

// loadLayouts parses every .html file under dir. Partials go first so page
// layouts can use them, and home.html goes last so its definitions win.
func loadLayouts(dir string) (*template.Template, error) {
	var partials, pages []string
	var home string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".html") {
			return nil
		}
		switch {
		case strings.HasPrefix(filepath.Dir(path), filepath.Join(dir, partialsDir)):
			partials = append(partials, path)
		case filepath.Base(path) == homeLayout && filepath.Dir(path) == filepath.Clean(dir):
			home = path
		default:
			pages = append(pages, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find layout files in '%s': %w", dir, err)
	}

	tmpl := template.New("site")
	for _, group := range [][]string{partials, pages, {home}} {
		files := group[:0:0]
		for _, f := range group {
			if f != "" {
				files = append(files, f)
			}
		}
		if len(files) == 0 {
			continue
		}
		if tmpl, err = tmpl.ParseFiles(files...); err != nil {
			return nil, fmt.Errorf("failed to parse layouts: %w", err)
		}
	}

	for _, name := range []string{projectLayout, homeLayout} {
		if tmpl.Lookup(name) == nil {
			return nil, fmt.Errorf("layout '%s' not found in '%s'", name, dir)
		}
	}
	return tmpl, nil
}
