package model

import "html/template"

// PageData is the template context for every generated page. Project is nil
// on the home page.
type PageData struct {
	Site        *Site
	Project     *Project
	Title       string
	Path        string
	ContentHTML template.HTML
	Sidebar     template.HTML
	Featured    template.HTML
}
