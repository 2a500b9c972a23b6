package model

// Collection is the loaded, de-duplicated project list. It is not mutated
// after construction; a reload replaces it wholesale.
type Collection struct {
	projects []Project
	index    map[string]int
	featured []string

	// Issues lists the records that were skipped while building the
	// collection (malformed records, duplicate slugs).
	Issues []error
}

// NewCollection indexes projects by slug. Callers are expected to have
// removed duplicates; if any remain the first occurrence wins the index.
func NewCollection(projects []Project, featured []string) *Collection {
	c := &Collection{
		projects: projects,
		index:    make(map[string]int, len(projects)),
		featured: featured,
	}
	for i, p := range projects {
		if _, ok := c.index[p.Slug]; !ok {
			c.index[p.Slug] = i
		}
	}
	return c
}

// Empty returns a usable collection with no projects.
func Empty() *Collection {
	return NewCollection(nil, nil)
}

func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.projects)
}

// Projects returns a copy of the projects in source order.
func (c *Collection) Projects() []Project {
	if c == nil {
		return nil
	}
	out := make([]Project, len(c.projects))
	copy(out, c.projects)
	return out
}

// FeaturedSlugs is the allow-list declared by the data file itself.
func (c *Collection) FeaturedSlugs() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.featured...)
}

func (c *Collection) BySlug(slug string) (Project, bool) {
	if c == nil {
		return Project{}, false
	}
	i, ok := c.index[slug]
	if !ok {
		return Project{}, false
	}
	return c.projects[i], true
}

// Featured resolves an ordered allow-list of slugs. Unknown slugs are
// skipped, repeated slugs appear once, and allow-list order is kept.
func (c *Collection) Featured(allow []string) []Project {
	if c == nil {
		return nil
	}
	seen := make(map[string]bool, len(allow))
	var out []Project
	for _, slug := range allow {
		if seen[slug] {
			continue
		}
		seen[slug] = true
		if p, ok := c.BySlug(slug); ok {
			out = append(out, p)
		}
	}
	return out
}

// ByTags returns the projects carrying all of tags. No tags returns every
// project.
func (c *Collection) ByTags(tags []string) []Project {
	if c == nil {
		return nil
	}
	var out []Project
	for _, p := range c.projects {
		if p.HasTags(tags) {
			out = append(out, p)
		}
	}
	return out
}

// Tags returns every distinct tag in first-seen order.
func (c *Collection) Tags() []string {
	if c == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, p := range c.projects {
		for _, t := range p.Tags {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	return out
}
