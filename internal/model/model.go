package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Link is one labelled outbound link of a project.
type Link struct {
	Label string `json:"label" yaml:"label"`
	URL   string `json:"url" yaml:"url"`
}

// Date is the free-form project date, usually a year. It only ever serves as
// a sort key and is accepted as either a JSON string or number.
type Date string

func (d *Date) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*d = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = Date(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*d = Date(n.String())
	return nil
}

// Year returns the leading integer of the date, the way the sidebar has
// always read it ("2023", "2023-05" and "2023 – ongoing" all give 2023).
func (d Date) Year() (int, bool) {
	s := strings.TrimSpace(string(d))
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Project is one portfolio item.
type Project struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title,omitempty"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags"`
	Date        Date     `json:"date,omitempty"`
	Blurb       string   `json:"blurb,omitempty"`
	Description string   `json:"description,omitempty"`
	Image       string   `json:"image,omitempty"`
	HeroImage   string   `json:"hero_image,omitempty"`
	Links       []Link   `json:"links,omitempty"`
	Featured    bool     `json:"featured,omitempty"`
	Content     string   `json:"content,omitempty"`
}

// HasTags reports whether p carries every tag in tags.
func (p Project) HasTags(tags []string) bool {
	for _, want := range tags {
		found := false
		for _, have := range p.Tags {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Summary prefers the description and falls back to the blurb.
func (p Project) Summary() string {
	if p.Description != "" {
		return p.Description
	}
	return p.Blurb
}

// Dataset is the on-disk shape of the project data file.
type Dataset struct {
	Projects []Project `json:"projects"`
	Featured []string  `json:"featured,omitempty"`
}

// Site is what layouts see as .Site.
type Site struct {
	Title    string
	BaseURL  string
	Params   map[string]any
	Projects []Project
}
