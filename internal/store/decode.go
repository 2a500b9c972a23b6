package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/apandji/pandjico4/internal/model"
)

// Decode parses a project data file. Comments and trailing commas are
// tolerated. Only a document that is not JSON at all fails with
// ErrDataUnavailable; schema problems yield a usable (possibly empty)
// collection whose Issues describe what was dropped. A record needs a
// string slug and, when present, a list of tags; any other field of the
// wrong type is cleared and the record kept.
func Decode(data []byte) (*model.Collection, error) {
	clean := jsonc.ToJSON(data)
	if !json.Valid(clean) {
		return nil, fmt.Errorf("%w: data file is not valid JSON", ErrDataUnavailable)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(clean, &doc); err != nil {
		coll := model.Empty()
		coll.Issues = append(coll.Issues, &RecordError{Index: -1, Reason: "top level is not an object", Err: ErrMalformedRecord})
		return coll, nil
	}

	var issues []error

	var raws []json.RawMessage
	if rawProjects, ok := doc["projects"]; !ok {
		issues = append(issues, &RecordError{Index: -1, Reason: "missing projects array", Err: ErrMalformedRecord})
	} else if err := json.Unmarshal(rawProjects, &raws); err != nil {
		issues = append(issues, &RecordError{Index: -1, Reason: "projects is not an array", Err: ErrMalformedRecord})
		raws = nil
	}

	var featured []string
	if rawFeatured, ok := doc["featured"]; ok {
		if err := json.Unmarshal(rawFeatured, &featured); err != nil {
			issues = append(issues, &RecordError{Index: -1, Reason: "featured is not a list of slugs", Err: ErrMalformedRecord})
			featured = nil
		}
	}

	projects, recordIssues := decodeRecords(raws)
	coll := model.NewCollection(projects, featured)
	coll.Issues = append(issues, recordIssues...)
	return coll, nil
}

// rawProject separates the fields a record cannot do without from the
// optional ones, which are decoded one by one so a mistyped optional field
// costs that field and not the whole project.
type rawProject struct {
	Slug string   `json:"slug"`
	Tags []string `json:"tags"`

	Title       json.RawMessage `json:"title"`
	Category    json.RawMessage `json:"category"`
	Date        json.RawMessage `json:"date"`
	Blurb       json.RawMessage `json:"blurb"`
	Description json.RawMessage `json:"description"`
	Image       json.RawMessage `json:"image"`
	HeroImage   json.RawMessage `json:"hero_image"`
	Links       json.RawMessage `json:"links"`
	Featured    json.RawMessage `json:"featured"`
	Content     json.RawMessage `json:"content"`
}

func decodeRecords(raws []json.RawMessage) ([]model.Project, []error) {
	var (
		projects []model.Project
		issues   []error
		seen     = make(map[string]int, len(raws))
	)
	for i, raw := range raws {
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			issues = append(issues, &RecordError{Index: i, Reason: "record is not an object", Err: ErrMalformedRecord})
			continue
		}

		var r rawProject
		if err := json.Unmarshal(trimmed, &r); err != nil {
			issues = append(issues, &RecordError{Index: i, Reason: err.Error(), Err: ErrMalformedRecord})
			continue
		}

		slug := strings.TrimSpace(r.Slug)
		if slug == "" {
			issues = append(issues, &RecordError{Index: i, Reason: "missing slug", Err: ErrMalformedRecord})
			continue
		}
		if first, dup := seen[slug]; dup {
			issues = append(issues, &RecordError{
				Index:  i,
				Slug:   slug,
				Reason: fmt.Sprintf("already defined by record %d", first),
				Err:    ErrDuplicateSlug,
			})
			continue
		}
		seen[slug] = i

		p := model.Project{Slug: slug, Tags: cleanTags(r.Tags)}
		opt := optionalFields{index: i, slug: slug}
		decodeField(&opt, "title", r.Title, &p.Title)
		decodeField(&opt, "category", r.Category, &p.Category)
		decodeField(&opt, "date", r.Date, &p.Date)
		decodeField(&opt, "blurb", r.Blurb, &p.Blurb)
		decodeField(&opt, "description", r.Description, &p.Description)
		decodeField(&opt, "image", r.Image, &p.Image)
		decodeField(&opt, "hero_image", r.HeroImage, &p.HeroImage)
		decodeField(&opt, "links", r.Links, &p.Links)
		decodeField(&opt, "featured", r.Featured, &p.Featured)
		decodeField(&opt, "content", r.Content, &p.Content)

		issues = append(issues, opt.issues...)
		projects = append(projects, p)
	}
	return projects, issues
}

type optionalFields struct {
	index  int
	slug   string
	issues []error
}

// decodeField sets *dst from raw. A missing field leaves *dst alone; a
// mistyped one leaves it zero and records an ErrInvalidField issue.
func decodeField[T any](opt *optionalFields, name string, raw json.RawMessage, dst *T) {
	if len(raw) == 0 {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		opt.issues = append(opt.issues, &RecordError{
			Index:  opt.index,
			Slug:   opt.slug,
			Reason: fmt.Sprintf("ignored %s: %v", name, err),
			Err:    ErrInvalidField,
		})
		return
	}
	*dst = v
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
