package site

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/apandji/pandjico4/internal/model"
)

// Frontmatter holds the fields a markdown file may override. A nil field
// was not present in the file.
type Frontmatter struct {
	Title       *string       `yaml:"title"`
	Slug        *string       `yaml:"slug"`
	Tags        *[]string     `yaml:"tags"`
	Date        *model.Date   `yaml:"date"`
	Blurb       *string       `yaml:"blurb"`
	Description *string       `yaml:"description"`
	Image       *string       `yaml:"image"`
	HeroImage   *string       `yaml:"hero_image"`
	Featured    *bool         `yaml:"featured"`
	Links       *[]model.Link `yaml:"links"`
}

// Source is a project's markdown file split into frontmatter and body.
type Source struct {
	Path        string
	Frontmatter Frontmatter
	Body        []byte
}

// ReadSource parses a markdown file. A file without frontmatter is all body.
func ReadSource(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	src := &Source{Path: path}
	body, err := frontmatter.Parse(bytes.NewReader(data), &src.Frontmatter)
	if err != nil {
		src.Frontmatter = Frontmatter{}
		body = data
	}
	src.Body = bytes.TrimSpace(body)
	return src, nil
}

// FindSource looks for {slug}.md in each dir in order. It returns nil and no
// error when none of them has one.
func FindSource(slug string, dirs ...string) (*Source, error) {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		src, err := ReadSource(filepath.Join(dir, slug+".md"))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read markdown for '%s': %w", slug, err)
		}
		return src, nil
	}
	return nil, nil
}

// Merge overlays fm on p. Title, slug and tags only replace the record when
// they carry a value; the other fields replace it whenever they are present.
func Merge(p model.Project, fm Frontmatter) model.Project {
	if fm.Title != nil && *fm.Title != "" {
		p.Title = *fm.Title
	}
	if fm.Slug != nil && *fm.Slug != "" {
		p.Slug = *fm.Slug
	}
	if fm.Tags != nil {
		p.Tags = append([]string(nil), (*fm.Tags)...)
	}
	if fm.Date != nil {
		p.Date = *fm.Date
	}
	if fm.Blurb != nil {
		p.Blurb = *fm.Blurb
	}
	if fm.Description != nil {
		p.Description = *fm.Description
	}
	if fm.Image != nil {
		p.Image = *fm.Image
	}
	if fm.HeroImage != nil {
		p.HeroImage = *fm.HeroImage
	}
	if fm.Featured != nil {
		p.Featured = *fm.Featured
	}
	if fm.Links != nil {
		p.Links = append([]model.Link(nil), (*fm.Links)...)
	}
	return p
}

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
			gmhtml.WithUnsafe(),
		),
	)
}

// Paragraphs wraps each blank-line separated block of content in <p>.
func Paragraphs(content string) string {
	var blocks []string
	for _, block := range strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n\n") {
		if block = strings.TrimSpace(block); block != "" {
			blocks = append(blocks, "<p>"+block+"</p>")
		}
	}
	return strings.Join(blocks, "\n")
}

// TitleFromSlug turns "my-cool_project" into "My Cool Project".
func TitleFromSlug(slug string) string {
	s := strings.NewReplacer("-", " ", "_", " ").Replace(slug)
	return cases.Title(language.English).String(s)
}
