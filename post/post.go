/*
Package post reads blog posts from Markdown files with front matter.

A post file starts with a metadata block followed by the Markdown body. The
block is YAML when delimited by "---" lines (the Jekyll convention) or TOML
when delimited by "+++" lines:

	---
	layout: post
	title:  "Docker Compose tips"
	date:   2023-05-01 10:00:00
	tags:   docker compose
	categories: en
	---
	Body text in [Markdown](https://en.wikipedia.org/wiki/Markdown).

Front matter may include:

	Name        Type                       Description
	----------  -------------------------  ------------------------------------
	title       string                     Title of the post
	date        time                       Publish date (required)
	tags        string or list of strings  Tags, space separated when a string
	categories  string or list of strings  Categories, usually a language code
	layout      string                     Template used to render the post
	excerpt     string                     Short summary ("exerpt" is accepted)
	slug        string                     Overrides the slug taken from the file name
	published   bool                       false marks a draft

When the date is missing, it is taken from a "YYYY-MM-DD-" prefix of the file name.
*/
package post

import (
	"bytes"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"
)

// ErrInvalidDate is returned when a post has no usable date.
var ErrInvalidDate = errors.New("invalid or missing date")

// Post is a single authored article.
type Post struct {
	Title      string    // Title of the post
	Date       time.Time // Publish date, in the site's location
	Tags       []string  // Free-text tags
	Categories []string  // Free-text categories
	Layout     string    // Template name from front matter
	Excerpt    string    // Summary from front matter
	Slug       string    // URL-safe name of the post
	Permalink  string    // URL path of the rendered post
	Source     string    // File the post was read from
	Published  bool      // false for drafts
	Body       []byte    // Markdown content
}

// ParseOptions controls how Parse interprets a post.
type ParseOptions struct {
	Location  *time.Location // Location for dates without an offset; UTC if nil
	Permalink string         // Permalink pattern; DefaultPermalink if empty
}

// fileDateRegexp matches Jekyll style file names such as "2023-05-01-my-post".
var fileDateRegexp = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-(.+)$`)

// Parse reads a post from src. The name is the path of the file and is used
// for the slug and, when the front matter has none, the date.
// The returned post has passed Validate.
func Parse(name string, src []byte, opts ParseOptions) (*Post, error) {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	var env envelope
	body, err := splitFrontMatter(src, &env)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}

	p := Post{
		Title:      strings.TrimSpace(env.Title),
		Tags:       labels(env.Tags),
		Categories: labels(env.Categories),
		Layout:     firstNonEmpty(env.Layout, env.Template),
		Excerpt:    strings.TrimSpace(firstNonEmpty(env.Excerpt, env.Exerpt)),
		Source:     name,
		Published:  env.Published == nil || *env.Published,
		Body:       bytes.TrimSpace(body),
	}
	if len(p.Categories) == 0 && env.Category != "" {
		p.Categories = labels(env.Category)
	}

	base := strings.TrimSuffix(path.Base(name), path.Ext(name))
	fileDate, fileSlug := "", base
	if m := fileDateRegexp.FindStringSubmatch(base); m != nil {
		fileDate, fileSlug = m[1], m[2]
	}

	if env.Date != nil {
		p.Date, err = parseDate(env.Date, loc)
	} else if fileDate != "" {
		p.Date, err = parseDate(fileDate, loc)
	} else {
		err = ErrInvalidDate
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}

	switch {
	case env.Slug != "":
		p.Slug = strings.TrimSpace(env.Slug)
	case segmentRegexp.MatchString(fileSlug):
		p.Slug = fileSlug
	default:
		p.Slug = Slugify(firstNonEmpty(p.Title, fileSlug))
	}
	if p.Title == "" {
		p.Title = strings.ReplaceAll(p.Slug, "-", " ")
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	p.Permalink = Permalink(&p, opts.Permalink)
	return &p, nil
}

// Summary returns the excerpt, or the first paragraph of the body when there is none.
func (p *Post) Summary() string {
	if p.Excerpt != "" {
		return p.Excerpt
	}
	for _, para := range strings.Split(string(p.Body), "\n\n") {
		if s := strings.TrimSpace(para); s != "" && !strings.HasPrefix(s, "#") {
			return strings.Join(strings.Fields(s), " ")
		}
	}
	return ""
}

// HasTag reports whether the post carries the given tag.
func (p *Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
