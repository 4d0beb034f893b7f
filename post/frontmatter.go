package post

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// envelope is the raw front matter as decoded from YAML or TOML.
// Dates and labels are left untyped because authors write them several ways.
type envelope struct {
	Title      string `yaml:"title" toml:"title"`
	Date       any    `yaml:"date" toml:"date"`
	Tags       any    `yaml:"tags" toml:"tags"`
	Categories any    `yaml:"categories" toml:"categories"`
	Category   string `yaml:"category" toml:"category"`
	Layout     string `yaml:"layout" toml:"layout"`
	Template   string `yaml:"template" toml:"template"`
	Excerpt    string `yaml:"excerpt" toml:"excerpt"`
	Exerpt     string `yaml:"exerpt" toml:"exerpt"`
	Slug       string `yaml:"slug" toml:"slug"`
	Published  *bool  `yaml:"published" toml:"published"`
}

// formats are the front matter delimiters we understand.
var formats = []*frontmatter.Format{
	frontmatter.NewFormat("---", "---", yaml.Unmarshal),
	frontmatter.NewFormat("+++", "+++", toml.Unmarshal),
}

// splitFrontMatter decodes the front matter of src into env and returns the body.
// Input without front matter is returned whole.
func splitFrontMatter(src []byte, env *envelope) ([]byte, error) {
	body, err := frontmatter.Parse(bytes.NewReader(src), env, formats...)
	if err != nil {
		return nil, fmt.Errorf("front matter: %w", err)
	}
	return body, nil
}

// dateLayouts are tried in order when the date is written as a string.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05 -07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseDate converts a decoded front matter date into a time in loc.
func parseDate(v any, loc *time.Location) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		if !d.IsZero() {
			return d.In(loc), nil
		}
	case toml.LocalDateTime:
		return d.AsTime(loc), nil
	case toml.LocalDate:
		return d.AsTime(loc), nil
	case string:
		s := strings.TrimSpace(d)
		for _, layout := range dateLayouts {
			if t, err := time.ParseInLocation(layout, s, loc); err == nil {
				return t.In(loc), nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidDate, v)
}

// labels normalizes tags or categories. A string is split on white space,
// a list keeps each item whole. Duplicates are dropped, order is kept.
func labels(v any) []string {
	var out []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		for _, have := range out {
			if have == s {
				return
			}
		}
		out = append(out, s)
	}
	switch l := v.(type) {
	case nil:
	case string:
		for _, f := range strings.Fields(l) {
			add(f)
		}
	case []string:
		for _, s := range l {
			add(s)
		}
	case []any:
		for _, item := range l {
			add(fmt.Sprint(item))
		}
	default:
		add(fmt.Sprint(l))
	}
	return out
}
