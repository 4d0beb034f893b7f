package post

import (
	"path"
	"regexp"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DefaultPermalink yields "/<category>/<year>/<month>/<day>/<slug>.html".
const DefaultPermalink = "/:categories/:year/:month/:day/:title.html"

// segmentRegexp matches a slug that is safe as a single path element.
var segmentRegexp = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Validate checks that the post can be placed in the index.
func (p Post) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required),
		validation.Field(&p.Date, validation.Required),
		validation.Field(&p.Slug, validation.Required, validation.Match(segmentRegexp)),
	)
}

// Permalink expands pattern for p. Recognized tokens are :categories, :year,
// :month, :day, :i_month, :i_day, :title and :slug. Empty path elements are
// dropped, so a post without categories loses that level. Categories are
// free text and are slugified into path elements.
func Permalink(p *Post, pattern string) string {
	if pattern == "" {
		pattern = DefaultPermalink
	}
	r := strings.NewReplacer(
		":categories", categoryPath(p.Categories),
		":year", p.Date.Format("2006"),
		":month", p.Date.Format("01"),
		":day", p.Date.Format("02"),
		":i_month", strconv.Itoa(int(p.Date.Month())),
		":i_day", strconv.Itoa(p.Date.Day()),
		":title", p.Slug,
		":slug", p.Slug,
	)
	s := r.Replace(pattern)
	trailing := strings.HasSuffix(s, "/")
	s = path.Clean("/" + s)
	if trailing && s != "/" {
		s += "/"
	}
	return s
}

// categoryPath joins the slugs of the categories, skipping those with no slug.
func categoryPath(categories []string) string {
	parts := make([]string, 0, len(categories))
	for _, c := range categories {
		if s := Slugify(c); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
