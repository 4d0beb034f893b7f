// Package index orders posts for listing pages.
//
// All functions are pure: they never modify the slice they are given and
// always return the same result for the same input. Posts with identical
// dates keep their input order.
package index

import (
	"sort"

	"github.com/ancientlore/almanac/post"
)

// YearGroup holds the posts published in one calendar year, newest first.
type YearGroup struct {
	Year  int
	Posts []*post.Post
}

// LabelGroup holds the posts carrying one tag or category, newest first.
type LabelGroup struct {
	Label string
	Posts []*post.Post
}

// Sorted returns a copy of posts ordered by date, newest first.
func Sorted(posts []*post.Post) []*post.Post {
	s := make([]*post.Post, len(posts))
	copy(s, posts)
	sort.SliceStable(s, func(i, j int) bool { return s[j].Date.Before(s[i].Date) })
	return s
}

// Group returns the posts grouped by year. Years are newest first and so are
// the posts within each year.
func Group(posts []*post.Post) []YearGroup {
	var groups []YearGroup
	for _, p := range Sorted(posts) {
		y := p.Date.Year()
		if n := len(groups); n == 0 || groups[n-1].Year != y {
			groups = append(groups, YearGroup{Year: y})
		}
		g := &groups[len(groups)-1]
		g.Posts = append(g.Posts, p)
	}
	return groups
}

// Recent returns the n most recent posts, newest first.
// All posts are returned when n is not positive or exceeds the count.
func Recent(posts []*post.Post, n int) []*post.Post {
	s := Sorted(posts)
	if n > 0 && n < len(s) {
		s = s[:n]
	}
	return s
}

// ByTag groups posts by tag. Tags are sorted by name; a post appears
// once under each of its tags.
func ByTag(posts []*post.Post) []LabelGroup {
	return byLabel(posts, func(p *post.Post) []string { return p.Tags })
}

// ByCategory groups posts by category the same way ByTag does.
func ByCategory(posts []*post.Post) []LabelGroup {
	return byLabel(posts, func(p *post.Post) []string { return p.Categories })
}

func byLabel(posts []*post.Post, labels func(*post.Post) []string) []LabelGroup {
	m := make(map[string][]*post.Post)
	for _, p := range Sorted(posts) {
		for _, l := range labels(p) {
			m[l] = append(m[l], p)
		}
	}
	groups := make([]LabelGroup, 0, len(m))
	for l, ps := range m {
		groups = append(groups, LabelGroup{Label: l, Posts: ps})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Label < groups[j].Label })
	return groups
}

// Neighbors returns the posts published just after and just before current.
// Either result is nil at the ends of the list or when current is not found.
func Neighbors(posts []*post.Post, current *post.Post) (newer, older *post.Post) {
	s := Sorted(posts)
	for i, p := range s {
		if p == current || (current != nil && p.Permalink == current.Permalink) {
			if i > 0 {
				newer = s[i-1]
			}
			if i < len(s)-1 {
				older = s[i+1]
			}
			return newer, older
		}
	}
	return nil, nil
}

// Filter returns the posts for which keep returns true, in their original order.
func Filter(posts []*post.Post, keep func(*post.Post) bool) []*post.Post {
	var r []*post.Post
	for _, p := range posts {
		if keep(p) {
			r = append(r, p)
		}
	}
	return r
}
