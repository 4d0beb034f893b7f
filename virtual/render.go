package virtual

import (
	"bytes"
	"fmt"
	"html/template"
	"path"
	"strings"

	"github.com/ancientlore/almanac/index"
	"github.com/ancientlore/almanac/post"
)

// newData prepares the template data shared by all pages.
func (vfs *FS) newData(set *postSet, name string) *data {
	p, bn := path.Split(name)
	return &data{
		Site: &vfs.cfg,
		Page: pageInfo{
			Path:     "/" + p,
			Filename: bn,
		},
		Posts: index.Sorted(set.Posts),
	}
}

// execute runs the named template into a buffer. Nothing is returned
// on failure so a half-rendered page is never served.
func (vfs *FS) execute(templateName string, d *data) ([]byte, error) {
	tpl := vfs.getTemplates()
	var wtr bytes.Buffer
	if err := tpl.ExecuteTemplate(&wtr, templateName, d); err != nil {
		return nil, fmt.Errorf("execute %s: %w", templateName, err)
	}
	return wtr.Bytes(), nil
}

// renderIndex renders the year-grouped list of posts.
func (vfs *FS) renderIndex(set *postSet, name string) ([]byte, error) {
	d := vfs.newData(set, name)
	d.Years = index.Group(set.Posts)
	if vfs.cfg.Recent > 0 {
		d.Recent = index.Recent(set.Posts, vfs.cfg.Recent)
	}
	return vfs.execute("index", d)
}

// renderTags renders the posts grouped by tag.
func (vfs *FS) renderTags(set *postSet, name string) ([]byte, error) {
	d := vfs.newData(set, name)
	d.Tags = index.ByTag(set.Posts)
	return vfs.execute("tags", d)
}

// renderPost renders the Markdown of a post into its layout.
func (vfs *FS) renderPost(set *postSet, p *post.Post, name string) ([]byte, error) {
	md, err := vfs.md.Render(p.Body)
	if err != nil {
		return nil, fmt.Errorf("renderPost %s: %w", p.Source, err)
	}
	d := vfs.newData(set, name)
	d.Post = p
	d.Content = template.HTML(md)
	d.Newer, d.Older = index.Neighbors(set.Posts, p)

	// Render the HTML template
	templateName := "post"
	if p.Layout != "" && vfs.getTemplates().Lookup(p.Layout) != nil {
		templateName = p.Layout
	}
	return vfs.execute(templateName, d)
}

// renderSitemap lists the absolute URL of every rendered page.
func (vfs *FS) renderSitemap(set *postSet) ([]byte, error) {
	var b strings.Builder
	b.WriteString(vfs.cfg.AbsURL("/"))
	b.WriteByte('\n')
	b.WriteString(vfs.cfg.AbsURL(tagsFile))
	b.WriteByte('\n')
	for _, p := range index.Sorted(set.Posts) {
		b.WriteString(vfs.cfg.AbsURL(p.Permalink))
		b.WriteByte('\n')
	}
	return []byte(b.String()), nil
}
