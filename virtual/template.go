package virtual

import (
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"path"
	"strings"
	"time"

	"github.com/ancientlore/almanac/index"
	"github.com/ancientlore/almanac/post"
)

//go:embed default.html
var defaultTemplate string

// pageInfo has information about the current page.
type pageInfo struct {
	Path     string // path from URL
	Filename string // end portion (file) from URL
}

// Pathname joins the path and filename.
func (p pageInfo) Pathname() string {
	return path.Join(p.Path, p.Filename)
}

// data is what is passed to templates.
type data struct {
	Site    *Config            // site settings
	Page    pageInfo           // information about current page
	Posts   []*post.Post       // all posts, newest first
	Years   []index.YearGroup  // posts by year, on the index
	Recent  []*post.Post       // most recent posts, on the index
	Tags    []index.LabelGroup // posts by tag, on the tags page
	Post    *post.Post         // the post being rendered
	Content template.HTML      // rendered Markdown of the post
	Newer   *post.Post         // next newer post
	Older   *post.Post         // next older post
}

// getTemplates returns the current templates.
func (vfs *FS) getTemplates() *template.Template {
	vfs.tplMutex.RLock()
	defer vfs.tplMutex.RUnlock()
	return vfs.tpl
}

// ReloadTemplates parses the templates again so edits show up without a restart.
// The previous templates stay in use if parsing fails.
func (vfs *FS) ReloadTemplates() error {
	_, err := vfs.loadTemplates()
	return err
}

// loadTemplates loads and parses the HTML templates, returning true if custom templates were found.
func (vfs *FS) loadTemplates() (bool, error) {
	funcMap := template.FuncMap{
		"group":      index.Group,
		"recent":     index.Recent,
		"bytag":      index.ByTag,
		"bycategory": index.ByCategory,
		"tagged":     tagged,
		"date":       formatDate,
		"absurl":     vfs.cfg.AbsURL,
		"markdown":   vfs.markdown,
		"join":       path.Join,
		"trimsuffix": strings.TrimSuffix,
		"trimprefix": strings.TrimPrefix,
		"trimspace":  strings.TrimSpace,
		"now":        vfs.now,
	}
	tpl, err := template.New("almanac").Funcs(funcMap).Parse(defaultTemplate)
	if err != nil {
		return false, fmt.Errorf("loadTemplates: %w", err)
	}
	custom := false
	// Check if we are using custom templates
	fi, err := fs.Stat(vfs.fs, "template")
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("loadTemplates: %w", err)
	}
	if err == nil && fi.IsDir() {
		matches, err := fs.Glob(vfs.fs, "template/*.html")
		if err != nil {
			return false, fmt.Errorf("loadTemplates: %w", err)
		}
		if len(matches) > 0 {
			tpl, err = tpl.ParseFS(vfs.fs, "template/*.html")
			if err != nil {
				return true, fmt.Errorf("loadTemplates: %w", err)
			}
			custom = true
		}
	}
	vfs.tplMutex.Lock()
	defer vfs.tplMutex.Unlock()
	vfs.tpl = tpl
	return custom, nil
}

// tagged returns the posts carrying tag and is used in templates.
func tagged(posts []*post.Post, tag string) []*post.Post {
	return index.Filter(posts, func(p *post.Post) bool { return p.HasTag(tag) })
}

// formatDate formats t with layout and is used in templates.
func formatDate(layout string, t time.Time) string {
	return t.Format(layout)
}

// markdown converts the given Markdown text to HTML and is used in templates.
func (vfs *FS) markdown(s string) template.HTML {
	b, err := vfs.md.Render([]byte(s))
	if err != nil {
		log.Printf("markdown: %s", err)
		return ""
	}
	return template.HTML(b)
}
