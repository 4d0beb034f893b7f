/*
virtual implements a "virtual" view over a fs.FS holding a blog, making it suitable
for serving as a web site or writing out as static files. Posts are Markdown files
with front matter (see package post) in the "_posts" folder; the virtual file system
presents the pages rendered from them next to the static files of the site.

A special file "almanac.cfg" at the root exposes settings you can use via the Config()
function. This file is hidden from view.

A special folder "template" at the root holds HTML templates should you want to
customize. Templates defined there replace the built-in ones of the same name.

Hidden files and folders (those starting with "." or "_") are ignored.

Rendered Files

	index.html     Posts grouped by year, newest first, plus a list of recent posts
	tags.html      Posts grouped by tag
	sitemap.txt    Absolute URL of every page, one per line
	feed.xml       RSS feed of the newest posts
	<permalink>    Each post, at the path given by its permalink; a permalink
	               ending in "/" is served as index.html in that folder

Permalinks follow the "permalink" setting, by default
"/:categories/:year/:month/:day/:title.html". The folders along the way appear
in directory listings even though they do not exist in the underlying file system,
so fs.WalkDir visits every page.

Everything else is provided as-is from the underlying file system.

Templates

The system uses standard Go templates from the `html/template` package and includes
three default templates, "index", "post" and "tags". A post can pick a different
template with its "layout" front matter; unknown layouts fall back to "post".

Templates are passed the site configuration (.Site), page information (.Page), and all
posts newest first (.Posts). The index also receives .Years and .Recent, the tags page
.Tags, and a post page .Post, its rendered .Content, and the .Newer and .Older posts.
Templates can use the following helper functions:

	group([]*post.Post) []index.YearGroup
		Group posts by year
	recent([]*post.Post, int) []*post.Post
		The n most recent posts
	bytag([]*post.Post) []index.LabelGroup
		Group posts by tag
	bycategory([]*post.Post) []index.LabelGroup
		Group posts by category
	tagged([]*post.Post, string) []*post.Post
		Posts carrying the given tag
	date(layout string, time.Time) string
		Format a time
	absurl(path string) string
		Absolute URL of a site path
	markdown(string) template.HTML
		Render Markdown into HTML
	join(parts ...string) string
		The same as path.Join
	trimsuffix(string, string) string
		The same as strings.TrimSuffix
	trimprefix(string, string) string
		The same as strings.TrimPrefix
	trimspace(string) string
		The same as strings.TrimSpace
	now() time.Time
		Current time

Errors

Posts with bad front matter or a date that cannot be parsed are skipped and logged,
or, when "strict" is set, make every rendered page and folder fail to open. Plain
files are still served. Two posts with the same permalink are handled the same way.
*/
package virtual

import (
	"errors"
	"html/template"
	"io/fs"
	"path"
	"sync"
	"time"

	"github.com/golang/groupcache"

	"github.com/ancientlore/almanac/index"
	"github.com/ancientlore/almanac/markdown"
	"github.com/ancientlore/almanac/post"
)

// FS provides a virtual view of a blog suitable for serving
// or writing out as a static site.
type FS struct {
	fs       fs.FS
	cfg      Config
	md       markdown.Renderer
	tpl      *template.Template
	tplMutex sync.RWMutex
	now      func() time.Time

	cache         *groupcache.Group
	cacheGroup    string
	cacheSize     int64
	cacheDuration time.Duration
}

// An Option configures an FS.
type Option func(*FS)

// WithCache caches the loaded posts in a groupcache group with the given name
// and size. Posts are reloaded once per duration, so new files show up
// without a restart. Group names must be unique within the process.
func WithCache(groupName string, sizeInBytes int64, duration time.Duration) Option {
	return func(vfs *FS) {
		vfs.cacheGroup = groupName
		vfs.cacheSize = sizeInBytes
		vfs.cacheDuration = duration
	}
}

// WithClock replaces time.Now, which decides whether a post is in the future.
func WithClock(now func() time.Time) Option {
	return func(vfs *FS) {
		vfs.now = now
	}
}

// New returns a new FS that presents a virtual view of innerFS.
func New(innerFS fs.FS, opts ...Option) (*FS, error) {
	var vfs = FS{
		fs:  innerFS,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(&vfs)
	}
	cfg, err := readConfig(innerFS)
	if err != nil {
		return nil, err
	}
	vfs.cfg = cfg
	vfs.md, err = markdown.New(cfg.Markdown)
	if err != nil {
		return nil, err
	}
	if _, err = vfs.loadTemplates(); err != nil {
		return nil, err
	}
	if vfs.cacheGroup != "" {
		vfs.cache = vfs.newPostCache(vfs.cacheGroup, vfs.cacheSize)
	}
	return &vfs, nil
}

// Config returns the settings read from the almanac.cfg file, or the defaults.
func (vfs *FS) Config() *Config {
	cfg := vfs.cfg
	return &cfg
}

// Posts returns the published posts, newest first.
func (vfs *FS) Posts() ([]*post.Post, error) {
	set, err := vfs.posts()
	if err != nil {
		return nil, err
	}
	return index.Sorted(set.Posts), nil
}

// Open opens the named file.
//
// When Open returns an error, it should be of type *fs.PathError
// with the Op field set to "open", the Path field set to name,
// and the Err field describing the problem.
//
// Open should reject attempts to open names that do not satisfy
// fs.ValidPath(name), returning a *PathError with Err set to
// ErrInvalid or ErrNotExist.
func (vfs *FS) Open(name string) (fs.File, error) {
	// Make sure the path is valid per fs rules
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	// Don't show hidden or special files
	if name != "." && vfs.isHidden(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}

	// Rendered pages take precedence over the underlying file system
	set, err := vfs.posts()
	if err != nil {
		// without posts, plain files can still be served
		if name != "." && !isRenderedPage(name) {
			if f, ok := vfs.openStaticFile(name); ok {
				return f, nil
			}
		}
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	b, ok, err := vfs.render(name, set)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	if ok {
		return newRenderFile(path.Base(name), b, set.ModTime), nil
	}

	// open the file with the underlying file system
	f, err := vfs.fs.Open(name)
	if err != nil {
		// folders made up of permalink prefixes don't exist underneath
		if errors.Is(err, fs.ErrNotExist) && set.isDir(name) {
			return vfs.openDir(name, nil, set)
		}
		return nil, err
	}
	// check for directory
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	// Directories need to be virtual so that listings hide special
	// files and show rendered pages.
	if fi.IsDir() {
		d, err := vfs.openDir(name, f, set)
		if err != nil {
			f.Close()
			return nil, &fs.PathError{Op: "open", Path: name, Err: err}
		}
		return d, nil
	}
	return f, nil
}

// openStaticFile opens name in the underlying file system if it is a regular file.
func (vfs *FS) openStaticFile(name string) (fs.File, bool) {
	f, err := vfs.fs.Open(name)
	if err != nil {
		return nil, false
	}
	fi, err := f.Stat()
	if err != nil || fi.IsDir() {
		f.Close()
		return nil, false
	}
	return f, true
}

// render produces the page at name, reporting false if name is not a rendered page.
func (vfs *FS) render(name string, set *postSet) ([]byte, bool, error) {
	var (
		b   []byte
		err error
	)
	switch name {
	case indexFile:
		b, err = vfs.renderIndex(set, name)
	case tagsFile:
		b, err = vfs.renderTags(set, name)
	case sitemapFile:
		b, err = vfs.renderSitemap(set)
	case feedFile:
		b, err = vfs.renderFeed(set)
	default:
		p := set.find(name)
		if p == nil {
			return nil, false, nil
		}
		b, err = vfs.renderPost(set, p, name)
	}
	return b, true, err
}
