package virtual

import (
	"path"
	"strings"
)

// Names rendered by the file system itself.
const (
	indexFile   = "index.html"
	tagsFile    = "tags.html"
	sitemapFile = "sitemap.txt"
	feedFile    = "feed.xml"
)

var hiddenFiles = []string{
	"template",
	ConfigFile,
}

// isHiddenFile returns true if the given file is considered
// hidden from outside view.
func isHiddenFile(name string) bool {
	for _, s := range hiddenFiles {
		if name == s || strings.HasPrefix(name, s+"/") {
			return true
		}
	}
	return false
}

// isHidden reports whether name is kept from outside view, including
// the posts folder when it is configured without a leading underscore.
func (vfs *FS) isHidden(name string) bool {
	return isHiddenFile(name) || containsSpecialFile(name) ||
		name == vfs.cfg.Posts || strings.HasPrefix(name, vfs.cfg.Posts+"/")
}

// containsSpecialFile reports whether name contains a path element starting with
// a period or an underscore. Underscore folders hold sources, like "_posts".
// The name is assumed to be a delimited by forward slashes, as guaranteed by
// the fs.FS interface.
func containsSpecialFile(name string) bool {
	parts := strings.Split(name, "/")
	for _, part := range parts {
		if strings.HasPrefix(part, ".") || strings.HasPrefix(part, "_") {
			return true
		}
	}
	return false
}

// isPostFile checks if the file name has a Markdown extension.
func isPostFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// pagePath converts a permalink into the file system path of the rendered page.
// Permalinks ending in a slash are served by an index.html in that folder.
func pagePath(permalink string) string {
	p := strings.TrimPrefix(permalink, "/")
	if p == "" || strings.HasSuffix(p, "/") {
		p += indexFile
	}
	return p
}

// isRenderedPage reports whether name is one of the pages built from the post set.
func isRenderedPage(name string) bool {
	switch name {
	case indexFile, tagsFile, sitemapFile, feedFile:
		return true
	}
	return false
}
