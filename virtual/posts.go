package virtual

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"hash/fnv"
	"io/fs"
	"log"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/golang/groupcache"

	"github.com/ancientlore/almanac/post"
)

// ErrDuplicatePermalink is returned in strict mode when two posts map to the same page.
var ErrDuplicatePermalink = errors.New("duplicate permalink")

// postSet is the loaded, validated set of posts.
type postSet struct {
	Posts   []*post.Post // In file name order
	ModTime time.Time    // Latest modification time of the post files
}

// find returns the post rendered at the given page path.
func (s *postSet) find(name string) *post.Post {
	for _, p := range s.Posts {
		if pagePath(p.Permalink) == name {
			return p
		}
	}
	return nil
}

// loadPosts reads every post below the posts folder. Files are visited in
// lexical order, which is the order kept for posts sharing a date.
// Invalid posts and duplicates fail the load in strict mode and are
// skipped otherwise.
func (vfs *FS) loadPosts() (*postSet, error) {
	var (
		set  postSet
		seen = make(map[string]string)
		now  = vfs.now()
		opts = post.ParseOptions{Location: vfs.cfg.Location(), Permalink: vfs.cfg.Permalink}
	)
	err := fs.WalkDir(vfs.fs, vfs.cfg.Posts, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			if name == vfs.cfg.Posts && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipDir
			}
			return err
		}
		if d.IsDir() {
			if name != vfs.cfg.Posts && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") || !isPostFile(name) {
			return nil
		}
		b, err := fs.ReadFile(vfs.fs, name)
		if err != nil {
			return err
		}
		p, err := post.Parse(name, b, opts)
		if err != nil {
			return vfs.skip(err)
		}
		if !p.Published && !vfs.cfg.Drafts {
			return nil
		}
		if p.Date.After(now) && !vfs.cfg.Future {
			return nil
		}
		page := pagePath(p.Permalink)
		if isRenderedPage(page) {
			return vfs.skip(fmt.Errorf("%w: %s maps to reserved page %s", ErrDuplicatePermalink, name, page))
		}
		if other, ok := seen[page]; ok {
			return vfs.skip(fmt.Errorf("%w: %s and %s both map to %s", ErrDuplicatePermalink, other, name, p.Permalink))
		}
		seen[page] = name
		if fi, err := d.Info(); err == nil && fi.ModTime().After(set.ModTime) {
			set.ModTime = fi.ModTime()
		}
		set.Posts = append(set.Posts, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loadPosts: %w", err)
	}
	return &set, nil
}

// skip decides what happens to a post that cannot be used.
func (vfs *FS) skip(err error) error {
	if vfs.cfg.Strict {
		return err
	}
	log.Printf("loadPosts: skipping %s", err)
	return nil
}

// newPostCache creates the groupcache group holding loaded post sets.
func (vfs *FS) newPostCache(groupName string, sizeInBytes int64) *groupcache.Group {
	return groupcache.NewGroup(groupName, sizeInBytes, groupcache.GetterFunc(
		func(ctx context.Context, key string, dest groupcache.Sink) error {
			var buf bytes.Buffer
			set, err := vfs.loadPosts()
			if err != nil {
				return fmt.Errorf("posts group: %w", err)
			}
			if err = gob.NewEncoder(&buf).Encode(set); err != nil {
				return fmt.Errorf("posts group: %w", err)
			}
			return dest.SetBytes(buf.Bytes())
		}))
}

// posts returns the current post set, from the cache when one is configured.
func (vfs *FS) posts() (*postSet, error) {
	if vfs.cache == nil {
		return vfs.loadPosts()
	}
	var (
		data []byte
		set  postSet
		q    = make(url.Values, 2)
	)
	q.Set("folderpath", vfs.cfg.Posts)
	q.Set("t", strconv.FormatInt(quantize(vfs.now(), vfs.cacheDuration, vfs.cfg.Posts), 10))
	err := vfs.cache.Get(context.Background(), q.Encode(), groupcache.AllocatingByteSliceSink(&data))
	if err != nil {
		return nil, fmt.Errorf("posts: %w", err)
	}
	if err = gob.NewDecoder(bytes.NewReader(data)).Decode(&set); err != nil {
		return nil, fmt.Errorf("posts: %w", err)
	}
	// gob drops the location pointer, so restore the site's location
	for _, p := range set.Posts {
		p.Date = p.Date.In(vfs.cfg.Location())
	}
	return &set, nil
}

// quantize rounds t down to a multiple of d so that cache keys change once
// per period. The offset derived from name spreads expirations of different
// keys across the period. A zero duration never expires.
func quantize(t time.Time, d time.Duration, name string) int64 {
	if d <= 0 {
		return 0
	}
	h := fnv.New64a()
	h.Write([]byte(name))
	offset := time.Duration(h.Sum64() % uint64(d))
	return t.Add(offset).Truncate(d).UnixNano()
}

// dirEntries returns the entries that rendered pages add to folder dir:
// post pages inside it and the folders leading to deeper ones.
func (s *postSet) dirEntries(dir string) (files []string, dirs []string) {
	seenDir := make(map[string]bool)
	for _, p := range s.Posts {
		page := pagePath(p.Permalink)
		rel := page
		if dir != "." {
			if !strings.HasPrefix(page, dir+"/") {
				continue
			}
			rel = strings.TrimPrefix(page, dir+"/")
		}
		if i := strings.Index(rel, "/"); i >= 0 {
			if d := rel[:i]; !seenDir[d] {
				seenDir[d] = true
				dirs = append(dirs, d)
			}
		} else {
			files = append(files, path.Base(page))
		}
	}
	return files, dirs
}

// isDir reports whether name is a folder that only exists because of post pages.
func (s *postSet) isDir(name string) bool {
	for _, p := range s.Posts {
		if strings.HasPrefix(pagePath(p.Permalink), name+"/") {
			return true
		}
	}
	return false
}
