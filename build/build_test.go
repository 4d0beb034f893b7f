package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/ancientlore/almanac/virtual"
)

func blog() fstest.MapFS {
	mod := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return fstest.MapFS{
		"almanac.cfg":                {Data: []byte("baseurl = \"https://example.com\"\n"), ModTime: mod},
		"css/site.css":               {Data: []byte("body{}"), ModTime: mod},
		"_posts/2024-05-03-first.md": {Data: []byte("---\ntitle: First\ncategories: en\n---\nHello."), ModTime: mod},
		"_posts/2024-05-04-next.md":  {Data: []byte("---\ntitle: Next\ntags: go\n---\nAgain."), ModTime: mod},
	}
}

func newFS(t *testing.T) *virtual.FS {
	t.Helper()
	vfs, err := virtual.New(blog(), virtual.WithClock(func() time.Time {
		return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	}))
	if err != nil {
		t.Fatal(err)
	}
	return vfs
}

// snapshot reads every file below dir, keyed by slash-separated path.
func snapshot(t *testing.T, dir string) map[string]string {
	t.Helper()
	files := make(map[string]string)
	err := filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		b, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(dir, p)
		files[filepath.ToSlash(rel)] = string(b)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return files
}

func TestSite(t *testing.T) {
	out := t.TempDir()
	r, err := Site(context.Background(), newFS(t), out)
	if err != nil {
		t.Fatal(err)
	}
	files := snapshot(t, out)
	want := []string{
		"index.html",
		"tags.html",
		"sitemap.txt",
		"feed.xml",
		"css/site.css",
		"en/2024/05/03/first.html",
		"2024/05/04/next.html",
	}
	for _, name := range want {
		if _, ok := files[name]; !ok {
			t.Errorf("missing %s", name)
		}
	}
	for _, name := range []string{"almanac.cfg", "_posts/2024-05-03-first.md"} {
		if _, ok := files[name]; ok {
			t.Errorf("%s should not be written", name)
		}
	}
	if r.Files != len(files) || r.Files != len(want) {
		t.Errorf("Result.Files = %d, wrote %d, want %d", r.Files, len(files), len(want))
	}
	var size int64
	for _, s := range files {
		size += int64(len(s))
	}
	if r.Bytes != size {
		t.Errorf("Result.Bytes = %d, want %d", r.Bytes, size)
	}
	if !strings.Contains(files["en/2024/05/03/first.html"], "<p>Hello.</p>") {
		t.Errorf("first.html = %q", files["en/2024/05/03/first.html"])
	}
}

func TestSiteRepeatable(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	if _, err := Site(context.Background(), newFS(t), a); err != nil {
		t.Fatal(err)
	}
	if _, err := Site(context.Background(), newFS(t), b); err != nil {
		t.Fatal(err)
	}
	first, second := snapshot(t, a), snapshot(t, b)
	if len(first) != len(second) {
		t.Fatalf("builds differ in size: %d and %d files", len(first), len(second))
	}
	for name, s := range first {
		if second[name] != s {
			t.Errorf("%s differs between builds", name)
		}
	}
}

func TestSiteCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Site(ctx, newFS(t), t.TempDir())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestSiteExtensionlessPermalinks(t *testing.T) {
	m := blog()
	m["almanac.cfg"] = &fstest.MapFile{Data: []byte("permalink = \"/:categories/:year/:title\"\n")}
	vfs, err := virtual.New(m)
	if err != nil {
		t.Fatal(err)
	}
	out := t.TempDir()
	if _, err := Site(context.Background(), vfs, out); err != nil {
		t.Fatal(err)
	}
	files := snapshot(t, out)
	for _, name := range []string{"en/2024/first", "2024/next"} {
		if !strings.Contains(files[name], "<h1>") {
			t.Errorf("%s was not rendered: %q", name, files[name])
		}
	}
}
