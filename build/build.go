// Package build writes the pages of a virtual file system out as a static site.
package build

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Result summarizes a build.
type Result struct {
	Files int   // regular files written
	Dirs  int   // folders created
	Bytes int64 // total size of the files
}

// Site copies every regular file of fsys below outDir, creating folders as
// needed. Existing files are overwritten; nothing is removed. The build stops
// with ctx.Err() when ctx is canceled.
func Site(ctx context.Context, fsys fs.FS, outDir string) (Result, error) {
	var r Result
	err := fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		target := filepath.Join(outDir, filepath.FromSlash(name))
		if d.IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
			r.Dirs++
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		n, err := copyFile(fsys, name, target)
		if err != nil {
			return err
		}
		r.Files++
		r.Bytes += n
		return nil
	})
	if err != nil {
		return r, fmt.Errorf("build: %w", err)
	}
	return r, nil
}

// copyFile writes the named file of fsys to target.
func copyFile(fsys fs.FS, name, target string) (int64, error) {
	src, err := fsys.Open(name)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, fmt.Errorf("copy %s: %w", name, err)
	}
	return n, nil
}
