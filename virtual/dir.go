package virtual

import (
	"io"
	"io/fs"
	"path"
	"sort"
)

// virtualDir is a folder listing that hides special files and shows
// the rendered pages that live in the folder.
type virtualDir struct {
	file    fs.File // underlying folder; nil for synthetic folders
	info    fs.FileInfo
	entries []fs.DirEntry
	offset  int
}

// Stat returns information about the folder.
func (d *virtualDir) Stat() (fs.FileInfo, error) {
	return d.info, nil
}

// Read fails because folders cannot be read.
func (d *virtualDir) Read(b []byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.info.Name(), Err: fs.ErrInvalid}
}

// Close closes the underlying folder, if there is one.
func (d *virtualDir) Close() error {
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}

// ReadDir reads the contents of the directory and returns
// a slice of up to n DirEntry values in directory order.
// Subsequent calls on the same file will yield further DirEntry values.
//
// If n > 0, ReadDir returns at most n DirEntry structures.
// In this case, if ReadDir returns an empty slice, it will return
// a non-nil error explaining why.
// At the end of a directory, the error is io.EOF.
//
// If n <= 0, ReadDir returns all the DirEntry values from the directory
// in a single slice. In this case, if ReadDir succeeds (reads all the way
// to the end of the directory), it returns the slice and a nil error.
func (d *virtualDir) ReadDir(n int) ([]fs.DirEntry, error) {
	rest := d.entries[d.offset:]
	if n <= 0 {
		d.offset = len(d.entries)
		return rest, nil
	}
	if len(rest) == 0 {
		return nil, io.EOF
	}
	if n > len(rest) {
		n = len(rest)
	}
	d.offset += n
	return rest[:n], nil
}

// openDir builds the listing for folder name. f is the underlying folder,
// or nil when the folder only exists because of post pages.
func (vfs *FS) openDir(name string, f fs.File, set *postSet) (fs.File, error) {
	var (
		byName = make(map[string]fs.DirEntry)
		info   fs.FileInfo
	)
	if f != nil {
		fi, err := f.Stat()
		if err != nil {
			return nil, err
		}
		info = fi
		if rdf, ok := f.(fs.ReadDirFile); ok {
			entries, err := rdf.ReadDir(-1)
			if err != nil {
				return nil, err
			}
			for _, e := range entries {
				full := path.Join(name, e.Name())
				if vfs.isHidden(full) {
					continue
				}
				byName[e.Name()] = e
			}
		}
	} else {
		info = fileInfo{name: path.Base(name), mode: fs.ModeDir | 0555, modTime: set.ModTime}
	}

	files, dirs := set.dirEntries(name)
	if name == "." {
		files = append(files, indexFile, tagsFile, sitemapFile, feedFile)
	}
	for _, nm := range files {
		byName[nm] = dirEntry{fileInfo{name: nm, mode: 0444, modTime: set.ModTime}}
	}
	for _, nm := range dirs {
		if e, ok := byName[nm]; ok && e.IsDir() {
			continue
		}
		byName[nm] = dirEntry{fileInfo{name: nm, mode: fs.ModeDir | 0555, modTime: set.ModTime}}
	}

	entries := make([]fs.DirEntry, 0, len(byName))
	for _, e := range byName {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return &virtualDir{file: f, info: info, entries: entries}, nil
}
