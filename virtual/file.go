package virtual

import (
	"bytes"
	"io/fs"
	"time"
)

/*
Types of virtual files:

	Directory   an underlying folder with hidden entries removed and pages added
	Synthetic   a folder that only exists as a permalink prefix
	Rendered    index, tags, sitemap, feed and post pages
*/

// fileInfo holds the metadata about a virtual file.
type fileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
}

// Name returns the base name of the file.
func (fi fileInfo) Name() string { return fi.name }

// Size reports the length of the file.
func (fi fileInfo) Size() int64 { return fi.size }

// Mode returns the file mode bits.
func (fi fileInfo) Mode() fs.FileMode { return fi.mode }

// ModTime returns the modification time.
func (fi fileInfo) ModTime() time.Time { return fi.modTime }

// IsDir is an abbreviation for Mode().IsDir().
func (fi fileInfo) IsDir() bool { return fi.mode.IsDir() }

// Sys returns nil.
func (fi fileInfo) Sys() any { return nil }

// dirEntry is a lightweight entry for a virtual file. Sizes of rendered pages
// are not known until they are opened, so Info reports zero for them.
type dirEntry struct {
	fileInfo
}

// Type returns the type bits for the entry.
func (di dirEntry) Type() fs.FileMode { return di.mode.Type() }

// Info returns the FileInfo for the file or subdirectory described by the entry.
func (di dirEntry) Info() (fs.FileInfo, error) { return di.fileInfo, nil }

// renderFile is a file whose contents were produced in memory.
type renderFile struct {
	*bytes.Reader
	info fileInfo
}

// newRenderFile wraps rendered bytes as a read-only file.
func newRenderFile(name string, b []byte, modTime time.Time) *renderFile {
	return &renderFile{
		Reader: bytes.NewReader(b),
		info: fileInfo{
			name:    name,
			size:    int64(len(b)),
			mode:    0444,
			modTime: modTime,
		},
	}
}

// Stat returns a FileInfo describing the file.
func (f *renderFile) Stat() (fs.FileInfo, error) {
	return f.info, nil
}

// Close closes the file. Rendered files are in memory, so this function does nothing.
func (f *renderFile) Close() error {
	return nil
}
