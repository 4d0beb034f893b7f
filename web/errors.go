package web

import (
	"io/fs"
	"log"
	"net/http"
)

// errorPages maps status codes to the pages served in their place.
var errorPages = map[int]string{
	http.StatusNotFound:            "404.html",
	http.StatusInternalServerError: "500.html",
}

// ErrorHandler replaces the body of 404 and 500 responses with /404.html or
// /500.html from fsys, when the site has them. The status code is kept.
func ErrorHandler(h http.Handler, fsys fs.FS) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(&errorWriter{ResponseWriter: w, fsys: fsys, path: r.URL.Path}, r)
	})
}

// errorWriter swallows the body written after an error status once
// the custom page has been sent.
type errorWriter struct {
	http.ResponseWriter
	fsys    fs.FS
	path    string
	replied bool
	err     error
}

func (w *errorWriter) Write(b []byte) (int, error) {
	if w.replied {
		return len(b), w.err
	}
	return w.ResponseWriter.Write(b)
}

func (w *errorWriter) WriteHeader(statusCode int) {
	if w.replied {
		return
	}
	page, ok := errorPages[statusCode]
	if !ok {
		w.ResponseWriter.WriteHeader(statusCode)
		return
	}
	b, err := fs.ReadFile(w.fsys, page)
	if err != nil {
		w.ResponseWriter.WriteHeader(statusCode)
		return
	}
	if statusCode == http.StatusInternalServerError {
		log.Printf("ErrorHandler: %d for %s", statusCode, w.path)
	}
	hdr := w.Header()
	hdr.Set("Content-Type", "text/html; charset=utf-8")
	hdr.Del("Content-Length")
	hdr.Del("X-Content-Type-Options")
	w.ResponseWriter.WriteHeader(statusCode)
	w.replied = true
	_, w.err = w.ResponseWriter.Write(b)
}
