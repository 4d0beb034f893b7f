/*
Package web holds the HTTP middleware used to serve a blog from a virtual
file system: fixed response headers, Expires headers that tell rendered pages
from static files, feed content types, and custom error pages.
*/
package web

import (
	"mime"
	"net/http"
	"path"
	"strings"
	"time"
)

// Content type for RSS feeds, which mime.TypeByExtension reports as plain XML.
const rssContentType = "application/rss+xml; charset=utf-8"

// HeaderHandler returns an http.Handler that sets the given headers on every response.
func HeaderHandler(h http.Handler, headers map[string]string) http.Handler {
	if len(headers) == 0 {
		return h
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hdr := w.Header()
		for k, v := range headers {
			hdr.Set(k, v)
		}
		h.ServeHTTP(w, r)
	})
}

// IsRendered reports whether the URL path is served by a page built from the
// posts: folders, HTML pages, the sitemap and the feed.
func IsRendered(urlPath string) bool {
	switch {
	case strings.HasSuffix(urlPath, "/"), strings.HasSuffix(urlPath, ".html"):
		return true
	case urlPath == "/sitemap.txt", urlPath == "/feed.xml":
		return true
	}
	return false
}

// ExpiresHandler sets the Expires header, using expires for rendered pages
// and staticExpires for everything else. A zero duration sets no header.
func ExpiresHandler(h http.Handler, expires, staticExpires time.Duration) http.Handler {
	return expiresHandler(h, expires, staticExpires, time.Now)
}

func expiresHandler(h http.Handler, expires, staticExpires time.Duration, now func() time.Time) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expiry := staticExpires
		if IsRendered(r.URL.Path) {
			expiry = expires
		}
		if expiry != 0 {
			w.Header().Set("Expires", now().Add(expiry).UTC().Format(http.TimeFormat))
		}
		h.ServeHTTP(w, r)
	})
}

// ContentTypeHandler sets the Content-Type of feeds and of files whose extension
// the mime package knows, before the file server would sniff the content.
func ContentTypeHandler(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch ext := path.Ext(r.URL.Path); {
		case r.URL.Path == "/feed.xml":
			w.Header().Set("Content-Type", rssContentType)
		case ext != "":
			if ct := mime.TypeByExtension(ext); ct != "" {
				w.Header().Set("Content-Type", ct)
			}
		}
		h.ServeHTTP(w, r)
	})
}
