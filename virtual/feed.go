package virtual

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/ancientlore/almanac/index"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language,omitempty"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	PubDate     string   `xml:"pubDate"`
	GUID        string   `xml:"guid"`
	Categories  []string `xml:"category"`
}

// renderFeed renders an RSS 2.0 feed of the newest posts. The build date is
// the date of the newest post, so the feed only changes when the posts do.
func (vfs *FS) renderFeed(set *postSet) ([]byte, error) {
	posts := index.Recent(set.Posts, vfs.cfg.FeedItems)
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		link := vfs.cfg.AbsURL(p.Permalink)
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        link,
			Description: p.Summary(),
			PubDate:     p.Date.Format(time.RFC1123Z),
			GUID:        link,
			Categories:  p.Tags,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       vfs.cfg.Title,
			Link:        vfs.cfg.AbsURL("/"),
			Description: vfs.cfg.Description,
			Language:    vfs.cfg.Language,
			Items:       items,
		},
	}
	if len(posts) > 0 {
		feed.Channel.LastBuildDate = posts[0].Date.Format(time.RFC1123Z)
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(feed); err != nil {
		return nil, fmt.Errorf("renderFeed: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
