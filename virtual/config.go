package virtual

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/ancientlore/almanac/post"
)

// ConfigFile is the name of the settings file at the root of the site.
const ConfigFile = "almanac.cfg"

// Config contains configuration data from the almanac.cfg file.
type Config struct {
	Title         string            `toml:"title"`         // Site title
	Description   string            `toml:"description"`   // Site description for the feed
	Author        string            `toml:"author"`        // Author name
	BaseURL       string            `toml:"baseurl"`       // Absolute URL of the site root
	Language      string            `toml:"language"`      // Language of the site, like "en"
	Timezone      string            `toml:"timezone"`      // Location for dates without an offset
	Permalink     string            `toml:"permalink"`     // Permalink pattern for posts
	Posts         string            `toml:"posts"`         // Folder holding the posts
	Recent        int               `toml:"recent"`        // Number of recent posts on the index
	FeedItems     int               `toml:"feed_items"`    // Number of posts in feed.xml
	Markdown      string            `toml:"markdown"`      // Markdown engine
	Strict        bool              `toml:"strict"`        // Fail instead of skipping bad posts
	Drafts        bool              `toml:"drafts"`        // Include unpublished posts
	Future        bool              `toml:"future"`        // Include posts dated in the future
	Expires       Duration          `toml:"expires"`       // Expires for rendered pages
	StaticExpires Duration          `toml:"staticexpires"` // Expires for static files
	Headers       map[string]string `toml:"headers"`       // Extra response headers

	location *time.Location
}

// defaultConfig is used for settings missing from almanac.cfg.
func defaultConfig() Config {
	return Config{
		Title:     "Blog",
		Language:  "en",
		Permalink: post.DefaultPermalink,
		Posts:     "_posts",
		Recent:    3,
		FeedItems: 20,
		location:  time.UTC,
	}
}

// readConfig reads almanac.cfg from fsys on top of the defaults.
// It is not an error if the file does not exist.
func readConfig(fsys fs.FS) (Config, error) {
	cfg := defaultConfig()
	b, err := fs.ReadFile(fsys, ConfigFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("cannot read config file: %w", err)
	}
	if err = toml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("cannot parse config file: %w", err)
	}
	if cfg.Timezone != "" {
		cfg.location, err = time.LoadLocation(cfg.Timezone)
		if err != nil {
			return cfg, fmt.Errorf("cannot parse config file: %w", err)
		}
	}
	cfg.Posts = strings.Trim(cfg.Posts, "/")
	if cfg.Posts == "" || !fs.ValidPath(cfg.Posts) {
		return cfg, fmt.Errorf("cannot parse config file: invalid posts folder %q", cfg.Posts)
	}
	if cfg.FeedItems <= 0 {
		cfg.FeedItems = 20
	}
	return cfg, nil
}

// Location returns the location used for post dates.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// AbsURL joins the base URL and a site path.
func (c *Config) AbsURL(p string) string {
	return strings.TrimSuffix(c.BaseURL, "/") + "/" + strings.TrimPrefix(p, "/")
}

// Duration is a time.Duration written as a string, like "5m", in the config file.
type Duration time.Duration

func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() (text []byte, err error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	p, err := time.ParseDuration(string(text))
	*d = Duration(p)
	return err
}
