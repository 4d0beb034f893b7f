package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/ancientlore/cachefs"
	"github.com/facebookgo/flagenv"
	"github.com/golang/groupcache"

	"github.com/ancientlore/almanac/virtual"
	"github.com/ancientlore/almanac/watch"
	"github.com/ancientlore/almanac/web"
)

// main is where it all begins. 😀
func main() {
	// Setup flags
	var (
		fPort              = flag.Int("port", 8080, "Port to listen on.")
		fReadTimeout       = flag.Duration("readtimeout", 10*time.Second, "HTTP server read timeout.")
		fReadHeaderTimeout = flag.Duration("readheadertimeout", 5*time.Second, "HTTP server read header timeout.")
		fWriteTimeout      = flag.Duration("writetimeout", 30*time.Second, "HTTP server write timeout.")
		fRoot              = flag.String("root", ".", "Root of the blog.")
		fBuild             = flag.String("build", "", "Write the static site to this folder and exit.")
		fWatch             = flag.Bool("watch", false, "Reload templates when files change.")
		fCacheSize         = flag.Int64("cache", 10*1024*1024, "Cache size in bytes, 0 to disable.")
		fCacheDuration     = flag.Duration("cacheduration", 10*time.Second, "How long cached pages live.")
	)
	flag.Parse()
	flagenv.Prefix = "ALMANAC_"
	flagenv.Parse()

	// Setup groupcache (with no peers)
	groupcache.RegisterPeerPicker(func() groupcache.PeerPicker { return groupcache.NoPeers{} })

	// The watcher only reloads templates, so posts must stay uncached while
	// watching for new and edited posts to show up.
	var opts []virtual.Option
	if *fCacheSize > 0 && *fBuild == "" && !*fWatch {
		opts = append(opts, virtual.WithCache("almanac-posts", *fCacheSize/4, *fCacheDuration))
	}

	// Create the virtual file system
	vfs, err := virtual.New(os.DirFS(*fRoot), opts...)
	if err != nil {
		log.Printf("Cannot load site %q: %s", *fRoot, err)
		os.Exit(1)
	}
	cfg := vfs.Config()
	log.Printf("Loaded %q from %q", cfg.Title, *fRoot)

	if *fBuild != "" {
		os.Exit(buildSite(vfs, *fBuild))
	}

	// Create signal handler for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *fWatch {
		w, err := watch.New(*fRoot, func(changed []string) {
			log.Printf("Changed: %s", strings.Join(changed, ", "))
			if err := vfs.ReloadTemplates(); err != nil {
				log.Printf("Cannot reload templates: %s", err)
			}
		})
		if err != nil {
			log.Printf("Cannot watch %q: %s", *fRoot, err)
			os.Exit(2)
		}
		go func() {
			if err := w.Run(ctx); err != nil {
				log.Printf("Watcher: %s", err)
			}
		}()
		log.Print("Watching for changes")
	}

	// Cache the rendered files unless watching, where edits should show up right away
	var site = http.FS(vfs)
	var errorFS fs.FS = vfs
	if *fCacheSize > 0 && !*fWatch {
		cached := cachefs.New(vfs, &cachefs.Config{GroupName: "almanac", SizeInBytes: *fCacheSize, Duration: *fCacheDuration})
		site = http.FS(cached)
		errorFS = cached
	}

	// Setup handlers
	handler := web.HeaderHandler(
		web.ExpiresHandler(
			gziphandler.GzipHandler(
				web.ContentTypeHandler(
					web.ErrorHandler(http.FileServer(site), errorFS),
				),
			),
			time.Duration(cfg.Expires),
			time.Duration(cfg.StaticExpires),
		),
		cfg.Headers)
	log.Print("Created handlers")

	// Create HTTP server
	var srv = http.Server{
		Addr:              fmt.Sprintf(":%d", *fPort),
		Handler:           handler,
		ReadTimeout:       *fReadTimeout,
		WriteTimeout:      *fWriteTimeout,
		ReadHeaderTimeout: *fReadHeaderTimeout,
	}

	go func() {
		<-ctx.Done()

		// We received an interrupt signal, shut down.
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			// Error from closing listeners, or context timeout:
			log.Printf("HTTP server Shutdown: %v", err)
		}
	}()

	// Listen for requests
	log.Printf("Listening on port %d", *fPort)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Printf("HTTP server: %v", err)
		os.Exit(3)
	}
	log.Print("Goodbye.")
}
