package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ancientlore/almanac/build"
	"github.com/ancientlore/almanac/virtual"
)

// buildSite writes the static site to outDir and returns the exit code.
func buildSite(vfs *virtual.FS, outDir string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	r, err := build.Site(ctx, vfs, outDir)
	if err != nil {
		log.Printf("Build failed: %s", err)
		return 4
	}
	log.Printf("Wrote %d files (%d bytes) to %q in %s", r.Files, r.Bytes, outDir, time.Since(start).Round(time.Millisecond))
	return 0
}
