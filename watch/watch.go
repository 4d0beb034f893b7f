// Package watch reports changes to the files of a blog while it is being edited.
package watch

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Debounce is how long the watcher waits for more events before reporting.
const Debounce = 100 * time.Millisecond

// Watcher collects file system events below a root folder and reports the
// changed files in batches.
type Watcher struct {
	root     string
	onChange func([]string)
	watcher  *fsnotify.Watcher
	debounce time.Duration
}

// New watches root and every folder below it, except hidden ones whose name
// starts with a period. onChange is called with the sorted, slash-separated
// paths relative to root that changed during a quiet period.
func New(root string, onChange func([]string)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	w := &Watcher{
		root:     root,
		onChange: onChange,
		watcher:  fw,
		debounce: Debounce,
	}
	err = filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return fw.Add(p)
	})
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch: %w", err)
	}
	return w, nil
}

// Run delivers batches of changes until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	debounce := time.NewTimer(w.debounce)
	if !debounce.Stop() {
		<-debounce.C
	}
	pending := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			debounce.Stop()
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			name := w.relative(event.Name)
			if name == "" {
				continue
			}
			// new folders need watching too
			if event.Has(fsnotify.Create) {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() && !strings.HasPrefix(fi.Name(), ".") {
					if err := w.watcher.Add(event.Name); err != nil {
						log.Printf("watch: %s", err)
					}
				}
			}
			pending[name] = true
			debounce.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch: %s", err)

		case <-debounce.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for name := range pending {
				changed = append(changed, name)
			}
			sort.Strings(changed)
			pending = make(map[string]bool)
			w.onChange(changed)
		}
	}
}

// relative converts an event path to a slash-separated path below root.
// Hidden files and paths outside root give "".
func (w *Watcher) relative(name string) string {
	rel, err := filepath.Rel(w.root, name)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return ""
	}
	rel = filepath.ToSlash(rel)
	for _, part := range strings.Split(rel, "/") {
		if strings.HasPrefix(part, ".") {
			return ""
		}
	}
	return rel
}
