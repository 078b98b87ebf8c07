package wallpaper

import (
	"context"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Editors tend to write a file in several steps; changes inside this window
// collapse into one reload.
const watchSettle = 250 * time.Millisecond

// Watcher reports manifest changes in the watched wallpaper directory.
type Watcher struct {
	mu       sync.Mutex
	fsw      *fsnotify.Watcher
	dir      string
	onChange func(dir string)
}

func NewWatcher(onChange func(dir string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{fsw: fsw, onChange: onChange}, nil
}

// Watch replaces the watched directory with dir.
func (w *Watcher) Watch(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.dir == dir {
		return nil
	}
	if w.dir != "" {
		if err := w.fsw.Remove(w.dir); err != nil {
			log.Debugf("Removing watch on %s: %v", w.dir, err)
		}
	}
	w.dir = ""
	if err := w.fsw.Add(dir); err != nil {
		return err
	}
	w.dir = dir
	log.Debugf("Watching %s for manifest changes", dir)
	return nil
}

func (w *Watcher) watched() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dir
}

// Run delivers change notifications until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	var (
		timer   *time.Timer
		pending <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return w.fsw.Close()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if !slices.Contains(ManifestNames, filepath.Base(ev.Name)) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchSettle)
			} else {
				timer.Reset(watchSettle)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			if dir := w.watched(); dir != "" {
				log.Infof("Manifest in %s changed", dir)
				w.onChange(dir)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			log.Warnf("Watcher error: %v", err)
		}
	}
}
