package docs

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// Watcher observes the document root for out-of-band changes (a user editing
// files directly, a WebDAV client, another process). Each relevant event
// bumps a generation counter which the UI polls to notice stale listings.
type Watcher struct {
	store   *Store
	watcher *fsnotify.Watcher
	gen     atomic.Int64
}

// NewWatcher starts watching the store's root directory.
func NewWatcher(store *Store) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(store.Root()); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return &Watcher{store: store, watcher: fsw}, nil
}

// Generation returns the current change generation. It starts at 0 and only
// ever increases.
func (w *Watcher) Generation() int64 { return w.gen.Load() }

// Run consumes filesystem events until ctx is cancelled, then closes the
// underlying watcher.
func (w *Watcher) Run(ctx context.Context) {
	defer w.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			name := filepath.Base(ev.Name)
			// Ignore temp files from our own atomic writes and other dotfiles.
			if strings.HasPrefix(name, ".") {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.gen.Add(1)
			slog.Debug("document change", "name", name, "op", ev.Op.String())
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("document watcher error", "err", err)
		}
	}
}
