package repofs

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// watcher invalidates volatile cache entries when the working tree or
// ref state changes on disk, so short-TTL data gets refreshed sooner
// than its TTL when there is activity.
type watcher struct {
	fsw  *fsnotify.Watcher
	done chan struct{}
}

// Watch starts a filesystem watcher over the working tree root and the
// repository's ref state (HEAD, packed-refs, refs/). Any event drops
// the volatile cache entries; cached values are advisory, so this only
// tightens freshness. Stop it with Close.
//
// The watch is not recursive: changes in nested working-tree
// directories are picked up only when the affected entry is re-read
// after its TTL, as without a watcher.
func (r *Repository) Watch() error {
	if r.watch != nil {
		return errors.New("repofs: watcher already running")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	paths := []string{r.gitDir, filepath.Join(r.gitDir, "refs", "heads")}
	if !r.Bare() {
		paths = append(paths, r.workTree)
	}
	for _, p := range paths {
		if _, statErr := os.Stat(p); statErr != nil {
			continue
		}
		if addErr := fsw.Add(p); addErr != nil {
			fsw.Close() //nolint:errcheck
			return addErr
		}
	}

	w := &watcher{fsw: fsw, done: make(chan struct{})}
	r.watch = w
	go r.watchLoop(w)
	return nil
}

func (r *Repository) watchLoop(w *watcher) {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			r.log.Debug().Str("path", ev.Name).Str("op", ev.Op.String()).Msg("repofs: change detected, dropping volatile cache")
			r.InvalidateVolatile()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			r.log.Warn().Err(err).Msg("repofs: watcher error")
		}
	}
}

func (w *watcher) stop() error {
	err := w.fsw.Close()
	<-w.done
	return err
}
