package assets

import (
	"errors"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/prisma/engine/core"
)

// Watcher observes the source files of the loaded mesh on disk and
// accumulates change notifications. The application drains them once
// per frame and invalidates the backend's texture cache, so an artist
// overwriting a texture sees the result without restarting the viewer.
type Watcher struct {
	fsnotify *fsnotify.Watcher

	mutex    sync.Mutex
	files    map[string]struct{}
	dirs     map[string]struct{}
	changed  map[string]struct{}
	isClosed bool

	done chan struct{}
}

func NewWatcher() (*Watcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsnotify: fsWatch,
		files:    make(map[string]struct{}),
		dirs:     make(map[string]struct{}),
		changed:  make(map[string]struct{}),
		done:     make(chan struct{}),
	}
	go w.start()
	return w, nil
}

// WatchFiles replaces the set of files of interest. Watches are placed
// on the containing directories because editors typically replace files
// with rename-over, which a per-file watch loses.
func (w *Watcher) WatchFiles(paths []string) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.isClosed {
		return errors.New("watcher already closed")
	}

	wantFiles := make(map[string]struct{}, len(paths))
	wantDirs := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		wantFiles[abs] = struct{}{}
		wantDirs[filepath.Dir(abs)] = struct{}{}
	}

	for dir := range w.dirs {
		if _, ok := wantDirs[dir]; !ok {
			w.fsnotify.Remove(dir)
			delete(w.dirs, dir)
		}
	}
	for dir := range wantDirs {
		if _, ok := w.dirs[dir]; ok {
			continue
		}
		if err := w.fsnotify.Add(dir); err != nil {
			core.LogWarn("cannot watch %s: %v", dir, err)
			continue
		}
		w.dirs[dir] = struct{}{}
	}

	w.files = wantFiles
	return nil
}

// TakeChanges returns the files that changed since the last call and
// clears the set.
func (w *Watcher) TakeChanges() []string {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if len(w.changed) == 0 {
		return nil
	}

	out := make([]string, 0, len(w.changed))
	for p := range w.changed {
		out = append(out, p)
	}
	w.changed = make(map[string]struct{})
	sort.Strings(out)
	return out
}

func (w *Watcher) Close() {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.isClosed {
		return
	}
	w.isClosed = true
	close(w.done)
}

func (w *Watcher) start() {
	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			if e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) != 0 {
				w.handleFileEvent(e.Name)
			}

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("asset watcher: %s", err.Error())

		case <-w.done:
			w.fsnotify.Close()
			return
		}
	}
}

func (w *Watcher) handleFileEvent(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()
	if _, ok := w.files[abs]; !ok {
		return
	}
	w.changed[abs] = struct{}{}
	core.LogDebug("asset changed on disk: %s", abs)
}
