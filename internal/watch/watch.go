// Package watch reports edits to a scene file so front ends can reload it.
package watch

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Debounce is how long a file must stay quiet before its change is reported.
// Editors often write a file in several steps, truncating it first.
const Debounce = 100 * time.Millisecond

// Watcher watches the directory of one scene file; editors that replace the
// file on save would otherwise drop a watch on the file itself.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

func New(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, err
	}

	watcher := &Watcher{
		watcher: w,
		path:    abs,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Path() string { return w.path }

// Close stops the watcher. Events and Errors are closed once the pump has
// exited.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

// Poll reports whether the scene file changed since the last call, without
// blocking. It is meant to be called once per frame.
func (w *Watcher) Poll() (changed bool, err error) {
	for {
		select {
		case _, ok := <-w.Events:
			if !ok {
				return changed, err
			}
			changed = true
		case e, ok := <-w.Errors:
			if ok && err == nil {
				err = e
			}
			if !ok {
				return changed, err
			}
		default:
			return changed, err
		}
	}
}

func (w *Watcher) run() {
	defer func() {
		close(w.Events)
		close(w.Errors)
		close(w.done)
	}()

	d := newDebouncer(Debounce)
	timer := time.NewTimer(Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !relevant(event.Op) || !samePath(event.Name, w.path) {
				continue
			}
			now := time.Now()
			d.touch(event.Name, now)
			if wait, ok := d.next(now); ok {
				timer.Reset(wait)
			}
		case <-timer.C:
			now := time.Now()
			for _, name := range d.due(now) {
				select {
				case w.Events <- name:
				case <-w.closeCh:
					return
				}
			}
			if wait, ok := d.next(now); ok {
				timer.Reset(wait)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func relevant(op fsnotify.Op) bool {
	return op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func samePath(name, target string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	return abs == target
}

// IsSceneFile reports whether path has a YAML extension.
func IsSceneFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// debouncer holds each file until it has been quiet for window, so a burst
// of writes is reported once, after the last one.
type debouncer struct {
	window  time.Duration
	pending map[string]time.Time
}

func newDebouncer(window time.Duration) *debouncer {
	return &debouncer{window: window, pending: make(map[string]time.Time)}
}

func (d *debouncer) touch(name string, now time.Time) {
	d.pending[name] = now
}

// due removes and returns the files that have been quiet for the window.
func (d *debouncer) due(now time.Time) []string {
	var names []string
	for name, last := range d.pending {
		if now.Sub(last) >= d.window {
			names = append(names, name)
			delete(d.pending, name)
		}
	}
	sort.Strings(names)
	return names
}

// next returns how long until the earliest pending file is due.
func (d *debouncer) next(now time.Time) (time.Duration, bool) {
	var (
		wait time.Duration
		ok   bool
	)
	for _, last := range d.pending {
		w := d.window - now.Sub(last)
		if w < 0 {
			w = 0
		}
		if !ok || w < wait {
			wait, ok = w, true
		}
	}
	return wait, ok
}
