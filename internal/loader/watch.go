package loader

import (
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the CSV log whenever the file changes on disk.
//
// Each reload carries a monotonically increasing generation number so
// the consumer can apply a last-load-wins policy: a slow load that
// finishes after a newer one started must not overwrite the newer
// result.
type Watcher struct {
	path     string
	debounce time.Duration
	onLoad   func(gen uint64, res *Result, err error)

	gen  atomic.Uint64
	fw   *fsnotify.Watcher
	stop chan struct{}
	wg   sync.WaitGroup
}

// NewWatcher creates a watcher for the file at path. onLoad is invoked
// from a background goroutine after every reload, including failed ones.
func NewWatcher(path string, debounce time.Duration, onLoad func(gen uint64, res *Result, err error)) *Watcher {
	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}
	return &Watcher{
		path:     path,
		debounce: debounce,
		onLoad:   onLoad,
		stop:     make(chan struct{}),
	}
}

// Start begins watching. The containing directory is watched rather
// than the file itself so editor save-via-rename still delivers events.
func (w *Watcher) Start() error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close()
		return fmt.Errorf("watching %s: %w", filepath.Dir(w.path), err)
	}
	w.fw = fw

	w.wg.Add(1)
	go w.loop()
	return nil
}

// Stop terminates the watch loop and waits for it to exit. In-flight
// loads may still deliver, but with a stale generation.
func (w *Watcher) Stop() {
	close(w.stop)
	if w.fw != nil {
		w.fw.Close()
	}
	w.wg.Wait()
}

// Reload forces an immediate reload regardless of file events.
func (w *Watcher) Reload() {
	w.load(w.gen.Add(1))
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	base := filepath.Base(w.path)
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-w.stop:
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			// Coalesce bursts of events into one reload.
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case <-timerC:
			timer = nil
			timerC = nil
			gen := w.gen.Add(1)
			go w.load(gen)
		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) load(gen uint64) {
	res, err := LoadFile(w.path)
	if gen != w.gen.Load() {
		return // a newer load superseded this one
	}
	w.onLoad(gen, res, err)
}
