package prefabs

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// Watcher reports prefab and placement script files that changed on disk.
// Events carries the base name of the changed file, e.g. "pirate.yaml".
type Watcher struct {
	src     Source
	watcher *fsnotify.Watcher
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

// NewWatcher watches src.Dir and its scripts directory when present.
func NewWatcher(src Source) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := w.Add(src.Dir); err != nil {
		_ = w.Close()
		return nil, err
	}
	// the scripts directory is optional on disk
	_ = w.Add(filepath.Join(src.Dir, "scripts"))

	watcher := &Watcher{
		src:     src,
		watcher: w,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.Events)
	defer close(w.Errors)

	last := make(map[string]time.Time)
	lastMod := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !isSpecFile(event.Name) && !isScriptFile(event.Name) {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < watchDebounce {
				continue
			}
			// a rename or create that leaves the timestamp alone carries no edit
			mod, hasMod := w.src.ModTime(w.relPath(event.Name))
			if prev, ok := lastMod[event.Name]; ok && hasMod && mod.Equal(prev) {
				continue
			}
			last[event.Name] = now
			if hasMod {
				lastMod[event.Name] = mod
			}
			select {
			case w.Events <- filepath.Base(event.Name):
			case <-w.closeCh:
				return
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

// relPath turns a watched path back into a name Source understands, e.g.
// "pirate.yaml" or "scripts/scatter.tengo".
func (w *Watcher) relPath(name string) string {
	rel, err := filepath.Rel(w.src.Dir, name)
	if err != nil {
		return filepath.Base(name)
	}
	return filepath.ToSlash(rel)
}

func isSpecFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func isScriptFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".tengo"
}
