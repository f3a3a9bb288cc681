package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/artpar/tiger/ports"
)

// Extensions of the files whose changes trigger revalidation.
var watchedExts = map[string]bool{
	".txt": true,
	".yml": true,
	".csv": true,
	".mod": true,
}

// WatcherConfig configures a Watcher.
type WatcherConfig struct {
	Root     string
	Debounce time.Duration
	Hasher   ports.ContentHasher
	Logger   zerolog.Logger

	// OnSkip is told how many changed files turned out to be unchanged.
	OnSkip func(n int)
}

// Watcher reports batches of changed script files under a directory.
// Events are collected until Debounce passes without a new one, and
// files whose contents hash the same as before are dropped.
type Watcher struct {
	root     string
	hasher   ports.ContentHasher
	logger   zerolog.Logger
	onSkip   func(n int)
	debounce atomic.Int64

	mu     sync.Mutex
	hashes map[string]string
}

// NewWatcher creates a watcher.
func NewWatcher(cfg WatcherConfig) *Watcher {
	w := &Watcher{
		root:   cfg.Root,
		hasher: cfg.Hasher,
		logger: cfg.Logger,
		onSkip: cfg.OnSkip,
		hashes: make(map[string]string),
	}
	w.SetDebounce(cfg.Debounce)
	return w
}

// SetDebounce changes the quiet period for the next batch.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce.Store(int64(d))
}

// Prime records the current contents of every watched file, so the
// first change is compared against them.
func (w *Watcher) Prime() error {
	return filepath.WalkDir(w.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !watchedExts[strings.ToLower(filepath.Ext(p))] {
			return nil
		}
		w.changed([]string{p})
		return nil
	})
}

// Run watches until ctx is cancelled, calling onChange with the sorted
// paths of each batch of changed files. onChange runs on the watching
// goroutine; events arriving meanwhile wait for the next batch.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context, paths []string)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := w.addTree(fw, w.root); err != nil {
		return err
	}
	if err := w.Prime(); err != nil {
		return fmt.Errorf("hash files: %w", err)
	}

	pending := make(map[string]bool)
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				if st, err := os.Stat(event.Name); err == nil && st.IsDir() {
					if err := w.addTree(fw, event.Name); err != nil {
						w.logger.Warn().Err(err).Str("dir", event.Name).Msg("new directory not watched")
					}
					continue
				}
			}
			if !watchedExts[strings.ToLower(filepath.Ext(event.Name))] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug().
				Str("event", event.Op.String()).
				Str("file", event.Name).
				Msg("mod file changed")
			pending[event.Name] = true
			timer.Reset(time.Duration(w.debounce.Load()))

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error().Err(err).Msg("file watcher error")

		case <-timer.C:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			clear(pending)

			changed := w.changed(paths)
			if skipped := len(paths) - len(changed); skipped > 0 {
				w.logger.Debug().Int("files", skipped).Msg("contents unchanged, skipped")
				if w.onSkip != nil {
					w.onSkip(skipped)
				}
			}
			if len(changed) > 0 {
				onChange(ctx, changed)
			}
		}
	}
}

// changed updates the recorded hashes of paths and returns, sorted, the
// ones whose contents differ from before. A file that cannot be read
// counts as changed once and is then forgotten.
func (w *Watcher) changed(paths []string) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var out []string
	for _, p := range paths {
		old, known := w.hashes[p]
		data, err := os.ReadFile(p)
		if err != nil {
			if known || !errors.Is(err, fs.ErrNotExist) {
				out = append(out, p)
			}
			delete(w.hashes, p)
			continue
		}
		sum := w.hasher.Sum(data)
		w.hashes[p] = sum
		if !known || old != sum {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

func (w *Watcher) addTree(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && p != root {
			return filepath.SkipDir
		}
		if err := fw.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		return nil
	})
}
