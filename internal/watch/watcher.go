// Package watch re-runs the analysis pipeline when source files change.
// Change events are debounced so a burst of writes (editor save, git
// checkout) triggers a single re-analysis.
package watch

import (
	"context"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/archlens/archlens/internal/config"
	"github.com/archlens/archlens/internal/debug"
	"github.com/archlens/archlens/internal/discovery"
	"github.com/archlens/archlens/internal/pipeline"
	"github.com/archlens/archlens/internal/types"
	"github.com/archlens/archlens/pkg/pathutil"
)

// Watcher monitors the project root and invokes the callback with a fresh
// report after each debounced batch of relevant changes.
type Watcher struct {
	cfg      *config.Config
	engine   *pipeline.Engine
	scanner  *discovery.Scanner
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending int

	onReport func(*types.AnalysisReport)
	onError  func(error)

	wg sync.WaitGroup
}

// NewWatcher creates a watcher for the configured root. debounce bounds how
// long after the last event a re-analysis starts; zero picks a default.
func NewWatcher(cfg *config.Config, engine *pipeline.Engine, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}

	return &Watcher{
		cfg:      cfg,
		engine:   engine,
		scanner:  discovery.NewScanner(cfg),
		watcher:  fsw,
		debounce: debounce,
	}, nil
}

// SetCallbacks sets the report and error handlers. Must be called before
// Start.
func (w *Watcher) SetCallbacks(onReport func(*types.AnalysisReport), onError func(error)) {
	w.onReport = onReport
	w.onError = onError
}

// Start adds recursive watches and begins processing events. It runs an
// initial analysis immediately so the first report does not wait for a
// change. Blocks until the context is done.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addWatches(w.cfg.Project.Root); err != nil {
		return err
	}

	w.runAnalysis(ctx)

	w.wg.Add(1)
	go w.processEvents(ctx)

	<-ctx.Done()
	return w.Stop()
}

// Stop closes the watcher and waits for the event goroutine to finish.
func (w *Watcher) Stop() error {
	err := w.watcher.Close()
	w.wg.Wait()

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	return err
}

// addWatches registers every non-excluded directory under root. fsnotify
// watches are per-directory, not recursive.
func (w *Watcher) addWatches(root string) error {
	visited := make(map[string]bool)

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}

		// Symlink cycles would loop forever without this.
		real, err := filepath.EvalSymlinks(path)
		if err != nil {
			return nil
		}
		if visited[real] {
			return filepath.SkipDir
		}
		visited[real] = true

		if path != root {
			rel, relErr := filepath.Rel(root, path)
			if relErr == nil && w.excludedDir(filepath.ToSlash(rel)) {
				return filepath.SkipDir
			}
		}

		if err := w.watcher.Add(path); err != nil {
			log.Printf("watch: failed to add %s: %v", path, err)
		}
		return nil
	})
}

// excludedDir mirrors discovery's directory exclusion.
func (w *Watcher) excludedDir(rel string) bool {
	return w.scanner.ExcludedDir(rel)
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("watch: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	// A new directory needs its own watch before events inside it arrive.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.addWatches(event.Name)
			w.schedule(ctx)
			return
		}
	}

	if !w.Relevant(event.Name) {
		return
	}
	debug.LogWatch("event %v for %s\n", event.Op, event.Name)
	w.schedule(ctx)
}

// Relevant reports whether a changed path would be picked up by discovery.
func (w *Watcher) Relevant(path string) bool {
	rel := pathutil.ToSlashRelative(path, w.cfg.Project.Root)
	if filepath.IsAbs(rel) {
		return false // outside the watched root
	}
	return w.scanner.Matches(rel)
}

// schedule resets the debounce timer; the analysis fires once the event
// burst settles.
func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending++
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		w.pending = 0
		w.mu.Unlock()
		w.runAnalysis(ctx)
	})
}

// PendingEvents returns the number of events since the last analysis.
func (w *Watcher) PendingEvents() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pending
}

func (w *Watcher) runAnalysis(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	report, err := w.engine.Run(ctx)
	if err != nil {
		if w.onError != nil {
			w.onError(err)
		}
		return
	}
	if w.onReport != nil {
		w.onReport(report)
	}
}
