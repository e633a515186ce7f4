package scheme

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Watcher reloads the catalog when scheme files in a directory change.
type Watcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	dir         string
	logger      *zap.Logger
	onReload    func(*Catalog, error)
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
}

// NewWatcher prepares a watcher for dir. onReload runs on the watcher
// goroutine with either a fresh catalog or the load error.
func NewWatcher(dir string, logger *zap.Logger, onReload func(*Catalog, error)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating fsnotify watcher")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		watcher:     fw,
		dir:         dir,
		logger:      logger,
		onReload:    onReload,
		debounceDur: 200 * time.Millisecond,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start creates the directory if needed and begins watching it in the
// background.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return errors.Wrap(err, "creating scheme dir")
	}
	if err := w.watcher.Add(w.dir); err != nil {
		return errors.Wrapf(err, "watching %s", w.dir)
	}
	w.running = true
	w.logger.Info("watching scheme dir", zap.String("dir", w.dir))
	go w.run(ctx)
	return nil
}

// Stop ends the watch loop and releases the fsnotify handle. It is safe to
// call on a watcher that never started.
func (w *Watcher) Stop() {
	w.mu.Lock()
	running := w.running
	w.running = false
	w.mu.Unlock()

	if running {
		close(w.stopCh)
		<-w.doneCh
	}
	if err := w.watcher.Close(); err != nil {
		w.logger.Warn("closing scheme watcher", zap.Error(err))
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	timer := time.NewTimer(w.debounceDur)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, ".toml") {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug("scheme file changed", zap.String("path", event.Name), zap.Stringer("op", event.Op))
			timer.Reset(w.debounceDur)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("scheme watcher error", zap.Error(err))
		case <-timer.C:
			cat, err := LoadCatalog(w.dir)
			if err != nil {
				w.logger.Warn("reloading schemes", zap.Error(err))
			} else {
				w.logger.Info("schemes reloaded", zap.Strings("slugs", cat.Slugs()))
			}
			if w.onReload != nil {
				w.onReload(cat, err)
			}
		}
	}
}
