package watcher

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"stampmove/internal/logger"
	"stampmove/internal/model"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

var ErrNotDirectory = errors.New("not a directory")

// Watcher turns fsnotify notifications for a directory tree into
// FileEvents. Only creations and removals are reported.
type Watcher struct {
	fw       *fsnotify.Watcher
	eventCh  chan model.FileEvent
	doneCh   chan struct{}
	exitedCh chan struct{}
	stopOnce sync.Once

	root string
	// dirs is owned by the run goroutine once Watch returns.
	dirs map[string]struct{}
}

func New(bufferSize int) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &Watcher{
		fw:       fw,
		eventCh:  make(chan model.FileEvent, bufferSize),
		doneCh:   make(chan struct{}),
		exitedCh: make(chan struct{}),
		dirs:     make(map[string]struct{}),
	}, nil
}

// Watch subscribes to dir and every directory below it and starts
// delivering events. It must be called at most once.
func (w *Watcher) Watch(dir string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(absDir)
	if err != nil {
		return fmt.Errorf("watch directory not found: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w", absDir, ErrNotDirectory)
	}

	if err := w.addRecursive(absDir); err != nil {
		return err
	}

	w.root = absDir
	go w.run()

	logger.Log.Info("watcher started",
		zap.String("dir", absDir))
	return nil
}

func (w *Watcher) Root() string {
	return w.root
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if err := w.fw.Add(path); err != nil {
				return fmt.Errorf("failed to watch %s: %w", path, err)
			}
			w.dirs[path] = struct{}{}
			logger.Log.Debug("watching directory",
				zap.String("path", path))
		}

		return nil
	})
}

func (w *Watcher) run() {
	defer close(w.exitedCh)
	defer close(w.eventCh)

	for {
		select {
		case <-w.doneCh:
			logger.Log.Info("watcher stopping",
				zap.String("dir", w.root))
			return

		case fsEvent, ok := <-w.fw.Events:
			if !ok {
				return
			}

			event, ok := w.toFileEvent(fsEvent)
			if !ok {
				continue
			}

			// Blocks while the consumer is busy; the kernel queue holds
			// the backlog meanwhile.
			select {
			case w.eventCh <- event:
			case <-w.doneCh:
				return
			}

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}

			logger.Log.Error("watcher error",
				zap.Error(err))
		}
	}
}

func (w *Watcher) toFileEvent(fsEvent fsnotify.Event) (model.FileEvent, bool) {
	event := model.FileEvent{
		Path:      fsEvent.Name,
		Timestamp: time.Now(),
	}

	switch {
	case fsEvent.Op.Has(fsnotify.Create):
		event.Type = model.EventCreated
		info, err := os.Lstat(fsEvent.Name)
		if err == nil && info.IsDir() {
			event.IsDir = true
			w.watchNewDir(fsEvent.Name)
		} else {
			delete(w.dirs, fsEvent.Name)
		}

	case fsEvent.Op.Has(fsnotify.Remove):
		// A removed directory can be reported by its own watch and by its
		// parent's, so the entry is kept until the path is reused by a file.
		event.Type = model.EventDeleted
		_, event.IsDir = w.dirs[fsEvent.Name]

	default:
		return event, false
	}

	return event, true
}

// watchNewDir subscribes to a directory that appeared after Watch, including
// any directories already nested inside it.
func (w *Watcher) watchNewDir(path string) {
	if err := w.addRecursive(path); err != nil {
		logger.Log.Warn("failed to watch new directory",
			zap.String("path", path),
			zap.Error(err))
		return
	}

	logger.Log.Debug("added new directory to watch",
		zap.String("path", path))
}

func (w *Watcher) Events() <-chan model.FileEvent {
	return w.eventCh
}

// Stop releases the subscription and returns once the delivery goroutine
// has exited. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.doneCh)
		_ = w.fw.Close()
	})

	if w.root != "" {
		<-w.exitedCh
	}
}
