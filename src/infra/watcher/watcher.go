package watcher

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/contre95/beetwatch/src/features/importing"
	"github.com/fsnotify/fsnotify"
)

const eventBuffer = 256

// Watcher monitors a directory tree recursively and emits creation events
type Watcher struct {
	watcher   *fsnotify.Watcher
	watchPath string
	mu        sync.Mutex
	running   bool
	stopChan  chan struct{}
	done      chan struct{}
	eventChan chan importing.WatchEvent
}

// NewWatcher creates a new file system watcher
func NewWatcher() (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher:   watcher,
		eventChan: make(chan importing.WatchEvent, eventBuffer),
		stopChan:  make(chan struct{}),
		done:      make(chan struct{}),
	}, nil
}

// Events returns the channel creation events are delivered on. It is closed after Stop.
func (w *Watcher) Events() <-chan importing.WatchEvent {
	return w.eventChan
}

// Start begins watching watchPath and every directory below it
func (w *Watcher) Start(ctx context.Context, watchPath string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return errors.New("watcher already running")
	}

	w.watchPath = watchPath
	slog.Info("Starting file watcher", "path", watchPath)

	if err := w.addRecursive(watchPath); err != nil {
		return err
	}

	w.running = true
	go w.watchLoop(ctx)

	slog.Info("File watcher started successfully", "directories", len(w.watcher.WatchList()))
	return nil
}

// Stop stops the file watcher and closes the events channel
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		w.watcher.Close()
		return
	}
	w.running = false
	w.mu.Unlock()

	slog.Info("Stopping file watcher")
	close(w.stopChan)
	w.watcher.Close()
	<-w.done
}

// addRecursive watches root and all directories below it
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := w.watcher.Add(path); err != nil {
				return err
			}
		}
		return nil
	})
}

// watchLoop processes file system events
func (w *Watcher) watchLoop(ctx context.Context) {
	defer close(w.done)
	defer close(w.eventChan)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("File watcher error", "error", err)

		case <-w.stopChan:
			return

		case <-ctx.Done():
			return
		}
	}
}

// handleEvent processes a single file system event
func (w *Watcher) handleEvent(event fsnotify.Event) {
	// Only process creation events
	if !event.Has(fsnotify.Create) {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		slog.Debug("Created path vanished before it could be inspected", "path", event.Name, "error", err)
		return
	}

	if info.IsDir() {
		// Files copied in before the watch is added only show up through the directory import
		if err := w.addRecursive(event.Name); err != nil {
			slog.Warn("Failed to watch new directory", "path", event.Name, "error", err)
		}
	}

	w.emit(importing.WatchEvent{
		Path:        event.Name,
		IsDirectory: info.IsDir(),
		ObservedAt:  time.Now(),
	})
}

// emit hands the event to the session without waiting on dispatch work
func (w *Watcher) emit(event importing.WatchEvent) {
	select {
	case w.eventChan <- event:
	case <-w.stopChan:
	default:
		slog.Warn("Event channel full, dropping file event", "path", event.Path)
	}
}
