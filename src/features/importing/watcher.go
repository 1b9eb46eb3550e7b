package importing

import (
	"context"
	"time"
)

// Watcher defines the interface for file system watchers feeding the session.
type Watcher interface {
	Start(ctx context.Context, watchPath string) error
	Events() <-chan WatchEvent
	Stop()
}

// WatchEvent is a creation event observed under the unsorted directory.
type WatchEvent struct {
	Path        string
	IsDirectory bool
	ObservedAt  time.Time
}
