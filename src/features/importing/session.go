package importing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Session wires watcher events through the debouncer and classifier into the dispatcher.
type Session struct {
	watcher    Watcher
	root       string
	debouncer  *Debouncer
	classifier *Classifier
	dispatcher *Dispatcher
	metrics    Metrics
	limit      *semaphore.Weighted // nil means unbounded
	wg         sync.WaitGroup
	mu         sync.Mutex
	stopping   bool
}

// Submitter accepts actions dispatched outside the watch event stream.
type Submitter interface {
	Submit(action Action) bool
}

// NewSession creates a watch session on root. maxConcurrent caps parallel imports, 0 disables the cap.
func NewSession(watcher Watcher, root string, debouncer *Debouncer, classifier *Classifier, dispatcher *Dispatcher, maxConcurrent int64, metrics Metrics) *Session {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	s := &Session{
		watcher:    watcher,
		root:       root,
		debouncer:  debouncer,
		classifier: classifier,
		dispatcher: dispatcher,
		metrics:    metrics,
	}
	if maxConcurrent > 0 {
		s.limit = semaphore.NewWeighted(maxConcurrent)
	}
	return s
}

// Run watches until ctx is cancelled, then stops the watcher and waits for in-flight imports.
func (s *Session) Run(ctx context.Context) error {
	if err := s.watcher.Start(ctx, s.root); err != nil {
		s.watcher.Stop()
		return fmt.Errorf("failed to start watcher on %s: %w", s.root, err)
	}
	slog.Info("Listening for new items", "path", s.root)

	events := s.watcher.Events()
	for {
		select {
		case <-ctx.Done():
			s.shutdown()
			return nil
		case event, ok := <-events:
			if !ok {
				s.shutdown()
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("watcher stopped unexpectedly")
			}
			s.wg.Add(1)
			go s.handle(ctx, event)
		}
	}
}

func (s *Session) shutdown() {
	slog.Info("Stopping watch session, waiting for in-flight imports")
	s.mu.Lock()
	s.stopping = true
	s.mu.Unlock()
	s.watcher.Stop()
	s.wg.Wait()
	slog.Info("Watch session stopped")
}

// handle runs one event through the pipeline. Imports already started outlive ctx.
func (s *Session) handle(ctx context.Context, event WatchEvent) {
	defer s.wg.Done()

	event, ok := s.debouncer.Wait(ctx, event)
	if !ok {
		slog.Debug("Dropping event, session is stopping", "path", event.Path)
		return
	}

	action := s.classifier.Classify(event.Path, event.IsDirectory)
	s.metrics.EventClassified(action.Kind)
	if action.Kind == ActionIgnore {
		slog.Debug("New item detected", "path", event.Path, "is_directory", event.IsDirectory, "action", action.Kind)
	} else {
		slog.Info("New item detected", "path", event.Path, "is_directory", event.IsDirectory, "action", action.Kind)
	}

	if s.limit != nil && action.Kind != ActionIgnore {
		if err := s.limit.Acquire(ctx, 1); err != nil {
			slog.Debug("Dropping event, session is stopping", "path", event.Path)
			return
		}
		defer s.limit.Release(1)
	}
	if ctx.Err() != nil {
		slog.Debug("Dropping event, session is stopping", "path", event.Path)
		return
	}
	s.dispatcher.Dispatch(context.WithoutCancel(ctx), action)
}

// Submit dispatches action in the background, tracked like a watch event so
// shutdown waits for it. It returns false once the session is stopping.
func (s *Session) Submit(action Action) bool {
	s.mu.Lock()
	if s.stopping {
		s.mu.Unlock()
		return false
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		ctx := context.Background()
		if s.limit != nil && action.Kind != ActionIgnore {
			if err := s.limit.Acquire(ctx, 1); err != nil {
				return
			}
			defer s.limit.Release(1)
		}
		s.dispatcher.Dispatch(ctx, action)
	}()
	return true
}
