package notifying

import (
	"context"
	"log/slog"
	"sync"

	"github.com/contre95/beetwatch/src/features/config"
	"github.com/contre95/beetwatch/src/features/importing"
)

// Sink delivers one notification.
type Sink interface {
	Name() string
	Send(ctx context.Context, outcome importing.DispatchOutcome) error
}

// Service fans dispatch outcomes out to the configured sinks in the background.
type Service struct {
	sinks     []Sink
	onSuccess bool
	wg        sync.WaitGroup
}

// NewService creates a notification service. Successful imports are only sent when onSuccess is set.
func NewService(cfg config.Notify, sinks ...Sink) *Service {
	return &Service{sinks: sinks, onSuccess: cfg.OnSuccess}
}

// Notify implements importing.Notifier.
func (s *Service) Notify(ctx context.Context, outcome importing.DispatchOutcome) {
	if outcome.Skipped || (outcome.Succeeded && !s.onSuccess) {
		return
	}
	for _, sink := range s.sinks {
		s.wg.Add(1)
		go func(sink Sink) {
			defer s.wg.Done()
			if err := sink.Send(context.WithoutCancel(ctx), outcome); err != nil {
				slog.Error("Notification failed", "sink", sink.Name(), "path", outcome.Path, "error", err)
				return
			}
			slog.Debug("Notification sent", "sink", sink.Name(), "path", outcome.Path)
		}(sink)
	}
}

// Wait blocks until every notification in flight has been delivered or failed.
func (s *Service) Wait() {
	s.wg.Wait()
}

// Status is the human readable result of an outcome.
func Status(outcome importing.DispatchOutcome) string {
	if outcome.Succeeded {
		return "succeeded"
	}
	return "failed"
}
