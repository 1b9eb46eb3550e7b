package metrics

import (
	"github.com/contre95/beetwatch/src/features/importing"
)

// Recorder feeds dispatcher and session measurements into the Prometheus collectors.
type Recorder struct{}

// NewRecorder creates a new Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) EventClassified(kind importing.ActionKind) {
	EventsTotal.WithLabelValues(string(kind)).Inc()
}

func (r *Recorder) DispatchStarted() {
	DispatchesInFlight.Inc()
}

func (r *Recorder) DispatchFinished(outcome importing.DispatchOutcome) {
	action := string(outcome.Action)
	DispatchesTotal.WithLabelValues(action, Result(outcome)).Inc()
	if outcome.Skipped {
		return
	}
	DispatchesInFlight.Dec()
	DispatchDuration.WithLabelValues(action).Observe(outcome.Duration.Seconds())
}

func (r *Recorder) ProcessedDirectories(n int) {
	ProcessedDirectories.Set(float64(n))
}

// Result is the result label of an outcome: skipped, succeeded or failed.
func Result(outcome importing.DispatchOutcome) string {
	switch {
	case outcome.Skipped:
		return "skipped"
	case outcome.Succeeded:
		return "succeeded"
	default:
		return "failed"
	}
}
