package importing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// DispatchOutcome is the result of one Dispatch call.
type DispatchOutcome struct {
	ID          string        `json:"id"`
	Path        string        `json:"path"`
	Action      ActionKind    `json:"action"`
	IsDirectory bool          `json:"is_directory"`
	Skipped     bool          `json:"skipped"`
	SkipReason  string        `json:"skip_reason,omitempty"`
	Succeeded   bool          `json:"succeeded"`
	Err         error         `json:"-"`
	Error       string        `json:"error,omitempty"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration"`
}

const (
	SkipUnsupported = "unsupported file"
	SkipCovered     = "covered by processed directory"
	SkipInFlight    = "directory import already in flight"
)

// Dispatcher decides whether a classified path is imported, runs the importer and keeps the ProcessedSet in sync.
type Dispatcher struct {
	importer  Importer
	processed *ProcessedSet
	tagReader TagReader
	history   History
	metrics   Metrics
	notifiers []Notifier
}

// NewDispatcher creates a new dispatcher. tagReader, history and metrics may be nil.
func NewDispatcher(importer Importer, processed *ProcessedSet, tagReader TagReader, history History, metrics Metrics, notifiers ...Notifier) *Dispatcher {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Dispatcher{
		importer:  importer,
		processed: processed,
		tagReader: tagReader,
		history:   history,
		metrics:   metrics,
		notifiers: notifiers,
	}
}

// Dispatch runs or skips the import for action. Errors are reported in the outcome, never returned.
func (d *Dispatcher) Dispatch(ctx context.Context, action Action) DispatchOutcome {
	outcome := DispatchOutcome{
		ID:          uuid.New().String(),
		Path:        action.Path,
		Action:      action.Kind,
		IsDirectory: action.IsDirectory(),
		StartedAt:   time.Now(),
	}
	logger := slog.With("dispatch_id", outcome.ID, "path", action.Path, "action", action.Kind)

	var mode ImportMode
	switch action.Kind {
	case ActionIgnore:
		return d.skip(ctx, logger, outcome, SkipUnsupported)
	case ActionImportFile:
		if d.processed.IsCoveredByProcessedAncestor(action.Path) {
			return d.skip(ctx, logger, outcome, SkipCovered)
		}
		mode = SingletonMode
		logger = d.withTrackInfo(ctx, logger, action.Path)
	case ActionImportDirectory:
		if !d.processed.Claim(action.Path) {
			return d.skip(ctx, logger, outcome, SkipInFlight)
		}
		mode = DirectoryMode
	default:
		outcome.Err = fmt.Errorf("unknown action %q", action.Kind)
		outcome.Error = outcome.Err.Error()
		logger.Error("Dispatcher.Dispatch: cannot dispatch", "error", outcome.Err)
		return outcome
	}

	logger.Debug("Running import", "mode", mode)
	d.metrics.DispatchStarted()
	err := d.importer.Import(ctx, action.Path, mode)
	outcome.Duration = time.Since(outcome.StartedAt)

	if err != nil {
		outcome.Err = err
		outcome.Error = err.Error()
		if action.IsDirectory() {
			// Roll back the claim so a later event for the same directory is retried
			d.processed.Unmark(action.Path)
		}
		logger.Error("Failed to import", "mode", mode, "error", err, "duration", outcome.Duration.Round(time.Millisecond), "rolled_back", action.IsDirectory())
	} else {
		if action.IsDirectory() {
			d.processed.MarkProcessed(action.Path)
		}
		outcome.Succeeded = true
		logger.Info("Successfully imported", "mode", mode, "duration", outcome.Duration.Round(time.Millisecond))
	}

	d.finish(ctx, logger, outcome)
	for _, n := range d.notifiers {
		n.Notify(ctx, outcome)
	}
	return outcome
}

func (d *Dispatcher) skip(ctx context.Context, logger *slog.Logger, outcome DispatchOutcome, reason string) DispatchOutcome {
	outcome.Skipped = true
	outcome.SkipReason = reason
	outcome.Succeeded = true
	if outcome.Action == ActionIgnore {
		logger.Debug("Skipping", "reason", reason)
	} else {
		logger.Info("Skipping", "reason", reason)
	}
	d.finish(ctx, logger, outcome)
	return outcome
}

// finish records the outcome in metrics and history.
func (d *Dispatcher) finish(ctx context.Context, logger *slog.Logger, outcome DispatchOutcome) {
	d.metrics.DispatchFinished(outcome)
	d.metrics.ProcessedDirectories(d.processed.Len())
	if d.history == nil || outcome.Action == ActionIgnore {
		return
	}
	if err := d.history.Record(ctx, outcome); err != nil {
		logger.Warn("Failed to record dispatch in history", "error", err)
	}
}

func (d *Dispatcher) withTrackInfo(ctx context.Context, logger *slog.Logger, path string) *slog.Logger {
	if d.tagReader == nil {
		return logger
	}
	info, err := d.tagReader.ReadTrackInfo(ctx, path)
	if err != nil {
		logger.Debug("Could not read tags", "error", err)
		return logger
	}
	return logger.With("artist", info.Artist, "album", info.Album, "title", info.Title)
}

// Processed returns the directories currently considered dispatched.
func (d *Dispatcher) Processed() []string {
	return d.processed.Snapshot()
}

// Forget removes dir from the processed set so the next event for it is imported again.
func (d *Dispatcher) Forget(dir string) {
	d.processed.Unmark(dir)
	d.metrics.ProcessedDirectories(d.processed.Len())
	slog.Info("Removed directory from processed list", "path", dir)
}

// Recent returns the latest recorded outcomes, newest first.
func (d *Dispatcher) Recent(ctx context.Context, limit int) ([]DispatchOutcome, error) {
	if d.history == nil {
		return nil, ErrHistoryDisabled
	}
	return d.history.Recent(ctx, limit)
}
