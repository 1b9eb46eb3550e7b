package importing

import (
	"context"
	"errors"
)

// ImportMode selects the argument set of the external import command.
type ImportMode string

const (
	// DirectoryMode imports a directory recursively, grouping files into albums.
	DirectoryMode ImportMode = "directory"
	// SingletonMode imports one file on its own.
	SingletonMode ImportMode = "singleton"
)

var (
	// ErrImportFailed is returned when the import command ran and exited non-zero.
	ErrImportFailed = errors.New("import command failed")
	// ErrHistoryDisabled is returned when no history store is configured.
	ErrHistoryDisabled = errors.New("dispatch history is disabled")
)

// Importer runs the external import command for one path and waits for it to exit.
type Importer interface {
	Import(ctx context.Context, path string, mode ImportMode) error
}

// History stores dispatch outcomes.
type History interface {
	Record(ctx context.Context, outcome DispatchOutcome) error
	Recent(ctx context.Context, limit int) ([]DispatchOutcome, error)
}

// Notifier is told about every dispatch that actually ran the import command.
type Notifier interface {
	Notify(ctx context.Context, outcome DispatchOutcome)
}

// Metrics receives dispatch measurements.
type Metrics interface {
	EventClassified(kind ActionKind)
	DispatchStarted()
	DispatchFinished(outcome DispatchOutcome)
	ProcessedDirectories(n int)
}

type noopMetrics struct{}

func (noopMetrics) EventClassified(ActionKind)       {}
func (noopMetrics) DispatchStarted()                 {}
func (noopMetrics) DispatchFinished(DispatchOutcome) {}
func (noopMetrics) ProcessedDirectories(int)         {}
