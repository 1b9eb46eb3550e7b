package beets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/contre95/beetwatch/src/features/config"
	"github.com/contre95/beetwatch/src/features/importing"
)

// Importer runs `beet import` as an external process.
type Importer struct {
	command       string
	configPath    string
	logPath       string
	verbosity     int
	directoryArgs []string
	fileArgs      []string
	timeout       time.Duration
}

// NewImporter creates an importer that passes configPath to beet with -c.
func NewImporter(cfg config.Beets, configPath string) *Importer {
	return &Importer{
		command:       cfg.Command,
		configPath:    configPath,
		logPath:       cfg.LogPath,
		verbosity:     cfg.Verbosity,
		directoryArgs: cfg.DirectoryArgs,
		fileArgs:      cfg.FileArgs,
		timeout:       cfg.Timeout,
	}
}

// Args builds the beet argument list for path.
func (i *Importer) Args(path string, mode importing.ImportMode) []string {
	args := make([]string, 0, 6+len(i.directoryArgs))
	if i.verbosity > 0 {
		args = append(args, "-"+strings.Repeat("v", i.verbosity))
	}
	args = append(args, "-c", i.configPath, "import")
	if mode == importing.DirectoryMode {
		args = append(args, i.directoryArgs...)
	} else {
		args = append(args, i.fileArgs...)
	}
	return append(args, path)
}

// Import runs beet for path and waits for it to exit. Output is appended to the beets log.
func (i *Importer) Import(ctx context.Context, path string, mode importing.ImportMode) error {
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}

	logFile, err := os.OpenFile(i.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open beets log: %w", err)
	}
	defer logFile.Close()

	args := i.Args(path, mode)
	cmd := exec.CommandContext(ctx, i.command, args...)
	cmd.Env = os.Environ()
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	fmt.Fprintf(logFile, "[%s] %s\n", time.Now().Format(time.RFC3339), cmd.String())
	slog.Debug("Running command", "command", cmd.String())

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s timed out after %s", importing.ErrImportFailed, i.command, i.timeout)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%w: %s exited with code %d", importing.ErrImportFailed, i.command, exitErr.ExitCode())
		}
		return fmt.Errorf("failed to run %s: %w", i.command, err)
	}
	return nil
}
