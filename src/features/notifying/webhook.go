package notifying

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"text/template"
	"time"

	"github.com/contre95/beetwatch/src/features/config"
	"github.com/contre95/beetwatch/src/features/importing"
)

// Webhook runs a shell command rendered from a text/template for each outcome.
// The template sees .ID, .Path, .Action, .Status, .Error and .Duration, which
// expand to ${BEETWATCH_*} references. The values themselves reach the command
// only through its environment, so file names are never parsed by the shell.
type Webhook struct {
	tmpl    *template.Template
	timeout time.Duration
}

// templateVars maps each template field to the variable carrying its value.
var templateVars = struct {
	ID       string
	Path     string
	Action   string
	Status   string
	Error    string
	Duration string
}{
	ID:       "${BEETWATCH_ID}",
	Path:     "${BEETWATCH_PATH}",
	Action:   "${BEETWATCH_ACTION}",
	Status:   "${BEETWATCH_STATUS}",
	Error:    "${BEETWATCH_ERROR}",
	Duration: "${BEETWATCH_DURATION}",
}

// NewWebhook parses the configured command template.
func NewWebhook(cfg config.Webhook) (*Webhook, error) {
	tmpl, err := template.New("webhook").Parse(cfg.Command)
	if err != nil {
		return nil, fmt.Errorf("failed to parse webhook template: %w", err)
	}
	return &Webhook{tmpl: tmpl, timeout: cfg.Timeout}, nil
}

func (w *Webhook) Name() string {
	return "webhook"
}

// Render executes the command template. The result does not depend on the outcome.
func (w *Webhook) Render() (string, error) {
	var command strings.Builder
	if err := w.tmpl.Execute(&command, templateVars); err != nil {
		return "", fmt.Errorf("failed to execute webhook template: %w", err)
	}
	return command.String(), nil
}

// Env returns the BEETWATCH_* variables describing outcome.
func Env(outcome importing.DispatchOutcome) []string {
	return []string{
		"BEETWATCH_ID=" + outcome.ID,
		"BEETWATCH_PATH=" + outcome.Path,
		"BEETWATCH_ACTION=" + string(outcome.Action),
		"BEETWATCH_STATUS=" + Status(outcome),
		"BEETWATCH_ERROR=" + outcome.Error,
		"BEETWATCH_DURATION=" + outcome.Duration.Round(time.Second).String(),
	}
}

// Send runs the rendered command through /bin/sh and kills it after the timeout.
func (w *Webhook) Send(ctx context.Context, outcome importing.DispatchOutcome) error {
	command, err := w.Render()
	if err != nil {
		return err
	}
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", command)
	cmd.Env = append(os.Environ(), Env(outcome)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("webhook command %q for %s failed: %w: %s", command, outcome.Path, err, strings.TrimSpace(string(out)))
	}
	return nil
}
