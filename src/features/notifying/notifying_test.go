package notifying

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/contre95/beetwatch/src/features/config"
	"github.com/contre95/beetwatch/src/features/importing"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MockSink records every outcome it receives.
type MockSink struct {
	mu       sync.Mutex
	outcomes []importing.DispatchOutcome
	err      error
}

func (m *MockSink) Name() string { return "mock" }

func (m *MockSink) Send(ctx context.Context, outcome importing.DispatchOutcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
	return m.err
}

func (m *MockSink) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.outcomes)
}

// MockSender captures Telegram messages.
type MockSender struct {
	mu       sync.Mutex
	messages []tgbotapi.MessageConfig
	failFor  int64
}

func (m *MockSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg := c.(tgbotapi.MessageConfig)
	if msg.ChatID == m.failFor {
		return tgbotapi.Message{}, errors.New("chat not found")
	}
	m.messages = append(m.messages, msg)
	return tgbotapi.Message{}, nil
}

var (
	succeeded = importing.DispatchOutcome{ID: "1", Path: "/unsorted/AlbumX", Action: importing.ActionImportDirectory, IsDirectory: true, Succeeded: true, Duration: 3 * time.Second}
	failed    = importing.DispatchOutcome{ID: "2", Path: "/unsorted/My_Song.mp3", Action: importing.ActionImportFile, Error: "beet exited with code 1", Duration: time.Second}
	skipped   = importing.DispatchOutcome{ID: "3", Path: "/unsorted/AlbumX/01.mp3", Action: importing.ActionImportFile, Skipped: true, SkipReason: importing.SkipCovered}
)

func TestService_FiltersOutcomes(t *testing.T) {
	tests := []struct {
		name      string
		onSuccess bool
		want      int
	}{
		{"failures only", false, 1},
		{"failures and successes", true, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &MockSink{}
			service := NewService(config.Notify{OnSuccess: tt.onSuccess}, sink)

			for _, o := range []importing.DispatchOutcome{succeeded, failed, skipped} {
				service.Notify(context.Background(), o)
			}
			service.Wait()

			if sink.Count() != tt.want {
				t.Errorf("expected %d notifications, got %d", tt.want, sink.Count())
			}
		})
	}
}

func TestService_SinkErrorDoesNotBlockOthers(t *testing.T) {
	broken := &MockSink{err: errors.New("unreachable")}
	working := &MockSink{}
	service := NewService(config.Notify{}, broken, working)

	service.Notify(context.Background(), failed)
	service.Wait()

	if broken.Count() != 1 || working.Count() != 1 {
		t.Errorf("expected both sinks to be called once, got %d and %d", broken.Count(), working.Count())
	}
}

func TestService_NotifyOutlivesCancelledContext(t *testing.T) {
	sink := &MockSink{}
	service := NewService(config.Notify{}, sink)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	service.Notify(ctx, failed)
	service.Wait()

	if sink.Count() != 1 {
		t.Error("expected notification to be delivered after cancel")
	}
}

func TestWebhook_Render(t *testing.T) {
	webhook, err := NewWebhook(config.Webhook{Command: `notify "{{.Status}}" "{{.Path}}" {{.Action}} {{.Duration}}`})
	if err != nil {
		t.Fatalf("NewWebhook failed: %v", err)
	}
	got, err := webhook.Render()
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	want := `notify "${BEETWATCH_STATUS}" "${BEETWATCH_PATH}" ${BEETWATCH_ACTION} ${BEETWATCH_DURATION}`
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestEnv(t *testing.T) {
	env := strings.Join(Env(succeeded), "\n")
	for _, want := range []string{
		"BEETWATCH_ID=1",
		"BEETWATCH_PATH=/unsorted/AlbumX",
		"BEETWATCH_ACTION=import_directory",
		"BEETWATCH_STATUS=succeeded",
		"BEETWATCH_DURATION=3s",
	} {
		if !strings.Contains(env, want) {
			t.Errorf("expected %s in %v", want, Env(succeeded))
		}
	}
}

func TestWebhook_FileNameIsNeverExecuted(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "executed")
	out := filepath.Join(dir, "webhook.txt")
	webhook, err := NewWebhook(config.Webhook{
		Command: `echo import {{.Status}}: {{.Path}} > ` + out + `; echo "{{.Path}}" >> ` + out,
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewWebhook failed: %v", err)
	}

	outcome := failed
	outcome.Path = "/unsorted/$(touch " + marker + ")`touch " + marker + "`;touch " + marker + ".mp3"
	if err := webhook.Send(context.Background(), outcome); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if _, err := os.Stat(marker); err == nil {
		t.Fatal("file name was executed by the shell")
	}
	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("webhook did not write output: %v", err)
	}
	if !strings.Contains(string(content), outcome.Path) {
		t.Errorf("expected the literal path in the output, got %q", content)
	}
}

func TestWebhook_InvalidTemplate(t *testing.T) {
	if _, err := NewWebhook(config.Webhook{Command: "echo {{.Path"}); err == nil {
		t.Fatal("expected template parse error")
	}
}

func TestWebhook_Send(t *testing.T) {
	out := filepath.Join(t.TempDir(), "webhook.txt")
	webhook, err := NewWebhook(config.Webhook{
		Command: `echo "{{.Status}} {{.Error}}" > ` + out,
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewWebhook failed: %v", err)
	}

	if err := webhook.Send(context.Background(), failed); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("webhook did not write output: %v", err)
	}
	if strings.TrimSpace(string(content)) != "failed beet exited with code 1" {
		t.Errorf("unexpected webhook output %q", content)
	}
}

func TestWebhook_SendFailure(t *testing.T) {
	webhook, err := NewWebhook(config.Webhook{Command: "echo boom >&2; exit 2"})
	if err != nil {
		t.Fatalf("NewWebhook failed: %v", err)
	}
	err = webhook.Send(context.Background(), failed)
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("expected failure with command output, got %v", err)
	}
}

func TestTelegram_SendToEveryChat(t *testing.T) {
	sender := &MockSender{failFor: 3}
	telegram := NewTelegramWithSender(sender, []int64{1, 2, 3})

	err := telegram.Send(context.Background(), failed)
	if err == nil || !strings.Contains(err.Error(), "chat 3") {
		t.Errorf("expected error naming chat 3, got %v", err)
	}
	if len(sender.messages) != 2 {
		t.Fatalf("expected 2 delivered messages, got %d", len(sender.messages))
	}
	if sender.messages[0].ParseMode != tgbotapi.ModeMarkdown {
		t.Errorf("expected markdown parse mode, got %q", sender.messages[0].ParseMode)
	}
}

func TestFormatMessage(t *testing.T) {
	msg := FormatMessage(succeeded)
	if !strings.Contains(msg, "Imported folder") || !strings.Contains(msg, "`AlbumX`") {
		t.Errorf("unexpected success message %q", msg)
	}

	msg = FormatMessage(failed)
	if !strings.Contains(msg, "Failed to import file") || !strings.Contains(msg, "`My_Song.mp3`") {
		t.Errorf("unexpected failure message %q", msg)
	}
	if !strings.Contains(msg, "beet exited with code 1") {
		t.Errorf("expected error in message %q", msg)
	}
}

func TestTelegram_MissingToken(t *testing.T) {
	if _, err := NewTelegram(config.Telegram{Enabled: true}); err == nil {
		t.Fatal("expected error without token")
	}
}
