package notifying

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/contre95/beetwatch/src/features/config"
	"github.com/contre95/beetwatch/src/features/importing"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MessageSender is the part of tgbotapi.BotAPI the notifier needs.
type MessageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram sends outcomes to a fixed list of chats.
type Telegram struct {
	bot     MessageSender
	chatIDs []int64
}

// NewTelegram connects to the Bot API with the configured token.
func NewTelegram(cfg config.Telegram) (*Telegram, error) {
	if cfg.Token == "" {
		return nil, errors.New("telegram bot token is not configured")
	}
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	slog.Info("Telegram bot initialized", "username", bot.Self.UserName)
	return NewTelegramWithSender(bot, cfg.ChatIDs), nil
}

// NewTelegramWithSender creates a notifier around an existing sender.
func NewTelegramWithSender(bot MessageSender, chatIDs []int64) *Telegram {
	return &Telegram{bot: bot, chatIDs: chatIDs}
}

func (t *Telegram) Name() string {
	return "telegram"
}

// Send delivers the outcome to every configured chat.
func (t *Telegram) Send(ctx context.Context, outcome importing.DispatchOutcome) error {
	text := FormatMessage(outcome)
	var errs []error
	for _, chatID := range t.chatIDs {
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ParseMode = tgbotapi.ModeMarkdown
		if _, err := t.bot.Send(msg); err != nil {
			errs = append(errs, fmt.Errorf("chat %d: %w", chatID, err))
		}
	}
	return errors.Join(errs...)
}

// FormatMessage renders an outcome as a Telegram markdown message.
func FormatMessage(outcome importing.DispatchOutcome) string {
	kind := "file"
	if outcome.IsDirectory {
		kind = "folder"
	}
	name := strings.ReplaceAll(filepath.Base(outcome.Path), "`", "'")

	var sb strings.Builder
	if outcome.Succeeded {
		fmt.Fprintf(&sb, "✅ *Imported %s* `%s`\n", kind, name)
	} else {
		fmt.Fprintf(&sb, "❌ *Failed to import %s* `%s`\n", kind, name)
	}
	fmt.Fprintf(&sb, "⏱ %s", outcome.Duration.Round(time.Second))
	if outcome.Error != "" {
		fmt.Fprintf(&sb, "\n%s", escapeMarkdown(outcome.Error))
	}
	return sb.String()
}

func escapeMarkdown(s string) string {
	return strings.NewReplacer("_", "\\_", "*", "\\*", "`", "'", "[", "\\[").Replace(s)
}
