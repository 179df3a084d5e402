// Package notify delivers budget alerts to the owner's channels.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier delivers one alert message.
type Notifier interface {
	Notify(ctx context.Context, ownerID, message string) error
}

// TelegramNotifier posts alerts to a Telegram chat.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegram(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	slog.Info("Telegram notifier ready", "bot", bot.Self.UserName, "chat_id", chatID)
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

func (n *TelegramNotifier) Notify(ctx context.Context, ownerID, message string) error {
	msg := tgbotapi.NewMessage(n.chatID, fmt.Sprintf("[%s] %s", ownerID, message))
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	slog.InfoContext(ctx, "Delivered budget alert", "owner", ownerID, "channel", "telegram")
	return nil
}

// LogNotifier is the fallback when no delivery channel is configured.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, ownerID, message string) error {
	slog.InfoContext(ctx, "Budget alert", "owner", ownerID, "message", message)
	return nil
}

var (
	_ Notifier = (*TelegramNotifier)(nil)
	_ Notifier = LogNotifier{}
)
