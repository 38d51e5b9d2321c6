package notify

import (
	"context"
	"fmt"
)

// TelegramSender is implemented by telegram.Bot.
type TelegramSender interface {
	SendMessage(ctx context.Context, chatID, text string) error
}

// TelegramNotifier forwards messages to a single chat.
type TelegramNotifier struct {
	bot    TelegramSender
	chatID string
}

func NewTelegramNotifier(bot TelegramSender, chatID string) *TelegramNotifier {
	return &TelegramNotifier{bot: bot, chatID: chatID}
}

func (n *TelegramNotifier) Notify(ctx context.Context, msg Message) error {
	text := msg.Body
	if msg.Subject != "" {
		text = msg.Subject + "\n\n" + msg.Body
	}
	if err := n.bot.SendMessage(ctx, n.chatID, text); err != nil {
		return fmt.Errorf("telegram notification failed: %w", err)
	}
	return nil
}
