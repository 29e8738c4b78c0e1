package notify

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/okhramov/perimeter-sentinel/internal/domain/watch"
)

// Telegram pushes alert transitions to a chat via a bot. Credentials come
// from the configuration file; the bot only ever sends, it never polls.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegram authorizes the bot. A bad token or unreachable API fails
// construction so misconfiguration surfaces at startup, not at the first
// intrusion.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("authorize telegram bot: %w", err)
	}

	return &Telegram{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// Name returns the type name of the notifier.
func (t *Telegram) Name() string {
	return "telegram"
}

// Send pushes one message describing the transition.
func (t *Telegram) Send(_ context.Context, snap watch.Snapshot) error {
	msg := tgbotapi.NewMessage(t.chatID, formatTransition(snap))
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	return nil
}

// formatTransition renders the notification text for a transition snapshot.
func formatTransition(snap watch.Snapshot) string {
	distance := "no valid reading"
	if snap.Reading.DistanceValid() {
		distance = fmt.Sprintf("%.1f cm", snap.Reading.DistanceCM)
	}

	headline := "Area is safe again"
	if snap.State == watch.StateAlert {
		headline = "INTRUSION DETECTED"
	}

	return fmt.Sprintf("%s\nDistance: %s\nCycle: %d\nTime: %s",
		headline, distance, snap.Cycle, snap.GeneratedAt.Format(time.RFC3339))
}
