package notify

import (
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram delivers alerts to a fixed Telegram chat.
type Telegram struct {
	api    telegramAPI
	chatID int64
	log    *slog.Logger
}

// NewTelegram creates a Telegram notifier with the given bot token
// and destination chat.
func NewTelegram(token string, chatID int64, log *slog.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	return &Telegram{api: api, chatID: chatID, log: log}, nil
}

// Emit sends the alert asynchronously so the caller never waits on
// the Telegram API.
func (t *Telegram) Emit(title, message string) {
	go func() {
		msg := tgbotapi.NewMessage(t.chatID, title+"\n\n"+message)
		msg.DisableWebPagePreview = true
		if _, err := t.api.Send(msg); err != nil {
			t.log.Error("send alert", "chat_id", t.chatID, "error", err)
		}
	}()
}
