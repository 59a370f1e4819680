package notify

import (
	"fmt"
	"html"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier delivers fired reminders as Telegram messages to a single
// chat. Send failures are logged and swallowed: a missed reminder must never
// take the rest of the system down.
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramNotifier authorizes against the Bot API. An invalid or revoked
// token surfaces here, once, as the caller's cue to fall back to degraded
// delivery.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	log.Printf("[info] reminder delivery authorized on account %s", api.Self.UserName)
	return &TelegramNotifier{api: api, chatID: chatID}, nil
}

func (n *TelegramNotifier) Notify(taskID uint, title string) {
	text := fmt.Sprintf("⏰ <b>Task due:</b> %s", html.EscapeString(title))
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := n.api.Send(msg); err != nil {
		log.Printf("[warn] send reminder for task %d: %v", taskID, err)
	}
}
