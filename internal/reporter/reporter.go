// Package reporter pushes short failure notices to a Telegram admin chat,
// useful when a feed starts failing silently during unattended refreshes.
package reporter

import (
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Reporter is nil-safe: a nil receiver or an unset chat id turns Errorf into
// a no-op, so callers never need to guard the optional wiring.
type Reporter struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func New(bot *tgbotapi.BotAPI, chatID int64) *Reporter {
	return &Reporter{bot: bot, chatID: chatID}
}

func (r *Reporter) Errorf(format string, args ...any) {
	if r == nil || r.bot == nil || r.chatID == 0 {
		return
	}
	msg := tgbotapi.NewMessage(r.chatID, fmt.Sprintf(format, args...))
	if _, err := r.bot.Send(msg); err != nil {
		slog.Error("failed to send error notification", "err", err)
	}
}
