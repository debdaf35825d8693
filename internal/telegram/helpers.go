package telegram

import (
	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func sendMessage(bot MessageSender, msg tgbotapi.Chattable) {
	if _, err := bot.Send(msg); err != nil {
		log.Error("Failed to send Telegram message", "error", err)
	}
}
