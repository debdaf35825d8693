package telegram

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot long-polls the Telegram Bot API and feeds updates to a Handler.
type Bot struct {
	api     *tgbotapi.BotAPI
	handler *Handler
}

// NewBot authenticates with token and wires the router.
func NewBot(token string, router Dispatcher) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	log.Info("Authorized on Telegram", "account", api.Self.UserName)

	return &Bot{
		api:     api,
		handler: NewHandler(api, router),
	}, nil
}

// Start polls for updates until ctx is cancelled. Updates are handled one
// at a time, which serializes dialogue input per chat.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	log.Info("Telegram bot started")
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			log.Info("Telegram bot stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handler.HandleUpdate(ctx, update)
		}
	}
}
