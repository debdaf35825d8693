package telegram

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/mauv0809/boardgame-tracker/internal/commands"
)

// maxButtonLabel is Telegram's practical limit for inline button text.
const maxButtonLabel = 64

const genericFailure = "Something went wrong on my side, please try again."

// MessageSender is the part of tgbotapi.BotAPI the handler uses.
type MessageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Dispatcher routes a chat request to a reply.
type Dispatcher interface {
	Handle(ctx context.Context, req commands.Request) (commands.Reply, error)
}

type Handler struct {
	Bot    MessageSender
	Router Dispatcher
}

func NewHandler(bot MessageSender, router Dispatcher) *Handler {
	return &Handler{
		Bot:    bot,
		Router: router,
	}
}

// HandleUpdate processes one update from the Bot API.
func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		h.HandleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		h.HandleCallback(ctx, update.CallbackQuery)
	}
}

// HandleMessage routes a text message or command and sends the reply.
func (h *Handler) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Chat == nil || msg.Text == "" {
		return
	}
	chatID := msg.Chat.ID

	reply, err := h.Router.Handle(ctx, commands.Request{
		Key:  sessionKey(chatID, msg.From),
		Text: msg.Text,
	})
	if err != nil {
		log.Error("Failed to handle message", "chat", chatID, "error", err)
		sendMessage(h.Bot, tgbotapi.NewMessage(chatID, genericFailure))
		return
	}
	if reply.Text == "" {
		return
	}

	out := tgbotapi.NewMessage(chatID, reply.Text)
	if reply.HTML {
		out.ParseMode = tgbotapi.ModeHTML
	}
	if len(reply.Buttons) > 0 {
		out.ReplyMarkup = keyboard(reply.Buttons)
	}
	sendMessage(h.Bot, out)
}

// HandleCallback answers an inline button press and replaces the menu
// message with the outcome.
func (h *Handler) HandleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if _, err := h.Bot.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		log.Warn("Failed to answer callback query", "error", err)
	}
	if callback.Message == nil || callback.Message.Chat == nil {
		return
	}
	chatID := callback.Message.Chat.ID

	reply, err := h.Router.Handle(ctx, commands.Request{
		Key:      sessionKey(chatID, callback.From),
		Callback: callback.Data,
	})
	text := reply.Text
	if err != nil {
		log.Error("Failed to handle callback", "chat", chatID, "data", callback.Data, "error", err)
		text = genericFailure
	}
	if text == "" {
		return
	}
	sendMessage(h.Bot, tgbotapi.NewEditMessageText(chatID, callback.Message.MessageID, text))
}

// sessionKey scopes dialogues to one user within one chat.
func sessionKey(chatID int64, from *tgbotapi.User) string {
	if from == nil {
		return fmt.Sprintf("tg:%d", chatID)
	}
	return fmt.Sprintf("tg:%d:%d", chatID, from.ID)
}

func keyboard(buttons []commands.Button) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(buttons))
	for _, b := range buttons {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(truncate(b.Label, maxButtonLabel), b.Data),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
