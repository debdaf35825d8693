package telegram

import (
	"context"
	"errors"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/mauv0809/boardgame-tracker/internal/commands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockMessageSender struct {
	mock.Mock
}

func (m *MockMessageSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	args := m.Called(c)
	return args.Get(0).(tgbotapi.Message), args.Error(1)
}

func (m *MockMessageSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	args := m.Called(c)
	return args.Get(0).(*tgbotapi.APIResponse), args.Error(1)
}

type stubDispatcher struct {
	reply    commands.Reply
	err      error
	requests []commands.Request
}

func (s *stubDispatcher) Handle(ctx context.Context, req commands.Request) (commands.Reply, error) {
	s.requests = append(s.requests, req)
	return s.reply, s.err
}

func textMessage(chatID, userID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 7,
		Chat:      &tgbotapi.Chat{ID: chatID},
		From:      &tgbotapi.User{ID: userID},
		Text:      text,
	}
}

func TestHandleMessage_PlainReply(t *testing.T) {
	sender := new(MockMessageSender)
	router := &stubDispatcher{reply: commands.Reply{Text: "What game was played? (e.g., 'Catan')"}}
	h := NewHandler(sender, router)

	sender.On("Send", tgbotapi.NewMessage(100, "What game was played? (e.g., 'Catan')")).Return(tgbotapi.Message{}, nil).Once()

	h.HandleUpdate(context.Background(), tgbotapi.Update{Message: textMessage(100, 5, "/add_auto")})

	sender.AssertExpectations(t)
	assert.Equal(t, []commands.Request{{Key: "tg:100:5", Text: "/add_auto"}}, router.requests)
}

func TestHandleMessage_HTMLWithButtons(t *testing.T) {
	sender := new(MockMessageSender)
	router := &stubDispatcher{reply: commands.Reply{
		Text: "<b>Pick</b>",
		HTML: true,
		Buttons: []commands.Button{
			{Label: "(Game) ID 1: Catan", Data: "game_1"},
			{Label: strings.Repeat("x", 80), Data: "adj_2"},
		},
	}}
	h := NewHandler(sender, router)

	sender.On("Send", mock.MatchedBy(func(c tgbotapi.Chattable) bool {
		msg, ok := c.(tgbotapi.MessageConfig)
		if !ok || msg.ParseMode != tgbotapi.ModeHTML {
			return false
		}
		markup, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
		if !ok || len(markup.InlineKeyboard) != 2 {
			return false
		}
		second := markup.InlineKeyboard[1][0]
		return markup.InlineKeyboard[0][0].Text == "(Game) ID 1: Catan" &&
			*second.CallbackData == "adj_2" &&
			len([]rune(second.Text)) == maxButtonLabel
	})).Return(tgbotapi.Message{}, nil).Once()

	h.HandleMessage(context.Background(), textMessage(100, 5, "/remove"))

	sender.AssertExpectations(t)
}

func TestHandleMessage_EmptyReplySendsNothing(t *testing.T) {
	sender := new(MockMessageSender)
	h := NewHandler(sender, &stubDispatcher{})

	h.HandleMessage(context.Background(), textMessage(100, 5, "just chatting"))

	sender.AssertNotCalled(t, "Send", mock.Anything)
}

func TestHandleMessage_RouterFailure(t *testing.T) {
	sender := new(MockMessageSender)
	h := NewHandler(sender, &stubDispatcher{err: errors.New("boom")})

	sender.On("Send", tgbotapi.NewMessage(100, genericFailure)).Return(tgbotapi.Message{}, nil).Once()

	h.HandleMessage(context.Background(), textMessage(100, 5, "/view"))

	sender.AssertExpectations(t)
}

func TestHandleCallback(t *testing.T) {
	sender := new(MockMessageSender)
	router := &stubDispatcher{reply: commands.Reply{Text: "Game entry with ID 1 has been removed."}}
	h := NewHandler(sender, router)

	callback := &tgbotapi.CallbackQuery{
		ID:      "cb-1",
		From:    &tgbotapi.User{ID: 5},
		Message: textMessage(100, 99, "Select an entry to remove (game or adjustment):"),
		Data:    "game_1",
	}

	sender.On("Request", tgbotapi.NewCallback("cb-1", "")).Return(&tgbotapi.APIResponse{Ok: true}, nil).Once()
	sender.On("Send", tgbotapi.NewEditMessageText(100, 7, "Game entry with ID 1 has been removed.")).Return(tgbotapi.Message{}, nil).Once()

	h.HandleUpdate(context.Background(), tgbotapi.Update{CallbackQuery: callback})

	sender.AssertExpectations(t)
	assert.Equal(t, []commands.Request{{Key: "tg:100:5", Callback: "game_1"}}, router.requests)
}

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "tg:1", sessionKey(1, nil))
	assert.Equal(t, "tg:1:2", sessionKey(1, &tgbotapi.User{ID: 2}))
}
