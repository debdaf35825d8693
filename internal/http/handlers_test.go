package http

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/mauv0809/boardgame-tracker/internal/banter"
	"github.com/mauv0809/boardgame-tracker/internal/commands"
	"github.com/mauv0809/boardgame-tracker/internal/config"
	"github.com/mauv0809/boardgame-tracker/internal/database"
	"github.com/mauv0809/boardgame-tracker/internal/dialogue"
	"github.com/mauv0809/boardgame-tracker/internal/leaderboard"
	"github.com/mauv0809/boardgame-tracker/internal/metrics"
	"github.com/mauv0809/boardgame-tracker/internal/notifier"
	"github.com/mauv0809/boardgame-tracker/internal/pubsub"
	"github.com/mauv0809/boardgame-tracker/internal/record"
	"github.com/mauv0809/boardgame-tracker/internal/scoring"
	"github.com/mauv0809/boardgame-tracker/internal/tracker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

const testSlackSigningSecret = "test-signing-secret"

type testServer struct {
	*Server
	tracker  *tracker.Tracker
	notifier *notifier.Mock
}

// setupTestServer wires a server over an in-memory database and mock clients.
func setupTestServer(t *testing.T, slackSigningSecret string) testServer {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	t.Cleanup(teardown)

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	publisher := pubsub.NewMock()
	tr := tracker.New(record.New(db), dialogue.NewMemoryRepository(), publisher, metricsSvc,
		tracker.WithClock(func() time.Time { return time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC) }))
	usage := metrics.New(db)
	router := commands.NewRouter(tr, banter.New(banter.Comebacks, rand.NewPCG(1, 2)), metricsSvc, usage)

	mockNotifier := notifier.NewMock()
	mockNotifier.FormatTextResponseFunc = func(text string) (any, error) {
		return slack.Message{Msg: slack.Msg{ResponseType: slack.ResponseTypeEphemeral, Text: text}}, nil
	}
	mockNotifier.FormatLeaderboardResponseFunc = func(boards leaderboard.Leaderboards) (any, error) {
		return slack.Message{Msg: slack.Msg{ResponseType: slack.ResponseTypeInChannel, Text: "leaderboard"}}, nil
	}

	cfg := config.Config{Slack: config.SlackConfig{SigningSecret: slackSigningSecret}}
	server := NewServer(tr, router, usage, metricsSvc, metrics.NewMetricsHandler(reg), cfg, mockNotifier, publisher)
	return testServer{Server: server, tracker: tr, notifier: mockNotifier}
}

// createSlackCommandRequest creates a signed slash command request.
func createSlackCommandRequest(t *testing.T, form url.Values, signingSecret string) *http.Request {
	t.Helper()

	body := form.Encode()
	req, err := http.NewRequest("POST", "/slack/command", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	req.Header.Set("X-Slack-Request-Timestamp", timestamp)

	h := hmac.New(sha256.New, []byte(signingSecret))
	h.Write([]byte(fmt.Sprintf("v0:%s:%s", timestamp, body)))
	req.Header.Set("X-Slack-Signature", "v0="+hex.EncodeToString(h.Sum(nil)))
	return req
}

func slashCommand(command, text string) url.Values {
	return url.Values{
		"command":    {command},
		"text":       {text},
		"user_id":    {"U1"},
		"user_name":  {"alice"},
		"channel_id": {"C1"},
	}
}

func serve(s testServer, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	return rr
}

// recordGame plays a full add_auto dialogue through the tracker.
func recordGame(t *testing.T, tr *tracker.Tracker, answers ...string) record.Game {
	t.Helper()
	ctx := context.Background()
	_, err := tr.StartDialogue(ctx, "seed", dialogue.KindAddAuto)
	require.NoError(t, err)
	var out tracker.Outcome
	for _, a := range answers {
		out, err = tr.AdvanceDialogue(ctx, "seed", a)
		require.NoError(t, err)
	}
	require.NotNil(t, out.Result)
	return out.Result.Game
}

func TestHealthCheckHandler(t *testing.T) {
	s := setupTestServer(t, "")

	rr := serve(s, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK!", rr.Body.String())
}

func TestListGamesHandler(t *testing.T) {
	s := setupTestServer(t, "")

	rr := serve(s, httptest.NewRequest("GET", "/api/games", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())

	recordGame(t, s.tracker, "Catan", "solo", "Alice, Bob", "1, 2", "today")

	rr = serve(s, httptest.NewRequest("GET", "/api/games", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var games []record.Game
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &games))
	require.Len(t, games, 1)
	assert.Equal(t, "Catan", games[0].Name)
	assert.Equal(t, scoring.Solo, games[0].Type)
}

func TestLeaderboardHandler(t *testing.T) {
	s := setupTestServer(t, "")
	recordGame(t, s.tracker, "Catan", "solo", "Alice, Bob, Carol", "1, 2, 3", "today")
	_, err := s.tracker.RecordAdjustment(context.Background(), "Carol", 2, "snacks")
	require.NoError(t, err)

	rr := serve(s, httptest.NewRequest("GET", "/api/leaderboard", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var boards leaderboard.Leaderboards
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &boards))
	require.Len(t, boards.Overall, 3)
	assert.Equal(t, "Alice", boards.Overall[0].DisplayName)
	assert.Equal(t, 3.0, boards.Overall[0].Total)
	assert.Equal(t, "Carol", boards.Overall[1].DisplayName)
	assert.Equal(t, 2.0, boards.Overall[1].Total)
	assert.True(t, boards.Overall[0].Provisional)

	rr = serve(s, httptest.NewRequest("GET", "/api/adjustments", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"reason":"snacks"`)
}

func TestRemoveHandlers(t *testing.T) {
	s := setupTestServer(t, "")
	game := recordGame(t, s.tracker, "Azul", "team", "Alice, Bob", "1, 2", "today")

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"bad id", "/api/games/abc", http.StatusBadRequest},
		{"dry run keeps the game", fmt.Sprintf("/api/games/%d?dry_run=true", game.ID), http.StatusNoContent},
		{"existing game", fmt.Sprintf("/api/games/%d", game.ID), http.StatusNoContent},
		{"already removed", fmt.Sprintf("/api/games/%d", game.ID), http.StatusNotFound},
		{"missing adjustment", "/api/adjustments/7", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(s, httptest.NewRequest("DELETE", tt.path, nil))
			assert.Equal(t, tt.status, rr.Code)
		})
	}

	games, err := s.tracker.ListGames(context.Background())
	require.NoError(t, err)
	assert.Empty(t, games)
}

func TestUsageStatsHandler(t *testing.T) {
	s := setupTestServer(t, testSlackSigningSecret)

	serve(s, createSlackCommandRequest(t, slashCommand("/comeback", ""), testSlackSigningSecret))
	serve(s, createSlackCommandRequest(t, slashCommand("/comeback", ""), testSlackSigningSecret))

	rr := serve(s, httptest.NewRequest("GET", "/api/stats", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var counts map[string]int
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &counts))
	assert.Equal(t, 2, counts["comeback"])
}

func TestAnnounceLeaderboardHandler(t *testing.T) {
	s := setupTestServer(t, "")

	rr := serve(s, httptest.NewRequest("POST", "/api/leaderboard/announce", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, s.notifier.SendLeaderboardCalls, 1)
}

func TestMetricsEndpoint(t *testing.T) {
	s := setupTestServer(t, "")
	recordGame(t, s.tracker, "Catan", "pair", "A, B, C, D", "1, 1, 2, 2", "today")

	rr := serve(s, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `boardgame_games_recorded_total{game_type="pair"} 1`)
}

func TestSlackCommandHandler(t *testing.T) {
	s := setupTestServer(t, testSlackSigningSecret)

	t.Run("rejects bad signature", func(t *testing.T) {
		req := createSlackCommandRequest(t, slashCommand("/leaderboard", ""), "wrong-secret")
		assert.Equal(t, http.StatusUnauthorized, serve(s, req).Code)
	})

	t.Run("leaderboard uses block formatting", func(t *testing.T) {
		req := createSlackCommandRequest(t, slashCommand("/leaderboard", ""), testSlackSigningSecret)
		rr := serve(s, req)
		require.Equal(t, http.StatusOK, rr.Code)

		var msg slack.Message
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &msg))
		assert.Equal(t, "leaderboard", msg.Text)
	})

	t.Run("dialogue through /reply", func(t *testing.T) {
		steps := []struct {
			command, text, want string
		}{
			{"/add_auto", "", "What game was played?"},
			{"/reply", "Catan", "'solo', 'team', or 'pair'"},
			{"/reply", "solo", "Who played?"},
			{"/reply", "Alice, Bob", "rankings"},
			{"/reply", "2, 1", "YYYY-MM-DD"},
			{"/reply", "today", "Game 'Catan' on 2025-06-01 recorded"},
			{"/reply", "anything", noDialogueHint},
		}
		for _, step := range steps {
			rr := serve(s, createSlackCommandRequest(t, slashCommand(step.command, step.text), testSlackSigningSecret))
			require.Equal(t, http.StatusOK, rr.Code)
			var msg slack.Message
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &msg))
			assert.Contains(t, msg.Text, step.want, "after %s %s", step.command, step.text)
		}
	})

	t.Run("help is converted from HTML", func(t *testing.T) {
		rr := serve(s, createSlackCommandRequest(t, slashCommand("/help", ""), testSlackSigningSecret))
		var msg slack.Message
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &msg))
		assert.Contains(t, msg.Text, "*Here's what you can do:*")
		assert.Contains(t, msg.Text, "<player_name>")
	})

	t.Run("remove menu lists text commands", func(t *testing.T) {
		rr := serve(s, createSlackCommandRequest(t, slashCommand("/remove", ""), testSlackSigningSecret))
		var msg slack.Message
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &msg))
		assert.Contains(t, msg.Text, "`/remove game 1`")
	})
}

func TestSlackCommandHandler_NoSecretConfigured(t *testing.T) {
	s := setupTestServer(t, "")
	req := createSlackCommandRequest(t, slashCommand("/leaderboard", ""), "")
	assert.Equal(t, http.StatusUnauthorized, serve(s, req).Code)
}

func pushRequest(t *testing.T, path string, payload any) *http.Request {
	t.Helper()
	data, err := msgpack.Marshal(payload)
	require.NoError(t, err)

	var envelope pushMessage
	envelope.Subscription = "projects/test/subscriptions/sub"
	envelope.Message.ID = "1"
	envelope.Message.Data = base64.StdEncoding.EncodeToString(data)
	body, err := json.Marshal(envelope)
	require.NoError(t, err)
	return httptest.NewRequest("POST", path, bytes.NewReader(body))
}

func TestGameRecordedHandler(t *testing.T) {
	s := setupTestServer(t, "")
	game := record.Game{ID: 3, Name: "Catan", Type: scoring.Solo, Players: []record.PlayerResult{{Name: "Alice", Rank: 1, Points: 1}}}

	rr := serve(s, pushRequest(t, "/pubsub/game-recorded", pubsub.GameRecorded{Game: game}))

	assert.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, s.notifier.SendGameRecordedCalls, 1)
	assert.Equal(t, "Catan", s.notifier.SendGameRecordedCalls[0].Name)
	assert.Equal(t, int64(3), s.notifier.SendGameRecordedCalls[0].ID)
}

func TestAdjustmentRecordedHandler(t *testing.T) {
	s := setupTestServer(t, "")
	adj := record.Adjustment{ID: 4, Player: "Bob", Delta: -2, Reason: "late"}

	rr := serve(s, pushRequest(t, "/pubsub/adjustment-recorded", pubsub.AdjustmentRecorded{Adjustment: adj}))

	assert.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, s.notifier.SendAdjustmentRecordedCalls, 1)
	assert.Equal(t, "late", s.notifier.SendAdjustmentRecordedCalls[0].Reason)
}

func TestPushHandler_BadEnvelope(t *testing.T) {
	s := setupTestServer(t, "")

	rr := serve(s, httptest.NewRequest("POST", "/pubsub/game-recorded", strings.NewReader("{not json")))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = serve(s, httptest.NewRequest("POST", "/pubsub/game-recorded", strings.NewReader(`{"message":{"data":"!!!"}}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, s.notifier.SendGameRecordedCalls)
}
