package http

import (
	"net/http"

	"github.com/mauv0809/boardgame-tracker/internal/commands"
	"github.com/mauv0809/boardgame-tracker/internal/config"
	"github.com/mauv0809/boardgame-tracker/internal/metrics"
	"github.com/mauv0809/boardgame-tracker/internal/notifier"
	"github.com/mauv0809/boardgame-tracker/internal/pubsub"
)

func NewServer(
	tracker commands.Service,
	chat Dispatcher,
	usage metrics.UsageStore,
	metricsSvc metrics.Metrics,
	metricsHandler http.Handler,
	cfg config.Config,
	notifier notifier.Notifier,
	pubsub pubsub.PubSubClient,
) *Server {
	server := &Server{
		Tracker:        tracker,
		Commands:       chat,
		Usage:          usage,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	verified := s.slackVerifyMiddleware

	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/games", Chain(s.ListGamesHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/adjustments", Chain(s.ListAdjustmentsHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/leaderboard", Chain(s.LeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("GET /api/stats", Chain(s.UsageStatsHandler(), paramsMiddleware))
	s.Router.Handle("DELETE /api/games/{id}", Chain(s.RemoveGameHandler(), paramsMiddleware))
	s.Router.Handle("DELETE /api/adjustments/{id}", Chain(s.RemoveAdjustmentHandler(), paramsMiddleware))
	s.Router.Handle("POST /api/leaderboard/announce", Chain(s.AnnounceLeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("POST /slack/command", Chain(s.SlackCommandHandler(), paramsMiddleware, verified))
	s.Router.Handle("POST /pubsub/game-recorded", Chain(s.GameRecordedHandler(), paramsMiddleware))
	s.Router.Handle("POST /pubsub/adjustment-recorded", Chain(s.AdjustmentRecordedHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
