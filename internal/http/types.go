package http

import (
	"context"
	"net/http"

	"github.com/mauv0809/boardgame-tracker/internal/commands"
	"github.com/mauv0809/boardgame-tracker/internal/config"
	"github.com/mauv0809/boardgame-tracker/internal/metrics"
	"github.com/mauv0809/boardgame-tracker/internal/notifier"
	"github.com/mauv0809/boardgame-tracker/internal/pubsub"
)

// Dispatcher routes a chat request to a reply.
type Dispatcher interface {
	Handle(ctx context.Context, req commands.Request) (commands.Reply, error)
}

type Server struct {
	Tracker        commands.Service
	Commands       Dispatcher
	Usage          metrics.UsageStore
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}

// pushMessage is the envelope Pub/Sub push subscriptions POST to us.
type pushMessage struct {
	Subscription string `json:"subscription"`
	Message      struct {
		ID   string `json:"messageId"`
		Data string `json:"data"` // base64-encoded msgpack payload
	} `json:"message"`
}
