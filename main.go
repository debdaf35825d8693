package main

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/boardgame-tracker/internal/banter"
	"github.com/mauv0809/boardgame-tracker/internal/commands"
	"github.com/mauv0809/boardgame-tracker/internal/config"
	"github.com/mauv0809/boardgame-tracker/internal/database"
	"github.com/mauv0809/boardgame-tracker/internal/dialogue"
	server "github.com/mauv0809/boardgame-tracker/internal/http"
	"github.com/mauv0809/boardgame-tracker/internal/metrics"
	"github.com/mauv0809/boardgame-tracker/internal/notifier/slack"
	"github.com/mauv0809/boardgame-tracker/internal/pubsub"
	"github.com/mauv0809/boardgame-tracker/internal/record"
	"github.com/mauv0809/boardgame-tracker/internal/telegram"
	"github.com/mauv0809/boardgame-tracker/internal/tracker"
)

func main() {
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	log.SetLevel(cfg.Level())

	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	log.Info("Database initialization time recorded", "duration_ms", time.Since(startTime).Milliseconds())
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var events pubsub.PubSubClient
	if cfg.ProjectID == "" {
		log.Info("GCP_PROJECT not set, game events will not be published")
		events = pubsub.NewDisabled()
	} else {
		events, err = pubsub.New(ctx, cfg.ProjectID)
		if err != nil {
			log.Fatalf("Failed to initialize pubsub: %s", err)
		}
	}
	defer events.Close()

	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()
	usage := metrics.New(db)
	if cfg.Slack.Token == "" {
		log.Warn("SLACK_BOT_TOKEN not set, channel announcements will fail")
	}
	notifier := slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)

	gameTracker := tracker.New(record.New(db), dialogue.NewSQLRepository(db), events, metricsSvc)
	comebacks := banter.New(banter.Comebacks, rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	router := commands.NewRouter(gameTracker, comebacks, metricsSvc, usage)

	bot, err := telegram.NewBot(cfg.Telegram.Token, router)
	if err != nil {
		log.Fatalf("Failed to start Telegram bot: %s", err)
	}

	s := server.NewServer(gameTracker, router, usage, metricsSvc, metricsHandler, cfg, notifier, events)
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	botDone := make(chan struct{})
	go func() {
		defer close(botDone)
		bot.Start(ctx)
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server error", "error", err)
		}
		stop()
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
	} else {
		log.Info("Server gracefully stopped")
	}
	<-botDone

	log.Info("Server process shutting down")
}
