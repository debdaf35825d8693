package http

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/boardgame-tracker/internal/pubsub"
)

// GameRecordedHandler receives game-recorded push messages and announces the
// game in the channel.
func (s *Server) GameRecordedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawData, err := readPushPayload(r)
		if err != nil {
			log.Error("Failed to read push message", "error", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var event pubsub.GameRecorded
		if err := s.pubsub.ProcessMessage(rawData, &event); err != nil {
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}
		if err := s.Notifier.SendGameRecorded(event.Game, isDryRunFromContext(r)); err != nil {
			log.Error("Failed to announce game", "gameID", event.Game.ID, "error", err)
			http.Error(w, "Failed to announce game", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

func (s *Server) AdjustmentRecordedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawData, err := readPushPayload(r)
		if err != nil {
			log.Error("Failed to read push message", "error", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var event pubsub.AdjustmentRecorded
		if err := s.pubsub.ProcessMessage(rawData, &event); err != nil {
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}
		if err := s.Notifier.SendAdjustmentRecorded(event.Adjustment, isDryRunFromContext(r)); err != nil {
			log.Error("Failed to announce adjustment", "adjustmentID", event.Adjustment.ID, "error", err)
			http.Error(w, "Failed to announce adjustment", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}
