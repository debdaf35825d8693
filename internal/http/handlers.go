package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/boardgame-tracker/internal/record"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ListGamesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		games, err := s.Tracker.ListGames(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		if games == nil {
			games = []record.Game{}
		}
		writeJSON(w, http.StatusOK, games)
	}
}

func (s *Server) ListAdjustmentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adjs, err := s.Tracker.ListAdjustments(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		if adjs == nil {
			adjs = []record.Adjustment{}
		}
		writeJSON(w, http.StatusOK, adjs)
	}
}

func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		boards, err := s.Tracker.ComputeLeaderboards(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, boards)
	}
}

// AnnounceLeaderboardHandler posts the current leaderboards to the channel.
func (s *Server) AnnounceLeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		boards, err := s.Tracker.ComputeLeaderboards(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		if err := s.Notifier.SendLeaderboard(boards, isDryRunFromContext(r)); err != nil {
			log.Error("Failed to announce leaderboard", "error", err)
			http.Error(w, "Failed to announce leaderboard", http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Leaderboard announced.")
	}
}

// UsageStatsHandler returns how often each command has been used.
func (s *Server) UsageStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := s.Usage.GetAll()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, counts)
	}
}

func (s *Server) RemoveGameHandler() http.HandlerFunc {
	return s.removeHandler(record.KindGame)
}

func (s *Server) RemoveAdjustmentHandler() http.HandlerFunc {
	return s.removeHandler(record.KindAdjustment)
}

func (s *Server) removeHandler(kind record.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil || id < 1 {
			http.Error(w, fmt.Sprintf("Invalid %s id", kind), http.StatusBadRequest)
			return
		}
		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would have removed record", "kind", kind, "id", id)
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if err := s.Tracker.RemoveRecord(r.Context(), kind, id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
