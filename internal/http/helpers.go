package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/boardgame-tracker/internal/apperrors"
	"github.com/slack-go/slack"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode JSON response", "error", err)
	}
}

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg any) {
	slackMsg, ok := msg.(slack.Message)
	if !ok {
		log.Error("Failed to cast message to slack.Message")
		http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, slackMsg)
}

// writeError maps domain errors onto status codes.
func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if _, ok := apperrors.AsValidation(err); ok {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	log.Error("Request failed", "error", err)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

// readPushPayload unwraps a Pub/Sub push request into the raw msgpack bytes.
func readPushPayload(r *http.Request) ([]byte, error) {
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	log.Debug("Received push message", "path", r.URL.Path, "body", string(bodyBytes))

	var msg pushMessage
	if err := json.Unmarshal(bodyBytes, &msg); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	rawData, err := base64.StdEncoding.DecodeString(msg.Message.Data)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 data: %w", err)
	}
	return rawData, nil
}
