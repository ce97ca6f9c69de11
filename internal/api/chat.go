package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/nooreldeenmagdy/ai-chat-service/internal/config"
	"github.com/nooreldeenmagdy/ai-chat-service/internal/pipeline"
)

const maxChatBodyBytes = 1 << 20

type chatRequest struct {
	SessionID string         `json:"session_id"`
	Message   string         `json:"message"`
	Context   map[string]any `json:"context"`
}

func handleChat(cfg config.Config, deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Pipeline == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "chat_not_configured", "chat pipeline is not configured", false, nil)
		return
	}

	var request chatRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxChatBodyBytes))
	if err := decoder.Decode(&request); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "invalid_json", "invalid chat request body", false, map[string]any{"details": err.Error()})
		return
	}

	message := strings.TrimSpace(request.Message)
	if message == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "invalid_request", "message is required", false, nil)
		return
	}
	if limit := cfg.HTTP.MaxMessageChars; limit > 0 && utf8.RuneCountInString(request.Message) > limit {
		writeError(r.Context(), w, http.StatusBadRequest, "invalid_request",
			fmt.Sprintf("message must be at most %d characters", limit), false,
			map[string]any{"max_chars": limit})
		return
	}

	sessionID := strings.TrimSpace(request.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	result := deps.Pipeline.Run(r.Context(), pipeline.Request{
		SessionID: sessionID,
		Message:   message,
		Context:   request.Context,
	})
	writeJSON(w, http.StatusOK, result)
}
