package api

import (
	"net/http"

	"github.com/nooreldeenmagdy/ai-chat-service/internal/session"
)

func handleListSessions(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Sessions == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "sessions_not_configured", "session store is not configured", false, nil)
		return
	}
	sessions := deps.Sessions.Sessions()
	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions, "count": len(sessions)})
}

func handleSessionHistory(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Sessions == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "sessions_not_configured", "session store is not configured", false, nil)
		return
	}
	id := r.PathValue("id")
	history := deps.Sessions.History(id)
	writeJSON(w, http.StatusOK, sessionHistoryResponse{SessionID: id, History: history})
}

func handleClearSession(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Sessions == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "sessions_not_configured", "session store is not configured", false, nil)
		return
	}
	id := r.PathValue("id")
	if !deps.Sessions.Clear(id) {
		writeError(r.Context(), w, http.StatusNotFound, "session_not_found", "session not found", false, map[string]any{"session_id": id})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"session_id": id, "cleared": true})
}

type sessionHistoryResponse struct {
	SessionID string           `json:"session_id"`
	History   []session.Record `json:"history"`
}
