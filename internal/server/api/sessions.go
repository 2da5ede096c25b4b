package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/ayusman/signspeak/internal/store"
)

// SessionsHandler serves persisted sessions and their tokens.
type SessionsHandler struct {
	store  *store.Store
	engine Engine
}

// NewSessionsHandler creates a SessionsHandler with the given store. The
// engine, which may be nil, protects the session it is writing to.
func NewSessionsHandler(s *store.Store, e Engine) *SessionsHandler {
	return &SessionsHandler{store: s, engine: e}
}

type sessionResponse struct {
	ID        string  `json:"id"`
	StartedAt string  `json:"started_at"`
	EndedAt   *string `json:"ended_at"`
	Tokens    int     `json:"tokens"`
}

type listSessionsResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

type tokensResponse struct {
	SessionID string         `json:"session_id"`
	Tokens    []store.Token  `json:"tokens"`
	Counts    map[string]int `json:"counts"`
}

// toSessionResponse converts a store.Session to a sessionResponse.
func toSessionResponse(s *store.Session) sessionResponse {
	resp := sessionResponse{
		ID:        s.ID,
		StartedAt: s.StartedAt.Format(time.RFC3339),
		Tokens:    s.Tokens,
	}
	if s.EndedAt != nil {
		ended := s.EndedAt.Format(time.RFC3339)
		resp.EndedAt = &ended
	}
	return resp
}

// List handles GET /api/sessions and returns all sessions, newest first.
func (h *SessionsHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.store.Sessions().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	response := listSessionsResponse{
		Sessions: make([]sessionResponse, 0, len(sessions)),
	}
	for _, s := range sessions {
		response.Sessions = append(response.Sessions, toSessionResponse(s))
	}

	writeJSON(w, http.StatusOK, response)
}

// Tokens handles GET /api/sessions/{id}/tokens.
func (h *SessionsHandler) Tokens(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if _, err := h.store.Sessions().GetByID(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	tokens, err := h.store.Tokens().ListBySession(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list tokens")
		return
	}
	counts, err := h.store.Tokens().CountByGesture(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count tokens")
		return
	}

	if tokens == nil {
		tokens = []store.Token{}
	}
	writeJSON(w, http.StatusOK, tokensResponse{SessionID: id, Tokens: tokens, Counts: counts})
}

// DeleteTokens handles DELETE /api/sessions/{id}/tokens. The session itself
// is kept with an empty history.
func (h *SessionsHandler) DeleteTokens(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if h.engine != nil && h.engine.SessionID() == id {
		writeError(w, http.StatusConflict, "Session is active; clear the transcript first")
		return
	}

	if err := h.store.Tokens().DeleteBySession(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete tokens")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/sessions/{id}.
func (h *SessionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if h.engine != nil && h.engine.SessionID() == id {
		writeError(w, http.StatusConflict, "Session is active; clear the transcript first")
		return
	}

	if err := h.store.Sessions().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
