// Package api provides HTTP API handlers for the SignSpeak translator.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ayusman/signspeak/internal/detector"
	"github.com/ayusman/signspeak/internal/translator"
)

// Engine is the running translator as seen by the HTTP API.
type Engine interface {
	// Snapshot returns the current text, history and stats.
	Snapshot() translator.Snapshot
	// Clear empties the transcript and starts a new session.
	Clear()
	// Speak voices the current transcript.
	Speak(ctx context.Context) error
	// ProcessHands runs one frame of externally detected hands.
	ProcessHands(hands []detector.HandLandmarks) translator.FrameResult
	SetEnabled(enabled bool)
	IsEnabled() bool
	// SessionID identifies the session tokens are currently persisted under.
	SessionID() string
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// MethodNotAllowed replies 405 with a JSON body.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// NotFound replies 404 with a JSON body.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Not found")
}
