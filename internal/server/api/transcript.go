package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ayusman/signspeak/internal/translator"
)

// SpeakTimeout bounds a speak request. The speaker applies its own, usually
// shorter, deadline inside it.
const SpeakTimeout = 2 * time.Minute

// TranscriptHandler exposes the live transcript.
type TranscriptHandler struct {
	engine Engine
	log    *logrus.Entry
}

// NewTranscriptHandler creates a TranscriptHandler for engine.
func NewTranscriptHandler(e Engine) *TranscriptHandler {
	return &TranscriptHandler{
		engine: e,
		log:    logrus.WithField("component", "api.transcript"),
	}
}

type transcriptResponse struct {
	SessionID string             `json:"session_id"`
	Text      string             `json:"text"`
	History   []translator.Token `json:"history"`
	Stats     translator.Stats   `json:"stats"`
	Enabled   bool               `json:"enabled"`
}

type detectionRequest struct {
	Enabled *bool `json:"enabled"`
}

type detectionResponse struct {
	Enabled bool `json:"enabled"`
}

// Get handles GET /api/transcript.
func (h *TranscriptHandler) Get(w http.ResponseWriter, r *http.Request) {
	snap := h.engine.Snapshot()
	if snap.History == nil {
		snap.History = []translator.Token{}
	}

	writeJSON(w, http.StatusOK, transcriptResponse{
		SessionID: h.engine.SessionID(),
		Text:      snap.Text,
		History:   snap.History,
		Stats:     snap.Stats,
		Enabled:   h.engine.IsEnabled(),
	})
}

// Clear handles DELETE /api/transcript.
func (h *TranscriptHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.engine.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// Speak handles POST /api/transcript/speak.
func (h *TranscriptHandler) Speak(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), SpeakTimeout)
	defer cancel()

	if err := h.engine.Speak(ctx); err != nil {
		h.log.WithError(err).Warn("speak failed")
		writeError(w, http.StatusInternalServerError, "Failed to speak transcript")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetDetection handles GET /api/detection.
func (h *TranscriptHandler) GetDetection(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, detectionResponse{Enabled: h.engine.IsEnabled()})
}

// SetDetection handles PUT /api/detection.
func (h *TranscriptHandler) SetDetection(w http.ResponseWriter, r *http.Request) {
	var req detectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Enabled == nil {
		writeError(w, http.StatusBadRequest, "enabled is required")
		return
	}

	h.engine.SetEnabled(*req.Enabled)
	writeJSON(w, http.StatusOK, detectionResponse{Enabled: h.engine.IsEnabled()})
}
