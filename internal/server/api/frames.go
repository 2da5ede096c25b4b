package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ayusman/signspeak/internal/detector"
)

// MaxHandsPerFrame caps how many hands one posted frame may carry.
const MaxHandsPerFrame = 4

// maxFrameBytes bounds a posted frame body; 4 hands of 21 points fit easily.
const maxFrameBytes = 64 << 10

// FramesHandler accepts landmark frames detected by a client, such as a
// browser running the hand tracker itself.
type FramesHandler struct {
	engine Engine
}

// NewFramesHandler creates a FramesHandler for engine.
func NewFramesHandler(e Engine) *FramesHandler {
	return &FramesHandler{engine: e}
}

type handRequest struct {
	Points     []detector.Point3D `json:"points"`
	Handedness string             `json:"handedness"`
	Score      float64            `json:"score"`
}

type frameRequest struct {
	Hands []handRequest `json:"hands"`
}

// toHands validates the request and converts it to landmark sets.
func (req *frameRequest) toHands() ([]detector.HandLandmarks, error) {
	if len(req.Hands) > MaxHandsPerFrame {
		return nil, fmt.Errorf("too many hands: %d, max %d", len(req.Hands), MaxHandsPerFrame)
	}

	hands := make([]detector.HandLandmarks, 0, len(req.Hands))
	for i, h := range req.Hands {
		if len(h.Points) != detector.NumLandmarks {
			return nil, fmt.Errorf("hand %d has %d points, want %d", i, len(h.Points), detector.NumLandmarks)
		}
		hands = append(hands, detector.MustHand(h.Points, h.Handedness, h.Score))
	}
	return hands, nil
}

// Create handles POST /api/frames. An empty hand list is a valid frame in
// which no hand was seen.
func (h *FramesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req frameRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFrameBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	hands, err := req.toHands()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, h.engine.ProcessHands(hands))
}
