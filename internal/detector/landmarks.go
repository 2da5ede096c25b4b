// Package detector provides hand landmark types and the adapters that obtain them
// from an external hand-tracking model.
package detector

import (
	"fmt"
	"math"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D is one landmark in normalized image coordinates.
// X and Y are nominally in [0,1] with Y growing downward; Z is relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks reported for one detected hand.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left", "Right" or empty
	Score      float64               `json:"score"`
}

// MustHand builds a HandLandmarks from a slice of points.
// It panics if points does not hold exactly NumLandmarks entries; callers
// receiving data from outside the process should check the length first.
func MustHand(points []Point3D, handedness string, score float64) HandLandmarks {
	if len(points) != NumLandmarks {
		panic(fmt.Sprintf("detector: hand has %d landmarks, want %d", len(points), NumLandmarks))
	}
	h := HandLandmarks{Handedness: handedness, Score: score}
	copy(h.Points[:], points)
	return h
}

// Distance2D returns the Euclidean distance between a and b in the x-y plane.
func Distance2D(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}
