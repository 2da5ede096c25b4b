package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls reports how many times Detect has been called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Finger joint heights used by the pose fixtures below.
var (
	// tip above PIP above MCP, far apart: extended, not curled
	extendedFinger = [4]float64{0.70, 0.58, 0.48, 0.38}
	// tip below PIP: curled, not extended
	curledFinger = [4]float64{0.70, 0.66, 0.70, 0.72}
	// tip barely above PIP, PIP above MCP: both extended and curled
	ambiguousFinger = [4]float64{0.70, 0.66, 0.655, 0.65}
	// PIP below MCP, tip well above PIP: neither extended nor curled
	relaxedFinger = [4]float64{0.60, 0.70, 0.67, 0.64}
)

// setFinger places the four joints of the finger starting at base (an MCP index)
// at x with the given heights.
func setFinger(h *HandLandmarks, base int, x float64, ys [4]float64) {
	for i := 0; i < 4; i++ {
		h.Points[base+i] = Point3D{X: x, Y: ys[i], Z: -0.02 * float64(i)}
	}
}

// tuckThumb folds the thumb across the palm so that none of the thumb
// extension tests hold.
func tuckThumb(h *HandLandmarks) {
	h.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.76, Z: 0.0}
	h.Points[ThumbMCP] = Point3D{X: 0.58, Y: 0.72, Z: 0.0}
	h.Points[ThumbIP] = Point3D{X: 0.62, Y: 0.68, Z: 0.0}
	h.Points[ThumbTip] = Point3D{X: 0.57, Y: 0.70, Z: 0.0}
}

// sideThumb extends the thumb outward to the right.
func sideThumb(h *HandLandmarks) {
	h.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.0}
	h.Points[ThumbMCP] = Point3D{X: 0.60, Y: 0.70, Z: 0.0}
	h.Points[ThumbIP] = Point3D{X: 0.65, Y: 0.68, Z: 0.0}
	h.Points[ThumbTip] = Point3D{X: 0.70, Y: 0.66, Z: 0.0}
}

func newPose(index, middle, ring, pinky [4]float64) HandLandmarks {
	h := HandLandmarks{Handedness: "Right", Score: 0.95}
	h.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}
	setFinger(&h, IndexMCP, 0.55, index)
	setFinger(&h, MiddleMCP, 0.50, middle)
	setFinger(&h, RingMCP, 0.45, ring)
	setFinger(&h, PinkyMCP, 0.40, pinky)
	return h
}

// ThumbsUpLandmarks returns a preset HandLandmarks representing a thumbs up gesture.
// The thumb is extended upward while other fingers are curled.
func ThumbsUpLandmarks() HandLandmarks {
	landmarks := newPose(curledFinger, curledFinger, curledFinger, curledFinger)

	landmarks.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.0}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.58, Y: 0.65, Z: 0.0}
	landmarks.Points[ThumbIP] = Point3D{X: 0.58, Y: 0.50, Z: 0.0}
	landmarks.Points[ThumbTip] = Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	return landmarks
}

// FistLandmarks returns a closed fist with the thumb folded over the fingers.
func FistLandmarks() HandLandmarks {
	landmarks := newPose(curledFinger, curledFinger, curledFinger, curledFinger)
	tuckThumb(&landmarks)
	return landmarks
}

// PeaceLandmarks returns index and middle extended, ring and pinky curled.
func PeaceLandmarks() HandLandmarks {
	landmarks := newPose(extendedFinger, extendedFinger, curledFinger, curledFinger)
	tuckThumb(&landmarks)
	return landmarks
}

// PointingLandmarks returns only the index finger extended.
func PointingLandmarks() HandLandmarks {
	landmarks := newPose(extendedFinger, curledFinger, curledFinger, curledFinger)
	tuckThumb(&landmarks)
	return landmarks
}

// LShapeLandmarks returns thumb and index extended with the remaining fingers
// curled. The ring finger sits right at its PIP height so it also reads as
// extended; with a cleanly curled ring finger the pose is a thumbs up.
func LShapeLandmarks() HandLandmarks {
	landmarks := newPose(extendedFinger, curledFinger, ambiguousFinger, curledFinger)
	sideThumb(&landmarks)
	return landmarks
}

// OKSignLandmarks returns thumb and index tips touching with the other three
// fingers extended.
func OKSignLandmarks() HandLandmarks {
	landmarks := newPose(curledFinger, extendedFinger, extendedFinger, extendedFinger)

	landmarks.Points[IndexMCP] = Point3D{X: 0.60, Y: 0.62, Z: 0.0}
	landmarks.Points[IndexPIP] = Point3D{X: 0.64, Y: 0.52, Z: -0.02}
	landmarks.Points[IndexDIP] = Point3D{X: 0.66, Y: 0.56, Z: -0.03}
	landmarks.Points[IndexTip] = Point3D{X: 0.64, Y: 0.60, Z: -0.02}

	landmarks.Points[ThumbCMC] = Point3D{X: 0.54, Y: 0.76, Z: 0.0}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.58, Y: 0.72, Z: 0.0}
	landmarks.Points[ThumbIP] = Point3D{X: 0.63, Y: 0.66, Z: 0.0}
	landmarks.Points[ThumbTip] = Point3D{X: 0.65, Y: 0.61, Z: -0.02}

	return landmarks
}

// OpenPalmLandmarks returns a preset HandLandmarks representing an open palm gesture.
// All fingers are extended outward.
func OpenPalmLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	landmarks.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	landmarks.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	landmarks.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	landmarks.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	landmarks.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.55, Z: 0.0}
	landmarks.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.45, Z: 0.0}
	landmarks.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	landmarks.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66, Z: 0.0}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52, Z: 0.0}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.40, Z: 0.0}
	landmarks.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.28, Z: 0.0}

	landmarks.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68, Z: 0.0}
	landmarks.Points[RingPIP] = Point3D{X: 0.43, Y: 0.55, Z: 0.0}
	landmarks.Points[RingDIP] = Point3D{X: 0.42, Y: 0.45, Z: 0.0}
	landmarks.Points[RingTip] = Point3D{X: 0.42, Y: 0.35, Z: 0.0}

	landmarks.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70, Z: 0.0}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.37, Y: 0.60, Z: 0.0}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.35, Y: 0.50, Z: 0.0}
	landmarks.Points[PinkyTip] = Point3D{X: 0.34, Y: 0.42, Z: 0.0}

	return landmarks
}

// NeutralLandmarks returns a loosely relaxed hand: every fingertip sits above
// its PIP joint while the PIP hangs below the knuckle, so no finger reads as
// extended or curled and no gesture matches.
func NeutralLandmarks() HandLandmarks {
	landmarks := newPose(relaxedFinger, relaxedFinger, relaxedFinger, relaxedFinger)
	tuckThumb(&landmarks)
	return landmarks
}
