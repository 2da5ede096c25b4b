package gesture

import (
	"math"

	"github.com/ayusman/signspeak/internal/detector"
)

// Geometry thresholds, in normalized image units.
const (
	// CurlTolerance treats a fingertip within this height of its PIP as curled.
	CurlTolerance = 0.02
	// PinchDistance is the largest thumb-to-index tip gap that counts as touching.
	PinchDistance = 0.05
)

// Result is the classification of one hand in one frame.
type Result struct {
	Label      Label   `json:"label"`
	Confidence float64 `json:"confidence"`
}

// FingerState holds the two independent flags computed for a non-thumb finger.
// Both may be set, or neither, for ambiguous poses.
type FingerState struct {
	Extended bool `json:"extended"`
	Curled   bool `json:"curled"`
}

// Analysis is the geometric breakdown the classifier rules are evaluated on.
type Analysis struct {
	ThumbExtended      bool        `json:"thumb_extended"`
	Index              FingerState `json:"index"`
	Middle             FingerState `json:"middle"`
	Ring               FingerState `json:"ring"`
	Pinky              FingerState `json:"pinky"`
	ExtendedCount      int         `json:"extended_count"`
	CurledCount        int         `json:"curled_count"`
	ThumbIndexDistance float64     `json:"thumb_index_distance"`
}

// finger joint indices used by the extension and curl tests
type finger struct {
	mcp, pip, tip int
}

var (
	indexFinger  = finger{detector.IndexMCP, detector.IndexPIP, detector.IndexTip}
	middleFinger = finger{detector.MiddleMCP, detector.MiddlePIP, detector.MiddleTip}
	ringFinger   = finger{detector.RingMCP, detector.RingPIP, detector.RingTip}
	pinkyFinger  = finger{detector.PinkyMCP, detector.PinkyPIP, detector.PinkyTip}
)

// Classify maps one hand to a gesture label. It is pure and always returns a
// result; Label is None when no rule matches. hand must not be nil.
func Classify(hand *detector.HandLandmarks) Result {
	return classify(Analyze(hand))
}

// Explain returns the classification together with the analysis that produced it.
func Explain(hand *detector.HandLandmarks) (Result, Analysis) {
	a := Analyze(hand)
	return classify(a), a
}

// Analyze computes the per-finger flags, counts and thumb/index distance.
func Analyze(hand *detector.HandLandmarks) Analysis {
	if hand == nil {
		panic("gesture: Analyze called with nil hand")
	}
	p := &hand.Points

	a := Analysis{
		ThumbExtended:      thumbExtended(p),
		Index:              fingerState(p, indexFinger),
		Middle:             fingerState(p, middleFinger),
		Ring:               fingerState(p, ringFinger),
		Pinky:              fingerState(p, pinkyFinger),
		ThumbIndexDistance: detector.Distance2D(p[detector.ThumbTip], p[detector.IndexTip]),
	}
	for _, f := range []FingerState{a.Index, a.Middle, a.Ring, a.Pinky} {
		if f.Extended {
			a.ExtendedCount++
		}
		if f.Curled {
			a.CurledCount++
		}
	}
	return a
}

// classify applies the rules in priority order; the first match wins.
func classify(a Analysis) Result {
	switch {
	case a.ThumbExtended && a.CurledCount >= 3 && a.ExtendedCount <= 1:
		return Result{Label: ThumbsUp, Confidence: 0.90}

	case a.CurledCount >= 4 && a.ExtendedCount == 0:
		return Result{Label: Fist, Confidence: 0.90}

	case a.Index.Extended && a.Middle.Extended && a.Ring.Curled && a.Pinky.Curled && a.ExtendedCount == 2:
		return Result{Label: Peace, Confidence: 0.85}

	case a.Index.Extended && a.Middle.Curled && a.Ring.Curled && a.Pinky.Curled && a.ExtendedCount == 1:
		return Result{Label: Pointing, Confidence: 0.80}

	case a.ExtendedCount >= 4:
		return Result{Label: OpenPalm, Confidence: 0.85}

	case a.ThumbExtended && a.Index.Extended && a.Middle.Curled && a.Ring.Curled && a.Pinky.Curled:
		return Result{Label: LShape, Confidence: 0.80}

	case a.ThumbIndexDistance < PinchDistance && a.Middle.Extended && a.Ring.Extended && a.Pinky.Extended:
		return Result{Label: OKSign, Confidence: 0.80}
	}
	return Result{Label: None, Confidence: 0}
}

// fingerState evaluates the vertical extension and curl tests. Smaller y is
// higher in the image, so the tests only hold for an upright hand.
func fingerState(p *[detector.NumLandmarks]detector.Point3D, f finger) FingerState {
	tipY, pipY, mcpY := p[f.tip].Y, p[f.pip].Y, p[f.mcp].Y
	return FingerState{
		Extended: tipY < pipY && pipY < mcpY,
		Curled:   tipY >= pipY || math.Abs(tipY-pipY) < CurlTolerance,
	}
}

// thumbExtended accepts a monotonic progression tip/IP/MCP either sideways
// (both hands) or upward.
func thumbExtended(p *[detector.NumLandmarks]detector.Point3D) bool {
	tip, ip, mcp := p[detector.ThumbTip], p[detector.ThumbIP], p[detector.ThumbMCP]

	right := tip.X > ip.X && ip.X > mcp.X
	left := tip.X < ip.X && ip.X < mcp.X
	up := tip.Y < ip.Y && ip.Y < mcp.Y

	return right || left || up
}
