package capture

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/signspeak/internal/detector"
)

// HandConnections are the landmark pairs joined when drawing a hand skeleton:
// each finger chained from the wrist to its tip.
var HandConnections = [][2]int{
	{detector.Wrist, detector.ThumbCMC}, {detector.ThumbCMC, detector.ThumbMCP}, {detector.ThumbMCP, detector.ThumbIP}, {detector.ThumbIP, detector.ThumbTip},
	{detector.Wrist, detector.IndexMCP}, {detector.IndexMCP, detector.IndexPIP}, {detector.IndexPIP, detector.IndexDIP}, {detector.IndexDIP, detector.IndexTip},
	{detector.Wrist, detector.MiddleMCP}, {detector.MiddleMCP, detector.MiddlePIP}, {detector.MiddlePIP, detector.MiddleDIP}, {detector.MiddleDIP, detector.MiddleTip},
	{detector.Wrist, detector.RingMCP}, {detector.RingMCP, detector.RingPIP}, {detector.RingPIP, detector.RingDIP}, {detector.RingDIP, detector.RingTip},
	{detector.Wrist, detector.PinkyMCP}, {detector.PinkyMCP, detector.PinkyPIP}, {detector.PinkyPIP, detector.PinkyDIP}, {detector.PinkyDIP, detector.PinkyTip},
}

var (
	boneColor  = color.RGBA{G: 255, A: 255}
	wristColor = color.RGBA{R: 255, A: 255}
)

// DrawHands draws the skeleton of every hand onto frame in place. Landmark
// coordinates are normalized, so they are scaled by the frame size.
func DrawHands(frame *gocv.Mat, hands []detector.HandLandmarks) {
	if frame == nil || frame.Empty() {
		return
	}
	w, h := float64(frame.Cols()), float64(frame.Rows())
	pt := func(p detector.Point3D) image.Point {
		return image.Pt(int(p.X*w), int(p.Y*h))
	}

	for i := range hands {
		points := &hands[i].Points
		for _, c := range HandConnections {
			gocv.Line(frame, pt(points[c[0]]), pt(points[c[1]]), boneColor, 2)
		}
		for j, p := range points {
			col := boneColor
			if j == detector.Wrist {
				col = wristColor
			}
			gocv.Circle(frame, pt(p), 4, col, -1)
		}
	}
}
