package app

import (
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/signspeak/internal/capture"
	"github.com/ayusman/signspeak/internal/detector"
	"github.com/ayusman/signspeak/internal/translator"
)

// runPipeline reads, detects and translates one frame per camera tick until
// stop is closed.
//
// Each tick:
// 1. Skip if recognition is disabled
// 2. Read a frame and run hand detection
// 3. Feed the hands to the translator session
// 4. Draw the landmarks and keep the frame as the preview JPEG
func (a *App) runPipeline(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	fps := a.camera.FPS()
	if fps <= 0 {
		fps = capture.DefaultFPS
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}
			a.tick()
		}
	}
}

func (a *App) tick() {
	frame, err := a.camera.ReadFrame()
	if err != nil {
		a.frameError(err, "error reading frame")
		return
	}
	defer frame.Close()

	if _, err := a.ProcessFrame(frame); err != nil {
		a.frameError(err, "error detecting hands")
	}
}

func (a *App) frameError(err error, msg string) {
	a.log.WithError(err).Warn(msg)
	if a.metrics != nil {
		a.metrics.FrameErrors.Inc()
	}
}

// ProcessFrame detects the hands in frame, translates them and updates the
// preview. The frame is annotated in place.
func (a *App) ProcessFrame(frame *gocv.Mat) (translator.FrameResult, error) {
	start := time.Now()
	hands, err := a.detector.Detect(frame)
	if err != nil {
		return translator.FrameResult{}, err
	}

	res := a.processHands(hands, start)

	capture.DrawHands(frame, hands)
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		a.log.WithError(err).Debug("failed to encode preview")
		return res, nil
	}
	// The native buffer is released right away; the preview keeps a copy.
	a.setLatest(append([]byte(nil), buf.GetBytes()...))
	buf.Close()

	return res, nil
}

// ProcessHands translates one frame worth of already detected hands and
// notifies the frame listeners.
func (a *App) ProcessHands(hands []detector.HandLandmarks) translator.FrameResult {
	return a.processHands(hands, time.Now())
}

// processHands records the time from start, when the frame entered the
// pipeline, to its stabilized result.
func (a *App) processHands(hands []detector.HandLandmarks, start time.Time) translator.FrameResult {
	a.frameMu.Lock()
	res := a.session.ProcessFrame(hands)
	took := time.Since(start)
	a.frameMu.Unlock()

	if a.metrics != nil {
		a.metrics.ObserveFrame(res, took)
	}

	a.mu.RLock()
	listeners := a.onFrame
	a.mu.RUnlock()
	for _, fn := range listeners {
		fn(res)
	}

	return res
}
