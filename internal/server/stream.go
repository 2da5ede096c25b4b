package server

import (
	"fmt"
	"net/http"
	"time"
)

// StreamInterval paces the MJPEG preview at roughly 15 FPS.
const StreamInterval = 66 * time.Millisecond

// FrameSource provides the most recent JPEG-encoded preview frame, or nil
// when none has been captured yet.
type FrameSource interface {
	LatestJPEG() []byte
}

// StreamHandler serves MJPEG frames from a FrameSource.
type StreamHandler struct {
	frames FrameSource
}

// NewStreamHandler creates a new StreamHandler with the given source.
func NewStreamHandler(frames FrameSource) *StreamHandler {
	return &StreamHandler{frames: frames}
}

// ServeHTTP streams MJPEG frames to connected clients.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(StreamInterval)
	defer ticker.Stop()

	var last []byte
	for {
		if buf := h.frames.LatestJPEG(); buf != nil && !sameFrame(buf, last) {
			if err := writePart(w, buf); err != nil {
				return
			}
			last = buf
		}

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

// sameFrame reports whether a and b are the same buffer. Sources hand out a
// new slice per frame, so identity is enough.
func sameFrame(a, b []byte) bool {
	return len(a) == len(b) && len(a) > 0 && &a[0] == &b[0]
}

func writePart(w http.ResponseWriter, buf []byte) error {
	if _, err := fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(buf)); err != nil {
		return err
	}
	if _, err := w.Write(buf); err != nil {
		return err
	}
	if _, err := fmt.Fprint(w, "\r\n"); err != nil {
		return err
	}
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}
