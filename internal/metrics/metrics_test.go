package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/ayusman/signspeak/internal/gesture"
	"github.com/ayusman/signspeak/internal/translator"
)

func TestObserveFrame(t *testing.T) {
	m := New()

	res := translator.FrameResult{
		Hands: []translator.HandResult{
			{Hand: "Left", Result: gesture.Result{Label: gesture.Fist, Confidence: 0.9}},
			{Hand: "Right", Result: gesture.Result{Label: gesture.None}},
		},
	}
	m.ObserveFrame(res, 5*time.Millisecond)
	m.ObserveFrame(translator.FrameResult{}, time.Millisecond)

	if got := testutil.ToFloat64(m.Frames); got != 2 {
		t.Errorf("frames = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Hands); got != 2 {
		t.Errorf("hands = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Classifications.WithLabelValues("fist")); got != 1 {
		t.Errorf("fist classifications = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Classifications.WithLabelValues("none")); got != 1 {
		t.Errorf("none classifications = %v, want 1", got)
	}
}

func TestObserveToken(t *testing.T) {
	m := New()
	m.ObserveToken(translator.Token{Text: "V", Gesture: gesture.Peace})
	m.ObserveToken(translator.Token{Text: "V", Gesture: gesture.Peace})
	m.ObserveToken(translator.Token{Text: "L", Gesture: gesture.LShape})

	if got := testutil.ToFloat64(m.Tokens.WithLabelValues("peace")); got != 2 {
		t.Errorf("peace tokens = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Tokens.WithLabelValues("L_shape")); got != 1 {
		t.Errorf("L_shape tokens = %v, want 1", got)
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.Clears.Inc()
	m.Clients.Store(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		"signspeak_clears_total 1",
		"signspeak_live_clients 3",
		"signspeak_frame_duration_seconds_bucket",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
